package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Ref is a reference field the backend either populates with the full
// document or leaves as a bare id string.
type Ref[T any] struct {
	ID    string
	Value *T
}

// UnmarshalJSON accepts "id", null or a populated object carrying "_id"
func (r *Ref[T]) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*r = Ref[T]{}
		return nil
	}

	if data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return fmt.Errorf("failed to decode reference id: %w", err)
		}
		*r = Ref[T]{ID: id}
		return nil
	}

	var head struct {
		ID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return fmt.Errorf("failed to decode reference: %w", err)
	}

	value := new(T)
	if err := json.Unmarshal(data, value); err != nil {
		return fmt.Errorf("failed to decode populated reference: %w", err)
	}

	*r = Ref[T]{ID: head.ID, Value: value}
	return nil
}

// MarshalJSON writes the populated value when present, the id otherwise
func (r Ref[T]) MarshalJSON() ([]byte, error) {
	if r.Value != nil {
		return json.Marshal(r.Value)
	}
	if r.ID == "" {
		return []byte("null"), nil
	}
	return json.Marshal(r.ID)
}

// Populated reports whether the backend sent the full document
func (r Ref[T]) Populated() bool {
	return r.Value != nil
}
