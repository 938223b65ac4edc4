package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const keyPrefix = "session:"

// ErrSessionNotFound is returned when the id is unknown or expired
var ErrSessionNotFound = errors.New("session not found")

// Store persists sessions in Redis
type Store struct {
	client          *redis.Client
	ttl             time.Duration
	revalidateAfter time.Duration
	now             func() time.Time
}

// NewStore creates a store. Sessions live for ttl unless the backend token
// expires sooner; a signed-in session is re-checked against the backend
// once revalidateAfter has passed since the last check.
func NewStore(client *redis.Client, ttl, revalidateAfter time.Duration) *Store {
	return &Store{
		client:          client,
		ttl:             ttl,
		revalidateAfter: revalidateAfter,
		now:             time.Now,
	}
}

// New returns a fresh anonymous session. It is not saved until it holds
// something worth keeping.
func (s *Store) New() *Session {
	now := s.now()
	return &Session{
		ID:        ulid.Make().String(),
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
}

// Expiry returns when a session holding token must end
func (s *Store) Expiry(token string) time.Time {
	expires := s.now().Add(s.ttl)
	if exp, ok := tokenExpiry(token); ok && exp.Before(expires) {
		return exp
	}
	return expires
}

// Load fetches a session. A signed-in session due for revalidation comes
// back with IsLoading set.
func (s *Store) Load(ctx context.Context, id string) (*Session, error) {
	tracer := otel.Tracer("redis")
	ctx, span := tracer.Start(ctx, "session.Load")
	defer span.End()

	if id == "" {
		return nil, ErrSessionNotFound
	}

	data, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			span.SetAttributes(attribute.String("session.result", "miss"))
			return nil, ErrSessionNotFound
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	now := s.now()
	if !now.Before(sess.ExpiresAt) {
		_ = s.client.Del(ctx, keyPrefix+id).Err()
		return nil, ErrSessionNotFound
	}

	if sess.Token != "" && now.Sub(sess.ValidatedAt) >= s.revalidateAfter {
		sess.IsLoading = true
	}

	span.SetAttributes(attribute.String("session.result", "hit"))
	return &sess, nil
}

// Save writes the session, or removes it when it holds nothing
func (s *Store) Save(ctx context.Context, sess *Session) error {
	tracer := otel.Tracer("redis")
	ctx, span := tracer.Start(ctx, "session.Save",
		trace.WithAttributes(attribute.Bool("session.authenticated", sess.IsAuthenticated)),
	)
	defer span.End()

	if !sess.Persistent() {
		return s.Delete(ctx, sess.ID)
	}

	ttl := sess.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return s.Delete(ctx, sess.ID)
	}

	data, err := json.Marshal(sess)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+sess.ID, data, ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Delete removes a session
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
