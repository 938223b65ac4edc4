package ordering

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/mansoorceksport/mealturn/internal/domain"
)

// MaxNoteLength caps the free-text note of a single dish
const MaxNoteLength = 200

// Selection is the in-progress order of one user. Items keep the order in
// which they were picked.
type Selection struct {
	MenuID string             `json:"menuId,omitempty"`
	Type   domain.PackageType `json:"type"`
	Items  []string           `json:"items"`
	Notes  map[string]string  `json:"notes,omitempty"`
}

// NewSelection starts an empty normal-type selection
func NewSelection() *Selection {
	return &Selection{Type: domain.PackageTypeNormal}
}

// Has reports whether a menu item is selected
func (s *Selection) Has(itemID string) bool {
	return slices.Contains(s.Items, itemID)
}

// Count is the number of selected dishes
func (s *Selection) Count() int {
	return len(s.Items)
}

// Note returns the note attached to a selected item
func (s *Selection) Note(itemID string) string {
	return s.Notes[itemID]
}

// Toggle selects an item, or deselects it and drops its note
func (s *Selection) Toggle(itemID string) {
	if itemID == "" {
		return
	}
	if i := slices.Index(s.Items, itemID); i >= 0 {
		s.Items = slices.Delete(s.Items, i, i+1)
		delete(s.Notes, itemID)
		return
	}
	s.Items = append(s.Items, itemID)
}

// SetNote attaches a note to a selected item. Notes on unselected items are
// ignored and an empty note removes the entry.
func (s *Selection) SetNote(itemID, note string) {
	if !s.Has(itemID) {
		return
	}
	note = strings.TrimSpace(note)
	if utf8.RuneCountInString(note) > MaxNoteLength {
		note = string([]rune(note)[:MaxNoteLength])
	}
	if note == "" {
		delete(s.Notes, itemID)
		return
	}
	if s.Notes == nil {
		s.Notes = make(map[string]string)
	}
	s.Notes[itemID] = note
}

// SwitchType changes the order type and always discards the picked items
// and notes.
func (s *Selection) SwitchType(t domain.PackageType) {
	s.Type = t.Normalize()
	s.clear()
}

// SwitchMenu moves to another of today's menus and discards the picked items
// and notes.
func (s *Selection) SwitchMenu(menuID string) {
	s.MenuID = menuID
	s.clear()
}

func (s *Selection) clear() {
	s.Items = nil
	s.Notes = nil
}

// Lines builds the (item, note) pairs of the submission
func (s *Selection) Lines() []domain.OrderLine {
	lines := make([]domain.OrderLine, 0, len(s.Items))
	for _, id := range s.Items {
		lines = append(lines, domain.OrderLine{MenuItemID: id, Note: s.Notes[id]})
	}
	return lines
}

// Request builds the single atomic order-creation request
func (s *Selection) Request() domain.CreateOrderRequest {
	return domain.CreateOrderRequest{
		Items:     s.Lines(),
		OrderType: s.Type.Normalize(),
	}
}

// retain drops selected items that are not on the menu
func (s *Selection) retain(menu *domain.DailyMenu) {
	known := make(map[string]struct{}, len(menu.MenuItems))
	for _, item := range menu.MenuItems {
		known[item.ID] = struct{}{}
	}
	kept := s.Items[:0]
	for _, id := range s.Items {
		if _, ok := known[id]; ok {
			kept = append(kept, id)
			continue
		}
		delete(s.Notes, id)
	}
	s.Items = kept
}
