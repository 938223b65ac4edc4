package domain

import "time"

// MenuCategory groups dishes on a daily menu
type MenuCategory string

const (
	MenuCategoryNew     MenuCategory = "new"
	MenuCategoryDaily   MenuCategory = "daily"
	MenuCategorySpecial MenuCategory = "special"
	MenuCategoryOther   MenuCategory = "other"
)

// Label returns the heading shown above a category group
func (c MenuCategory) Label() string {
	switch c {
	case MenuCategoryNew:
		return "☆ Món mới"
	case MenuCategoryDaily:
		return "▪︎ Món mỗi ngày"
	case MenuCategorySpecial:
		return "★ Món đặc biệt"
	default:
		return "Món khác"
	}
}

// DailyMenu is one ordering window of a day
type DailyMenu struct {
	ID         string     `json:"_id"`
	MenuDate   time.Time  `json:"menuDate"`
	RawContent string     `json:"rawContent"`
	BeginAt    string     `json:"beginAt"`
	EndAt      string     `json:"endAt"`
	IsLocked   bool       `json:"isLocked"`
	MenuItems  []MenuItem `json:"menuItems,omitempty"`
	CanOrder   *bool      `json:"canOrder,omitempty"`
}

// MenuItem is a dish offered on a daily menu
type MenuItem struct {
	ID          string       `json:"_id"`
	DailyMenuID string       `json:"dailyMenuId"`
	Name        string       `json:"name"`
	Category    MenuCategory `json:"category"`
}

// MenuDraft is posted to create a daily menu from raw text
type MenuDraft struct {
	RawContent string `json:"rawContent" validate:"required"`
	MenuDate   string `json:"menuDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	BeginAt    string `json:"beginAt,omitempty" validate:"omitempty,datetime=15:04"`
	EndAt      string `json:"endAt,omitempty" validate:"omitempty,datetime=15:04"`
}

// MenuUpdate is put to change an existing daily menu
type MenuUpdate struct {
	RawContent *string `json:"rawContent,omitempty"`
	BeginAt    *string `json:"beginAt,omitempty" validate:"omitempty,datetime=15:04"`
	EndAt      *string `json:"endAt,omitempty" validate:"omitempty,datetime=15:04"`
	IsLocked   *bool   `json:"isLocked,omitempty"`
}

// CreatedMenu is returned after creating a daily menu
type CreatedMenu struct {
	Menu      DailyMenu  `json:"menu"`
	MenuItems []MenuItem `json:"menuItems"`
}
