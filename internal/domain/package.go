package domain

import "time"

// PackageType separates rice and dish-only turns
type PackageType string

const (
	PackageTypeNormal PackageType = "normal"
	PackageTypeNoRice PackageType = "no-rice"
)

// Normalize treats a missing or unknown type as normal
func (t PackageType) Normalize() PackageType {
	if t == PackageTypeNoRice {
		return PackageTypeNoRice
	}
	return PackageTypeNormal
}

// ParsePackageType converts form input into a package type
func ParsePackageType(s string) PackageType {
	return PackageType(s).Normalize()
}

// Label returns the display name shown on tabs and badges
func (t PackageType) Label() string {
	if t.Normalize() == PackageTypeNoRice {
		return "Không cơm"
	}
	return "Có cơm"
}

// MealPackage is a purchasable bundle of turns
type MealPackage struct {
	ID          string      `json:"_id"`
	Name        string      `json:"name" validate:"required,max=100"`
	Turns       int         `json:"turns" validate:"required,min=1"`
	Price       int64       `json:"price" validate:"min=0"`
	ValidDays   int         `json:"validDays" validate:"required,min=1"`
	PackageType PackageType `json:"packageType" validate:"required,oneof=normal no-rice"`
	QRCodeImage string      `json:"qrCodeImage,omitempty" validate:"omitempty,url"`
	IsActive    bool        `json:"isActive"`
	CreatedAt   *time.Time  `json:"createdAt,omitempty"`
}

// PricePerTurn is the rounded price of a single turn
func (p *MealPackage) PricePerTurn() int64 {
	if p.Turns <= 0 {
		return 0
	}
	return (p.Price + int64(p.Turns)/2) / int64(p.Turns)
}

// UserPackage is one purchased instance of a MealPackage
type UserPackage struct {
	ID             string           `json:"_id"`
	UserID         string           `json:"userId"`
	MealPackage    Ref[MealPackage] `json:"mealPackageId"`
	PackageType    PackageType      `json:"packageType"`
	RemainingTurns int              `json:"remainingTurns"`
	PurchasedAt    time.Time        `json:"purchasedAt"`
	ExpiresAt      time.Time        `json:"expiresAt"`
	IsActive       bool             `json:"isActive"`
}

// IsUsable reports whether the package can still pay for an order at now
func (p *UserPackage) IsUsable(now time.Time) bool {
	return p.IsActive && p.RemainingTurns > 0 && now.Before(p.ExpiresAt)
}

// RemainingPercent is the share of turns still left, for progress bars
func (p *UserPackage) RemainingPercent() int {
	if p.MealPackage.Value == nil || p.MealPackage.Value.Turns <= 0 {
		return 0
	}
	pct := p.RemainingTurns * 100 / p.MealPackage.Value.Turns
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}
