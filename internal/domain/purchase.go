package domain

import "time"

// PurchaseStatus is the lifecycle state of a package purchase request
type PurchaseStatus string

const (
	PurchaseStatusPending  PurchaseStatus = "pending"
	PurchaseStatusApproved PurchaseStatus = "approved"
	PurchaseStatusRejected PurchaseStatus = "rejected"
)

// PackagePurchaseRequest is a claim on a MealPackage awaiting admin review.
// Payment happens out of band (bank transfer to the package QR code).
type PackagePurchaseRequest struct {
	ID          string           `json:"_id"`
	User        Ref[User]        `json:"userId"`
	MealPackage Ref[MealPackage] `json:"mealPackageId"`
	Status      PurchaseStatus   `json:"status"`
	RequestedAt time.Time        `json:"requestedAt"`
	ProcessedAt *time.Time       `json:"processedAt,omitempty"`
}

// IsTerminal reports whether the request was already approved or rejected
func (s PurchaseStatus) IsTerminal() bool {
	return s == PurchaseStatusApproved || s == PurchaseStatusRejected
}

// CanTransition reports whether the request may move to the given status
func (r *PackagePurchaseRequest) CanTransition(to PurchaseStatus) bool {
	if r.Status != PurchaseStatusPending {
		return false
	}
	return to == PurchaseStatusApproved || to == PurchaseStatusRejected
}

// PendingRequests filters requests still waiting for an admin
func PendingRequests(requests []PackagePurchaseRequest) []PackagePurchaseRequest {
	pending := make([]PackagePurchaseRequest, 0, len(requests))
	for _, r := range requests {
		if r.Status == PurchaseStatusPending {
			pending = append(pending, r)
		}
	}
	return pending
}
