package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mansoorceksport/mealturn/internal/domain"
)

// ListMealPackages returns the catalog; nil active lists every package
func (c *Client) ListMealPackages(ctx context.Context, active *bool) ([]domain.MealPackage, error) {
	q := url.Values{}
	if active != nil {
		q.Set("isActive", strconv.FormatBool(*active))
	}
	return list(call[[]domain.MealPackage](ctx, c, http.MethodGet, "/meal-packages", q, nil))
}

// GetMealPackage returns one catalog entry
func (c *Client) GetMealPackage(ctx context.Context, id string) (*domain.MealPackage, error) {
	return data(call[domain.MealPackage](ctx, c, http.MethodGet, "/meal-packages/"+escape(id), nil, nil))
}

// CreateMealPackage adds a catalog entry (admin)
func (c *Client) CreateMealPackage(ctx context.Context, pkg domain.MealPackage) (*domain.MealPackage, error) {
	return data(call[domain.MealPackage](ctx, c, http.MethodPost, "/meal-packages", nil, mealPackageBody(pkg)))
}

// UpdateMealPackage replaces a catalog entry (admin)
func (c *Client) UpdateMealPackage(ctx context.Context, id string, pkg domain.MealPackage) (*domain.MealPackage, error) {
	return data(call[domain.MealPackage](ctx, c, http.MethodPut, "/meal-packages/"+escape(id), nil, mealPackageBody(pkg)))
}

// DeleteMealPackage removes a catalog entry (admin)
func (c *Client) DeleteMealPackage(ctx context.Context, id string) (string, error) {
	return message(call[Empty](ctx, c, http.MethodDelete, "/meal-packages/"+escape(id), nil, nil))
}

func mealPackageBody(pkg domain.MealPackage) map[string]interface{} {
	return map[string]interface{}{
		"name":        pkg.Name,
		"turns":       pkg.Turns,
		"price":       pkg.Price,
		"validDays":   pkg.ValidDays,
		"packageType": pkg.PackageType.Normalize(),
		"qrCodeImage": pkg.QRCodeImage,
		"isActive":    pkg.IsActive,
	}
}

// MyPurchaseRequests returns the signed-in user's purchase requests
func (c *Client) MyPurchaseRequests(ctx context.Context) ([]domain.PackagePurchaseRequest, error) {
	return list(call[[]domain.PackagePurchaseRequest](ctx, c, http.MethodGet, "/package-purchases/my", nil, nil))
}

// RequestPurchase asks an admin to grant a package once payment arrives
func (c *Client) RequestPurchase(ctx context.Context, mealPackageID string) (*domain.PackagePurchaseRequest, error) {
	body := map[string]string{"mealPackageId": mealPackageID}
	return data(call[domain.PackagePurchaseRequest](ctx, c, http.MethodPost, "/package-purchases", nil, body))
}

// ListPurchaseRequests returns requests, optionally filtered by status (admin)
func (c *Client) ListPurchaseRequests(ctx context.Context, status domain.PurchaseStatus) ([]domain.PackagePurchaseRequest, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", string(status))
	}
	return list(call[[]domain.PackagePurchaseRequest](ctx, c, http.MethodGet, "/package-purchases", q, nil))
}

// ApprovePurchase grants the package to the requester (admin)
func (c *Client) ApprovePurchase(ctx context.Context, id string) (string, error) {
	return message(call[Empty](ctx, c, http.MethodPost, "/package-purchases/"+escape(id)+"/approve", nil, nil))
}

// RejectPurchase declines a request (admin)
func (c *Client) RejectPurchase(ctx context.Context, id string) (string, error) {
	return message(call[Empty](ctx, c, http.MethodPost, "/package-purchases/"+escape(id)+"/reject", nil, nil))
}

// MyPackages returns every package the user owns
func (c *Client) MyPackages(ctx context.Context) ([]domain.UserPackage, error) {
	return list(call[[]domain.UserPackage](ctx, c, http.MethodGet, "/user-packages/my", nil, nil))
}

// MyActivePackages returns the packages that can still pay for an order
func (c *Client) MyActivePackages(ctx context.Context) ([]domain.UserPackage, error) {
	return list(call[[]domain.UserPackage](ctx, c, http.MethodGet, "/user-packages/my/active", nil, nil))
}

// SetActivePackage makes a package the user's default
func (c *Client) SetActivePackage(ctx context.Context, id string) (*domain.UserPackage, error) {
	return data(call[domain.UserPackage](ctx, c, http.MethodPost, "/user-packages/"+escape(id)+"/set-active", nil, nil))
}
