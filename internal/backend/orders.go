package backend

import (
	"context"
	"net/http"

	"github.com/mansoorceksport/mealturn/internal/domain"
)

// MyOrders returns the user's order history
func (c *Client) MyOrders(ctx context.Context) ([]domain.Order, error) {
	return list(call[[]domain.Order](ctx, c, http.MethodGet, "/orders/my", nil, nil))
}

// MyTodayOrder returns today's order, or nil when none was placed
func (c *Client) MyTodayOrder(ctx context.Context) (*domain.Order, error) {
	env, err := call[domain.Order](ctx, c, http.MethodGet, "/orders/today", nil, nil)
	if err != nil {
		return nil, err
	}
	return env.Data, nil
}

// CreateOrder submits every selected dish in one request. It returns the
// created order and the backend's confirmation message.
func (c *Client) CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (*domain.Order, string, error) {
	env, err := call[domain.Order](ctx, c, http.MethodPost, "/orders", nil, req)
	if err != nil {
		return nil, "", err
	}
	return env.Data, env.Message, nil
}

// OrdersByDate returns a day's menu with all orders against it (admin).
// date is formatted YYYY-MM-DD.
func (c *Client) OrdersByDate(ctx context.Context, date string) (*domain.DayOrders, error) {
	env, err := call[domain.DayOrders](ctx, c, http.MethodGet, "/orders/by-date/"+escape(date), nil, nil)
	if err != nil {
		return nil, err
	}
	if env.Data == nil {
		return &domain.DayOrders{}, nil
	}
	return env.Data, nil
}

// ConfirmAllOrders marks every order of a menu as confirmed (admin)
func (c *Client) ConfirmAllOrders(ctx context.Context, menuID string) (*domain.ConfirmResult, error) {
	body := map[string]string{"menuId": menuID}
	return data(call[domain.ConfirmResult](ctx, c, http.MethodPost, "/orders/confirm-all", nil, body))
}

// CopyText returns the kitchen order list of a menu (admin)
func (c *Client) CopyText(ctx context.Context, menuID string) (*domain.CopyText, error) {
	return data(call[domain.CopyText](ctx, c, http.MethodGet, "/orders/copy-text/"+escape(menuID), nil, nil))
}
