package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mansoorceksport/mealturn/internal/domain"
)

// Dashboard returns the admin landing counters
func (c *Client) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	return data(call[domain.DashboardStats](ctx, c, http.MethodGet, "/statistics/dashboard", nil, nil))
}

// Revenue returns revenue for a period (day, week, month, year)
func (c *Client) Revenue(ctx context.Context, rq domain.RevenueQuery) (*domain.RevenueStats, error) {
	q := url.Values{}
	if rq.Period != "" {
		q.Set("period", rq.Period)
	}
	if rq.Date != "" {
		q.Set("date", rq.Date)
	}
	return data(call[domain.RevenueStats](ctx, c, http.MethodGet, "/statistics/revenue", q, nil))
}

// MenuItemStats returns dish popularity between two dates (YYYY-MM-DD)
func (c *Client) MenuItemStats(ctx context.Context, startDate, endDate string) (*domain.MenuItemStats, error) {
	q := url.Values{}
	if startDate != "" {
		q.Set("startDate", startDate)
	}
	if endDate != "" {
		q.Set("endDate", endDate)
	}
	return data(call[domain.MenuItemStats](ctx, c, http.MethodGet, "/statistics/menu-items", q, nil))
}
