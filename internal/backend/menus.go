package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mansoorceksport/mealturn/internal/domain"
)

// ListMenus returns the most recent daily menus (admin)
func (c *Client) ListMenus(ctx context.Context, limit int) ([]domain.DailyMenu, error) {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return list(call[[]domain.DailyMenu](ctx, c, http.MethodGet, "/daily-menus", q, nil))
}

// TodayMenus returns every ordering window of today
func (c *Client) TodayMenus(ctx context.Context) ([]domain.DailyMenu, error) {
	return list(call[[]domain.DailyMenu](ctx, c, http.MethodGet, "/daily-menus/today", nil, nil))
}

// GetMenu returns one daily menu
func (c *Client) GetMenu(ctx context.Context, id string) (*domain.DailyMenu, error) {
	return data(call[domain.DailyMenu](ctx, c, http.MethodGet, "/daily-menus/"+escape(id), nil, nil))
}

// PreviewMenu asks the backend to parse raw menu text without saving it (admin)
func (c *Client) PreviewMenu(ctx context.Context, rawContent string) ([]domain.MenuItem, error) {
	body := map[string]string{"rawContent": rawContent}
	return list(call[[]domain.MenuItem](ctx, c, http.MethodPost, "/daily-menus/preview", nil, body))
}

// CreateMenu publishes a daily menu (admin)
func (c *Client) CreateMenu(ctx context.Context, draft domain.MenuDraft) (*domain.CreatedMenu, error) {
	return data(call[domain.CreatedMenu](ctx, c, http.MethodPost, "/daily-menus", nil, draft))
}

// UpdateMenu edits a daily menu (admin)
func (c *Client) UpdateMenu(ctx context.Context, id string, upd domain.MenuUpdate) (*domain.DailyMenu, error) {
	return data(call[domain.DailyMenu](ctx, c, http.MethodPut, "/daily-menus/"+escape(id), nil, upd))
}

// LockMenu stops a menu from accepting orders (admin)
func (c *Client) LockMenu(ctx context.Context, id string) (*domain.DailyMenu, error) {
	return data(call[domain.DailyMenu](ctx, c, http.MethodPatch, "/daily-menus/"+escape(id)+"/lock", nil, nil))
}

// UnlockMenu reopens a locked menu (admin)
func (c *Client) UnlockMenu(ctx context.Context, id string) (*domain.DailyMenu, error) {
	return data(call[domain.DailyMenu](ctx, c, http.MethodPatch, "/daily-menus/"+escape(id)+"/unlock", nil, nil))
}
