package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mansoorceksport/mealturn/internal/domain"
)

// ListUsers returns users matching the filter (admin)
func (c *Client) ListUsers(ctx context.Context, f domain.UserFilter) ([]domain.User, error) {
	q := url.Values{}
	if f.Role != "" {
		q.Set("role", f.Role)
	}
	if f.IsBlocked != nil {
		q.Set("isBlocked", strconv.FormatBool(*f.IsBlocked))
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	return list(call[[]domain.User](ctx, c, http.MethodGet, "/users", q, nil))
}

// GetUser returns one user with their packages (admin)
func (c *Client) GetUser(ctx context.Context, id string) (*domain.UserDetail, error) {
	return data(call[domain.UserDetail](ctx, c, http.MethodGet, "/users/"+escape(id), nil, nil))
}

// BlockUser prevents a user from signing in (admin)
func (c *Client) BlockUser(ctx context.Context, id string) (*domain.User, error) {
	return data(call[domain.User](ctx, c, http.MethodPatch, "/users/"+escape(id)+"/block", nil, nil))
}

// UnblockUser lifts a block (admin)
func (c *Client) UnblockUser(ctx context.Context, id string) (*domain.User, error) {
	return data(call[domain.User](ctx, c, http.MethodPatch, "/users/"+escape(id)+"/unblock", nil, nil))
}
