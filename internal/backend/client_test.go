package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mansoorceksport/mealturn/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/api", 5*time.Second)
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestBearerTokenFromContext(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/api/auth/me", r.URL.Path)
		writeJSON(w, http.StatusOK, `{"success":true,"data":{"_id":"u1","name":"An","email":"an@example.com","role":"user"}}`)
	})

	user, err := c.Me(WithToken(context.Background(), "tok-123"))
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "An", user.Name)
}

func TestNoTokenSendsNoAuthorization(t *testing.T) {
	var hadAuth bool
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, hadAuth = r.Header["Authorization"]
		writeJSON(w, http.StatusOK, `{"success":true,"data":[]}`)
	})

	pkgs, err := c.ListMealPackages(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, hadAuth)
	assert.Empty(t, pkgs)
}

func TestUnauthorizedMapsToSentinel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"success":false,"error":{"code":"UNAUTHORIZED","message":"Token hết hạn"}}`)
	})

	_, err := c.MyActivePackages(WithToken(context.Background(), "old"))
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))

	var apiErr *domain.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "UNAUTHORIZED", apiErr.Code)
	assert.Equal(t, "Token hết hạn", domain.UserMessage(err))
}

func TestFailureWithoutErrorObjectUsesMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, `{"success":false,"message":"Bạn đã đặt món hôm nay"}`)
	})

	_, _, err := c.CreateOrder(context.Background(), domain.CreateOrderRequest{})
	require.Error(t, err)
	assert.Equal(t, "Bạn đã đặt món hôm nay", domain.UserMessage(err))
}

func TestSuccessFalseWithOKStatusIsAnError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":false,"error":{"code":"LOCKED","message":"Menu đã khóa"}}`)
	})

	_, err := c.LockMenu(context.Background(), "m1")
	var apiErr *domain.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "LOCKED", apiErr.Code)
}

func TestNonJSONErrorFallsBackToGenericMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "<html>bad gateway</html>")
	})

	_, err := c.TodayMenus(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Có lỗi xảy ra", domain.UserMessage(err))
	assert.False(t, IsUnauthorized(err))
}

func TestMutationsCarryCorrelationID(t *testing.T) {
	var ids []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		ids = append(ids, r.Header.Get(CorrelationHeader))
		writeJSON(w, http.StatusOK, `{"success":true,"message":"ok","data":{}}`)
	})

	ctx := context.Background()
	_, err := c.ApprovePurchase(ctx, "p1")
	require.NoError(t, err)
	_, err = c.RejectPurchase(ctx, "p2")
	require.NoError(t, err)
	_, err = c.GetMenu(ctx, "m1")
	require.NoError(t, err)

	require.Len(t, ids, 3)
	assert.Len(t, ids[0], 26)
	assert.Len(t, ids[1], 26)
	assert.NotEqual(t, ids[0], ids[1])
	assert.Empty(t, ids[2], "queries carry no correlation id")
}

func TestClientNeverRetries(t *testing.T) {
	var calls int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		writeJSON(w, http.StatusInternalServerError, `{"success":false}`)
	})

	_, err := c.Dashboard(context.Background())
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestCreateOrderSendsAtomicRequest(t *testing.T) {
	var got domain.CreateOrderRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/orders", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusCreated, `{"success":true,"message":"Đặt món thành công","data":{"_id":"o1","dailyMenuId":"m1","orderType":"no-rice"}}`)
	})

	req := domain.CreateOrderRequest{
		OrderType: domain.PackageTypeNoRice,
		Items: []domain.OrderLine{
			{MenuItemID: "i1", Note: "ít cay"},
			{MenuItemID: "i2"},
		},
	}
	order, msg, err := c.CreateOrder(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, req, got)
	assert.Equal(t, "o1", order.ID)
	assert.Equal(t, "m1", order.DailyMenu.ID)
	assert.Equal(t, "Đặt món thành công", msg)
}

func TestMyTodayOrderNullData(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"success":true,"data":null}`)
	})

	order, err := c.MyTodayOrder(context.Background())
	require.NoError(t, err)
	assert.Nil(t, order)
}

func TestQueryParameters(t *testing.T) {
	tests := []struct {
		name  string
		call  func(c *Client) error
		path  string
		query string
	}{
		{
			name: "users filter",
			call: func(c *Client) error {
				blocked := true
				_, err := c.ListUsers(context.Background(), domain.UserFilter{Role: "user", IsBlocked: &blocked, Search: "an"})
				return err
			},
			path:  "/api/users",
			query: "isBlocked=true&role=user&search=an",
		},
		{
			name: "active packages",
			call: func(c *Client) error {
				active := true
				_, err := c.ListMealPackages(context.Background(), &active)
				return err
			},
			path:  "/api/meal-packages",
			query: "isActive=true",
		},
		{
			name: "purchase status",
			call: func(c *Client) error {
				_, err := c.ListPurchaseRequests(context.Background(), domain.PurchaseStatusPending)
				return err
			},
			path:  "/api/package-purchases",
			query: "status=pending",
		},
		{
			name: "menu limit",
			call: func(c *Client) error {
				_, err := c.ListMenus(context.Background(), 30)
				return err
			},
			path:  "/api/daily-menus",
			query: "limit=30",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var path, query string
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				path, query = r.URL.Path, r.URL.RawQuery
				writeJSON(w, http.StatusOK, `{"success":true,"data":[]}`)
			})

			require.NoError(t, tt.call(c))
			assert.Equal(t, tt.path, path)
			assert.Equal(t, tt.query, query)
		})
	}
}

func TestStatisticsQueries(t *testing.T) {
	var query string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		switch r.URL.Path {
		case "/api/statistics/revenue":
			writeJSON(w, http.StatusOK, `{"success":true,"data":{"period":"month","totalRevenue":1200000,"totalTransactions":4}}`)
		default:
			writeJSON(w, http.StatusOK, `{"success":true,"data":{"items":[{"name":"Cá kho","count":7}]}}`)
		}
	})

	rev, err := c.Revenue(context.Background(), domain.RevenueQuery{Period: "month", Date: "2025-03-01"})
	require.NoError(t, err)
	assert.Equal(t, "date=2025-03-01&period=month", query)
	assert.Equal(t, int64(1200000), rev.TotalRevenue)

	items, err := c.MenuItemStats(context.Background(), "2025-03-01", "2025-03-31")
	require.NoError(t, err)
	assert.Equal(t, "endDate=2025-03-31&startDate=2025-03-01", query)
	require.Len(t, items.Items, 1)
	assert.Equal(t, 7, items.Items[0].Count)
}

func TestTransportErrorIsWrapped(t *testing.T) {
	c := New("http://127.0.0.1:1/api", time.Second)

	_, err := c.Me(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GET /auth/me")
	assert.False(t, IsUnauthorized(err))
}

func TestRouteHidesIDs(t *testing.T) {
	assert.Equal(t, "/daily-menus/:id/lock", route("/daily-menus/65f1c0ffee0011223344aabb/lock"))
	assert.Equal(t, "/orders/by-date/:id", route("/orders/by-date/2025-03-01"))
	assert.Equal(t, "/user-packages/my/active", route("/user-packages/my/active"))
}
