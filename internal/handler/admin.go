package handler

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/mealturn/internal/domain"
	"github.com/mansoorceksport/mealturn/internal/ordering"
	"github.com/mansoorceksport/mealturn/internal/querycache"
	"golang.org/x/sync/errgroup"
)

// QRUploader stores a payment QR image and returns its public URL
type QRUploader interface {
	Upload(ctx context.Context, data []byte) (string, error)
}

// AdminHandler serves the admin screens
type AdminHandler struct {
	base
	qr QRUploader
}

// NewAdminHandler creates an admin handler. qr may be nil, in which case
// QR images are only accepted as URLs.
func NewAdminHandler(d Deps, qr QRUploader) *AdminHandler {
	return &AdminHandler{base: newBase(d, "admin"), qr: qr}
}

// AdminDashboardPage is the admin landing page
type AdminDashboardPage struct {
	Stats *domain.DashboardStats `json:"stats"`
}

// StatisticsPage is the admin statistics screen
type StatisticsPage struct {
	Stats     *domain.DashboardStats `json:"stats"`
	Revenue   *domain.RevenueStats   `json:"revenue"`
	Items     []domain.ItemCount     `json:"items"`
	Period    string                 `json:"period"`
	Date      string                 `json:"date"`
	StartDate string                 `json:"startDate"`
	EndDate   string                 `json:"endDate"`
}

// UsersPage is the admin user listing
type UsersPage struct {
	Users         []domain.User `json:"users"`
	Role          string        `json:"role"`
	Blocked       string        `json:"blocked"`
	Search        string        `json:"search"`
	CustomerCount int           `json:"customerCount"`
	BlockedCount  int           `json:"blockedCount"`
}

// UserDetailPage is one user with the packages they own
type UserDetailPage struct {
	User     domain.User        `json:"user"`
	Packages []OwnedPackage     `json:"packages"`
	Quota    ordering.TurnQuota `json:"quota"`
}

var revenuePeriods = map[string]bool{"day": true, "week": true, "month": true, "year": true}

func (h *AdminHandler) dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	return querycache.Fetch(ctx, h.cache, querycache.Admin("dashboard"), h.api.Dashboard)
}

// Dashboard handles GET /admin
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	stats, err := h.dashboard(c.UserContext())
	if err != nil {
		return err
	}
	return h.renderAdmin(c, "admin/dashboard", "Dashboard", AdminDashboardPage{Stats: stats})
}

// Statistics handles GET /admin/statistics?period=&date=&startDate=&endDate=
func (h *AdminHandler) Statistics(c *fiber.Ctx) error {
	now := h.clock()
	data := StatisticsPage{
		Period:    c.Query("period", "month"),
		Date:      validDate(c.Query("date"), now.Format(dateLayout)),
		StartDate: validDate(c.Query("startDate"), now.AddDate(0, 0, 1-now.Day()).Format(dateLayout)),
		EndDate:   validDate(c.Query("endDate"), now.Format(dateLayout)),
	}
	if !revenuePeriods[data.Period] {
		data.Period = "month"
	}

	g, ctx := errgroup.WithContext(c.UserContext())
	g.Go(func() (err error) {
		data.Stats, err = h.dashboard(ctx)
		return err
	})
	g.Go(func() (err error) {
		key := querycache.Admin("statistics", "revenue", data.Period, data.Date)
		data.Revenue, err = querycache.Fetch(ctx, h.cache, key, func(ctx context.Context) (*domain.RevenueStats, error) {
			return h.api.Revenue(ctx, domain.RevenueQuery{Period: data.Period, Date: data.Date})
		})
		return err
	})
	g.Go(func() error {
		key := querycache.Admin("statistics", "items", data.StartDate, data.EndDate)
		stats, err := querycache.Fetch(ctx, h.cache, key, func(ctx context.Context) (*domain.MenuItemStats, error) {
			return h.api.MenuItemStats(ctx, data.StartDate, data.EndDate)
		})
		if err != nil {
			return err
		}
		data.Items = stats.Items
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	return h.renderAdmin(c, "admin/statistics", "Thống kê tổng quan", data)
}

// Users handles GET /admin/users?role=&blocked=&search=
func (h *AdminHandler) Users(c *fiber.Ctx) error {
	data := UsersPage{
		Role:    c.Query("role"),
		Blocked: c.Query("blocked"),
		Search:  strings.TrimSpace(c.Query("search")),
	}
	if data.Role != domain.RoleAdmin && data.Role != domain.RoleUser {
		data.Role = ""
	}
	filter := domain.UserFilter{Role: data.Role, Search: data.Search}
	if b, err := strconv.ParseBool(data.Blocked); err == nil {
		filter.IsBlocked = &b
	} else {
		data.Blocked = ""
	}

	key := querycache.Admin("users", data.Role, data.Blocked, data.Search)
	users, err := querycache.Fetch(c.UserContext(), h.cache, key, func(ctx context.Context) ([]domain.User, error) {
		return h.api.ListUsers(ctx, filter)
	})
	if err != nil {
		return err
	}

	data.Users = users
	for _, u := range users {
		if u.Role == domain.RoleUser {
			data.CustomerCount++
		}
		if u.IsBlocked {
			data.BlockedCount++
		}
	}
	return h.renderAdmin(c, "admin/users", "Quản lý người dùng", data)
}

// UserDetail handles GET /admin/users/:id
func (h *AdminHandler) UserDetail(c *fiber.Ctx) error {
	id := c.Params("id")
	detail, err := querycache.Fetch(c.UserContext(), h.cache, querycache.Admin("user", id), func(ctx context.Context) (*domain.UserDetail, error) {
		return h.api.GetUser(ctx, id)
	})
	if err != nil {
		return err
	}

	usable, _ := ordering.Partition(detail.Packages, h.clock())
	return h.renderAdmin(c, "admin/user_detail", detail.User.Name, UserDetailPage{
		User:     detail.User,
		Packages: owned(detail.Packages, ""),
		Quota:    ordering.Quota(usable),
	})
}

// BlockUser handles POST /admin/users/:id/block
func (h *AdminHandler) BlockUser(c *fiber.Ctx) error {
	return h.setBlocked(c, true)
}

// UnblockUser handles POST /admin/users/:id/unblock
func (h *AdminHandler) UnblockUser(c *fiber.Ctx) error {
	return h.setBlocked(c, false)
}

func (h *AdminHandler) setBlocked(c *fiber.Ctx, blocked bool) error {
	id := c.Params("id")
	back := backTo(c, "/admin/users")

	var err error
	title := "🔒 Đã khóa tài khoản"
	if blocked {
		_, err = h.api.BlockUser(c.UserContext(), id)
	} else {
		title = "✅ Đã mở khóa tài khoản"
		_, err = h.api.UnblockUser(c.UserContext(), id)
	}
	if err != nil {
		return h.failed(c, "❌ Có lỗi xảy ra", err, back)
	}

	h.invalidate(c, querycache.AdminScope, "users", "user", "dashboard")
	return h.succeeded(c, title, "", back)
}

const dateLayout = "2006-01-02"

// validDate returns s when it is a YYYY-MM-DD date, else fallback
func validDate(s, fallback string) string {
	if _, err := time.Parse(dateLayout, s); err != nil {
		return fallback
	}
	return s
}

// backTo reads a same-site return path from the form
func backTo(c *fiber.Ctx, fallback string) string {
	back := c.FormValue("back")
	if !strings.HasPrefix(back, "/") || strings.HasPrefix(back, "//") {
		return fallback
	}
	return back
}
