package handler

import (
	"context"
	"sort"

	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/mealturn/internal/domain"
	"github.com/mansoorceksport/mealturn/internal/middleware"
	"github.com/mansoorceksport/mealturn/internal/ordering"
	"github.com/mansoorceksport/mealturn/internal/querycache"
	"golang.org/x/sync/errgroup"
)

// AccountHandler serves the signed-in user's own pages
type AccountHandler struct {
	base
}

// NewAccountHandler creates an account handler
func NewAccountHandler(d Deps) *AccountHandler {
	return &AccountHandler{base: newBase(d, "account")}
}

// OwnedPackage is one of the user's packages as listed
type OwnedPackage struct {
	domain.UserPackage
	Name             string `json:"name"`
	Turns            int    `json:"turns"`
	TypeLabel        string `json:"typeLabel"`
	RemainingPercent int    `json:"remainingPercent"`
	IsDefault        bool   `json:"isDefault"`
}

// MyPackagesPage is the view-model of "my packages"
type MyPackagesPage struct {
	Pending []domain.PackagePurchaseRequest `json:"pending"`
	Usable  []OwnedPackage                  `json:"usable"`
	Spent   []OwnedPackage                  `json:"spent"`
}

// ProfilePage is the view-model of the profile screen
type ProfilePage struct {
	User      *domain.User       `json:"user"`
	RoleLabel string             `json:"roleLabel"`
	Quota     ordering.TurnQuota `json:"quota"`
}

// HistoryEntry is one past order
type HistoryEntry struct {
	domain.Order
	TypeLabel string `json:"typeLabel"`
}

// OrderHistoryPage is the view-model of the order history
type OrderHistoryPage struct {
	Orders []HistoryEntry `json:"orders"`
}

func owned(pkgs []domain.UserPackage, defaultID string) []OwnedPackage {
	out := make([]OwnedPackage, 0, len(pkgs))
	for i := range pkgs {
		p := OwnedPackage{
			UserPackage:      pkgs[i],
			TypeLabel:        pkgs[i].PackageType.Normalize().Label(),
			RemainingPercent: pkgs[i].RemainingPercent(),
			IsDefault:        defaultID != "" && pkgs[i].ID == defaultID,
		}
		if mp := pkgs[i].MealPackage.Value; mp != nil {
			p.Name = mp.Name
			p.Turns = mp.Turns
		}
		out = append(out, p)
	}
	return out
}

func (b *base) activeUserPackages(ctx context.Context, uid string) ([]domain.UserPackage, error) {
	return querycache.Fetch(ctx, b.cache, querycache.For(uid, "myActivePackages"), b.api.MyActivePackages)
}

// MyPackages handles GET /my-packages
func (h *AccountHandler) MyPackages(c *fiber.Ctx) error {
	sess := middleware.Current(c)
	uid := sess.UserID()

	var (
		packages []domain.UserPackage
		requests []domain.PackagePurchaseRequest
	)
	g, ctx := errgroup.WithContext(c.UserContext())
	g.Go(func() (err error) {
		packages, err = querycache.Fetch(ctx, h.cache, querycache.For(uid, "myPackages"), h.api.MyPackages)
		return err
	})
	g.Go(func() (err error) {
		requests, err = h.myRequests(ctx, uid)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	defaultID := ""
	if sess.User.ActivePackage != nil {
		defaultID = sess.User.ActivePackage.ID
	}
	usable, spent := ordering.Partition(packages, h.clock())

	return h.render(c, "my_packages", "Gói của tôi", MyPackagesPage{
		Pending: domain.PendingRequests(requests),
		Usable:  owned(usable, defaultID),
		Spent:   owned(spent, defaultID),
	})
}

// SetDefaultPackage handles POST /my-packages/:id/default
func (h *AccountHandler) SetDefaultPackage(c *fiber.Ctx) error {
	sess := middleware.Current(c)

	pkg, err := h.api.SetActivePackage(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.failed(c, "❌ Có lỗi xảy ra", err, "/my-packages")
	}

	if sess.User != nil {
		sess.User.ActivePackage = pkg
	}
	h.invalidate(c, sess.UserID(), "myPackages", "myActivePackages")
	return h.succeeded(c, "✅ Đã đặt làm gói mặc định", "", "/my-packages")
}

// Profile handles GET /profile
func (h *AccountHandler) Profile(c *fiber.Ctx) error {
	sess := middleware.Current(c)

	packages, err := h.activeUserPackages(c.UserContext(), sess.UserID())
	if err != nil {
		return err
	}

	role := "👤 Khách hàng"
	if sess.User.IsAdmin() {
		role = "👑 Quản trị viên"
	}
	return h.render(c, "profile", "Thông tin cá nhân", ProfilePage{
		User:      sess.User,
		RoleLabel: role,
		Quota:     ordering.Quota(packages),
	})
}

// OrderHistory handles GET /order-history
func (h *AccountHandler) OrderHistory(c *fiber.Ctx) error {
	orders, err := querycache.Fetch(c.UserContext(), h.cache, querycache.For(userScope(c), "myOrders"), h.api.MyOrders)
	if err != nil {
		return err
	}

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].OrderedAt.After(orders[j].OrderedAt)
	})

	entries := make([]HistoryEntry, 0, len(orders))
	for _, o := range orders {
		entries = append(entries, HistoryEntry{Order: o, TypeLabel: o.OrderType.Normalize().Label()})
	}
	return h.render(c, "order_history", "Lịch sử đặt cơm", OrderHistoryPage{Orders: entries})
}
