package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/mealturn/internal/domain"
	"github.com/mansoorceksport/mealturn/internal/middleware"
	"github.com/mansoorceksport/mealturn/internal/ordering"
	"github.com/mansoorceksport/mealturn/internal/querycache"
	"golang.org/x/sync/errgroup"
)

const homeMenuPreview = 12

// CatalogHandler serves the public pages and package purchase requests
type CatalogHandler struct {
	base
}

// NewCatalogHandler creates a catalog handler
func NewCatalogHandler(d Deps) *CatalogHandler {
	return &CatalogHandler{base: newBase(d, "catalog")}
}

// PackageCard is one catalog entry as listed
type PackageCard struct {
	domain.MealPackage
	PricePerTurn int64  `json:"pricePerTurn"`
	TypeLabel    string `json:"typeLabel"`
}

func cards(pkgs []domain.MealPackage) []PackageCard {
	out := make([]PackageCard, 0, len(pkgs))
	for i := range pkgs {
		out = append(out, PackageCard{
			MealPackage:  pkgs[i],
			PricePerTurn: pkgs[i].PricePerTurn(),
			TypeLabel:    pkgs[i].PackageType.Normalize().Label(),
		})
	}
	return out
}

// MenuPreview is a short view of one of today's menus
type MenuPreview struct {
	Menu     domain.DailyMenu  `json:"menu"`
	Window   string            `json:"window"`
	Open     bool              `json:"open"`
	Items    []domain.MenuItem `json:"items"`
	MoreDish int               `json:"moreDish"`
}

// HomePage is the view-model of the landing page
type HomePage struct {
	Packages      []PackageCard `json:"packages"`
	Menu          *MenuPreview  `json:"menu"`
	Authenticated bool          `json:"authenticated"`
}

// PackagesPage is the catalog split by package type
type PackagesPage struct {
	Normal        []PackageCard `json:"normal"`
	NoRice        []PackageCard `json:"noRice"`
	Authenticated bool          `json:"authenticated"`
}

// PackageDetailPage is one package with the visitor's pending request
type PackageDetailPage struct {
	Package        PackageCard                    `json:"package"`
	PendingRequest *domain.PackagePurchaseRequest `json:"pendingRequest,omitempty"`
}

func (h *CatalogHandler) activePackages(ctx context.Context) ([]domain.MealPackage, error) {
	return querycache.Fetch(ctx, h.cache, querycache.Public("mealPackages", "active"), func(ctx context.Context) ([]domain.MealPackage, error) {
		active := true
		return h.api.ListMealPackages(ctx, &active)
	})
}

func (b *base) todayMenus(ctx context.Context) ([]domain.DailyMenu, error) {
	return querycache.Fetch(ctx, b.cache, querycache.Public("todayMenus", b.today()), b.api.TodayMenus)
}

// Home handles GET /
func (h *CatalogHandler) Home(c *fiber.Ctx) error {
	var (
		packages []domain.MealPackage
		menus    []domain.DailyMenu
	)
	g, ctx := errgroup.WithContext(c.UserContext())
	g.Go(func() (err error) {
		packages, err = h.activePackages(ctx)
		return err
	})
	g.Go(func() (err error) {
		menus, err = h.todayMenus(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	data := HomePage{Packages: cards(packages), Authenticated: middleware.Current(c).IsAuthenticated}
	if len(data.Packages) > 5 {
		data.Packages = data.Packages[:5]
	}
	if len(menus) > 0 {
		menu := menus[0]
		preview := &MenuPreview{
			Menu:   menu,
			Window: menu.BeginAt + " - " + menu.EndAt,
			Open:   ordering.Open(&menu, h.clock()),
			Items:  menu.MenuItems,
		}
		if len(preview.Items) > homeMenuPreview {
			preview.MoreDish = len(preview.Items) - homeMenuPreview
			preview.Items = preview.Items[:homeMenuPreview]
		}
		data.Menu = preview
	}

	return h.render(c, "home", "Web Đặt Cơm", data)
}

// Packages handles GET /packages
func (h *CatalogHandler) Packages(c *fiber.Ctx) error {
	packages, err := h.activePackages(c.UserContext())
	if err != nil {
		return err
	}
	normal, noRice := ordering.ByType(packages)
	return h.render(c, "packages", "Gói đặt cơm", PackagesPage{
		Normal:        cards(normal),
		NoRice:        cards(noRice),
		Authenticated: middleware.Current(c).IsAuthenticated,
	})
}

// PackageDetail handles GET /packages/:id
func (h *CatalogHandler) PackageDetail(c *fiber.Ctx) error {
	id := c.Params("id")
	uid := userScope(c)

	var (
		pkg      *domain.MealPackage
		requests []domain.PackagePurchaseRequest
	)
	g, ctx := errgroup.WithContext(c.UserContext())
	g.Go(func() (err error) {
		pkg, err = querycache.Fetch(ctx, h.cache, querycache.Public("mealPackage", id), func(ctx context.Context) (*domain.MealPackage, error) {
			return h.api.GetMealPackage(ctx, id)
		})
		return err
	})
	g.Go(func() (err error) {
		requests, err = h.myRequests(ctx, uid)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}
	if !pkg.IsActive {
		return fiber.NewError(fiber.StatusNotFound, "Gói không còn được bán")
	}

	data := PackageDetailPage{Package: cards([]domain.MealPackage{*pkg})[0]}
	for _, r := range domain.PendingRequests(requests) {
		if r.MealPackage.ID == pkg.ID {
			r := r
			data.PendingRequest = &r
			break
		}
	}
	return h.render(c, "package_detail", pkg.Name, data)
}

func (b *base) myRequests(ctx context.Context, uid string) ([]domain.PackagePurchaseRequest, error) {
	return querycache.Fetch(ctx, b.cache, querycache.For(uid, "myPurchaseRequests"), b.api.MyPurchaseRequests)
}

// RequestPurchase handles POST /packages/:id/purchase
func (h *CatalogHandler) RequestPurchase(c *fiber.Ctx) error {
	id := c.Params("id")
	back := "/packages/" + id

	if _, err := h.api.RequestPurchase(c.UserContext(), id); err != nil {
		return h.failed(c, "❌ Không thể gửi yêu cầu", err, back)
	}

	h.invalidate(c, userScope(c), "myPurchaseRequests")
	h.invalidate(c, querycache.AdminScope, "purchaseRequests", "dashboard")
	return h.succeeded(c, "✅ Đã gửi yêu cầu mua gói!", "Vui lòng chuyển khoản theo mã QR, admin sẽ xác nhận sớm.", "/my-packages")
}
