package handler

import (
	"context"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/mealturn/internal/domain"
	"github.com/mansoorceksport/mealturn/internal/querycache"
	"golang.org/x/sync/errgroup"
)

const adminPackagesPath = "/admin/packages"

// AdminPackagesPage is the package catalog with pending purchase requests
type AdminPackagesPage struct {
	Packages      []PackageCard                   `json:"packages"`
	Pending       []domain.PackagePurchaseRequest `json:"pending"`
	Editing       *domain.MealPackage             `json:"editing,omitempty"`
	Draft         domain.MealPackage              `json:"-"`
	UploadEnabled bool                            `json:"uploadEnabled"`
}

type packageForm struct {
	Name        string `form:"name"`
	Turns       int    `form:"turns"`
	Price       int64  `form:"price"`
	ValidDays   int    `form:"validDays"`
	PackageType string `form:"packageType"`
	QRCodeImage string `form:"qrCodeImage"`
	IsActive    string `form:"isActive"`
}

func (h *AdminHandler) pendingRequests(ctx context.Context) ([]domain.PackagePurchaseRequest, error) {
	return querycache.Fetch(ctx, h.cache, querycache.Admin("purchaseRequests", string(domain.PurchaseStatusPending)), func(ctx context.Context) ([]domain.PackagePurchaseRequest, error) {
		return h.api.ListPurchaseRequests(ctx, domain.PurchaseStatusPending)
	})
}

// Packages handles GET /admin/packages. ?edit=<id> opens the edit form.
func (h *AdminHandler) Packages(c *fiber.Ctx) error {
	var (
		packages []domain.MealPackage
		pending  []domain.PackagePurchaseRequest
	)
	g, ctx := errgroup.WithContext(c.UserContext())
	g.Go(func() (err error) {
		packages, err = querycache.Fetch(ctx, h.cache, querycache.Admin("mealPackages"), func(ctx context.Context) ([]domain.MealPackage, error) {
			return h.api.ListMealPackages(ctx, nil)
		})
		return err
	})
	g.Go(func() (err error) {
		pending, err = h.pendingRequests(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	data := AdminPackagesPage{
		Packages:      cards(packages),
		Pending:       pending,
		UploadEnabled: h.qr != nil,
		Draft:         domain.MealPackage{Turns: 1, ValidDays: 7, PackageType: domain.PackageTypeNormal},
	}
	if id := c.Query("edit"); id != "" {
		for i := range packages {
			if packages[i].ID == id {
				data.Editing = &packages[i]
				break
			}
		}
		if data.Editing == nil {
			return fiber.NewError(fiber.StatusNotFound, "Không tìm thấy gói")
		}
	}
	return h.renderAdmin(c, "admin/packages", "Quản lý gói đặt cơm", data)
}

// CreatePackage handles POST /admin/packages
func (h *AdminHandler) CreatePackage(c *fiber.Ctx) error {
	pkg, err := h.packageFromForm(c, true)
	if err != nil {
		return h.failed(c, "❌ Có lỗi xảy ra", err, adminPackagesPath)
	}
	if _, err := h.api.CreateMealPackage(c.UserContext(), pkg); err != nil {
		return h.failed(c, "❌ Có lỗi xảy ra", err, adminPackagesPath)
	}
	h.catalogChanged(c)
	return h.succeeded(c, "✅ Tạo gói thành công!", "", adminPackagesPath)
}

// UpdatePackage handles POST /admin/packages/:id
func (h *AdminHandler) UpdatePackage(c *fiber.Ctx) error {
	id := c.Params("id")
	back := adminPackagesPath + "?edit=" + id

	pkg, err := h.packageFromForm(c, false)
	if err != nil {
		return h.failed(c, "❌ Có lỗi xảy ra", err, back)
	}
	if _, err := h.api.UpdateMealPackage(c.UserContext(), id, pkg); err != nil {
		return h.failed(c, "❌ Có lỗi xảy ra", err, back)
	}
	h.catalogChanged(c)
	return h.succeeded(c, "✅ Cập nhật thành công!", "", adminPackagesPath)
}

// DeletePackage handles POST /admin/packages/:id/delete
func (h *AdminHandler) DeletePackage(c *fiber.Ctx) error {
	msg, err := h.api.DeleteMealPackage(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.failed(c, "❌ Có lỗi xảy ra", err, adminPackagesPath)
	}
	h.catalogChanged(c)
	return h.succeeded(c, "✅ Đã xóa gói!", msg, adminPackagesPath)
}

func (h *AdminHandler) catalogChanged(c *fiber.Ctx) {
	h.invalidate(c, querycache.AdminScope, "mealPackages")
	h.invalidate(c, querycache.PublicScope, "mealPackage")
}

// packageFromForm reads and validates the package form, uploading an
// attached QR image when uploads are enabled
func (h *AdminHandler) packageFromForm(c *fiber.Ctx, creating bool) (domain.MealPackage, error) {
	var form packageForm
	if err := c.BodyParser(&form); err != nil {
		return domain.MealPackage{}, &domain.ValidationError{Field: "form", Message: "Dữ liệu không hợp lệ"}
	}

	pkg := domain.MealPackage{
		Name:        strings.TrimSpace(form.Name),
		Turns:       form.Turns,
		Price:       form.Price,
		ValidDays:   form.ValidDays,
		PackageType: domain.ParsePackageType(form.PackageType),
		QRCodeImage: strings.TrimSpace(form.QRCodeImage),
		IsActive:    creating || form.IsActive == "true" || form.IsActive == "on",
	}

	if h.qr != nil {
		if fh, err := c.FormFile("qrFile"); err == nil && fh.Size > 0 {
			f, err := fh.Open()
			if err != nil {
				return pkg, err
			}
			defer f.Close()
			data, err := io.ReadAll(f)
			if err != nil {
				return pkg, err
			}
			url, err := h.qr.Upload(c.UserContext(), data)
			if err != nil {
				return pkg, err
			}
			pkg.QRCodeImage = url
		}
	}

	if err := h.check(pkg); err != nil {
		return pkg, err
	}
	return pkg, nil
}

// findRequest looks a purchase request up in the cached pending list and
// falls back to a fresh listing when the cached one predates it
func (h *AdminHandler) findRequest(ctx context.Context, id string) *domain.PackagePurchaseRequest {
	if pending, err := h.pendingRequests(ctx); err == nil {
		if req := requestByID(pending, id); req != nil {
			return req
		}
	}
	all, err := h.api.ListPurchaseRequests(ctx, "")
	if err != nil {
		return nil
	}
	return requestByID(all, id)
}

func requestByID(requests []domain.PackagePurchaseRequest, id string) *domain.PackagePurchaseRequest {
	for i := range requests {
		if requests[i].ID == id {
			return &requests[i]
		}
	}
	return nil
}

// ApprovePurchase handles POST /admin/purchases/:id/approve
func (h *AdminHandler) ApprovePurchase(c *fiber.Ctx) error {
	return h.review(c, domain.PurchaseStatusApproved)
}

// RejectPurchase handles POST /admin/purchases/:id/reject
func (h *AdminHandler) RejectPurchase(c *fiber.Ctx) error {
	return h.review(c, domain.PurchaseStatusRejected)
}

func (h *AdminHandler) review(c *fiber.Ctx, to domain.PurchaseStatus) error {
	id := c.Params("id")
	ctx := c.UserContext()

	// The requester's own pages are cached in their scope
	requester := ""
	if req := h.findRequest(ctx, id); req != nil {
		if !req.CanTransition(to) {
			return h.failed(c, "❌ Có lỗi xảy ra", &domain.ValidationError{Field: "status", Message: "Yêu cầu đã được xử lý"}, adminPackagesPath)
		}
		requester = req.User.ID
	} else {
		h.logger.Warn().Str("request", id).Msg("purchase requester unknown, their cached packages stay until stale")
	}

	var (
		msg   string
		err   error
		title string
	)
	if to == domain.PurchaseStatusApproved {
		title = "✅ Đã xác nhận mua gói!"
		msg, err = h.api.ApprovePurchase(ctx, id)
	} else {
		title = "✅ Đã từ chối yêu cầu!"
		msg, err = h.api.RejectPurchase(ctx, id)
	}
	if err != nil {
		return h.failed(c, "❌ Có lỗi xảy ra", err, adminPackagesPath)
	}

	h.invalidate(c, querycache.AdminScope, "purchaseRequests", "dashboard", "statistics", "user")
	if requester != "" {
		h.invalidate(c, requester, "myPurchaseRequests", "myPackages", "myActivePackages")
	}
	return h.succeeded(c, title, msg, adminPackagesPath)
}
