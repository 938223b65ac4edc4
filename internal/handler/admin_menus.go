package handler

import (
	"context"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/mealturn/internal/domain"
	"github.com/mansoorceksport/mealturn/internal/ordering"
	"github.com/mansoorceksport/mealturn/internal/querycache"
)

const (
	adminMenusPath = "/admin/menus"
	recentMenus    = 10

	defaultBeginAt = "10:00"
	defaultEndAt   = "10:45"
)

// MenuRow is one menu in the admin list
type MenuRow struct {
	domain.DailyMenu
	ItemCount int `json:"itemCount"`
}

// MenuForm is the create form as last submitted
type MenuForm struct {
	RawContent string `json:"rawContent" form:"rawContent"`
	MenuDate   string `json:"menuDate" form:"menuDate"`
	BeginAt    string `json:"beginAt" form:"beginAt"`
	EndAt      string `json:"endAt" form:"endAt"`
}

// AdminMenusPage is the admin menu screen
type AdminMenusPage struct {
	Menus        []MenuRow         `json:"menus"`
	Form         MenuForm          `json:"form"`
	ShowForm     bool              `json:"showForm"`
	Preview      []ordering.Group  `json:"preview,omitempty"`
	PreviewCount int               `json:"previewCount"`
	Editing      *domain.DailyMenu `json:"editing,omitempty"`
}

func (h *AdminHandler) menus(ctx context.Context) ([]MenuRow, error) {
	menus, err := querycache.Fetch(ctx, h.cache, querycache.Admin("menus"), func(ctx context.Context) ([]domain.DailyMenu, error) {
		return h.api.ListMenus(ctx, recentMenus)
	})
	if err != nil {
		return nil, err
	}
	rows := make([]MenuRow, 0, len(menus))
	for _, m := range menus {
		rows = append(rows, MenuRow{DailyMenu: m, ItemCount: len(m.MenuItems)})
	}
	return rows, nil
}

// Menus handles GET /admin/menus. ?edit=<id> opens the edit form.
func (h *AdminHandler) Menus(c *fiber.Ctx) error {
	rows, err := h.menus(c.UserContext())
	if err != nil {
		return err
	}

	data := AdminMenusPage{
		Menus: rows,
		Form:  MenuForm{BeginAt: defaultBeginAt, EndAt: defaultEndAt},
	}
	if id := c.Query("edit"); id != "" {
		data.Editing, err = querycache.Fetch(c.UserContext(), h.cache, querycache.Admin("menu", id), func(ctx context.Context) (*domain.DailyMenu, error) {
			return h.api.GetMenu(ctx, id)
		})
		if err != nil {
			return err
		}
	}
	return h.renderAdmin(c, "admin/menus", "Quản lý menu", data)
}

// PreviewMenu handles POST /admin/menus/preview. The parsed dishes are
// rendered straight back with the form so the admin can create the menu.
func (h *AdminHandler) PreviewMenu(c *fiber.Ctx) error {
	var form MenuForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Dữ liệu không hợp lệ")
	}
	if strings.TrimSpace(form.RawContent) == "" {
		return h.failed(c, "❌ Lỗi phân tích", &domain.ValidationError{Field: "rawContent", Message: "Nội dung menu không được để trống"}, adminMenusPath)
	}

	items, err := h.api.PreviewMenu(c.UserContext(), form.RawContent)
	if err != nil {
		return h.failed(c, "❌ Lỗi phân tích", err, adminMenusPath)
	}
	rows, err := h.menus(c.UserContext())
	if err != nil {
		return err
	}

	return h.renderAdmin(c, "admin/menus", "Quản lý menu", AdminMenusPage{
		Menus:        rows,
		Form:         form,
		ShowForm:     true,
		Preview:      ordering.GroupByCategory(items),
		PreviewCount: len(items),
	})
}

// CreateMenu handles POST /admin/menus
func (h *AdminHandler) CreateMenu(c *fiber.Ctx) error {
	var form MenuForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Dữ liệu không hợp lệ")
	}
	draft := domain.MenuDraft{
		RawContent: strings.TrimSpace(form.RawContent),
		MenuDate:   form.MenuDate,
		BeginAt:    form.BeginAt,
		EndAt:      form.EndAt,
	}
	if err := h.check(draft); err != nil {
		return h.failed(c, "❌ Lỗi!", err, adminMenusPath)
	}
	if err := checkWindow(draft.BeginAt, draft.EndAt); err != nil {
		return h.failed(c, "❌ Lỗi!", err, adminMenusPath)
	}

	created, err := h.api.CreateMenu(c.UserContext(), draft)
	if err != nil {
		return h.failed(c, "❌ Lỗi!", err, adminMenusPath)
	}

	h.menusChanged(c)
	return h.succeeded(c, "✅ Tạo menu thành công!", fmt.Sprintf("%d món", len(created.MenuItems)), adminMenusPath)
}

// UpdateMenu handles POST /admin/menus/:id. Blank fields are left unchanged.
func (h *AdminHandler) UpdateMenu(c *fiber.Ctx) error {
	id := c.Params("id")
	back := adminMenusPath + "?edit=" + id

	var form MenuForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Dữ liệu không hợp lệ")
	}
	var upd domain.MenuUpdate
	if s := strings.TrimSpace(form.RawContent); s != "" {
		upd.RawContent = &s
	}
	if form.BeginAt != "" {
		upd.BeginAt = &form.BeginAt
	}
	if form.EndAt != "" {
		upd.EndAt = &form.EndAt
	}
	if err := h.check(upd); err != nil {
		return h.failed(c, "❌ Lỗi!", err, back)
	}
	if upd.BeginAt != nil && upd.EndAt != nil {
		if err := checkWindow(*upd.BeginAt, *upd.EndAt); err != nil {
			return h.failed(c, "❌ Lỗi!", err, back)
		}
	}

	if _, err := h.api.UpdateMenu(c.UserContext(), id, upd); err != nil {
		return h.failed(c, "❌ Lỗi!", err, back)
	}
	h.menusChanged(c)
	return h.succeeded(c, "✅ Cập nhật thành công!", "", adminMenusPath)
}

// LockMenu handles POST /admin/menus/:id/lock
func (h *AdminHandler) LockMenu(c *fiber.Ctx) error {
	if _, err := h.api.LockMenu(c.UserContext(), c.Params("id")); err != nil {
		return h.failed(c, "❌ Có lỗi xảy ra", err, adminMenusPath)
	}
	h.menusChanged(c)
	return h.succeeded(c, "🔒 Đã khóa menu!", "", backTo(c, adminMenusPath))
}

// UnlockMenu handles POST /admin/menus/:id/unlock
func (h *AdminHandler) UnlockMenu(c *fiber.Ctx) error {
	if _, err := h.api.UnlockMenu(c.UserContext(), c.Params("id")); err != nil {
		return h.failed(c, "❌ Có lỗi xảy ra", err, adminMenusPath)
	}
	h.menusChanged(c)
	return h.succeeded(c, "🔓 Đã mở khóa menu!", "", backTo(c, adminMenusPath))
}

func (h *AdminHandler) menusChanged(c *fiber.Ctx) {
	h.invalidate(c, querycache.AdminScope, "menus", "menu", "dashboard", "orders")
	h.invalidate(c, querycache.PublicScope, "todayMenus")
}

// checkWindow rejects an ordering window that closes before it opens
func checkWindow(beginAt, endAt string) error {
	if beginAt == "" || endAt == "" {
		return nil
	}
	begin, err := ordering.ParseClock(beginAt)
	if err != nil {
		return &domain.ValidationError{Field: "beginAt", Message: "Giờ bắt đầu không đúng định dạng"}
	}
	end, err := ordering.ParseClock(endAt)
	if err != nil {
		return &domain.ValidationError{Field: "endAt", Message: "Giờ kết thúc không đúng định dạng"}
	}
	if begin.Hour*60+begin.Minute >= end.Hour*60+end.Minute {
		return &domain.ValidationError{Field: "endAt", Message: "Giờ kết thúc phải sau giờ bắt đầu"}
	}
	return nil
}
