package handler

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/mealturn/internal/domain"
	"github.com/mansoorceksport/mealturn/internal/querycache"
)

// AdminOrderRow is one customer's order of the day
type AdminOrderRow struct {
	ID          string        `json:"id"`
	UserName    string        `json:"userName"`
	Email       string        `json:"email"`
	TypeLabel   string        `json:"typeLabel"`
	IsConfirmed bool          `json:"isConfirmed"`
	Dishes      []OrderedDish `json:"dishes"`
}

// AdminOrdersPage is the orders of one day
type AdminOrdersPage struct {
	Date        string             `json:"date"`
	Menu        *domain.DailyMenu  `json:"menu"`
	Orders      []AdminOrderRow    `json:"orders"`
	Summary     []domain.ItemCount `json:"summary"`
	Unconfirmed int                `json:"unconfirmed"`
	CopyText    string             `json:"copyText,omitempty"`
}

func (h *AdminHandler) dayOrders(ctx context.Context, date string) (*domain.DayOrders, error) {
	return querycache.Fetch(ctx, h.cache, querycache.Admin("orders", date), func(ctx context.Context) (*domain.DayOrders, error) {
		return h.api.OrdersByDate(ctx, date)
	})
}

// Orders handles GET /admin/orders?date=YYYY-MM-DD. ?copy=1 also loads
// the kitchen text of the day's menu.
func (h *AdminHandler) Orders(c *fiber.Ctx) error {
	date := validDate(c.Query("date"), h.today())

	day, err := h.dayOrders(c.UserContext(), date)
	if err != nil {
		return err
	}

	data := AdminOrdersPage{Date: date, Menu: day.Menu, Summary: day.Summary}
	for _, o := range day.Orders {
		row := AdminOrderRow{
			ID:          o.ID,
			TypeLabel:   o.OrderType.Normalize().Label(),
			IsConfirmed: o.IsConfirmed,
		}
		if u := o.User.Value; u != nil {
			row.UserName = u.Name
			row.Email = u.Email
		}
		for _, item := range o.OrderItems {
			row.Dishes = append(row.Dishes, OrderedDish{Name: item.ItemName(), Note: item.Note})
		}
		if !o.IsConfirmed {
			data.Unconfirmed++
		}
		data.Orders = append(data.Orders, row)
	}

	if c.Query("copy") != "" && day.Menu != nil {
		text, err := h.api.CopyText(c.UserContext(), day.Menu.ID)
		if err != nil {
			return h.failed(c, "❌ Có lỗi xảy ra", err, "/admin/orders?date="+date)
		}
		data.CopyText = text.CopyText
	}

	return h.renderAdmin(c, "admin/orders", "Quản lý đơn đặt cơm", data)
}

// ConfirmAll handles POST /admin/orders/confirm
func (h *AdminHandler) ConfirmAll(c *fiber.Ctx) error {
	date := validDate(c.FormValue("date"), h.today())
	back := "/admin/orders?date=" + date
	ctx := c.UserContext()

	day, err := h.dayOrders(ctx, date)
	if err != nil {
		return h.failed(c, "❌ Có lỗi xảy ra", err, back)
	}
	if day.Menu == nil {
		return h.failed(c, "❌ Có lỗi xảy ra", &domain.ValidationError{Field: "date", Message: "Không có menu cho ngày " + date}, back)
	}

	res, err := h.api.ConfirmAllOrders(ctx, day.Menu.ID)
	if err != nil {
		return h.failed(c, "❌ Có lỗi xảy ra", err, back)
	}

	h.invalidate(c, querycache.AdminScope, "orders", "dashboard")
	for _, o := range day.Orders {
		if o.User.ID != "" {
			h.invalidate(c, o.User.ID, "myTodayOrder", "myOrders")
		}
	}
	return h.succeeded(c, "✅ Đã xác nhận tất cả đơn!", fmt.Sprintf("%d đơn đã được xác nhận", res.ConfirmedCount), back)
}
