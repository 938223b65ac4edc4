package handler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/mealturn/internal/domain"
	"github.com/mansoorceksport/mealturn/internal/middleware"
	"github.com/mansoorceksport/mealturn/internal/ordering"
	"github.com/mansoorceksport/mealturn/internal/querycache"
	"github.com/mansoorceksport/mealturn/internal/session"
	"github.com/mansoorceksport/mealturn/internal/telemetry"
	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"
)

const orderPath = "/order"

// OrderHandler serves the order page and its draft operations
type OrderHandler struct {
	base
}

// NewOrderHandler creates an order handler
func NewOrderHandler(d Deps) *OrderHandler {
	return &OrderHandler{base: newBase(d, "order")}
}

// MenuTab is one of today's menus in the menu selector
type MenuTab struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

// Dish is a menu item with the customer's pick
type Dish struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Selected bool   `json:"selected"`
	Note     string `json:"note,omitempty"`
}

// DishGroup is the dishes of one category
type DishGroup struct {
	Label  string `json:"label"`
	Dishes []Dish `json:"dishes"`
}

// OrderedDish is a line of an order already placed
type OrderedDish struct {
	Name string `json:"name"`
	Note string `json:"note,omitempty"`
}

// ExistingOrder is today's order shown read-only
type ExistingOrder struct {
	ID          string             `json:"id"`
	Type        domain.PackageType `json:"type"`
	TypeLabel   string             `json:"typeLabel"`
	IsConfirmed bool               `json:"isConfirmed"`
	Dishes      []OrderedDish      `json:"dishes"`
}

// OrderPage is the view-model of the order screen
type OrderPage struct {
	Screen       ordering.Screen    `json:"screen"`
	Menus        []MenuTab          `json:"menus,omitempty"`
	MenuID       string             `json:"menuId,omitempty"`
	Window       string             `json:"window,omitempty"`
	Open         bool               `json:"open"`
	GateMessage  string             `json:"gateMessage,omitempty"`
	Type         domain.PackageType `json:"type"`
	TypeLabel    string             `json:"typeLabel"`
	Quota        ordering.TurnQuota `json:"quota"`
	Remaining    int                `json:"remaining"`
	Groups       []DishGroup        `json:"groups,omitempty"`
	Selected     int                `json:"selected"`
	Disabled     bool               `json:"disabled"`
	OverQuota    bool               `json:"overQuota"`
	Problem      string             `json:"problem,omitempty"`
	CanSubmit    bool               `json:"canSubmit"`
	Order        *ExistingOrder     `json:"order,omitempty"`
	SubmissionID string             `json:"submissionId,omitempty"`
}

// inputs loads what the order page is computed from
func (h *OrderHandler) inputs(ctx context.Context, sess *session.Session) (ordering.Inputs, error) {
	uid := sess.UserID()
	in := ordering.Inputs{Now: h.clock(), Selection: sess.Selection()}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		in.Menus, err = h.todayMenus(ctx)
		return err
	})
	g.Go(func() (err error) {
		in.TodayOrder, err = querycache.Fetch(ctx, h.cache, querycache.For(uid, "myTodayOrder", h.today()), h.api.MyTodayOrder)
		return err
	})
	g.Go(func() (err error) {
		in.Packages, err = h.activeUserPackages(ctx, uid)
		return err
	})
	if err := g.Wait(); err != nil {
		return in, err
	}
	in.Loaded = true
	return in, nil
}

func (h *OrderHandler) evaluate(c *fiber.Ctx) (ordering.View, ordering.Inputs, error) {
	in, err := h.inputs(c.UserContext(), middleware.Current(c))
	if err != nil {
		return ordering.View{}, in, err
	}
	return ordering.Evaluate(in), in, nil
}

func orderPage(v ordering.View, in ordering.Inputs) OrderPage {
	p := OrderPage{Screen: v.Screen}

	if v.Screen == ordering.ScreenHasExistingOrder {
		o := in.TodayOrder
		existing := &ExistingOrder{
			ID:          o.ID,
			Type:        o.OrderType.Normalize(),
			TypeLabel:   o.OrderType.Normalize().Label(),
			IsConfirmed: o.IsConfirmed,
		}
		for _, item := range o.OrderItems {
			existing.Dishes = append(existing.Dishes, OrderedDish{Name: item.ItemName(), Note: item.Note})
		}
		p.Order = existing
		return p
	}
	if v.Screen != ordering.ScreenSelecting {
		return p
	}

	sel := v.Selection
	for i, m := range in.Menus {
		p.Menus = append(p.Menus, MenuTab{
			ID:     m.ID,
			Label:  fmt.Sprintf("Menu %d (%s - %s)", i+1, m.BeginAt, m.EndAt),
			Active: i == v.MenuIndex,
		})
	}
	p.MenuID = v.Menu.ID
	p.Window = v.Window
	p.Open = v.Gate == ordering.GateOpen
	switch v.Gate {
	case ordering.GateLocked:
		p.GateMessage = ordering.ErrMenuLocked.UserMessage()
	case ordering.GateOutsideWindow:
		p.GateMessage = fmt.Sprintf("Ngoài thời gian đặt cơm (%s)", v.Window)
	}
	p.Type = sel.Type
	p.TypeLabel = sel.Type.Label()
	p.Quota = v.Quota
	p.Remaining = v.Remaining
	for _, g := range v.Groups {
		group := DishGroup{Label: g.Label}
		for _, item := range g.Items {
			group.Dishes = append(group.Dishes, Dish{
				ID:       item.ID,
				Name:     item.Name,
				Selected: sel.Has(item.ID),
				Note:     sel.Note(item.ID),
			})
		}
		p.Groups = append(p.Groups, group)
	}
	p.Selected = sel.Count()
	p.Disabled = v.Disabled
	p.OverQuota = v.OverQuota
	if v.Problem != nil {
		p.Problem = domain.UserMessage(v.Problem)
	}
	p.CanSubmit = v.CanSubmit()
	if !p.Disabled {
		p.SubmissionID = ulid.Make().String()
	}
	return p
}

// Page handles GET /order
func (h *OrderHandler) Page(c *fiber.Ctx) error {
	v, in, err := h.evaluate(c)
	if err != nil {
		return err
	}
	return h.render(c, "order", "Đặt cơm", orderPage(v, in))
}

// SwitchType handles POST /order/type. Switching always clears the picked dishes.
func (h *OrderHandler) SwitchType(c *fiber.Ctx) error {
	middleware.Current(c).Selection().SwitchType(domain.ParsePackageType(c.FormValue("type")))
	return redirect(c, orderPath)
}

// SwitchMenu handles POST /order/menu
func (h *OrderHandler) SwitchMenu(c *fiber.Ctx) error {
	sel := middleware.Current(c).Selection()
	if id := c.FormValue("menuId"); id != "" && id != sel.MenuID {
		sel.SwitchMenu(id)
	}
	return redirect(c, orderPath)
}

// Toggle handles POST /order/toggle. Dishes cannot be picked while the
// checkboxes are inert.
func (h *OrderHandler) Toggle(c *fiber.Ctx) error {
	v, _, err := h.evaluate(c)
	if err != nil {
		return err
	}
	if v.Screen != ordering.ScreenSelecting || v.Disabled {
		return redirect(c, orderPath)
	}

	itemID := c.FormValue("itemId")
	for _, item := range v.Menu.MenuItems {
		if item.ID == itemID {
			v.Selection.Toggle(itemID)
			break
		}
	}
	return redirect(c, orderPath)
}

// Note handles POST /order/note
func (h *OrderHandler) Note(c *fiber.Ctx) error {
	middleware.Current(c).Selection().SetNote(c.FormValue("itemId"), c.FormValue("note"))
	return redirect(c, orderPath)
}

// Submit handles POST /order. A full form post replaces the draft with
// the posted dishes before the order is checked and sent.
func (h *OrderHandler) Submit(c *fiber.Ctx) error {
	sess := middleware.Current(c)
	applyPostedSelection(c, sess.Selection())

	v, _, err := h.evaluate(c)
	if err != nil {
		return err
	}
	if v.Screen != ordering.ScreenSelecting {
		return redirect(c, orderPath)
	}
	orderType := string(v.Selection.Type)
	if v.Problem != nil {
		telemetry.RecordOrder(c.UserContext(), orderType, telemetry.OrderRejected)
		title := "❌ Không thể đặt cơm"
		if errors.Is(v.Problem, ordering.ErrNothingSelected) {
			title = "⚠️ Chưa chọn món"
		}
		sess.Error(title, domain.UserMessage(v.Problem))
		return redirect(c, orderPath)
	}

	_, msg, err := h.api.CreateOrder(c.UserContext(), v.Selection.Request())
	if err != nil {
		telemetry.RecordOrder(c.UserContext(), orderType, telemetry.OrderFailed)
		return h.failed(c, "❌ Đặt cơm thất bại", err, orderPath)
	}
	telemetry.RecordOrder(c.UserContext(), orderType, telemetry.OrderPlaced)
	middleware.MarkCommitted(c)

	sess.Draft = nil
	h.invalidate(c, sess.UserID(), "myTodayOrder", "myActivePackages", "myPackages", "myOrders")
	h.invalidate(c, querycache.AdminScope, "orders", "dashboard", "statistics")
	if msg == "" {
		msg = "Đơn của bạn đã được ghi nhận"
	}
	return h.succeeded(c, "✅ Đặt cơm thành công!", msg, orderPath)
}

// applyPostedSelection overwrites the draft with a full order form. Forms
// without an items field leave the draft untouched.
func applyPostedSelection(c *fiber.Ctx, sel *ordering.Selection) {
	items, ok := formList(c, "items")
	if !ok {
		return
	}
	if t := c.FormValue("type"); t != "" && domain.ParsePackageType(t) != sel.Type.Normalize() {
		sel.SwitchType(domain.ParsePackageType(t))
	}
	if id := c.FormValue("menuId"); id != "" && id != sel.MenuID {
		sel.SwitchMenu(id)
	}

	sel.Items = nil
	sel.Notes = nil
	for _, id := range items {
		id = strings.TrimSpace(id)
		if id == "" || sel.Has(id) {
			continue
		}
		sel.Toggle(id)
		sel.SetNote(id, c.FormValue("note["+id+"]"))
	}
}

// formList returns every value of a repeated form field
func formList(c *fiber.Ctx, name string) ([]string, bool) {
	if form, err := c.MultipartForm(); err == nil {
		values, ok := form.Value[name]
		return values, ok
	}
	args := c.Request().PostArgs()
	if !args.Has(name) {
		return nil, false
	}
	raw := args.PeekMulti(name)
	values := make([]string, 0, len(raw))
	for _, v := range raw {
		values = append(values, string(v))
	}
	return values, true
}
