package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/mealturn/internal/domain"
	"github.com/mansoorceksport/mealturn/internal/ordering"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postForm runs fn inside a request carrying the form
func postForm(t *testing.T, form url.Values, fn func(c *fiber.Ctx) error) {
	t.Helper()

	app := fiber.New()
	app.Post("/", fn)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", fiber.MIMEApplicationForm)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestApplyPostedSelection(t *testing.T) {
	t.Run("full form replaces the draft", func(t *testing.T) {
		sel := &ordering.Selection{
			MenuID: "m-1",
			Type:   domain.PackageTypeNormal,
			Items:  []string{"old"},
			Notes:  map[string]string{"old": "x"},
		}
		form := url.Values{
			"menuId":    {"m-1"},
			"type":      {"normal"},
			"items":     {"", "i-1", "i-2", "i-1"},
			"note[i-2]": {"nhiều rau"},
		}
		postForm(t, form, func(c *fiber.Ctx) error {
			applyPostedSelection(c, sel)
			return nil
		})

		assert.Equal(t, []string{"i-1", "i-2"}, sel.Items)
		assert.Equal(t, "nhiều rau", sel.Note("i-2"))
		assert.Empty(t, sel.Note("old"))
	})

	t.Run("switching type clears the picks", func(t *testing.T) {
		sel := &ordering.Selection{MenuID: "m-1", Type: domain.PackageTypeNormal, Items: []string{"i-1"}}
		postForm(t, url.Values{"type": {"no-rice"}, "items": {""}}, func(c *fiber.Ctx) error {
			applyPostedSelection(c, sel)
			return nil
		})

		assert.Equal(t, domain.PackageTypeNoRice, sel.Type)
		assert.Empty(t, sel.Items)
	})

	t.Run("form without items keeps the draft", func(t *testing.T) {
		sel := &ordering.Selection{MenuID: "m-1", Type: domain.PackageTypeNormal, Items: []string{"i-1"}}
		postForm(t, url.Values{"submissionId": {"abc"}}, func(c *fiber.Ctx) error {
			applyPostedSelection(c, sel)
			return nil
		})

		assert.Equal(t, []string{"i-1"}, sel.Items)
	})
}

func TestFormList(t *testing.T) {
	postForm(t, url.Values{"items": {"a", "b"}}, func(c *fiber.Ctx) error {
		values, ok := formList(c, "items")
		assert.True(t, ok)
		assert.Equal(t, []string{"a", "b"}, values)

		_, ok = formList(c, "missing")
		assert.False(t, ok)
		return nil
	})
}

func TestOrderPage(t *testing.T) {
	loc := time.FixedZone("ICT", 7*3600)
	menus := []domain.DailyMenu{
		{
			ID: "m-1", BeginAt: "10:00", EndAt: "10:45",
			MenuItems: []domain.MenuItem{
				{ID: "i-1", Name: "Cá kho", Category: domain.MenuCategoryDaily},
				{ID: "i-2", Name: "Gà chiên", Category: domain.MenuCategoryNew},
			},
		},
		{ID: "m-2", BeginAt: "16:00", EndAt: "16:30"},
	}
	packages := []domain.UserPackage{{ID: "up-1", PackageType: domain.PackageTypeNormal, RemainingTurns: 2, IsActive: true}}

	t.Run("open window", func(t *testing.T) {
		sel := ordering.NewSelection()
		sel.Toggle("i-2")
		in := ordering.Inputs{
			Loaded:    true,
			Now:       time.Date(2026, 10, 18, 10, 30, 0, 0, loc),
			Menus:     menus,
			Packages:  packages,
			Selection: sel,
		}

		p := orderPage(ordering.Evaluate(in), in)
		assert.Equal(t, ordering.ScreenSelecting, p.Screen)
		require.Len(t, p.Menus, 2)
		assert.Equal(t, "Menu 1 (10:00 - 10:45)", p.Menus[0].Label)
		assert.True(t, p.Menus[0].Active)
		assert.True(t, p.Open)
		assert.Empty(t, p.GateMessage)
		assert.Equal(t, 2, p.Remaining)
		assert.Equal(t, 1, p.Selected)
		assert.True(t, p.CanSubmit)
		assert.NotEmpty(t, p.SubmissionID)
		require.Len(t, p.Groups, 2)
		assert.Equal(t, domain.MenuCategoryNew.Label(), p.Groups[0].Label)
		assert.True(t, p.Groups[0].Dishes[0].Selected)
	})

	t.Run("outside the window", func(t *testing.T) {
		in := ordering.Inputs{
			Loaded:    true,
			Now:       time.Date(2026, 10, 18, 10, 45, 0, 0, loc),
			Menus:     menus,
			Packages:  packages,
			Selection: ordering.NewSelection(),
		}

		p := orderPage(ordering.Evaluate(in), in)
		assert.False(t, p.Open)
		assert.True(t, p.Disabled)
		assert.Equal(t, "Ngoài thời gian đặt cơm (10:00 - 10:45)", p.GateMessage)
		assert.Empty(t, p.SubmissionID)
		assert.False(t, p.CanSubmit)
	})

	t.Run("existing order wins", func(t *testing.T) {
		in := ordering.Inputs{
			Loaded: true,
			Now:    time.Date(2026, 10, 18, 10, 30, 0, 0, loc),
			Menus:  menus,
			TodayOrder: &domain.Order{
				ID:          "o-1",
				OrderType:   domain.PackageTypeNoRice,
				IsConfirmed: true,
				OrderItems: []domain.OrderItem{
					{MenuItem: domain.Ref[domain.MenuItem]{ID: "i-1", Value: &domain.MenuItem{ID: "i-1", Name: "Cá kho"}}, Note: "ít cơm"},
				},
			},
		}

		p := orderPage(ordering.Evaluate(in), in)
		assert.Equal(t, ordering.ScreenHasExistingOrder, p.Screen)
		require.NotNil(t, p.Order)
		assert.True(t, p.Order.IsConfirmed)
		assert.Equal(t, domain.PackageTypeNoRice, p.Order.Type)
		assert.Equal(t, []OrderedDish{{Name: "Cá kho", Note: "ít cơm"}}, p.Order.Dishes)
		assert.Empty(t, p.Menus)
	})
}
