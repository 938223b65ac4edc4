package ordering

import (
	"time"

	"github.com/mansoorceksport/mealturn/internal/domain"
)

// Screen is the state of the order page
type Screen string

const (
	ScreenLoading          Screen = "loading"
	ScreenNoPackage        Screen = "no-package"
	ScreenNoMenu           Screen = "no-menu"
	ScreenHasExistingOrder Screen = "has-existing-order"
	ScreenSelecting        Screen = "selecting"
)

// Inputs is everything the order page knows when it renders
type Inputs struct {
	Loaded     bool
	Now        time.Time
	Menus      []domain.DailyMenu
	TodayOrder *domain.Order
	Packages   []domain.UserPackage
	Selection  *Selection
}

// Resolve picks the screen. The day's existing order always wins so that a
// customer who spent their last turn still sees what they ordered.
func Resolve(in Inputs) Screen {
	switch {
	case !in.Loaded:
		return ScreenLoading
	case in.TodayOrder != nil:
		return ScreenHasExistingOrder
	case len(in.Packages) == 0:
		return ScreenNoPackage
	case len(in.Menus) == 0:
		return ScreenNoMenu
	default:
		return ScreenSelecting
	}
}

// CurrentMenu returns the menu with the given id, or the first menu of the day
func CurrentMenu(menus []domain.DailyMenu, id string) (*domain.DailyMenu, int) {
	for i := range menus {
		if menus[i].ID == id {
			return &menus[i], i
		}
	}
	if len(menus) == 0 {
		return nil, -1
	}
	return &menus[0], 0
}

// View is the computed state of the order page
type View struct {
	Screen    Screen
	Menu      *domain.DailyMenu
	MenuIndex int
	Window    string
	Gate      Gate
	Quota     TurnQuota
	Remaining int
	Selection *Selection
	Groups    []Group
	Disabled  bool
	OverQuota bool
	Problem   error
}

// CanSubmit reports whether the submit button is enabled
func (v *View) CanSubmit() bool {
	return v.Screen == ScreenSelecting && v.Problem == nil
}

// Evaluate computes the order page from its inputs. The selection in the
// inputs is normalised in place: it is bound to the current menu and
// stripped of items that are no longer offered.
func Evaluate(in Inputs) View {
	v := View{Screen: Resolve(in), MenuIndex: -1}
	if v.Screen != ScreenSelecting {
		return v
	}

	sel := in.Selection
	if sel == nil {
		sel = NewSelection()
	}
	sel.Type = sel.Type.Normalize()

	menu, idx := CurrentMenu(in.Menus, sel.MenuID)
	if sel.MenuID != menu.ID {
		sel.SwitchMenu(menu.ID)
	}
	sel.retain(menu)

	v.Menu = menu
	v.MenuIndex = idx
	v.Window = menu.BeginAt + " - " + menu.EndAt
	v.Gate = Check(menu, in.Now)
	v.Quota = Quota(in.Packages)
	v.Remaining = v.Quota.For(sel.Type)
	v.Selection = sel
	v.Groups = GroupByCategory(menu.MenuItems)
	v.Disabled = Disabled(v.Quota, sel.Type, v.Gate)
	v.OverQuota = sel.Count() > v.Remaining
	v.Problem = Validate(sel, v.Quota, v.Gate)
	return v
}
