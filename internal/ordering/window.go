package ordering

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mansoorceksport/mealturn/internal/domain"
)

// Clock is a local hour:minute of day
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses "HH:MM" (leading zeros optional). "24:00" is accepted
// as the end of the day.
func ParseClock(s string) (Clock, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return Clock{}, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 24 {
		return Clock{}, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 || (h == 24 && m != 0) {
		return Clock{}, fmt.Errorf("invalid minute in %q", s)
	}
	return Clock{Hour: h, Minute: m}, nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// On anchors the clock to the calendar day of t, in t's location. 24:00
// lands on the following midnight.
func (c Clock) On(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, c.Hour, c.Minute, 0, 0, t.Location())
}

// Window is the daily ordering interval [Begin, End)
type Window struct {
	Begin Clock
	End   Clock
}

// WindowOf reads the ordering window of a menu
func WindowOf(menu *domain.DailyMenu) (Window, error) {
	begin, err := ParseClock(menu.BeginAt)
	if err != nil {
		return Window{}, fmt.Errorf("menu %s: %w", menu.ID, err)
	}
	end, err := ParseClock(menu.EndAt)
	if err != nil {
		return Window{}, fmt.Errorf("menu %s: %w", menu.ID, err)
	}
	return Window{Begin: begin, End: end}, nil
}

// Contains reports whether now falls inside the window on now's own day.
// The opening instant is included and the closing instant is excluded.
func (w Window) Contains(now time.Time) bool {
	begin := w.Begin.On(now)
	end := w.End.On(now)
	return !now.Before(begin) && now.Before(end)
}

func (w Window) String() string {
	return w.Begin.String() + " - " + w.End.String()
}

// Gate is the outcome of checking a menu's availability
type Gate int

const (
	GateOpen Gate = iota
	GateLocked
	GateOutsideWindow
)

// Check decides whether a menu accepts orders at now. A menu whose window
// cannot be parsed is treated as closed.
func Check(menu *domain.DailyMenu, now time.Time) Gate {
	if menu.IsLocked {
		return GateLocked
	}
	w, err := WindowOf(menu)
	if err != nil || !w.Contains(now) {
		return GateOutsideWindow
	}
	return GateOpen
}

// Open reports whether a menu accepts orders at now
func Open(menu *domain.DailyMenu, now time.Time) bool {
	return Check(menu, now) == GateOpen
}
