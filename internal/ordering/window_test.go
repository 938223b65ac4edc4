package ordering

import (
	"testing"
	"time"

	"github.com/mansoorceksport/mealturn/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var saigon = time.FixedZone("ICT", 7*3600)

func at(hour, minute, second int) time.Time {
	return time.Date(2026, 10, 18, hour, minute, second, 0, saigon)
}

func TestParseClock(t *testing.T) {
	c, err := ParseClock("10:45")
	require.NoError(t, err)
	assert.Equal(t, Clock{Hour: 10, Minute: 45}, c)

	c, err = ParseClock("9:05")
	require.NoError(t, err)
	assert.Equal(t, "09:05", c.String())

	c, err = ParseClock("24:00")
	require.NoError(t, err)
	assert.Equal(t, "24:00", c.String())

	for _, bad := range []string{"", "1045", "24:30", "25:00", "10:60", "ab:cd", "-1:10"} {
		_, err := ParseClock(bad)
		assert.Error(t, err, bad)
	}
}

func TestWindowBoundaries(t *testing.T) {
	menu := &domain.DailyMenu{ID: "m1", BeginAt: "10:00", EndAt: "10:45"}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"one minute before opening", at(9, 59, 0), false},
		{"last second before opening", at(9, 59, 59), false},
		{"opening instant", at(10, 0, 0), true},
		{"inside", at(10, 30, 0), true},
		{"last second before closing", at(10, 44, 59), true},
		{"closing instant", at(10, 45, 0), false},
		{"after closing", at(11, 0, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Open(menu, tt.now))
		})
	}
}

func TestCheckLockedWinsOverWindow(t *testing.T) {
	menu := &domain.DailyMenu{BeginAt: "09:00", EndAt: "11:00", IsLocked: true}
	assert.Equal(t, GateLocked, Check(menu, at(10, 0, 0)))
	assert.False(t, Open(menu, at(10, 0, 0)))
}

func TestCheckUnparseableWindowIsClosed(t *testing.T) {
	menu := &domain.DailyMenu{BeginAt: "soon", EndAt: "11:00"}
	assert.Equal(t, GateOutsideWindow, Check(menu, at(10, 0, 0)))
}

func TestWindowUsesDayOfNow(t *testing.T) {
	w := Window{Begin: Clock{10, 0}, End: Clock{10, 45}}
	tomorrow := at(10, 15, 0).AddDate(0, 0, 1)
	assert.True(t, w.Contains(tomorrow))
	assert.Equal(t, "10:00 - 10:45", w.String())
}

func TestWindowClosingAtMidnight(t *testing.T) {
	menu := &domain.DailyMenu{ID: "late", BeginAt: "22:00", EndAt: "24:00"}

	assert.True(t, Open(menu, at(23, 0, 0)))
	assert.True(t, Open(menu, at(23, 59, 59)))
	assert.False(t, Open(menu, at(21, 59, 0)))
	assert.False(t, Open(menu, time.Date(2026, 10, 19, 0, 0, 0, 0, saigon)))
}
