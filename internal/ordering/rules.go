package ordering

import (
	"fmt"

	"github.com/mansoorceksport/mealturn/internal/domain"
)

// Violation is a reason an order submission is refused before any request
// is sent.
type Violation struct {
	code    string
	message string
}

func (v *Violation) Error() string {
	return "order rejected: " + v.code
}

// UserMessage returns the text shown to the customer
func (v *Violation) UserMessage() string {
	return v.message
}

// Submission rule violations
var (
	ErrNothingSelected = &Violation{"nothing_selected", "Vui lòng chọn ít nhất 1 món ăn"}
	ErrMenuLocked      = &Violation{"menu_locked", "Menu đã bị khóa, không thể đặt cơm"}
	ErrOutsideWindow   = &Violation{"outside_window", "Ngoài thời gian đặt cơm"}
	ErrNoTurns         = &Violation{"no_turns", "Bạn chưa có gói khả dụng cho loại đặt này"}
	ErrOverQuota       = &Violation{"over_quota", "Vượt quá số lượt còn lại!"}
)

// Validate checks a selection against the quota of its order type and the
// menu gate. It returns nil only when the order may be sent.
func Validate(sel *Selection, quota TurnQuota, gate Gate) error {
	if sel == nil || sel.Count() == 0 {
		return ErrNothingSelected
	}
	switch gate {
	case GateLocked:
		return ErrMenuLocked
	case GateOutsideWindow:
		return ErrOutsideWindow
	}
	remaining := quota.For(sel.Type)
	if remaining <= 0 {
		return ErrNoTurns
	}
	if sel.Count() > remaining {
		return fmt.Errorf("%w: %d selected, %d left", ErrOverQuota, sel.Count(), remaining)
	}
	return nil
}

// Disabled reports whether the dish checkboxes are inert: the gate is closed
// or the chosen type has no turns at all.
func Disabled(quota TurnQuota, t domain.PackageType, gate Gate) bool {
	return gate != GateOpen || quota.For(t) == 0
}
