package view

import (
	"html/template"
	"time"

	"github.com/mansoorceksport/mealturn/internal/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.Vietnamese)

// VND formats an amount of dong the way prices are shown, e.g. "350.000 ₫"
func VND(amount int64) string {
	return printer.Sprintf("%d ₫", amount)
}

// Number formats an integer with Vietnamese digit grouping
func Number(n int) string {
	return printer.Sprintf("%d", n)
}

// Funcs is the template function map; dates are shown in loc
func Funcs(loc *time.Location) template.FuncMap {
	local := func(t time.Time) time.Time {
		if loc == nil {
			return t
		}
		return t.In(loc)
	}

	return template.FuncMap{
		"vnd":    VND,
		"number": Number,
		"date": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return local(t).Format("02/01/2006")
		},
		"datetime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return local(t).Format("15:04 02/01/2006")
		},
		"dateptr": func(t *time.Time) string {
			if t == nil || t.IsZero() {
				return ""
			}
			return local(*t).Format("02/01/2006")
		},
		"isodate": func(t time.Time) string {
			return local(t).Format("2006-01-02")
		},
		"typeLabel": func(t domain.PackageType) string {
			return t.Normalize().Label()
		},
		"statusLabel": StatusLabel,
		"add": func(a, b int) int {
			return a + b
		},
		"deref": func(b *bool) bool {
			return b != nil && *b
		},
	}
}

// StatusLabel names a purchase request status
func StatusLabel(s domain.PurchaseStatus) string {
	switch s {
	case domain.PurchaseStatusApproved:
		return "Đã duyệt"
	case domain.PurchaseStatusRejected:
		return "Đã từ chối"
	default:
		return "Chờ duyệt"
	}
}
