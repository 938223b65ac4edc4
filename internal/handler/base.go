package handler

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/mealturn/internal/backend"
	"github.com/mansoorceksport/mealturn/internal/domain"
	"github.com/mansoorceksport/mealturn/internal/middleware"
	"github.com/mansoorceksport/mealturn/internal/querycache"
	"github.com/mansoorceksport/mealturn/internal/view"
	"github.com/rs/zerolog"
)

// Deps are shared by every handler
type Deps struct {
	Backend  *backend.Client
	Cache    *querycache.Cache
	Validate *validator.Validate
	Logger   zerolog.Logger
	Location *time.Location
	Now      func() time.Time
}

// base holds the helpers all screen handlers use
type base struct {
	api      *backend.Client
	cache    *querycache.Cache
	validate *validator.Validate
	logger   zerolog.Logger
	loc      *time.Location
	now      func() time.Time
}

func newBase(d Deps, component string) base {
	now := d.Now
	if now == nil {
		now = time.Now
	}
	loc := d.Location
	if loc == nil {
		loc = time.Local
	}
	return base{
		api:      d.Backend,
		cache:    d.Cache,
		validate: d.Validate,
		logger:   d.Logger.With().Str("handler", component).Logger(),
		loc:      loc,
		now:      now,
	}
}

// NewValidator returns a validator reporting fields by their JSON name
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// clock is the current time in the menu time zone
func (b *base) clock() time.Time {
	return b.now().In(b.loc)
}

// today is the menu date key, YYYY-MM-DD
func (b *base) today() string {
	return b.clock().Format("2006-01-02")
}

func (b *base) render(c *fiber.Ctx, name, title string, data interface{}) error {
	return view.Render(c, b.page(c, name, title, data, view.MainLayout))
}

func (b *base) renderAdmin(c *fiber.Ctx, name, title string, data interface{}) error {
	return view.Render(c, b.page(c, name, title, data, view.AdminLayout))
}

func (b *base) page(c *fiber.Ctx, name, title string, data interface{}, layout string) view.Page {
	sess := middleware.Current(c)
	p := view.Page{
		Name:    name,
		Title:   title,
		Flashes: sess.PopFlashes(),
		Data:    data,
		Layout:  layout,
	}
	if sess.IsAuthenticated {
		p.User = sess.User
	}
	return p
}

func redirect(c *fiber.Ctx, to string) error {
	return c.Redirect(to, fiber.StatusSeeOther)
}

// succeeded flashes a success and redirects
func (b *base) succeeded(c *fiber.Ctx, title, message, to string) error {
	middleware.Current(c).Success(title, message)
	return redirect(c, to)
}

// failed flashes the failure and redirects. A rejected session token is
// passed up so the session middleware can sign the visitor out.
func (b *base) failed(c *fiber.Ctx, title string, err error, to string) error {
	return b.failedOr(c, title, err, "Có lỗi xảy ra", to)
}

// failedOr is failed with a fallback message for errors without one
func (b *base) failedOr(c *fiber.Ctx, title string, err error, fallback, to string) error {
	if errors.Is(err, domain.ErrUnauthorized) {
		return err
	}
	var v *domain.ValidationError
	if !errors.As(err, &v) {
		b.logger.Warn().Err(err).Str("path", c.Path()).Msg(title)
	}
	middleware.Current(c).Error(title, domain.UserMessageOr(err, fallback))
	return redirect(c, to)
}

// check validates a struct and turns the first failure into a message
func (b *base) check(s interface{}) error {
	err := b.validate.Struct(s)
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return err
	}
	fe := errs[0]
	return &domain.ValidationError{Field: fe.Field(), Message: fieldMessage(fe)}
}

var fieldLabels = map[string]string{
	"name":        "Tên",
	"email":       "Email",
	"password":    "Mật khẩu",
	"otp":         "Mã OTP",
	"turns":       "Số lượt",
	"price":       "Giá",
	"validDays":   "Số ngày hiệu lực",
	"packageType": "Loại gói",
	"qrCodeImage": "Ảnh QR",
	"rawContent":  "Nội dung menu",
	"menuDate":    "Ngày",
	"beginAt":     "Giờ bắt đầu",
	"endAt":       "Giờ kết thúc",
}

func fieldMessage(fe validator.FieldError) string {
	label, ok := fieldLabels[fe.Field()]
	if !ok {
		label = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return label + " không được để trống"
	case "email":
		return "Email không hợp lệ"
	case "min":
		return label + " phải tối thiểu " + fe.Param()
	case "max":
		return label + " quá dài"
	case "len":
		return label + " phải gồm " + fe.Param() + " ký tự"
	case "numeric":
		return label + " chỉ gồm chữ số"
	case "datetime":
		return label + " không đúng định dạng"
	case "url":
		return label + " phải là đường dẫn hợp lệ"
	case "oneof":
		return label + " không hợp lệ"
	}
	return label + " không hợp lệ"
}

// userScope is the query cache scope of the signed-in user
func userScope(c *fiber.Ctx) string {
	return middleware.Current(c).UserID()
}

// invalidate drops cached queries, logging instead of failing the request
func (b *base) invalidate(c *fiber.Ctx, scope string, names ...string) {
	if err := b.cache.Invalidate(c.UserContext(), scope, names...); err != nil {
		b.logger.Warn().Err(err).Str("scope", scope).Strs("names", names).Msg("query invalidation failed")
	}
}
