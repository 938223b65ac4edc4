// Package view renders pages as HTML, or as their JSON view-model when the
// client asks for application/json.
package view

import (
	"embed"
	"io/fs"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/template/html/v2"
	"github.com/mansoorceksport/mealturn/internal/domain"
	"github.com/mansoorceksport/mealturn/internal/session"
)

//go:embed templates
var templates embed.FS

const (
	MainLayout  = "layouts/main"
	AdminLayout = "layouts/admin"
)

// Page is everything a template sees
type Page struct {
	Name    string          `json:"page"`
	Title   string          `json:"title"`
	User    *domain.User    `json:"user,omitempty"`
	Flashes []session.Flash `json:"flashes"`
	Data    interface{}     `json:"data"`
	Layout  string          `json:"-"`
	Path    string          `json:"-"`
}

// NewEngine parses the embedded templates. reload re-reads them on every
// render, which only makes sense while developing.
func NewEngine(loc *time.Location, reload bool) *html.Engine {
	sub, err := fs.Sub(templates, "templates")
	if err != nil {
		panic(err)
	}
	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFuncMap(Funcs(loc))
	engine.Reload(reload)
	return engine
}

// WantsJSON reports whether the client prefers the JSON view-model
func WantsJSON(c *fiber.Ctx) bool {
	return c.Accepts(fiber.MIMETextHTML, fiber.MIMEApplicationJSON) == fiber.MIMEApplicationJSON
}

// Render writes the page with status 200
func Render(c *fiber.Ctx, page Page) error {
	return RenderStatus(c, fiber.StatusOK, page)
}

// RenderStatus writes the page with the given status
func RenderStatus(c *fiber.Ctx, status int, page Page) error {
	if page.Flashes == nil {
		page.Flashes = []session.Flash{}
	}
	c.Status(status)
	if WantsJSON(c) {
		return c.JSON(page)
	}
	if page.Layout == "" {
		page.Layout = MainLayout
	}
	page.Path = c.Path()
	return c.Render(page.Name, page, page.Layout)
}
