package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/mansoorceksport/mealturn/internal/backend"
	"github.com/mansoorceksport/mealturn/internal/config"
	"github.com/mansoorceksport/mealturn/internal/handler"
	"github.com/mansoorceksport/mealturn/internal/middleware"
	"github.com/mansoorceksport/mealturn/internal/querycache"
	"github.com/mansoorceksport/mealturn/internal/session"
	"github.com/mansoorceksport/mealturn/internal/telemetry"
	"github.com/mansoorceksport/mealturn/internal/view"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// AppDependencies holds the dependencies required to start the application
type AppDependencies struct {
	Config      *config.Config
	RedisClient *redis.Client
	Backend     *backend.Client
	// QR is nil when no bucket is configured
	QR     handler.QRUploader
	Logger zerolog.Logger
	Now    func() time.Time
}

// NewApp creates and configures the Fiber application with the given dependencies
func NewApp(deps AppDependencies) *fiber.App {
	cfg := deps.Config
	loc := cfg.Location()

	sessions := session.NewStore(deps.RedisClient, cfg.Session.TTL, cfg.Session.RevalidateAfter)
	authenticator := session.NewAuthenticator(deps.Backend, sessions, deps.Logger)
	cache := querycache.New(deps.RedisClient, cfg.Cache.StaleTime, deps.Logger)

	d := handler.Deps{
		Backend:  deps.Backend,
		Cache:    cache,
		Validate: handler.NewValidator(),
		Logger:   deps.Logger,
		Location: loc,
		Now:      deps.Now,
	}
	authHandler := handler.NewAuthHandler(d, authenticator)
	catalogHandler := handler.NewCatalogHandler(d)
	accountHandler := handler.NewAccountHandler(d)
	orderHandler := handler.NewOrderHandler(d)
	adminHandler := handler.NewAdminHandler(d, deps.QR)

	app := fiber.New(fiber.Config{
		AppName:      "mealturn",
		Views:        view.NewEngine(loc, cfg.IsDevelopment()),
		BodyLimit:    int(cfg.Server.MaxUploadSizeMB * 1024 * 1024),
		ErrorHandler: errorHandler(deps.Logger),
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, X-Correlation-ID",
		AllowMethods: "GET, POST, OPTIONS",
	}))
	app.Use(telemetry.FiberMiddleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "mealturn-web",
		})
	})

	app.Use(middleware.Sessions(sessions, authenticator, middleware.SessionConfig{
		CookieName: cfg.Session.CookieName,
		Secure:     cfg.Session.SecureCookie,
	}, deps.Logger))

	// ===========================================
	// PUBLIC
	// ===========================================
	app.Get("/", catalogHandler.Home)
	app.Get("/packages", catalogHandler.Packages)

	guest := middleware.GuestOnly()
	app.Get("/login", guest, authHandler.LoginPage)
	app.Post("/login", guest, authHandler.Login)
	app.Get("/register", guest, authHandler.RegisterPage)
	app.Post("/register", guest, authHandler.Register)
	app.Post("/register/verify", guest, authHandler.VerifyOTP)
	app.Post("/register/resend", guest, authHandler.ResendOTP)
	app.Post("/register/restart", guest, authHandler.RestartRegistration)
	app.Post("/logout", authHandler.Logout)

	// ===========================================
	// SIGNED-IN USERS
	// ===========================================
	protected := middleware.RequireAuth()
	app.Get("/packages/:id", protected, catalogHandler.PackageDetail)
	app.Post("/packages/:id/purchase", protected, catalogHandler.RequestPurchase)
	app.Get("/my-packages", protected, accountHandler.MyPackages)
	app.Post("/my-packages/:id/default", protected, accountHandler.SetDefaultPackage)
	app.Get("/profile", protected, accountHandler.Profile)
	app.Get("/order-history", protected, accountHandler.OrderHistory)

	app.Get("/order", protected, orderHandler.Page)
	app.Post("/order/type", protected, orderHandler.SwitchType)
	app.Post("/order/menu", protected, orderHandler.SwitchMenu)
	app.Post("/order/toggle", protected, orderHandler.Toggle)
	app.Post("/order/note", protected, orderHandler.Note)
	app.Post("/order", protected,
		middleware.Idempotency(deps.RedisClient, cfg.Session.SubmitTTL, deps.Logger),
		orderHandler.Submit)

	// ===========================================
	// ADMIN
	// ===========================================
	admin := app.Group("/admin", middleware.RequireAdmin())
	admin.Get("/", adminHandler.Dashboard)
	admin.Get("/statistics", adminHandler.Statistics)

	admin.Get("/packages", adminHandler.Packages)
	admin.Post("/packages", adminHandler.CreatePackage)
	admin.Post("/packages/:id/delete", adminHandler.DeletePackage)
	admin.Post("/packages/:id", adminHandler.UpdatePackage)
	admin.Post("/purchases/:id/approve", adminHandler.ApprovePurchase)
	admin.Post("/purchases/:id/reject", adminHandler.RejectPurchase)

	admin.Get("/menus", adminHandler.Menus)
	admin.Post("/menus/preview", adminHandler.PreviewMenu)
	admin.Post("/menus", adminHandler.CreateMenu)
	admin.Post("/menus/:id/lock", adminHandler.LockMenu)
	admin.Post("/menus/:id/unlock", adminHandler.UnlockMenu)
	admin.Post("/menus/:id", adminHandler.UpdateMenu)

	admin.Get("/orders", adminHandler.Orders)
	admin.Post("/orders/confirm", adminHandler.ConfirmAll)

	admin.Get("/users", adminHandler.Users)
	admin.Get("/users/:id", adminHandler.UserDetail)
	admin.Post("/users/:id/block", adminHandler.BlockUser)
	admin.Post("/users/:id/unblock", adminHandler.UnblockUser)

	app.Use(func(c *fiber.Ctx) error {
		return fiber.ErrNotFound
	})

	return app
}
