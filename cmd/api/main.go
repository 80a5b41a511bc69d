package main

import (
	"os"
	"os/signal"
	"syscall"

	"go-stocktrack/internal/handler"
	"go-stocktrack/internal/middleware"
	"go-stocktrack/internal/model"
	"go-stocktrack/internal/repository"
	"go-stocktrack/internal/service"
	"go-stocktrack/internal/ws"
	"go-stocktrack/pkg/config"
	"go-stocktrack/pkg/database"
	applogger "go-stocktrack/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/joho/godotenv"
)

func main() {
	// 1. Load env + config
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := applogger.New(applogger.Config{Env: cfg.App.Env, Level: os.Getenv("LOG_LEVEL")})

	// 2. Setup database
	db, err := database.Connect(cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := db.AutoMigrate(&model.User{}, &model.Product{}, &model.Transaction{}); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// 3. Wiring
	userRepo := repository.NewUserRepo(db)
	productRepo := repository.NewProductRepo(db)
	txRepo := repository.NewTransactionRepo(db)

	// The first admin cannot register itself (the route is admin-gated)
	seedAdmin(userRepo, log)

	hub := ws.NewHub()
	go hub.Run()

	store := session.New()

	authService := service.NewAuthService(userRepo, cfg.JWT)
	userService := service.NewUserService(userRepo, txRepo, db, hub)
	invService := service.NewInventoryService(productRepo, txRepo, db, hub)
	dashService := service.NewDashboardService(productRepo, txRepo)

	authHandler := handler.NewAuthHandler(authService, store)
	userHandler := handler.NewUserHandler(userService, store)
	invHandler := handler.NewInventoryHandler(invService, store)
	dashHandler := handler.NewDashboardHandler(dashService, store)

	// 4. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: cfg.App.Name,
	})

	app.Use(fiberlogger.New()) // Request logging
	app.Use(recover.New())     // Panic recovery
	app.Use(cors.New())

	// 5. Routes
	requireAuth := middleware.RequireAuth(store, userRepo, cfg.JWT.Secret)

	// ============ PUBLIC ROUTES ============
	app.Get("/login", authHandler.LoginPage)
	app.Post("/login", authHandler.Login)

	// ============ PROTECTED ROUTES ============
	app.Get("/logout", requireAuth, authHandler.Logout)
	app.Get("/dashboard", requireAuth, dashHandler.Dashboard)

	// Admin only
	admin := middleware.RequireRole(model.RoleAdmin)
	app.Get("/register", requireAuth, admin, userHandler.RegisterPage)
	app.Post("/register", requireAuth, admin, userHandler.Register)
	app.Get("/getusers", requireAuth, admin, userHandler.GetUsers)
	app.Post("/delete_user/:id", requireAuth, admin, userHandler.DeleteUser)

	// Admin + manager
	catalog := middleware.RequireRole(model.RoleAdmin, model.RoleManager)
	app.Get("/add_product", requireAuth, catalog, invHandler.AddProductPage)
	app.Post("/add_product", requireAuth, catalog, invHandler.AddProduct)
	app.Get("/update_product", requireAuth, catalog, invHandler.UpdateProductPage)
	app.Post("/update_product", requireAuth, catalog, invHandler.UpdateProduct)

	// Everyone with a role
	stock := middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleStaff)
	app.Get("/update_stock", requireAuth, stock, invHandler.UpdateStockPage)
	app.Post("/update_stock", requireAuth, stock, invHandler.UpdateStock)

	// WebSocket ledger feed
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		hub.Register <- c
		defer func() { hub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 6. Graceful shutdown
	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("addr", cfg.HTTP.Addr()).Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	if err := app.Shutdown(); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server exited")
}

// seedAdmin creates a default admin account when the user table is empty
func seedAdmin(userRepo repository.UserRepository, log *applogger.Logger) {
	count, err := userRepo.Count()
	if err != nil {
		log.Warn().Err(err).Msg("failed to check user table")
		return
	}
	if count > 0 {
		return
	}

	admin := &model.User{
		FullName: "Administrator",
		Username: "admin",
		Role:     model.RoleAdmin,
	}
	if err := admin.SetPassword("admin123"); err != nil {
		log.Warn().Err(err).Msg("failed to hash admin password")
		return
	}
	if err := userRepo.Create(admin); err != nil {
		log.Warn().Err(err).Msg("failed to seed admin user")
		return
	}
	log.Warn().Msg("seeded default admin user admin/admin123 - change this password")
}
