package main

import (
	"context"
	"log"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/Andika-Pratama/be_dashboard_proyek/internal/config"
	"github.com/Andika-Pratama/be_dashboard_proyek/internal/db"
	"github.com/Andika-Pratama/be_dashboard_proyek/internal/handlers"
	"github.com/Andika-Pratama/be_dashboard_proyek/internal/middleware"
	"github.com/Andika-Pratama/be_dashboard_proyek/internal/models"
	"github.com/Andika-Pratama/be_dashboard_proyek/internal/realtime"
)

// snapshotSources memetakan nama koleksi ke query snapshot-nya.
// Urutan selalu createdAt desc, sama seperti endpoint list.
func snapshotSources(gdb *gorm.DB) map[string]realtime.SnapshotFunc {
	return map[string]realtime.SnapshotFunc{
		"proyek": func(ctx context.Context) (interface{}, error) {
			var items []models.Proyek
			err := gdb.WithContext(ctx).Order("created_at DESC").Find(&items).Error
			return items, err
		},
		"categories": func(ctx context.Context) (interface{}, error) {
			var items []models.Category
			err := gdb.WithContext(ctx).Order("created_at DESC").Find(&items).Error
			return items, err
		},
		"frameworks": func(ctx context.Context) (interface{}, error) {
			var items []models.Framework
			err := gdb.WithContext(ctx).Order("created_at DESC").Find(&items).Error
			return items, err
		},
		"account_types": func(ctx context.Context) (interface{}, error) {
			var items []models.AccountType
			err := gdb.WithContext(ctx).Order("created_at DESC").Find(&items).Error
			return items, err
		},
		"account_providers": func(ctx context.Context) (interface{}, error) {
			var items []models.AccountProvider
			err := gdb.WithContext(ctx).Order("created_at DESC").Find(&items).Error
			return items, err
		},
		"management_accounts": func(ctx context.Context) (interface{}, error) {
			var items []models.ManagementAccount
			err := gdb.WithContext(ctx).Order("created_at DESC").Find(&items).Error
			return items, err
		},
	}
}

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	gdb, err := db.Connect(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	rdb := realtime.NewRedis(cfg.RedisAddr, cfg.RedisPassword)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Redis TIDAK connect:", err)
	}
	log.Println("Redis AKTIF & DIPAKAI oleh backend ✅")

	hub := realtime.NewHub()
	go hub.Run()

	bridge := realtime.NewBridge(rdb, hub, snapshotSources(gdb))
	go bridge.Run(context.Background())

	if err := gdb.AutoMigrate(
		&models.User{},
		&models.Proyek{},
		&models.Category{},
		&models.Framework{},
		&models.AccountType{},
		&models.AccountProvider{},
		&models.ManagementAccount{},
	); err != nil {
		log.Fatal(err)
	}

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendBaseURL + ", http://127.0.0.1:3000, http://localhost:3000",
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders:    "Content-Length",
		AllowCredentials: true, // cookie sesi ikut terkirim
	}))

	// biar preflight selalu kejawab
	app.Options("/*", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	app.Static("/uploads", cfg.UploadDir)

	authH := &handlers.AuthHandler{
		DB:          gdb,
		RDB:         rdb,
		JWTSecret:   cfg.JWTSecret,
		ExpiresDays: cfg.SessionExpiryDays,
	}
	googleH := &handlers.GoogleOAuthHandler{
		DB:              gdb,
		JWTSecret:       cfg.JWTSecret,
		ExpiresDays:     cfg.SessionExpiryDays,
		GoogleClientID:  cfg.GoogleClientID,
		GoogleSecret:    cfg.GoogleSecret,
		GoogleRedirect:  cfg.GoogleRedirect,
		FrontendBaseURL: cfg.FrontendBaseURL,
	}
	proyekH := handlers.NewProyekHandler(gdb, bridge)
	categoryH := handlers.NewCategoryHandler(gdb, bridge)
	frameworkH := handlers.NewFrameworkHandler(gdb, bridge)
	accountTaxH := handlers.NewAccountTaxonomyHandler(gdb, bridge)
	accountH := handlers.NewAccountHandler(gdb, bridge)
	uploadH := handlers.NewUploadHandler(cfg.UploadDir, cfg.AppBaseURL)
	dashboardH := handlers.NewDashboardHandler(gdb)
	profileH := handlers.NewProfileHandler(gdb)
	subscribeH := handlers.NewSubscribeHandler(hub, bridge)

	// halaman signin: satu-satunya rute yang menendang user yang sudah login
	app.Get("/signin",
		middleware.RedirectIfAuthenticated(cfg.JWTSecret, cfg.FrontendBaseURL+"/dashboard"),
		func(c *fiber.Ctx) error {
			return c.Redirect(cfg.FrontendBaseURL+"/signin", http.StatusTemporaryRedirect)
		},
	)

	api := app.Group("/api")

	// public
	api.Post("/auth/register", authH.Register)
	api.Post("/auth/login", authH.Login)
	api.Post("/auth/session", authH.CreateSession)
	api.Get("/auth/session", authH.GetSession)
	api.Delete("/auth/session", authH.DeleteSession)
	api.Get("/auth/google/start", googleH.GoogleStart)
	api.Get("/auth/google/callback", googleH.GoogleCallback)

	// protected (cookie sesi)
	protected := api.Group("/",
		middleware.SessionFromCookie(cfg.JWTSecret),
		middleware.AttachSessionLocals(),
	)

	protected.Get("/proyek", proyekH.List)
	protected.Get("/proyek/:id", proyekH.Get)
	protected.Post("/proyek", proyekH.Create)
	protected.Put("/proyek/:id", proyekH.Update)
	protected.Delete("/proyek/:id", proyekH.Delete)

	protected.Get("/categories", categoryH.List)
	protected.Post("/categories", categoryH.Create)
	protected.Put("/categories/:id", categoryH.Update)
	protected.Delete("/categories/:id", categoryH.Delete)

	protected.Get("/frameworks", frameworkH.List)
	protected.Post("/frameworks", frameworkH.Create)
	protected.Put("/frameworks/:id", frameworkH.Update)
	protected.Delete("/frameworks/:id", frameworkH.Delete)

	protected.Get("/account-types", accountTaxH.ListTypes)
	protected.Post("/account-types", accountTaxH.CreateType)
	protected.Delete("/account-types/:id", accountTaxH.DeleteType)

	protected.Get("/account-providers", accountTaxH.ListProviders)
	protected.Post("/account-providers", accountTaxH.CreateProvider)
	protected.Delete("/account-providers/:id", accountTaxH.DeleteProvider)

	protected.Get("/accounts", accountH.List)
	protected.Get("/accounts/:id", accountH.Get)
	protected.Post("/accounts", accountH.Create)
	protected.Put("/accounts/:id", accountH.Update)
	protected.Delete("/accounts/:id", accountH.Delete)

	protected.Post("/upload/image", uploadH.Upload)

	protected.Get("/dashboard/stats", dashboardH.Stats)

	protected.Get("/profile", profileH.Get)
	protected.Patch("/profile", profileH.Update)

	// WebSocket (tanpa middleware cookie, koleksi via query param)
	app.Get("/ws/subscribe", websocket.New(subscribeH.Handle))

	log.Fatal(app.Listen(":" + cfg.AppPort))
}
