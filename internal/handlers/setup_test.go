package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Andika-Pratama/be_dashboard_proyek/internal/middleware"
	"github.com/Andika-Pratama/be_dashboard_proyek/internal/models"
	"github.com/Andika-Pratama/be_dashboard_proyek/internal/realtime"
	"github.com/Andika-Pratama/be_dashboard_proyek/internal/utils"
)

const testJWTSecret = "test-secret"

type testEnv struct {
	App    *fiber.App
	DB     *gorm.DB
	RDB    *goredis.Client
	Hub    *realtime.Hub
	Bridge *realtime.Bridge
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, gdb.AutoMigrate(
		&models.User{},
		&models.Proyek{},
		&models.Category{},
		&models.Framework{},
		&models.AccountType{},
		&models.AccountProvider{},
		&models.ManagementAccount{},
	))

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})

	hub := realtime.NewHub()
	go hub.Run()

	bridge := realtime.NewBridge(rdb, hub, map[string]realtime.SnapshotFunc{
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
	})

	app := fiber.New()

	authH := &AuthHandler{DB: gdb, RDB: rdb, JWTSecret: testJWTSecret, ExpiresDays: 5}
	proyekH := NewProyekHandler(gdb, bridge)
	categoryH := NewCategoryHandler(gdb, bridge)
	frameworkH := NewFrameworkHandler(gdb, bridge)
	accountTaxH := NewAccountTaxonomyHandler(gdb, bridge)
	accountH := NewAccountHandler(gdb, bridge)
	dashboardH := NewDashboardHandler(gdb)
	profileH := NewProfileHandler(gdb)
	uploadH := NewUploadHandler(t.TempDir(), "http://localhost:8080")
	subscribeH := NewSubscribeHandler(hub, bridge)

	app.Get("/ws/subscribe", websocket.New(subscribeH.Handle))

	api := app.Group("/api")

	api.Post("/auth/register", authH.Register)
	api.Post("/auth/login", authH.Login)
	api.Post("/auth/session", authH.CreateSession)
	api.Get("/auth/session", authH.GetSession)
	api.Delete("/auth/session", authH.DeleteSession)

	protected := api.Group("/",
		middleware.SessionFromCookie(testJWTSecret),
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

	protected.Get("/account-types", accountTaxH.ListTypes)
	protected.Post("/account-types", accountTaxH.CreateType)
	protected.Get("/account-providers", accountTaxH.ListProviders)
	protected.Post("/account-providers", accountTaxH.CreateProvider)

	protected.Get("/accounts", accountH.List)
	protected.Post("/accounts", accountH.Create)
	protected.Put("/accounts/:id", accountH.Update)
	protected.Delete("/accounts/:id", accountH.Delete)

	protected.Post("/upload/image", uploadH.Upload)
	protected.Get("/dashboard/stats", dashboardH.Stats)
	protected.Get("/profile", profileH.Get)
	protected.Patch("/profile", profileH.Update)

	return &testEnv{App: app, DB: gdb, RDB: rdb, Hub: hub, Bridge: bridge}
}

// seedUser membuat user aktif dan mengembalikan token sesinya.
func (e *testEnv) seedUser(t *testing.T, email string) (*models.User, string) {
	t.Helper()

	hashed, err := utils.HashPassword("rahasia123")
	require.NoError(t, err)

	u := models.User{
		DisplayName: "Andika",
		Email:       email,
		Password:    hashed,
		Role:        models.RoleUser,
		IsActive:    true,
	}
	require.NoError(t, e.DB.Create(&u).Error)

	token, err := utils.SignSessionToken(testJWTSecret, u.UID.String(), string(u.Role), 5)
	require.NoError(t, err)
	return &u, token
}

func withSession(req *http.Request, token string) *http.Request {
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: token})
	return req
}
