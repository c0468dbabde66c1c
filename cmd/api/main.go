package main

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go-marketplace-toko/internal/config"
	"go-marketplace-toko/internal/handler"
	"go-marketplace-toko/internal/middleware"
	"go-marketplace-toko/internal/model"
	"go-marketplace-toko/internal/repository"
	"go-marketplace-toko/internal/service"
	"go-marketplace-toko/internal/storage"
	"go-marketplace-toko/internal/ws"
	"go-marketplace-toko/pkg/database"
	"go-marketplace-toko/pkg/jwt"
	"go-marketplace-toko/pkg/refcodec"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}
	cfg := config.Load()
	if cfg.JWTSecret != "" {
		jwt.SetSecretKey(cfg.JWTSecret)
	}

	codec, err := refcodec.New(cfg.AppKey)
	if err != nil {
		log.Fatalf("APP_KEY: %v", err)
	}

	// 2. Setup Database
	db := database.ConnectDB(cfg.DSN())
	// Auto Migrate (Hati-hati di production, sebaiknya pakai tools migrasi terpisah)
	if err := db.AutoMigrate(&model.User{}, &model.Toko{}, &model.Kategori{}, &model.Produk{}, &model.GambarProduk{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// 3. Seed kategori and admin user
	seedKategoriAndAdmin(db, cfg)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Content directory
	contentFs := storage.NewOsFs(cfg.StorageRoot)
	produkImages := storage.NewImageStore(contentFs, storage.ProdukDir)
	tokoCovers := storage.NewImageStore(contentFs, storage.TokoDir)

	// 6. Dependency Injection (Wiring Layers)
	userRepo := repository.NewUserRepo(db)
	tokoRepo := repository.NewTokoRepo(db)
	kategoriRepo := repository.NewKategoriRepo(db)
	produkRepo := repository.NewProdukRepo(db)
	gambarRepo := repository.NewGambarProdukRepo(db)
	transactor := repository.NewTransactor(db)

	owners := service.NewOwnershipResolver(tokoRepo)
	attachments := service.NewAttachmentManager(produkImages, gambarRepo)
	purger := service.NewTokoPurger(tokoRepo, produkRepo, attachments, tokoCovers, transactor)

	produkService := service.NewProdukService(produkRepo, kategoriRepo, owners, attachments, transactor, codec, wsHub, cfg.MaxUploadBytes)
	tokoService := service.NewTokoService(tokoRepo, userRepo, purger, tokoCovers, codec, wsHub, cfg.MaxUploadBytes)
	tokoSayaService := service.NewTokoSayaService(tokoRepo, owners, purger, codec, wsHub)
	dashService := service.NewDashboardService(produkRepo, owners)
	authService := service.NewAuthService(userRepo, codec)
	userService := service.NewUserService(userRepo, codec)

	produkHandler := handler.NewProdukHandler(produkService)
	tokoHandler := handler.NewTokoHandler(tokoService)
	tokoSayaHandler := handler.NewTokoSayaHandler(tokoSayaService)
	dashHandler := handler.NewDashboardHandler(dashService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	kategoriHandler := handler.NewKategoriHandler(kategoriRepo)

	// 7. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: cfg.AppName,
		// all product images of one request plus the form fields
		BodyLimit: int(cfg.MaxUploadBytes)*service.MaxGambarProduk + 1024*1024,
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// Uploaded images
	app.Static("/storage/assets", filepath.Join(cfg.StorageRoot, "assets"))

	// 8. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/validate-token", authHandler.ValidateToken)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))
	protected.Get("/kategori", kategoriHandler.GetKategori)

	// Admin
	admin := protected.Group("/admin", middleware.RequireRole(model.RoleAdmin))
	admin.Get("/users", userHandler.GetUsers)
	admin.Get("/users/assignable", userHandler.GetAssignable)
	admin.Post("/users", userHandler.CreateUser)

	admin.Get("/toko", tokoHandler.GetAll)
	admin.Get("/toko/export", tokoHandler.Export)
	admin.Get("/toko/:ref", tokoHandler.GetOne)
	admin.Post("/toko", tokoHandler.Create)
	admin.Put("/toko/:ref", tokoHandler.Update)
	admin.Delete("/toko/:ref", tokoHandler.Delete)

	// Member (any signed in user managing their own store)
	member := protected.Group("/member")
	member.Get("/toko", tokoSayaHandler.Get)
	member.Delete("/toko/:ref", tokoSayaHandler.Delete)

	member.Get("/produk", produkHandler.GetProduk)
	member.Get("/produk/form", produkHandler.GetForm)
	member.Get("/produk/:ref", produkHandler.GetOne)
	member.Post("/produk", produkHandler.CreateProduk)
	member.Put("/produk/:ref", produkHandler.UpdateProduk)
	member.Delete("/produk/:ref", produkHandler.DeleteProduk)

	member.Get("/dashboard", dashHandler.GetTokoStats)

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 9. Graceful Shutdown
	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedKategoriAndAdmin creates default kategori and the admin user if they don't exist
func seedKategoriAndAdmin(db *gorm.DB, cfg config.Config) {
	kategoriRepo := repository.NewKategoriRepo(db)
	userRepo := repository.NewUserRepo(db)

	// 1. Seed kategori
	if err := kategoriRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed kategori: %v", err)
	}

	// 2. Create default admin user
	_, err := userRepo.FindByUsername(cfg.AdminUsername)
	if err == nil {
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Warning: Failed to look up admin user: %v", err)
		return
	}

	admin := &model.User{
		Nama:     "Administrator",
		Username: cfg.AdminUsername,
		Role:     model.RoleAdmin,
	}
	if err := admin.SetPassword(cfg.AdminPassword); err != nil {
		log.Printf("Warning: Failed to hash admin password: %v", err)
		return
	}

	if err := userRepo.Create(admin); err != nil {
		log.Printf("Warning: Failed to create admin user: %v", err)
	} else {
		log.Printf("✅ Admin user created: %s (admin)", cfg.AdminUsername)
	}
}
