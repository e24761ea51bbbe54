package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"wardrobe/internal/handlers"
	"wardrobe/internal/middleware"
	"wardrobe/internal/models"
	"wardrobe/internal/repositories"
	"wardrobe/internal/services"
	"wardrobe/internal/storage"
	"wardrobe/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	// Set up Viper to read configuration from environment variables
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("SQLITE_PATH", "wardrobe.db")
	viper.SetDefault("UPLOAD_DIR", "./uploads/products")
	viper.SetDefault("JWT_SECRET", "dev-secret-change-me")
	viper.AutomaticEnv() // Load environment variables

	appPort := viper.GetString("APP_PORT")

	// --- Database ---
	// One handle is opened at startup and injected into the
	// repositories; it lives for the whole process.
	db, err := openDatabase()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}, &models.Admin{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- Image store ---
	// Cloudinary when credentials are configured, local disk otherwise.
	images, localDir, err := openImageStore()
	if err != nil {
		log.Fatalf("Failed to configure image store: %v", err)
	}

	// --- Catalog events (optional) ---
	var publisher services.EventPublisher
	if mqURL := viper.GetString("RABBITMQ_URL"); mqURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: mqURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close() // Ensure the connection is closed on exit
		publisher = mqClient
	} else {
		log.Println("RABBITMQ_URL not set, catalog events disabled")
	}

	// --- Fiber app with all routes ---
	app := newApp(db, images, publisher, viper.GetString("JWT_SECRET"))
	if localDir != "" {
		app.Static("/uploads/products", localDir)
	}

	// --- Seed initial admin account ---
	if email := viper.GetString("ADMIN_EMAIL"); email != "" {
		onboarding := services.NewOnboardingService(repositories.NewGORMAdminRepository(db))
		if err := onboarding.Bootstrap(email, viper.GetString("ADMIN_PASSWORD")); err != nil {
			log.Fatalf("Failed to seed admin account: %v", err)
		}
		log.Printf("Admin account %s is ready", email)
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}

// openDatabase connects to PostgreSQL when DATABASE_DSN is configured
// and falls back to a local SQLite file for development.
func openDatabase() (*gorm.DB, error) {
	if dsn := viper.GetString("DATABASE_DSN"); dsn != "" {
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	}
	return gorm.Open(sqlite.Open(viper.GetString("SQLITE_PATH")), &gorm.Config{})
}

// openImageStore picks the image host. The second return value is the
// local upload directory when the disk store is used, empty otherwise.
func openImageStore() (storage.ImageStore, string, error) {
	if cloudName := viper.GetString("CLOUDINARY_CLOUD_NAME"); cloudName != "" {
		store, err := storage.NewCloudinaryStore(
			cloudName,
			viper.GetString("CLOUDINARY_API_KEY"),
			viper.GetString("CLOUDINARY_API_SECRET"),
		)
		return store, "", err
	}
	dir := viper.GetString("UPLOAD_DIR")
	log.Printf("Cloudinary not configured, storing images under %s", dir)
	return storage.NewLocalStore(dir, "/uploads/products"), dir, nil
}

// newApp wires repositories, services and handlers into a Fiber app.
func newApp(db *gorm.DB, images storage.ImageStore, publisher services.EventPublisher, jwtSecret string) *fiber.App {
	// --- Initialize Repositories ---
	productRepo := repositories.NewGORMProductRepository(db)
	adminRepo := repositories.NewGORMAdminRepository(db)

	// --- Initialize Services ---
	productService := services.NewProductService(productRepo, images, publisher)
	authService := services.NewAuthService(adminRepo, jwtSecret)
	onboardingService := services.NewOnboardingService(adminRepo)
	metricsService := services.NewMetricsService(productRepo)

	// --- Initialize Handlers ---
	productHandler := handlers.NewProductHandler(productService)
	authHandler := handlers.NewAuthHandler(authService)
	adminHandler := handlers.NewAdminHandler(onboardingService)
	dashboardHandler := handlers.NewDashboardHandler(metricsService)

	app := fiber.New()

	// --- Middleware ---
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New()) // Request logger
	app.Use(cors.New())

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- API Routes ---
	// Group routes under /api/v1
	apiV1 := app.Group("/api/v1")

	// Authentication routes (public)
	authHandler.RegisterRoutes(apiV1)

	// Everything else requires a valid session token
	protected := apiV1.Group("", middleware.AuthRequired(authService))
	productHandler.RegisterRoutes(protected)
	adminHandler.RegisterRoutes(protected)
	dashboardHandler.RegisterRoutes(protected)

	return app
}
