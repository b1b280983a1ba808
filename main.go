package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"catalog/internal/handlers"
	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/internal/services"
	"catalog/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_DRIVER", "sqlite")
	viper.SetDefault("DATABASE_DSN", "catalog.db")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.AutomaticEnv()

	// --- Initialize Database ---
	db, err := openDatabase(viper.GetString("DATABASE_DRIVER"), viper.GetString("DATABASE_DSN"))
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// --- Initialize RabbitMQ Client (optional) ---
	// Catalog events are best-effort; with no broker configured the
	// service runs without them.
	var mqClient *rabbitmq.Client
	if mqURL := viper.GetString("RABBITMQ_URL"); mqURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: mqURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
	}

	// --- Wire repositories, services, app ---
	productRepo := repositories.NewGORMProductRepository(db)
	productService := services.NewProductService(productRepo, mqClient)
	app := buildApp(productService)

	// --- Start RabbitMQ Consumer in a Goroutine ---
	if mqClient != nil {
		go func() {
			log.Println("Starting RabbitMQ consumer for catalog events...")
			consumeErr := mqClient.ConsumeCatalogEvents(func(msg amqp.Delivery) error {
				log.Printf("Received catalog event (tag %d): %s", msg.DeliveryTag, string(msg.Body))
				return nil
			})
			if consumeErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumeErr)
			}
		}()
	}

	// --- Start HTTP Server ---
	appPort := viper.GetString("APP_PORT")
	log.Printf("Starting server on %s", appPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// openDatabase opens the configured store: SQLite by default, PostgreSQL
// when DATABASE_DRIVER=postgres.
func openDatabase(driver, dsn string) (*gorm.DB, error) {
	switch driver {
	case "sqlite":
		return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	case "postgres":
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// buildApp assembles the Fiber app: middleware, product API, dashboard
// and health endpoint.
func buildApp(productService *services.ProductService) *fiber.App {
	app := fiber.New()

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(logger.New())

	productHandler := handlers.NewProductHandler(productService)
	productHandler.RegisterRoutes(app)

	dashboardHandler := handlers.NewDashboardHandler()
	dashboardHandler.RegisterRoutes(app)

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	return app
}
