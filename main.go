package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"taskman/internal/handlers"
	"taskman/internal/middleware"
	"taskman/internal/models"
	"taskman/internal/repositories"
	"taskman/internal/services"
	"taskman/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_DRIVER", "sqlite")
	viper.SetDefault("DATABASE_DSN", "taskman.db")
	viper.SetDefault("JWT_SECRET", "supersecretjwtkey")
	viper.SetDefault("TOKEN_TTL", "24h")
	viper.SetDefault("RABBITMQ_URL", "") // empty disables task events
	viper.AutomaticEnv()

	appPort := viper.GetString("APP_PORT")
	jwtSecret := viper.GetString("JWT_SECRET")
	tokenTTL := viper.GetDuration("TOKEN_TTL")
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}

	// --- Initialize Repositories ---
	userRepo, taskRepo, err := setupRepositories(
		viper.GetString("DATABASE_DRIVER"),
		viper.GetString("DATABASE_DSN"),
	)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// --- Initialize RabbitMQ Client (optional) ---
	var mqClient *rabbitmq.Client
	var publisher services.EventPublisher
	if rabbitMQURL := viper.GetString("RABBITMQ_URL"); rabbitMQURL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: rabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		publisher = mqClient
	}

	// --- Initialize Services ---
	authService := services.NewAuthService(userRepo, jwtSecret, tokenTTL)
	taskService := services.NewTaskService(taskRepo, publisher)

	// --- Initialize Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	taskHandler := handlers.NewTaskHandler(taskService)

	// --- Initialize Fiber App ---
	app := fiber.New()
	app.Use(logger.New())

	// --- API Routes ---
	api := app.Group("/api")

	// Authentication routes (public)
	authHandler.RegisterRoutes(api)

	// Task routes (bearer token required)
	protected := api.Group("", middleware.AuthRequired(authService))
	taskHandler.RegisterRoutes(protected)

	// --- Health Check Endpoint ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start RabbitMQ Consumer in a Goroutine ---
	if mqClient != nil {
		go func() {
			log.Println("Starting RabbitMQ consumer for task events...")
			messageHandler := func(msg amqp.Delivery) error {
				log.Printf("Received task event %s (tag %d): %s", msg.Type, msg.DeliveryTag, string(msg.Body))
				return nil
			}
			if consumerErr := mqClient.ConsumeTaskEvents(messageHandler); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	}

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", appPort)

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

// setupRepositories opens the configured store and returns the user and
// task repositories. "memory" skips the database entirely and serves from
// the in-memory repositories, which is handy for local experiments.
func setupRepositories(driver, dsn string) (repositories.UserRepository, repositories.TaskRepository, error) {
	if driver == "memory" {
		return repositories.NewMockUserRepository(), repositories.NewMockTaskRepository(), nil
	}

	var dialector gorm.Dialector
	switch driver {
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		dialector = sqlite.Open(dsn)
	}

	// TranslateError turns driver-specific unique violations into
	// gorm.ErrDuplicatedKey, which the user repository relies on.
	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, nil, err
	}
	if err := db.AutoMigrate(&models.User{}, &models.Task{}); err != nil {
		return nil, nil, err
	}

	return repositories.NewGORMUserRepository(db), repositories.NewGORMTaskRepository(db), nil
}
