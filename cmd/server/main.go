package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/contrib/otelfiber/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/prasanna-0103/dynamic-forms-backend/internal/api"
	"github.com/prasanna-0103/dynamic-forms-backend/internal/events"
	"github.com/prasanna-0103/dynamic-forms-backend/internal/repository"
	"github.com/prasanna-0103/dynamic-forms-backend/internal/service"
	"github.com/prasanna-0103/dynamic-forms-backend/internal/tracing"
	_ "github.com/prasanna-0103/dynamic-forms-backend/migrations"
)

func main() {
	if err := godotenv.Load(".env.dev"); err != nil {
		fmt.Println("No .env.dev file found, reading from environment variables provided by Docker")
	}

	api.SetupGlobalHandler("dynamic-forms-backend")

	shutdownTracer, err := tracing.InitTracerProvider("dynamic-forms-backend")
	if err != nil {
		log.Fatalf("Failed to initialize OpenTelemetry: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.Printf("Error shutting down tracer provider: %v", err)
		}
	}()

	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		handleMigrations()
		return
	}

	db := connectDB()
	defer db.Close()

	var eventPublisher events.EventPublisher = events.NopPublisher{}
	if natsURL := os.Getenv("NATS_URL"); natsURL != "" {
		eventPublisher, err = events.NewNatsPublisher(natsURL)
		if err != nil {
			log.Fatalf("Failed to connect to NATS: %v", err)
		}
		log.Println("Successfully connected to NATS.")
	} else {
		log.Println("NATS_URL not set, event publishing disabled.")
	}

	categoryRepo := repository.NewPostgresCategoryRepository(db)
	userRepo := repository.NewPostgresUserRepository(db)

	categoryService := service.NewCategoryService(categoryRepo, eventPublisher)
	userService := service.NewUserService(userRepo, eventPublisher)

	categoryHandler := api.NewCategoryHandler(categoryService)
	userHandler := api.NewUserHandler(userService)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(otelfiber.Middleware())
	app.Use(api.PrometheusMiddleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": "dynamic-forms-backend"})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	apiRoutes := app.Group("/api")
	apiRoutes.Get("/search", userHandler.Search)
	apiRoutes.Post("/categories", categoryHandler.CreateCategory)
	apiRoutes.Get("/categories", categoryHandler.ListCategories)
	apiRoutes.Get("/basicfields", categoryHandler.ListBasicFields)
	apiRoutes.Get("/categories/:categoryId/fields", categoryHandler.ListCategoryFields)
	apiRoutes.Post("/submit", userHandler.Submit)

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	log.Printf("Listening dynamic-forms-backend on port %s", port)
	log.Fatal(app.Listen(":" + port))
}

func databaseURL() string {
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbName := os.Getenv("DB_NAME")
	sslMode := os.Getenv("DB_SSLMODE")
	if sslMode == "" {
		// Encrypted transport without certificate verification, matching the
		// relaxed-validation deployment this service targets.
		sslMode = "require"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s&connect_timeout=2",
		dbUser, dbPassword, dbHost, dbPort, dbName, sslMode,
	)
}

func connectDB() *sqlx.DB {
	db, err := sqlx.Connect("pgx", databaseURL())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	maxConns := 10
	if v := os.Getenv("DB_MAX_CONNS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			maxConns = n
		}
	}
	db.SetMaxOpenConns(maxConns)
	db.SetMaxIdleConns(maxConns)
	db.SetConnMaxIdleTime(30 * time.Second)

	log.Println("Successfully connected to the database.")
	return db
}

func handleMigrations() {
	fmt.Println("Running database migrations...")

	db, err := sql.Open("pgx", databaseURL())
	if err != nil {
		log.Fatalf("failed to connect to database for migration: %v", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("failed to set goose dialect: %v", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		log.Fatalf("goose: failed to run migrations: %v", err)
	}

	fmt.Println("Migrations applied successfully!")
}
