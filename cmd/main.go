package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"opsdash/backend/internal/api/handler"
	"opsdash/backend/internal/chathub"
	"opsdash/backend/internal/directory"
	"opsdash/backend/internal/invitations"
	"opsdash/backend/internal/localization"
	"opsdash/backend/internal/models"
	"opsdash/backend/internal/storage"
)

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func setupDependencies() (*gorm.DB, *redis.Client) {
	// 1. PostgreSQL
	dsn := envOr("DATABASE_DSN",
		"host=localhost user=user password=password dbname=opsdashdb port=5432 sslmode=disable")

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	// 2. Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     envOr("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	// Перевірка з'єднання Redis
	ctx := context.Background()
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	// 3. Міграції (створення таблиць)
	err = db.AutoMigrate(
		&models.Room{},
		&models.Participant{},
		&models.Message{},
		&models.Invitation{},
		&models.StaffUser{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func main() {
	log.Println("Starting OpsDash Messaging Backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	// 1. Ініціалізація залежностей
	db, rdb := setupDependencies()
	s := storage.NewStorageService(db, rdb)
	dir := directory.NewService(db)
	orders := directory.NewOrderClient(envOr("ORDER_SERVICE_URL", "http://localhost:8090"))
	invSvc := invitations.NewService(s)

	loc, err := localization.NewLocalizer(envOr("LOCALES_DIR", "locales"), envOr("DEFAULT_LANG", "en"))
	if err != nil {
		log.Fatalf("Failed to load localization files: %v", err)
	}

	// 2. Ініціалізація Chat Hub
	hub := chathub.NewManagerService(s, dir, orders, invSvc, loc)

	// 3. Запуск основних Goroutines
	go hub.Run() // Головний диспетчер
	// Слухач Redis Pub/Sub
	hub.StartPubSubListener(s)

	// 4. Налаштування Gin та роутингу
	r := gin.Default()
	h := handler.NewHandler(hub, dir)

	// Роути
	r.GET("/auth/token", h.GetStaffToken) // Видача JWT для staff ID (dev/ops)
	r.GET("/ws", h.ServeWebSocket)        // WebSocket Upgrade

	// Запуск HTTP-сервера
	server := &http.Server{
		Addr:           envOr("LISTEN_ADDR", ":8080"),
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}
