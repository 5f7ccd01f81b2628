package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/codescalper/sankalp/internal/adapters/cache"
	adapterHTTP "github.com/codescalper/sankalp/internal/adapters/handler/http"
	"github.com/codescalper/sankalp/internal/adapters/repository"
	"github.com/codescalper/sankalp/internal/core/domain"
	"github.com/codescalper/sankalp/internal/core/services"
	"github.com/codescalper/sankalp/internal/core/workers"
)

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	startTime := time.Now()

	backend := getEnv("STORAGE_BACKEND", "memory")
	serverPort := getEnv("PORT", "8080")

	var (
		store domain.SnapshotStore
		db    *sqlx.DB
		rdb   *redis.Client
	)

	switch backend {
	case "postgres":
		dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
			getEnv("DB_USER", "sankalp_user"),
			getEnv("DB_PASSWORD", "secret"),
			getEnv("DB_HOST", "localhost"),
			getEnv("DB_PORT", "5432"),
			getEnv("DB_NAME", "sankalp_db"),
		)

		log.Println("Connecting to database...")

		var err error
		db, err = sqlx.Connect("pgx", dsn)
		if err != nil {
			log.Fatalf("Critical: Failed to connect to database: %v", err)
		}
		defer db.Close()

		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)

		pgStore := repository.NewPostgresSnapshotStore(db)
		if err := pgStore.Migrate(context.Background()); err != nil {
			log.Fatalf("Critical: Failed to migrate snapshot table: %v", err)
		}
		store = pgStore

		log.Println("Database connected successfully.")

	case "redis":
		redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
		if err != nil {
			log.Fatalf("Critical: Invalid REDIS_DB: %v", err)
		}

		rdb, err = cache.NewRedisClient(
			getEnv("REDIS_HOST", "localhost"),
			getEnv("REDIS_PORT", "6379"),
			os.Getenv("REDIS_PASSWORD"),
			redisDB,
		)
		if err != nil {
			log.Fatalf("Critical: Failed to connect to redis: %v", err)
		}
		defer rdb.Close()

		store = repository.NewRedisSnapshotStore(rdb)

		log.Println("Redis connected successfully.")

	case "memory":
		store = repository.NewInMemorySnapshotStore()

	default:
		log.Fatalf("Critical: Unknown STORAGE_BACKEND %q (want memory, redis or postgres)", backend)
	}

	reminderInterval := 24 * time.Hour
	if raw := os.Getenv("REMINDER_INTERVAL"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			log.Fatalf("Critical: Invalid REMINDER_INTERVAL: %v", err)
		}
		reminderInterval = parsed
	}

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	worker := workers.NewReminderWorker(workers.LogNotifier{}, reminderInterval)
	worker.Start(workerCtx)

	ledgerService := services.NewLedgerService(store, domain.SystemClock{}, worker)

	// The persisted snapshot is restored (or explicitly discarded) before the
	// router accepts a single request.
	if err := ledgerService.Load(context.Background()); err != nil {
		log.Fatalf("Critical: Failed to load persisted sankalp: %v", err)
	}

	ledgerHandler := adapterHTTP.NewLedgerHandler(ledgerService)

	router := adapterHTTP.NewRouter(adapterHTTP.RouterDependencies{
		LedgerHandler: ledgerHandler,
		Backend:       backend,
		DB:            db,
		Redis:         rdb,
		StartTime:     startTime,
	})

	srv := &http.Server{
		Addr:         ":" + serverPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Sankalp tracker running on http://localhost:%s (storage: %s)", serverPort, backend)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Critical server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Stop signal received. Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Forced shutdown error:", err)
	}

	log.Println("Server stopped gracefully.")
}
