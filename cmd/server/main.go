package main

import (
	"context"
	"database/sql"
	"delivery-tour-service/internal/adapters/cache"
	"delivery-tour-service/internal/adapters/distance"
	"delivery-tour-service/internal/adapters/publisher"
	"delivery-tour-service/internal/adapters/repositories"
	"delivery-tour-service/internal/api"
	"delivery-tour-service/internal/config"
	"delivery-tour-service/internal/platform/db"
	"delivery-tour-service/internal/ports"
	"delivery-tour-service/internal/routing/search"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"
)

// main is the application composition root.
// It wires concrete adapters (SQL, Redis, ORS, brokers) behind ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, dialect, err := db.Open(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	// Initialize schema and seed demo data on startup for local runs.
	if err := initAndSeed(ctx, conn, dialect, cfg.SeedPath); err != nil {
		log.Fatal(err)
	}

	provider, closeProvider, err := newProvider(cfg, conn, dialect)
	if err != nil {
		log.Fatal(err)
	}
	defer closeProvider()

	pub, closePublisher, err := newPublisher(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer closePublisher()

	params := search.DefaultParameters()
	params.Workers = cfg.SearchWorkers
	params.Seed = cfg.SearchSeed
	params.MaxStallRounds = cfg.MaxStallRounds

	router := api.NewRouter(api.Deps{
		Repo:      repositories.NewSQLStopRepository(conn, dialect),
		Provider:  provider,
		Solver:    search.NewEngine(params),
		Publisher: pub,
		Fleet:     cfg.Fleet,

		HealthCheck: conn.PingContext,
	})

	// Write timeout leaves room for the solver budget plus a cold matrix fetch.
	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      180 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("shutdown: %v", err)
		}
	}()

	log.Printf(
		"Server listening addr=:%s db=%s matrix=%s publisher=%s workers=%d",
		cfg.HTTPPort, dialect, cfg.MatrixSource, cfg.Publisher, params.Workers,
	)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func initAndSeed(ctx context.Context, conn *sql.DB, dialect db.Dialect, seedPath string) error {
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if _, err := os.Stat(seedPath); errors.Is(err, os.ErrNotExist) {
		log.Printf("seed file not found, skipping path=%s", seedPath)
		return nil
	}
	if err := repositories.SeedFromJSON(ctx, conn, dialect, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}

// newProvider builds the matrix provider chain: ORS with the SQL pair cache or
// the haversine estimate, optionally behind the Redis matrix cache.
func newProvider(cfg *config.Config, conn *sql.DB, dialect db.Dialect) (ports.DurationMatrixProvider, func(), error) {
	var (
		base ports.DurationMatrixProvider
		err  error
	)
	switch cfg.MatrixSource {
	case config.MatrixORS:
		base, err = distance.NewORSMatrixProvider(
			cfg.ORSAPIKey,
			cache.NewSQLDistanceCache(conn, dialect),
			distance.WithProfile(cfg.ORSProfile),
		)
	default:
		base, err = distance.NewHaversineProvider(cfg.Fleet.AverageSpeedKmph)
	}
	if err != nil {
		return nil, nil, err
	}

	if cfg.RedisAddr == "" {
		return base, func() {}, nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	cached, err := distance.NewCachedMatrixProvider(base, cache.NewRedisMatrixCache(client, "tours:matrix:", cfg.MatrixCacheTTL))
	if err != nil {
		_ = client.Close()
		return nil, nil, err
	}
	return cached, func() { _ = client.Close() }, nil
}

func newPublisher(cfg *config.Config) (ports.PlanPublisher, func(), error) {
	switch cfg.Publisher {
	case config.PublisherAMQP:
		conn, err := amqp.Dial(cfg.RabbitMQURL)
		if err != nil {
			return nil, nil, fmt.Errorf("rabbitmq connect: %w", err)
		}
		p, err := publisher.NewAMQPPlanPublisher(conn, cfg.AMQPExchange)
		if err != nil {
			_ = conn.Close()
			return nil, nil, err
		}
		return p, closeAll(p, conn), nil
	case config.PublisherKafka:
		p := publisher.NewKafkaPlanPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		return p, closeAll(p), nil
	default:
		return nil, func() {}, nil
	}
}

func closeAll(closers ...io.Closer) func() {
	return func() {
		for _, c := range closers {
			if err := c.Close(); err != nil {
				log.Printf("close: %v", err)
			}
		}
	}
}
