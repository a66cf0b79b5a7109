package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"fulfillment/cmd"
	"fulfillment/internal/adapters/out/postgres/agentrepo"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/webhookrepo"
	"fulfillment/internal/jobs"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	configs := getConfigs()

	createDbIfNotExists(configs)
	gormDB := mustConnectDB(configs)

	root := cmd.NewCompositionRoot(configs, gormDB)
	defer root.Close()

	jobManager := jobs.NewJobManager(
		root.CreateAutoAssignOrdersCommandHandler(),
		root.CreateExpirePaymentReservationsCommandHandler(),
		configs.AssignmentBatchLimit,
		configs.PaymentReservationMaxAge,
		logger,
	)

	run(configs, root, jobManager)
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	return cmd.Config{
		HTTPPort:                 envOr("HTTP_PORT", "8080"),
		DBHost:                   envOr("DB_HOST", "localhost"),
		DBPort:                   envOr("DB_PORT", "5432"),
		DBUser:                   envOr("DB_USER", "postgres"),
		DBPassword:               envOr("DB_PASSWORD", "postgres"),
		DBName:                   envOr("DB_NAME", "fulfillment"),
		DBSslMode:                envOr("DB_SSLMODE", "disable"),
		GatewayWebhookSecret:     os.Getenv("GATEWAY_WEBHOOK_SECRET"),
		StockServiceURL:          os.Getenv("STOCK_SERVICE_URL"),
		AmqpURL:                  os.Getenv("AMQP_URL"),
		AuditExchange:            envOr("AUDIT_EXCHANGE", "fulfillment.audit"),
		PaymentReservationMaxAge: time.Duration(envIntOr("PAYMENT_RESERVATION_HOURS", 24)) * time.Hour,
		AssignmentBatchLimit:     envIntOr("ASSIGNMENT_BATCH_LIMIT", 20),
	}
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("%s must be an integer, got %q", key, raw)
	}
	return value
}

// createDbIfNotExists connects to the maintenance database and creates the
// application database when it is missing. Safe to run on every start.
func createDbIfNotExists(configs cmd.Config) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=postgres sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword, configs.DBSslMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	var exists bool
	err = db.QueryRow("SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", configs.DBName).Scan(&exists)
	if err != nil {
		log.Fatalf("failed to check database existence: %v", err)
	}

	if !exists {
		if _, err = db.Exec("CREATE DATABASE " + configs.DBName); err != nil {
			log.Fatalf("failed to create database %s: %v", configs.DBName, err)
		}
	}
}

func mustConnectDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword, configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}

	err = gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.ItemDTO{},
		&orderrepo.TimelineEntryDTO{},
		&orderrepo.AttemptDTO{},
		&agentrepo.AgentDTO{},
		&agentrepo.ZoneDTO{},
		&agentrepo.AssignmentDTO{},
		&webhookrepo.EventDTO{},
	)
	if err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}

	return gormDB
}

func run(configs cmd.Config, root *cmd.CompositionRoot, jobManager *jobs.JobManager) {
	e := echo.New()
	root.CreateHTTPServer().RegisterRoutes(e)

	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort))
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}
