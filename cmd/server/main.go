package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"

	"github.com/jan-ice17/supermarket-inventory/internal/adapter/handler"
	"github.com/jan-ice17/supermarket-inventory/internal/adapter/handler/inventoryrpc"
	"github.com/jan-ice17/supermarket-inventory/internal/adapter/messaging"
	"github.com/jan-ice17/supermarket-inventory/internal/adapter/metrics"
	"github.com/jan-ice17/supermarket-inventory/internal/adapter/storage"
	"github.com/jan-ice17/supermarket-inventory/internal/config"
	"github.com/jan-ice17/supermarket-inventory/internal/core/service"
	"github.com/jan-ice17/supermarket-inventory/internal/port"
	"github.com/jan-ice17/supermarket-inventory/internal/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		sinks       []worker.Sink
		idempotency port.IdempotencyRepository
		db          *sql.DB
		rdb         *redis.Client
		publisher   *messaging.KafkaPublisher
	)

	queueSize := 0
	if cfg.ReplicationEnabled() {
		queueSize = cfg.ChangeQueueSize
	}
	inventory := service.NewInventoryService(queueSize)

	// Initialize MySQL
	if cfg.MySQLDSN != "" {
		db, err = sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatalf("failed to connect mysql: %v", err)
		}
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)

		if err := db.PingContext(ctx); err != nil {
			log.Fatalf("failed to ping mysql: %v", err)
		}

		mysqlAdapter := storage.NewMySQLAdapter(db)
		if err := mysqlAdapter.EnsureSchema(ctx); err != nil {
			log.Fatalf("failed to prepare schema: %v", err)
		}

		snap, err := mysqlAdapter.LoadSnapshot(ctx)
		if err != nil {
			log.Fatalf("failed to load snapshot: %v", err)
		}
		inventory.Restore(snap)
		logger.Info("restored inventory from mysql",
			"items", len(snap.Items), "log_entries", len(snap.Logs), "last_seq", snap.LastSeq)

		sinks = append(sinks, worker.Sink{Name: "mysql", ChangeSink: mysqlAdapter})
	}

	// Initialize Redis
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			PoolSize: 20,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("failed to connect redis: %v", err)
		}

		redisAdapter := storage.NewRedisAdapter(rdb)
		if err := redisAdapter.Reseed(ctx, inventory.Snapshot()); err != nil {
			log.Fatalf("failed to seed redis mirror: %v", err)
		}
		logger.Info("connected to redis", "addr", cfg.RedisAddr)

		sinks = append(sinks, worker.Sink{Name: "redis", ChangeSink: redisAdapter})
		idempotency = redisAdapter
	}

	// Initialize Kafka
	if len(cfg.KafkaBrokers) > 0 {
		publisher = messaging.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		sinks = append(sinks, worker.Sink{Name: "kafka", ChangeSink: publisher})
		logger.Info("publishing changes to kafka", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	m := metrics.New()
	m.SetSizes(inventory.Stats())

	// Start replicator; it outlives the servers so the queue can drain
	replCtx, replCancel := context.WithCancel(context.Background())
	defer replCancel()

	replicated := make(chan struct{})
	if queue := inventory.ChangeQueue(); queue != nil {
		replicator := worker.NewReplicator(sinks, cfg.ReplicationMaxAttempts, m, logger)
		go func() {
			defer close(replicated)
			replicator.Run(replCtx, queue)
		}()
		logger.Info("started replicator", "sinks", len(sinks))
	} else {
		close(replicated)
	}

	// Initialize gRPC server
	grpcServer := grpc.NewServer()
	inventoryrpc.RegisterInventoryServiceServer(grpcServer, handler.NewGRPCHandler(inventory, idempotency, m, logger))

	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}

	// Initialize HTTP server
	router := mux.NewRouter()
	router.Handle("/metrics", m.Handler()).Methods(http.MethodGet)
	handler.NewHTTPHandler(inventory, idempotency, m, logger).Register(router)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("gRPC server listening", "addr", cfg.GRPCAddr)
		return grpcServer.Serve(lis)
	})
	g.Go(func() error {
		logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP shutdown failed", "error", err)
		}
		logger.Info("HTTP server stopped")

		grpcServer.GracefulStop()
		logger.Info("gRPC server stopped")
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("server error", "error", err)
	}

	// Close change queue and wait for replicator
	inventory.Close()
	select {
	case <-replicated:
	case <-time.After(cfg.ShutdownTimeout):
		replCancel()
		<-replicated
	}
	logger.Info("replicator stopped")

	// Close connections
	if publisher != nil {
		publisher.Close()
	}
	if rdb != nil {
		rdb.Close()
	}
	if db != nil {
		db.Close()
	}
	logger.Info("connections closed")
}
