package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/marketplace/internal/api"
	"github.com/example/marketplace/internal/auth"
	"github.com/example/marketplace/internal/config"
	"github.com/example/marketplace/internal/domain/brand"
	"github.com/example/marketplace/internal/domain/order"
	"github.com/example/marketplace/internal/domain/product"
	"github.com/example/marketplace/internal/domain/user"
	"github.com/example/marketplace/internal/infrastructure/kafka"
	"github.com/example/marketplace/internal/infrastructure/store"
	"github.com/example/marketplace/internal/realtime"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[API] Configuration error: %v", err)
	}

	log.Println("[API] ========================================")
	log.Println("[API] Marketplace API")
	log.Println("[API] ========================================")
	log.Printf("[API] Store backend: %s", cfg.StoreBackend)

	st, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatalf("[API] Failed to initialize store: %v", err)
	}
	defer closeStore()

	// Kafka is optional; without brokers, orders still work and only the
	// email notifications are skipped.
	var publisher order.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		p := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer p.Close()
		publisher = p
		log.Printf("[API] Kafka: %v topic=%s", cfg.KafkaBrokers, cfg.KafkaTopic)
	} else {
		log.Println("[API] Kafka disabled (KAFKA_BROKERS not set)")
	}

	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.TokenTTL)
	hub := realtime.NewHub()

	userSvc := user.NewService(st)
	brandSvc := brand.NewService(st)
	productSvc := product.NewService(st)
	orderSvc := order.NewService(st, hub, publisher)

	router := api.NewRouter(api.RouterConfig{
		AuthHandlers:    api.NewAuthHandlers(userSvc, jwtService),
		BrandHandlers:   api.NewBrandHandlers(brandSvc),
		ProductHandlers: api.NewProductHandlers(productSvc),
		OrderHandlers:   api.NewOrderHandlers(orderSvc),
		Hub:             hub,
		JWTService:      jwtService,
	})

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("[API] Server started on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("[API] Server error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[API] Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	server.Shutdown(shutdownCtx)
}

// openStore builds the configured persistence backend. The returned
// closer is a no-op for backends without a connection to release.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, func(), error) {
	switch cfg.StoreBackend {
	case config.BackendPostgres:
		db, err := store.ConnectPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		log.Println("[API] Connected to PostgreSQL")
		return store.NewPostgresStore(db), func() { db.Close() }, nil

	case config.BackendDynamo:
		client, err := store.NewDynamoClient(ctx)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("[API] Using DynamoDB table %s", cfg.DynamoTable)
		return store.NewDynamoStore(client, cfg.DynamoTable), func() {}, nil

	default:
		log.Println("[API] Using in-memory store (data is not persisted)")
		return store.NewMemoryStore(), func() {}, nil
	}
}
