package main

import (
	"context"
	"log"
	"time"

	httpin "github.com/Brolenso/fashionstore/internal/adapters/inbound/http"
	kafkain "github.com/Brolenso/fashionstore/internal/adapters/inbound/kafka"
	"github.com/Brolenso/fashionstore/internal/adapters/outbound/postgres"
	"github.com/Brolenso/fashionstore/internal/adapters/outbound/sqlite"
	"github.com/Brolenso/fashionstore/internal/app/config"
	"github.com/Brolenso/fashionstore/internal/app/runtime"
	"github.com/Brolenso/fashionstore/internal/core/service"
	"github.com/Brolenso/fashionstore/internal/ports/outbound"
)

func main() {
	ctx, stop := runtime.NotifyContext(context.Background())
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	var repo outbound.CartRepository
	switch cfg.Store {
	case config.StorePostgres:
		db, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("db init: %v", err)
		}
		defer db.Close()

		migCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := postgres.RunMigrations(migCtx, db.Pool); err != nil {
			log.Fatalf("migrations: %v", err)
		}

		repo = postgres.NewCartRepository(db.Pool)
		log.Printf("[cart] using postgres store")
	default:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			log.Fatalf("sqlite init: %v", err)
		}
		defer func() { _ = store.Close() }()

		repo = store
		log.Printf("[cart] using sqlite store at %s", cfg.SQLitePath)
	}

	svc := service.NewCartService(repo)
	go svc.Run(ctx)

	// HTTP
	handlers := httpin.NewHandlers(svc)
	mux := httpin.NewMux(handlers, svc)
	httpSrv := runtime.NewHTTPServer(cfg.HTTPAddr, mux)
	httpSrv.Start()

	// stock snapshot consumer
	if cfg.StockConsumerEnabled() {
		consumer := kafkain.NewConsumer(kafkain.ConsumerConfig{
			Brokers:  cfg.KafkaBrokers,
			Topic:    cfg.KafkaTopic,
			GroupID:  cfg.KafkaConsumerGroup,
			MinBytes: cfg.KafkaMinBytes,
			MaxBytes: cfg.KafkaMaxBytes,
		}, svc)
		defer func() { _ = consumer.Close() }()

		go consumer.Run(ctx)
	} else {
		log.Printf("[kafka] no brokers configured, stock consumer disabled")
	}

	<-ctx.Done()
	log.Printf("[shutdown] signal received")

	if err := httpSrv.Shutdown(context.Background(), cfg.ShutdownTimeout); err != nil {
		log.Printf("[shutdown] http: %v", err)
	}

	done, failed := svc.Stats()
	log.Printf("[shutdown] cart ops done=%d failed=%d, bye", done, failed)
}
