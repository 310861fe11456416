package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/herlambang/storefront-inventory/internal/alerts"
	"github.com/herlambang/storefront-inventory/internal/config"
	"github.com/herlambang/storefront-inventory/internal/inventory"
	kafkax "github.com/herlambang/storefront-inventory/internal/kafka"
	"github.com/herlambang/storefront-inventory/internal/postgres"
	"github.com/herlambang/storefront-inventory/internal/redisx"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	pLow := kafkax.NewProducer(cfg.KafkaBrokers, inventory.TopicStockLow, 1024)
	pLow.Start(ctx)

	svc := &alerts.Service{
		Repo:        &inventory.Repo{DB: db},
		Redis:       rdb,
		Producer:    pLow,
		ServiceName: cfg.ServiceName + "-alerts",
	}

	group := getenv("ALERTS_GROUP", "stock-alerts")
	workers := atoiDefault(os.Getenv("ALERTS_WORKERS"), 4)
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, inventory.TopicOrderFulfilled, workers)

	go func() {
		log.Printf("alerts consumer started: group=%s topic=%s workers=%d", group, inventory.TopicOrderFulfilled, workers)
		if err := cons.Start(ctx, svc.HandleOrderFulfilled); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down consumer...")
	cancel()
	pLow.WaitClosed()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
