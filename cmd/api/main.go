package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/herlambang/storefront-inventory/internal/config"
	"github.com/herlambang/storefront-inventory/internal/httpx"
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
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	pCreated := kafkax.NewProducer(cfg.KafkaBrokers, inventory.TopicOrderCreated, 1024)
	pCreated.Start(ctx)
	pFulfilled := kafkax.NewProducer(cfg.KafkaBrokers, inventory.TopicOrderFulfilled, 1024)
	pFulfilled.Start(ctx)

	repo := &inventory.Repo{DB: db}
	router := httpx.NewRouter()
	h := &httpx.Handler{
		Engine:            repo,
		ProducerCreated:   pCreated,
		ProducerFulfilled: pFulfilled,
		Redis:             rdb,
		Service:           cfg.ServiceName,
	}
	h.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	cancel() // stop producer loops, flush remaining messages
	pCreated.WaitClosed()
	pFulfilled.WaitClosed()
}
