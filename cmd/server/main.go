package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tabletap/api/internal/config"
	"github.com/tabletap/api/internal/metrics"
	"github.com/tabletap/api/internal/notify"
	"github.com/tabletap/api/internal/router"
	"github.com/tabletap/api/internal/ws"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Unable to ping database: %v", err)
	}
	log.Println("Connected to database")

	m := metrics.NewCollector()
	notifier := notify.New(cfg.NotifyBuffer, m)

	if cfg.AMQPURL != "" {
		sink, err := notify.DialAMQP(cfg.AMQPURL, notify.DefaultExchange)
		if err != nil {
			log.Fatalf("Failed to connect to AMQP: %v", err)
		}
		defer sink.Close()
		notifier.Subscribe(sink.Handle)
		log.Printf("Forwarding order changes to exchange %s", notify.DefaultExchange)
	}

	hub := ws.NewHub()
	notifier.Subscribe(hub.HandleChange)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router.New(cfg, pool, notifier, hub, m),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return hub.Run(gctx)
	})

	g.Go(func() error {
		log.Printf("Starting server on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	// Drain subscribers before the AMQP sink is closed.
	notifier.Close()
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Server error: %v", err)
	}
	log.Println("Server stopped")
}
