package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"marquee/internal/config"
	"marquee/internal/database"
	"marquee/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := database.Open(cfg.DataPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if cfg.RecaptchaSecret == "" {
		log.Println("WARNING: RECAPTCHA_SECRET not set — form bot checks disabled")
	}
	if cfg.SMTPHost == "" {
		log.Println("WARNING: SMTP_HOST not set — outgoing mail disabled")
	}

	srv, err := server.New(server.Options{Config: cfg, DB: db})
	if err != nil {
		log.Fatalf("create server: %v", err)
	}

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server error: %v", err)
		}
	case <-ctx.Done():
		log.Println("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	srv.Shutdown(shutdownCtx)
	log.Println("shutdown complete")
}
