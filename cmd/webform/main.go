package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/m3rciful/tutorbot/core/logger"
	"github.com/m3rciful/tutorbot/internal/app"
	"github.com/m3rciful/tutorbot/internal/webform"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment variables")
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := app.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if err := logger.InitLogger(cfg.CoreConfig()); err != nil {
		log.Fatalf("logger init failed: %v", err)
	}
	defer func() {
		if err := logger.Shutdown(); err != nil {
			log.Printf("logger shutdown error: %v", err)
		}
	}()

	srv, err := webform.New(webform.Config{
		Listen: cfg.Webform.Listen,
		Token:  cfg.Core.Telegram.Token,
		ChatID: cfg.Webform.ChatID,
	})
	if err != nil {
		log.Fatalf("webform setup failed: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := srv.ListenAndServe(ctx); err != nil {
		log.Fatalf("webform exited: %v", err)
	}
}
