package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fineops/internal/api"
	"fineops/internal/config"
	"fineops/internal/events"
	"fineops/internal/pdf"
	"fineops/internal/services"
	"fineops/internal/tasks"
	console "fineops/internal/utils/logger"

	"github.com/joho/godotenv"
)

func main() {
	logger := console.New("fineops")

	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		logger.Info("No .env file found, skipping environment variable loading")
	} else {
		if err := godotenv.Load(); err != nil {
			log.Fatalf("Failed to load environment variables: %v", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	store, err := config.Open(cfg.AppConfigPath)
	if err != nil {
		log.Fatalf("Failed to open application config: %v", err)
	}

	ctx := context.Background()

	images, err := services.NewImageService(store.Search(), "")
	if err != nil {
		log.Fatalf("Failed to initialize image resolver: %v", err)
	}
	orders := services.NewOrdersService(services.NewMarketClient(""), images)

	sheets, err := services.NewSheetsService(ctx, store.Sheets())
	if err != nil {
		log.Fatalf("Failed to initialize spreadsheet client: %v", err)
	}

	notifier, err := services.NewTelegramNotifier(store.Telegram())
	if err != nil {
		log.Fatalf("Failed to initialize telegram notifier: %v", err)
	}

	var archive services.Archiver
	if cfg.S3.BucketName != "" {
		manifestArchive, err := services.NewManifestArchive(ctx, cfg.S3)
		if err != nil {
			logger.Warn("Manifest archive disabled: %v", err)
		} else {
			archive = manifestArchive
		}
	}

	manifests := pdf.NewGenerator(store.Branding(), "")
	decisions := services.NewDecisionService(store, sheets, notifier, manifests, archive)

	// Audit hooks
	events.On("users.created", func(data interface{}) {
		logger.Info("user created: %v", data)
	})
	events.On("campaigns.assigned", func(data interface{}) {
		logger.Info("campaign assigned: %v", data)
	})
	events.On("decisions.saved", func(data interface{}) {
		logger.Info("decision batch saved: %v", data)
	})

	scheduler := tasks.NewScheduler()
	if err := scheduler.RegisterDaily(store.ScheduleTime(), tasks.NewDailyReportJob(store)); err != nil {
		logger.Warn("Daily report not scheduled: %v", err)
	}
	scheduler.Start()

	apiServer := api.NewServer(cfg, store, api.Deps{
		Orders:    orders,
		Decisions: decisions,
	})
	go func() {
		logger.Success("API server listening on %s", cfg.Addr())
		if err := apiServer.Start(); err != nil {
			logger.Error("API server error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	scheduler.Stop()
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown API server", err)
	}

	logger.Info("Server shutdown gracefully")
}
