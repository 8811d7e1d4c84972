package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"zoo-assistant/config"
	"zoo-assistant/di"
	"zoo-assistant/util"
)

func main() {
	configPath := pflag.String("config", "", "path to config.yml (defaults to ./config.yml when present)")
	env := pflag.String("env", "", "environment override: dev or prod")
	plotVenues := pflag.String("plot-venues", "", "render the venue map to this HTML file and exit")
	pflag.Parse()

	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	cfg, err := config.LoadAppConfig(*configPath)
	if err != nil {
		log.Fatalf("[MAIN] %v", err)
	}
	if *env != "" {
		cfg.Environment = *env
		if err := config.Validate(cfg); err != nil {
			log.Fatalf("[MAIN] %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := di.NewContainer(ctx, cfg)
	if err != nil {
		log.Fatalf("[MAIN] %v", err)
	}

	log.Println("[MAIN] Loading reference data")
	ref := container.ReferenceRefresherService.RefreshReferenceData(ctx)

	if *plotVenues != "" {
		if !ref.Venues.OK() {
			log.Fatalf("[MAIN] Venues unavailable: %v", ref.Venues.Err)
		}
		if err := util.PlotVenues(ref.Venues.Value, *plotVenues); err != nil {
			log.Fatalf("[MAIN] %v", err)
		}
		return
	}

	if cfg.Data.RefreshMinutes > 0 {
		log.Printf("[MAIN] Starting periodic refresh every %d minutes", cfg.Data.RefreshMinutes)
		container.ReferenceRefresherService.StartPeriodicJob(ctx, time.Duration(cfg.Data.RefreshMinutes)*time.Minute)
	}

	if err := container.ZooAssistantHttpServer.Start(ctx); err != nil {
		log.Fatalf("[MAIN] %v", err)
	}

	if container.LineWebhookHandler != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := container.LineWebhookHandler.Shutdown(shutdownCtx); err != nil {
			log.Printf("[MAIN] Pending LINE events abandoned: %v", err)
		}
	}
	log.Println("[MAIN] Bye")
}
