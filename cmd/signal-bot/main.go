package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/projexfx/signal-trader/internal/config"
	"github.com/projexfx/signal-trader/internal/flow"
	"github.com/projexfx/signal-trader/internal/gateway/metaapi"
	"github.com/projexfx/signal-trader/internal/journal"
	"github.com/projexfx/signal-trader/internal/logger"
	"github.com/projexfx/signal-trader/internal/monitoring"
	"github.com/projexfx/signal-trader/internal/telegram"
)

func main() {
	envFile := flag.String("env", ".env", "Path to the environment file")
	configFile := flag.String("config", "", "Optional YAML/JSON overrides file")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil {
		log.Printf("No environment file loaded (%v), using process environment", err)
	}

	cfg := config.Load()
	if *configFile != "" {
		if err := cfg.ApplyFile(*configFile); err != nil {
			log.Fatalf("Failed to apply config file: %v", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	activity, err := logger.New(cfg.LogDir, cfg.MetaAPI.AccountID)
	if err != nil {
		log.Fatalf("Failed to open activity log: %v", err)
	}
	defer activity.Close()

	jnl, err := journal.NewSQLite(cfg.Journal.DBPath)
	if err != nil {
		log.Fatalf("Failed to open trade journal: %v", err)
	}
	defer jnl.Close()

	gw := metaapi.NewClient(metaapi.Config{
		APIKey:      cfg.MetaAPI.APIKey,
		AccountID:   cfg.MetaAPI.AccountID,
		HTTPTimeout: cfg.MetaAPI.RequestTimeout,
	})

	bot := telegram.NewClient(cfg.Telegram.Token)
	health := monitoring.NewHealthChecker()
	controller := flow.NewController(cfg, gw, bot, jnl, health, activity)

	handle := func(ctx context.Context, update telegram.Update) {
		msg, ok := toIncoming(update)
		if !ok {
			return
		}
		controller.Handle(ctx, msg)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Monitoring endpoints
	healthServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Monitoring.HealthPort),
		Handler: health,
	}
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Monitoring.PrometheusPort),
		Handler: monitoring.NewMetricsHandler(),
	}
	go func() {
		log.Printf("Health endpoint listening on :%d", cfg.Monitoring.HealthPort)
		if err := healthServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Health server error: %v", err)
		}
	}()
	go func() {
		log.Printf("Metrics endpoint listening on :%d", cfg.Monitoring.PrometheusPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Metrics server error: %v", err)
		}
	}()

	// Transport: webhook when a callback URL is configured, long polling
	// otherwise.
	var webhookServer *http.Server
	if cfg.Telegram.AppURL != "" {
		if err := bot.SetWebhook(cfg.Telegram.AppURL + cfg.Telegram.Token); err != nil {
			log.Fatalf("Failed to register webhook: %v", err)
		}

		mux := http.NewServeMux()
		mux.HandleFunc("/"+cfg.Telegram.Token, bot.WebhookHandler(handle))
		webhookServer = &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Telegram.Port),
			Handler: mux,
		}
		go func() {
			log.Printf("Webhook listening on :%d", cfg.Telegram.Port)
			if err := webhookServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("Webhook server error: %v", err)
			}
		}()
	} else {
		if err := bot.DeleteWebhook(); err != nil {
			log.Printf("Failed to clear webhook before polling: %v", err)
		}
		go func() {
			log.Println("No APP_URL configured, long polling for updates")
			if err := bot.Poll(ctx, handle); err != nil && ctx.Err() == nil {
				log.Printf("Polling stopped: %v", err)
			}
		}()
	}

	log.Println("Signal bot started")
	activity.Info("signal bot started")

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if webhookServer != nil {
		webhookServer.Shutdown(shutdownCtx)
	}
	healthServer.Shutdown(shutdownCtx)
	metricsServer.Shutdown(shutdownCtx)

	if err := gw.Disconnect(); err != nil {
		log.Printf("Gateway disconnect error: %v", err)
	}
	activity.Info("signal bot stopped")
	log.Println("Signal bot stopped")
}

// toIncoming converts a Telegram update into the transport-agnostic shape
// the flow controller consumes.
func toIncoming(update telegram.Update) (flow.IncomingMessage, bool) {
	message := update.Message
	if message == nil || message.Text == "" {
		return flow.IncomingMessage{}, false
	}
	return flow.IncomingMessage{
		ChatID:  message.Chat.ID,
		Sender:  message.SenderUsername(),
		Command: message.Command(),
		Text:    message.Text,
	}, true
}
