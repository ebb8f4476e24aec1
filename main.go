package main

import (
	"context"
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"arbbot/config"
	"arbbot/credentials"
	"arbbot/logger"
)

func main() {
	log := logger.GetLogger()

	// Load environment variables from .env if present
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Error loading .env file")
	}

	configPath := flag.String("config", "", "Path to TOML configuration file (defaults to $ARBBOT_CONFIG, then ./config.toml)")
	services := flag.String("services", "coinbase", "Comma-separated service names to resolve API keys for")

	flag.Parse()

	maxAge := 0
	if v := os.Getenv("LOG_MAX_AGE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			maxAge = n
		}
	}
	if err := log.Configure(envOr("LOG_LEVEL", "info"), envOr("LOG_FORMAT", "json"), envOr("LOG_FILE", "stdout"), maxAge); err != nil {
		log.WithError(err).Error("Failed to configure logger")
		os.Exit(1)
	}

	run := log.WithFields(logger.Fields{"run_id": uuid.NewString()})

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.IncrementConfigFailure()
		run.WithError(err).Error("Failed to load configuration")
		os.Exit(1)
	}
	logger.IncrementConfigLoad()

	run.WithFields(logger.Fields{
		"market_pairs":   strings.Join(cfg.MarketPairs, ","),
		"max_cycles":     cfg.MaxCycles,
		"fetch_interval": cfg.FetchInterval,
		"min_spread":     cfg.MinSpread,
		"max_retries":    cfg.MaxRetries,
	}).Info("configuration loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if strings.ToLower(os.Getenv("LOG_LEVEL")) == "report" {
		logger.StartReport(ctx, log, 30*time.Second)
	}
	if os.Getenv("AWS_REGION") != "" {
		logger.InitCloudWatch(os.Getenv("AWS_REGION"), "ArbBot", "ArbBot")
	}

	// Resolve credentials for each exchange before any client is built.
	// A missing key skips that exchange; key material itself is never
	// logged.
	resolved := 0
	for _, service := range strings.Split(*services, ",") {
		service = strings.TrimSpace(service)
		if service == "" {
			continue
		}
		if _, err := credentials.GetAPIKey(service); err != nil {
			run.WithError(err).WithFields(logger.Fields{"service": service}).Error("no API key found; skipping exchange")
			continue
		}
		run.WithFields(logger.Fields{"service": service}).Info("API key resolved")
		resolved++
	}

	if resolved == 0 {
		run.WithComponent("main").Error("no exchange credentials could be resolved")
		os.Exit(1)
	}

	run.WithFields(logger.Fields{"services_resolved": resolved}).Info("startup preflight complete")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
