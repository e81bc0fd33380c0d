package main

import (
	"flag"
	"log"
	"os"

	"github.com/winnervic367/trading-analyser/internal/di"
	"github.com/winnervic367/trading-analyser/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s journal=%s kafka=%t redis=%t", cfg.Environment, cfg.Journal.Backend, cfg.Kafka.Enabled, cfg.Cache.Redis.Enabled)

	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	// Run application (blocks until signal)
	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
