package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/guiyumin/ytdlp-api/internal/core/config"
	"github.com/guiyumin/ytdlp-api/internal/core/extractor"
	"github.com/guiyumin/ytdlp-api/internal/core/logging"
	"github.com/guiyumin/ytdlp-api/internal/core/version"
	"github.com/guiyumin/ytdlp-api/internal/server"
	"go.uber.org/zap"
)

func main() {
	// Command-line flags
	port := flag.Int("port", 0, "HTTP listen port (default: 30022)")
	configFile := flag.String("config", "", "config file path")
	showVersion := flag.Bool("version", false, "show version")
	flag.Parse()

	if *showVersion {
		fmt.Printf("ytdlp-api-server %s\n", version.Version)
		return
	}

	// Load configuration
	var (
		cfg *config.Config
		err error
	)
	if *configFile != "" {
		cfg, err = config.LoadFrom(*configFile)
	} else {
		cfg, err = config.LoadOrDefault()
	}
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	// Resolve port (flag > config > default)
	if *port > 0 {
		cfg.Server.Port = *port
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("Logger error: %v", err)
	}
	defer logger.Sync()

	engine := extractor.NewYtdlpEngine(extractor.YtdlpOptions{
		Binary:  cfg.Extractor.Binary,
		Format:  cfg.Extractor.Format,
		Timeout: cfg.Extractor.Timeout,
	})
	batch := extractor.NewBatch(engine, cfg.Extractor.MaxConcurrent, logger)

	srv := server.NewServer(server.Options{
		Addr:      cfg.Server.Addr(),
		APIKey:    cfg.Server.APIKey,
		RateLimit: cfg.Server.RateLimit,
		Burst:     cfg.Server.Burst,
	}, batch, logger)

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Stop(ctx)
	}()

	if err := srv.Start(); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
