package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"aquamonitor/internal/config"
	"aquamonitor/internal/dashboard"
	"aquamonitor/internal/server"
	"aquamonitor/internal/stream"
	"aquamonitor/internal/telemetry"
)

func main() {
	var (
		configPath = flag.String("config", "config.yaml", "path to configuration file (YAML)")
		addr       = flag.String("addr", "", "address for the web server (overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if *addr != "" {
		cfg.Addr = *addr
	}
	log.Printf("Loaded %d tile(s) and %d chart(s) from %s",
		len(cfg.Widgets.Tiles), len(cfg.Widgets.Charts), *configPath)

	logger := log.Default()
	repo := telemetry.NewInfluxRepository(
		cfg.Influx.Host,
		cfg.Influx.Token,
		cfg.Influx.Database,
		cfg.Influx.RetentionPolicy,
	)
	orchestrator := stream.New(repo, cfg.Widgets.Tiles, cfg.Widgets.Charts, logger)
	dashboards := dashboard.New(repo, cfg.Widgets.Tiles, cfg.Widgets.Charts, logger)

	srv := server.New(cfg.Addr, repo, orchestrator, dashboards, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("server shutdown: %v", err)
		}
	}()

	log.Printf("aquamonitor listening on %s", cfg.Addr)
	if err := srv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}
