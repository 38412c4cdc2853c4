package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"crosstab/adapters/excel"
	"crosstab/internal"
	"crosstab/internal/api"
	"crosstab/internal/config"
)

func main() {
	// .env is optional; real environments set variables directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[main] Failed to load configuration: %v", err)
	}

	server := api.NewServer(cfg)

	if cfg.Data.File != "" {
		ds, err := excel.NewDataReader(cfg.Data.File).Read()
		if err != nil {
			log.Fatalf("[main] Failed to load dataset %s: %v", cfg.Data.File, err)
		}
		cleaned, err := ds.Clean(ds.Columns...)
		if err != nil {
			log.Fatalf("[main] Failed to clean dataset: %v", err)
		}
		server.UseDataset(cleaned, cfg.Data.File)
		internal.DefaultLogger.Info("[main] Preloaded dataset %s (%d records)", cfg.Data.File, cleaned.Len())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		<-ctx.Done()
		return server.Shutdown(context.Background())
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("[main] Server error: %v", err)
	}
}
