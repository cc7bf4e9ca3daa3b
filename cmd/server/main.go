package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/csg33k/hrdoc-generator/internal/adapters/assets"
	"github.com/csg33k/hrdoc-generator/internal/adapters/filestore"
	"github.com/csg33k/hrdoc-generator/internal/adapters/pdf"
	sqliteadapter "github.com/csg33k/hrdoc-generator/internal/adapters/sqlite"
	"github.com/csg33k/hrdoc-generator/internal/config"
	"github.com/csg33k/hrdoc-generator/internal/docgen"
	"github.com/csg33k/hrdoc-generator/internal/handlers"
	"github.com/csg33k/hrdoc-generator/internal/layout"
	"github.com/csg33k/hrdoc-generator/internal/render"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}
	log := cfg.Logger(os.Stderr)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := sqliteadapter.New(cfg.DBPath)
	if err != nil {
		return err
	}
	defer repo.Close()
	if err := repo.Migrate(ctx); err != nil {
		return err
	}

	files, err := filestore.New(cfg.StorageDir)
	if err != nil {
		return err
	}
	loader := assets.New(files, cfg.FetchTimeout, cfg.MaxImagePx, log)
	engine, err := layout.New(cfg.Layout, pdf.NewMeasurer(), layout.WithLogger(log))
	if err != nil {
		return err
	}
	svc := docgen.New(repo, loader, files, render.New(engine, pdf.NewFactory(pdf.WithLogger(log))), docgen.WithLogger(log))
	h := handlers.New(svc, repo, files, loader, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdown)
	}()

	log.Info("HR document generator running", "url", "http://localhost:"+cfg.Port,
		"db", cfg.DBPath, "storage", cfg.StorageDir, "overflow", cfg.Layout.Overflow)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
