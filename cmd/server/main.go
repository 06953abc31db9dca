package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Brownie44l1/photo-classifier/internal/classify"
	"github.com/Brownie44l1/photo-classifier/internal/config"
	"github.com/Brownie44l1/photo-classifier/internal/handlers"
	"github.com/Brownie44l1/photo-classifier/internal/logger"
	"github.com/Brownie44l1/photo-classifier/internal/model"
	"github.com/Brownie44l1/photo-classifier/internal/preprocess"
)

func main() {
	configPath := flag.String("config", "", "Optional path to YAML config")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Server.Debug)
	defer log.Sync() //nolint:errcheck

	if err := run(cfg, log); err != nil {
		log.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.AppConfig, log *zap.Logger) error {
	clsCfg := cfg.Classify()
	if cfg.Model.MetadataPath != "" {
		meta, err := model.LoadMetadata(cfg.Model.MetadataPath)
		if err != nil {
			return err
		}
		if err := meta.Apply(&clsCfg); err != nil {
			return errors.Wrapf(err, "metadata %s", cfg.Model.MetadataPath)
		}
	}

	opts := model.OptionsFor(cfg.Model.Path, clsCfg)
	opts.SharedLibraryPath = cfg.Model.ORTLibrary
	opts.InputName = cfg.Model.InputName
	opts.OutputName = cfg.Model.OutputName

	log.Info("loading model", zap.String("path", opts.ModelPath))
	runtime, err := model.NewRuntime(opts, log)
	if err != nil {
		return err
	}
	defer runtime.Close() //nolint:errcheck

	prep, err := preprocess.New(cfg.PreprocessOptions())
	if err != nil {
		return err
	}

	pipeline, err := classify.NewPipeline(clsCfg, runtime,
		classify.WithPreparer(prep),
		classify.WithReporter(cfg.Reporter()),
		classify.WithLogger(log),
	)
	if err != nil {
		return err
	}

	handler := handlers.NewHandler(pipeline, log, cfg.Server.MaxUploadBytes)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting",
			zap.Int("port", cfg.Server.Port),
			zap.Int("image_size", clsCfg.ImageSize),
			zap.Strings("classes", clsCfg.Labels))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
