package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"segd/internal/config"
	"segd/internal/httpapi"
	"segd/internal/manager"
	"segd/internal/registry"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
}

// newManager builds the model session for cfg. The checkpoint is located but
// not required to exist yet; /init reports a missing one.
func newManager(cfg config.Config) (*manager.Manager, error) {
	device, err := manager.ParseDevice(cfg.Device)
	if err != nil {
		return nil, err
	}
	return manager.NewWithConfig(manager.ManagerConfig{
		Checkpoint:   registry.Locate(cfg.WeightsDir, cfg.ModelVariant),
		Device:       device,
		RuntimeLib:   cfg.ONNXRuntimeLib,
		NumThreads:   cfg.NumThreads,
		CacheEnabled: cfg.CacheEnabled,
	}), nil
}

func serve(ctx context.Context, cfg config.Config) error {
	log, err := newLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	httpapi.SetLogger(log)
	manager.SetLogger(log)

	if _, err := registry.Resolve(cfg.WeightsDir, cfg.ModelVariant); err != nil {
		log.Warn().Err(err).Strs("available", variantNames(cfg.WeightsDir)).Msg("checkpoint not found; /init will fail until it is in place")
	}
	mgr, err := newManager(cfg)
	if err != nil {
		return err
	}
	if cfg.CacheEnabled {
		log.Warn().Msg("result cache enabled: every /segment returns the last successful body regardless of input")
	}

	httpapi.SetBaseContext(ctx)
	httpapi.SetMaxBodyBytes(cfg.MaxBodyBytes)
	httpapi.SetSegmentTimeoutSeconds(cfg.SegmentTimeoutSeconds)
	httpapi.SetStrictStatus(cfg.StrictStatus)
	httpapi.SetCORSOptions(cfg.CORSOrigins, nil, nil)
	httpapi.SetDefaultLogLevel(cfg.LogLevel)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewMux(mgr),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		spec := mgr.Spec()
		log.Info().
			Str("addr", cfg.Addr).
			Str("variant", spec.Checkpoint.Variant).
			Str("device", string(spec.Device)).
			Bool("cache", cfg.CacheEnabled).
			Msg("segd listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			mgr.Close()
			return err
		}
	case <-ctx.Done():
	}

	// Graceful shutdown (Ctrl+C / SIGTERM)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("graceful shutdown error")
	}
	if err := mgr.Close(); err != nil {
		log.Warn().Err(err).Msg("close predictor")
	}
	log.Info().Msg("segd stopped")
	return nil
}
