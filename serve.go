package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/blocklords/soulbound/configuration"
	"github.com/blocklords/soulbound/log"
	"github.com/blocklords/soulbound/metrics"
	"github.com/blocklords/soulbound/pinning"
	"github.com/blocklords/soulbound/pinning/web3storage"
	"github.com/blocklords/soulbound/security"
	"github.com/blocklords/soulbound/server"
	"github.com/spf13/cobra"
)

// active requests have this time to finish after the interruption
const shutdownTimeout = 10 * time.Second

func newServeCommand(logger *log.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "serve [.env paths...]",
		Short: "Run the pinning gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serve(ctx, logger, args)
		},
	}
}

func serve(ctx context.Context, parent *log.Logger, envPaths []string) error {
	logger := parent.Child("serve")

	config, err := configuration.New(logger, envPaths)
	if err != nil {
		return fmt.Errorf("configuration.New: %w", err)
	}
	config.SetDefaults(server.ServerConfigurations)

	secrets, err := security.New(ctx, config, logger)
	if err != nil {
		return fmt.Errorf("security.New: %w", err)
	}

	pinConfig, err := pinning.NewConfig(ctx, config, secrets)
	if err != nil {
		return fmt.Errorf("pinning.NewConfig: %w", err)
	}
	if len(pinConfig.Token) == 0 {
		logger.Warn("WEB3STORAGE_TOKEN is not set, the pin requests will fail")
	}

	gateway := pinning.New(pinConfig, web3storage.NewFromConfig, logger)
	s := server.New(logger, gateway, metrics.MustNew(nil))

	errs := make(chan error, 1)
	go func() {
		errs <- s.Start(":" + config.GetString("PORT"))
	}()

	select {
	case err := <-errs:
		if err != nil {
			return fmt.Errorf("server.Start: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return <-errs
}
