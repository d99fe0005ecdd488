package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fjod/go_storefront/internal/config"
	"github.com/fjod/go_storefront/internal/logger"
	"github.com/fjod/go_storefront/internal/repository"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Storefront with a persisted cart and a simulated checkout",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional .env file loaded before the environment")

	root.AddCommand(newServeCmd(&envFile), newOrdersCmd(&envFile))
	return root
}

// bootstrap loads config, sets up logging and opens storage.
func bootstrap(ctx context.Context, envFile string) (*config.Config, repository.KVRepository, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return nil, nil, err
	}
	logger.Setup(cfg.Log.Level, cfg.Log.Pretty)

	repo, err := repository.Open(ctx, cfg.RepositoryOptions())
	if err != nil {
		log.Error().Err(err).Str("driver", cfg.Storage.Driver).Msg("Failed to open storage")
		return nil, nil, err
	}
	log.Info().Str("driver", cfg.Storage.Driver).Msg("Storage opened")
	return cfg, repo, nil
}
