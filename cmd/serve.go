package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/fjod/go_storefront/internal/cart"
	"github.com/fjod/go_storefront/internal/catalog"
	"github.com/fjod/go_storefront/internal/checkout"
	h "github.com/fjod/go_storefront/internal/http"
	"github.com/fjod/go_storefront/internal/orders"
	"github.com/fjod/go_storefront/internal/payment"
)

func newServeCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context(), *envFile)
		},
	}
}

func serve(ctx context.Context, envFile string) error {
	cfg, repo, err := bootstrap(ctx, envFile)
	if err != nil {
		return err
	}
	defer repo.Close()

	store, err := cart.Open(ctx, repo, cfg.Storage.Timeout)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load cart")
		return err
	}

	products := catalog.New(catalog.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.Timeout), cfg.Catalog.Revalidate)
	history := orders.NewHistory(repo)
	gateway := payment.NewSimulatedGateway(cfg.Payment.Delay, payment.AlwaysApprove{})
	sequencer := checkout.NewSequencer(store, gateway, history, orders.UUIDGenerator{})

	router := h.NewRouter(h.Handlers{
		Products: h.NewProductHandler(products, cfg.App.RequestTimeout),
		Cart:     h.NewCartHandler(store, products, cfg.App.RequestTimeout),
		Checkout: h.NewCheckoutHandler(sequencer),
		Orders:   h.NewOrdersHandler(history, cfg.App.RequestTimeout),
	}, cfg.App.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.App.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.App.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.App.HTTPPort).Msg("Storefront starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("Server error")
			return err
		}
	case <-quit:
	}

	log.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return err
	}

	log.Info().Msg("Server exited")
	return nil
}
