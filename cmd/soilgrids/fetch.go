package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/soilgrids/internal/adapter/httpserv"
	"github.com/couchcryptid/soilgrids/internal/observability"
)

// prefetcher tracks how many requested products are still missing from
// the cache, backing the /readyz endpoint during a fetch.
type prefetcher struct {
	pending atomic.Int64
}

func (p *prefetcher) CheckReadiness(_ context.Context) error {
	if n := p.pending.Load(); n > 0 {
		return fmt.Errorf("%d products not yet cached", n)
	}
	return nil
}

func newFetchCmd(flags *rootFlags) *cobra.Command {
	var metricsAddr string

	cmd := &cobra.Command{
		Use:   "fetch [product...]",
		Short: "Download products into the cache (fc, wp; default all)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			products, err := resolveProducts(args)
			if err != nil {
				return err
			}

			logger := observability.NewLogger(cfg)
			metrics := observability.NewMetrics()
			sg, client, err := newGrids(cfg, logger, metrics)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			tracker := &prefetcher{}
			tracker.pending.Store(int64(len(products)))

			if metricsAddr != "" {
				srv := httpserv.New(metricsAddr, tracker, logger)
				go func() {
					if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
						logger.Error("http server error", "error", err)
					}
				}()
				defer func() {
					shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					if err := srv.Shutdown(shutdownCtx); err != nil {
						logger.Error("http server shutdown error", "error", err)
					}
				}()
			}

			for _, p := range products {
				path, err := client.EnsureLocal(ctx, p.URL, p.LocalPath(sg.SourceDir()))
				if err != nil {
					return fmt.Errorf("fetch %s: %w", p.Name, err)
				}
				tracker.pending.Add(-1)
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", p.Name, path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve /metrics and health endpoints on this address while fetching")
	return cmd
}
