// Command soilgrids manages the local cache of OpenLandMap soil
// water-content grids: prefetch the Field Capacity and Wilting Point
// GeoTIFFs, inspect cache state, and summarize a cached grid.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/soilgrids"
	"github.com/couchcryptid/soilgrids/internal/adapter/fetch"
	"github.com/couchcryptid/soilgrids/internal/config"
	"github.com/couchcryptid/soilgrids/internal/domain"
	"github.com/couchcryptid/soilgrids/internal/observability"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// rootFlags override the corresponding environment configuration.
type rootFlags struct {
	workingDir string
	sourceDir  string
	resampling string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:           "soilgrids",
		Short:         "Download and inspect OpenLandMap soil water-content grids",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&flags.workingDir, "working-dir", "", `working directory (default $SOILGRIDS_WORKING_DIR or ".")`)
	cmd.PersistentFlags().StringVar(&flags.sourceDir, "source-dir", "", "cache directory (default <working-dir>/SoilGrids_download)")
	cmd.PersistentFlags().StringVar(&flags.resampling, "resampling", "", "default resampling method (default cubic)")

	cmd.AddCommand(newFetchCmd(flags), newInfoCmd(flags), newStatsCmd(flags))
	return cmd
}

// loadConfig reads the environment configuration and applies flag
// overrides on top.
func loadConfig(flags *rootFlags) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	if flags.workingDir != "" {
		wd, err := filepath.Abs(flags.workingDir)
		if err != nil {
			return nil, fmt.Errorf("invalid --working-dir: %w", err)
		}
		cfg.WorkingDir = wd
		if flags.sourceDir == "" && os.Getenv("SOILGRIDS_SOURCE_DIR") == "" {
			cfg.SourceDir = filepath.Join(wd, config.DownloadSubdir)
		}
	}
	if flags.sourceDir != "" {
		sd, err := filepath.Abs(flags.sourceDir)
		if err != nil {
			return nil, fmt.Errorf("invalid --source-dir: %w", err)
		}
		cfg.SourceDir = sd
	}
	if flags.resampling != "" {
		r, err := domain.ParseResampling(flags.resampling)
		if err != nil {
			return nil, err
		}
		cfg.Resampling = r
	}
	return cfg, nil
}

// newGrids wires a transfer client and accessor from config. The client
// is returned separately so the fetch command can drive it directly.
func newGrids(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) (*soilgrids.SoilGrids, *fetch.Client, error) {
	client := fetch.NewClient(cfg.FetchTimeout, cfg.Resume, logger, metrics)
	sg, err := soilgrids.New(
		soilgrids.WithWorkingDir(cfg.WorkingDir),
		soilgrids.WithSourceDir(cfg.SourceDir),
		soilgrids.WithResampling(cfg.Resampling),
		soilgrids.WithTransfer(client),
		soilgrids.WithLogger(logger),
	)
	return sg, client, err
}

// resolveProducts maps product keys to descriptors; no arguments selects
// every product.
func resolveProducts(args []string) ([]domain.Product, error) {
	if len(args) == 0 {
		return domain.Products(), nil
	}
	products := make([]domain.Product, 0, len(args))
	for _, arg := range args {
		p, ok := domain.ProductByKey(arg)
		if !ok {
			return nil, fmt.Errorf("unknown product %q (want fc or wp)", arg)
		}
		products = append(products, p)
	}
	return products, nil
}
