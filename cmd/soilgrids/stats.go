package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/soilgrids/internal/domain"
	"github.com/couchcryptid/soilgrids/internal/observability"
)

func newStatsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stats <product>",
		Short: "Summarize a cached product grid (fc or wp)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			products, err := resolveProducts(args)
			if err != nil {
				return err
			}
			p := products[0]

			// Stats never triggers a download; the grid must be cached.
			path := p.LocalPath(cfg.SourceDir)
			if _, err := os.Stat(path); err != nil {
				return fmt.Errorf("%s is not cached at %s; run soilgrids fetch %s first", p.Name, path, p.Key)
			}

			sg, _, err := newGrids(cfg, observability.NewLogger(cfg), observability.NewMetrics())
			if err != nil {
				return err
			}

			raster, err := sg.Get(cmd.Context(), p, nil, "")
			if err != nil {
				return err
			}
			s := domain.Summarize(raster)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s  %dx%d\n", p.Name, raster.Width, raster.Height)
			fmt.Fprintf(out, "  min:     %.4f\n", s.Min)
			fmt.Fprintf(out, "  max:     %.4f\n", s.Max)
			fmt.Fprintf(out, "  mean:    %.4f\n", s.Mean)
			fmt.Fprintf(out, "  stddev:  %.4f\n", s.StdDev)
			fmt.Fprintf(out, "  valid:   %d\n", s.Valid)
			fmt.Fprintf(out, "  missing: %d\n", s.Missing)
			return nil
		},
	}
}
