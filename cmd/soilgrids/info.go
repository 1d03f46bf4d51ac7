package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/soilgrids/internal/domain"
)

func newInfoCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show configuration and cache state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "working directory: %s\n", cfg.WorkingDir)
			fmt.Fprintf(out, "source directory:  %s\n", cfg.SourceDir)
			fmt.Fprintf(out, "resampling:        %s\n", cfg.Resampling)

			for _, p := range domain.Products() {
				path := p.LocalPath(cfg.SourceDir)
				fmt.Fprintf(out, "\n%s (%s)\n", p.Name, p.Key)
				fmt.Fprintf(out, "  url:  %s\n", p.URL)
				fmt.Fprintf(out, "  path: %s\n", path)
				if st, err := os.Stat(path); err == nil {
					fmt.Fprintf(out, "  cached: yes (%d bytes)\n", st.Size())
				} else {
					fmt.Fprintf(out, "  cached: no\n")
				}
			}
			return nil
		},
	}
}
