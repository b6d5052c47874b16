package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/park-planner/internal/catalog"
	"github.com/example/park-planner/internal/config"
	"github.com/example/park-planner/internal/db"
	"github.com/example/park-planner/internal/livestatus"
	"github.com/example/park-planner/internal/migrate"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage park experience catalogs",
	}
	cmd.AddCommand(newCatalogImportCmd())
	cmd.AddCommand(newCatalogShowtimesCmd())
	return cmd
}

func newCatalogImportCmd() *cobra.Command {
	var file, parkID string

	c := &cobra.Command{
		Use:   "import",
		Short: "Import experiences from a YAML or CSV catalog file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}

			f, err := os.Open(file)
			if err != nil {
				return err
			}
			defer f.Close()

			var exps []catalog.Experience
			switch strings.ToLower(filepath.Ext(file)) {
			case ".yaml", ".yml":
				exps, err = catalog.LoadYAML(f)
			case ".csv":
				if parkID == "" {
					return fmt.Errorf("--park is required for CSV imports")
				}
				exps, err = catalog.LoadCSV(f, parkID)
			default:
				return fmt.Errorf("unsupported catalog format %q (want .yaml or .csv)", filepath.Ext(file))
			}
			if err != nil {
				return err
			}

			ctx := context.Background()
			d, err := db.Open(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer d.Close()

			if err := migrate.Up(ctx, d); err != nil {
				return err
			}

			repo := catalog.NewRepo(d)
			for _, e := range exps {
				if err := repo.Upsert(ctx, e); err != nil {
					return fmt.Errorf("upsert %s: %w", e.ID, err)
				}
			}
			fmt.Fprintf(os.Stdout, "imported %d experiences\n", len(exps))
			return nil
		},
	}

	c.Flags().StringVar(&file, "file", "", "catalog file (.yaml or .csv)")
	c.Flags().StringVar(&parkID, "park", "", "park id applied to rows without one")
	_ = c.MarkFlagRequired("file")
	return c
}

func newCatalogShowtimesCmd() *cobra.Command {
	var url, parkID string

	c := &cobra.Command{
		Use:   "showtimes",
		Short: "Scrape the entertainment schedule page and update show times",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			if url == "" {
				url = cfg.ShowtimesURL
			}
			if url == "" {
				return fmt.Errorf("--url or SHOWTIMES_URL is required")
			}

			ctx := context.Background()
			times, err := livestatus.NewShowtimeScraper(url).Fetch(ctx)
			if err != nil {
				return err
			}

			d, err := db.Open(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer d.Close()

			repo := catalog.NewRepo(d)
			for name, ts := range times {
				if err := repo.UpdateShowtimes(ctx, parkID, name, ts); err != nil {
					return fmt.Errorf("update %s: %w", name, err)
				}
			}
			fmt.Fprintf(os.Stdout, "updated showtimes for %d shows\n", len(times))
			return nil
		},
	}

	c.Flags().StringVar(&url, "url", "", "entertainment schedule page URL")
	c.Flags().StringVar(&parkID, "park", "", "park id")
	_ = c.MarkFlagRequired("park")
	return c
}
