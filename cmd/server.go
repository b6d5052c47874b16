package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/park-planner/internal/auth"
	"github.com/example/park-planner/internal/catalog"
	"github.com/example/park-planner/internal/config"
	"github.com/example/park-planner/internal/db"
	"github.com/example/park-planner/internal/livestatus"
	"github.com/example/park-planner/internal/migrate"
	"github.com/example/park-planner/internal/planner"
	"github.com/example/park-planner/internal/plans"
	"github.com/example/park-planner/internal/web"
)

func newServerCmd() *cobra.Command {
	var migrateUp bool

	cmd := &cobra.Command{
		Use:   "server",
		Short: "Run the planning API + live wait-time poller",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}

			log, err := newLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			d, err := db.Open(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer d.Close()

			if err := d.Ping(ctx); err != nil {
				return fmt.Errorf("db ping: %w", err)
			}

			if migrateUp {
				if err := migrate.Up(ctx, d); err != nil {
					return err
				}
			}

			authStore := auth.NewStore(d, cfg.CookieHashKey, cfg.CookieBlockKey)
			catalogRepo := catalog.NewRepo(d)
			planRepo := plans.NewRepo(d)
			liveStore := livestatus.NewStore(cfg.StaleAfter)

			// live wait-time poller
			poller := &livestatus.Poller{
				Client:   livestatus.NewClient(cfg.FeedBaseURL),
				Store:    liveStore,
				Mapper:   catalogRepo,
				ParkIDs:  cfg.ParkIDs,
				Interval: cfg.PollInterval,
				Log:      log,
			}
			go func() { _ = poller.Run(ctx) }()

			opt := planner.New(log)
			ws := &web.Server{
				Log:       log,
				Auth:      authStore,
				Catalog:   catalogRepo,
				Live:      liveStore,
				Plans:     planRepo,
				Optimizer: opt,
				Replanner: planner.NewReplanner(opt),
				BaseURL:   cfg.BaseURL,
			}
			return web.Start(ctx, cfg.ListenAddr, ws.Routes(), log)
		},
	}

	cmd.Flags().BoolVar(&migrateUp, "migrate", true, "run database migrations on startup")
	cmd.Flags().Lookup("migrate").NoOptDefVal = "true"
	return cmd
}
