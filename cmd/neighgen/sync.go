package main

import (
	"context"
	"time"

	"github.com/paularlott/cli"
	"go.uber.org/zap"

	"github.com/route-beacon/neighgen/internal/cache"
	"github.com/route-beacon/neighgen/internal/pdbsync"
)

func syncCommand() *cli.Command {
	return &cli.Command{
		Name:        "sync",
		Usage:       "Sync the local mirror from the PeeringDB API",
		Description: "Pulls changed objects since the last run and upserts them into the local database. The lookup cache is invalidated afterwards.",
		Flags: append(globalFlags(),
			&cli.StringFlag{Name: "only", Usage: "Comma-separated resources to sync (net, ixlan, netixlan, netfac, poc)"},
		),
		Run: func(ctx context.Context, cmd *cli.Command) error {
			cfg, logger, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync()

			store, err := openStore(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			only := splitFilters(cmd.GetString("only"))
			if len(only) == 0 {
				only = cfg.Sync.Only
			}

			client := pdbsync.NewClient(cfg.Sync, logger)
			start := time.Now()
			if err := pdbsync.New(client, store, only, logger).Run(ctx); err != nil {
				return err
			}
			logger.Info("sync complete", zap.Duration("took", time.Since(start)))

			if cfg.App.Cache.Enabled {
				c, err := cache.Open(cfg.App.Cache.Path, time.Duration(cfg.App.Cache.TTLSeconds)*time.Second, logger)
				if err != nil {
					logger.Warn("lookup cache unavailable, skipping invalidation", zap.Error(err))
					return nil
				}
				defer c.Close()
				if err := c.Invalidate(ctx); err != nil {
					logger.Warn("invalidating lookup cache failed", zap.Error(err))
				}
			}
			return nil
		},
	}
}
