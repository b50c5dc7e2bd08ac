package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/paularlott/cli"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/route-beacon/neighgen/internal/cache"
	"github.com/route-beacon/neighgen/internal/config"
	"github.com/route-beacon/neighgen/internal/db"
	"github.com/route-beacon/neighgen/internal/pdb"
)

// globalFlags are shared by every subcommand.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Usage:   "Path to configuration YAML file",
			EnvVars: []string{"NEIGHGEN_CONFIG"},
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Enable debug logging",
		},
	}
}

// bootstrap loads the configuration and builds the logger every
// subcommand starts from.
func bootstrap(cmd *cli.Command) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(cmd.GetString("config"))
	if err != nil {
		return nil, nil, err
	}
	if cmd.GetBool("debug") {
		cfg.App.Debug = true
		cfg.App.LogLevel = "debug"
	}
	return cfg, initLogger(cfg.App.LogLevel), nil
}

func initLogger(level string) *zap.Logger {
	var zapLevel zapcore.Level
	switch strings.ToLower(level) {
	case "debug":
		zapLevel = zap.DebugLevel
	case "warn", "warning":
		zapLevel = zap.WarnLevel
	case "error":
		zapLevel = zap.ErrorLevel
	default:
		zapLevel = zap.InfoLevel
	}

	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(zapLevel)
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.OutputPaths = []string{"stderr"}

	logger, err := zapCfg.Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	return logger
}

// openStore connects to the configured database engine.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (db.Store, error) {
	store, err := db.Open(ctx, cfg.ORM, logger)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return store, nil
}

// loadNetwork fetches a network at the given depth, going through the
// lookup cache when it is enabled. Cache failures degrade to a direct
// database read.
func loadNetwork(ctx context.Context, cfg *config.Config, store pdb.Store, logger *zap.Logger, asn uint32, depth pdb.LoadDepth) (*pdb.Network, error) {
	if !cfg.App.Cache.Enabled {
		return store.Network(ctx, asn, depth)
	}

	c, err := cache.Open(cfg.App.Cache.Path, time.Duration(cfg.App.Cache.TTLSeconds)*time.Second, logger)
	if err != nil {
		logger.Warn("lookup cache unavailable", zap.Error(err))
		return store.Network(ctx, asn, depth)
	}
	defer c.Close()

	key := cache.Key(asn, int(depth))
	if raw, ok := c.Get(ctx, key); ok {
		var n pdb.Network
		if err := json.Unmarshal(raw, &n); err == nil {
			logger.Debug("lookup served from cache", zap.String("key", key))
			return &n, nil
		}
		logger.Warn("discarding undecodable cache entry", zap.String("key", key))
	}

	n, err := store.Network(ctx, asn, depth)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(n); err == nil {
		if err := c.Set(ctx, key, raw); err != nil {
			logger.Warn("caching lookup failed", zap.Error(err))
		}
	}
	return n, nil
}

// splitFilters turns comma-separated filter values into a flat list.
func splitFilters(values ...string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// writeOutput writes data to the given file, or stdout when the path
// is empty.
func writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(os.Stderr, "wrote %d bytes to %s\n", len(data), path)
	return nil
}
