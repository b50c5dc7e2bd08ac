package main

import (
	"context"
	"strings"

	"github.com/paularlott/cli"

	"github.com/route-beacon/neighgen/internal/config"
)

func dumpConfigCommand() *cli.Command {
	return &cli.Command{
		Name:        "dump-config",
		Usage:       "Print the effective configuration",
		Description: "Prints the merged configuration (defaults, file, environment) as YAML.",
		Flags: append(globalFlags(),
			&cli.StringFlag{Name: "output", Usage: "Write to this file instead of stdout"},
		),
		Run: func(ctx context.Context, cmd *cli.Command) error {
			cfg, logger, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync()

			out, err := cfg.Dump()
			if err != nil {
				return err
			}
			return writeOutput(cmd.GetString("output"), out)
		},
	}
}

func genConfigCommand() *cli.Command {
	return &cli.Command{
		Name:        "gen-config",
		Usage:       "Write an example configuration file",
		Description: "Emits a commented example config. Kinds: " + strings.Join(config.ExampleKinds(), ", ") + ".",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "kind"},
		},
		Flags: append(globalFlags(),
			&cli.StringFlag{Name: "output", Usage: "Write to this file instead of stdout"},
		),
		Run: func(ctx context.Context, cmd *cli.Command) error {
			kind := cmd.GetStringArg("kind")
			if kind == "" {
				kind = "config"
			}
			out, err := config.Example(kind)
			if err != nil {
				return err
			}
			return writeOutput(cmd.GetString("output"), out)
		},
	}
}
