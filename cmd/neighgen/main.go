// neighgen looks up networks in a local PeeringDB mirror and renders
// BGP neighbor configuration for them.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/paularlott/cli"

	"github.com/route-beacon/neighgen/internal/pdb"
)

func rootCommand() *cli.Command {
	return &cli.Command{
		Name:        "neighgen",
		Usage:       "BGP neighbor configuration generator",
		Description: "Queries a local PeeringDB mirror for a network's exchange presences and renders per-peer BGP neighbor configuration.",
		Commands: []*cli.Command{
			asinfoCommand(),
			asinfoRawCommand(),
			neighCommand(),
			syncCommand(),
			dumpConfigCommand(),
			genConfigCommand(),
		},
	}
}

func main() {
	if err := rootCommand().Execute(context.Background()); err != nil {
		switch {
		case pdb.NotFound(err):
			fmt.Fprintf(os.Stderr, "error: %v (try running 'neighgen sync' first)\n", err)
		case errors.Is(err, pdb.ErrDataSource):
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		default:
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}
