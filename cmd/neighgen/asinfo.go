package main

import (
	"context"
	"os"

	"github.com/paularlott/cli"

	"github.com/route-beacon/neighgen/internal/format"
	"github.com/route-beacon/neighgen/internal/pdb"
	"github.com/route-beacon/neighgen/internal/report"
)

func asinfoCommand() *cli.Command {
	return &cli.Command{
		Name:        "asinfo",
		Usage:       "Show information about an ASN",
		Description: "Prints the network record, peering policy and notes for an ASN. Exchange and facility tables are opt-in.",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "asn", Required: true},
		},
		Flags: append(globalFlags(),
			&cli.BoolFlag{Name: "ix", Usage: "Show the exchange point table"},
			&cli.BoolFlag{Name: "fac", Usage: "Show the facility table"},
			&cli.BoolFlag{Name: "poc", Usage: "Show the contact table"},
		),
		Run: func(ctx context.Context, cmd *cli.Command) error {
			cfg, logger, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync()

			asn, err := pdb.ParseASN(cmd.GetStringArg("asn"))
			if err != nil {
				return err
			}

			store, err := openStore(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := loadNetwork(ctx, cfg, store, logger, asn, pdb.DepthFull)
			if err != nil {
				return err
			}

			report.WriteNetwork(os.Stdout, n)
			report.WritePeeringPolicy(os.Stdout, n)
			if cmd.GetBool("ix") {
				report.WriteExchanges(os.Stdout, n)
			}
			if cmd.GetBool("fac") {
				report.WriteFacilities(os.Stdout, n)
			}
			if cmd.GetBool("poc") {
				report.WriteContacts(os.Stdout, n)
			}
			report.WriteNotes(os.Stdout, n)
			return nil
		},
	}
}

func asinfoRawCommand() *cli.Command {
	return &cli.Command{
		Name:        "asinfo-raw",
		Usage:       "Dump the raw record for an ASN",
		Description: "Serializes the network record as json, yaml or xml for scripting. By default only the network row is dumped; the nested sets are opt-in.",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "asn", Required: true},
			&cli.StringArg{Name: "format"},
		},
		Flags: append(globalFlags(),
			&cli.BoolFlag{Name: "ix", Usage: "Include the exchange presence set"},
			&cli.BoolFlag{Name: "fac", Usage: "Include the facility set"},
			&cli.BoolFlag{Name: "poc", Usage: "Include the contact set"},
			&cli.BoolFlag{Name: "only-ix", Usage: "Dump only the exchange presence list"},
			&cli.BoolFlag{Name: "only-fac", Usage: "Dump only the facility list"},
			&cli.BoolFlag{Name: "no-pretty", Usage: "Emit compact output without indentation"},
			&cli.StringFlag{Name: "output", Usage: "Write to this file instead of stdout"},
		),
		Run: func(ctx context.Context, cmd *cli.Command) error {
			cfg, logger, err := bootstrap(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync()

			asn, err := pdb.ParseASN(cmd.GetStringArg("asn"))
			if err != nil {
				return err
			}
			kind := cmd.GetStringArg("format")
			if kind == "" {
				kind = format.JSON
			}
			if _, err := format.Resolve(kind); err != nil {
				return err
			}

			store, err := openStore(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer store.Close()

			n, err := loadNetwork(ctx, cfg, store, logger, asn, pdb.DepthFull)
			if err != nil {
				return err
			}

			var v any
			switch {
			case cmd.GetBool("only-ix"):
				v = n.IXLANs
			case cmd.GetBool("only-fac"):
				v = n.Facilities
			default:
				if !cmd.GetBool("ix") {
					n.IXLANs = nil
				}
				if !cmd.GetBool("fac") {
					n.Facilities = nil
				}
				if !cmd.GetBool("poc") {
					n.Contacts = nil
				}
				v = n
			}

			out, err := format.Bytes(v, kind, format.Options{Pretty: !cmd.GetBool("no-pretty")})
			if err != nil {
				return err
			}
			if len(out) > 0 && out[len(out)-1] != '\n' {
				out = append(out, '\n')
			}
			return writeOutput(cmd.GetString("output"), out)
		},
	}
}
