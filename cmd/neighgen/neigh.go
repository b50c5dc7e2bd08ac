package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/paularlott/cli"
	"go.uber.org/zap"

	"github.com/route-beacon/neighgen/internal/config"
	"github.com/route-beacon/neighgen/internal/format"
	"github.com/route-beacon/neighgen/internal/neigh"
	"github.com/route-beacon/neighgen/internal/pdb"
)

func neighCommand() *cli.Command {
	return &cli.Command{
		Name:        "neigh",
		Usage:       "Generate BGP neighbor configuration for an ASN's peers",
		Description: "Looks up the ASN's exchange presences, enumerates the other members on each matched exchange and renders one neighbor block per peer.",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "asn", Required: true},
			&cli.StringArg{Name: "filter"},
		},
		Flags: append(globalFlags(),
			&cli.StringFlag{Name: "ix", Usage: "Additional comma-separated exchange name filters"},
			&cli.BoolFlag{Name: "exact", Usage: "Match exchange names exactly instead of by substring"},
			&cli.IntFlag{Name: "limit", Usage: "Only render the first N matched exchanges"},
			&cli.StringFlag{Name: "os", Usage: "Target network OS (ios, nxos)"},
			&cli.StringFlag{Name: "format", Usage: "Output format: text, json, yaml or xml", DefaultValue: "text"},
			&cli.StringFlag{Name: "output", Usage: "Write to this file instead of stdout"},
			&cli.StringFlag{Name: "asn-name", Usage: "Override the peer name used in descriptions"},
			&cli.StringFlag{Name: "peer-template", Usage: "Peer template to inherit"},
			&cli.StringFlag{Name: "peer-session", Usage: "Peer session template to inherit"},
			&cli.StringFlag{Name: "policy-v4", Usage: "IPv4 peer policy to inherit"},
			&cli.StringFlag{Name: "policy-v6", Usage: "IPv6 peer policy to inherit"},
			&cli.BoolFlag{Name: "max-prefixes", Usage: "Emit maximum-prefix lines"},
			&cli.IntFlag{Name: "mp4", Usage: "IPv4 maximum-prefix fallback when the peer's record has none"},
			&cli.IntFlag{Name: "mp6", Usage: "IPv6 maximum-prefix fallback when the peer's record has none"},
			&cli.BoolFlag{Name: "trim", Usage: "Trim trailing words from exchange names in descriptions"},
			&cli.IntFlag{Name: "trim-words", Usage: "How many trailing words to trim"},
			&cli.BoolFlag{Name: "lock-version", Usage: "Disable the unused address family on each neighbor"},
			&cli.BoolFlag{Name: "no-lock-version", Usage: "Leave unused address families alone"},
		),
		Run: runNeigh,
	}
}

func runNeigh(ctx context.Context, cmd *cli.Command) error {
	cfg, logger, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	asn, err := pdb.ParseASN(cmd.GetStringArg("asn"))
	if err != nil {
		return err
	}
	kind := cmd.GetString("format")
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

	filters := splitFilters(cmd.GetStringArg("filter"), cmd.GetString("ix"))
	matched := pdb.MatchLANs(n.IXLANs, filters, cmd.GetBool("exact"))
	if len(matched) == 0 {
		if len(filters) > 0 {
			fmt.Fprintf(os.Stderr, "warning: no exchange for AS%d matches %s\n", asn, strings.Join(filters, ", "))
		} else {
			fmt.Fprintf(os.Stderr, "warning: AS%d has no exchange presences on record\n", asn)
		}
		return nil
	}

	members := make(map[int64][]pdb.Member, len(matched))
	for _, lan := range matched {
		ms, err := store.Members(ctx, lan.ID)
		if err != nil {
			return err
		}
		members[lan.ID] = ms
	}

	records := neigh.Build(n, matched, members, buildOptions(cmd, cfg))
	if name := cmd.GetString("asn-name"); name != "" {
		for i := range records {
			records[i].PeerName = name
		}
	}
	logger.Debug("built neighbor records",
		zap.Int("exchanges", len(matched)),
		zap.Int("records", len(records)))

	var out []byte
	if canonical, _ := format.Resolve(kind); canonical == format.Text {
		text, err := neigh.Render(records, renderConfig(cmd, cfg))
		if err != nil {
			return err
		}
		out = []byte(text)
	} else {
		out, err = format.Bytes(records, kind, format.Options{Pretty: true})
		if err != nil {
			return err
		}
		out = append(out, '\n')
	}
	return writeOutput(cmd.GetString("output"), out)
}

func buildOptions(cmd *cli.Command, cfg *config.Config) neigh.BuildOptions {
	opt := neigh.BuildOptions{
		MaxPrefixFallback4: cfg.App.MaxPrefixes.V4,
		MaxPrefixFallback6: cfg.App.MaxPrefixes.V6,
		TrimName:           cfg.App.IXTrim,
		TrimWords:          cfg.App.IXTrimWords,
		Limit:              cmd.GetInt("limit"),
	}
	if v := cmd.GetInt("mp4"); v > 0 {
		opt.MaxPrefixFallback4 = v
	}
	if v := cmd.GetInt("mp6"); v > 0 {
		opt.MaxPrefixFallback6 = v
	}
	if cmd.GetBool("trim") {
		opt.TrimName = true
	}
	if v := cmd.GetInt("trim-words"); v > 0 {
		opt.TrimName = true
		opt.TrimWords = v
	}
	return opt
}

func renderConfig(cmd *cli.Command, cfg *config.Config) neigh.RenderConfig {
	rc := neigh.RenderConfig{
		OS:              cfg.App.DefaultOS,
		TemplateMap:     cfg.App.TemplateMap,
		PeerTemplate:    cfg.App.PeerTemplate,
		PeerSession:     cfg.App.PeerSession,
		PeerPolicyV4:    cfg.App.PeerPolicyV4,
		PeerPolicyV6:    cfg.App.PeerPolicyV6,
		LockVersion:     cfg.App.LockVersion,
		UseMaxPrefixes:  cfg.App.MaxPrefixes.Use,
		MaxPrefixConfig: cfg.App.MaxPrefixes.Render(),
	}
	if v := cmd.GetString("os"); v != "" {
		rc.OS = v
	}
	if v := cmd.GetString("peer-template"); v != "" {
		rc.PeerTemplate = v
	}
	if v := cmd.GetString("peer-session"); v != "" {
		rc.PeerSession = v
	}
	if v := cmd.GetString("policy-v4"); v != "" {
		rc.PeerPolicyV4 = v
	}
	if v := cmd.GetString("policy-v6"); v != "" {
		rc.PeerPolicyV6 = v
	}
	if cmd.GetBool("max-prefixes") {
		rc.UseMaxPrefixes = true
	}
	if cmd.GetBool("lock-version") {
		rc.LockVersion = true
	}
	if cmd.GetBool("no-lock-version") {
		rc.LockVersion = false
	}
	return rc
}
