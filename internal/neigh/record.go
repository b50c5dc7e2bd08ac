// Package neigh turns peering-database rows into flat neighbor records
// and renders them through vendor OS templates.
package neigh

import (
	"strings"

	"github.com/route-beacon/neighgen/internal/pdb"
)

// Record is one template-ready neighbor: a peer on a matched exchange
// LAN. At least one of IPv4/IPv6 is always set; Build drops rows with
// neither.
type Record struct {
	PeerASN      uint32 `json:"peer_asn" yaml:"peer_asn" xml:"peer_asn"`
	PeerName     string `json:"peer_name" yaml:"peer_name" xml:"peer_name"`
	IPv4         string `json:"peer_ipv4,omitempty" yaml:"peer_ipv4,omitempty" xml:"peer_ipv4,omitempty"`
	IPv6         string `json:"peer_ipv6,omitempty" yaml:"peer_ipv6,omitempty" xml:"peer_ipv6,omitempty"`
	IXName       string `json:"ix_name" yaml:"ix_name" xml:"ix_name"`
	MaxPrefixes4 int    `json:"max_prefix_v4" yaml:"max_prefix_v4" xml:"max_prefix_v4"`
	MaxPrefixes6 int    `json:"max_prefix_v6" yaml:"max_prefix_v6" xml:"max_prefix_v6"`
	PeerIdx      int    `json:"peer_idx" yaml:"peer_idx" xml:"peer_idx"`
	Port         string `json:"port,omitempty" yaml:"port,omitempty" xml:"port,omitempty"`
}

func (r Record) HasIPv4() bool { return r.IPv4 != "" }
func (r Record) HasIPv6() bool { return r.IPv6 != "" }

// BuildOptions control normalization.
type BuildOptions struct {
	// Fallback prefix limits for peers whose network row carries none.
	MaxPrefixFallback4 int
	MaxPrefixFallback6 int

	// Trim IX display names to the first TrimWords whitespace tokens.
	TrimName  bool
	TrimWords int

	// Limit caps how many LANs are consumed; 0 means no limit.
	Limit int
}

// Build flattens the matched LANs into neighbor records: one record per
// peer per LAN, excluding the queried network's own ports and any row
// with no usable address. Input order is preserved; PeerIdx numbers the
// records from 1.
func Build(network *pdb.Network, lans []pdb.ExchangeLAN, members map[int64][]pdb.Member, opt BuildOptions) []Record {
	if opt.Limit > 0 && len(lans) > opt.Limit {
		lans = lans[:opt.Limit]
	}

	var records []Record
	idx := 0
	for _, lan := range lans {
		name := lan.Name
		if opt.TrimName {
			name = trimWords(name, opt.TrimWords)
		}
		for _, m := range members[lan.ID] {
			if m.ASN == network.ASN {
				continue
			}
			if m.IPv4 == "" && m.IPv6 == "" {
				continue
			}
			idx++
			rec := Record{
				PeerASN:      m.ASN,
				PeerName:     m.Name,
				IPv4:         m.IPv4,
				IPv6:         m.IPv6,
				IXName:       name,
				MaxPrefixes4: m.Prefixes4,
				MaxPrefixes6: m.Prefixes6,
				PeerIdx:      idx,
			}
			if rec.MaxPrefixes4 <= 0 {
				rec.MaxPrefixes4 = opt.MaxPrefixFallback4
			}
			if rec.MaxPrefixes6 <= 0 {
				rec.MaxPrefixes6 = opt.MaxPrefixFallback6
			}
			records = append(records, rec)
		}
	}
	return records
}

func trimWords(s string, n int) string {
	if n <= 0 {
		return s
	}
	fields := strings.Fields(s)
	if len(fields) <= n {
		return s
	}
	return strings.Join(fields[:n], " ")
}
