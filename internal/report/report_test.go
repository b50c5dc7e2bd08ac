package report

import (
	"strings"
	"testing"

	"github.com/route-beacon/neighgen/internal/pdb"
)

func TestSpeed(t *testing.T) {
	cases := []struct {
		mbps int
		want string
	}{
		{0, "-"},
		{-1, "-"},
		{100, "100 mbps"},
		{1000, "1 gbps"},
		{10000, "10 gbps"},
		{2500, "2500 mbps"},
		{1000000, "1 tbps"},
	}
	for _, c := range cases {
		if got := Speed(c.mbps); got != c.want {
			t.Errorf("Speed(%d) = %q, want %q", c.mbps, got, c.want)
		}
	}
}

func reportNetwork() *pdb.Network {
	return &pdb.Network{
		ID:            1,
		ASN:           210083,
		Name:          "Privex Inc.",
		Website:       "https://www.privex.io",
		IRRASSet:      "AS-PRIVEX",
		InfoType:      "NSP",
		InfoIPv6:      true,
		InfoPrefixes4: 50,
		InfoPrefixes6: 10,
		IXCount:       2,
		Notes:         "Always happy to peer.",
		IXLANs: []pdb.ExchangeLAN{
			{ID: 10, Name: "AMS-IX", Port: pdb.PortInfo{IPv4: "80.249.212.1", IPv6: "2001:7f8:1::1", SpeedMbps: 10000, RSPeer: true, Operational: true}},
			{ID: 11, Name: "DE-CIX Lisbon", Port: pdb.PortInfo{IPv4: "185.1.110.1", SpeedMbps: 1000, Operational: true}},
		},
		Facilities: []pdb.Facility{
			{ID: 200, Name: "Equinix AM7", City: "Amsterdam", Country: "NL", LocalASN: 210083},
		},
		Contacts: []pdb.Contact{
			{ID: 300, Role: "NOC", Name: "Privex NOC", Email: "noc@privex.io"},
		},
	}
}

func TestWrite_FullReport(t *testing.T) {
	var b strings.Builder
	Write(&b, reportNetwork())
	out := b.String()

	for _, want := range []string{
		"Information for AS210083",
		"Privex Inc.",
		"AS-PRIVEX",
		"AMS-IX",
		"DE-CIX Lisbon",
		"10 gbps",
		"1 gbps",
		"80.249.212.1",
		"Equinix AM7",
		"noc@privex.io",
		"Always happy to peer.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestWrite_EmptySections(t *testing.T) {
	var b strings.Builder
	Write(&b, &pdb.Network{ASN: 6500, Name: "Example Net"})
	out := b.String()

	if !strings.Contains(out, "none on record") {
		t.Error("empty sections should say so")
	}
	if strings.Contains(out, "Notes") {
		t.Error("notes block should be omitted when empty")
	}
}
