package db

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/route-beacon/neighgen/internal/pdb"
)

func openTestStore(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "peeringdb.db"), zap.NewNop())
	if err != nil {
		t.Fatalf("opening test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func seed(t *testing.T, s *SQLite) {
	t.Helper()
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	nets := []*pdb.Network{
		{ID: 1, ASN: 210083, Name: "Privex Inc.", InfoPrefixes4: 300, InfoPrefixes6: 100,
			InfoIPv6: true, IXCount: 2, Created: now, Updated: now},
		{ID: 2, ASN: 13335, Name: "Cloudflare", InfoPrefixes4: 5000, InfoPrefixes6: 2000, Created: now, Updated: now},
		{ID: 3, ASN: 6500, Name: "Example Net", Created: now, Updated: now},
	}
	for _, n := range nets {
		if err := s.UpsertNetwork(ctx, n); err != nil {
			t.Fatalf("seeding network: %v", err)
		}
	}

	lans := []IXLAN{
		{ID: 10, IXID: 100, Name: "AMS-IX"},
		{ID: 11, IXID: 101, Name: "DE-CIX Lisbon"},
	}
	for _, l := range lans {
		if err := s.UpsertIXLAN(ctx, l); err != nil {
			t.Fatalf("seeding ixlan: %v", err)
		}
	}

	ports := []NetIXLAN{
		{ID: 20, NetID: 1, IXLanID: 10, ASN: 210083, IPv4: "80.249.212.1", IPv6: "2001:7f8:1::1", SpeedMbps: 10000, RSPeer: true, Operational: true, Created: now, Updated: now},
		{ID: 21, NetID: 2, IXLanID: 10, ASN: 13335, IPv4: "80.249.212.2", IPv6: "2001:7f8:1::2", SpeedMbps: 100000, Operational: true, Created: now, Updated: now},
		{ID: 22, NetID: 1, IXLanID: 11, ASN: 210083, IPv4: "185.1.110.1", Created: now, Updated: now},
		{ID: 23, NetID: 3, IXLanID: 11, ASN: 6500, IPv4: "185.1.110.3", Created: now, Updated: now},
	}
	for _, x := range ports {
		if err := s.UpsertNetIXLAN(ctx, x); err != nil {
			t.Fatalf("seeding netixlan: %v", err)
		}
	}

	if err := s.UpsertFacility(ctx, 1, pdb.Facility{ID: 30, FacID: 300, Name: "Equinix AM7", City: "Amsterdam", Country: "NL", LocalASN: 210083, Status: "ok", Created: now, Updated: now}); err != nil {
		t.Fatalf("seeding facility: %v", err)
	}
	if err := s.UpsertContact(ctx, 1, pdb.Contact{ID: 40, Role: "NOC", Name: "Ops", Email: "noc@example.com", Visible: "Public"}); err != nil {
		t.Fatalf("seeding contact: %v", err)
	}
}

func TestSQLite_NetworkNotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Network(context.Background(), 64512, pdb.DepthFull)
	if !pdb.NotFound(err) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLite_NetworkDepth(t *testing.T) {
	s := openTestStore(t)
	seed(t, s)
	ctx := context.Background()

	bare, err := s.Network(ctx, 210083, pdb.DepthNetwork)
	if err != nil {
		t.Fatalf("bare lookup: %v", err)
	}
	if bare.Name != "Privex Inc." || bare.ASN != 210083 {
		t.Errorf("unexpected network: %+v", bare)
	}
	if len(bare.IXLANs) != 0 || len(bare.Facilities) != 0 {
		t.Errorf("depth 0 should not load sets: %+v", bare)
	}

	full, err := s.Network(ctx, 210083, pdb.DepthFull)
	if err != nil {
		t.Fatalf("full lookup: %v", err)
	}
	if len(full.IXLANs) != 2 {
		t.Fatalf("expected 2 LANs, got %d", len(full.IXLANs))
	}
	// Store order: by netixlan id.
	if full.IXLANs[0].Name != "AMS-IX" || full.IXLANs[1].Name != "DE-CIX Lisbon" {
		t.Errorf("LAN order: %q, %q", full.IXLANs[0].Name, full.IXLANs[1].Name)
	}
	if full.IXLANs[0].Port.IPv6 != "2001:7f8:1::1" || !full.IXLANs[0].Port.RSPeer {
		t.Errorf("own port not loaded: %+v", full.IXLANs[0].Port)
	}
	if full.IXLANs[0].Port.Created.IsZero() {
		t.Error("port timestamps not round-tripped")
	}
	if len(full.Facilities) != 1 || full.Facilities[0].City != "Amsterdam" {
		t.Errorf("facilities: %+v", full.Facilities)
	}
	if len(full.Contacts) != 1 || full.Contacts[0].Role != "NOC" {
		t.Errorf("contacts: %+v", full.Contacts)
	}
}

func TestSQLite_Members(t *testing.T) {
	s := openTestStore(t)
	seed(t, s)

	members, err := s.Members(context.Background(), 10)
	if err != nil {
		t.Fatalf("members: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 members on AMS-IX, got %d", len(members))
	}
	// Peer rows resolve name and prefix limits from the member network.
	cf := members[1]
	if cf.ASN != 13335 || cf.Name != "Cloudflare" || cf.Prefixes4 != 5000 || cf.Prefixes6 != 2000 {
		t.Errorf("member row: %+v", cf)
	}
}

func TestSQLite_UpsertIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	seed(t, s)
	ctx := context.Background()

	n, err := s.Network(ctx, 13335, pdb.DepthNetwork)
	if err != nil {
		t.Fatal(err)
	}
	n.Name = "Cloudflare, Inc."
	if err := s.UpsertNetwork(ctx, n); err != nil {
		t.Fatalf("re-upserting: %v", err)
	}
	again, err := s.Network(ctx, 13335, pdb.DepthNetwork)
	if err != nil {
		t.Fatal(err)
	}
	if again.Name != "Cloudflare, Inc." {
		t.Errorf("upsert did not update: %q", again.Name)
	}
}

func TestSQLite_Watermark(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	w, err := s.Watermark(ctx, "net")
	if err != nil {
		t.Fatal(err)
	}
	if !w.IsZero() {
		t.Errorf("fresh store should have zero watermark, got %v", w)
	}

	mark := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	if err := s.SetWatermark(ctx, "net", mark); err != nil {
		t.Fatal(err)
	}
	w, err = s.Watermark(ctx, "net")
	if err != nil {
		t.Fatal(err)
	}
	if !w.Equal(mark) {
		t.Errorf("watermark = %v, want %v", w, mark)
	}
}
