package pdbsync

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/route-beacon/neighgen/internal/db"
	"github.com/route-beacon/neighgen/internal/pdb"
)

// fixture serves a tiny but complete PeeringDB snapshot.
func fixtureServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/net", func(w http.ResponseWriter, r *http.Request) {
		writePage(w,
			`{"id":1,"asn":210083,"name":"Privex Inc.","info_prefixes4":50,"info_prefixes6":10,"updated":"2024-05-01T00:00:00Z"}`,
			`{"id":2,"asn":13335,"name":"Cloudflare","info_prefixes4":5000,"info_prefixes6":2000,"updated":"2024-05-02T00:00:00Z"}`)
	})
	mux.HandleFunc("/ixlan", func(w http.ResponseWriter, r *http.Request) {
		writePage(w, `{"id":10,"ix_id":26,"name":"AMS-IX","updated":"2024-05-01T00:00:00Z"}`)
	})
	mux.HandleFunc("/netixlan", func(w http.ResponseWriter, r *http.Request) {
		writePage(w,
			`{"id":100,"net_id":1,"ixlan_id":10,"asn":210083,"ipaddr4":"80.249.212.1","ipaddr6":"2001:7f8:1::1","speed":10000,"is_rs_peer":true,"operational":true,"status":"ok","created":"2024-01-01T00:00:00Z","updated":"2024-05-03T00:00:00Z"}`,
			`{"id":101,"net_id":2,"ixlan_id":10,"asn":13335,"ipaddr4":"80.249.212.2","speed":100000,"operational":true,"status":"ok","created":"2024-01-01T00:00:00Z","updated":"2024-05-01T00:00:00Z"}`)
	})
	mux.HandleFunc("/netfac", func(w http.ResponseWriter, r *http.Request) {
		writePage(w, `{"id":200,"net_id":1,"fac_id":42,"name":"Equinix AM7","city":"Amsterdam","country":"NL","local_asn":210083,"status":"ok","updated":"2024-05-01T00:00:00Z"}`)
	})
	mux.HandleFunc("/poc", func(w http.ResponseWriter, r *http.Request) {
		writePage(w, `{"id":300,"net_id":1,"role":"NOC","name":"Privex NOC","email":"noc@privex.io","visible":"Public","status":"ok","updated":"2024-05-01T00:00:00Z"}`)
	})
	return httptest.NewServer(mux)
}

func openSyncStore(t *testing.T) db.Store {
	t.Helper()
	store, err := db.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "peeringdb.db"), zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSync_FullRun(t *testing.T) {
	srv := fixtureServer(t)
	defer srv.Close()

	store := openSyncStore(t)
	cfg := testSyncConfig(srv.URL)
	cfg.PageSize = 50
	client := NewClient(cfg, zap.NewNop())

	if err := New(client, store, nil, zap.NewNop()).Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	n, err := store.Network(ctx, 210083, pdb.DepthFull)
	if err != nil {
		t.Fatal(err)
	}
	if n.Name != "Privex Inc." {
		t.Errorf("network name = %q", n.Name)
	}
	if len(n.IXLANs) != 1 || n.IXLANs[0].Name != "AMS-IX" {
		t.Fatalf("IXLANs = %+v", n.IXLANs)
	}
	if n.IXLANs[0].Port.IPv4 != "80.249.212.1" {
		t.Errorf("port = %+v", n.IXLANs[0].Port)
	}
	if len(n.Facilities) != 1 || n.Facilities[0].City != "Amsterdam" {
		t.Errorf("facilities = %+v", n.Facilities)
	}
	if len(n.Contacts) != 1 || n.Contacts[0].Role != "NOC" {
		t.Errorf("contacts = %+v", n.Contacts)
	}

	members, err := store.Members(ctx, n.IXLANs[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(members) != 2 {
		t.Fatalf("members = %+v", members)
	}

	// Watermark advanced to the newest row seen per resource.
	wm, err := store.Watermark(ctx, "netixlan")
	if err != nil {
		t.Fatal(err)
	}
	want := time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)
	if !wm.Equal(want) {
		t.Errorf("netixlan watermark = %v, want %v", wm, want)
	}
}

func TestSync_IncrementalUsesSince(t *testing.T) {
	var sinceSeen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sinceSeen = append(sinceSeen, r.URL.Query().Get("since"))
		writePage(w, `{"id":1,"asn":210083,"name":"Privex Inc.","updated":"2024-05-01T00:00:00Z"}`)
	}))
	defer srv.Close()

	store := openSyncStore(t)
	client := NewClient(testSyncConfig(srv.URL), zap.NewNop())
	s := New(client, store, []string{"net"}, zap.NewNop())

	if err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := s.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	if len(sinceSeen) != 2 {
		t.Fatalf("requests = %v", sinceSeen)
	}
	if sinceSeen[0] != "" {
		t.Errorf("first run should have no since param, got %q", sinceSeen[0])
	}
	if sinceSeen[1] == "" {
		t.Error("second run should carry the stored watermark")
	}
}

func TestSync_OnlyNarrowsResources(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		writePage(w)
	}))
	defer srv.Close()

	store := openSyncStore(t)
	client := NewClient(testSyncConfig(srv.URL), zap.NewNop())
	if err := New(client, store, []string{"ixlan", "netixlan"}, zap.NewNop()).Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	if len(paths) != 2 || paths[0] != "/ixlan" || paths[1] != "/netixlan" {
		t.Errorf("fetched paths = %v", paths)
	}
}
