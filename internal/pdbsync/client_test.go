package pdbsync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/route-beacon/neighgen/internal/config"
	"github.com/route-beacon/neighgen/internal/pdb"
)

func testSyncConfig(url string) config.SyncConfig {
	return config.SyncConfig{
		URL:            url,
		TimeoutSeconds: 5,
		PageSize:       2,
		StripTZ:        true,
	}
}

func writePage(w http.ResponseWriter, rows ...string) {
	raws := make([]json.RawMessage, len(rows))
	for i, r := range rows {
		raws[i] = json.RawMessage(r)
	}
	json.NewEncoder(w).Encode(map[string]any{"data": raws})
}

func TestClient_ListPaginates(t *testing.T) {
	var skips []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		skips = append(skips, r.URL.Query().Get("skip"))
		if r.URL.Query().Get("limit") != "2" {
			t.Errorf("limit = %q", r.URL.Query().Get("limit"))
		}
		switch r.URL.Query().Get("skip") {
		case "":
			writePage(w, `{"id":1}`, `{"id":2}`)
		case "2":
			writePage(w, `{"id":3}`)
		default:
			t.Errorf("unexpected skip %q", r.URL.Query().Get("skip"))
			writePage(w)
		}
	}))
	defer srv.Close()

	c := NewClient(testSyncConfig(srv.URL), zap.NewNop())
	rows, err := c.List(context.Background(), "net", time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows across pages, got %d", len(rows))
	}
	if len(skips) != 2 {
		t.Errorf("expected 2 requests, got %v", skips)
	}
}

func TestClient_SinceAndAuth(t *testing.T) {
	since := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("since"); got != fmt.Sprint(since.Unix()) {
			t.Errorf("since = %q", got)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "pdb-user" || pass != "hunter2" {
			t.Errorf("basic auth = %q/%q ok=%v", user, pass, ok)
		}
		writePage(w)
	}))
	defer srv.Close()

	cfg := testSyncConfig(srv.URL)
	cfg.User = "pdb-user"
	cfg.Password = "hunter2"
	c := NewClient(cfg, zap.NewNop())
	if _, err := c.List(context.Background(), "netixlan", since); err != nil {
		t.Fatal(err)
	}
}

func TestClient_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(testSyncConfig(srv.URL), zap.NewNop())
	_, err := c.List(context.Background(), "net", time.Time{})
	if !errors.Is(err, pdb.ErrDataSource) {
		t.Fatalf("err = %v, want ErrDataSource", err)
	}
}

func TestClient_ParseTimeStripTZ(t *testing.T) {
	c := NewClient(testSyncConfig("http://example.invalid"), zap.NewNop())

	got := c.parseTime("2024-06-01T10:30:00+02:00")
	want := time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("stripped time = %v, want %v", got, want)
	}

	if !c.parseTime("").IsZero() {
		t.Error("empty timestamp should parse to zero")
	}
	if !c.parseTime("not-a-time").IsZero() {
		t.Error("garbage timestamp should parse to zero")
	}
}
