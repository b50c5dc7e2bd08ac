package pdbsync

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/route-beacon/neighgen/internal/db"
	"github.com/route-beacon/neighgen/internal/pdb"
)

// resources in dependency order: networks before ports, ports before
// the display-only sets.
var resources = []string{"net", "ixlan", "netixlan", "netfac", "poc"}

// Sync replays API objects into the local store.
type Sync struct {
	client *Client
	store  db.Store
	only   map[string]bool
	logger *zap.Logger
}

// New builds a sync over the given client and store. A non-empty only
// list narrows the run to those resources.
func New(client *Client, store db.Store, only []string, logger *zap.Logger) *Sync {
	var narrow map[string]bool
	if len(only) > 0 {
		narrow = make(map[string]bool, len(only))
		for _, r := range only {
			narrow[r] = true
		}
	}
	return &Sync{client: client, store: store, only: narrow, logger: logger}
}

// Run performs one incremental sync pass. Each resource advances its
// own watermark independently, so a failure mid-run never loses
// progress on resources already completed.
func (s *Sync) Run(ctx context.Context) error {
	for _, resource := range resources {
		if s.only != nil && !s.only[resource] {
			s.logger.Debug("skipping resource", zap.String("resource", resource))
			continue
		}
		if err := s.syncResource(ctx, resource); err != nil {
			return fmt.Errorf("syncing %s: %w", resource, err)
		}
	}
	return nil
}

func (s *Sync) syncResource(ctx context.Context, resource string) error {
	since, err := s.store.Watermark(ctx, resource)
	if err != nil {
		return err
	}

	rows, err := s.client.List(ctx, resource, since)
	if err != nil {
		return err
	}
	s.logger.Info("fetched resource",
		zap.String("resource", resource),
		zap.Int("rows", len(rows)),
		zap.Time("since", since))

	high := since
	for _, raw := range rows {
		updated, err := s.apply(ctx, resource, raw)
		if err != nil {
			return err
		}
		if updated.After(high) {
			high = updated
		}
	}

	if high.After(since) {
		return s.store.SetWatermark(ctx, resource, high)
	}
	return nil
}

func (s *Sync) apply(ctx context.Context, resource string, raw json.RawMessage) (time.Time, error) {
	switch resource {
	case "net":
		return s.applyNetwork(ctx, raw)
	case "ixlan":
		return s.applyIXLAN(ctx, raw)
	case "netixlan":
		return s.applyNetIXLAN(ctx, raw)
	case "netfac":
		return s.applyNetFac(ctx, raw)
	case "poc":
		return s.applyPOC(ctx, raw)
	}
	return time.Time{}, fmt.Errorf("unknown resource %q", resource)
}

func (s *Sync) applyNetwork(ctx context.Context, raw json.RawMessage) (time.Time, error) {
	var n pdb.Network
	if err := json.Unmarshal(raw, &n); err != nil {
		return time.Time{}, pdb.DataSourceError("decoding net row", err)
	}
	// Listing rows never carry the nested sets; make sure stale loads
	// cannot sneak one in.
	n.IXLANs, n.Facilities, n.Contacts = nil, nil, nil
	n.Created = s.normTime(n.Created)
	n.Updated = s.normTime(n.Updated)
	if err := s.store.UpsertNetwork(ctx, &n); err != nil {
		return time.Time{}, err
	}
	return n.Updated, nil
}

type apiIXLAN struct {
	ID      int64  `json:"id"`
	IXID    int64  `json:"ix_id"`
	Name    string `json:"name"`
	Updated string `json:"updated"`
}

func (s *Sync) applyIXLAN(ctx context.Context, raw json.RawMessage) (time.Time, error) {
	var row apiIXLAN
	if err := json.Unmarshal(raw, &row); err != nil {
		return time.Time{}, pdb.DataSourceError("decoding ixlan row", err)
	}
	err := s.store.UpsertIXLAN(ctx, db.IXLAN{ID: row.ID, IXID: row.IXID, Name: row.Name})
	if err != nil {
		return time.Time{}, err
	}
	return s.client.parseTime(row.Updated), nil
}

type apiNetIXLAN struct {
	ID          int64  `json:"id"`
	NetID       int64  `json:"net_id"`
	IXLanID     int64  `json:"ixlan_id"`
	ASN         uint32 `json:"asn"`
	IPv4        string `json:"ipaddr4"`
	IPv6        string `json:"ipaddr6"`
	Speed       int    `json:"speed"`
	RSPeer      bool   `json:"is_rs_peer"`
	Operational bool   `json:"operational"`
	Status      string `json:"status"`
	Created     string `json:"created"`
	Updated     string `json:"updated"`
}

func (s *Sync) applyNetIXLAN(ctx context.Context, raw json.RawMessage) (time.Time, error) {
	var row apiNetIXLAN
	if err := json.Unmarshal(raw, &row); err != nil {
		return time.Time{}, pdb.DataSourceError("decoding netixlan row", err)
	}
	x := db.NetIXLAN{
		ID:          row.ID,
		NetID:       row.NetID,
		IXLanID:     row.IXLanID,
		ASN:         row.ASN,
		IPv4:        row.IPv4,
		IPv6:        row.IPv6,
		SpeedMbps:   row.Speed,
		RSPeer:      row.RSPeer,
		Operational: row.Operational,
		Status:      row.Status,
		Created:     s.client.parseTime(row.Created),
		Updated:     s.client.parseTime(row.Updated),
	}
	if err := s.store.UpsertNetIXLAN(ctx, x); err != nil {
		return time.Time{}, err
	}
	return x.Updated, nil
}

type apiNetFac struct {
	ID       int64  `json:"id"`
	NetID    int64  `json:"net_id"`
	FacID    int64  `json:"fac_id"`
	Name     string `json:"name"`
	City     string `json:"city"`
	Country  string `json:"country"`
	LocalASN uint32 `json:"local_asn"`
	Status   string `json:"status"`
	Created  string `json:"created"`
	Updated  string `json:"updated"`
}

func (s *Sync) applyNetFac(ctx context.Context, raw json.RawMessage) (time.Time, error) {
	var row apiNetFac
	if err := json.Unmarshal(raw, &row); err != nil {
		return time.Time{}, pdb.DataSourceError("decoding netfac row", err)
	}
	f := pdb.Facility{
		ID:       row.ID,
		FacID:    row.FacID,
		Name:     row.Name,
		City:     row.City,
		Country:  row.Country,
		LocalASN: row.LocalASN,
		Status:   row.Status,
		Created:  s.client.parseTime(row.Created),
		Updated:  s.client.parseTime(row.Updated),
	}
	if err := s.store.UpsertFacility(ctx, row.NetID, f); err != nil {
		return time.Time{}, err
	}
	return f.Updated, nil
}

type apiPOC struct {
	ID      int64  `json:"id"`
	NetID   int64  `json:"net_id"`
	Role    string `json:"role"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	URL     string `json:"url"`
	Visible string `json:"visible"`
	Status  string `json:"status"`
	Updated string `json:"updated"`
}

func (s *Sync) applyPOC(ctx context.Context, raw json.RawMessage) (time.Time, error) {
	var row apiPOC
	if err := json.Unmarshal(raw, &row); err != nil {
		return time.Time{}, pdb.DataSourceError("decoding poc row", err)
	}
	c := pdb.Contact{
		ID:      row.ID,
		Role:    row.Role,
		Name:    row.Name,
		Email:   row.Email,
		Phone:   row.Phone,
		URL:     row.URL,
		Visible: row.Visible,
		Status:  row.Status,
	}
	if err := s.store.UpsertContact(ctx, row.NetID, c); err != nil {
		return time.Time{}, err
	}
	return s.client.parseTime(row.Updated), nil
}

func (s *Sync) normTime(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	if s.client.stripTZ {
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	}
	return t.UTC()
}

// Resources lists the sync resource names, for flag validation.
func Resources() []string {
	out := make([]string, len(resources))
	copy(out, resources)
	return out
}
