package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/route-beacon/neighgen/internal/pdb"
)

// SQLite backs the peering store with a single database file, the
// default zero-infrastructure engine.
type SQLite struct {
	db     *sql.DB
	logger *zap.Logger
}

// OpenSQLite opens (creating parent directories and the file as needed)
// and bootstraps the schema. Timestamps are stored as RFC 3339 text.
func OpenSQLite(ctx context.Context, path string, logger *zap.Logger) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory %s: %w", dir, err)
		}
	}

	sdb, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database %s: %w", path, err)
	}
	// A file-backed sqlite handle does not tolerate concurrent writers.
	sdb.SetMaxOpenConns(1)

	if err := sdb.PingContext(ctx); err != nil {
		sdb.Close()
		return nil, pdb.DataSourceError("pinging database", err)
	}

	s := &SQLite{db: sdb, logger: logger}
	if err := s.migrate(ctx); err != nil {
		sdb.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
		    version INTEGER PRIMARY KEY,
		    applied_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`); err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var current int
	if err := s.db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("beginning migration tx: %w", err)
		}
		if _, err := tx.ExecContext(ctx, m.lite); err != nil {
			tx.Rollback()
			return fmt.Errorf("applying migration %d: %w", m.version, err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO schema_migrations (version) VALUES (?)", m.version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", m.version, err)
		}
		s.logger.Info("applied schema migration", zap.Int("version", m.version))
	}
	return nil
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

const liteSelectNetwork = `
SELECT id, asn, name, aka, website, irr_as_set, info_type,
       info_prefixes4, info_prefixes6, info_traffic, info_ratio, info_scope,
       info_ipv6, info_never_via_route_servers, ix_count, fac_count, notes,
       policy_url, policy_general, policy_locations, policy_ratio, policy_contracts,
       status, created, updated
FROM networks WHERE asn = ?`

func (s *SQLite) Network(ctx context.Context, asn uint32, depth pdb.LoadDepth) (*pdb.Network, error) {
	var (
		n                pdb.Network
		created, updated string
	)
	err := s.db.QueryRowContext(ctx, liteSelectNetwork, int64(asn)).Scan(
		&n.ID, &n.ASN, &n.Name, &n.AKA, &n.Website, &n.IRRASSet, &n.InfoType,
		&n.InfoPrefixes4, &n.InfoPrefixes6, &n.InfoTraffic, &n.InfoRatio, &n.InfoScope,
		&n.InfoIPv6, &n.InfoNeverViaRouteServers, &n.IXCount, &n.FacCount, &n.Notes,
		&n.PolicyURL, &n.PolicyGeneral, &n.PolicyLocations, &n.PolicyRatio, &n.PolicyContracts,
		&n.Status, &created, &updated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("AS%d: %w", asn, pdb.ErrNotFound)
	}
	if err != nil {
		return nil, pdb.DataSourceError("querying network", err)
	}
	n.Created, n.Updated = parseTime(created), parseTime(updated)

	if depth > pdb.DepthNetwork {
		if n.IXLANs, err = s.exchangeLANs(ctx, n.ID); err != nil {
			return nil, err
		}
		if n.Facilities, err = s.facilities(ctx, n.ID); err != nil {
			return nil, err
		}
		if n.Contacts, err = s.contacts(ctx, n.ID); err != nil {
			return nil, err
		}
	}
	return &n, nil
}

const liteSelectLANs = `
SELECT l.id, l.ix_id, l.name,
       x.ipaddr4, x.ipaddr6, x.speed, x.is_rs_peer, x.operational,
       x.status, x.created, x.updated
FROM netixlans x
JOIN ixlans l ON l.id = x.ixlan_id
WHERE x.net_id = ?
ORDER BY x.id`

func (s *SQLite) exchangeLANs(ctx context.Context, netID int64) ([]pdb.ExchangeLAN, error) {
	rows, err := s.db.QueryContext(ctx, liteSelectLANs, netID)
	if err != nil {
		return nil, pdb.DataSourceError("querying exchange LANs", err)
	}
	defer rows.Close()

	var lans []pdb.ExchangeLAN
	for rows.Next() {
		var (
			lan              pdb.ExchangeLAN
			created, updated string
		)
		if err := rows.Scan(
			&lan.ID, &lan.IXID, &lan.Name,
			&lan.Port.IPv4, &lan.Port.IPv6, &lan.Port.SpeedMbps,
			&lan.Port.RSPeer, &lan.Port.Operational,
			&lan.Port.Status, &created, &updated,
		); err != nil {
			return nil, pdb.DataSourceError("scanning exchange LAN", err)
		}
		lan.Port.Created, lan.Port.Updated = parseTime(created), parseTime(updated)
		lans = append(lans, lan)
	}
	if err := rows.Err(); err != nil {
		return nil, pdb.DataSourceError("iterating exchange LANs", err)
	}
	return lans, nil
}

func (s *SQLite) facilities(ctx context.Context, netID int64) ([]pdb.Facility, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, fac_id, name, city, country, local_asn, status, created, updated
		FROM netfacs WHERE net_id = ? ORDER BY id`, netID)
	if err != nil {
		return nil, pdb.DataSourceError("querying facilities", err)
	}
	defer rows.Close()

	var facs []pdb.Facility
	for rows.Next() {
		var (
			f                pdb.Facility
			created, updated string
		)
		if err := rows.Scan(&f.ID, &f.FacID, &f.Name, &f.City, &f.Country,
			&f.LocalASN, &f.Status, &created, &updated); err != nil {
			return nil, pdb.DataSourceError("scanning facility", err)
		}
		f.Created, f.Updated = parseTime(created), parseTime(updated)
		facs = append(facs, f)
	}
	if err := rows.Err(); err != nil {
		return nil, pdb.DataSourceError("iterating facilities", err)
	}
	return facs, nil
}

func (s *SQLite) contacts(ctx context.Context, netID int64) ([]pdb.Contact, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, role, name, email, phone, url, visible, status
		FROM pocs WHERE net_id = ? ORDER BY id`, netID)
	if err != nil {
		return nil, pdb.DataSourceError("querying contacts", err)
	}
	defer rows.Close()

	var pocs []pdb.Contact
	for rows.Next() {
		var c pdb.Contact
		if err := rows.Scan(&c.ID, &c.Role, &c.Name, &c.Email, &c.Phone,
			&c.URL, &c.Visible, &c.Status); err != nil {
			return nil, pdb.DataSourceError("scanning contact", err)
		}
		pocs = append(pocs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, pdb.DataSourceError("iterating contacts", err)
	}
	return pocs, nil
}

const liteSelectMembers = `
SELECT x.net_id, x.asn, COALESCE(n.name, ''), x.ipaddr4, x.ipaddr6,
       x.speed, x.is_rs_peer, x.operational,
       COALESCE(n.info_prefixes4, 0), COALESCE(n.info_prefixes6, 0)
FROM netixlans x
LEFT JOIN networks n ON n.id = x.net_id
WHERE x.ixlan_id = ?
ORDER BY x.id`

func (s *SQLite) Members(ctx context.Context, lanID int64) ([]pdb.Member, error) {
	rows, err := s.db.QueryContext(ctx, liteSelectMembers, lanID)
	if err != nil {
		return nil, pdb.DataSourceError("querying LAN members", err)
	}
	defer rows.Close()

	var members []pdb.Member
	for rows.Next() {
		var m pdb.Member
		if err := rows.Scan(&m.NetworkID, &m.ASN, &m.Name, &m.IPv4, &m.IPv6,
			&m.SpeedMbps, &m.RSPeer, &m.Operational, &m.Prefixes4, &m.Prefixes6); err != nil {
			return nil, pdb.DataSourceError("scanning LAN member", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, pdb.DataSourceError("iterating LAN members", err)
	}
	return members, nil
}

const liteUpsertNetwork = `
INSERT INTO networks (id, asn, name, aka, website, irr_as_set, info_type,
    info_prefixes4, info_prefixes6, info_traffic, info_ratio, info_scope,
    info_ipv6, info_never_via_route_servers, ix_count, fac_count, notes,
    policy_url, policy_general, policy_locations, policy_ratio, policy_contracts,
    status, created, updated)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    asn = excluded.asn, name = excluded.name, aka = excluded.aka,
    website = excluded.website, irr_as_set = excluded.irr_as_set,
    info_type = excluded.info_type,
    info_prefixes4 = excluded.info_prefixes4, info_prefixes6 = excluded.info_prefixes6,
    info_traffic = excluded.info_traffic, info_ratio = excluded.info_ratio,
    info_scope = excluded.info_scope, info_ipv6 = excluded.info_ipv6,
    info_never_via_route_servers = excluded.info_never_via_route_servers,
    ix_count = excluded.ix_count, fac_count = excluded.fac_count,
    notes = excluded.notes, policy_url = excluded.policy_url,
    policy_general = excluded.policy_general, policy_locations = excluded.policy_locations,
    policy_ratio = excluded.policy_ratio, policy_contracts = excluded.policy_contracts,
    status = excluded.status, created = excluded.created, updated = excluded.updated`

func (s *SQLite) UpsertNetwork(ctx context.Context, n *pdb.Network) error {
	_, err := s.db.ExecContext(ctx, liteUpsertNetwork,
		n.ID, int64(n.ASN), n.Name, n.AKA, n.Website, n.IRRASSet, n.InfoType,
		n.InfoPrefixes4, n.InfoPrefixes6, n.InfoTraffic, n.InfoRatio, n.InfoScope,
		n.InfoIPv6, n.InfoNeverViaRouteServers, n.IXCount, n.FacCount, n.Notes,
		n.PolicyURL, n.PolicyGeneral, n.PolicyLocations, n.PolicyRatio, n.PolicyContracts,
		n.Status, fmtTime(n.Created), fmtTime(n.Updated),
	)
	if err != nil {
		return fmt.Errorf("upserting network %d: %w", n.ID, err)
	}
	return nil
}

func (s *SQLite) UpsertIXLAN(ctx context.Context, l IXLAN) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ixlans (id, ix_id, name) VALUES (?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET ix_id = excluded.ix_id, name = excluded.name`,
		l.ID, l.IXID, l.Name)
	if err != nil {
		return fmt.Errorf("upserting ixlan %d: %w", l.ID, err)
	}
	return nil
}

func (s *SQLite) UpsertNetIXLAN(ctx context.Context, x NetIXLAN) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO netixlans (id, net_id, ixlan_id, asn, ipaddr4, ipaddr6,
		    speed, is_rs_peer, operational, status, created, updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
		    net_id = excluded.net_id, ixlan_id = excluded.ixlan_id,
		    asn = excluded.asn, ipaddr4 = excluded.ipaddr4, ipaddr6 = excluded.ipaddr6,
		    speed = excluded.speed, is_rs_peer = excluded.is_rs_peer,
		    operational = excluded.operational, status = excluded.status,
		    created = excluded.created, updated = excluded.updated`,
		x.ID, x.NetID, x.IXLanID, int64(x.ASN), x.IPv4, x.IPv6,
		x.SpeedMbps, x.RSPeer, x.Operational, x.Status, fmtTime(x.Created), fmtTime(x.Updated))
	if err != nil {
		return fmt.Errorf("upserting netixlan %d: %w", x.ID, err)
	}
	return nil
}

func (s *SQLite) UpsertFacility(ctx context.Context, netID int64, f pdb.Facility) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO netfacs (id, net_id, fac_id, name, city, country, local_asn,
		    status, created, updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
		    net_id = excluded.net_id, fac_id = excluded.fac_id, name = excluded.name,
		    city = excluded.city, country = excluded.country,
		    local_asn = excluded.local_asn, status = excluded.status,
		    created = excluded.created, updated = excluded.updated`,
		f.ID, netID, f.FacID, f.Name, f.City, f.Country, int64(f.LocalASN),
		f.Status, fmtTime(f.Created), fmtTime(f.Updated))
	if err != nil {
		return fmt.Errorf("upserting facility %d: %w", f.ID, err)
	}
	return nil
}

func (s *SQLite) UpsertContact(ctx context.Context, netID int64, c pdb.Contact) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pocs (id, net_id, role, name, email, phone, url, visible, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
		    net_id = excluded.net_id, role = excluded.role, name = excluded.name,
		    email = excluded.email, phone = excluded.phone, url = excluded.url,
		    visible = excluded.visible, status = excluded.status`,
		c.ID, netID, c.Role, c.Name, c.Email, c.Phone, c.URL, c.Visible, c.Status)
	if err != nil {
		return fmt.Errorf("upserting contact %d: %w", c.ID, err)
	}
	return nil
}

func (s *SQLite) Watermark(ctx context.Context, resource string) (time.Time, error) {
	var raw string
	err := s.db.QueryRowContext(ctx,
		"SELECT last_sync FROM sync_state WHERE resource = ?", resource).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, pdb.DataSourceError("querying sync watermark", err)
	}
	return parseTime(raw), nil
}

func (s *SQLite) SetWatermark(ctx context.Context, resource string, t time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sync_state (resource, last_sync) VALUES (?, ?)
		ON CONFLICT (resource) DO UPDATE SET last_sync = excluded.last_sync`,
		resource, fmtTime(t))
	if err != nil {
		return fmt.Errorf("storing sync watermark for %s: %w", resource, err)
	}
	return nil
}
