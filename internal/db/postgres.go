package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/route-beacon/neighgen/internal/pdb"
)

// Postgres backs the peering store with a pgx connection pool.
type Postgres struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// OpenPostgres connects, pings and bootstraps the schema.
func OpenPostgres(ctx context.Context, dsn string, logger *zap.Logger) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parsing DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, pdb.DataSourceError("pinging database", err)
	}

	p := &Postgres{pool: pool, logger: logger}
	if err := p.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return p, nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

const pgCreateMigrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

func (p *Postgres) migrate(ctx context.Context) error {
	conn, err := p.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquiring connection for migration: %w", err)
	}
	defer conn.Release()

	// Advisory lock so concurrent invocations don't race the bootstrap.
	const migrationLockID int64 = 0x6e6569676867656e // "neighgen" as int64
	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", migrationLockID); err != nil {
		return fmt.Errorf("acquiring migration lock: %w", err)
	}
	defer conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", migrationLockID)

	if _, err := conn.Exec(ctx, pgCreateMigrationsTable); err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var current int
	if err := conn.QueryRow(ctx, "SELECT COALESCE(MAX(version), 0) FROM schema_migrations").Scan(&current); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		tx, err := conn.Begin(ctx)
		if err != nil {
			return fmt.Errorf("beginning migration tx: %w", err)
		}
		if _, err := tx.Exec(ctx, m.pg); err != nil {
			tx.Rollback(ctx)
			return fmt.Errorf("applying migration %d: %w", m.version, err)
		}
		if _, err := tx.Exec(ctx, "INSERT INTO schema_migrations (version) VALUES ($1)", m.version); err != nil {
			tx.Rollback(ctx)
			return fmt.Errorf("recording migration %d: %w", m.version, err)
		}
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("committing migration %d: %w", m.version, err)
		}
		p.logger.Info("applied schema migration", zap.Int("version", m.version))
	}
	return nil
}

const pgSelectNetwork = `
SELECT id, asn, name, aka, website, irr_as_set, info_type,
       info_prefixes4, info_prefixes6, info_traffic, info_ratio, info_scope,
       info_ipv6, info_never_via_route_servers, ix_count, fac_count, notes,
       policy_url, policy_general, policy_locations, policy_ratio, policy_contracts,
       status, created, updated
FROM networks WHERE asn = $1`

func (p *Postgres) Network(ctx context.Context, asn uint32, depth pdb.LoadDepth) (*pdb.Network, error) {
	var n pdb.Network
	err := p.pool.QueryRow(ctx, pgSelectNetwork, int64(asn)).Scan(
		&n.ID, &n.ASN, &n.Name, &n.AKA, &n.Website, &n.IRRASSet, &n.InfoType,
		&n.InfoPrefixes4, &n.InfoPrefixes6, &n.InfoTraffic, &n.InfoRatio, &n.InfoScope,
		&n.InfoIPv6, &n.InfoNeverViaRouteServers, &n.IXCount, &n.FacCount, &n.Notes,
		&n.PolicyURL, &n.PolicyGeneral, &n.PolicyLocations, &n.PolicyRatio, &n.PolicyContracts,
		&n.Status, &n.Created, &n.Updated,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("AS%d: %w", asn, pdb.ErrNotFound)
	}
	if err != nil {
		return nil, pdb.DataSourceError("querying network", err)
	}

	if depth > pdb.DepthNetwork {
		if n.IXLANs, err = p.exchangeLANs(ctx, n.ID); err != nil {
			return nil, err
		}
		if n.Facilities, err = p.facilities(ctx, n.ID); err != nil {
			return nil, err
		}
		if n.Contacts, err = p.contacts(ctx, n.ID); err != nil {
			return nil, err
		}
	}
	return &n, nil
}

const pgSelectLANs = `
SELECT l.id, l.ix_id, l.name,
       x.ipaddr4, x.ipaddr6, x.speed, x.is_rs_peer, x.operational,
       x.status, x.created, x.updated
FROM netixlans x
JOIN ixlans l ON l.id = x.ixlan_id
WHERE x.net_id = $1
ORDER BY x.id`

func (p *Postgres) exchangeLANs(ctx context.Context, netID int64) ([]pdb.ExchangeLAN, error) {
	rows, err := p.pool.Query(ctx, pgSelectLANs, netID)
	if err != nil {
		return nil, pdb.DataSourceError("querying exchange LANs", err)
	}
	defer rows.Close()

	var lans []pdb.ExchangeLAN
	for rows.Next() {
		var lan pdb.ExchangeLAN
		if err := rows.Scan(
			&lan.ID, &lan.IXID, &lan.Name,
			&lan.Port.IPv4, &lan.Port.IPv6, &lan.Port.SpeedMbps,
			&lan.Port.RSPeer, &lan.Port.Operational,
			&lan.Port.Status, &lan.Port.Created, &lan.Port.Updated,
		); err != nil {
			return nil, pdb.DataSourceError("scanning exchange LAN", err)
		}
		lans = append(lans, lan)
	}
	if err := rows.Err(); err != nil {
		return nil, pdb.DataSourceError("iterating exchange LANs", err)
	}
	return lans, nil
}

func (p *Postgres) facilities(ctx context.Context, netID int64) ([]pdb.Facility, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, fac_id, name, city, country, local_asn, status, created, updated
		FROM netfacs WHERE net_id = $1 ORDER BY id`, netID)
	if err != nil {
		return nil, pdb.DataSourceError("querying facilities", err)
	}
	defer rows.Close()

	var facs []pdb.Facility
	for rows.Next() {
		var f pdb.Facility
		if err := rows.Scan(&f.ID, &f.FacID, &f.Name, &f.City, &f.Country,
			&f.LocalASN, &f.Status, &f.Created, &f.Updated); err != nil {
			return nil, pdb.DataSourceError("scanning facility", err)
		}
		facs = append(facs, f)
	}
	if err := rows.Err(); err != nil {
		return nil, pdb.DataSourceError("iterating facilities", err)
	}
	return facs, nil
}

func (p *Postgres) contacts(ctx context.Context, netID int64) ([]pdb.Contact, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, role, name, email, phone, url, visible, status
		FROM pocs WHERE net_id = $1 ORDER BY id`, netID)
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

const pgSelectMembers = `
SELECT x.net_id, x.asn, COALESCE(n.name, ''), x.ipaddr4, x.ipaddr6,
       x.speed, x.is_rs_peer, x.operational,
       COALESCE(n.info_prefixes4, 0), COALESCE(n.info_prefixes6, 0)
FROM netixlans x
LEFT JOIN networks n ON n.id = x.net_id
WHERE x.ixlan_id = $1
ORDER BY x.id`

func (p *Postgres) Members(ctx context.Context, lanID int64) ([]pdb.Member, error) {
	rows, err := p.pool.Query(ctx, pgSelectMembers, lanID)
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

const pgUpsertNetwork = `
INSERT INTO networks (id, asn, name, aka, website, irr_as_set, info_type,
    info_prefixes4, info_prefixes6, info_traffic, info_ratio, info_scope,
    info_ipv6, info_never_via_route_servers, ix_count, fac_count, notes,
    policy_url, policy_general, policy_locations, policy_ratio, policy_contracts,
    status, created, updated)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
    $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)
ON CONFLICT (id) DO UPDATE SET
    asn = EXCLUDED.asn, name = EXCLUDED.name, aka = EXCLUDED.aka,
    website = EXCLUDED.website, irr_as_set = EXCLUDED.irr_as_set,
    info_type = EXCLUDED.info_type,
    info_prefixes4 = EXCLUDED.info_prefixes4, info_prefixes6 = EXCLUDED.info_prefixes6,
    info_traffic = EXCLUDED.info_traffic, info_ratio = EXCLUDED.info_ratio,
    info_scope = EXCLUDED.info_scope, info_ipv6 = EXCLUDED.info_ipv6,
    info_never_via_route_servers = EXCLUDED.info_never_via_route_servers,
    ix_count = EXCLUDED.ix_count, fac_count = EXCLUDED.fac_count,
    notes = EXCLUDED.notes, policy_url = EXCLUDED.policy_url,
    policy_general = EXCLUDED.policy_general, policy_locations = EXCLUDED.policy_locations,
    policy_ratio = EXCLUDED.policy_ratio, policy_contracts = EXCLUDED.policy_contracts,
    status = EXCLUDED.status, created = EXCLUDED.created, updated = EXCLUDED.updated`

func (p *Postgres) UpsertNetwork(ctx context.Context, n *pdb.Network) error {
	_, err := p.pool.Exec(ctx, pgUpsertNetwork,
		n.ID, int64(n.ASN), n.Name, n.AKA, n.Website, n.IRRASSet, n.InfoType,
		n.InfoPrefixes4, n.InfoPrefixes6, n.InfoTraffic, n.InfoRatio, n.InfoScope,
		n.InfoIPv6, n.InfoNeverViaRouteServers, n.IXCount, n.FacCount, n.Notes,
		n.PolicyURL, n.PolicyGeneral, n.PolicyLocations, n.PolicyRatio, n.PolicyContracts,
		n.Status, n.Created, n.Updated,
	)
	if err != nil {
		return fmt.Errorf("upserting network %d: %w", n.ID, err)
	}
	return nil
}

func (p *Postgres) UpsertIXLAN(ctx context.Context, l IXLAN) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO ixlans (id, ix_id, name) VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET ix_id = EXCLUDED.ix_id, name = EXCLUDED.name`,
		l.ID, l.IXID, l.Name)
	if err != nil {
		return fmt.Errorf("upserting ixlan %d: %w", l.ID, err)
	}
	return nil
}

func (p *Postgres) UpsertNetIXLAN(ctx context.Context, x NetIXLAN) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO netixlans (id, net_id, ixlan_id, asn, ipaddr4, ipaddr6,
		    speed, is_rs_peer, operational, status, created, updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
		    net_id = EXCLUDED.net_id, ixlan_id = EXCLUDED.ixlan_id,
		    asn = EXCLUDED.asn, ipaddr4 = EXCLUDED.ipaddr4, ipaddr6 = EXCLUDED.ipaddr6,
		    speed = EXCLUDED.speed, is_rs_peer = EXCLUDED.is_rs_peer,
		    operational = EXCLUDED.operational, status = EXCLUDED.status,
		    created = EXCLUDED.created, updated = EXCLUDED.updated`,
		x.ID, x.NetID, x.IXLanID, int64(x.ASN), x.IPv4, x.IPv6,
		x.SpeedMbps, x.RSPeer, x.Operational, x.Status, x.Created, x.Updated)
	if err != nil {
		return fmt.Errorf("upserting netixlan %d: %w", x.ID, err)
	}
	return nil
}

func (p *Postgres) UpsertFacility(ctx context.Context, netID int64, f pdb.Facility) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO netfacs (id, net_id, fac_id, name, city, country, local_asn,
		    status, created, updated)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
		    net_id = EXCLUDED.net_id, fac_id = EXCLUDED.fac_id, name = EXCLUDED.name,
		    city = EXCLUDED.city, country = EXCLUDED.country,
		    local_asn = EXCLUDED.local_asn, status = EXCLUDED.status,
		    created = EXCLUDED.created, updated = EXCLUDED.updated`,
		f.ID, netID, f.FacID, f.Name, f.City, f.Country, int64(f.LocalASN),
		f.Status, f.Created, f.Updated)
	if err != nil {
		return fmt.Errorf("upserting facility %d: %w", f.ID, err)
	}
	return nil
}

func (p *Postgres) UpsertContact(ctx context.Context, netID int64, c pdb.Contact) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO pocs (id, net_id, role, name, email, phone, url, visible, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
		    net_id = EXCLUDED.net_id, role = EXCLUDED.role, name = EXCLUDED.name,
		    email = EXCLUDED.email, phone = EXCLUDED.phone, url = EXCLUDED.url,
		    visible = EXCLUDED.visible, status = EXCLUDED.status`,
		c.ID, netID, c.Role, c.Name, c.Email, c.Phone, c.URL, c.Visible, c.Status)
	if err != nil {
		return fmt.Errorf("upserting contact %d: %w", c.ID, err)
	}
	return nil
}

func (p *Postgres) Watermark(ctx context.Context, resource string) (time.Time, error) {
	var t time.Time
	err := p.pool.QueryRow(ctx,
		"SELECT last_sync FROM sync_state WHERE resource = $1", resource).Scan(&t)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, pdb.DataSourceError("querying sync watermark", err)
	}
	return t, nil
}

func (p *Postgres) SetWatermark(ctx context.Context, resource string, t time.Time) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO sync_state (resource, last_sync) VALUES ($1, $2)
		ON CONFLICT (resource) DO UPDATE SET last_sync = EXCLUDED.last_sync`,
		resource, t)
	if err != nil {
		return fmt.Errorf("storing sync watermark for %s: %w", resource, err)
	}
	return nil
}
