package db

// Versioned schema statements per engine. Bootstrap runs every version
// above the recorded one inside a transaction, so adding a version here
// upgrades existing databases in place.

type migration struct {
	version int
	pg      string
	lite    string
}

var migrations = []migration{
	{
		version: 1,
		pg: `
CREATE TABLE IF NOT EXISTS networks (
    id            BIGINT PRIMARY KEY,
    asn           BIGINT NOT NULL UNIQUE,
    name          TEXT NOT NULL DEFAULT '',
    aka           TEXT NOT NULL DEFAULT '',
    website       TEXT NOT NULL DEFAULT '',
    irr_as_set    TEXT NOT NULL DEFAULT '',
    info_type     TEXT NOT NULL DEFAULT '',
    info_prefixes4 INTEGER NOT NULL DEFAULT 0,
    info_prefixes6 INTEGER NOT NULL DEFAULT 0,
    info_traffic  TEXT NOT NULL DEFAULT '',
    info_ratio    TEXT NOT NULL DEFAULT '',
    info_scope    TEXT NOT NULL DEFAULT '',
    info_ipv6     BOOLEAN NOT NULL DEFAULT FALSE,
    info_never_via_route_servers BOOLEAN NOT NULL DEFAULT FALSE,
    ix_count      INTEGER NOT NULL DEFAULT 0,
    fac_count     INTEGER NOT NULL DEFAULT 0,
    notes         TEXT NOT NULL DEFAULT '',
    policy_url    TEXT NOT NULL DEFAULT '',
    policy_general TEXT NOT NULL DEFAULT '',
    policy_locations TEXT NOT NULL DEFAULT '',
    policy_ratio  BOOLEAN NOT NULL DEFAULT FALSE,
    policy_contracts TEXT NOT NULL DEFAULT '',
    status        TEXT NOT NULL DEFAULT '',
    created       TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated       TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_networks_asn ON networks(asn);

CREATE TABLE IF NOT EXISTS ixlans (
    id    BIGINT PRIMARY KEY,
    ix_id BIGINT NOT NULL,
    name  TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS netixlans (
    id          BIGINT PRIMARY KEY,
    net_id      BIGINT NOT NULL,
    ixlan_id    BIGINT NOT NULL,
    asn         BIGINT NOT NULL,
    ipaddr4     TEXT NOT NULL DEFAULT '',
    ipaddr6     TEXT NOT NULL DEFAULT '',
    speed       INTEGER NOT NULL DEFAULT 0,
    is_rs_peer  BOOLEAN NOT NULL DEFAULT FALSE,
    operational BOOLEAN NOT NULL DEFAULT FALSE,
    status      TEXT NOT NULL DEFAULT '',
    created     TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated     TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_netixlans_net ON netixlans(net_id);
CREATE INDEX IF NOT EXISTS idx_netixlans_lan ON netixlans(ixlan_id);

CREATE TABLE IF NOT EXISTS netfacs (
    id        BIGINT PRIMARY KEY,
    net_id    BIGINT NOT NULL,
    fac_id    BIGINT NOT NULL,
    name      TEXT NOT NULL DEFAULT '',
    city      TEXT NOT NULL DEFAULT '',
    country   TEXT NOT NULL DEFAULT '',
    local_asn BIGINT NOT NULL DEFAULT 0,
    status    TEXT NOT NULL DEFAULT '',
    created   TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_netfacs_net ON netfacs(net_id);

CREATE TABLE IF NOT EXISTS pocs (
    id      BIGINT PRIMARY KEY,
    net_id  BIGINT NOT NULL,
    role    TEXT NOT NULL DEFAULT '',
    name    TEXT NOT NULL DEFAULT '',
    email   TEXT NOT NULL DEFAULT '',
    phone   TEXT NOT NULL DEFAULT '',
    url     TEXT NOT NULL DEFAULT '',
    visible TEXT NOT NULL DEFAULT '',
    status  TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_pocs_net ON pocs(net_id);

CREATE TABLE IF NOT EXISTS sync_state (
    resource  TEXT PRIMARY KEY,
    last_sync TIMESTAMPTZ NOT NULL
);`,
		lite: `
CREATE TABLE IF NOT EXISTS networks (
    id            INTEGER PRIMARY KEY,
    asn           INTEGER NOT NULL UNIQUE,
    name          TEXT NOT NULL DEFAULT '',
    aka           TEXT NOT NULL DEFAULT '',
    website       TEXT NOT NULL DEFAULT '',
    irr_as_set    TEXT NOT NULL DEFAULT '',
    info_type     TEXT NOT NULL DEFAULT '',
    info_prefixes4 INTEGER NOT NULL DEFAULT 0,
    info_prefixes6 INTEGER NOT NULL DEFAULT 0,
    info_traffic  TEXT NOT NULL DEFAULT '',
    info_ratio    TEXT NOT NULL DEFAULT '',
    info_scope    TEXT NOT NULL DEFAULT '',
    info_ipv6     INTEGER NOT NULL DEFAULT 0,
    info_never_via_route_servers INTEGER NOT NULL DEFAULT 0,
    ix_count      INTEGER NOT NULL DEFAULT 0,
    fac_count     INTEGER NOT NULL DEFAULT 0,
    notes         TEXT NOT NULL DEFAULT '',
    policy_url    TEXT NOT NULL DEFAULT '',
    policy_general TEXT NOT NULL DEFAULT '',
    policy_locations TEXT NOT NULL DEFAULT '',
    policy_ratio  INTEGER NOT NULL DEFAULT 0,
    policy_contracts TEXT NOT NULL DEFAULT '',
    status        TEXT NOT NULL DEFAULT '',
    created       TEXT NOT NULL DEFAULT '',
    updated       TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_networks_asn ON networks(asn);

CREATE TABLE IF NOT EXISTS ixlans (
    id    INTEGER PRIMARY KEY,
    ix_id INTEGER NOT NULL,
    name  TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS netixlans (
    id          INTEGER PRIMARY KEY,
    net_id      INTEGER NOT NULL,
    ixlan_id    INTEGER NOT NULL,
    asn         INTEGER NOT NULL,
    ipaddr4     TEXT NOT NULL DEFAULT '',
    ipaddr6     TEXT NOT NULL DEFAULT '',
    speed       INTEGER NOT NULL DEFAULT 0,
    is_rs_peer  INTEGER NOT NULL DEFAULT 0,
    operational INTEGER NOT NULL DEFAULT 0,
    status      TEXT NOT NULL DEFAULT '',
    created     TEXT NOT NULL DEFAULT '',
    updated     TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_netixlans_net ON netixlans(net_id);
CREATE INDEX IF NOT EXISTS idx_netixlans_lan ON netixlans(ixlan_id);

CREATE TABLE IF NOT EXISTS netfacs (
    id        INTEGER PRIMARY KEY,
    net_id    INTEGER NOT NULL,
    fac_id    INTEGER NOT NULL,
    name      TEXT NOT NULL DEFAULT '',
    city      TEXT NOT NULL DEFAULT '',
    country   TEXT NOT NULL DEFAULT '',
    local_asn INTEGER NOT NULL DEFAULT 0,
    status    TEXT NOT NULL DEFAULT '',
    created   TEXT NOT NULL DEFAULT '',
    updated   TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_netfacs_net ON netfacs(net_id);

CREATE TABLE IF NOT EXISTS pocs (
    id      INTEGER PRIMARY KEY,
    net_id  INTEGER NOT NULL,
    role    TEXT NOT NULL DEFAULT '',
    name    TEXT NOT NULL DEFAULT '',
    email   TEXT NOT NULL DEFAULT '',
    phone   TEXT NOT NULL DEFAULT '',
    url     TEXT NOT NULL DEFAULT '',
    visible TEXT NOT NULL DEFAULT '',
    status  TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_pocs_net ON pocs(net_id);

CREATE TABLE IF NOT EXISTS sync_state (
    resource  TEXT PRIMARY KEY,
    last_sync TEXT NOT NULL
);`,
	},
}
