// Package db implements the local peering store on top of Postgres
// (pgx) or SQLite (modernc). Reads satisfy pdb.Store; writes are only
// used by the sync pipeline.
package db

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/route-beacon/neighgen/internal/config"
	"github.com/route-beacon/neighgen/internal/pdb"
)

// IXLAN is an exchange LAN row as stored.
type IXLAN struct {
	ID   int64
	IXID int64
	Name string
}

// NetIXLAN is one network's port on an exchange LAN as stored.
type NetIXLAN struct {
	ID          int64
	NetID       int64
	IXLanID     int64
	ASN         uint32
	IPv4        string
	IPv6        string
	SpeedMbps   int
	RSPeer      bool
	Operational bool
	Status      string
	Created     time.Time
	Updated     time.Time
}

// Store is the full contract over the local database: the read side the
// pipeline consumes plus the write side the sync uses.
type Store interface {
	pdb.Store

	UpsertNetwork(ctx context.Context, n *pdb.Network) error
	UpsertIXLAN(ctx context.Context, l IXLAN) error
	UpsertNetIXLAN(ctx context.Context, x NetIXLAN) error
	UpsertFacility(ctx context.Context, netID int64, f pdb.Facility) error
	UpsertContact(ctx context.Context, netID int64, c pdb.Contact) error

	// Watermark returns the stored high-water updated timestamp for a
	// sync resource, zero when the resource was never synced.
	Watermark(ctx context.Context, resource string) (time.Time, error)
	SetWatermark(ctx context.Context, resource string, t time.Time) error
}

// Open connects to the configured engine and bootstraps the schema.
func Open(ctx context.Context, cfg config.ORMConfig, logger *zap.Logger) (Store, error) {
	switch cfg.Database.Engine {
	case "postgres", "postgresql":
		return OpenPostgres(ctx, cfg.Database.DSN(), logger)
	case "sqlite", "sqlite3":
		return OpenSQLite(ctx, cfg.Database.Path, logger)
	default:
		return nil, fmt.Errorf("unsupported database engine %q", cfg.Database.Engine)
	}
}
