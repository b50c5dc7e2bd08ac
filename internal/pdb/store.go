package pdb

import "context"

// LoadDepth controls how much of a network's related data a lookup
// pulls in. Depth 0 is the bare network row; anything above also loads
// the netixlan, netfac and poc sets.
type LoadDepth int

const (
	DepthNetwork LoadDepth = 0
	DepthFull    LoadDepth = 3
)

// Store is the narrow read contract over the local peering database.
// Implementations live in internal/db; the transformation pipeline only
// ever sees this interface, so the backing engine is swappable.
type Store interface {
	// Network returns the network owning asn, loading related sets per
	// depth. Returns ErrNotFound when no row matches; driver failures
	// wrap ErrDataSource.
	Network(ctx context.Context, asn uint32, depth LoadDepth) (*Network, error)

	// Members lists every port on an exchange LAN in store order,
	// including the queried network's own.
	Members(ctx context.Context, lanID int64) ([]Member, error)

	Close() error
}
