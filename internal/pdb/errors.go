package pdb

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the requested ASN has no row in the store.
var ErrNotFound = errors.New("network not found")

// ErrDataSource wraps store connectivity and query failures. The tool
// never retries: a data-source failure aborts the invocation.
var ErrDataSource = errors.New("data source failure")

// NotFound reports whether err means the ASN is absent from the store.
func NotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// DataSourceError wraps a driver error into the taxonomy, keeping the
// original cause reachable through errors.Is/As.
func DataSourceError(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrDataSource, op, err)
}
