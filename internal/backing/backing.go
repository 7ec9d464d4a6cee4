// Package backing provides durable storage for the Domain State. A
// backing holds exactly one snapshot; every write replaces the whole
// document so a torn write can never leave a partially-patched record.
// Read failures of any kind degrade to the default state and are never
// surfaced to callers as errors.
package backing

import (
	"fmt"

	"github.com/arif-itm/FarmProof/internal/types"
)

// Backing makes Domain State survive process restarts.
type Backing interface {
	// Load returns the persisted snapshot. A missing, unreadable, or
	// malformed snapshot yields the default Domain State and a nil error.
	Load() (types.DomainState, error)
	// Save replaces the persisted snapshot wholesale.
	Save(types.DomainState) error
	// Close releases any underlying resources.
	Close() error
}

// Driver identifies a backing implementation.
type Driver string

const (
	DriverFile   Driver = "file"
	DriverSQLite Driver = "sqlite"
	DriverMemory Driver = "memory"
)

// Open selects a Backing implementation by driver name. Path is the
// snapshot file for the file driver and the database file for sqlite;
// the memory driver ignores it.
func Open(driver Driver, path string) (Backing, error) {
	switch driver {
	case DriverFile, "":
		return NewFile(path), nil
	case DriverSQLite:
		return NewSQLite(path)
	case DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown backing driver %q", driver)
	}
}
