// Package storage persists timer snapshots in a durable key-value slot.
package storage

import (
	"errors"
	"fmt"

	"Countdowns/config"
)

// ErrNotFound is returned by Slot.Get when the key has never been written.
var ErrNotFound = errors.New("key not found")

// Slot is a durable key-value store holding opaque values.
type Slot interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Close() error
}

// Open returns the slot selected by the storage configuration.
func Open(cfg config.StorageConfig) (Slot, error) {
	switch cfg.Backend {
	case "", config.BackendFile:
		return NewFileSlot(cfg.Dir)
	case config.BackendSQLite:
		return NewSQLiteSlot(sqlitePath(cfg.Dir))
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
