// Package storage holds the durable backends: the session store in YAML or
// SQLite form, and the YAML UI settings file.
package storage

import (
	"context"
	"errors"
	"fmt"

	"trackpace/internal/core/model"
)

// Store kinds accepted by Open.
const (
	KindYAML   = "yaml"
	KindSQLite = "sqlite"
)

// ErrUnknownStore is returned for a store kind Open does not know.
var ErrUnknownStore = errors.New("unknown store kind")

// SessionStore loads and saves the session blob.
type SessionStore interface {
	Load(ctx context.Context) (model.SessionState, bool, error)
	Save(ctx context.Context, state model.SessionState) error
	Path() string
	Close() error
}

// Open returns the session store of the given kind rooted at dir.
func Open(kind, dir string) (SessionStore, error) {
	switch kind {
	case KindYAML, "":
		return NewYAMLStore(dir), nil
	case KindSQLite:
		store, err := OpenSQLiteStore(dir)
		if err != nil {
			return nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("%q: %w", kind, ErrUnknownStore)
	}
}
