// Package store persists the infant settings and the achievement log as JSON blobs
// in a small key-value store.
package store

import (
	"context"
	"errors"
	"fmt"

	"fyne.io/fyne/v2"
	"github.com/tartampluch/go-babyage/internal/config"
)

// KV is the persistence contract shared by the SQLite and Preferences backends.
// Get reports ok=false for a key that was never written.
type KV interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Options selects and configures a backend.
type Options struct {
	Backend string // config.StoreSQLite or config.StorePrefs
	DBPath  string
	Prefs   fyne.Preferences
}

// ErrUnknownBackend is returned by Open for backends other than sqlite and prefs.
var ErrUnknownBackend = errors.New(config.ErrStoreUnknown)

// Open returns the backend named by opts.Backend.
func Open(ctx context.Context, opts Options) (KV, error) {
	switch opts.Backend {
	case config.StoreSQLite, "":
		st, err := OpenSQLite(ctx, opts.DBPath)
		if err != nil {
			return nil, err
		}
		return st, nil
	case config.StorePrefs:
		if opts.Prefs == nil {
			return nil, fmt.Errorf("%s: %s", config.ErrStoreOpen, config.StorePrefs)
		}
		return NewPrefsStore(opts.Prefs), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
}

