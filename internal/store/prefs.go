package store

import (
	"context"
	"log/slog"

	"fyne.io/fyne/v2"
	"github.com/tartampluch/go-babyage/internal/config"
)

// PrefsStore keeps the blobs in the Fyne application preferences, next to the rest of
// the desktop app state.
type PrefsStore struct {
	prefs fyne.Preferences
}

// NewPrefsStore wraps prefs, usually fyne.App.Preferences().
func NewPrefsStore(prefs fyne.Preferences) *PrefsStore {
	slog.Info(config.MsgStoreOpened,
		config.LogKeyComponent, config.CompStore,
		config.LogKeyStore, config.StorePrefs,
	)
	return &PrefsStore{prefs: prefs}
}

// Get treats an empty string as absent; the preferences API has no existence check and
// a valid blob is never empty.
func (p *PrefsStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	v := p.prefs.String(key)
	if v == "" {
		return nil, false, nil
	}
	return []byte(v), true, nil
}

func (p *PrefsStore) Set(ctx context.Context, key string, value []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.prefs.SetString(key, string(value))
	return nil
}

func (p *PrefsStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.prefs.RemoveValue(key)
	return nil
}

// Close is a no-op; the Fyne app flushes preferences on exit.
func (p *PrefsStore) Close() error { return nil }
