package store

import (
	"fmt"
	"log/slog"

	"github.com/tartampluch/go-babyage/internal/config"
	"github.com/zalando/go-keyring"
)

// LookupPassword reads the password of a protected vCard URL from the OS keyring.
func LookupPassword(user string) (string, error) {
	if user == "" {
		return "", nil
	}
	pass, err := keyring.Get(config.KeyringService, user)
	if err != nil {
		slog.Warn(config.MsgPassFail,
			config.LogKeyComponent, config.CompStore,
			config.LogKeyUser, user,
			config.LogKeyError, err,
		)
		return "", fmt.Errorf("%s: %w", config.ErrCredentialsNotFound, err)
	}
	return pass, nil
}

// SavePassword stores the password of user in the OS keyring.
func SavePassword(user, pass string) error {
	return keyring.Set(config.KeyringService, user, pass)
}
