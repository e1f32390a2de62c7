package store

import (
	"context"
	"log/slog"
	"sync"

	"github.com/tartampluch/go-babyage/internal/config"
	"github.com/tartampluch/go-babyage/internal/engine"
)

// Repository maps the engine types onto their persisted JSON blobs.
type Repository struct {
	kv KV
	mu sync.Mutex // serializes read-modify-write of the achievement log
}

// NewRepository wraps kv.
func NewRepository(kv KV) *Repository {
	return &Repository{kv: kv}
}

// LoadSettings returns the stored settings. A fresh store yields empty settings with
// the default age format.
func (r *Repository) LoadSettings(ctx context.Context) (engine.AgeSettings, error) {
	data, ok, err := r.kv.Get(ctx, config.KeySettings)
	if err != nil {
		return engine.AgeSettings{}, err
	}
	if !ok {
		return engine.AgeSettings{AgeFormat: engine.FormatYMD}, nil
	}
	return engine.DecodeSettings(data)
}

func (r *Repository) SaveSettings(ctx context.Context, s engine.AgeSettings) error {
	data, err := engine.EncodeSettings(s)
	if err != nil {
		return err
	}
	return r.kv.Set(ctx, config.KeySettings, data)
}

// LoadAchievements returns the stored log, empty on a fresh store.
func (r *Repository) LoadAchievements(ctx context.Context) (engine.AchievementLog, error) {
	data, ok, err := r.kv.Get(ctx, config.KeyAchievements)
	if err != nil {
		return nil, err
	}
	if !ok {
		return engine.AchievementLog{}, nil
	}
	return engine.DecodeAchievements(data)
}

func (r *Repository) SaveAchievements(ctx context.Context, log engine.AchievementLog) error {
	data, err := engine.EncodeAchievements(log)
	if err != nil {
		return err
	}
	return r.kv.Set(ctx, config.KeyAchievements, data)
}

// AddAchievement appends a to the entries of day and persists the log.
func (r *Repository) AddAchievement(ctx context.Context, day engine.CalendarDate, a engine.Achievement) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	log, err := r.LoadAchievements(ctx)
	if err != nil {
		return err
	}
	if err := log.Add(day, a); err != nil {
		return err
	}
	if err := r.SaveAchievements(ctx, log); err != nil {
		return err
	}

	slog.Debug(config.MsgAchievementAdd,
		config.LogKeyComponent, config.CompStore,
		config.LogKeyKey, day.Key(),
		config.LogKeyCount, len(log[day.Key()]),
	)
	return nil
}

// RemoveAchievements drops every entry of day and reports whether any existed. The
// stored log is deleted once its last day is gone.
func (r *Repository) RemoveAchievements(ctx context.Context, day engine.CalendarDate) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	log, err := r.LoadAchievements(ctx)
	if err != nil {
		return false, err
	}
	if !log.Remove(day) {
		return false, nil
	}

	if len(log) == 0 {
		err = r.kv.Delete(ctx, config.KeyAchievements)
	} else {
		err = r.SaveAchievements(ctx, log)
	}
	if err != nil {
		return false, err
	}

	slog.Debug(config.MsgAchievementDel,
		config.LogKeyComponent, config.CompStore,
		config.LogKeyKey, day.Key(),
	)
	return true, nil
}
