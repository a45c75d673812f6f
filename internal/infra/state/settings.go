package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/bryanwahyu/laporkerja/internal/domain/settings"
)

// SettingsRepo settings singleton di atas Store
type SettingsRepo struct {
	store  Store
	logger *zap.Logger
}

func NewSettingsRepo(store Store, logger *zap.Logger) *SettingsRepo {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsRepo{store: store, logger: logger}
}

// Load default kosong kalau belum ada atau rusak
func (r *SettingsRepo) Load(ctx context.Context) (settings.Settings, error) {
	raw, err := r.store.Get(ctx, KeySettings)
	if errors.Is(err, ErrNotFound) {
		return settings.Settings{}, nil
	}
	if err != nil {
		return settings.Settings{}, fmt.Errorf("read settings: %w", err)
	}
	var s settings.Settings
	if err := json.Unmarshal(raw, &s); err != nil {
		r.logger.Warn("settings record corrupt, using defaults", zap.Error(err))
		return settings.Settings{}, nil
	}
	return s, nil
}

func (r *SettingsRepo) Save(ctx context.Context, s settings.Settings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	return r.store.Put(ctx, KeySettings, raw)
}
