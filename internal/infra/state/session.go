package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/bryanwahyu/laporkerja/internal/domain/reports"
)

// SessionRepo snapshot sesi terakhir di atas Store
type SessionRepo struct {
	store  Store
	logger *zap.Logger
}

func NewSessionRepo(store Store, logger *zap.Logger) *SessionRepo {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionRepo{store: store, logger: logger}
}

// Load balikin nil kalau belum ada atau rusak
func (s *SessionRepo) Load(ctx context.Context) (*reports.Snapshot, error) {
	raw, err := s.store.Get(ctx, KeyLastSession)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	var snap reports.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil || snap.Report.ID == "" {
		s.logger.Warn("session snapshot corrupt, treated as absent", zap.Error(err))
		return nil, nil
	}
	return &snap, nil
}

func (s *SessionRepo) Save(ctx context.Context, snap reports.Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return s.store.Put(ctx, KeyLastSession, raw)
}

func (s *SessionRepo) Clear(ctx context.Context) error {
	return s.store.Delete(ctx, KeyLastSession)
}
