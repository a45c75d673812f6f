package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/bryanwahyu/laporkerja/internal/domain/reports"
)

// HistoryRepo riwayat laporan di atas Store, dibatasi limit (FIFO)
type HistoryRepo struct {
	store  Store
	limit  int
	logger *zap.Logger
	mu     sync.Mutex
}

func NewHistoryRepo(store Store, limit int, logger *zap.Logger) *HistoryRepo {
	if limit <= 0 {
		limit = reports.DefaultHistoryLimit
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HistoryRepo{store: store, limit: limit, logger: logger}
}

// List riwayat terbaru di depan. Data rusak dianggap kosong.
func (h *HistoryRepo) List(ctx context.Context) ([]reports.HistoryItem, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.load(ctx)
}

func (h *HistoryRepo) load(ctx context.Context) ([]reports.HistoryItem, error) {
	raw, err := h.store.Get(ctx, KeyHistory)
	if errors.Is(err, ErrNotFound) {
		return []reports.HistoryItem{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	var items []reports.HistoryItem
	if err := json.Unmarshal(raw, &items); err != nil {
		h.logger.Warn("history record corrupt, treated as empty", zap.Error(err))
		return []reports.HistoryItem{}, nil
	}
	return items, nil
}

func (h *HistoryRepo) save(ctx context.Context, items []reports.HistoryItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	return h.store.Put(ctx, KeyHistory, raw)
}

// Append taruh item di depan, buang yang paling lama kalau lewat limit
func (h *HistoryRepo) Append(ctx context.Context, item reports.HistoryItem) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	items, err := h.load(ctx)
	if err != nil {
		return err
	}
	items = append([]reports.HistoryItem{item}, items...)
	if len(items) > h.limit {
		items = items[:h.limit]
	}
	return h.save(ctx, items)
}

// Delete hapus item berdasarkan id
func (h *HistoryRepo) Delete(ctx context.Context, id string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	items, err := h.load(ctx)
	if err != nil {
		return err
	}
	kept := items[:0]
	for _, it := range items {
		if it.ID != id {
			kept = append(kept, it)
		}
	}
	if len(kept) == len(items) {
		return reports.ErrHistoryNotFound
	}
	return h.save(ctx, kept)
}
