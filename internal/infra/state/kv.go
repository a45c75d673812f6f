package state

import (
	"context"
	"errors"
)

// Key tetap untuk tiga record lokal, saling independen
const (
	KeySettings    = "laporKerjaSettings"
	KeyHistory     = "laporKerjaHistory"
	KeyLastSession = "laporKerjaLastSession"
)

// ErrNotFound key belum pernah ditulis
var ErrNotFound = errors.New("state: key not found")

// Store key-value lokal (sqlite atau memory)
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
