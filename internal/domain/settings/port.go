package settings

import "context"

// Repository port. Load balikin default kosong kalau belum ada / rusak.
type Repository interface {
	Load(ctx context.Context) (Settings, error)
	Save(ctx context.Context, s Settings) error
}
