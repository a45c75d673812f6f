package ai

import (
	"context"

	"github.com/bryanwahyu/laporkerja/internal/domain/media"
)

// Client port untuk vision oracle. Balikan berupa JSON mentah,
// normalisasi dikerjakan di application layer.
type Client interface {
	Analyze(ctx context.Context, img media.EncodedImage) (string, error)
}
