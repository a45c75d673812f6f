package analysis

import (
	"context"

	"github.com/bryanwahyu/laporkerja/internal/domain/media"
)

// Gateway port: satu panggilan oracle, hasil sudah berupa Verdict
type Gateway interface {
	Analyze(ctx context.Context, img media.EncodedImage) (Verdict, error)
}
