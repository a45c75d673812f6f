package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/bryanwahyu/laporkerja/internal/domain/ai"
	domain "github.com/bryanwahyu/laporkerja/internal/domain/analysis"
	"github.com/bryanwahyu/laporkerja/internal/domain/media"
)

// Service gateway ke oracle: satu panggilan, hasil dinormalisasi ke Verdict
type Service struct {
	client ai.Client
	logger *zap.Logger
}

func NewService(client ai.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{client: client, logger: logger}
}

// reply bentuk mentah JSON dari oracle. Pointer supaya field hilang bisa dideteksi.
type reply struct {
	IsRejected           *bool    `json:"isRejected"`
	RejectionReason      *string  `json:"rejectionReason"`
	CompletionPercentage *float64 `json:"completionPercentage"`
	Summary              *string  `json:"summary"`
	Details              []string `json:"details"`
	Recommendations      *string  `json:"recommendations"`
}

// Analyze panggil oracle sekali. Semua kegagalan (transport, kuota,
// balasan rusak) dibungkus ai.ErrUnreachable.
func (s *Service) Analyze(ctx context.Context, img media.EncodedImage) (domain.Verdict, error) {
	if img.MediaType() == "" {
		return nil, fmt.Errorf("%w: image is not a data url", ai.ErrUnreachable)
	}

	raw, err := s.client.Analyze(ctx, img)
	if err != nil {
		s.logger.Warn("oracle call failed", zap.Error(err))
		return nil, unreachable(err)
	}

	v, err := Normalize(raw)
	if err != nil {
		s.logger.Warn("oracle reply malformed", zap.Error(err), zap.Int("reply_len", len(raw)))
		return nil, unreachable(err)
	}
	return v, nil
}

func unreachable(err error) error {
	if errors.Is(err, ai.ErrUnreachable) {
		return err
	}
	return fmt.Errorf("%w: %w", ai.ErrUnreachable, err)
}

var errMalformed = errors.New("malformed oracle reply")

// Normalize ubah JSON mentah jadi Verdict. Field wajib hilang = error,
// tidak ada nilai default yang dikarang.
func Normalize(raw string) (domain.Verdict, error) {
	var r reply
	if err := json.Unmarshal([]byte(stripFence(raw)), &r); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformed, err)
	}
	if r.IsRejected == nil {
		return nil, fmt.Errorf("%w: isRejected missing", errMalformed)
	}

	if *r.IsRejected {
		reason := ""
		if r.RejectionReason != nil {
			reason = strings.TrimSpace(*r.RejectionReason)
		}
		return domain.Rejected{Reason: reason}, nil
	}

	switch {
	case r.CompletionPercentage == nil:
		return nil, fmt.Errorf("%w: completionPercentage missing", errMalformed)
	case r.Summary == nil:
		return nil, fmt.Errorf("%w: summary missing", errMalformed)
	case r.Recommendations == nil:
		return nil, fmt.Errorf("%w: recommendations missing", errMalformed)
	case len(r.Details) != domain.DetailCount:
		return nil, fmt.Errorf("%w: want %d details, got %d", errMalformed, domain.DetailCount, len(r.Details))
	}

	pct := *r.CompletionPercentage
	if math.IsNaN(pct) || pct < 0 || pct > 100 {
		return nil, fmt.Errorf("%w: completionPercentage %v out of range", errMalformed, pct)
	}

	details := make([]string, len(r.Details))
	for i, d := range r.Details {
		details[i] = strings.TrimSpace(d)
	}

	return domain.Accepted{
		CompletionPercentage: pct,
		Summary:              strings.TrimSpace(*r.Summary),
		Details:              details,
		Recommendation:       strings.TrimSpace(*r.Recommendations),
	}, nil
}

// beberapa model tetap bungkus JSON pakai ```json walau sudah dilarang
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
