package bus

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/bryanwahyu/laporkerja/internal/domain/reports"
)

// DefaultSubject subject event laporan final
const DefaultSubject = "laporkerja.report.finalized"

type Client struct{ nc *nats.Conn }

func Connect(url string) (*Client, error) {
	nc, err := nats.Connect(url,
		nats.Name("laporkerja"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.Timeout(5*time.Second),
	)
	if err != nil {
		return nil, err
	}
	return &Client{nc: nc}, nil
}

func (c *Client) Close() {
	if c.nc != nil {
		_ = c.nc.Drain()
	}
}

func (c *Client) Conn() *nats.Conn { return c.nc }

func (c *Client) PublishJSON(subject string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.nc.Publish(subject, b)
}

// jsonPublisher subset Client yang dipakai Publisher
type jsonPublisher interface {
	PublishJSON(subject string, v any) error
}

// FinalizedEvent payload event, tanpa gambar supaya pesan tetap kecil
type FinalizedEvent struct {
	ReportID             string    `json:"reportId"`
	CompletionPercentage float64   `json:"completionPercentage"`
	Summary              string    `json:"summary"`
	Details              []string  `json:"details"`
	Recommendation       string    `json:"recommendations"`
	Timestamp            time.Time `json:"timestamp"`
}

func newFinalizedEvent(r reports.Report) FinalizedEvent {
	return FinalizedEvent{
		ReportID:             string(r.ID),
		CompletionPercentage: r.CompletionPercentage,
		Summary:              r.Summary,
		Details:              r.Details,
		Recommendation:       r.Recommendation,
		Timestamp:            r.Timestamp,
	}
}

// Publisher reports.Listener yang meneruskan laporan final ke NATS.
// Gagal publish hanya di-log.
type Publisher struct {
	bus     jsonPublisher
	subject string
	logger  *zap.Logger
}

func NewPublisher(c *Client, subject string, logger *zap.Logger) *Publisher {
	return newPublisher(c, subject, logger)
}

func newPublisher(p jsonPublisher, subject string, logger *zap.Logger) *Publisher {
	if subject == "" {
		subject = DefaultSubject
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{bus: p, subject: subject, logger: logger}
}

func (p *Publisher) ReportFinalized(_ context.Context, r reports.Report) {
	if err := p.bus.PublishJSON(p.subject, newFinalizedEvent(r)); err != nil {
		p.logger.Warn("publish report event failed",
			zap.String("subject", p.subject),
			zap.String("report_id", string(r.ID)),
			zap.Error(err),
		)
	}
}
