package bus

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/bryanwahyu/laporkerja/internal/domain/reports"
)

type recordingBus struct {
	subject string
	body    []byte
	err     error
}

func (b *recordingBus) PublishJSON(subject string, v any) error {
	if b.err != nil {
		return b.err
	}
	b.subject = subject
	var err error
	b.body, err = json.Marshal(v)
	return err
}

func TestPublisherSendsEventWithoutImage(t *testing.T) {
	rb := &recordingBus{}
	p := newPublisher(rb, "", zaptest.NewLogger(t))

	p.ReportFinalized(t.Context(), reports.Report{
		ID:                   "abc",
		Image:                "data:image/jpeg;base64,AAAA",
		CompletionPercentage: 80,
		Summary:              "ok",
		Details:              []string{"a", "b", "c"},
		Recommendation:       "lanjut",
		Timestamp:            time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	})

	assert.Equal(t, DefaultSubject, rb.subject)
	var got map[string]any
	require.NoError(t, json.Unmarshal(rb.body, &got))
	assert.Equal(t, "abc", got["reportId"])
	assert.Equal(t, "lanjut", got["recommendations"])
	assert.NotContains(t, got, "image")
}

func TestPublisherSwallowsErrors(t *testing.T) {
	p := newPublisher(&recordingBus{err: errors.New("nats down")}, "custom", zaptest.NewLogger(t))
	assert.NotPanics(t, func() { p.ReportFinalized(t.Context(), reports.Report{ID: "x"}) })
	assert.Equal(t, "custom", p.subject)
}
