package gemini

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/laporkerja/internal/domain/ai"
	"github.com/bryanwahyu/laporkerja/internal/domain/media"
)

var testImage = media.NewEncodedImage(media.TypeJPEG, []byte{0xff, 0xd8, 0xff, 0xd9})

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewClient(context.Background(), "test-key", "", Options{BaseURL: srv.URL + "/", HTTPClient: srv.Client()})
	require.NoError(t, err)
	return c
}

func TestAnalyzeReturnsJSONText(t *testing.T) {
	var body map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/models/gemini-2.5-flash:generateContent"), r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(raw, &body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"isRejected\":false}"}]}}]}`)
	})

	out, err := c.Analyze(context.Background(), testImage)
	require.NoError(t, err)
	assert.Equal(t, `{"isRejected":false}`, out)

	gen, ok := body["generationConfig"].(map[string]any)
	require.True(t, ok, "generationConfig sent")
	assert.Equal(t, "application/json", gen["responseMimeType"])
}

func TestAnalyzeEmptyReply(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates":[]}`)
	})

	_, err := c.Analyze(context.Background(), testImage)
	assert.ErrorIs(t, err, ai.ErrEmptyReply)
}

func TestResponseSchemaRequiredFields(t *testing.T) {
	s := ResponseSchema()
	assert.ElementsMatch(t,
		[]string{"isRejected", "completionPercentage", "summary", "details", "recommendations"},
		s.Required)
	assert.Contains(t, s.Properties, "rejectionReason")
}
