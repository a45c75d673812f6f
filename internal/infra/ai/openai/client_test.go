package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/laporkerja/internal/domain/ai"
	"github.com/bryanwahyu/laporkerja/internal/domain/media"
)

var testImage = media.NewEncodedImage(media.TypeJPEG, []byte{0xff, 0xd8, 0xff, 0xd9})

func TestAnalyzeSendsImageAndReturnsContent(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"x","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"{\"isRejected\":true}"},"finish_reason":"stop"}]}`)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("test-key", "gpt-4o-mini", srv.URL, srv.Client())
	out, err := c.Analyze(context.Background(), testImage)
	require.NoError(t, err)
	assert.Equal(t, `{"isRejected":true}`, out)

	assert.Equal(t, "gpt-4o-mini", got["model"])
	msgs := got["messages"].([]any)
	require.Len(t, msgs, 2)
	parts := msgs[1].(map[string]any)["content"].([]any)
	img := parts[0].(map[string]any)["image_url"].(map[string]any)
	assert.Equal(t, string(testImage), img["url"])
}

func TestAnalyzeQuota(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = io.WriteString(w, `{"error":{"message":"quota","type":"insufficient_quota"}}`)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("test-key", "", srv.URL, srv.Client())
	_, err := c.Analyze(context.Background(), testImage)
	assert.ErrorIs(t, err, ai.ErrQuotaExceeded)
}

func TestAnalyzeEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"x","choices":[]}`)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("test-key", "", srv.URL, srv.Client())
	_, err := c.Analyze(context.Background(), testImage)
	assert.ErrorIs(t, err, ai.ErrEmptyReply)
}
