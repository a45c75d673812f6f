package storage

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/laporkerja/internal/domain/delivery"
	"github.com/bryanwahyu/laporkerja/internal/domain/reports"
	"github.com/bryanwahyu/laporkerja/internal/domain/settings"
)

func uploadRequest() delivery.UploadRequest {
	r := reports.Report{
		ID:                   "r-7",
		CompletionPercentage: 40,
		Summary:              "Galian pondasi",
		Details:              []string{"a", "b", "c"},
		Recommendation:       "Pasang bekisting",
		Timestamp:            time.Date(2026, 10, 19, 7, 0, 0, 0, time.UTC),
	}
	return delivery.UploadRequest{
		Report:      r,
		FileName:    "Laporan_19-10-2026--07.00.00.jpg",
		Image:       []byte{0xff, 0xd8, 0xff, 0xd9},
		MediaType:   "image/jpeg",
		Location:    "Blok D",
		GeneratedAt: time.Date(2026, 10, 19, 7, 1, 0, 0, time.UTC),
	}
}

func TestWebhookUpload(t *testing.T) {
	var got uploadPayload
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		_, _ = io.WriteString(w, `{"status":"ok","fileUrl":"https://drive.example/file","link":"https://other"}`)
	}))
	defer srv.Close()

	res, err := NewWebhook(srv.URL, "secret", srv.Client()).Upload(context.Background(), uploadRequest())
	require.NoError(t, err)
	assert.Equal(t, "https://drive.example/file", res.Link)
	assert.Equal(t, "Bearer secret", auth)

	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte{0xff, 0xd8, 0xff, 0xd9}), got.Image)
	assert.Equal(t, "image/jpeg", got.MimeType)
	assert.Equal(t, "Laporan_19-10-2026--07.00.00.jpg", got.Filename)
	assert.Equal(t, "Blok D", got.Report.Location)
	assert.Equal(t, "19/10/2026, 07.00.00", got.Report.Timestamp)
	assert.Equal(t, "Pasang bekisting", got.Report.Recommendations)
}

func TestWebhookNon2xxFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewWebhook(srv.URL, "", srv.Client()).Upload(context.Background(), uploadRequest())
	assert.ErrorContains(t, err, "502")
}

func TestExtractLink(t *testing.T) {
	tests := map[string]string{
		`{"url":"u","imageUrl":"i"}`:  "u",
		`{"imageUrl":"i","link":"l"}`: "i",
		`{"link":"l"}`:                "l",
		`{"url":""}`:                  delivery.PlaceholderLink,
		`{"status":"ok"}`:             delivery.PlaceholderLink,
		`Success`:                     delivery.PlaceholderLink,
	}
	for in, want := range tests {
		assert.Equal(t, want, ExtractLink([]byte(in)), in)
	}
}

type nopUploader struct{}

func (nopUploader) Upload(context.Context, delivery.UploadRequest) (delivery.UploadResult, error) {
	return delivery.UploadResult{}, nil
}

func TestResolver(t *testing.T) {
	_, ok := Resolver{}.Resolve(settings.Settings{})
	assert.False(t, ok)

	up, ok := Resolver{Object: nopUploader{}}.Resolve(settings.Settings{})
	assert.True(t, ok)
	assert.IsType(t, nopUploader{}, up)

	up, ok = Resolver{Object: nopUploader{}}.Resolve(settings.Settings{UploadURL: "https://script.example/exec"})
	assert.True(t, ok)
	assert.IsType(t, &Webhook{}, up)
}

func TestObjectKeys(t *testing.T) {
	img, meta := objectKeys(uploadRequest())
	assert.Equal(t, "reports/r-7/Laporan_19-10-2026--07.00.00.jpg", img)
	assert.Equal(t, "reports/r-7/report.json", meta)
}
