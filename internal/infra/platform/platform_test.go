package platform

import (
	"context"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/laporkerja/internal/domain/delivery"
)

func TestHTTPLocator(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status":"success","lat":-6.9175,"lon":107.6191}`)
	}))
	defer srv.Close()

	lat, lon, err := HTTPLocator{URL: srv.URL, Client: srv.Client()}.Locate(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, -6.9175, lat, 1e-9)
	assert.InDelta(t, 107.6191, lon, 1e-9)
}

func TestHTTPLocatorLatitudeFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"latitude":1.5,"longitude":2.5}`)
	}))
	defer srv.Close()

	lat, lon, err := HTTPLocator{URL: srv.URL}.Locate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1.5, lat)
	assert.Equal(t, 2.5, lon)
}

func TestHTTPLocatorNoFix(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"status":"fail"}`)
	}))
	defer srv.Close()

	_, _, err := HTTPLocator{URL: srv.URL}.Locate(context.Background())
	assert.ErrorIs(t, err, ErrNoFix)
}

func TestHTTPLocatorTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, _, err := HTTPLocator{URL: srv.URL}.Locate(ctx)
	assert.Error(t, err)
}

func TestDirSharer(t *testing.T) {
	dir := t.TempDir()
	s := DirSharer{Dir: dir}
	require.True(t, s.CanShareFiles())

	err := s.Share(context.Background(), delivery.ShareRequest{
		FileName: "Laporan-Kerja-1.jpg",
		Data:     []byte{0xff, 0xd8},
		Title:    "Laporan Kerja Harian",
		Text:     "isi laporan",
	})
	require.NoError(t, err)

	img, err := os.ReadFile(filepath.Join(dir, "Laporan-Kerja-1.jpg"))
	require.NoError(t, err)
	assert.Equal(t, []byte{0xff, 0xd8}, img)

	txt, err := os.ReadFile(filepath.Join(dir, "Laporan-Kerja-1.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(txt), "isi laporan")

	assert.False(t, DirSharer{}.CanShareFiles())
	assert.False(t, DirSharer{Dir: filepath.Join(dir, "missing")}.CanShareFiles())
}

func TestDirSharerSurfacesWriteError(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sync")
	require.NoError(t, os.Mkdir(dir, 0o755))
	s := DirSharer{Dir: dir}
	require.True(t, s.CanShareFiles())

	// folder hilang di antara probe dan share
	require.NoError(t, os.Remove(dir))

	err := s.Share(context.Background(), delivery.ShareRequest{FileName: "Laporan-Kerja-1.jpg", Data: []byte{1}})
	require.Error(t, err)
	assert.NotErrorIs(t, err, delivery.ErrCapabilityUnavailable)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), "write shared image")
}
