package main

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	state  string
	config string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	for _, k := range []string{"ORACLE_API_KEY", "ORACLE_PROVIDER", "STATE_PATH", "NATS_URL", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	dir := t.TempDir()
	return &harness{
		state:  filepath.Join(dir, "state.db"),
		config: filepath.Join(dir, "missing.yaml"),
	}
}

func (h *harness) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	full := append([]string{"--config", h.config, "--state", h.state}, args...)
	err := run(context.Background(), full, &out)
	return out.String(), err
}

func writePhoto(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{R: 80, G: 90, B: 100, A: 255}}, image.Point{}, draw.Src)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	path := filepath.Join(t.TempDir(), "foto.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func TestSettingsPersistAcrossInvocations(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "settings", "set", "--whatsapp", "0812-3456-7890", "--upload-token", "abc")
	require.NoError(t, err)

	out, err := h.run(t, "--json", "settings", "show")
	require.NoError(t, err)
	var st map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	assert.Equal(t, "0812-3456-7890", st["whatsappNumber"])
	assert.Equal(t, "********", st["uploadToken"])

	_, err = h.run(t, "settings", "set", "--email", "bukan-email")
	require.Error(t, err)
}

func TestEmptyState(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "state")
	require.NoError(t, err)
	assert.Contains(t, out, "Belum ada laporan aktif.")

	out, err = h.run(t, "history", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Riwayat kosong.")

	_, err = h.run(t, "deliver", "copy")
	require.ErrorContains(t, err, "belum ada laporan aktif")

	_, err = h.run(t, "deliver", "fax")
	require.Error(t, err)

	_, err = h.run(t, "restore")
	require.Error(t, err)
}

func TestSubmitWithoutOracleShowsGenericFailure(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "submit", writePhoto(t, 800, 600))
	require.NoError(t, err)
	assert.Contains(t, out, "Gagal (unreachable): Gagal menganalisis gambar. Pastikan koneksi internet stabil.")
}

func TestSubmitTooSmallPhoto(t *testing.T) {
	h := newHarness(t)

	out, err := h.run(t, "submit", writePhoto(t, 300, 300))
	require.NoError(t, err)
	assert.Contains(t, out, "Gagal (validation)")
	assert.Contains(t, out, "300x300")
}

func TestMediaType(t *testing.T) {
	assert.Equal(t, "image/png", mediaType("a.PNG", nil))
	assert.Equal(t, "image/jpeg", mediaType("noext", []byte{0xff, 0xd8, 0xff, 0xe0, 0, 0, 0, 0, 0, 0, 0, 0}))
}
