package export

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/bryanwahyu/laporkerja/internal/domain/delivery"
	"github.com/bryanwahyu/laporkerja/internal/domain/media"
	"github.com/bryanwahyu/laporkerja/internal/domain/reports"
)

func testJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 255), G: 120, B: uint8(y % 255), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 70}))
	return buf.Bytes()
}

func testReport(data []byte) reports.Report {
	return reports.Report{
		ID:                   "r-1",
		Image:                media.NewEncodedImage(media.TypeJPEG, data),
		CompletionPercentage: 72.5,
		Summary:              "Pengecoran lantai dua selesai sebagian.",
		Details:              []string{"Bekisting terpasang", "Besi tulangan rapi", "Area kerja bersih"},
		Recommendation:       "Lanjutkan curing selama 7 hari.",
		Timestamp:            time.Date(2026, 3, 5, 9, 7, 3, 0, time.UTC),
	}
}

func TestRenderProducesPDF(t *testing.T) {
	data := testJPEG(t, 640, 480)
	p := NewPDFRenderer(zaptest.NewLogger(t))

	art, err := p.Render(context.Background(), delivery.ExportRequest{
		Report:   testReport(data),
		Location: "Lat: -6.20000, Long: 106.81666",
		Image:    data,
	})
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(art.Data, []byte("%PDF")))
	assert.Equal(t, "application/pdf", art.MediaType)
	assert.Equal(t, "Laporan_5-3-2026--09.07.03.pdf", art.FileName)
	assert.Equal(t, 1, art.Pages)
}

func TestRenderTallImageStaysOnPage(t *testing.T) {
	data := testJPEG(t, 400, 1200)
	p := NewPDFRenderer(nil)

	art, err := p.Render(context.Background(), delivery.ExportRequest{Report: testReport(data), Image: data})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(art.Data, []byte("%PDF")))
	assert.GreaterOrEqual(t, art.Pages, 1)
}

func TestRenderWithoutImage(t *testing.T) {
	p := NewPDFRenderer(nil)
	art, err := p.Render(context.Background(), delivery.ExportRequest{Report: testReport(nil)})
	require.NoError(t, err)
	assert.NotEmpty(t, art.Data)
}

func TestRenderRejectsCorruptImage(t *testing.T) {
	p := NewPDFRenderer(nil)
	_, err := p.Render(context.Background(), delivery.ExportRequest{
		Report: testReport([]byte("nope")),
		Image:  []byte("nope"),
	})
	require.Error(t, err)
}

func TestRenderHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewPDFRenderer(nil).Render(ctx, delivery.ExportRequest{})
	require.ErrorIs(t, err, context.Canceled)
}
