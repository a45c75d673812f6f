package delivery

import (
	"context"
	"time"

	"github.com/bryanwahyu/laporkerja/internal/domain/reports"
	"github.com/bryanwahyu/laporkerja/internal/domain/settings"
)

// UploadRequest payload upload satu laporan
type UploadRequest struct {
	Report   reports.Report
	FileName string
	// Image JPEG hasil transcode (sudah di-decode dari data URL)
	Image       []byte
	MediaType   string
	Location    string
	GeneratedAt time.Time
}

// Uploader port upload target (webhook, object storage)
type Uploader interface {
	Upload(ctx context.Context, req UploadRequest) (UploadResult, error)
}

// UploaderResolver pilih target upload sesuai settings saat dispatch.
// false = upload belum dikonfigurasi.
type UploaderResolver interface {
	Resolve(s settings.Settings) (Uploader, bool)
}

// Clipboard capability
type Clipboard interface {
	CanWriteText() bool
	CanWriteImage() bool
	WriteText(text string) error
	WriteImage(mediaType string, data []byte) error
}

// Opener buka handler eksternal (wa.me, mailto:, spreadsheet)
type Opener interface {
	Open(url string) error
}

// ShareRequest data untuk native share
type ShareRequest struct {
	FileName  string
	MediaType string
	Data      []byte
	Title     string
	Text      string
}

// Sharer capability native share dengan file
type Sharer interface {
	CanShareFiles() bool
	Share(ctx context.Context, req ShareRequest) error
}

// Locator geolocation device
type Locator interface {
	Locate(ctx context.Context) (lat, lon float64, err error)
}

// ExportRequest input renderer dokumen
type ExportRequest struct {
	Report   reports.Report
	Location string
	Image    []byte
}

// Renderer black box pembuat dokumen export
type Renderer interface {
	Render(ctx context.Context, req ExportRequest) (Artifact, error)
}
