package storage

import (
	"net/http"

	"github.com/bryanwahyu/laporkerja/internal/domain/delivery"
	"github.com/bryanwahyu/laporkerja/internal/domain/settings"
)

// Resolver pilih target upload: endpoint dari settings user menang,
// kalau kosong pakai object storage dari config server
type Resolver struct {
	Object delivery.Uploader
	Client *http.Client
}

func (r Resolver) Resolve(s settings.Settings) (delivery.Uploader, bool) {
	if s.HasUploadURL() {
		return NewWebhook(s.UploadURL, s.UploadToken, r.Client), true
	}
	if r.Object != nil {
		return r.Object, true
	}
	return nil, false
}
