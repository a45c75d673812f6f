package delivery

import (
	"errors"
	"strings"
)

var (
	// ErrUploadFailed upload gagal, hanya disurface oleh channel cloud
	ErrUploadFailed = errors.New("upload failed")
	// ErrCapabilityUnavailable kemampuan platform tidak tersedia
	ErrCapabilityUnavailable = errors.New("capability unavailable")
	// ErrDispatchInFlight channel yang sama masih jalan untuk laporan ini
	ErrDispatchInFlight = errors.New("dispatch already in flight")
	// ErrUnknownChannel nama channel tidak dikenal
	ErrUnknownChannel = errors.New("unknown delivery channel")
)

// ConfigurationMissingError setting yang dibutuhkan belum diisi
type ConfigurationMissingError struct {
	Fields []string
}

func (e *ConfigurationMissingError) Error() string {
	return "configuration missing: " + strings.Join(e.Fields, ", ")
}

// Message pesan untuk user
func (e *ConfigurationMissingError) Message() string {
	if len(e.Fields) == 1 && e.Fields[0] == "uploadUrl" {
		return "Endpoint upload belum diatur di menu Pengaturan."
	}
	if len(e.Fields) == 1 && e.Fields[0] == "spreadsheetUrl" {
		return "Link Spreadsheet belum diatur di menu Pengaturan."
	}
	return "Silakan atur Nomor WhatsApp atau Email Kantor di menu Pengaturan."
}

// IsConfigurationMissing helper errors.As
func IsConfigurationMissing(err error) bool {
	var cm *ConfigurationMissingError
	return errors.As(err, &cm)
}
