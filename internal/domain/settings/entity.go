package settings

import "strings"

// Settings konfigurasi delivery yang bisa diubah user. Singleton.
type Settings struct {
	WhatsAppNumber string `json:"whatsappNumber"`
	EmailAddress   string `json:"emailAddress"`
	SpreadsheetURL string `json:"spreadsheetUrl"`
	UploadURL      string `json:"uploadUrl"`
	UploadToken    string `json:"uploadToken,omitempty"`
	AutoUpload     bool   `json:"autoUpload"`
}

// Field names dipakai di pesan ConfigurationMissing
const (
	FieldWhatsApp    = "whatsappNumber"
	FieldEmail       = "emailAddress"
	FieldSpreadsheet = "spreadsheetUrl"
	FieldUpload      = "uploadUrl"
)

func (s Settings) HasWhatsApp() bool    { return strings.TrimSpace(s.WhatsAppNumber) != "" }
func (s Settings) HasEmail() bool       { return strings.TrimSpace(s.EmailAddress) != "" }
func (s Settings) HasSpreadsheet() bool { return strings.TrimSpace(s.SpreadsheetURL) != "" }
func (s Settings) HasUploadURL() bool   { return strings.TrimSpace(s.UploadURL) != "" }

// RedactedToken pengganti UploadToken di output
const RedactedToken = "********"

// Redacted copy tanpa credential, untuk response API / log
func (s Settings) Redacted() Settings {
	if s.UploadToken != "" {
		s.UploadToken = RedactedToken
	}
	return s
}
