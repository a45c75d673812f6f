package middleware

import (
	"errors"
	"fmt"
	"net"
	"net/mail"
	"net/url"
	"strings"

	"github.com/bryanwahyu/laporkerja/internal/domain/settings"
)

// FieldError input settings tidak valid
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string { return e.Field + ": " + e.Message }

// ValidateSettings cek semua field yang diisi; field kosong selalu boleh
func ValidateSettings(s settings.Settings) error {
	var errs []error
	if s.HasWhatsApp() {
		if err := ValidatePhone(s.WhatsAppNumber); err != nil {
			errs = append(errs, &FieldError{Field: settings.FieldWhatsApp, Message: err.Error()})
		}
	}
	if s.HasEmail() {
		if err := ValidateEmail(s.EmailAddress); err != nil {
			errs = append(errs, &FieldError{Field: settings.FieldEmail, Message: err.Error()})
		}
	}
	if s.HasSpreadsheet() {
		if _, err := parseHTTPURL(s.SpreadsheetURL); err != nil {
			errs = append(errs, &FieldError{Field: settings.FieldSpreadsheet, Message: err.Error()})
		}
	}
	if s.HasUploadURL() {
		if err := ValidateUploadURL(s.UploadURL); err != nil {
			errs = append(errs, &FieldError{Field: settings.FieldUpload, Message: err.Error()})
		}
	}
	return errors.Join(errs...)
}

// ValidatePhone nomor WhatsApp: 8-15 digit, boleh ada +, spasi, -
func ValidatePhone(number string) error {
	digits := 0
	for _, r := range strings.TrimSpace(number) {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' || r == ' ' || r == '-' || r == '(' || r == ')':
		default:
			return fmt.Errorf("karakter %q tidak valid", r)
		}
	}
	if digits < 8 || digits > 15 {
		return errors.New("nomor harus 8-15 digit")
	}
	return nil
}

// ValidateEmail satu alamat tanpa display name
func ValidateEmail(address string) error {
	addr, err := mail.ParseAddress(strings.TrimSpace(address))
	if err != nil {
		return fmt.Errorf("format email tidak valid: %w", err)
	}
	if addr.Name != "" {
		return errors.New("hanya alamat email, tanpa nama")
	}
	return nil
}

// ValidateUploadURL URL endpoint upload yang di-POST server.
// Host loopback, private, dan link-local ditolak (SSRF).
func ValidateUploadURL(rawURL string) error {
	u, err := parseHTTPURL(rawURL)
	if err != nil {
		return err
	}

	host := strings.ToLower(u.Hostname())
	if host == "localhost" || strings.HasSuffix(host, ".localhost") || strings.HasSuffix(host, ".internal") {
		return errors.New("localhost/internal host tidak diizinkan")
	}
	if ip := net.ParseIP(host); ip != nil {
		if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsUnspecified() {
			return errors.New("alamat IP internal tidak diizinkan")
		}
	}
	return nil
}

func parseHTTPURL(rawURL string) (*url.URL, error) {
	raw := strings.TrimSpace(rawURL)
	if raw == "" {
		return nil, errors.New("URL tidak boleh kosong")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("format URL tidak valid: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("skema URL %q tidak diizinkan (http, https)", u.Scheme)
	}
	if u.Host == "" {
		return nil, errors.New("URL tanpa host")
	}
	return u, nil
}

// SanitizeString buang null byte dan karakter kontrol
func SanitizeString(input string) string {
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}
	return strings.TrimSpace(result.String())
}
