package delivery

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/bryanwahyu/laporkerja/internal/domain/reports"
)

const emptyLocation = "(Lokasi belum diisi)"

// RenderText teks laporan kanonik (format markdown WhatsApp).
// Baris link foto hanya muncul kalau link ada.
func RenderText(r reports.Report, location, link string) string {
	loc := strings.TrimSpace(location)
	if loc == "" {
		loc = emptyLocation
	}
	if maps, ok := reports.MapsLink(location); ok {
		loc += "\n🔗 Maps: " + maps
	}

	var b strings.Builder
	b.WriteString("*LAPORAN PEKERJAAN HARIAN*\n")
	b.WriteString("📅 Waktu: " + r.DisplayTime() + "\n")
	b.WriteString("📍 Lokasi: " + loc + "\n\n")

	b.WriteString("*Status Pekerjaan*\n")
	b.WriteString("📊 Progress: " + FormatPercent(r.CompletionPercentage) + "%\n")
	b.WriteString("📝 Ringkasan: " + r.Summary + "\n\n")

	b.WriteString("*Detail Teknis*\n")
	for _, d := range r.Details {
		b.WriteString("- " + d + "\n")
	}

	b.WriteString("\n*Rekomendasi*\n")
	b.WriteString("💡 " + r.Recommendation)

	if link != "" {
		b.WriteString("\n\n🖼️ *Link Foto Lapangan:*\n" + link)
	}
	return b.String()
}

// FormatPercent 80 -> "80", 72.5 -> "72.5"
func FormatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}

// MailSubject subjek email laporan
func MailSubject(r reports.Report) string {
	return "Laporan Kerja - " + r.DisplayTime()
}

// encodeComponent setara encodeURIComponent: spasi jadi %20, bukan '+'
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// WhatsAppURL link wa.me dengan teks terisi
func WhatsAppURL(number, text string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
	return "https://wa.me/" + digits + "?text=" + encodeComponent(text)
}

// MailtoURL link mailto dengan subjek dan body
func MailtoURL(address, subject, body string) string {
	return "mailto:" + strings.TrimSpace(address) +
		"?subject=" + encodeComponent(subject) +
		"&body=" + encodeComponent(body)
}

// ShareFileName nama file untuk native share
func ShareFileName(r reports.Report) string {
	return "Laporan-Kerja-" + r.SafeTimestamp() + ".jpg"
}

// UploadFileName nama file di upload target
func UploadFileName(r reports.Report) string {
	return "Laporan_" + r.SafeTimestamp() + ".jpg"
}

// ExportFileName nama file dokumen export
func ExportFileName(r reports.Report) string {
	return "Laporan_" + r.SafeTimestamp() + ".pdf"
}
