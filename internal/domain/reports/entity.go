package reports

import (
	"regexp"
	"time"

	"github.com/bryanwahyu/laporkerja/internal/domain/analysis"
	"github.com/bryanwahyu/laporkerja/internal/domain/media"
)

// ReportID identifier laporan
type ReportID string

// Report laporan final hasil analisa yang diterima.
// Location boleh diubah, UploadedLink hanya di-set sekali.
type Report struct {
	ID                   ReportID           `json:"id"`
	Image                media.EncodedImage `json:"image"`
	CompletionPercentage float64            `json:"completionPercentage"`
	Summary              string             `json:"summary"`
	Details              []string           `json:"details"`
	Recommendation       string             `json:"recommendations"`
	Timestamp            time.Time          `json:"timestamp"`
	Location             string             `json:"location,omitempty"`
	UploadedLink         string             `json:"uploadedLink,omitempty"`
}

// NewReport bangun Report dari verdict Accepted
func NewReport(id ReportID, img media.EncodedImage, v analysis.Accepted, at time.Time) Report {
	details := make([]string, len(v.Details))
	copy(details, v.Details)
	return Report{
		ID:                   id,
		Image:                img,
		CompletionPercentage: v.CompletionPercentage,
		Summary:              v.Summary,
		Details:              details,
		Recommendation:       v.Recommendation,
		Timestamp:            at,
	}
}

// HistoryItem entry riwayat, tidak pernah diubah setelah dibuat
type HistoryItem struct {
	ID      string             `json:"id"`
	Image   media.EncodedImage `json:"image"`
	Report  Report             `json:"report"`
	SavedAt time.Time          `json:"savedAt"`
}

// Snapshot sesi terakhir yang sukses, untuk restore setelah restart
type Snapshot struct {
	Image  media.EncodedImage `json:"image"`
	Report Report             `json:"report"`
}

// DefaultHistoryLimit jumlah maksimum riwayat
const DefaultHistoryLimit = 5

// TimestampLayout format waktu tampilan (gaya id-ID)
const TimestampLayout = "2/1/2006, 15.04.05"

// DisplayTime waktu laporan dalam format tampilan
func (r Report) DisplayTime() string {
	return r.Timestamp.Format(TimestampLayout)
}

var unsafeFileChars = regexp.MustCompile(`[/\s:,]`)

// SafeTimestamp waktu laporan yang aman dipakai di nama file
func (r Report) SafeTimestamp() string {
	return unsafeFileChars.ReplaceAllString(r.DisplayTime(), "-")
}
