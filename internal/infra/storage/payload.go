package storage

import (
	"encoding/base64"
	"path"
	"time"

	"github.com/bryanwahyu/laporkerja/internal/domain/delivery"
)

// reportPayload isi field "report" di payload upload dan sidecar report.json
type reportPayload struct {
	ID                   string    `json:"id"`
	CompletionPercentage float64   `json:"completionPercentage"`
	Summary              string    `json:"summary"`
	Details              []string  `json:"details"`
	Recommendations      string    `json:"recommendations"`
	Timestamp            string    `json:"timestamp"`
	Location             string    `json:"location"`
	GeneratedAt          time.Time `json:"generatedAt"`
}

// uploadPayload body JSON untuk endpoint webhook (Apps Script)
type uploadPayload struct {
	Image    string        `json:"image"`
	MimeType string        `json:"mimeType"`
	Filename string        `json:"filename"`
	Report   reportPayload `json:"report"`
}

func newReportPayload(req delivery.UploadRequest) reportPayload {
	r := req.Report
	return reportPayload{
		ID:                   string(r.ID),
		CompletionPercentage: r.CompletionPercentage,
		Summary:              r.Summary,
		Details:              r.Details,
		Recommendations:      r.Recommendation,
		Timestamp:            r.DisplayTime(),
		Location:             req.Location,
		GeneratedAt:          req.GeneratedAt.UTC(),
	}
}

func newUploadPayload(req delivery.UploadRequest) uploadPayload {
	mt := req.MediaType
	if mt == "" {
		mt = "image/jpeg"
	}
	return uploadPayload{
		Image:    base64.StdEncoding.EncodeToString(req.Image),
		MimeType: mt,
		Filename: req.FileName,
		Report:   newReportPayload(req),
	}
}

// objectKeys key foto dan sidecar di object storage
func objectKeys(req delivery.UploadRequest) (image, sidecar string) {
	dir := path.Join("reports", string(req.Report.ID))
	return path.Join(dir, req.FileName), path.Join(dir, "report.json")
}
