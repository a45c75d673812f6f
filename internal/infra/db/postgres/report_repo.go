package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	domain "github.com/bryanwahyu/laporkerja/internal/domain/reports"
)

const schema = `
CREATE TABLE IF NOT EXISTS reports (
  id TEXT PRIMARY KEY,
  completion_percentage DOUBLE PRECISION NOT NULL,
  summary TEXT NOT NULL,
  details JSONB NOT NULL,
  recommendations TEXT NOT NULL,
  location TEXT NULL,
  image_url TEXT NOT NULL,
  reported_at TIMESTAMPTZ NOT NULL,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

type ReportRepository struct{ db *sql.DB }

func NewReportRepository(db *sql.DB) *ReportRepository { return &ReportRepository{db: db} }

// EnsureSchema buat tabel reports kalau belum ada
func (r *ReportRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schema)
	return err
}

// Save insert/update record laporan yang sudah di-upload
func (r *ReportRepository) Save(ctx context.Context, rep domain.Report) error {
	const q = `
INSERT INTO reports
(id, completion_percentage, summary, details, recommendations, location, image_url, reported_at, created_at)
VALUES ($1,$2,$3,$4::jsonb,$5,$6,$7,$8,$9)
ON CONFLICT (id) DO UPDATE SET
 location = EXCLUDED.location,
 image_url = EXCLUDED.image_url;`

	details := rep.Details
	if details == nil {
		details = []string{}
	}
	b, err := json.Marshal(details)
	if err != nil {
		return fmt.Errorf("encode details: %w", err)
	}
	var location sql.NullString
	if strings.TrimSpace(rep.Location) != "" {
		location = sql.NullString{String: rep.Location, Valid: true}
	}
	reported := rep.Timestamp
	if reported.IsZero() {
		reported = time.Now()
	}

	_, err = r.db.ExecContext(ctx, q,
		string(rep.ID), rep.CompletionPercentage, rep.Summary, string(b), rep.Recommendation,
		location, rep.UploadedLink, reported.UTC(), time.Now().UTC(),
	)
	return err
}
