package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	domain "github.com/bryanwahyu/laporkerja/internal/domain/reports"
)

const schema = `
CREATE TABLE IF NOT EXISTS reports (
  id VARCHAR(64) NOT NULL PRIMARY KEY,
  completion_percentage DOUBLE NOT NULL,
  summary TEXT NOT NULL,
  details JSON NOT NULL,
  recommendations TEXT NOT NULL,
  location TEXT NULL,
  image_url TEXT NOT NULL,
  reported_at DATETIME(3) NOT NULL,
  created_at DATETIME(3) NOT NULL
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`

type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

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
VALUES (?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
 location=VALUES(location),
 image_url=VALUES(image_url);
`
	details, err := jsonList(rep.Details)
	if err != nil {
		return fmt.Errorf("encode details: %w", err)
	}
	reported := rep.Timestamp
	if reported.IsZero() {
		reported = time.Now()
	}

	_, err = r.db.ExecContext(ctx, q,
		string(rep.ID), rep.CompletionPercentage, rep.Summary, details, rep.Recommendation,
		nullIfBlank(rep.Location), rep.UploadedLink, reported.UTC(), time.Now().UTC(),
	)
	return err
}
