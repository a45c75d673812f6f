package reports

import "context"

// HistoryRepository port riwayat laporan (terbaru di depan, dibatasi N)
type HistoryRepository interface {
	List(ctx context.Context) ([]HistoryItem, error)
	Append(ctx context.Context, item HistoryItem) error
	Delete(ctx context.Context, id string) error
}

// SessionRepository port snapshot sesi terakhir.
// Load balikin (nil, nil) kalau tidak ada atau rusak.
type SessionRepository interface {
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, s Snapshot) error
	Clear(ctx context.Context) error
}

// RecordRepository port pencatatan laporan yang sudah di-upload (SQL)
type RecordRepository interface {
	Save(ctx context.Context, r Report) error
}

// Listener dipanggil setelah analisa sukses dan laporan tersimpan
type Listener interface {
	ReportFinalized(ctx context.Context, r Report)
}

// Tracker menerima perubahan field mutable dari laporan final
type Tracker interface {
	Relocate(ctx context.Context, id ReportID, location string) error
	Link(ctx context.Context, id ReportID, link string) error
}
