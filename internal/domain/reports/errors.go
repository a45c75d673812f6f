package reports

import "errors"

var (
	// ErrInvalidTransition operasi tidak valid di state sekarang
	ErrInvalidTransition = errors.New("invalid lifecycle transition")
	// ErrNoSnapshot tidak ada sesi tersimpan untuk di-restore
	ErrNoSnapshot = errors.New("no saved session")
	// ErrHistoryNotFound id riwayat tidak ada
	ErrHistoryNotFound = errors.New("history item not found")
	// ErrNoActiveReport tidak ada laporan aktif (state bukan success)
	ErrNoActiveReport = errors.New("no active report")
)
