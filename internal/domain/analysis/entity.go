package analysis

// Verdict hasil oracle setelah dinormalisasi. Hanya Accepted atau Rejected.
type Verdict interface {
	verdict()
}

// Rejected gambar dianggap bukan foto lapangan asli
type Rejected struct {
	Reason string `json:"reason"`
}

// Accepted laporan kerja dari oracle
type Accepted struct {
	CompletionPercentage float64  `json:"completionPercentage"`
	Summary              string   `json:"summary"`
	Details              []string `json:"details"`
	Recommendation       string   `json:"recommendations"`
}

func (Rejected) verdict() {}
func (Accepted) verdict() {}

// DetailCount jumlah poin detail teknis yang diminta ke oracle
const DetailCount = 3

// DefaultRejectionReason dipakai kalau oracle menolak tanpa alasan
const DefaultRejectionReason = "Gambar terdeteksi bukan foto lapangan asli."
