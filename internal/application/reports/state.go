package reports

import (
	"errors"

	"github.com/bryanwahyu/laporkerja/internal/application/intake"
	"github.com/bryanwahyu/laporkerja/internal/domain/analysis"
	domain "github.com/bryanwahyu/laporkerja/internal/domain/reports"
)

// State enum lifecycle
type State string

const (
	StateIdle      State = "idle"
	StateAnalyzing State = "analyzing"
	StateSuccess   State = "success"
	StateError     State = "error"
)

// Phase sub-fase saat Analyzing
type Phase string

const (
	PhaseCompressing Phase = "compressing"
	PhaseAnalyzing   Phase = "awaiting_analysis"
)

// FailureKind asal kegagalan, supaya caller bisa bedakan pesan lokal vs remote
type FailureKind string

const (
	FailureValidation  FailureKind = "validation"
	FailureTranscode   FailureKind = "transcode"
	FailureUnreachable FailureKind = "unreachable"
	FailureRejected    FailureKind = "rejected"
)

// GenericFailureMessage pesan umum untuk kegagalan non-validasi
const GenericFailureMessage = "Gagal menganalisis gambar. Pastikan koneksi internet stabil."

// Failure isi state Error
type Failure struct {
	Kind    FailureKind `json:"kind"`
	Message string      `json:"message"`
	// Local true kalau terdeteksi di device (validasi/transcode)
	Local bool `json:"local"`
}

// View snapshot state untuk ditampilkan
type View struct {
	State            State          `json:"state"`
	Phase            Phase          `json:"phase,omitempty"`
	Report           *domain.Report `json:"report,omitempty"`
	Failure          *Failure       `json:"error,omitempty"`
	RestoreAvailable bool           `json:"restoreAvailable"`
}

func classify(err error) Failure {
	if ve, ok := intake.AsValidation(err); ok {
		return Failure{Kind: FailureValidation, Message: ve.Message, Local: true}
	}
	if errors.Is(err, intake.ErrTranscodeFailed) {
		return Failure{Kind: FailureTranscode, Message: GenericFailureMessage, Local: true}
	}
	return Failure{Kind: FailureUnreachable, Message: GenericFailureMessage}
}

func rejection(v analysis.Rejected) Failure {
	msg := v.Reason
	if msg == "" {
		msg = analysis.DefaultRejectionReason
	}
	return Failure{Kind: FailureRejected, Message: msg}
}
