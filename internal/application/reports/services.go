package reports

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bryanwahyu/laporkerja/internal/application"
	"github.com/bryanwahyu/laporkerja/internal/application/intake"
	"github.com/bryanwahyu/laporkerja/internal/domain/analysis"
	"github.com/bryanwahyu/laporkerja/internal/domain/media"
	domain "github.com/bryanwahyu/laporkerja/internal/domain/reports"
)

// Service state machine laporan: Idle -> Analyzing -> Success | Error -> Idle.
// Aman dipakai concurrent, tapi hanya satu submit yang bisa jalan.
type Service struct {
	Gateway   analysis.Gateway
	History   domain.HistoryRepository
	Session   domain.SessionRepository
	Listeners []domain.Listener
	Clock     application.Clock
	Logger    *zap.Logger
	NewID     func() string

	mu             sync.Mutex
	state          State
	phase          Phase
	current        *domain.Report
	failure        *Failure
	restorePending bool
}

func (s *Service) log() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *Service) now() application.Clock {
	if s.Clock == nil {
		return application.SystemClock{}
	}
	return s.Clock
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

// Start cek snapshot sesi lama, sekali saat boot
func (s *Service) Start(ctx context.Context) error {
	snap, err := s.Session.Load(ctx)
	if err != nil {
		s.log().Warn("load session snapshot", zap.Error(err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == "" {
		s.state = StateIdle
	}
	s.restorePending = snap != nil && s.state == StateIdle
	return nil
}

// View state sekarang
func (s *Service) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Service) viewLocked() View {
	v := View{State: s.state, Phase: s.phase, RestoreAvailable: s.restorePending}
	if v.State == "" {
		v.State = StateIdle
	}
	if s.current != nil {
		r := *s.current
		v.Report = &r
	}
	if s.failure != nil {
		f := *s.failure
		v.Failure = &f
	}
	return v
}

// Active laporan aktif, hanya ada saat Success
func (s *Service) Active() (domain.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateSuccess || s.current == nil {
		return domain.Report{}, domain.ErrNoActiveReport
	}
	return *s.current, nil
}

// Submit jalankan chain validate -> transcode -> analyze secara berurutan.
// Kegagalan chain berakhir di state Error dan tidak dibalikin sebagai error;
// error hanya untuk transisi yang tidak valid.
func (s *Service) Submit(ctx context.Context, in media.RawInput) (View, error) {
	s.mu.Lock()
	if s.state != "" && s.state != StateIdle {
		st := s.state
		s.mu.Unlock()
		return s.View(), fmt.Errorf("%w: submit while %s", domain.ErrInvalidTransition, st)
	}
	s.state = StateAnalyzing
	s.phase = PhaseCompressing
	s.current = nil
	s.failure = nil
	s.restorePending = false
	s.mu.Unlock()

	img, err := intake.Prepare(in)
	if err != nil {
		s.log().Info("intake rejected", zap.String("file", in.Name), zap.Error(err))
		return s.fail(classify(err)), nil
	}

	s.mu.Lock()
	s.phase = PhaseAnalyzing
	s.mu.Unlock()

	verdict, err := s.Gateway.Analyze(ctx, img)
	if err != nil {
		return s.fail(classify(err)), nil
	}

	switch v := verdict.(type) {
	case analysis.Rejected:
		s.log().Info("image rejected by oracle", zap.String("reason", v.Reason))
		return s.fail(rejection(v)), nil
	case analysis.Accepted:
		return s.succeed(ctx, img, v), nil
	default:
		return s.fail(Failure{Kind: FailureUnreachable, Message: GenericFailureMessage}), nil
	}
}

func (s *Service) fail(f Failure) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateError
	s.phase = ""
	s.current = nil
	s.failure = &f
	return s.viewLocked()
}

func (s *Service) succeed(ctx context.Context, img media.EncodedImage, v analysis.Accepted) View {
	now := s.now().Now()
	report := domain.NewReport(domain.ReportID(s.newID()), img, v, now)

	// simpan dulu sebelum transisi, cancel dari caller tidak boleh memotong ini
	pctx := context.WithoutCancel(ctx)
	item := domain.HistoryItem{ID: s.newID(), Image: img, Report: report, SavedAt: now}
	if err := s.History.Append(pctx, item); err != nil {
		s.log().Error("append history", zap.String("report_id", string(report.ID)), zap.Error(err))
	}
	if err := s.Session.Save(pctx, domain.Snapshot{Image: img, Report: report}); err != nil {
		s.log().Error("save session snapshot", zap.String("report_id", string(report.ID)), zap.Error(err))
	}

	s.mu.Lock()
	s.state = StateSuccess
	s.phase = ""
	s.current = &report
	s.failure = nil
	view := s.viewLocked()
	s.mu.Unlock()

	s.log().Info("report finalized",
		zap.String("report_id", string(report.ID)),
		zap.Float64("completion", report.CompletionPercentage),
	)
	for _, l := range s.Listeners {
		l.ReportFinalized(pctx, report)
	}
	return view
}

// Reset kembali ke Idle dan hapus snapshot sesi. Riwayat tetap.
func (s *Service) Reset(ctx context.Context) error {
	s.mu.Lock()
	switch s.state {
	case StateAnalyzing:
		s.mu.Unlock()
		return fmt.Errorf("%w: reset while analyzing", domain.ErrInvalidTransition)
	case "", StateIdle:
		s.mu.Unlock()
		return nil
	}
	s.state = StateIdle
	s.phase = ""
	s.current = nil
	s.failure = nil
	s.restorePending = false
	s.mu.Unlock()

	if err := s.Session.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Restore pulihkan laporan dari snapshot tanpa analisa ulang
func (s *Service) Restore(ctx context.Context) (View, error) {
	s.mu.Lock()
	if s.state != "" && s.state != StateIdle {
		st := s.state
		s.mu.Unlock()
		return s.View(), fmt.Errorf("%w: restore while %s", domain.ErrInvalidTransition, st)
	}
	s.mu.Unlock()

	snap, err := s.Session.Load(ctx)
	if err != nil {
		s.log().Warn("load session snapshot", zap.Error(err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.restorePending = false
	if snap == nil {
		return s.viewLocked(), domain.ErrNoSnapshot
	}
	if s.state != "" && s.state != StateIdle {
		return s.viewLocked(), fmt.Errorf("%w: restore while %s", domain.ErrInvalidTransition, s.state)
	}
	report := snap.Report
	if report.Image == "" {
		report.Image = snap.Image
	}
	s.state = StateSuccess
	s.current = &report
	s.failure = nil
	return s.viewLocked(), nil
}

// Dismiss tolak tawaran restore, snapshot dihapus
func (s *Service) Dismiss(ctx context.Context) error {
	s.mu.Lock()
	if s.state != "" && s.state != StateIdle {
		st := s.state
		s.mu.Unlock()
		return fmt.Errorf("%w: dismiss while %s", domain.ErrInvalidTransition, st)
	}
	s.restorePending = false
	s.mu.Unlock()

	if err := s.Session.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// ListHistory daftar riwayat, terbaru di depan
func (s *Service) ListHistory(ctx context.Context) ([]domain.HistoryItem, error) {
	return s.History.List(ctx)
}

// LoadHistory buka laporan dari riwayat. Snapshot sesi hanya dibaca.
func (s *Service) LoadHistory(ctx context.Context, id string) (View, error) {
	if s.isAnalyzing() {
		return s.View(), fmt.Errorf("%w: load history while analyzing", domain.ErrInvalidTransition)
	}

	items, err := s.History.List(ctx)
	if err != nil {
		return s.View(), fmt.Errorf("list history: %w", err)
	}
	var found *domain.HistoryItem
	for i := range items {
		if items[i].ID == id {
			found = &items[i]
			break
		}
	}
	if found == nil {
		return s.View(), domain.ErrHistoryNotFound
	}

	report := found.Report
	if report.Image == "" {
		report.Image = found.Image
	}
	s.seedLink(ctx, &report)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateAnalyzing {
		return s.viewLocked(), fmt.Errorf("%w: load history while analyzing", domain.ErrInvalidTransition)
	}
	s.state = StateSuccess
	s.phase = ""
	s.current = &report
	s.failure = nil
	s.restorePending = false
	return s.viewLocked(), nil
}

// seedLink item riwayat tidak menyimpan link upload; kalau laporan yang sama
// masih ada di snapshot dan sudah di-upload, pakai link itu supaya tidak
// upload dua kali
func (s *Service) seedLink(ctx context.Context, r *domain.Report) {
	if r.UploadedLink != "" {
		return
	}
	snap, err := s.Session.Load(ctx)
	if err != nil {
		s.log().Warn("load session for history link", zap.Error(err))
		return
	}
	if snap != nil && snap.Report.ID == r.ID {
		r.UploadedLink = snap.Report.UploadedLink
	}
}

// DeleteHistory hapus satu item riwayat
func (s *Service) DeleteHistory(ctx context.Context, id string) error {
	return s.History.Delete(ctx, id)
}

func (s *Service) isAnalyzing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == StateAnalyzing
}

// Relocate update lokasi laporan aktif. Snapshot ikut diupdate kalau
// laporannya sama; item riwayat tidak pernah diubah.
func (s *Service) Relocate(ctx context.Context, id domain.ReportID, location string) error {
	s.mu.Lock()
	if s.current != nil && s.current.ID == id {
		s.current.Location = location
	}
	s.mu.Unlock()

	return s.patchSnapshot(ctx, id, func(r *domain.Report) bool {
		if r.Location == location {
			return false
		}
		r.Location = location
		return true
	})
}

// Link catat link upload, hanya sekali per laporan
func (s *Service) Link(ctx context.Context, id domain.ReportID, link string) error {
	s.mu.Lock()
	if s.current != nil && s.current.ID == id && s.current.UploadedLink == "" {
		s.current.UploadedLink = link
	}
	s.mu.Unlock()

	return s.patchSnapshot(ctx, id, func(r *domain.Report) bool {
		if r.UploadedLink != "" {
			return false
		}
		r.UploadedLink = link
		return true
	})
}

func (s *Service) patchSnapshot(ctx context.Context, id domain.ReportID, patch func(*domain.Report) bool) error {
	snap, err := s.Session.Load(ctx)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if snap == nil || snap.Report.ID != id {
		return nil
	}
	if !patch(&snap.Report) {
		return nil
	}
	if err := s.Session.Save(ctx, *snap); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
