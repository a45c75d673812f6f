package delivery

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/bryanwahyu/laporkerja/internal/application"
	domain "github.com/bryanwahyu/laporkerja/internal/domain/delivery"
	"github.com/bryanwahyu/laporkerja/internal/domain/reports"
	"github.com/bryanwahyu/laporkerja/internal/domain/settings"
)

const (
	// DefaultLocateTimeout batas waktu geolocation
	DefaultLocateTimeout = 10 * time.Second
	// DefaultUploadTimeout batas waktu satu upload
	DefaultUploadTimeout = 60 * time.Second
)

// Service orkestrasi channel delivery untuk laporan final.
// Semua field capability opsional; nil = tidak tersedia di platform ini.
type Service struct {
	Settings  settings.Repository
	Uploads   domain.UploaderResolver
	Records   reports.RecordRepository
	Tracker   reports.Tracker
	Clipboard domain.Clipboard
	Opener    domain.Opener
	Sharer    domain.Sharer
	Locator   domain.Locator
	Renderer  domain.Renderer
	Clock     application.Clock
	Logger    *zap.Logger

	LocateTimeout time.Duration
	UploadTimeout time.Duration

	mu       sync.Mutex
	sessions map[reports.ReportID]*session
	flight   singleflight.Group
	wg       sync.WaitGroup
}

func (s *Service) log() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *Service) now() time.Time {
	if s.Clock == nil {
		return time.Now()
	}
	return s.Clock.Now()
}

// Wait tunggu task background (auto-upload, auto-locate) selesai
func (s *Service) Wait() { s.wg.Wait() }

func (s *Service) background(ctx context.Context, fn func(context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn(context.WithoutCancel(ctx))
	}()
}

// session ambil/buat state delivery laporan. Laporan baru tanpa lokasi
// langsung dicoba geolocation sekali di background.
func (s *Service) session(ctx context.Context, r reports.Report) *session {
	s.mu.Lock()
	if s.sessions == nil {
		s.sessions = make(map[reports.ReportID]*session)
	}
	sess, ok := s.sessions[r.ID]
	if !ok {
		sess = newSession(r.Location, r.UploadedLink)
		s.sessions[r.ID] = sess
	}
	s.mu.Unlock()

	if s.Locator != nil && sess.currentLocation() == "" {
		sess.autoLocate.Do(func() {
			s.background(ctx, func(ctx context.Context) {
				s.detect(ctx, r.ID, sess, true)
			})
		})
	}
	return sess
}

// Open siapkan state delivery laporan (dipanggil saat laporan ditampilkan)
func (s *Service) Open(ctx context.Context, r reports.Report) {
	s.session(ctx, r)
}

// ReportFinalized hook dari lifecycle: auto-upload sekali kalau diaktifkan
func (s *Service) ReportFinalized(ctx context.Context, r reports.Report) {
	sess := s.session(ctx, r)

	st, err := s.loadSettings(ctx)
	if err != nil || !st.AutoUpload {
		return
	}
	up, ok := s.resolve(st)
	if !ok {
		return
	}
	sess.autoUpload.Do(func() {
		s.background(ctx, func(ctx context.Context) {
			if _, err := s.ensureLink(ctx, r, sess, up); err != nil {
				s.log().Warn("auto upload failed", zap.String("report_id", string(r.ID)), zap.Error(err))
			}
		})
	})
}

func (s *Service) loadSettings(ctx context.Context) (settings.Settings, error) {
	if s.Settings == nil {
		return settings.Settings{}, nil
	}
	st, err := s.Settings.Load(ctx)
	if err != nil {
		s.log().Warn("load settings", zap.Error(err))
		return settings.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	return st, nil
}

func (s *Service) resolve(st settings.Settings) (domain.Uploader, bool) {
	if s.Uploads == nil {
		return nil, false
	}
	return s.Uploads.Resolve(st)
}

// Location lokasi terkini laporan
func (s *Service) Location(ctx context.Context, r reports.Report) string {
	return s.session(ctx, r).currentLocation()
}

// Link link upload laporan kalau sudah ada
func (s *Service) Link(ctx context.Context, r reports.Report) string {
	return s.session(ctx, r).currentLink()
}

// Relocate isian lokasi dari user, menimpa apa pun
func (s *Service) Relocate(ctx context.Context, r reports.Report, location string) error {
	sess := s.session(ctx, r)
	sess.setLocation(location)
	if s.Tracker != nil {
		if err := s.Tracker.Relocate(ctx, r.ID, location); err != nil {
			return fmt.Errorf("track location: %w", err)
		}
	}
	return nil
}

// Locate deteksi ulang lokasi secara manual. Gagal = lokasi tidak berubah.
func (s *Service) Locate(ctx context.Context, r reports.Report) (string, bool) {
	sess := s.session(ctx, r)
	ok := s.detect(ctx, r.ID, sess, false)
	return sess.currentLocation(), ok
}

func (s *Service) detect(ctx context.Context, id reports.ReportID, sess *session, auto bool) bool {
	if s.Locator == nil {
		return false
	}
	timeout := s.LocateTimeout
	if timeout <= 0 {
		timeout = DefaultLocateTimeout
	}
	lctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	lat, lon, err := s.Locator.Locate(lctx)
	if err != nil {
		s.log().Info("geolocation unavailable", zap.String("report_id", string(id)), zap.Error(err))
		return false
	}
	loc := reports.FormatCoordinates(lat, lon)
	if !sess.detectedLocation(loc, auto) {
		return false
	}
	if s.Tracker != nil {
		if err := s.Tracker.Relocate(ctx, id, loc); err != nil {
			s.log().Warn("track location", zap.String("report_id", string(id)), zap.Error(err))
		}
	}
	return true
}
