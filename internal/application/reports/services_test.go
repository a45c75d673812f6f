package reports

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/bryanwahyu/laporkerja/internal/domain/ai"
	"github.com/bryanwahyu/laporkerja/internal/domain/analysis"
	"github.com/bryanwahyu/laporkerja/internal/domain/media"
	domain "github.com/bryanwahyu/laporkerja/internal/domain/reports"
	"github.com/bryanwahyu/laporkerja/internal/infra/state"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type fakeGateway struct {
	verdict analysis.Verdict
	err     error
	calls   int
}

func (f *fakeGateway) Analyze(_ context.Context, img media.EncodedImage) (analysis.Verdict, error) {
	f.calls++
	if img.MediaType() != media.TypeJPEG {
		return nil, fmt.Errorf("unexpected media type %q", img.MediaType())
	}
	return f.verdict, f.err
}

type recordingListener struct {
	mu      sync.Mutex
	reports []domain.Report
}

func (l *recordingListener) ReportFinalized(_ context.Context, r domain.Report) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reports = append(l.reports, r)
}

func createTestImage(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{R: 90, G: 120, B: 60, A: 255}}, image.Point{}, draw.Src)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func accepted() analysis.Accepted {
	return analysis.Accepted{
		CompletionPercentage: 80,
		Summary:              "Pemasangan keramik lantai 1",
		Details:              []string{"Nat rapi", "Level rata", "Sisa material menumpuk"},
		Recommendation:       "Bersihkan sisa material",
	}
}

type fixture struct {
	svc      *Service
	gateway  *fakeGateway
	history  *state.HistoryRepo
	session  *state.SessionRepo
	listener *recordingListener
}

func newFixture(t *testing.T, v analysis.Verdict, err error) *fixture {
	t.Helper()
	store := state.NewMemoryStore()
	logger := zaptest.NewLogger(t)
	f := &fixture{
		gateway:  &fakeGateway{verdict: v, err: err},
		history:  state.NewHistoryRepo(store, 5, logger),
		session:  state.NewSessionRepo(store, logger),
		listener: &recordingListener{},
	}
	n := 0
	f.svc = &Service{
		Gateway:   f.gateway,
		History:   f.history,
		Session:   f.session,
		Listeners: []domain.Listener{f.listener},
		Clock:     fixedClock{t: time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC)},
		Logger:    logger,
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
	}
	require.NoError(t, f.svc.Start(context.Background()))
	return f
}

func photo(t *testing.T, w, h int) media.RawInput {
	return media.RawInput{Name: "foto.png", MediaType: "image/png", Data: createTestImage(t, w, h)}
}

func TestSubmitAcceptedPersistsHistoryAndSession(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, accepted(), nil)

	view, err := f.svc.Submit(ctx, photo(t, 1920, 1080))
	require.NoError(t, err)
	require.Equal(t, StateSuccess, view.State)
	require.NotNil(t, view.Report)
	assert.Equal(t, 80.0, view.Report.CompletionPercentage)
	assert.Empty(t, view.Report.Location)
	assert.Equal(t, time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC), view.Report.Timestamp)

	items, err := f.history.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, view.Report.ID, items[0].Report.ID)

	snap, err := f.session.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, view.Report.ID, snap.Report.ID)

	assert.Len(t, f.listener.reports, 1)
}

func TestSubmitTooSmallNeverCallsOracle(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, accepted(), nil)

	view, err := f.svc.Submit(ctx, photo(t, 300, 200))
	require.NoError(t, err)
	require.Equal(t, StateError, view.State)
	require.NotNil(t, view.Failure)
	assert.Equal(t, FailureValidation, view.Failure.Kind)
	assert.True(t, view.Failure.Local)
	assert.Contains(t, view.Failure.Message, "300x200")
	assert.Zero(t, f.gateway.calls)

	items, err := f.history.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestSubmitRejectedWritesNothing(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, analysis.Rejected{Reason: "Terdeteksi watermark stock photo"}, nil)

	view, err := f.svc.Submit(ctx, photo(t, 1920, 1080))
	require.NoError(t, err)
	require.Equal(t, StateError, view.State)
	assert.Equal(t, FailureRejected, view.Failure.Kind)
	assert.Equal(t, "Terdeteksi watermark stock photo", view.Failure.Message)
	assert.False(t, view.Failure.Local)

	items, err := f.history.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
	snap, err := f.session.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap)
	assert.Empty(t, f.listener.reports)
}

func TestRepeatedRejectionLeavesHistoryAndSnapshot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, accepted(), nil)

	view, err := f.svc.Submit(ctx, photo(t, 1920, 1080))
	require.NoError(t, err)
	require.Equal(t, StateSuccess, view.State)
	original := *view.Report

	// proses baru di atas store yang sama: snapshot tersedia, belum dipulihkan
	f.gateway.verdict = analysis.Rejected{Reason: "Gambar bukan foto lapangan"}
	restarted := &Service{
		Gateway:   f.gateway,
		History:   f.history,
		Session:   f.session,
		Listeners: []domain.Listener{f.listener},
		Clock:     fixedClock{t: time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)},
		Logger:    zaptest.NewLogger(t),
	}
	require.NoError(t, restarted.Start(ctx))
	require.True(t, restarted.View().RestoreAvailable)

	assertUnchanged := func(wantSnapshot bool) {
		t.Helper()
		items, err := f.history.List(ctx)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, original.ID, items[0].Report.ID)
		assert.Equal(t, original.Summary, items[0].Report.Summary)

		snap, err := f.session.Load(ctx)
		require.NoError(t, err)
		if wantSnapshot {
			require.NotNil(t, snap)
			assert.Equal(t, original.ID, snap.Report.ID)
			assert.Equal(t, original.Image, snap.Report.Image)
		} else {
			assert.Nil(t, snap)
		}
		assert.Len(t, f.listener.reports, 1)
	}

	view, err = restarted.Submit(ctx, photo(t, 1920, 1080))
	require.NoError(t, err)
	require.Equal(t, FailureRejected, view.Failure.Kind)
	assertUnchanged(true)

	// reset menghapus snapshot, riwayat tetap
	require.NoError(t, restarted.Reset(ctx))
	assertUnchanged(false)

	view, err = restarted.Submit(ctx, photo(t, 1920, 1080))
	require.NoError(t, err)
	require.Equal(t, FailureRejected, view.Failure.Kind)
	assertUnchanged(false)
	assert.Equal(t, 3, f.gateway.calls)
}

func TestLoadHistoryReusesUploadedLinkFromSnapshot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, accepted(), nil)

	view, err := f.svc.Submit(ctx, photo(t, 1920, 1080))
	require.NoError(t, err)
	id := view.Report.ID
	require.NoError(t, f.svc.Link(ctx, id, "https://drive.example/foto.jpg"))

	items, err := f.history.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)

	// proses baru membuka laporan yang sama dari riwayat
	restarted := &Service{Gateway: f.gateway, History: f.history, Session: f.session, Logger: zaptest.NewLogger(t)}
	require.NoError(t, restarted.Start(ctx))
	loaded, err := restarted.LoadHistory(ctx, items[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "https://drive.example/foto.jpg", loaded.Report.UploadedLink)

	// riwayat tetap tanpa link
	items, err = f.history.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items[0].Report.UploadedLink)

	// tanpa snapshot tidak ada link yang bisa dipakai ulang
	require.NoError(t, restarted.Reset(ctx))
	loaded, err = restarted.LoadHistory(ctx, items[0].ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.Report.UploadedLink)
}

func TestSubmitRejectedDefaultReason(t *testing.T) {
	f := newFixture(t, analysis.Rejected{}, nil)

	view, err := f.svc.Submit(context.Background(), photo(t, 800, 800))
	require.NoError(t, err)
	assert.Equal(t, analysis.DefaultRejectionReason, view.Failure.Message)
}

func TestSubmitUnreachableUsesGenericMessage(t *testing.T) {
	f := newFixture(t, nil, fmt.Errorf("%w: timeout", ai.ErrUnreachable))

	view, err := f.svc.Submit(context.Background(), photo(t, 800, 800))
	require.NoError(t, err)
	require.Equal(t, StateError, view.State)
	assert.Equal(t, FailureUnreachable, view.Failure.Kind)
	assert.Equal(t, GenericFailureMessage, view.Failure.Message)
}

func TestSubmitOutsideIdleIsRejected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, accepted(), nil)

	_, err := f.svc.Submit(ctx, photo(t, 800, 800))
	require.NoError(t, err)

	_, err = f.svc.Submit(ctx, photo(t, 800, 800))
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Equal(t, 1, f.gateway.calls)
}

func TestResetClearsSessionKeepsHistory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, accepted(), nil)

	_, err := f.svc.Submit(ctx, photo(t, 800, 800))
	require.NoError(t, err)
	require.NoError(t, f.svc.Reset(ctx))

	assert.Equal(t, StateIdle, f.svc.View().State)
	snap, err := f.session.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap)

	items, err := f.history.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestRestoreFromSnapshotAfterRestart(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, accepted(), nil)
	view, err := f.svc.Submit(ctx, photo(t, 800, 800))
	require.NoError(t, err)

	// proses baru dengan store yang sama
	restarted := &Service{
		Gateway: f.gateway,
		History: f.history,
		Session: f.session,
		Logger:  zaptest.NewLogger(t),
	}
	require.NoError(t, restarted.Start(ctx))
	assert.True(t, restarted.View().RestoreAvailable)

	got, err := restarted.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateSuccess, got.State)
	assert.Equal(t, view.Report.ID, got.Report.ID)
	assert.False(t, got.RestoreAvailable)
	assert.Equal(t, 1, f.gateway.calls, "restore never re-analyzes")

	items, err := f.history.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1, "restore never appends history")
}

func TestDismissDeletesSnapshot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, accepted(), nil)
	_, err := f.svc.Submit(ctx, photo(t, 800, 800))
	require.NoError(t, err)

	restarted := &Service{Gateway: f.gateway, History: f.history, Session: f.session}
	require.NoError(t, restarted.Start(ctx))
	require.NoError(t, restarted.Dismiss(ctx))
	assert.False(t, restarted.View().RestoreAvailable)

	_, err = restarted.Restore(ctx)
	assert.ErrorIs(t, err, domain.ErrNoSnapshot)
}

func TestNoRestoreOnFirstRun(t *testing.T) {
	f := newFixture(t, accepted(), nil)
	assert.False(t, f.svc.View().RestoreAvailable)
	assert.Equal(t, StateIdle, f.svc.View().State)
}

func TestLoadHistoryLeavesSessionUntouched(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, accepted(), nil)

	first, err := f.svc.Submit(ctx, photo(t, 800, 800))
	require.NoError(t, err)
	require.NoError(t, f.svc.Reset(ctx))
	second, err := f.svc.Submit(ctx, photo(t, 900, 900))
	require.NoError(t, err)
	require.NoError(t, f.svc.Reset(ctx))

	items, err := f.svc.ListHistory(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, second.Report.ID, items[0].Report.ID)

	view, err := f.svc.LoadHistory(ctx, items[1].ID)
	require.NoError(t, err)
	assert.Equal(t, StateSuccess, view.State)
	assert.Equal(t, first.Report.ID, view.Report.ID)

	snap, err := f.session.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap, "reset cleared it and history load does not write it")

	_, err = f.svc.LoadHistory(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrHistoryNotFound)
}

func TestRelocateAndLinkUpdateSnapshot(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, accepted(), nil)
	view, err := f.svc.Submit(ctx, photo(t, 800, 800))
	require.NoError(t, err)
	id := view.Report.ID

	require.NoError(t, f.svc.Relocate(ctx, id, "Gudang Blok C"))
	require.NoError(t, f.svc.Link(ctx, id, "https://drive.example/1"))
	require.NoError(t, f.svc.Link(ctx, id, "https://drive.example/2"))

	active, err := f.svc.Active()
	require.NoError(t, err)
	assert.Equal(t, "Gudang Blok C", active.Location)
	assert.Equal(t, "https://drive.example/1", active.UploadedLink, "link is set once")

	snap, err := f.session.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Gudang Blok C", snap.Report.Location)
	assert.Equal(t, "https://drive.example/1", snap.Report.UploadedLink)

	items, err := f.history.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items[0].Report.Location, "history items are never mutated")
}

func TestActiveRequiresSuccess(t *testing.T) {
	f := newFixture(t, accepted(), nil)
	_, err := f.svc.Active()
	assert.True(t, errors.Is(err, domain.ErrNoActiveReport))
}
