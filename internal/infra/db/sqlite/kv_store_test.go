package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/laporkerja/internal/domain/reports"
	"github.com/bryanwahyu/laporkerja/internal/infra/state"
)

func TestKVStore(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	kv := NewKVStore(db)

	_, err = kv.Get(ctx, state.KeySettings)
	assert.ErrorIs(t, err, state.ErrNotFound)

	require.NoError(t, kv.Put(ctx, state.KeySettings, []byte(`{"autoUpload":true}`)))
	require.NoError(t, kv.Put(ctx, state.KeySettings, []byte(`{"autoUpload":false}`)))
	v, err := kv.Get(ctx, state.KeySettings)
	require.NoError(t, err)
	assert.JSONEq(t, `{"autoUpload":false}`, string(v))

	require.NoError(t, kv.Delete(ctx, state.KeySettings))
	_, err = kv.Get(ctx, state.KeySettings)
	assert.ErrorIs(t, err, state.ErrNotFound)
}

func TestSessionSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "laporkerja.db")

	db, err := Open(ctx, path)
	require.NoError(t, err)
	repo := state.NewSessionRepo(NewKVStore(db), nil)
	require.NoError(t, repo.Save(ctx, reports.Snapshot{Report: reports.Report{ID: "r1", Summary: "ok"}}))
	require.NoError(t, db.Close())

	db, err = Open(ctx, path)
	require.NoError(t, err)
	defer db.Close()

	snap, err := state.NewSessionRepo(NewKVStore(db), nil).Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, reports.ReportID("r1"), snap.Report.ID)
}
