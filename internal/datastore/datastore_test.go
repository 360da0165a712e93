package datastore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patiwat/firewatch-go/internal/hotspot"
)

func openTestStore(t *testing.T) (*SQLiteStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "firewatch.db")
	store, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, path
}

func TestLoadFreshDatabaseIsUnprimed(t *testing.T) {
	store, _ := openTestStore(t)

	ids, primed, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, primed)
	assert.Empty(t, ids)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, []string{"a", "b"}))

	ids, primed, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, primed)
	assert.Equal(t, []string{"a", "b"}, ids)
}

func TestSaveReplacesBaseline(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, []string{"a", "b"}))
	require.NoError(t, store.Save(ctx, []string{"c"}))

	ids, primed, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, primed)
	assert.Equal(t, []string{"c"}, ids)
}

func TestEmptyCommitStaysPrimed(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, []string{"a"}))
	require.NoError(t, store.Save(ctx, nil))

	ids, primed, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, primed)
	assert.Empty(t, ids)
}

func TestBaselineSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	store, path := openTestStore(t)
	require.NoError(t, store.Save(ctx, []string{"a"}))
	require.NoError(t, store.Close())

	reopened, err := Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	ids, primed, err := reopened.Load(ctx)
	require.NoError(t, err)
	assert.True(t, primed)
	assert.Equal(t, []string{"a"}, ids)
}

func TestSaveDetectionsHistory(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	detections := []hotspot.Detection{
		{ID: "14.3000_99.0000_202403150630", Latitude: 14.30, Longitude: 99.00, District: "ไทรโยค", Source: "firms:VIIRS_SNPP_NRT"},
		{ID: "14.3100_99.0100_202403150630", Latitude: 14.31, Longitude: 99.01, District: "ไทรโยค", Source: "firms:VIIRS_SNPP_NRT"},
	}
	require.NoError(t, store.SaveDetections(ctx, detections))
	require.NoError(t, store.SaveDetections(ctx, nil))

	rows, err := store.RecentDetections(ctx, 10)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "14.3100_99.0100_202403150630", rows[0].Detection)
	assert.Equal(t, "ไทรโยค", rows[0].District)
}
