package novelty

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patiwat/firewatch-go/internal/hotspot"
)

func det(ids ...string) []hotspot.Detection {
	out := make([]hotspot.Detection, 0, len(ids))
	for _, id := range ids {
		out = append(out, hotspot.Detection{ID: id})
	}
	return out
}

func TestDiffColdStartReturnsAll(t *testing.T) {
	tr := NewTracker(nil)

	assert.False(t, tr.Primed())
	novel := tr.Diff(det("a", "b", "c"))
	assert.Len(t, novel, 3)
}

func TestDiffAfterCommitIsEmpty(t *testing.T) {
	tr := NewTracker(nil)
	observed := det("a", "b")

	require.NoError(t, tr.Commit(context.Background(), observed))
	assert.True(t, tr.Primed())
	assert.Empty(t, tr.Diff(observed))
}

func TestDiffPreservesOrder(t *testing.T) {
	tr := NewTracker(nil)
	require.NoError(t, tr.Commit(context.Background(), det("b")))

	novel := tr.Diff(det("a", "b", "c"))
	require.Len(t, novel, 2)
	assert.Equal(t, "a", novel[0].ID)
	assert.Equal(t, "c", novel[1].ID)
}

func TestCommitReplacesNotMerges(t *testing.T) {
	tr := NewTracker(nil)
	ctx := context.Background()

	require.NoError(t, tr.Commit(ctx, det("a", "b")))
	require.NoError(t, tr.Commit(ctx, det("b", "c")))

	// "a" aged out of the baseline, so its reappearance is novel again.
	novel := tr.Diff(det("a", "b", "c"))
	require.Len(t, novel, 1)
	assert.Equal(t, "a", novel[0].ID)
	assert.Equal(t, 2, tr.KnownCount())
}

func TestDiffDoesNotMutateState(t *testing.T) {
	tr := NewTracker(nil)
	require.NoError(t, tr.Commit(context.Background(), det("a")))

	incoming := det("a", "b")
	first := tr.Diff(incoming)
	second := tr.Diff(incoming)
	assert.Equal(t, first, second)
}

func TestRestoreFromStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	require.NoError(t, store.Save(ctx, []string{"a", "b"}))

	tr := NewTracker(store)
	require.NoError(t, tr.Restore(ctx))

	assert.True(t, tr.Primed())
	novel := tr.Diff(det("a", "b", "c"))
	require.Len(t, novel, 1)
	assert.Equal(t, "c", novel[0].ID)
}

func TestRestoreUnprimedStore(t *testing.T) {
	tr := NewTracker(NewMemStore())
	require.NoError(t, tr.Restore(context.Background()))
	assert.False(t, tr.Primed())
}

type failingStore struct{}

func (failingStore) Load(context.Context) ([]string, bool, error) {
	return nil, false, fmt.Errorf("disk gone")
}

func (failingStore) Save(context.Context, []string) error {
	return fmt.Errorf("disk gone")
}

func TestCommitSaveFailureKeepsOldBaseline(t *testing.T) {
	tr := NewTracker(failingStore{})

	err := tr.Commit(context.Background(), det("a"))
	require.Error(t, err)
	assert.False(t, tr.Primed())
	assert.Len(t, tr.Diff(det("a")), 1)
}

func TestCommitPersistsToStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	tr := NewTracker(store)

	require.NoError(t, tr.Commit(ctx, det("a", "b")))

	ids, primed, err := store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, primed)
	assert.Equal(t, []string{"a", "b"}, ids)
}
