package cart

import (
	"encoding/json"
	"math/rand"
	"testing"

	"GiftRegistryAPI/client/catalog"
	"GiftRegistryAPI/client/localstore"

	"github.com/stretchr/testify/require"
)

func toaster() catalog.Present {
	return catalog.Present{ID: "p1", Name: "Toaster", Price: 500, Category: "Kitchen"}
}

func vase() catalog.Present {
	return catalog.Present{ID: "p2", Name: "Vase", Price: 800, Category: "Decoration"}
}

func TestAddRejectsDuplicatePresent(t *testing.T) {
	s := NewStore(nil)

	require.True(t, s.Add(toaster()))
	require.False(t, s.Add(toaster()))

	snap := s.Snapshot()
	require.Len(t, snap.Items, 1)
	require.Equal(t, 1, snap.ItemCount)
	require.Equal(t, int64(500), snap.Total)
}

func TestRemoveUnknownEntryIsNoOp(t *testing.T) {
	s := NewStore(nil)
	s.Add(toaster())

	s.Remove("no-such-entry")
	require.Equal(t, 1, s.Count())

	s.Remove(s.Snapshot().Items[0].ID)
	require.Zero(t, s.Count())
	require.Zero(t, s.Total())
}

func TestClearEmptiesCart(t *testing.T) {
	s := NewStore(nil)
	s.Add(toaster())
	s.Add(vase())

	s.Clear()
	snap := s.Snapshot()
	require.Empty(t, snap.Items)
	require.Zero(t, snap.Total)
	require.Zero(t, snap.ItemCount)
}

// Total must equal the sum of item prices after any sequence of adds and
// removes.
func TestTotalMatchesItemSum(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	s := NewStore(nil)

	pool := []catalog.Present{
		{ID: "a", Name: "A", Price: 100},
		{ID: "b", Name: "B", Price: 250},
		{ID: "c", Name: "C", Price: 999},
		{ID: "d", Name: "D", Price: 1},
	}

	for i := 0; i < 200; i++ {
		if rng.Intn(2) == 0 {
			s.Add(pool[rng.Intn(len(pool))])
		} else if items := s.Snapshot().Items; len(items) > 0 {
			s.Remove(items[rng.Intn(len(items))].ID)
		}

		snap := s.Snapshot()
		var want int64
		for _, it := range snap.Items {
			want += it.Price * int64(it.Quantity)
		}
		require.Equal(t, want, snap.Total)
		require.Equal(t, len(snap.Items), snap.ItemCount)
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	dir := t.TempDir()
	storage, err := localstore.Open(dir)
	require.NoError(t, err)

	s := NewStore(storage)
	s.Add(toaster())
	s.Add(vase())

	restored := NewStore(storage)
	snap := restored.Snapshot()
	require.Len(t, snap.Items, 2)
	require.Equal(t, int64(1300), snap.Total)
	require.Equal(t, []string{"p1", "p2"}, restored.PresentIDs())
}

func TestRestoreFromCorruptStorage(t *testing.T) {
	storage, err := localstore.Open(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, storage.Set(storageKey, "not a list"))

	s := NewStore(storage)
	require.Zero(t, s.Count())
}

func TestRestoreFiltersInvalidEntries(t *testing.T) {
	storage, err := localstore.Open(t.TempDir())
	require.NoError(t, err)

	entries := []json.RawMessage{
		json.RawMessage(`{"id":"e1","presentId":"p1","name":"Toaster","price":500,"quantity":3}`),
		json.RawMessage(`{"id":"e2","presentId":"","name":"Ghost","price":100,"quantity":1}`),
		json.RawMessage(`{"id":"e3","presentId":"p3","name":"Vase","price":"free","quantity":1}`),
		json.RawMessage(`{"id":"e4","presentId":"p4","name":"","price":100,"quantity":1}`),
		json.RawMessage(`{"id":"e5","presentId":"p1","name":"Toaster again","price":500,"quantity":1}`),
	}
	require.NoError(t, storage.Set(storageKey, entries))

	s := NewStore(storage)
	snap := s.Snapshot()
	require.Len(t, snap.Items, 1)
	require.Equal(t, "p1", snap.Items[0].PresentID)
	require.Equal(t, 1, snap.Items[0].Quantity)
	require.Equal(t, int64(500), snap.Total)
}
