package store

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amontoya/sliderace/game/board"
	"github.com/amontoya/sliderace/game/engine"
)

func newTestGame(t *testing.T) *engine.Game {
	t.Helper()
	b := board.New(100,
		[]board.Feature{{From: 43, To: 12}},
		[]board.Feature{{From: 7, To: 31}},
	)
	g, err := engine.NewGame(uuid.New(), []engine.Seat{
		{UserID: uuid.New(), Username: "alice"},
		{UserID: uuid.New(), Username: "bob"},
	}, b)
	require.NoError(t, err)
	return g
}

func TestRegistryInsertAndGet(t *testing.T) {
	r := NewRegistry()
	g := newTestGame(t)

	require.NoError(t, r.Insert(g))
	assert.Equal(t, uint64(1), g.Version)

	got, err := r.Get(g.ID)
	require.NoError(t, err)
	assert.Equal(t, g.ID, got.ID)
	assert.Equal(t, uint64(1), got.Version)

	// The clone is private: mutating it does not touch the stored copy.
	got.Players[0].Position = 42
	again, err := r.Get(g.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, again.Players[0].Position)

	require.ErrorIs(t, r.Insert(g), ErrGameAlreadyExists)

	_, err = r.Get(uuid.New())
	require.ErrorIs(t, err, ErrGameNotFound)
}

func TestRegistrySaveVersionCheck(t *testing.T) {
	r := NewRegistry()
	g := newTestGame(t)
	require.NoError(t, r.Insert(g))

	first, err := r.Get(g.ID)
	require.NoError(t, err)
	second, err := r.Get(g.ID)
	require.NoError(t, err)

	first.Players[0].Position = 10
	require.NoError(t, r.Save(first))

	// The second clone is now stale and must be rejected.
	second.Players[0].Position = 99
	require.ErrorIs(t, r.Save(second), ErrVersionConflict)

	stored, err := r.Get(g.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, stored.Players[0].Position)
	assert.Equal(t, uint64(2), stored.Version)
}

func TestRegistrySaveUnknownGame(t *testing.T) {
	r := NewRegistry()
	require.ErrorIs(t, r.Save(newTestGame(t)), ErrGameNotFound)
}

func TestRegistryConcurrentSaves(t *testing.T) {
	r := NewRegistry()
	g := newTestGame(t)
	require.NoError(t, r.Insert(g))

	// With the version check, exactly one of two racing commits per round
	// wins; total committed versions stay consistent.
	const rounds = 20
	for i := 0; i < rounds; i++ {
		a, err := r.Get(g.ID)
		require.NoError(t, err)
		b, err := r.Get(g.ID)
		require.NoError(t, err)

		var wg sync.WaitGroup
		results := make(chan error, 2)
		for _, clone := range []*engine.Game{a, b} {
			wg.Add(1)
			go func(c *engine.Game) {
				defer wg.Done()
				c.Players[0].Position++
				results <- r.Save(c)
			}(clone)
		}
		wg.Wait()
		close(results)

		wins, losses := 0, 0
		for err := range results {
			if err == nil {
				wins++
			} else {
				require.ErrorIs(t, err, ErrVersionConflict)
				losses++
			}
		}
		assert.Equal(t, 1, wins)
		assert.Equal(t, 1, losses)
	}

	final, err := r.Get(g.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(1+rounds), final.Version)
	assert.Equal(t, rounds, final.Players[0].Position)
}

func TestRegistryListAndDelete(t *testing.T) {
	r := NewRegistry()
	g1, g2 := newTestGame(t), newTestGame(t)
	require.NoError(t, r.Insert(g1))
	require.NoError(t, r.Insert(g2))

	assert.Len(t, r.List(), 2)
	assert.Equal(t, 2, r.Count())

	require.NoError(t, r.Delete(g1.ID))
	assert.Equal(t, 1, r.Count())
	require.ErrorIs(t, r.Delete(g1.ID), ErrGameNotFound)
}

func TestRegistryCleanupFinished(t *testing.T) {
	r := NewRegistry()

	fresh := newTestGame(t)
	require.NoError(t, r.Insert(fresh))

	stale := newTestGame(t)
	stale.Status = engine.GameFinished
	old := time.Now().Add(-2 * time.Hour)
	stale.FinishedAt = &old
	require.NoError(t, r.Insert(stale))

	justFinished := newTestGame(t)
	justFinished.Status = engine.GameFinished
	now := time.Now()
	justFinished.FinishedAt = &now
	require.NoError(t, r.Insert(justFinished))

	removed := r.CleanupFinished(time.Hour)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 2, r.Count())

	_, err := r.Get(stale.ID)
	require.ErrorIs(t, err, ErrGameNotFound)
}

func TestRegistryPersistenceRoundTrip(t *testing.T) {
	dir := t.TempDir()
	fp, err := NewFilePersistence(dir)
	require.NoError(t, err)

	r := NewRegistryWithPersistence(fp)
	g := newTestGame(t)
	require.NoError(t, r.Insert(g))

	clone, err := r.Get(g.ID)
	require.NoError(t, err)
	clone.Players[0].Position = 43
	require.NoError(t, r.Save(clone))

	// A second registry over the same directory sees the committed state.
	r2 := NewRegistryWithPersistence(fp)
	require.NoError(t, r2.LoadPersisted())
	assert.Equal(t, 1, r2.Count())

	loaded, err := r2.Get(g.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), loaded.Version)
	assert.Equal(t, 43, loaded.Players[0].Position)
	assert.Equal(t, "alice", loaded.Players[0].Username)

	// The board index survives the round trip.
	target, ok := loaded.Board.DescenderTargetAt(43)
	require.True(t, ok)
	assert.Equal(t, 12, target)
}

func TestRegistryGetFallsBackToPersistence(t *testing.T) {
	dir := t.TempDir()
	fp, err := NewFilePersistence(dir)
	require.NoError(t, err)

	g := newTestGame(t)
	g.Version = 1
	require.NoError(t, fp.Save(g))

	// Nothing loaded up front; Get should hit the file.
	r := NewRegistryWithPersistence(fp)
	loaded, err := r.Get(g.ID)
	require.NoError(t, err)
	assert.Equal(t, g.ID, loaded.ID)
	assert.Equal(t, 1, r.Count())
}

func TestFilePersistence(t *testing.T) {
	fp, err := NewFilePersistence(t.TempDir())
	require.NoError(t, err)

	g := newTestGame(t)

	assert.False(t, fp.Exists(g.ID))
	require.NoError(t, fp.Save(g))
	assert.True(t, fp.Exists(g.ID))

	ids, err := fp.ListAll()
	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.Equal(t, g.ID, ids[0])

	require.NoError(t, fp.Delete(g.ID))
	assert.False(t, fp.Exists(g.ID))
	require.ErrorIs(t, fp.Delete(g.ID), ErrGameNotFound)

	_, err = fp.Load(g.ID)
	require.ErrorIs(t, err, ErrGameNotFound)
}
