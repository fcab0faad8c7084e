package store

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/amontoya/sliderace/game/engine"
)

var (
	ErrGameNotFound      = errors.New("game not found")
	ErrGameAlreadyExists = errors.New("game already exists")
	ErrVersionConflict   = errors.New("game was modified concurrently")
)

// Registry is the authoritative in-memory home of every game aggregate.
//
// It never hands out its own pointers: Get and List return deep clones, and
// Save commits a mutated clone back only if its version still matches the
// stored one. A caller that loses the race gets ErrVersionConflict and
// reloads; the authoritative copy is never left half-mutated.
type Registry struct {
	games       map[uuid.UUID]*engine.Game
	persistence Persistence
	mu          sync.RWMutex
}

// NewRegistry creates a registry without persistence.
func NewRegistry() *Registry {
	return &Registry{
		games: make(map[uuid.UUID]*engine.Game),
	}
}

// NewRegistryWithPersistence creates a registry that mirrors every committed
// state to the given persistence layer.
func NewRegistryWithPersistence(persistence Persistence) *Registry {
	return &Registry{
		games:       make(map[uuid.UUID]*engine.Game),
		persistence: persistence,
	}
}

// Insert registers a freshly created game at version 1.
func (r *Registry) Insert(g *engine.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.games[g.ID]; exists {
		return ErrGameAlreadyExists
	}

	g.Version = 1
	stored := g.Clone()
	r.games[g.ID] = stored
	r.persist(stored)
	return nil
}

// Get returns a deep clone of the game, loading it from persistence if it is
// not in memory. Mutating the clone has no effect until Save commits it.
func (r *Registry) Get(id uuid.UUID) (*engine.Game, error) {
	r.mu.RLock()
	g, exists := r.games[id]
	r.mu.RUnlock()

	if exists {
		return g.Clone(), nil
	}

	if r.persistence != nil && r.persistence.Exists(id) {
		loaded, err := r.persistence.Load(id)
		if err != nil {
			return nil, fmt.Errorf("failed to load persisted game: %w", err)
		}

		r.mu.Lock()
		// Another goroutine may have loaded it first; keep the stored copy.
		if g, exists := r.games[id]; exists {
			r.mu.Unlock()
			return g.Clone(), nil
		}
		r.games[id] = loaded
		r.mu.Unlock()

		return loaded.Clone(), nil
	}

	return nil, ErrGameNotFound
}

// Save commits a mutated clone. It succeeds only if the stored version still
// equals the clone's version, bumping the version on commit.
func (r *Registry) Save(g *engine.Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, exists := r.games[g.ID]
	if !exists {
		return ErrGameNotFound
	}
	if stored.Version != g.Version {
		return fmt.Errorf("%w: stored version %d, caller has %d", ErrVersionConflict, stored.Version, g.Version)
	}

	committed := g.Clone()
	committed.Version = g.Version + 1
	r.games[g.ID] = committed
	r.persist(committed)
	return nil
}

// List returns clones of every game in memory.
func (r *Registry) List() []*engine.Game {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*engine.Game, 0, len(r.games))
	for _, g := range r.games {
		result = append(result, g.Clone())
	}
	return result
}

// Delete removes a game from memory and persistence.
func (r *Registry) Delete(id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, inMemory := r.games[id]
	delete(r.games, id)

	if r.persistence != nil && r.persistence.Exists(id) {
		if err := r.persistence.Delete(id); err != nil {
			return fmt.Errorf("failed to delete persisted game: %w", err)
		}
		return nil
	}

	if !inMemory {
		return ErrGameNotFound
	}
	return nil
}

// Count returns the number of games in memory.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.games)
}

// CleanupFinished drops finished games whose FinishedAt is older than maxAge
// and returns how many were removed. Persisted copies are removed too, so a
// restart does not resurrect them.
func (r *Registry) CleanupFinished(maxAge time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	removed := 0

	for id, g := range r.games {
		if g.Status != engine.GameFinished || g.FinishedAt == nil || !g.FinishedAt.Before(cutoff) {
			continue
		}
		delete(r.games, id)
		removed++

		if r.persistence != nil && r.persistence.Exists(id) {
			if err := r.persistence.Delete(id); err != nil {
				log.Warn().Err(err).Str("game_id", id.String()).Msg("failed to delete persisted game during cleanup")
			}
		}
	}

	return removed
}

// LoadPersisted loads every persisted game into memory, skipping games that
// are already loaded and files that fail to parse.
func (r *Registry) LoadPersisted() error {
	if r.persistence == nil {
		return nil
	}

	ids, err := r.persistence.ListAll()
	if err != nil {
		return fmt.Errorf("failed to list persisted games: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	loaded := 0
	for _, id := range ids {
		if _, exists := r.games[id]; exists {
			continue
		}

		g, err := r.persistence.Load(id)
		if err != nil {
			log.Warn().Err(err).Str("game_id", id.String()).Msg("skipping unreadable persisted game")
			continue
		}

		r.games[id] = g
		loaded++
	}

	if loaded > 0 {
		log.Info().Int("count", loaded).Msg("loaded persisted games")
	}
	return nil
}

// persist mirrors a committed state to storage. Persistence failures are
// logged, not returned: the in-memory commit already happened.
func (r *Registry) persist(g *engine.Game) {
	if r.persistence == nil {
		return
	}
	if err := r.persistence.Save(g); err != nil {
		log.Warn().Err(err).Str("game_id", g.ID.String()).Msg("failed to persist game")
	}
}
