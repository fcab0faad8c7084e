package store

import (
	"github.com/google/uuid"

	"github.com/amontoya/sliderace/game/engine"
)

// Persistence mirrors committed game states to durable storage so a restart
// can pick up running games.
type Persistence interface {
	// Save writes one committed game state.
	Save(g *engine.Game) error

	// Load reads a game back by ID.
	Load(id uuid.UUID) (*engine.Game, error)

	// Delete removes a persisted game.
	Delete(id uuid.UUID) error

	// ListAll returns the IDs of every persisted game.
	ListAll() ([]uuid.UUID, error)

	// Exists reports whether a game is persisted.
	Exists(id uuid.UUID) bool
}
