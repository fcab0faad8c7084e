package engine

import "github.com/google/uuid"

// CurrentPlayer returns the seat holding the turn.
func (g *Game) CurrentPlayer() *Player {
	if len(g.Players) == 0 {
		return nil
	}
	return g.Players[g.CurrentTurnPlayerIndex]
}

// IsPlayersTurn reports whether the given seat holds the turn.
func (g *Game) IsPlayersTurn(playerID uuid.UUID) bool {
	current := g.CurrentPlayer()
	return current != nil && current.ID == playerID
}

// AdvanceTurn moves the turn to the next Playing seat, wrapping in turn
// order and skipping seats that surrendered or won. It never advances a
// finished game. Surrender resolution guarantees at least one Playing seat
// remains whenever this is called on a running game; ErrNoEligiblePlayers is
// the defensive answer if that guarantee is ever broken.
func (g *Game) AdvanceTurn() error {
	if g.Status != GameInProgress {
		return ErrGameNotInProgress
	}

	n := len(g.Players)
	for step := 1; step <= n; step++ {
		idx := (g.CurrentTurnPlayerIndex + step) % n
		if g.Players[idx].Status == PlayerPlaying {
			g.CurrentTurnPlayerIndex = idx
			g.CurrentTurnPhase = PhaseWaitingForRoll
			return nil
		}
	}
	return ErrNoEligiblePlayers
}
