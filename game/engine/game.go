package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/amontoya/sliderace/game/board"
)

var (
	ErrNotEnoughPlayers  = errors.New("not enough players to start a game")
	ErrTooManyPlayers    = errors.New("too many players for one game")
	ErrGameNotInProgress = errors.New("game is not in progress")
	ErrNoEligiblePlayers = errors.New("no eligible player to advance the turn to")
)

// InvalidTransitionError reports a forbidden player status transition.
type InvalidTransitionError struct {
	From PlayerStatus
	To   PlayerStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid player status transition %s -> %s", e.From, e.To)
}

// Seat is the identity a player brings into a new game. Seats come from the
// room collaborator in arrival order.
type Seat struct {
	UserID   uuid.UUID
	Username string
}

// NewGame creates an in-progress game for the given seats: contiguous turn
// orders in arrival order, everyone at position 0 and Playing, turn index 0,
// waiting for the first roll.
func NewGame(roomID uuid.UUID, seats []Seat, b *board.Board) (*Game, error) {
	if len(seats) < MinPlayers {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrNotEnoughPlayers, len(seats), MinPlayers)
	}
	if len(seats) > MaxPlayers {
		return nil, fmt.Errorf("%w: have %d, max %d", ErrTooManyPlayers, len(seats), MaxPlayers)
	}

	g := &Game{
		ID:                     uuid.New(),
		RoomID:                 roomID,
		Status:                 GameInProgress,
		CurrentTurnPlayerIndex: 0,
		CurrentTurnPhase:       PhaseWaitingForRoll,
		CreatedAt:              time.Now().UTC(),
		Board:                  b,
	}

	for i, seat := range seats {
		p := &Player{
			ID:        uuid.New(),
			UserID:    seat.UserID,
			Username:  seat.Username,
			GameID:    g.ID,
			Position:  0,
			TurnOrder: i,
			Status:    PlayerWaiting,
		}
		if err := p.transitionTo(PlayerPlaying); err != nil {
			return nil, err
		}
		g.Players = append(g.Players, p)
	}

	return g, nil
}

// PlayerByUser finds the seat owned by userID, or nil.
func (g *Game) PlayerByUser(userID uuid.UUID) *Player {
	for _, p := range g.Players {
		if p.UserID == userID {
			return p
		}
	}
	return nil
}

// PlayerByID finds a seat by player ID, or nil.
func (g *Game) PlayerByID(playerID uuid.UUID) *Player {
	for _, p := range g.Players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

// PlayingPlayers returns the seats still eligible to act, in turn order.
func (g *Game) PlayingPlayers() []*Player {
	var playing []*Player
	for _, p := range g.Players {
		if p.Status == PlayerPlaying {
			playing = append(playing, p)
		}
	}
	return playing
}

// Winner returns the winning seat, or nil while the game is running.
func (g *Game) Winner() *Player {
	if g.WinnerPlayerID == nil {
		return nil
	}
	return g.PlayerByID(*g.WinnerPlayerID)
}

// finish ends the game with the given winner. Idempotence is the caller's
// concern: every path here is guarded by a Status check first.
func (g *Game) finish(winner *Player) error {
	if err := winner.transitionTo(PlayerWinner); err != nil {
		return err
	}
	g.Status = GameFinished
	g.WinnerPlayerID = &winner.ID
	now := time.Now().UTC()
	g.FinishedAt = &now
	return nil
}

// appendMove records one resolved roll in the audit log.
func (g *Game) appendMove(p *Player, out *MoveOutcome) {
	g.Moves = append(g.Moves, Move{
		ID:       uuid.New(),
		GameID:   g.ID,
		PlayerID: p.ID,
		Roll:     out.Roll,
		From:     out.From,
		To:       out.To,
		Final:    out.Final,
		Outcome:  out.Kind,
		At:       time.Now().UTC(),
	})
}

// Clone returns a deep copy of the aggregate. The store hands out clones so
// a failed mutation can never leak partial state into the authoritative copy.
func (g *Game) Clone() *Game {
	clone := *g

	if g.Board != nil {
		clone.Board = g.Board.Clone()
	}

	clone.Players = make([]*Player, len(g.Players))
	for i, p := range g.Players {
		cp := *p
		clone.Players[i] = &cp
	}

	clone.Moves = make([]Move, len(g.Moves))
	copy(clone.Moves, g.Moves)

	if g.WinnerPlayerID != nil {
		id := *g.WinnerPlayerID
		clone.WinnerPlayerID = &id
	}
	if g.FinishedAt != nil {
		at := *g.FinishedAt
		clone.FinishedAt = &at
	}

	return &clone
}
