package engine

import (
	"time"

	"github.com/google/uuid"

	"github.com/amontoya/sliderace/game/board"
)

// GameStatus is the lifecycle state of one game.
type GameStatus string

const (
	GameInProgress GameStatus = "InProgress"
	GameFinished   GameStatus = "Finished"
)

// PlayerStatus is the lifecycle state of one seat. Transitions are monotone:
// Waiting -> Playing -> Winner or Surrendered, never backwards.
type PlayerStatus string

const (
	PlayerWaiting     PlayerStatus = "Waiting"
	PlayerPlaying     PlayerStatus = "Playing"
	PlayerWinner      PlayerStatus = "Winner"
	PlayerSurrendered PlayerStatus = "Surrendered"
)

// TurnPhase is the sub-state within one player's turn. The phase guards
// exactly-once dice consumption: a roll is only accepted in
// PhaseWaitingForRoll.
type TurnPhase string

const (
	PhaseWaitingForRoll TurnPhase = "WaitingForRoll"
)

// Player limits for one game.
const (
	MinPlayers = 2
	MaxPlayers = 6
)

// Game is the aggregate root for one playthrough: the board, the seated
// players in turn order, and the append-only move log. Version is the
// optimistic-concurrency token bumped by the store on every committed
// mutation.
type Game struct {
	ID                     uuid.UUID    `json:"id"`
	RoomID                 uuid.UUID    `json:"room_id"`
	Status                 GameStatus   `json:"status"`
	CurrentTurnPlayerIndex int          `json:"current_turn_player_index"`
	CurrentTurnPhase       TurnPhase    `json:"current_turn_phase"`
	WinnerPlayerID         *uuid.UUID   `json:"winner_player_id,omitempty"`
	CreatedAt              time.Time    `json:"created_at"`
	FinishedAt             *time.Time   `json:"finished_at,omitempty"`
	Version                uint64       `json:"version"`
	Board                  *board.Board `json:"board"`
	Players                []*Player    `json:"players"`
	Moves                  []Move       `json:"moves"`
}

// Player is a user's seat inside one game.
type Player struct {
	ID        uuid.UUID    `json:"id"`
	UserID    uuid.UUID    `json:"user_id"`
	Username  string       `json:"username"`
	GameID    uuid.UUID    `json:"game_id"`
	Position  int          `json:"position"`
	TurnOrder int          `json:"turn_order"`
	Status    PlayerStatus `json:"status"`
}

// Move is one audit record per resolved roll.
type Move struct {
	ID       uuid.UUID   `json:"id"`
	GameID   uuid.UUID   `json:"game_id"`
	PlayerID uuid.UUID   `json:"player_id"`
	Roll     int         `json:"roll"`
	From     int         `json:"from"`
	To       int         `json:"to"`
	Final    int         `json:"final"`
	Outcome  OutcomeKind `json:"outcome"`
	At       time.Time   `json:"at"`
}

// OutcomeKind tags how a roll resolved.
type OutcomeKind string

const (
	OutcomeNormal    OutcomeKind = "normal"
	OutcomeDescender OutcomeKind = "descender"
	OutcomeAscender  OutcomeKind = "ascender"
	OutcomeOvershoot OutcomeKind = "overshoot"
	OutcomeWin       OutcomeKind = "win"
)

// MoveOutcome is the result of resolving one roll.
type MoveOutcome struct {
	Roll    int         `json:"roll"`
	From    int         `json:"from"`
	To      int         `json:"to"`
	Final   int         `json:"final"`
	Kind    OutcomeKind `json:"kind"`
	Message string      `json:"message"`
	Winner  bool        `json:"winner"`
}

// SurrenderOutcome describes what a surrender did to the game.
type SurrenderOutcome struct {
	Finished bool
	Winner   *Player
}

// transitionTo enforces the monotone player state machine. Adding a status
// without extending this switch is a visible omission point.
func (p *Player) transitionTo(next PlayerStatus) error {
	allowed := false
	switch p.Status {
	case PlayerWaiting:
		allowed = next == PlayerPlaying
	case PlayerPlaying:
		allowed = next == PlayerWinner || next == PlayerSurrendered
	case PlayerWinner, PlayerSurrendered:
		allowed = false
	}
	if !allowed {
		return &InvalidTransitionError{From: p.Status, To: next}
	}
	p.Status = next
	return nil
}
