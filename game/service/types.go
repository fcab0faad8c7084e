package service

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/amontoya/sliderace/game/board"
	"github.com/amontoya/sliderace/game/engine"
	"github.com/amontoya/sliderace/game/lobby"
)

var (
	ErrPlayerNotInGame  = errors.New("player is not part of this game")
	ErrNotPlayersTurn   = errors.New("it is not this player's turn")
	ErrNotExpectingRoll = errors.New("the game is not waiting for a roll")
	ErrUserNotInRoom    = errors.New("user is not seated in this room")
	ErrTooManyRetries   = errors.New("gave up after repeated concurrent modifications")
)

// RoomInfo is the transport view of a lobby room.
type RoomInfo struct {
	ID        uuid.UUID    `json:"id"`
	Name      string       `json:"name"`
	Status    string       `json:"status"`
	Capacity  int          `json:"capacity"`
	RulesID   string       `json:"rules_id,omitempty"`
	Seats     []lobby.Seat `json:"seats"`
	GameID    *uuid.UUID   `json:"game_id,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// PlayerState is one seat in a game snapshot.
type PlayerState struct {
	PlayerID  uuid.UUID `json:"player_id"`
	UserID    uuid.UUID `json:"user_id"`
	Username  string    `json:"username"`
	Position  int       `json:"position"`
	TurnOrder int       `json:"turn_order"`
	Status    string    `json:"status"`
}

// GameState is a complete read-only snapshot of one game, safe to serialize
// straight onto the wire.
type GameState struct {
	GameID              uuid.UUID       `json:"game_id"`
	RoomID              uuid.UUID       `json:"room_id"`
	Status              string          `json:"status"`
	BoardSize           int             `json:"board_size"`
	Descenders          []board.Feature `json:"descenders"`
	Ascenders           []board.Feature `json:"ascenders"`
	Players             []PlayerState   `json:"players"`
	CurrentTurnPlayerID *uuid.UUID      `json:"current_turn_player_id,omitempty"`
	CurrentTurnPhase    string          `json:"current_turn_phase"`
	WinnerPlayerID      *uuid.UUID      `json:"winner_player_id,omitempty"`
	WinnerName          string          `json:"winner_name,omitempty"`
	MoveCount           int             `json:"move_count"`
	CreatedAt           time.Time       `json:"created_at"`
	FinishedAt          *time.Time      `json:"finished_at,omitempty"`
	Version             uint64          `json:"version"`
}

// MoveResult reports one resolved roll.
type MoveResult struct {
	GameID        uuid.UUID  `json:"game_id"`
	PlayerID      uuid.UUID  `json:"player_id"`
	DiceValue     int        `json:"dice_value"`
	FromPosition  int        `json:"from_position"`
	ToPosition    int        `json:"to_position"`
	FinalPosition int        `json:"final_position"`
	SpecialEvent  string     `json:"special_event"`
	Message       string     `json:"message"`
	IsWinner      bool       `json:"is_winner"`
	GameState     *GameState `json:"game_state"`
}

// SurrenderResult reports what a surrender did to the game.
type SurrenderResult struct {
	GameID         uuid.UUID  `json:"game_id"`
	PlayerID       uuid.UUID  `json:"player_id"`
	GameFinished   bool       `json:"game_finished"`
	WinnerPlayerID *uuid.UUID `json:"winner_player_id,omitempty"`
	WinnerName     string     `json:"winner_name,omitempty"`
	Reason         string     `json:"reason,omitempty"`
	GameState      *GameState `json:"game_state"`
}

// MoveLogEntry is one audit-log record.
type MoveLogEntry struct {
	ID            uuid.UUID `json:"id"`
	PlayerID      uuid.UUID `json:"player_id"`
	Username      string    `json:"username"`
	DiceValue     int       `json:"dice_value"`
	FromPosition  int       `json:"from_position"`
	ToPosition    int       `json:"to_position"`
	FinalPosition int       `json:"final_position"`
	SpecialEvent  string    `json:"special_event"`
	At            time.Time `json:"at"`
}

// MoveLogOptions controls move-log pagination. Order is "asc" or "desc";
// desc (most recent first) is the default.
type MoveLogOptions struct {
	Page  int
	Limit int
	Order string
}

// MoveLogPage is one page of the move log.
type MoveLogPage struct {
	Moves       []MoveLogEntry `json:"moves"`
	TotalMoves  int            `json:"total_moves"`
	Page        int            `json:"page"`
	PageSize    int            `json:"page_size"`
	TotalPages  int            `json:"total_pages"`
	HasNext     bool           `json:"has_next"`
	HasPrevious bool           `json:"has_previous"`
}

func snapshotGame(g *engine.Game) *GameState {
	state := &GameState{
		GameID:           g.ID,
		RoomID:           g.RoomID,
		Status:           string(g.Status),
		CurrentTurnPhase: string(g.CurrentTurnPhase),
		MoveCount:        len(g.Moves),
		CreatedAt:        g.CreatedAt,
		Version:          g.Version,
	}

	if g.Board != nil {
		state.BoardSize = g.Board.Size
		state.Descenders = append([]board.Feature{}, g.Board.Descenders...)
		state.Ascenders = append([]board.Feature{}, g.Board.Ascenders...)
	}

	for _, p := range g.Players {
		state.Players = append(state.Players, PlayerState{
			PlayerID:  p.ID,
			UserID:    p.UserID,
			Username:  p.Username,
			Position:  p.Position,
			TurnOrder: p.TurnOrder,
			Status:    string(p.Status),
		})
	}

	if g.Status == engine.GameInProgress {
		if current := g.CurrentPlayer(); current != nil {
			id := current.ID
			state.CurrentTurnPlayerID = &id
		}
	}
	if g.WinnerPlayerID != nil {
		id := *g.WinnerPlayerID
		state.WinnerPlayerID = &id
		if winner := g.Winner(); winner != nil {
			state.WinnerName = winner.Username
		}
	}
	if g.FinishedAt != nil {
		at := *g.FinishedAt
		state.FinishedAt = &at
	}

	return state
}

func roomInfo(r *lobby.Room) *RoomInfo {
	return &RoomInfo{
		ID:        r.ID,
		Name:      r.Name,
		Status:    string(r.Status),
		Capacity:  r.Capacity,
		RulesID:   r.RulesID,
		Seats:     r.Seats,
		GameID:    r.GameID,
		CreatedAt: r.CreatedAt,
	}
}
