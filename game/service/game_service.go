package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/amontoya/sliderace/game/board"
	"github.com/amontoya/sliderace/game/config"
	"github.com/amontoya/sliderace/game/engine"
	"github.com/amontoya/sliderace/game/lobby"
)

// GameService is the single entry point for every player-facing operation.
// Transports (REST, websocket, MCP) translate requests into these calls and
// never touch the engine or stores directly.
type GameService interface {
	// Rooms
	CreateRoom(ctx context.Context, name string, capacity int, rulesID string, userID uuid.UUID, username string) (*RoomInfo, error)
	JoinRoom(ctx context.Context, roomID, userID uuid.UUID, username string) (*RoomInfo, error)
	LeaveRoom(ctx context.Context, roomID, userID uuid.UUID) (*RoomInfo, error)
	GetRoom(ctx context.Context, roomID uuid.UUID) (*RoomInfo, error)
	ListRooms(ctx context.Context) ([]*RoomInfo, error)

	// Game lifecycle
	StartGame(ctx context.Context, roomID, userID uuid.UUID) (*GameState, error)
	RollAndMove(ctx context.Context, gameID, userID uuid.UUID) (*MoveResult, error)
	Surrender(ctx context.Context, gameID, userID uuid.UUID) (*SurrenderResult, error)

	// Reads
	GetGameState(ctx context.Context, gameID uuid.UUID) (*GameState, error)
	GetMoveLog(ctx context.Context, gameID uuid.UUID, opts MoveLogOptions) (*MoveLogPage, error)

	// Rules
	ListRules(ctx context.Context) ([]*config.RulesInfo, error)
}

// GameRegistry is the store collaborator: clone-out reads and version-checked
// commits.
type GameRegistry interface {
	Insert(g *engine.Game) error
	Get(id uuid.UUID) (*engine.Game, error)
	Save(g *engine.Game) error
	Delete(id uuid.UUID) error
	List() []*engine.Game
}

// RoomRegistry is the lobby collaborator.
type RoomRegistry interface {
	Create(name string, capacity int, rulesID string, creator lobby.Seat) *lobby.Room
	Join(roomID, userID uuid.UUID, username string) (*lobby.Room, error)
	Leave(roomID, userID uuid.UUID) (*lobby.Room, error)
	Get(roomID uuid.UUID) (*lobby.Room, error)
	List() []*lobby.Room
	MarkInGame(roomID, gameID uuid.UUID) (*lobby.Room, error)
}

// RulesManager loads named rules variants.
type RulesManager interface {
	Load(name string) (*config.Rules, error)
	List() ([]*config.RulesInfo, error)
	GetDefault() *config.Rules
}

// BoardBuilder produces a board for the given generation parameters. Wrapping
// the generator in a func keeps the service testable with fixed boards.
type BoardBuilder func(params board.Params) (*board.Board, error)

// MoveInterceptor runs before a roll is taken, on the caller's goroutine. A
// non-nil error vetoes the move and is returned to the player unchanged. The
// game argument is the caller's private clone.
type MoveInterceptor func(ctx context.Context, g *engine.Game, p *engine.Player) error
