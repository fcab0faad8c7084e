package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/amontoya/sliderace/game/config"
	"github.com/amontoya/sliderace/game/dice"
	"github.com/amontoya/sliderace/game/engine"
	"github.com/amontoya/sliderace/game/lobby"
	"github.com/amontoya/sliderace/game/store"
)

// maxCommitAttempts bounds the reload-and-retry loop on version conflicts.
const maxCommitAttempts = 3

type gameServiceImpl struct {
	games       GameRegistry
	rooms       RoomRegistry
	rules       RulesManager
	dice        dice.Roller
	buildBoard  BoardBuilder
	interceptor MoveInterceptor
}

// NewGameService wires the service over its collaborators. interceptor may
// be nil; when set it can veto a roll before the dice are thrown.
func NewGameService(games GameRegistry, rooms RoomRegistry, rules RulesManager, roller dice.Roller, buildBoard BoardBuilder, interceptor MoveInterceptor) GameService {
	return &gameServiceImpl{
		games:       games,
		rooms:       rooms,
		rules:       rules,
		dice:        roller,
		buildBoard:  buildBoard,
		interceptor: interceptor,
	}
}

func (s *gameServiceImpl) CreateRoom(ctx context.Context, name string, capacity int, rulesID string, userID uuid.UUID, username string) (*RoomInfo, error) {
	if rulesID != "" {
		if _, err := s.rules.Load(rulesID); err != nil {
			return nil, fmt.Errorf("rules '%s': %w", rulesID, err)
		}
	}

	room := s.rooms.Create(name, capacity, rulesID, lobby.Seat{UserID: userID, Username: username})
	log.Info().
		Str("room_id", room.ID.String()).
		Str("name", room.Name).
		Int("capacity", room.Capacity).
		Msg("room created")
	return roomInfo(room), nil
}

func (s *gameServiceImpl) JoinRoom(ctx context.Context, roomID, userID uuid.UUID, username string) (*RoomInfo, error) {
	room, err := s.rooms.Join(roomID, userID, username)
	if err != nil {
		return nil, err
	}
	return roomInfo(room), nil
}

func (s *gameServiceImpl) LeaveRoom(ctx context.Context, roomID, userID uuid.UUID) (*RoomInfo, error) {
	room, err := s.rooms.Leave(roomID, userID)
	if err != nil {
		return nil, err
	}
	return roomInfo(room), nil
}

func (s *gameServiceImpl) GetRoom(ctx context.Context, roomID uuid.UUID) (*RoomInfo, error) {
	room, err := s.rooms.Get(roomID)
	if err != nil {
		return nil, err
	}
	return roomInfo(room), nil
}

func (s *gameServiceImpl) ListRooms(ctx context.Context) ([]*RoomInfo, error) {
	rooms := s.rooms.List()
	infos := make([]*RoomInfo, 0, len(rooms))
	for _, room := range rooms {
		infos = append(infos, roomInfo(room))
	}
	return infos, nil
}

// StartGame creates a game from a room's roster. Only a seated user may
// start. The room's rules variant picks the board parameters; an empty
// variant means the server default.
func (s *gameServiceImpl) StartGame(ctx context.Context, roomID, userID uuid.UUID) (*GameState, error) {
	room, err := s.rooms.Get(roomID)
	if err != nil {
		return nil, err
	}

	seated := false
	seats := make([]engine.Seat, 0, len(room.Seats))
	for _, seat := range room.Seats {
		if seat.UserID == userID {
			seated = true
		}
		seats = append(seats, engine.Seat{UserID: seat.UserID, Username: seat.Username})
	}
	if !seated {
		return nil, ErrUserNotInRoom
	}

	rules := s.rules.GetDefault()
	if room.RulesID != "" {
		rules, err = s.rules.Load(room.RulesID)
		if err != nil {
			return nil, fmt.Errorf("rules '%s': %w", room.RulesID, err)
		}
	}

	b, err := s.buildBoard(rules.BoardParams())
	if err != nil {
		return nil, fmt.Errorf("failed to generate board: %w", err)
	}

	g, err := engine.NewGame(roomID, seats, b)
	if err != nil {
		return nil, err
	}
	if err := s.games.Insert(g); err != nil {
		return nil, fmt.Errorf("failed to register game: %w", err)
	}

	if _, err := s.rooms.MarkInGame(roomID, g.ID); err != nil {
		// The room raced into another state; the orphan game must not stay.
		if delErr := s.games.Delete(g.ID); delErr != nil {
			log.Warn().Err(delErr).Str("game_id", g.ID.String()).Msg("failed to remove orphan game")
		}
		return nil, err
	}

	log.Info().
		Str("game_id", g.ID.String()).
		Str("room_id", roomID.String()).
		Int("players", len(g.Players)).
		Int("board_size", g.Board.Size).
		Msg("game started")

	return snapshotGame(g), nil
}

// RollAndMove validates that the caller may act, throws the dice, and commits
// the resolved move. A version conflict means another mutation landed first;
// the whole load-validate-resolve cycle reruns against fresh state.
func (s *gameServiceImpl) RollAndMove(ctx context.Context, gameID, userID uuid.UUID) (*MoveResult, error) {
	for attempt := 0; attempt < maxCommitAttempts; attempt++ {
		g, err := s.games.Get(gameID)
		if err != nil {
			return nil, err
		}

		player, err := s.validateActor(g, userID)
		if err != nil {
			return nil, err
		}
		if !g.IsPlayersTurn(player.ID) {
			return nil, ErrNotPlayersTurn
		}
		if g.CurrentTurnPhase != engine.PhaseWaitingForRoll {
			return nil, ErrNotExpectingRoll
		}

		if s.interceptor != nil {
			if err := s.interceptor(ctx, g, player); err != nil {
				return nil, err
			}
		}

		roll := s.dice.Roll()
		out, err := engine.Resolve(g, player, roll)
		if err != nil {
			return nil, err
		}

		if err := s.games.Save(g); err != nil {
			if errors.Is(err, store.ErrVersionConflict) {
				log.Debug().
					Str("game_id", gameID.String()).
					Int("attempt", attempt+1).
					Msg("commit lost the race, retrying")
				continue
			}
			return nil, err
		}

		if out.Winner {
			log.Info().
				Str("game_id", gameID.String()).
				Str("winner", player.Username).
				Msg("game finished")
		}

		return &MoveResult{
			GameID:        gameID,
			PlayerID:      player.ID,
			DiceValue:     out.Roll,
			FromPosition:  out.From,
			ToPosition:    out.To,
			FinalPosition: out.Final,
			SpecialEvent:  specialEvent(out.Kind),
			Message:       out.Message,
			IsWinner:      out.Winner,
			GameState:     snapshotGame(g),
		}, nil
	}

	return nil, ErrTooManyRetries
}

// Surrender removes the caller from the game. Any seated player may
// surrender at any time, turn or no turn.
func (s *gameServiceImpl) Surrender(ctx context.Context, gameID, userID uuid.UUID) (*SurrenderResult, error) {
	for attempt := 0; attempt < maxCommitAttempts; attempt++ {
		g, err := s.games.Get(gameID)
		if err != nil {
			return nil, err
		}

		player, err := s.validateActor(g, userID)
		if err != nil {
			return nil, err
		}

		out, err := engine.Surrender(g, player)
		if err != nil {
			return nil, err
		}

		if err := s.games.Save(g); err != nil {
			if errors.Is(err, store.ErrVersionConflict) {
				log.Debug().
					Str("game_id", gameID.String()).
					Int("attempt", attempt+1).
					Msg("commit lost the race, retrying")
				continue
			}
			return nil, err
		}

		result := &SurrenderResult{
			GameID:       gameID,
			PlayerID:     player.ID,
			GameFinished: out.Finished,
			GameState:    snapshotGame(g),
		}
		if out.Finished {
			id := out.Winner.ID
			result.WinnerPlayerID = &id
			result.WinnerName = out.Winner.Username
			result.Reason = "all other players surrendered"
			log.Info().
				Str("game_id", gameID.String()).
				Str("winner", out.Winner.Username).
				Msg("game finished by surrender")
		}
		return result, nil
	}

	return nil, ErrTooManyRetries
}

func (s *gameServiceImpl) GetGameState(ctx context.Context, gameID uuid.UUID) (*GameState, error) {
	g, err := s.games.Get(gameID)
	if err != nil {
		return nil, err
	}
	return snapshotGame(g), nil
}

func (s *gameServiceImpl) GetMoveLog(ctx context.Context, gameID uuid.UUID, opts MoveLogOptions) (*MoveLogPage, error) {
	g, err := s.games.Get(gameID)
	if err != nil {
		return nil, err
	}

	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	names := make(map[uuid.UUID]string, len(g.Players))
	for _, p := range g.Players {
		names[p.ID] = p.Username
	}

	total := len(g.Moves)
	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	moves := []MoveLogEntry{}
	if opts.Order == "desc" {
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, moveLogEntry(g.Moves[i], names))
		}
	} else if start < total {
		for _, m := range g.Moves[start:end] {
			moves = append(moves, moveLogEntry(m, names))
		}
	}

	return &MoveLogPage{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

func (s *gameServiceImpl) ListRules(ctx context.Context) ([]*config.RulesInfo, error) {
	return s.rules.List()
}

// validateActor runs the shared preconditions for a mutation: the game must
// be running and the user must hold a seat in it.
func (s *gameServiceImpl) validateActor(g *engine.Game, userID uuid.UUID) (*engine.Player, error) {
	if g.Status != engine.GameInProgress {
		return nil, engine.ErrGameNotInProgress
	}
	player := g.PlayerByUser(userID)
	if player == nil {
		return nil, ErrPlayerNotInGame
	}
	return player, nil
}

func specialEvent(kind engine.OutcomeKind) string {
	if kind == engine.OutcomeNormal {
		return "none"
	}
	return string(kind)
}

func moveLogEntry(m engine.Move, names map[uuid.UUID]string) MoveLogEntry {
	return MoveLogEntry{
		ID:            m.ID,
		PlayerID:      m.PlayerID,
		Username:      names[m.PlayerID],
		DiceValue:     m.Roll,
		FromPosition:  m.From,
		ToPosition:    m.To,
		FinalPosition: m.Final,
		SpecialEvent:  specialEvent(m.Outcome),
		At:            m.At,
	}
}
