package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/amontoya/sliderace/game/config"
	"github.com/amontoya/sliderace/game/engine"
	"github.com/amontoya/sliderace/game/lobby"
	"github.com/amontoya/sliderace/game/service"
	"github.com/amontoya/sliderace/game/store"
	"github.com/amontoya/sliderace/transport/websocket"
)

// Server is the REST front of the game service.
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer wires the routes. hub may be nil when real-time push is disabled.
func NewServer(gameService service.GameService, hub *websocket.Hub) *Server {
	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	// Rooms
	api.HandleFunc("/rooms", s.handleCreateRoom).Methods("POST")
	api.HandleFunc("/rooms", s.handleListRooms).Methods("GET")
	api.HandleFunc("/rooms/{id}", s.handleGetRoom).Methods("GET")
	api.HandleFunc("/rooms/{id}/join", s.handleJoinRoom).Methods("POST")
	api.HandleFunc("/rooms/{id}/leave", s.handleLeaveRoom).Methods("POST")
	api.HandleFunc("/rooms/{id}/start", s.handleStartGame).Methods("POST")

	// Games
	api.HandleFunc("/games/{id}", s.handleGetGameState).Methods("GET")
	api.HandleFunc("/games/{id}/roll", s.handleRoll).Methods("POST")
	api.HandleFunc("/games/{id}/surrender", s.handleSurrender).Methods("POST")
	api.HandleFunc("/games/{id}/moves", s.handleGetMoveLog).Methods("GET")

	// Rules variants
	api.HandleFunc("/rules", s.handleListRules).Methods("GET")

	// Real-time push
	s.router.HandleFunc("/ws", s.handleWebSocket)

	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func respondServiceError(w http.ResponseWriter, err error) {
	respondError(w, statusForError(err), err.Error())
}

// statusForError maps domain errors onto HTTP statuses. Unknown errors are
// internal.
func statusForError(err error) int {
	switch {
	case errors.Is(err, store.ErrGameNotFound),
		errors.Is(err, lobby.ErrRoomNotFound),
		errors.Is(err, config.ErrRulesNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrPlayerNotInGame),
		errors.Is(err, service.ErrUserNotInRoom):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotPlayersTurn),
		errors.Is(err, service.ErrNotExpectingRoll),
		errors.Is(err, engine.ErrGameNotInProgress),
		errors.Is(err, lobby.ErrRoomNotOpen),
		errors.Is(err, lobby.ErrRoomFull),
		errors.Is(err, lobby.ErrAlreadyInRoom),
		errors.Is(err, lobby.ErrRoomNotReady),
		errors.Is(err, store.ErrVersionConflict),
		errors.Is(err, service.ErrTooManyRetries):
		return http.StatusConflict
	case errors.Is(err, engine.ErrNotEnoughPlayers),
		errors.Is(err, engine.ErrTooManyPlayers),
		errors.Is(err, config.ErrInvalidRules):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func pathID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(mux.Vars(r)["id"])
}

// Room handlers

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string    `json:"name"`
		Capacity int       `json:"capacity"`
		RulesID  string    `json:"rules_id,omitempty"`
		UserID   uuid.UUID `json:"user_id"`
		Username string    `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID == uuid.Nil || req.Username == "" {
		respondError(w, http.StatusBadRequest, "user_id and username are required")
		return
	}

	room, err := s.service.CreateRoom(r.Context(), req.Name, req.Capacity, req.RulesID, req.UserID, req.Username)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, room)
}

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := s.service.ListRooms(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(rooms),
		"rooms": rooms,
	})
}

func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	roomID, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid room id")
		return
	}

	room, err := s.service.GetRoom(r.Context(), roomID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, room)
}

func (s *Server) handleJoinRoom(w http.ResponseWriter, r *http.Request) {
	roomID, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid room id")
		return
	}

	var req struct {
		UserID   uuid.UUID `json:"user_id"`
		Username string    `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID == uuid.Nil || req.Username == "" {
		respondError(w, http.StatusBadRequest, "user_id and username are required")
		return
	}

	room, err := s.service.JoinRoom(r.Context(), roomID, req.UserID, req.Username)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, room)
}

func (s *Server) handleLeaveRoom(w http.ResponseWriter, r *http.Request) {
	roomID, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid room id")
		return
	}

	var req struct {
		UserID uuid.UUID `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	room, err := s.service.LeaveRoom(r.Context(), roomID, req.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, room)
}

func (s *Server) handleStartGame(w http.ResponseWriter, r *http.Request) {
	roomID, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid room id")
		return
	}

	var req struct {
		UserID uuid.UUID `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	state, err := s.service.StartGame(r.Context(), roomID, req.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if s.hub != nil {
		s.hub.BroadcastEvent(state.GameID, websocket.EventStateUpdate, state)
	}
	respondJSON(w, http.StatusCreated, state)
}

// Game handlers

func (s *Server) handleGetGameState(w http.ResponseWriter, r *http.Request) {
	gameID, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid game id")
		return
	}

	state, err := s.service.GetGameState(r.Context(), gameID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleRoll(w http.ResponseWriter, r *http.Request) {
	gameID, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid game id")
		return
	}

	var req struct {
		UserID uuid.UUID `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.service.RollAndMove(r.Context(), gameID, req.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if s.hub != nil {
		s.hub.BroadcastEvent(gameID, websocket.EventMoveCompleted, result)
		s.hub.BroadcastEvent(gameID, websocket.EventStateUpdate, result.GameState)
		if result.IsWinner {
			s.hub.BroadcastEvent(gameID, websocket.EventGameFinished, websocket.FinishNotice{
				WinnerPlayerID: result.GameState.WinnerPlayerID,
				WinnerName:     result.GameState.WinnerName,
				Reason:         websocket.ReasonReachedEnd,
			})
		}
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleSurrender(w http.ResponseWriter, r *http.Request) {
	gameID, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid game id")
		return
	}

	var req struct {
		UserID uuid.UUID `json:"user_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.service.Surrender(r.Context(), gameID, req.UserID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if s.hub != nil {
		s.hub.BroadcastEvent(gameID, websocket.EventStateUpdate, result.GameState)
		if result.GameFinished {
			s.hub.BroadcastEvent(gameID, websocket.EventGameFinished, websocket.FinishNotice{
				WinnerPlayerID: result.WinnerPlayerID,
				WinnerName:     result.WinnerName,
				Reason:         websocket.ReasonOthersSurrendered,
			})
		}
	}

	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetMoveLog(w http.ResponseWriter, r *http.Request) {
	gameID, err := pathID(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid game id")
		return
	}

	opts := service.MoveLogOptions{
		Page:  1,
		Limit: 20,
		Order: "desc",
	}

	query := r.URL.Query()
	if pageStr := query.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			opts.Page = p
		}
	}
	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			opts.Limit = l
		}
	}
	if order := query.Get("order"); order == "asc" || order == "desc" {
		opts.Order = order
	}

	page, err := s.service.GetMoveLog(r.Context(), gameID, opts)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, page)
}

// Rules handlers

func (s *Server) handleListRules(w http.ResponseWriter, r *http.Request) {
	rules, err := s.service.ListRules(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rules)
}

// WebSocket handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		http.Error(w, "real-time push is disabled", http.StatusNotImplemented)
		return
	}

	query := r.URL.Query()
	gameID, err := uuid.Parse(query.Get("game"))
	if err != nil {
		http.Error(w, "game parameter required", http.StatusBadRequest)
		return
	}
	userID, err := uuid.Parse(query.Get("user"))
	if err != nil {
		http.Error(w, "user parameter required", http.StatusBadRequest)
		return
	}
	username := query.Get("username")
	if username == "" {
		http.Error(w, "username parameter required", http.StatusBadRequest)
		return
	}

	// The game must exist before a subscription is accepted.
	if _, err := s.service.GetGameState(r.Context(), gameID); err != nil {
		http.Error(w, "unknown game", http.StatusNotFound)
		return
	}

	s.hub.ServeWS(w, r, gameID, userID, username)
}

// Health check

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
