package websocket

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/amontoya/sliderace/game/service"
)

// Events pushed to game subscribers.
const (
	EventPlayerJoined      = "player_joined"
	EventPlayerLeft        = "player_left"
	EventMoveCompleted     = "move_completed"
	EventStateUpdate       = "state_update"
	EventPlayerSurrendered = "player_surrendered"
	EventGameFinished      = "game_finished"
	EventError             = "error"
)

// Win reasons carried in game_finished events.
const (
	ReasonReachedEnd        = "reached the end"
	ReasonOthersSurrendered = "all other players surrendered"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins in development
		return true
	},
}

// Message is the envelope for every frame pushed to clients.
type Message struct {
	GameID uuid.UUID   `json:"game_id"`
	Event  string      `json:"event"`
	Data   interface{} `json:"data,omitempty"`
}

// FinishNotice is the payload of a game_finished event.
type FinishNotice struct {
	WinnerPlayerID *uuid.UUID `json:"winner_player_id,omitempty"`
	WinnerName     string     `json:"winner_name,omitempty"`
	Reason         string     `json:"reason"`
}

// PresenceNotice is the payload of player_joined and player_left events.
type PresenceNotice struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
}

// Hub groups clients by game and fans broadcasts out to them. The event loop
// in Run owns the games map; everything reaches it through channels.
type Hub struct {
	service service.GameService

	// Registered clients grouped by game ID.
	games map[uuid.UUID]map[*Client]bool

	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client
}

// NewHub creates a hub dispatching inbound actions to the given service.
func NewHub(svc service.GameService) *Hub {
	return &Hub{
		service:    svc,
		games:      make(map[uuid.UUID]map[*Client]bool),
		broadcast:  make(chan *Message),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's event loop.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)
		}
	}
}

// ServeWS upgrades the request and attaches the client to its game's group.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, gameID, userID uuid.UUID, username string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := &Client{
		hub:      h,
		conn:     conn,
		send:     make(chan []byte, 256),
		gameID:   gameID,
		userID:   userID,
		username: username,
	}

	h.register <- client

	go client.writePump()
	go client.readPump()
}

// BroadcastEvent pushes an event to every client subscribed to the game.
func (h *Hub) BroadcastEvent(gameID uuid.UUID, event string, data interface{}) {
	h.broadcast <- &Message{
		GameID: gameID,
		Event:  event,
		Data:   data,
	}
}

func (h *Hub) registerClient(client *Client) {
	if h.games[client.gameID] == nil {
		h.games[client.gameID] = make(map[*Client]bool)
	}
	h.games[client.gameID][client] = true

	log.Debug().
		Str("game_id", client.gameID.String()).
		Str("username", client.username).
		Int("subscribers", len(h.games[client.gameID])).
		Msg("websocket client registered")

	h.broadcastMessage(&Message{
		GameID: client.gameID,
		Event:  EventPlayerJoined,
		Data:   PresenceNotice{UserID: client.userID, Username: client.username},
	})
}

func (h *Hub) unregisterClient(client *Client) {
	clients, ok := h.games[client.gameID]
	if !ok {
		return
	}
	if _, ok := clients[client]; !ok {
		return
	}

	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.games, client.gameID)
	}

	log.Debug().
		Str("game_id", client.gameID.String()).
		Str("username", client.username).
		Int("subscribers", len(clients)).
		Msg("websocket client unregistered")

	h.broadcastMessage(&Message{
		GameID: client.gameID,
		Event:  EventPlayerLeft,
		Data:   PresenceNotice{UserID: client.userID, Username: client.username},
	})
}

func (h *Hub) broadcastMessage(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal websocket message")
		return
	}

	for client := range h.games[message.GameID] {
		select {
		case client.send <- data:
		default:
			// Slow consumer; drop it.
			h.unregisterClient(client)
		}
	}
}
