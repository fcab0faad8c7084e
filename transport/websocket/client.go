package websocket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// Inbound actions a connected player may send.
const (
	ActionRoll      = "roll"
	ActionSurrender = "surrender"
	ActionState     = "state"
)

// Client is one websocket connection bound to a game and a user.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	gameID   uuid.UUID
	userID   uuid.UUID
	username string
}

type inboundMessage struct {
	Action string `json:"action"`
}

// readPump reads inbound actions and dispatches them to the service. It runs
// on the connection's own goroutine so a slow service call never stalls the
// hub loop.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Debug().Err(err).Msg("websocket read error")
			}
			break
		}
		c.handleAction(raw)
	}
}

// handleAction runs one inbound action. Results are broadcast to the whole
// game group; errors go back to this client only.
func (c *Client) handleAction(raw []byte) {
	var in inboundMessage
	if err := json.Unmarshal(raw, &in); err != nil {
		c.sendError("malformed message")
		return
	}

	ctx := context.Background()

	switch in.Action {
	case ActionRoll:
		result, err := c.hub.service.RollAndMove(ctx, c.gameID, c.userID)
		if err != nil {
			c.sendError(err.Error())
			return
		}
		c.hub.BroadcastEvent(c.gameID, EventMoveCompleted, result)
		c.hub.BroadcastEvent(c.gameID, EventStateUpdate, result.GameState)
		if result.IsWinner {
			c.hub.BroadcastEvent(c.gameID, EventGameFinished, FinishNotice{
				WinnerPlayerID: &result.PlayerID,
				WinnerName:     c.username,
				Reason:         ReasonReachedEnd,
			})
		}

	case ActionSurrender:
		result, err := c.hub.service.Surrender(ctx, c.gameID, c.userID)
		if err != nil {
			c.sendError(err.Error())
			return
		}
		c.hub.BroadcastEvent(c.gameID, EventPlayerSurrendered, PresenceNotice{UserID: c.userID, Username: c.username})
		c.hub.BroadcastEvent(c.gameID, EventStateUpdate, result.GameState)
		if result.GameFinished {
			c.hub.BroadcastEvent(c.gameID, EventGameFinished, FinishNotice{
				WinnerPlayerID: result.WinnerPlayerID,
				WinnerName:     result.WinnerName,
				Reason:         ReasonOthersSurrendered,
			})
		}

	case ActionState:
		state, err := c.hub.service.GetGameState(ctx, c.gameID)
		if err != nil {
			c.sendError(err.Error())
			return
		}
		c.sendMessage(&Message{GameID: c.gameID, Event: EventStateUpdate, Data: state})

	default:
		c.sendError("unknown action: " + in.Action)
	}
}

// sendMessage delivers a frame to this client only.
func (c *Client) sendMessage(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal websocket message")
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (c *Client) sendError(detail string) {
	c.sendMessage(&Message{
		GameID: c.gameID,
		Event:  EventError,
		Data:   map[string]string{"error": detail},
	})
}

// writePump pumps messages from the hub to the connection and keeps the
// connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Add queued messages to the current websocket frame.
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
