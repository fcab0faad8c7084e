package lobby

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/amontoya/sliderace/game/engine"
)

var (
	ErrRoomNotFound  = errors.New("room not found")
	ErrRoomNotOpen   = errors.New("room is not open for joining")
	ErrRoomFull      = errors.New("room is full")
	ErrAlreadyInRoom = errors.New("user is already in the room")
	ErrRoomNotReady  = errors.New("room does not have enough players")
)

// RoomStatus is the lifecycle of a room: Open accepts joins, Full holds a
// complete roster waiting for the start, InGame is bound to a running game.
type RoomStatus string

const (
	RoomOpen   RoomStatus = "Open"
	RoomFull   RoomStatus = "Full"
	RoomInGame RoomStatus = "InGame"
)

// Seat is one occupied place in a room, in arrival order.
type Seat struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	JoinedAt time.Time `json:"joined_at"`
}

// Room is a pre-game gathering point. Capacity is clamped to the engine's
// seat bounds at creation.
type Room struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Status    RoomStatus `json:"status"`
	Capacity  int        `json:"capacity"`
	RulesID   string     `json:"rules_id,omitempty"`
	Seats     []Seat     `json:"seats"`
	GameID    *uuid.UUID `json:"game_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func (r *Room) clone() *Room {
	c := *r
	c.Seats = make([]Seat, len(r.Seats))
	copy(c.Seats, r.Seats)
	if r.GameID != nil {
		id := *r.GameID
		c.GameID = &id
	}
	return &c
}

// Registry tracks rooms in memory. Like the game store it hands out copies;
// all mutation happens through its methods under one lock.
type Registry struct {
	rooms map[uuid.UUID]*Room
	mu    sync.RWMutex
}

// NewRegistry creates an empty room registry.
func NewRegistry() *Registry {
	return &Registry{rooms: make(map[uuid.UUID]*Room)}
}

// Create opens a room and seats its creator. Capacity outside the engine's
// seat bounds is clamped, not rejected. rulesID selects the variant used when
// the game starts; empty means the server default.
func (reg *Registry) Create(name string, capacity int, rulesID string, creator Seat) *Room {
	if capacity < engine.MinPlayers {
		capacity = engine.MinPlayers
	}
	if capacity > engine.MaxPlayers {
		capacity = engine.MaxPlayers
	}

	creator.JoinedAt = time.Now().UTC()
	room := &Room{
		ID:        uuid.New(),
		Name:      name,
		Status:    RoomOpen,
		Capacity:  capacity,
		RulesID:   rulesID,
		Seats:     []Seat{creator},
		CreatedAt: time.Now().UTC(),
	}

	reg.mu.Lock()
	reg.rooms[room.ID] = room
	reg.mu.Unlock()

	return room.clone()
}

// Join seats a user in an open room. The room flips to Full when the last
// seat is taken.
func (reg *Registry) Join(roomID, userID uuid.UUID, username string) (*Room, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	room, exists := reg.rooms[roomID]
	if !exists {
		return nil, ErrRoomNotFound
	}
	if room.Status != RoomOpen {
		return nil, fmt.Errorf("%w: status is %s", ErrRoomNotOpen, room.Status)
	}
	if len(room.Seats) >= room.Capacity {
		return nil, ErrRoomFull
	}
	for _, seat := range room.Seats {
		if seat.UserID == userID {
			return nil, ErrAlreadyInRoom
		}
	}

	room.Seats = append(room.Seats, Seat{
		UserID:   userID,
		Username: username,
		JoinedAt: time.Now().UTC(),
	})
	if len(room.Seats) == room.Capacity {
		room.Status = RoomFull
	}

	return room.clone(), nil
}

// Leave removes a user's seat from a room that has not started. An emptied
// room is deleted. A Full room that loses a seat reopens.
func (reg *Registry) Leave(roomID, userID uuid.UUID) (*Room, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	room, exists := reg.rooms[roomID]
	if !exists {
		return nil, ErrRoomNotFound
	}
	if room.Status == RoomInGame {
		return nil, fmt.Errorf("%w: status is %s", ErrRoomNotOpen, room.Status)
	}

	for i, seat := range room.Seats {
		if seat.UserID != userID {
			continue
		}
		room.Seats = append(room.Seats[:i], room.Seats[i+1:]...)
		if len(room.Seats) == 0 {
			delete(reg.rooms, roomID)
			return room.clone(), nil
		}
		if room.Status == RoomFull {
			room.Status = RoomOpen
		}
		return room.clone(), nil
	}

	return nil, ErrRoomNotFound
}

// Get returns a copy of the room.
func (reg *Registry) Get(roomID uuid.UUID) (*Room, error) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	room, exists := reg.rooms[roomID]
	if !exists {
		return nil, ErrRoomNotFound
	}
	return room.clone(), nil
}

// List returns copies of every room, newest first.
func (reg *Registry) List() []*Room {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	result := make([]*Room, 0, len(reg.rooms))
	for _, room := range reg.rooms {
		result = append(result, room.clone())
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result
}

// MarkInGame binds a room to its started game. The room must hold at least
// the engine's minimum seats; it needs not be Full, a partial room can start.
func (reg *Registry) MarkInGame(roomID, gameID uuid.UUID) (*Room, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	room, exists := reg.rooms[roomID]
	if !exists {
		return nil, ErrRoomNotFound
	}
	if room.Status == RoomInGame {
		return nil, fmt.Errorf("%w: status is %s", ErrRoomNotOpen, room.Status)
	}
	if len(room.Seats) < engine.MinPlayers {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrRoomNotReady, len(room.Seats), engine.MinPlayers)
	}

	room.Status = RoomInGame
	room.GameID = &gameID
	return room.clone(), nil
}

// Delete removes a room.
func (reg *Registry) Delete(roomID uuid.UUID) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	if _, exists := reg.rooms[roomID]; !exists {
		return ErrRoomNotFound
	}
	delete(reg.rooms, roomID)
	return nil
}
