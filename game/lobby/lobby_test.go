package lobby

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amontoya/sliderace/game/engine"
)

func seat(name string) Seat {
	return Seat{UserID: uuid.New(), Username: name}
}

func TestCreateRoom(t *testing.T) {
	reg := NewRegistry()

	room := reg.Create("friday night", 4, "", seat("alice"))
	assert.Equal(t, RoomOpen, room.Status)
	assert.Equal(t, 4, room.Capacity)
	require.Len(t, room.Seats, 1)
	assert.Equal(t, "alice", room.Seats[0].Username)
	assert.Nil(t, room.GameID)

	t.Run("capacity is clamped to the seat bounds", func(t *testing.T) {
		low := reg.Create("tiny", 0, "", seat("a"))
		assert.Equal(t, engine.MinPlayers, low.Capacity)

		high := reg.Create("huge", 50, "", seat("b"))
		assert.Equal(t, engine.MaxPlayers, high.Capacity)
	})
}

func TestJoinRoom(t *testing.T) {
	reg := NewRegistry()
	alice := seat("alice")
	room := reg.Create("duel", 2, "", alice)

	t.Run("join open room", func(t *testing.T) {
		got, err := reg.Join(room.ID, uuid.New(), "bob")
		require.NoError(t, err)
		require.Len(t, got.Seats, 2)
		assert.Equal(t, RoomFull, got.Status, "last seat flips the room to Full")
	})

	t.Run("join full room", func(t *testing.T) {
		_, err := reg.Join(room.ID, uuid.New(), "carol")
		require.ErrorIs(t, err, ErrRoomNotOpen)
	})

	t.Run("duplicate user", func(t *testing.T) {
		open := reg.Create("open", 3, "", alice)
		_, err := reg.Join(open.ID, alice.UserID, "alice")
		require.ErrorIs(t, err, ErrAlreadyInRoom)
	})

	t.Run("unknown room", func(t *testing.T) {
		_, err := reg.Join(uuid.New(), uuid.New(), "nobody")
		require.ErrorIs(t, err, ErrRoomNotFound)
	})
}

func TestJoinAtCapacityBoundary(t *testing.T) {
	reg := NewRegistry()
	room := reg.Create("trio", 3, "", seat("a"))

	_, err := reg.Join(room.ID, uuid.New(), "b")
	require.NoError(t, err)
	got, err := reg.Join(room.ID, uuid.New(), "c")
	require.NoError(t, err)
	assert.Equal(t, RoomFull, got.Status)
}

func TestLeaveRoom(t *testing.T) {
	reg := NewRegistry()
	alice := seat("alice")
	bob := seat("bob")

	t.Run("full room reopens", func(t *testing.T) {
		room := reg.Create("duel", 2, "", alice)
		_, err := reg.Join(room.ID, bob.UserID, bob.Username)
		require.NoError(t, err)

		got, err := reg.Leave(room.ID, bob.UserID)
		require.NoError(t, err)
		assert.Equal(t, RoomOpen, got.Status)
		require.Len(t, got.Seats, 1)
		assert.Equal(t, alice.UserID, got.Seats[0].UserID)
	})

	t.Run("last player out deletes the room", func(t *testing.T) {
		room := reg.Create("solo", 2, "", alice)
		_, err := reg.Leave(room.ID, alice.UserID)
		require.NoError(t, err)

		_, err = reg.Get(room.ID)
		require.ErrorIs(t, err, ErrRoomNotFound)
	})

	t.Run("cannot leave a started room", func(t *testing.T) {
		room := reg.Create("locked", 2, "", alice)
		_, err := reg.Join(room.ID, bob.UserID, bob.Username)
		require.NoError(t, err)
		_, err = reg.MarkInGame(room.ID, uuid.New())
		require.NoError(t, err)

		_, err = reg.Leave(room.ID, alice.UserID)
		require.ErrorIs(t, err, ErrRoomNotOpen)
	})

	t.Run("user not seated", func(t *testing.T) {
		room := reg.Create("empty-ish", 2, "", alice)
		_, err := reg.Leave(room.ID, uuid.New())
		require.ErrorIs(t, err, ErrRoomNotFound)
	})
}

func TestMarkInGame(t *testing.T) {
	reg := NewRegistry()
	room := reg.Create("race", 4, "", seat("alice"))

	t.Run("needs the minimum seat count", func(t *testing.T) {
		_, err := reg.MarkInGame(room.ID, uuid.New())
		require.ErrorIs(t, err, ErrRoomNotReady)
	})

	_, err := reg.Join(room.ID, uuid.New(), "bob")
	require.NoError(t, err)

	t.Run("partial room can start", func(t *testing.T) {
		gameID := uuid.New()
		got, err := reg.MarkInGame(room.ID, gameID)
		require.NoError(t, err)
		assert.Equal(t, RoomInGame, got.Status)
		require.NotNil(t, got.GameID)
		assert.Equal(t, gameID, *got.GameID)
	})

	t.Run("cannot start twice", func(t *testing.T) {
		_, err := reg.MarkInGame(room.ID, uuid.New())
		require.ErrorIs(t, err, ErrRoomNotOpen)
	})

	t.Run("joins are rejected once started", func(t *testing.T) {
		_, err := reg.Join(room.ID, uuid.New(), "late")
		require.ErrorIs(t, err, ErrRoomNotOpen)
	})
}

func TestListRooms(t *testing.T) {
	reg := NewRegistry()
	assert.Empty(t, reg.List())

	reg.Create("first", 2, "", seat("a"))
	reg.Create("second", 2, "", seat("b"))

	rooms := reg.List()
	require.Len(t, rooms, 2)
}

func TestRoomCopiesAreIndependent(t *testing.T) {
	reg := NewRegistry()
	room := reg.Create("race", 4, "", seat("alice"))

	room.Seats[0].Username = "mallory"
	room.Status = RoomInGame

	stored, err := reg.Get(room.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", stored.Seats[0].Username)
	assert.Equal(t, RoomOpen, stored.Status)
}

func TestDeleteRoom(t *testing.T) {
	reg := NewRegistry()
	room := reg.Create("gone", 2, "", seat("a"))

	require.NoError(t, reg.Delete(room.ID))
	require.ErrorIs(t, reg.Delete(room.ID), ErrRoomNotFound)
}
