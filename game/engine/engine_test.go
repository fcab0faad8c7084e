package engine

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amontoya/sliderace/game/board"
)

func testBoard() *board.Board {
	return board.New(100,
		[]board.Feature{{From: 43, To: 12}, {From: 90, To: 50}},
		[]board.Feature{{From: 7, To: 31}},
	)
}

func testGame(t *testing.T, playerCount int) *Game {
	t.Helper()
	seats := make([]Seat, playerCount)
	for i := range seats {
		seats[i] = Seat{UserID: uuid.New(), Username: "player" + string(rune('A'+i))}
	}
	g, err := NewGame(uuid.New(), seats, testBoard())
	require.NoError(t, err)
	return g
}

func TestNewGame(t *testing.T) {
	g := testGame(t, 3)

	assert.Equal(t, GameInProgress, g.Status)
	assert.Equal(t, PhaseWaitingForRoll, g.CurrentTurnPhase)
	assert.Equal(t, 0, g.CurrentTurnPlayerIndex)
	assert.Nil(t, g.WinnerPlayerID)
	require.Len(t, g.Players, 3)

	for i, p := range g.Players {
		assert.Equal(t, i, p.TurnOrder, "turn orders are contiguous in arrival order")
		assert.Equal(t, 0, p.Position)
		assert.Equal(t, PlayerPlaying, p.Status)
		assert.Equal(t, g.ID, p.GameID)
	}
}

func TestNewGamePlayerBounds(t *testing.T) {
	_, err := NewGame(uuid.New(), []Seat{{UserID: uuid.New()}}, testBoard())
	require.ErrorIs(t, err, ErrNotEnoughPlayers)

	seats := make([]Seat, MaxPlayers+1)
	for i := range seats {
		seats[i] = Seat{UserID: uuid.New()}
	}
	_, err = NewGame(uuid.New(), seats, testBoard())
	require.ErrorIs(t, err, ErrTooManyPlayers)
}

func TestResolveNormalMove(t *testing.T) {
	g := testGame(t, 2)
	p := g.Players[0]

	out, err := Resolve(g, p, 4)
	require.NoError(t, err)

	assert.Equal(t, OutcomeNormal, out.Kind)
	assert.Equal(t, 0, out.From)
	assert.Equal(t, 4, out.To)
	assert.Equal(t, 4, out.Final)
	assert.Equal(t, 4, p.Position)
	assert.False(t, out.Winner)
	assert.Equal(t, 1, g.CurrentTurnPlayerIndex, "turn advances after a normal move")
	require.Len(t, g.Moves, 1)
	assert.Equal(t, OutcomeNormal, g.Moves[0].Outcome)
}

func TestResolveDescender(t *testing.T) {
	g := testGame(t, 2)
	p := g.Players[0]
	p.Position = 40

	// Board has a descender head at 43 sliding to 12.
	out, err := Resolve(g, p, 3)
	require.NoError(t, err)

	assert.Equal(t, OutcomeDescender, out.Kind)
	assert.Equal(t, 40, out.From)
	assert.Equal(t, 43, out.To)
	assert.Equal(t, 12, out.Final)
	assert.Equal(t, 12, p.Position)
}

func TestResolveAscender(t *testing.T) {
	g := testGame(t, 2)
	p := g.Players[0]
	p.Position = 5

	// Board has an ascender bottom at 7 climbing to 31.
	out, err := Resolve(g, p, 2)
	require.NoError(t, err)

	assert.Equal(t, OutcomeAscender, out.Kind)
	assert.Equal(t, 31, out.Final)
	assert.Equal(t, 31, p.Position)
}

func TestResolveOvershoot(t *testing.T) {
	g := testGame(t, 2)
	p := g.Players[0]
	p.Position = 97

	out, err := Resolve(g, p, 5)
	require.NoError(t, err)

	assert.Equal(t, OutcomeOvershoot, out.Kind)
	assert.Equal(t, 97, out.From)
	assert.Equal(t, 97, out.To)
	assert.Equal(t, 97, out.Final)
	assert.Equal(t, 97, p.Position, "overshoot does not move the player")
	assert.False(t, out.Winner)
	assert.Contains(t, out.Message, "staying at 97")
	assert.Equal(t, GameInProgress, g.Status)
	assert.Equal(t, 1, g.CurrentTurnPlayerIndex, "overshoot still consumes the turn")
}

func TestResolveWin(t *testing.T) {
	g := testGame(t, 2)
	p := g.Players[0]
	p.Position = 96

	out, err := Resolve(g, p, 4)
	require.NoError(t, err)

	assert.Equal(t, OutcomeWin, out.Kind)
	assert.True(t, out.Winner)
	assert.Equal(t, 100, p.Position)
	assert.Equal(t, PlayerWinner, p.Status)
	assert.Equal(t, GameFinished, g.Status)
	require.NotNil(t, g.WinnerPlayerID)
	assert.Equal(t, p.ID, *g.WinnerPlayerID)
	require.NotNil(t, g.FinishedAt)
	assert.Equal(t, 0, g.CurrentTurnPlayerIndex, "turn does not advance past a finished game")

	// A finished game rejects further rolls and never mutates.
	_, err = Resolve(g, g.Players[1], 1)
	require.ErrorIs(t, err, ErrGameNotInProgress)
	assert.Equal(t, 0, g.Players[1].Position)
}

func TestAdvanceTurnSkipsNonPlaying(t *testing.T) {
	g := testGame(t, 3)
	a, b, c := g.Players[0], g.Players[1], g.Players[2]

	require.NoError(t, b.transitionTo(PlayerSurrendered))

	// Turn is on A; advancing must land on C, skipping surrendered B.
	require.NoError(t, g.AdvanceTurn())
	assert.Equal(t, c.ID, g.CurrentPlayer().ID)

	// And from C it wraps back to A.
	require.NoError(t, g.AdvanceTurn())
	assert.Equal(t, a.ID, g.CurrentPlayer().ID)
}

func TestAdvanceTurnFinishedGame(t *testing.T) {
	g := testGame(t, 2)
	require.NoError(t, g.finish(g.Players[0]))

	require.ErrorIs(t, g.AdvanceTurn(), ErrGameNotInProgress)
}

func TestSurrenderResolvesToWin(t *testing.T) {
	g := testGame(t, 2)
	p1, p2 := g.Players[0], g.Players[1]

	out, err := Surrender(g, p1)
	require.NoError(t, err)

	assert.True(t, out.Finished)
	require.NotNil(t, out.Winner)
	assert.Equal(t, p2.ID, out.Winner.ID)
	assert.Equal(t, PlayerWinner, p2.Status)
	assert.Equal(t, PlayerSurrendered, p1.Status)
	assert.Equal(t, GameFinished, g.Status)
	require.NotNil(t, g.WinnerPlayerID)
	assert.Equal(t, p2.ID, *g.WinnerPlayerID)
	require.NotNil(t, g.FinishedAt)

	// Surrendering a finished game must fail, not double-finish.
	_, err = Surrender(g, p2)
	require.ErrorIs(t, err, ErrGameNotInProgress)
}

func TestSurrenderByTurnHolderAdvances(t *testing.T) {
	g := testGame(t, 3)
	p1, p2 := g.Players[0], g.Players[1]

	out, err := Surrender(g, p1)
	require.NoError(t, err)

	assert.False(t, out.Finished)
	assert.Equal(t, p2.ID, g.CurrentPlayer().ID, "turn moves off the surrendering holder")
	assert.Equal(t, GameInProgress, g.Status)
}

func TestSurrenderByOtherKeepsTurn(t *testing.T) {
	g := testGame(t, 3)
	p1, p3 := g.Players[0], g.Players[2]

	_, err := Surrender(g, p3)
	require.NoError(t, err)

	assert.Equal(t, p1.ID, g.CurrentPlayer().ID)
}

func TestSurrenderTwiceSamePlayer(t *testing.T) {
	g := testGame(t, 3)
	p1 := g.Players[0]

	_, err := Surrender(g, p1)
	require.NoError(t, err)

	_, err = Surrender(g, p1)
	var invalid *InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
}

func TestPlayerStatusMonotone(t *testing.T) {
	p := &Player{Status: PlayerWaiting}

	require.Error(t, p.transitionTo(PlayerWinner), "Waiting cannot jump straight to Winner")
	require.NoError(t, p.transitionTo(PlayerPlaying))
	require.NoError(t, p.transitionTo(PlayerSurrendered))
	require.Error(t, p.transitionTo(PlayerPlaying), "a player never re-enters Playing")
}

func TestPlayerLookups(t *testing.T) {
	g := testGame(t, 2)
	p := g.Players[1]

	assert.Equal(t, p, g.PlayerByUser(p.UserID))
	assert.Equal(t, p, g.PlayerByID(p.ID))
	assert.Nil(t, g.PlayerByUser(uuid.New()))
	assert.Nil(t, g.PlayerByID(uuid.New()))
}

func TestCloneIsDeep(t *testing.T) {
	g := testGame(t, 2)
	_, err := Resolve(g, g.Players[0], 4)
	require.NoError(t, err)

	clone := g.Clone()
	clone.Players[0].Position = 99
	clone.Moves[0].Roll = 6
	clone.Status = GameFinished

	assert.Equal(t, 4, g.Players[0].Position)
	assert.Equal(t, 4, g.Moves[0].Roll)
	assert.Equal(t, GameInProgress, g.Status)
}
