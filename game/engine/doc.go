// Package engine holds the core rules for one Slide Race game: the Game
// aggregate, the circular turn machine, and move resolution.
//
// A Game owns its Board, its Players in turn order, and an append-only Move
// log. All mutation goes through three entry points:
//
//	game, err := engine.NewGame(roomID, seats, board)
//	outcome, err := engine.Resolve(game, player, roll)
//	result, err := engine.Surrender(game, player)
//
// The package is purely in-memory and single-threaded by design: callers
// (the service layer) load a private copy of the aggregate, apply exactly
// one operation, and commit it back through the store's version check.
//
// Statuses are closed typed-string enums with explicit transition functions,
// so an illegal transition (re-entering Playing, finishing twice) surfaces
// as an error instead of silently corrupting state.
package engine
