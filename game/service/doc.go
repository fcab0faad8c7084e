// Package service is the application layer between the transports and the
// game engine.
//
// Every player-facing operation goes through the GameService interface:
// rooms, game start, rolling, surrendering, snapshots, and the move log. The
// service owns the validation order for a roll (game exists, game running,
// caller seated, caller's turn, waiting for a roll) and the commit loop: load
// a private clone, resolve the move, and retry the whole cycle when the
// optimistic commit loses a race.
package service
