// Package lobby manages the rooms players gather in before a game starts.
//
// A room is created Open, flips to Full when its last seat is taken, and to
// InGame when a game starts from it. Joining is rejected once the room is no
// longer Open, already holds the user, or is at capacity. Starting needs at
// least the engine's minimum seat count, so a not-yet-Full room can start.
package lobby
