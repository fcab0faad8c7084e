// Package api exposes the game service over REST and hosts the websocket
// upgrade endpoint.
//
// Routes:
//
//	POST /api/rooms                create a room
//	GET  /api/rooms                list rooms
//	GET  /api/rooms/{id}           one room
//	POST /api/rooms/{id}/join      take a seat
//	POST /api/rooms/{id}/leave     give up a seat
//	POST /api/rooms/{id}/start     start the game
//	GET  /api/games/{id}           game snapshot
//	POST /api/games/{id}/roll      roll and move
//	POST /api/games/{id}/surrender leave the game
//	GET  /api/games/{id}/moves     paginated move log
//	GET  /api/rules                available rules variants
//	GET  /ws                       websocket subscription
//	GET  /health                   liveness probe
//
// Domain errors map onto statuses: unknown resources are 404, acting without
// a seat is 403, acting against the game's current state (wrong turn, room
// already started, lost commit race) is 409, and malformed input is 400.
// Mutations are broadcast to websocket subscribers after they commit.
package api
