// Package websocket pushes real-time game events to subscribed clients and
// accepts a small set of inbound player actions.
//
// Clients subscribe to one game; the hub groups connections by game ID and
// fans events out to the whole group: player_joined, player_left,
// move_completed, state_update, player_surrendered, and game_finished.
// Errors from inbound actions go back to the acting client only, never to
// the group.
//
// Inbound frames are JSON objects with an "action" field: roll, surrender,
// or state. The same operations are available over REST; the push channel
// exists so other players see a move without polling.
package websocket
