// Package mcp exposes the game over the Model Context Protocol so AI
// agents can play it.
//
// The client is deliberately thin: every tool call is proxied to the REST
// API and the JSON response is rendered as readable text. Holding no state
// of its own, the client can run alongside any number of human websocket
// players against the same server.
//
// Tools:
//   - list_rooms, create_room, join_room, start_game: lobby flow
//   - game_state, roll, surrender: in-game actions
//   - move_log: paginated roll history
//   - list_rules: available rules variants
//
// The underlying *server.MCPServer is reachable through GetMCPServer for
// stdio serving or HTTP message handling.
package mcp
