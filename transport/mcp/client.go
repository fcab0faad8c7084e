package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/amontoya/sliderace/game/config"
	"github.com/amontoya/sliderace/game/service"
)

// Client is a thin MCP client that proxies to the REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates an MCP client that calls the REST API at baseURL.
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Slide Race",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Slide Race - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Be the first player to reach the final square of the track. Each turn you
roll a die and advance. Landing on a descender slides you backwards; landing
on an ascender jumps you forwards. A roll past the final square does not move
you but still ends your turn.

AVAILABLE TOOLS:
- list_rooms: List open rooms
- create_room: Open a room and take the first seat
- join_room: Take a seat in an open room
- start_game: Start the game from a room (any seated player may start)
- game_state: Current snapshot of a game
- roll: Roll the die and move (only on your turn)
- surrender: Leave the game; the last player standing wins
- move_log: Paginated log of resolved rolls
- list_rules: Available rules variants

Every player-identity parameter is a user_id UUID you choose and keep using
for the same player.`),
	)

	c.registerTools()
}

func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_rooms",
		Description: "List all rooms and their seats",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListRooms)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_room",
		Description: "Create a room and take the first seat",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"name": map[string]interface{}{
					"type":        "string",
					"description": "Display name for the room",
				},
				"capacity": map[string]interface{}{
					"type":        "integer",
					"description": "Seat count, 2 to 6",
				},
				"rules_id": map[string]interface{}{
					"type":        "string",
					"description": "Rules variant to play (optional, server default when omitted)",
				},
				"user_id": map[string]interface{}{
					"type":        "string",
					"description": "Your user UUID",
				},
				"username": map[string]interface{}{
					"type":        "string",
					"description": "Your display name",
				},
			},
			Required: []string{"user_id", "username"},
		},
	}, c.handleCreateRoom)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "join_room",
		Description: "Take a seat in an open room",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"room_id": map[string]interface{}{
					"type":        "string",
					"description": "Room UUID",
				},
				"user_id": map[string]interface{}{
					"type":        "string",
					"description": "Your user UUID",
				},
				"username": map[string]interface{}{
					"type":        "string",
					"description": "Your display name",
				},
			},
			Required: []string{"room_id", "user_id", "username"},
		},
	}, c.handleJoinRoom)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "start_game",
		Description: "Start the game from a room; needs at least 2 seated players",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"room_id": map[string]interface{}{
					"type":        "string",
					"description": "Room UUID",
				},
				"user_id": map[string]interface{}{
					"type":        "string",
					"description": "Your user UUID (must hold a seat)",
				},
			},
			Required: []string{"room_id", "user_id"},
		},
	}, c.handleStartGame)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current snapshot of a game",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game UUID",
				},
			},
			Required: []string{"game_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "roll",
		Description: "Roll the die and move; only valid on your turn",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game UUID",
				},
				"user_id": map[string]interface{}{
					"type":        "string",
					"description": "Your user UUID",
				},
			},
			Required: []string{"game_id", "user_id"},
		},
	}, c.handleRoll)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "surrender",
		Description: "Give up your seat; the last remaining player wins",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game UUID",
				},
				"user_id": map[string]interface{}{
					"type":        "string",
					"description": "Your user UUID",
				},
			},
			Required: []string{"game_id", "user_id"},
		},
	}, c.handleSurrender)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "move_log",
		Description: "Get the paginated move log of a game",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"game_id": map[string]interface{}{
					"type":        "string",
					"description": "Game UUID",
				},
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
			},
			Required: []string{"game_id"},
		},
	}, c.handleMoveLog)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_rules",
		Description: "List available rules variants",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListRules)
}

// GetMCPServer returns the underlying MCP server for serving.
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

func (c *Client) apiCall(method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

// Tool handlers

func (c *Client) handleListRooms(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count int                 `json:"count"`
		Rooms []*service.RoomInfo `json:"rooms"`
	}
	if err := c.apiCall("GET", "/api/rooms", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Rooms (%d):\n\n", response.Count)
	for _, room := range response.Rooms {
		b.WriteString(formatRoomInfo(room))
		b.WriteString("\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleCreateRoom(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	name, _ := args["name"].(string)
	rulesID, _ := args["rules_id"].(string)
	userID, _ := args["user_id"].(string)
	username, _ := args["username"].(string)
	capacity := 0
	if v, ok := args["capacity"].(float64); ok {
		capacity = int(v)
	}

	body := map[string]interface{}{
		"name":     name,
		"capacity": capacity,
		"rules_id": rulesID,
		"user_id":  userID,
		"username": username,
	}

	var room service.RoomInfo
	if err := c.apiCall("POST", "/api/rooms", body, &room); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("Created room:\n" + formatRoomInfo(&room)), nil
}

func (c *Client) handleJoinRoom(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	roomID, _ := args["room_id"].(string)
	userID, _ := args["user_id"].(string)
	username, _ := args["username"].(string)

	body := map[string]interface{}{
		"user_id":  userID,
		"username": username,
	}

	var room service.RoomInfo
	if err := c.apiCall("POST", fmt.Sprintf("/api/rooms/%s/join", roomID), body, &room); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("Joined room:\n" + formatRoomInfo(&room)), nil
}

func (c *Client) handleStartGame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	roomID, _ := args["room_id"].(string)
	userID, _ := args["user_id"].(string)

	body := map[string]interface{}{"user_id": userID}

	var state service.GameState
	if err := c.apiCall("POST", fmt.Sprintf("/api/rooms/%s/start", roomID), body, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText("Game started!\n\n" + formatGameState(&state)), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)

	var state service.GameState
	if err := c.apiCall("GET", fmt.Sprintf("/api/games/%s", gameID), nil, &state); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatGameState(&state)), nil
}

func (c *Client) handleRoll(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)
	userID, _ := args["user_id"].(string)

	body := map[string]interface{}{"user_id": userID}

	var result service.MoveResult
	if err := c.apiCall("POST", fmt.Sprintf("/api/games/%s/roll", gameID), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatMoveResult(&result)), nil
}

func (c *Client) handleSurrender(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)
	userID, _ := args["user_id"].(string)

	body := map[string]interface{}{"user_id": userID}

	var result service.SurrenderResult
	if err := c.apiCall("POST", fmt.Sprintf("/api/games/%s/surrender", gameID), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text := "You surrendered.\n"
	if result.GameFinished {
		text += fmt.Sprintf("Game over: %s wins (%s).\n", result.WinnerName, result.Reason)
	}
	if result.GameState != nil {
		text += "\n" + formatGameState(result.GameState)
	}
	return mcp.NewToolResultText(text), nil
}

func (c *Client) handleMoveLog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.Params.Arguments.(map[string]interface{})
	gameID, _ := args["game_id"].(string)

	params := "?"
	if page, ok := args["page"].(float64); ok {
		params += fmt.Sprintf("page=%d&", int(page))
	}
	if limit, ok := args["limit"].(float64); ok {
		params += fmt.Sprintf("limit=%d&", int(limit))
	}

	var page service.MoveLogPage
	if err := c.apiCall("GET", fmt.Sprintf("/api/games/%s/moves%s", gameID, params), nil, &page); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatMoveLog(&page)), nil
}

func (c *Client) handleListRules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var rules []*config.RulesInfo
	if err := c.apiCall("GET", "/api/rules", nil, &rules); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available rules variants:\n\n")
	for _, r := range rules {
		fmt.Fprintf(&b, "- %s: %s (track %d, d%d, up to %d players)\n",
			r.RulesID, r.Description, r.BoardSize, r.DiceFaces, r.MaxPlayers)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// Formatting helpers

func formatRoomInfo(room *service.RoomInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Room %s (%s)\n", room.ID, room.Name)
	fmt.Fprintf(&b, "  Status: %s, seats %d/%d\n", room.Status, len(room.Seats), room.Capacity)
	if room.RulesID != "" {
		fmt.Fprintf(&b, "  Rules: %s\n", room.RulesID)
	}
	for _, seat := range room.Seats {
		fmt.Fprintf(&b, "  - %s (%s)\n", seat.Username, seat.UserID)
	}
	if room.GameID != nil {
		fmt.Fprintf(&b, "  Game: %s\n", room.GameID)
	}
	return b.String()
}

func formatGameState(state *service.GameState) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Game %s (%s)\n", state.GameID, state.Status)
	fmt.Fprintf(&b, "Track: %d squares, %d descenders, %d ascenders\n",
		state.BoardSize, len(state.Descenders), len(state.Ascenders))

	for _, p := range state.Players {
		marker := " "
		if state.CurrentTurnPlayerID != nil && *state.CurrentTurnPlayerID == p.PlayerID {
			marker = ">"
		}
		fmt.Fprintf(&b, "%s %s at square %d (%s)\n", marker, p.Username, p.Position, p.Status)
	}

	if len(state.Descenders) > 0 {
		b.WriteString("Descenders:")
		for _, f := range state.Descenders {
			fmt.Fprintf(&b, " %d->%d", f.From, f.To)
		}
		b.WriteString("\n")
	}
	if len(state.Ascenders) > 0 {
		b.WriteString("Ascenders:")
		for _, f := range state.Ascenders {
			fmt.Fprintf(&b, " %d->%d", f.From, f.To)
		}
		b.WriteString("\n")
	}

	if state.WinnerName != "" {
		fmt.Fprintf(&b, "Winner: %s\n", state.WinnerName)
	}
	return b.String()
}

func formatMoveResult(result *service.MoveResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Rolled %d: %s\n", result.DiceValue, result.Message)
	if result.SpecialEvent != "none" {
		fmt.Fprintf(&b, "Event: %s\n", result.SpecialEvent)
	}
	if result.IsWinner {
		b.WriteString("You won!\n")
	}
	if result.GameState != nil {
		b.WriteString("\n")
		b.WriteString(formatGameState(result.GameState))
	}
	return b.String()
}

func formatMoveLog(page *service.MoveLogPage) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Move log (page %d/%d, %d total):\n\n", page.Page, page.TotalPages, page.TotalMoves)
	for _, m := range page.Moves {
		fmt.Fprintf(&b, "- %s rolled %d: %d -> %d", m.Username, m.DiceValue, m.FromPosition, m.FinalPosition)
		if m.SpecialEvent != "none" {
			fmt.Fprintf(&b, " (%s)", m.SpecialEvent)
		}
		b.WriteString("\n")
	}
	return b.String()
}
