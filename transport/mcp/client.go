package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/wricardo/berserker/game/engine"
	"github.com/wricardo/berserker/game/service"
	"github.com/wricardo/berserker/game/session"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Berserker",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Berserker - MCP Interface

This is a thin client that proxies requests to the Berserker HTTP API. Games
are played by humans over WebSocket; these tools create sessions, inspect them
and explain the rules.

AVAILABLE TOOLS:
- create_session: Create a new game session (optionally with a rule preset)
- game_state: Show the board, stashes, turn and winner of a session
- preview_move: Show what placing a pawn at (row, col) would do, without playing it
- list_configs: List available rule presets
- game_rules: Explain the rules of Berserker`),
	)

	c.registerTools()
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session with optional rule preset selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "Rule preset to use (optional, see list_configs)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current state of a game session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "preview_move",
		Description: "Preview placing a pawn for the player to move: pushes, captures and whether it wins. The game is not changed.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": map[string]interface{}{
					"type":        "string",
					"description": "Session ID",
				},
				"row": map[string]interface{}{
					"type":        "integer",
					"description": "Row, 0 at the top",
				},
				"col": map[string]interface{}{
					"type":        "integer",
					"description": "Column, 0 at the left",
				},
			},
			Required: []string{"session_id", "row", "col"},
		},
	}, c.handlePreviewMove)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available rule presets",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_rules",
		Description: "Explain the rules of Berserker",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleGameRules)
}

// GetMCPServer returns the underlying MCP server
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
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

func (c *Client) fetchSnapshot(ctx context.Context, sessionID string) (*session.Snapshot, error) {
	var snap session.Snapshot
	if err := c.apiCall(ctx, "GET", "/api/sessions/"+url.PathEscape(sessionID), nil, &snap); err != nil {
		return nil, err
	}
	if snap.Board == nil {
		return nil, fmt.Errorf("session %s: response has no board", sessionID)
	}
	return &snap, nil
}

func arguments(request mcp.CallToolRequest) map[string]interface{} {
	args, _ := request.Params.Arguments.(map[string]interface{})
	if args == nil {
		return map[string]interface{}{}
	}
	return args
}

func intArgument(args map[string]interface{}, name string) (int, bool) {
	switch v := args[name].(type) {
	case float64:
		if v != float64(int(v)) {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	}
	return 0, false
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	configID, _ := args["config_id"].(string)

	body := map[string]string{}
	if configID != "" {
		body["config_id"] = configID
	}

	var created struct {
		SessionID string `json:"sessionId"`
	}
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &created); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if configID == "" {
		configID = "default"
	}
	result := fmt.Sprintf("Created session: %s\nRules: %s\nPlayers join over WebSocket at /ws with {\"type\":\"join\",\"payload\":{\"sessionId\":%q,\"name\":\"...\"}}\n",
		created.SessionID, configID, created.SessionID)
	return mcp.NewToolResultText(result), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	if sessionID == "" {
		return mcp.NewToolResultError("session_id is required"), nil
	}

	snap, err := c.fetchSnapshot(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSnapshot(snap)), nil
}

func (c *Client) handlePreviewMove(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, _ := args["session_id"].(string)
	row, okRow := intArgument(args, "row")
	col, okCol := intArgument(args, "col")
	if sessionID == "" || !okRow || !okCol {
		return mcp.NewToolResultError("session_id, row and col are required"), nil
	}

	snap, err := c.fetchSnapshot(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	state := &engine.GameState{
		Board:  snap.Board,
		Stash:  snap.Stash,
		Turn:   snap.CurrentPlayer,
		Winner: snap.Winner,
	}
	result, err := engine.ResolvePlacement(state, row, col, state.Turn)
	if err != nil {
		return mcp.NewToolResultText(fmt.Sprintf("Placing %s at (%d,%d) is illegal: %v\n", state.Turn, row, col, err)), nil
	}

	return mcp.NewToolResultText(formatPreview(result)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []*service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var sb strings.Builder
	sb.WriteString("Available rule presets:\n")
	for _, cfg := range configs {
		sb.WriteString(fmt.Sprintf("- %s: %dx%d board, %d pawns each", cfg.ConfigID, cfg.BoardSize, cfg.BoardSize, cfg.InitialStash))
		if cfg.Description != "" {
			sb.WriteString(" - " + cfg.Description)
		}
		sb.WriteString("\n")
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (c *Client) handleGameRules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(gameRules), nil
}

const gameRules = `BERSERKER RULES

Two players, red and white, share a square board (6x6 in the classic preset).
Each starts with a stash of pawns (8 in the classic preset). Red moves first.

ON YOUR TURN:
Place one pawn from your stash on any empty cell.

PUSHING:
The new pawn pushes every pawn directly adjacent to it (all 8 directions,
either color) one step straight away from it:
- If the pawn would leave the board, it is removed and goes back to its
  owner's stash.
- If the cell behind it is empty, it moves there.
- If the cell behind it is occupied, it does not move.
Pushes never chain: only the immediate neighbors move, by one cell.

WINNING (checked after every placement, in this order):
1. If the mover's stash is now empty, the mover wins.
2. Otherwise, if any color has three pawns in a row horizontally, vertically
   or diagonally, that color wins. This can be the opponent, if a push
   completed their line.
Otherwise the turn passes to the other player.

SEATS:
The first player to join a session plays red (host), the second white
(guest). Later joiners watch. Only the host can reset the game.

COORDINATES:
Rows and columns count from 0 at the top-left corner.
`

// Formatting helpers

func formatSnapshot(snap *session.Snapshot) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Session: %s\n", snap.SessionID))
	sb.WriteString(fmt.Sprintf("Red (host): %s\n", playerName(snap.Players.Host)))
	sb.WriteString(fmt.Sprintf("White (guest): %s\n", playerName(snap.Players.Guest)))
	sb.WriteString(fmt.Sprintf("Stash: red %d, white %d\n", snap.Stash.Red, snap.Stash.White))

	if snap.Winner != nil {
		sb.WriteString(fmt.Sprintf("Winner: %s\n", *snap.Winner))
	} else {
		sb.WriteString(fmt.Sprintf("To move: %s\n", snap.CurrentPlayer))
	}

	sb.WriteString("\n")
	sb.WriteString(formatBoard(snap.Board))
	return sb.String()
}

// formatBoard renders the board with row and column numbers
func formatBoard(b *engine.Board) string {
	if b == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("  ")
	for c := 0; c < b.Size(); c++ {
		sb.WriteString(fmt.Sprintf("%d", c%10))
	}
	sb.WriteString("\n")

	for r, line := range strings.Split(strings.TrimRight(b.String(), "\n"), "\n") {
		sb.WriteString(fmt.Sprintf("%d %s\n", r%10, line))
	}
	sb.WriteString("(R = red, W = white, . = empty)\n")
	return sb.String()
}

func formatPreview(result *engine.Result) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Placing %s at (%d,%d):\n", result.Color, result.Placed.Row, result.Placed.Col))
	if len(result.Pushes) == 0 {
		sb.WriteString("- no pawns pushed\n")
	}
	for _, p := range result.Pushes {
		if p.OffBoard {
			sb.WriteString(fmt.Sprintf("- %s pawn at (%d,%d) pushed %s off the board, back to %s's stash\n",
				p.Color, p.From.Row, p.From.Col, p.Direction, p.Color))
			continue
		}
		sb.WriteString(fmt.Sprintf("- %s pawn at (%d,%d) pushed %s to (%d,%d)\n",
			p.Color, p.From.Row, p.From.Col, p.Direction, p.To.Row, p.To.Col))
	}

	if result.Winner != nil {
		sb.WriteString(fmt.Sprintf("Result: %s wins\n", *result.Winner))
	} else {
		sb.WriteString(fmt.Sprintf("Result: %s to move next\n", result.State.Turn))
	}

	sb.WriteString("\n")
	sb.WriteString(formatBoard(result.State.Board))
	return sb.String()
}

func playerName(p *session.PlayerView) string {
	if p == nil {
		return "(open)"
	}
	if p.Name == "" {
		return "(anonymous)"
	}
	return p.Name
}
