package main

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"nba-stats-mcp/internal/lineup"
)

// LineupShiftsArgs is the input schema for get_lineup_shifts.
type LineupShiftsArgs struct {
	Team    string   `json:"team" jsonschema:"Team abbreviation, e.g. BOS (required)"`
	Players []string `json:"players" jsonschema:"Exactly five player full names (required)"`
	Season  string   `json:"season" jsonschema:"Season in YYYY-YY format (default from config)"`
}

// lineupShiftsHandler runs the shift engine for one five-player lineup.
// Validation failures (wrong player count, unknown team) surface before
// any upstream call is made.
func (a *app) lineupShiftsHandler() func(context.Context, *mcp.CallToolRequest, LineupShiftsArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args LineupShiftsArgs) (*mcp.CallToolResult, any, error) {
		out, err := a.engine.LineupShifts(ctx, lineup.Request{
			Team:    args.Team,
			Players: args.Players,
			Season:  a.season(args.Season),
		})
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolMarshal(out)
	}
}
