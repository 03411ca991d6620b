package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"nba-stats-mcp/internal/config"
	"nba-stats-mcp/internal/lineup"
	"nba-stats-mcp/internal/nba"
	"nba-stats-mcp/pkg/logger"
	"nba-stats-mcp/pkg/metrics"
)

// statsAPI is the slice of the upstream client the tool handlers use.
// Tests substitute a fake.
type statsAPI interface {
	PlayerIndex(ctx context.Context, season string) ([]nba.PlayerIndexEntry, error)
	PlayerGameLog(ctx context.Context, playerID int64, season string) ([]nba.PlayerGameLogEntry, error)
	GamesByDate(ctx context.Context, gameDate string) ([]nba.GameFinderRow, error)
	PlayerCareer(ctx context.Context, playerID int64) ([]nba.CareerSeasonRow, error)
	LeagueLeaders(ctx context.Context, q nba.LeadersQuery) ([]nba.LeaderRow, error)
	TeamStats(ctx context.Context, q nba.TeamStatsQuery) ([]nba.TeamStatsRow, error)
	BoxScore(ctx context.Context, gameID string) ([]nba.BoxScoreLine, error)
	PlayByPlay(ctx context.Context, gameID string) ([]nba.PlayByPlayRow, error)
	TodaysScoreboard(ctx context.Context) ([]nba.ScoreboardGame, error)
}

// app wires the tool handlers to their dependencies.
type app struct {
	cfg     *config.Config
	api     statsAPI
	engine  *lineup.Engine
	metrics *metrics.Manager
	log     logger.Logger
}

type toolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// registerTools attaches every tool to the MCP server and returns the
// registry served on /tools.
func (a *app) registerTools(server *mcp.Server) []toolInfo {
	registry := make([]toolInfo, 0, 16)

	addTool(a, server, &registry, &mcp.Tool{
		Name:        "get_lineup_shifts",
		Description: "Shifts and plus/minus for a specific five-player lineup across a season",
	}, a.lineupShiftsHandler())

	addTool(a, server, &registry, &mcp.Tool{
		Name:        "get_recent_scores",
		Description: "Final scores for all games on a date (MM/DD/YYYY)",
	}, a.recentScoresHandler())

	addTool(a, server, &registry, &mcp.Tool{
		Name:        "get_todays_scores",
		Description: "Live scores for today's games",
	}, a.todaysScoresHandler())

	addTool(a, server, &registry, &mcp.Tool{
		Name:        "get_player_game_log",
		Description: "A player's recent games with full stat lines",
	}, a.playerGameLogHandler())

	addTool(a, server, &registry, &mcp.Tool{
		Name:        "get_player_season_stats",
		Description: "A player's season totals and per-game averages",
	}, a.playerSeasonStatsHandler())

	addTool(a, server, &registry, &mcp.Tool{
		Name:        "get_league_leaders",
		Description: "League leaders for any stat with filtering options",
	}, a.leagueLeadersHandler())

	addTool(a, server, &registry, &mcp.Tool{
		Name:        "get_box_score",
		Description: "Full box score for a game by game ID",
	}, a.boxScoreHandler())

	addTool(a, server, &registry, &mcp.Tool{
		Name:        "get_team_stats",
		Description: "Team stats including advanced ratings, pace and four factors",
	}, a.teamStatsHandler())

	addTool(a, server, &registry, &mcp.Tool{
		Name:        "get_play_by_play",
		Description: "Play-by-play events for a game by game ID",
	}, a.playByPlayHandler())

	return registry
}

// addTool registers one tool, wrapping its handler with call metrics.
func addTool[T any](a *app, server *mcp.Server, registry *[]toolInfo, tool *mcp.Tool, handler func(context.Context, *mcp.CallToolRequest, T) (*mcp.CallToolResult, any, error)) {
	*registry = append(*registry, toolInfo{Name: tool.Name, Description: tool.Description})
	wrapped := func(ctx context.Context, req *mcp.CallToolRequest, args T) (*mcp.CallToolResult, any, error) {
		start := time.Now()
		res, out, err := handler(ctx, req, args)
		status := "ok"
		if err != nil || (res != nil && res.IsError) {
			status = "error"
		}
		if a.metrics != nil {
			a.metrics.RecordToolCall(tool.Name, status, time.Since(start))
		}
		return res, out, err
	}
	mcp.AddTool(server, tool, wrapped)
}

// season applies the configured default when a tool omits the season.
func (a *app) season(s string) string {
	if s == "" {
		return a.cfg.DefaultSeason
	}
	return s
}

// resolvePlayer maps a full name to a player index entry.
func (a *app) resolvePlayer(ctx context.Context, name, season string) (nba.PlayerIndexEntry, error) {
	index, err := a.api.PlayerIndex(ctx, season)
	if err != nil {
		return nba.PlayerIndexEntry{}, fmt.Errorf("player index: %w", err)
	}
	return nba.ResolvePlayer(index, name)
}

func toolMarshal(v any) (*mcp.CallToolResult, any, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError(err), nil, nil
	}
	return toolJSONBytes(b), nil, nil
}

func toolJSONBytes(res []byte) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(res)},
		},
	}
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("error: %v", err)},
		},
	}
}
