package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"nba-stats-mcp/internal/nba"
)

// RecentScoresArgs is the input schema for get_recent_scores.
type RecentScoresArgs struct {
	GameDate string `json:"game_date" jsonschema:"Game date in MM/DD/YYYY format (required)"`
}

// TodaysScoresArgs is the input schema for get_todays_scores (no parameters).
type TodaysScoresArgs struct{}

// GameScore is one final score from get_recent_scores.
type GameScore struct {
	GameID    string `json:"game_id"`
	GameDate  string `json:"game_date"`
	HomeTeam  string `json:"home_team"`
	HomeScore int    `json:"home_score"`
	AwayTeam  string `json:"away_team"`
	AwayScore int    `json:"away_score"`
	Matchup   string `json:"matchup"`
}

// LiveScore is one game from get_todays_scores.
type LiveScore struct {
	HomeTeam    string `json:"home_team"`
	HomeTricode string `json:"home_tricode"`
	HomeScore   int    `json:"home_score"`
	HomeRecord  string `json:"home_record"`
	AwayTeam    string `json:"away_team"`
	AwayTricode string `json:"away_tricode"`
	AwayScore   int    `json:"away_score"`
	AwayRecord  string `json:"away_record"`
	GameStatus  string `json:"game_status"`
	GameID      string `json:"game_id"`
}

// buildRecentScores pairs the two team-side rows of each game into one
// final score. The "@" marker in MATCHUP distinguishes home from away.
func buildRecentScores(rows []nba.GameFinderRow) []GameScore {
	byGame := make(map[string][]nba.GameFinderRow)
	order := make([]string, 0, len(rows)/2)
	for _, r := range rows {
		if _, ok := byGame[r.GameID]; !ok {
			order = append(order, r.GameID)
		}
		byGame[r.GameID] = append(byGame[r.GameID], r)
	}

	out := make([]GameScore, 0, len(order))
	for _, id := range order {
		pair := byGame[id]
		if len(pair) != 2 {
			continue
		}
		away, home := pair[0], pair[1]
		if !strings.Contains(pair[0].Matchup, "@") {
			away, home = pair[1], pair[0]
		}
		out = append(out, GameScore{
			GameID:    id,
			GameDate:  home.GameDate,
			HomeTeam:  home.TeamName,
			HomeScore: home.Points,
			AwayTeam:  away.TeamName,
			AwayScore: away.Points,
			Matchup:   fmt.Sprintf("%s @ %s", away.TeamAbbr, home.TeamAbbr),
		})
	}
	return out
}

func (a *app) recentScoresHandler() func(context.Context, *mcp.CallToolRequest, RecentScoresArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args RecentScoresArgs) (*mcp.CallToolResult, any, error) {
		if args.GameDate == "" {
			return toolError(fmt.Errorf("game_date is required (MM/DD/YYYY)")), nil, nil
		}
		rows, err := a.api.GamesByDate(ctx, args.GameDate)
		if err != nil {
			return toolError(err), nil, nil
		}
		return toolMarshal(buildRecentScores(rows))
	}
}

func (a *app) todaysScoresHandler() func(context.Context, *mcp.CallToolRequest, TodaysScoresArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args TodaysScoresArgs) (*mcp.CallToolResult, any, error) {
		games, err := a.api.TodaysScoreboard(ctx)
		if err != nil {
			return toolError(err), nil, nil
		}
		out := make([]LiveScore, 0, len(games))
		for _, g := range games {
			out = append(out, LiveScore{
				HomeTeam:    fmt.Sprintf("%s %s", g.HomeTeam.TeamCity, g.HomeTeam.TeamName),
				HomeTricode: g.HomeTeam.TeamTricode,
				HomeScore:   g.HomeTeam.Score,
				HomeRecord:  fmt.Sprintf("%d-%d", g.HomeTeam.Wins, g.HomeTeam.Losses),
				AwayTeam:    fmt.Sprintf("%s %s", g.AwayTeam.TeamCity, g.AwayTeam.TeamName),
				AwayTricode: g.AwayTeam.TeamTricode,
				AwayScore:   g.AwayTeam.Score,
				AwayRecord:  fmt.Sprintf("%d-%d", g.AwayTeam.Wins, g.AwayTeam.Losses),
				GameStatus:  g.GameStatusText,
				GameID:      g.GameID,
			})
		}
		return toolMarshal(out)
	}
}
