package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"nba-stats-mcp/internal/nba"
)

// LeagueLeadersArgs is the input schema for get_league_leaders.
type LeagueLeadersArgs struct {
	StatCategory string `json:"stat_category" jsonschema:"Stat to rank by: PTS, REB, AST, STL, BLK, TOV, FG_PCT, FG3_PCT, FT_PCT, MIN, PLUS_MINUS (default PTS)"`
	Season       string `json:"season" jsonschema:"Season in YYYY-YY format (default from config)"`
	SeasonType   string `json:"season_type" jsonschema:"'Regular Season' or 'Playoffs' (default Regular Season)"`
	PerMode      string `json:"per_mode" jsonschema:"'PerGame' or 'Totals' (default PerGame)"`
	TopN         int    `json:"top_n" jsonschema:"Number of players to return (default 10)"`
	Position     string `json:"position" jsonschema:"Filter by position: F, C, G, F-C, F-G, G-F, C-F"`
	Conference   string `json:"conference" jsonschema:"Filter by conference: East or West"`
	Division     string `json:"division" jsonschema:"Filter by division, e.g. Atlantic, Pacific"`
	Experience   string `json:"experience" jsonschema:"Filter by experience: Rookie, Sophomore or Veteran"`
	StarterBench string `json:"starter_bench" jsonschema:"Filter by role: Starters or Bench"`
	LastNGames   int    `json:"last_n_games" jsonschema:"Restrict to each player's last N games"`
	Month        int    `json:"month" jsonschema:"Restrict to a season month, 1-12 (0 for all)"`
	Location     string `json:"location" jsonschema:"Filter by location: Home or Road"`
	Outcome      string `json:"outcome" jsonschema:"Filter by game outcome: W or L"`
	College      string `json:"college" jsonschema:"Filter by college, e.g. Duke"`
	Country      string `json:"country" jsonschema:"Filter by country, e.g. USA, France"`
	DraftYear    string `json:"draft_year" jsonschema:"Filter by draft year, e.g. '2019'"`
	DraftPick    string `json:"draft_pick" jsonschema:"Filter by draft pick bucket, e.g. '1st Round', 'Lottery Pick'"`
}

// LeaderLine is one ranked player from get_league_leaders.
type LeaderLine struct {
	Rank      int     `json:"rank"`
	Player    string  `json:"player"`
	Team      string  `json:"team"`
	GP        int     `json:"gp"`
	Value     float64 `json:"value"`
	Pts       float64 `json:"pts"`
	Reb       float64 `json:"reb"`
	Ast       float64 `json:"ast"`
	Stl       float64 `json:"stl"`
	Blk       float64 `json:"blk"`
	Tov       float64 `json:"tov"`
	Min       float64 `json:"min"`
	PlusMinus float64 `json:"plus_minus"`
}

var leaderStats = map[string]bool{
	"PTS": true, "REB": true, "AST": true, "STL": true, "BLK": true,
	"TOV": true, "FG_PCT": true, "FG3_PCT": true, "FT_PCT": true,
	"MIN": true, "PLUS_MINUS": true,
}

func (a *app) leagueLeadersHandler() func(context.Context, *mcp.CallToolRequest, LeagueLeadersArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args LeagueLeadersArgs) (*mcp.CallToolResult, any, error) {
		stat := strings.ToUpper(strings.TrimSpace(args.StatCategory))
		if stat == "" {
			stat = "PTS"
		}
		if !leaderStats[stat] {
			return toolError(fmt.Errorf("unsupported stat_category %q", args.StatCategory)), nil, nil
		}
		seasonType := args.SeasonType
		if seasonType == "" {
			seasonType = "Regular Season"
		}
		perMode := args.PerMode
		if perMode == "" {
			perMode = "PerGame"
		}
		topN := args.TopN
		if topN <= 0 {
			topN = 10
		}

		rows, err := a.api.LeagueLeaders(ctx, nba.LeadersQuery{
			Stat:         stat,
			Season:       a.season(args.Season),
			SeasonType:   seasonType,
			PerMode:      perMode,
			TopN:         topN,
			Position:     args.Position,
			Conference:   args.Conference,
			Division:     args.Division,
			Experience:   args.Experience,
			StarterBench: args.StarterBench,
			LastNGames:   args.LastNGames,
			Month:        args.Month,
			Location:     args.Location,
			Outcome:      args.Outcome,
			College:      args.College,
			Country:      args.Country,
			DraftYear:    args.DraftYear,
			DraftPick:    args.DraftPick,
		})
		if err != nil {
			return toolError(err), nil, nil
		}
		if len(rows) == 0 {
			return toolError(fmt.Errorf("no players matched the given filters")), nil, nil
		}

		out := make([]LeaderLine, 0, len(rows))
		for i, r := range rows {
			out = append(out, LeaderLine{
				Rank:      i + 1,
				Player:    r.PlayerName,
				Team:      r.TeamAbbr,
				GP:        r.GP,
				Value:     r.SortValue,
				Pts:       r.Points,
				Reb:       r.Rebounds,
				Ast:       r.Assists,
				Stl:       r.Steals,
				Blk:       r.Blocks,
				Tov:       r.Turnovers,
				Min:       r.Minutes,
				PlusMinus: r.PlusMinus,
			})
		}
		return toolMarshal(map[string]any{
			"stat_category": stat,
			"season":        a.season(args.Season),
			"per_mode":      perMode,
			"leaders":       out,
		})
	}
}
