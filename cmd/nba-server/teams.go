package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"nba-stats-mcp/internal/nba"
)

// TeamStatsArgs is the input schema for get_team_stats.
type TeamStatsArgs struct {
	Season      string `json:"season" jsonschema:"Season in YYYY-YY format (default from config)"`
	SeasonType  string `json:"season_type" jsonschema:"'Regular Season' or 'Playoffs' (default Regular Season)"`
	MeasureType string `json:"measure_type" jsonschema:"'Base', 'Advanced' or 'Four Factors' (default Advanced)"`
	PerMode     string `json:"per_mode" jsonschema:"'PerGame' or 'Totals' (default PerGame)"`
	SortBy      string `json:"sort_by" jsonschema:"Column to sort by, e.g. NET_RATING, OFF_RATING, DEF_RATING, PACE (default NET_RATING)"`
	TopN        int    `json:"top_n" jsonschema:"Limit to the first N teams after sorting (default all 30)"`
	Conference  string `json:"conference" jsonschema:"Filter by conference: East or West"`
	Division    string `json:"division" jsonschema:"Filter by division, e.g. Central, Southwest"`
}

// TeamStatLine is one team row from get_team_stats. Stats carries the
// measure-specific columns for the requested measure type.
type TeamStatLine struct {
	Rank   int                `json:"rank"`
	Team   string             `json:"team"`
	Abbr   string             `json:"abbr"`
	GP     int                `json:"gp"`
	Record string             `json:"record"`
	WinPct float64            `json:"win_pct"`
	Stats  map[string]float64 `json:"stats"`
}

// measureColumns picks which upstream columns each measure type surfaces.
var measureColumns = map[string][]string{
	"Base": {
		"PTS", "REB", "AST", "STL", "BLK", "TOV",
		"FG_PCT", "FG3_PCT", "FT_PCT", "PLUS_MINUS",
	},
	"Advanced": {
		"OFF_RATING", "DEF_RATING", "NET_RATING", "PACE",
		"AST_PCT", "REB_PCT", "EFG_PCT", "TS_PCT",
	},
	"Four Factors": {
		"EFG_PCT", "FTA_RATE", "TM_TOV_PCT", "OREB_PCT",
		"OPP_EFG_PCT", "OPP_FTA_RATE", "OPP_TOV_PCT", "OPP_OREB_PCT",
	},
}

func (a *app) teamStatsHandler() func(context.Context, *mcp.CallToolRequest, TeamStatsArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args TeamStatsArgs) (*mcp.CallToolResult, any, error) {
		measure := args.MeasureType
		if measure == "" {
			measure = "Advanced"
		}
		cols, ok := measureColumns[measure]
		if !ok {
			return toolError(fmt.Errorf("unsupported measure_type %q", args.MeasureType)), nil, nil
		}
		seasonType := args.SeasonType
		if seasonType == "" {
			seasonType = "Regular Season"
		}
		perMode := args.PerMode
		if perMode == "" {
			perMode = "PerGame"
		}
		sortBy := args.SortBy
		if sortBy == "" {
			sortBy = "NET_RATING"
			if measure != "Advanced" {
				sortBy = cols[0]
			}
		}

		rows, err := a.api.TeamStats(ctx, nba.TeamStatsQuery{
			Season:      a.season(args.Season),
			SeasonType:  seasonType,
			MeasureType: measure,
			PerMode:     perMode,
			Conference:  args.Conference,
			Division:    args.Division,
		})
		if err != nil {
			return toolError(err), nil, nil
		}
		if len(rows) == 0 {
			return toolError(fmt.Errorf("no team stats returned for %s", a.season(args.Season))), nil, nil
		}

		// Lower is better only for defensive rating.
		ascending := sortBy == "DEF_RATING"
		sort.SliceStable(rows, func(i, j int) bool {
			vi, vj := rows[i].Values[sortBy], rows[j].Values[sortBy]
			if ascending {
				return vi < vj
			}
			return vi > vj
		})
		if args.TopN > 0 && len(rows) > args.TopN {
			rows = rows[:args.TopN]
		}

		out := make([]TeamStatLine, 0, len(rows))
		for i, r := range rows {
			stats := make(map[string]float64, len(cols))
			for _, c := range cols {
				if v, ok := r.Values[c]; ok {
					stats[c] = v
				}
			}
			out = append(out, TeamStatLine{
				Rank:   i + 1,
				Team:   r.TeamName,
				Abbr:   r.TeamAbbr,
				GP:     r.GP,
				Record: fmt.Sprintf("%d-%d", r.Wins, r.Losses),
				WinPct: r.WinPct,
				Stats:  stats,
			})
		}
		return toolMarshal(map[string]any{
			"season":       a.season(args.Season),
			"measure_type": measure,
			"sorted_by":    sortBy,
			"teams":        out,
		})
	}
}
