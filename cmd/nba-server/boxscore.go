package main

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"nba-stats-mcp/internal/nba"
)

// BoxScoreArgs is the input schema for get_box_score.
type BoxScoreArgs struct {
	GameID string `json:"game_id" jsonschema:"10-digit NBA game ID, e.g. '0022500306' (required)"`
}

// BoxScoreTeam groups one team's player lines.
type BoxScoreTeam struct {
	Team    string         `json:"team"`
	Abbr    string         `json:"abbr"`
	Players []BoxScoreStat `json:"players"`
}

// BoxScoreStat is one player line from get_box_score.
type BoxScoreStat struct {
	Player    string  `json:"player"`
	Position  string  `json:"position"`
	Min       string  `json:"min"`
	Pts       int     `json:"pts"`
	Reb       int     `json:"reb"`
	Ast       int     `json:"ast"`
	Stl       int     `json:"stl"`
	Blk       int     `json:"blk"`
	Tov       int     `json:"tov"`
	PF        int     `json:"pf"`
	FG        string  `json:"fg"`
	ThreePt   string  `json:"three_pt"`
	FT        string  `json:"ft"`
	PlusMinus float64 `json:"plus_minus"`
}

func (a *app) boxScoreHandler() func(context.Context, *mcp.CallToolRequest, BoxScoreArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args BoxScoreArgs) (*mcp.CallToolResult, any, error) {
		if args.GameID == "" {
			return toolError(fmt.Errorf("game_id is required")), nil, nil
		}
		lines, err := a.api.BoxScore(ctx, args.GameID)
		if err != nil {
			return toolError(err), nil, nil
		}
		if len(lines) == 0 {
			return toolError(fmt.Errorf("no box score available for game %s", args.GameID)), nil, nil
		}

		// Upstream rows arrive grouped by team; preserve that order.
		var teams []*BoxScoreTeam
		byID := make(map[int64]*BoxScoreTeam, 2)
		for _, l := range lines {
			t, ok := byID[l.TeamID]
			if !ok {
				name := fmt.Sprintf("%s %s", l.TeamCity, l.TeamAbbr)
				if franchise, err := nba.TeamByID(l.TeamID); err == nil {
					name = fmt.Sprintf("%s %s", franchise.City, franchise.Nickname)
				}
				t = &BoxScoreTeam{
					Team: name,
					Abbr: l.TeamAbbr,
				}
				byID[l.TeamID] = t
				teams = append(teams, t)
			}
			pos := l.StartPosition
			if pos == "" {
				pos = "Bench"
			}
			t.Players = append(t.Players, BoxScoreStat{
				Player:    l.PlayerName,
				Position:  pos,
				Min:       l.Minutes,
				Pts:       l.Points,
				Reb:       l.Rebounds,
				Ast:       l.Assists,
				Stl:       l.Steals,
				Blk:       l.Blocks,
				Tov:       l.Turnovers,
				PF:        l.Fouls,
				FG:        fmt.Sprintf("%d-%d", l.FGM, l.FGA),
				ThreePt:   fmt.Sprintf("%d-%d", l.FG3M, l.FG3A),
				FT:        fmt.Sprintf("%d-%d", l.FTM, l.FTA),
				PlusMinus: l.PlusMinus,
			})
		}
		return toolMarshal(map[string]any{
			"game_id": args.GameID,
			"teams":   teams,
		})
	}
}
