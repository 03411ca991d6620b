package main

import (
	"context"
	"fmt"
	"math"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// PlayerGameLogArgs is the input schema for get_player_game_log.
type PlayerGameLogArgs struct {
	PlayerName string `json:"player_name" jsonschema:"Player full name, e.g. 'LeBron James' (required)"`
	NumGames   int    `json:"num_games" jsonschema:"Number of recent games to return (default 10)"`
	Season     string `json:"season" jsonschema:"Season in YYYY-YY format (default from config)"`
}

// PlayerSeasonStatsArgs is the input schema for get_player_season_stats.
type PlayerSeasonStatsArgs struct {
	PlayerName string `json:"player_name" jsonschema:"Player full name (required)"`
	Season     string `json:"season" jsonschema:"Season in YYYY-YY format (default from config)"`
}

// GameLogLine is one game from get_player_game_log.
type GameLogLine struct {
	Player    string  `json:"player"`
	Date      string  `json:"date"`
	Matchup   string  `json:"matchup"`
	Result    string  `json:"result"`
	Min       int     `json:"min"`
	Pts       int     `json:"pts"`
	Reb       int     `json:"reb"`
	Ast       int     `json:"ast"`
	Stl       int     `json:"stl"`
	Blk       int     `json:"blk"`
	Tov       int     `json:"tov"`
	FG        string  `json:"fg"`
	FGPct     float64 `json:"fg_pct"`
	ThreePt   string  `json:"three_pt"`
	FT        string  `json:"ft"`
	PlusMinus float64 `json:"plus_minus"`
}

// SeasonStatLine is one season stint from get_player_season_stats.
type SeasonStatLine struct {
	Player      string  `json:"player"`
	Season      string  `json:"season"`
	Team        string  `json:"team"`
	GamesPlayed int     `json:"games_played"`
	MinTotal    float64 `json:"minutes_total"`
	MPG         float64 `json:"mpg"`
	PtsTotal    float64 `json:"pts_total"`
	PPG         float64 `json:"ppg"`
	RebTotal    float64 `json:"reb_total"`
	RPG         float64 `json:"rpg"`
	AstTotal    float64 `json:"ast_total"`
	APG         float64 `json:"apg"`
	StlTotal    float64 `json:"stl_total"`
	SPG         float64 `json:"spg"`
	BlkTotal    float64 `json:"blk_total"`
	BPG         float64 `json:"bpg"`
	TovTotal    float64 `json:"tov_total"`
	TOPG        float64 `json:"topg"`
	FGPct       float64 `json:"fg_pct"`
	FG3Pct      float64 `json:"fg3_pct"`
	FTPct       float64 `json:"ft_pct"`
}

func (a *app) playerGameLogHandler() func(context.Context, *mcp.CallToolRequest, PlayerGameLogArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args PlayerGameLogArgs) (*mcp.CallToolResult, any, error) {
		if args.PlayerName == "" {
			return toolError(fmt.Errorf("player_name is required")), nil, nil
		}
		season := a.season(args.Season)
		n := args.NumGames
		if n <= 0 {
			n = 10
		}

		player, err := a.resolvePlayer(ctx, args.PlayerName, season)
		if err != nil {
			return toolError(err), nil, nil
		}
		entries, err := a.api.PlayerGameLog(ctx, player.PersonID, season)
		if err != nil {
			return toolError(err), nil, nil
		}
		if len(entries) == 0 {
			return toolError(fmt.Errorf("no games found for %s in %s", player.Name, season)), nil, nil
		}
		if len(entries) > n {
			entries = entries[:n]
		}

		out := make([]GameLogLine, 0, len(entries))
		for _, e := range entries {
			out = append(out, GameLogLine{
				Player:    player.Name,
				Date:      e.GameDate,
				Matchup:   e.Matchup,
				Result:    e.WinLoss,
				Min:       e.Minutes,
				Pts:       e.Points,
				Reb:       e.Rebounds,
				Ast:       e.Assists,
				Stl:       e.Steals,
				Blk:       e.Blocks,
				Tov:       e.Turnovers,
				FG:        fmt.Sprintf("%d-%d", e.FGM, e.FGA),
				FGPct:     e.FGPct,
				ThreePt:   fmt.Sprintf("%d-%d", e.FG3M, e.FG3A),
				FT:        fmt.Sprintf("%d-%d", e.FTM, e.FTA),
				PlusMinus: e.PlusMinus,
			})
		}
		return toolMarshal(out)
	}
}

func (a *app) playerSeasonStatsHandler() func(context.Context, *mcp.CallToolRequest, PlayerSeasonStatsArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args PlayerSeasonStatsArgs) (*mcp.CallToolResult, any, error) {
		if args.PlayerName == "" {
			return toolError(fmt.Errorf("player_name is required")), nil, nil
		}
		season := a.season(args.Season)

		player, err := a.resolvePlayer(ctx, args.PlayerName, season)
		if err != nil {
			return toolError(err), nil, nil
		}
		seasons, err := a.api.PlayerCareer(ctx, player.PersonID)
		if err != nil {
			return toolError(err), nil, nil
		}

		out := make([]SeasonStatLine, 0, 2)
		for _, s := range seasons {
			if s.SeasonID != season {
				continue
			}
			gp := s.GamesPlayed
			out = append(out, SeasonStatLine{
				Player:      player.Name,
				Season:      s.SeasonID,
				Team:        s.TeamAbbr,
				GamesPlayed: gp,
				MinTotal:    s.Minutes,
				MPG:         perGame(s.Minutes, gp),
				PtsTotal:    s.Points,
				PPG:         perGame(s.Points, gp),
				RebTotal:    s.Rebounds,
				RPG:         perGame(s.Rebounds, gp),
				AstTotal:    s.Assists,
				APG:         perGame(s.Assists, gp),
				StlTotal:    s.Steals,
				SPG:         perGame(s.Steals, gp),
				BlkTotal:    s.Blocks,
				BPG:         perGame(s.Blocks, gp),
				TovTotal:    s.Turnovers,
				TOPG:        perGame(s.Turnovers, gp),
				FGPct:       s.FGPct,
				FG3Pct:      s.FG3Pct,
				FTPct:       s.FTPct,
			})
		}
		if len(out) == 0 {
			return toolError(fmt.Errorf("no stats found for %s in %s", player.Name, season)), nil, nil
		}
		return toolMarshal(out)
	}
}

// perGame rounds a per-game average to one decimal, guarding zero games.
func perGame(total float64, gp int) float64 {
	if gp <= 0 {
		return 0
	}
	return math.Round(total/float64(gp)*10) / 10
}
