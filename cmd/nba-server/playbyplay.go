package main

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// PlayByPlayArgs is the input schema for get_play_by_play.
type PlayByPlayArgs struct {
	GameID      string `json:"game_id" jsonschema:"10-digit NBA game ID (required)"`
	StartPeriod int    `json:"start_period" jsonschema:"First period to include (default 1)"`
	EndPeriod   int    `json:"end_period" jsonschema:"Last period to include (default 10, covers overtimes)"`
}

// PlayEvent is one event from get_play_by_play. Side is HOME, AWAY or
// NEUTRAL depending on which description column carried the play.
type PlayEvent struct {
	Period      int    `json:"period"`
	Clock       string `json:"clock"`
	Side        string `json:"side"`
	Description string `json:"description"`
	Score       string `json:"score,omitempty"`
}

func (a *app) playByPlayHandler() func(context.Context, *mcp.CallToolRequest, PlayByPlayArgs) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, req *mcp.CallToolRequest, args PlayByPlayArgs) (*mcp.CallToolResult, any, error) {
		if args.GameID == "" {
			return toolError(fmt.Errorf("game_id is required")), nil, nil
		}
		start := args.StartPeriod
		if start <= 0 {
			start = 1
		}
		end := args.EndPeriod
		if end <= 0 {
			end = 10
		}
		if end < start {
			return toolError(fmt.Errorf("end_period %d precedes start_period %d", end, start)), nil, nil
		}

		rows, err := a.api.PlayByPlay(ctx, args.GameID)
		if err != nil {
			return toolError(err), nil, nil
		}
		if len(rows) == 0 {
			return toolError(fmt.Errorf("no play-by-play available for game %s", args.GameID)), nil, nil
		}

		out := make([]PlayEvent, 0, len(rows))
		for _, r := range rows {
			if r.Period < start || r.Period > end {
				continue
			}
			side, desc := "NEUTRAL", r.NeutralDesc
			switch {
			case r.HomeDesc != "":
				side, desc = "HOME", r.HomeDesc
			case r.VisitorDesc != "":
				side, desc = "AWAY", r.VisitorDesc
			}
			if desc == "" {
				continue
			}
			out = append(out, PlayEvent{
				Period:      r.Period,
				Clock:       r.Clock,
				Side:        side,
				Description: desc,
				Score:       r.Score,
			})
		}
		return toolMarshal(map[string]any{
			"game_id": args.GameID,
			"events":  out,
		})
	}
}
