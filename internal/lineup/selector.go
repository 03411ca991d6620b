package lineup

import (
	"sort"
	"strings"

	"nba-stats-mcp/internal/nba"
)

// CandidateGame is a game in which all five target players individually
// appeared, carrying the metadata parsed from the first player's game log.
type CandidateGame struct {
	GameID   string
	GameDate string
	Opponent string
	Home     bool
}

// CommonGames intersects the per-player game logs and returns the games
// every player appeared in, ordered by game ID (chronological within a
// season). An empty intersection is a normal outcome, not an error.
func CommonGames(logs [][]nba.PlayerGameLogEntry) []CandidateGame {
	if len(logs) == 0 {
		return nil
	}

	common := make(map[string]struct{}, len(logs[0]))
	for _, e := range logs[0] {
		common[e.GameID] = struct{}{}
	}
	for _, log := range logs[1:] {
		seen := make(map[string]struct{}, len(log))
		for _, e := range log {
			seen[e.GameID] = struct{}{}
		}
		for id := range common {
			if _, ok := seen[id]; !ok {
				delete(common, id)
			}
		}
	}

	out := make([]CandidateGame, 0, len(common))
	for _, e := range logs[0] {
		if _, ok := common[e.GameID]; !ok {
			continue
		}
		opponent, home := parseMatchup(e.Matchup)
		out = append(out, CandidateGame{
			GameID:   e.GameID,
			GameDate: e.GameDate,
			Opponent: opponent,
			Home:     home,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GameID < out[j].GameID })
	return out
}

// parseMatchup splits a game-log matchup like "BOS vs. NYK" (home) or
// "BOS @ NYK" (away) into the opponent tricode and a home flag.
func parseMatchup(matchup string) (opponent string, home bool) {
	fields := strings.Fields(matchup)
	if len(fields) < 3 {
		return "", false
	}
	return fields[len(fields)-1], fields[1] != "@"
}
