package lineup

import "nba-stats-mcp/internal/nba"

// Shift is a closed interval of game time during which one specific
// lineup was continuously on the court for the tracked team.
type Shift struct {
	GameID        string  `json:"game_id"`
	GameDate      string  `json:"game_date"`
	Opponent      string  `json:"opponent"`
	Home          bool    `json:"home"`
	Period        int     `json:"period"`
	DurationSecs  float64 `json:"duration_secs"`
	PointsFor     int     `json:"points_for"`
	PointsAllowed int     `json:"points_allowed"`
	PlusMinus     int     `json:"plus_minus"`
}

// GameContext carries the per-game metadata stamped onto every shift.
type GameContext struct {
	GameID   string
	GameDate string
	Opponent string
	Home     bool
}

// snapshot is the shift-open state taken at the most recent substitution
// boundary (or game start).
type snapshot struct {
	period    int
	clock     string
	teamScore int
	oppScore  int
}

// SubstitutionEvents filters a game's action stream down to the tracked
// team's substitutions, preserving the stream order.
func SubstitutionEvents(actions []nba.LiveAction, teamID int64) []SubstitutionEvent {
	out := make([]SubstitutionEvent, 0, 32)
	for _, a := range actions {
		if a.ActionType != "substitution" || a.TeamID != teamID {
			continue
		}
		out = append(out, SubstitutionEvent{
			TeamID:    a.TeamID,
			Kind:      SubKind(a.SubType),
			PlayerID:  a.PersonID,
			Clock:     a.Clock,
			Period:    a.Period,
			HomeScore: a.ScoreHomeInt(),
			AwayScore: a.ScoreAwayInt(),
		})
	}
	return out
}

// ExtractShifts walks one game's ordered substitution events and emits a
// Shift for every interval during which the lineup on court equaled the
// target set. Each shift is attributed to the lineup that was on court
// before the triggering substitution; the substitution is applied after
// the interval is measured.
//
// Simultaneous multi-player swaps arrive as several events at one clock
// tick; the duration/differential guard suppresses the degenerate
// zero-length intervals between them, so a 5-man swap yields at most one
// shift spanning the preceding interval.
//
// The final interval at game end is never closed, and an interval is not
// split when a period boundary passes without a substitution: a lineup
// that plays across the break unchanged is recorded as a single shift.
func ExtractShifts(game GameContext, starters []PlayerID, target LineupSet, events []SubstitutionEvent) []Shift {
	tracker := NewTracker(starters)
	snap := snapshot{period: 1, clock: FullPeriodClock}

	var shifts []Shift
	for _, ev := range events {
		teamScore, oppScore := orientScore(ev, game.Home)
		scored := teamScore - snap.teamScore
		allowed := oppScore - snap.oppScore
		diff := scored - allowed
		duration := ParseClock(snap.clock) - ParseClock(ev.Clock)

		if tracker.OnCourt().Equal(target) && (duration > 0 || diff != 0) {
			shifts = append(shifts, Shift{
				GameID:        game.GameID,
				GameDate:      game.GameDate,
				Opponent:      game.Opponent,
				Home:          game.Home,
				Period:        snap.period,
				DurationSecs:  duration,
				PointsFor:     scored,
				PointsAllowed: allowed,
				PlusMinus:     diff,
			})
		}

		tracker.Apply(ev.Kind, ev.PlayerID)
		snap = snapshot{period: ev.Period, clock: ev.Clock, teamScore: teamScore, oppScore: oppScore}
	}
	return shifts
}

// orientScore maps the cumulative home/away score onto tracked-team and
// opponent points.
func orientScore(ev SubstitutionEvent, home bool) (team, opp int) {
	if home {
		return ev.HomeScore, ev.AwayScore
	}
	return ev.AwayScore, ev.HomeScore
}
