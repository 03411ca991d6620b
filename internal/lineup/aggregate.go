package lineup

import (
	"math"
	"sort"
)

// Summary aggregates all shifts recorded for one target lineup.
type Summary struct {
	TotalShifts    int     `json:"total_shifts"`
	Positive       int     `json:"positive"`
	Negative       int     `json:"negative"`
	Even           int     `json:"even"`
	PctPositive    float64 `json:"pct_positive"`
	TotalPlusMinus int     `json:"total_plus_minus"`
	TotalMinutes   float64 `json:"total_minutes"`
}

// OpponentLine aggregates shifts against one opponent. PctPositive is
// rounded to the nearest integer here but to one decimal in Summary;
// both roundings are deliberate.
type OpponentLine struct {
	Opponent    string `json:"opponent"`
	Shifts      int    `json:"shifts"`
	PlusMinus   int    `json:"plus_minus"`
	PctPositive int    `json:"pct_positive"`
}

// Summarize computes the overall summary. An empty shift list reports
// zero counts and a zero percentage.
func Summarize(shifts []Shift) Summary {
	s := Summary{TotalShifts: len(shifts)}
	var totalSecs float64
	for _, sh := range shifts {
		switch {
		case sh.PlusMinus > 0:
			s.Positive++
		case sh.PlusMinus < 0:
			s.Negative++
		default:
			s.Even++
		}
		s.TotalPlusMinus += sh.PlusMinus
		totalSecs += sh.DurationSecs
	}
	if s.TotalShifts > 0 {
		s.PctPositive = round1(float64(s.Positive) / float64(s.TotalShifts) * 100)
	}
	s.TotalMinutes = round1(totalSecs / 60)
	return s
}

// ByOpponent groups shifts per opponent, sorted ascending by summed
// differential so the worst matchups come first.
func ByOpponent(shifts []Shift) []OpponentLine {
	type tally struct {
		count     int
		plusMinus int
		positive  int
	}
	byOpp := make(map[string]*tally)
	for _, sh := range shifts {
		t := byOpp[sh.Opponent]
		if t == nil {
			t = &tally{}
			byOpp[sh.Opponent] = t
		}
		t.count++
		t.plusMinus += sh.PlusMinus
		if sh.PlusMinus > 0 {
			t.positive++
		}
	}

	out := make([]OpponentLine, 0, len(byOpp))
	for opp, t := range byOpp {
		line := OpponentLine{
			Opponent:  opp,
			Shifts:    t.count,
			PlusMinus: t.plusMinus,
		}
		if t.count > 0 {
			line.PctPositive = int(math.Round(float64(t.positive) / float64(t.count) * 100))
		}
		out = append(out, line)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PlusMinus != out[j].PlusMinus {
			return out[i].PlusMinus < out[j].PlusMinus
		}
		return out[i].Opponent < out[j].Opponent
	})
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
