package lineup

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"nba-stats-mcp/internal/nba"
)

const (
	testSeason = "2025-26"
	bosTeamID  = 1610612738
	nykTeamID  = 1610612752
)

var lineupNames = []string{"Player One", "Player Two", "Player Three", "Player Four", "Player Five"}

// fakeProvider serves canned data keyed by game ID. Live methods are hit
// concurrently by the extraction pool, so call counters are locked.
type fakeProvider struct {
	mu      sync.Mutex
	index   []nba.PlayerIndexEntry
	logs    map[int64][]nba.PlayerGameLogEntry
	boxes   map[string]*nba.LiveBoxScore
	boxErrs map[string]error
	actions map[string][]nba.LiveAction
	calls   map[string]int
}

func (f *fakeProvider) count(method string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[method]++
}

func (f *fakeProvider) called(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeProvider) PlayerIndex(ctx context.Context, season string) ([]nba.PlayerIndexEntry, error) {
	f.count("PlayerIndex")
	return f.index, nil
}

func (f *fakeProvider) PlayerGameLog(ctx context.Context, playerID int64, season string) ([]nba.PlayerGameLogEntry, error) {
	f.count("PlayerGameLog")
	return f.logs[playerID], nil
}

func (f *fakeProvider) LiveBoxScore(ctx context.Context, gameID string) (*nba.LiveBoxScore, error) {
	f.count("LiveBoxScore")
	if err := f.boxErrs[gameID]; err != nil {
		return nil, err
	}
	box, ok := f.boxes[gameID]
	if !ok {
		return nil, nba.ErrNotFound
	}
	return box, nil
}

func (f *fakeProvider) LivePlayByPlay(ctx context.Context, gameID string) ([]nba.LiveAction, error) {
	f.count("LivePlayByPlay")
	return f.actions[gameID], nil
}

// newFakeProvider wires a season in which all five tracked players appear
// in every given game, start together, and get one substitution boundary
// per game valuing the starting shift at +4.
func newFakeProvider(gameIDs ...string) *fakeProvider {
	f := &fakeProvider{
		logs:    map[int64][]nba.PlayerGameLogEntry{},
		boxes:   map[string]*nba.LiveBoxScore{},
		boxErrs: map[string]error{},
		actions: map[string][]nba.LiveAction{},
	}
	for i, name := range lineupNames {
		id := int64(i + 1)
		f.index = append(f.index, nba.PlayerIndexEntry{PersonID: id, Name: name, FromYear: 2020, ToYear: 2025})
		for _, gid := range gameIDs {
			f.logs[id] = append(f.logs[id], nba.PlayerGameLogEntry{
				GameID: gid, GameDate: "2025-10-22", Matchup: "BOS vs. NYK",
			})
		}
	}
	for _, gid := range gameIDs {
		players := make([]nba.LiveBoxPlayer, 0, 7)
		for i, name := range lineupNames {
			players = append(players, nba.LiveBoxPlayer{PersonID: int64(i + 1), Name: name, Starter: "1"})
		}
		players = append(players,
			nba.LiveBoxPlayer{PersonID: 6, Name: "Bench Six", Starter: "0"},
			nba.LiveBoxPlayer{PersonID: 7, Name: "Bench Seven", Starter: "0"},
		)
		f.boxes[gid] = &nba.LiveBoxScore{
			GameID:   gid,
			HomeTeam: nba.LiveTeamBox{TeamID: bosTeamID, TeamTricode: "BOS", Players: players},
			AwayTeam: nba.LiveTeamBox{TeamID: nykTeamID, TeamTricode: "NYK"},
		}
		f.actions[gid] = []nba.LiveAction{
			{ActionType: "substitution", SubType: "out", TeamID: bosTeamID, PersonID: 3, Period: 1, Clock: "PT06M00.00S", ScoreHome: "12", ScoreAway: "8"},
			{ActionType: "substitution", SubType: "in", TeamID: bosTeamID, PersonID: 6, Period: 1, Clock: "PT06M00.00S", ScoreHome: "12", ScoreAway: "8"},
		}
	}
	return f
}

func testRequest() Request {
	return Request{Team: "BOS", Players: append([]string(nil), lineupNames...), Season: testSeason}
}

func TestLineupShifts(t *testing.T) {
	f := newFakeProvider("0022500001", "0022500002")
	e := NewEngine(f, WithWorkers(2))

	res, err := e.LineupShifts(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("LineupShifts: %v", err)
	}
	if res.Outcome != OutcomeOK {
		t.Fatalf("outcome = %s, want %s", res.Outcome, OutcomeOK)
	}
	if res.GamesCommon != 2 || res.GamesAnalyzed != 2 {
		t.Fatalf("games common/analyzed = %d/%d", res.GamesCommon, res.GamesAnalyzed)
	}
	if len(res.Shifts) != 2 {
		t.Fatalf("got %d shifts, want 2", len(res.Shifts))
	}
	if res.Summary.TotalShifts != 2 || res.Summary.TotalPlusMinus != 8 {
		t.Fatalf("summary = %+v", res.Summary)
	}
	if res.Summary.PctPositive != 100 {
		t.Fatalf("pct positive = %v, want 100", res.Summary.PctPositive)
	}
	if len(res.Opponents) != 1 || res.Opponents[0].Opponent != "NYK" || res.Opponents[0].PlusMinus != 8 {
		t.Fatalf("opponents = %+v", res.Opponents)
	}
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
}

func TestLineupShiftsPartialFailure(t *testing.T) {
	f := newFakeProvider("0022500001", "0022500002", "0022500003", "0022500004", "0022500005")
	f.boxErrs["0022500002"] = fmt.Errorf("fetch: %w", nba.ErrTransient)
	e := NewEngine(f)

	res, err := e.LineupShifts(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("LineupShifts: %v", err)
	}
	if res.Outcome != OutcomeOK {
		t.Fatalf("outcome = %s, want %s", res.Outcome, OutcomeOK)
	}
	if res.GamesCommon != 5 || res.GamesAnalyzed != 4 {
		t.Fatalf("games common/analyzed = %d/%d", res.GamesCommon, res.GamesAnalyzed)
	}
	if len(res.Shifts) != 4 {
		t.Fatalf("got %d shifts, want 4", len(res.Shifts))
	}
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "0022500002") {
		t.Fatalf("errors = %v", res.Errors)
	}
}

func TestLineupShiftsAllGamesErrored(t *testing.T) {
	f := newFakeProvider("0022500001", "0022500002")
	f.boxErrs["0022500001"] = nba.ErrNotFound
	f.boxErrs["0022500002"] = nba.ErrTransient
	e := NewEngine(f)

	res, err := e.LineupShifts(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("LineupShifts: %v", err)
	}
	if res.Outcome != OutcomeAllGamesErrored {
		t.Fatalf("outcome = %s, want %s", res.Outcome, OutcomeAllGamesErrored)
	}
	if res.GamesAnalyzed != 0 || len(res.Shifts) != 0 {
		t.Fatalf("analyzed %d games, %d shifts", res.GamesAnalyzed, len(res.Shifts))
	}
	if len(res.Errors) != 2 {
		t.Fatalf("errors = %v", res.Errors)
	}
}

func TestLineupShiftsErrorCap(t *testing.T) {
	ids := make([]string, 8)
	for i := range ids {
		ids[i] = fmt.Sprintf("002250000%d", i+1)
	}
	f := newFakeProvider(ids...)
	for _, id := range ids {
		f.boxErrs[id] = nba.ErrTransient
	}
	e := NewEngine(f)

	res, err := e.LineupShifts(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("LineupShifts: %v", err)
	}
	if len(res.Errors) != maxReportedErrors {
		t.Fatalf("got %d reported errors, want %d", len(res.Errors), maxReportedErrors)
	}
	if res.GamesAnalyzed != 0 {
		t.Fatalf("analyzed = %d, want 0", res.GamesAnalyzed)
	}
}

func TestLineupShiftsNoCommonGames(t *testing.T) {
	f := newFakeProvider("0022500001")
	// Player five appeared in a different game only.
	f.logs[5] = []nba.PlayerGameLogEntry{{GameID: "0022500099", GameDate: "2025-11-01", Matchup: "BOS @ MIA"}}
	e := NewEngine(f)

	res, err := e.LineupShifts(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("LineupShifts: %v", err)
	}
	if res.Outcome != OutcomeNoCommonGames {
		t.Fatalf("outcome = %s, want %s", res.Outcome, OutcomeNoCommonGames)
	}
	if res.Summary.TotalShifts != 0 {
		t.Fatalf("summary = %+v", res.Summary)
	}
	if f.called("LiveBoxScore") != 0 || f.called("LivePlayByPlay") != 0 {
		t.Fatal("live endpoints hit despite empty intersection")
	}
}

func TestLineupShiftsNoMatchingShifts(t *testing.T) {
	f := newFakeProvider("0022500001")
	// No substitutions, so no boundary ever closes an interval.
	f.actions["0022500001"] = nil
	e := NewEngine(f)

	res, err := e.LineupShifts(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("LineupShifts: %v", err)
	}
	if res.Outcome != OutcomeNoMatchingShifts {
		t.Fatalf("outcome = %s, want %s", res.Outcome, OutcomeNoMatchingShifts)
	}
	if res.GamesAnalyzed != 1 {
		t.Fatalf("analyzed = %d, want 1", res.GamesAnalyzed)
	}
}

func TestLineupShiftsValidation(t *testing.T) {
	f := newFakeProvider("0022500001")
	e := NewEngine(f)

	req := testRequest()
	req.Players = req.Players[:4]
	if _, err := e.LineupShifts(context.Background(), req); !errors.Is(err, ErrValidation) {
		t.Fatalf("four players: err = %v, want ErrValidation", err)
	}

	req = testRequest()
	req.Team = "ZZZ"
	if _, err := e.LineupShifts(context.Background(), req); !errors.Is(err, ErrValidation) {
		t.Fatalf("unknown team: err = %v, want ErrValidation", err)
	}

	if f.called("PlayerIndex") != 0 {
		t.Fatal("provider consulted before validation passed")
	}
}

func TestLineupShiftsUnknownPlayer(t *testing.T) {
	f := newFakeProvider("0022500001")
	e := NewEngine(f)

	req := testRequest()
	req.Players[4] = "Nobody Whatsoever"
	if _, err := e.LineupShifts(context.Background(), req); !errors.Is(err, nba.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestLineupShiftsMalformedStarters(t *testing.T) {
	f := newFakeProvider("0022500001")
	// Upstream marks only four starters.
	f.boxes["0022500001"].HomeTeam.Players[0].Starter = "0"
	e := NewEngine(f)

	res, err := e.LineupShifts(context.Background(), testRequest())
	if err != nil {
		t.Fatalf("LineupShifts: %v", err)
	}
	if res.Outcome != OutcomeAllGamesErrored {
		t.Fatalf("outcome = %s, want %s", res.Outcome, OutcomeAllGamesErrored)
	}
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "starters") {
		t.Fatalf("errors = %v", res.Errors)
	}
}
