package lineup

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"nba-stats-mcp/internal/nba"
	"nba-stats-mcp/pkg/logger"
	"nba-stats-mcp/pkg/metrics"
)

// maxReportedErrors caps the per-game error messages included in a result.
const maxReportedErrors = 5

// ErrValidation marks malformed requests rejected before any provider call.
var ErrValidation = errors.New("validation")

// StatsProvider is the slice of the upstream client the engine consumes.
// Injected so tests can substitute a fake.
type StatsProvider interface {
	PlayerIndex(ctx context.Context, season string) ([]nba.PlayerIndexEntry, error)
	PlayerGameLog(ctx context.Context, playerID int64, season string) ([]nba.PlayerGameLogEntry, error)
	LiveBoxScore(ctx context.Context, gameID string) (*nba.LiveBoxScore, error)
	LivePlayByPlay(ctx context.Context, gameID string) ([]nba.LiveAction, error)
}

// Engine computes lineup shifts per request. It holds no per-request
// state: every call builds its trackers and collections fresh and
// discards them when the result is returned.
type Engine struct {
	provider StatsProvider
	workers  int
	log      logger.Logger
	metrics  *metrics.Manager
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithWorkers bounds concurrent per-game extraction. Games are
// independent (each gets its own tracker), so they fan out freely.
func WithWorkers(n int) EngineOption {
	return func(e *Engine) {
		if n >= 1 {
			e.workers = n
		}
	}
}

// WithMetrics records engine metrics on the given manager.
func WithMetrics(m *metrics.Manager) EngineOption {
	return func(e *Engine) { e.metrics = m }
}

// NewEngine builds an Engine around an injected provider.
func NewEngine(p StatsProvider, opts ...EngineOption) *Engine {
	e := &Engine{
		provider: p,
		workers:  4,
		log:      logger.Get().Named("lineup"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Request asks for the shifts of one five-player lineup.
type Request struct {
	Team    string
	Players []string
	Season  string
}

// Outcome classifies a result so callers can distinguish an empty answer's
// cause.
type Outcome string

const (
	OutcomeOK               Outcome = "ok"
	OutcomeNoCommonGames    Outcome = "no_common_games"
	OutcomeNoMatchingShifts Outcome = "no_matching_shifts"
	OutcomeAllGamesErrored  Outcome = "all_games_errored"
)

// Result is the full answer for one lineup-shifts request.
type Result struct {
	Team          string         `json:"team"`
	Season        string         `json:"season"`
	Lineup        []string       `json:"lineup"`
	GamesCommon   int            `json:"games_common"`
	GamesAnalyzed int            `json:"games_analyzed"`
	Outcome       Outcome        `json:"outcome"`
	Summary       Summary        `json:"summary"`
	Opponents     []OpponentLine `json:"opponents"`
	Shifts        []Shift        `json:"shifts"`
	Errors        []string       `json:"errors,omitempty"`
}

// LineupShifts resolves the request's lineup, selects candidate games,
// extracts shifts from each, and aggregates them. Per-game failures never
// abort the batch: they are recorded (at most maxReportedErrors reported)
// and the remaining games still contribute.
func (e *Engine) LineupShifts(ctx context.Context, req Request) (*Result, error) {
	if len(req.Players) != 5 {
		return nil, fmt.Errorf("%w: exactly five player names required, got %d", ErrValidation, len(req.Players))
	}
	team, err := nba.TeamByTricode(req.Team)
	if err != nil {
		return nil, fmt.Errorf("%w: unknown team %q", ErrValidation, req.Team)
	}

	rid := uuid.NewString()
	log := e.log.Named("request")
	log.Info(ctx, "lineup shifts requested",
		logger.String("request_id", rid),
		logger.String("team", team.Tricode),
		logger.String("season", req.Season))

	players, err := e.resolveLineup(ctx, req.Season, req.Players)
	if err != nil {
		return nil, err
	}

	logs := make([][]nba.PlayerGameLogEntry, len(players))
	for i, p := range players {
		entries, err := e.provider.PlayerGameLog(ctx, p.PersonID, req.Season)
		if err != nil {
			return nil, fmt.Errorf("game log for %s: %w", p.Name, err)
		}
		logs[i] = entries
	}

	games := CommonGames(logs)
	target := NewLineupSet(personIDs(players)...)

	result := &Result{
		Team:        team.Tricode,
		Season:      req.Season,
		Lineup:      playerNames(players),
		GamesCommon: len(games),
		Opponents:   []OpponentLine{},
		Shifts:      []Shift{},
	}
	if len(games) == 0 {
		result.Outcome = OutcomeNoCommonGames
		result.Summary = Summarize(nil)
		return result, nil
	}

	shiftsByGame, errsByGame := e.extractAll(ctx, team, target, games)

	errored := 0
	for i, g := range games {
		if errsByGame[i] != nil {
			errored++
			if e.metrics != nil {
				e.metrics.RecordGameError()
			}
			if len(result.Errors) < maxReportedErrors {
				result.Errors = append(result.Errors, fmt.Sprintf("game %s: %v", g.GameID, errsByGame[i]))
			}
			log.Warn(ctx, "candidate game skipped",
				logger.String("request_id", rid),
				logger.String("game_id", g.GameID),
				logger.Error(errsByGame[i]))
			continue
		}
		result.Shifts = append(result.Shifts, shiftsByGame[i]...)
	}
	result.GamesAnalyzed = len(games) - errored

	result.Summary = Summarize(result.Shifts)
	result.Opponents = ByOpponent(result.Shifts)
	if e.metrics != nil {
		e.metrics.RecordShifts(len(result.Shifts))
	}

	switch {
	case errored == len(games):
		result.Outcome = OutcomeAllGamesErrored
	case len(result.Shifts) == 0:
		result.Outcome = OutcomeNoMatchingShifts
	default:
		result.Outcome = OutcomeOK
	}

	log.Info(ctx, "lineup shifts computed",
		logger.String("request_id", rid),
		logger.Int("games_common", len(games)),
		logger.Int("games_errored", errored),
		logger.Int("shifts", len(result.Shifts)))
	return result, nil
}

// resolveLineup maps five full names to player index entries.
func (e *Engine) resolveLineup(ctx context.Context, season string, names []string) ([]nba.PlayerIndexEntry, error) {
	index, err := e.provider.PlayerIndex(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("player index: %w", err)
	}
	out := make([]nba.PlayerIndexEntry, 0, len(names))
	for _, name := range names {
		entry, err := nba.ResolvePlayer(index, name)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, nil
}

// extractAll fans candidate games out over a bounded worker pool. Results
// land in per-index slots, so no locking is needed; each game gets its
// own tracker and nothing is shared across extractions.
func (e *Engine) extractAll(ctx context.Context, team nba.Team, target LineupSet, games []CandidateGame) ([][]Shift, []error) {
	shiftsByGame := make([][]Shift, len(games))
	errsByGame := make([]error, len(games))

	sem := make(chan struct{}, e.workers)
	var wg sync.WaitGroup
	for i, g := range games {
		wg.Add(1)
		go func(i int, g CandidateGame) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			shiftsByGame[i], errsByGame[i] = e.extractGame(ctx, team, target, g)
		}(i, g)
	}
	wg.Wait()
	return shiftsByGame, errsByGame
}

// extractGame derives one game's shifts: starters from the box score seed
// the tracker, then the substitution stream is walked in order.
func (e *Engine) extractGame(ctx context.Context, team nba.Team, target LineupSet, g CandidateGame) ([]Shift, error) {
	if e.metrics != nil {
		e.metrics.RecordGameExtracted()
	}

	box, err := e.provider.LiveBoxScore(ctx, g.GameID)
	if err != nil {
		return nil, fmt.Errorf("box score: %w", err)
	}
	side, err := teamSide(box, team.ID)
	if err != nil {
		return nil, err
	}
	starters := startingFive(side)
	if len(starters) != 5 {
		return nil, fmt.Errorf("%w: %d starters for %s in game %s", nba.ErrMalformed, len(starters), team.Tricode, g.GameID)
	}

	actions, err := e.provider.LivePlayByPlay(ctx, g.GameID)
	if err != nil {
		return nil, fmt.Errorf("play-by-play: %w", err)
	}
	events := SubstitutionEvents(actions, team.ID)

	info := GameContext{
		GameID:   g.GameID,
		GameDate: g.GameDate,
		Opponent: g.Opponent,
		Home:     g.Home,
	}
	return ExtractShifts(info, starters, target, events), nil
}

// teamSide picks the tracked team's roster out of a live box score.
func teamSide(box *nba.LiveBoxScore, teamID int64) (*nba.LiveTeamBox, error) {
	switch teamID {
	case box.HomeTeam.TeamID:
		return &box.HomeTeam, nil
	case box.AwayTeam.TeamID:
		return &box.AwayTeam, nil
	}
	return nil, fmt.Errorf("%w: team %d not in box score for game %s", nba.ErrMalformed, teamID, box.GameID)
}

func startingFive(side *nba.LiveTeamBox) []PlayerID {
	var out []PlayerID
	for _, p := range side.Players {
		if p.IsStarter() {
			out = append(out, p.PersonID)
		}
	}
	return out
}

func personIDs(players []nba.PlayerIndexEntry) []PlayerID {
	out := make([]PlayerID, len(players))
	for i, p := range players {
		out[i] = p.PersonID
	}
	return out
}

func playerNames(players []nba.PlayerIndexEntry) []string {
	out := make([]string, len(players))
	for i, p := range players {
		out[i] = p.Name
	}
	return out
}
