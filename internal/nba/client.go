// Package nba is the stats-provider boundary: an HTTP client for the
// stats.nba.com result-set endpoints and the cdn.nba.com liveData feeds,
// decoded into typed rows so nothing downstream touches untyped maps.
package nba

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"nba-stats-mcp/pkg/logger"
	"nba-stats-mcp/pkg/metrics"
)

const (
	defaultStatsBaseURL = "https://stats.nba.com/stats"
	defaultLiveBaseURL  = "https://cdn.nba.com/static/json/liveData"
	defaultUserAgent    = "nba-stats-mcp/1.0"
)

// Client fetches NBA statistics. Transient failures (timeouts, 429, 5xx)
// are retried up to RetryAttempts with a fixed backoff; 404s and other
// client errors are not retried.
type Client struct {
	HTTP          *http.Client
	StatsBaseURL  string
	LiveBaseURL   string
	UserAgent     string
	RetryAttempts int
	RetryBackoff  time.Duration

	log     logger.Logger
	metrics *metrics.Manager
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURLs overrides the stats and live API roots (tests point these
// at a local server).
func WithBaseURLs(stats, live string) Option {
	return func(c *Client) {
		if stats != "" {
			c.StatsBaseURL = stats
		}
		if live != "" {
			c.LiveBaseURL = live
		}
	}
}

// WithRetry overrides the retry bound and the fixed backoff between attempts.
func WithRetry(attempts int, backoff time.Duration) Option {
	return func(c *Client) {
		if attempts >= 1 {
			c.RetryAttempts = attempts
		}
		c.RetryBackoff = backoff
	}
}

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.HTTP.Timeout = d }
}

// WithUserAgent sets the User-Agent header sent upstream.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.UserAgent = ua
		}
	}
}

// WithMetrics records provider request metrics on the given manager.
func WithMetrics(m *metrics.Manager) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient builds a Client with defaults suitable for the public API.
func NewClient(opts ...Option) *Client {
	c := &Client{
		HTTP:          &http.Client{Timeout: 20 * time.Second},
		StatsBaseURL:  defaultStatsBaseURL,
		LiveBaseURL:   defaultLiveBaseURL,
		UserAgent:     defaultUserAgent,
		RetryAttempts: 3,
		RetryBackoff:  500 * time.Millisecond,
		log:           logger.Get().Named("nba"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// getJSON fetches rawURL and decodes the body into out, retrying
// transient failures. endpoint labels metrics only.
func (c *Client) getJSON(ctx context.Context, endpoint, rawURL string, out any) error {
	var lastErr error
	for attempt := 1; attempt <= c.RetryAttempts; attempt++ {
		if attempt > 1 {
			if c.metrics != nil {
				c.metrics.RecordProviderRetry()
			}
			select {
			case <-time.After(c.RetryBackoff):
			case <-ctx.Done():
				return fmt.Errorf("%w: %v", ErrTransient, ctx.Err())
			}
		}

		err := c.doOnce(ctx, endpoint, rawURL, out)
		if err == nil {
			return nil
		}
		lastErr = err
		if !errors.Is(err, ErrTransient) {
			return err
		}
		c.log.Warn(ctx, "retrying upstream request",
			logger.String("endpoint", endpoint),
			logger.Int("attempt", attempt),
			logger.Error(err))
	}
	return lastErr
}

func (c *Client) doOnce(ctx context.Context, endpoint, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", "application/json")
	// stats.nba.com rejects requests without these.
	req.Header.Set("Referer", "https://www.nba.com/")
	req.Header.Set("Origin", "https://www.nba.com")
	req.Header.Set("x-nba-stats-origin", "stats")
	req.Header.Set("x-nba-stats-token", "true")

	start := time.Now()
	resp, err := c.HTTP.Do(req)
	if err != nil {
		// Transport-level failures (timeouts, resets, DNS) are all
		// retryable from the caller's point of view.
		c.record(endpoint, "error", start)
		return fmt.Errorf("%w: %v", ErrTransient, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.record(endpoint, "error", start)
		return fmt.Errorf("%w: read body: %v", ErrTransient, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		c.record(endpoint, "ok", start)
	case resp.StatusCode == http.StatusNotFound:
		c.record(endpoint, "not_found", start)
		return fmt.Errorf("%w: GET %s: 404", ErrNotFound, endpoint)
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		c.record(endpoint, "retryable", start)
		return fmt.Errorf("%w: GET %s: status %d", ErrTransient, endpoint, resp.StatusCode)
	default:
		c.record(endpoint, "error", start)
		return fmt.Errorf("GET %s: status %d body=%s", endpoint, resp.StatusCode, truncate(body, 200))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrMalformed, endpoint, err)
	}
	return nil
}

func (c *Client) record(endpoint, status string, start time.Time) {
	if c.metrics != nil {
		c.metrics.RecordProviderRequest(endpoint, status, time.Since(start))
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

func (c *Client) statsURL(endpoint string, params url.Values) string {
	return fmt.Sprintf("%s/%s?%s", c.StatsBaseURL, endpoint, params.Encode())
}

// PlayerIndex returns the league-wide player index for name resolution.
func (c *Client) PlayerIndex(ctx context.Context, season string) ([]PlayerIndexEntry, error) {
	params := url.Values{}
	params.Set("LeagueID", "00")
	params.Set("Season", season)
	params.Set("IsOnlyCurrentSeason", "0")

	var resp statsResponse
	if err := c.getJSON(ctx, "commonallplayers", c.statsURL("commonallplayers", params), &resp); err != nil {
		return nil, err
	}
	rs, err := resp.set("CommonAllPlayers")
	if err != nil {
		// Older payloads use the first result set unnamed.
		rs, err = resp.set("")
		if err != nil {
			return nil, err
		}
	}
	idx := newRowIndex(rs.Headers)
	out := make([]PlayerIndexEntry, 0, len(rs.RowSet))
	for _, row := range rs.RowSet {
		r := rowReader{index: idx, row: row}
		out = append(out, PlayerIndexEntry{
			PersonID: int64(r.num("PERSON_ID")),
			Name:     r.str("DISPLAY_FIRST_LAST"),
			FromYear: atoiSafe(r.str("FROM_YEAR")),
			ToYear:   atoiSafe(r.str("TO_YEAR")),
		})
	}
	return out, nil
}

func atoiSafe(s string) int {
	var n int
	_, _ = fmt.Sscanf(s, "%d", &n)
	return n
}

// PlayerGameLog returns a player's game log for one season, most recent
// game first (upstream order).
func (c *Client) PlayerGameLog(ctx context.Context, playerID int64, season string) ([]PlayerGameLogEntry, error) {
	params := url.Values{}
	params.Set("PlayerID", fmt.Sprintf("%d", playerID))
	params.Set("Season", season)
	params.Set("SeasonType", "Regular Season")

	var resp statsResponse
	if err := c.getJSON(ctx, "playergamelog", c.statsURL("playergamelog", params), &resp); err != nil {
		return nil, err
	}
	rs, err := resp.set("PlayerGameLog")
	if err != nil {
		return nil, err
	}
	idx := newRowIndex(rs.Headers)
	out := make([]PlayerGameLogEntry, 0, len(rs.RowSet))
	for _, row := range rs.RowSet {
		r := rowReader{index: idx, row: row}
		out = append(out, PlayerGameLogEntry{
			GameID:    r.str("Game_ID"),
			GameDate:  r.str("GAME_DATE"),
			Matchup:   r.str("MATCHUP"),
			WinLoss:   r.str("WL"),
			Minutes:   r.integer("MIN"),
			Points:    r.integer("PTS"),
			Rebounds:  r.integer("REB"),
			Assists:   r.integer("AST"),
			Steals:    r.integer("STL"),
			Blocks:    r.integer("BLK"),
			Turnovers: r.integer("TOV"),
			FGM:       r.integer("FGM"),
			FGA:       r.integer("FGA"),
			FGPct:     r.num("FG_PCT"),
			FG3M:      r.integer("FG3M"),
			FG3A:      r.integer("FG3A"),
			FTM:       r.integer("FTM"),
			FTA:       r.integer("FTA"),
			PlusMinus: r.num("PLUS_MINUS"),
		})
	}
	return out, nil
}

// GamesByDate returns one row per team for every league game on the given
// date (MM/DD/YYYY).
func (c *Client) GamesByDate(ctx context.Context, gameDate string) ([]GameFinderRow, error) {
	params := url.Values{}
	params.Set("DateFromNullable", gameDate)
	params.Set("DateToNullable", gameDate)
	params.Set("LeagueIDNullable", "00")
	params.Set("PlayerOrTeam", "T")

	var resp statsResponse
	if err := c.getJSON(ctx, "leaguegamefinder", c.statsURL("leaguegamefinder", params), &resp); err != nil {
		return nil, err
	}
	rs, err := resp.set("")
	if err != nil {
		return nil, err
	}
	idx := newRowIndex(rs.Headers)
	out := make([]GameFinderRow, 0, len(rs.RowSet))
	for _, row := range rs.RowSet {
		r := rowReader{index: idx, row: row}
		out = append(out, GameFinderRow{
			GameID:   r.str("GAME_ID"),
			GameDate: r.str("GAME_DATE"),
			TeamID:   int64(r.num("TEAM_ID")),
			TeamName: r.str("TEAM_NAME"),
			TeamAbbr: r.str("TEAM_ABBREVIATION"),
			Matchup:  r.str("MATCHUP"),
			WinLoss:  r.str("WL"),
			Points:   r.integer("PTS"),
		})
	}
	return out, nil
}

// PlayerCareer returns a player's regular-season totals, one row per
// season+team stint.
func (c *Client) PlayerCareer(ctx context.Context, playerID int64) ([]CareerSeasonRow, error) {
	params := url.Values{}
	params.Set("PlayerID", fmt.Sprintf("%d", playerID))
	params.Set("PerMode", "Totals")

	var resp statsResponse
	if err := c.getJSON(ctx, "playercareerstats", c.statsURL("playercareerstats", params), &resp); err != nil {
		return nil, err
	}
	rs, err := resp.set("SeasonTotalsRegularSeason")
	if err != nil {
		return nil, err
	}
	idx := newRowIndex(rs.Headers)
	out := make([]CareerSeasonRow, 0, len(rs.RowSet))
	for _, row := range rs.RowSet {
		r := rowReader{index: idx, row: row}
		out = append(out, CareerSeasonRow{
			SeasonID:    r.str("SEASON_ID"),
			TeamAbbr:    r.str("TEAM_ABBREVIATION"),
			GamesPlayed: r.integer("GP"),
			Minutes:     r.num("MIN"),
			Points:      r.num("PTS"),
			Rebounds:    r.num("REB"),
			Assists:     r.num("AST"),
			Steals:      r.num("STL"),
			Blocks:      r.num("BLK"),
			Turnovers:   r.num("TOV"),
			FGPct:       r.num("FG_PCT"),
			FG3Pct:      r.num("FG3_PCT"),
			FTPct:       r.num("FT_PCT"),
		})
	}
	return out, nil
}

// LeadersQuery selects and filters the league-leaders dashboard.
type LeadersQuery struct {
	Stat         string
	Season       string
	SeasonType   string
	PerMode      string
	TopN         int
	Position     string
	Conference   string
	Division     string
	Experience   string
	StarterBench string
	LastNGames   int
	Month        int
	Location     string
	Outcome      string
	College      string
	Country      string
	DraftYear    string
	DraftPick    string
}

// LeagueLeaders returns players sorted by the requested stat. Most stats
// sort descending; turnovers sort ascending (lower is better).
func (c *Client) LeagueLeaders(ctx context.Context, q LeadersQuery) ([]LeaderRow, error) {
	params := url.Values{}
	params.Set("Season", q.Season)
	params.Set("SeasonType", q.SeasonType)
	params.Set("PerMode", q.PerMode)
	params.Set("LastNGames", fmt.Sprintf("%d", q.LastNGames))
	params.Set("Month", fmt.Sprintf("%d", q.Month))
	params.Set("PlayerPosition", q.Position)
	params.Set("Conference", q.Conference)
	params.Set("Division", q.Division)
	params.Set("PlayerExperience", q.Experience)
	params.Set("StarterBench", q.StarterBench)
	params.Set("Location", q.Location)
	params.Set("Outcome", q.Outcome)
	params.Set("College", q.College)
	params.Set("Country", q.Country)
	params.Set("DraftYear", q.DraftYear)
	params.Set("DraftPick", q.DraftPick)

	var resp statsResponse
	if err := c.getJSON(ctx, "leaguedashplayerstats", c.statsURL("leaguedashplayerstats", params), &resp); err != nil {
		return nil, err
	}
	rs, err := resp.set("")
	if err != nil {
		return nil, err
	}
	idx := newRowIndex(rs.Headers)
	rows := make([]LeaderRow, 0, len(rs.RowSet))
	for _, row := range rs.RowSet {
		r := rowReader{index: idx, row: row}
		rows = append(rows, LeaderRow{
			PlayerName: r.str("PLAYER_NAME"),
			TeamAbbr:   r.str("TEAM_ABBREVIATION"),
			Age:        r.num("AGE"),
			GP:         r.integer("GP"),
			Minutes:    r.num("MIN"),
			Points:     r.num("PTS"),
			Rebounds:   r.num("REB"),
			Assists:    r.num("AST"),
			Steals:     r.num("STL"),
			Blocks:     r.num("BLK"),
			Turnovers:  r.num("TOV"),
			FGPct:      r.num("FG_PCT"),
			FG3Pct:     r.num("FG3_PCT"),
			FTPct:      r.num("FT_PCT"),
			PlusMinus:  r.num("PLUS_MINUS"),
			SortValue:  r.num(q.Stat),
		})
	}

	ascending := q.Stat == "TOV"
	sort.SliceStable(rows, func(i, j int) bool {
		if ascending {
			return rows[i].SortValue < rows[j].SortValue
		}
		return rows[i].SortValue > rows[j].SortValue
	})
	if q.TopN > 0 && len(rows) > q.TopN {
		rows = rows[:q.TopN]
	}
	return rows, nil
}

// TeamStatsQuery selects and filters the team stats dashboard.
type TeamStatsQuery struct {
	Season      string
	SeasonType  string
	MeasureType string
	PerMode     string
	Conference  string
	Division    string
}

// TeamStats returns one row per team with the measure-specific columns
// carried in Values.
func (c *Client) TeamStats(ctx context.Context, q TeamStatsQuery) ([]TeamStatsRow, error) {
	params := url.Values{}
	params.Set("Season", q.Season)
	params.Set("SeasonType", q.SeasonType)
	params.Set("MeasureType", q.MeasureType)
	params.Set("PerMode", q.PerMode)
	params.Set("Conference", q.Conference)
	params.Set("Division", q.Division)

	var resp statsResponse
	if err := c.getJSON(ctx, "leaguedashteamstats", c.statsURL("leaguedashteamstats", params), &resp); err != nil {
		return nil, err
	}
	rs, err := resp.set("")
	if err != nil {
		return nil, err
	}
	idx := newRowIndex(rs.Headers)
	out := make([]TeamStatsRow, 0, len(rs.RowSet))
	for _, row := range rs.RowSet {
		r := rowReader{index: idx, row: row}
		values := make(map[string]float64, len(rs.Headers))
		for _, h := range rs.Headers {
			if _, isNum := r.val(h).(float64); isNum {
				values[h] = r.num(h)
			}
		}
		out = append(out, TeamStatsRow{
			TeamName: r.str("TEAM_NAME"),
			TeamAbbr: r.str("TEAM_ABBREVIATION"),
			GP:       r.integer("GP"),
			Wins:     r.integer("W"),
			Losses:   r.integer("L"),
			WinPct:   r.num("W_PCT"),
			Minutes:  r.num("MIN"),
			Values:   values,
		})
	}
	return out, nil
}

// BoxScore returns every player line from the traditional box score.
func (c *Client) BoxScore(ctx context.Context, gameID string) ([]BoxScoreLine, error) {
	params := url.Values{}
	params.Set("GameID", gameID)
	params.Set("StartPeriod", "0")
	params.Set("EndPeriod", "10")
	params.Set("StartRange", "0")
	params.Set("EndRange", "0")
	params.Set("RangeType", "0")

	var resp statsResponse
	if err := c.getJSON(ctx, "boxscoretraditionalv2", c.statsURL("boxscoretraditionalv2", params), &resp); err != nil {
		return nil, err
	}
	rs, err := resp.set("PlayerStats")
	if err != nil {
		return nil, err
	}
	idx := newRowIndex(rs.Headers)
	out := make([]BoxScoreLine, 0, len(rs.RowSet))
	for _, row := range rs.RowSet {
		r := rowReader{index: idx, row: row}
		out = append(out, BoxScoreLine{
			PlayerID:      int64(r.num("PLAYER_ID")),
			PlayerName:    r.str("PLAYER_NAME"),
			TeamID:        int64(r.num("TEAM_ID")),
			TeamAbbr:      r.str("TEAM_ABBREVIATION"),
			TeamCity:      r.str("TEAM_CITY"),
			StartPosition: r.str("START_POSITION"),
			Minutes:       r.str("MIN"),
			Points:        r.integer("PTS"),
			Rebounds:      r.integer("REB"),
			Assists:       r.integer("AST"),
			Steals:        r.integer("STL"),
			Blocks:        r.integer("BLK"),
			Turnovers:     r.integer("TO"),
			Fouls:         r.integer("PF"),
			FGM:           r.integer("FGM"),
			FGA:           r.integer("FGA"),
			FGPct:         r.num("FG_PCT"),
			FG3M:          r.integer("FG3M"),
			FG3A:          r.integer("FG3A"),
			FG3Pct:        r.num("FG3_PCT"),
			FTM:           r.integer("FTM"),
			FTA:           r.integer("FTA"),
			FTPct:         r.num("FT_PCT"),
			PlusMinus:     r.num("PLUS_MINUS"),
		})
	}
	return out, nil
}

// PlayByPlay returns the traditional play-by-play rows for one game.
func (c *Client) PlayByPlay(ctx context.Context, gameID string) ([]PlayByPlayRow, error) {
	params := url.Values{}
	params.Set("GameID", gameID)
	params.Set("StartPeriod", "0")
	params.Set("EndPeriod", "10")

	var resp statsResponse
	if err := c.getJSON(ctx, "playbyplayv2", c.statsURL("playbyplayv2", params), &resp); err != nil {
		return nil, err
	}
	rs, err := resp.set("PlayByPlay")
	if err != nil {
		return nil, err
	}
	idx := newRowIndex(rs.Headers)
	out := make([]PlayByPlayRow, 0, len(rs.RowSet))
	for _, row := range rs.RowSet {
		r := rowReader{index: idx, row: row}
		out = append(out, PlayByPlayRow{
			Period:      r.integer("PERIOD"),
			Clock:       r.str("PCTIMESTRING"),
			HomeDesc:    r.str("HOMEDESCRIPTION"),
			NeutralDesc: r.str("NEUTRALDESCRIPTION"),
			VisitorDesc: r.str("VISITORDESCRIPTION"),
			Score:       r.str("SCORE"),
			Margin:      r.str("SCOREMARGIN"),
		})
	}
	return out, nil
}

// TodaysScoreboard returns the live scoreboard for today's games.
func (c *Client) TodaysScoreboard(ctx context.Context) ([]ScoreboardGame, error) {
	var resp struct {
		Scoreboard struct {
			GameDate string           `json:"gameDate"`
			Games    []ScoreboardGame `json:"games"`
		} `json:"scoreboard"`
	}
	rawURL := fmt.Sprintf("%s/scoreboard/todaysScoreboard_00.json", c.LiveBaseURL)
	if err := c.getJSON(ctx, "live_scoreboard", rawURL, &resp); err != nil {
		return nil, err
	}
	return resp.Scoreboard.Games, nil
}

// LiveBoxScore returns the live box score (rosters with starter flags)
// for one game.
func (c *Client) LiveBoxScore(ctx context.Context, gameID string) (*LiveBoxScore, error) {
	var resp struct {
		Game LiveBoxScore `json:"game"`
	}
	rawURL := fmt.Sprintf("%s/boxscore/boxscore_%s.json", c.LiveBaseURL, gameID)
	if err := c.getJSON(ctx, "live_boxscore", rawURL, &resp); err != nil {
		return nil, err
	}
	if resp.Game.GameID == "" || (len(resp.Game.HomeTeam.Players) == 0 && len(resp.Game.AwayTeam.Players) == 0) {
		return nil, fmt.Errorf("%w: box score for game %s has no rosters", ErrMalformed, gameID)
	}
	return &resp.Game, nil
}

// LivePlayByPlay returns the ordered action stream for one game.
func (c *Client) LivePlayByPlay(ctx context.Context, gameID string) ([]LiveAction, error) {
	var resp struct {
		Game struct {
			GameID  string       `json:"gameId"`
			Actions []LiveAction `json:"actions"`
		} `json:"game"`
	}
	rawURL := fmt.Sprintf("%s/playbyplay/playbyplay_%s.json", c.LiveBaseURL, gameID)
	if err := c.getJSON(ctx, "live_playbyplay", rawURL, &resp); err != nil {
		return nil, err
	}
	if len(resp.Game.Actions) == 0 {
		return nil, fmt.Errorf("%w: play-by-play for game %s is empty", ErrMalformed, gameID)
	}
	return resp.Game.Actions, nil
}
