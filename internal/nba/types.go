package nba

import (
	"fmt"
	"strconv"
)

// statsResponse is the stats.nba.com envelope: every endpoint returns one
// or more named result sets of header-indexed rows.
type statsResponse struct {
	Resource   string      `json:"resource"`
	ResultSets []resultSet `json:"resultSets"`
}

type resultSet struct {
	Name    string   `json:"name"`
	Headers []string `json:"headers"`
	RowSet  [][]any  `json:"rowSet"`
}

// set returns the result set with the given name, or the first one when
// name is empty.
func (r *statsResponse) set(name string) (*resultSet, error) {
	if len(r.ResultSets) == 0 {
		return nil, fmt.Errorf("%w: no result sets", ErrMalformed)
	}
	if name == "" {
		return &r.ResultSets[0], nil
	}
	for i := range r.ResultSets {
		if r.ResultSets[i].Name == name {
			return &r.ResultSets[i], nil
		}
	}
	return nil, fmt.Errorf("%w: missing result set %q", ErrMalformed, name)
}

// rowReader resolves row values by header name. Upstream rows are
// positional, so every typed row below is built through one of these at
// the ingestion boundary.
type rowReader struct {
	index map[string]int
	row   []any
}

func newRowIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[h] = i
	}
	return idx
}

func (r rowReader) val(col string) any {
	i, ok := r.index[col]
	if !ok || i >= len(r.row) {
		return nil
	}
	return r.row[i]
}

func (r rowReader) str(col string) string {
	switch v := r.val(col).(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// num returns the value as a float64; missing or null cells read as 0.
func (r rowReader) num(col string) float64 {
	switch v := r.val(col).(type) {
	case float64:
		return v
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	default:
		return 0
	}
}

func (r rowReader) integer(col string) int {
	return int(r.num(col))
}

// PlayerIndexEntry is one row of the league-wide player index, used for
// resolving full names to person IDs.
type PlayerIndexEntry struct {
	PersonID int64
	Name     string
	FromYear int
	ToYear   int
}

// PlayerGameLogEntry is one game from a player's season game log.
type PlayerGameLogEntry struct {
	GameID    string
	GameDate  string
	Matchup   string
	WinLoss   string
	Minutes   int
	Points    int
	Rebounds  int
	Assists   int
	Steals    int
	Blocks    int
	Turnovers int
	FGM       int
	FGA       int
	FGPct     float64
	FG3M      int
	FG3A      int
	FTM       int
	FTA       int
	PlusMinus float64
}

// GameFinderRow is one team-side row from the league game finder. Each
// game produces two rows, one per team.
type GameFinderRow struct {
	GameID   string
	GameDate string
	TeamID   int64
	TeamName string
	TeamAbbr string
	Matchup  string
	WinLoss  string
	Points   int
}

// CareerSeasonRow is one season line from a player's career totals.
type CareerSeasonRow struct {
	SeasonID    string
	TeamAbbr    string
	GamesPlayed int
	Minutes     float64
	Points      float64
	Rebounds    float64
	Assists     float64
	Steals      float64
	Blocks      float64
	Turnovers   float64
	FGPct       float64
	FG3Pct      float64
	FTPct       float64
}

// LeaderRow is one player line from the league dash player stats.
type LeaderRow struct {
	PlayerName string
	TeamAbbr   string
	Age        float64
	GP         int
	Minutes    float64
	Points     float64
	Rebounds   float64
	Assists    float64
	Steals     float64
	Blocks     float64
	Turnovers  float64
	FGPct      float64
	FG3Pct     float64
	FTPct      float64
	PlusMinus  float64
	// SortValue holds the value of the requested stat column.
	SortValue float64
}

// TeamStatsRow is one team line from the league dash team stats. The
// measure-specific columns vary by MeasureType, so they are carried in
// Values keyed by upstream header name; the engine never consumes these.
type TeamStatsRow struct {
	TeamName string
	TeamAbbr string
	GP       int
	Wins     int
	Losses   int
	WinPct   float64
	Minutes  float64
	Values   map[string]float64
}

// BoxScoreLine is one player line from the traditional box score.
type BoxScoreLine struct {
	PlayerID      int64
	PlayerName    string
	TeamID        int64
	TeamAbbr      string
	TeamCity      string
	StartPosition string
	Minutes       string
	Points        int
	Rebounds      int
	Assists       int
	Steals        int
	Blocks        int
	Turnovers     int
	Fouls         int
	FGM           int
	FGA           int
	FGPct         float64
	FG3M          int
	FG3A          int
	FG3Pct        float64
	FTM           int
	FTA           int
	FTPct         float64
	PlusMinus     float64
}

// PlayByPlayRow is one event from the traditional play-by-play feed.
type PlayByPlayRow struct {
	Period      int
	Clock       string
	HomeDesc    string
	NeutralDesc string
	VisitorDesc string
	Score       string
	Margin      string
}

// ScoreboardGame is one game from the live scoreboard.
type ScoreboardGame struct {
	GameID         string         `json:"gameId"`
	GameStatus     int            `json:"gameStatus"`
	GameStatusText string         `json:"gameStatusText"`
	HomeTeam       ScoreboardTeam `json:"homeTeam"`
	AwayTeam       ScoreboardTeam `json:"awayTeam"`
}

// ScoreboardTeam is one side of a live scoreboard game.
type ScoreboardTeam struct {
	TeamID      int64  `json:"teamId"`
	TeamCity    string `json:"teamCity"`
	TeamName    string `json:"teamName"`
	TeamTricode string `json:"teamTricode"`
	Score       int    `json:"score"`
	Wins        int    `json:"wins"`
	Losses      int    `json:"losses"`
}

// LiveBoxScore is the live box score for one game: both rosters with
// starter designations, plus team identities and the running score.
type LiveBoxScore struct {
	GameID      string      `json:"gameId"`
	GameTimeUTC string      `json:"gameTimeUTC"`
	HomeTeam    LiveTeamBox `json:"homeTeam"`
	AwayTeam    LiveTeamBox `json:"awayTeam"`
}

// LiveTeamBox is one team's roster in a live box score.
type LiveTeamBox struct {
	TeamID      int64           `json:"teamId"`
	TeamCity    string          `json:"teamCity"`
	TeamName    string          `json:"teamName"`
	TeamTricode string          `json:"teamTricode"`
	Score       int             `json:"score"`
	Players     []LiveBoxPlayer `json:"players"`
}

// LiveBoxPlayer is one roster entry. Starter is the upstream "1"/"0" flag.
type LiveBoxPlayer struct {
	PersonID int64  `json:"personId"`
	Name     string `json:"name"`
	Starter  string `json:"starter"`
	Position string `json:"position"`
}

// IsStarter reports whether this roster entry started the game.
func (p LiveBoxPlayer) IsStarter() bool {
	return p.Starter == "1"
}

// LiveAction is one action from the live play-by-play feed. Clock values
// look like "PT07M41.00S"; ScoreHome/ScoreAway are the cumulative score
// strings at the instant of the action.
type LiveAction struct {
	ActionNumber int    `json:"actionNumber"`
	Clock        string `json:"clock"`
	Period       int    `json:"period"`
	TeamID       int64  `json:"teamId"`
	TeamTricode  string `json:"teamTricode"`
	PersonID     int64  `json:"personId"`
	PlayerName   string `json:"playerName"`
	ActionType   string `json:"actionType"`
	SubType      string `json:"subType"`
	Description  string `json:"description"`
	ScoreHome    string `json:"scoreHome"`
	ScoreAway    string `json:"scoreAway"`
}

// ScoreHomeInt parses the cumulative home score, treating blanks as 0.
func (a LiveAction) ScoreHomeInt() int {
	n, _ := strconv.Atoi(a.ScoreHome)
	return n
}

// ScoreAwayInt parses the cumulative away score, treating blanks as 0.
func (a LiveAction) ScoreAwayInt() int {
	n, _ := strconv.Atoi(a.ScoreAway)
	return n
}
