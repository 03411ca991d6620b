package nba

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(
		WithBaseURLs(srv.URL, srv.URL),
		WithRetry(3, time.Millisecond),
	)
}

func envelope(name string, headers []string, rows ...[]any) []byte {
	b, _ := json.Marshal(statsResponse{
		ResultSets: []resultSet{{Name: name, Headers: headers, RowSet: rows}},
	})
	return b
}

func TestGetJSONRetriesTransient(t *testing.T) {
	var hits int
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write(envelope("PlayerGameLog", []string{"Game_ID"}, []any{"0022500001"}))
	})

	entries, err := c.PlayerGameLog(context.Background(), 2544, "2025-26")
	if err != nil {
		t.Fatalf("PlayerGameLog: %v", err)
	}
	if hits != 3 {
		t.Fatalf("server hit %d times, want 3", hits)
	}
	if len(entries) != 1 || entries[0].GameID != "0022500001" {
		t.Fatalf("entries = %+v", entries)
	}
}

func TestGetJSONExhaustsRetries(t *testing.T) {
	var hits int
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := c.PlayerGameLog(context.Background(), 2544, "2025-26")
	if !errors.Is(err, ErrTransient) {
		t.Fatalf("err = %v, want ErrTransient", err)
	}
	if hits != 3 {
		t.Fatalf("server hit %d times, want 3", hits)
	}
}

func TestGetJSONNotFoundNotRetried(t *testing.T) {
	var hits int
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := c.PlayerGameLog(context.Background(), 2544, "2025-26")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if hits != 1 {
		t.Fatalf("server hit %d times, want 1", hits)
	}
}

func TestGetJSONMalformedBody(t *testing.T) {
	var hits int
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte("<html>not json</html>"))
	})

	_, err := c.PlayerGameLog(context.Background(), 2544, "2025-26")
	if !errors.Is(err, ErrMalformed) {
		t.Fatalf("err = %v, want ErrMalformed", err)
	}
	if hits != 1 {
		t.Fatalf("decode failures must not be retried, got %d hits", hits)
	}
}

func TestStatsHeadersSent(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-nba-stats-origin") != "stats" || r.Header.Get("Referer") == "" {
			t.Errorf("stats headers missing: %v", r.Header)
		}
		w.Write(envelope("PlayerGameLog", []string{"Game_ID"}))
	})

	if _, err := c.PlayerGameLog(context.Background(), 2544, "2025-26"); err != nil {
		t.Fatalf("PlayerGameLog: %v", err)
	}
}

func TestPlayerGameLogDecodesRows(t *testing.T) {
	headers := []string{"Game_ID", "GAME_DATE", "MATCHUP", "WL", "MIN", "PTS", "REB", "AST", "FGM", "FGA", "FG_PCT", "PLUS_MINUS"}
	row := []any{"0022500001", "OCT 22, 2025", "BOS vs. NYK", "W", 34.0, 28.0, 7.0, 5.0, 10.0, 18.0, 0.556, 12.0}
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(envelope("PlayerGameLog", headers, row))
	})

	entries, err := c.PlayerGameLog(context.Background(), 2544, "2025-26")
	if err != nil {
		t.Fatalf("PlayerGameLog: %v", err)
	}
	e := entries[0]
	if e.Matchup != "BOS vs. NYK" || e.WinLoss != "W" || e.Points != 28 {
		t.Fatalf("entry = %+v", e)
	}
	if e.FGM != 10 || e.FGA != 18 || e.FGPct != 0.556 || e.PlusMinus != 12 {
		t.Fatalf("shooting = %+v", e)
	}
}

func TestPlayerIndexFallsBackToFirstSet(t *testing.T) {
	headers := []string{"PERSON_ID", "DISPLAY_FIRST_LAST", "FROM_YEAR", "TO_YEAR"}
	row := []any{2544.0, "LeBron James", "2003", "2025"}
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(envelope("SomethingElse", headers, row))
	})

	index, err := c.PlayerIndex(context.Background(), "2025-26")
	if err != nil {
		t.Fatalf("PlayerIndex: %v", err)
	}
	if len(index) != 1 || index[0].PersonID != 2544 || index[0].ToYear != 2025 {
		t.Fatalf("index = %+v", index)
	}
}

func TestLeagueLeadersSort(t *testing.T) {
	headers := []string{"PLAYER_NAME", "TEAM_ABBREVIATION", "GP", "PTS", "TOV"}
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write(envelope("LeagueDashPlayerStats", headers,
			[]any{"Mid Scorer", "AAA", 50.0, 25.0, 3.0},
			[]any{"Top Scorer", "BBB", 50.0, 31.0, 4.0},
			[]any{"Low Scorer", "CCC", 50.0, 18.0, 1.0},
		))
	})

	t.Run("descending by default", func(t *testing.T) {
		rows, err := c.LeagueLeaders(context.Background(), LeadersQuery{Stat: "PTS", Season: "2025-26", TopN: 2})
		if err != nil {
			t.Fatalf("LeagueLeaders: %v", err)
		}
		if len(rows) != 2 || rows[0].PlayerName != "Top Scorer" || rows[1].PlayerName != "Mid Scorer" {
			t.Fatalf("rows = %+v", rows)
		}
	})

	t.Run("turnovers ascend", func(t *testing.T) {
		rows, err := c.LeagueLeaders(context.Background(), LeadersQuery{Stat: "TOV", Season: "2025-26", TopN: 3})
		if err != nil {
			t.Fatalf("LeagueLeaders: %v", err)
		}
		if rows[0].PlayerName != "Low Scorer" {
			t.Fatalf("lowest turnovers should rank first, got %+v", rows[0])
		}
	})
}

func TestLiveBoxScore(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"game":{"gameId":"0022500001","homeTeam":{"teamId":1610612738,"teamTricode":"BOS","players":[{"personId":1,"name":"A","starter":"1"},{"personId":6,"name":"B","starter":"0"}]},"awayTeam":{"teamId":1610612752,"teamTricode":"NYK","players":[{"personId":40,"name":"C","starter":"1"}]}}}`))
	})

	box, err := c.LiveBoxScore(context.Background(), "0022500001")
	if err != nil {
		t.Fatalf("LiveBoxScore: %v", err)
	}
	if box.HomeTeam.TeamTricode != "BOS" || len(box.HomeTeam.Players) != 2 {
		t.Fatalf("home team = %+v", box.HomeTeam)
	}
	if !box.HomeTeam.Players[0].IsStarter() || box.HomeTeam.Players[1].IsStarter() {
		t.Fatal("starter flags decoded wrong")
	}
}

func TestLiveBoxScoreEmptyRosters(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"game":{"gameId":"0022500001","homeTeam":{},"awayTeam":{}}}`))
	})

	if _, err := c.LiveBoxScore(context.Background(), "0022500001"); !errors.Is(err, ErrMalformed) {
		t.Fatalf("err = %v, want ErrMalformed", err)
	}
}

func TestLivePlayByPlay(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"game":{"gameId":"0022500001","actions":[{"actionNumber":7,"clock":"PT07M41.50S","period":1,"teamId":1610612738,"personId":3,"actionType":"substitution","subType":"out","scoreHome":"12","scoreAway":"8"}]}}`))
	})

	actions, err := c.LivePlayByPlay(context.Background(), "0022500001")
	if err != nil {
		t.Fatalf("LivePlayByPlay: %v", err)
	}
	a := actions[0]
	if a.ActionType != "substitution" || a.SubType != "out" || a.PersonID != 3 {
		t.Fatalf("action = %+v", a)
	}
	if a.ScoreHomeInt() != 12 || a.ScoreAwayInt() != 8 {
		t.Fatalf("scores = %s/%s", a.ScoreHome, a.ScoreAway)
	}
}

func TestLivePlayByPlayEmpty(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"game":{"gameId":"0022500001","actions":[]}}`))
	})

	if _, err := c.LivePlayByPlay(context.Background(), "0022500001"); !errors.Is(err, ErrMalformed) {
		t.Fatalf("err = %v, want ErrMalformed", err)
	}
}
