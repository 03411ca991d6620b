// Package config defines server configuration and its loading order.
package config

// Config contains process configuration for the NBA MCP server.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr is the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// MCPPath is the HTTP path serving the MCP endpoint.
	MCPPath string `koanf:"mcp_path"`

	// Transport selects "http" or "stdio".
	Transport string `koanf:"transport"`

	// RequireAuth enforces API-key auth via NBA_MCP_API_KEY when true.
	RequireAuth bool `koanf:"require_auth"`

	// AuthHeader is the HTTP header carrying the API key.
	AuthHeader string `koanf:"auth_header"`

	// StatsBaseURL is the stats.nba.com API root.
	StatsBaseURL string `koanf:"stats_base_url"`

	// LiveBaseURL is the cdn.nba.com liveData root.
	LiveBaseURL string `koanf:"live_base_url"`

	// UserAgent is sent on every upstream request.
	UserAgent string `koanf:"user_agent"`

	// RequestTimeoutSecs bounds a single upstream request.
	RequestTimeoutSecs int `koanf:"request_timeout_secs"`

	// RetryAttempts caps attempts for transient upstream failures.
	RetryAttempts int `koanf:"retry_attempts"`

	// RetryBackoffMS is the fixed delay between retry attempts.
	RetryBackoffMS int `koanf:"retry_backoff_ms"`

	// ShiftWorkers bounds concurrent per-game shift extraction.
	ShiftWorkers int `koanf:"shift_workers"`

	// DefaultSeason in YYYY-YY form, used when a tool omits one.
	DefaultSeason string `koanf:"default_season"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":8080",
		MCPPath:            "/mcp",
		Transport:          "http",
		RequireAuth:        false,
		AuthHeader:         "X-API-Key",
		StatsBaseURL:       "https://stats.nba.com/stats",
		LiveBaseURL:        "https://cdn.nba.com/static/json/liveData",
		UserAgent:          "nba-stats-mcp/1.0",
		RequestTimeoutSecs: 20,
		RetryAttempts:      3,
		RetryBackoffMS:     500,
		ShiftWorkers:       4,
		DefaultSeason:      "2025-26",
	}
}
