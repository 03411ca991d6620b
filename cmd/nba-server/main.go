// Command nba-server exposes NBA statistics as MCP tools over streamable
// HTTP or stdio, backed by the public stats and liveData feeds.
package main

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"nba-stats-mcp/internal/config"
	"nba-stats-mcp/internal/lineup"
	"nba-stats-mcp/internal/nba"
	"nba-stats-mcp/pkg/logger"
	"nba-stats-mcp/pkg/metrics"
)

const serverVersion = "0.3.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "nba-server",
		Short: "NBA statistics MCP server",
		Long:  "Serves NBA scores, box scores, play-by-play and lineup-shift analysis as MCP tools.",
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server",
		RunE:  runServe,
	}
	serveCmd.Flags().String("addr", "", "HTTP listen address (overrides config)")
	serveCmd.Flags().String("transport", "", "transport: http or stdio (overrides config)")

	rootCmd.AddCommand(serveCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	// .env is optional; real deployments set env vars directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if v, _ := cmd.Flags().GetString("addr"); v != "" {
		cfg.Addr = v
	}
	if v, _ := cmd.Flags().GetString("transport"); v != "" {
		cfg.Transport = v
	}

	logger.Init()
	logger.SetLevelString(cfg.LogLevel)
	log := logger.Get().Named("server")

	m := metrics.New("nba_mcp")

	client := nba.NewClient(
		nba.WithBaseURLs(cfg.StatsBaseURL, cfg.LiveBaseURL),
		nba.WithUserAgent(cfg.UserAgent),
		nba.WithTimeout(time.Duration(cfg.RequestTimeoutSecs)*time.Second),
		nba.WithRetry(cfg.RetryAttempts, time.Duration(cfg.RetryBackoffMS)*time.Millisecond),
		nba.WithMetrics(m),
	)
	engine := lineup.NewEngine(client,
		lineup.WithWorkers(cfg.ShiftWorkers),
		lineup.WithMetrics(m),
	)

	a := &app{
		cfg:     cfg,
		api:     client,
		engine:  engine,
		metrics: m,
		log:     log,
	}

	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "nba-stats-mcp",
			Version: serverVersion,
		},
		nil,
	)
	registry := a.registerTools(server)

	ctx := context.Background()
	if cfg.Transport == "stdio" {
		log.Info(ctx, "serving MCP over stdio")
		return server.Run(ctx, &mcp.StdioTransport{})
	}

	handler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})

	apiKey := strings.TrimSpace(os.Getenv("NBA_MCP_API_KEY"))
	if cfg.RequireAuth && apiKey == "" {
		return fmt.Errorf("NBA_MCP_API_KEY is required when require_auth is set")
	}

	r := mux.NewRouter()
	r.Handle("/health", withAuth(apiKey, cfg.AuthHeader, healthHandler())).Methods(http.MethodGet)
	r.Handle("/tools", withAuth(apiKey, cfg.AuthHeader, toolsHandler(registry))).Methods(http.MethodGet)
	r.Handle("/metrics", m.Handler()).Methods(http.MethodGet)
	r.PathPrefix(cfg.MCPPath).Handler(withAuth(apiKey, cfg.AuthHeader, handler))

	log.Info(ctx, "MCP HTTP server listening",
		logger.String("addr", cfg.Addr),
		logger.String("path", cfg.MCPPath))
	return http.ListenAndServe(cfg.Addr, r)
}

// withAuth enforces API-key auth when a key is configured. The key is read
// from the configured header, falling back to a bearer Authorization header.
func withAuth(apiKey, header string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if apiKey == "" {
			next.ServeHTTP(w, r)
			return
		}
		key := strings.TrimSpace(r.Header.Get(header))
		if key == "" {
			if authz := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(authz), "bearer ") {
				key = strings.TrimSpace(authz[7:])
			}
		}
		if subtle.ConstantTimeCompare([]byte(key), []byte(apiKey)) != 1 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"unauthorized"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func healthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
}

func toolsHandler(registry []toolInfo) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		b, _ := json.MarshalIndent(map[string]any{"tools": registry}, "", "  ")
		w.Write(b)
	})
}
