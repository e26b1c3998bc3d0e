// Command dashboard-server exposes the pipeline's derived aggregate
// tables to the dashboard over MCP. Tools read the master dataset and the
// reference CSVs written by cmd/pipeline and compute aggregates on
// demand; they never fetch from the fantasy API.
package main

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"flag"
	"net/http"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"fpl-draft-pipeline/internal/config"
	"fpl-draft-pipeline/internal/logging"
	"fpl-draft-pipeline/internal/store"
)

type toolInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		lg := logging.New("info")
		lg.Fatal().Err(err).Msg("load config")
	}

	var (
		addr        = flag.String("addr", cfg.ServerAddr, "HTTP listen address")
		mcpPath     = flag.String("path", "/mcp", "HTTP path for MCP endpoint")
		dataDir     = flag.String("data-dir", cfg.DataDir, "root directory for pipeline artifacts")
		requireAuth = flag.Bool("require-auth", true, "require API key auth via FPL_DASHBOARD_API_KEY")
		authHeader  = flag.String("auth-header", "X-API-Key", "HTTP header to read API key from")
	)
	flag.Parse()
	cfg.DataDir = *dataDir

	log := logging.New(cfg.LogLevel)
	st := store.New(cfg.DataDir, log)

	tables := &tableSource{DataDir: cfg.DataDir, Store: st}

	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "fpl-draft-dashboard",
			Version: "1.0.0",
		},
		nil,
	)

	registry := make([]toolInfo, 0, 16)
	registerTools(server, &registry, tables)

	handler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		return server
	}, &mcp.StreamableHTTPOptions{JSONResponse: true})

	apiKey := strings.TrimSpace(os.Getenv("FPL_DASHBOARD_API_KEY"))
	if *requireAuth && apiKey == "" {
		log.Fatal().Msg("FPL_DASHBOARD_API_KEY is required (set env var or run with --require-auth=false)")
	}

	withAuth := func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				next(w, r)
				return
			}
			key := strings.TrimSpace(r.Header.Get(*authHeader))
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
			next(w, r)
		}
	}

	http.HandleFunc("/health", withAuth(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}))

	http.HandleFunc("/tools", withAuth(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		b, _ := json.MarshalIndent(map[string]any{"tools": registry}, "", "  ")
		w.Write(b)
	}))

	http.HandleFunc(*mcpPath, withAuth(func(w http.ResponseWriter, r *http.Request) {
		handler.ServeHTTP(w, r)
	}))

	log.Info().Str("addr", *addr).Str("path", *mcpPath).Msg("dashboard MCP server listening")
	if err := http.ListenAndServe(*addr, nil); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func addTool[T any](server *mcp.Server, registry *[]toolInfo, tool *mcp.Tool, handler func(context.Context, *mcp.CallToolRequest, T) (*mcp.CallToolResult, any, error)) {
	*registry = append(*registry, toolInfo{Name: tool.Name, Description: tool.Description})
	mcp.AddTool(server, tool, handler)
}

func toolMarshal(out any) (*mcp.CallToolResult, any, error) {
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return toolError(err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(b)},
		},
	}, nil, nil
}

func toolError(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{
			&mcp.TextContent{Text: "error: " + err.Error()},
		},
	}
}
