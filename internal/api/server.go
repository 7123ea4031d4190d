package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dgallion1/grokmcp/internal/config"
	"github.com/dgallion1/grokmcp/internal/grokipedia"
)

// Paths of the MCP endpoints.
const (
	StreamablePath = "/mcp"
	SSEPath        = "/sse"
)

// Server serves the MCP server over HTTP along with health, metrics and
// upstream stats endpoints.
type Server struct {
	router   chi.Router
	mcp      *mcp.Server
	stats    *grokipedia.Stats
	gatherer prometheus.Gatherer
	log      *slog.Logger
	cfg      config.Config
}

// NewServer creates and configures the HTTP server. stats may be nil when
// articles come from a local corpus.
func NewServer(srv *mcp.Server, stats *grokipedia.Stats, gatherer prometheus.Gatherer, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		mcp:      srv,
		stats:    stats,
		gatherer: gatherer,
		log:      log,
		cfg:      cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)
	r.Get("/api/stats/upstream", s.handleUpstreamStats)
	if s.gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	getServer := func(*http.Request) *mcp.Server { return s.mcp }
	r.Group(func(r chi.Router) {
		r.Use(CORS(s.cfg.CORSAllowedOrigins))
		switch s.cfg.Transport {
		case config.TransportSSE:
			r.Handle(SSEPath, mcp.NewSSEHandler(getServer, nil))
		default:
			r.Handle(StreamablePath, mcp.NewStreamableHTTPHandler(getServer, nil))
		}
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
