package mcpserver

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/segmentio/ksuid"

	"github.com/dgallion1/grokmcp/internal/articles"
	"github.com/dgallion1/grokmcp/internal/logging"
)

const (
	serverName   = "Grokipedia"
	instructions = "MCP server for searching and retrieving content from Grokipedia, a wiki-style knowledge base."
)

// Options configures New.
type Options struct {
	Version string
	// Metrics is optional.
	Metrics *Metrics
}

// Server exposes the article operations as MCP tools and prompts.
type Server struct {
	mcp     *mcp.Server
	svc     *articles.Service
	log     *slog.Logger
	metrics *Metrics
}

func New(svc *articles.Service, log *slog.Logger, opts Options) *Server {
	if opts.Version == "" {
		opts.Version = "dev"
	}
	s := &Server{
		mcp: mcp.NewServer(&mcp.Implementation{Name: serverName, Version: opts.Version}, &mcp.ServerOptions{
			Instructions: instructions,
			Logger:       log.With("component", "mcp"),
		}),
		svc:     svc,
		log:     log,
		metrics: opts.Metrics,
	}
	s.registerTools()
	s.registerPrompts()
	return s
}

// MCP returns the underlying server for mounting on a transport.
func (s *Server) MCP() *mcp.Server { return s.mcp }

// RunStdio serves a single session over stdin/stdout until ctx is done or
// the client disconnects.
func (s *Server) RunStdio(ctx context.Context) error {
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// callLogger returns a logger for one tool call. Records go to the process
// log and, when the call has a session, to the client as log notifications.
func (s *Server) callLogger(req *mcp.CallToolRequest, tool string) *slog.Logger {
	h := s.log.Handler()
	if req != nil && req.Session != nil {
		h = logging.Fanout(h, mcp.NewLoggingHandler(req.Session, &mcp.LoggingHandlerOptions{
			LoggerName: "grokipedia",
		}))
	}
	return slog.New(h).With("tool", tool, "call_id", ksuid.New().String())
}
