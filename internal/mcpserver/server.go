package mcpserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rbsiding/estimator/internal/estimator"
	"github.com/rbsiding/estimator/internal/logger"
)

// Server exposes one estimator wizard session as MCP tools, so an agent
// can act as the presentation layer.
type Server struct {
	// mu serializes tool calls; the wizard itself is single-threaded.
	mu      sync.Mutex
	wizard  *estimator.Wizard
	company string

	mcpServer *server.MCPServer
	stdServer *http.Server
	port      int
	httpMu    sync.Mutex
	onContact func()

	maxFootage  int
	footageStep int
}

// Option customizes a Server.
type Option func(*Server)

// WithContactHook registers fn to run after an email is accepted.
func WithContactHook(fn func()) Option {
	return func(s *Server) { s.onContact = fn }
}

// WithFootageLimits sets the range and granularity that set-square-footage
// clamps its argument to.
func WithFootageLimits(max, step int) Option {
	return func(s *Server) {
		s.maxFootage = max
		s.footageStep = step
	}
}

// New creates a server driving w. Tools are registered immediately.
func New(w *estimator.Wizard, company, version string, opts ...Option) *Server {
	s := &Server{
		wizard:      w,
		company:     company,
		maxFootage:  estimator.DefaultMaxSquareFootage,
		footageStep: estimator.DefaultFootageStep,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.mcpServer = server.NewMCPServer(
		"estimator",
		version,
		server.WithToolCapabilities(true),
	)
	s.registerTools()
	return s
}

// ServeStdio serves MCP over stdin/stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	logger.Debug("Serving MCP over stdio")
	return server.ServeStdio(s.mcpServer)
}

// Start starts a streamable HTTP MCP endpoint on addr ("127.0.0.1:0" picks a
// free port) and returns the bound port.
func (s *Server) Start(ctx context.Context, addr string) (int, error) {
	s.httpMu.Lock()
	defer s.httpMu.Unlock()

	if s.stdServer != nil {
		return 0, fmt.Errorf("server already started")
	}

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return 0, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.port = listener.Addr().(*net.TCPAddr).Port

	mux := http.NewServeMux()
	mux.Handle("/mcp", server.NewStreamableHTTPServer(s.mcpServer, server.WithStateLess(true)))
	s.stdServer = &http.Server{Handler: mux}

	stdServer := s.stdServer
	go func() {
		if err := stdServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			logger.Error("MCP server error: %v", err)
		}
	}()

	logger.Debug("MCP server ready on port %d", s.port)
	return s.port, nil
}

// Stop stops the HTTP endpoint, if running.
func (s *Server) Stop(ctx context.Context) error {
	s.httpMu.Lock()
	defer s.httpMu.Unlock()

	if s.stdServer == nil {
		return nil
	}
	if err := s.stdServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}
	s.stdServer = nil
	logger.Debug("MCP server stopped")
	return nil
}

// URL returns the HTTP endpoint URL.
func (s *Server) URL() string {
	s.httpMu.Lock()
	defer s.httpMu.Unlock()
	return fmt.Sprintf("http://127.0.0.1:%d/mcp", s.port)
}
