// ABOUTME: MCP server implementation for symptomlog
// ABOUTME: Provides tools and resources for AI assistants to record and review symptoms
package mcp

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harper/symptomlog/internal/store"
)

// Server wraps the MCP server with symptomlog-specific functionality.
type Server struct {
	mcpServer *mcp.Server
	store     *store.Store
	loc       *time.Location
	logger    *log.Logger
	now       func() time.Time
}

// NewServer creates a new symptomlog MCP server backed by st. Event times given
// without a zone are read in loc.
func NewServer(st *store.Store, loc *time.Location, logger *log.Logger) *Server {
	impl := &mcp.Implementation{
		Name:    "symptomlog",
		Version: "0.3.0",
	}

	if logger == nil {
		logger = log.New(io.Discard)
	}

	server := &Server{
		mcpServer: mcp.NewServer(impl, nil),
		store:     st,
		loc:       loc,
		logger:    logger.WithPrefix("mcp"),
		now:       time.Now,
	}

	// Register components
	server.registerPrompts()
	server.registerTools()
	server.registerResources()

	return server
}

// Run starts the MCP server with stdio transport.
func (s *Server) Run(ctx context.Context) error {
	transport := &mcp.StdioTransport{}
	return s.mcpServer.Run(ctx, transport)
}
