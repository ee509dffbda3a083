// Package mcp exposes the groundwater assistant as Model Context Protocol tools.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/ekaya-inc/ekaya-groundwater/pkg/mcp/tools"
)

// ServerName is advertised to MCP clients during initialization.
const ServerName = "ekaya-groundwater"

// Server wraps the mcp-go MCPServer.
type Server struct {
	mcp    *server.MCPServer
	logger *zap.Logger
}

// Deps are what the registered tools need.
type Deps struct {
	Assistant tools.QueryProcessor
	Locations tools.LocationLister
	Dataset   tools.DatasetInfo
	Supports  func(lang string) bool
}

// NewServer creates a new MCP server instance.
func NewServer(name, version string, logger *zap.Logger) *Server {
	mcpServer := server.NewMCPServer(
		name,
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	return &Server{
		mcp:    mcpServer,
		logger: logger,
	}
}

// NewGroundwaterServer creates a server with the groundwater tools registered.
func NewGroundwaterServer(version string, deps Deps, logger *zap.Logger) *Server {
	s := NewServer(ServerName, version, logger)
	tools.RegisterHealthTool(s.mcp, version, deps.Dataset)
	tools.RegisterListLocationsTool(s.mcp, deps.Locations)
	tools.RegisterQueryTool(s.mcp, &tools.QueryToolDeps{
		Assistant: deps.Assistant,
		Supports:  deps.Supports,
		Logger:    logger.Named("mcp_tools"),
	})
	return s
}

// MCP returns the underlying MCPServer for tool registration.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// NewStreamableHTTPServer creates an HTTP transport server wrapping this MCP server.
// The HTTP mux handles routing to /mcp, so no endpoint path is configured here.
func (s *Server) NewStreamableHTTPServer() *server.StreamableHTTPServer {
	return server.NewStreamableHTTPServer(
		s.mcp,
		server.WithStateLess(true),
	)
}
