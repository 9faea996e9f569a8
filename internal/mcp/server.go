// Package mcp exposes the tutorial content to AI agents over the Model
// Context Protocol.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ziadkadry99/progvibe/internal/content"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Server wraps an MCP server that exposes content browsing tools.
type Server struct {
	loader *content.Loader
	mcp    *server.MCPServer
}

// NewServer creates a new MCP server reading through loader.
func NewServer(loader *content.Loader) *Server {
	s := &Server{loader: loader}

	s.mcp = server.NewMCPServer(
		"progvibe",
		Version,
		server.WithToolCapabilities(false),
	)

	s.registerTools()

	return s
}

// registerTools adds all tool definitions and their handlers to the MCP server.
func (s *Server) registerTools() {
	s.mcp.AddTool(listSectionsTool, s.handleListSections)
	s.mcp.AddTool(listTutorialsTool, s.handleListTutorials)
	s.mcp.AddTool(getTutorialMenuTool, s.handleGetTutorialMenu)
	s.mcp.AddTool(getArticleTool, s.handleGetArticle)
}

// Serve starts the MCP server on stdio. Stdout is used for MCP protocol
// messages; all logging must go to stderr.
func (s *Server) Serve() error {
	return server.ServeStdio(s.mcp)
}
