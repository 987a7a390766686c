package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/lukman83/boostgg-scrap/config"
)

// Serve starts the MCP stdio server with all tools registered.
func Serve(cfg *config.Config) error {
	s := server.NewMCPServer(
		"boostgg-scrap",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	registerTools(s, cfg)

	return server.ServeStdio(s)
}
