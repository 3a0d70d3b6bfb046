// Package mcp exposes kodeguard runs to AI coding assistants over the Model
// Context Protocol.
package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/abdidvp/kodeguard/internal/engine"
)

// NewServer creates an MCP server with every kodeguard tool and resource
// registered. Each call opens the project at projectPath afresh so edits made
// between calls are picked up and the baseline store is never held open.
func NewServer(projectPath, version string, opts engine.Options) *server.MCPServer {
	s := server.NewMCPServer(
		"kodeguard",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	p := project{path: projectPath, opts: opts}
	registerTools(s, p)
	registerResources(s, p)

	return s
}

type project struct {
	path string
	opts engine.Options
}

func (p project) open() (*engine.Engine, error) {
	return engine.Open(p.path, p.opts)
}
