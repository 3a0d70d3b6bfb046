package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const (
	baselineURI  = "kodeguard://baseline"
	historyURI   = "kodeguard://history"
	analyzersURI = "kodeguard://analyzers"
)

// registerResources registers the read-only kodeguard resources.
func registerResources(s *server.MCPServer, p project) {
	s.AddResource(
		mcplib.NewResource(
			baselineURI,
			"Baseline",
			mcplib.WithResourceDescription("Stored baseline of accepted findings"),
			mcplib.WithMIMEType("application/json"),
		),
		jsonResource(baselineURI, func(ctx context.Context) (interface{}, error) {
			return loadBaseline(ctx, p)
		}),
	)

	s.AddResource(
		mcplib.NewResource(
			historyURI,
			"Run History",
			mcplib.WithResourceDescription("Summaries of past full runs, oldest first"),
			mcplib.WithMIMEType("application/json"),
		),
		jsonResource(historyURI, func(ctx context.Context) (interface{}, error) {
			return loadHistory(ctx, p)
		}),
	)

	s.AddResource(
		mcplib.NewResource(
			analyzersURI,
			"Analyzers",
			mcplib.WithResourceDescription("Analyzers enabled for this project"),
			mcplib.WithMIMEType("application/json"),
		),
		jsonResource(analyzersURI, func(context.Context) (interface{}, error) {
			return listAnalyzers(p)
		}),
	)
}

func jsonResource(uri string, load func(context.Context) (interface{}, error)) server.ResourceHandlerFunc {
	return func(ctx context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		v, err := load(ctx)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", uri, err)
		}

		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling %s: %w", uri, err)
		}

		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}
