package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/abdidvp/kodeguard/internal/domain"
	"github.com/abdidvp/kodeguard/internal/engine"
)

// registerTools registers all kodeguard MCP tools on the given server.
func registerTools(s *server.MCPServer, p project) {
	// 1. full run
	s.AddTool(
		mcplib.NewTool("kodeguard_analyze",
			mcplib.WithDescription("Analyze every source file in the project, update the baseline and return the report as JSON"),
		),
		handleAnalyze(p),
	)

	// 2. incremental run
	s.AddTool(
		mcplib.NewTool("kodeguard_analyze_files",
			mcplib.WithDescription("Analyze only the given files or directories. The baseline is compared but not updated."),
			mcplib.WithString("paths",
				mcplib.Required(),
				mcplib.Description("Comma-separated paths relative to the project root"),
			),
		),
		handleAnalyzeFiles(p),
	)

	// 3. filtered run
	s.AddTool(
		mcplib.NewTool("kodeguard_analyze_with",
			mcplib.WithDescription("Run a subset of analyzers, optionally over a subset of paths"),
			mcplib.WithString("analyzers",
				mcplib.Required(),
				mcplib.Description("Comma-separated analyzer ids (see kodeguard_list_analyzers)"),
			),
			mcplib.WithString("paths", mcplib.Description("Comma-separated paths; the whole project when empty")),
		),
		handleAnalyzeWith(p),
	)

	// 4. analyzer list
	s.AddTool(
		mcplib.NewTool("kodeguard_list_analyzers",
			mcplib.WithDescription("List the analyzers enabled for this project"),
		),
		handleListAnalyzers(p),
	)

	// 5. baseline
	s.AddTool(
		mcplib.NewTool("kodeguard_get_baseline",
			mcplib.WithDescription("Return the stored baseline: metrics, commit and the identities of accepted findings"),
		),
		handleGetBaseline(p),
	)

	// 6. history
	s.AddTool(
		mcplib.NewTool("kodeguard_get_history",
			mcplib.WithDescription("Return the summary of every past full run, oldest first"),
			mcplib.WithNumber("limit", mcplib.Description("Only the most recent N entries")),
		),
		handleGetHistory(p),
	)
}

func handleAnalyze(p project) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		return runResult(p, func(e *engine.Engine) (*domain.RunResult, error) {
			return e.Orchestrator.AnalyzeAll(ctx)
		})
	}
}

func handleAnalyzeFiles(p project) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		raw, err := request.RequireString("paths")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		paths := splitList(raw)
		if len(paths) == 0 {
			return errorResult("paths must name at least one file"), nil
		}
		return runResult(p, func(e *engine.Engine) (*domain.RunResult, error) {
			return e.Orchestrator.AnalyzeIncremental(ctx, paths)
		})
	}
}

func handleAnalyzeWith(p project) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		raw, err := request.RequireString("analyzers")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		ids := splitList(raw)
		paths := splitList(request.GetString("paths", ""))
		return runResult(p, func(e *engine.Engine) (*domain.RunResult, error) {
			return e.Orchestrator.AnalyzeWithFilters(ctx, paths, ids)
		})
	}
}

type analyzerInfo struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Category domain.Category `json:"category"`
}

func handleListAnalyzers(p project) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		list, err := listAnalyzers(p)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return jsonResult(list)
	}
}

func handleGetBaseline(p project) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		b, err := loadBaseline(ctx, p)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		if b == nil {
			return textResult("No baseline yet. Run kodeguard_analyze to create one."), nil
		}
		return jsonResult(b)
	}
}

func handleGetHistory(p project) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		entries, err := loadHistory(ctx, p)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		if limit := request.GetInt("limit", 0); limit > 0 && limit < len(entries) {
			entries = entries[len(entries)-limit:]
		}
		return jsonResult(entries)
	}
}

func runResult(p project, run func(*engine.Engine) (*domain.RunResult, error)) (*mcplib.CallToolResult, error) {
	e, err := p.open()
	if err != nil {
		return errorResult(fmt.Sprintf("opening project failed: %v", err)), nil
	}
	defer e.Close()

	res, err := run(e)
	if err != nil {
		return errorResult(fmt.Sprintf("analysis failed: %v", err)), nil
	}
	return jsonResult(res.Report)
}

func listAnalyzers(p project) ([]analyzerInfo, error) {
	e, err := p.open()
	if err != nil {
		return nil, fmt.Errorf("opening project failed: %w", err)
	}
	defer e.Close()

	out := make([]analyzerInfo, 0, len(e.Orchestrator.Analyzers()))
	for _, a := range e.Orchestrator.Analyzers() {
		out = append(out, analyzerInfo{ID: a.ID(), Name: a.Name(), Category: a.Category()})
	}
	return out, nil
}

func loadBaseline(ctx context.Context, p project) (*domain.Baseline, error) {
	e, err := p.open()
	if err != nil {
		return nil, fmt.Errorf("opening project failed: %w", err)
	}
	defer e.Close()
	return e.Baselines.Load(ctx)
}

func loadHistory(ctx context.Context, p project) ([]domain.HistoryEntry, error) {
	e, err := p.open()
	if err != nil {
		return nil, fmt.Errorf("opening project failed: %w", err)
	}
	defer e.Close()
	return e.Baselines.History(ctx)
}

// splitList splits a comma-separated argument, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// jsonResult marshals v to indented JSON and wraps it in a text content result.
func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

func textResult(text string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(text)},
	}
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
