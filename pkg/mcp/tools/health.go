package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// DatasetInfo describes the loaded dataset. *store.Store satisfies it.
type DatasetInfo interface {
	Len() int
	Years() []string
}

type healthResult struct {
	Status  string   `json:"status"`
	Version string   `json:"version"`
	Records int      `json:"records"`
	Years   []string `json:"years"`
}

// RegisterHealthTool adds a health check tool to the MCP server.
// The tool returns the server status, version and dataset coverage.
func RegisterHealthTool(s *server.MCPServer, version string, dataset DatasetInfo) {
	tool := mcp.NewTool(
		"health",
		mcp.WithDescription("Returns server health status, version and which assessment years are loaded"),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		res := healthResult{Status: "ok", Version: version}
		if dataset != nil {
			res.Records = dataset.Len()
			res.Years = dataset.Years()
		}
		result, err := jsonResult(res)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal health result: %w", err)
		}
		return result, nil
	})
}
