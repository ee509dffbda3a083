package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// LocationLister lists the known locations. *store.Store satisfies it.
type LocationLister interface {
	States() []string
	DistrictsOf(state string) []string
}

type stateLocations struct {
	State     string   `json:"state"`
	Districts []string `json:"districts,omitempty"`
}

type listLocationsResult struct {
	States []stateLocations `json:"states"`
	Count  int              `json:"count"`
}

// RegisterListLocationsTool registers the list_locations tool.
func RegisterListLocationsTool(s *server.MCPServer, locations LocationLister) {
	tool := mcp.NewTool(
		"list_locations",
		mcp.WithDescription(`List the states, and optionally their districts, that questions can name.
Pass a state to list only that state's districts.`),
		mcp.WithString(
			"state",
			mcp.Description("Only list this state (case-insensitive)"),
		),
		mcp.WithBoolean(
			"include_districts",
			mcp.Description("Include district names (default true when a state is given, false otherwise)"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		filter := strings.TrimSpace(req.GetString("state", ""))
		includeDistricts := req.GetBool("include_districts", filter != "")

		result := listLocationsResult{States: []stateLocations{}}
		for _, state := range locations.States() {
			if filter != "" && !strings.EqualFold(state, filter) {
				continue
			}
			entry := stateLocations{State: state}
			if includeDistricts {
				entry.Districts = locations.DistrictsOf(state)
			}
			result.States = append(result.States, entry)
		}

		if filter != "" && len(result.States) == 0 {
			return NewErrorResult("state_not_found", fmt.Sprintf("no state named %q in the dataset", filter)), nil
		}

		result.Count = len(result.States)
		return jsonResult(result)
	})
}
