package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/ekaya-groundwater/pkg/services"
)

func newTestServer() *server.MCPServer {
	return server.NewMCPServer("test", "1.0.0", server.WithToolCapabilities(true))
}

// callTool executes an MCP tool via the server's HandleMessage method and
// fails the test on a JSON-RPC error.
func callTool(t *testing.T, s *server.MCPServer, name string, arguments map[string]any) *mcp.CallToolResult {
	t.Helper()

	result, rpcErr := callToolRaw(t, s, name, arguments)
	require.Nil(t, rpcErr, "unexpected JSON-RPC error")
	require.NotNil(t, result)
	return result
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func callToolRaw(t *testing.T, s *server.MCPServer, name string, arguments map[string]any) (*mcp.CallToolResult, *rpcError) {
	t.Helper()

	reqBytes, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"method":  "tools/call",
		"id":      1,
		"params": map[string]any{
			"name":      name,
			"arguments": arguments,
		},
	})
	require.NoError(t, err)

	resultBytes, err := json.Marshal(s.HandleMessage(context.Background(), reqBytes))
	require.NoError(t, err)

	var response struct {
		Result *mcp.CallToolResult `json:"result"`
		Error  *rpcError           `json:"error"`
	}
	require.NoError(t, json.Unmarshal(resultBytes, &response))
	return response.Result, response.Error
}

// listTools returns the names of the registered tools.
func listTools(t *testing.T, s *server.MCPServer) []string {
	t.Helper()

	result := s.HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","method":"tools/list","id":1}`))
	resultBytes, err := json.Marshal(result)
	require.NoError(t, err)

	var response struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(resultBytes, &response))

	names := make([]string, 0, len(response.Result.Tools))
	for _, tool := range response.Result.Tools {
		names = append(names, tool.Name)
	}
	return names
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := mcp.AsTextContent(result.Content[0])
	require.True(t, ok, "expected text content")
	return text.Text
}

type mockAssistant struct {
	answer   *services.Answer
	err      error
	lastText string
	lastLang string
}

func (m *mockAssistant) ProcessQuery(_ context.Context, text, language string) (*services.Answer, error) {
	m.lastText = text
	m.lastLang = language
	return m.answer, m.err
}

type mockLocations struct {
	states    []string
	districts map[string][]string
	years     []string
}

func (m *mockLocations) States() []string                  { return m.states }
func (m *mockLocations) DistrictsOf(state string) []string { return m.districts[state] }
func (m *mockLocations) Len() int                          { return 4 }
func (m *mockLocations) Years() []string                   { return m.years }

func sampleLocations() *mockLocations {
	return &mockLocations{
		states: []string{"Kerala", "Punjab"},
		districts: map[string][]string{
			"Kerala": {"Wayanad", "Palakkad"},
			"Punjab": {"Ludhiana", "Amritsar"},
		},
		years: []string{"2020-2021", "2019-2020"},
	}
}
