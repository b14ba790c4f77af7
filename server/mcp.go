package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/voocel/toolgate/tool"
)

// mcpHandler exposes the registered tools over the MCP streamable-HTTP
// transport. Each handler validates input through the tool schema before
// delegating; failures come back as error-flagged text results, never as
// protocol errors.
func (s *Server) mcpHandler() (http.Handler, error) {
	srv := mcpserver.NewMCPServer(
		Name,
		Version,
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithRecovery(),
	)

	for _, t := range s.svc.Registry().List() {
		rawSchema, err := json.Marshal(t.Schema())
		if err != nil {
			return nil, fmt.Errorf("marshal schema for %s: %w", t.Name(), err)
		}
		srv.AddTool(
			mcp.NewToolWithRawSchema(t.Name(), t.Description(), rawSchema),
			toolHandler(t),
		)
	}

	return mcpserver.NewStreamableHTTPServer(
		srv,
		mcpserver.WithEndpointPath(mcpPath),
		mcpserver.WithStateLess(true),
	), nil
}

func toolHandler(t tool.Tool) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		params, err := tool.Validate(t.Schema(), req.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		result, err := t.Execute(ctx, params)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(fmt.Sprint(result)), nil
	}
}
