package inspector

import (
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hazyhaar/csspeek/inspector/event"
	"github.com/hazyhaar/csspeek/kit"
)

// RegisterMCP registers the inspector tools on an MCP server.
func (c *Controller) RegisterMCP(srv *mcp.Server) {
	c.registerCommandTool(srv, "inspector_start",
		"Start live CSS inspection: the element under the pointer is sampled and sample-update events are emitted. A click freezes the readout.",
		event.StartInspection{})
	c.registerCommandTool(srv, "inspector_stop",
		"Stop live CSS inspection and remove the overlay.",
		event.StopInspection{})
	c.registerCommandTool(srv, "inspector_scan",
		"Scan the page for every distinct color used in its computed styles, translucent colors first.",
		event.RunColorScan{})
	c.registerStateTool(srv)
	c.registerClearStorageTool(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

func (c *Controller) registerCommandTool(srv *mcp.Server, name, desc string, cmd event.Command) {
	tool := &mcp.Tool{
		Name:        name,
		Description: desc,
		InputSchema: inputSchema(map[string]any{}, nil),
	}
	endpoint := c.instrument(name)(c.CommandEndpoint())
	decode := func(*mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: cmd}, nil
	}
	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}

func (c *Controller) registerStateTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "inspector_state",
		Description: "Report whether inspection is running, the shared detecting flag, and the last sample.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}
	kit.RegisterMCPTool(srv, tool, c.instrument(tool.Name)(c.StateEndpoint()), kit.NoArgs)
}

type clearStorageReq struct {
	Targets []string `json:"targets"`
}

func (c *Controller) registerClearStorageTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "inspector_clear_storage",
		Description: "Clear site storage of the inspected page. Each target reports success or its error.",
		InputSchema: inputSchema(map[string]any{
			"targets": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string", "enum": []string{"cookies", "session", "local"}},
				"description": "Targets to clear; all when omitted",
			},
		}, nil),
	}
	endpoint := c.instrument(tool.Name)(c.CommandEndpoint())
	decode := func(req *mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		var r clearStorageReq
		if len(req.Params.Arguments) > 0 {
			if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
				return nil, err
			}
		}
		targets, err := event.ParseStorageTargets(r.Targets)
		if err != nil {
			return nil, err
		}
		return &kit.MCPDecodeResult{Request: event.ClearStorage{Targets: targets}}, nil
	}
	kit.RegisterMCPTool(srv, tool, endpoint, decode)
}
