package mcp

import (
	"context"
	"fmt"
	"strings"

	"browserhive-mcp-server/internal/browser"

	"github.com/mark3labs/mcp-go/mcp"
)

// Reserved tool names that mutate or query the registry rather than perform
// automation. The dispatcher intercepts these before generic dispatch.
const (
	ToolCreateInstance = "create_browser_instance"
	ToolCloseInstance  = "close_browser_instance"
	ToolListInstances  = "list_browser_instances"
)

const createInstanceDescription = `Create a new browser instance for automation.

Each instance is an isolated browser context with its own identifier.
Pass the returned instanceId to other tools to target this instance.

browserType selects the engine: chromium, firefox, or webkit.

Returns: confirmation text plus {instanceId, browserType} metadata.`

const closeInstanceDescription = `Close a browser instance and release its resources.

The instance is removed from the registry immediately; any in-flight tool
call against it runs to completion but the identifier is no longer routable.

Returns: confirmation text.`

const listInstancesDescription = `List all active browser instances.

USE THIS FIRST to discover existing instances before creating new ones.
When more than one instance is active, other tools require an explicit
instanceId argument.

Returns: {count, instances: [{instanceId, browserType}]} metadata plus a
human-readable summary.`

func createInstanceSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"browserType": map[string]interface{}{
				"type":        "string",
				"enum":        []string{"chromium", "firefox", "webkit"},
				"description": "Browser engine for the new instance",
			},
		},
		"required": []string{"browserType"},
	}
}

func closeInstanceSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"instanceId": map[string]interface{}{
				"type":        "string",
				"description": "Identifier of the instance to close",
			},
		},
		"required": []string{"instanceId"},
	}
}

func listInstancesSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

// Management handlers catch every failure locally and return a well-formed
// envelope; they never reject the call.

func (s *Server) createInstance(_ context.Context, args map[string]interface{}) *mcp.CallToolResult {
	resp := NewResponse()

	browserType, err := browser.ParseBrowserType(getStringArg(args, "browserType"))
	if err != nil {
		resp.AddError(err.Error())
		return s.finishManagement(ToolCreateInstance, resp)
	}

	id, err := s.manager.CreateInstance(browserType)
	if err != nil {
		resp.AddError(fmt.Sprintf("create browser instance: %v", err))
		return s.finishManagement(ToolCreateInstance, resp)
	}

	resp.AddResult(fmt.Sprintf("Created %s browser instance %s", browserType, id))
	resp.SetMeta("instanceId", id)
	resp.SetMeta("browserType", string(browserType))
	return s.finishManagement(ToolCreateInstance, resp)
}

func (s *Server) closeInstance(_ context.Context, args map[string]interface{}) *mcp.CallToolResult {
	resp := NewResponse()

	id := getStringArg(args, "instanceId")
	if id == "" {
		resp.AddError("instanceId is required")
		return s.finishManagement(ToolCloseInstance, resp)
	}

	if err := s.manager.CloseInstance(id); err != nil {
		resp.AddError(err.Error())
		return s.finishManagement(ToolCloseInstance, resp)
	}

	resp.AddResult(fmt.Sprintf("Closed browser instance %s", id))
	return s.finishManagement(ToolCloseInstance, resp)
}

func (s *Server) listInstances(_ context.Context, _ map[string]interface{}) *mcp.CallToolResult {
	resp := NewResponse()

	infos := s.manager.ListInstances()
	resp.SetMeta("count", len(infos))
	resp.SetMeta("instances", infos)

	if len(infos) == 0 {
		resp.AddResult("No active browser instances")
		return s.finishManagement(ToolListInstances, resp)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d active browser instance(s):\n", len(infos))
	for _, info := range infos {
		fmt.Fprintf(&b, "- %s (%s)\n", info.InstanceID, info.BrowserType)
	}
	resp.AddResult(strings.TrimRight(b.String(), "\n"))
	return s.finishManagement(ToolListInstances, resp)
}

func (s *Server) finishManagement(tool string, resp *Response) *mcp.CallToolResult {
	resp.Finish()
	s.record(tool, getMetaString(resp, "instanceId"), resp)
	return resp.Serialize()
}

func getMetaString(resp *Response, key string) string {
	if v, ok := resp.meta[key].(string); ok {
		return v
	}
	return ""
}
