package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"browserhive-mcp-server/internal/browser"
	"browserhive-mcp-server/internal/config"
	"browserhive-mcp-server/internal/recorder"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Server wires the MCP runtime, instance lifecycle manager, and tool table.
// The registry and manager are injected rather than ambient so multiple
// server instances can coexist in one process.
type Server struct {
	cfg       config.Config
	manager   *browser.Manager
	registry  *browser.Registry
	recorder  *recorder.Recorder
	tools     map[string]Tool
	mcpServer *mcpserver.MCPServer
}

// NewServer constructs the BrowserHive MCP server and registers all tools.
// The recorder may be nil when tracing is disabled.
func NewServer(cfg config.Config, manager *browser.Manager, registry *browser.Registry, rec *recorder.Recorder) (*Server, error) {
	mcpSrv := mcpserver.NewMCPServer(
		cfg.Server.Name,
		cfg.Server.Version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithLogging(),
		mcpserver.WithPromptCapabilities(false),
		mcpserver.WithRecovery(),
	)

	server := &Server{
		cfg:       cfg,
		manager:   manager,
		registry:  registry,
		recorder:  rec,
		tools:     make(map[string]Tool),
		mcpServer: mcpSrv,
	}

	server.registerAllTools()
	return server, nil
}

// Start launches the stdio server (Claude/Gemini CLI default).
func (s *Server) Start(ctx context.Context) error {
	stdio := mcpserver.NewStdioServer(s.mcpServer)
	return stdio.Listen(ctx, os.Stdin, os.Stdout)
}

// StartSSE hosts the server over HTTP using SSE endpoints with graceful shutdown.
func (s *Server) StartSSE(ctx context.Context, port int) error {
	sseServer := mcpserver.NewSSEServer(s.mcpServer, mcpserver.WithBaseURL("http://localhost:"+strconv.Itoa(port)))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    ":" + strconv.Itoa(port),
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Printf("SSE server shutting down gracefully...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

// Dispatch is the single entry point for a tool call. The three instance
// management tools are intercepted before generic dispatch since they
// operate on the registry itself rather than on a session. Routing and
// validation failures for generic tools are the only errors returned; they
// surface as protocol-level rejections. Everything past resolution yields a
// structured envelope, success or failure.
func (s *Server) Dispatch(ctx context.Context, name string, args map[string]interface{}) (*mcp.CallToolResult, error) {
	switch name {
	case ToolCreateInstance:
		return s.createInstance(ctx, args), nil
	case ToolCloseInstance:
		return s.closeInstance(ctx, args), nil
	case ToolListInstances:
		return s.listInstances(ctx, args), nil
	}

	tool, ok := s.tools[name]
	if !ok {
		return nil, fmt.Errorf("tool not found: %s", name)
	}

	if err := validateArgs(tool.InputSchema(), args); err != nil {
		return nil, &ValidationError{Tool: name, Reason: err.Error()}
	}

	sess, err := browser.Resolve(s.registry, getStringArg(args, "instanceId"))
	if err != nil {
		return nil, err
	}

	resp := NewResponse()
	resp.SetMeta("instanceId", sess.ID)
	resp.SetMeta("browserType", string(sess.Config().Type))

	sess.BeginTool(name)
	func() {
		defer sess.EndTool()
		if execErr := tool.Execute(ctx, sess, args, resp); execErr != nil {
			resp.AddError(fmt.Sprintf("tool %s failed: %v", name, execErr))
		}
	}()
	resp.Finish()

	s.record(name, sess.ID, resp)
	return resp.Serialize(), nil
}

func (s *Server) record(tool, instanceID string, resp *Response) {
	s.recorder.Log(recorder.Event{
		Tool:       tool,
		InstanceID: instanceID,
		IsError:    resp.IsError(),
		Fragments:  resp.Fragments(),
	})
}

func (s *Server) registerAllTools() {
	// Instance management is dispatched directly, not through the tool table.
	s.registerManagementTool(ToolCreateInstance, createInstanceDescription, createInstanceSchema())
	s.registerManagementTool(ToolCloseInstance, closeInstanceDescription, closeInstanceSchema())
	s.registerManagementTool(ToolListInstances, listInstancesDescription, listInstancesSchema())

	// Session-scoped automation tools.
	s.registerTool(&NavigateTool{})
	s.registerTool(&PageStateTool{})
	s.registerTool(&EvaluateTool{})
	s.registerTool(&ScreenshotTool{})
}

func (s *Server) registerTool(tool Tool) {
	s.tools[tool.Name()] = tool
	s.addMCPTool(tool.Name(), tool.Description(), tool.InputSchema())
}

func (s *Server) registerManagementTool(name, description string, schema map[string]interface{}) {
	s.addMCPTool(name, description, schema)
}

func (s *Server) addMCPTool(name, description string, schema map[string]interface{}) {
	raw, err := json.Marshal(schema)
	if err != nil {
		raw = json.RawMessage(`{"type":"object"}`)
	}

	mcpTool := mcp.NewToolWithRawSchema(name, description, raw)
	s.mcpServer.AddTool(mcpTool, s.wrap(name))
}

func (s *Server) wrap(name string) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		if args == nil {
			args = map[string]interface{}{}
		}
		return s.Dispatch(ctx, name, args)
	}
}
