package server

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/oklog/ulid/v2"
)

// Version is the server version reported during the MCP handshake.
const Version = "0.3.0"

// Server is an MCP tool server with its own tool registry.
//
// The registry allows direct programmatic tool invocation via CallTool in
// addition to transport-based serving, which keeps the tools testable
// without a connected client.
type Server struct {
	name    string
	version string
	log     *slog.Logger

	mu    sync.RWMutex
	order []string
	tools map[string]*registeredTool
}

// registeredTool holds tool metadata and handler for the internal registry.
type registeredTool struct {
	tool    *mcp.Tool
	handler mcp.ToolHandler
}

// NewServer creates a named MCP tool server.
func NewServer(name string, log *slog.Logger) *Server {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Server{
		name:    name,
		version: Version,
		log:     log,
		tools:   make(map[string]*registeredTool, 8),
	}
}

// Name returns the server name.
func (s *Server) Name() string {
	return s.name
}

// AddTool registers a tool with the server.
func (s *Server) AddTool(tool *mcp.Tool, handler mcp.ToolHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tools[tool.Name]; !exists {
		s.order = append(s.order, tool.Name)
	}

	s.tools[tool.Name] = &registeredTool{
		tool:    tool,
		handler: handler,
	}
}

// Tools returns the registered tools in registration order.
func (s *Server) Tools() []*mcp.Tool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*mcp.Tool, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.tools[name].tool)
	}

	return out
}

// CallTool executes a registered tool by name. Handler errors are
// converted to error results so callers always get a result to report.
func (s *Server) CallTool(ctx context.Context, name string, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	s.mu.RLock()
	t, exists := s.tools[name]
	s.mu.RUnlock()

	if !exists {
		return ErrorResult("Tool not found: " + name), nil
	}

	result, err := t.handler(ctx, req)
	if err != nil {
		return ErrorResult("Tool execution failed: " + err.Error()), nil
	}

	return result, nil
}

// Run serves the registered tools over stdio until the client disconnects
// or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	impl := &mcp.Implementation{
		Name:    s.name,
		Version: s.version,
	}

	srv := mcp.NewServer(impl, nil)

	s.mu.RLock()
	for _, name := range s.order {
		t := s.tools[name]
		srv.AddTool(t.tool, s.instrument(t.tool.Name, t.handler))
	}
	s.mu.RUnlock()

	s.log.Info("Serving MCP over stdio", "server", s.name, "tools", len(s.order))

	return srv.Run(ctx, &mcp.StdioTransport{})
}

// instrument wraps a handler with per-call logging. Each call gets a ulid
// so concurrent calls can be told apart in the log.
func (s *Server) instrument(name string, handler mcp.ToolHandler) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		callID := ulid.Make().String()
		start := time.Now()

		s.log.Debug("Tool call started", "tool", name, "call_id", callID)

		result, err := handler(ctx, req)

		switch {
		case err != nil:
			s.log.Error("Tool call failed",
				"tool", name, "call_id", callID, "duration", time.Since(start), "error", err)

			// Report the failure to the client instead of failing the request.
			return ErrorResult("Tool execution failed: " + err.Error()), nil
		case result != nil && result.IsError:
			s.log.Warn("Tool call returned error result",
				"tool", name, "call_id", callID, "duration", time.Since(start))
		default:
			s.log.Debug("Tool call finished",
				"tool", name, "call_id", callID, "duration", time.Since(start))
		}

		return result, err
	}
}
