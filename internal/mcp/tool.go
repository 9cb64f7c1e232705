package mcp

import (
	"context"

	"browserhive-mcp-server/internal/browser"
)

// Tool describes the contract for session-scoped MCP tool implementations.
// Execute receives the session the call was routed to, the validated
// arguments, and a fresh response accumulator. A returned error is captured
// into the envelope as an error fragment, never propagated as a rejection.
type Tool interface {
	Name() string
	Description() string
	InputSchema() map[string]interface{}
	Execute(ctx context.Context, session *browser.Session, args map[string]interface{}, resp *Response) error
}
