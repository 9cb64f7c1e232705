package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// Response accumulates ordered result and error fragments for one tool call
// and serializes them into the MCP result envelope. One is produced fresh
// per call and never reused.
type Response struct {
	results []string
	errors  []string
	meta    map[string]interface{}
	done    bool
}

func NewResponse() *Response {
	return &Response{}
}

// AddResult appends a text result fragment.
func (r *Response) AddResult(text string) {
	if r.done {
		return
	}
	r.results = append(r.results, text)
}

// AddError appends an error fragment and marks the envelope as failed.
func (r *Response) AddError(text string) {
	if r.done {
		return
	}
	r.errors = append(r.errors, text)
}

// SetMeta attaches one structured metadata field to the envelope.
func (r *Response) SetMeta(key string, value interface{}) {
	if r.done {
		return
	}
	if r.meta == nil {
		r.meta = make(map[string]interface{})
	}
	r.meta[key] = value
}

// IsError reports whether any error fragment was recorded.
func (r *Response) IsError() bool {
	return len(r.errors) > 0
}

// Finish seals the response; fragments added afterwards are dropped.
func (r *Response) Finish() {
	r.done = true
}

// Fragments returns all recorded fragments, results first, for tracing.
func (r *Response) Fragments() []string {
	out := make([]string, 0, len(r.results)+len(r.errors))
	out = append(out, r.results...)
	out = append(out, r.errors...)
	return out
}

// Serialize renders the accumulated fragments as the outbound envelope:
// result fragments first, error fragments after, in insertion order.
func (r *Response) Serialize() *mcp.CallToolResult {
	content := make([]mcp.Content, 0, len(r.results)+len(r.errors))
	for _, text := range r.results {
		content = append(content, mcp.NewTextContent(text))
	}
	for _, text := range r.errors {
		content = append(content, mcp.NewTextContent(text))
	}

	result := &mcp.CallToolResult{
		Content: content,
		IsError: r.IsError(),
	}
	if len(r.meta) > 0 {
		result.Meta = mcp.NewMetaFromMap(r.meta)
	}
	return result
}
