package mcp

import (
	"context"
	"encoding/base64"
	"fmt"

	"browserhive-mcp-server/internal/browser"

	"github.com/playwright-community/playwright-go"
)

// instanceIDProperty is shared by every session-scoped tool schema: the
// optional explicit routing identifier.
func instanceIDProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Target instance; optional when exactly one instance is active",
	}
}

type NavigateTool struct{}

func (t *NavigateTool) Name() string { return "browser_navigate" }
func (t *NavigateTool) Description() string {
	return `Navigate the target instance's page to a URL.

Waits for the load event before returning. Use instanceId to pick an
instance when more than one is active.

Returns: confirmation with the final URL after redirects.`
}
func (t *NavigateTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"url": map[string]interface{}{
				"type":        "string",
				"description": "Destination URL",
			},
			"instanceId": instanceIDProperty(),
		},
		"required": []string{"url"},
	}
}
func (t *NavigateTool) Execute(_ context.Context, session *browser.Session, args map[string]interface{}, resp *Response) error {
	page, err := session.Page()
	if err != nil {
		return err
	}

	url := getStringArg(args, "url")
	if _, err := page.Goto(url, playwright.PageGotoOptions{}); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}

	resp.AddResult(fmt.Sprintf("Navigated to %s", page.URL()))
	return nil
}

type PageStateTool struct{}

func (t *PageStateTool) Name() string { return "browser_get_page_state" }
func (t *PageStateTool) Description() string {
	return `Report the target instance's current URL and page title.

Returns: "URL: ..." and "Title: ..." fragments.`
}
func (t *PageStateTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"instanceId": instanceIDProperty(),
		},
	}
}
func (t *PageStateTool) Execute(_ context.Context, session *browser.Session, _ map[string]interface{}, resp *Response) error {
	page, err := session.Page()
	if err != nil {
		return err
	}

	title, err := page.Title()
	if err != nil {
		return fmt.Errorf("read page title: %w", err)
	}

	resp.AddResult(fmt.Sprintf("URL: %s", page.URL()))
	resp.AddResult(fmt.Sprintf("Title: %s", title))
	return nil
}

type EvaluateTool struct{}

func (t *EvaluateTool) Name() string { return "browser_evaluate" }
func (t *EvaluateTool) Description() string {
	return `Evaluate a JavaScript expression in the target instance's page.

The expression runs in the page context; the stringified result is
returned. Side effects on the page are permitted.

Returns: the evaluation result as text.`
}
func (t *EvaluateTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"expression": map[string]interface{}{
				"type":        "string",
				"description": "JavaScript expression to evaluate",
			},
			"instanceId": instanceIDProperty(),
		},
		"required": []string{"expression"},
	}
}
func (t *EvaluateTool) Execute(_ context.Context, session *browser.Session, args map[string]interface{}, resp *Response) error {
	page, err := session.Page()
	if err != nil {
		return err
	}

	result, err := page.Evaluate(getStringArg(args, "expression"))
	if err != nil {
		return fmt.Errorf("evaluate expression: %w", err)
	}

	resp.AddResult(fmt.Sprintf("%v", result))
	return nil
}

type ScreenshotTool struct{}

func (t *ScreenshotTool) Name() string { return "browser_screenshot" }
func (t *ScreenshotTool) Description() string {
	return `Capture a PNG screenshot of the target instance's viewport.

Returns: the screenshot as a base64-encoded PNG.`
}
func (t *ScreenshotTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"instanceId": instanceIDProperty(),
		},
	}
}
func (t *ScreenshotTool) Execute(_ context.Context, session *browser.Session, _ map[string]interface{}, resp *Response) error {
	page, err := session.Page()
	if err != nil {
		return err
	}

	data, err := page.Screenshot(playwright.PageScreenshotOptions{})
	if err != nil {
		return fmt.Errorf("capture screenshot: %w", err)
	}

	resp.AddResult(base64.StdEncoding.EncodeToString(data))
	return nil
}
