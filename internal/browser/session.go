package browser

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
)

// BrowserType selects the Playwright engine behind a session.
type BrowserType string

const (
	Chromium BrowserType = "chromium"
	Firefox  BrowserType = "firefox"
	WebKit   BrowserType = "webkit"
)

// ParseBrowserType validates a raw browser type string from tool arguments.
func ParseBrowserType(s string) (BrowserType, error) {
	switch BrowserType(s) {
	case Chromium, Firefox, WebKit:
		return BrowserType(s), nil
	case "":
		return "", errors.New("browserType is required (chromium, firefox, or webkit)")
	default:
		return "", fmt.Errorf("unsupported browser type %q (expected chromium, firefox, or webkit)", s)
	}
}

// SessionConfig is the read-only configuration snapshot a session is bound
// to: the base browser configuration with the browser type overridden.
type SessionConfig struct {
	Type              BrowserType
	Headless          bool
	NavigationTimeout time.Duration
	ViewportWidth     int
	ViewportHeight    int
}

// ConnectFunc establishes the underlying Playwright resources for a session.
// It runs on first use, never during instance creation.
type ConnectFunc func() (playwright.Browser, playwright.BrowserContext, playwright.Page, error)

// Session is one independently addressable browser-automation context. It is
// exclusively owned by the registry: created by the lifecycle manager,
// destroyed by close or shutdown, never shared or duplicated.
type Session struct {
	ID        string
	CreatedAt time.Time

	cfg     SessionConfig
	connect ConnectFunc

	// callMu serializes tool execution on this session. Calls targeting
	// different sessions proceed concurrently with no coordination.
	callMu sync.Mutex

	mu          sync.Mutex
	runningTool string
	disposed    bool
	browser     playwright.Browser
	browserCtx  playwright.BrowserContext
	page        playwright.Page
}

// NewSession builds an unconnected session bound to the given configuration.
func NewSession(id string, cfg SessionConfig, connect ConnectFunc) *Session {
	return &Session{
		ID:        id,
		CreatedAt: time.Now(),
		cfg:       cfg,
		connect:   connect,
	}
}

// Config returns the session's configuration snapshot.
func (s *Session) Config() SessionConfig {
	return s.cfg
}

// BeginTool acquires the session for one tool call and records the running
// tool name for the call's duration.
func (s *Session) BeginTool(name string) {
	s.callMu.Lock()
	s.mu.Lock()
	s.runningTool = name
	s.mu.Unlock()
}

// EndTool clears the running-tool marker and releases the session. It must
// be paired with BeginTool, success or failure.
func (s *Session) EndTool() {
	s.mu.Lock()
	s.runningTool = ""
	s.mu.Unlock()
	s.callMu.Unlock()
}

// RunningTool returns the name of the tool currently executing against this
// session, or the empty string when idle.
func (s *Session) RunningTool() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runningTool
}

// Disposed reports whether the session has been torn down.
func (s *Session) Disposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed
}

// Page returns the session's Playwright page, establishing the browser
// connection on first use.
func (s *Session) Page() (playwright.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return nil, fmt.Errorf("browser instance %s is disposed", s.ID)
	}
	if s.page != nil {
		return s.page, nil
	}
	if s.connect == nil {
		return nil, fmt.Errorf("browser instance %s has no connector", s.ID)
	}

	browser, browserCtx, page, err := s.connect()
	if err != nil {
		return nil, fmt.Errorf("connect %s browser: %w", s.cfg.Type, err)
	}

	s.browser = browser
	s.browserCtx = browserCtx
	s.page = page
	return page, nil
}

// Dispose closes the underlying browser resources. Disposed is a terminal
// state; repeated calls are no-ops.
func (s *Session) Dispose() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return nil
	}
	s.disposed = true

	var errs []error
	if s.page != nil {
		if err := s.page.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close page: %w", err))
		}
	}
	if s.browserCtx != nil {
		if err := s.browserCtx.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close context: %w", err))
		}
	}
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close browser: %w", err))
		}
	}
	s.page = nil
	s.browserCtx = nil
	s.browser = nil

	return errors.Join(errs...)
}
