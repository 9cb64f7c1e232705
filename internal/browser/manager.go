package browser

import (
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"

	"browserhive-mcp-server/internal/config"
)

// DefaultInstanceID is the reserved identifier for the instance installed at
// startup when a browser type is statically configured.
const DefaultInstanceID = "default"

// instanceIDPrefix keeps generated identifiers recognizable; the remainder
// is an opaque UUID, unique for the process lifetime.
const instanceIDPrefix = "instance-"

// Manager creates and disposes browser instances and owns the shared
// Playwright runner behind them. The registry is injected, not ambient, so
// multiple server instances can coexist in one process.
type Manager struct {
	cfg      config.BrowserConfig
	registry *Registry

	pwOnce sync.Once
	pw     *playwright.Playwright
	pwErr  error

	mu         sync.Mutex
	hasDefault bool
}

func NewManager(cfg config.BrowserConfig, registry *Registry) *Manager {
	return &Manager{
		cfg:      cfg,
		registry: registry,
	}
}

// runner starts the shared Playwright driver on first use. Driver and
// browser installation output is discarded so it cannot pollute the stdio
// transport.
func (m *Manager) runner() (*playwright.Playwright, error) {
	m.pwOnce.Do(func() {
		opts := &playwright.RunOptions{
			Verbose: false,
			Stdout:  io.Discard,
			Stderr:  io.Discard,
		}
		if err := playwright.Install(opts); err != nil {
			m.pwErr = fmt.Errorf("install playwright: %w", err)
			return
		}
		pw, err := playwright.Run(opts)
		if err != nil {
			m.pwErr = fmt.Errorf("start playwright: %w", err)
			return
		}
		m.pw = pw
	})
	return m.pw, m.pwErr
}

func (m *Manager) sessionConfig(browserType BrowserType) SessionConfig {
	return SessionConfig{
		Type:              browserType,
		Headless:          m.cfg.IsHeadless(),
		NavigationTimeout: m.cfg.NavigationTimeout(),
		ViewportWidth:     m.cfg.GetViewportWidth(),
		ViewportHeight:    m.cfg.GetViewportHeight(),
	}
}

// connector builds the lazy connect function for a session. The browser
// engine is only launched when the session is first used by a tool.
func (m *Manager) connector(cfg SessionConfig) ConnectFunc {
	return func() (playwright.Browser, playwright.BrowserContext, playwright.Page, error) {
		pw, err := m.runner()
		if err != nil {
			return nil, nil, nil, err
		}

		var engine playwright.BrowserType
		switch cfg.Type {
		case Firefox:
			engine = pw.Firefox
		case WebKit:
			engine = pw.WebKit
		default:
			engine = pw.Chromium
		}

		headless := cfg.Headless
		browser, err := engine.Launch(playwright.BrowserTypeLaunchOptions{
			Headless: &headless,
		})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("launch %s: %w", cfg.Type, err)
		}

		browserCtx, err := browser.NewContext(playwright.BrowserNewContextOptions{
			Viewport: &playwright.Size{
				Width:  cfg.ViewportWidth,
				Height: cfg.ViewportHeight,
			},
		})
		if err != nil {
			_ = browser.Close()
			return nil, nil, nil, fmt.Errorf("create context: %w", err)
		}

		page, err := browserCtx.NewPage()
		if err != nil {
			_ = browserCtx.Close()
			_ = browser.Close()
			return nil, nil, nil, fmt.Errorf("create page: %w", err)
		}
		page.SetDefaultTimeout(float64(cfg.NavigationTimeout.Milliseconds()))

		return browser, browserCtx, page, nil
	}
}

// CreateInstance allocates a fresh identifier, builds a session bound to the
// base configuration with the browser type overridden, and tracks it. The
// identifier is returned immediately; connecting the browser engine is the
// session's own responsibility on first use.
func (m *Manager) CreateInstance(browserType BrowserType) (string, error) {
	id := instanceIDPrefix + uuid.NewString()
	m.insert(id, browserType)
	log.Printf("[instance:%s] created (%s)", id, browserType)
	return id, nil
}

// EnsureDefault installs the reserved default instance. Called once at
// startup when a browser type is statically configured.
func (m *Manager) EnsureDefault(browserType BrowserType) {
	m.mu.Lock()
	installed := m.hasDefault
	m.hasDefault = true
	m.mu.Unlock()
	if installed {
		return
	}
	m.insert(DefaultInstanceID, browserType)
	log.Printf("[instance:%s] installed at startup (%s)", DefaultInstanceID, browserType)
}

// HasDefault reports whether the reserved default instance is installed.
func (m *Manager) HasDefault() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hasDefault
}

func (m *Manager) insert(id string, browserType BrowserType) {
	cfg := m.sessionConfig(browserType)
	m.registry.Insert(NewSession(id, cfg, m.connector(cfg)))
}

// CloseInstance removes the registry entry and disposes the session. The
// entry is gone even when disposal fails; disposal errors are logged, never
// surfaced. Removing before disposing keeps removal atomic for callers and
// never leaves a disposed session reachable through the registry.
func (m *Manager) CloseInstance(id string) error {
	sess, ok := m.registry.Remove(id)
	if !ok {
		return &NotFoundError{ID: id}
	}

	if id == DefaultInstanceID {
		m.mu.Lock()
		m.hasDefault = false
		m.mu.Unlock()
	}

	if err := sess.Dispose(); err != nil {
		log.Printf("[instance:%s] disposal failed: %v", id, err)
	} else {
		log.Printf("[instance:%s] closed", id)
	}
	return nil
}

// ListInstances returns a listing snapshot of all tracked instances.
func (m *Manager) ListInstances() []InstanceInfo {
	return m.registry.List()
}

// Shutdown disposes every remaining session concurrently and stops the
// Playwright runner. Individual disposal failures are logged independently
// and never fail the shutdown.
func (m *Manager) Shutdown() error {
	sessions := m.registry.All()

	var wg sync.WaitGroup
	for _, sess := range sessions {
		wg.Add(1)
		go func(sess *Session) {
			defer wg.Done()
			if err := sess.Dispose(); err != nil {
				log.Printf("[instance:%s] shutdown disposal failed: %v", sess.ID, err)
			}
		}(sess)
	}
	wg.Wait()

	for _, sess := range sessions {
		m.registry.Remove(sess.ID)
	}
	m.mu.Lock()
	m.hasDefault = false
	m.mu.Unlock()

	if m.pw != nil {
		if err := m.pw.Stop(); err != nil {
			return fmt.Errorf("stop playwright: %w", err)
		}
		m.pw = nil
	}
	log.Printf("browser shutdown complete (%d instances disposed)", len(sessions))
	return nil
}
