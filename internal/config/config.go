package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures all tunable settings for the BrowserHive MCP server.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Browser BrowserConfig `yaml:"browser"`
	MCP     MCPConfig     `yaml:"mcp"`
	Trace   TraceConfig   `yaml:"trace"`
}

type ServerConfig struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
	LogFile string `yaml:"log_file"`
}

// BrowserConfig is the base configuration every instance derives from.
type BrowserConfig struct {
	// When set (chromium | firefox | webkit), the server installs the
	// reserved "default" instance at startup. Empty means dynamic mode:
	// the registry starts empty and instances are created via tools.
	DefaultBrowserType string `yaml:"default_browser_type"`
	// Headless controls whether browsers run without a visible window (default: true).
	Headless *bool `yaml:"headless"`
	// Default navigation timeout (e.g., "15s").
	DefaultNavigationTimeout string `yaml:"default_navigation_timeout"`
	// Viewport width for new instances (default: 1280).
	ViewportWidth int `yaml:"viewport_width"`
	// Viewport height for new instances (default: 720).
	ViewportHeight int `yaml:"viewport_height"`
}

type MCPConfig struct {
	// When set, starts an SSE server on this port instead of stdio-only.
	SSEPort int `yaml:"sse_port"`
}

// TraceConfig controls the rotating tool-call trace log.
type TraceConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

// DefaultConfig provides reasonable defaults for local development.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Name:    "browserhive-mcp",
			Version: "0.1.0",
			LogFile: "browserhive-mcp.log",
		},
		Browser: BrowserConfig{
			DefaultNavigationTimeout: "15s",
			ViewportWidth:            1280,
			ViewportHeight:           720,
		},
		MCP: MCPConfig{
			SSEPort: 0,
		},
		Trace: TraceConfig{
			Enabled: false,
			Dir:     "data/traces",
		},
	}
}

// Load reads YAML config from disk and overlays defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, cfg.Validate()
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

// Validate ensures required fields exist so the server can start deterministically.
func (c *Config) Validate() error {
	if c.Server.Name == "" {
		return errors.New("server.name is required")
	}
	switch c.Browser.DefaultBrowserType {
	case "", "chromium", "firefox", "webkit":
	default:
		return fmt.Errorf("browser.default_browser_type must be chromium, firefox, or webkit (got %q)", c.Browser.DefaultBrowserType)
	}
	if c.MCP.SSEPort < 0 || c.MCP.SSEPort > 65535 {
		return fmt.Errorf("mcp.sse_port out of range: %d", c.MCP.SSEPort)
	}
	return nil
}

// NavigationTimeout returns the parsed navigation timeout with a sane default.
func (b BrowserConfig) NavigationTimeout() time.Duration {
	if b.DefaultNavigationTimeout == "" {
		return 15 * time.Second
	}
	d, err := time.ParseDuration(b.DefaultNavigationTimeout)
	if err != nil {
		return 15 * time.Second
	}
	return d
}

// IsHeadless returns whether browsers should run headless (default: true).
func (b BrowserConfig) IsHeadless() bool {
	if b.Headless == nil {
		return true
	}
	return *b.Headless
}

// GetViewportWidth returns the viewport width with a sane default.
func (b BrowserConfig) GetViewportWidth() int {
	if b.ViewportWidth <= 0 {
		return 1280
	}
	return b.ViewportWidth
}

// GetViewportHeight returns the viewport height with a sane default.
func (b BrowserConfig) GetViewportHeight() int {
	if b.ViewportHeight <= 0 {
		return 720
	}
	return b.ViewportHeight
}
