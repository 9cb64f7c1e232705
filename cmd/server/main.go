package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"browserhive-mcp-server/internal/browser"
	"browserhive-mcp-server/internal/config"
	mcpserver "browserhive-mcp-server/internal/mcp"
	"browserhive-mcp-server/internal/recorder"
)

func main() {
	configPath := flag.String("config", "", "Path to the BrowserHive MCP config file (defaults apply when empty)")
	ssePort := flag.Int("sse-port", 0, "Optional SSE port override (falls back to config)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *ssePort != 0 {
		cfg.MCP.SSEPort = *ssePort
	}

	// Redirect logging to file for stdio mode (stderr interferes with MCP protocol)
	if cfg.MCP.SSEPort == 0 && cfg.Server.LogFile != "" {
		logFile, err := os.OpenFile(cfg.Server.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err == nil {
			log.SetOutput(logFile)
			defer logFile.Close()
		} else {
			log.SetOutput(io.Discard)
		}
	}

	var rec *recorder.Recorder
	if cfg.Trace.Enabled {
		rec, err = recorder.NewRecorder(cfg.Trace.Dir)
		if err != nil {
			log.Fatalf("failed to initialize trace recorder: %v", err)
		}
		if err := rec.Start(); err != nil {
			log.Fatalf("failed to start trace recorder: %v", err)
		}
		defer rec.Close()
	}

	registry := browser.NewRegistry()
	manager := browser.NewManager(cfg.Browser, registry)
	defer func() {
		if err := manager.Shutdown(); err != nil {
			log.Printf("shutdown error: %v", err)
		}
	}()

	if cfg.Browser.DefaultBrowserType != "" {
		browserType, err := browser.ParseBrowserType(cfg.Browser.DefaultBrowserType)
		if err != nil {
			log.Fatalf("invalid default browser type: %v", err)
		}
		manager.EnsureDefault(browserType)
	}

	server, err := mcpserver.NewServer(cfg, manager, registry, rec)
	if err != nil {
		log.Fatalf("failed to initialize MCP server: %v", err)
	}

	var startErr error
	if cfg.MCP.SSEPort > 0 {
		log.Printf("starting BrowserHive MCP SSE server on port %d", cfg.MCP.SSEPort)
		startErr = server.StartSSE(ctx, cfg.MCP.SSEPort)
	} else {
		log.Printf("starting BrowserHive MCP stdio server")
		startErr = server.Start(ctx)
	}

	if startErr != nil && !errors.Is(startErr, context.Canceled) {
		log.Fatalf("server exited with error: %v", startErr)
	}
}
