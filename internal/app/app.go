// Package app wires configuration, connectors, the tool registry and the HTTP and
// MCP handlers into one application.
package app

import (
	"fmt"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/atlassian-mcp/internal/atlassian"
	"github.com/bobmcallan/atlassian-mcp/internal/common"
	"github.com/bobmcallan/atlassian-mcp/internal/config"
	"github.com/bobmcallan/atlassian-mcp/internal/dispatch"
	"github.com/bobmcallan/atlassian-mcp/internal/handlers"
	"github.com/bobmcallan/atlassian-mcp/internal/mcp"
	"github.com/bobmcallan/atlassian-mcp/internal/registry"
	"github.com/bobmcallan/atlassian-mcp/internal/toolset"
)

// App holds all application components and dependencies.
type App struct {
	Config *config.Config
	Logger *common.Logger

	Atlassian  *atlassian.Client
	Registry   *registry.Registry
	Dispatcher *dispatch.Dispatcher
	MCPServer  *mcpserver.MCPServer

	// HTTP handlers
	HealthHandler  *handlers.HealthHandler
	VersionHandler *handlers.VersionHandler
	ToolsHandler   *handlers.ToolsHandler
	InvokeHandler  *handlers.InvokeHandler
	MCPHandler     *mcp.Handler
}

// New initializes the application with all dependencies.
// It fails if the tool catalog is malformed or any tool lacks a handler.
func New(cfg *config.Config, logger *common.Logger) (*App, error) {
	a := &App{
		Config:    cfg,
		Logger:    logger,
		Atlassian: atlassian.NewClient(cfg.Atlassian, logger),
	}

	reg, err := registry.New(toolset.Descriptors()...)
	if err != nil {
		return nil, fmt.Errorf("invalid tool catalog: %w", err)
	}
	a.Registry = reg

	a.Dispatcher = dispatch.New(reg, logger)
	if err := toolset.Bind(a.Dispatcher, a.Atlassian); err != nil {
		return nil, fmt.Errorf("failed to bind tools: %w", err)
	}

	a.MCPServer = mcp.NewServer(a.Dispatcher, cfg.Server.Name, config.GetVersion())
	a.initHandlers()

	logger.Info().
		Int("tools", reg.Len()).
		Str("atlassian_url", a.Atlassian.BaseURL()).
		Msg("application initialization complete")

	return a, nil
}

// initHandlers creates all HTTP handlers.
func (a *App) initHandlers() {
	a.HealthHandler = handlers.NewHealthHandler(a.Config.Server.Name, a.Logger)
	a.VersionHandler = handlers.NewVersionHandler(a.Logger)
	a.ToolsHandler = handlers.NewToolsHandler(a.Registry, a.Logger)
	a.InvokeHandler = handlers.NewInvokeHandler(a.Dispatcher, a.Logger)
	a.MCPHandler = mcp.NewHandler(a.MCPServer, a.Logger)
}
