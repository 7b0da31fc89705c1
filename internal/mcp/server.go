// Package mcp exposes the godlife tools over the Model Context Protocol.
package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	mcpgo "github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/mcp-go/middleware"

	"github.com/nemodouble/godlife/adapter/cli"
	"github.com/nemodouble/godlife/adapter/mcp"
	"github.com/nemodouble/godlife/internal/app"
	"github.com/nemodouble/godlife/pkg/config"
)

// ServerName is reported in the MCP handshake.
const ServerName = "godlife-mcp"

var (
	errNoConfig = errors.New("mcp: config is required")
	errNoApp    = errors.New("mcp: app is required")
	errNoOwner  = errors.New("mcp: an owner is required, set GODLIFE_OWNER_ID")
)

// NewCLIApp binds the container to ownerID. Every tool call acts for that owner.
func NewCLIApp(container *app.Container, ownerID string) *cli.App {
	a := cli.NewApp(container)
	if ownerID != "" {
		a.SetOwnerID(ownerID)
	}
	return a
}

// NewServer registers the routine, checkin, report and scheduler tools plus
// the resources and prompts. Tools are required; resources and prompts are
// logged and skipped when they fail to register.
func NewServer(a *cli.App, logger *slog.Logger) (*mcpgo.Server, error) {
	if a == nil {
		return nil, errNoApp
	}
	if a.OwnerID == "" {
		return nil, errNoOwner
	}
	if logger == nil {
		logger = slog.Default()
	}

	srv := mcpgo.NewServer(mcpgo.ServerInfo{
		Name:    ServerName,
		Version: cli.Version,
		Capabilities: mcpgo.Capabilities{
			Tools:     true,
			Resources: true,
			Prompts:   true,
		},
	})

	deps := mcp.ToolDependencies{App: a}
	if err := mcp.RegisterCLITools(srv, deps); err != nil {
		return nil, fmt.Errorf("mcp: register tools: %w", err)
	}
	if err := mcp.RegisterResources(srv, deps); err != nil {
		logger.Warn("mcp resources unavailable", "error", err)
	}
	if err := mcp.RegisterPrompts(srv, deps); err != nil {
		logger.Warn("mcp prompts unavailable", "error", err)
	}
	return srv, nil
}

// Serve listens on cfg.MCPAddr until ctx is canceled. With MCP_AUTH_TOKEN set,
// requests must carry it as a bearer token; the token maps to the bound owner.
func Serve(ctx context.Context, cfg *config.Config, a *cli.App, logger *slog.Logger) error {
	if cfg == nil {
		return errNoConfig
	}
	if logger == nil {
		logger = slog.Default()
	}
	srv, err := NewServer(a, logger)
	if err != nil {
		return err
	}

	log := slogAdapter{logger: logger.With("component", "mcp")}
	stack := middleware.DefaultStack(log)
	if cfg.MCPAuthToken != "" {
		tokens := middleware.StaticTokens(map[string]*middleware.Identity{
			cfg.MCPAuthToken: {ID: a.OwnerID, Name: a.OwnerID},
		})
		auth := middleware.Auth(middleware.BearerTokenAuthenticator(tokens), middleware.WithAuthLogger(log))
		stack = append([]middleware.Middleware{auth}, stack...)
	} else {
		logger.Warn("MCP_AUTH_TOKEN is empty, the server accepts unauthenticated requests", "addr", cfg.MCPAddr)
	}

	logger.Info("mcp server listening", "addr", cfg.MCPAddr, "owner_id", a.OwnerID)
	return mcpgo.ServeHTTPWithMiddleware(ctx, srv, cfg.MCPAddr, nil, mcpgo.WithMiddleware(stack...))
}

// slogAdapter satisfies the middleware logger with slog.
type slogAdapter struct {
	logger *slog.Logger
}

func (l slogAdapter) Debug(msg string, fields ...middleware.Field) {
	l.logger.Debug(msg, fieldArgs(fields)...)
}
func (l slogAdapter) Info(msg string, fields ...middleware.Field) {
	l.logger.Info(msg, fieldArgs(fields)...)
}
func (l slogAdapter) Warn(msg string, fields ...middleware.Field) {
	l.logger.Warn(msg, fieldArgs(fields)...)
}
func (l slogAdapter) Error(msg string, fields ...middleware.Field) {
	l.logger.Error(msg, fieldArgs(fields)...)
}

func fieldArgs(fields []middleware.Field) []any {
	args := make([]any, 0, 2*len(fields))
	for _, f := range fields {
		args = append(args, f.Key, f.Value)
	}
	return args
}
