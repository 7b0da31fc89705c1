// Package mcp holds the "godlife mcp" command group.
package mcp

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/nemodouble/godlife/adapter/cli"
	"github.com/nemodouble/godlife/internal/app"
	mcpserver "github.com/nemodouble/godlife/internal/mcp"
)

var serveAddr string

// Cmd is the MCP command group.
var Cmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run godlife as an MCP tool server",
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve routine, checkin and report tools over MCP",
	Long: `Serve the godlife tools for the configured owner over streamable HTTP.

The server listens on MCP_ADDR unless --addr is given. Set MCP_AUTH_TOKEN
to require a bearer token.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := cli.RequireApp()
		if err != nil {
			return err
		}
		cfg := cli.GetConfig()
		if cfg == nil {
			return cli.ErrNotConfigured
		}
		if serveAddr != "" {
			copied := *cfg
			copied.MCPAddr = serveAddr
			cfg = &copied
		}

		logger := app.NewLogger(cfg, cmd.ErrOrStderr(), cli.Version)
		err = mcpserver.Serve(cmd.Context(), cfg, a, logger)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides MCP_ADDR)")
	Cmd.AddCommand(serveCmd)
}
