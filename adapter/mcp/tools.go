// Package mcp maps the godlife CLI operations onto MCP tools, resources and
// prompts. Every tool acts for the owner bound to the App.
package mcp

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/nemodouble/godlife/adapter/cli"
)

// ToolDependencies is what the tool handlers close over.
type ToolDependencies struct {
	App *cli.App
}

type toolGroup struct {
	name     string
	register func(*mcp.Server, ToolDependencies) error
}

var toolGroups = []toolGroup{
	{"core", registerCoreTools},
	{"routine", registerRoutineTools},
	{"checkin", registerCheckinTools},
	{"report", registerReportTools},
	{"settings", registerSettingsTools},
	{"scheduler", registerSchedulerTools},
}

// RegisterCLITools registers every tool group on srv.
func RegisterCLITools(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return errors.New("mcp: server is required")
	}
	if deps.App == nil {
		return errors.New("mcp: app is required")
	}
	for _, g := range toolGroups {
		if err := g.register(srv, deps); err != nil {
			return fmt.Errorf("%s tools: %w", g.name, err)
		}
	}
	return nil
}
