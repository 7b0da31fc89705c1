package mcp

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/mcp-go"
)

// RegisterPrompts registers MCP prompts for common godlife workflows.
func RegisterPrompts(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return fmt.Errorf("server is required")
	}

	srv.Prompt("daily_checkin").
		Description("Walk through today's routines and record what was done or skipped.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return userPrompt("Daily Check-in", `Help me close out my day. Please:

1. Read the godlife://today resource to see my routines and their state
2. Ask me about each routine that is still open
3. Use checkin.toggle or checkin.record to mark them done or skipped

Remember that the day ends at 4 AM, so late-night checkins still count
for the previous date.`), nil
		})

	srv.Prompt("weekly_review").
		Description("Review the last week's achievement rates and streaks.").
		Handler(func(ctx context.Context, args map[string]string) (*mcp.PromptResult, error) {
			return userPrompt("Weekly Review", `Review my last week. Please:

1. Read the godlife://report/week resource
2. Point out routines with a low rate or a broken streak
3. Suggest whether to pause, reschedule or drop any of them using the
   routine.* tools

Keep it short and encouraging.`), nil
		})

	return nil
}

func userPrompt(description, text string) *mcp.PromptResult {
	return &mcp.PromptResult{
		Description: description,
		Messages: []mcp.PromptMessage{
			{
				Role: string(mcp.RoleUser),
				Content: mcp.TextContent{
					Type: "text",
					Text: text,
				},
			},
		},
	}
}
