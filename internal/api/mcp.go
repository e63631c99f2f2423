package api

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/GeorgeMakridis/humaine-chatbot/internal/llm"
	"github.com/GeorgeMakridis/humaine-chatbot/internal/profile"
)

// NewMCPServer creates an MCP server exposing the personalization layer to
// agent hosts. Tools mirror the REST operations; the service owns profile
// state either way.
func NewMCPServer(deps AppDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"humaine",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("humaine — per-user personalization for chat assistants: profiles, cross-session insights, and personalized generation."),
		server.WithRecovery(),
	)

	// Tools
	s.AddTool(
		mcp.NewTool("get_profile",
			mcp.WithDescription("Fetch the personalization profile for a user, creating a default one if unknown."),
			mcp.WithString("user_id", mcp.Description("User identifier"), mcp.Required()),
		),
		mcpGetProfile(deps),
	)

	s.AddTool(
		mcp.NewTool("get_insights",
			mcp.WithDescription("Derive cross-session insights and recommendations from a user's history."),
			mcp.WithString("user_id", mcp.Description("User identifier"), mcp.Required()),
		),
		mcpGetInsights(deps),
	)

	s.AddTool(
		mcp.NewTool("personalized_chat",
			mcp.WithDescription("Send a message through the personalization pipeline and return the generated response."),
			mcp.WithString("user_id", mcp.Description("User identifier"), mcp.Required()),
			mcp.WithString("message", mcp.Description("The user message"), mcp.Required()),
			mcp.WithString("session_id", mcp.Description("Optional session identifier")),
			mcp.WithString("domain", mcp.Description("Optional domain context (finance, healthcare, education, technology)")),
		),
		mcpPersonalizedChat(deps),
	)

	// Resources
	s.AddResource(
		mcp.NewResource(
			"users://profiles",
			"Known Profiles",
			mcp.WithResourceDescription("Summaries of all loaded user profiles"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceProfiles(deps),
	)

	return s
}

func mcpGetProfile(deps AppDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		userID, err := req.RequireString("user_id")
		if err != nil {
			return mcpError("user_id is required"), nil
		}

		p := deps.Profiles.GetOrCreate(userID)
		b, err := json.Marshal(p)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal profile: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpGetInsights(deps AppDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		userID, err := req.RequireString("user_id")
		if err != nil {
			return mcpError("user_id is required"), nil
		}

		p, ok := deps.Profiles.Get(userID)
		if !ok {
			return mcpError(fmt.Sprintf("no profile for user %s", userID)), nil
		}

		b, err := json.Marshal(deps.Learner.Analyze(&p))
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal insights: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpPersonalizedChat(deps AppDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		userID, err := req.RequireString("user_id")
		if err != nil {
			return mcpError("user_id is required"), nil
		}
		message, err := req.RequireString("message")
		if err != nil {
			return mcpError("message is required"), nil
		}

		updated := deps.Updater.ApplyMessage(profile.MessageEvent{
			UserID:    userID,
			SessionID: req.GetString("session_id", ""),
			Text:      message,
		})
		deps.Metrics.RecordMessage(userID, req.GetString("session_id", ""), utf8.RuneCountInString(message))

		params := updated.Params()
		if domain := req.GetString("domain", ""); domain != "" {
			params.Domain = domain
		}
		enriched := deps.Prompts.Enrich(message, params)

		response, err := deps.LLM.Generate(ctx, enriched, llm.DeriveModelParams(params))
		if err != nil {
			return mcpError(fmt.Sprintf("generation failed: %v", err)), nil
		}
		deps.Metrics.RecordResponse(userID)

		return mcpText(response), nil
	}
}

func mcpResourceProfiles(deps AppDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		type profileSummary struct {
			UserID        string `json:"user_id"`
			TotalSessions int    `json:"total_sessions"`
			DetailLevel   string `json:"detail_level"`
			ResponseStyle string `json:"response_style"`
			UpdatedAt     string `json:"updated_at"`
		}

		ids := deps.Profiles.UserIDs()
		summaries := make([]profileSummary, 0, len(ids))
		for _, id := range ids {
			p, ok := deps.Profiles.Get(id)
			if !ok {
				continue
			}
			summaries = append(summaries, profileSummary{
				UserID:        p.UserID,
				TotalSessions: p.TotalSessions,
				DetailLevel:   string(p.PreferredDetailLevel),
				ResponseStyle: string(p.PreferredResponseStyle),
				UpdatedAt:     p.UpdatedAt.Format(time.RFC3339),
			})
		}

		b, err := json.Marshal(summaries)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal profile summaries: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
