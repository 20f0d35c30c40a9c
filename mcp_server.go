package main

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/sirupsen/logrus"
)

// MCP 工具参数

type RunAutoReplyArgs struct {
	Keywords []string `json:"keywords,omitempty" jsonschema:"keywords to search instead of the stored list"`
	DryRun   bool     `json:"dry_run,omitempty" jsonschema:"decide replies but never type or submit them"`
}

type SaveKeywordsConfigArgs struct {
	Keywords  []string `json:"keywords" jsonschema:"search keywords, processed in order"`
	SinceDate string   `json:"since_date,omitempty" jsonschema:"only posts on or after this date (YYYY-MM-DD)"`
	UntilDate string   `json:"until_date,omitempty" jsonschema:"only posts before this date (YYYY-MM-DD)"`
}

type SavePromptsArgs struct {
	HiringPrompt string `json:"hiring_prompt" jsonschema:"system prompt for replies to hiring posts"`
	NormalPrompt string `json:"normal_prompt" jsonschema:"system prompt for casual replies"`
}

// InitMCPServer 创建 MCP 服务器并注册全部工具
func InitMCPServer(appServer *AppServer) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "smartxbot",
		Version: "1.0.0",
	}, nil)

	registerTools(server, appServer)
	logrus.Info("MCP server initialized")
	return server
}

// withPanicRecovery turns a handler panic into an error result so one bad
// tool call does not take the server down.
func withPanicRecovery[In any](name string, h mcp.ToolHandlerFor[In, any]) mcp.ToolHandlerFor[In, any] {
	return func(ctx context.Context, req *mcp.CallToolRequest, in In) (result *mcp.CallToolResult, out any, err error) {
		defer func() {
			if r := recover(); r != nil {
				logrus.Errorf("MCP tool %s panicked: %v", name, r)
				result = convertToMCPResult(errorResult(fmt.Sprintf("tool %s failed: %v", name, r)))
				out, err = nil, nil
			}
		}()
		return h(ctx, req, in)
	}
}

func registerTools(server *mcp.Server, appServer *AppServer) {
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "check_login_status",
			Description: "检查 x.com 登录状态",
		},
		withPanicRecovery("check_login_status", func(ctx context.Context, req *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
			return convertToMCPResult(appServer.handleCheckLoginStatus(ctx)), nil, nil
		}),
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "run_auto_reply",
			Description: "Search every keyword on x.com and reply to new matching posts. Blocks until the pass ends.",
		},
		withPanicRecovery("run_auto_reply", func(ctx context.Context, req *mcp.CallToolRequest, args RunAutoReplyArgs) (*mcp.CallToolResult, any, error) {
			return convertToMCPResult(appServer.handleRunAutoReply(ctx, args)), nil, nil
		}),
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "get_keywords_config",
			Description: "Get the stored keyword list and date window",
		},
		withPanicRecovery("get_keywords_config", func(ctx context.Context, req *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
			return convertToMCPResult(appServer.handleGetKeywordsConfig(ctx)), nil, nil
		}),
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "save_keywords_config",
			Description: "Replace the stored keyword list and date window",
		},
		withPanicRecovery("save_keywords_config", func(ctx context.Context, req *mcp.CallToolRequest, args SaveKeywordsConfigArgs) (*mcp.CallToolResult, any, error) {
			return convertToMCPResult(appServer.handleSaveKeywordsConfig(ctx, args)), nil, nil
		}),
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "get_prompts",
			Description: "Get the stored reply prompts",
		},
		withPanicRecovery("get_prompts", func(ctx context.Context, req *mcp.CallToolRequest, _ struct{}) (*mcp.CallToolResult, any, error) {
			return convertToMCPResult(appServer.handleGetPrompts(ctx)), nil, nil
		}),
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "save_prompts",
			Description: "Store the hiring and normal reply prompts",
		},
		withPanicRecovery("save_prompts", func(ctx context.Context, req *mcp.CallToolRequest, args SavePromptsArgs) (*mcp.CallToolResult, any, error) {
			return convertToMCPResult(appServer.handleSavePrompts(ctx, args)), nil, nil
		}),
	)

	logrus.Infof("registered %d MCP tools", 6)
}

// convertToMCPResult 将自定义的 MCPToolResult 转换为官方 SDK 的格式
func convertToMCPResult(result *MCPToolResult) *mcp.CallToolResult {
	var contents []mcp.Content
	for _, c := range result.Content {
		if c.Type == "text" {
			contents = append(contents, &mcp.TextContent{Text: c.Text})
		}
	}
	return &mcp.CallToolResult{
		Content: contents,
		IsError: result.IsError,
	}
}
