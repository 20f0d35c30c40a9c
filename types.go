package main

import "github.com/osman-haider/SmartXBot/autoreply"

// MCPContent MCP 内容
type MCPContent struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

// MCPToolResult MCP 工具结果
type MCPToolResult struct {
	Content []MCPContent `json:"content"`
	IsError bool         `json:"isError,omitempty"`
}

func textResult(text string) *MCPToolResult {
	return &MCPToolResult{Content: []MCPContent{{Type: "text", Text: text}}}
}

func errorResult(text string) *MCPToolResult {
	return &MCPToolResult{Content: []MCPContent{{Type: "text", Text: text}}, IsError: true}
}

// LoginStatusResponse 登录状态响应
type LoginStatusResponse struct {
	IsLoggedIn bool   `json:"is_logged_in"`
	Handle     string `json:"handle,omitempty"`
}

// RunRequest asks for one auto-reply pass.
type RunRequest struct {
	Keywords []string `json:"keywords,omitempty"`
	DryRun   bool     `json:"dry_run,omitempty"`
}

// RunResponse reports a finished pass.
type RunResponse struct {
	Stats   *autoreply.RunStats `json:"stats"`
	Summary string              `json:"summary"`
}
