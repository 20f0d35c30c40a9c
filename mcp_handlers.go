package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/osman-haider/SmartXBot/autoreply"
	"github.com/osman-haider/SmartXBot/backend"
)

// MCP 工具处理函数

func jsonResult(prefix string, v any) *MCPToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult(fmt.Sprintf("%s, but serialization failed: %v", prefix, err))
	}
	return textResult(string(data))
}

// handleCheckLoginStatus 处理检查登录状态
func (s *AppServer) handleCheckLoginStatus(ctx context.Context) *MCPToolResult {
	logrus.Info("MCP: check login status")

	status, err := s.botService.CheckLoginStatus(ctx)
	if err != nil {
		return errorResult("failed to check login status: " + err.Error())
	}

	if !status.IsLoggedIn {
		return textResult("not logged in to x.com; run `autoreply login` on a machine with a display first")
	}
	return textResult(fmt.Sprintf("logged in to x.com: %+v", status))
}

// handleRunAutoReply 执行一次完整的关键词回复流程
func (s *AppServer) handleRunAutoReply(ctx context.Context, args RunAutoReplyArgs) *MCPToolResult {
	logrus.Infof("MCP: run auto reply - keywords: %d, dry run: %v", len(args.Keywords), args.DryRun)

	resp, err := s.botService.RunAutoReply(ctx, &RunRequest{
		Keywords: args.Keywords,
		DryRun:   args.DryRun,
	})
	if err != nil {
		if errors.Cause(err) == autoreply.ErrLoginRequired {
			return errorResult("auto reply not started: " + err.Error())
		}
		return errorResult("auto reply failed: " + err.Error())
	}
	return jsonResult("auto reply finished", resp)
}

func (s *AppServer) handleGetKeywordsConfig(ctx context.Context) *MCPToolResult {
	logrus.Info("MCP: get keywords config")

	cfg, err := s.botService.GetKeywordsConfig(ctx)
	if err != nil {
		return errorResult("failed to get keywords config: " + err.Error())
	}
	return jsonResult("keywords config loaded", cfg)
}

func (s *AppServer) handleSaveKeywordsConfig(ctx context.Context, args SaveKeywordsConfigArgs) *MCPToolResult {
	logrus.Infof("MCP: save keywords config - %d keywords", len(args.Keywords))

	if len(args.Keywords) == 0 {
		return errorResult("failed to save keywords config: keywords is required")
	}

	cfg, err := s.botService.SaveKeywordsConfig(ctx, backend.KeywordsConfig{
		Keywords:  args.Keywords,
		SinceDate: strings.TrimSpace(args.SinceDate),
		UntilDate: strings.TrimSpace(args.UntilDate),
	})
	if err != nil {
		return errorResult("failed to save keywords config: " + err.Error())
	}
	return jsonResult("keywords config saved", cfg)
}

func (s *AppServer) handleGetPrompts(ctx context.Context) *MCPToolResult {
	logrus.Info("MCP: get prompts")

	p, err := s.botService.GetPrompts(ctx)
	if err != nil {
		return errorResult("failed to get prompts: " + err.Error())
	}
	return jsonResult("prompts loaded", p)
}

func (s *AppServer) handleSavePrompts(ctx context.Context, args SavePromptsArgs) *MCPToolResult {
	logrus.Info("MCP: save prompts")

	p, err := s.botService.SavePrompts(ctx, backend.Prompts{
		HiringPrompt: args.HiringPrompt,
		NormalPrompt: args.NormalPrompt,
	})
	if err != nil {
		return errorResult("failed to save prompts: " + err.Error())
	}
	return jsonResult("prompts saved", p)
}
