package main

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/osman-haider/SmartXBot/autoreply"
	"github.com/osman-haider/SmartXBot/backend"
	"github.com/osman-haider/SmartXBot/browser"
	"github.com/osman-haider/SmartXBot/configs"
	"github.com/osman-haider/SmartXBot/pacing"
)

// BotService 自动回复业务逻辑，供 MCP 工具调用
type BotService struct {
	cfg     *configs.Config
	manager *browser.Manager
	client  *backend.Client
	policy  pacing.Policy
}

func NewBotService(cfg *configs.Config, manager *browser.Manager) *BotService {
	return &BotService{
		cfg:     cfg,
		manager: manager,
		client:  backend.NewClient(cfg.BackendURL),
		policy:  pacing.NewRandomized(nil),
	}
}

// CheckLoginStatus 检查 x.com 登录状态
func (s *BotService) CheckLoginStatus(ctx context.Context) (*LoginStatusResponse, error) {
	ok, err := autoreply.CheckLogin(ctx, s.manager)
	if err != nil {
		return nil, err
	}
	return &LoginStatusResponse{IsLoggedIn: ok, Handle: s.cfg.MyHandle}, nil
}

// RunAutoReply runs one pass with the stored keyword configuration, or with
// req.Keywords when given.
func (s *BotService) RunAutoReply(ctx context.Context, req *RunRequest) (*RunResponse, error) {
	opts := autoreply.OptionsFromConfig(s.cfg)
	opts.Keywords = req.Keywords
	opts.DryRun = req.DryRun

	// The date window lives next to the keywords in the stored config.
	if kc, err := s.client.KeywordsConfig(ctx); err == nil {
		opts.Window = kc.Window()
	} else {
		logrus.Warnf("failed to load keywords config, searching without date window: %v", err)
	}

	stats, err := autoreply.RunWithBrowser(ctx, s.manager, s.client, s.client, s.policy, opts)
	if err != nil {
		return nil, errors.Wrap(err, "auto reply")
	}
	return &RunResponse{Stats: stats, Summary: stats.String()}, nil
}

func (s *BotService) GetKeywordsConfig(ctx context.Context) (*backend.KeywordsConfig, error) {
	return s.client.KeywordsConfig(ctx)
}

func (s *BotService) SaveKeywordsConfig(ctx context.Context, cfg backend.KeywordsConfig) (*backend.KeywordsConfig, error) {
	return s.client.SaveKeywordsConfig(ctx, cfg)
}

func (s *BotService) GetPrompts(ctx context.Context) (*backend.Prompts, error) {
	return s.client.Prompts(ctx)
}

func (s *BotService) SavePrompts(ctx context.Context, p backend.Prompts) (*backend.Prompts, error) {
	return s.client.SavePrompts(ctx, p)
}
