package backend

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/osman-haider/SmartXBot/configs"
)

const defaultTimeout = 2 * time.Minute

// Client is a resty-based client for the reply service. Every call is a
// single attempt.
type Client struct {
	client *resty.Client
}

// NewClient creates a client for baseURL, falling back to the default
// service address.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = configs.DefaultBackendURL
	}

	client := resty.New()
	client.SetBaseURL(strings.TrimRight(baseURL, "/"))
	// Reply generation runs several model calls, so allow it time.
	client.SetTimeout(defaultTimeout)
	client.SetHeader("Content-Type", "application/json")

	return &Client{client: client}
}

// SetTimeout overrides the per-request timeout.
func (c *Client) SetTimeout(d time.Duration) *Client {
	c.client.SetTimeout(d)
	return c
}

func responseError(resp *resty.Response, op string) error {
	if e, ok := resp.Error().(*ErrorResponse); ok && e.Detail != "" {
		return errors.Errorf("%s: status %d: %s", op, resp.StatusCode(), e.Detail)
	}
	return errors.Errorf("%s: status %d", op, resp.StatusCode())
}

// Keywords fetches the keyword list. Any failure is logged and yields an
// empty list, which ends a run without work.
func (c *Client) Keywords(ctx context.Context) []string {
	var out KeywordsResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&ErrorResponse{}).
		Get("/keywords")
	if err != nil {
		logrus.Errorf("failed to fetch keywords: %v", err)
		return []string{}
	}
	if resp.IsError() {
		logrus.Errorf("failed to fetch keywords: %v", responseError(resp, "get keywords"))
		return []string{}
	}

	if out.Keywords == nil {
		return []string{}
	}
	return out.Keywords
}

// Decide asks the service what to do with a post.
func (c *Client) Decide(ctx context.Context, postID, text string) Decision {
	log := logrus.WithField("tweet_id", postID)

	var out TweetProcessResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(TweetProcessRequest{TweetID: postID, Tweet: text}).
		SetResult(&out).
		SetError(&ErrorResponse{}).
		Post("/tweet-process")
	if err != nil {
		log.Errorf("reply service unreachable: %v", err)
		return Decision{Kind: Unavailable}
	}
	if resp.IsError() {
		log.Errorf("reply service failed: %v", responseError(resp, "tweet process"))
		return Decision{Kind: Unavailable}
	}

	d := DecisionFromMessage(out.Message)
	log.Debugf("decision: %s", d.Kind)
	return d
}

// Prompts returns the stored prompts.
func (c *Client) Prompts(ctx context.Context) (*Prompts, error) {
	var out Prompts
	if err := c.get(ctx, "/prompts", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SavePrompts stores both prompts and returns what the service kept.
func (c *Client) SavePrompts(ctx context.Context, p Prompts) (*Prompts, error) {
	var out Prompts
	if err := c.post(ctx, "/prompts", p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// KeywordsConfig returns the stored keyword configuration.
func (c *Client) KeywordsConfig(ctx context.Context) (*KeywordsConfig, error) {
	var out KeywordsConfig
	if err := c.get(ctx, "/keywords-config", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SaveKeywordsConfig replaces the keyword configuration.
func (c *Client) SaveKeywordsConfig(ctx context.Context, cfg KeywordsConfig) (*KeywordsConfig, error) {
	var out KeywordsConfig
	if err := c.post(ctx, "/keywords-config", cfg, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetResult(out).
		SetError(&ErrorResponse{}).
		Get(path)
	if err != nil {
		return errors.Wrapf(err, "GET %s", path)
	}
	if resp.IsError() {
		return responseError(resp, fmt.Sprintf("GET %s", path))
	}
	return nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(out).
		SetError(&ErrorResponse{}).
		Post(path)
	if err != nil {
		return errors.Wrapf(err, "POST %s", path)
	}
	if resp.IsError() {
		return responseError(resp, fmt.Sprintf("POST %s", path))
	}
	return nil
}
