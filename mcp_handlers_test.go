package main

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osman-haider/SmartXBot/backend"
	"github.com/osman-haider/SmartXBot/browser"
	"github.com/osman-haider/SmartXBot/configs"
	"github.com/osman-haider/SmartXBot/server"
	"github.com/osman-haider/SmartXBot/store"
)

type noopGenerator struct{}

func (noopGenerator) Generate(context.Context, string, backend.Prompts) (string, error) {
	return "ok", nil
}

// newTestAppServer wires the MCP handlers to a real reply service served
// from httptest.
func newTestAppServer(t *testing.T) *AppServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	backendServer := server.New(st, noopGenerator{}, "")
	ts := httptest.NewServer(backendServer.Router())
	t.Cleanup(ts.Close)

	cfg := configs.Default()
	cfg.BackendURL = ts.URL
	manager := browser.NewManager(true, "", filepath.Join(t.TempDir(), "cookies.json"))

	return NewAppServer(NewBotService(cfg, manager), backendServer)
}

func resultText(t *testing.T, r *MCPToolResult) string {
	t.Helper()
	require.Len(t, r.Content, 1)
	return r.Content[0].Text
}

func TestConvertToMCPResult(t *testing.T) {
	res := convertToMCPResult(errorResult("boom"))
	assert.True(t, res.IsError)
	require.Len(t, res.Content, 1)

	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Equal(t, "boom", text.Text)
}

func TestKeywordsConfigTools(t *testing.T) {
	app := newTestAppServer(t)
	ctx := context.Background()

	res := app.handleSaveKeywordsConfig(ctx, SaveKeywordsConfigArgs{})
	assert.True(t, res.IsError)

	res = app.handleSaveKeywordsConfig(ctx, SaveKeywordsConfigArgs{Keywords: []string{"golang"}, SinceDate: "bad"})
	assert.True(t, res.IsError)
	assert.Contains(t, resultText(t, res), "since_date must be YYYY-MM-DD")

	res = app.handleSaveKeywordsConfig(ctx, SaveKeywordsConfigArgs{Keywords: []string{"golang", "rust"}, UntilDate: "2025-01-01"})
	require.False(t, res.IsError, resultText(t, res))

	res = app.handleGetKeywordsConfig(ctx)
	require.False(t, res.IsError, resultText(t, res))

	var cfg backend.KeywordsConfig
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &cfg))
	assert.Equal(t, backend.KeywordsConfig{Keywords: []string{"golang", "rust"}, UntilDate: "2025-01-01"}, cfg)
}

func TestPromptsTools(t *testing.T) {
	app := newTestAppServer(t)
	ctx := context.Background()

	res := app.handleSavePrompts(ctx, SavePromptsArgs{HiringPrompt: "h"})
	assert.True(t, res.IsError)

	res = app.handleSavePrompts(ctx, SavePromptsArgs{HiringPrompt: "h", NormalPrompt: "n"})
	require.False(t, res.IsError, resultText(t, res))

	res = app.handleGetPrompts(ctx)
	require.False(t, res.IsError)

	var p backend.Prompts
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &p))
	assert.Equal(t, backend.Prompts{HiringPrompt: "h", NormalPrompt: "n"}, p)
}
