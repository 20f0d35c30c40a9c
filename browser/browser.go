package browser

import (
	"encoding/json"
	"runtime"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/xpzouying/headless_browser"

	"github.com/osman-haider/SmartXBot/cookies"
)

type browserConfig struct {
	binPath    string
	cookiePath string
}

type Option func(*browserConfig)

func WithBinPath(binPath string) Option {
	return func(c *browserConfig) {
		c.binPath = binPath
	}
}

// WithCookiesPath 指定新浏览器实例启动时要使用的 cookies 文件路径。
func WithCookiesPath(path string) Option {
	return func(c *browserConfig) {
		c.cookiePath = path
	}
}

// NewBrowser launches a stealth browser with the saved x.com session, if any.
func NewBrowser(headless bool, options ...Option) *headless_browser.Browser {
	cfg := &browserConfig{}
	for _, opt := range options {
		opt(cfg)
	}

	opts := []headless_browser.Option{
		headless_browser.WithHeadless(headless),
	}
	if cfg.binPath != "" {
		opts = append(opts, headless_browser.WithChromeBinPath(cfg.binPath))
	}

	cookiePath := cfg.cookiePath
	if cookiePath == "" {
		cookiePath = cookies.GetCookiesFilePath()
	}
	cookieLoader := cookies.NewLoadCookie(cookiePath)

	if data, err := cookieLoader.LoadCookies(); err == nil {
		opts = append(opts, headless_browser.WithCookies(string(data)))
		logrus.WithField("cookies_path", cookiePath).Debug("loaded cookies from file successfully")
	} else {
		logrus.WithField("cookies_path", cookiePath).Warnf("failed to load cookies: %v", err)
	}

	return headless_browser.New(opts...)
}

// SaveCookies writes the browser's current cookies to path so the next
// launch starts signed in.
func SaveCookies(page *rod.Page, path string) error {
	cks, err := page.Browser().GetCookies()
	if err != nil {
		return errors.Wrap(err, "get cookies")
	}

	data, err := json.Marshal(cks)
	if err != nil {
		return errors.Wrap(err, "marshal cookies")
	}

	if path == "" {
		path = cookies.GetCookiesFilePath()
	}
	return cookies.NewLoadCookie(path).SaveCookies(data)
}

// ConfigurePage 配置页面：Windows 下修正 UA，并固定桌面视口
// x.com 在窄视口下切换为移动布局，选择器会全部失效。
func ConfigurePage(page *rod.Page) {
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             1280,
		Height:            900,
		DeviceScaleFactor: 1,
	}); err != nil {
		logrus.Warnf("failed to set viewport: %v", err)
	}

	// stealth 默认把 UA 伪装成 Mac Chrome，Windows 下平台信息会不一致
	if runtime.GOOS != "windows" {
		return
	}

	ua := "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	_ = page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent: ua,
		Platform:  "Windows",
	})

	_, err := page.EvalOnNewDocument(`
		Object.defineProperty(navigator, 'platform', { get: () => 'Win32' });
		Object.defineProperty(navigator, 'userAgent', { get: () => '` + ua + `' });
	`)
	if err != nil {
		logrus.Warnf("failed to set user agent script: %v", err)
	}
}
