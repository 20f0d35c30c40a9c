package browser

import (
	"context"
	"sync"

	"github.com/go-rod/rod"
	"github.com/sirupsen/logrus"
	"github.com/xpzouying/headless_browser"
)

// Manager 浏览器实例管理器，确保同一时间只有一个自动化流程在使用浏览器
// Runs triggered by the MCP tool and by the scheduler queue up here.
type Manager struct {
	mu         sync.Mutex
	cond       *sync.Cond
	browser    *headless_browser.Browser
	headless   bool
	binPath    string
	cookiePath string
	inUse      bool
}

func NewManager(headless bool, binPath, cookiePath string) *Manager {
	m := &Manager{headless: headless, binPath: binPath, cookiePath: cookiePath}
	m.cond = sync.NewCond(&m.mu)
	return m
}

// CookiePath is where the managed browser's session is loaded from and
// saved to; empty means the default location.
func (m *Manager) CookiePath() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cookiePath
}

// AcquireBrowser blocks until the browser is free or ctx ends. The returned
// release must be called when done.
func (m *Manager) AcquireBrowser(ctx context.Context) (*headless_browser.Browser, func(), error) {
	// Wake waiters when ctx ends so they can give up.
	stop := context.AfterFunc(ctx, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.cond.Broadcast()
	})
	defer stop()

	m.mu.Lock()
	for m.inUse {
		if err := ctx.Err(); err != nil {
			m.mu.Unlock()
			return nil, nil, err
		}
		logrus.Info("browser busy, waiting for release")
		m.cond.Wait()
	}
	if err := ctx.Err(); err != nil {
		m.mu.Unlock()
		return nil, nil, err
	}

	if m.browser == nil {
		logrus.Info("launching browser")
		m.browser = NewBrowser(m.headless, WithBinPath(m.binPath), WithCookiesPath(m.cookiePath))
	}

	m.inUse = true
	b := m.browser
	m.mu.Unlock()

	var once sync.Once
	release := func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			m.inUse = false
			logrus.Debug("browser released")
			m.cond.Broadcast()
		})
	}
	return b, release, nil
}

// NewPageWithRelease acquires the browser and opens a configured page. The
// release closes the page and frees the browser.
func (m *Manager) NewPageWithRelease(ctx context.Context) (*rod.Page, func(), error) {
	b, releaseBrowser, err := m.AcquireBrowser(ctx)
	if err != nil {
		return nil, nil, err
	}

	page := b.NewPage()
	ConfigurePage(page)

	release := func() {
		if page != nil {
			page.Close()
		}
		releaseBrowser()
	}
	return page, release, nil
}

// CloseBrowser 关闭并清理浏览器实例
func (m *Manager) CloseBrowser() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.browser != nil {
		logrus.Info("closing browser")
		m.browser.Close()
		m.browser = nil
		m.inUse = false
	}
}
