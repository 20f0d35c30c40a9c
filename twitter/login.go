package twitter

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	LoginURL = "https://x.com/login"

	loginPollInterval = 2 * time.Second
	homeSettle        = time.Second
)

// LoginAction checks and waits for an authenticated X session.
type LoginAction struct {
	page Page
}

func NewLogin(page Page) *LoginAction {
	return &LoginAction{page: page}
}

// CheckLoginStatus 打开首页，检查是否存在发帖按钮
func (a *LoginAction) CheckLoginStatus(ctx context.Context) (bool, error) {
	if err := a.page.Navigate(ctx, HomeURL); err != nil {
		return false, errors.Wrap(err, "navigate home")
	}
	if err := sleepCtx(ctx, homeSettle); err != nil {
		return false, err
	}

	return a.isLoggedIn(ctx)
}

func (a *LoginAction) isLoggedIn(ctx context.Context) (bool, error) {
	_, err := a.page.Find(ctx, HomeIndicator)
	if err == nil {
		return true, nil
	}
	if IsNotFound(err) {
		return false, nil
	}
	return false, errors.Wrap(err, "check home indicator")
}

// WaitForLogin polls until the compose button appears, which only happens
// for a logged-in session, or ctx ends.
func (a *LoginAction) WaitForLogin(ctx context.Context) bool {
	ticker := time.NewTicker(loginPollInterval)
	defer ticker.Stop()

	for {
		if ctx.Err() != nil {
			return false
		}
		ok, err := a.isLoggedIn(ctx)
		if err != nil {
			logrus.Debugf("login check failed: %v", err)
		} else if ok {
			return true
		}

		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}
	}
}

// Login opens the login page and waits for the user to finish signing in.
func (a *LoginAction) Login(ctx context.Context) error {
	if err := a.page.Navigate(ctx, LoginURL); err != nil {
		return errors.Wrap(err, "navigate login")
	}

	logrus.Info("waiting for login in the browser window")
	if !a.WaitForLogin(ctx) {
		return errors.New("login not completed")
	}
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
