package autoreply

import (
	"context"
	"time"

	"github.com/go-rod/rod"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/osman-haider/SmartXBot/browser"
	"github.com/osman-haider/SmartXBot/pacing"
	"github.com/osman-haider/SmartXBot/twitter"
)

// ErrLoginRequired is returned when the browser has no signed-in session.
var ErrLoginRequired = errors.New("not logged in to x.com, run the login command first")

// DefaultLoginTimeout bounds how long Login waits for the operator.
const DefaultLoginTimeout = 5 * time.Minute

// RunWithBrowser checks the session on a managed page, runs one pass and
// saves the refreshed cookies.
func RunWithBrowser(ctx context.Context, m *browser.Manager, keywords KeywordSource, decider Decider, policy pacing.Policy, opts Options) (*RunStats, error) {
	page, release, err := m.NewPageWithRelease(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "acquire browser")
	}
	defer release()

	stats, runErr := runLoggedIn(ctx, twitter.NewRodPage(page), keywords, decider, policy, opts)
	if stats == nil {
		return nil, runErr
	}

	if err := browser.SaveCookies(page, m.CookiePath()); err != nil {
		logrus.Warnf("failed to save cookies: %v", err)
	}
	return stats, runErr
}

// runLoggedIn runs one pass on page once it shows a signed-in session.
func runLoggedIn(ctx context.Context, page twitter.Page, keywords KeywordSource, decider Decider, policy pacing.Policy, opts Options) (*RunStats, error) {
	loggedIn, err := twitter.NewLogin(page).CheckLoginStatus(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "check login status")
	}
	if !loggedIn {
		return nil, ErrLoginRequired
	}

	return NewRunner(page, keywords, decider, policy, opts).Run(ctx)
}

// CheckLogin reports whether the managed browser is signed in.
func CheckLogin(ctx context.Context, m *browser.Manager) (bool, error) {
	page, release, err := m.NewPageWithRelease(ctx)
	if err != nil {
		return false, errors.Wrap(err, "acquire browser")
	}
	defer release()

	return twitter.NewLogin(twitter.NewRodPage(page)).CheckLoginStatus(ctx)
}

// Login waits on page for the operator to sign in by hand, then saves the
// session cookies to cookiePath. The page must belong to a visible browser.
func Login(ctx context.Context, page *rod.Page, cookiePath string, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultLoginTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := waitForLogin(ctx, twitter.NewRodPage(page)); err != nil {
		return err
	}

	if err := browser.SaveCookies(page, cookiePath); err != nil {
		return errors.Wrap(err, "save cookies")
	}
	logrus.Info("login cookies saved")
	return nil
}

func waitForLogin(ctx context.Context, page twitter.Page) error {
	loginAction := twitter.NewLogin(page)
	if ok, err := loginAction.CheckLoginStatus(ctx); err == nil && ok {
		logrus.Info("already logged in")
		return nil
	}
	if err := loginAction.Login(ctx); err != nil {
		return errors.Wrap(err, "login")
	}
	return nil
}
