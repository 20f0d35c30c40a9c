package twitter

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/osman-haider/SmartXBot/pacing"
)

// Post is what one scan tick learns about a post. Nothing keeps it after the
// tick ends.
type Post struct {
	ID           string `json:"id"`
	Text         string `json:"text"`
	AuthorHandle string `json:"author_handle"`
}

// ParseStatusID 从帖子 URL 中提取 ID
// URL 格式: https://x.com/someone/status/1790000000000000000?s=20
func ParseStatusID(rawURL string) string {
	parts := strings.SplitN(rawURL, "/status/", 2)
	if len(parts) < 2 {
		return ""
	}

	id := parts[1]
	if idx := strings.IndexAny(id, "?#/"); idx >= 0 {
		id = id[:idx]
	}
	return id
}

// NormalizeHandle strips the leading @ and folds case so handles compare
// the way X treats them.
func NormalizeHandle(handle string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(handle), "@"))
}

// SameHandle reports whether two handles name the same account. An empty
// handle never matches.
func SameHandle(a, b string) bool {
	na, nb := NormalizeHandle(a), NormalizeHandle(b)
	return na != "" && na == nb
}

// Navigator opens posts from the result list and returns to it.
type Navigator struct {
	page   Page
	pacing pacing.Policy
}

func NewNavigator(page Page, policy pacing.Policy) *Navigator {
	return &Navigator{page: page, pacing: policy}
}

// OpenPost clicks the post body and waits for the detail view to settle.
func (n *Navigator) OpenPost(ctx context.Context, body Element) error {
	if err := body.Click(); err != nil {
		return err
	}
	return pacing.Wait(ctx, n.pacing, pacing.NavigationSettle)
}

// PostID reads the id of the currently open post from the address bar.
func (n *Navigator) PostID(ctx context.Context) string {
	loc, err := n.page.Location(ctx)
	if err != nil {
		logrus.Warnf("failed to read location: %v", err)
		return ""
	}
	return ParseStatusID(loc)
}

// AuthorHandle reads the handle of the open post's author from the first
// profile link of the focal post card.
func (n *Navigator) AuthorHandle(ctx context.Context) string {
	if link, err := n.page.Find(ctx, AuthorLink); err == nil {
		if href, err := link.Attribute("href"); err == nil && href != "" {
			return NormalizeHandle(strings.Trim(href, "/"))
		}
	}

	link, err := n.page.Find(ctx, AuthorLinkFallback)
	if err != nil {
		return ""
	}
	span, err := link.Find("span")
	if err != nil {
		return ""
	}
	text, err := span.Text()
	if err != nil {
		return ""
	}
	return NormalizeHandle(text)
}

// Back clicks the app-bar back control, when present, and waits for the
// list to settle. It reports whether the control was found.
func (n *Navigator) Back(ctx context.Context) bool {
	found := false
	if btn, err := n.page.Find(ctx, BackButton); err == nil {
		if err := btn.Click(); err != nil {
			logrus.Warnf("failed to click back: %v", err)
		} else {
			found = true
		}
	} else {
		logrus.Debug("back button not found")
	}

	_ = pacing.Wait(ctx, n.pacing, pacing.NavigationSettle)
	return found
}
