package twitter

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/osman-haider/SmartXBot/configs"
	"github.com/osman-haider/SmartXBot/pacing"
)

// FeedScanner scrolls the result list so the page materializes posts.
type FeedScanner struct {
	page        Page
	pacing      pacing.Policy
	maxAttempts int
	step        int
}

func NewFeedScanner(page Page, policy pacing.Policy, maxAttempts, step int) *FeedScanner {
	if maxAttempts <= 0 {
		maxAttempts = configs.DefaultMaxScrolls
	}
	if step <= 0 {
		step = configs.DefaultScrollStep
	}
	return &FeedScanner{page: page, pacing: policy, maxAttempts: maxAttempts, step: step}
}

// ScrollToLoad keeps scrolling until minCount distinct post texts have been
// rendered or the attempt cap is hit. It is best effort and returns how many
// distinct texts it saw.
func (f *FeedScanner) ScrollToLoad(ctx context.Context, minCount int) int {
	seen := make(map[string]struct{})

	for attempt := 0; len(seen) < minCount && attempt < f.maxAttempts; attempt++ {
		cards, err := f.page.FindAll(ctx, PostCard)
		if err != nil {
			logrus.Warnf("failed to list posts: %v", err)
		}
		for _, card := range cards {
			text, err := card.Text()
			if err != nil {
				continue
			}
			seen[text] = struct{}{}
		}

		if err := f.page.ScrollBy(ctx, f.step); err != nil {
			logrus.Warnf("scroll failed: %v", err)
		}
		if err := pacing.Wait(ctx, f.pacing, pacing.ScanSettle); err != nil {
			break
		}
	}

	logrus.Infof("loaded %d posts", len(seen))
	return len(seen)
}
