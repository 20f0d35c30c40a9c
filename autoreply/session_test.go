package autoreply

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osman-haider/SmartXBot/twitter"
	"github.com/osman-haider/SmartXBot/twitter/twittertest"
)

func TestRunLoggedInNeedsSession(t *testing.T) {
	page := twittertest.NewPage(twittertest.Post{ID: "1", Text: "hello", Author: "a"})
	page.Missing[twitter.HomeIndicator] = true
	decider := &scriptedDecider{fallback: reply("hi")}

	stats, err := runLoggedIn(context.Background(), page, staticKeywords{"go"}, decider, &twittertest.Pacer{}, Options{MaxScrolls: 1})

	assert.Nil(t, stats)
	assert.Equal(t, ErrLoginRequired, errors.Cause(err))
	assert.Empty(t, page.Searches)
	assert.Empty(t, decider.calls)
}

func TestRunLoggedInChecksHomeFirst(t *testing.T) {
	page := twittertest.NewPage(twittertest.Post{ID: "1", Text: "hello", Author: "a"})
	decider := &scriptedDecider{fallback: reply("hi")}

	stats, err := runLoggedIn(context.Background(), page, staticKeywords{"go"}, decider, &twittertest.Pacer{}, Options{MaxScrolls: 1})
	require.NoError(t, err)

	require.NotEmpty(t, page.Events)
	assert.Equal(t, "navigate:"+twitter.HomeURL, page.Events[0])
	assert.Equal(t, []string{"go"}, page.Searches)
	assert.Equal(t, 1, stats.RepliesSent)
}

func TestWaitForLoginAlreadySignedIn(t *testing.T) {
	page := twittertest.NewPage()

	require.NoError(t, waitForLogin(context.Background(), page))
	assert.Empty(t, page.EventsWithPrefix("navigate:"+twitter.LoginURL))
}

func TestWaitForLoginGivesUpAtDeadline(t *testing.T) {
	page := twittertest.NewPage()
	page.Missing[twitter.HomeIndicator] = true

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := waitForLogin(ctx, page)
	require.Error(t, err)
	assert.Less(t, time.Since(start), time.Second)
	assert.Len(t, page.EventsWithPrefix("navigate:"+twitter.LoginURL), 1)
}
