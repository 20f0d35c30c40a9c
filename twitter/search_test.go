package twitter_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/osman-haider/SmartXBot/twitter"
	"github.com/osman-haider/SmartXBot/twitter/twittertest"
)

func TestDateWindowQuery(t *testing.T) {
	tests := []struct {
		name     string
		window   twitter.DateWindow
		expected string
	}{
		{name: "no window", expected: "golang"},
		{name: "since only", window: twitter.DateWindow{Since: "2024-01-01"}, expected: "golang since:2024-01-01"},
		{name: "both", window: twitter.DateWindow{Since: "2024-01-01", Until: "2024-02-01"}, expected: "golang since:2024-01-01 until:2024-02-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.window.Query(" golang "))
		})
	}
}

func TestSearchTypesKeywordAndSubmits(t *testing.T) {
	page := twittertest.NewPage()
	search := twitter.NewSearchAction(page, &twittertest.Pacer{Page: page}, twitter.DateWindow{})

	assert.True(t, search.Search(context.Background(), "go"))
	assert.Equal(t, []string{"go"}, page.Searches)

	assert.Equal(t, []string{"insert:g", "insert:o"}, page.EventsWithPrefix("insert:"))
	assert.Equal(t, []string{
		"wait:search-panel",
		"wait:advanced-panel",
		"wait:search-clear",
		"wait:search-typing",
		"wait:search-typing",
		"wait:search-results",
	}, page.EventsWithPrefix("wait:"))
}

func TestSearchReplacesPreviousQuery(t *testing.T) {
	page := twittertest.NewPage()
	search := twitter.NewSearchAction(page, &twittertest.Pacer{Page: page}, twitter.DateWindow{})

	assert.True(t, search.Search(context.Background(), "first"))
	assert.True(t, search.Search(context.Background(), "second"))
	assert.Equal(t, []string{"first", "second"}, page.Searches)
}

func TestSearchMissingInput(t *testing.T) {
	page := twittertest.NewPage()
	page.Missing[twitter.AllWordsInput] = true
	search := twitter.NewSearchAction(page, &twittertest.Pacer{Page: page}, twitter.DateWindow{})

	assert.False(t, search.Search(context.Background(), "go"))
	assert.Empty(t, page.Searches)
	assert.Empty(t, page.EventsWithPrefix("insert:"))
}

func TestSearchToleratesMissingMenus(t *testing.T) {
	page := twittertest.NewPage()
	page.Missing[twitter.SearchOverflowButton] = true
	page.Missing[twitter.AdvancedSearchLink] = true
	search := twitter.NewSearchAction(page, &twittertest.Pacer{Page: page}, twitter.DateWindow{})

	assert.True(t, search.Search(context.Background(), "go"))
	assert.Equal(t, []string{"go"}, page.Searches)
}

func TestSearchCancelled(t *testing.T) {
	page := twittertest.NewPage()
	search := twitter.NewSearchAction(page, &twittertest.Pacer{Page: page}, twitter.DateWindow{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.False(t, search.Search(ctx, "go"))
	assert.Empty(t, page.Searches)
}
