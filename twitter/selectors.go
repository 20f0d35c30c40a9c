package twitter

// X.com DOM selectors.
// X changes its markup often; when automation breaks, start here.

const (
	HomeURL = "https://x.com/home"

	// Search
	SearchOverflowButton = `[data-testid="searchBoxOverflowButton"]`
	AdvancedSearchLink   = `[data-testid="advancedSearch-overflow"]`
	AllWordsInput        = `input[name="allOfTheseWords"]`
	SearchSubmitButton   = `button`
	SearchSubmitText     = `/^search$/i`

	// Feed
	PostCard = `article`
	PostText = `[data-testid="tweetText"]`

	// Post detail
	AuthorLink         = `article[data-testid="tweet"] [data-testid="User-Name"] a[href^="/"]`
	AuthorLinkFallback = `a[href^="/"][role="link"]`
	BackButton         = `[data-testid="app-bar-back"]`

	// Reply box
	ReplyContainer    = `[data-testid="tweetTextarea_0RichTextInputContainer"]`
	ReplyEditable     = `[data-testid="tweetTextarea_0"]`
	ReplyPlaceholder  = `span[data-text='true']`
	ReplySubmitButton = `[data-testid="tweetButtonInline"]`

	// Session
	HomeIndicator = `[data-testid="SideNav_NewTweet_Button"]`
)
