// Package backend talks to the reply service: keyword lists, stored prompts
// and per-post reply decisions.
package backend

import "github.com/osman-haider/SmartXBot/twitter"

// OldMarker is the message the service returns for a post it has already
// answered.
const OldMarker = "OLD"

// KeywordsResponse GET /keywords
type KeywordsResponse struct {
	Keywords []string `json:"keywords"`
}

// TweetProcessRequest POST /tweet-process
type TweetProcessRequest struct {
	TweetID string `json:"tweet_id"`
	Tweet   string `json:"tweet"`
}

// TweetProcessResponse carries the reply text, OldMarker, or "".
type TweetProcessResponse struct {
	Message string `json:"message"`
}

// Prompts are the operator's system prompts for the two reply styles.
type Prompts struct {
	HiringPrompt string `json:"hiring_prompt"`
	NormalPrompt string `json:"normal_prompt"`
}

// KeywordsConfig is the stored keyword list plus an optional date window.
type KeywordsConfig struct {
	Keywords  []string `json:"keywords"`
	SinceDate string   `json:"since_date,omitempty"`
	UntilDate string   `json:"until_date,omitempty"`
}

// Window returns the date window as a search filter.
func (c KeywordsConfig) Window() twitter.DateWindow {
	return twitter.DateWindow{Since: c.SinceDate, Until: c.UntilDate}
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// DecisionKind enumerates what the runner may do with a post.
type DecisionKind int

const (
	// Skip means the post needs no reply (empty or already answered).
	Skip DecisionKind = iota
	// Reply means Message should be typed and submitted.
	Reply
	// Unavailable means the service could not be reached or answered badly.
	Unavailable
)

func (k DecisionKind) String() string {
	switch k {
	case Reply:
		return "reply"
	case Unavailable:
		return "unavailable"
	default:
		return "skip"
	}
}

// Decision is the outcome of asking the service about one post.
type Decision struct {
	Kind    DecisionKind
	Message string
}

// DecisionFromMessage maps a /tweet-process message to a decision. The
// message is compared and typed exactly as received.
func DecisionFromMessage(message string) Decision {
	if message == "" || message == OldMarker {
		return Decision{Kind: Skip}
	}
	return Decision{Kind: Reply, Message: message}
}
