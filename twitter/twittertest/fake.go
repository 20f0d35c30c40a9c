// Package twittertest provides an in-memory twitter.Page that models the
// search dialog, the result list and the post detail view.
package twittertest

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/osman-haider/SmartXBot/pacing"
	"github.com/osman-haider/SmartXBot/twitter"
)

// Post is one entry of the fake result list. An empty ID models a post whose
// detail URL carries no status id.
type Post struct {
	ID     string
	Text   string
	Author string
}

// Reply is a submitted reply.
type Reply struct {
	PostID string
	Text   string
}

// Page records every interaction in Events.
type Page struct {
	mu sync.Mutex

	// Posts is the result list in document order.
	Posts []Post
	// Rendered is how many posts are in the DOM after a search; 0 means all.
	Rendered int
	// RevealPerScroll posts are added to the DOM on every scroll.
	RevealPerScroll int
	// Missing selectors are reported as not found.
	Missing map[string]bool
	// Unclickable post texts fail to open, as when an overlay covers them.
	Unclickable map[string]bool

	Events   []string
	Searches []string
	Replies  []Reply

	location    string
	rendered    int
	open        *Post
	focus       string
	searchValue string
	draft       strings.Builder
}

func NewPage(posts ...Post) *Page {
	return &Page{
		Posts:       posts,
		Missing:     map[string]bool{},
		Unclickable: map[string]bool{},
		location:    "https://x.com/explore",
	}
}

func (p *Page) record(format string, args ...any) {
	p.Events = append(p.Events, fmt.Sprintf(format, args...))
}

// EventsWithPrefix returns the recorded events starting with prefix.
func (p *Page) EventsWithPrefix(prefix string) []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []string
	for _, e := range p.Events {
		if strings.HasPrefix(e, prefix) {
			out = append(out, e)
		}
	}
	return out
}

func (p *Page) visible() int {
	n := p.rendered
	if n <= 0 || n > len(p.Posts) {
		n = len(p.Posts)
	}
	return n
}

func (p *Page) notFound(selector string) error {
	return errors.Wrapf(twitter.ErrNotFound, "selector %s", selector)
}

func (p *Page) Navigate(_ context.Context, u string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("navigate:%s", u)
	p.location = u
	p.open = nil
	return nil
}

func (p *Page) Find(_ context.Context, selector string) (twitter.Element, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Missing[selector] {
		return nil, p.notFound(selector)
	}

	detail := p.open != nil
	switch selector {
	case twitter.SearchOverflowButton, twitter.AdvancedSearchLink, twitter.AllWordsInput, twitter.HomeIndicator:
		return &element{page: p, selector: selector}, nil
	case twitter.ReplyContainer, twitter.ReplySubmitButton, twitter.BackButton, twitter.AuthorLink:
		if detail {
			return &element{page: p, selector: selector}, nil
		}
	}
	return nil, p.notFound(selector)
}

func (p *Page) FindAll(_ context.Context, selector string) ([]twitter.Element, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if selector != twitter.PostCard || p.open != nil || p.Missing[selector] {
		return nil, nil
	}

	n := p.visible()
	out := make([]twitter.Element, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, &element{page: p, selector: twitter.PostCard, post: i})
	}
	return out, nil
}

func (p *Page) FindByText(_ context.Context, selector, pattern string) (twitter.Element, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if selector == twitter.SearchSubmitButton && pattern == twitter.SearchSubmitText && !p.Missing[selector] {
		return &element{page: p, selector: selector}, nil
	}
	return nil, p.notFound(selector)
}

func (p *Page) InsertText(_ context.Context, text string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.record("insert:%s", text)
	switch p.focus {
	case twitter.AllWordsInput:
		p.searchValue += text
	case twitter.ReplyEditable:
		p.draft.WriteString(text)
	}
	return nil
}

func (p *Page) ScrollBy(_ context.Context, dy int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.record("scroll:%d", dy)
	if p.rendered > 0 {
		p.rendered += p.RevealPerScroll
	}
	return nil
}

func (p *Page) Location(context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.location, nil
}

// Draft is the text currently typed into the reply box.
func (p *Page) Draft() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.draft.String()
}

// SearchValue is the text currently in the search input.
func (p *Page) SearchValue() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.searchValue
}

type element struct {
	page     *Page
	selector string
	post     int
}

func (e *element) Text() (string, error) {
	p := e.page
	p.mu.Lock()
	defer p.mu.Unlock()

	switch e.selector {
	case twitter.PostCard:
		post := p.Posts[e.post]
		return post.Author + "\n" + post.Text, nil
	case twitter.PostText:
		// Rendered text carries surrounding whitespace.
		return "  " + p.Posts[e.post].Text + "\n", nil
	case "span":
		if p.open != nil {
			return "@" + p.open.Author, nil
		}
	}
	return "", nil
}

func (e *element) Attribute(name string) (string, error) {
	p := e.page
	p.mu.Lock()
	defer p.mu.Unlock()

	if e.selector == twitter.AuthorLink && name == "href" && p.open != nil {
		return "/" + p.open.Author, nil
	}
	return "", nil
}

func (e *element) Find(selector string) (twitter.Element, error) {
	p := e.page
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Missing[selector] {
		return nil, p.notFound(selector)
	}

	switch {
	case e.selector == twitter.PostCard && selector == twitter.PostText:
		return &element{page: p, selector: selector, post: e.post}, nil
	case e.selector == twitter.ReplyContainer && selector == twitter.ReplyEditable:
		return &element{page: p, selector: selector}, nil
	case e.selector == twitter.ReplyEditable && selector == twitter.ReplyPlaceholder:
		return &element{page: p, selector: selector}, nil
	}
	return nil, p.notFound(selector)
}

func (e *element) Click() error {
	p := e.page
	p.mu.Lock()
	defer p.mu.Unlock()

	switch e.selector {
	case twitter.SearchSubmitButton:
		p.record("search:%s", p.searchValue)
		p.Searches = append(p.Searches, p.searchValue)
		p.location = "https://x.com/search?q=" + url.QueryEscape(p.searchValue)
		p.rendered = p.Rendered
	case twitter.PostText:
		post := p.Posts[e.post]
		if p.Unclickable[post.Text] {
			p.record("click-failed:%s", post.Text)
			return errors.Errorf("element covered: %s", post.Text)
		}
		p.open = &post
		p.record("open:%s", post.Text)
		if post.ID == "" {
			p.location = "https://x.com/" + post.Author
		} else {
			p.location = "https://x.com/" + post.Author + "/status/" + post.ID + "?s=20"
		}
	case twitter.ReplySubmitButton:
		id := ""
		if p.open != nil {
			id = p.open.ID
		}
		p.record("submit")
		p.Replies = append(p.Replies, Reply{PostID: id, Text: p.draft.String()})
		p.draft.Reset()
	case twitter.BackButton:
		p.record("back")
		p.open = nil
		p.draft.Reset()
		p.location = "https://x.com/search"
	default:
		p.record("click:%s", e.selector)
	}
	return nil
}

func (e *element) Focus() error {
	p := e.page
	p.mu.Lock()
	defer p.mu.Unlock()
	p.focus = e.selector
	p.record("focus:%s", e.selector)
	return nil
}

func (e *element) MouseDown() error {
	p := e.page
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("mousedown")
	return nil
}

func (e *element) MouseUp() error {
	p := e.page
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("mouseup")
	return nil
}

func (e *element) Clear() error {
	p := e.page
	p.mu.Lock()
	defer p.mu.Unlock()

	p.record("clear:%s", e.selector)
	if e.selector == twitter.AllWordsInput {
		p.searchValue = ""
	}
	return nil
}

func (e *element) NotifyInput(data string) error {
	p := e.page
	p.mu.Lock()
	defer p.mu.Unlock()
	p.record("input:%s", data)
	return nil
}

// Pacer is a pacing.Policy that never sleeps and logs every wait into the
// page's event stream, so tests can check where suspension points fall.
type Pacer struct {
	Page *Page
	// Break decides long breaks; nil never breaks.
	Break func(completed int) bool
}

func (r *Pacer) Delay(c pacing.Class) time.Duration {
	if r.Page != nil {
		r.Page.mu.Lock()
		r.Page.record("wait:%s", c)
		r.Page.mu.Unlock()
	}
	return 0
}

func (r *Pacer) TakeLongBreak(completed int) bool {
	if r.Break == nil {
		return false
	}
	return r.Break(completed)
}
