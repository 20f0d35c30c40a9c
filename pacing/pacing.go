// Package pacing produces the randomized waits that shape the timing profile
// of automated page actions.
package pacing

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

// Class names a kind of wait.
type Class int

const (
	// SearchPanel follows a click on the search overflow menu.
	SearchPanel Class = iota
	// AdvancedPanel follows opening the advanced search dialog.
	AdvancedPanel
	// SearchClear follows clearing the search input.
	SearchClear
	// SearchTyping separates characters typed into the search input.
	SearchTyping
	// SearchResults follows submitting a search.
	SearchResults
	// ScanSettle follows each scroll of the feed scanner.
	ScanSettle
	// TickSettle precedes every scan tick of the processing loop.
	TickSettle
	// NavigationSettle follows opening a post or navigating back.
	NavigationSettle
	// FocusSettle follows clicking or focusing the reply box.
	FocusSettle
	// ReplyTyping separates characters typed into the reply box.
	ReplyTyping
	// SubmitSettle precedes clicking the reply button.
	SubmitSettle
	// PostSubmit follows clicking the reply button.
	PostSubmit
	// InterKeywordRest separates two keywords.
	InterKeywordRest
	// LongBreak is the occasional long pause between keywords.
	LongBreak
)

var classNames = map[Class]string{
	SearchPanel:      "search-panel",
	AdvancedPanel:    "advanced-panel",
	SearchClear:      "search-clear",
	SearchTyping:     "search-typing",
	SearchResults:    "search-results",
	ScanSettle:       "scan-settle",
	TickSettle:       "tick-settle",
	NavigationSettle: "navigation-settle",
	FocusSettle:      "focus-settle",
	ReplyTyping:      "reply-typing",
	SubmitSettle:     "submit-settle",
	PostSubmit:       "post-submit",
	InterKeywordRest: "inter-keyword-rest",
	LongBreak:        "long-break",
}

func (c Class) String() string {
	if name, ok := classNames[c]; ok {
		return name
	}
	return "unknown"
}

// Range is an inclusive duration interval. Min == Max means a fixed wait.
type Range struct {
	Min time.Duration
	Max time.Duration
}

// Policy decides how long each class of wait lasts and when to take a long
// break between keywords.
type Policy interface {
	Delay(c Class) time.Duration
	// TakeLongBreak is asked after each searched keyword; completed counts
	// keywords searched so far, including the current one.
	TakeLongBreak(completed int) bool
}

const (
	// LongBreakEvery is how many searched keywords pass between break chances.
	LongBreakEvery = 3
	// LongBreakChance is the probability of actually taking a due break.
	LongBreakChance = 0.7
)

// DefaultRanges mirrors a balanced, human-plausible cadence.
func DefaultRanges() map[Class]Range {
	return map[Class]Range{
		SearchPanel:      {700 * time.Millisecond, 700 * time.Millisecond},
		AdvancedPanel:    {1000 * time.Millisecond, 1000 * time.Millisecond},
		SearchClear:      {400 * time.Millisecond, 400 * time.Millisecond},
		SearchTyping:     {100 * time.Millisecond, 100 * time.Millisecond},
		SearchResults:    {3 * time.Second, 3 * time.Second},
		ScanSettle:       {2 * time.Second, 3 * time.Second},
		TickSettle:       {3 * time.Second, 3 * time.Second},
		NavigationSettle: {3 * time.Second, 3 * time.Second},
		FocusSettle:      {400 * time.Millisecond, 400 * time.Millisecond},
		ReplyTyping:      {80 * time.Millisecond, 150 * time.Millisecond},
		SubmitSettle:     {1500 * time.Millisecond, 1500 * time.Millisecond},
		PostSubmit:       {3 * time.Second, 3 * time.Second},
		InterKeywordRest: {5 * time.Second, 5 * time.Second},
		LongBreak:        {60 * time.Second, 120 * time.Second},
	}
}

// Randomized draws uniformly from per-class ranges.
type Randomized struct {
	mu     sync.Mutex
	rnd    *rand.Rand
	ranges map[Class]Range
}

// NewRandomized builds a policy from DefaultRanges with overrides applied.
func NewRandomized(overrides map[Class]Range) *Randomized {
	ranges := DefaultRanges()
	for c, r := range overrides {
		ranges[c] = r
	}
	return &Randomized{
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		ranges: ranges,
	}
}

// WithSeed makes the draw sequence reproducible.
func (p *Randomized) WithSeed(seed int64) *Randomized {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rnd = rand.New(rand.NewSource(seed))
	return p
}

func (p *Randomized) Delay(c Class) time.Duration {
	r, ok := p.ranges[c]
	if !ok {
		return 0
	}
	if r.Max <= r.Min {
		return r.Min
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return r.Min + time.Duration(p.rnd.Int63n(int64(r.Max-r.Min)+1))
}

func (p *Randomized) TakeLongBreak(completed int) bool {
	if completed <= 0 || completed%LongBreakEvery != 0 {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rnd.Float64() < LongBreakChance
}

// Instant never waits and never breaks. Tests use it.
type Instant struct{}

func (Instant) Delay(Class) time.Duration { return 0 }
func (Instant) TakeLongBreak(int) bool    { return false }

// Wait sleeps for the policy's delay of class c or until ctx is done.
func Wait(ctx context.Context, p Policy, c Class) error {
	d := p.Delay(c)
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
