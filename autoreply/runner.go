// Package autoreply drives one pass over the keyword list: search each
// keyword, load the results, then answer unseen posts one per scan.
package autoreply

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/osman-haider/SmartXBot/backend"
	"github.com/osman-haider/SmartXBot/configs"
	"github.com/osman-haider/SmartXBot/pacing"
	"github.com/osman-haider/SmartXBot/twitter"
)

// KeywordSource supplies the keywords for a run.
type KeywordSource interface {
	Keywords(ctx context.Context) []string
}

// Decider decides what to do with one post.
type Decider interface {
	Decide(ctx context.Context, postID, text string) backend.Decision
}

// Options tune a run. Zero values fall back to the configs defaults.
type Options struct {
	// MyHandle is the operator's own account; its posts are never answered.
	MyHandle string
	// StartURL is opened before the first search; empty skips navigation.
	StartURL   string
	MinPosts   int
	MaxScrolls int
	ScrollStep int
	// Keywords replaces the keyword source when non-empty.
	Keywords []string
	Shuffle  bool
	// DryRun decides but never types or submits.
	DryRun bool
	Window twitter.DateWindow
}

// OptionsFromConfig maps the loaded configuration onto run options.
func OptionsFromConfig(cfg *configs.Config) Options {
	return Options{
		MyHandle:   cfg.MyHandle,
		StartURL:   cfg.StartURL,
		MinPosts:   cfg.MinPosts,
		MaxScrolls: cfg.MaxScrolls,
		ScrollStep: cfg.ScrollStep,
		Shuffle:    cfg.Shuffle,
	}
}

type Runner struct {
	page     twitter.Page
	keywords KeywordSource
	decider  Decider
	pacing   pacing.Policy
	opts     Options

	search   *twitter.SearchAction
	scanner  *twitter.FeedScanner
	nav      *twitter.Navigator
	composer *twitter.ReplyComposer
}

func NewRunner(page twitter.Page, keywords KeywordSource, decider Decider, policy pacing.Policy, opts Options) *Runner {
	if opts.MinPosts <= 0 {
		opts.MinPosts = configs.DefaultMinPosts
	}

	return &Runner{
		page:     page,
		keywords: keywords,
		decider:  decider,
		pacing:   policy,
		opts:     opts,
		search:   twitter.NewSearchAction(page, policy, opts.Window),
		scanner:  twitter.NewFeedScanner(page, policy, opts.MaxScrolls, opts.ScrollStep),
		nav:      twitter.NewNavigator(page, policy),
		composer: twitter.NewReplyComposer(page, policy),
	}
}

// session is the state of one Run; nothing outside Run sees it.
type session struct {
	stats *RunStats
	// completed counts keywords whose search succeeded.
	completed int

	keyword   string
	seen      map[string]struct{}
	keepGoing bool
}

func (s *session) startKeyword(keyword string) {
	s.keyword = keyword
	s.seen = make(map[string]struct{})
	s.keepGoing = true
}

// Run processes every keyword once, in order. It only returns an error when
// ctx ends; stats cover the work done up to that point.
func (r *Runner) Run(ctx context.Context) (*RunStats, error) {
	s := &session{stats: newRunStats()}
	defer func() {
		s.stats.Duration = time.Since(s.stats.StartTime)
	}()

	keywords := r.loadKeywords(ctx)
	if len(keywords) == 0 {
		logrus.Warn("no keywords, nothing to do")
		return s.stats, nil
	}
	logrus.Infof("starting run with %d keywords", len(keywords))

	if r.opts.StartURL != "" {
		if err := r.page.Navigate(ctx, r.opts.StartURL); err != nil {
			if ctx.Err() != nil {
				return s.stats, ctx.Err()
			}
			logrus.Warnf("failed to open start page: %v", err)
		}
	}

	for _, keyword := range keywords {
		if err := ctx.Err(); err != nil {
			return s.stats, err
		}
		if err := r.runKeyword(ctx, s, keyword); err != nil {
			return s.stats, err
		}
	}

	s.stats.Duration = time.Since(s.stats.StartTime)
	logrus.Infof("run finished: %s", s.stats)
	return s.stats, nil
}

func (r *Runner) loadKeywords(ctx context.Context) []string {
	var keywords []string
	if len(r.opts.Keywords) > 0 {
		keywords = append(keywords, r.opts.Keywords...)
	} else if r.keywords != nil {
		keywords = r.keywords.Keywords(ctx)
	}

	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			out = append(out, kw)
		}
	}

	if r.opts.Shuffle {
		rnd := rand.New(rand.NewSource(time.Now().UnixNano()))
		rnd.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	}
	return out
}

func (r *Runner) runKeyword(ctx context.Context, s *session, keyword string) error {
	log := logrus.WithField("keyword", keyword)

	if !r.search.Search(ctx, keyword) {
		if err := ctx.Err(); err != nil {
			return err
		}
		log.Warn("search failed, skipping keyword")
		s.stats.KeywordsSkipped++
		return nil
	}
	s.completed++
	s.stats.KeywordsSearched++

	r.scanner.ScrollToLoad(ctx, r.opts.MinPosts)

	s.startKeyword(keyword)
	for s.keepGoing {
		if err := r.tick(ctx, s); err != nil {
			return err
		}
	}
	log.Info("no more new posts for this keyword")

	if err := pacing.Wait(ctx, r.pacing, pacing.InterKeywordRest); err != nil {
		return err
	}
	if r.pacing.TakeLongBreak(s.completed) {
		log.Info("taking a long break")
		s.stats.LongBreaks++
		if err := pacing.Wait(ctx, r.pacing, pacing.LongBreak); err != nil {
			return err
		}
	}
	return nil
}

// tick scans the rendered posts and handles at most one unseen post. The
// page may change after every reply, so each tick starts from a fresh scan.
func (r *Runner) tick(ctx context.Context, s *session) error {
	if err := pacing.Wait(ctx, r.pacing, pacing.TickSettle); err != nil {
		return err
	}

	cards, err := r.page.FindAll(ctx, twitter.PostCard)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logrus.Warnf("failed to list posts: %v", err)
	}

	for _, card := range cards {
		body, err := card.Find(twitter.PostText)
		if err != nil {
			continue
		}
		text, err := body.Text()
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		if _, ok := s.seen[text]; ok {
			continue
		}

		s.seen[text] = struct{}{}
		s.stats.PostsSeen++
		return r.handlePost(ctx, s, body, text)
	}

	s.keepGoing = false
	return ctx.Err()
}

// handlePost opens one post, replies when the service says so, and always
// returns to the result list.
func (r *Runner) handlePost(ctx context.Context, s *session, body twitter.Element, text string) error {
	post := twitter.Post{Text: text}
	log := logrus.WithField("keyword", s.keyword)

	if err := r.nav.OpenPost(ctx, body); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warnf("failed to open post: %v", err)
		s.stats.skip(SkipOpenFailed)
		return r.back(ctx)
	}

	post.ID = r.nav.PostID(ctx)
	if post.ID == "" {
		log.Info("post id not found")
		s.stats.skip(SkipNoID)
		return r.back(ctx)
	}
	log = log.WithField("tweet_id", post.ID)

	decision := r.decider.Decide(ctx, post.ID, post.Text)
	switch decision.Kind {
	case backend.Skip:
		log.Info("skipping post")
		s.stats.skip(SkipDeclined)
		return r.back(ctx)
	case backend.Unavailable:
		s.stats.skip(SkipUnavailable)
		return r.back(ctx)
	}

	post.AuthorHandle = r.nav.AuthorHandle(ctx)
	log = log.WithField("author", post.AuthorHandle)
	if twitter.SameHandle(post.AuthorHandle, r.opts.MyHandle) {
		log.Info("skipping own post")
		s.stats.skip(SkipOwnPost)
		return r.back(ctx)
	}

	if r.opts.DryRun {
		log.Infof("dry run, would reply: %s", decision.Message)
		s.stats.skip(SkipDryRun)
		return r.back(ctx)
	}

	if !r.composer.TypeReply(ctx, decision.Message) {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		s.stats.skip(SkipTypeFailed)
		return r.back(ctx)
	}

	if err := pacing.Wait(ctx, r.pacing, pacing.SubmitSettle); err != nil {
		return err
	}
	if r.composer.Submit(ctx) {
		log.Info("replied")
		s.stats.RepliesSent++
	} else {
		log.Warn("reply button not found, post stays processed")
		s.stats.SubmitMissing++
	}

	if err := pacing.Wait(ctx, r.pacing, pacing.PostSubmit); err != nil {
		return err
	}
	return r.back(ctx)
}

func (r *Runner) back(ctx context.Context) error {
	r.nav.Back(ctx)
	return ctx.Err()
}
