package twitter

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/osman-haider/SmartXBot/pacing"
)

// DateWindow narrows a search with X's since:/until: operators. Dates are
// YYYY-MM-DD; empty fields are left out.
type DateWindow struct {
	Since string `json:"since_date,omitempty"`
	Until string `json:"until_date,omitempty"`
}

// Query builds the text typed into the "all of these words" field.
func (w DateWindow) Query(keyword string) string {
	parts := []string{strings.TrimSpace(keyword)}
	if w.Since != "" {
		parts = append(parts, "since:"+w.Since)
	}
	if w.Until != "" {
		parts = append(parts, "until:"+w.Until)
	}
	return strings.Join(parts, " ")
}

// SearchAction drives the advanced search dialog.
type SearchAction struct {
	page   Page
	pacing pacing.Policy
	window DateWindow
}

func NewSearchAction(page Page, policy pacing.Policy, window DateWindow) *SearchAction {
	return &SearchAction{page: page, pacing: policy, window: window}
}

// Search filters the feed by keyword. It reports false, without retrying,
// when the keyword field cannot be located or the page stops responding.
func (s *SearchAction) Search(ctx context.Context, keyword string) bool {
	log := logrus.WithField("keyword", keyword)
	log.Info("searching")

	s.clickIfPresent(ctx, SearchOverflowButton)
	if err := pacing.Wait(ctx, s.pacing, pacing.SearchPanel); err != nil {
		return false
	}

	s.clickIfPresent(ctx, AdvancedSearchLink)
	if err := pacing.Wait(ctx, s.pacing, pacing.AdvancedPanel); err != nil {
		return false
	}

	input, err := s.page.Find(ctx, AllWordsInput)
	if err != nil {
		log.Warnf("search input not found: %v", err)
		return false
	}

	if err := input.Focus(); err != nil {
		log.Warnf("failed to focus search input: %v", err)
		return false
	}
	if err := input.Clear(); err != nil {
		log.Warnf("failed to clear search input: %v", err)
		return false
	}
	_ = input.NotifyInput("")
	if err := pacing.Wait(ctx, s.pacing, pacing.SearchClear); err != nil {
		return false
	}

	// One character at a time so the live suggestions keep up.
	for _, ch := range s.window.Query(keyword) {
		if err := s.page.InsertText(ctx, string(ch)); err != nil {
			log.Warnf("failed to type into search input: %v", err)
			return false
		}
		_ = input.NotifyInput(string(ch))
		if err := pacing.Wait(ctx, s.pacing, pacing.SearchTyping); err != nil {
			return false
		}
	}

	if btn, err := s.page.FindByText(ctx, SearchSubmitButton, SearchSubmitText); err == nil {
		if err := btn.Click(); err != nil {
			log.Warnf("failed to click search: %v", err)
		}
	} else {
		log.Warn("search button not found")
	}

	if err := pacing.Wait(ctx, s.pacing, pacing.SearchResults); err != nil {
		return false
	}
	return true
}

func (s *SearchAction) clickIfPresent(ctx context.Context, selector string) {
	el, err := s.page.Find(ctx, selector)
	if err != nil {
		logrus.Debugf("%s not present", selector)
		return
	}
	if err := el.Click(); err != nil {
		logrus.Warnf("failed to click %s: %v", selector, err)
	}
}
