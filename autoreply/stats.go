package autoreply

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// SkipReason says why a post was opened but not answered.
type SkipReason string

const (
	SkipOpenFailed  SkipReason = "open_failed"
	SkipNoID        SkipReason = "no_id"
	SkipDeclined    SkipReason = "declined"
	SkipUnavailable SkipReason = "unavailable"
	SkipOwnPost     SkipReason = "own_post"
	SkipTypeFailed  SkipReason = "type_failed"
	SkipDryRun      SkipReason = "dry_run"
)

// RunStats 记录一次运行的统计信息
type RunStats struct {
	KeywordsSearched int                `json:"keywords_searched"`
	KeywordsSkipped  int                `json:"keywords_skipped"`
	PostsSeen        int                `json:"posts_seen"`
	RepliesSent      int                `json:"replies_sent"`
	SubmitMissing    int                `json:"submit_missing"`
	Skipped          map[SkipReason]int `json:"skipped"`
	LongBreaks       int                `json:"long_breaks"`
	StartTime        time.Time          `json:"start_time"`
	Duration         time.Duration      `json:"duration"`
}

func newRunStats() *RunStats {
	return &RunStats{
		Skipped:   make(map[SkipReason]int),
		StartTime: time.Now(),
	}
}

func (s *RunStats) skip(reason SkipReason) {
	s.Skipped[reason]++
}

func (s *RunStats) String() string {
	reasons := make([]string, 0, len(s.Skipped))
	for r, n := range s.Skipped {
		reasons = append(reasons, fmt.Sprintf("%s=%d", r, n))
	}
	sort.Strings(reasons)

	return fmt.Sprintf(
		"keywords searched %d (skipped %d), posts seen %d, replies sent %d, submit missing %d, long breaks %d, skipped [%s], took %s",
		s.KeywordsSearched, s.KeywordsSkipped, s.PostsSeen, s.RepliesSent, s.SubmitMissing,
		s.LongBreaks, strings.Join(reasons, " "), s.Duration.Round(time.Second),
	)
}
