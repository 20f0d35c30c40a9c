package pacing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomizedDelayWithinRange(t *testing.T) {
	p := NewRandomized(nil).WithSeed(42)

	for c, r := range DefaultRanges() {
		for i := 0; i < 200; i++ {
			d := p.Delay(c)
			if d < r.Min || d > r.Max {
				t.Fatalf("%s: delay %v outside [%v, %v]", c, d, r.Min, r.Max)
			}
		}
	}
}

func TestReplyTypingJitterIsWiderThanSearchTyping(t *testing.T) {
	ranges := DefaultRanges()
	search := ranges[SearchTyping]
	reply := ranges[ReplyTyping]

	assert.Equal(t, search.Min, search.Max, "search typing is a fixed cadence")
	assert.Greater(t, reply.Max-reply.Min, search.Max-search.Min)
}

func TestOverrides(t *testing.T) {
	p := NewRandomized(map[Class]Range{LongBreak: {time.Second, time.Second}})
	assert.Equal(t, time.Second, p.Delay(LongBreak))
	assert.Equal(t, 5*time.Second, p.Delay(InterKeywordRest))
}

func TestTakeLongBreakOnlyOnEveryThirdKeyword(t *testing.T) {
	p := NewRandomized(nil).WithSeed(7)

	taken := 0
	for completed := 1; completed <= 300; completed++ {
		if p.TakeLongBreak(completed) {
			assert.Zero(t, completed%LongBreakEvery, "break at %d", completed)
			taken++
		}
	}
	// 100 chances at 0.7; a seeded run lands well inside this window.
	assert.Greater(t, taken, 50)
	assert.Less(t, taken, 90)
	assert.False(t, p.TakeLongBreak(0))
}

func TestWaitHonoursContext(t *testing.T) {
	p := NewRandomized(map[Class]Range{LongBreak: {time.Hour, time.Hour}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := Wait(ctx, p, LongBreak)
	require.ErrorIs(t, err, context.Canceled)
	assert.Less(t, time.Since(start), time.Second)
}

func TestInstant(t *testing.T) {
	require.NoError(t, Wait(context.Background(), Instant{}, LongBreak))
	assert.False(t, Instant{}.TakeLongBreak(3))
	assert.Equal(t, "reply-typing", ReplyTyping.String())
}
