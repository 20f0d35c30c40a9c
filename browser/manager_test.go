package browser

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireBrowserGivesUpWhenBusy(t *testing.T) {
	m := NewManager(true, "", "")
	m.inUse = true

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	b, release, err := m.AcquireBrowser(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Nil(t, b)
	assert.Nil(t, release)
	assert.True(t, m.inUse)
}

func TestAcquireBrowserCancelled(t *testing.T) {
	m := NewManager(true, "", "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := m.AcquireBrowser(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, m.inUse)
}
