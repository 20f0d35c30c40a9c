package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osman-haider/SmartXBot/backend"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "nested", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestProcessedTweets(t *testing.T) {
	s := newTestStore(t)

	ok, err := s.IsProcessed("1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.MarkProcessed("1", "hello"))
	require.NoError(t, s.MarkProcessed("1", "again"))

	ok, err = s.IsProcessed("1")
	require.NoError(t, err)
	assert.True(t, ok)

	n, err := s.ProcessedCount()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestProcessedSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := New(path)
	require.NoError(t, err)
	require.NoError(t, s.MarkProcessed("99", "x"))
	require.NoError(t, s.Close())

	s, err = New(path)
	require.NoError(t, err)
	defer s.Close()

	ok, err := s.IsProcessed("99")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPrompts(t *testing.T) {
	s := newTestStore(t)

	p, err := s.LoadPrompts()
	require.NoError(t, err)
	assert.Equal(t, backend.Prompts{}, p)

	require.NoError(t, s.SavePrompts(backend.Prompts{HiringPrompt: "h1", NormalPrompt: "n1"}))
	require.NoError(t, s.SavePrompts(backend.Prompts{HiringPrompt: "h2", NormalPrompt: "n2"}))

	p, err = s.LoadPrompts()
	require.NoError(t, err)
	assert.Equal(t, backend.Prompts{HiringPrompt: "h2", NormalPrompt: "n2"}, p)
}

func TestKeywordsConfig(t *testing.T) {
	s := newTestStore(t)

	_, ok, err := s.LoadKeywordsConfig()
	require.NoError(t, err)
	assert.False(t, ok)

	want := backend.KeywordsConfig{Keywords: []string{"golang", "hiring"}, SinceDate: "2024-05-01"}
	require.NoError(t, s.SaveKeywordsConfig(want))

	got, ok, err := s.LoadKeywordsConfig()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, got)
}
