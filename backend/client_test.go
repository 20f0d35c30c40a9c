package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestDecisionFromMessage(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    Decision
	}{
		{name: "empty", message: "", want: Decision{Kind: Skip}},
		{name: "old", message: "OLD", want: Decision{Kind: Skip}},
		{name: "reply", message: "nice one", want: Decision{Kind: Reply, Message: "nice one"}},
		{name: "lowercase old is a reply", message: "old", want: Decision{Kind: Reply, Message: "old"}},
		{name: "padded old is a reply", message: " OLD ", want: Decision{Kind: Reply, Message: " OLD "}},
		{name: "whitespace kept", message: "  hi there\n", want: Decision{Kind: Reply, Message: "  hi there\n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecisionFromMessage(tt.message))
		})
	}
}

func TestDecide(t *testing.T) {
	var got TweetProcessRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/tweet-process", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusOK, TweetProcessResponse{Message: "sounds great"})
	}))
	defer srv.Close()

	d := NewClient(srv.URL).Decide(context.Background(), "42", "hello world")
	assert.Equal(t, Decision{Kind: Reply, Message: "sounds great"}, d)
	assert.Equal(t, TweetProcessRequest{TweetID: "42", Tweet: "hello world"}, got)
}

func TestDecideOld(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, TweetProcessResponse{Message: OldMarker})
	}))
	defer srv.Close()

	assert.Equal(t, Skip, NewClient(srv.URL).Decide(context.Background(), "42", "x").Kind)
}

func TestDecideUnavailable(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			writeJSON(w, http.StatusBadGateway, ErrorResponse{Detail: "model down"})
		}))
		defer srv.Close()

		assert.Equal(t, Unavailable, NewClient(srv.URL).Decide(context.Background(), "42", "x").Kind)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "no retries")
	})

	t.Run("bad body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("{not json"))
		}))
		defer srv.Close()

		assert.Equal(t, Unavailable, NewClient(srv.URL).Decide(context.Background(), "42", "x").Kind)
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		c := NewClient(url).SetTimeout(time.Second)
		assert.Equal(t, Unavailable, c.Decide(context.Background(), "42", "x").Kind)
	})
}

func TestKeywords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/keywords", r.URL.Path)
		writeJSON(w, http.StatusOK, KeywordsResponse{Keywords: []string{"golang", "rust"}})
	}))
	defer srv.Close()

	assert.Equal(t, []string{"golang", "rust"}, NewClient(srv.URL).Keywords(context.Background()))
}

func TestKeywordsFailureIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Detail: "boom"})
	}))
	defer srv.Close()

	kws := NewClient(srv.URL).Keywords(context.Background())
	assert.NotNil(t, kws)
	assert.Empty(t, kws)
}

func TestPromptsRoundTrip(t *testing.T) {
	var stored Prompts
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&stored))
			writeJSON(w, http.StatusOK, stored)
		default:
			writeJSON(w, http.StatusOK, stored)
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	saved, err := c.SavePrompts(context.Background(), Prompts{HiringPrompt: "h", NormalPrompt: "n"})
	require.NoError(t, err)
	assert.Equal(t, "h", saved.HiringPrompt)

	got, err := c.Prompts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Prompts{HiringPrompt: "h", NormalPrompt: "n"}, *got)
}

func TestSaveKeywordsConfigRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Detail: "at least one keyword is required"})
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).SaveKeywordsConfig(context.Background(), KeywordsConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one keyword is required")
}

func TestKeywordsConfigWindow(t *testing.T) {
	cfg := KeywordsConfig{Keywords: []string{"go"}, SinceDate: "2024-01-01"}
	assert.Equal(t, "go since:2024-01-01", cfg.Window().Query("go"))
}
