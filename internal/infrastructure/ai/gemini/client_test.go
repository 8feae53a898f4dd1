package gemini

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"clinic-backend/config"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string, models ...string) *Client {
	log := logrus.New()
	log.SetOutput(io.Discard)

	c := NewClient(config.AIConfig{APIKey: "k", BaseURL: baseURL, Models: models, Timeout: 5 * time.Second}, log)
	c.retry.InitialDelay = time.Millisecond
	c.retry.MaxDelay = time.Millisecond
	return c
}

func reply(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(generateResponse{
		Candidates: []candidate{{Content: content{Parts: []part{{Text: text}}}, FinishReason: "STOP"}},
	})
}

func TestClient_Generate(t *testing.T) {
	t.Run("rate limited model falls through to next", func(t *testing.T) {
		var mu sync.Mutex
		var hits []string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			hits = append(hits, r.URL.Path)
			mu.Unlock()

			assert.Equal(t, "k", r.URL.Query().Get("key"))
			if strings.Contains(r.URL.Path, "first") {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}

			var req generateRequest
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, 800, req.GenerationConfig.MaxOutputTokens)
			assert.Len(t, req.SafetySettings, 4)
			assert.True(t, strings.HasSuffix(req.Contents[0].Parts[0].Text, "I have a fever"))
			reply(w, "Stay hydrated.")
		}))
		defer srv.Close()

		text, model, err := newTestClient(srv.URL, "first", "second").Generate(context.Background(), "I have a fever")

		require.NoError(t, err)
		assert.Equal(t, "Stay hydrated.", text)
		assert.Equal(t, "second", model)
		assert.Equal(t, []string{"/models/first:generateContent", "/models/second:generateContent"}, hits)
	})

	t.Run("server error is retried on the same model", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) == 1 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			reply(w, "ok")
		}))
		defer srv.Close()

		text, model, err := newTestClient(srv.URL, "only").Generate(context.Background(), "hi")

		require.NoError(t, err)
		assert.Equal(t, "ok", text)
		assert.Equal(t, "only", model)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("client errors are not retried", func(t *testing.T) {
		var calls atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer srv.Close()

		_, _, err := newTestClient(srv.URL, "a", "b").Generate(context.Background(), "hi")

		assert.ErrorIs(t, err, ErrAllModelsFailed)
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("blocked reply without text", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"candidates":[{"finishReason":"SAFETY","content":{"parts":[]}}]}`))
		}))
		defer srv.Close()

		_, _, err := newTestClient(srv.URL, "a").Generate(context.Background(), "hi")

		assert.ErrorIs(t, err, ErrAllModelsFailed)
	})

	t.Run("missing api key", func(t *testing.T) {
		c := newTestClient("http://unused", "a")
		c.apiKey = ""

		_, _, err := c.Generate(context.Background(), "hi")

		assert.ErrorIs(t, err, ErrNotConfigured)
	})
}
