// ABOUTME: Tests for the Ollama client against an httptest backend.
// ABOUTME: Verifies request shape, reply extraction, availability probe, and failures.

package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChat(t *testing.T) {
	t.Run("sends non-streaming request and extracts reply", func(t *testing.T) {
		var captured chatRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/chat", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
			w.Write([]byte(`{"message":{"role":"assistant","content":"Our best earbuds are the AirPods Pro 2."}}`))
		}))
		defer srv.Close()

		c := New(srv.URL, "llama2-chat", 0, nil)
		reply, err := c.Chat(context.Background(), []Message{
			{Role: "system", Content: "You are a sales assistant."},
			{Role: "user", Content: "any earbuds?"},
		})
		require.NoError(t, err)
		assert.Equal(t, "Our best earbuds are the AirPods Pro 2.", reply)

		assert.Equal(t, "llama2-chat", captured.Model)
		assert.False(t, captured.Stream)
		require.Len(t, captured.Messages, 2)
		assert.Equal(t, "user", captured.Messages[1].Role)
	})

	t.Run("non-200 status is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model not loaded", http.StatusInternalServerError)
		}))
		defer srv.Close()

		c := New(srv.URL, "llama2-chat", 0, nil)
		_, err := c.Chat(context.Background(), []Message{{Role: "user", Content: "hi"}})
		require.Error(t, err)
	})

	t.Run("unreachable backend is an error", func(t *testing.T) {
		c := New("http://127.0.0.1:1", "llama2-chat", 0, nil)
		_, err := c.Chat(context.Background(), []Message{{Role: "user", Content: "hi"}})
		require.Error(t, err)
	})
}

func TestStatus(t *testing.T) {
	t.Run("reports model availability", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/tags", r.URL.Path)
			w.Write([]byte(`{"models":[{"name":"llama2-chat"},{"name":"mistral"}]}`))
		}))
		defer srv.Close()

		c := New(srv.URL, "llama2-chat", 0, nil)
		ok, err := c.Status(context.Background())
		require.NoError(t, err)
		assert.True(t, ok)

		other := New(srv.URL, "phi3", 0, nil)
		ok, err = other.Status(context.Background())
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("unreachable backend is an error", func(t *testing.T) {
		c := New("http://127.0.0.1:1", "llama2-chat", 0, nil)
		_, err := c.Status(context.Background())
		require.Error(t, err)
	})
}
