// ABOUTME: Tests for Server registration, lifecycle, and capability dispatch.
// ABOUTME: Covers name uniqueness, start/stop idempotence, and error pass-through.

package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoTool(name string) *Tool {
	return NewTool(name, "echoes its input",
		Schema{
			"type": "object",
			"properties": map[string]any{
				"text": map[string]any{"type": "string"},
			},
			"required": []any{"text"},
		},
		func(ctx context.Context, params Params) (any, error) {
			return params.String("text", ""), nil
		},
	)
}

func TestServerRegistration(t *testing.T) {
	t.Run("registered capability resolves by name", func(t *testing.T) {
		srv := NewServer("test-server", "test", nil)
		tool := echoTool("echo")
		require.NoError(t, srv.AddTool(tool))

		got, ok := srv.GetTool("echo")
		require.True(t, ok)
		assert.Same(t, tool, got)

		res := NewResource("greeting", "static data", func(ctx context.Context) (any, error) {
			return "hello", nil
		})
		require.NoError(t, srv.AddResource(res))
		gotRes, ok := srv.GetResource("greeting")
		require.True(t, ok)
		assert.Same(t, res, gotRes)
	})

	t.Run("duplicate name is rejected", func(t *testing.T) {
		srv := NewServer("test-server", "test", nil)
		require.NoError(t, srv.AddTool(echoTool("echo")))

		err := srv.AddTool(echoTool("echo"))
		require.ErrorIs(t, err, ErrDuplicateName)

		// Names are unique across kinds, not just within one.
		err = srv.AddResource(NewResource("echo", "collides", func(ctx context.Context) (any, error) {
			return nil, nil
		}))
		require.ErrorIs(t, err, ErrDuplicateName)
	})

	t.Run("lookup is case-sensitive", func(t *testing.T) {
		srv := NewServer("test-server", "test", nil)
		require.NoError(t, srv.AddTool(echoTool("Echo")))

		_, ok := srv.GetTool("echo")
		assert.False(t, ok)
		_, ok = srv.GetTool("Echo")
		assert.True(t, ok)
	})
}

func TestServerLifecycle(t *testing.T) {
	t.Run("start is idempotent", func(t *testing.T) {
		srv := NewServer("test-server", "test", nil)
		assert.False(t, srv.Running())

		srv.Start()
		srv.Start()
		assert.True(t, srv.Running())

		srv.Stop()
		srv.Stop()
		assert.False(t, srv.Running())
	})

	t.Run("execute on stopped server fails cleanly", func(t *testing.T) {
		srv := NewServer("test-server", "test", nil)
		require.NoError(t, srv.AddTool(echoTool("echo")))

		_, err := srv.ExecuteTool(context.Background(), "echo", Params{"text": "hi"})
		require.ErrorIs(t, err, ErrServerStopped)

		srv.Start()
		srv.Stop()
		_, err = srv.ExecuteTool(context.Background(), "echo", Params{"text": "hi"})
		require.ErrorIs(t, err, ErrServerStopped)
	})
}

func TestServerExecuteTool(t *testing.T) {
	t.Run("delegates and returns result verbatim", func(t *testing.T) {
		srv := NewServer("test-server", "test", nil)
		require.NoError(t, srv.AddTool(echoTool("echo")))
		srv.Start()

		result, err := srv.ExecuteTool(context.Background(), "echo", Params{"text": "hi"})
		require.NoError(t, err)
		assert.Equal(t, "hi", result)
	})

	t.Run("unknown tool fails with not found", func(t *testing.T) {
		srv := NewServer("test-server", "test", nil)
		srv.Start()

		_, err := srv.ExecuteTool(context.Background(), "missing", nil)
		require.ErrorIs(t, err, ErrToolNotFound)
	})

	t.Run("capability error passes through unwrapped", func(t *testing.T) {
		boom := errors.New("catalog unavailable")
		srv := NewServer("test-server", "test", nil)
		tool := NewTool("broken", "always fails",
			Schema{"type": "object"},
			func(ctx context.Context, params Params) (any, error) {
				return nil, boom
			},
		)
		require.NoError(t, srv.AddTool(tool))
		srv.Start()

		_, err := srv.ExecuteTool(context.Background(), "broken", nil)
		require.ErrorIs(t, err, boom)
	})

	t.Run("missing required parameter fails before execution", func(t *testing.T) {
		executed := false
		srv := NewServer("test-server", "test", nil)
		tool := NewTool("strict", "requires text",
			Schema{
				"type": "object",
				"properties": map[string]any{
					"text": map[string]any{"type": "string"},
				},
				"required": []any{"text"},
			},
			func(ctx context.Context, params Params) (any, error) {
				executed = true
				return nil, nil
			},
		)
		require.NoError(t, srv.AddTool(tool))
		srv.Start()

		_, err := srv.ExecuteTool(context.Background(), "strict", Params{})
		require.ErrorIs(t, err, ErrInvalidParams)
		assert.False(t, executed, "tool body must not run on invalid params")
	})

	t.Run("wrong parameter type fails validation", func(t *testing.T) {
		srv := NewServer("test-server", "test", nil)
		require.NoError(t, srv.AddTool(echoTool("echo")))
		srv.Start()

		_, err := srv.ExecuteTool(context.Background(), "echo", Params{"text": 42})
		require.ErrorIs(t, err, ErrInvalidParams)
	})
}

func TestServerFetchResource(t *testing.T) {
	t.Run("fetches registered resource", func(t *testing.T) {
		srv := NewServer("test-server", "test", nil)
		require.NoError(t, srv.AddResource(NewResource("data", "static", func(ctx context.Context) (any, error) {
			return Payload{Content: `{"ok":true}`, ContentType: "application/json"}, nil
		})))
		srv.Start()

		result, err := srv.FetchResource(context.Background(), "data")
		require.NoError(t, err)
		payload, ok := result.(Payload)
		require.True(t, ok)
		assert.Equal(t, "application/json", payload.ContentType)
	})

	t.Run("unknown resource fails with not found", func(t *testing.T) {
		srv := NewServer("test-server", "test", nil)
		srv.Start()

		_, err := srv.FetchResource(context.Background(), "missing")
		require.ErrorIs(t, err, ErrResourceNotFound)
	})
}
