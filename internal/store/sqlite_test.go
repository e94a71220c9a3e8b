// ABOUTME: Tests for the SQLite store: message log, conversation summaries, product CRUD.
// ABOUTME: Each test opens a fresh database under t.TempDir().

package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapvendedor/zap-gateway/internal/catalog"
)

func createTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewSQLiteStore(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteMessages(t *testing.T) {
	ctx := context.Background()

	t.Run("save and read back in order", func(t *testing.T) {
		s := createTestStore(t)
		base := time.Now().Add(-time.Hour)
		for i := 0; i < 4; i++ {
			role := RoleUser
			if i%2 == 1 {
				role = RoleAssistant
			}
			require.NoError(t, s.SaveMessage(ctx, &Message{
				PhoneNumber: "+5511999990000",
				Role:        role,
				Content:     fmt.Sprintf("message %d", i),
				CreatedAt:   base.Add(time.Duration(i) * time.Second),
			}))
		}

		msgs, err := s.History(ctx, "+5511999990000", 0)
		require.NoError(t, err)
		require.Len(t, msgs, 4)
		assert.Equal(t, "message 0", msgs[0].Content)
		assert.Equal(t, "message 3", msgs[3].Content)
		assert.Equal(t, RoleAssistant, msgs[3].Role)
	})

	t.Run("limit returns the most recent messages chronologically", func(t *testing.T) {
		s := createTestStore(t)
		base := time.Now().Add(-time.Hour)
		for i := 0; i < 6; i++ {
			require.NoError(t, s.SaveMessage(ctx, &Message{
				PhoneNumber: "+1555",
				Role:        RoleUser,
				Content:     fmt.Sprintf("m%d", i),
				CreatedAt:   base.Add(time.Duration(i) * time.Second),
			}))
		}

		msgs, err := s.History(ctx, "+1555", 2)
		require.NoError(t, err)
		require.Len(t, msgs, 2)
		assert.Equal(t, "m4", msgs[0].Content)
		assert.Equal(t, "m5", msgs[1].Content)
	})

	t.Run("histories are isolated by phone number", func(t *testing.T) {
		s := createTestStore(t)
		require.NoError(t, s.SaveMessage(ctx, &Message{PhoneNumber: "+1", Role: RoleUser, Content: "a"}))
		require.NoError(t, s.SaveMessage(ctx, &Message{PhoneNumber: "+2", Role: RoleUser, Content: "b"}))

		msgs, err := s.History(ctx, "+1", 0)
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		assert.Equal(t, "a", msgs[0].Content)
	})

	t.Run("list conversations summarizes per phone", func(t *testing.T) {
		s := createTestStore(t)
		now := time.Now()
		require.NoError(t, s.SaveMessage(ctx, &Message{PhoneNumber: "+1", Role: RoleUser, Content: "a", CreatedAt: now.Add(-time.Minute)}))
		require.NoError(t, s.SaveMessage(ctx, &Message{PhoneNumber: "+1", Role: RoleAssistant, Content: "b", CreatedAt: now.Add(-30 * time.Second)}))
		require.NoError(t, s.SaveMessage(ctx, &Message{PhoneNumber: "+2", Role: RoleUser, Content: "c", CreatedAt: now}))

		convs, err := s.ListConversations(ctx)
		require.NoError(t, err)
		require.Len(t, convs, 2)
		assert.Equal(t, "+2", convs[0].PhoneNumber)
		assert.Equal(t, "+1", convs[1].PhoneNumber)
		assert.Equal(t, 2, convs[1].MessageCount)
		// Aggregated timestamps round-trip through the text column.
		assert.WithinDuration(t, now, convs[0].LastMessageAt, time.Second)
		assert.WithinDuration(t, now.Add(-30*time.Second), convs[1].LastMessageAt, time.Second)
	})
}

func TestSQLiteProducts(t *testing.T) {
	ctx := context.Background()

	t.Run("empty database is seeded with samples", func(t *testing.T) {
		s := createTestStore(t)
		all, err := s.ListAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 5)
	})

	t.Run("search matches across fields", func(t *testing.T) {
		s := createTestStore(t)
		results, err := s.Search(ctx, "headphones")
		require.NoError(t, err)
		assert.Empty(t, results)

		results, err = s.Search(ctx, "earbuds")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "AirPods Pro 2", results[0].Name)
	})

	t.Run("filter by max price", func(t *testing.T) {
		s := createTestStore(t)
		results, err := s.FilterProducts(ctx, catalog.Filter{MaxPrice: 300})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "AirPods Pro 2", results[0].Name)
	})

	t.Run("get missing product returns not found", func(t *testing.T) {
		s := createTestStore(t)
		_, err := s.GetByID(ctx, "missing-id")
		require.ErrorIs(t, err, catalog.ErrNotFound)
	})

	t.Run("specifications round-trip", func(t *testing.T) {
		s := createTestStore(t)
		p, err := s.GetByID(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, "A17 Pro", p.Specifications["processor"])
	})

	t.Run("crud cycle", func(t *testing.T) {
		s := createTestStore(t)
		p := &catalog.Product{
			Name:           "Pixel 9",
			Category:       "phone",
			Brand:          "Google",
			Description:    "Google's flagship phone.",
			Price:          799.99,
			Stock:          25,
			Specifications: map[string]string{"os": "Android 15"},
		}
		require.NoError(t, s.Add(ctx, p))
		require.NotEmpty(t, p.ID)

		p.Price = 749.99
		require.NoError(t, s.Update(ctx, p))

		got, err := s.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 749.99, got.Price)

		require.NoError(t, s.Delete(ctx, p.ID))
		_, err = s.GetByID(ctx, p.ID)
		require.ErrorIs(t, err, catalog.ErrNotFound)

		require.ErrorIs(t, s.Update(ctx, p), catalog.ErrNotFound)
		require.ErrorIs(t, s.Delete(ctx, p.ID), catalog.ErrNotFound)
	})
}
