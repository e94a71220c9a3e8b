// ABOUTME: Tests for the in-memory catalog: search, filter, and CRUD semantics.
// ABOUTME: Uses the sample product set so expectations mirror the demo data.

package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySearch(t *testing.T) {
	m := NewMemory(Samples()...)
	ctx := context.Background()

	t.Run("matches name case-insensitively", func(t *testing.T) {
		results, err := m.Search(ctx, "airpods")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "AirPods Pro 2", results[0].Name)
	})

	t.Run("matches brand and category", func(t *testing.T) {
		results, err := m.Search(ctx, "apple")
		require.NoError(t, err)
		assert.Len(t, results, 3)

		results, err = m.Search(ctx, "laptop")
		require.NoError(t, err)
		assert.Len(t, results, 2)
	})

	t.Run("no match returns empty", func(t *testing.T) {
		results, err := m.Search(ctx, "toaster")
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestMemoryFilter(t *testing.T) {
	m := NewMemory(Samples()...)
	ctx := context.Background()

	t.Run("max price alone", func(t *testing.T) {
		results, err := m.FilterProducts(ctx, Filter{MaxPrice: 300})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "AirPods Pro 2", results[0].Name)
		assert.Equal(t, 249.99, results[0].Price)
	})

	t.Run("category and brand combine", func(t *testing.T) {
		results, err := m.FilterProducts(ctx, Filter{Category: "laptop", Brand: "Apple"})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "MacBook Pro 16\"", results[0].Name)
	})

	t.Run("empty filter returns everything", func(t *testing.T) {
		results, err := m.FilterProducts(ctx, Filter{})
		require.NoError(t, err)
		assert.Len(t, results, 5)
	})
}

func TestMemoryCRUD(t *testing.T) {
	ctx := context.Background()

	t.Run("get by id", func(t *testing.T) {
		m := NewMemory(Samples()...)
		p, err := m.GetByID(ctx, "5")
		require.NoError(t, err)
		assert.Equal(t, "AirPods Pro 2", p.Name)

		_, err = m.GetByID(ctx, "missing-id")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("add assigns id and timestamps", func(t *testing.T) {
		m := NewMemory()
		p := &Product{Name: "Pixel Buds", Category: "accessory", Brand: "Google", Price: 199.99}
		require.NoError(t, m.Add(ctx, p))
		assert.NotEmpty(t, p.ID)
		assert.False(t, p.CreatedAt.IsZero())

		got, err := m.GetByID(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "Pixel Buds", got.Name)
	})

	t.Run("update preserves created at", func(t *testing.T) {
		m := NewMemory(Samples()...)
		orig, err := m.GetByID(ctx, "1")
		require.NoError(t, err)

		updated := *orig
		updated.Price = 899.99
		require.NoError(t, m.Update(ctx, &updated))

		got, err := m.GetByID(ctx, "1")
		require.NoError(t, err)
		assert.Equal(t, 899.99, got.Price)
		assert.Equal(t, orig.CreatedAt.Unix(), got.CreatedAt.Unix())

		missing := Product{ID: "nope"}
		require.ErrorIs(t, m.Update(ctx, &missing), ErrNotFound)
	})

	t.Run("delete removes product", func(t *testing.T) {
		m := NewMemory(Samples()...)
		require.NoError(t, m.Delete(ctx, "2"))
		_, err := m.GetByID(ctx, "2")
		require.ErrorIs(t, err, ErrNotFound)

		all, err := m.ListAll(ctx)
		require.NoError(t, err)
		assert.Len(t, all, 4)

		require.ErrorIs(t, m.Delete(ctx, "2"), ErrNotFound)
	})
}
