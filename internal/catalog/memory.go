// ABOUTME: In-memory Catalog used by tests and the local chat REPL.
// ABOUTME: Preserves insertion order so listings and search results are deterministic.

package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Memory is a thread-safe in-memory Catalog.
type Memory struct {
	mu       sync.RWMutex
	products []*Product
	byID     map[string]*Product
}

// NewMemory creates a catalog pre-populated with the given products.
func NewMemory(products ...*Product) *Memory {
	m := &Memory{
		byID: make(map[string]*Product, len(products)),
	}
	for _, p := range products {
		cp := *p
		m.products = append(m.products, &cp)
		m.byID[cp.ID] = &cp
	}
	return m
}

// ListAll returns all products in insertion order.
func (m *Memory) ListAll(ctx context.Context) ([]*Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot(m.products), nil
}

// GetByID returns the product or ErrNotFound.
func (m *Memory) GetByID(ctx context.Context, id string) (*Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	cp := *p
	return &cp, nil
}

// Search returns products matching the free-text query, in insertion order.
func (m *Memory) Search(ctx context.Context, query string) ([]*Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Product
	for _, p := range m.products {
		if matchesQuery(p, query) {
			out = append(out, p)
		}
	}
	return m.snapshot(out), nil
}

// FilterProducts returns products satisfying every set constraint, in insertion order.
func (m *Memory) FilterProducts(ctx context.Context, f Filter) ([]*Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*Product
	for _, p := range m.products {
		if matchesFilter(p, f) {
			out = append(out, p)
		}
	}
	return m.snapshot(out), nil
}

// Add stores a new product, assigning an ID and timestamps when unset.
func (m *Memory) Add(ctx context.Context, p *Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if _, exists := m.byID[p.ID]; exists {
		return fmt.Errorf("product %s already exists", p.ID)
	}
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	cp := *p
	m.products = append(m.products, &cp)
	m.byID[cp.ID] = &cp
	return nil
}

// Update replaces an existing product's fields and bumps UpdatedAt.
func (m *Memory) Update(ctx context.Context, p *Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byID[p.ID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, p.ID)
	}
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = time.Now()
	*existing = *p
	return nil
}

// Delete removes a product by ID.
func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(m.byID, id)
	for i, p := range m.products {
		if p.ID == id {
			m.products = append(m.products[:i], m.products[i+1:]...)
			break
		}
	}
	return nil
}

// snapshot copies products so callers cannot mutate internal state.
func (m *Memory) snapshot(in []*Product) []*Product {
	out := make([]*Product, len(in))
	for i, p := range in {
		cp := *p
		out[i] = &cp
	}
	return out
}
