// ABOUTME: Product model and the Catalog interface the capability servers consume.
// ABOUTME: Defines search/filter semantics shared by the memory and SQLite backends.

package catalog

import (
	"context"
	"errors"
	"strings"
	"time"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product is a single catalog entry.
type Product struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	Category       string            `json:"category"`
	Brand          string            `json:"brand"`
	Description    string            `json:"description"`
	Price          float64           `json:"price"`
	Stock          int               `json:"stock"`
	Specifications map[string]string `json:"specifications,omitempty"`
	ImageURL       string            `json:"imageUrl,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

// Filter narrows a product listing. Zero values mean "no constraint";
// MaxPrice of 0 places no price bound.
type Filter struct {
	Category string
	Brand    string
	MaxPrice float64
}

// Catalog is the product collaborator behind the database capability server
// and the admin API.
type Catalog interface {
	ListAll(ctx context.Context) ([]*Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	Search(ctx context.Context, query string) ([]*Product, error)
	FilterProducts(ctx context.Context, f Filter) ([]*Product, error)

	Add(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
}

// matchesQuery reports whether the product matches a free-text query.
// Matching is a case-insensitive substring check across name, description,
// brand, and category.
func matchesQuery(p *Product, query string) bool {
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(p.Name), q) ||
		strings.Contains(strings.ToLower(p.Description), q) ||
		strings.Contains(strings.ToLower(p.Brand), q) ||
		strings.Contains(strings.ToLower(p.Category), q)
}

// matchesFilter reports whether the product satisfies every set constraint.
func matchesFilter(p *Product, f Filter) bool {
	if f.Category != "" && !strings.EqualFold(p.Category, f.Category) {
		return false
	}
	if f.Brand != "" && !strings.EqualFold(p.Brand, f.Brand) {
		return false
	}
	if f.MaxPrice > 0 && p.Price > f.MaxPrice {
		return false
	}
	return true
}
