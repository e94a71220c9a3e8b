// ABOUTME: Database capability server exposing the product catalog to the assistant.
// ABOUTME: Tools for search/filter/lookup plus an all-products resource.

package capabilities

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/zapvendedor/zap-gateway/internal/catalog"
	"github.com/zapvendedor/zap-gateway/internal/mcp"
)

// DatabaseServerName is the routing key for the catalog capability server.
const DatabaseServerName = "database-server"

// Catalog tool and resource names.
const (
	ToolSearchProducts  = "search-products"
	ToolFilterProducts  = "filter-products"
	ToolGetProduct      = "get-product"
	ResourceAllProducts = "all-products"
)

// ProductList is the result shape of the search and filter tools.
type ProductList struct {
	Products []*catalog.Product `json:"products"`
	Count    int                `json:"count"`
}

// NewDatabaseServer builds the catalog capability server. The server is
// returned stopped; the caller owns its lifecycle.
func NewDatabaseServer(c catalog.Catalog, logger *slog.Logger) (*mcp.Server, error) {
	srv := mcp.NewServer(DatabaseServerName, "Provides access to the product database", logger)

	err := srv.AddResource(mcp.NewResource(
		ResourceAllProducts,
		"Get all products in the database",
		func(ctx context.Context) (any, error) {
			products, err := c.ListAll(ctx)
			if err != nil {
				return nil, err
			}
			content, err := json.Marshal(products)
			if err != nil {
				return nil, fmt.Errorf("encoding products: %w", err)
			}
			return mcp.Payload{
				Content:     string(content),
				ContentType: "application/json",
			}, nil
		},
	))
	if err != nil {
		return nil, err
	}

	err = srv.AddTool(mcp.NewTool(
		ToolSearchProducts,
		"Search for products by query",
		mcp.Schema{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "The search query",
				},
			},
			"required": []any{"query"},
		},
		func(ctx context.Context, params mcp.Params) (any, error) {
			products, err := c.Search(ctx, params.String("query", ""))
			if err != nil {
				return nil, err
			}
			return ProductList{Products: products, Count: len(products)}, nil
		},
	))
	if err != nil {
		return nil, err
	}

	err = srv.AddTool(mcp.NewTool(
		ToolFilterProducts,
		"Filter products by category, brand, and/or price",
		mcp.Schema{
			"type": "object",
			"properties": map[string]any{
				"category": map[string]any{
					"type":        "string",
					"description": "The product category",
				},
				"brand": map[string]any{
					"type":        "string",
					"description": "The product brand",
				},
				"maxPrice": map[string]any{
					"type":        "number",
					"description": "The maximum price",
				},
			},
		},
		func(ctx context.Context, params mcp.Params) (any, error) {
			products, err := c.FilterProducts(ctx, catalog.Filter{
				Category: params.String("category", ""),
				Brand:    params.String("brand", ""),
				MaxPrice: params.Number("maxPrice", 0),
			})
			if err != nil {
				return nil, err
			}
			return ProductList{Products: products, Count: len(products)}, nil
		},
	))
	if err != nil {
		return nil, err
	}

	err = srv.AddTool(mcp.NewTool(
		ToolGetProduct,
		"Get a product by ID",
		mcp.Schema{
			"type": "object",
			"properties": map[string]any{
				"id": map[string]any{
					"type":        "string",
					"description": "The product ID",
				},
			},
			"required": []any{"id"},
		},
		func(ctx context.Context, params mcp.Params) (any, error) {
			// catalog.ErrNotFound passes through to the caller untouched
			return c.GetByID(ctx, params.String("id", ""))
		},
	))
	if err != nil {
		return nil, err
	}

	return srv, nil
}
