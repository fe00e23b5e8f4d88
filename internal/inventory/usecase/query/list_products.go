package query

import (
	"context"
	"fmt"

	"github.com/talalam23/stock-wise/internal/inventory/domain"
)

// ListProductsQuery represents the query to list all products
type ListProductsQuery struct{}

// ListProductsHandler handles list products query
type ListProductsHandler struct {
	store domain.Store
}

// NewListProductsHandler creates a new list products handler
func NewListProductsHandler(store domain.Store) *ListProductsHandler {
	return &ListProductsHandler{store: store}
}

// Handle returns every product ordered by name ascending
func (h *ListProductsHandler) Handle(ctx context.Context, _ ListProductsQuery) ([]domain.Product, error) {
	products, err := h.store.Products().FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}
