package query

import (
	"context"

	"github.com/talalam23/stock-wise/internal/inventory/domain"
)

// GetProductQuery represents the query to get a product by ID
type GetProductQuery struct {
	ID string
}

// GetProductHandler handles get product query
type GetProductHandler struct {
	store domain.Store
}

// NewGetProductHandler creates a new get product handler
func NewGetProductHandler(store domain.Store) *GetProductHandler {
	return &GetProductHandler{store: store}
}

// Handle executes the get product query
func (h *GetProductHandler) Handle(ctx context.Context, q GetProductQuery) (*domain.Product, error) {
	if q.ID == "" {
		return nil, &domain.ValidationError{Field: "id", Reason: "is required"}
	}
	return h.store.Products().FindByID(ctx, q.ID)
}
