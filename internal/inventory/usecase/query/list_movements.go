package query

import (
	"context"
	"fmt"

	"github.com/talalam23/stock-wise/internal/inventory/domain"
)

// ListMovementsQuery represents the query for a product's movement history
type ListMovementsQuery struct {
	ProductID string
}

// ListMovementsHandler handles the movement history query
type ListMovementsHandler struct {
	store domain.Store
}

// NewListMovementsHandler creates a new list movements handler
func NewListMovementsHandler(store domain.Store) *ListMovementsHandler {
	return &ListMovementsHandler{store: store}
}

// Handle returns a product's movements, newest first
func (h *ListMovementsHandler) Handle(ctx context.Context, q ListMovementsQuery) ([]domain.Movement, error) {
	if q.ProductID == "" {
		return nil, &domain.ValidationError{Field: "product_id", Reason: "is required"}
	}

	if _, err := h.store.Products().FindByID(ctx, q.ProductID); err != nil {
		return nil, err
	}

	movements, err := h.store.Movements().FindByProduct(ctx, q.ProductID)
	if err != nil {
		return nil, fmt.Errorf("failed to list movements: %w", err)
	}
	return movements, nil
}
