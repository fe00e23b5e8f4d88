package command

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/talalam23/stock-wise/internal/inventory/domain"
)

// UpdateStockCommand represents a single-product stock adjustment.
// Amount is a positive magnitude; direction comes from Type.
type UpdateStockCommand struct {
	ProductID string
	Amount    int
	Type      domain.MovementType
	Notes     string
}

// UpdateStockHandler applies one stock adjustment and its ledger entry as
// an atomic unit. On any failure neither the quantity change nor the
// movement becomes visible.
type UpdateStockHandler struct {
	store domain.Store
}

// NewUpdateStockHandler creates a new update stock handler
func NewUpdateStockHandler(store domain.Store) *UpdateStockHandler {
	return &UpdateStockHandler{store: store}
}

// Handle executes the stock adjustment, returning the updated product and
// the movement that recorded it
func (h *UpdateStockHandler) Handle(ctx context.Context, cmd UpdateStockCommand) (*domain.Product, *domain.Movement, error) {
	if cmd.ProductID == "" {
		return nil, nil, &domain.ValidationError{Field: "product_id", Reason: "is required"}
	}
	if cmd.Amount <= 0 {
		return nil, nil, &domain.ValidationError{Field: "amount", Reason: "must be a positive integer"}
	}
	if !cmd.Type.Valid() {
		return nil, nil, &domain.ValidationError{Field: "type", Reason: "must be IN, OUT or ADJUSTMENT"}
	}

	var updated *domain.Product
	var recorded *domain.Movement
	err := h.store.WithAtomicUnit(ctx, func(tx domain.Store) error {
		product, err := tx.Products().AdjustQuantity(ctx, cmd.ProductID, cmd.Type.SignedDelta(cmd.Amount))
		if err != nil {
			return err
		}

		movement := &domain.Movement{
			ID:        uuid.NewString(),
			ProductID: product.ID,
			Type:      cmd.Type,
			Quantity:  cmd.Amount,
			Notes:     cmd.Notes,
		}
		if err := tx.Movements().Append(ctx, movement); err != nil {
			return fmt.Errorf("failed to append movement: %w", err)
		}

		updated = product
		recorded = movement
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return updated, recorded, nil
}
