package command

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/talalam23/stock-wise/internal/inventory/domain"
)

// CreateProductCommand represents the command to register a new product
type CreateProductCommand struct {
	Name     string
	SKU      string
	Price    float64
	Quantity int
	MinLevel int
}

// CreateProductHandler handles product registration. The product row and
// its initial IN movement are committed as one atomic unit.
type CreateProductHandler struct {
	store domain.Store
}

// NewCreateProductHandler creates a new create product handler
func NewCreateProductHandler(store domain.Store) *CreateProductHandler {
	return &CreateProductHandler{store: store}
}

// Handle executes the create product command. The returned movement is the
// initial stock entry, nil when the product was registered empty.
func (h *CreateProductHandler) Handle(ctx context.Context, cmd CreateProductCommand) (*domain.Product, *domain.Movement, error) {
	if cmd.Name == "" {
		return nil, nil, &domain.ValidationError{Field: "name", Reason: "is required"}
	}
	if cmd.SKU == "" {
		return nil, nil, &domain.ValidationError{Field: "sku", Reason: "is required"}
	}
	if cmd.Price < 0 {
		return nil, nil, &domain.ValidationError{Field: "price", Reason: "cannot be negative"}
	}
	if cmd.Quantity < 0 {
		return nil, nil, &domain.ValidationError{Field: "quantity", Reason: "cannot be negative"}
	}
	if cmd.MinLevel < 0 {
		return nil, nil, &domain.ValidationError{Field: "min_level", Reason: "cannot be negative"}
	}

	var created *domain.Product
	var initial *domain.Movement
	err := h.store.WithAtomicUnit(ctx, func(tx domain.Store) error {
		if _, err := tx.Products().FindBySKU(ctx, cmd.SKU); err == nil {
			return &domain.DuplicateSKUError{SKU: cmd.SKU}
		} else if !domain.IsProductNotFound(err) {
			return fmt.Errorf("failed to check SKU: %w", err)
		}

		product := &domain.Product{
			ID:       uuid.NewString(),
			Name:     cmd.Name,
			SKU:      cmd.SKU,
			Price:    cmd.Price,
			Quantity: cmd.Quantity,
			MinLevel: cmd.MinLevel,
		}
		if err := tx.Products().Create(ctx, product); err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}

		// Movements carry a positive magnitude, so a product registered
		// empty starts with a bare ledger.
		if cmd.Quantity > 0 {
			movement := &domain.Movement{
				ID:        uuid.NewString(),
				ProductID: product.ID,
				Type:      domain.MovementIn,
				Quantity:  cmd.Quantity,
				Notes:     "Initial Stock",
			}
			if err := tx.Movements().Append(ctx, movement); err != nil {
				return fmt.Errorf("failed to record initial stock: %w", err)
			}
			initial = movement
		}

		created = product
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return created, initial, nil
}
