package command

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/talalam23/stock-wise/internal/inventory/domain"
)

// SaleItem is one order line of a sales order
type SaleItem struct {
	ProductID string
	Quantity  int
}

// RecordSaleCommand represents a multi-product sales order
type RecordSaleCommand struct {
	Items []SaleItem
}

// SaleLine describes one committed order line
type SaleLine struct {
	ProductID   string `json:"product_id"`
	Quantity    int    `json:"quantity"`
	MovementID  string `json:"movement_id"`
	NewQuantity int    `json:"new_quantity"`
}

// SaleResult describes a committed sale
type SaleResult struct {
	ItemCount     int        `json:"item_count"`
	TotalQuantity int        `json:"total_quantity"`
	Lines         []SaleLine `json:"lines"`
}

// RecordSaleHandler commits a sales order as one atomic unit spanning every
// line: all product decrements and OUT movements become visible together,
// or none of them do. Items are locked in product-id order so two
// concurrent sales over the same products cannot deadlock.
type RecordSaleHandler struct {
	store domain.Store
}

// NewRecordSaleHandler creates a new record sale handler
func NewRecordSaleHandler(store domain.Store) *RecordSaleHandler {
	return &RecordSaleHandler{store: store}
}

// Handle executes the sales order
func (h *RecordSaleHandler) Handle(ctx context.Context, cmd RecordSaleCommand) (*SaleResult, error) {
	if len(cmd.Items) == 0 {
		return nil, &domain.ValidationError{Field: "items", Reason: "at least one item is required"}
	}
	for _, item := range cmd.Items {
		if item.ProductID == "" {
			return nil, &domain.ValidationError{Field: "product_id", Reason: "is required"}
		}
		if item.Quantity <= 0 {
			return nil, &domain.ValidationError{Field: "quantity", Reason: "must be a positive integer"}
		}
	}

	items := make([]SaleItem, len(cmd.Items))
	copy(items, cmd.Items)
	sort.Slice(items, func(i, j int) bool {
		return items[i].ProductID < items[j].ProductID
	})

	result := &SaleResult{}
	err := h.store.WithAtomicUnit(ctx, func(tx domain.Store) error {
		// Check every line before touching any quantity, holding the lock
		// on each product for the remainder of the unit.
		for _, item := range items {
			product, err := tx.Products().FindForUpdate(ctx, item.ProductID)
			if err != nil {
				return err
			}
			if product.Quantity < item.Quantity {
				return &domain.InsufficientStockError{
					ProductID: product.ID,
					Name:      product.Name,
					Requested: item.Quantity,
					Available: product.Quantity,
				}
			}
		}

		for _, item := range items {
			product, err := tx.Products().AdjustQuantity(ctx, item.ProductID, -item.Quantity)
			if err != nil {
				return err
			}
			movement := &domain.Movement{
				ID:        uuid.NewString(),
				ProductID: item.ProductID,
				Type:      domain.MovementOut,
				Quantity:  item.Quantity,
				Notes:     "Sales Order",
			}
			if err := tx.Movements().Append(ctx, movement); err != nil {
				return fmt.Errorf("failed to append sale movement: %w", err)
			}
			result.ItemCount++
			result.TotalQuantity += item.Quantity
			result.Lines = append(result.Lines, SaleLine{
				ProductID:   item.ProductID,
				Quantity:    item.Quantity,
				MovementID:  movement.ID,
				NewQuantity: product.Quantity,
			})
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
