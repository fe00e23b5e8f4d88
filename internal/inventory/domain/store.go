package domain

import "context"

// ProductRepository defines the contract for product data access.
// AdjustQuantity and FindForUpdate must only be called inside an atomic
// unit owned by a command handler.
type ProductRepository interface {
	Create(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id string) (*Product, error)
	FindBySKU(ctx context.Context, sku string) (*Product, error)
	// FindForUpdate locks the product row for the remainder of the
	// current atomic unit.
	FindForUpdate(ctx context.Context, id string) (*Product, error)
	// FindAll returns every product ordered by name ascending.
	FindAll(ctx context.Context) ([]Product, error)
	// AdjustQuantity applies a signed delta to the product quantity and
	// fails with *InsufficientStockError when the result would be negative,
	// leaving state unchanged.
	AdjustQuantity(ctx context.Context, id string, delta int) (*Product, error)
	Count(ctx context.Context) (int64, error)
}

// MovementLedger defines the contract for the append-only stock-change log.
// There are no update or delete operations.
type MovementLedger interface {
	// Append records a movement. Quantity must be a positive integer.
	Append(ctx context.Context, movement *Movement) error
	// Recent returns the newest n movements, newest first, joined with
	// product identity for display.
	Recent(ctx context.Context, n int) ([]MovementWithProduct, error)
	FindByProduct(ctx context.Context, productID string) ([]Movement, error)
	// OutTotals returns the summed OUT quantity per product id.
	OutTotals(ctx context.Context) (map[string]int64, error)
}

// Store groups the repositories behind a single transactional boundary.
// All repository operations performed through the Store handed to the
// WithAtomicUnit callback are committed or rolled back as one unit.
type Store interface {
	Products() ProductRepository
	Movements() MovementLedger
	WithAtomicUnit(ctx context.Context, fn func(Store) error) error
}
