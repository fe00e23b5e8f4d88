package command

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/talalam23/stock-wise/internal/inventory/domain"
	"github.com/talalam23/stock-wise/internal/inventory/repository"
)

func createProduct(t *testing.T, store domain.Store, name, sku string, price float64, quantity, minLevel int) *domain.Product {
	t.Helper()
	product, _, err := NewCreateProductHandler(store).Handle(context.Background(), CreateProductCommand{
		Name: name, SKU: sku, Price: price, Quantity: quantity, MinLevel: minLevel,
	})
	if err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	return product
}

func TestUpdateStockValidation(t *testing.T) {
	handler := NewUpdateStockHandler(repository.NewMemoryStore())

	cases := []struct {
		name string
		cmd  UpdateStockCommand
	}{
		{"empty product id", UpdateStockCommand{Amount: 1, Type: domain.MovementIn}},
		{"zero amount", UpdateStockCommand{ProductID: "p1", Amount: 0, Type: domain.MovementIn}},
		{"negative amount", UpdateStockCommand{ProductID: "p1", Amount: -3, Type: domain.MovementOut}},
		{"unknown type", UpdateStockCommand{ProductID: "p1", Amount: 1, Type: "SALE"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := handler.Handle(context.Background(), tc.cmd)
			if !domain.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestUpdateStockOutDecrementsAndRecords(t *testing.T) {
	store := repository.NewMemoryStore()
	product := createProduct(t, store, "Widget", "W-1", 2, 10, 5)

	updated, movement, err := NewUpdateStockHandler(store).Handle(context.Background(), UpdateStockCommand{
		ProductID: product.ID, Amount: 3, Type: domain.MovementOut, Notes: "Damaged",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Quantity != 7 {
		t.Fatalf("expected quantity 7, got %d", updated.Quantity)
	}
	if movement == nil || movement.Type != domain.MovementOut || movement.Quantity != 3 || movement.Notes != "Damaged" {
		t.Fatalf("unexpected returned movement: %+v", movement)
	}

	movements, _ := store.Movements().FindByProduct(context.Background(), product.ID)
	if len(movements) != 2 {
		t.Fatalf("expected initial IN plus one OUT, got %d movements", len(movements))
	}
	if movements[0].ID != movement.ID {
		t.Fatalf("returned movement %s does not match the ledger entry %s", movement.ID, movements[0].ID)
	}
}

func TestUpdateStockInsufficientLeavesLedgerUntouched(t *testing.T) {
	store := repository.NewMemoryStore()
	product := createProduct(t, store, "Widget", "W-1", 2, 7, 5)

	_, _, err := NewUpdateStockHandler(store).Handle(context.Background(), UpdateStockCommand{
		ProductID: product.ID, Amount: 20, Type: domain.MovementOut,
	})
	var insufficientErr *domain.InsufficientStockError
	if !errors.As(err, &insufficientErr) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
	if insufficientErr.Requested != 20 || insufficientErr.Available != 7 {
		t.Fatalf("unexpected error detail: %+v", insufficientErr)
	}

	p, _ := store.Products().FindByID(context.Background(), product.ID)
	if p.Quantity != 7 {
		t.Fatalf("failed update must not change quantity, got %d", p.Quantity)
	}
	movements, _ := store.Movements().FindByProduct(context.Background(), product.ID)
	if len(movements) != 1 {
		t.Fatalf("failed update must not append a movement, got %d", len(movements))
	}
}

func TestUpdateStockUnknownProduct(t *testing.T) {
	store := repository.NewMemoryStore()
	_, _, err := NewUpdateStockHandler(store).Handle(context.Background(), UpdateStockCommand{
		ProductID: "missing", Amount: 1, Type: domain.MovementIn,
	})
	if !domain.IsProductNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

// Two concurrent OUT adjustments against a single unit of stock: exactly
// one may win.
func TestUpdateStockConcurrentLastUnit(t *testing.T) {
	store := repository.NewMemoryStore()
	product := createProduct(t, store, "Widget", "W-1", 2, 1, 0)
	handler := NewUpdateStockHandler(store)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = handler.Handle(context.Background(), UpdateStockCommand{
				ProductID: product.ID, Amount: 1, Type: domain.MovementOut,
			})
		}(i)
	}
	wg.Wait()

	var successes, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case domain.IsInsufficientStock(err):
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 || insufficient != 1 {
		t.Fatalf("expected exactly one winner, got %d successes and %d rejections", successes, insufficient)
	}

	p, _ := store.Products().FindByID(context.Background(), product.ID)
	if p.Quantity != 0 {
		t.Fatalf("expected quantity 0, got %d", p.Quantity)
	}
	movements, _ := store.Movements().FindByProduct(context.Background(), product.ID)
	if len(movements) != 2 {
		t.Fatalf("expected initial IN plus one OUT, got %d movements", len(movements))
	}
}
