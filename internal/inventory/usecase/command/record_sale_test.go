package command

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/talalam23/stock-wise/internal/inventory/domain"
	"github.com/talalam23/stock-wise/internal/inventory/repository"
)

func TestRecordSaleValidation(t *testing.T) {
	handler := NewRecordSaleHandler(repository.NewMemoryStore())

	cases := []struct {
		name string
		cmd  RecordSaleCommand
	}{
		{"no items", RecordSaleCommand{}},
		{"empty product id", RecordSaleCommand{Items: []SaleItem{{Quantity: 1}}}},
		{"zero quantity", RecordSaleCommand{Items: []SaleItem{{ProductID: "p1", Quantity: 0}}}},
		{"negative quantity", RecordSaleCommand{Items: []SaleItem{{ProductID: "p1", Quantity: -2}}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := handler.Handle(context.Background(), tc.cmd)
			if !domain.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestRecordSaleCommitsAllLines(t *testing.T) {
	store := repository.NewMemoryStore()
	widget := createProduct(t, store, "Widget", "W-1", 2, 10, 5)
	gadget := createProduct(t, store, "Gadget", "G-1", 3, 8, 2)

	result, err := NewRecordSaleHandler(store).Handle(context.Background(), RecordSaleCommand{
		Items: []SaleItem{
			{ProductID: widget.ID, Quantity: 4},
			{ProductID: gadget.ID, Quantity: 2},
		},
	})
	if err != nil {
		t.Fatalf("sale: %v", err)
	}
	if result.ItemCount != 2 || result.TotalQuantity != 6 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(result.Lines) != 2 {
		t.Fatalf("expected 2 committed lines, got %d", len(result.Lines))
	}

	w, _ := store.Products().FindByID(context.Background(), widget.ID)
	g, _ := store.Products().FindByID(context.Background(), gadget.ID)
	if w.Quantity != 6 || g.Quantity != 6 {
		t.Fatalf("expected 6 and 6, got %d and %d", w.Quantity, g.Quantity)
	}

	// Each line carries the committed movement and the post-sale quantity.
	for _, line := range result.Lines {
		if line.MovementID == "" {
			t.Fatalf("line %s: missing movement id", line.ProductID)
		}
		if line.NewQuantity != 6 {
			t.Fatalf("line %s: expected new quantity 6, got %d", line.ProductID, line.NewQuantity)
		}
	}

	for _, p := range []*domain.Product{widget, gadget} {
		movements, _ := store.Movements().FindByProduct(context.Background(), p.ID)
		if len(movements) != 2 {
			t.Fatalf("product %s: expected initial IN plus one OUT, got %d", p.Name, len(movements))
		}
		m := movements[0]
		if m.Type != domain.MovementOut || m.Notes != "Sales Order" {
			t.Fatalf("product %s: unexpected sale movement: %+v", p.Name, m)
		}
	}
}

// One short line must abort the whole order, including lines that could
// have been fulfilled on their own.
func TestRecordSaleAbortsWholeOrderOnShortLine(t *testing.T) {
	store := repository.NewMemoryStore()
	widget := createProduct(t, store, "Widget", "W-1", 2, 10, 5)
	gadget := createProduct(t, store, "Gadget", "G-1", 3, 1, 0)

	_, err := NewRecordSaleHandler(store).Handle(context.Background(), RecordSaleCommand{
		Items: []SaleItem{
			{ProductID: widget.ID, Quantity: 4},
			{ProductID: gadget.ID, Quantity: 5},
		},
	})
	var insufficientErr *domain.InsufficientStockError
	if !errors.As(err, &insufficientErr) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
	if insufficientErr.ProductID != gadget.ID || insufficientErr.Requested != 5 || insufficientErr.Available != 1 {
		t.Fatalf("unexpected error detail: %+v", insufficientErr)
	}

	w, _ := store.Products().FindByID(context.Background(), widget.ID)
	g, _ := store.Products().FindByID(context.Background(), gadget.ID)
	if w.Quantity != 10 || g.Quantity != 1 {
		t.Fatalf("aborted sale must not change quantities, got %d and %d", w.Quantity, g.Quantity)
	}

	for _, p := range []*domain.Product{widget, gadget} {
		movements, _ := store.Movements().FindByProduct(context.Background(), p.ID)
		if len(movements) != 1 {
			t.Fatalf("product %s: aborted sale must not append movements, got %d", p.Name, len(movements))
		}
	}
}

func TestRecordSaleUnknownProduct(t *testing.T) {
	store := repository.NewMemoryStore()
	widget := createProduct(t, store, "Widget", "W-1", 2, 10, 5)

	_, err := NewRecordSaleHandler(store).Handle(context.Background(), RecordSaleCommand{
		Items: []SaleItem{
			{ProductID: widget.ID, Quantity: 1},
			{ProductID: "missing", Quantity: 1},
		},
	})
	if !domain.IsProductNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}

	w, _ := store.Products().FindByID(context.Background(), widget.ID)
	if w.Quantity != 10 {
		t.Fatalf("aborted sale must not change quantities, got %d", w.Quantity)
	}
}

func TestRecordSaleConcurrentOverSharedProducts(t *testing.T) {
	store := repository.NewMemoryStore()
	widget := createProduct(t, store, "Widget", "W-1", 2, 50, 5)
	gadget := createProduct(t, store, "Gadget", "G-1", 3, 50, 5)
	handler := NewRecordSaleHandler(store)

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// Alternate line order so the handler's own ordering is what
			// keeps concurrent orders deadlock-free.
			items := []SaleItem{
				{ProductID: widget.ID, Quantity: 2},
				{ProductID: gadget.ID, Quantity: 2},
			}
			if i%2 == 0 {
				items[0], items[1] = items[1], items[0]
			}
			if _, err := handler.Handle(context.Background(), RecordSaleCommand{Items: items}); err != nil {
				t.Errorf("sale %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	w, _ := store.Products().FindByID(context.Background(), widget.ID)
	g, _ := store.Products().FindByID(context.Background(), gadget.ID)
	if w.Quantity != 0 || g.Quantity != 0 {
		t.Fatalf("expected both drained to 0, got %d and %d", w.Quantity, g.Quantity)
	}
}
