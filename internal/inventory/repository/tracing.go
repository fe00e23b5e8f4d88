package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/talalam23/stock-wise/internal/inventory/domain"
)

var tracer = otel.Tracer("inventory-store")

// TracingStore wraps a domain.Store with OpenTelemetry spans
type TracingStore struct {
	inner domain.Store
}

func NewTracingStore(inner domain.Store) *TracingStore {
	return &TracingStore{inner: inner}
}

func (s *TracingStore) Products() domain.ProductRepository {
	return &tracingProducts{inner: s.inner.Products()}
}

func (s *TracingStore) Movements() domain.MovementLedger {
	return &tracingMovements{inner: s.inner.Movements()}
}

func (s *TracingStore) WithAtomicUnit(ctx context.Context, fn func(domain.Store) error) error {
	ctx, span := tracer.Start(ctx, "store.WithAtomicUnit")
	defer span.End()

	err := s.inner.WithAtomicUnit(ctx, func(tx domain.Store) error {
		return fn(&TracingStore{inner: tx})
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

type tracingProducts struct {
	inner domain.ProductRepository
}

func (r *tracingProducts) Create(ctx context.Context, product *domain.Product) error {
	ctx, span := tracer.Start(ctx, "products.Create",
		trace.WithAttributes(
			attribute.String("product.id", product.ID),
			attribute.String("product.sku", product.SKU),
		),
	)
	defer span.End()
	return recordErr(span, r.inner.Create(ctx, product))
}

func (r *tracingProducts) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	ctx, span := tracer.Start(ctx, "products.FindByID",
		trace.WithAttributes(attribute.String("product.id", id)),
	)
	defer span.End()

	product, err := r.inner.FindByID(ctx, id)
	return product, recordErr(span, err)
}

func (r *tracingProducts) FindBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	ctx, span := tracer.Start(ctx, "products.FindBySKU",
		trace.WithAttributes(attribute.String("product.sku", sku)),
	)
	defer span.End()

	product, err := r.inner.FindBySKU(ctx, sku)
	return product, recordErr(span, err)
}

func (r *tracingProducts) FindForUpdate(ctx context.Context, id string) (*domain.Product, error) {
	ctx, span := tracer.Start(ctx, "products.FindForUpdate",
		trace.WithAttributes(attribute.String("product.id", id)),
	)
	defer span.End()

	product, err := r.inner.FindForUpdate(ctx, id)
	return product, recordErr(span, err)
}

func (r *tracingProducts) FindAll(ctx context.Context) ([]domain.Product, error) {
	ctx, span := tracer.Start(ctx, "products.FindAll")
	defer span.End()

	products, err := r.inner.FindAll(ctx)
	if err == nil {
		span.SetAttributes(attribute.Int("result.count", len(products)))
	}
	return products, recordErr(span, err)
}

func (r *tracingProducts) AdjustQuantity(ctx context.Context, id string, delta int) (*domain.Product, error) {
	ctx, span := tracer.Start(ctx, "products.AdjustQuantity",
		trace.WithAttributes(
			attribute.String("product.id", id),
			attribute.Int("quantity.delta", delta),
		),
	)
	defer span.End()

	product, err := r.inner.AdjustQuantity(ctx, id, delta)
	if err == nil {
		span.SetAttributes(attribute.Int("quantity.new_value", product.Quantity))
	}
	return product, recordErr(span, err)
}

func (r *tracingProducts) Count(ctx context.Context) (int64, error) {
	ctx, span := tracer.Start(ctx, "products.Count")
	defer span.End()

	count, err := r.inner.Count(ctx)
	return count, recordErr(span, err)
}

type tracingMovements struct {
	inner domain.MovementLedger
}

func (l *tracingMovements) Append(ctx context.Context, movement *domain.Movement) error {
	ctx, span := tracer.Start(ctx, "movements.Append",
		trace.WithAttributes(
			attribute.String("movement.product_id", movement.ProductID),
			attribute.String("movement.type", string(movement.Type)),
			attribute.Int("movement.quantity", movement.Quantity),
		),
	)
	defer span.End()
	return recordErr(span, l.inner.Append(ctx, movement))
}

func (l *tracingMovements) Recent(ctx context.Context, n int) ([]domain.MovementWithProduct, error) {
	ctx, span := tracer.Start(ctx, "movements.Recent",
		trace.WithAttributes(attribute.Int("query.limit", n)),
	)
	defer span.End()

	movements, err := l.inner.Recent(ctx, n)
	return movements, recordErr(span, err)
}

func (l *tracingMovements) FindByProduct(ctx context.Context, productID string) ([]domain.Movement, error) {
	ctx, span := tracer.Start(ctx, "movements.FindByProduct",
		trace.WithAttributes(attribute.String("movement.product_id", productID)),
	)
	defer span.End()

	movements, err := l.inner.FindByProduct(ctx, productID)
	return movements, recordErr(span, err)
}

func (l *tracingMovements) OutTotals(ctx context.Context) (map[string]int64, error) {
	ctx, span := tracer.Start(ctx, "movements.OutTotals")
	defer span.End()

	totals, err := l.inner.OutTotals(ctx)
	return totals, recordErr(span, err)
}

func recordErr(span trace.Span, err error) error {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
