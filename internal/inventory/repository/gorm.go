package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/talalam23/stock-wise/internal/inventory/domain"
)

// GormStore is the PostgreSQL-backed implementation of domain.Store.
// Atomic units map to database transactions; concurrent check-then-write
// sequences against the same product are serialized by row locks.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) AutoMigrate() error {
	return s.db.AutoMigrate(&domain.Product{}, &domain.Movement{})
}

func (s *GormStore) Products() domain.ProductRepository {
	return &gormProductRepository{db: s.db}
}

func (s *GormStore) Movements() domain.MovementLedger {
	return &gormMovementLedger{db: s.db}
}

// WithAtomicUnit runs fn inside a database transaction. Any error returned
// by fn rolls back every write performed through the Store it receives.
func (s *GormStore) WithAtomicUnit(ctx context.Context, fn func(domain.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

type gormProductRepository struct {
	db *gorm.DB
}

func (r *gormProductRepository) Create(ctx context.Context, product *domain.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *gormProductRepository) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &domain.ProductNotFoundError{ProductID: id}
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *gormProductRepository) FindBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).Where("sku = ?", sku).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &domain.ProductNotFoundError{ProductID: sku}
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *gormProductRepository) FindForUpdate(ctx context.Context, id string) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, &domain.ProductNotFoundError{ProductID: id}
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *gormProductRepository) FindAll(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	err := r.db.WithContext(ctx).Order("name asc").Find(&products).Error
	return products, err
}

func (r *gormProductRepository) AdjustQuantity(ctx context.Context, id string, delta int) (*domain.Product, error) {
	product, err := r.FindForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}

	next := product.Quantity + delta
	if next < 0 {
		return nil, &domain.InsufficientStockError{
			ProductID: product.ID,
			Name:      product.Name,
			Requested: -delta,
			Available: product.Quantity,
		}
	}

	res := r.db.WithContext(ctx).Model(&domain.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"quantity":   next,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to adjust quantity: %w", res.Error)
	}

	product.Quantity = next
	return product, nil
}

func (r *gormProductRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Product{}).Count(&count).Error
	return count, err
}

type gormMovementLedger struct {
	db *gorm.DB
}

func (l *gormMovementLedger) Append(ctx context.Context, movement *domain.Movement) error {
	if movement.Quantity <= 0 {
		return &domain.ValidationError{Field: "quantity", Reason: "must be a positive integer"}
	}
	if !movement.Type.Valid() {
		return &domain.ValidationError{Field: "type", Reason: "unknown movement type"}
	}
	if movement.CreatedAt.IsZero() {
		movement.CreatedAt = time.Now()
	}
	return l.db.WithContext(ctx).Create(movement).Error
}

func (l *gormMovementLedger) Recent(ctx context.Context, n int) ([]domain.MovementWithProduct, error) {
	var rows []domain.MovementWithProduct
	err := l.db.WithContext(ctx).Table("movements").
		Select("movements.id, movements.product_id, movements.type, movements.quantity, movements.notes, movements.created_at, products.name AS product_name, products.sku AS product_sku").
		Joins("JOIN products ON products.id = movements.product_id").
		Order("movements.created_at DESC").
		Limit(n).
		Scan(&rows).Error
	return rows, err
}

func (l *gormMovementLedger) FindByProduct(ctx context.Context, productID string) ([]domain.Movement, error) {
	var movements []domain.Movement
	err := l.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&movements).Error
	return movements, err
}

func (l *gormMovementLedger) OutTotals(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		ProductID string
		Total     int64
	}
	err := l.db.WithContext(ctx).Table("movements").
		Select("product_id, SUM(quantity) AS total").
		Where("type = ?", domain.MovementOut).
		Group("product_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	totals := make(map[string]int64, len(rows))
	for _, row := range rows {
		totals[row.ProductID] = row.Total
	}
	return totals, nil
}
