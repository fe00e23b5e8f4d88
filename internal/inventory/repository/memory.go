package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/talalam23/stock-wise/internal/inventory/domain"
)

// MemoryStore is an in-process implementation of domain.Store, used as the
// injectable double in tests and for running without PostgreSQL. The write
// lock is held for the entire atomic unit, so check-then-write sequences
// are trivially serializable; a unit mutates a staged copy of the state
// that is only swapped in when the unit succeeds.
type MemoryStore struct {
	mu    sync.RWMutex
	state *memState
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{state: newMemState()}
}

func (s *MemoryStore) Products() domain.ProductRepository {
	return &lockedProducts{store: s}
}

func (s *MemoryStore) Movements() domain.MovementLedger {
	return &lockedMovements{store: s}
}

func (s *MemoryStore) WithAtomicUnit(ctx context.Context, fn func(domain.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := s.state.clone()
	if err := fn(&stagedStore{state: staged}); err != nil {
		return err
	}
	s.state = staged
	return nil
}

// stagedStore gives an atomic unit unlocked access to its staged state.
// Nested units run in the already-open unit.
type stagedStore struct {
	state *memState
}

func (s *stagedStore) Products() domain.ProductRepository {
	return &stagedProducts{state: s.state}
}

func (s *stagedStore) Movements() domain.MovementLedger {
	return &stagedMovements{state: s.state}
}

func (s *stagedStore) WithAtomicUnit(ctx context.Context, fn func(domain.Store) error) error {
	return fn(s)
}

type memState struct {
	products  map[string]domain.Product
	movements []domain.Movement
}

func newMemState() *memState {
	return &memState{products: make(map[string]domain.Product)}
}

func (st *memState) clone() *memState {
	products := make(map[string]domain.Product, len(st.products))
	for id, p := range st.products {
		products[id] = p
	}
	movements := make([]domain.Movement, len(st.movements))
	copy(movements, st.movements)
	return &memState{products: products, movements: movements}
}

func (st *memState) create(product *domain.Product) error {
	now := time.Now()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now
	st.products[product.ID] = *product
	return nil
}

func (st *memState) findByID(id string) (*domain.Product, error) {
	p, ok := st.products[id]
	if !ok {
		return nil, &domain.ProductNotFoundError{ProductID: id}
	}
	return &p, nil
}

func (st *memState) findBySKU(sku string) (*domain.Product, error) {
	for _, p := range st.products {
		if p.SKU == sku {
			found := p
			return &found, nil
		}
	}
	return nil, &domain.ProductNotFoundError{ProductID: sku}
}

func (st *memState) findAll() []domain.Product {
	products := make([]domain.Product, 0, len(st.products))
	for _, p := range st.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool {
		return products[i].Name < products[j].Name
	})
	return products
}

func (st *memState) adjustQuantity(id string, delta int) (*domain.Product, error) {
	p, ok := st.products[id]
	if !ok {
		return nil, &domain.ProductNotFoundError{ProductID: id}
	}

	next := p.Quantity + delta
	if next < 0 {
		return nil, &domain.InsufficientStockError{
			ProductID: p.ID,
			Name:      p.Name,
			Requested: -delta,
			Available: p.Quantity,
		}
	}

	p.Quantity = next
	p.UpdatedAt = time.Now()
	st.products[id] = p
	return &p, nil
}

func (st *memState) appendMovement(movement *domain.Movement) error {
	if movement.Quantity <= 0 {
		return &domain.ValidationError{Field: "quantity", Reason: "must be a positive integer"}
	}
	if !movement.Type.Valid() {
		return &domain.ValidationError{Field: "type", Reason: "unknown movement type"}
	}
	if movement.CreatedAt.IsZero() {
		movement.CreatedAt = time.Now()
	}
	st.movements = append(st.movements, *movement)
	return nil
}

func (st *memState) recent(n int) []domain.MovementWithProduct {
	rows := make([]domain.MovementWithProduct, 0, n)
	for i := len(st.movements) - 1; i >= 0 && len(rows) < n; i-- {
		m := st.movements[i]
		row := domain.MovementWithProduct{
			ID:        m.ID,
			ProductID: m.ProductID,
			Type:      m.Type,
			Quantity:  m.Quantity,
			Notes:     m.Notes,
			CreatedAt: m.CreatedAt,
		}
		if p, ok := st.products[m.ProductID]; ok {
			row.ProductName = p.Name
			row.ProductSKU = p.SKU
		}
		rows = append(rows, row)
	}
	return rows
}

func (st *memState) findByProduct(productID string) []domain.Movement {
	var movements []domain.Movement
	for i := len(st.movements) - 1; i >= 0; i-- {
		if st.movements[i].ProductID == productID {
			movements = append(movements, st.movements[i])
		}
	}
	return movements
}

func (st *memState) outTotals() map[string]int64 {
	totals := make(map[string]int64)
	for _, m := range st.movements {
		if m.Type == domain.MovementOut {
			totals[m.ProductID] += int64(m.Quantity)
		}
	}
	return totals
}

type lockedProducts struct {
	store *MemoryStore
}

func (r *lockedProducts) Create(ctx context.Context, product *domain.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.state.create(product)
}

func (r *lockedProducts) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.state.findByID(id)
}

func (r *lockedProducts) FindBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.state.findBySKU(sku)
}

func (r *lockedProducts) FindForUpdate(ctx context.Context, id string) (*domain.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.state.findByID(id)
}

func (r *lockedProducts) FindAll(ctx context.Context) ([]domain.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return r.store.state.findAll(), nil
}

func (r *lockedProducts) AdjustQuantity(ctx context.Context, id string, delta int) (*domain.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return r.store.state.adjustQuantity(id, delta)
}

func (r *lockedProducts) Count(ctx context.Context) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return int64(len(r.store.state.products)), nil
}

type lockedMovements struct {
	store *MemoryStore
}

func (l *lockedMovements) Append(ctx context.Context, movement *domain.Movement) error {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()
	return l.store.state.appendMovement(movement)
}

func (l *lockedMovements) Recent(ctx context.Context, n int) ([]domain.MovementWithProduct, error) {
	l.store.mu.RLock()
	defer l.store.mu.RUnlock()
	return l.store.state.recent(n), nil
}

func (l *lockedMovements) FindByProduct(ctx context.Context, productID string) ([]domain.Movement, error) {
	l.store.mu.RLock()
	defer l.store.mu.RUnlock()
	return l.store.state.findByProduct(productID), nil
}

func (l *lockedMovements) OutTotals(ctx context.Context) (map[string]int64, error) {
	l.store.mu.RLock()
	defer l.store.mu.RUnlock()
	return l.store.state.outTotals(), nil
}

type stagedProducts struct {
	state *memState
}

func (r *stagedProducts) Create(ctx context.Context, product *domain.Product) error {
	return r.state.create(product)
}

func (r *stagedProducts) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	return r.state.findByID(id)
}

func (r *stagedProducts) FindBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	return r.state.findBySKU(sku)
}

func (r *stagedProducts) FindForUpdate(ctx context.Context, id string) (*domain.Product, error) {
	return r.state.findByID(id)
}

func (r *stagedProducts) FindAll(ctx context.Context) ([]domain.Product, error) {
	return r.state.findAll(), nil
}

func (r *stagedProducts) AdjustQuantity(ctx context.Context, id string, delta int) (*domain.Product, error) {
	return r.state.adjustQuantity(id, delta)
}

func (r *stagedProducts) Count(ctx context.Context) (int64, error) {
	return int64(len(r.state.products)), nil
}

type stagedMovements struct {
	state *memState
}

func (l *stagedMovements) Append(ctx context.Context, movement *domain.Movement) error {
	return l.state.appendMovement(movement)
}

func (l *stagedMovements) Recent(ctx context.Context, n int) ([]domain.MovementWithProduct, error) {
	return l.state.recent(n), nil
}

func (l *stagedMovements) FindByProduct(ctx context.Context, productID string) ([]domain.Movement, error) {
	return l.state.findByProduct(productID), nil
}

func (l *stagedMovements) OutTotals(ctx context.Context) (map[string]int64, error) {
	return l.state.outTotals(), nil
}
