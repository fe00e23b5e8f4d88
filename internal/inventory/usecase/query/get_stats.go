package query

import (
	"context"
	"fmt"

	"github.com/talalam23/stock-wise/internal/inventory/domain"
)

// recentMovementLimit is the number of movements shown on the dashboard
const recentMovementLimit = 5

// GetStatsQuery represents the query for the dashboard aggregates
type GetStatsQuery struct{}

// DashboardStats is a read-only aggregate view derived from the current
// products and the movement ledger. Revenue is recomputed from each
// product's current price, not the price at sale time.
type DashboardStats struct {
	TotalValue      float64                      `json:"total_value"`
	TotalRevenue    float64                      `json:"total_revenue"`
	LowStockCount   int64                        `json:"low_stock_count"`
	ProductCount    int64                        `json:"product_count"`
	RecentMovements []domain.MovementWithProduct `json:"recent_movements"`
}

// GetStatsHandler handles the dashboard stats query. It never mutates
// state and degrades to zero values on an empty product set.
type GetStatsHandler struct {
	store domain.Store
}

// NewGetStatsHandler creates a new get stats handler
func NewGetStatsHandler(store domain.Store) *GetStatsHandler {
	return &GetStatsHandler{store: store}
}

// Handle executes the get stats query
func (h *GetStatsHandler) Handle(ctx context.Context, _ GetStatsQuery) (*DashboardStats, error) {
	products, err := h.store.Products().FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	outTotals, err := h.store.Movements().OutTotals(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to sum movements: %w", err)
	}

	stats := &DashboardStats{
		ProductCount:    int64(len(products)),
		RecentMovements: []domain.MovementWithProduct{},
	}
	for _, product := range products {
		stats.TotalValue += product.Price * float64(product.Quantity)
		stats.TotalRevenue += product.Price * float64(outTotals[product.ID])
		if product.IsLowStock() {
			stats.LowStockCount++
		}
	}

	recent, err := h.store.Movements().Recent(ctx, recentMovementLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent movements: %w", err)
	}
	if recent != nil {
		stats.RecentMovements = recent
	}

	return stats, nil
}
