//go:build wireinject
// +build wireinject

package inventory

import (
	"github.com/google/wire"
	"gorm.io/gorm"

	"github.com/talalam23/stock-wise/internal/inventory/cache"
	httpDelivery "github.com/talalam23/stock-wise/internal/inventory/delivery/http"
	"github.com/talalam23/stock-wise/internal/inventory/domain"
	"github.com/talalam23/stock-wise/internal/inventory/repository"
	"github.com/talalam23/stock-wise/internal/inventory/usecase/command"
	"github.com/talalam23/stock-wise/internal/inventory/usecase/query"
	"github.com/talalam23/stock-wise/internal/report"
	"github.com/talalam23/stock-wise/kafka"
)

// ProvideStore provides the traced GORM-backed store
func ProvideStore(db *gorm.DB) domain.Store {
	return repository.NewTracingStore(repository.NewGormStore(db))
}

// Wire sets
var StoreSet = wire.NewSet(
	ProvideStore,
)

var HandlerSet = wire.NewSet(
	command.NewCreateProductHandler,
	command.NewUpdateStockHandler,
	command.NewRecordSaleHandler,
	query.NewGetProductHandler,
	query.NewListProductsHandler,
	query.NewGetStatsHandler,
	query.NewListMovementsHandler,
)

// InitializeHTTPHandler initializes the HTTP handler with all dependencies
func InitializeHTTPHandler(db *gorm.DB, statsCache *cache.StatsCache, publisher *kafka.Publisher, analyst report.Analyst) (*httpDelivery.InventoryHandler, error) {
	wire.Build(
		StoreSet,
		HandlerSet,
		httpDelivery.NewInventoryHandlerWithDI,
	)
	return nil, nil
}
