package http

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/talalam23/stock-wise/internal/inventory/cache"
	"github.com/talalam23/stock-wise/internal/inventory/domain"
	"github.com/talalam23/stock-wise/internal/inventory/usecase/command"
	"github.com/talalam23/stock-wise/internal/inventory/usecase/query"
	"github.com/talalam23/stock-wise/internal/report"
	"github.com/talalam23/stock-wise/kafka"
	"github.com/talalam23/stock-wise/pkg/logger"
)

// InventoryHandler handles HTTP requests for the inventory ledger using
// the CQRS pattern
type InventoryHandler struct {
	// Command handlers
	createHandler      *command.CreateProductHandler
	updateStockHandler *command.UpdateStockHandler
	recordSaleHandler  *command.RecordSaleHandler

	// Query handlers
	getProductHandler *query.GetProductHandler
	listHandler       *query.ListProductsHandler
	statsHandler      *query.GetStatsHandler
	movementsHandler  *query.ListMovementsHandler

	store      domain.Store
	statsCache *cache.StatsCache
	publisher  *kafka.Publisher
	analyst    report.Analyst
}

// NewInventoryHandler creates a new inventory handler (manual DI)
func NewInventoryHandler(store domain.Store, statsCache *cache.StatsCache, publisher *kafka.Publisher, analyst report.Analyst) *InventoryHandler {
	return NewInventoryHandlerWithDI(
		command.NewCreateProductHandler(store),
		command.NewUpdateStockHandler(store),
		command.NewRecordSaleHandler(store),
		query.NewGetProductHandler(store),
		query.NewListProductsHandler(store),
		query.NewGetStatsHandler(store),
		query.NewListMovementsHandler(store),
		store, statsCache, publisher, analyst,
	)
}

// NewInventoryHandlerWithDI creates a new inventory handler using
// dependency injection. This is used by Wire.
func NewInventoryHandlerWithDI(
	createHandler *command.CreateProductHandler,
	updateStockHandler *command.UpdateStockHandler,
	recordSaleHandler *command.RecordSaleHandler,
	getProductHandler *query.GetProductHandler,
	listHandler *query.ListProductsHandler,
	statsHandler *query.GetStatsHandler,
	movementsHandler *query.ListMovementsHandler,
	store domain.Store,
	statsCache *cache.StatsCache,
	publisher *kafka.Publisher,
	analyst report.Analyst,
) *InventoryHandler {
	return &InventoryHandler{
		createHandler:      createHandler,
		updateStockHandler: updateStockHandler,
		recordSaleHandler:  recordSaleHandler,
		getProductHandler:  getProductHandler,
		listHandler:        listHandler,
		statsHandler:       statsHandler,
		movementsHandler:   movementsHandler,
		store:              store,
		statsCache:         statsCache,
		publisher:          publisher,
		analyst:            analyst,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// CreateProduct handles POST /api/products
func (h *InventoryHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string  `json:"name"`
		SKU      string  `json:"sku"`
		Price    float64 `json:"price"`
		Quantity int     `json:"quantity"`
		MinLevel int     `json:"min_level"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	product, initial, err := h.createHandler.Handle(r.Context(), command.CreateProductCommand{
		Name:     req.Name,
		SKU:      req.SKU,
		Price:    req.Price,
		Quantity: req.Quantity,
		MinLevel: req.MinLevel,
	})
	if err != nil {
		respondError(w, r, err, "Failed to create product")
		return
	}

	// A product registered empty has no initial movement and emits no event.
	var events []kafka.StockMovementEvent
	if initial != nil {
		events = append(events, kafka.StockMovementEvent{
			MovementID:   initial.ID,
			ProductID:    product.ID,
			MovementType: string(initial.Type),
			Quantity:     initial.Quantity,
			NewQuantity:  product.Quantity,
			Notes:        initial.Notes,
		})
	}
	h.afterWrite(r, events...)

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Product created successfully",
		Data:    product,
	})
}

// ListProducts handles GET /api/products
func (h *InventoryHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.listHandler.Handle(r.Context(), query.ListProductsQuery{})
	if err != nil {
		respondError(w, r, err, "Failed to list products")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    products,
	})
}

// GetProduct handles GET /api/products/{id}
func (h *InventoryHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.getProductHandler.Handle(r.Context(), query.GetProductQuery{
		ID: mux.Vars(r)["id"],
	})
	if err != nil {
		respondError(w, r, err, "Failed to get product")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    product,
	})
}

// ListMovements handles GET /api/products/{id}/movements
func (h *InventoryHandler) ListMovements(w http.ResponseWriter, r *http.Request) {
	movements, err := h.movementsHandler.Handle(r.Context(), query.ListMovementsQuery{
		ProductID: mux.Vars(r)["id"],
	})
	if err != nil {
		respondError(w, r, err, "Failed to list movements")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    movements,
	})
}

// UpdateStock handles POST /api/products/{id}/stock
func (h *InventoryHandler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Amount int    `json:"amount"`
		Type   string `json:"type"`
		Notes  string `json:"notes"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	product, movement, err := h.updateStockHandler.Handle(r.Context(), command.UpdateStockCommand{
		ProductID: mux.Vars(r)["id"],
		Amount:    req.Amount,
		Type:      domain.MovementType(req.Type),
		Notes:     req.Notes,
	})
	if err != nil {
		respondError(w, r, err, "Failed to update stock")
		return
	}

	h.afterWrite(r, kafka.StockMovementEvent{
		MovementID:   movement.ID,
		ProductID:    product.ID,
		MovementType: string(movement.Type),
		Quantity:     movement.Quantity,
		NewQuantity:  product.Quantity,
		Notes:        movement.Notes,
	})

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Stock updated successfully",
		Data:    product,
	})
}

// RecordSale handles POST /api/sales
func (h *InventoryHandler) RecordSale(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Items []struct {
			ProductID string `json:"product_id"`
			Quantity  int    `json:"quantity"`
		} `json:"items"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	cmd := command.RecordSaleCommand{}
	for _, item := range req.Items {
		cmd.Items = append(cmd.Items, command.SaleItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	result, err := h.recordSaleHandler.Handle(r.Context(), cmd)
	if err != nil {
		respondError(w, r, err, "Failed to record sale")
		return
	}

	events := make([]kafka.StockMovementEvent, 0, len(result.Lines))
	for _, line := range result.Lines {
		events = append(events, kafka.StockMovementEvent{
			MovementID:   line.MovementID,
			ProductID:    line.ProductID,
			MovementType: string(domain.MovementOut),
			Quantity:     line.Quantity,
			NewQuantity:  line.NewQuantity,
			Notes:        "Sales Order",
		})
	}
	h.afterWrite(r, events...)

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Sale recorded successfully",
		Data:    result,
	})
}

// GetDashboardStats handles GET /api/dashboard/stats
func (h *InventoryHandler) GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	if stats := h.statsCache.Get(r.Context()); stats != nil {
		w.Header().Set("X-Cache", "HIT")
		respondJSON(w, http.StatusOK, Response{
			Success: true,
			Data:    stats,
		})
		return
	}

	stats, err := h.statsHandler.Handle(r.Context(), query.GetStatsQuery{})
	if err != nil {
		respondError(w, r, err, "Failed to compute stats")
		return
	}

	h.statsCache.Set(r.Context(), stats)
	productGauge.Set(float64(stats.ProductCount))

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    stats,
	})
}

// GenerateReport handles POST /api/reports
func (h *InventoryHandler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	stats, err := h.statsHandler.Handle(r.Context(), query.GetStatsQuery{})
	if err != nil {
		respondError(w, r, err, "Failed to compute stats")
		return
	}
	products, err := h.listHandler.Handle(r.Context(), query.ListProductsQuery{})
	if err != nil {
		respondError(w, r, err, "Failed to list products")
		return
	}

	text, err := h.analyst.GenerateReport(r.Context(), report.Snapshot{
		Stats:    stats,
		Products: products,
	})
	if err != nil {
		if errors.Is(err, report.ErrUnavailable) {
			respondJSON(w, http.StatusServiceUnavailable, Response{
				Success: false,
				Error:   "AI service unavailable",
			})
			return
		}
		respondError(w, r, err, "Failed to generate report")
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    map[string]string{"report": text},
	})
}

// RegisterRoutes registers all inventory routes. Mutating routes are
// guarded by the auth middleware when a secret is configured.
func (h *InventoryHandler) RegisterRoutes(router *mux.Router, authSecret string) {
	protect := AuthMiddleware(authSecret)

	router.HandleFunc("/api/products", h.ListProducts).Methods("GET")
	router.HandleFunc("/api/products", protect(h.CreateProduct)).Methods("POST")
	router.HandleFunc("/api/products/{id}", h.GetProduct).Methods("GET")
	router.HandleFunc("/api/products/{id}/movements", h.ListMovements).Methods("GET")
	router.HandleFunc("/api/products/{id}/stock", protect(h.UpdateStock)).Methods("POST")
	router.HandleFunc("/api/sales", protect(h.RecordSale)).Methods("POST")
	router.HandleFunc("/api/dashboard/stats", h.GetDashboardStats).Methods("GET")
	router.HandleFunc("/api/reports", h.GenerateReport).Methods("POST")
}

// RegisterHealthCheck registers the health check endpoint
func (h *InventoryHandler) RegisterHealthCheck(router *mux.Router, db *sql.DB) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.Ping(); err != nil {
				respondJSON(w, http.StatusServiceUnavailable, Response{
					Success: false,
					Error:   "Database unavailable",
				})
				return
			}
		}

		respondJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "StockWise service is healthy",
		})
	}).Methods("GET")
}

// afterWrite runs the side effects of a committed write: cache
// invalidation, the product-count gauge and one best-effort kafka event per
// committed movement.
func (h *InventoryHandler) afterWrite(r *http.Request, events ...kafka.StockMovementEvent) {
	ctx := r.Context()
	h.statsCache.Invalidate(ctx)

	if count, err := h.store.Products().Count(ctx); err == nil {
		productGauge.Set(float64(count))
	}

	for _, event := range events {
		if err := h.publisher.PublishStockMovement(ctx, event); err != nil {
			logger.Warn(ctx).Err(err).Msg("Failed to publish stock movement event")
		}
	}
}

// respondError maps domain errors to HTTP status codes
func respondError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case domain.IsValidation(err):
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Error: err.Error()})
	case domain.IsProductNotFound(err):
		respondJSON(w, http.StatusNotFound, Response{Success: false, Error: err.Error()})
	case domain.IsInsufficientStock(err), domain.IsDuplicateSKU(err):
		respondJSON(w, http.StatusConflict, Response{Success: false, Error: err.Error()})
	default:
		logger.Error(r.Context()).Err(err).Msg(fallback)
		respondJSON(w, http.StatusInternalServerError, Response{Success: false, Error: fallback})
	}
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
