package http

import (
	"net/http"

	"github.com/gorilla/mux"
)

// RegisterSwaggerDocs registers Swagger documentation routes
// @Summary Swagger documentation
// @Description Swagger API documentation for the StockWise service
// @Tags Swagger
// @Success 200 {string} string "Swagger UI"
// @Router /swagger/ [get]
func RegisterSwaggerDocs(router *mux.Router, swaggerHandler http.Handler) {
	router.PathPrefix("/swagger/").Handler(swaggerHandler)
}

// CreateProduct godoc
// @Summary Register a product
// @Description Register a new product with its starting quantity; the initial stock is recorded in the movement ledger
// @Tags Products
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{name=string,sku=string,price=number,quantity=int,min_level=int} true "Product data"
// @Success 201 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 409 {object} object{success=bool,error=string}
// @Router /api/products [post]
func (h *InventoryHandler) CreateProductDoc() {}

// ListProducts godoc
// @Summary List products
// @Description List all products ordered by name
// @Tags Products
// @Produce json
// @Success 200 {object} object{success=bool,data=array}
// @Router /api/products [get]
func (h *InventoryHandler) ListProductsDoc() {}

// UpdateStock godoc
// @Summary Adjust product stock
// @Description Apply a stock adjustment (IN, OUT or ADJUSTMENT) and append the matching movement atomically
// @Tags Products
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param request body object{amount=int,type=string,notes=string} true "Adjustment"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Failure 409 {object} object{success=bool,error=string}
// @Router /api/products/{id}/stock [post]
func (h *InventoryHandler) UpdateStockDoc() {}

// RecordSale godoc
// @Summary Record a sales order
// @Description Commit a multi-product sale atomically; either every line is applied or none is
// @Tags Sales
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body object{items=array} true "Order lines"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Failure 409 {object} object{success=bool,error=string}
// @Router /api/sales [post]
func (h *InventoryHandler) RecordSaleDoc() {}

// GetDashboardStats godoc
// @Summary Dashboard aggregates
// @Description Inventory value, revenue, low-stock count, product count and recent movements
// @Tags Dashboard
// @Produce json
// @Success 200 {object} object{success=bool,data=object}
// @Router /api/dashboard/stats [get]
func (h *InventoryHandler) GetDashboardStatsDoc() {}

// GenerateReport godoc
// @Summary AI inventory report
// @Description Generate an AI-written summary from a read-only inventory snapshot
// @Tags Reports
// @Produce json
// @Success 200 {object} object{success=bool,data=object}
// @Failure 503 {object} object{success=bool,error=string}
// @Router /api/reports [post]
func (h *InventoryHandler) GenerateReportDoc() {}
