package main

// @title StockWise Inventory API
// @version 1.0
// @description Inventory ledger service: products, an append-only movement ledger, atomic sales and dashboard aggregates
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.url http://github.com/talalam23/stock-wise

// @license.name MIT
// @license.url https://github.com/talalam23/stock-wise/blob/main/LICENSE

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @tag.name Products
// @tag.description Product registration and stock adjustments

// @tag.name Sales
// @tag.description Atomic multi-product sales orders

// @tag.name Dashboard
// @tag.description Read-only aggregate views

// @tag.name Reports
// @tag.description AI-generated inventory reports

// @tag.name Health
// @tag.description Health check endpoints
