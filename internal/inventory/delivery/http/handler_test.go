package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"github.com/talalam23/stock-wise/internal/inventory/domain"
	"github.com/talalam23/stock-wise/internal/inventory/repository"
	"github.com/talalam23/stock-wise/internal/report"
	"github.com/talalam23/stock-wise/pkg/auth"
)

type stubAnalyst struct {
	text string
	err  error
}

func (a *stubAnalyst) GenerateReport(ctx context.Context, snapshot report.Snapshot) (string, error) {
	return a.text, a.err
}

func newTestServer(t *testing.T, analyst report.Analyst, authSecret string) (*mux.Router, domain.Store) {
	t.Helper()
	store := repository.NewMemoryStore()
	handler := NewInventoryHandler(store, nil, nil, analyst)

	router := mux.NewRouter()
	handler.RegisterRoutes(router, authSecret)
	handler.RegisterHealthCheck(router, nil)
	return router, store
}

func doJSON(t *testing.T, router *mux.Router, method, path string, body interface{}) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return rec, resp
}

func createTestProduct(t *testing.T, router *mux.Router, name, sku string, price float64, quantity, minLevel int) string {
	t.Helper()
	rec, resp := doJSON(t, router, "POST", "/api/products", map[string]interface{}{
		"name": name, "sku": sku, "price": price, "quantity": quantity, "min_level": minLevel,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create %s: status %d, body %s", name, rec.Code, rec.Body.String())
	}
	product, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected create payload: %v", resp.Data)
	}
	id, _ := product["id"].(string)
	if id == "" {
		t.Fatalf("create %s: missing id in %v", name, product)
	}
	return id
}

func TestCreateProductEndpoint(t *testing.T) {
	router, store := newTestServer(t, &stubAnalyst{}, "")

	id := createTestProduct(t, router, "Widget", "W-1", 9.99, 25, 10)

	p, err := store.Products().FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("created product not persisted: %v", err)
	}
	if p.Quantity != 25 || p.SKU != "W-1" {
		t.Fatalf("unexpected persisted product: %+v", p)
	}
}

func TestCreateProductEndpointEmptyQuantity(t *testing.T) {
	router, store := newTestServer(t, &stubAnalyst{}, "")

	id := createTestProduct(t, router, "Widget", "W-1", 9.99, 0, 10)

	movements, err := store.Movements().FindByProduct(context.Background(), id)
	if err != nil {
		t.Fatalf("find movements: %v", err)
	}
	if len(movements) != 0 {
		t.Fatalf("empty product must not get an initial movement, got %d", len(movements))
	}
}

func TestCreateProductEndpointValidation(t *testing.T) {
	router, _ := newTestServer(t, &stubAnalyst{}, "")

	rec, resp := doJSON(t, router, "POST", "/api/products", map[string]interface{}{
		"name": "", "sku": "W-1", "price": 1.0,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if resp.Success || resp.Error == "" {
		t.Fatalf("expected error envelope, got %+v", resp)
	}
}

func TestCreateProductEndpointDuplicateSKU(t *testing.T) {
	router, _ := newTestServer(t, &stubAnalyst{}, "")
	createTestProduct(t, router, "Widget", "W-1", 9.99, 5, 0)

	rec, resp := doJSON(t, router, "POST", "/api/products", map[string]interface{}{
		"name": "Other", "sku": "W-1", "price": 1.0,
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
	if !strings.Contains(resp.Error, "W-1") {
		t.Fatalf("expected SKU in error, got %q", resp.Error)
	}
}

func TestGetProductEndpointNotFound(t *testing.T) {
	router, _ := newTestServer(t, &stubAnalyst{}, "")

	rec, resp := doJSON(t, router, "GET", "/api/products/missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if resp.Success {
		t.Fatalf("expected error envelope, got %+v", resp)
	}
}

func TestUpdateStockEndpoint(t *testing.T) {
	router, store := newTestServer(t, &stubAnalyst{}, "")
	id := createTestProduct(t, router, "Widget", "W-1", 2.0, 10, 5)

	rec, _ := doJSON(t, router, "POST", fmt.Sprintf("/api/products/%s/stock", id), map[string]interface{}{
		"amount": 3, "type": "OUT", "notes": "Damaged",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	p, _ := store.Products().FindByID(context.Background(), id)
	if p.Quantity != 7 {
		t.Fatalf("expected quantity 7, got %d", p.Quantity)
	}
}

func TestRecordSaleEndpointInsufficientStock(t *testing.T) {
	router, store := newTestServer(t, &stubAnalyst{}, "")
	okID := createTestProduct(t, router, "Widget", "W-1", 2.0, 10, 5)
	shortID := createTestProduct(t, router, "Gadget", "G-1", 3.0, 1, 0)

	rec, resp := doJSON(t, router, "POST", "/api/sales", map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": okID, "quantity": 2},
			{"product_id": shortID, "quantity": 5},
		},
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d: %s", rec.Code, rec.Body.String())
	}
	if resp.Success || !strings.Contains(resp.Error, "Gadget") {
		t.Fatalf("expected insufficient stock envelope, got %+v", resp)
	}

	p, _ := store.Products().FindByID(context.Background(), okID)
	if p.Quantity != 10 {
		t.Fatalf("aborted sale must not change quantities, got %d", p.Quantity)
	}
}

func TestRecordSaleEndpoint(t *testing.T) {
	router, store := newTestServer(t, &stubAnalyst{}, "")
	id := createTestProduct(t, router, "Widget", "W-1", 2.0, 10, 5)

	rec, resp := doJSON(t, router, "POST", "/api/sales", map[string]interface{}{
		"items": []map[string]interface{}{{"product_id": id, "quantity": 4}},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	result, ok := resp.Data.(map[string]interface{})
	if !ok || result["item_count"] != float64(1) || result["total_quantity"] != float64(4) {
		t.Fatalf("unexpected sale result: %v", resp.Data)
	}
	lines, ok := result["lines"].([]interface{})
	if !ok || len(lines) != 1 {
		t.Fatalf("expected one committed line, got %v", result["lines"])
	}
	line, _ := lines[0].(map[string]interface{})
	if movementID, _ := line["movement_id"].(string); movementID == "" {
		t.Fatalf("line missing movement id: %v", line)
	}
	if line["new_quantity"] != float64(6) {
		t.Fatalf("unexpected line payload: %v", line)
	}

	p, _ := store.Products().FindByID(context.Background(), id)
	if p.Quantity != 6 {
		t.Fatalf("expected quantity 6, got %d", p.Quantity)
	}
}

func TestDashboardStatsEndpoint(t *testing.T) {
	router, _ := newTestServer(t, &stubAnalyst{}, "")
	createTestProduct(t, router, "Widget", "W-1", 2.0, 10, 5)

	rec, resp := doJSON(t, router, "GET", "/api/dashboard/stats", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	stats, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("unexpected stats payload: %v", resp.Data)
	}
	if stats["total_value"] != float64(20) {
		t.Fatalf("expected total value 20, got %v", stats["total_value"])
	}
	if stats["product_count"] != float64(1) {
		t.Fatalf("expected product count 1, got %v", stats["product_count"])
	}
}

func TestListMovementsEndpoint(t *testing.T) {
	router, _ := newTestServer(t, &stubAnalyst{}, "")
	id := createTestProduct(t, router, "Widget", "W-1", 2.0, 10, 5)

	rec, resp := doJSON(t, router, "GET", fmt.Sprintf("/api/products/%s/movements", id), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	movements, ok := resp.Data.([]interface{})
	if !ok || len(movements) != 1 {
		t.Fatalf("expected one movement, got %v", resp.Data)
	}
}

func TestGenerateReportEndpoint(t *testing.T) {
	router, _ := newTestServer(t, &stubAnalyst{text: "All healthy."}, "")

	rec, resp := doJSON(t, router, "POST", "/api/reports", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	data, ok := resp.Data.(map[string]interface{})
	if !ok || data["report"] != "All healthy." {
		t.Fatalf("unexpected report payload: %v", resp.Data)
	}
}

func TestGenerateReportEndpointUnavailable(t *testing.T) {
	router, _ := newTestServer(t, &stubAnalyst{err: report.ErrUnavailable}, "")

	rec, resp := doJSON(t, router, "POST", "/api/reports", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if resp.Success {
		t.Fatalf("expected error envelope, got %+v", resp)
	}
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestServer(t, &stubAnalyst{}, "")

	rec, resp := doJSON(t, router, "GET", "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !resp.Success {
		t.Fatalf("expected healthy envelope, got %+v", resp)
	}
}

func TestAuthMiddlewareGuardsMutations(t *testing.T) {
	const secret = "test-secret"
	router, _ := newTestServer(t, &stubAnalyst{}, secret)

	body := map[string]interface{}{"name": "Widget", "sku": "W-1", "price": 1.0}

	rec, _ := doJSON(t, router, "POST", "/api/products", body)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing token: expected 401, got %d", rec.Code)
	}

	req := httptest.NewRequest("POST", "/api/products", bytes.NewReader(mustMarshal(t, body)))
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec2 := httptest.NewRecorder()
	router.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusUnauthorized {
		t.Fatalf("bad token: expected 401, got %d", rec2.Code)
	}

	token, err := auth.GenerateToken("tester", secret, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	req = httptest.NewRequest("POST", "/api/products", bytes.NewReader(mustMarshal(t, body)))
	req.Header.Set("Authorization", "Bearer "+token)
	rec3 := httptest.NewRecorder()
	router.ServeHTTP(rec3, req)
	if rec3.Code != http.StatusCreated {
		t.Fatalf("valid token: expected 201, got %d: %s", rec3.Code, rec3.Body.String())
	}

	// Reads stay open.
	rec4, _ := doJSON(t, router, "GET", "/api/products", nil)
	if rec4.Code != http.StatusOK {
		t.Fatalf("read with auth enabled: expected 200, got %d", rec4.Code)
	}
}

func mustMarshal(t *testing.T, v interface{}) []byte {
	t.Helper()
	payload, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return payload
}
