package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/andresuchdata/stockroom/backend-go/internal/api/middleware"
	"github.com/andresuchdata/stockroom/backend-go/internal/domain"
	"github.com/andresuchdata/stockroom/backend-go/internal/repository/memory"
	"github.com/andresuchdata/stockroom/backend-go/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const testSecret = "test-secret"

type envelope struct {
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t      *testing.T
	router *gin.Engine
	tokens map[domain.Role]string
}

func newTestServer(t *testing.T, rateLimit gin.HandlerFunc) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := NewRouter(service.New(memory.NewStore()), Options{
		JWTSecret: testSecret,
		RateLimit: rateLimit,
	})

	auth := middleware.NewAuthenticator(testSecret)
	tokens := make(map[domain.Role]string)
	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleManager, domain.RoleOfficer, domain.RoleUser} {
		token, err := auth.IssueToken(domain.Principal{ID: uuid.NewString(), Role: role}, time.Hour)
		if err != nil {
			t.Fatalf("issue token: %v", err)
		}
		tokens[role] = token
	}
	return &testServer{t: t, router: router, tokens: tokens}
}

func (s *testServer) do(role domain.Role, method, path string, body interface{}) (int, envelope) {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			s.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token, ok := s.tokens[role]; ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			s.t.Fatalf("decode %s %s response %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec.Code, env
}

// mustDo fails the test unless the call answers with want, then decodes data into out.
func (s *testServer) mustDo(role domain.Role, method, path string, body interface{}, want int, out interface{}) {
	s.t.Helper()
	code, env := s.do(role, method, path, body)
	if code != want {
		s.t.Fatalf("%s %s: got status %d (%s), want %d", method, path, code, env.Message, want)
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			s.t.Fatalf("decode data of %s %s: %v", method, path, err)
		}
	}
}

type idOnly struct {
	ID string `json:"id"`
}

type stockView struct {
	QuantityInHand  int64   `json:"quantity_in_hand"`
	UnitAvgCost     float64 `json:"unit_avg_cost"`
	AvailableAmount float64 `json:"available_amount"`
	NegativeStock   bool    `json:"negative_stock"`
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil)
	code, env := s.do("", http.MethodGet, "/api/v1/health", nil)
	if code != http.StatusOK || env.Message != "ok" {
		t.Fatalf("health: %d %q", code, env.Message)
	}
}

func TestAuthentication(t *testing.T) {
	s := newTestServer(t, nil)

	code, env := s.do("", http.MethodGet, "/api/v1/suppliers", nil)
	if code != http.StatusUnauthorized {
		t.Errorf("missing token: got %d", code)
	}
	if env.Message == "" {
		t.Error("error envelope must carry a message")
	}

	s.tokens["forged"] = "Bearer.not.a.token"
	if code, _ := s.do("forged", http.MethodGet, "/api/v1/suppliers", nil); code != http.StatusUnauthorized {
		t.Errorf("forged token: got %d", code)
	}

	if code, _ := s.do(domain.RoleUser, http.MethodPost, "/api/v1/suppliers", map[string]string{"supplier_name": "x"}); code != http.StatusForbidden {
		t.Errorf("user role creating supplier: got %d", code)
	}
	if code, _ := s.do(domain.RoleUser, http.MethodGet, "/api/v1/suppliers", nil); code != http.StatusOK {
		t.Errorf("user role reading suppliers: got %d", code)
	}
}

func TestStockFlow(t *testing.T) {
	s := newTestServer(t, nil)

	var supplier, category, product idOnly
	s.mustDo(domain.RoleAdmin, http.MethodPost, "/api/v1/suppliers", map[string]string{"supplier_name": "S1"}, http.StatusCreated, &supplier)
	s.mustDo(domain.RoleAdmin, http.MethodPost, "/api/v1/categories", map[string]string{"category_name": "C1"}, http.StatusCreated, &category)
	s.mustDo(domain.RoleManager, http.MethodPost, "/api/v1/products", map[string]interface{}{
		"category_id":        category.ID,
		"product_code":       "P1",
		"name_en":            "Rice",
		"name_kh":            "អង្ករ",
		"beginning_quantity": 100,
		"minimum_stock":      10,
	}, http.StatusCreated, &product)

	var created struct {
		Invoice idOnly `json:"invoice"`
		Items   []struct {
			ID         string  `json:"id"`
			TotalPrice float64 `json:"total_price"`
		} `json:"items"`
	}
	s.mustDo(domain.RoleAdmin, http.MethodPost, "/api/v1/stock-in/invoices", map[string]interface{}{
		"supplier_id":      supplier.ID,
		"purchase_date":    "2024-03-01",
		"reference_number": "INV-1",
		"due_date":         "2024-04-01",
		"items": []map[string]interface{}{
			{"product_id": product.ID, "quantity": 50, "unit_price": 2.00},
		},
	}, http.StatusCreated, &created)
	if len(created.Items) != 1 || created.Items[0].TotalPrice != 100 {
		t.Fatalf("unexpected created items: %+v", created.Items)
	}

	var stock stockView
	s.mustDo(domain.RoleUser, http.MethodGet, "/api/v1/products/"+product.ID+"/stock", nil, http.StatusOK, &stock)
	if stock.QuantityInHand != 150 || stock.UnitAvgCost != 2 || stock.AvailableAmount != 300 {
		t.Fatalf("unexpected stock after stock in: %+v", stock)
	}

	s.mustDo(domain.RoleOfficer, http.MethodPost, "/api/v1/stock-out", map[string]interface{}{
		"product_id": product.ID,
		"quantity":   30,
	}, http.StatusCreated, nil)

	var summary struct {
		Items []stockView `json:"items"`
		Total int         `json:"total"`
	}
	s.mustDo(domain.RoleUser, http.MethodGet, "/api/v1/stock/summary", nil, http.StatusOK, &summary)
	if summary.Total != 1 || summary.Items[0].QuantityInHand != 120 {
		t.Fatalf("unexpected summary after stock out: %+v", summary)
	}

	var total int64
	s.mustDo(domain.RoleUser, http.MethodGet, "/api/v1/stock-in/total", nil, http.StatusOK, &total)
	if total != 50 {
		t.Errorf("stock in total: got %d", total)
	}

	// Update through the owning invoice.
	var updated struct {
		Item struct {
			Quantity   int     `json:"quantity"`
			TotalPrice float64 `json:"total_price"`
			ExpireDate string  `json:"expire_date"`
		} `json:"item"`
	}
	itemPath := fmt.Sprintf("/api/v1/stock-in/invoices/%s/items/%s", created.Invoice.ID, created.Items[0].ID)
	s.mustDo(domain.RoleManager, http.MethodPut, itemPath, map[string]interface{}{
		"invoice": map[string]string{"purchase_date": "2024-03-02", "due_date": "2024-04-02", "reference_number": "INV-1"},
		"item":    map[string]interface{}{"quantity": 40, "unit_price": 2.5, "expire_date": "2025-12-31"},
	}, http.StatusOK, &updated)
	if updated.Item.Quantity != 40 || updated.Item.TotalPrice != 100 || updated.Item.ExpireDate != "2025-12-31" {
		t.Errorf("unexpected updated item: %+v", updated.Item)
	}

	code, env := s.do(domain.RoleManager, http.MethodPut, itemPath, map[string]interface{}{
		"invoice": map[string]string{"due_date": "2024-04-02", "reference_number": "INV-1"},
		"item":    map[string]interface{}{"quantity": 1, "unit_price": 1},
	})
	if code != http.StatusBadRequest || env.Message != "purchase_date is required" {
		t.Errorf("missing purchase_date: got %d %q", code, env.Message)
	}

	s.mustDo(domain.RoleAdmin, http.MethodDelete, itemPath, nil, http.StatusOK, nil)
	s.mustDo(domain.RoleAdmin, http.MethodDelete, "/api/v1/stock-in/invoices/"+created.Invoice.ID, nil, http.StatusOK, nil)
	s.mustDo(domain.RoleUser, http.MethodGet, "/api/v1/stock-in/invoices/"+created.Invoice.ID, nil, http.StatusNotFound, nil)
}

func TestErrorStatuses(t *testing.T) {
	s := newTestServer(t, nil)

	var supplier idOnly
	s.mustDo(domain.RoleAdmin, http.MethodPost, "/api/v1/suppliers", map[string]string{"supplier_name": "Dup"}, http.StatusCreated, &supplier)

	code, env := s.do(domain.RoleAdmin, http.MethodPost, "/api/v1/suppliers", map[string]string{"supplier_name": "Dup"})
	if code != http.StatusConflict || env.Message != "supplier already exists" {
		t.Errorf("duplicate supplier: got %d %q", code, env.Message)
	}

	code, _ = s.do(domain.RoleAdmin, http.MethodPost, "/api/v1/stock-in/invoices", map[string]interface{}{
		"supplier_id":      supplier.ID,
		"purchase_date":    "2024-03-01",
		"reference_number": "EMPTY",
		"due_date":         "2024-04-01",
		"items":            []interface{}{},
	})
	if code != http.StatusBadRequest {
		t.Errorf("empty items: got %d", code)
	}

	code, _ = s.do(domain.RoleAdmin, http.MethodPost, "/api/v1/stock-in/invoices", map[string]interface{}{
		"supplier_id": supplier.ID,
		"items":       "not a list",
	})
	if code != http.StatusBadRequest {
		t.Errorf("items not a list: got %d", code)
	}

	code, env = s.do(domain.RoleAdmin, http.MethodDelete,
		fmt.Sprintf("/api/v1/stock-in/invoices/%s/items/%s", uuid.NewString(), uuid.NewString()), nil)
	if code != http.StatusNotFound || env.Message != "item not found or does not belong to invoice" {
		t.Errorf("delete unknown item: got %d %q", code, env.Message)
	}

	if code, _ := s.do(domain.RoleUser, http.MethodGet, "/api/v1/products/not-a-uuid", nil); code != http.StatusNotFound {
		t.Errorf("malformed id: got %d", code)
	}

	if code, _ := s.do(domain.RoleAdmin, http.MethodDelete, "/api/v1/categories/"+uuid.NewString(), nil); code != http.StatusNotFound {
		t.Errorf("delete unknown category: got %d", code)
	}
}

func TestListParamsFallBack(t *testing.T) {
	s := newTestServer(t, nil)
	for i := 0; i < 12; i++ {
		s.mustDo(domain.RoleAdmin, http.MethodPost, "/api/v1/categories", map[string]string{"category_name": fmt.Sprintf("C%02d", i)}, http.StatusCreated, nil)
	}

	var page struct {
		Items    []idOnly `json:"items"`
		Total    int      `json:"total"`
		Page     int      `json:"page"`
		PageSize int      `json:"page_size"`
	}
	s.mustDo(domain.RoleUser, http.MethodGet, "/api/v1/categories?page=abc&limit=-4", nil, http.StatusOK, &page)
	if page.Page != 1 || page.PageSize != 10 || len(page.Items) != 10 || page.Total != 12 {
		t.Errorf("defaults: page=%d size=%d len=%d total=%d", page.Page, page.PageSize, len(page.Items), page.Total)
	}

	s.mustDo(domain.RoleUser, http.MethodGet, "/api/v1/categories?page=2&limit=10", nil, http.StatusOK, &page)
	if len(page.Items) != 2 {
		t.Errorf("second page: got %d items", len(page.Items))
	}
}

func TestRateLimit(t *testing.T) {
	limit, err := middleware.RateLimit("2-M", nil)
	if err != nil {
		t.Fatalf("rate limit: %v", err)
	}
	s := newTestServer(t, limit)

	for i := 0; i < 2; i++ {
		if code, _ := s.do(domain.RoleUser, http.MethodGet, "/api/v1/suppliers", nil); code != http.StatusOK {
			t.Fatalf("request %d: got %d", i, code)
		}
	}
	code, env := s.do(domain.RoleUser, http.MethodGet, "/api/v1/suppliers", nil)
	if code != http.StatusTooManyRequests || env.Message != "too many requests" {
		t.Fatalf("third request: got %d %q", code, env.Message)
	}
}

func TestNormalizeAllowedOrigins(t *testing.T) {
	origins, all := normalizeAllowedOrigins([]string{"http://a.test, http://b.test", " "})
	if all || len(origins) != 2 || origins[1] != "http://b.test" {
		t.Errorf("got %v all=%v", origins, all)
	}
	if _, all := normalizeAllowedOrigins([]string{"*"}); !all {
		t.Error("expected wildcard to allow all origins")
	}
}
