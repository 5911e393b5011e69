package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	httpapi "backend/internal/http"
	"backend/internal/repository/memory"
	"backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	svc := service.New(memory.New())
	handler := httpapi.NewHandler(svc, "test-secret", time.Hour)
	server := httptest.NewServer(httpapi.NewRouter(handler))
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, client *http.Client, url string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out), "body: %s", raw)
	return out
}

func TestHealth(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "ok", body["status"])
}

func TestCreateProductJSON(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)

	resp := postJSON(t, server.Client(), server.URL+"/api/v1/products", map[string]any{
		"name":           "Monitor",
		"price":          199.99,
		"cost_price":     120,
		"stock_quantity": 7,
		"barcode":        "MON-1",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Monitor", body["name"])
	assert.Equal(t, 199.99, body["price"])
	assert.NotZero(t, body["id"])

	// Duplicate barcode is rejected.
	resp = postJSON(t, server.Client(), server.URL+"/api/v1/products", map[string]any{
		"name":    "Other",
		"price":   1,
		"barcode": "MON-1",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestCreateProductForm(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)

	form := url.Values{}
	form.Set("name", "Desk")
	form.Set("price", "250")
	form.Set("stock_quantity", "3")
	resp, err := server.Client().PostForm(server.URL+"/api/v1/products", form)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Desk", body["name"])
	assert.Equal(t, 250.0, body["price"])
}

func TestCreateProductValidationError(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)

	resp := postJSON(t, server.Client(), server.URL+"/api/v1/products", map[string]any{
		"name":  "",
		"price": 10,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Contains(t, body["error"], "name")
}

func TestGetProductNotFound(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/v1/products/12345")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(server.URL + "/api/v1/products/abc")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func createProduct(t *testing.T, server *httptest.Server, name string, price float64, stock int) int64 {
	t.Helper()
	resp := postJSON(t, server.Client(), server.URL+"/api/v1/products", map[string]any{
		"name":           name,
		"price":          price,
		"stock_quantity": stock,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	body := decodeBody(t, resp)
	return int64(body["id"].(float64))
}

func TestOrderLifecycle(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)

	productID := createProduct(t, server, "Chair", 45.5, 20)

	resp := postJSON(t, server.Client(), server.URL+"/api/v1/orders", map[string]any{
		"items": []map[string]any{
			{"product_id": productID, "quantity": 2, "unit_price": 45.5},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	order := decodeBody(t, resp)
	assert.Equal(t, 91.0, order["total_amount"])
	orderID := int64(order["id"].(float64))

	resp, err := http.Get(fmt.Sprintf("%s/api/v1/orders/%d", server.URL, orderID))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	fetched := decodeBody(t, resp)
	items, ok := fetched["items"].([]any)
	require.True(t, ok)
	assert.Len(t, items, 1)

	// Delivery under the order.
	resp = postJSON(t, server.Client(), fmt.Sprintf("%s/api/v1/orders/%d/deliveries", server.URL, orderID), map[string]any{
		"date":   "2026-03-01",
		"status": "pending",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	delivery := decodeBody(t, resp)
	deliveryID := int64(delivery["id"].(float64))

	req, err := http.NewRequest(http.MethodPatch,
		fmt.Sprintf("%s/api/v1/deliveries/%d/status", server.URL, deliveryID),
		strings.NewReader(`{"status":"shipped"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err = server.Client().Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeBody(t, resp)
	assert.Equal(t, "shipped", updated["status"])

	// Delete the order; its deliveries go with it.
	req, err = http.NewRequest(http.MethodDelete, fmt.Sprintf("%s/api/v1/orders/%d", server.URL, orderID), nil)
	require.NoError(t, err)
	resp, err = server.Client().Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(fmt.Sprintf("%s/api/v1/orders/%d", server.URL, orderID))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestCreateOrderFormSingleLine(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)

	productID := createProduct(t, server, "Lamp", 12.5, 9)

	form := url.Values{}
	form.Set("product", fmt.Sprintf("%d", productID))
	form.Set("quantity", "2")
	resp, err := server.Client().PostForm(server.URL+"/api/v1/orders", form)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	order := decodeBody(t, resp)
	// Unit price comes from the product record.
	assert.Equal(t, 25.0, order["total_amount"])
}

func TestSaleInsufficientStock(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)

	productID := createProduct(t, server, "Cable", 3, 1)

	resp := postJSON(t, server.Client(), server.URL+"/api/v1/sales", map[string]any{
		"items": []map[string]any{
			{"product_id": productID, "quantity": 5, "unit_price": 3},
		},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Contains(t, body["error"], "stock")
}

func TestPatchSaleEndpoint(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)

	productID := createProduct(t, server, "Cup", 4, 30)

	resp := postJSON(t, server.Client(), server.URL+"/api/v1/sales", map[string]any{
		"date": "2026-06-01",
		"items": []map[string]any{
			{"product_id": productID, "quantity": 2, "unit_price": 4},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	sale := decodeBody(t, resp)
	saleID := int64(sale["id"].(float64))

	req, err := http.NewRequest(http.MethodPatch,
		fmt.Sprintf("%s/api/v1/sales/%d", server.URL, saleID),
		strings.NewReader(`{"date":"2026-06-03","payment_method":"card"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err = server.Client().Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeBody(t, resp)
	assert.Equal(t, "card", updated["payment_method"])
	// The header patch never touches the money.
	assert.Equal(t, sale["total_amount"], updated["total_amount"])

	req, err = http.NewRequest(http.MethodPatch,
		server.URL+"/api/v1/sales/99999",
		strings.NewReader(`{"payment_method":"cash"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err = server.Client().Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestAuthFlow(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)
	client := server.Client()

	// The users listing requires a session.
	resp, err := http.Get(server.URL + "/api/v1/users")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, client, server.URL+"/api/v1/auth/register", map[string]any{
		"username": "ivy",
		"password": "pw",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	registered := decodeBody(t, resp)
	assert.Equal(t, "ivy", registered["username"])
	// The hash never leaves the server.
	_, leaked := registered["password_hash"]
	assert.False(t, leaked)

	resp = postJSON(t, client, server.URL+"/api/v1/auth/login", map[string]any{
		"username": "ivy",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "invalid credentials", body["error"])

	resp = postJSON(t, client, server.URL+"/api/v1/auth/login", map[string]any{
		"username": "ivy",
		"password": "pw",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := decodeBody(t, resp)
	token, _ := login["token"].(string)
	require.NotEmpty(t, token)

	// Bearer token grants access.
	req, err := http.NewRequest(http.MethodGet, server.URL+"/api/v1/auth/me", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = client.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decodeBody(t, resp)
	assert.Equal(t, "ivy", me["username"])

	req, err = http.NewRequest(http.MethodGet, server.URL+"/api/v1/users", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = client.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Logout revokes the session; the same token is now rejected.
	req, err = http.NewRequest(http.MethodPost, server.URL+"/api/v1/auth/logout", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = client.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	req, err = http.NewRequest(http.MethodGet, server.URL+"/api/v1/auth/me", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = client.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func TestPatchUserEndpoint(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)
	client := server.Client()

	resp := postJSON(t, client, server.URL+"/api/v1/auth/register", map[string]any{
		"username": "noel",
		"password": "pw",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	registered := decodeBody(t, resp)
	userID := int64(registered["id"].(float64))

	resp = postJSON(t, client, server.URL+"/api/v1/auth/login", map[string]any{
		"username": "noel",
		"password": "pw",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	login := decodeBody(t, resp)
	token, _ := login["token"].(string)
	require.NotEmpty(t, token)

	// User management sits behind the session.
	req, err := http.NewRequest(http.MethodPatch,
		fmt.Sprintf("%s/api/v1/users/%d", server.URL, userID),
		strings.NewReader(`{"role":"admin"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err = client.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	req, err = http.NewRequest(http.MethodPatch,
		fmt.Sprintf("%s/api/v1/users/%d", server.URL, userID),
		strings.NewReader(`{"role":"admin"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = client.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeBody(t, resp)
	assert.Equal(t, "admin", updated["role"])
	assert.Equal(t, "noel", updated["username"])

	// A password change takes effect on the next login.
	req, err = http.NewRequest(http.MethodPatch,
		fmt.Sprintf("%s/api/v1/users/%d", server.URL, userID),
		strings.NewReader(`{"password":"rotated"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = client.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, client, server.URL+"/api/v1/auth/login", map[string]any{
		"username": "noel",
		"password": "pw",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, client, server.URL+"/api/v1/auth/login", map[string]any{
		"username": "noel",
		"password": "rotated",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestMonthlySalesEndpoints(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)

	productID := createProduct(t, server, "Widget", 10, 100)

	resp := postJSON(t, server.Client(), server.URL+"/api/v1/sales", map[string]any{
		"date": "2026-04-05",
		"items": []map[string]any{
			{"product_id": productID, "quantity": 3, "unit_price": 10},
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp, err := server.Client().Post(server.URL+"/api/v1/analytics/monthly/recompute", "application/json", nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	recomputed := decodeBody(t, resp)
	assert.Equal(t, 1.0, recomputed["months"])

	resp, err = http.Get(server.URL + "/api/v1/analytics/monthly")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	listing := decodeBody(t, resp)
	items, ok := listing["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 1)
	first, ok := items[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "2026-04", first["month"])
	assert.Equal(t, 30.0, first["revenue"])
}

func TestInventoryExcelDownload(t *testing.T) {
	t.Parallel()
	server := newTestServer(t)

	createProduct(t, server, "Shelf", 20, 6)

	resp, err := http.Get(server.URL + "/api/v1/reports/inventory.xlsx")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "inventory.xlsx")
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	// XLSX files are zip archives.
	assert.Equal(t, "PK", string(data[:2]))
}
