package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"catalog/internal/handlers"
	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var dbCounter int64

// setupApp builds a Fiber app over a fresh in-memory SQLite database and
// returns the repository alongside for direct seeding.
func setupApp(t *testing.T) (*fiber.App, repositories.ProductRepository) {
	t.Helper()

	dsn := fmt.Sprintf("file:handlers_test_%d?mode=memory&cache=shared", atomic.AddInt64(&dbCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	if err := db.AutoMigrate(&models.Product{}); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	productRepo := repositories.NewGORMProductRepository(db)
	productService := services.NewProductService(productRepo, nil)
	productHandler := handlers.NewProductHandler(productService)

	app := fiber.New()
	productHandler.RegisterRoutes(app)
	return app, productRepo
}

// TestMain suppresses handler logging for cleaner test output.
func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	return resp
}

func decodeProduct(t *testing.T, resp *http.Response) models.Product {
	t.Helper()
	var product models.Product
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&product))
	resp.Body.Close()
	return product
}

func TestCreateProduct(t *testing.T) {
	app, _ := setupApp(t)

	resp := doJSON(t, app, http.MethodPost, "/products", map[string]any{
		"name":        "Widget",
		"price":       9.5,
		"description": "A widget",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	created := decodeProduct(t, resp)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "Widget", created.Name)
	assert.Equal(t, 9.5, created.Price)
	assert.Equal(t, "A widget", created.Description)
	assert.False(t, created.CreatedAt.IsZero())
}

func TestCreateProductAcceptsStringPrice(t *testing.T) {
	app, _ := setupApp(t)

	resp := doJSON(t, app, http.MethodPost, "/products", map[string]any{
		"name":        "Widget",
		"price":       "19.99",
		"description": "A widget",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	created := decodeProduct(t, resp)
	assert.Equal(t, 19.99, created.Price)
}

func TestCreateProductValidation(t *testing.T) {
	app, repo := setupApp(t)

	bodies := []map[string]any{
		{"price": 9.5, "description": "no name"},
		{"name": "Widget", "description": "no price"},
		{"name": "Widget", "price": 9.5},
		{"name": "", "price": 9.5, "description": "empty name"},
		{"name": "Widget", "price": 0, "description": "zero price"},
		{"name": "Widget", "price": -3, "description": "negative price"},
		{"name": "Widget", "price": "NaN", "description": "non-finite price"},
	}
	for _, body := range bodies {
		resp := doJSON(t, app, http.MethodPost, "/products", body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "body: %v", body)
		resp.Body.Close()
	}

	// None of the rejected requests may have created a row.
	products, err := repo.GetAll()
	assert.NoError(t, err)
	assert.Empty(t, products)
}

func TestGetProducts(t *testing.T) {
	app, repo := setupApp(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// Seed with creation times that contradict id order; the listing
	// must still come back newest first.
	oldest := models.Product{Name: "Oldest", Price: 1, Description: "a", CreatedAt: base.Add(-2 * time.Hour)}
	newest := models.Product{Name: "Newest", Price: 3, Description: "c", CreatedAt: base}
	middle := models.Product{Name: "Middle", Price: 2, Description: "b", CreatedAt: base.Add(-time.Hour)}
	for _, p := range []*models.Product{&newest, &oldest, &middle} {
		assert.NoError(t, repo.Create(p))
	}

	resp := doJSON(t, app, http.MethodGet, "/products", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var products []models.Product
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&products))
	resp.Body.Close()

	assert.Len(t, products, 3)
	assert.Equal(t, "Newest", products[0].Name)
	assert.Equal(t, "Middle", products[1].Name)
	assert.Equal(t, "Oldest", products[2].Name)
}

func TestGetProductsEmptyList(t *testing.T) {
	app, _ := setupApp(t)

	resp := doJSON(t, app, http.MethodGet, "/products", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.NoError(t, err)
	// An empty catalog serializes as an empty array, not null.
	assert.JSONEq(t, "[]", string(raw))
}

func TestGetProductByID(t *testing.T) {
	app, repo := setupApp(t)
	product := models.Product{Name: "Widget", Price: 9.5, Description: "A widget"}
	assert.NoError(t, repo.Create(&product))

	resp := doJSON(t, app, http.MethodGet, fmt.Sprintf("/products/%d", product.ID), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	fetched := decodeProduct(t, resp)
	assert.Equal(t, product.ID, fetched.ID)
	assert.Equal(t, "Widget", fetched.Name)

	resp = doJSON(t, app, http.MethodGet, "/products/9999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/products/abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestUpdateProduct(t *testing.T) {
	app, repo := setupApp(t)
	product := models.Product{Name: "Widget", Price: 9.5, Description: "A widget"}
	assert.NoError(t, repo.Create(&product))
	createdAt := product.CreatedAt

	resp := doJSON(t, app, http.MethodPut, fmt.Sprintf("/products/%d", product.ID), map[string]any{
		"name":        "Widget2",
		"price":       "10",
		"description": "Updated",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	updated := decodeProduct(t, resp)
	assert.Equal(t, product.ID, updated.ID)
	assert.Equal(t, "Widget2", updated.Name)
	assert.Equal(t, 10.0, updated.Price)
	assert.Equal(t, "Updated", updated.Description)
	assert.True(t, createdAt.Equal(updated.CreatedAt))
}

func TestUpdateProductErrors(t *testing.T) {
	app, repo := setupApp(t)
	product := models.Product{Name: "Widget", Price: 9.5, Description: "A widget"}
	assert.NoError(t, repo.Create(&product))

	// Missing field
	resp := doJSON(t, app, http.MethodPut, fmt.Sprintf("/products/%d", product.ID), map[string]any{
		"name":  "Widget2",
		"price": 10,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Non-numeric id
	resp = doJSON(t, app, http.MethodPut, "/products/abc", map[string]any{
		"name":        "Widget2",
		"price":       10,
		"description": "Updated",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Missing record
	resp = doJSON(t, app, http.MethodPut, "/products/9999", map[string]any{
		"name":        "Widget2",
		"price":       10,
		"description": "Updated",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	// The stored row is untouched by the rejected updates.
	stored, err := repo.GetByID(product.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Widget", stored.Name)
	assert.Equal(t, 9.5, stored.Price)
}

func TestDeleteProduct(t *testing.T) {
	app, repo := setupApp(t)
	product := models.Product{Name: "Widget", Price: 9.5, Description: "A widget"}
	assert.NoError(t, repo.Create(&product))

	resp := doJSON(t, app, http.MethodDelete, fmt.Sprintf("/products/%d", product.ID), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// The response carries the record's state prior to deletion.
	snapshot := decodeProduct(t, resp)
	assert.Equal(t, product.ID, snapshot.ID)
	assert.Equal(t, "Widget", snapshot.Name)
	assert.Equal(t, 9.5, snapshot.Price)

	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/products/%d", product.ID), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/products/%d", product.ID), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodDelete, "/products/abc", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

// TestProductLifecycle walks one record through create, list, replace,
// delete and the final fetch of the removed id.
func TestProductLifecycle(t *testing.T) {
	app, _ := setupApp(t)

	resp := doJSON(t, app, http.MethodPost, "/products", map[string]any{
		"name":        "Widget",
		"price":       "9.5",
		"description": "A widget",
	})
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeProduct(t, resp)
	assert.Equal(t, 9.5, created.Price)

	resp = doJSON(t, app, http.MethodGet, "/products", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var products []models.Product
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&products))
	resp.Body.Close()
	assert.Len(t, products, 1)
	assert.Equal(t, created.ID, products[0].ID)

	resp = doJSON(t, app, http.MethodPut, fmt.Sprintf("/products/%d", created.ID), map[string]any{
		"name":        "Widget2",
		"price":       "10",
		"description": "Updated",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decodeProduct(t, resp)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, 10.0, updated.Price)

	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/products/%d", created.ID), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	snapshot := decodeProduct(t, resp)
	assert.Equal(t, "Widget2", snapshot.Name)
	assert.Equal(t, 10.0, snapshot.Price)

	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/products/%d", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
