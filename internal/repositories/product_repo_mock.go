package repositories

import (
	"sort"
	"sync"
	"time"

	"catalog/internal/models"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
// It backs local runs without a database and doubles as a test fixture.
type MockProductRepository struct {
	products map[uint]models.Product
	nextID   uint
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[uint]models.Product),
		nextID:   1,
	}
}

// GetAll returns all products ordered by creation time, newest first.
func (r *MockProductRepository) GetAll() ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		productList = append(productList, p)
	}
	sort.Slice(productList, func(i, j int) bool {
		if !productList[i].CreatedAt.Equal(productList[j].CreatedAt) {
			return productList[i].CreatedAt.After(productList[j].CreatedAt)
		}
		return productList[i].ID > productList[j].ID
	})
	return productList, nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(id uint) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return &product, nil
}

// Create adds a new product, assigning the next surrogate key.
func (r *MockProductRepository) Create(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	product.ID = r.nextID
	r.nextID++
	now := time.Now()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now
	r.products[product.ID] = *product
	return nil
}

// Update replaces the mutable fields of an existing product.
func (r *MockProductRepository) Update(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.products[product.ID]
	if !ok {
		return ErrProductNotFound
	}
	existing.Name = product.Name
	existing.Price = product.Price
	existing.Description = product.Description
	existing.UpdatedAt = time.Now()
	r.products[product.ID] = existing
	*product = existing
	return nil
}

// Delete removes a product by its ID and returns its prior state.
func (r *MockProductRepository) Delete(id uint) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	delete(r.products, id)
	return &product, nil
}
