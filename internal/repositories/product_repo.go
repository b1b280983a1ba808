package repositories

import (
	"errors"

	"catalog/internal/models"
)

// ErrProductNotFound is returned when no row matches the requested key.
// It is deliberately distinct from any other store error so that callers
// can map it to a 404 without conflating constraint violations or
// connectivity failures.
var ErrProductNotFound = errors.New("product not found")

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	// GetAll returns every product ordered by creation time, newest first.
	GetAll() ([]models.Product, error)
	GetByID(id uint) (*models.Product, error)
	Create(product *models.Product) error
	// Update replaces Name, Price and Description of the row matching
	// product.ID and writes the stored row back into product.
	Update(product *models.Product) error
	// Delete removes the row and returns its state prior to deletion.
	Delete(id uint) (*models.Product, error)
}
