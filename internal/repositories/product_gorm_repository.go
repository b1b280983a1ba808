package repositories

import (
	"errors"
	"fmt"

	"catalog/internal/models"

	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all products from the database, newest first.
func (r *GORMProductRepository) GetAll() ([]models.Product, error) {
	products := make([]models.Product, 0)
	if err := r.db.Order("created_at DESC, id DESC").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}
	return &product, nil
}

// Create inserts a new product. The database assigns the ID and GORM
// stamps CreatedAt unless the caller pre-set it.
func (r *GORMProductRepository) Create(product *models.Product) error {
	if err := r.db.Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update replaces the three mutable fields of an existing row. The row is
// loaded first so that CreatedAt survives the save and a missing row is
// reported as ErrProductNotFound rather than a silent no-op.
func (r *GORMProductRepository) Update(product *models.Product) error {
	var existing models.Product
	if err := r.db.First(&existing, product.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrProductNotFound
		}
		return fmt.Errorf("failed to load product %d for update: %w", product.ID, err)
	}

	existing.Name = product.Name
	existing.Price = product.Price
	existing.Description = product.Description

	if err := r.db.Save(&existing).Error; err != nil {
		return fmt.Errorf("failed to update product %d: %w", product.ID, err)
	}
	*product = existing
	return nil
}

// Delete removes a product by its ID and returns its prior state.
func (r *GORMProductRepository) Delete(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to load product %d for deletion: %w", id, err)
	}

	res := r.db.Delete(&models.Product{}, id)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to delete product %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrProductNotFound
	}
	return &product, nil
}
