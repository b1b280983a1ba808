package services

import (
	"encoding/json"
	"log"
	"time"

	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/pkg/rabbitmq"

	"github.com/google/uuid"
)

// ProductService handles business logic related to products. Besides
// delegating to the repository it publishes a best-effort catalog event
// after every successful mutation; publish failures are logged and never
// affect the request outcome.
type ProductService struct {
	repo     repositories.ProductRepository
	mqClient *rabbitmq.Client
}

// NewProductService creates a new ProductService. mqClient may be nil,
// in which case event publication is skipped.
func NewProductService(repo repositories.ProductRepository, mqClient *rabbitmq.Client) *ProductService {
	return &ProductService{
		repo:     repo,
		mqClient: mqClient,
	}
}

// GetAllProducts retrieves all products, newest first.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id uint) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// CreateProduct inserts a new product and publishes a product.created event.
func (s *ProductService) CreateProduct(product *models.Product) error {
	if err := s.repo.Create(product); err != nil {
		return err
	}
	s.publishEvent("product.created", product)
	return nil
}

// UpdateProduct replaces an existing product's mutable fields and publishes
// a product.updated event.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	if err := s.repo.Update(product); err != nil {
		return err
	}
	s.publishEvent("product.updated", product)
	return nil
}

// DeleteProduct deletes a product by its ID, returning its prior state,
// and publishes a product.deleted event.
func (s *ProductService) DeleteProduct(id uint) (*models.Product, error) {
	product, err := s.repo.Delete(id)
	if err != nil {
		return nil, err
	}
	s.publishEvent("product.deleted", product)
	return product, nil
}

// publishEvent emits a catalog event for downstream consumers (inventory
// sync, notifications). Failures are logged only.
func (s *ProductService) publishEvent(action string, product *models.Product) {
	if s.mqClient == nil {
		return
	}

	event := map[string]interface{}{
		"eventId":   uuid.New().String(),
		"action":    action,
		"productId": product.ID,
		"name":      product.Name,
		"price":     product.Price,
		"occurred":  time.Now().Format(time.RFC3339),
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal %s event for product %d: %v", action, product.ID, err)
		return
	}
	if err := s.mqClient.PublishCatalogEvent(body); err != nil {
		log.Printf("Warning: failed to publish %s event for product %d: %v", action, product.ID, err)
	}
}
