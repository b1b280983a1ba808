package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"

	"catalog/internal/models"
	"catalog/internal/repositories"
	"catalog/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Price is a request-body price that accepts either a JSON number or a
// numeric string. The browser form submits a parsed number, but the update
// endpoint historically tolerated strings, so both decode here.
type Price float64

// UnmarshalJSON parses a JSON number or a quoted numeric string into a
// finite float. NaN and infinities are rejected at this boundary so they
// can never reach the store.
func (p *Price) UnmarshalJSON(data []byte) error {
	s := string(bytes.TrimSpace(data))
	if s == "null" {
		return nil
	}
	if len(s) >= 2 && s[0] == '"' {
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid price %q", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("price %q is not a finite number", s)
	}
	*p = Price(v)
	return nil
}

// ProductRequest represents the request body for creating or replacing
// a product. All three fields are required; price must be positive.
type ProductRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Price       Price  `json:"price" validate:"required,gt=0"`
	Description string `json:"description" validate:"required,max=500"`
}

// ProductHandler handles HTTP requests for products.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// parseID extracts the numeric product ID from the request path. A
// non-numeric segment is a client error and must not reach the store.
func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// parseBody decodes and validates a product request body. It returns a
// fiber error response via the passed context when the body is invalid,
// signalled by a nil request pointer.
func (h *ProductHandler) parseBody(c *fiber.Ctx) (*ProductRequest, error) {
	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing product request body: %v", err)
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name, price, and description are required",
		})
	}
	return &req, nil
}

// HandleGetProducts returns every product, newest first.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts()
	if err != nil {
		log.Printf("Error fetching products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch products",
		})
	}
	return c.JSON(products)
}

// HandleCreateProduct inserts a new product from the request body.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	req, err := h.parseBody(c)
	if req == nil {
		return err
	}

	product := models.Product{
		Name:        req.Name,
		Price:       float64(req.Price),
		Description: req.Description,
	}
	if err := h.service.CreateProduct(&product); err != nil {
		log.Printf("Error creating product: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create product",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleGetProductByID returns a single product.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid product ID",
		})
	}

	product, err := h.service.GetProductByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Product not found",
			})
		}
		log.Printf("Error fetching product %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch product",
		})
	}
	return c.JSON(product)
}

// HandleUpdateProduct fully replaces the mutable fields of a product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid product ID",
		})
	}

	req, err := h.parseBody(c)
	if req == nil {
		return err
	}

	product := models.Product{
		ID:          id,
		Name:        req.Name,
		Price:       float64(req.Price),
		Description: req.Description,
	}
	if err := h.service.UpdateProduct(&product); err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Product not found",
			})
		}
		log.Printf("Error updating product %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update product",
		})
	}
	return c.JSON(product)
}

// HandleDeleteProduct removes a product and responds with its prior state.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid product ID",
		})
	}

	product, err := h.service.DeleteProduct(id)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Product not found",
			})
		}
		log.Printf("Error deleting product %d: %v", id, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete product",
		})
	}
	return c.JSON(product)
}
