package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"wardrobe/internal/models"
	"wardrobe/internal/pricing"
	"wardrobe/internal/repositories"
	"wardrobe/internal/storage"
	"wardrobe/internal/validation"
)

// ErrMissingImage is returned when product creation is attempted
// without an image file, before any collaborator is called.
var ErrMissingImage = errors.New("product image is required")

// ErrMalformedSizes is returned when the sizes form field is not a
// valid JSON array of strings.
var ErrMalformedSizes = errors.New("sizes must be a JSON array of strings")

// EventPublisher publishes catalog change events to a message broker.
type EventPublisher interface {
	Publish(exchange, routingKey string, body []byte) error
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo      repositories.ProductRepository
	images    storage.ImageStore
	validator *validation.ProductValidator
	publisher EventPublisher // may be nil when no broker is configured
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, images storage.ImageStore, publisher EventPublisher) *ProductService {
	return &ProductService{
		repo:      repo,
		images:    images,
		validator: validation.NewProductValidator(),
		publisher: publisher,
	}
}

// CreateProductInput carries the raw multipart form fields of the
// product creation wizard. Numeric fields and the sizes list arrive as
// strings and are parsed by the workflow.
type CreateProductInput struct {
	Name        string
	Brand       string
	Category    string
	Description string
	SizesJSON   string
	Colors      string
	Material    string
	Fit         string
	Stock       string
	SKU         string
	Price       string
	Discount    string
}

// CreateProduct runs the product creation workflow: upload the image,
// parse the form fields, validate, compute the final price and persist.
// The image upload and the database insert are not transactional; a
// persistence failure leaves the uploaded image behind.
func (s *ProductService) CreateProduct(ctx context.Context, input CreateProductInput, image io.Reader, imageName string) (*models.Product, error) {
	if image == nil {
		return nil, ErrMissingImage
	}

	imageURL, err := s.images.Upload(ctx, image, imageName)
	if err != nil {
		return nil, fmt.Errorf("image upload failed: %w", err)
	}

	price, _ := strconv.ParseFloat(input.Price, 64)
	discount, _ := strconv.ParseFloat(input.Discount, 64)
	stock, _ := strconv.Atoi(input.Stock)

	var sizes []string
	if input.SizesJSON != "" {
		if err := json.Unmarshal([]byte(input.SizesJSON), &sizes); err != nil {
			return nil, ErrMalformedSizes
		}
	}
	for i := range sizes {
		sizes[i] = strings.TrimSpace(sizes[i])
	}

	product := &models.Product{
		Name:        input.Name,
		Brand:       input.Brand,
		Category:    input.Category,
		Description: input.Description,
		Sizes:       sizes,
		Colors:      input.Colors,
		Material:    input.Material,
		Fit:         input.Fit,
		Stock:       stock,
		SKU:         input.SKU,
		Price:       price,
		Discount:    discount,
		FinalPrice:  pricing.FinalPrice(price, discount),
		Image:       imageURL,
	}

	if errs := s.validator.ValidateProduct(product); errs != nil {
		return nil, errs
	}

	if err := s.repo.Create(product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.publishEvent("product.created", product.ID, product)
	return product, nil
}

// GetAllProducts retrieves all products, newest first.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// UpdateProductInput carries the mutable fields of a product. Identifier,
// creation timestamp and the step 1 fields are never touched by updates.
type UpdateProductInput struct {
	Sizes    []string `json:"sizes"`
	Colors   string   `json:"colors"`
	Stock    int      `json:"stock"`
	SKU      string   `json:"sku"`
	Price    float64  `json:"price"`
	Discount float64  `json:"discount"`
}

// UpdateProduct applies a partial update and recomputes the final price.
func (s *ProductService) UpdateProduct(id string, input UpdateProductInput) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	product.Sizes = input.Sizes
	product.Colors = input.Colors
	product.Stock = input.Stock
	product.SKU = input.SKU
	product.Price = input.Price
	product.Discount = input.Discount
	product.FinalPrice = pricing.FinalPrice(input.Price, input.Discount)

	if err := s.repo.Update(product); err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	s.publishEvent("product.updated", product.ID, product)
	return product, nil
}

// DeleteProduct deletes a product by its ID. Deleting an ID that
// matches nothing still succeeds.
func (s *ProductService) DeleteProduct(id string) error {
	if err := s.repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.publishEvent("product.deleted", id, nil)
	return nil
}

// publishEvent sends a catalog change event to the broker, best effort.
// Publish failures are logged and never fail the operation.
func (s *ProductService) publishEvent(routingKey, productID string, product *models.Product) {
	if s.publisher == nil {
		return
	}

	event := map[string]interface{}{
		"productID": productID,
	}
	if product != nil {
		event["name"] = product.Name
		event["sku"] = product.SKU
		event["finalPrice"] = product.FinalPrice
		event["stock"] = product.Stock
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal catalog event: %v", err)
		return
	}
	if err := s.publisher.Publish("catalog", routingKey, body); err != nil {
		log.Printf("Warning: Failed to publish %s event for product %s: %v", routingKey, productID, err)
	}
}
