package handlers

import (
	"errors"
	"log"

	"wardrobe/internal/repositories"
	"wardrobe/internal/services"
	"wardrobe/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	service *services.ProductService
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service: service,
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
// PUT and DELETE take the product id in the request body, matching the
// dashboard's API shape; only GET-by-id uses a path parameter.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/products", h.HandleGetProducts)
	router.Post("/products", h.HandleCreateProduct)
	router.Put("/products", h.HandleUpdateProduct)
	router.Delete("/products", h.HandleDeleteProduct)
	router.Get("/products/:id", h.HandleGetProductByID)
}

// HandleCreateProduct creates a product from the wizard's multipart
// form. The image file is required before anything else happens.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Product image is required",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Printf("Error opening uploaded image: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Product image is required",
		})
	}
	defer file.Close()

	input := services.CreateProductInput{
		Name:        c.FormValue("name"),
		Brand:       c.FormValue("brand"),
		Category:    c.FormValue("category"),
		Description: c.FormValue("description"),
		SizesJSON:   c.FormValue("sizes"),
		Colors:      c.FormValue("colors"),
		Material:    c.FormValue("material"),
		Fit:         c.FormValue("fit"),
		Stock:       c.FormValue("stock"),
		SKU:         c.FormValue("sku"),
		Price:       c.FormValue("price"),
		Discount:    c.FormValue("discount"),
	}

	product, err := h.service.CreateProduct(c.Context(), input, file, fileHeader.Filename)
	if err != nil {
		log.Printf("Error creating product: %v", err)

		var fieldErrors validation.Errors
		if errors.As(err, &fieldErrors) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"message": "Validation failed",
				"errors":  fieldErrors,
			})
		}
		if errors.Is(err, services.ErrMissingImage) || errors.Is(err, services.ErrMalformedSizes) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create product",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleGetProducts retrieves all products, newest first.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts()
	if err != nil {
		log.Printf("Error getting all products: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch products",
		})
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	productID := c.Params("id")
	product, err := h.service.GetProductByID(productID)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Product not found",
			})
		}
		log.Printf("Error getting product by ID %s: %v", productID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch product",
		})
	}
	return c.JSON(product)
}

// UpdateProductRequest represents the request body for a product update.
type UpdateProductRequest struct {
	ID string `json:"id"`
	services.UpdateProductInput
}

// HandleUpdateProduct applies a partial update to an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	var req UpdateProductRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if req.ID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Product id is required",
		})
	}

	product, err := h.service.UpdateProduct(req.ID, req.UpdateProductInput)
	if err != nil {
		if errors.Is(err, repositories.ErrProductNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Product not found",
			})
		}
		log.Printf("Error updating product %s: %v", req.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update product",
		})
	}

	return c.JSON(product)
}

// HandleDeleteProduct removes a product. Deleting an id that matches
// nothing still reports success.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	var req struct {
		ID string `json:"id"`
	}
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing delete request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if req.ID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Product id is required",
		})
	}

	if err := h.service.DeleteProduct(req.ID); err != nil {
		log.Printf("Error deleting product %s: %v", req.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete product",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
	})
}
