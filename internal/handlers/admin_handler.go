package handlers

import (
	"log"

	"wardrobe/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler handles HTTP requests for admin-account onboarding.
type AdminHandler struct {
	onboarding *services.OnboardingService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(onboarding *services.OnboardingService) *AdminHandler {
	return &AdminHandler{
		onboarding: onboarding,
	}
}

// RegisterRoutes registers the onboarding route with the Fiber app.
// Any authenticated session may onboard; the route group's JWT
// middleware is the only gate.
func (h *AdminHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/onboard", h.HandleOnboard)
}

// HandleOnboard grants the admin role to the given email, creating the
// account with temporary access when it does not exist.
func (h *AdminHandler) HandleOnboard(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing onboard request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email is required",
		})
	}
	if req.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Email is required",
		})
	}

	message, err := h.onboarding.Onboard(req.Email)
	if err != nil {
		log.Printf("Error onboarding %s: %v", req.Email, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to onboard admin",
		})
	}

	return c.JSON(fiber.Map{
		"message": message,
	})
}
