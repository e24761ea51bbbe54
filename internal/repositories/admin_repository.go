package repositories

import (
	"errors"

	"wardrobe/internal/models"
)

// ErrAdminNotFound is returned when no admin matches the given email or ID.
var ErrAdminNotFound = errors.New("admin not found")

// AdminRepository defines the interface for admin account data access.
type AdminRepository interface {
	GetByEmail(email string) (*models.Admin, error)
	GetByID(id string) (*models.Admin, error)
	Create(admin *models.Admin) error
	Save(admin *models.Admin) error
}
