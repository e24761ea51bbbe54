package repositories

import (
	"sync"
	"time"

	"wardrobe/internal/models"

	"github.com/google/uuid"
)

// MockAdminRepository is an in-memory implementation of AdminRepository.
type MockAdminRepository struct {
	admins map[string]models.Admin // keyed by ID
	mu     sync.RWMutex
}

// NewMockAdminRepository creates a new instance of MockAdminRepository.
func NewMockAdminRepository() *MockAdminRepository {
	return &MockAdminRepository{
		admins: make(map[string]models.Admin),
	}
}

// GetByEmail returns the admin with the given email.
func (r *MockAdminRepository) GetByEmail(email string) (*models.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, admin := range r.admins {
		if admin.Email == email {
			a := admin
			return &a, nil
		}
	}
	return nil, ErrAdminNotFound
}

// GetByID returns the admin with the given ID.
func (r *MockAdminRepository) GetByID(id string) (*models.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	admin, ok := r.admins[id]
	if !ok {
		return nil, ErrAdminNotFound
	}
	return &admin, nil
}

// Create adds a new admin, filling in the generated ID and timestamps.
func (r *MockAdminRepository) Create(admin *models.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if admin.ID == "" {
		admin.ID = uuid.New().String()
	}
	now := time.Now()
	if admin.CreatedAt.IsZero() {
		admin.CreatedAt = now
	}
	admin.UpdatedAt = now

	r.admins[admin.ID] = *admin
	return nil
}

// Save persists changes to an existing admin record.
func (r *MockAdminRepository) Save(admin *models.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.admins[admin.ID]; !ok {
		return ErrAdminNotFound
	}
	admin.UpdatedAt = time.Now()
	r.admins[admin.ID] = *admin
	return nil
}
