package services

import (
	"errors"
	"fmt"

	"wardrobe/internal/models"
	"wardrobe/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

// TemporaryPassword is the fixed placeholder credential given to admins
// created through onboarding. It is meant to be reset out-of-band after
// the first login.
const TemporaryPassword = "temp1234"

// OnboardingService grants administrative access to an email address,
// creating the account when it does not exist yet.
type OnboardingService struct {
	adminRepo repositories.AdminRepository
}

// NewOnboardingService creates a new OnboardingService.
func NewOnboardingService(adminRepo repositories.AdminRepository) *OnboardingService {
	return &OnboardingService{
		adminRepo: adminRepo,
	}
}

// Onboard ensures the given email holds the admin role and returns a
// message describing what happened. Repeated calls with the same email
// converge to the same end state and never error.
func (s *OnboardingService) Onboard(email string) (string, error) {
	admin, err := s.adminRepo.GetByEmail(email)
	if errors.Is(err, repositories.ErrAdminNotFound) {
		hash, hashErr := bcrypt.GenerateFromPassword([]byte(TemporaryPassword), bcrypt.DefaultCost)
		if hashErr != nil {
			return "", fmt.Errorf("failed to hash temporary password: %w", hashErr)
		}
		newAdmin := &models.Admin{
			Email:    email,
			Password: string(hash),
			Role:     models.RoleAdmin,
		}
		if err := s.adminRepo.Create(newAdmin); err != nil {
			return "", fmt.Errorf("failed to create admin: %w", err)
		}
		return "Admin created successfully with temporary access", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up admin: %w", err)
	}

	if admin.Role == models.RoleAdmin {
		return "Admin already exists", nil
	}

	admin.Role = models.RoleAdmin
	if err := s.adminRepo.Save(admin); err != nil {
		return "", fmt.Errorf("failed to promote admin: %w", err)
	}
	return "Admin onboarded successfully", nil
}

// Bootstrap creates the initial admin account from configuration if no
// account with that email exists yet. Used once at process startup.
func (s *OnboardingService) Bootstrap(email, password string) error {
	_, err := s.adminRepo.GetByEmail(email)
	if err == nil {
		return nil // already present
	}
	if !errors.Is(err, repositories.ErrAdminNotFound) {
		return fmt.Errorf("failed to look up admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	admin := &models.Admin{
		Email:    email,
		Password: string(hash),
		Role:     models.RoleAdmin,
	}
	if err := s.adminRepo.Create(admin); err != nil {
		return fmt.Errorf("failed to create admin: %w", err)
	}
	return nil
}
