// internal/domain/profile/service.go
package profile

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Service handles profile business logic
type Service struct {
	db *gorm.DB
}

// NewService creates a new profile service
func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// UpsertRequest carries the provider-verified identity payload delivered by
// the sign-in callback.
type UpsertRequest struct {
	ID        string `json:"id" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
	Provider  string `json:"provider"`
}

// UpdateRequest carries the fields a signed-in user may change themselves.
type UpdateRequest struct {
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
}

// Upsert creates the profile row on first sign-in and refreshes the
// provider-supplied fields on subsequent ones. The role flag is never
// touched here.
func (s *Service) Upsert(req *UpsertRequest) (*Profile, error) {
	var existing Profile
	err := s.db.Where("id = ?", req.ID).First(&existing).Error

	if err == gorm.ErrRecordNotFound {
		created := Profile{
			ID:        req.ID,
			Email:     strings.ToLower(req.Email),
			FullName:  req.FullName,
			AvatarURL: req.AvatarURL,
			Provider:  req.Provider,
		}
		if created.Provider == "" {
			created.Provider = "kakao"
		}
		if err := s.db.Create(&created).Error; err != nil {
			return nil, fmt.Errorf("failed to create profile: %w", err)
		}
		return &created, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to look up profile: %w", err)
	}

	updates := map[string]interface{}{
		"email":      strings.ToLower(req.Email),
		"updated_at": time.Now().UTC(),
	}
	if req.FullName != "" {
		updates["full_name"] = req.FullName
	}
	if req.AvatarURL != "" {
		updates["avatar_url"] = req.AvatarURL
	}

	if err := s.db.Model(&existing).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to refresh profile: %w", err)
	}

	return s.Get(req.ID)
}

// Get retrieves a profile by its identity-provider subject
func (s *Service) Get(id string) (*Profile, error) {
	var p Profile
	if err := s.db.Where("id = ?", id).First(&p).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("profile not found")
		}
		return nil, fmt.Errorf("failed to retrieve profile: %w", err)
	}
	return &p, nil
}

// Update changes the user-editable profile fields
func (s *Service) Update(id string, req *UpdateRequest) (*Profile, error) {
	updates := map[string]interface{}{
		"updated_at": time.Now().UTC(),
	}
	if req.FullName != "" {
		updates["full_name"] = req.FullName
	}
	if req.AvatarURL != "" {
		updates["avatar_url"] = req.AvatarURL
	}

	result := s.db.Model(&Profile{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update profile: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, fmt.Errorf("profile not found")
	}

	return s.Get(id)
}
