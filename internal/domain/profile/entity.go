// internal/domain/profile/entity.go
package profile

import (
	"time"
)

// Role values for the access-control flag. There is no permission graph
// beyond this single flag.
const (
	RoleAdmin = "admin"
)

// Profile represents a shopper identity record. The ID is the opaque subject
// issued by the external identity provider; no local credentials exist.
type Profile struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Email     string    `gorm:"not null;size:255" json:"email"`
	FullName  string    `gorm:"size:255" json:"full_name"`
	AvatarURL string    `gorm:"size:500" json:"avatar_url"`
	Role      string    `gorm:"size:20;default:''" json:"role"`
	Provider  string    `gorm:"size:30" json:"provider"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (Profile) TableName() string {
	return "profiles"
}

// IsAdmin reports whether the profile carries the admin flag
func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}
