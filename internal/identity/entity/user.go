package entity

import (
	"time"

	"community-portal/pkg/models"
)

// User is the current-actor view of an account. Credentials never leave
// the persistence layer.
type User struct {
	ID        string          `json:"id"`
	Email     string          `json:"email"`
	FullName  string          `json:"full_name"`
	Role      models.UserRole `json:"role"`
	IsActive  bool            `json:"is_active"`
	AvatarURL string          `json:"avatar_url,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}
