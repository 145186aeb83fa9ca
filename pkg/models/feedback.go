package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Feedback is write-mostly: visitors submit it, admins read it out of
// band. No moderation lifecycle applies.
type Feedback struct {
	ID        string         `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `json:"name"`
	Email     string         `json:"email"`
	Message   string         `gorm:"type:text;not null" json:"message"`
	Page      string         `json:"page"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (f *Feedback) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	return nil
}
