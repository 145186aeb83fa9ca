package model

import (
	"time"

	"community-portal/pkg/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserModel is the storage shape of an account, including the password
// hash that the entity deliberately omits.
type UserModel struct {
	ID           string          `gorm:"type:uuid;primary_key"`
	Email        string          `gorm:"uniqueIndex;not null"`
	PasswordHash string          `gorm:"column:password_hash;not null"`
	FullName     string          `gorm:"not null"`
	Role         models.UserRole `gorm:"type:varchar(20);default:'user'"`
	IsActive     bool            `gorm:"default:true"`
	AvatarURL    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (UserModel) TableName() string {
	return "user_profiles"
}

func (m *UserModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}
