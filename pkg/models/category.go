package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CategoryType string

const (
	CategoryTypeClassified CategoryType = "classified"
	CategoryTypeEvent      CategoryType = "event"
	CategoryTypeBusiness   CategoryType = "business"
)

type Category struct {
	ID            string         `gorm:"type:uuid;primary_key" json:"id"`
	Name          string         `gorm:"not null;index" json:"name"`
	Type          CategoryType   `gorm:"type:varchar(20);not null;index" json:"type"`
	Subcategories []string       `gorm:"serializer:json" json:"subcategories"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}
