package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AdModel struct {
	ID              string         `gorm:"type:uuid;primary_key" json:"id"`
	Title           string         `gorm:"type:varchar(255);not null" json:"title"`
	Description     string         `gorm:"type:text;not null" json:"description"`
	CategoryID      string         `gorm:"type:uuid;index" json:"category_id"`
	Category        *CategoryModel `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Subcategory     *string        `gorm:"type:varchar(100)" json:"subcategory"`
	Price           *float64       `json:"price"`
	Location        string         `gorm:"type:varchar(255);not null" json:"location"`
	ContactName     string         `gorm:"type:varchar(255);not null" json:"contact_name"`
	ContactEmail    string         `gorm:"type:varchar(255);not null" json:"contact_email"`
	ContactPhone    *string        `gorm:"type:varchar(50)" json:"contact_phone"`
	Status          string         `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	AuthorID        *string        `gorm:"type:uuid;index" json:"author_id"`
	AuthorName      string         `gorm:"type:varchar(255)" json:"author_name"`
	RejectionReason *string        `gorm:"type:text" json:"rejection_reason"`
	IsFeatured      bool           `gorm:"default:false;index" json:"is_featured"`
	ExpiresAt       *time.Time     `json:"expires_at"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
	Images          []AdImageModel `gorm:"foreignKey:AdID" json:"images,omitempty"`
}

func (AdModel) TableName() string {
	return "classified_ads"
}

func (a *AdModel) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

type AdImageModel struct {
	ID        string         `gorm:"type:uuid;primary_key" json:"id"`
	AdID      string         `gorm:"type:uuid;not null;index" json:"ad_id"`
	ImageURL  string         `gorm:"type:varchar(500);not null" json:"image_url"`
	Order     int            `gorm:"default:0;index" json:"order"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (AdImageModel) TableName() string {
	return "ad_images"
}

func (i *AdImageModel) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}

// CategoryModel is the classifieds-side read view of the shared
// categories table, preloaded for display-name enrichment.
type CategoryModel struct {
	ID   string `gorm:"type:uuid;primary_key" json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

func (CategoryModel) TableName() string {
	return "categories"
}
