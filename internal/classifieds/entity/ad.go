package entity

import "time"

type AdStatus string

const (
	StatusPending  AdStatus = "pending"
	StatusApproved AdStatus = "approved"
	StatusRejected AdStatus = "rejected"
	StatusExpired  AdStatus = "expired"
)

// MaxImages caps the ordered image set per listing.
const MaxImages = 5

// Ad is a single community listing. It is created pending regardless of
// who submitted it, approved or rejected exactly once by a moderator,
// and never transitions back. Expiration is advisory: expires_at is
// stored and displayed but nothing in the portal enforces it.
type Ad struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	CategoryID      string     `json:"category_id"`
	CategoryName    string     `json:"category_name"`
	Subcategory     *string    `json:"subcategory,omitempty"`
	Price           *float64   `json:"price,omitempty"`
	Location        string     `json:"location"`
	ContactName     string     `json:"contact_name"`
	ContactEmail    string     `json:"contact_email"`
	ContactPhone    *string    `json:"contact_phone,omitempty"`
	Images          []AdImage  `json:"images"`
	Status          AdStatus   `json:"status"`
	AuthorID        *string    `json:"author_id,omitempty"`
	AuthorName      string     `json:"author_name"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	IsFeatured      bool       `json:"is_featured"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	ExpiresAt       *time.Time `json:"expires_at,omitempty"`
}

type AdImage struct {
	ID        string    `json:"id"`
	AdID      string    `json:"ad_id"`
	ImageURL  string    `json:"image_url"`
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
