package repository

import (
	"errors"
	"time"

	"community-portal/pkg/models"

	"gorm.io/gorm"
)

var ErrStoreUnavailable = errors.New("catalog store unavailable")

type CatalogRepository interface {
	ListEvents(limit, offset int) ([]*models.Event, error)
	ListBusinesses(category string, limit, offset int) ([]*models.Business, error)
	ListCategories(categoryType models.CategoryType) ([]*models.Category, error)
	CreateFeedback(feedback *models.Feedback) error
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

// ListEvents returns upcoming events first, soonest at the top. Past
// events are left out.
func (r *catalogRepository) ListEvents(limit, offset int) ([]*models.Event, error) {
	if r.db == nil {
		return nil, ErrStoreUnavailable
	}

	var events []*models.Event
	query := r.db.Where("start_time >= ?", time.Now()).Order("is_featured DESC, start_time ASC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *catalogRepository) ListBusinesses(category string, limit, offset int) ([]*models.Business, error) {
	if r.db == nil {
		return nil, ErrStoreUnavailable
	}

	var businesses []*models.Business
	query := r.db.Order("is_featured DESC, name ASC")
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&businesses).Error; err != nil {
		return nil, err
	}
	return businesses, nil
}

func (r *catalogRepository) ListCategories(categoryType models.CategoryType) ([]*models.Category, error) {
	if r.db == nil {
		return nil, ErrStoreUnavailable
	}

	var categories []*models.Category
	query := r.db.Order("name ASC")
	if categoryType != "" {
		query = query.Where("type = ?", categoryType)
	}
	if err := query.Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *catalogRepository) CreateFeedback(feedback *models.Feedback) error {
	if r.db == nil {
		return ErrStoreUnavailable
	}
	return r.db.Create(feedback).Error
}
