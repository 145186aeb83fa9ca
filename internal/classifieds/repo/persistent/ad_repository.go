package persistent

import (
	"errors"

	"community-portal/internal/classifieds/entity"
	"community-portal/internal/classifieds/model"

	"gorm.io/gorm"
)

// ErrStoreUnavailable is returned by every method when the portal runs
// without a configured database. Callers degrade to empty data plus a
// visible message instead of crashing.
var ErrStoreUnavailable = errors.New("classified store unavailable")

// ListFilter narrows the public listing. Zero values mean "no filter".
type ListFilter struct {
	CategoryID string
	Search     string
	MinPrice   *float64
	MaxPrice   *float64
	Limit      int
	Offset     int
}

type AdRepository interface {
	Create(ad *entity.Ad) error
	GetByID(id string) (*entity.Ad, error)
	ListAll() ([]*entity.Ad, error)
	ListApproved(filter ListFilter) ([]*entity.Ad, error)
	ListByStatus(status entity.AdStatus, limit, offset int) ([]*entity.Ad, error)
	Patch(id string, fields map[string]interface{}) error
	Delete(id string) error
}

type adRepository struct {
	db *gorm.DB
}

func NewAdRepository(db *gorm.DB) AdRepository {
	return &adRepository{db: db}
}

func (r *adRepository) Create(ad *entity.Ad) error {
	if r.db == nil {
		return ErrStoreUnavailable
	}

	m := ToAdModel(ad)
	if err := r.db.Create(m).Error; err != nil {
		return err
	}

	// Server-assigned fields flow back to the caller
	ad.ID = m.ID
	ad.CreatedAt = m.CreatedAt
	ad.UpdatedAt = m.UpdatedAt
	for i := range m.Images {
		ad.Images[i].ID = m.Images[i].ID
		ad.Images[i].AdID = m.Images[i].AdID
	}
	return nil
}

func (r *adRepository) GetByID(id string) (*entity.Ad, error) {
	if r.db == nil {
		return nil, ErrStoreUnavailable
	}

	var m model.AdModel
	err := r.db.Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("ad_images.order ASC")
		}).
		Where("id = ?", id).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return ToAdEntity(&m), nil
}

// ListAll returns every ad newest first, with category names and images
// preloaded. It is the moderation console's authoritative view.
func (r *adRepository) ListAll() ([]*entity.Ad, error) {
	if r.db == nil {
		return nil, ErrStoreUnavailable
	}

	var rows []*model.AdModel
	err := r.db.Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("ad_images.order ASC")
		}).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	ads := make([]*entity.Ad, len(rows))
	for i, row := range rows {
		ads[i] = ToAdEntity(row)
	}
	return ads, nil
}

func (r *adRepository) ListApproved(filter ListFilter) ([]*entity.Ad, error) {
	if r.db == nil {
		return nil, ErrStoreUnavailable
	}

	query := r.db.Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("ad_images.order ASC")
		}).
		Where("status = ?", string(entity.StatusApproved))

	if filter.CategoryID != "" {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}

	query = query.Order("is_featured DESC, created_at DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}

	var rows []*model.AdModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	ads := make([]*entity.Ad, len(rows))
	for i, row := range rows {
		ads[i] = ToAdEntity(row)
	}
	return ads, nil
}

func (r *adRepository) ListByStatus(status entity.AdStatus, limit, offset int) ([]*entity.Ad, error) {
	if r.db == nil {
		return nil, ErrStoreUnavailable
	}

	query := r.db.Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("ad_images.order ASC")
		}).
		Where("status = ?", string(status)).
		Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	var rows []*model.AdModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}

	ads := make([]*entity.Ad, len(rows))
	for i, row := range rows {
		ads[i] = ToAdEntity(row)
	}
	return ads, nil
}

// Patch applies a sparse update: only the provided columns are written.
// A missing id surfaces as gorm.ErrRecordNotFound.
func (r *adRepository) Patch(id string, fields map[string]interface{}) error {
	if r.db == nil {
		return ErrStoreUnavailable
	}

	result := r.db.Model(&model.AdModel{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *adRepository) Delete(id string) error {
	if r.db == nil {
		return ErrStoreUnavailable
	}

	result := r.db.Where("id = ?", id).Delete(&model.AdModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
