package persistent

import (
	"community-portal/internal/classifieds/entity"
	"community-portal/internal/classifieds/model"
)

func ToAdEntity(m *model.AdModel) *entity.Ad {
	if m == nil {
		return nil
	}

	ad := &entity.Ad{
		ID:              m.ID,
		Title:           m.Title,
		Description:     m.Description,
		CategoryID:      m.CategoryID,
		Subcategory:     m.Subcategory,
		Price:           m.Price,
		Location:        m.Location,
		ContactName:     m.ContactName,
		ContactEmail:    m.ContactEmail,
		ContactPhone:    m.ContactPhone,
		Status:          entity.AdStatus(m.Status),
		AuthorID:        m.AuthorID,
		AuthorName:      m.AuthorName,
		RejectionReason: m.RejectionReason,
		IsFeatured:      m.IsFeatured,
		ExpiresAt:       m.ExpiresAt,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}

	if m.Category != nil {
		ad.CategoryName = m.Category.Name
	}

	if len(m.Images) > 0 {
		ad.Images = make([]entity.AdImage, len(m.Images))
		for i, img := range m.Images {
			ad.Images[i] = ToAdImageEntity(&img)
		}
	} else {
		ad.Images = []entity.AdImage{}
	}

	return ad
}

func ToAdModel(e *entity.Ad) *model.AdModel {
	if e == nil {
		return nil
	}

	ad := &model.AdModel{
		ID:              e.ID,
		Title:           e.Title,
		Description:     e.Description,
		CategoryID:      e.CategoryID,
		Subcategory:     e.Subcategory,
		Price:           e.Price,
		Location:        e.Location,
		ContactName:     e.ContactName,
		ContactEmail:    e.ContactEmail,
		ContactPhone:    e.ContactPhone,
		Status:          string(e.Status),
		AuthorID:        e.AuthorID,
		AuthorName:      e.AuthorName,
		RejectionReason: e.RejectionReason,
		IsFeatured:      e.IsFeatured,
		ExpiresAt:       e.ExpiresAt,
		CreatedAt:       e.CreatedAt,
		UpdatedAt:       e.UpdatedAt,
	}

	if len(e.Images) > 0 {
		ad.Images = make([]model.AdImageModel, len(e.Images))
		for i, img := range e.Images {
			ad.Images[i] = *ToAdImageModel(&img)
		}
	}

	return ad
}

func ToAdImageEntity(m *model.AdImageModel) entity.AdImage {
	if m == nil {
		return entity.AdImage{}
	}

	return entity.AdImage{
		ID:        m.ID,
		AdID:      m.AdID,
		ImageURL:  m.ImageURL,
		Order:     m.Order,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func ToAdImageModel(e *entity.AdImage) *model.AdImageModel {
	if e == nil {
		return nil
	}

	return &model.AdImageModel{
		ID:        e.ID,
		AdID:      e.AdID,
		ImageURL:  e.ImageURL,
		Order:     e.Order,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}
