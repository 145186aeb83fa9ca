package usecase

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"sync"
	"time"

	"community-portal/internal/classifieds/entity"
	"community-portal/internal/classifieds/repo/persistent"
	"community-portal/pkg/cache"
	"community-portal/pkg/logger"
	"community-portal/pkg/s3"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ChangeFeedTable is the change-feed channel suffix for ad mutations.
const ChangeFeedTable = "classified_ads"

type CreateAdInput struct {
	Title        string
	Description  string
	Location     string
	ContactName  string
	ContactEmail string
	ContactPhone *string
	CategoryID   string
	Subcategory  *string
	Price        *float64
	ExpiresAt    *time.Time
	AuthorID     *string
}

// UpdateAdInput is a sparse patch: nil fields are left untouched.
type UpdateAdInput struct {
	Title        *string
	Description  *string
	Location     *string
	ContactPhone *string
	CategoryID   *string
	Subcategory  *string
	Price        *float64
	ExpiresAt    *time.Time
	IsFeatured   *bool
}

type ClassifiedsUseCase interface {
	ListAll() ([]*entity.Ad, error)
	ListPublic(filter persistent.ListFilter) ([]*entity.Ad, error)
	ListPending(limit, offset int) ([]*entity.Ad, error)
	Get(id string) (*entity.Ad, error)
	Create(input CreateAdInput, imageFiles []*multipart.FileHeader) (*entity.Ad, error)
	Update(id string, input UpdateAdInput) error
	Approve(id string) error
	Reject(id, reason string) error
	Delete(id string) error
	LastError() string
}

type classifiedsUseCase struct {
	adRepo      persistent.AdRepository
	s3Client    *s3.Client
	redisClient *redis.Client
	logger      *logger.Logger

	mu      sync.Mutex
	lastErr string
}

func NewClassifiedsUseCase(
	adRepo persistent.AdRepository,
	s3Client *s3.Client,
	redisClient *redis.Client,
	logger *logger.Logger,
) ClassifiedsUseCase {
	return &classifiedsUseCase{
		adRepo:      adRepo,
		s3Client:    s3Client,
		redisClient: redisClient,
		logger:      logger,
	}
}

// ListAll returns every ad newest first. On store failure it returns an
// empty slice together with the error; callers must treat a non-nil
// error as "list unreliable", not as an empty collection.
func (uc *classifiedsUseCase) ListAll() ([]*entity.Ad, error) {
	ads, err := uc.adRepo.ListAll()
	if err != nil {
		uc.setLastError("Unable to load classifieds. Please try again later.")
		return []*entity.Ad{}, err
	}
	uc.setLastError("")
	return ads, nil
}

func (uc *classifiedsUseCase) ListPublic(filter persistent.ListFilter) ([]*entity.Ad, error) {
	ads, err := uc.adRepo.ListApproved(filter)
	if err != nil {
		uc.setLastError("Unable to load classifieds. Please try again later.")
		return []*entity.Ad{}, err
	}
	uc.setLastError("")
	return ads, nil
}

func (uc *classifiedsUseCase) ListPending(limit, offset int) ([]*entity.Ad, error) {
	ads, err := uc.adRepo.ListByStatus(entity.StatusPending, limit, offset)
	if err != nil {
		return []*entity.Ad{}, err
	}
	return ads, nil
}

func (uc *classifiedsUseCase) Get(id string) (*entity.Ad, error) {
	return uc.adRepo.GetByID(id)
}

// Create submits a new listing. Status is forced to pending and the
// author display name to the submitted contact name, regardless of any
// signed-in identity or status present in the input. There is no
// optimistic insert: callers re-list after success.
func (uc *classifiedsUseCase) Create(input CreateAdInput, imageFiles []*multipart.FileHeader) (*entity.Ad, error) {
	if input.Title == "" || input.Description == "" || input.Location == "" ||
		input.ContactName == "" || input.ContactEmail == "" {
		return nil, fmt.Errorf("title, description, location, contact name and contact email are required")
	}

	if input.Price != nil && *input.Price < 0 {
		return nil, fmt.Errorf("price must not be negative")
	}

	if len(imageFiles) > entity.MaxImages {
		return nil, fmt.Errorf("maximum %d images allowed per listing", entity.MaxImages)
	}

	images, err := uc.uploadImages(imageFiles)
	if err != nil {
		return nil, err
	}

	ad := &entity.Ad{
		Title:        input.Title,
		Description:  input.Description,
		CategoryID:   input.CategoryID,
		Subcategory:  input.Subcategory,
		Price:        input.Price,
		Location:     input.Location,
		ContactName:  input.ContactName,
		ContactEmail: input.ContactEmail,
		ContactPhone: input.ContactPhone,
		Images:       images,
		Status:       entity.StatusPending,
		AuthorID:     input.AuthorID,
		AuthorName:   input.ContactName,
		ExpiresAt:    input.ExpiresAt,
	}

	if err := uc.adRepo.Create(ad); err != nil {
		uc.logger.Error("Failed to create classified ad: %v", err)
		return nil, fmt.Errorf("failed to create listing: %w", err)
	}

	uc.publishChange(ad.ID)
	return ad, nil
}

// Update applies a sparse patch: only provided fields are written. A
// stale id surfaces as the store's not-found error.
func (uc *classifiedsUseCase) Update(id string, input UpdateAdInput) error {
	fields := map[string]interface{}{}
	if input.Title != nil {
		fields["title"] = *input.Title
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.Location != nil {
		fields["location"] = *input.Location
	}
	if input.ContactPhone != nil {
		fields["contact_phone"] = *input.ContactPhone
	}
	if input.CategoryID != nil {
		fields["category_id"] = *input.CategoryID
	}
	if input.Subcategory != nil {
		fields["subcategory"] = *input.Subcategory
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return fmt.Errorf("price must not be negative")
		}
		fields["price"] = *input.Price
	}
	if input.ExpiresAt != nil {
		fields["expires_at"] = *input.ExpiresAt
	}
	if input.IsFeatured != nil {
		fields["is_featured"] = *input.IsFeatured
	}

	if len(fields) == 0 {
		return nil
	}

	if err := uc.adRepo.Patch(id, fields); err != nil {
		return err
	}

	uc.publishChange(id)
	return nil
}

// Approve transitions an ad to approved. Re-approving is a state no-op
// but still performs the full round trip.
func (uc *classifiedsUseCase) Approve(id string) error {
	if err := uc.adRepo.Patch(id, map[string]interface{}{
		"status": string(entity.StatusApproved),
	}); err != nil {
		return err
	}

	uc.publishChange(id)
	return nil
}

// Reject transitions an ad to rejected and stores the reason verbatim.
// An empty reason is kept as an empty string, never coerced to null;
// default wording is the presentation layer's decision.
func (uc *classifiedsUseCase) Reject(id, reason string) error {
	if err := uc.adRepo.Patch(id, map[string]interface{}{
		"status":           string(entity.StatusRejected),
		"rejection_reason": reason,
	}); err != nil {
		return err
	}

	uc.publishChange(id)
	return nil
}

func (uc *classifiedsUseCase) Delete(id string) error {
	if err := uc.adRepo.Delete(id); err != nil {
		return err
	}

	uc.publishChange(id)
	return nil
}

// LastError exposes the manager-level error slot consumed by list views.
// Empty means the last fetch succeeded.
func (uc *classifiedsUseCase) LastError() string {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.lastErr
}

func (uc *classifiedsUseCase) setLastError(msg string) {
	uc.mu.Lock()
	uc.lastErr = msg
	uc.mu.Unlock()
}

func (uc *classifiedsUseCase) uploadImages(imageFiles []*multipart.FileHeader) ([]entity.AdImage, error) {
	if len(imageFiles) == 0 {
		return []entity.AdImage{}, nil
	}

	if uc.s3Client == nil {
		return nil, fmt.Errorf("image uploads are not available")
	}

	images := make([]entity.AdImage, 0, len(imageFiles))
	for i, file := range imageFiles {
		ext := filepath.Ext(file.Filename)
		if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
			return nil, fmt.Errorf("invalid image format for file %s. Only jpg, jpeg, png are allowed", file.Filename)
		}

		src, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open file: %w", err)
		}

		fileKey := fmt.Sprintf("classifieds/%s%s", uuid.New().String(), ext)
		contentType := file.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "image/jpeg"
		}

		imageURL, err := uc.s3Client.UploadFile(fileKey, src, contentType)
		src.Close()
		if err != nil {
			uc.logger.Error("Failed to upload ad image: %v", err)
			return nil, fmt.Errorf("failed to upload image: %w", err)
		}

		images = append(images, entity.AdImage{
			ImageURL: imageURL,
			Order:    i,
		})
	}

	return images, nil
}

func (uc *classifiedsUseCase) publishChange(id string) {
	cache.PublishChange(context.Background(), uc.redisClient, ChangeFeedTable, id)
}
