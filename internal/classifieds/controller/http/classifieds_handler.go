package http

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"community-portal/internal/classifieds/entity"
	"community-portal/internal/classifieds/repo/persistent"
	"community-portal/internal/classifieds/usecase"
	"community-portal/pkg/logger"
	"community-portal/pkg/models"

	"github.com/gin-gonic/gin"
)

type ClassifiedsHandler struct {
	classifieds usecase.ClassifiedsUseCase
	logger      *logger.Logger
}

func NewClassifiedsHandler(classifieds usecase.ClassifiedsUseCase, logger *logger.Logger) *ClassifiedsHandler {
	return &ClassifiedsHandler{
		classifieds: classifieds,
		logger:      logger,
	}
}

type CreateAdRequest struct {
	Title        string   `form:"title" binding:"required"`
	Description  string   `form:"description" binding:"required"`
	Location     string   `form:"location" binding:"required"`
	ContactName  string   `form:"contact_name" binding:"required"`
	ContactEmail string   `form:"contact_email" binding:"required,email"`
	ContactPhone *string  `form:"contact_phone"`
	CategoryID   string   `form:"category_id"`
	Subcategory  *string  `form:"subcategory"`
	Price        *float64 `form:"price" binding:"omitempty,gte=0"`
	ExpiresAt    *string  `form:"expires_at"`
}

// ListClassifieds godoc
// @Summary      List approved classifieds
// @Description  Public catalog of approved listings, featured first then newest first. Supports category, search and price filters.
// @Tags         classifieds
// @Produce      json
// @Param        category_id query string false "Category id"
// @Param        search query string false "Match against title and description"
// @Param        min_price query number false "Minimum price"
// @Param        max_price query number false "Maximum price"
// @Param        limit query int false "Page size (default 20)"
// @Param        offset query int false "Page offset"
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /classifieds [get]
func (h *ClassifiedsHandler) ListClassifieds(c *gin.Context) {
	filter := persistent.ListFilter{
		CategoryID: c.Query("category_id"),
		Search:     c.Query("search"),
		Limit:      20,
	}

	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		filter.Limit = v
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v > 0 {
		filter.Offset = v
	}
	if v, err := strconv.ParseFloat(c.Query("min_price"), 64); err == nil {
		filter.MinPrice = &v
	}
	if v, err := strconv.ParseFloat(c.Query("max_price"), 64); err == nil {
		filter.MaxPrice = &v
	}

	ads, err := h.classifieds.ListPublic(filter)
	if err != nil {
		h.logger.Error("Failed to list classifieds: %v", err)
		// Empty list plus a visible message: the caller must not read
		// this as "no data"
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"ads":   []*entity.Ad{},
			"count": 0,
			"error": h.classifieds.LastError(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ads": ads, "count": len(ads)})
}

// ListAllClassifieds godoc
// @Summary      List every classified regardless of status
// @Description  Moderation console view, newest first, with category names resolved.
// @Tags         classifieds
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /console/classifieds [get]
func (h *ClassifiedsHandler) ListAllClassifieds(c *gin.Context) {
	ads, err := h.classifieds.ListAll()
	if err != nil {
		h.logger.Error("Failed to list all classifieds: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"ads":   []*entity.Ad{},
			"count": 0,
			"error": h.classifieds.LastError(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ads": ads, "count": len(ads)})
}

// GetClassified godoc
// @Summary      Get a single classified
// @Tags         classifieds
// @Produce      json
// @Param        id path string true "Ad id"
// @Success      200  {object}  entity.Ad
// @Failure      404  {object}  map[string]string
// @Router       /classifieds/{id} [get]
func (h *ClassifiedsHandler) GetClassified(c *gin.Context) {
	ad, err := h.classifieds.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}

	c.JSON(http.StatusOK, ad)
}

// CreateClassified godoc
// @Summary      Submit a classified listing
// @Description  Open to anonymous visitors. The listing always enters moderation as pending; up to 5 images (jpg/jpeg/png) may be attached.
// @Tags         classifieds
// @Accept       multipart/form-data
// @Produce      json
// @Param        title formData string true "Listing title"
// @Param        description formData string true "Listing description"
// @Param        location formData string true "Free-text location"
// @Param        contact_name formData string true "Contact name"
// @Param        contact_email formData string true "Contact email"
// @Param        contact_phone formData string false "Contact phone"
// @Param        category_id formData string false "Category id"
// @Param        subcategory formData string false "Subcategory name"
// @Param        price formData number false "Price (non-negative)"
// @Param        expires_at formData string false "Expiry timestamp (RFC 3339, advisory only)"
// @Param        images formData file false "Image files, up to 5"
// @Success      201  {object}  entity.Ad
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /classifieds [post]
func (h *ClassifiedsHandler) CreateClassified(c *gin.Context) {
	var req CreateAdRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := usecase.CreateAdInput{
		Title:        req.Title,
		Description:  req.Description,
		Location:     req.Location,
		ContactName:  req.ContactName,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		CategoryID:   req.CategoryID,
		Subcategory:  req.Subcategory,
		Price:        req.Price,
	}

	if req.ExpiresAt != nil && *req.ExpiresAt != "" {
		expiresAt, err := time.Parse(time.RFC3339, *req.ExpiresAt)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "expires_at must be RFC 3339"})
			return
		}
		input.ExpiresAt = &expiresAt
	}

	// Signed-in submitters keep authorship; anonymous submissions stay
	// contact-info based with no synthetic identity
	if userID := c.GetString("user_id"); userID != "" {
		input.AuthorID = &userID
	}

	var imageFiles []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil && form != nil {
		imageFiles = form.File["images"]
	}

	ad, err := h.classifieds.Create(input, imageFiles)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, ad)
}

type UpdateAdRequest struct {
	Title        *string  `json:"title"`
	Description  *string  `json:"description"`
	Location     *string  `json:"location"`
	ContactPhone *string  `json:"contact_phone"`
	CategoryID   *string  `json:"category_id"`
	Subcategory  *string  `json:"subcategory"`
	Price        *float64 `json:"price" binding:"omitempty,gte=0"`
	IsFeatured   *bool    `json:"is_featured"`
}

// UpdateClassified godoc
// @Summary      Edit a classified listing
// @Description  Sparse patch; only provided fields change. Authors may edit their own listings, moderators any listing.
// @Tags         classifieds
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Ad id"
// @Param        body body UpdateAdRequest true "Fields to change"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /classifieds/{id} [put]
func (h *ClassifiedsHandler) UpdateClassified(c *gin.Context) {
	adID := c.Param("id")

	var req UpdateAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ad, err := h.classifieds.Get(adID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}

	userID := c.GetString("user_id")
	role := models.UserRole(c.GetString("user_role"))
	isOwner := ad.AuthorID != nil && *ad.AuthorID == userID && userID != ""
	if !isOwner && !models.HasPermission(role, models.PermApproveContent) {
		c.JSON(http.StatusForbidden, gin.H{"error": "You can only edit your own listings"})
		return
	}

	err = h.classifieds.Update(adID, usecase.UpdateAdInput{
		Title:        req.Title,
		Description:  req.Description,
		Location:     req.Location,
		ContactPhone: req.ContactPhone,
		CategoryID:   req.CategoryID,
		Subcategory:  req.Subcategory,
		Price:        req.Price,
		IsFeatured:   req.IsFeatured,
	})
	if err != nil {
		h.logger.Error("Failed to update classified %s: %v", adID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update listing"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Listing updated"})
}

// DeleteClassified godoc
// @Summary      Delete a classified listing
// @Tags         classifieds
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Ad id"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /console/classifieds/{id} [delete]
func (h *ClassifiedsHandler) DeleteClassified(c *gin.Context) {
	adID := c.Param("id")

	if err := h.classifieds.Delete(adID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Listing deleted"})
}
