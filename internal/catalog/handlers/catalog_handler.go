package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"community-portal/internal/catalog/repository"
	"community-portal/pkg/logger"
	"community-portal/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const categoryCacheTTL = 5 * time.Minute

type CatalogHandler struct {
	catalogRepo repository.CatalogRepository
	redisClient *redis.Client
	logger      *logger.Logger
}

func NewCatalogHandler(catalogRepo repository.CatalogRepository, redisClient *redis.Client, logger *logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogRepo: catalogRepo,
		redisClient: redisClient,
		logger:      logger,
	}
}

type FeedbackRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email" binding:"omitempty,email"`
	Message string `json:"message" binding:"required"`
	Page    string `json:"page"`
}

// ListEvents godoc
// @Summary      List upcoming events
// @Description  Featured first, then soonest first. Past events are excluded.
// @Tags         catalog
// @Produce      json
// @Param        limit query int false "Page size (default 20)"
// @Param        offset query int false "Page offset"
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /events [get]
func (h *CatalogHandler) ListEvents(c *gin.Context) {
	limit, offset := paging(c, 20)

	events, err := h.catalogRepo.ListEvents(limit, offset)
	if err != nil {
		h.logger.Error("Failed to list events: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"events": []*models.Event{},
			"count":  0,
			"error":  "Unable to load events. Please try again later.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events, "count": len(events)})
}

// ListBusinesses godoc
// @Summary      List businesses
// @Description  Featured first, then alphabetical. Optional category filter.
// @Tags         catalog
// @Produce      json
// @Param        category query string false "Business category"
// @Param        limit query int false "Page size (default 20)"
// @Param        offset query int false "Page offset"
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /businesses [get]
func (h *CatalogHandler) ListBusinesses(c *gin.Context) {
	limit, offset := paging(c, 20)

	businesses, err := h.catalogRepo.ListBusinesses(c.Query("category"), limit, offset)
	if err != nil {
		h.logger.Error("Failed to list businesses: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"businesses": []*models.Business{},
			"count":      0,
			"error":      "Unable to load businesses. Please try again later.",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"businesses": businesses, "count": len(businesses)})
}

// ListCategories godoc
// @Summary      List categories
// @Description  Optionally filtered by type (classified, event, business). Served from a short-lived cache when available.
// @Tags         catalog
// @Produce      json
// @Param        type query string false "Category type"
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /categories [get]
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categoryType := models.CategoryType(c.Query("type"))

	if cached := h.cachedCategories(categoryType); cached != nil {
		c.JSON(http.StatusOK, gin.H{"categories": cached, "count": len(cached)})
		return
	}

	categories, err := h.catalogRepo.ListCategories(categoryType)
	if err != nil {
		h.logger.Error("Failed to list categories: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"categories": []*models.Category{},
			"count":      0,
			"error":      "Unable to load categories. Please try again later.",
		})
		return
	}

	h.cacheCategories(categoryType, categories)
	c.JSON(http.StatusOK, gin.H{"categories": categories, "count": len(categories)})
}

// SubmitFeedback godoc
// @Summary      Submit feedback
// @Description  Write-only for visitors; no account required.
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Param        request body FeedbackRequest true "Feedback"
// @Success      201  {object}  models.Feedback
// @Failure      400  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]interface{}
// @Router       /feedback [post]
func (h *CatalogHandler) SubmitFeedback(c *gin.Context) {
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	feedback := &models.Feedback{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
		Page:    req.Page,
	}
	if err := h.catalogRepo.CreateFeedback(feedback); err != nil {
		h.logger.Error("Failed to store feedback: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Unable to submit feedback. Please try again later."})
		return
	}

	c.JSON(http.StatusCreated, feedback)
}

func (h *CatalogHandler) cachedCategories(categoryType models.CategoryType) []*models.Category {
	if h.redisClient == nil {
		return nil
	}

	payload, err := h.redisClient.Get(context.Background(), categoryCacheKey(categoryType)).Bytes()
	if err != nil {
		return nil
	}

	var categories []*models.Category
	if err := json.Unmarshal(payload, &categories); err != nil {
		return nil
	}
	return categories
}

func (h *CatalogHandler) cacheCategories(categoryType models.CategoryType, categories []*models.Category) {
	if h.redisClient == nil {
		return
	}

	payload, err := json.Marshal(categories)
	if err != nil {
		return
	}
	if err := h.redisClient.Set(context.Background(), categoryCacheKey(categoryType), payload, categoryCacheTTL).Err(); err != nil {
		h.logger.Warn("Failed to cache categories: %v", err)
	}
}

func categoryCacheKey(categoryType models.CategoryType) string {
	if categoryType == "" {
		return "catalog:categories:all"
	}
	return "catalog:categories:" + string(categoryType)
}

func paging(c *gin.Context, defaultLimit int) (int, int) {
	limit := defaultLimit
	offset := 0
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}
