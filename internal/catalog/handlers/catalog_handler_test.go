package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"community-portal/internal/catalog/repository"
	"community-portal/pkg/logger"
	"community-portal/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) ListEvents(limit, offset int) ([]*models.Event, error) {
	args := m.Called(limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Event), args.Error(1)
}

func (m *MockCatalogRepository) ListBusinesses(category string, limit, offset int) ([]*models.Business, error) {
	args := m.Called(category, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Business), args.Error(1)
}

func (m *MockCatalogRepository) ListCategories(categoryType models.CategoryType) ([]*models.Category, error) {
	args := m.Called(categoryType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Category), args.Error(1)
}

func (m *MockCatalogRepository) CreateFeedback(feedback *models.Feedback) error {
	args := m.Called(feedback)
	return args.Error(0)
}

var _ repository.CatalogRepository = (*MockCatalogRepository)(nil)

func setupCatalogRouter(repo repository.CatalogRepository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewCatalogHandler(repo, nil, logger.New())

	r := gin.New()
	r.GET("/events", handler.ListEvents)
	r.GET("/businesses", handler.ListBusinesses)
	r.GET("/categories", handler.ListCategories)
	r.POST("/feedback", handler.SubmitFeedback)
	return r
}

func TestListEvents(t *testing.T) {
	mockRepo := new(MockCatalogRepository)
	router := setupCatalogRouter(mockRepo)

	mockRepo.On("ListEvents", 20, 0).Return([]*models.Event{
		{ID: "e-1", Title: "Farmers Market", StartTime: time.Now().Add(24 * time.Hour)},
	}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/events", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(1), resp["count"])
}

func TestListEvents_StoreUnavailable(t *testing.T) {
	mockRepo := new(MockCatalogRepository)
	router := setupCatalogRouter(mockRepo)

	mockRepo.On("ListEvents", 20, 0).Return(nil, repository.ErrStoreUnavailable)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/events", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp["events"])
	assert.NotEmpty(t, resp["error"])
}

func TestListBusinesses_CategoryFilter(t *testing.T) {
	mockRepo := new(MockCatalogRepository)
	router := setupCatalogRouter(mockRepo)

	mockRepo.On("ListBusinesses", "restaurants", 20, 0).Return([]*models.Business{
		{ID: "b-1", Name: "Corner Diner", Category: "restaurants"},
	}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/businesses?category=restaurants", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockRepo.AssertExpectations(t)
}

func TestListCategories_TypeFilter(t *testing.T) {
	mockRepo := new(MockCatalogRepository)
	router := setupCatalogRouter(mockRepo)

	mockRepo.On("ListCategories", models.CategoryTypeClassified).Return([]*models.Category{
		{ID: "c-1", Name: "For Sale", Type: models.CategoryTypeClassified},
	}, nil)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/categories?type=classified", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	mockRepo.AssertExpectations(t)
}

func TestSubmitFeedback(t *testing.T) {
	mockRepo := new(MockCatalogRepository)
	router := setupCatalogRouter(mockRepo)

	mockRepo.On("CreateFeedback", mock.MatchedBy(func(f *models.Feedback) bool {
		return f.Message == "Love the new site" && f.Page == "/events"
	})).Return(nil)

	body, _ := json.Marshal(map[string]string{
		"name":    "A",
		"message": "Love the new site",
		"page":    "/events",
	})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/feedback", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	mockRepo.AssertExpectations(t)
}

func TestSubmitFeedback_MessageRequired(t *testing.T) {
	mockRepo := new(MockCatalogRepository)
	router := setupCatalogRouter(mockRepo)

	body, _ := json.Marshal(map[string]string{"name": "A"})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/feedback", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockRepo.AssertNotCalled(t, "CreateFeedback", mock.Anything)
}
