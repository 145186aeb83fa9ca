package usecase

import (
	"errors"
	"testing"

	"community-portal/internal/classifieds/entity"
	"community-portal/internal/classifieds/repo/persistent"
	"community-portal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockAdRepository is a mock implementation of AdRepository
type MockAdRepository struct {
	mock.Mock
}

func (m *MockAdRepository) Create(ad *entity.Ad) error {
	args := m.Called(ad)
	if ad.ID == "" {
		ad.ID = "generated-id"
	}
	return args.Error(0)
}

func (m *MockAdRepository) GetByID(id string) (*entity.Ad, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Ad), args.Error(1)
}

func (m *MockAdRepository) ListAll() ([]*entity.Ad, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Ad), args.Error(1)
}

func (m *MockAdRepository) ListApproved(filter persistent.ListFilter) ([]*entity.Ad, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Ad), args.Error(1)
}

func (m *MockAdRepository) ListByStatus(status entity.AdStatus, limit, offset int) ([]*entity.Ad, error) {
	args := m.Called(status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Ad), args.Error(1)
}

func (m *MockAdRepository) Patch(id string, fields map[string]interface{}) error {
	args := m.Called(id, fields)
	return args.Error(0)
}

func (m *MockAdRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

var _ persistent.AdRepository = (*MockAdRepository)(nil)

func newTestUseCase(repo persistent.AdRepository) ClassifiedsUseCase {
	return NewClassifiedsUseCase(repo, nil, nil, logger.New())
}

func validInput() CreateAdInput {
	return CreateAdInput{
		Title:        "Bike for sale",
		Description:  "Good condition",
		Location:     "Newark, DE",
		ContactName:  "A",
		ContactEmail: "a@example.com",
	}
}

func TestCreate_ForcesPendingStatus(t *testing.T) {
	mockRepo := new(MockAdRepository)
	uc := newTestUseCase(mockRepo)

	mockRepo.On("Create", mock.AnythingOfType("*entity.Ad")).Return(nil)

	ad, err := uc.Create(validInput(), nil)

	assert.NoError(t, err)
	assert.Equal(t, entity.StatusPending, ad.Status)
	mockRepo.AssertExpectations(t)
}

func TestCreate_GuestSubmission(t *testing.T) {
	mockRepo := new(MockAdRepository)
	uc := newTestUseCase(mockRepo)

	mockRepo.On("Create", mock.AnythingOfType("*entity.Ad")).Return(nil)

	ad, err := uc.Create(validInput(), nil)

	assert.NoError(t, err)
	assert.Equal(t, entity.StatusPending, ad.Status)
	assert.Equal(t, "A", ad.AuthorName)
	assert.Nil(t, ad.AuthorID)
	assert.Empty(t, ad.Images)
	assert.Nil(t, ad.RejectionReason)
}

func TestCreate_AuthorNameFollowsContactName(t *testing.T) {
	mockRepo := new(MockAdRepository)
	uc := newTestUseCase(mockRepo)

	mockRepo.On("Create", mock.AnythingOfType("*entity.Ad")).Return(nil)

	// Even for a signed-in submitter, the display name is the contact
	// name from the form
	userID := "user-77"
	input := validInput()
	input.AuthorID = &userID

	ad, err := uc.Create(input, nil)

	assert.NoError(t, err)
	assert.Equal(t, "A", ad.AuthorName)
	assert.Equal(t, &userID, ad.AuthorID)
}

func TestCreate_MissingRequiredFields(t *testing.T) {
	mockRepo := new(MockAdRepository)
	uc := newTestUseCase(mockRepo)

	input := validInput()
	input.ContactEmail = ""

	_, err := uc.Create(input, nil)

	assert.Error(t, err)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCreate_NegativePrice(t *testing.T) {
	mockRepo := new(MockAdRepository)
	uc := newTestUseCase(mockRepo)

	price := -10.0
	input := validInput()
	input.Price = &price

	_, err := uc.Create(input, nil)

	assert.Error(t, err)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCreate_RepoFailurePropagates(t *testing.T) {
	mockRepo := new(MockAdRepository)
	uc := newTestUseCase(mockRepo)

	mockRepo.On("Create", mock.AnythingOfType("*entity.Ad")).Return(errors.New("insert rejected"))

	_, err := uc.Create(validInput(), nil)

	assert.Error(t, err)
}

func TestApprove_PatchesStatusOnly(t *testing.T) {
	mockRepo := new(MockAdRepository)
	uc := newTestUseCase(mockRepo)

	mockRepo.On("Patch", "ad-1", map[string]interface{}{
		"status": "approved",
	}).Return(nil)

	err := uc.Approve("ad-1")

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestReject_StoresReasonVerbatim(t *testing.T) {
	mockRepo := new(MockAdRepository)
	uc := newTestUseCase(mockRepo)

	mockRepo.On("Patch", "x1", map[string]interface{}{
		"status":           "rejected",
		"rejection_reason": "Spam",
	}).Return(nil)

	err := uc.Reject("x1", "Spam")

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestReject_EmptyReasonIsKept(t *testing.T) {
	mockRepo := new(MockAdRepository)
	uc := newTestUseCase(mockRepo)

	// An empty reason is stored as an empty string, never dropped
	mockRepo.On("Patch", "x1", map[string]interface{}{
		"status":           "rejected",
		"rejection_reason": "",
	}).Return(nil)

	err := uc.Reject("x1", "")

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestUpdate_SparsePatch(t *testing.T) {
	mockRepo := new(MockAdRepository)
	uc := newTestUseCase(mockRepo)

	title := "New title"
	mockRepo.On("Patch", "ad-1", map[string]interface{}{
		"title": "New title",
	}).Return(nil)

	err := uc.Update("ad-1", UpdateAdInput{Title: &title})

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestUpdate_NoFieldsIsNoOp(t *testing.T) {
	mockRepo := new(MockAdRepository)
	uc := newTestUseCase(mockRepo)

	err := uc.Update("ad-1", UpdateAdInput{})

	assert.NoError(t, err)
	mockRepo.AssertNotCalled(t, "Patch", mock.Anything, mock.Anything)
}

func TestUpdate_StaleIDSurfacesStoreError(t *testing.T) {
	mockRepo := new(MockAdRepository)
	uc := newTestUseCase(mockRepo)

	title := "New title"
	mockRepo.On("Patch", "gone", mock.Anything).Return(errors.New("record not found"))

	err := uc.Update("gone", UpdateAdInput{Title: &title})

	assert.Error(t, err)
}

func TestListAll_FailureReturnsEmptyListAndError(t *testing.T) {
	mockRepo := new(MockAdRepository)
	uc := newTestUseCase(mockRepo)

	mockRepo.On("ListAll").Return(nil, persistent.ErrStoreUnavailable)

	ads, err := uc.ListAll()

	assert.Error(t, err)
	assert.NotNil(t, ads)
	assert.Empty(t, ads)
	assert.NotEmpty(t, uc.LastError())
}

func TestListAll_SuccessClearsLastError(t *testing.T) {
	mockRepo := new(MockAdRepository)
	uc := newTestUseCase(mockRepo)

	mockRepo.On("ListAll").Return(nil, persistent.ErrStoreUnavailable).Once()
	mockRepo.On("ListAll").Return([]*entity.Ad{{ID: "ad-1"}}, nil).Once()

	_, err := uc.ListAll()
	assert.Error(t, err)
	assert.NotEmpty(t, uc.LastError())

	ads, err := uc.ListAll()
	assert.NoError(t, err)
	assert.Len(t, ads, 1)
	assert.Empty(t, uc.LastError())
}

func TestApproveThenList_ShowsApproved(t *testing.T) {
	mockRepo := new(MockAdRepository)
	uc := newTestUseCase(mockRepo)

	mockRepo.On("Patch", "ad-1", map[string]interface{}{
		"status": "approved",
	}).Return(nil)
	mockRepo.On("ListAll").Return([]*entity.Ad{
		{ID: "ad-1", Status: entity.StatusApproved},
	}, nil)

	err := uc.Approve("ad-1")
	assert.NoError(t, err)

	ads, err := uc.ListAll()
	assert.NoError(t, err)
	assert.Len(t, ads, 1)
	assert.Equal(t, "ad-1", ads[0].ID)
	assert.Equal(t, entity.StatusApproved, ads[0].Status)
}

func TestDelete(t *testing.T) {
	mockRepo := new(MockAdRepository)
	uc := newTestUseCase(mockRepo)

	mockRepo.On("Delete", "ad-1").Return(nil)

	err := uc.Delete("ad-1")

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}
