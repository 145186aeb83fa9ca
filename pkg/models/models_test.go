package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategory_BeforeCreate(t *testing.T) {
	category := &Category{
		Name:          "For Sale",
		Type:          CategoryTypeClassified,
		Subcategories: []string{"Furniture", "Electronics"},
	}

	err := category.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, category.ID)
}

func TestEvent_BeforeCreate(t *testing.T) {
	event := &Event{
		Title:    "Farmers Market",
		Location: "Main Street",
	}

	err := event.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, event.ID)
}

func TestBusiness_BeforeCreate(t *testing.T) {
	business := &Business{
		Name:     "Corner Bakery",
		Category: "Food",
	}

	err := business.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, business.ID)
}

func TestFeedback_BeforeCreate(t *testing.T) {
	feedback := &Feedback{
		Name:    "Visitor",
		Message: "Great site",
	}

	err := feedback.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, feedback.ID)
}

func TestUserRole_Constants(t *testing.T) {
	// Test that role constants are defined
	assert.Equal(t, UserRole("guest"), RoleGuest)
	assert.Equal(t, UserRole("user"), RoleUser)
	assert.Equal(t, UserRole("vendor"), RoleVendor)
	assert.Equal(t, UserRole("content_manager"), RoleContentManager)
	assert.Equal(t, UserRole("moderator"), RoleModerator)
	assert.Equal(t, UserRole("admin"), RoleAdmin)
	assert.Equal(t, UserRole("super_admin"), RoleSuperAdmin)
}

func TestCategoryType_Constants(t *testing.T) {
	assert.Equal(t, CategoryType("classified"), CategoryTypeClassified)
	assert.Equal(t, CategoryType("event"), CategoryTypeEvent)
	assert.Equal(t, CategoryType("business"), CategoryTypeBusiness)
}
