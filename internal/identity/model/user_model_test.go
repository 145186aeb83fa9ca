package model

import (
	"testing"

	"community-portal/pkg/models"

	"github.com/stretchr/testify/assert"
)

func TestUserModel_BeforeCreate(t *testing.T) {
	user := &UserModel{
		Email:        "test@example.com",
		PasswordHash: "hash",
		FullName:     "Test User",
		Role:         models.RoleUser,
		IsActive:     true,
	}

	// BeforeCreate should set ID if empty
	err := user.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, user.ID)
}

func TestUserModel_BeforeCreate_WithID(t *testing.T) {
	existingID := "existing-id-123"
	user := &UserModel{
		ID:       existingID,
		Email:    "test@example.com",
		FullName: "Test User",
	}

	err := user.BeforeCreate(nil)
	assert.NoError(t, err)
	// ID should remain unchanged if already set
	assert.Equal(t, existingID, user.ID)
}

func TestUserModel_TableName(t *testing.T) {
	assert.Equal(t, "user_profiles", UserModel{}.TableName())
}
