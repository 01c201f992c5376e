package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUser_BeforeCreate(t *testing.T) {
	user := &User{
		Email:    "alice@example.com",
		Username: "alice",
		IsActive: true,
	}

	// BeforeCreate should set ID if empty
	err := user.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.NotEmpty(t, user.ID)
}

func TestUser_BeforeCreate_WithID(t *testing.T) {
	existingID := "existing-id-123"
	user := &User{
		ID:       existingID,
		Email:    "alice@example.com",
		Username: "alice",
	}

	err := user.BeforeCreate(nil)
	assert.NoError(t, err)
	assert.Equal(t, existingID, user.ID)
}

func TestUser_RoleNames(t *testing.T) {
	user := &User{
		ID: "u-1",
		Roles: []UserRoleLink{
			{UserID: "u-1", Role: RoleUser},
			{UserID: "u-1", Role: RoleModerator},
		},
	}

	assert.Equal(t, []UserRole{RoleUser, RoleModerator}, user.RoleNames())
	assert.Empty(t, (&User{}).RoleNames())
}

func TestUserRoleLink_TableName(t *testing.T) {
	assert.Equal(t, "user_roles", UserRoleLink{}.TableName())
}
