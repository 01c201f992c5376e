package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleUser      UserRole = "user"
	RoleModerator UserRole = "moderator"
	RoleAdmin     UserRole = "admin"
)

// User is owned by the identity service; moderation only reads it.
type User struct {
	ID        string         `gorm:"type:uuid;primary_key" json:"id"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Username  string         `gorm:"uniqueIndex;not null" json:"username"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	Roles     []UserRoleLink `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"roles,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// RoleNames returns the user's roles as plain values.
func (u *User) RoleNames() []UserRole {
	roles := make([]UserRole, 0, len(u.Roles))
	for _, r := range u.Roles {
		roles = append(roles, r.Role)
	}
	return roles
}

// UserRoleLink is one row of the user-to-role relation.
type UserRoleLink struct {
	UserID string   `gorm:"type:uuid;primaryKey" json:"-"`
	Role   UserRole `gorm:"type:varchar(20);primaryKey" json:"role"`
}

func (UserRoleLink) TableName() string {
	return "user_roles"
}
