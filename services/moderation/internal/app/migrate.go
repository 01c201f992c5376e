package internal

import (
	"fmt"

	"simple-forum/pkg/models"
	"simple-forum/services/moderation/internal/model"

	"gorm.io/gorm"
)

// Migrate creates the identity tables the user directory reads along with
// the moderation tables.
func Migrate(db *gorm.DB) error {
	tables := append([]interface{}{&models.User{}, &models.UserRoleLink{}}, model.AllModels()...)
	if err := db.AutoMigrate(tables...); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}
