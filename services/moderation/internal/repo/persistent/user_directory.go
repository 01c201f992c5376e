package persistent

import (
	"context"

	"simple-forum/pkg/models"
	"simple-forum/services/moderation/internal/entity"
	"simple-forum/services/moderation/internal/repo"

	"gorm.io/gorm"
)

// userDirectory reads the identity tables. Inactive or soft-deleted users
// are reported as missing.
type userDirectory struct {
	db *gorm.DB
}

func NewUserDirectory(db *gorm.DB) repo.UserDirectory {
	return &userDirectory{db: db}
}

func (d *userDirectory) FindUserByName(ctx context.Context, userName string) (*entity.User, error) {
	var user models.User
	if err := d.db.WithContext(ctx).Preload("Roles").
		Where("username = ? AND is_active = ?", userName, true).
		First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return ToUserEntity(&user), nil
}

func (d *userDirectory) FindUsersByNames(ctx context.Context, userNames []string) (map[string]*entity.User, error) {
	result := make(map[string]*entity.User, len(userNames))
	if len(userNames) == 0 {
		return result, nil
	}

	var users []models.User
	if err := d.db.WithContext(ctx).Preload("Roles").
		Where("username IN ? AND is_active = ?", userNames, true).
		Find(&users).Error; err != nil {
		return nil, err
	}
	for i := range users {
		result[users[i].Username] = ToUserEntity(&users[i])
	}
	return result, nil
}
