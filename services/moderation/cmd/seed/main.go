package main

import (
	"context"
	"errors"
	"fmt"

	"simple-forum/pkg/config"
	"simple-forum/pkg/database"
	"simple-forum/pkg/jwt"
	"simple-forum/pkg/logger"
	"simple-forum/pkg/models"
	moderationApp "simple-forum/services/moderation/internal/app"
	"simple-forum/services/moderation/internal/repo/persistent"
	"simple-forum/services/moderation/internal/usecase"

	"gorm.io/gorm"
)

type seedUser struct {
	username string
	roles    []models.UserRole
}

var testUsers = []seedUser{
	{"alice", []models.UserRole{models.RoleUser}},
	{"bob", []models.UserRole{models.RoleUser}},
	{"carol", []models.UserRole{models.RoleUser, models.RoleModerator}},
	{"admin", []models.UserRole{models.RoleUser, models.RoleAdmin}},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log := logger.New()
	db, err := database.NewPostgresDB(cfg, log)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		panic(err)
	}

	if err := moderationApp.Migrate(db); err != nil {
		log.Error("%v", err)
		panic(err)
	}

	if err := seedUsers(db, log); err != nil {
		log.Error("Failed to seed users: %v", err)
		panic(err)
	}

	if err := seedContent(context.Background(), db, log); err != nil {
		log.Error("Failed to seed content: %v", err)
		panic(err)
	}

	printTokens(jwt.NewService(cfg.JWTSecret), log)

	log.Info("Database seeded successfully!")
}

// printTokens logs a bearer token per seeded user for trying the API locally.
func printTokens(jwtService *jwt.Service, log *logger.Logger) {
	for _, data := range testUsers {
		token, err := jwtService.GenerateToken(data.username)
		if err != nil {
			log.Error("Failed to issue token for %s: %v", data.username, err)
			continue
		}
		log.Info("Token for %s: %s", data.username, token)
	}
}

func seedUsers(db *gorm.DB, log *logger.Logger) error {
	for _, data := range testUsers {
		var existing models.User
		err := db.Where("username = ?", data.username).First(&existing).Error
		if err == nil {
			log.Info("User %s already exists, skipping", data.username)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		user := &models.User{
			Email:    data.username + "@forum.test",
			Username: data.username,
			IsActive: true,
		}
		for _, role := range data.roles {
			user.Roles = append(user.Roles, models.UserRoleLink{Role: role})
		}

		if err := db.Create(user).Error; err != nil {
			return fmt.Errorf("failed to create user %s: %w", data.username, err)
		}
		log.Info("Created user: %s %v", user.Username, user.RoleNames())
	}
	return nil
}

// seedContent goes through the content use case so the seeded posts pass the
// same checks as real ones.
func seedContent(ctx context.Context, db *gorm.DB, log *logger.Logger) error {
	content := usecase.NewContentUseCase(
		persistent.NewModerationRepository(db),
		persistent.NewUserDirectory(db),
		nil,
		log,
		0,
	)

	blogID, code := content.CreateBlog(ctx, usecase.BlogInput{
		Title:        "Welcome to the forum",
		Introduction: "Read this first",
		Body:         "Be kind. Moderators may hide or remove posts that break the rules.",
	}, "admin")
	if !code.IsSuccess() {
		return fmt.Errorf("create blog: %s", code)
	}

	for _, author := range []string{"alice", "bob"} {
		body := fmt.Sprintf("Hello from %s", author)
		if _, code := content.CreateComment(ctx, blogID, usecase.CommentInput{Body: body}, author); !code.IsSuccess() {
			return fmt.Errorf("create comment by %s: %s", author, code)
		}
	}

	log.Info("Created blog %s with comments", blogID)
	return nil
}
