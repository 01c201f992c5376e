package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CommentModel struct {
	ID             string         `gorm:"type:uuid;primary_key" json:"id"`
	BlogID         string         `gorm:"type:uuid;not null;index" json:"blog_id"`
	Body           string         `gorm:"type:varchar(2000);not null" json:"body"`
	AuthorUserName string         `gorm:"type:varchar(100);not null;index" json:"author_user_name"`
	Visibility     string         `gorm:"type:varchar(20);not null;default:'visible'" json:"visibility"`
	ReportTicketID *string        `gorm:"type:uuid" json:"report_ticket_id"`
	Version        int            `gorm:"not null;default:0" json:"-"`
	CreatedAt      time.Time      `gorm:"autoCreateTime:false;index" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime:false" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (CommentModel) TableName() string {
	return "comments"
}

func (c *CommentModel) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}
