package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BlogModel timestamps are set by the repository, not by gorm, so that
// moderation writes leave UpdatedAt alone.
type BlogModel struct {
	ID             string         `gorm:"type:uuid;primary_key" json:"id"`
	Title          string         `gorm:"type:varchar(200);not null" json:"title"`
	Introduction   string         `gorm:"type:varchar(500)" json:"introduction"`
	Body           string         `gorm:"type:text;not null" json:"body"`
	CoverImageURI  string         `gorm:"type:varchar(500)" json:"cover_image_uri"`
	AuthorUserName string         `gorm:"type:varchar(100);not null;index" json:"author_user_name"`
	Visibility     string         `gorm:"type:varchar(20);not null;default:'visible'" json:"visibility"`
	ReportTicketID *string        `gorm:"type:uuid" json:"report_ticket_id"`
	ViewCount      int64          `gorm:"default:0" json:"view_count"`
	Version        int            `gorm:"not null;default:0" json:"-"`
	CreatedAt      time.Time      `gorm:"autoCreateTime:false;index" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"autoUpdateTime:false" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	Comments       []CommentModel `gorm:"foreignKey:BlogID;constraint:OnDelete:CASCADE" json:"-"`
}

func (BlogModel) TableName() string {
	return "blogs"
}

func (b *BlogModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}
