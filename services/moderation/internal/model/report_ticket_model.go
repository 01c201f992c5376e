package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReportTicketModel struct {
	ID                string     `gorm:"type:uuid;primary_key" json:"id"`
	CreationDate      time.Time  `gorm:"not null;index" json:"creation_date"`
	ActionDate        *time.Time `gorm:"index" json:"action_date"`
	BlogID            *string    `gorm:"type:uuid;index;check:chk_report_ticket_target,(blog_id IS NULL) <> (comment_id IS NULL)" json:"blog_id"`
	CommentID         *string    `gorm:"type:uuid;index" json:"comment_id"`
	ReportingUserName string     `gorm:"type:varchar(100);not null" json:"reporting_user_name"`
	Reason            string     `gorm:"type:varchar(200)" json:"reason"`
}

func (ReportTicketModel) TableName() string {
	return "report_tickets"
}

func (r *ReportTicketModel) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// AllModels lists the tables owned by the moderation service for AutoMigrate.
func AllModels() []interface{} {
	return []interface{}{
		&BlogModel{},
		&CommentModel{},
		&BanTicketModel{},
		&ReportTicketModel{},
	}
}
