package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BanTicketModel has one row per user; user_name is the upsert key.
type BanTicketModel struct {
	ID        string     `gorm:"type:uuid;primary_key" json:"id"`
	UserName  string     `gorm:"type:varchar(100);not null;uniqueIndex" json:"user_name"`
	Expiry    *time.Time `gorm:"index" json:"expiry"`
	BannedBy  string     `gorm:"type:varchar(100);not null" json:"banned_by"`
	Reason    string     `gorm:"type:varchar(512)" json:"reason"`
	CreatedAt time.Time  `gorm:"autoCreateTime:false" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime:false" json:"updated_at"`
}

func (BanTicketModel) TableName() string {
	return "ban_tickets"
}

func (b *BanTicketModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}
