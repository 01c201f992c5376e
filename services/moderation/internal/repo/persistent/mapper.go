package persistent

import (
	"time"

	"simple-forum/pkg/models"
	"simple-forum/services/moderation/internal/entity"
	"simple-forum/services/moderation/internal/model"

	"gorm.io/gorm"
)

func toPost(id, body, author string, createdAt, updatedAt time.Time, visibility string,
	reportID *string, deletedAt gorm.DeletedAt, version int) entity.Post {
	post := entity.Post{
		ID:             id,
		Body:           body,
		AuthorUserName: author,
		CreatedAt:      createdAt,
		UpdatedAt:      updatedAt,
		Visibility:     entity.Visibility(visibility),
		ReportTicketID: reportID,
		Version:        version,
	}
	if deletedAt.Valid {
		at := deletedAt.Time
		post.ToBeDeleted = true
		post.DeletedAt = &at
	}
	return post
}

func toDeletedAt(p *entity.Post) gorm.DeletedAt {
	if !p.ToBeDeleted || p.DeletedAt == nil {
		return gorm.DeletedAt{}
	}
	return gorm.DeletedAt{Time: *p.DeletedAt, Valid: true}
}

func ToBlogEntity(m *model.BlogModel) *entity.Blog {
	if m == nil {
		return nil
	}

	return &entity.Blog{
		Post: toPost(m.ID, m.Body, m.AuthorUserName, m.CreatedAt, m.UpdatedAt,
			m.Visibility, m.ReportTicketID, m.DeletedAt, m.Version),
		Title:         m.Title,
		Introduction:  m.Introduction,
		CoverImageURI: m.CoverImageURI,
		ViewCount:     m.ViewCount,
	}
}

func ToBlogModel(e *entity.Blog) *model.BlogModel {
	if e == nil {
		return nil
	}

	return &model.BlogModel{
		ID:             e.ID,
		Title:          e.Title,
		Introduction:   e.Introduction,
		Body:           e.Body,
		CoverImageURI:  e.CoverImageURI,
		AuthorUserName: e.AuthorUserName,
		Visibility:     string(e.Visibility),
		ReportTicketID: e.ReportTicketID,
		ViewCount:      e.ViewCount,
		Version:        e.Version,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
		DeletedAt:      toDeletedAt(&e.Post),
	}
}

func ToCommentEntity(m *model.CommentModel) *entity.Comment {
	if m == nil {
		return nil
	}

	return &entity.Comment{
		Post: toPost(m.ID, m.Body, m.AuthorUserName, m.CreatedAt, m.UpdatedAt,
			m.Visibility, m.ReportTicketID, m.DeletedAt, m.Version),
		BlogID: m.BlogID,
	}
}

func ToCommentModel(e *entity.Comment) *model.CommentModel {
	if e == nil {
		return nil
	}

	return &model.CommentModel{
		ID:             e.ID,
		BlogID:         e.BlogID,
		Body:           e.Body,
		AuthorUserName: e.AuthorUserName,
		Visibility:     string(e.Visibility),
		ReportTicketID: e.ReportTicketID,
		Version:        e.Version,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
		DeletedAt:      toDeletedAt(&e.Post),
	}
}

func ToBanTicketEntity(m *model.BanTicketModel) *entity.BanTicket {
	if m == nil {
		return nil
	}

	return &entity.BanTicket{
		ID:        m.ID,
		UserName:  m.UserName,
		Expiry:    m.Expiry,
		BannedBy:  m.BannedBy,
		Reason:    m.Reason,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func ToBanTicketModel(e *entity.BanTicket) *model.BanTicketModel {
	if e == nil {
		return nil
	}

	return &model.BanTicketModel{
		ID:        e.ID,
		UserName:  e.UserName,
		Expiry:    e.Expiry,
		BannedBy:  e.BannedBy,
		Reason:    e.Reason,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
}

func ToReportTicketEntity(m *model.ReportTicketModel) *entity.ReportTicket {
	if m == nil {
		return nil
	}

	return &entity.ReportTicket{
		ID:                m.ID,
		CreatedAt:         m.CreationDate,
		ActionDate:        m.ActionDate,
		BlogID:            m.BlogID,
		CommentID:         m.CommentID,
		ReportingUserName: m.ReportingUserName,
		Reason:            m.Reason,
	}
}

func ToReportTicketModel(e *entity.ReportTicket) *model.ReportTicketModel {
	if e == nil {
		return nil
	}

	return &model.ReportTicketModel{
		ID:                e.ID,
		CreationDate:      e.CreatedAt,
		ActionDate:        e.ActionDate,
		BlogID:            e.BlogID,
		CommentID:         e.CommentID,
		ReportingUserName: e.ReportingUserName,
		Reason:            e.Reason,
	}
}

func ToUserEntity(m *models.User) *entity.User {
	if m == nil {
		return nil
	}

	user := &entity.User{UserName: m.Username}
	for _, r := range m.RoleNames() {
		user.Roles = append(user.Roles, entity.Role(r))
	}
	return user
}
