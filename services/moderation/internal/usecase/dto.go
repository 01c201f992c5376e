package usecase

import "simple-forum/services/moderation/internal/entity"

type BlogInput struct {
	Title         string `json:"title" validate:"required,max=200"`
	Introduction  string `json:"introduction" validate:"max=500"`
	Body          string `json:"body" validate:"required,max=20000"`
	CoverImageURI string `json:"cover_image_uri" validate:"omitempty,url,max=500"`
}

type CommentInput struct {
	Body string `json:"body" validate:"required,max=2000"`
}

type ReportInput struct {
	Reason string `json:"reason" validate:"max=200"`
}

// PostPermissionInput is one row of a list view to annotate.
type PostPermissionInput struct {
	PostID           string `json:"post_id" binding:"required"`
	AuthorUserName   string `json:"author_user_name"`
	HiddenOrReported bool   `json:"hidden_or_reported"`
}

type BlogView struct {
	*entity.Blog
	AuthorDisplayName string `json:"author_display_name"`
	IsModified        bool   `json:"is_modified"`
	CanEdit           bool   `json:"can_edit"`
}

type CommentView struct {
	*entity.Comment
	AuthorDisplayName string `json:"author_display_name"`
	IsModified        bool   `json:"is_modified"`
	CanEdit           bool   `json:"can_edit"`
}
