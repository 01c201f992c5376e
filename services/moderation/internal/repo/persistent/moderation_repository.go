package persistent

import (
	"context"
	"errors"
	"time"

	"simple-forum/services/moderation/internal/entity"
	"simple-forum/services/moderation/internal/model"
	"simple-forum/services/moderation/internal/repo"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type moderationRepository struct {
	db *gorm.DB
}

func NewModerationRepository(db *gorm.DB) repo.Repository {
	return &moderationRepository{db: db}
}

// translate maps gorm lookups that found nothing to the domain error.
func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entity.ErrNotFound
	}
	return err
}

// Ids are uuid columns; anything else cannot match a row and would make
// postgres reject the query instead.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (r *moderationRepository) Transaction(ctx context.Context, fn func(repo.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&moderationRepository{db: tx})
	})
}

func (r *moderationRepository) CreateBlog(ctx context.Context, blog *entity.Blog) error {
	blogModel := ToBlogModel(blog)
	if blogModel.ID == "" {
		blogModel.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(blogModel).Error; err != nil {
		return err
	}
	*blog = *ToBlogEntity(blogModel)
	return nil
}

func (r *moderationRepository) GetBlog(ctx context.Context, id string) (*entity.Blog, error) {
	if !validID(id) {
		return nil, entity.ErrNotFound
	}
	var blogModel model.BlogModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&blogModel).Error; err != nil {
		return nil, translate(err)
	}
	return ToBlogEntity(&blogModel), nil
}

func (r *moderationRepository) GetBlogIncludingDeleted(ctx context.Context, id string) (*entity.Blog, error) {
	if !validID(id) {
		return nil, entity.ErrNotFound
	}
	var blogModel model.BlogModel
	if err := r.db.WithContext(ctx).Unscoped().Where("id = ?", id).First(&blogModel).Error; err != nil {
		return nil, translate(err)
	}
	return ToBlogEntity(&blogModel), nil
}

func (r *moderationRepository) ListBlogs(ctx context.Context, limit, offset int) ([]*entity.Blog, error) {
	var blogModels []model.BlogModel
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&blogModels).Error; err != nil {
		return nil, err
	}

	blogs := make([]*entity.Blog, len(blogModels))
	for i := range blogModels {
		blogs[i] = ToBlogEntity(&blogModels[i])
	}
	return blogs, nil
}

func (r *moderationRepository) UpdateBlogContent(ctx context.Context, blog *entity.Blog) error {
	result := r.db.WithContext(ctx).Model(&model.BlogModel{}).
		Where("id = ?", blog.ID).
		Updates(map[string]interface{}{
			"title":           blog.Title,
			"introduction":    blog.Introduction,
			"body":            blog.Body,
			"cover_image_uri": blog.CoverImageURI,
			"updated_at":      blog.UpdatedAt,
			"version":         gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entity.ErrNotFound
	}
	blog.Version++
	return nil
}

func (r *moderationRepository) IncrementBlogViews(ctx context.Context, id string) error {
	if !validID(id) {
		return entity.ErrNotFound
	}
	result := r.db.WithContext(ctx).Model(&model.BlogModel{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1"))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (r *moderationRepository) CreateComment(ctx context.Context, comment *entity.Comment) error {
	commentModel := ToCommentModel(comment)
	if commentModel.ID == "" {
		commentModel.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(commentModel).Error; err != nil {
		return err
	}
	*comment = *ToCommentEntity(commentModel)
	return nil
}

func (r *moderationRepository) GetComment(ctx context.Context, id string) (*entity.Comment, error) {
	if !validID(id) {
		return nil, entity.ErrNotFound
	}
	var commentModel model.CommentModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&commentModel).Error; err != nil {
		return nil, translate(err)
	}
	return ToCommentEntity(&commentModel), nil
}

func (r *moderationRepository) ListCommentsByBlog(ctx context.Context, blogID string) ([]*entity.Comment, error) {
	if !validID(blogID) {
		return []*entity.Comment{}, nil
	}
	var commentModels []model.CommentModel
	if err := r.db.WithContext(ctx).
		Where("blog_id = ?", blogID).
		Order("created_at ASC").
		Find(&commentModels).Error; err != nil {
		return nil, err
	}

	comments := make([]*entity.Comment, len(commentModels))
	for i := range commentModels {
		comments[i] = ToCommentEntity(&commentModels[i])
	}
	return comments, nil
}

func (r *moderationRepository) UpdateCommentContent(ctx context.Context, comment *entity.Comment) error {
	result := r.db.WithContext(ctx).Model(&model.CommentModel{}).
		Where("id = ?", comment.ID).
		Updates(map[string]interface{}{
			"body":       comment.Body,
			"updated_at": comment.UpdatedAt,
			"version":    gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entity.ErrNotFound
	}
	comment.Version++
	return nil
}

func (r *moderationRepository) GetPostForUpdate(ctx context.Context, ref entity.PostRef) (*entity.Post, error) {
	if !validID(ref.ID) {
		return nil, entity.ErrNotFound
	}
	query := r.db.WithContext(ctx).Unscoped().
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", ref.ID)

	switch ref.Kind {
	case entity.KindBlog:
		var blogModel model.BlogModel
		if err := query.First(&blogModel).Error; err != nil {
			return nil, translate(err)
		}
		return &ToBlogEntity(&blogModel).Post, nil
	case entity.KindComment:
		var commentModel model.CommentModel
		if err := query.First(&commentModel).Error; err != nil {
			return nil, translate(err)
		}
		return &ToCommentEntity(&commentModel).Post, nil
	default:
		return nil, entity.ErrNotFound
	}
}

func postTable(kind entity.PostKind) interface{} {
	if kind == entity.KindComment {
		return &model.CommentModel{}
	}
	return &model.BlogModel{}
}

func (r *moderationRepository) SavePostState(ctx context.Context, ref entity.PostRef, post *entity.Post) error {
	result := r.db.WithContext(ctx).Unscoped().Model(postTable(ref.Kind)).
		Where("id = ? AND version = ?", ref.ID, post.Version).
		Updates(map[string]interface{}{
			"visibility":       string(post.Visibility),
			"report_ticket_id": post.ReportTicketID,
			"deleted_at":       toDeletedAt(post),
			"version":          gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entity.ErrConcurrentUpdate
	}
	post.Version++
	return nil
}

func (r *moderationRepository) PurgePost(ctx context.Context, ref entity.PostRef) error {
	if !validID(ref.ID) {
		return entity.ErrNotFound
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if ref.Kind == entity.KindBlog {
			if err := tx.Unscoped().Where("blog_id = ?", ref.ID).Delete(&model.CommentModel{}).Error; err != nil {
				return err
			}
		}
		result := tx.Unscoped().Where("id = ?", ref.ID).Delete(postTable(ref.Kind))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return entity.ErrNotFound
		}
		return nil
	})
}

func (r *moderationRepository) ListMarkedBefore(ctx context.Context, kind entity.PostKind, cutoff time.Time) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).Unscoped().Model(postTable(kind)).
		Where("deleted_at IS NOT NULL AND deleted_at <= ?", cutoff).
		Order("deleted_at ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *moderationRepository) FindBanTicket(ctx context.Context, userName string) (*entity.BanTicket, error) {
	var ticketModel model.BanTicketModel
	if err := r.db.WithContext(ctx).Where("user_name = ?", userName).First(&ticketModel).Error; err != nil {
		return nil, translate(err)
	}
	return ToBanTicketEntity(&ticketModel), nil
}

// UpsertBanTicket keeps a single ticket per user; a repeated ban replaces
// expiry, issuer and reason.
func (r *moderationRepository) UpsertBanTicket(ctx context.Context, ticket *entity.BanTicket) error {
	ticketModel := ToBanTicketModel(ticket)
	if ticketModel.ID == "" {
		ticketModel.ID = uuid.New().String()
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_name"}},
		DoUpdates: clause.AssignmentColumns([]string{"expiry", "banned_by", "reason", "updated_at"}),
	}).Create(ticketModel).Error
	if err != nil {
		return err
	}

	stored, err := r.FindBanTicket(ctx, ticket.UserName)
	if err != nil {
		return err
	}
	*ticket = *stored
	return nil
}

func (r *moderationRepository) DeleteBanTicket(ctx context.Context, userName string) error {
	result := r.db.WithContext(ctx).Where("user_name = ?", userName).Delete(&model.BanTicketModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (r *moderationRepository) CreateReportTicket(ctx context.Context, ticket *entity.ReportTicket) error {
	ticketModel := ToReportTicketModel(ticket)
	if ticketModel.ID == "" {
		ticketModel.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(ticketModel).Error; err != nil {
		return err
	}
	ticket.ID = ticketModel.ID
	return nil
}

func (r *moderationRepository) GetReportTicket(ctx context.Context, id string) (*entity.ReportTicket, error) {
	if !validID(id) {
		return nil, entity.ErrNotFound
	}
	var ticketModel model.ReportTicketModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&ticketModel).Error; err != nil {
		return nil, translate(err)
	}
	return ToReportTicketEntity(&ticketModel), nil
}

// CloseReportTicket sets the action date once; closing a closed ticket is a no-op.
func (r *moderationRepository) CloseReportTicket(ctx context.Context, id string, at time.Time) error {
	if !validID(id) {
		return entity.ErrNotFound
	}
	result := r.db.WithContext(ctx).Model(&model.ReportTicketModel{}).
		Where("id = ? AND action_date IS NULL", id).
		Update("action_date", at)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&model.ReportTicketModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (r *moderationRepository) ListOpenReportTickets(ctx context.Context, limit, offset int) ([]*entity.ReportTicket, error) {
	var ticketModels []model.ReportTicketModel
	query := r.db.WithContext(ctx).Where("action_date IS NULL").Order("creation_date ASC")
	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}
	if err := query.Find(&ticketModels).Error; err != nil {
		return nil, err
	}

	tickets := make([]*entity.ReportTicket, len(ticketModels))
	for i := range ticketModels {
		tickets[i] = ToReportTicketEntity(&ticketModels[i])
	}
	return tickets, nil
}
