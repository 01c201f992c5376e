package repo

import (
	"context"
	"time"

	"simple-forum/services/moderation/internal/entity"
)

// Repository is the transactional store behind the moderation core. Default
// reads skip posts marked for deletion; the *IncludingDeleted and purge
// methods reach them.
type Repository interface {
	// Transaction runs fn against a repository bound to one unit of work.
	// Returning an error from fn rolls everything back.
	Transaction(ctx context.Context, fn func(r Repository) error) error

	CreateBlog(ctx context.Context, blog *entity.Blog) error
	GetBlog(ctx context.Context, id string) (*entity.Blog, error)
	GetBlogIncludingDeleted(ctx context.Context, id string) (*entity.Blog, error)
	ListBlogs(ctx context.Context, limit, offset int) ([]*entity.Blog, error)
	UpdateBlogContent(ctx context.Context, blog *entity.Blog) error
	IncrementBlogViews(ctx context.Context, id string) error

	CreateComment(ctx context.Context, comment *entity.Comment) error
	GetComment(ctx context.Context, id string) (*entity.Comment, error)
	ListCommentsByBlog(ctx context.Context, blogID string) ([]*entity.Comment, error)
	UpdateCommentContent(ctx context.Context, comment *entity.Comment) error

	// GetPostForUpdate loads the shared post state of a blog or comment,
	// including posts marked for deletion, and locks it for the transaction.
	GetPostForUpdate(ctx context.Context, ref entity.PostRef) (*entity.Post, error)
	// SavePostState writes visibility, report link and deletion marker,
	// guarded by the version read earlier. A stale version yields
	// entity.ErrConcurrentUpdate.
	SavePostState(ctx context.Context, ref entity.PostRef, post *entity.Post) error
	// PurgePost hard-deletes a post; blogs take their comments along.
	PurgePost(ctx context.Context, ref entity.PostRef) error
	ListMarkedBefore(ctx context.Context, kind entity.PostKind, cutoff time.Time) ([]string, error)

	FindBanTicket(ctx context.Context, userName string) (*entity.BanTicket, error)
	UpsertBanTicket(ctx context.Context, ticket *entity.BanTicket) error
	DeleteBanTicket(ctx context.Context, userName string) error

	CreateReportTicket(ctx context.Context, ticket *entity.ReportTicket) error
	GetReportTicket(ctx context.Context, id string) (*entity.ReportTicket, error)
	CloseReportTicket(ctx context.Context, id string, at time.Time) error
	ListOpenReportTickets(ctx context.Context, limit, offset int) ([]*entity.ReportTicket, error)
}

// UserDirectory is the read side of the identity provider.
type UserDirectory interface {
	FindUserByName(ctx context.Context, userName string) (*entity.User, error)
	FindUsersByNames(ctx context.Context, userNames []string) (map[string]*entity.User, error)
}
