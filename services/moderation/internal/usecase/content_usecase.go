package usecase

import (
	"context"
	"strings"
	"time"

	"simple-forum/pkg/logger"
	"simple-forum/services/moderation/internal/entity"
	"simple-forum/services/moderation/internal/permission"
	"simple-forum/services/moderation/internal/repo"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type ContentUseCase interface {
	CreateBlog(ctx context.Context, input BlogInput, authorUserName string) (string, entity.ServiceResultCode)
	CreateComment(ctx context.Context, blogID string, input CommentInput, authorUserName string) (string, entity.ServiceResultCode)
	UpdateBlog(ctx context.Context, blogID string, input BlogInput, actingUserName string) entity.ServiceResultCode
	UpdateComment(ctx context.Context, commentID string, input CommentInput, actingUserName string) entity.ServiceResultCode
	DeleteBlog(ctx context.Context, blogID, actingUserName string) entity.ServiceResultCode
	DeleteComment(ctx context.Context, commentID, actingUserName string) entity.ServiceResultCode

	GetBlog(ctx context.Context, blogID, viewerUserName string) (*BlogView, entity.ServiceResultCode)
	ListBlogs(ctx context.Context, viewerUserName string, limit, offset int) ([]*BlogView, entity.ServiceResultCode)
	ListComments(ctx context.Context, blogID, viewerUserName string) ([]*CommentView, entity.ServiceResultCode)
	IncrementViewCount(ctx context.Context, blogID string) entity.ServiceResultCode
}

type contentUseCase struct {
	base
	scheduler  DeletionScheduler
	purgeDelay time.Duration
}

func NewContentUseCase(
	r repo.Repository,
	users repo.UserDirectory,
	scheduler DeletionScheduler,
	log *logger.Logger,
	purgeDelay time.Duration,
) ContentUseCase {
	return &contentUseCase{
		base:       newBase(r, users, log),
		scheduler:  scheduler,
		purgeDelay: purgeDelay,
	}
}

// authorTx resolves the acting user and runs fn in a transaction with the
// actor's ban state read from that transaction.
func (uc *contentUseCase) authorTx(ctx context.Context, userName string, fn func(r repo.Repository, actor permission.Actor, now time.Time) error) error {
	actor, err := uc.identify(ctx, userName)
	if err != nil {
		return err
	}
	if err := requireIdentity(actor); err != nil {
		return err
	}

	now := uc.now()
	return uc.repo.Transaction(ctx, func(r repo.Repository) error {
		actor, err := withBan(ctx, r, actor)
		if err != nil {
			return err
		}
		return fn(r, actor, now)
	})
}

func normalizeBlog(input BlogInput) BlogInput {
	input.Title = strings.TrimSpace(input.Title)
	input.Introduction = strings.TrimSpace(input.Introduction)
	input.Body = strings.TrimSpace(input.Body)
	input.CoverImageURI = strings.TrimSpace(input.CoverImageURI)
	return input
}

func (uc *contentUseCase) CreateBlog(ctx context.Context, input BlogInput, authorUserName string) (string, entity.ServiceResultCode) {
	input = normalizeBlog(input)

	var id string
	err := uc.authorTx(ctx, authorUserName, func(r repo.Repository, actor permission.Actor, now time.Time) error {
		if !permission.CanCreatePost(actor, now) {
			return fail(entity.ResultUnauthorized)
		}
		if err := uc.validate.Struct(input); err != nil {
			return err
		}

		blog := &entity.Blog{
			Post:          entity.NewPost(input.Body, actor.UserName, now),
			Title:         input.Title,
			Introduction:  input.Introduction,
			CoverImageURI: input.CoverImageURI,
		}
		if err := r.CreateBlog(ctx, blog); err != nil {
			return err
		}
		id = blog.ID
		return nil
	})

	code := uc.resultOf("CreateBlog", err)
	if !code.IsSuccess() {
		return "", code
	}
	uc.logger.Info("Blog %s created by %s", id, authorUserName)
	return id, code
}

// CreateComment requires the parent blog to exist, not be marked and be
// visible to the author.
func (uc *contentUseCase) CreateComment(ctx context.Context, blogID string, input CommentInput, authorUserName string) (string, entity.ServiceResultCode) {
	input.Body = strings.TrimSpace(input.Body)

	var id string
	err := uc.authorTx(ctx, authorUserName, func(r repo.Repository, actor permission.Actor, now time.Time) error {
		if !permission.CanCreatePost(actor, now) {
			return fail(entity.ResultUnauthorized)
		}
		if err := uc.validate.Struct(input); err != nil {
			return err
		}

		blog, err := r.GetBlog(ctx, blogID)
		if err != nil {
			return err
		}
		if !permission.CanView(actor, &blog.Post) {
			return entity.ErrNotFound
		}

		comment := &entity.Comment{
			Post:   entity.NewPost(input.Body, actor.UserName, now),
			BlogID: blog.ID,
		}
		if err := r.CreateComment(ctx, comment); err != nil {
			return err
		}
		id = comment.ID
		return nil
	})

	code := uc.resultOf("CreateComment", err)
	if !code.IsSuccess() {
		return "", code
	}
	return id, code
}

// lockOwn locks a live post and checks that actor may edit or delete it.
func lockOwn(ctx context.Context, r repo.Repository, ref entity.PostRef, actor permission.Actor, now time.Time) (*entity.Post, error) {
	post, err := r.GetPostForUpdate(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := live(post); err != nil {
		return nil, err
	}
	if !permission.CanUpdateOrDeletePost(actor, permission.TargetOf(post), now) {
		return nil, fail(entity.ResultUnauthorized)
	}
	return post, nil
}

func (uc *contentUseCase) UpdateBlog(ctx context.Context, blogID string, input BlogInput, actingUserName string) entity.ServiceResultCode {
	input = normalizeBlog(input)

	err := uc.authorTx(ctx, actingUserName, func(r repo.Repository, actor permission.Actor, now time.Time) error {
		post, err := lockOwn(ctx, r, entity.BlogRef(blogID), actor, now)
		if err != nil {
			return err
		}
		if err := uc.validate.Struct(input); err != nil {
			return err
		}

		blog, err := r.GetBlog(ctx, blogID)
		if err != nil {
			return err
		}
		blog.Title = input.Title
		blog.Introduction = input.Introduction
		blog.Body = input.Body
		blog.CoverImageURI = input.CoverImageURI
		blog.UpdatedAt = now
		blog.Version = post.Version
		return r.UpdateBlogContent(ctx, blog)
	})
	return uc.resultOf("UpdateBlog", err)
}

func (uc *contentUseCase) UpdateComment(ctx context.Context, commentID string, input CommentInput, actingUserName string) entity.ServiceResultCode {
	input.Body = strings.TrimSpace(input.Body)

	err := uc.authorTx(ctx, actingUserName, func(r repo.Repository, actor permission.Actor, now time.Time) error {
		if _, err := lockOwn(ctx, r, entity.CommentRef(commentID), actor, now); err != nil {
			return err
		}
		if err := uc.validate.Struct(input); err != nil {
			return err
		}

		comment, err := r.GetComment(ctx, commentID)
		if err != nil {
			return err
		}
		comment.Body = input.Body
		comment.UpdatedAt = now
		return r.UpdateCommentContent(ctx, comment)
	})
	return uc.resultOf("UpdateComment", err)
}

// deleteOwn marks the author's own post exactly as a forcible delete would.
func (uc *contentUseCase) deleteOwn(ctx context.Context, op string, ref entity.PostRef, actingUserName string) entity.ServiceResultCode {
	err := uc.authorTx(ctx, actingUserName, func(r repo.Repository, actor permission.Actor, now time.Time) error {
		post, err := lockOwn(ctx, r, ref, actor, now)
		if err != nil {
			return err
		}
		if _, err := post.MarkForDeletion(now); err != nil {
			return err
		}
		return r.SavePostState(ctx, ref, post)
	})

	code := uc.resultOf(op, err)
	if code.IsSuccess() {
		uc.logger.Info("%s marked for deletion by its author %s", ref, actingUserName)
		schedulePurge(ctx, uc.scheduler, uc.logger, ref, uc.purgeDelay)
	}
	return code
}

func (uc *contentUseCase) DeleteBlog(ctx context.Context, blogID, actingUserName string) entity.ServiceResultCode {
	return uc.deleteOwn(ctx, "DeleteBlog", entity.BlogRef(blogID), actingUserName)
}

func (uc *contentUseCase) DeleteComment(ctx context.Context, commentID, actingUserName string) entity.ServiceResultCode {
	return uc.deleteOwn(ctx, "DeleteComment", entity.CommentRef(commentID), actingUserName)
}

func (uc *contentUseCase) GetBlog(ctx context.Context, blogID, viewerUserName string) (*BlogView, entity.ServiceResultCode) {
	viewer, err := uc.resolve(ctx, viewerUserName)
	if err != nil {
		return nil, uc.resultOf("GetBlog", err)
	}

	blog, err := uc.repo.GetBlog(ctx, blogID)
	if err != nil {
		return nil, uc.resultOf("GetBlog", err)
	}
	if !permission.CanView(viewer, &blog.Post) {
		return nil, entity.ResultNotFound
	}

	views, err := uc.blogViews(ctx, viewer, []*entity.Blog{blog})
	if err != nil {
		return nil, uc.resultOf("GetBlog", err)
	}
	return views[0], entity.ResultSuccess
}

func pageBounds(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// ListBlogs leaves out hidden blogs the viewer may not see, so a page can
// hold fewer than limit entries.
func (uc *contentUseCase) ListBlogs(ctx context.Context, viewerUserName string, limit, offset int) ([]*BlogView, entity.ServiceResultCode) {
	viewer, err := uc.resolve(ctx, viewerUserName)
	if err != nil {
		return nil, uc.resultOf("ListBlogs", err)
	}

	limit, offset = pageBounds(limit, offset)
	blogs, err := uc.repo.ListBlogs(ctx, limit, offset)
	if err != nil {
		return nil, uc.resultOf("ListBlogs", err)
	}

	visible := blogs[:0]
	for _, b := range blogs {
		if permission.CanView(viewer, &b.Post) {
			visible = append(visible, b)
		}
	}

	views, err := uc.blogViews(ctx, viewer, visible)
	if err != nil {
		return nil, uc.resultOf("ListBlogs", err)
	}
	return views, entity.ResultSuccess
}

func (uc *contentUseCase) ListComments(ctx context.Context, blogID, viewerUserName string) ([]*CommentView, entity.ServiceResultCode) {
	viewer, err := uc.resolve(ctx, viewerUserName)
	if err != nil {
		return nil, uc.resultOf("ListComments", err)
	}

	blog, err := uc.repo.GetBlog(ctx, blogID)
	if err != nil {
		return nil, uc.resultOf("ListComments", err)
	}
	if !permission.CanView(viewer, &blog.Post) {
		return nil, entity.ResultNotFound
	}

	comments, err := uc.repo.ListCommentsByBlog(ctx, blogID)
	if err != nil {
		return nil, uc.resultOf("ListComments", err)
	}

	visible := comments[:0]
	for _, c := range comments {
		if permission.CanView(viewer, &c.Post) {
			visible = append(visible, c)
		}
	}

	views, err := uc.commentViews(ctx, viewer, visible)
	if err != nil {
		return nil, uc.resultOf("ListComments", err)
	}
	return views, entity.ResultSuccess
}

func (uc *contentUseCase) IncrementViewCount(ctx context.Context, blogID string) entity.ServiceResultCode {
	return uc.resultOf("IncrementViewCount", uc.repo.IncrementBlogViews(ctx, blogID))
}

func (uc *contentUseCase) blogViews(ctx context.Context, viewer permission.Actor, blogs []*entity.Blog) ([]*BlogView, error) {
	targets := make([]permission.BatchTarget, len(blogs))
	authors := make([]string, len(blogs))
	for i, b := range blogs {
		targets[i] = permission.BatchTarget{PostID: b.ID, Target: permission.TargetOf(&b.Post)}
		authors[i] = b.AuthorUserName
	}

	canEdit := permission.CanUpdateOrDeletePosts(viewer, targets, uc.now())
	display, err := NewAuthorLoader(uc.users).DisplayNames(ctx, authors)
	if err != nil {
		return nil, err
	}

	views := make([]*BlogView, len(blogs))
	for i, b := range blogs {
		views[i] = &BlogView{
			Blog:              b,
			AuthorDisplayName: display[b.AuthorUserName],
			IsModified:        b.IsModified(),
			CanEdit:           canEdit[b.ID],
		}
	}
	return views, nil
}

func (uc *contentUseCase) commentViews(ctx context.Context, viewer permission.Actor, comments []*entity.Comment) ([]*CommentView, error) {
	targets := make([]permission.BatchTarget, len(comments))
	authors := make([]string, len(comments))
	for i, c := range comments {
		targets[i] = permission.BatchTarget{PostID: c.ID, Target: permission.TargetOf(&c.Post)}
		authors[i] = c.AuthorUserName
	}

	canEdit := permission.CanUpdateOrDeletePosts(viewer, targets, uc.now())
	display, err := NewAuthorLoader(uc.users).DisplayNames(ctx, authors)
	if err != nil {
		return nil, err
	}

	views := make([]*CommentView, len(comments))
	for i, c := range comments {
		views[i] = &CommentView{
			Comment:           c,
			AuthorDisplayName: display[c.AuthorUserName],
			IsModified:        c.IsModified(),
			CanEdit:           canEdit[c.ID],
		}
	}
	return views, nil
}
