package usecase

import (
	"context"
	"time"

	"simple-forum/pkg/logger"
	"simple-forum/services/moderation/internal/entity"
	"simple-forum/services/moderation/internal/permission"
	"simple-forum/services/moderation/internal/repo"
)

type PostModerationUseCase interface {
	Hide(ctx context.Context, ref entity.PostRef, actingUserName string) entity.ServiceResultCode
	Unhide(ctx context.Context, ref entity.PostRef, actingUserName string) entity.ServiceResultCode
	Report(ctx context.Context, ref entity.PostRef, reportingUserName string, input ReportInput) entity.ServiceResultCode
	DismissReport(ctx context.Context, ref entity.PostRef, actingUserName string) entity.ServiceResultCode
	ForciblyDelete(ctx context.Context, ref entity.PostRef, actingUserName string) entity.ServiceResultCode
	Restore(ctx context.Context, ref entity.PostRef, actingUserName string) entity.ServiceResultCode
	ListOpenReports(ctx context.Context, actingUserName string, limit, offset int) ([]*entity.ReportTicket, entity.ServiceResultCode)

	HideBlog(ctx context.Context, blogID, actingUserName string) entity.ServiceResultCode
	HideComment(ctx context.Context, commentID, actingUserName string) entity.ServiceResultCode
	UnhideBlog(ctx context.Context, blogID, actingUserName string) entity.ServiceResultCode
	UnhideComment(ctx context.Context, commentID, actingUserName string) entity.ServiceResultCode
	ForciblyDeleteBlog(ctx context.Context, blogID, actingUserName string) entity.ServiceResultCode
	ForciblyDeleteComment(ctx context.Context, commentID, actingUserName string) entity.ServiceResultCode
}

type postModerationUseCase struct {
	base
	scheduler  DeletionScheduler
	events     EventPublisher
	purgeDelay time.Duration
}

func NewPostModerationUseCase(
	r repo.Repository,
	users repo.UserDirectory,
	scheduler DeletionScheduler,
	events EventPublisher,
	log *logger.Logger,
	purgeDelay time.Duration,
) PostModerationUseCase {
	return &postModerationUseCase{
		base:       newBase(r, users, log),
		scheduler:  scheduler,
		events:     events,
		purgeDelay: purgeDelay,
	}
}

// transition applies one state change to a locked post. It reports whether
// anything changed; unchanged posts are not written.
type transition func(r repo.Repository, post *entity.Post, actor permission.Actor, now time.Time) (bool, error)

func (uc *postModerationUseCase) apply(
	ctx context.Context,
	op string,
	ref entity.PostRef,
	actingUserName string,
	allowed func(permission.Actor, time.Time) bool,
	change transition,
	action entity.ModerationAction,
) entity.ServiceResultCode {
	if !ref.Kind.Valid() || ref.ID == "" {
		return entity.ResultInvalidArguments
	}

	actor, err := uc.identify(ctx, actingUserName)
	if err != nil {
		return uc.resultOf(op, err)
	}
	if !actor.IsAuthenticated() {
		return entity.ResultUnauthenticated
	}

	now := uc.now()
	changed := false
	err = uc.repo.Transaction(ctx, func(r repo.Repository) error {
		actor, err := withBan(ctx, r, actor)
		if err != nil {
			return err
		}
		if !allowed(actor, now) {
			return fail(entity.ResultUnauthorized)
		}

		post, err := r.GetPostForUpdate(ctx, ref)
		if err != nil {
			return err
		}
		changed, err = change(r, post, actor, now)
		if err != nil || !changed {
			return err
		}
		return r.SavePostState(ctx, ref, post)
	})

	code := uc.resultOf(op, err)
	if code.IsSuccess() && changed {
		uc.logger.Info("%s on %s by %s", op, ref, actor.UserName)
		publish(ctx, uc.events, uc.logger, entity.ModerationEvent{
			Action:         action,
			Post:           &ref,
			ActingUserName: actor.UserName,
			OccurredAt:     now,
		})
	}
	return code
}

// live rejects posts already marked for deletion; they behave as missing
// for every transition except delete and restore.
func live(post *entity.Post) error {
	if post.ToBeDeleted {
		return entity.ErrNotFound
	}
	return nil
}

func closeReport(ctx context.Context, r repo.Repository, id *string, now time.Time) error {
	if id == nil {
		return nil
	}
	return r.CloseReportTicket(ctx, *id, now)
}

// Hide also resolves a pending report on the post.
func (uc *postModerationUseCase) Hide(ctx context.Context, ref entity.PostRef, actingUserName string) entity.ServiceResultCode {
	return uc.apply(ctx, "Hide", ref, actingUserName, permission.CanModerate,
		func(r repo.Repository, post *entity.Post, _ permission.Actor, now time.Time) (bool, error) {
			if err := live(post); err != nil {
				return false, err
			}
			closed, changed := post.Hide()
			return changed, closeReport(ctx, r, closed, now)
		}, entity.ActionPostHidden)
}

func (uc *postModerationUseCase) Unhide(ctx context.Context, ref entity.PostRef, actingUserName string) entity.ServiceResultCode {
	return uc.apply(ctx, "Unhide", ref, actingUserName, permission.CanModerate,
		func(_ repo.Repository, post *entity.Post, _ permission.Actor, _ time.Time) (bool, error) {
			if err := live(post); err != nil {
				return false, err
			}
			return post.Unhide(), nil
		}, entity.ActionPostUnhidden)
}

// Report opens a ticket against a visible post. A post holds at most one
// open ticket, and hidden posts cannot be reported.
func (uc *postModerationUseCase) Report(ctx context.Context, ref entity.PostRef, reportingUserName string, input ReportInput) entity.ServiceResultCode {
	return uc.apply(ctx, "Report", ref, reportingUserName, permission.CanReport,
		func(r repo.Repository, post *entity.Post, actor permission.Actor, now time.Time) (bool, error) {
			if err := uc.validate.Struct(input); err != nil {
				return false, err
			}
			if err := live(post); err != nil {
				return false, err
			}
			if post.IsHiddenOrReported() {
				return false, entity.ErrInvalidTransition
			}
			ticket := entity.NewReportTicket(ref, actor.UserName, input.Reason, now)
			if err := r.CreateReportTicket(ctx, ticket); err != nil {
				return false, err
			}
			return true, post.AttachReport(ticket.ID)
		}, entity.ActionPostReported)
}

// DismissReport closes the ticket and keeps it for audit.
func (uc *postModerationUseCase) DismissReport(ctx context.Context, ref entity.PostRef, actingUserName string) entity.ServiceResultCode {
	return uc.apply(ctx, "DismissReport", ref, actingUserName, permission.CanModerate,
		func(r repo.Repository, post *entity.Post, _ permission.Actor, now time.Time) (bool, error) {
			if err := live(post); err != nil {
				return false, err
			}
			closed, changed := post.DismissReport()
			return changed, closeReport(ctx, r, closed, now)
		}, entity.ActionReportDismissed)
}

// ForciblyDelete marks the post and schedules its purge. Marking twice is
// InvalidState.
func (uc *postModerationUseCase) ForciblyDelete(ctx context.Context, ref entity.PostRef, actingUserName string) entity.ServiceResultCode {
	code := uc.apply(ctx, "ForciblyDelete", ref, actingUserName, permission.CanModerate,
		func(r repo.Repository, post *entity.Post, _ permission.Actor, now time.Time) (bool, error) {
			closed, err := post.MarkForDeletion(now)
			if err != nil {
				return false, err
			}
			return true, closeReport(ctx, r, closed, now)
		}, entity.ActionPostDeleted)
	if code.IsSuccess() {
		schedulePurge(ctx, uc.scheduler, uc.logger, ref, uc.purgeDelay)
	}
	return code
}

// Restore clears the deletion marker while the purge has not run yet.
func (uc *postModerationUseCase) Restore(ctx context.Context, ref entity.PostRef, actingUserName string) entity.ServiceResultCode {
	return uc.apply(ctx, "Restore", ref, actingUserName, permission.CanModerate,
		func(_ repo.Repository, post *entity.Post, _ permission.Actor, _ time.Time) (bool, error) {
			return true, post.Restore()
		}, entity.ActionPostRestored)
}

func (uc *postModerationUseCase) ListOpenReports(ctx context.Context, actingUserName string, limit, offset int) ([]*entity.ReportTicket, entity.ServiceResultCode) {
	actor, err := uc.resolve(ctx, actingUserName)
	if err != nil {
		return nil, uc.resultOf("ListOpenReports", err)
	}
	if !actor.IsAuthenticated() {
		return nil, entity.ResultUnauthenticated
	}
	if !permission.CanModerate(actor, uc.now()) {
		return nil, entity.ResultUnauthorized
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	tickets, err := uc.repo.ListOpenReportTickets(ctx, limit, offset)
	if err != nil {
		return nil, uc.resultOf("ListOpenReports", err)
	}
	return tickets, entity.ResultSuccess
}

func (uc *postModerationUseCase) HideBlog(ctx context.Context, blogID, actingUserName string) entity.ServiceResultCode {
	return uc.Hide(ctx, entity.BlogRef(blogID), actingUserName)
}

func (uc *postModerationUseCase) HideComment(ctx context.Context, commentID, actingUserName string) entity.ServiceResultCode {
	return uc.Hide(ctx, entity.CommentRef(commentID), actingUserName)
}

func (uc *postModerationUseCase) UnhideBlog(ctx context.Context, blogID, actingUserName string) entity.ServiceResultCode {
	return uc.Unhide(ctx, entity.BlogRef(blogID), actingUserName)
}

func (uc *postModerationUseCase) UnhideComment(ctx context.Context, commentID, actingUserName string) entity.ServiceResultCode {
	return uc.Unhide(ctx, entity.CommentRef(commentID), actingUserName)
}

func (uc *postModerationUseCase) ForciblyDeleteBlog(ctx context.Context, blogID, actingUserName string) entity.ServiceResultCode {
	return uc.ForciblyDelete(ctx, entity.BlogRef(blogID), actingUserName)
}

func (uc *postModerationUseCase) ForciblyDeleteComment(ctx context.Context, commentID, actingUserName string) entity.ServiceResultCode {
	return uc.ForciblyDelete(ctx, entity.CommentRef(commentID), actingUserName)
}

// schedulePurge is best effort; the periodic sweep picks up marked posts
// whose schedule was lost.
func schedulePurge(ctx context.Context, scheduler DeletionScheduler, log *logger.Logger, ref entity.PostRef, after time.Duration) {
	if scheduler == nil {
		return
	}
	if err := scheduler.SchedulePurge(ctx, ref, after); err != nil {
		log.Warn("Failed to schedule purge of %s: %v", ref, err)
	}
}
