package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"simple-forum/pkg/logger"
	"simple-forum/services/moderation/internal/entity"
	"simple-forum/services/moderation/internal/repo"
)

// PurgeUseCase hard-deletes posts marked for deletion. Every entry point is
// safe to retry.
type PurgeUseCase interface {
	// Purge removes ref if it was marked no later than markedBefore. Posts
	// that are gone, restored or marked again later are left alone.
	Purge(ctx context.Context, ref entity.PostRef, markedBefore time.Time) error
	// Sweep purges everything marked longer than retention ago and returns
	// how many posts it removed.
	Sweep(ctx context.Context, retention time.Duration) (int, error)
}

type purgeUseCase struct {
	base
	images ImageStore
	events EventPublisher
}

func NewPurgeUseCase(r repo.Repository, images ImageStore, events EventPublisher, log *logger.Logger) PurgeUseCase {
	return &purgeUseCase{
		base:   newBase(r, nil, log),
		images: images,
		events: events,
	}
}

func (uc *purgeUseCase) Purge(ctx context.Context, ref entity.PostRef, markedBefore time.Time) error {
	_, err := uc.purge(ctx, ref, markedBefore)
	return err
}

func (uc *purgeUseCase) purge(ctx context.Context, ref entity.PostRef, markedBefore time.Time) (bool, error) {
	if !ref.Kind.Valid() {
		return false, fmt.Errorf("invalid post kind %q", ref.Kind)
	}

	var coverImage string
	purged := false
	err := uc.repo.Transaction(ctx, func(r repo.Repository) error {
		post, err := r.GetPostForUpdate(ctx, ref)
		if errors.Is(err, entity.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if !post.ToBeDeleted || post.DeletedAt == nil || post.DeletedAt.After(markedBefore) {
			return nil
		}

		if ref.Kind == entity.KindBlog {
			blog, err := r.GetBlogIncludingDeleted(ctx, ref.ID)
			if err != nil {
				return err
			}
			coverImage = blog.CoverImageURI
		}

		if err := r.PurgePost(ctx, ref); err != nil && !errors.Is(err, entity.ErrNotFound) {
			return err
		}
		purged = true
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to purge %s: %w", ref, err)
	}
	if !purged {
		uc.logger.Info("Purge of %s skipped: gone, restored or re-marked", ref)
		return false, nil
	}

	uc.logger.Info("Purged %s", ref)
	if coverImage != "" && uc.images != nil {
		if err := uc.images.DeleteFileByURL(coverImage); err != nil {
			uc.logger.Warn("Failed to delete cover image of %s: %v", ref, err)
		}
	}
	publish(ctx, uc.events, uc.logger, entity.ModerationEvent{
		Action:     entity.ActionPostPurged,
		Post:       &ref,
		OccurredAt: uc.now(),
	})
	return true, nil
}

// Sweep covers purges whose schedule was lost. Blogs go first so their
// comments leave with them.
func (uc *purgeUseCase) Sweep(ctx context.Context, retention time.Duration) (int, error) {
	cutoff := uc.now().Add(-retention)

	count := 0
	var errs []error
	for _, kind := range []entity.PostKind{entity.KindBlog, entity.KindComment} {
		ids, err := uc.repo.ListMarkedBefore(ctx, kind, cutoff)
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to list marked %ss: %w", kind, err))
			continue
		}
		for _, id := range ids {
			if err := ctx.Err(); err != nil {
				return count, err
			}
			purged, err := uc.purge(ctx, entity.PostRef{Kind: kind, ID: id}, cutoff)
			if err != nil {
				uc.logger.Error("Sweep: %v", err)
				errs = append(errs, err)
				continue
			}
			if purged {
				count++
			}
		}
	}

	if count > 0 {
		uc.logger.Info("Sweep purged %d posts marked before %s", count, cutoff.Format(time.RFC3339))
	}
	return count, errors.Join(errs...)
}
