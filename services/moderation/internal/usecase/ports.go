package usecase

import (
	"context"
	"time"

	"simple-forum/services/moderation/internal/entity"
)

// DeletionScheduler hands a post marked for deletion to the deferred purge.
type DeletionScheduler interface {
	SchedulePurge(ctx context.Context, ref entity.PostRef, after time.Duration) error
}

type EventPublisher interface {
	Publish(ctx context.Context, event entity.ModerationEvent) error
}

// ImageStore removes uploaded images once the owning blog is purged.
type ImageStore interface {
	DeleteFileByURL(fileURL string) error
}
