// Package jobs connects the deferred purge to the message queue.
package jobs

import (
	"context"
	"fmt"
	"time"

	"simple-forum/pkg/logger"
	"simple-forum/pkg/queue"
	"simple-forum/services/moderation/internal/entity"
	"simple-forum/services/moderation/internal/usecase"
)

type taskPublisher interface {
	PublishPurgeTask(ctx context.Context, task queue.PurgeTask, delay time.Duration) error
}

// PurgeScheduler publishes delayed purge tasks.
type PurgeScheduler struct {
	queue taskPublisher
	nowFn func() time.Time
}

func NewPurgeScheduler(q taskPublisher) *PurgeScheduler {
	return &PurgeScheduler{queue: q, nowFn: time.Now}
}

var _ usecase.DeletionScheduler = (*PurgeScheduler)(nil)

// SchedulePurge is called after the deletion marker committed, so the
// current time bounds the marker the task is for.
func (s *PurgeScheduler) SchedulePurge(ctx context.Context, ref entity.PostRef, after time.Duration) error {
	return s.queue.PublishPurgeTask(ctx, queue.PurgeTask{
		Kind:         string(ref.Kind),
		ID:           ref.ID,
		MarkedBefore: s.nowFn().UTC(),
	}, after)
}

// PurgeHandler turns queue deliveries into purge calls.
type PurgeHandler struct {
	purges usecase.PurgeUseCase
	logger *logger.Logger
}

func NewPurgeHandler(purges usecase.PurgeUseCase, log *logger.Logger) *PurgeHandler {
	return &PurgeHandler{purges: purges, logger: log}
}

func (h *PurgeHandler) Handle(ctx context.Context, task queue.PurgeTask) error {
	ref := entity.PostRef{Kind: entity.PostKind(task.Kind), ID: task.ID}
	if !ref.Kind.Valid() {
		h.logger.Warn("Ignoring purge task with unknown kind %q", task.Kind)
		return nil
	}
	if err := h.purges.Purge(ctx, ref, task.MarkedBefore); err != nil {
		return fmt.Errorf("purge task %s: %w", ref, err)
	}
	return nil
}
