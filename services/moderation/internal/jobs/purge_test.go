package jobs

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"simple-forum/pkg/logger"
	"simple-forum/pkg/queue"
	"simple-forum/services/moderation/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockTaskPublisher struct {
	mock.Mock
}

func (m *MockTaskPublisher) PublishPurgeTask(ctx context.Context, task queue.PurgeTask, delay time.Duration) error {
	args := m.Called(ctx, task, delay)
	return args.Error(0)
}

type MockPurgeUseCase struct {
	mock.Mock
}

func (m *MockPurgeUseCase) Purge(ctx context.Context, ref entity.PostRef, markedBefore time.Time) error {
	args := m.Called(ctx, ref, markedBefore)
	return args.Error(0)
}

func (m *MockPurgeUseCase) Sweep(ctx context.Context, retention time.Duration) (int, error) {
	args := m.Called(ctx, retention)
	return args.Int(0), args.Error(1)
}

var now = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func TestPurgeScheduler_SchedulePurge(t *testing.T) {
	publisher := new(MockTaskPublisher)
	publisher.On("PublishPurgeTask", mock.Anything,
		queue.PurgeTask{Kind: "comment", ID: "c-1", MarkedBefore: now}, 24*time.Hour).Return(nil)

	scheduler := NewPurgeScheduler(publisher)
	scheduler.nowFn = func() time.Time { return now }

	assert.NoError(t, scheduler.SchedulePurge(context.Background(), entity.CommentRef("c-1"), 24*time.Hour))
	publisher.AssertExpectations(t)
}

func TestPurgeHandler_Handle(t *testing.T) {
	purges := new(MockPurgeUseCase)
	purges.On("Purge", mock.Anything, entity.BlogRef("b-1"), now).Return(nil)
	purges.On("Purge", mock.Anything, entity.BlogRef("b-2"), now).Return(errors.New("db down"))

	h := NewPurgeHandler(purges, logger.NewWithWriter(io.Discard, io.Discard))
	ctx := context.Background()

	assert.NoError(t, h.Handle(ctx, queue.PurgeTask{Kind: "blog", ID: "b-1", MarkedBefore: now}))
	assert.Error(t, h.Handle(ctx, queue.PurgeTask{Kind: "blog", ID: "b-2", MarkedBefore: now}))
	assert.NoError(t, h.Handle(ctx, queue.PurgeTask{Kind: "thread", ID: "t-1", MarkedBefore: now}))

	purges.AssertNumberOfCalls(t, "Purge", 2)
}
