package usecase

import (
	"context"
	"io"
	"testing"
	"time"

	"simple-forum/pkg/logger"
	"simple-forum/services/moderation/internal/entity"
	"simple-forum/services/moderation/internal/repo"
	"simple-forum/services/moderation/internal/repo/inmemory"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

type MockScheduler struct {
	mock.Mock
}

func (m *MockScheduler) SchedulePurge(ctx context.Context, ref entity.PostRef, after time.Duration) error {
	args := m.Called(ctx, ref, after)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event entity.ModerationEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) DeleteFileByURL(fileURL string) error {
	args := m.Called(fileURL)
	return args.Error(0)
}

// conflictRepo loses every version-guarded write, as if another moderator
// committed first.
type conflictRepo struct {
	repo.Repository
}

func (c conflictRepo) Transaction(ctx context.Context, fn func(repo.Repository) error) error {
	return c.Repository.Transaction(ctx, func(r repo.Repository) error {
		return fn(conflictRepo{Repository: r})
	})
}

func (c conflictRepo) SavePostState(ctx context.Context, ref entity.PostRef, post *entity.Post) error {
	return entity.ErrConcurrentUpdate
}

type fixture struct {
	store *inmemory.Store
	users *inmemory.Directory
	log   *logger.Logger
}

// newFixture seeds alice, bob, dave and eve as plain users, carol as a
// moderator and admin as an admin.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	users := inmemory.NewDirectory()
	users.AddUser("alice", entity.RoleUser)
	users.AddUser("bob", entity.RoleUser)
	users.AddUser("carol", entity.RoleUser, entity.RoleModerator)
	users.AddUser("admin", entity.RoleAdmin)
	users.AddUser("dave", entity.RoleUser)
	users.AddUser("eve", entity.RoleUser)

	return &fixture{
		store: inmemory.NewStore(),
		users: users,
		log:   logger.NewWithWriter(io.Discard, io.Discard),
	}
}

func (f *fixture) permissions() *permissionUseCase {
	uc := NewPermissionUseCase(f.store, f.users, f.log).(*permissionUseCase)
	uc.nowFn = fixedClock
	return uc
}

func (f *fixture) userModeration(events EventPublisher) *userModerationUseCase {
	uc := NewUserModerationUseCase(f.store, f.users, events, f.log).(*userModerationUseCase)
	uc.nowFn = fixedClock
	return uc
}

func (f *fixture) postModeration(scheduler DeletionScheduler, events EventPublisher) *postModerationUseCase {
	uc := NewPostModerationUseCase(f.store, f.users, scheduler, events, f.log, time.Hour).(*postModerationUseCase)
	uc.nowFn = fixedClock
	return uc
}

func (f *fixture) content(scheduler DeletionScheduler) *contentUseCase {
	uc := NewContentUseCase(f.store, f.users, scheduler, f.log, time.Hour).(*contentUseCase)
	uc.nowFn = fixedClock
	return uc
}

func (f *fixture) purger(images ImageStore, events EventPublisher) *purgeUseCase {
	uc := NewPurgeUseCase(f.store, images, events, f.log).(*purgeUseCase)
	uc.nowFn = fixedClock
	return uc
}

func (f *fixture) ban(t *testing.T, userName string, expiry *time.Time) {
	t.Helper()
	require.NoError(t, f.store.UpsertBanTicket(context.Background(), &entity.BanTicket{
		UserName:  userName,
		Expiry:    expiry,
		BannedBy:  "admin",
		CreatedAt: testNow.Add(-time.Hour),
		UpdatedAt: testNow.Add(-time.Hour),
	}))
}

func (f *fixture) createBlog(t *testing.T, author string) string {
	t.Helper()
	id, code := f.content(nil).CreateBlog(context.Background(), BlogInput{Title: "title", Body: "body"}, author)
	require.Equal(t, entity.ResultSuccess, code)
	return id
}

func (f *fixture) createComment(t *testing.T, blogID, author string) string {
	t.Helper()
	id, code := f.content(nil).CreateComment(context.Background(), blogID, CommentInput{Body: "comment"}, author)
	require.Equal(t, entity.ResultSuccess, code)
	return id
}

func (f *fixture) post(t *testing.T, ref entity.PostRef) *entity.Post {
	t.Helper()
	post, err := f.store.GetPostForUpdate(context.Background(), ref)
	require.NoError(t, err)
	return post
}

func timePtr(t time.Time) *time.Time {
	return &t
}
