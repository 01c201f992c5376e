package inmemory

import (
	"context"
	"errors"
	"testing"
	"time"

	"simple-forum/services/moderation/internal/entity"
	"simple-forum/services/moderation/internal/repo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func newBlog(t *testing.T, s *Store, author string, at time.Time) *entity.Blog {
	t.Helper()
	blog := &entity.Blog{Post: entity.NewPost("body", author, at), Title: "title"}
	require.NoError(t, s.CreateBlog(context.Background(), blog))
	return blog
}

func TestStore_TransactionRollback(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	blog := newBlog(t, s, "alice", now)

	boom := errors.New("boom")
	err := s.Transaction(ctx, func(r repo.Repository) error {
		post, err := r.GetPostForUpdate(ctx, blog.Ref())
		require.NoError(t, err)
		post.Hide()
		require.NoError(t, r.SavePostState(ctx, blog.Ref(), post))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.GetBlog(ctx, blog.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.VisibilityVisible, got.Visibility)
}

func TestStore_TransactionCommit(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	blog := newBlog(t, s, "alice", now)

	err := s.Transaction(ctx, func(r repo.Repository) error {
		post, err := r.GetPostForUpdate(ctx, blog.Ref())
		if err != nil {
			return err
		}
		post.Hide()
		return r.SavePostState(ctx, blog.Ref(), post)
	})
	require.NoError(t, err)

	got, err := s.GetBlog(ctx, blog.ID)
	require.NoError(t, err)
	assert.True(t, got.IsHidden())
	assert.Equal(t, 1, got.Version)
}

func TestStore_SavePostStateStaleVersion(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	blog := newBlog(t, s, "alice", now)

	first, err := s.GetPostForUpdate(ctx, blog.Ref())
	require.NoError(t, err)
	second, err := s.GetPostForUpdate(ctx, blog.Ref())
	require.NoError(t, err)

	first.Hide()
	require.NoError(t, s.SavePostState(ctx, blog.Ref(), first))

	require.NoError(t, second.AttachReport("r-1"))
	assert.ErrorIs(t, s.SavePostState(ctx, blog.Ref(), second), entity.ErrConcurrentUpdate)
}

func TestStore_MarkedPostsHiddenFromDefaultReads(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	blog := newBlog(t, s, "alice", now)

	post, err := s.GetPostForUpdate(ctx, blog.Ref())
	require.NoError(t, err)
	_, err = post.MarkForDeletion(now)
	require.NoError(t, err)
	require.NoError(t, s.SavePostState(ctx, blog.Ref(), post))

	_, err = s.GetBlog(ctx, blog.ID)
	assert.ErrorIs(t, err, entity.ErrNotFound)

	blogs, err := s.ListBlogs(ctx, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, blogs)

	marked, err := s.GetPostForUpdate(ctx, blog.Ref())
	require.NoError(t, err)
	assert.True(t, marked.ToBeDeleted)

	ids, err := s.ListMarkedBefore(ctx, entity.KindBlog, now)
	require.NoError(t, err)
	assert.Equal(t, []string{blog.ID}, ids)

	ids, err = s.ListMarkedBefore(ctx, entity.KindBlog, now.Add(-time.Second))
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestStore_PurgeBlogTakesComments(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	blog := newBlog(t, s, "alice", now)
	other := newBlog(t, s, "alice", now)

	c1 := &entity.Comment{Post: entity.NewPost("c1", "bob", now), BlogID: blog.ID}
	c2 := &entity.Comment{Post: entity.NewPost("c2", "bob", now), BlogID: other.ID}
	require.NoError(t, s.CreateComment(ctx, c1))
	require.NoError(t, s.CreateComment(ctx, c2))

	require.NoError(t, s.PurgePost(ctx, blog.Ref()))

	_, err := s.GetComment(ctx, c1.ID)
	assert.ErrorIs(t, err, entity.ErrNotFound)
	_, err = s.GetComment(ctx, c2.ID)
	assert.NoError(t, err)

	assert.ErrorIs(t, s.PurgePost(ctx, blog.Ref()), entity.ErrNotFound)
}

func TestStore_BanTicketUpsert(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	expiry := now.Add(time.Hour)
	first := &entity.BanTicket{UserName: "bob", Expiry: &expiry, BannedBy: "carol", CreatedAt: now, UpdatedAt: now}
	require.NoError(t, s.UpsertBanTicket(ctx, first))

	second := &entity.BanTicket{UserName: "bob", BannedBy: "dave", Reason: "again", CreatedAt: now.Add(time.Minute), UpdatedAt: now.Add(time.Minute)}
	require.NoError(t, s.UpsertBanTicket(ctx, second))
	assert.Equal(t, first.ID, second.ID)

	got, err := s.FindBanTicket(ctx, "bob")
	require.NoError(t, err)
	assert.True(t, got.IsPermanent())
	assert.Equal(t, "dave", got.BannedBy)
	assert.Equal(t, now, got.CreatedAt)

	require.NoError(t, s.DeleteBanTicket(ctx, "bob"))
	assert.ErrorIs(t, s.DeleteBanTicket(ctx, "bob"), entity.ErrNotFound)
}

func TestStore_OpenReportTickets(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	older := entity.NewReportTicket(entity.BlogRef("b-1"), "bob", "spam", now)
	newer := entity.NewReportTicket(entity.CommentRef("c-1"), "bob", "rude", now.Add(time.Minute))
	require.NoError(t, s.CreateReportTicket(ctx, newer))
	require.NoError(t, s.CreateReportTicket(ctx, older))

	open, err := s.ListOpenReportTickets(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, open, 2)
	assert.Equal(t, older.ID, open[0].ID)

	require.NoError(t, s.CloseReportTicket(ctx, older.ID, now.Add(time.Hour)))
	open, err = s.ListOpenReportTickets(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, newer.ID, open[0].ID)

	open, err = s.ListOpenReportTickets(ctx, 10, 5)
	require.NoError(t, err)
	assert.Empty(t, open)
}

func TestStore_CloseReportTicket(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	ticket := entity.NewReportTicket(entity.BlogRef("b-1"), "bob", "spam", now)
	require.NoError(t, s.CreateReportTicket(ctx, ticket))

	assert.ErrorIs(t, s.CloseReportTicket(ctx, "missing", now), entity.ErrNotFound)

	require.NoError(t, s.CloseReportTicket(ctx, ticket.ID, now.Add(time.Hour)))
	require.NoError(t, s.CloseReportTicket(ctx, ticket.ID, now.Add(2*time.Hour)))

	got, err := s.GetReportTicket(ctx, ticket.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ActionDate)
	assert.Equal(t, now.Add(time.Hour), *got.ActionDate)
}

func TestStore_TransactionCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := NewStore().Transaction(ctx, func(r repo.Repository) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestDirectory(t *testing.T) {
	ctx := context.Background()
	d := NewDirectory()
	d.AddUser("carol", entity.RoleUser, entity.RoleModerator)

	u, err := d.FindUserByName(ctx, "carol")
	require.NoError(t, err)
	assert.True(t, u.HasAnyRole(entity.RoleModerator))

	users, err := d.FindUsersByNames(ctx, []string{"carol", "ghost"})
	require.NoError(t, err)
	assert.Len(t, users, 1)

	d.RemoveUser("carol")
	_, err = d.FindUserByName(ctx, "carol")
	assert.ErrorIs(t, err, entity.ErrNotFound)
}
