package usecase

import (
	"context"
	"testing"
	"time"

	"simple-forum/services/moderation/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPurge_BlogWithCommentsAndCover(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cover := "https://forum-images.s3.us-east-1.amazonaws.com/covers/a.png"

	blogID, code := f.content(nil).CreateBlog(ctx, BlogInput{Title: "t", Body: "b", CoverImageURI: cover}, "alice")
	require.Equal(t, entity.ResultSuccess, code)
	commentID := f.createComment(t, blogID, "bob")
	require.Equal(t, entity.ResultSuccess, f.postModeration(nil, nil).ForciblyDeleteBlog(ctx, blogID, "carol"))

	images := new(MockImageStore)
	images.On("DeleteFileByURL", cover).Return(nil).Once()
	events := new(MockPublisher)
	events.On("Publish", mock.Anything, mock.MatchedBy(func(e entity.ModerationEvent) bool {
		return e.Action == entity.ActionPostPurged
	})).Return(nil).Once()

	uc := f.purger(images, events)
	require.NoError(t, uc.Purge(ctx, entity.BlogRef(blogID), testNow))

	_, err := f.store.GetPostForUpdate(ctx, entity.BlogRef(blogID))
	assert.ErrorIs(t, err, entity.ErrNotFound)
	_, err = f.store.GetPostForUpdate(ctx, entity.CommentRef(commentID))
	assert.ErrorIs(t, err, entity.ErrNotFound)

	// retried delivery
	require.NoError(t, uc.Purge(ctx, entity.BlogRef(blogID), testNow))

	images.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestPurge_SkipsLivePosts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	blogID := f.createBlog(t, "alice")

	require.NoError(t, f.purger(nil, nil).Purge(ctx, entity.BlogRef(blogID), testNow))
	assert.False(t, f.post(t, entity.BlogRef(blogID)).ToBeDeleted)
}

func TestPurge_SkipsRestoredAndRemarked(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	blogID := f.createBlog(t, "alice")
	ref := entity.BlogRef(blogID)
	moderation := f.postModeration(nil, nil)

	require.Equal(t, entity.ResultSuccess, moderation.ForciblyDelete(ctx, ref, "carol"))
	require.Equal(t, entity.ResultSuccess, moderation.Restore(ctx, ref, "carol"))
	require.NoError(t, f.purger(nil, nil).Purge(ctx, ref, testNow))
	assert.False(t, f.post(t, ref).ToBeDeleted)

	later := f.postModeration(nil, nil)
	later.nowFn = func() time.Time { return testNow.Add(time.Hour) }
	require.Equal(t, entity.ResultSuccess, later.ForciblyDelete(ctx, ref, "carol"))

	// the schedule from the first marking must not purge the second one early
	require.NoError(t, f.purger(nil, nil).Purge(ctx, ref, testNow))
	assert.True(t, f.post(t, ref).ToBeDeleted)
}

func TestPurge_InvalidKind(t *testing.T) {
	f := newFixture(t)
	assert.Error(t, f.purger(nil, nil).Purge(context.Background(), entity.PostRef{Kind: "thread", ID: "x"}, testNow))
}

func TestSweep(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	oldBlog := f.createBlog(t, "alice")
	oldComment := f.createComment(t, oldBlog, "bob")
	keptBlog := f.createBlog(t, "alice")
	strayComment := f.createComment(t, keptBlog, "bob")
	freshBlog := f.createBlog(t, "alice")

	old := f.content(nil)
	old.nowFn = func() time.Time { return testNow.Add(-4 * 24 * time.Hour) }
	require.Equal(t, entity.ResultSuccess, old.DeleteComment(ctx, oldComment, "bob"))
	require.Equal(t, entity.ResultSuccess, old.DeleteBlog(ctx, oldBlog, "alice"))
	require.Equal(t, entity.ResultSuccess, old.DeleteComment(ctx, strayComment, "bob"))
	require.Equal(t, entity.ResultSuccess, f.content(nil).DeleteBlog(ctx, freshBlog, "alice"))

	count, err := f.purger(nil, nil).Sweep(ctx, 72*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	_, err = f.store.GetPostForUpdate(ctx, entity.CommentRef(strayComment))
	assert.ErrorIs(t, err, entity.ErrNotFound)
	assert.True(t, f.post(t, entity.BlogRef(freshBlog)).ToBeDeleted)
	_, err = f.store.GetBlog(ctx, keptBlog)
	assert.NoError(t, err)
}
