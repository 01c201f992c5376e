package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"simple-forum/services/moderation/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestHide_BlocksAuthorEdit(t *testing.T) {
	f := newFixture(t)
	blogID := f.createBlog(t, "alice")

	code := f.postModeration(nil, nil).HideBlog(context.Background(), blogID, "carol")
	require.Equal(t, entity.ResultSuccess, code)
	assert.True(t, f.post(t, entity.BlogRef(blogID)).IsHidden())

	code = f.content(nil).UpdateBlog(context.Background(), blogID, BlogInput{Title: "t", Body: "edited"}, "alice")
	assert.Equal(t, entity.ResultUnauthorized, code)
}

func TestModerator_BypassesOwnershipNotBan(t *testing.T) {
	f := newFixture(t)
	uc := f.postModeration(nil, nil)
	ctx := context.Background()
	blogID := f.createBlog(t, "alice")
	commentID := f.createComment(t, blogID, "bob")

	assert.Equal(t, entity.ResultSuccess, uc.HideBlog(ctx, blogID, "carol"))
	assert.Equal(t, entity.ResultSuccess, uc.UnhideBlog(ctx, blogID, "admin"))
	assert.Equal(t, entity.ResultSuccess, uc.HideComment(ctx, commentID, "carol"))
	assert.Equal(t, entity.ResultSuccess, uc.UnhideComment(ctx, commentID, "carol"))

	f.ban(t, "carol", timePtr(testNow.Add(time.Hour)))
	assert.Equal(t, entity.ResultUnauthorized, uc.HideBlog(ctx, blogID, "carol"))
	assert.Equal(t, entity.ResultUnauthorized, uc.ForciblyDeleteBlog(ctx, blogID, "carol"))
	assert.False(t, f.post(t, entity.BlogRef(blogID)).IsHidden())
}

func TestModeration_NonModerators(t *testing.T) {
	f := newFixture(t)
	uc := f.postModeration(nil, nil)
	ctx := context.Background()
	blogID := f.createBlog(t, "alice")

	assert.Equal(t, entity.ResultUnauthorized, uc.HideBlog(ctx, blogID, "alice"))
	assert.Equal(t, entity.ResultUnauthorized, uc.ForciblyDeleteBlog(ctx, blogID, "bob"))
	assert.Equal(t, entity.ResultUnauthenticated, uc.HideBlog(ctx, blogID, ""))
	assert.Equal(t, entity.ResultNotFound, uc.HideBlog(ctx, "missing", "carol"))
	assert.Equal(t, entity.ResultInvalidArguments, uc.Hide(ctx, entity.PostRef{Kind: "thread", ID: blogID}, "carol"))
}

func TestModeration_IdempotentTransitions(t *testing.T) {
	f := newFixture(t)
	scheduler := new(MockScheduler)
	scheduler.On("SchedulePurge", mock.Anything, mock.Anything, time.Hour).Return(nil).Once()

	uc := f.postModeration(scheduler, nil)
	ctx := context.Background()
	blogID := f.createBlog(t, "alice")
	ref := entity.BlogRef(blogID)

	before := f.post(t, ref)
	assert.Equal(t, entity.ResultSuccess, uc.UnhideBlog(ctx, blogID, "carol"))
	assert.Equal(t, entity.ResultSuccess, uc.DismissReport(ctx, ref, "carol"))
	assert.Equal(t, before.Version, f.post(t, ref).Version)

	assert.Equal(t, entity.ResultSuccess, uc.ForciblyDeleteBlog(ctx, blogID, "carol"))
	assert.Equal(t, entity.ResultInvalidState, uc.ForciblyDeleteBlog(ctx, blogID, "carol"))

	scheduler.AssertExpectations(t)
	scheduler.AssertCalled(t, "SchedulePurge", mock.Anything, ref, time.Hour)
}

func TestForciblyDelete_HidesFromReads(t *testing.T) {
	f := newFixture(t)
	uc := f.postModeration(nil, nil)
	ctx := context.Background()
	blogID := f.createBlog(t, "alice")

	require.Equal(t, entity.ResultSuccess, uc.ForciblyDeleteBlog(ctx, blogID, "admin"))

	_, code := f.content(nil).GetBlog(ctx, blogID, "alice")
	assert.Equal(t, entity.ResultNotFound, code)
	assert.Equal(t, entity.ResultNotFound, uc.HideBlog(ctx, blogID, "carol"))
	assert.Equal(t, entity.ResultNotFound,
		f.content(nil).UpdateBlog(ctx, blogID, BlogInput{Title: "t", Body: "b"}, "alice"))
}

func TestForciblyDelete_ScheduleFailureStillSucceeds(t *testing.T) {
	f := newFixture(t)
	scheduler := new(MockScheduler)
	scheduler.On("SchedulePurge", mock.Anything, mock.Anything, time.Hour).Return(errors.New("broker down"))

	blogID := f.createBlog(t, "alice")
	code := f.postModeration(scheduler, nil).ForciblyDeleteBlog(context.Background(), blogID, "carol")

	assert.Equal(t, entity.ResultSuccess, code)
	assert.True(t, f.post(t, entity.BlogRef(blogID)).ToBeDeleted)
}

func TestReport_Lifecycle(t *testing.T) {
	f := newFixture(t)
	events := new(MockPublisher)
	events.On("Publish", mock.Anything, mock.Anything).Return(nil)

	uc := f.postModeration(nil, events)
	ctx := context.Background()
	blogID := f.createBlog(t, "alice")
	ref := entity.BlogRef(blogID)

	require.Equal(t, entity.ResultSuccess, uc.Report(ctx, ref, "bob", ReportInput{Reason: "spam"}))
	post := f.post(t, ref)
	require.True(t, post.IsReported())
	ticketID := *post.ReportTicketID

	assert.Equal(t, entity.ResultInvalidState, uc.Report(ctx, ref, "bob", ReportInput{}))
	assert.Equal(t, entity.ResultInvalidState, uc.Report(ctx, ref, "dave", ReportInput{}))

	// reported content is frozen for its author
	code := f.content(nil).UpdateBlog(ctx, blogID, BlogInput{Title: "t", Body: "b"}, "alice")
	assert.Equal(t, entity.ResultUnauthorized, code)

	open, code := uc.ListOpenReports(ctx, "carol", 10, 0)
	require.Equal(t, entity.ResultSuccess, code)
	require.Len(t, open, 1)
	assert.Equal(t, ref, open[0].Target())

	require.Equal(t, entity.ResultSuccess, uc.DismissReport(ctx, ref, "carol"))
	assert.Equal(t, entity.VisibilityVisible, f.post(t, ref).Visibility)

	ticket, err := f.store.GetReportTicket(ctx, ticketID)
	require.NoError(t, err)
	assert.Equal(t, testNow, *ticket.ActionDate)

	open, _ = uc.ListOpenReports(ctx, "carol", 10, 0)
	assert.Empty(t, open)

	events.AssertNumberOfCalls(t, "Publish", 2)
}

func TestReport_Rules(t *testing.T) {
	f := newFixture(t)
	uc := f.postModeration(nil, nil)
	ctx := context.Background()
	blogID := f.createBlog(t, "alice")
	commentID := f.createComment(t, blogID, "alice")

	assert.Equal(t, entity.ResultUnauthenticated, uc.Report(ctx, entity.BlogRef(blogID), "", ReportInput{}))

	f.ban(t, "dave", nil)
	assert.Equal(t, entity.ResultUnauthorized, uc.Report(ctx, entity.BlogRef(blogID), "dave", ReportInput{}))

	long := make([]byte, 201)
	for i := range long {
		long[i] = 'x'
	}
	assert.Equal(t, entity.ResultInvalidArguments,
		uc.Report(ctx, entity.CommentRef(commentID), "bob", ReportInput{Reason: string(long)}))

	require.Equal(t, entity.ResultSuccess, uc.HideComment(ctx, commentID, "carol"))
	assert.Equal(t, entity.ResultInvalidState, uc.Report(ctx, entity.CommentRef(commentID), "bob", ReportInput{}))
}

func TestHide_ClosesOpenReport(t *testing.T) {
	f := newFixture(t)
	uc := f.postModeration(nil, nil)
	ctx := context.Background()
	blogID := f.createBlog(t, "alice")
	commentID := f.createComment(t, blogID, "bob")
	ref := entity.CommentRef(commentID)

	require.Equal(t, entity.ResultSuccess, uc.Report(ctx, ref, "alice", ReportInput{Reason: "rude"}))
	ticketID := *f.post(t, ref).ReportTicketID

	require.Equal(t, entity.ResultSuccess, uc.Hide(ctx, ref, "carol"))
	post := f.post(t, ref)
	assert.True(t, post.IsHidden())
	assert.Nil(t, post.ReportTicketID)

	ticket, err := f.store.GetReportTicket(ctx, ticketID)
	require.NoError(t, err)
	assert.False(t, ticket.IsOpen())
}

func TestForciblyDelete_ClosesOpenReport(t *testing.T) {
	f := newFixture(t)
	uc := f.postModeration(nil, nil)
	ctx := context.Background()
	blogID := f.createBlog(t, "alice")
	ref := entity.BlogRef(blogID)

	require.Equal(t, entity.ResultSuccess, uc.Report(ctx, ref, "bob", ReportInput{}))
	require.Equal(t, entity.ResultSuccess, uc.ForciblyDelete(ctx, ref, "carol"))

	open, code := uc.ListOpenReports(ctx, "carol", 0, 0)
	require.Equal(t, entity.ResultSuccess, code)
	assert.Empty(t, open)
}

func TestRestore(t *testing.T) {
	f := newFixture(t)
	uc := f.postModeration(nil, nil)
	ctx := context.Background()
	blogID := f.createBlog(t, "alice")
	ref := entity.BlogRef(blogID)

	assert.Equal(t, entity.ResultInvalidState, uc.Restore(ctx, ref, "carol"))

	require.Equal(t, entity.ResultSuccess, f.content(nil).DeleteBlog(ctx, blogID, "alice"))
	assert.Equal(t, entity.ResultUnauthorized, uc.Restore(ctx, ref, "alice"))
	require.Equal(t, entity.ResultSuccess, uc.Restore(ctx, ref, "carol"))

	_, code := f.content(nil).GetBlog(ctx, blogID, "")
	assert.Equal(t, entity.ResultSuccess, code)
}

func TestListOpenReports_RequiresModerator(t *testing.T) {
	f := newFixture(t)
	uc := f.postModeration(nil, nil)

	_, code := uc.ListOpenReports(context.Background(), "", 10, 0)
	assert.Equal(t, entity.ResultUnauthenticated, code)
	_, code = uc.ListOpenReports(context.Background(), "bob", 10, 0)
	assert.Equal(t, entity.ResultUnauthorized, code)
}

func TestModeration_LostUpdateIsInvalidState(t *testing.T) {
	f := newFixture(t)
	blogID := f.createBlog(t, "alice")

	uc := NewPostModerationUseCase(conflictRepo{Repository: f.store}, f.users, nil, nil, f.log, time.Hour)
	assert.Equal(t, entity.ResultInvalidState, uc.HideBlog(context.Background(), blogID, "carol"))
	assert.False(t, f.post(t, entity.BlogRef(blogID)).IsHidden())
}
