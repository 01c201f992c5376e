package http

import (
	"context"
	"time"

	"simple-forum/services/moderation/internal/entity"
	"simple-forum/services/moderation/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

type MockContentUseCase struct {
	mock.Mock
}

func (m *MockContentUseCase) CreateBlog(ctx context.Context, input usecase.BlogInput, authorUserName string) (string, entity.ServiceResultCode) {
	args := m.Called(ctx, input, authorUserName)
	return args.String(0), args.Get(1).(entity.ServiceResultCode)
}

func (m *MockContentUseCase) CreateComment(ctx context.Context, blogID string, input usecase.CommentInput, authorUserName string) (string, entity.ServiceResultCode) {
	args := m.Called(ctx, blogID, input, authorUserName)
	return args.String(0), args.Get(1).(entity.ServiceResultCode)
}

func (m *MockContentUseCase) UpdateBlog(ctx context.Context, blogID string, input usecase.BlogInput, actingUserName string) entity.ServiceResultCode {
	args := m.Called(ctx, blogID, input, actingUserName)
	return args.Get(0).(entity.ServiceResultCode)
}

func (m *MockContentUseCase) UpdateComment(ctx context.Context, commentID string, input usecase.CommentInput, actingUserName string) entity.ServiceResultCode {
	args := m.Called(ctx, commentID, input, actingUserName)
	return args.Get(0).(entity.ServiceResultCode)
}

func (m *MockContentUseCase) DeleteBlog(ctx context.Context, blogID, actingUserName string) entity.ServiceResultCode {
	args := m.Called(ctx, blogID, actingUserName)
	return args.Get(0).(entity.ServiceResultCode)
}

func (m *MockContentUseCase) DeleteComment(ctx context.Context, commentID, actingUserName string) entity.ServiceResultCode {
	args := m.Called(ctx, commentID, actingUserName)
	return args.Get(0).(entity.ServiceResultCode)
}

func (m *MockContentUseCase) GetBlog(ctx context.Context, blogID, viewerUserName string) (*usecase.BlogView, entity.ServiceResultCode) {
	args := m.Called(ctx, blogID, viewerUserName)
	if args.Get(0) == nil {
		return nil, args.Get(1).(entity.ServiceResultCode)
	}
	return args.Get(0).(*usecase.BlogView), args.Get(1).(entity.ServiceResultCode)
}

func (m *MockContentUseCase) ListBlogs(ctx context.Context, viewerUserName string, limit, offset int) ([]*usecase.BlogView, entity.ServiceResultCode) {
	args := m.Called(ctx, viewerUserName, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(entity.ServiceResultCode)
	}
	return args.Get(0).([]*usecase.BlogView), args.Get(1).(entity.ServiceResultCode)
}

func (m *MockContentUseCase) ListComments(ctx context.Context, blogID, viewerUserName string) ([]*usecase.CommentView, entity.ServiceResultCode) {
	args := m.Called(ctx, blogID, viewerUserName)
	if args.Get(0) == nil {
		return nil, args.Get(1).(entity.ServiceResultCode)
	}
	return args.Get(0).([]*usecase.CommentView), args.Get(1).(entity.ServiceResultCode)
}

func (m *MockContentUseCase) IncrementViewCount(ctx context.Context, blogID string) entity.ServiceResultCode {
	args := m.Called(ctx, blogID)
	return args.Get(0).(entity.ServiceResultCode)
}

var _ usecase.ContentUseCase = (*MockContentUseCase)(nil)

type MockPermissionUseCase struct {
	mock.Mock
}

func (m *MockPermissionUseCase) IsAllowedToCreatePost(ctx context.Context, userName string) bool {
	return m.Called(ctx, userName).Bool(0)
}

func (m *MockPermissionUseCase) IsAllowedToUpdateOrDeletePost(ctx context.Context, userName string, isHiddenOrReported bool, authorUserName string) bool {
	return m.Called(ctx, userName, isHiddenOrReported, authorUserName).Bool(0)
}

func (m *MockPermissionUseCase) AnnotatePosts(ctx context.Context, userName string, posts []usecase.PostPermissionInput) map[string]bool {
	return m.Called(ctx, userName, posts).Get(0).(map[string]bool)
}

var _ usecase.PermissionUseCase = (*MockPermissionUseCase)(nil)

type MockPostModerationUseCase struct {
	mock.Mock
}

func (m *MockPostModerationUseCase) code(args mock.Arguments) entity.ServiceResultCode {
	return args.Get(0).(entity.ServiceResultCode)
}

func (m *MockPostModerationUseCase) Hide(ctx context.Context, ref entity.PostRef, actingUserName string) entity.ServiceResultCode {
	return m.code(m.Called(ctx, ref, actingUserName))
}

func (m *MockPostModerationUseCase) Unhide(ctx context.Context, ref entity.PostRef, actingUserName string) entity.ServiceResultCode {
	return m.code(m.Called(ctx, ref, actingUserName))
}

func (m *MockPostModerationUseCase) Report(ctx context.Context, ref entity.PostRef, reportingUserName string, input usecase.ReportInput) entity.ServiceResultCode {
	return m.code(m.Called(ctx, ref, reportingUserName, input))
}

func (m *MockPostModerationUseCase) DismissReport(ctx context.Context, ref entity.PostRef, actingUserName string) entity.ServiceResultCode {
	return m.code(m.Called(ctx, ref, actingUserName))
}

func (m *MockPostModerationUseCase) ForciblyDelete(ctx context.Context, ref entity.PostRef, actingUserName string) entity.ServiceResultCode {
	return m.code(m.Called(ctx, ref, actingUserName))
}

func (m *MockPostModerationUseCase) Restore(ctx context.Context, ref entity.PostRef, actingUserName string) entity.ServiceResultCode {
	return m.code(m.Called(ctx, ref, actingUserName))
}

func (m *MockPostModerationUseCase) ListOpenReports(ctx context.Context, actingUserName string, limit, offset int) ([]*entity.ReportTicket, entity.ServiceResultCode) {
	args := m.Called(ctx, actingUserName, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Get(1).(entity.ServiceResultCode)
	}
	return args.Get(0).([]*entity.ReportTicket), args.Get(1).(entity.ServiceResultCode)
}

func (m *MockPostModerationUseCase) HideBlog(ctx context.Context, blogID, actingUserName string) entity.ServiceResultCode {
	return m.Hide(ctx, entity.BlogRef(blogID), actingUserName)
}

func (m *MockPostModerationUseCase) HideComment(ctx context.Context, commentID, actingUserName string) entity.ServiceResultCode {
	return m.Hide(ctx, entity.CommentRef(commentID), actingUserName)
}

func (m *MockPostModerationUseCase) UnhideBlog(ctx context.Context, blogID, actingUserName string) entity.ServiceResultCode {
	return m.Unhide(ctx, entity.BlogRef(blogID), actingUserName)
}

func (m *MockPostModerationUseCase) UnhideComment(ctx context.Context, commentID, actingUserName string) entity.ServiceResultCode {
	return m.Unhide(ctx, entity.CommentRef(commentID), actingUserName)
}

func (m *MockPostModerationUseCase) ForciblyDeleteBlog(ctx context.Context, blogID, actingUserName string) entity.ServiceResultCode {
	return m.ForciblyDelete(ctx, entity.BlogRef(blogID), actingUserName)
}

func (m *MockPostModerationUseCase) ForciblyDeleteComment(ctx context.Context, commentID, actingUserName string) entity.ServiceResultCode {
	return m.ForciblyDelete(ctx, entity.CommentRef(commentID), actingUserName)
}

var _ usecase.PostModerationUseCase = (*MockPostModerationUseCase)(nil)

type MockUserModerationUseCase struct {
	mock.Mock
}

func (m *MockUserModerationUseCase) FindBanTicketByUserName(ctx context.Context, userName string) (*entity.BanTicket, entity.ServiceResultCode) {
	args := m.Called(ctx, userName)
	if args.Get(0) == nil {
		return nil, args.Get(1).(entity.ServiceResultCode)
	}
	return args.Get(0).(*entity.BanTicket), args.Get(1).(entity.ServiceResultCode)
}

func (m *MockUserModerationUseCase) GetBanTicket(ctx context.Context, targetUserName, actingUserName string) (*entity.BanTicket, entity.ServiceResultCode) {
	args := m.Called(ctx, targetUserName, actingUserName)
	if args.Get(0) == nil {
		return nil, args.Get(1).(entity.ServiceResultCode)
	}
	return args.Get(0).(*entity.BanTicket), args.Get(1).(entity.ServiceResultCode)
}

func (m *MockUserModerationUseCase) BanTicketExists(ctx context.Context, userName string) bool {
	return m.Called(ctx, userName).Bool(0)
}

func (m *MockUserModerationUseCase) BanUser(ctx context.Context, targetUserName, actingUserName string, expiry *time.Time, reason string) entity.ServiceResultCode {
	return m.Called(ctx, targetUserName, actingUserName, expiry, reason).Get(0).(entity.ServiceResultCode)
}

func (m *MockUserModerationUseCase) RemoveBanTicket(ctx context.Context, targetUserName, actingUserName string) entity.ServiceResultCode {
	return m.Called(ctx, targetUserName, actingUserName).Get(0).(entity.ServiceResultCode)
}

var _ usecase.UserModerationUseCase = (*MockUserModerationUseCase)(nil)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// as runs h with userName signed in; an empty name stays anonymous.
func as(userName string, h gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userName != "" {
			c.Set("user_name", userName)
		}
		h(c)
	}
}
