package http

import (
	"errors"
	"io"
	"net/http"
	"time"

	"simple-forum/pkg/logger"
	"simple-forum/services/moderation/internal/entity"
	"simple-forum/services/moderation/internal/permission"
	"simple-forum/services/moderation/internal/usecase"

	"github.com/gin-gonic/gin"
)

type ModerationHandler struct {
	posts  usecase.PostModerationUseCase
	users  usecase.UserModerationUseCase
	logger *logger.Logger
}

func NewModerationHandler(posts usecase.PostModerationUseCase, users usecase.UserModerationUseCase, logger *logger.Logger) *ModerationHandler {
	return &ModerationHandler{
		posts:  posts,
		users:  users,
		logger: logger,
	}
}

type postAction func(c *gin.Context, ref entity.PostRef, actingUserName string) entity.ServiceResultCode

// onPost binds action to the posts of one kind, addressed by :id.
func (h *ModerationHandler) onPost(kind entity.PostKind, action postAction, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ref := entity.PostRef{Kind: kind, ID: c.Param("id")}
		code := action(c, ref, currentUser(c))
		respondCode(c, code, http.StatusOK, gin.H{"message": message})
	}
}

// Hide godoc
// @Summary      Hide post
// @Description  Hide a blog or comment from regular readers. Moderators only.
// @Tags         moderation
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /moderation/blogs/{id}/hide [post]
// @Router       /moderation/comments/{id}/hide [post]
func (h *ModerationHandler) Hide(kind entity.PostKind) gin.HandlerFunc {
	return h.onPost(kind, func(c *gin.Context, ref entity.PostRef, user string) entity.ServiceResultCode {
		return h.posts.Hide(c.Request.Context(), ref, user)
	}, "Post hidden")
}

// Unhide godoc
// @Summary      Unhide post
// @Description  Make a hidden blog or comment visible again. Moderators only.
// @Tags         moderation
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /moderation/blogs/{id}/unhide [post]
// @Router       /moderation/comments/{id}/unhide [post]
func (h *ModerationHandler) Unhide(kind entity.PostKind) gin.HandlerFunc {
	return h.onPost(kind, func(c *gin.Context, ref entity.PostRef, user string) entity.ServiceResultCode {
		return h.posts.Unhide(c.Request.Context(), ref, user)
	}, "Post unhidden")
}

// DismissReport godoc
// @Summary      Dismiss report
// @Description  Close the open report on a blog or comment without further action. Moderators only.
// @Tags         moderation
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /moderation/blogs/{id}/dismiss-report [post]
// @Router       /moderation/comments/{id}/dismiss-report [post]
func (h *ModerationHandler) DismissReport(kind entity.PostKind) gin.HandlerFunc {
	return h.onPost(kind, func(c *gin.Context, ref entity.PostRef, user string) entity.ServiceResultCode {
		return h.posts.DismissReport(c.Request.Context(), ref, user)
	}, "Report dismissed")
}

// ForciblyDelete godoc
// @Summary      Forcibly delete post
// @Description  Mark any blog or comment for deletion. Moderators only.
// @Tags         moderation
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /moderation/blogs/{id}/delete [post]
// @Router       /moderation/comments/{id}/delete [post]
func (h *ModerationHandler) ForciblyDelete(kind entity.PostKind) gin.HandlerFunc {
	return h.onPost(kind, func(c *gin.Context, ref entity.PostRef, user string) entity.ServiceResultCode {
		return h.posts.ForciblyDelete(c.Request.Context(), ref, user)
	}, "Post marked for deletion")
}

// Restore godoc
// @Summary      Restore post
// @Description  Undo a pending deletion before the purge runs. Moderators only.
// @Tags         moderation
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /moderation/blogs/{id}/restore [post]
// @Router       /moderation/comments/{id}/restore [post]
func (h *ModerationHandler) Restore(kind entity.PostKind) gin.HandlerFunc {
	return h.onPost(kind, func(c *gin.Context, ref entity.PostRef, user string) entity.ServiceResultCode {
		return h.posts.Restore(c.Request.Context(), ref, user)
	}, "Post restored")
}

// Report is open to every signed-in user. An empty body means no reason.
//
// @Summary      Report post
// @Description  Open a report ticket on a blog or comment. The body is optional.
// @Tags         reports
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Post ID"
// @Param        request body usecase.ReportInput false "Report reason"
// @Success      201  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /blogs/{id}/report [post]
// @Router       /comments/{id}/report [post]
func (h *ModerationHandler) Report(kind entity.PostKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req usecase.ReportInput
		if body := c.Request.Body; body != nil && body != http.NoBody {
			if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
		}

		ref := entity.PostRef{Kind: kind, ID: c.Param("id")}
		code := h.posts.Report(c.Request.Context(), ref, currentUser(c), req)
		respondCode(c, code, http.StatusCreated, gin.H{"message": "Post reported"})
	}
}

// ListReports godoc
// @Summary      List open reports
// @Description  List report tickets that have not been acted on, oldest first. Moderators only.
// @Tags         reports
// @Produce      json
// @Security     BearerAuth
// @Param        limit query integer false "Page size (default 20)"
// @Param        offset query integer false "Items to skip"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /moderation/reports [get]
func (h *ModerationHandler) ListReports(c *gin.Context) {
	limit, offset := pagination(c)
	tickets, code := h.posts.ListOpenReports(c.Request.Context(), currentUser(c), limit, offset)
	respondCode(c, code, http.StatusOK, gin.H{"reports": tickets, "count": len(tickets)})
}

type banRequest struct {
	UserName string     `json:"user_name" binding:"required"`
	Expiry   *time.Time `json:"expiry"`
	Reason   string     `json:"reason"`
}

// BanUser issues or replaces a ban. A missing expiry bans permanently.
//
// @Summary      Ban user
// @Description  Ban a user until expiry, or permanently when expiry is omitted. Replaces an existing ban. Moderators only.
// @Tags         bans
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body http.banRequest true "Ban details"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /moderation/bans [post]
func (h *ModerationHandler) BanUser(c *gin.Context) {
	var req banRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	code := h.users.BanUser(c.Request.Context(), req.UserName, currentUser(c), req.Expiry, req.Reason)
	respondCode(c, code, http.StatusOK, gin.H{"message": "User banned"})
}

// LiftBan godoc
// @Summary      Lift ban
// @Description  Remove a user's ban ticket. Moderators only.
// @Tags         bans
// @Produce      json
// @Security     BearerAuth
// @Param        user_name path string true "User name"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /moderation/bans/{user_name} [delete]
func (h *ModerationHandler) LiftBan(c *gin.Context) {
	code := h.users.RemoveBanTicket(c.Request.Context(), c.Param("user_name"), currentUser(c))
	respondCode(c, code, http.StatusOK, gin.H{"message": "Ban lifted"})
}

// GetBan godoc
// @Summary      Get ban
// @Description  Get a user's ban ticket and whether it is still in force. Moderators only.
// @Tags         bans
// @Produce      json
// @Security     BearerAuth
// @Param        user_name path string true "User name"
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /moderation/bans/{user_name} [get]
func (h *ModerationHandler) GetBan(c *gin.Context) {
	ticket, code := h.users.GetBanTicket(c.Request.Context(), c.Param("user_name"), currentUser(c))
	if code.IsSuccess() {
		respondCode(c, code, http.StatusOK, gin.H{"ban": ticket, "active": permission.IsCurrentlyBanned(ticket, time.Now())})
		return
	}
	respondCode(c, code, http.StatusOK, nil)
}
