package http

import (
	"net/http"

	"simple-forum/pkg/logger"
	"simple-forum/services/moderation/internal/usecase"

	"github.com/gin-gonic/gin"
)

type ContentHandler struct {
	content     usecase.ContentUseCase
	permissions usecase.PermissionUseCase
	logger      *logger.Logger
}

func NewContentHandler(content usecase.ContentUseCase, permissions usecase.PermissionUseCase, logger *logger.Logger) *ContentHandler {
	return &ContentHandler{
		content:     content,
		permissions: permissions,
		logger:      logger,
	}
}

// ListBlogs godoc
// @Summary      List blogs
// @Description  List blogs visible to the caller, newest first. Hidden blogs are included only for moderators and their authors.
// @Tags         blogs
// @Produce      json
// @Param        limit query integer false "Page size (default 20)"
// @Param        offset query integer false "Items to skip"
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]string
// @Router       /blogs [get]
func (h *ContentHandler) ListBlogs(c *gin.Context) {
	limit, offset := pagination(c)
	blogs, code := h.content.ListBlogs(c.Request.Context(), currentUser(c), limit, offset)
	respondCode(c, code, http.StatusOK, gin.H{"blogs": blogs, "count": len(blogs)})
}

// GetBlog counts a view for every successful read.
//
// @Summary      Get blog by ID
// @Description  Get a blog with its permission flags and count a view
// @Tags         blogs
// @Produce      json
// @Param        id path string true "Blog ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /blogs/{id} [get]
func (h *ContentHandler) GetBlog(c *gin.Context) {
	ctx := c.Request.Context()
	blogID := c.Param("id")

	blog, code := h.content.GetBlog(ctx, blogID, currentUser(c))
	if code.IsSuccess() {
		if viewCode := h.content.IncrementViewCount(ctx, blogID); !viewCode.IsSuccess() {
			h.logger.Warn("Failed to count view of blog %s: %s", blogID, viewCode)
		}
	}
	respondCode(c, code, http.StatusOK, gin.H{"blog": blog})
}

// ListComments godoc
// @Summary      List comments of a blog
// @Description  List the comments under a blog visible to the caller, oldest first
// @Tags         comments
// @Produce      json
// @Param        id path string true "Blog ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /blogs/{id}/comments [get]
func (h *ContentHandler) ListComments(c *gin.Context) {
	comments, code := h.content.ListComments(c.Request.Context(), c.Param("id"), currentUser(c))
	respondCode(c, code, http.StatusOK, gin.H{"comments": comments, "count": len(comments)})
}

// CreateBlog godoc
// @Summary      Create a new blog
// @Description  Create a blog authored by the caller. Banned users are refused.
// @Tags         blogs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body usecase.BlogInput true "Blog content"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      429  {object}  map[string]string
// @Router       /blogs [post]
func (h *ContentHandler) CreateBlog(c *gin.Context) {
	var req usecase.BlogInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, code := h.content.CreateBlog(c.Request.Context(), req, currentUser(c))
	respondCode(c, code, http.StatusCreated, gin.H{"id": id})
}

// UpdateBlog godoc
// @Summary      Update blog
// @Description  Edit a blog. Only the author may edit, moderators may edit hidden or reported blogs.
// @Tags         blogs
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Blog ID"
// @Param        request body usecase.BlogInput true "Blog content"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /blogs/{id} [put]
func (h *ContentHandler) UpdateBlog(c *gin.Context) {
	var req usecase.BlogInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	code := h.content.UpdateBlog(c.Request.Context(), c.Param("id"), req, currentUser(c))
	respondCode(c, code, http.StatusOK, gin.H{"message": "Blog updated successfully"})
}

// DeleteBlog godoc
// @Summary      Delete blog
// @Description  Mark the caller's own blog for deletion. The purge worker removes it later.
// @Tags         blogs
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Blog ID"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /blogs/{id} [delete]
func (h *ContentHandler) DeleteBlog(c *gin.Context) {
	code := h.content.DeleteBlog(c.Request.Context(), c.Param("id"), currentUser(c))
	respondCode(c, code, http.StatusOK, gin.H{"message": "Blog deleted successfully"})
}

// CreateComment godoc
// @Summary      Create a comment
// @Description  Comment on a blog as the caller
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Blog ID"
// @Param        request body usecase.CommentInput true "Comment content"
// @Success      201  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /blogs/{id}/comments [post]
func (h *ContentHandler) CreateComment(c *gin.Context) {
	var req usecase.CommentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, code := h.content.CreateComment(c.Request.Context(), c.Param("id"), req, currentUser(c))
	respondCode(c, code, http.StatusCreated, gin.H{"id": id})
}

// UpdateComment godoc
// @Summary      Update comment
// @Description  Edit a comment. Only the author may edit, moderators may edit hidden or reported comments.
// @Tags         comments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Comment ID"
// @Param        request body usecase.CommentInput true "Comment content"
// @Success      200  {object}  map[string]string
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /comments/{id} [put]
func (h *ContentHandler) UpdateComment(c *gin.Context) {
	var req usecase.CommentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	code := h.content.UpdateComment(c.Request.Context(), c.Param("id"), req, currentUser(c))
	respondCode(c, code, http.StatusOK, gin.H{"message": "Comment updated successfully"})
}

// DeleteComment godoc
// @Summary      Delete comment
// @Description  Mark the caller's own comment for deletion
// @Tags         comments
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Comment ID"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /comments/{id} [delete]
func (h *ContentHandler) DeleteComment(c *gin.Context) {
	code := h.content.DeleteComment(c.Request.Context(), c.Param("id"), currentUser(c))
	respondCode(c, code, http.StatusOK, gin.H{"message": "Comment deleted successfully"})
}

type permissionCheckRequest struct {
	Posts []usecase.PostPermissionInput `json:"posts" binding:"required,max=200,dive"`
}

// CanCreate tells a client whether to offer the compose form.
//
// @Summary      Check create permission
// @Description  Report whether the caller may create blogs and comments
// @Tags         permissions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Router       /permissions/create [get]
func (h *ContentHandler) CanCreate(c *gin.Context) {
	allowed := h.permissions.IsAllowedToCreatePost(c.Request.Context(), currentUser(c))
	c.JSON(http.StatusOK, gin.H{"allowed": allowed})
}

// CheckPermissions annotates a client-side list of posts in one call.
//
// @Summary      Check edit permissions
// @Description  Annotate a list of posts with whether the caller may edit each one
// @Tags         permissions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body http.permissionCheckRequest true "Posts to check"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /permissions/posts [post]
func (h *ContentHandler) CheckPermissions(c *gin.Context) {
	var req permissionCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := h.permissions.AnnotatePosts(c.Request.Context(), currentUser(c), req.Posts)
	c.JSON(http.StatusOK, gin.H{"can_edit": result})
}
