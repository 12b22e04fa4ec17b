package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yichenzhao/buddyup/internal/helpers"
	"github.com/yichenzhao/buddyup/internal/service"
)

type CreatePostRequest struct {
	Content string `json:"content" binding:"required"`
}

type TreeHoleHandler struct {
	posts *service.TreeHoleService
}

func NewTreeHoleHandler(posts *service.TreeHoleService) *TreeHoleHandler {
	return &TreeHoleHandler{posts: posts}
}

func (h *TreeHoleHandler) CreatePost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "content is required.")
		return
	}

	post, err := h.posts.Create(c.Request.Context(), userID, req.Content)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

func (h *TreeHoleHandler) ListPosts(c *gin.Context) {
	limit, err := helpers.StringToInt(c.DefaultQuery("limit", "20"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid limit.")
		return
	}
	offset, err := helpers.StringToInt(c.DefaultQuery("offset", "0"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid offset.")
		return
	}

	posts, err := h.posts.List(c.Request.Context(), limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, posts)
}

func (h *TreeHoleHandler) ToggleLike(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	postID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	post, err := h.posts.ToggleLike(c.Request.Context(), postID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}

func (h *TreeHoleHandler) DeletePost(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	postID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.posts.Delete(c.Request.Context(), postID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted."})
}
