package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yichenzhao/buddyup/internal/helpers"
	"github.com/yichenzhao/buddyup/internal/repository"
)

type UpdateProfileRequest struct {
	Username   *string   `json:"username"`
	MBTI       *string   `json:"mbti"`
	Interests  *[]string `json:"interests"`
	Tags       *[]string `json:"tags"`
	WhyJoin    *string   `json:"whyJoin"`
	IdealBuddy *string   `json:"idealBuddy"`
}

type ProfileHandler struct {
	users repository.UserRepository
}

func NewProfileHandler(users repository.UserRepository) *ProfileHandler {
	return &ProfileHandler{users: users}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	user, err := h.users.FindByID(c.Request.Context(), userID)
	if err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "User not found.")
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	user, err := h.users.FindByID(c.Request.Context(), userID)
	if err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "User not found.")
		return
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.MBTI != nil {
		user.MBTI = *req.MBTI
	}
	if req.Interests != nil {
		user.Interests = *req.Interests
	}
	if req.Tags != nil {
		user.Tags = *req.Tags
	}
	if req.WhyJoin != nil {
		user.WhyJoin = *req.WhyJoin
	}
	if req.IdealBuddy != nil {
		user.IdealBuddy = *req.IdealBuddy
	}

	if err := h.users.Save(c.Request.Context(), user); err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update profile.")
		return
	}

	c.JSON(http.StatusOK, user)
}
