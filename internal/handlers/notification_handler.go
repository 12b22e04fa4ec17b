package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yichenzhao/buddyup/internal/helpers"
	"github.com/yichenzhao/buddyup/internal/service"
)

type MarkReadRequest struct {
	IDs []uuid.UUID `json:"ids" binding:"required"`
}

type NotificationHandler struct {
	notifications *service.NotificationService
}

func NewNotificationHandler(notifications *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

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
	unreadOnly := c.Query("unread") == "true"

	notifications, err := h.notifications.List(c.Request.Context(), userID, limit, offset, unreadOnly)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, notifications)
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	count, err := h.notifications.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req MarkReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "ids is required.")
		return
	}

	updated, err := h.notifications.MarkRead(c.Request.Context(), userID, req.IDs)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	updated, err := h.notifications.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

func (h *NotificationHandler) DeleteNotification(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.notifications.Delete(c.Request.Context(), userID, id); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notification deleted."})
}
