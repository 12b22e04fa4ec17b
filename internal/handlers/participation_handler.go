package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yichenzhao/buddyup/internal/helpers"
	"github.com/yichenzhao/buddyup/internal/service"
)

type ReviewRequest struct {
	UserID  uuid.UUID `json:"userId" binding:"required"`
	Approve *bool     `json:"approve" binding:"required"`
}

type AttendanceRequest struct {
	UserID   uuid.UUID `json:"userId" binding:"required"`
	Attended *bool     `json:"attended" binding:"required"`
}

type ParticipationHandler struct {
	participation service.ParticipationService
}

func NewParticipationHandler(participation service.ParticipationService) *ParticipationHandler {
	return &ParticipationHandler{participation: participation}
}

func (h *ParticipationHandler) JoinEvent(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	event, err := h.participation.Join(c.Request.Context(), eventID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Join request submitted, waiting for the organizer's review.",
		"event":   event,
	})
}

func (h *ParticipationHandler) LeaveEvent(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	event, err := h.participation.Leave(c.Request.Context(), eventID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Join request cancelled.",
		"event":   event,
	})
}

func (h *ParticipationHandler) ReviewParticipant(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "userId and approve are required.")
		return
	}

	event, err := h.participation.Review(c.Request.Context(), eventID, userID, req.UserID, *req.Approve)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Review completed.",
		"event":   event,
	})
}

func (h *ParticipationHandler) MarkAttendance(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "userId and attended are required.")
		return
	}

	event, err := h.participation.MarkAttendance(c.Request.Context(), eventID, userID, req.UserID, *req.Attended)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	message := "Participant checked in."
	if !*req.Attended {
		message = "Participant marked as a no-show."
	}
	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"event":   event,
	})
}

func (h *ParticipationHandler) RequestCancellation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	event, err := h.participation.RequestCancellation(c.Request.Context(), eventID, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cancellation requested, waiting for the organizer's review.",
		"event":   event,
	})
}

func (h *ParticipationHandler) ReviewCancellation(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "userId and approve are required.")
		return
	}

	event, err := h.participation.ReviewCancellation(c.Request.Context(), eventID, userID, req.UserID, *req.Approve)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	message := "Cancellation request approved."
	if !*req.Approve {
		message = "Cancellation request denied."
	}
	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"event":   event,
	})
}
