package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yichenzhao/buddyup/internal/service"
)

type EventHandler struct {
	events service.EventService
}

func NewEventHandler(events service.EventService) *EventHandler {
	return &EventHandler{events: events}
}

func (h *EventHandler) CreateEvent(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input service.CreateEventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondServiceError(c, service.ErrValidation)
		return
	}

	event, err := h.events.Create(c.Request.Context(), userID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

func (h *EventHandler) GetEvent(c *gin.Context) {
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	event, err := h.events.Get(c.Request.Context(), eventID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) ListEvents(c *gin.Context) {
	events, err := h.events.List(c.Request.Context(), c.Query("category"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) ManageableEvents(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	events, err := h.events.Manageable(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) MyCreatedEvents(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	events, err := h.events.CreatedBy(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) MyParticipatedEvents(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	events, err := h.events.ParticipatedBy(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) UpdateEvent(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var input service.UpdateEventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondServiceError(c, service.ErrValidation)
		return
	}

	event, err := h.events.Update(c.Request.Context(), eventID, userID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Event updated successfully.",
		"event":   event,
	})
}

func (h *EventHandler) DeleteEvent(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.events.Delete(c.Request.Context(), eventID, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully."})
}

func (h *EventHandler) RemoveParticipant(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	targetID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	event, err := h.events.RemoveParticipant(c.Request.Context(), eventID, userID, targetID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Participant removed successfully.",
		"event":   event,
	})
}
