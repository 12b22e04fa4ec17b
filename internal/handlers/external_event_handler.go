package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yichenzhao/buddyup/internal/helpers"
	"github.com/yichenzhao/buddyup/internal/service"
)

type ExternalEventHandler struct {
	external *service.ExternalEventService
}

func NewExternalEventHandler(external *service.ExternalEventService) *ExternalEventHandler {
	return &ExternalEventHandler{external: external}
}

func (h *ExternalEventHandler) ListUpcoming(c *gin.Context) {
	events, err := h.external.ListUpcoming(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, events)
}

func (h *ExternalEventHandler) CreateExternalEvent(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var input service.CreateExternalEventInput
	if err := c.ShouldBindJSON(&input); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	event, err := h.external.Create(c.Request.Context(), userID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, event)
}
