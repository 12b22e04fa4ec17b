package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yichenzhao/buddyup/internal/helpers"
	"github.com/yichenzhao/buddyup/internal/service"
)

// currentUserID pulls the authenticated user's id set by the JWT middleware.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	value, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	if !ok {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return uuid.Nil, false
	}
	return userID, true
}

func parseIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid ID format.")
		return uuid.Nil, false
	}
	return id, true
}

// respondServiceError maps domain errors to HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	var status int
	switch {
	case errors.Is(err, service.ErrEventNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrParticipantNotFound),
		errors.Is(err, service.ErrPostNotFound),
		errors.Is(err, service.ErrNotificationNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrNotCreator),
		errors.Is(err, service.ErrCreatorJoin),
		errors.Is(err, service.ErrAdminOnly),
		errors.Is(err, service.ErrScoreTooLow):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrCapacityExceeded),
		errors.Is(err, service.ErrAlreadyJoined),
		errors.Is(err, service.ErrConcurrencyConflict):
		status = http.StatusConflict
	case errors.Is(err, service.ErrRejoinLimitExceeded),
		errors.Is(err, service.ErrNotParticipant),
		errors.Is(err, service.ErrCapacityBelowApproved),
		errors.Is(err, service.ErrInvalidState),
		errors.Is(err, service.ErrValidation):
		status = http.StatusBadRequest
	default:
		status = http.StatusInternalServerError
	}
	helpers.RespondWithError(c, status, err.Error())
}
