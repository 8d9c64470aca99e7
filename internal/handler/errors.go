package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mohand-ashraf/velora-hotel/internal/domain"
	"github.com/mohand-ashraf/velora-hotel/pkg/response"
)

// handleError converts domain errors to HTTP responses
func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRange):
		response.BadRequest(c, "INVALID_RANGE", domain.ErrInvalidRange.Error())
	case errors.Is(err, domain.ErrUnauthenticated):
		response.Unauthorized(c, "UNAUTHENTICATED", err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		response.Unauthorized(c, "INVALID_CREDENTIALS", err.Error())
	case errors.Is(err, domain.ErrDateConflict):
		response.Conflict(c, "DATE_CONFLICT", err.Error())
	case errors.Is(err, domain.ErrCommitInProgress):
		response.Conflict(c, "COMMIT_IN_PROGRESS", err.Error())
	case errors.Is(err, domain.ErrUserAlreadyExists):
		response.Conflict(c, "USER_ALREADY_EXISTS", err.Error())
	case errors.Is(err, domain.ErrBookingAlreadyExists):
		response.Conflict(c, "BOOKING_ALREADY_EXISTS", err.Error())
	case domain.IsValidationError(err):
		response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	case domain.IsNotFoundError(err):
		response.NotFound(c, err.Error())
	case domain.IsStoreError(err):
		response.BadGateway(c, "STORE_ERROR", "Booking store is unavailable, please retry")
	default:
		response.InternalError(c, err)
	}
}

// bindError reports a request body or query that failed to bind
func bindError(c *gin.Context, err error) {
	response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request", err.Error())
}
