package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/retailops/inventory-service/internal/apperrors"
)

// Status maps the domain error taxonomy onto HTTP status codes.
func Status(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrProductNotFound),
		errors.Is(err, apperrors.ErrLocationNotFound),
		errors.Is(err, apperrors.ErrTransferNotFound),
		errors.Is(err, apperrors.ErrTransferItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrInsufficientStock),
		errors.Is(err, apperrors.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrInvalidQuantity),
		errors.Is(err, apperrors.ErrInvalidReceivedQuantity),
		errors.Is(err, apperrors.ErrInvalidAdjustmentType),
		errors.Is(err, apperrors.ErrInvalidCondition),
		errors.Is(err, apperrors.ErrDuplicateProduct),
		errors.Is(err, apperrors.ErrReasonRequired):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrLockBusy):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// Abort writes the error as the standard JSON error body.
func Abort(c *gin.Context, err error) {
	c.AbortWithStatusJSON(Status(err), gin.H{"error": err.Error()})
}
