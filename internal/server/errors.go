package server

import (
	"errors"
	"net/http"

	form29domain "github.com/contaflow/tributo/internal/form29/domain"
	"github.com/contaflow/tributo/internal/period"
	"github.com/gin-gonic/gin"
)

type errorPayload struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

// AbortWithError maps domain errors to HTTP responses. The payload keeps
// the machine-readable error code; localization is a caller concern.
func AbortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	errType := "internal_error"

	switch {
	case errors.Is(err, form29domain.ErrDraftNotFound):
		status = http.StatusNotFound
		errType = "not_found"
	case errors.Is(err, form29domain.ErrInvalidCompany),
		errors.Is(err, form29domain.ErrInvalidPeriod),
		errors.Is(err, period.ErrInvalidPeriod):
		status = http.StatusBadRequest
		errType = "bad_request"
	case errors.Is(err, form29domain.ErrDraftNotValidated),
		errors.Is(err, form29domain.ErrDraftNotDraft),
		errors.Is(err, form29domain.ErrDraftConfirmed):
		status = http.StatusConflict
		errType = "conflict"
	}

	c.AbortWithStatusJSON(status, errorResponse{
		Error: errorPayload{
			Type:    errType,
			Message: err.Error(),
		},
	})
}
