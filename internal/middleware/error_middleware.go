package middleware

import (
	"errors"
	"net/http"

	"github.com/alumnode/backend/internal/app/models/dto"
	"github.com/alumnode/backend/internal/pkg/apperrors"
	"github.com/alumnode/backend/internal/pkg/logger"
	"github.com/gin-gonic/gin"
)

// HandleAPIError maps an error to a status code and writes the envelope.
// Only CustomError and ValidationError messages reach the client; anything
// else is logged and reported as a 500.
func HandleAPIError(c *gin.Context, err error) {
	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(verr.Error(), dto.ValidationErrorData{Fields: verr.Fields}))
		return
	}

	status := http.StatusInternalServerError
	switch {
	case apperrors.Is(err, apperrors.ErrValidationFailed, apperrors.ErrResourceAlreadyExists,
		apperrors.ErrInvalidCredentials, apperrors.ErrInvalidOperation,
		apperrors.ErrAlreadyConnected, apperrors.ErrRequestAlreadyExists):
		status = http.StatusBadRequest
	case apperrors.Is(err, apperrors.ErrUnauthenticated, apperrors.ErrTokenInvalid):
		status = http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrResourceNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperrors.ErrRateLimited):
		status = http.StatusTooManyRequests
	}

	if status == http.StatusInternalServerError {
		logger.Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("Unhandled error")
		c.JSON(status, dto.NewErrorResponse("Internal Server Error!", nil))
		return
	}

	c.JSON(status, dto.NewErrorResponse(clientMessage(err), nil))
}

func clientMessage(err error) string {
	var cerr *apperrors.CustomError
	if errors.As(err, &cerr) && cerr.Message != "" {
		return cerr.Message
	}
	return err.Error()
}
