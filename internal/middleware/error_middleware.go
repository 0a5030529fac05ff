package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/yigit/consultdesk/internal/app/models/dto"
	"github.com/yigit/consultdesk/internal/pkg/apperrors"
)

// Messages used by the plain HTTP endpoints
const (
	MsgInvalidRequest      = "Invalid request format"
	MsgServerConfig        = "Server configuration error"
	MsgUnauthorizedPlain   = "Unauthorized"
	MsgInternalServerPlain = "Internal server error"
)

// HandleAPIError writes the status and body for err
func HandleAPIError(c *gin.Context, err error) {
	status, message := classifyError(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
	}
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Error: message})
}

func classifyError(err error) (int, string) {
	switch {
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, MsgUnauthorizedPlain
	case errors.Is(err, apperrors.ErrServiceUnavailable):
		return http.StatusInternalServerError, MsgServerConfig
	case errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrStorage),
		errors.Is(err, apperrors.ErrConflict):
		return http.StatusBadRequest, apperrors.Message(err, err.Error())
	default:
		return http.StatusInternalServerError, MsgInternalServerPlain
	}
}

// RespondAction writes an action result. The unauthorized class is a 401,
// every other handled outcome a 200.
func RespondAction[T any](c *gin.Context, result dto.ActionResult[T]) {
	status := http.StatusOK
	if result.Unauthorized {
		status = http.StatusUnauthorized
	}
	c.JSON(status, result)
}
