package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/yigit/consultdesk/internal/app/models/dto"
)

// BindJSON decodes the request body into req. On malformed JSON it writes a
// 400 and returns false. Field rules are checked later by the services.
func BindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		log.Debug().Err(err).Str("path", c.FullPath()).Msg("Malformed request body")
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: MsgInvalidRequest})
		return false
	}
	return true
}
