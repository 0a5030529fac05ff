package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/consultdesk/internal/app/models"
	"github.com/yigit/consultdesk/internal/app/models/dto"
	"github.com/yigit/consultdesk/internal/pkg/auth"
)

// AccessTokenCookie carries the access token for browser clients
const AccessTokenCookie = "portal-access-token"

const callerKey = "caller"

// CallerResolver turns an access token into a caller, or nil when the token
// is not accepted.
type CallerResolver interface {
	ResolveCaller(ctx context.Context, accessToken string) *models.Caller
}

// AuthMiddleware attaches the authenticated caller to the request
type AuthMiddleware struct {
	resolver CallerResolver
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(resolver CallerResolver) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver}
}

// ResolveCaller reads a bearer token or the access token cookie. Requests
// without a valid token continue with no caller.
func (m *AuthMiddleware) ResolveCaller() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := AccessToken(c); token != "" {
			if caller := m.resolver.ResolveCaller(c.Request.Context(), token); caller != nil {
				c.Set(callerKey, caller)
				c.Set("userID", caller.UserID)
			}
		}
		c.Next()
	}
}

// RequireCaller aborts with 401 when no caller was resolved
func (m *AuthMiddleware) RequireCaller() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CallerFrom(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
			return
		}
		c.Next()
	}
}

// AccessToken returns the bearer token, falling back to the cookie
func AccessToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if token, err := auth.ExtractBearerToken(header); err == nil {
			return token
		}
	}
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil {
		return cookie
	}
	return ""
}

// CallerFrom returns the caller set by ResolveCaller, or nil
func CallerFrom(c *gin.Context) *models.Caller {
	v, ok := c.Get(callerKey)
	if !ok {
		return nil
	}
	caller, _ := v.(*models.Caller)
	return caller
}

// SetSessionCookie stores the access token for browser clients
func SetSessionCookie(c *gin.Context, session *models.Session, secure bool) {
	if session == nil || session.AccessToken == "" {
		return
	}
	maxAge := int(session.ExpiresIn)
	if maxAge <= 0 {
		maxAge = 3600
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessTokenCookie, session.AccessToken, maxAge, "/", "", secure, true)
}

// ClearSessionCookie removes the access token cookie
func ClearSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessTokenCookie, "", -1, "/", "", secure, true)
}
