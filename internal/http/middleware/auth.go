package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sistersaas.app/assistant/common/logger"
	"sistersaas.app/assistant/internal/model"
	"sistersaas.app/assistant/internal/service"
)

const (
	// SessionCookieName carries the login session ID.
	SessionCookieName = "sister_session"

	userContextKey = "auth_user"
)

// RequireAuth validates the session cookie and attaches the authenticated
// user to the request. Unauthenticated requests are rejected with 401.
func RequireAuth(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		cookie, err := c.Cookie(SessionCookieName)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		sessionID, err := strconv.ParseInt(cookie, 10, 64)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session"})
			return
		}

		user, err := authService.ValidateSession(ctx, sessionID)
		if err != nil {
			if errors.Is(err, service.ErrSessionExpired) || errors.Is(err, service.ErrUserNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
				return
			}
			slog.ErrorContext(ctx, "failed to validate session", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to validate session"})
			return
		}

		ctx = logger.WithLogFields(ctx, logger.LogFields{UserID: logger.Ptr(user.ID)})
		c.Request = c.Request.WithContext(ctx)
		SetCurrentUser(c, user)

		c.Next()
	}
}

// SetCurrentUser attaches the authenticated user to the request.
func SetCurrentUser(c *gin.Context, user *model.User) {
	c.Set(userContextKey, user)
}

// CurrentUser returns the user attached by RequireAuth. The second value is
// false on routes outside the auth group.
func CurrentUser(c *gin.Context) (*model.User, bool) {
	v, ok := c.Get(userContextKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*model.User)
	return user, ok
}
