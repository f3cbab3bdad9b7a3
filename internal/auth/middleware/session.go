package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/drivehub/drive-backend/internal/auth/biz"
	"github.com/drivehub/drive-backend/internal/pkg/logger"
)

// SessionCookie is the name of the session cookie
const SessionCookie = "drive_session"

const (
	userIDKey  = "user_id"
	subjectKey = "subject"
)

// RequireSession gates a route on an authenticated session. Missing or
// invalid sessions redirect to the login page instead of erroring.
func RequireSession(uc *biz.AuthUseCase, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil || token == "" {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}

		session, err := uc.Authenticate(c.Request.Context(), token)
		if err != nil {
			log.Warn("rejected session",
				zap.Error(err),
				zap.String("ip", c.ClientIP()))
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}

		c.Set(userIDKey, session.UserID)
		c.Set(subjectKey, session.Subject)

		ctx := logger.WithUserID(c.Request.Context(), session.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// UserIDFromContext returns the authenticated user's id
func UserIDFromContext(c *gin.Context) string {
	return c.GetString(userIDKey)
}

// SubjectFromContext returns the authenticated user's provider subject id
func SubjectFromContext(c *gin.Context) string {
	return c.GetString(subjectKey)
}
