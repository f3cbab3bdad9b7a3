package service

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/drivehub/drive-backend/internal/auth/biz"
	authmw "github.com/drivehub/drive-backend/internal/auth/middleware"
	"github.com/drivehub/drive-backend/internal/pkg/logger"
)

type AuthService struct {
	uc     *biz.AuthUseCase
	logger *logger.Logger
}

func NewAuthService(uc *biz.AuthUseCase, log *logger.Logger) *AuthService {
	return &AuthService{
		uc:     uc,
		logger: log,
	}
}

// Index handles GET / and offers the login link
func (s *AuthService) Index(c *gin.Context) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.String(http.StatusOK, `<a href="/auth/google">Login with Google</a>`)
}

// Login handles GET /auth/google and redirects to the consent page
func (s *AuthService) Login(c *gin.Context) {
	url, err := s.uc.LoginURL(c.Request.Context())
	if err != nil {
		s.logger.Error("failed to build login url", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login unavailable"})
		return
	}
	c.Redirect(http.StatusFound, url)
}

// Callback handles GET /auth/google/callback
func (s *AuthService) Callback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		c.Redirect(http.StatusFound, "/")
		return
	}

	token, err := s.uc.HandleCallback(c.Request.Context(), state, code)
	if err != nil {
		if errors.Is(err, biz.ErrInvalidState) {
			s.logger.Warn("oauth callback with unknown state", zap.String("ip", c.ClientIP()))
		} else {
			s.logger.Error("oauth callback failed", zap.Error(err))
		}
		c.Redirect(http.StatusFound, "/")
		return
	}

	c.SetCookie(authmw.SessionCookie, token, 14*24*60*60, "/", "", false, true)
	c.Redirect(http.StatusFound, "/profile")
}

// Profile handles GET /profile for authenticated sessions
func (s *AuthService) Profile(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user_id": authmw.UserIDFromContext(c),
	})
}

// Logout handles GET /logout
func (s *AuthService) Logout(c *gin.Context) {
	if token, err := c.Cookie(authmw.SessionCookie); err == nil && token != "" {
		if err := s.uc.Logout(c.Request.Context(), token); err != nil {
			s.logger.Error("failed to revoke session", zap.Error(err))
		}
	}

	c.SetCookie(authmw.SessionCookie, "", -1, "/", "", false, true)
	c.Redirect(http.StatusFound, "/")
}
