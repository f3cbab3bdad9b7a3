package service

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	authmw "github.com/drivehub/drive-backend/internal/auth/middleware"
	"github.com/drivehub/drive-backend/internal/user/biz"
)

type UserService struct {
	uc     *biz.UserUseCase
	logger *zap.Logger
}

func NewUserService(uc *biz.UserUseCase, logger *zap.Logger) *UserService {
	return &UserService{
		uc:     uc,
		logger: logger,
	}
}

// CurrentUser handles GET /api/user
func (s *UserService) CurrentUser(c *gin.Context) {
	subject := authmw.SubjectFromContext(c)

	user, err := s.uc.GetBySubject(c.Request.Context(), subject)
	if err != nil {
		s.logger.Error("failed to load current user", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"username": user.Name})
}
