package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	authbiz "github.com/drivehub/drive-backend/internal/auth/biz"
	authmw "github.com/drivehub/drive-backend/internal/auth/middleware"
	authservice "github.com/drivehub/drive-backend/internal/auth/service"
	"github.com/drivehub/drive-backend/internal/conf"
	driveservice "github.com/drivehub/drive-backend/internal/drive/service"
	"github.com/drivehub/drive-backend/internal/pkg/logger"
	"github.com/drivehub/drive-backend/internal/pkg/sse"
	userservice "github.com/drivehub/drive-backend/internal/user/service"
	"go.uber.org/zap"
)

type HTTPServer struct {
	server *http.Server
	logger *logger.Logger
}

func NewHTTPServer(
	config *conf.Config,
	log *logger.Logger,
	authUC *authbiz.AuthUseCase,
	authService *authservice.AuthService,
	userService *userservice.UserService,
	folderService *driveservice.FolderService,
	fileService *driveservice.FileService,
	hub *sse.Hub,
) *HTTPServer {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.GinLogger(log))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// login flow
	router.GET("/", authService.Index)
	router.GET("/auth/google", authService.Login)
	router.GET("/auth/google/callback", authService.Callback)
	router.GET("/logout", authService.Logout)

	// everything below requires an authenticated session
	authed := router.Group("/", authmw.RequireSession(authUC, log))

	authed.GET("/profile", authService.Profile)
	authed.GET("/api/user", userService.CurrentUser)

	authed.GET("/folders", folderService.List)
	authed.POST("/folders", folderService.Create)
	authed.GET("/folders/:folderId/contents", folderService.Contents)
	authed.DELETE("/folders/delete/:folderId", folderService.Delete)
	authed.GET("/folders/download/:folderId", folderService.Download)

	authed.GET("/files", fileService.List)
	authed.POST("/upload", fileService.Upload)
	authed.DELETE("/files/delete/:fileKey", fileService.Delete)
	authed.GET("/files/download/:fileKey", fileService.Download)

	authed.GET("/events", func(c *gin.Context) {
		sse.NewStream(c, hub).Serve()
	})

	addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)

	return &HTTPServer{
		server: &http.Server{
			Addr:    addr,
			Handler: router,
		},
		logger: log,
	}
}

func (s *HTTPServer) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

func (s *HTTPServer) Stop(ctx context.Context) error {
	s.logger.Info("stopping HTTP server")
	return s.server.Shutdown(ctx)
}
