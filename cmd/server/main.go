package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/drivehub/drive-backend/internal/archive"
	"github.com/drivehub/drive-backend/internal/auth"
	authbiz "github.com/drivehub/drive-backend/internal/auth/biz"
	authdata "github.com/drivehub/drive-backend/internal/auth/data"
	authservice "github.com/drivehub/drive-backend/internal/auth/service"
	"github.com/drivehub/drive-backend/internal/conf"
	"github.com/drivehub/drive-backend/internal/data"
	drivebiz "github.com/drivehub/drive-backend/internal/drive/biz"
	drivedata "github.com/drivehub/drive-backend/internal/drive/data"
	driveservice "github.com/drivehub/drive-backend/internal/drive/service"
	"github.com/drivehub/drive-backend/internal/pkg/logger"
	pkgoauth2 "github.com/drivehub/drive-backend/internal/pkg/oauth2"
	"github.com/drivehub/drive-backend/internal/pkg/sse"
	"github.com/drivehub/drive-backend/internal/server"
	"github.com/drivehub/drive-backend/internal/storage"
	userbiz "github.com/drivehub/drive-backend/internal/user/biz"
	userdata "github.com/drivehub/drive-backend/internal/user/data"
	userservice "github.com/drivehub/drive-backend/internal/user/service"
)

var configFile = flag.String("config", "config.yaml", "config file path")

func main() {
	flag.Parse()

	config, err := conf.LoadConfig(*configFile)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logConfig := &logger.Config{
		Level:            config.Log.Level,
		Format:           config.Log.Format,
		Output:           config.Log.Output,
		EnableCaller:     config.Log.EnableCaller,
		EnableStacktrace: config.Log.EnableStacktrace,
		File: logger.FileConfig{
			Filename:   config.Log.File.Filename,
			MaxSize:    config.Log.File.MaxSize,
			MaxAge:     config.Log.File.MaxAge,
			MaxBackups: config.Log.File.MaxBackups,
			Compress:   config.Log.File.Compress,
		},
	}

	log, err := logger.New(logConfig)
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	if err := logger.InitGlobal(logConfig); err != nil {
		log.Fatal("failed to initialize global logger", zap.Error(err))
	}

	log.Info("config loaded successfully")

	d, cleanup, err := data.NewData(config, log.Logger)
	if err != nil {
		log.Fatal("failed to initialize data layer", zap.Error(err))
	}
	defer cleanup()

	// object storage gateway
	store := storage.NewStore(d.MinIOClient, config.MinIO.Bucket, log)
	if err := store.EnsureBucket(context.Background(), config.MinIO.Region); err != nil {
		log.Fatal("failed to ensure bucket", zap.Error(err))
	}

	// notification channel
	hub := sse.NewHub()

	// archive builder and retention sweep
	builder := archive.NewBuilder(store, config.Archive.StagingDir, log)
	sweeper := archive.NewSweeper(config.Archive.StagingDir, config.Archive.Retention, config.Archive.SweepInterval, log)

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go sweeper.Run(sweepCtx)

	// identity provider
	google, err := pkgoauth2.NewGoogleProvider(&pkgoauth2.Config{
		ClientID:     config.Auth.GoogleClientID,
		ClientSecret: config.Auth.GoogleClientSecret,
		RedirectURL:  config.Auth.CallbackURL,
	})
	if err != nil {
		log.Fatal("failed to initialize google oauth provider", zap.Error(err))
	}

	// repositories
	userRepo := userdata.NewUserRepo(d.DB)
	folderRepo := drivedata.NewFolderRepo(d.DB)
	fileRepo := drivedata.NewFileRepo(d.DB)
	sessionStore := authdata.NewRedisSessionStore(d.RedisClient, config.Auth.SessionTTL)
	stateStore := authdata.NewRedisStateStore(d.RedisClient)

	// use cases
	userUseCase := userbiz.NewUserUseCase(userRepo)
	tokens := auth.NewTokenManager(config.Auth.SessionSecret, config.Auth.SessionTTL)
	authUseCase := authbiz.NewAuthUseCase(google, userUseCase, sessionStore, stateStore, tokens)
	folderUseCase := drivebiz.NewFolderUseCase(folderRepo, fileRepo, builder, hub)
	fileUseCase := drivebiz.NewFileUseCase(fileRepo, folderRepo, store, hub)

	// services
	authService := authservice.NewAuthService(authUseCase, log)
	userService := userservice.NewUserService(userUseCase, log.Logger)
	folderService := driveservice.NewFolderService(folderUseCase, log.Logger)
	fileService := driveservice.NewFileService(fileUseCase, folderUseCase, log.Logger)

	httpServer := server.NewHTTPServer(config, log, authUseCase, authService, userService, folderService, fileService, hub)

	go func() {
		if err := httpServer.Start(); err != nil {
			log.Fatal("failed to start HTTP server", zap.Error(err))
		}
	}()

	log.Info("server started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stopSweep()

	if err := httpServer.Stop(ctx); err != nil {
		log.Error("HTTP server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}
