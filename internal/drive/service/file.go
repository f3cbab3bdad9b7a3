package service

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	authmw "github.com/drivehub/drive-backend/internal/auth/middleware"
	"github.com/drivehub/drive-backend/internal/drive/biz"
	"github.com/drivehub/drive-backend/internal/pkg/response"
)

type FileService struct {
	fileUC   *biz.FileUseCase
	folderUC *biz.FolderUseCase
	logger   *zap.Logger
}

func NewFileService(fileUC *biz.FileUseCase, folderUC *biz.FolderUseCase, logger *zap.Logger) *FileService {
	return &FileService{
		fileUC:   fileUC,
		folderUC: folderUC,
		logger:   logger,
	}
}

type FileResponse struct {
	ID        string  `json:"id"`
	Filename  string  `json:"filename"`
	Key       string  `json:"key"`
	Size      int64   `json:"size"`
	FolderID  *string `json:"folderId"`
	URL       string  `json:"url"`
	CreatedAt string  `json:"createdAt"`
}

func toFileResponse(f *biz.File) *FileResponse {
	return &FileResponse{
		ID:        f.ID,
		Filename:  f.Filename,
		Key:       f.StorageKey,
		Size:      f.Size,
		FolderID:  f.FolderID,
		URL:       f.URL,
		CreatedAt: f.CreatedAt.Format(time.RFC3339),
	}
}

func toFileResponses(files []*biz.File) []*FileResponse {
	out := make([]*FileResponse, len(files))
	for i, f := range files {
		out[i] = toFileResponse(f)
	}
	return out
}

// Upload handles POST /upload (multipart field "file", form field
// "folderId"); success redirects to the profile page
func (s *FileService) Upload(c *gin.Context) {
	owner := authmw.SubjectFromContext(c)

	header, err := c.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, "file field is required")
		return
	}

	var folderID *string
	if v := c.PostForm("folderId"); v != "" {
		folderID = &v
	}

	src, err := header.Open()
	if err != nil {
		s.logger.Error("failed to open uploaded file", zap.Error(err))
		response.InternalError(c, "Error uploading file")
		return
	}
	defer src.Close()

	contentType := header.Header.Get("Content-Type")

	_, err = s.fileUC.Upload(c.Request.Context(), owner, folderID, header.Filename, header.Size, contentType, src)
	if err != nil {
		if errors.Is(err, biz.ErrFolderNotFound) {
			response.Fail(c, http.StatusBadRequest, "folder not found")
			return
		}
		s.logger.Error("failed to upload file",
			zap.String("filename", header.Filename),
			zap.Error(err))
		response.InternalError(c, "Error uploading file")
		return
	}

	c.Redirect(http.StatusFound, "/profile")
}

// List handles GET /files and returns the caller's files and folders
func (s *FileService) List(c *gin.Context) {
	owner := authmw.SubjectFromContext(c)
	ctx := c.Request.Context()

	files, err := s.fileUC.List(ctx, owner)
	if err != nil {
		s.logger.Error("failed to list files", zap.Error(err))
		response.InternalError(c, "Error fetching files and folders")
		return
	}

	folders, err := s.folderUC.List(ctx, owner)
	if err != nil {
		s.logger.Error("failed to list folders", zap.Error(err))
		response.InternalError(c, "Error fetching files and folders")
		return
	}

	response.OK(c, gin.H{
		"files":   toFileResponses(files),
		"folders": toFolderResponses(folders),
	})
}

// Delete handles DELETE /files/delete/:fileKey
func (s *FileService) Delete(c *gin.Context) {
	owner := authmw.SubjectFromContext(c)
	key := c.Param("fileKey")

	if err := s.fileUC.Delete(c.Request.Context(), owner, key); err != nil {
		if errors.Is(err, biz.ErrFileNotFound) {
			response.NotFound(c, "File not found")
			return
		}
		s.logger.Error("failed to delete file",
			zap.String("key", key),
			zap.Error(err))
		response.InternalError(c, "Error deleting file")
		return
	}

	response.OK(c, nil)
}

// Download handles GET /files/download/:fileKey and streams the blob as
// an attachment named by its key
func (s *FileService) Download(c *gin.Context) {
	owner := authmw.SubjectFromContext(c)
	key := c.Param("fileKey")

	stream, file, err := s.fileUC.Download(c.Request.Context(), owner, key)
	if err != nil {
		if errors.Is(err, biz.ErrFileNotFound) {
			response.NotFound(c, "File not found")
			return
		}
		s.logger.Error("failed to download file",
			zap.String("key", key),
			zap.Error(err))
		response.InternalError(c, "Error downloading file")
		return
	}
	defer stream.Close()

	c.DataFromReader(http.StatusOK, file.Size, "application/octet-stream", stream, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", file.StorageKey),
	})
}
