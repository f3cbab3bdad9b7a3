package service

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	authmw "github.com/drivehub/drive-backend/internal/auth/middleware"
	"github.com/drivehub/drive-backend/internal/drive/biz"
	"github.com/drivehub/drive-backend/internal/pkg/response"
)

type FolderService struct {
	uc     *biz.FolderUseCase
	logger *zap.Logger
}

func NewFolderService(uc *biz.FolderUseCase, logger *zap.Logger) *FolderService {
	return &FolderService{
		uc:     uc,
		logger: logger,
	}
}

type CreateFolderRequest struct {
	Name         string  `json:"name" binding:"required"`
	ParentFolder *string `json:"parentFolder"`
}

type FolderResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	ParentFolder *string `json:"parentFolder"`
	CreatedAt    string  `json:"createdAt"`
}

func toFolderResponse(f *biz.Folder) *FolderResponse {
	return &FolderResponse{
		ID:           f.ID,
		Name:         f.Name,
		ParentFolder: f.ParentID,
		CreatedAt:    f.CreatedAt.Format(time.RFC3339),
	}
}

func toFolderResponses(folders []*biz.Folder) []*FolderResponse {
	out := make([]*FolderResponse, len(folders))
	for i, f := range folders {
		out[i] = toFolderResponse(f)
	}
	return out
}

// List handles GET /folders
func (s *FolderService) List(c *gin.Context) {
	owner := authmw.SubjectFromContext(c)

	folders, err := s.uc.List(c.Request.Context(), owner)
	if err != nil {
		s.logger.Error("failed to list folders", zap.Error(err))
		response.InternalError(c, "failed to fetch folders")
		return
	}

	response.OK(c, gin.H{"folders": toFolderResponses(folders)})
}

// Create handles POST /folders
func (s *FolderService) Create(c *gin.Context) {
	owner := authmw.SubjectFromContext(c)

	var req CreateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, err.Error())
		return
	}

	folder, err := s.uc.Create(c.Request.Context(), owner, req.Name, req.ParentFolder)
	if err != nil {
		switch {
		case errors.Is(err, biz.ErrNameRequired), errors.Is(err, biz.ErrParentNotFound):
			response.Fail(c, http.StatusBadRequest, err.Error())
		default:
			s.logger.Error("failed to create folder", zap.Error(err))
			response.InternalError(c, "failed to create folder")
		}
		return
	}

	response.OK(c, gin.H{"folder": toFolderResponse(folder)})
}

// Contents handles GET /folders/:folderId/contents
func (s *FolderService) Contents(c *gin.Context) {
	owner := authmw.SubjectFromContext(c)
	folderID := c.Param("folderId")

	subfolders, files, err := s.uc.Contents(c.Request.Context(), owner, folderID)
	if err != nil {
		if errors.Is(err, biz.ErrFolderNotFound) {
			response.NotFound(c, "Folder not found")
			return
		}
		s.logger.Error("failed to fetch folder contents",
			zap.String("folder_id", folderID),
			zap.Error(err))
		response.InternalError(c, "failed to fetch folder contents")
		return
	}

	response.OK(c, gin.H{
		"subfolders": toFolderResponses(subfolders),
		"files":      toFileResponses(files),
	})
}

// Delete handles DELETE /folders/delete/:folderId
func (s *FolderService) Delete(c *gin.Context) {
	owner := authmw.SubjectFromContext(c)
	folderID := c.Param("folderId")

	if err := s.uc.Delete(c.Request.Context(), owner, folderID); err != nil {
		if errors.Is(err, biz.ErrFolderNotFound) {
			response.NotFound(c, "Folder not found")
			return
		}
		s.logger.Error("failed to delete folder",
			zap.String("folder_id", folderID),
			zap.Error(err))
		response.FailWithMessage(c, http.StatusInternalServerError, "Error deleting folder.")
		return
	}

	response.OK(c, gin.H{"message": "Folder deleted successfully."})
}

// Download handles GET /folders/download/:folderId and streams a zip of
// the folder's files
func (s *FolderService) Download(c *gin.Context) {
	owner := authmw.SubjectFromContext(c)
	folderID := c.Param("folderId")

	artifact, name, err := s.uc.Download(c.Request.Context(), owner, folderID)
	if err != nil {
		switch {
		case errors.Is(err, biz.ErrFolderNotFound):
			response.NotFound(c, "Folder not found")
		case errors.Is(err, biz.ErrEmptyFolder):
			response.NotFound(c, "No files found in this folder.")
		default:
			s.logger.Error("failed to build folder archive",
				zap.String("folder_id", folderID),
				zap.Error(err))
			response.FailWithMessage(c, http.StatusInternalServerError, "Error downloading folder.")
		}
		return
	}
	defer func() {
		if err := artifact.Close(); err != nil {
			s.logger.Error("failed to release archive staging scope", zap.Error(err))
		}
	}()

	c.FileAttachment(artifact.Path, name)
}
