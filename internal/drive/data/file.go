package data

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/drivehub/drive-backend/internal/drive/biz"
)

// FilePO represents the database model. StorageKey carries a unique index
// because it addresses the blob in object storage; folder membership is
// derived from FolderID, there is no materialized file list on folders.
type FilePO struct {
	ID         string    `gorm:"type:uuid;primarykey"`
	Filename   string    `gorm:"size:255;not null"`
	StorageKey string    `gorm:"size:512;not null;uniqueIndex:idx_files_storage_key"`
	Size       int64     `gorm:"not null"`
	FolderID   *string   `gorm:"type:uuid;index:idx_files_folder"`
	OwnerID    string    `gorm:"size:255;not null;index:idx_files_owner"`
	URL        string    `gorm:"size:1024;not null"`
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (FilePO) TableName() string {
	return "files"
}

// FileRepo implements biz.FileRepo
type FileRepo struct {
	db *gorm.DB
}

func NewFileRepo(db *gorm.DB) biz.FileRepo {
	return &FileRepo{db: db}
}

func (r *FileRepo) Create(ctx context.Context, file *biz.File) error {
	po := &FilePO{
		ID:         uuid.NewString(),
		Filename:   file.Filename,
		StorageKey: file.StorageKey,
		Size:       file.Size,
		FolderID:   file.FolderID,
		OwnerID:    file.OwnerID,
		URL:        file.URL,
		CreatedAt:  file.CreatedAt,
	}

	if err := r.db.WithContext(ctx).Create(po).Error; err != nil {
		return err
	}

	file.ID = po.ID
	return nil
}

// GetByKey returns (nil, nil) when no file exists for the key
func (r *FileRepo) GetByKey(ctx context.Context, key string) (*biz.File, error) {
	var po FilePO
	err := r.db.WithContext(ctx).Where("storage_key = ?", key).First(&po).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.toFile(&po), nil
}

func (r *FileRepo) ListByOwner(ctx context.Context, ownerID string) ([]*biz.File, error) {
	var pos []FilePO
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at").
		Find(&pos).Error
	if err != nil {
		return nil, err
	}

	return r.toFiles(pos), nil
}

func (r *FileRepo) ListByFolder(ctx context.Context, folderID, ownerID string) ([]*biz.File, error) {
	var pos []FilePO
	err := r.db.WithContext(ctx).
		Where("folder_id = ? AND owner_id = ?", folderID, ownerID).
		Order("created_at").
		Find(&pos).Error
	if err != nil {
		return nil, err
	}

	return r.toFiles(pos), nil
}

func (r *FileRepo) DeleteByKey(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Where("storage_key = ?", key).Delete(&FilePO{}).Error
}

func (r *FileRepo) toFile(po *FilePO) *biz.File {
	return &biz.File{
		ID:         po.ID,
		Filename:   po.Filename,
		StorageKey: po.StorageKey,
		Size:       po.Size,
		FolderID:   po.FolderID,
		OwnerID:    po.OwnerID,
		URL:        po.URL,
		CreatedAt:  po.CreatedAt,
	}
}

func (r *FileRepo) toFiles(pos []FilePO) []*biz.File {
	files := make([]*biz.File, len(pos))
	for i := range pos {
		files[i] = r.toFile(&pos[i])
	}
	return files
}
