package data

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/drivehub/drive-backend/internal/drive/biz"
)

// FolderPO represents the database model
type FolderPO struct {
	ID        string    `gorm:"type:uuid;primarykey"`
	Name      string    `gorm:"size:255;not null"`
	OwnerID   string    `gorm:"size:255;not null;index:idx_folders_owner"`
	ParentID  *string   `gorm:"type:uuid;index:idx_folders_parent"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (FolderPO) TableName() string {
	return "folders"
}

// FolderRepo implements biz.FolderRepo
type FolderRepo struct {
	db *gorm.DB
}

func NewFolderRepo(db *gorm.DB) biz.FolderRepo {
	return &FolderRepo{db: db}
}

func (r *FolderRepo) Create(ctx context.Context, folder *biz.Folder) error {
	po := &FolderPO{
		ID:        uuid.NewString(),
		Name:      folder.Name,
		OwnerID:   folder.OwnerID,
		ParentID:  folder.ParentID,
		CreatedAt: folder.CreatedAt,
	}

	if err := r.db.WithContext(ctx).Create(po).Error; err != nil {
		return err
	}

	folder.ID = po.ID
	return nil
}

// GetByID returns (nil, nil) when no folder exists for the id
func (r *FolderRepo) GetByID(ctx context.Context, id string) (*biz.Folder, error) {
	var po FolderPO
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&po).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.toFolder(&po), nil
}

func (r *FolderRepo) ListByOwner(ctx context.Context, ownerID string) ([]*biz.Folder, error) {
	var pos []FolderPO
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at").
		Find(&pos).Error
	if err != nil {
		return nil, err
	}

	return r.toFolders(pos), nil
}

func (r *FolderRepo) ListChildren(ctx context.Context, parentID, ownerID string) ([]*biz.Folder, error) {
	var pos []FolderPO
	err := r.db.WithContext(ctx).
		Where("parent_id = ? AND owner_id = ?", parentID, ownerID).
		Order("created_at").
		Find(&pos).Error
	if err != nil {
		return nil, err
	}

	return r.toFolders(pos), nil
}

// Delete removes the folder and detaches its files in one transaction
func (r *FolderRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&FilePO{}).
			Where("folder_id = ?", id).
			Update("folder_id", nil).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", id).Delete(&FolderPO{}).Error
	})
}

func (r *FolderRepo) toFolder(po *FolderPO) *biz.Folder {
	return &biz.Folder{
		ID:        po.ID,
		Name:      po.Name,
		OwnerID:   po.OwnerID,
		ParentID:  po.ParentID,
		CreatedAt: po.CreatedAt,
	}
}

func (r *FolderRepo) toFolders(pos []FolderPO) []*biz.Folder {
	folders := make([]*biz.Folder, len(pos))
	for i := range pos {
		folders[i] = r.toFolder(&pos[i])
	}
	return folders
}
