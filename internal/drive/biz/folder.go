package biz

import (
	"context"
	"time"

	"github.com/drivehub/drive-backend/internal/archive"
)

// Folder is a named grouping of files owned by one user. ParentID is nil
// for root folders; parents are immutable after creation, so the folder
// tree cannot form cycles.
type Folder struct {
	ID        string
	Name      string
	OwnerID   string // identity-provider subject of the owner
	ParentID  *string
	CreatedAt time.Time
}

// FolderRepo defines the interface for folder data operations
type FolderRepo interface {
	Create(ctx context.Context, folder *Folder) error
	GetByID(ctx context.Context, id string) (*Folder, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*Folder, error)
	ListChildren(ctx context.Context, parentID, ownerID string) ([]*Folder, error)
	// Delete removes the folder record and detaches its files in one
	// transaction, so no file is left referencing a dead folder
	Delete(ctx context.Context, id string) error
}

// ArchiveBuilder assembles a downloadable archive from storage blobs
type ArchiveBuilder interface {
	Build(ctx context.Context, folderName string, entries []archive.Entry) (*archive.Artifact, error)
}

// Notifier is the fire-and-forget push channel toward connected clients
type Notifier interface {
	Emit(event string, payload interface{})
}

// FolderUseCase contains business logic for folder operations
type FolderUseCase struct {
	folders  FolderRepo
	files    FileRepo
	builder  ArchiveBuilder
	notifier Notifier
}

func NewFolderUseCase(folders FolderRepo, files FileRepo, builder ArchiveBuilder, notifier Notifier) *FolderUseCase {
	return &FolderUseCase{
		folders:  folders,
		files:    files,
		builder:  builder,
		notifier: notifier,
	}
}

// Create makes a new folder for the owner. A parent, when given, must
// exist and belong to the same owner.
func (uc *FolderUseCase) Create(ctx context.Context, ownerID, name string, parentID *string) (*Folder, error) {
	if name == "" {
		return nil, ErrNameRequired
	}

	if parentID != nil {
		parent, err := uc.folders.GetByID(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		if parent == nil || parent.OwnerID != ownerID {
			return nil, ErrParentNotFound
		}
	}

	folder := &Folder{
		Name:      name,
		OwnerID:   ownerID,
		ParentID:  parentID,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.folders.Create(ctx, folder); err != nil {
		return nil, err
	}

	return folder, nil
}

// List returns all folders owned by the caller
func (uc *FolderUseCase) List(ctx context.Context, ownerID string) ([]*Folder, error) {
	return uc.folders.ListByOwner(ctx, ownerID)
}

// Contents returns the direct subfolders and files of a folder. File
// membership is derived from the files' folder reference, which is the
// single source of truth.
func (uc *FolderUseCase) Contents(ctx context.Context, ownerID, folderID string) ([]*Folder, []*File, error) {
	folder, err := uc.getOwned(ctx, ownerID, folderID)
	if err != nil {
		return nil, nil, err
	}

	subfolders, err := uc.folders.ListChildren(ctx, folder.ID, ownerID)
	if err != nil {
		return nil, nil, err
	}

	files, err := uc.files.ListByFolder(ctx, folder.ID, ownerID)
	if err != nil {
		return nil, nil, err
	}

	return subfolders, files, nil
}

// Delete removes a folder. Contained files keep their blobs and records
// but are detached from the folder.
func (uc *FolderUseCase) Delete(ctx context.Context, ownerID, folderID string) error {
	folder, err := uc.getOwned(ctx, ownerID, folderID)
	if err != nil {
		return err
	}

	if err := uc.folders.Delete(ctx, folder.ID); err != nil {
		return err
	}

	uc.notifier.Emit("folder-deleted", map[string]string{"name": folder.Name})
	return nil
}

// Download builds a zip archive of every file in the folder. The caller
// owns the artifact and must Close it after delivery; Close removes all
// staged intermediates.
func (uc *FolderUseCase) Download(ctx context.Context, ownerID, folderID string) (*archive.Artifact, string, error) {
	folder, err := uc.getOwned(ctx, ownerID, folderID)
	if err != nil {
		return nil, "", err
	}

	files, err := uc.files.ListByFolder(ctx, folder.ID, ownerID)
	if err != nil {
		return nil, "", err
	}
	if len(files) == 0 {
		return nil, "", ErrEmptyFolder
	}

	entries := make([]archive.Entry, len(files))
	for i, f := range files {
		entries[i] = archive.Entry{Name: f.Filename, Key: f.StorageKey}
	}

	artifact, err := uc.builder.Build(ctx, folder.Name, entries)
	if err != nil {
		return nil, "", err
	}

	uc.notifier.Emit("file-download-started", map[string]string{"filename": folder.Name + ".zip"})
	return artifact, folder.Name + ".zip", nil
}

func (uc *FolderUseCase) getOwned(ctx context.Context, ownerID, folderID string) (*Folder, error) {
	folder, err := uc.folders.GetByID(ctx, folderID)
	if err != nil {
		return nil, err
	}
	if folder == nil || folder.OwnerID != ownerID {
		return nil, ErrFolderNotFound
	}
	return folder, nil
}
