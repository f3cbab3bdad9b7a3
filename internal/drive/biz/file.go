package biz

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// File is one stored blob plus its metadata. StorageKey is the blob's
// address in object storage and is distinct from the record id.
type File struct {
	ID         string
	Filename   string
	StorageKey string
	Size       int64
	FolderID   *string
	OwnerID    string // identity-provider subject of the owner
	URL        string
	CreatedAt  time.Time
}

// FileRepo defines the interface for file metadata operations
type FileRepo interface {
	Create(ctx context.Context, file *File) error
	GetByKey(ctx context.Context, key string) (*File, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*File, error)
	ListByFolder(ctx context.Context, folderID, ownerID string) ([]*File, error)
	DeleteByKey(ctx context.Context, key string) error
}

// ObjectStore is the object storage gateway consumed by the file module
type ObjectStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (url string, err error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// FileUseCase contains business logic for file operations
type FileUseCase struct {
	files    FileRepo
	folders  FolderRepo
	store    ObjectStore
	notifier Notifier
}

func NewFileUseCase(files FileRepo, folders FolderRepo, store ObjectStore, notifier Notifier) *FileUseCase {
	return &FileUseCase{
		files:    files,
		folders:  folders,
		store:    store,
		notifier: notifier,
	}
}

// Upload stores the blob first and writes metadata only once the blob is
// durable. If the metadata write fails, a compensating delete removes the
// blob so no orphan is left behind.
func (uc *FileUseCase) Upload(ctx context.Context, ownerID string, folderID *string, filename string, size int64, contentType string, r io.Reader) (*File, error) {
	if folderID != nil {
		folder, err := uc.folders.GetByID(ctx, *folderID)
		if err != nil {
			return nil, err
		}
		if folder == nil || folder.OwnerID != ownerID {
			return nil, ErrFolderNotFound
		}
	}

	key := uuid.NewString() + "-" + filename

	url, err := uc.store.Put(ctx, key, r, size, contentType)
	if err != nil {
		return nil, fmt.Errorf("blob upload failed: %w", err)
	}

	file := &File{
		Filename:   filename,
		StorageKey: key,
		Size:       size,
		FolderID:   folderID,
		OwnerID:    ownerID,
		URL:        url,
		CreatedAt:  time.Now().UTC(),
	}
	if err := uc.files.Create(ctx, file); err != nil {
		// compensate: the blob must not outlive a failed metadata write
		if delErr := uc.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("metadata write failed: %w (blob %q left behind: %v)", err, key, delErr)
		}
		return nil, fmt.Errorf("metadata write failed: %w", err)
	}

	uc.notifier.Emit("file-uploaded", map[string]string{"filename": filename})
	return file, nil
}

// List returns all files owned by the caller
func (uc *FileUseCase) List(ctx context.Context, ownerID string) ([]*File, error) {
	return uc.files.ListByOwner(ctx, ownerID)
}

// Delete removes the blob and its metadata together. The blob is removed
// first; a surviving metadata record is reported so the caller knows the
// delete was partial.
func (uc *FileUseCase) Delete(ctx context.Context, ownerID, key string) error {
	file, err := uc.getOwned(ctx, ownerID, key)
	if err != nil {
		return err
	}

	if err := uc.store.Delete(ctx, file.StorageKey); err != nil {
		return fmt.Errorf("blob delete failed: %w", err)
	}

	if err := uc.files.DeleteByKey(ctx, file.StorageKey); err != nil {
		return fmt.Errorf("blob deleted but metadata removal failed: %w", err)
	}

	uc.notifier.Emit("file-deleted", map[string]string{"filename": file.StorageKey})
	return nil
}

// Download returns a stream over the blob for the given key
func (uc *FileUseCase) Download(ctx context.Context, ownerID, key string) (io.ReadCloser, *File, error) {
	file, err := uc.getOwned(ctx, ownerID, key)
	if err != nil {
		return nil, nil, err
	}

	stream, err := uc.store.Get(ctx, file.StorageKey)
	if err != nil {
		return nil, nil, fmt.Errorf("blob fetch failed: %w", err)
	}

	uc.notifier.Emit("file-download-started", map[string]string{"filename": file.StorageKey})
	return stream, file, nil
}

func (uc *FileUseCase) getOwned(ctx context.Context, ownerID, key string) (*File, error) {
	file, err := uc.files.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if file == nil || file.OwnerID != ownerID {
		return nil, ErrFileNotFound
	}
	return file, nil
}
