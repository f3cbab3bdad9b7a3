package biz

import "errors"

var (
	// ErrFolderNotFound indicates the folder does not exist or is not
	// visible to the caller
	ErrFolderNotFound = errors.New("folder not found")

	// ErrParentNotFound indicates the requested parent folder does not
	// exist or belongs to another owner
	ErrParentNotFound = errors.New("parent folder not found")

	// ErrEmptyFolder indicates a download was requested for a folder
	// with no files
	ErrEmptyFolder = errors.New("folder has no files")

	// ErrFileNotFound indicates no file record exists for the key
	ErrFileNotFound = errors.New("file not found")

	// ErrNameRequired indicates a folder was created without a name
	ErrNameRequired = errors.New("folder name is required")
)
