package storage

import (
	"errors"

	"github.com/minio/minio-go/v7"
)

var (
	// ErrObjectNotFound indicates that the object does not exist
	ErrObjectNotFound = errors.New("storage: object not found")

	// ErrBucketNotFound indicates that the bucket does not exist
	ErrBucketNotFound = errors.New("storage: bucket not found")

	// ErrInvalidKey indicates that the storage key is empty or malformed
	ErrInvalidKey = errors.New("storage: invalid key")
)

// IsNotFound checks if the error is a "not found" error, either one of the
// package sentinels or a NoSuchKey/NoSuchBucket response from the server
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrObjectNotFound) || errors.Is(err, ErrBucketNotFound) {
		return true
	}

	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket"
}
