package archive

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/drivehub/drive-backend/internal/pkg/logger"
)

// ErrFetch indicates that a blob could not be retrieved from object
// storage; the whole build fails, no partial archive is produced
var ErrFetch = errors.New("archive: blob fetch failed")

// BlobFetcher retrieves a readable stream for a storage key
type BlobFetcher interface {
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

// Entry names one file to include in an archive
type Entry struct {
	Name string // filename inside the archive
	Key  string // storage key of the blob
}

// Artifact is a finished archive on local disk. Close removes the whole
// staging scope the artifact lives in.
type Artifact struct {
	Path  string
	scope string
}

// Open returns a reader over the finished archive
func (a *Artifact) Open() (*os.File, error) {
	return os.Open(a.Path)
}

// Close releases the staging scope, removing the archive and any staged
// blob copies. Safe to call more than once.
func (a *Artifact) Close() error {
	if a.scope == "" {
		return nil
	}
	err := os.RemoveAll(a.scope)
	a.scope = ""
	return err
}

// Builder assembles downloadable archives from object storage blobs.
// Every build runs in its own staging subdirectory, so concurrent builds
// never collide even when the folders contain identically named files.
type Builder struct {
	fetcher    BlobFetcher
	stagingDir string
	logger     *logger.Logger
}

// NewBuilder creates a builder staging under dir
func NewBuilder(fetcher BlobFetcher, dir string, lgr *logger.Logger) *Builder {
	if lgr == nil {
		lgr = logger.L()
	}
	return &Builder{
		fetcher:    fetcher,
		stagingDir: dir,
		logger:     lgr,
	}
}

// Build stages every entry's blob locally and assembles them into a zip
// named after the folder. Entries are processed strictly in order; each
// staged copy is fully written and closed before it is appended to the
// archive, so the archive never contains truncated entries.
//
// On success the caller owns the returned artifact and must Close it
// after delivery. On any failure the staging scope is removed before
// returning and no artifact escapes.
func (b *Builder) Build(ctx context.Context, folderName string, entries []Entry) (artifact *Artifact, err error) {
	if len(entries) == 0 {
		return nil, errors.New("archive: no entries to archive")
	}

	scope := filepath.Join(b.stagingDir, uuid.NewString())
	if err := os.MkdirAll(scope, 0755); err != nil {
		return nil, fmt.Errorf("archive: failed to create staging scope: %w", err)
	}
	defer func() {
		if err != nil {
			os.RemoveAll(scope)
		}
	}()

	// folder names are caller input and may carry path separators; the
	// archive must never land outside its own scope
	zipPath := filepath.Join(scope, sanitizeName(folderName)+".zip")
	zipFile, err := os.Create(zipPath)
	if err != nil {
		return nil, fmt.Errorf("archive: failed to create archive file: %w", err)
	}

	zw := zip.NewWriter(zipFile)
	for _, entry := range entries {
		if err = b.stageAndAppend(ctx, scope, entry, zw); err != nil {
			zw.Close()
			zipFile.Close()
			return nil, err
		}
	}

	if err = zw.Close(); err != nil {
		zipFile.Close()
		return nil, fmt.Errorf("archive: failed to finalize archive: %w", err)
	}
	if err = zipFile.Close(); err != nil {
		return nil, fmt.Errorf("archive: failed to close archive file: %w", err)
	}

	b.logger.Info("archive built",
		zap.String("folder", folderName),
		zap.Int("entries", len(entries)),
		zap.String("path", zipPath),
	)

	return &Artifact{Path: zipPath, scope: scope}, nil
}

// sanitizeName strips any path component from a caller-supplied name so
// it can be used as a single filename. Backslashes are treated as
// separators too; some browsers send full Windows paths in multipart
// filenames.
func sanitizeName(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, `\`, "/"))
	if base == "." || base == ".." || base == "/" || base == "" {
		return "archive"
	}
	return base
}

// stageAndAppend fetches one blob, persists it to the staging scope, and
// appends the staged copy to the archive once the write has completed
func (b *Builder) stageAndAppend(ctx context.Context, scope string, entry Entry, zw *zip.Writer) error {
	blob, err := b.fetcher.Get(ctx, entry.Key)
	if err != nil {
		return fmt.Errorf("%w: key %q: %v", ErrFetch, entry.Key, err)
	}

	name := sanitizeName(entry.Name)
	stagedPath := filepath.Join(scope, name)
	staged, err := os.Create(stagedPath)
	if err != nil {
		blob.Close()
		return fmt.Errorf("archive: failed to create staged file: %w", err)
	}

	_, err = io.Copy(staged, blob)
	blob.Close()
	if err != nil {
		staged.Close()
		return fmt.Errorf("%w: key %q: %v", ErrFetch, entry.Key, err)
	}
	// flush the staged copy before it is read back into the archive
	if err := staged.Close(); err != nil {
		return fmt.Errorf("archive: failed to flush staged file: %w", err)
	}

	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("archive: failed to add entry %q: %w", name, err)
	}

	src, err := os.Open(stagedPath)
	if err != nil {
		return fmt.Errorf("archive: failed to reopen staged file: %w", err)
	}
	defer src.Close()

	if _, err := io.Copy(w, src); err != nil {
		return fmt.Errorf("archive: failed to write entry %q: %w", name, err)
	}

	return nil
}
