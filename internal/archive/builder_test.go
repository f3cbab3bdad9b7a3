package archive

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// fakeFetcher serves blobs from memory
type fakeFetcher struct {
	blobs map[string][]byte
}

func (f *fakeFetcher) Get(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := f.blobs[key]
	if !ok {
		return nil, fmt.Errorf("no such key: %s", key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func readZip(t *testing.T, path string) map[string][]byte {
	t.Helper()

	r, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("failed to open zip: %v", err)
	}
	defer r.Close()

	contents := make(map[string][]byte)
	for _, f := range r.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("failed to open zip entry %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("failed to read zip entry %s: %v", f.Name, err)
		}
		contents[f.Name] = data
	}
	return contents
}

func stagingEntries(t *testing.T, dir string) []string {
	t.Helper()

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		t.Fatalf("failed to read staging dir: %v", err)
	}

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names
}

func TestBuild(t *testing.T) {
	fetcher := &fakeFetcher{blobs: map[string][]byte{
		"key-a": []byte("alpha content"),
		"key-b": []byte("beta content"),
	}}

	dir := t.TempDir()
	builder := NewBuilder(fetcher, dir, nil)

	artifact, err := builder.Build(context.Background(), "reports", []Entry{
		{Name: "a.txt", Key: "key-a"},
		{Name: "b.txt", Key: "key-b"},
	})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	if filepath.Base(artifact.Path) != "reports.zip" {
		t.Errorf("expected archive named reports.zip, got %s", filepath.Base(artifact.Path))
	}

	contents := readZip(t, artifact.Path)
	if len(contents) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(contents))
	}
	if string(contents["a.txt"]) != "alpha content" {
		t.Errorf("unexpected content for a.txt: %q", contents["a.txt"])
	}
	if string(contents["b.txt"]) != "beta content" {
		t.Errorf("unexpected content for b.txt: %q", contents["b.txt"])
	}

	if err := artifact.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	if remaining := stagingEntries(t, dir); len(remaining) != 0 {
		t.Errorf("staging dir not empty after close: %v", remaining)
	}
}

func TestBuildFetchFailure(t *testing.T) {
	fetcher := &fakeFetcher{blobs: map[string][]byte{
		"key-a": []byte("alpha content"),
		// key-b missing
	}}

	dir := t.TempDir()
	builder := NewBuilder(fetcher, dir, nil)

	_, err := builder.Build(context.Background(), "reports", []Entry{
		{Name: "a.txt", Key: "key-a"},
		{Name: "b.txt", Key: "key-b"},
	})
	if !errors.Is(err, ErrFetch) {
		t.Fatalf("expected ErrFetch, got %v", err)
	}

	// staged files from before the failure must be cleaned up
	if remaining := stagingEntries(t, dir); len(remaining) != 0 {
		t.Errorf("staging dir not empty after failed build: %v", remaining)
	}
}

func TestBuildSeparatorBearingFolderName(t *testing.T) {
	// a folder named with a traversal must not place its archive outside
	// the build's own scope; Close must leave the staging dir empty
	fetcher := &fakeFetcher{blobs: map[string][]byte{"k": []byte("data")}}

	dir := t.TempDir()
	builder := NewBuilder(fetcher, dir, nil)

	artifact, err := builder.Build(context.Background(), "../escape", []Entry{
		{Name: "x.txt", Key: "k"},
	})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	scope := filepath.Dir(artifact.Path)
	if filepath.Dir(scope) != dir {
		t.Errorf("archive written outside its build scope: %s", artifact.Path)
	}
	if filepath.Base(artifact.Path) != "escape.zip" {
		t.Errorf("expected escape.zip, got %s", filepath.Base(artifact.Path))
	}
	if _, err := os.Stat(filepath.Join(dir, "escape.zip")); !os.IsNotExist(err) {
		t.Errorf("archive leaked into the shared staging dir")
	}

	if err := artifact.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if remaining := stagingEntries(t, dir); len(remaining) != 0 {
		t.Errorf("staging dir not empty after close: %v", remaining)
	}
}

func TestBuildBareTraversalFolderName(t *testing.T) {
	fetcher := &fakeFetcher{blobs: map[string][]byte{"k": []byte("data")}}

	dir := t.TempDir()
	builder := NewBuilder(fetcher, dir, nil)

	artifact, err := builder.Build(context.Background(), "..", []Entry{
		{Name: "x.txt", Key: "k"},
	})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	defer artifact.Close()

	if filepath.Base(artifact.Path) != "archive.zip" {
		t.Errorf("expected fallback name archive.zip, got %s", filepath.Base(artifact.Path))
	}
	if filepath.Dir(filepath.Dir(artifact.Path)) != dir {
		t.Errorf("archive written outside its build scope: %s", artifact.Path)
	}
}

func TestBuildEntryNameStripped(t *testing.T) {
	// uploaded filenames carrying path components must be reduced to
	// their base name inside the archive
	fetcher := &fakeFetcher{blobs: map[string][]byte{"k": []byte("data")}}

	builder := NewBuilder(fetcher, t.TempDir(), nil)

	artifact, err := builder.Build(context.Background(), "docs", []Entry{
		{Name: "../../evil.txt", Key: "k"},
	})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	defer artifact.Close()

	contents := readZip(t, artifact.Path)
	if _, ok := contents["evil.txt"]; !ok {
		t.Fatalf("expected entry evil.txt, got %v", contents)
	}
	if len(contents) != 1 {
		t.Errorf("expected a single entry, got %d", len(contents))
	}
}

func TestBuildNoEntries(t *testing.T) {
	builder := NewBuilder(&fakeFetcher{}, t.TempDir(), nil)

	if _, err := builder.Build(context.Background(), "empty", nil); err == nil {
		t.Fatal("expected error for empty entry list")
	}
}

func TestBuildConcurrentSameFilename(t *testing.T) {
	// two folders each hold a file literally named report.txt with
	// different contents; simultaneous builds must not interfere
	fetcher := &fakeFetcher{blobs: map[string][]byte{
		"key-a": []byte("contents of folder A"),
		"key-b": []byte("contents of folder B"),
	}}

	dir := t.TempDir()
	builder := NewBuilder(fetcher, dir, nil)

	type result struct {
		artifact *Artifact
		err      error
	}
	results := make([]result, 2)
	keys := []string{"key-a", "key-b"}
	names := []string{"folderA", "folderB"}

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			artifact, err := builder.Build(context.Background(), names[i], []Entry{
				{Name: "report.txt", Key: keys[i]},
			})
			results[i] = result{artifact, err}
		}(i)
	}
	wg.Wait()

	want := []string{"contents of folder A", "contents of folder B"}
	for i, res := range results {
		if res.err != nil {
			t.Fatalf("build %d failed: %v", i, res.err)
		}
		contents := readZip(t, res.artifact.Path)
		if got := string(contents["report.txt"]); got != want[i] {
			t.Errorf("build %d: expected %q, got %q", i, want[i], got)
		}
		res.artifact.Close()
	}

	if remaining := stagingEntries(t, dir); len(remaining) != 0 {
		t.Errorf("staging dir not empty after both builds closed: %v", remaining)
	}
}

func TestArtifactCloseIdempotent(t *testing.T) {
	fetcher := &fakeFetcher{blobs: map[string][]byte{"k": []byte("data")}}
	builder := NewBuilder(fetcher, t.TempDir(), nil)

	artifact, err := builder.Build(context.Background(), "f", []Entry{{Name: "x", Key: "k"}})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	if err := artifact.Close(); err != nil {
		t.Fatalf("first close failed: %v", err)
	}
	if err := artifact.Close(); err != nil {
		t.Fatalf("second close failed: %v", err)
	}
}
