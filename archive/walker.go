// Package archive lets style sources be taken directly from zip archives.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"

	"github.com/maruel/natural"
)

// MaxEntrySize limits size of a single style read from archive.
const MaxEntrySize = 64 << 20

// WalkFunc is called for every matching file in archive. If an error is
// returned, processing stops.
type WalkFunc func(archive string, file *zip.File) error

// Walk visits files of archive whose names start with prefix in natural name
// order, so "roads-2.json" comes before "roads-10.json". Archives with
// absolute entry names or ".." components are rejected as a whole.
func Walk(archive, prefix string, walkFn WalkFunc) error {
	r, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer r.Close()

	files := make([]*zip.File, 0, len(r.File))
	for _, f := range r.File {
		name := f.FileHeader.Name
		if !isSafePath(name) {
			return fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if !f.FileInfo().IsDir() && strings.HasPrefix(name, prefix) {
			files = append(files, f)
		}
	}
	sort.SliceStable(files, func(i, j int) bool {
		return natural.Less(files[i].Name, files[j].Name)
	})

	for _, f := range files {
		if err := walkFn(archive, f); err != nil {
			return err
		}
	}
	return nil
}

// ReadEntry returns content of archive file refusing anything larger than
// MaxEntrySize.
func ReadEntry(f *zip.File) ([]byte, error) {
	if f.UncompressedSize64 > MaxEntrySize {
		return nil, fmt.Errorf("zip entry %q is too large (%d bytes)", f.Name, f.UncompressedSize64)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(io.LimitReader(rc, MaxEntrySize+1))
	if err != nil {
		return nil, fmt.Errorf("unable to read zip entry %q: %w", f.Name, err)
	}
	if len(data) > MaxEntrySize {
		return nil, fmt.Errorf("zip entry %q is too large", f.Name)
	}
	return data, nil
}

func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, `\`) {
		return false
	}
	for _, part := range strings.Split(strings.ReplaceAll(name, `\`, "/"), "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
