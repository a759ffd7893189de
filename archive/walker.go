// Package archive gives read access to chapter documents stored in plain
// directories and inside EPUB/ZIP containers.
package archive

import (
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	fixzip "github.com/hidez8891/zip"
)

// File is a container entry.
type File = fixzip.File

// WalkFunc is the type of the function called for each file in archive
// visited by Walk. The name argument is the path of the entry inside the
// archive. If an error is returned, processing stops.
type WalkFunc func(name string, file *File) error

// ZipFS is a read only fs.FS over zip container entries.
type ZipFS struct {
	archive string
	r       *fixzip.ReadCloser
	files   map[string]*fixzip.File
	names   []string
}

// OpenZip opens container and indexes its entries. Entries with path
// traversal components ("..") or absolute paths make the whole container
// unusable to prevent Zip Slip attacks.
func OpenZip(archive string) (*ZipFS, error) {
	r, err := fixzip.OpenReader(archive)
	if err != nil {
		return nil, err
	}

	z := &ZipFS{
		archive: archive,
		r:       r,
		files:   make(map[string]*fixzip.File, len(r.File)),
	}
	for _, f := range r.File {
		name := f.FileHeader.Name
		if !isSafePath(name) {
			r.Close()
			return nil, fmt.Errorf("zip entry %q: unsafe path (absolute or contains path traversal)", name)
		}
		if f.FileInfo().IsDir() {
			continue
		}
		if _, dup := z.files[name]; dup {
			continue
		}
		z.files[name] = f
		z.names = append(z.names, name)
	}
	sortNatural(z.names)
	return z, nil
}

// Archive returns host path of the container.
func (z *ZipFS) Archive() string {
	return z.archive
}

// Close releases the container.
func (z *ZipFS) Close() error {
	return z.r.Close()
}

// Walk walks all files in the archive which names start with prefix in
// natural order, calling walkFn for each item.
func (z *ZipFS) Walk(prefix string, walkFn WalkFunc) error {
	for _, name := range z.names {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		if err := walkFn(name, z.files[name]); err != nil {
			return err
		}
	}
	return nil
}

// Open implements fs.FS. Only regular entries could be opened.
func (z *ZipFS) Open(name string) (fs.File, error) {
	f, err := z.lookup("open", name)
	if err != nil {
		return nil, err
	}
	rc, err := f.Open()
	if err != nil {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	return &entry{ReadCloser: rc, info: f.FileInfo()}, nil
}

// Stat implements fs.StatFS.
func (z *ZipFS) Stat(name string) (fs.FileInfo, error) {
	f, err := z.lookup("stat", name)
	if err != nil {
		return nil, err
	}
	return f.FileInfo(), nil
}

func (z *ZipFS) lookup(op, name string) (*fixzip.File, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: op, Path: name, Err: fs.ErrInvalid}
	}
	f, ok := z.files[name]
	if !ok {
		return nil, &fs.PathError{Op: op, Path: name, Err: fs.ErrNotExist}
	}
	return f, nil
}

type entry struct {
	io.ReadCloser
	info fs.FileInfo
}

func (e *entry) Stat() (fs.FileInfo, error) {
	return e.info, nil
}

// isSafePath returns false for paths that could escape the extraction
// directory: absolute paths and those containing ".." components.
func isSafePath(name string) bool {
	if path.IsAbs(name) || strings.HasPrefix(name, "/") || strings.HasPrefix(name, `\`) {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}
