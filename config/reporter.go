package config

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/multierr"

	"pager/misc"
)

type ReporterConfig struct {
	Destination string `yaml:"destination" sanitize:"path_clean,assure_dir_exists_for_file" validate:"required,filepath"`
}

// Prepare creates empty report. When configured destination could not be
// created report goes to temporary directory.
func (conf *ReporterConfig) Prepare() (*Report, error) {
	f, err := os.Create(conf.Destination)
	if err != nil {
		if f, err = os.CreateTemp("", misc.GetAppName()+"-report.*.zip"); err != nil {
			return nil, fmt.Errorf("unable to create report: %w", err)
		}
	}
	return &Report{items: make(map[string]item), file: f}, nil
}

// item is either a reference to file system path, which is read when report
// is finalized, or data captured at the time of a call.
type item struct {
	path  string
	data  []byte
	stamp time.Time
}

func (it item) source() string {
	if len(it.path) > 0 {
		return it.path
	}
	return fmt.Sprintf("<%d bytes>", len(it.data))
}

// Report accumulates everything necessary to troubleshoot a run and puts it
// into single zip archive on Close. Nil report is valid and ignores all
// calls, so callers do not have to check if report was requested.
type Report struct {
	mu    sync.Mutex
	items map[string]item
	file  *os.File
}

// Name returns absolute name of the archive.
func (r *Report) Name() string {
	if r == nil || r.file == nil {
		return ""
	}
	if n, err := filepath.Abs(r.file.Name()); err == nil {
		return n
	}
	return r.file.Name()
}

// add registers item under unique name, repeated names get numeric suffix.
func (r *Report) add(name string, it item) {
	r.mu.Lock()
	defer r.mu.Unlock()

	unique := name
	for i := 1; ; i++ {
		if _, exists := r.items[unique]; !exists {
			break
		}
		unique = fmt.Sprintf("%s.%d", name, i)
	}
	r.items[unique] = it
}

// Store remembers file or directory to be put into report when it is closed.
func (r *Report) Store(name, p string) {
	if r == nil {
		return
	}
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	r.add(name, item{path: p})
}

// StoreData puts data into report under requested name.
func (r *Report) StoreData(name string, data []byte) {
	if r == nil {
		return
	}
	r.add(name, item{data: slices.Clone(data), stamp: time.Now()})
}

// StoreFS captures file or directory tree from fsys at the time of a call.
// Used for chapters read from containers which may be gone by the time
// report is closed.
func (r *Report) StoreFS(name string, fsys fs.FS, p string) error {
	if r == nil {
		return nil
	}
	info, err := fs.Stat(fsys, p)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		r.add(name, item{data: data, stamp: info.ModTime()})
		return nil
	}
	return fs.WalkDir(fsys, p, func(fp string, d fs.DirEntry, err error) error {
		if err != nil || !d.Type().IsRegular() {
			return err
		}
		rel := fp
		if p != "." {
			rel = strings.TrimPrefix(fp, p)
		}
		data, err := fs.ReadFile(fsys, fp)
		if err != nil {
			return err
		}
		r.add(path.Join(name, rel), item{data: data, stamp: time.Now()})
		return nil
	})
}

// Close writes archive. Items referring to absent files are skipped.
func (r *Report) Close() (err error) {
	if r == nil || r.file == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	defer func() {
		err = multierr.Append(err, r.file.Close())
		r.file = nil
	}()

	arc := zip.NewWriter(r.file)
	defer func() {
		err = multierr.Append(err, arc.Close())
	}()

	names := slices.Sorted(maps.Keys(r.items))
	if err := addFile(arc, "MANIFEST", time.Now(), manifest(names, r.items)); err != nil {
		return err
	}
	for _, name := range names {
		it := r.items[name]
		if len(it.path) == 0 {
			if err := addFile(arc, name, it.stamp, bytes.NewReader(it.data)); err != nil {
				return err
			}
			continue
		}
		if err := addTree(arc, name, it.path); err != nil {
			return err
		}
	}
	return nil
}

func manifest(names []string, items map[string]item) io.Reader {
	now := time.Now()
	buf := new(bytes.Buffer)
	for _, name := range names {
		it := items[name]
		stamp := it.stamp
		if stamp.IsZero() {
			stamp = now
		}
		fmt.Fprintf(buf, "%s\t%s\t%s\n", stamp.UTC().Format(time.RFC3339), name, it.source())
	}
	return buf
}

func addFile(arc *zip.Writer, name string, stamp time.Time, src io.Reader) error {
	w, err := arc.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: stamp})
	if err != nil {
		return fmt.Errorf("unable to add %q to report: %w", name, err)
	}
	_, err = io.Copy(w, src)
	return err
}

// addTree puts regular file or every regular file under directory into
// archive.
func addTree(arc *zip.Writer, name, root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return nil
	}
	if info.Mode().IsRegular() {
		return addOSFile(arc, name, root, info.ModTime())
	}
	if !info.IsDir() {
		return nil
	}
	return fs.WalkDir(os.DirFS(root), ".", func(rel string, d fs.DirEntry, err error) error {
		if err != nil || !d.Type().IsRegular() {
			return err
		}
		fi, err := d.Info()
		if err != nil {
			return err
		}
		return addOSFile(arc, path.Join(name, rel), filepath.Join(root, filepath.FromSlash(rel)), fi.ModTime())
	})
}

func addOSFile(arc *zip.Writer, name, p string, stamp time.Time) error {
	f, err := os.Open(p)
	if err != nil {
		return err
	}
	defer f.Close()
	return addFile(arc, name, stamp, f)
}
