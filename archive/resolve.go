package archive

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/beevik/etree"
	"github.com/h2non/filetype"
	"github.com/maruel/natural"
)

// Source is a set of chapter documents sharing one file system.
type Source struct {
	// Path is the host path source was resolved from
	Path string
	FS   fs.FS
	// Chapters are names inside FS in reading order
	Chapters  []string
	Container bool

	closer io.Closer
}

// Close releases container if source has one.
func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// IsChapter reports whether name looks like a chapter document.
func IsChapter(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".xhtml", ".html", ".htm":
		return true
	}
	return false
}

// IsContainer detects EPUB and ZIP files by content.
func IsContainer(p string) (bool, error) {
	f, err := os.Open(p)
	if err != nil {
		return false, err
	}
	defer f.Close()

	head := make([]byte, 262)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false, err
	}
	kind, err := filetype.Match(head[:n])
	if err != nil {
		return false, err
	}
	return kind.Extension == "zip" || kind.Extension == "epub", nil
}

// Resolve maps host path to chapter source. Path could name a chapter file,
// a directory (chapters found recursively), an EPUB/ZIP container or a path
// inside one ("book.epub/OEBPS/ch1.xhtml").
func Resolve(p string) (*Source, error) {
	p = filepath.Clean(p)

	info, err := os.Stat(p)
	switch {
	case err == nil && info.IsDir():
		return resolveDir(p)
	case err == nil:
		container, err := IsContainer(p)
		if err != nil {
			return nil, fmt.Errorf("unable to detect type of %q: %w", p, err)
		}
		if container {
			return resolveContainer(p, p, "")
		}
		return &Source{
			Path:     p,
			FS:       os.DirFS(filepath.Dir(p)),
			Chapters: []string{filepath.Base(p)},
		}, nil
	}

	// look for container file somewhere along the path
	parts := strings.Split(filepath.ToSlash(p), "/")
	for i := 1; i < len(parts); i++ {
		prefix := filepath.FromSlash(strings.Join(parts[:i], "/"))
		if prefix == "" {
			continue
		}
		info, serr := os.Stat(prefix)
		if serr != nil {
			break
		}
		if info.IsDir() {
			continue
		}
		container, err := IsContainer(prefix)
		if err != nil {
			return nil, fmt.Errorf("unable to detect type of %q: %w", prefix, err)
		}
		if !container {
			break
		}
		return resolveContainer(p, prefix, strings.Join(parts[i:], "/"))
	}
	return nil, fmt.Errorf("unable to resolve %q: %w", p, err)
}

func resolveDir(dir string) (*Source, error) {
	fsys := os.DirFS(dir)
	var chapters []string
	err := fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && IsChapter(name) {
			chapters = append(chapters, name)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("unable to list %q: %w", dir, err)
	}
	sortNatural(chapters)
	return &Source{Path: dir, FS: fsys, Chapters: chapters}, nil
}

func resolveContainer(p, archive, inner string) (*Source, error) {
	z, err := OpenZip(archive)
	if err != nil {
		return nil, fmt.Errorf("unable to open container %q: %w", archive, err)
	}

	src := &Source{Path: p, FS: z, Container: true, closer: z}
	inner = strings.Trim(inner, "/")

	if _, ok := z.files[inner]; ok {
		src.Chapters = []string{inner}
		return src, nil
	}

	var chapters []string
	if inner == "" {
		chapters = Spine(z)
	}
	if len(chapters) == 0 {
		prefix := inner
		if prefix != "" {
			prefix += "/"
		}
		_ = z.Walk(prefix, func(name string, _ *File) error {
			if IsChapter(name) {
				chapters = append(chapters, name)
			}
			return nil
		})
	}
	if len(chapters) == 0 && inner != "" {
		z.Close()
		return nil, fmt.Errorf("unable to resolve %q inside %q: %w", inner, archive, fs.ErrNotExist)
	}
	src.Chapters = chapters
	return src, nil
}

// Spine returns chapter documents of EPUB in reading order as listed by the
// package document. Nil is returned when container is not a usable EPUB.
func Spine(fsys fs.FS) []string {
	doc, err := readXML(fsys, "META-INF/container.xml")
	if err != nil {
		return nil
	}
	rootfile := doc.FindElement("//rootfiles/rootfile[@full-path]")
	if rootfile == nil {
		return nil
	}
	opfPath := rootfile.SelectAttrValue("full-path", "")
	opf, err := readXML(fsys, opfPath)
	if err != nil {
		return nil
	}

	base := path.Dir(opfPath)
	manifest := make(map[string]string)
	for _, item := range opf.FindElements("//manifest/item") {
		id, href := item.SelectAttrValue("id", ""), item.SelectAttrValue("href", "")
		if id == "" || href == "" {
			continue
		}
		if i := strings.IndexByte(href, '#'); i >= 0 {
			href = href[:i]
		}
		manifest[id] = path.Clean(path.Join(base, href))
	}

	var chapters []string
	for _, ref := range opf.FindElements("//spine/itemref") {
		name, ok := manifest[ref.SelectAttrValue("idref", "")]
		if !ok || !IsChapter(name) || slices.Contains(chapters, name) {
			continue
		}
		if _, err := fs.Stat(fsys, name); err != nil {
			continue
		}
		chapters = append(chapters, name)
	}
	return chapters
}

func readXML(fsys fs.FS, name string) (*etree.Document, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, err
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("unable to parse %q: %w", name, err)
	}
	return doc, nil
}

func sortNatural(names []string) {
	slices.SortFunc(names, func(a, b string) int {
		switch {
		case natural.Less(a, b):
			return -1
		case natural.Less(b, a):
			return 1
		}
		return 0
	})
}
