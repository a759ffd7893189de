package process

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"

	"pager/config"
)

// baseName returns transliterated file name without extension. Names
// which cannot be transliterated are only cleaned.
func baseName(name string) string {
	base := strings.TrimSuffix(path.Base(name), path.Ext(name))
	if s := slug.Make(base); s != "" {
		return s
	}
	return config.CleanFileName(base)
}

// outputDir returns directory where results for chapter are placed. Unless
// nodirs is requested chapter location inside source is kept under a
// directory named after the source.
func outputDir(src, chapter, dst string, nodirs bool) string {
	if nodirs {
		return dst
	}
	parts := []string{dst, baseName(filepath.Base(src))}
	if dir := path.Dir(chapter); dir != "." {
		for _, seg := range strings.Split(dir, "/") {
			if s := slug.Make(seg); s != "" {
				parts = append(parts, s)
			}
		}
	}
	return filepath.Join(parts...)
}
