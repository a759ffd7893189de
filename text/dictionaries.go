package text

import (
	"io/fs"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/text/language"
)

// Dictionaries loads hyphenators on demand and keeps them for reuse. It is
// safe for concurrent use.
type Dictionaries struct {
	fsys fs.FS
	log  *zap.Logger

	mu     sync.Mutex
	loaded map[language.Tag]*Hyphenator
}

// NewDictionaries creates cache of hyphenators backed by pattern files in
// fsys. With nil fsys every lookup returns nil (no hyphenation).
func NewDictionaries(fsys fs.FS, log *zap.Logger) *Dictionaries {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dictionaries{
		fsys:   fsys,
		log:    log.Named("hyphenation"),
		loaded: make(map[language.Tag]*Hyphenator),
	}
}

// For returns hyphenator for requested language or nil if dictionary is not
// available. Negative results are cached too.
func (d *Dictionaries) For(lang language.Tag) *Hyphenator {
	if d == nil {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if h, ok := d.loaded[lang]; ok {
		return h
	}
	h := NewHyphenator(d.fsys, lang, d.log)
	d.loaded[lang] = h
	return h
}
