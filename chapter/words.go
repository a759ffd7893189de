package chapter

import (
	"bytes"
	"strings"
	"unicode/utf8"
)

func isSpace(c byte) bool {
	return c == ' ' || c == '\r' || c == '\n' || c == '\t'
}

var bom = []byte{0xEF, 0xBB, 0xBF}

// wordBuffer accumulates bytes of a single word up to fixed capacity.
type wordBuffer struct {
	buf []byte
}

func newWordBuffer(capacity int) *wordBuffer {
	return &wordBuffer{buf: make([]byte, 0, capacity)}
}

func (w *wordBuffer) len() int {
	return len(w.buf)
}

func (w *wordBuffer) full() bool {
	return len(w.buf) == cap(w.buf)
}

func (w *wordBuffer) add(c byte) {
	w.buf = append(w.buf, c)
}

// take returns accumulated word and empties buffer.
func (w *wordBuffer) take() string {
	s := string(w.buf)
	w.buf = w.buf[:0]
	return s
}

// split returns the longest prefix ending on a complete rune and before any
// partial entity and keeps the rest, so neither multibyte characters nor
// entities are cut in half by capacity.
func (w *wordBuffer) split() string {
	cut := entityPrefix(w.buf[:completePrefix(w.buf)])
	if cut == 0 {
		return w.take()
	}
	s := string(w.buf[:cut])
	w.buf = append(w.buf[:0], w.buf[cut:]...)
	return s
}

// completePrefix returns length of b without trailing incomplete UTF-8
// sequence.
func completePrefix(b []byte) int {
	i := len(b) - 1
	for i >= 0 && i > len(b)-utf8.UTFMax && !utf8.RuneStart(b[i]) {
		i--
	}
	if i >= 0 && !utf8.FullRune(b[i:]) {
		return i
	}
	return len(b)
}

// longest entity name without '&' and ';'
const maxEntityName = 4

// entityPrefix returns length of b without trailing unterminated entity
// together with "&amp;" sequences encoding it, so entities are decoded
// whole. Zero means nothing could be kept.
func entityPrefix(b []byte) int {
	cut := len(b)
	if amp := bytes.LastIndexByte(b, '&'); amp >= 0 && len(b)-amp <= maxEntityName+1 && allLetters(b[amp+1:]) {
		cut = amp
	}
	for bytes.HasSuffix(b[:cut], []byte("&amp;")) {
		cut -= len("&amp;")
	}
	return cut
}

func allLetters(b []byte) bool {
	for _, c := range b {
		if !('a' <= c && c <= 'z' || 'A' <= c && c <= 'Z') {
			return false
		}
	}
	return true
}

var entities = strings.NewReplacer(
	"&lt;", "<",
	"&gt;", ">",
	"&amp;", "&",
	"&apos;", "'",
	"&quot;", `"`,
)

// decodeEntities replaces basic entities repeatedly, so that doubly encoded
// text (&amp;lt;) ends up decoded completely.
func decodeEntities(s string) string {
	for strings.IndexByte(s, '&') >= 0 {
		d := entities.Replace(s)
		if d == s {
			break
		}
		s = d
	}
	return s
}

// labelBuffer collects visible text of a note reference.
type labelBuffer struct {
	buf []byte
}

const maxLabelBytes = 63

func (l *labelBuffer) write(data []byte) {
	for _, c := range data {
		if isSpace(c) || c == '[' || c == ']' {
			continue
		}
		if len(l.buf) >= maxLabelBytes {
			return
		}
		l.buf = append(l.buf, c)
	}
}

func (l *labelBuffer) String() string {
	return decodeEntities(string(l.buf[:completePrefix(l.buf)]))
}
