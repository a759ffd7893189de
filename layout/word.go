// Package layout turns styled words into lines and lines into pages.
package layout

import (
	"unicode/utf8"

	"pager/common"
)

const (
	// MaxLabelLen bounds footnote display label (bytes).
	MaxLabelLen = 7
	// MaxHrefLen bounds footnote destination (bytes).
	MaxHrefLen = 127
)

// FootnoteEntry is a reference to a note shown on a page.
type FootnoteEntry struct {
	Number string
	Href   string
	// Inline is set when Href points to a generated note page rather than
	// original document location.
	Inline bool
}

// NewFootnoteEntry creates entry with label and destination truncated to
// their limits. Second value reports whether anything was cut.
func NewFootnoteEntry(label, href string, inline bool) (FootnoteEntry, bool) {
	number, cutNumber := Truncate(label, MaxLabelLen)
	dest, cutHref := Truncate(href, MaxHrefLen)
	return FootnoteEntry{Number: number, Href: dest, Inline: inline}, cutNumber || cutHref
}

// Word is a unit of text which is never broken by layout unless it does not
// fit the line.
type Word struct {
	Text     string
	Style    common.FontStyle
	Footnote *FootnoteEntry
	// Anchors are element ids located at this word.
	Anchors []string
}

// Truncate cuts s to at most limit bytes without splitting UTF-8 sequences.
func Truncate(s string, limit int) (string, bool) {
	if len(s) <= limit {
		return s, false
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut], true
}
