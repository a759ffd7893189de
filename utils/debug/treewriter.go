// Package debug has helpers to produce human readable dumps for debug
// reports.
package debug

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

const indent = "  "

// TreeWriter accumulates indented dump of nested values, one item per line.
type TreeWriter struct {
	b strings.Builder
	// MaxText limits length (in runes) of text values, 0 means no limit.
	MaxText int
}

func NewTreeWriter() *TreeWriter {
	return &TreeWriter{}
}

func (tw *TreeWriter) String() string {
	return tw.b.String()
}

func (tw *TreeWriter) pad(depth int) {
	tw.b.WriteString(strings.Repeat(indent, max(depth, 0)))
}

// Line writes formatted line at requested depth.
func (tw *TreeWriter) Line(depth int, format string, args ...any) {
	tw.pad(depth)
	fmt.Fprintf(&tw.b, format, args...)
	tw.b.WriteByte('\n')
}

// Field writes "key: value" line.
func (tw *TreeWriter) Field(depth int, key string, value any) {
	tw.pad(depth)
	fmt.Fprintf(&tw.b, "%s: %v\n", key, value)
}

// TextBlock writes label with quoted text. Empty text stays unquoted so
// missing values are easy to spot.
func (tw *TreeWriter) TextBlock(depth int, label, value string) {
	tw.pad(depth)
	tw.b.WriteString(label)
	tw.b.WriteString(": ")
	tw.b.WriteString(tw.quote(value))
	tw.b.WriteByte('\n')
}

// List writes label followed by quoted items on a single line.
func (tw *TreeWriter) List(depth int, label string, items []string) {
	quoted := make([]string, 0, len(items))
	for _, item := range items {
		quoted = append(quoted, strconv.Quote(item))
	}
	tw.pad(depth)
	fmt.Fprintf(&tw.b, "%s: [%s]\n", label, strings.Join(quoted, ", "))
}

func (tw *TreeWriter) quote(s string) string {
	if s == "" {
		return s
	}
	if tw.MaxText > 0 && utf8.RuneCountInString(s) > tw.MaxText {
		r := []rune(s)
		return strconv.Quote(string(r[:tw.MaxText])) + "..."
	}
	return strconv.Quote(s)
}
