package chapter

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"go.uber.org/zap/zaptest"

	"pager/common"
	"pager/layout"
	"pager/metrics"
)

const (
	docHead = `<?xml version="1.0" encoding="UTF-8"?>
<html xmlns="http://www.w3.org/1999/xhtml" xmlns:epub="http://www.idpf.org/2007/ops">
<head><title>Chapter title</title></head>
<body>
`
	docTail = `
</body>
</html>
`
)

// xhtml wraps body content into complete document.
func xhtml(body string) string {
	return docHead + body + docTail
}

// testOptions uses one pixel per character and ten pixel lines, so that
// widths are character counts.
func testOptions() Options {
	opts := DefaultOptions(metrics.Monospace{Advance: 1, Height: 10})
	opts.Width = 80
	opts.Height = 100
	opts.ExtraParagraphSpacing = false
	opts.ParagraphAlignment = common.AlignmentLeft
	opts.Hyphenation = false
	return opts
}

type parsed struct {
	pages []*layout.Page
	res   *Result
	err   error
}

func parseDoc(t *testing.T, doc string, mutate func(*Options), options ...Option) parsed {
	t.Helper()

	fsys := fstest.MapFS{"OEBPS/chapter.xhtml": &fstest.MapFile{Data: []byte(doc)}}
	opts := testOptions()
	if mutate != nil {
		mutate(&opts)
	}

	var out parsed
	p := New(fsys, "OEBPS/chapter.xhtml", opts, func(pg *layout.Page) {
		out.pages = append(out.pages, pg)
	}, zaptest.NewLogger(t), options...)
	out.res, out.err = p.ParseAndBuildPages(context.Background())
	return out
}

func mustParse(t *testing.T, doc string, mutate func(*Options), options ...Option) parsed {
	t.Helper()

	out := parseDoc(t, doc, mutate, options...)
	if out.err != nil {
		t.Fatalf("ParseAndBuildPages() error = %v", out.err)
	}
	return out
}

func (p parsed) words() []layout.Word {
	var words []layout.Word
	for _, pg := range p.pages {
		for _, l := range pg.Lines {
			words = append(words, l.Words...)
		}
	}
	return words
}

func (p parsed) texts() []string {
	var texts []string
	for _, w := range p.words() {
		texts = append(texts, w.Text)
	}
	return texts
}

func (p parsed) lines() []string {
	var lines []string
	for _, pg := range p.pages {
		for _, l := range pg.Lines {
			lines = append(lines, l.Text())
		}
	}
	return lines
}

func (p parsed) find(text string) (layout.Word, bool) {
	for _, w := range p.words() {
		if w.Text == text {
			return w, true
		}
	}
	return layout.Word{}, false
}

func (p parsed) footnotes() []layout.FootnoteEntry {
	var entries []layout.FootnoteEntry
	for _, pg := range p.pages {
		entries = append(entries, pg.Footnotes...)
	}
	return entries
}

func (p parsed) contains(text string) bool {
	for _, s := range p.texts() {
		if strings.Contains(s, text) {
			return true
		}
	}
	return false
}
