// Package notes keeps footnote bodies found in a chapter and resolves
// references to them.
package notes

import (
	"fmt"
	"slices"
	"strings"

	"github.com/beevik/etree"
	"github.com/maruel/natural"
	"go.uber.org/zap"

	"pager/layout"
	"pager/utils/debug"
)

const (
	// MaxInlineText bounds body of an aside footnote (bytes).
	MaxInlineText = 2048
	// MaxParagraphText bounds body of a paragraph note (bytes).
	MaxParagraphText = 512
	// MaxIDLen bounds note anchor id (bytes), so that generated destination
	// "inline_<id>.html#<id>" fits footnote href.
	MaxIDLen = (layout.MaxHrefLen - len(inlinePrefix) - len(pageSuffix) - 1) / 2
	// DefaultMaxEntries is used when table size is not specified.
	DefaultMaxEntries = 256

	inlinePrefix    = "inline_"
	paragraphPrefix = "pnote_"
	pageSuffix      = ".html"
)

// Note is a footnote body keyed by anchor id.
type Note struct {
	ID   string
	Text string
}

// Table holds notes of a single chapter. It is filled while scanning the
// chapter for the first time and is read only afterwards.
type Table struct {
	inline     []Note
	paragraph  []Note
	byInline   map[string]int
	byPara     map[string]int
	maxEntries int
	log        *zap.Logger
}

func NewTable(maxEntries int, log *zap.Logger) *Table {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Table{
		byInline:   make(map[string]int),
		byPara:     make(map[string]int),
		maxEntries: maxEntries,
		log:        log.Named("notes"),
	}
}

func (t *Table) add(notes *[]Note, index map[string]int, kind, id, text string) bool {
	if len(id) == 0 {
		return false
	}
	if len(id) > MaxIDLen {
		// truncated id would never match references
		t.log.Debug("Note id is too long, dropping", zap.String("kind", kind), zap.String("id", id), zap.Int("limit", MaxIDLen))
		return false
	}
	if _, exists := index[id]; exists {
		t.log.Debug("Duplicate note id, keeping first", zap.String("kind", kind), zap.String("id", id))
		return false
	}
	if len(*notes) >= t.maxEntries {
		t.log.Warn("Too many notes in chapter, dropping", zap.String("kind", kind), zap.String("id", id), zap.Int("limit", t.maxEntries))
		return false
	}
	index[id] = len(*notes)
	*notes = append(*notes, Note{ID: id, Text: text})
	return true
}

// AddInline stores body of an aside footnote.
func (t *Table) AddInline(id, text string) bool {
	return t.add(&t.inline, t.byInline, "inline", id, text)
}

// AddParagraph stores body of a paragraph note.
func (t *Table) AddParagraph(id, text string) bool {
	return t.add(&t.paragraph, t.byPara, "paragraph", id, text)
}

func (t *Table) Inline(id string) (Note, bool) {
	if i, ok := t.byInline[id]; ok {
		return t.inline[i], true
	}
	return Note{}, false
}

func (t *Table) Paragraph(id string) (Note, bool) {
	if i, ok := t.byPara[id]; ok {
		return t.paragraph[i], true
	}
	return Note{}, false
}

func (t *Table) InlineCount() int {
	return len(t.inline)
}

func (t *Table) ParagraphCount() int {
	return len(t.paragraph)
}

func InlinePageName(id string) string {
	return inlinePrefix + id + pageSuffix
}

func ParagraphPageName(id string) string {
	return paragraphPrefix + id + pageSuffix
}

// PageNoteID returns note id of generated note page name.
func PageNoteID(name string) (string, bool) {
	rest, ok := strings.CutSuffix(name, pageSuffix)
	if !ok {
		return "", false
	}
	for _, prefix := range []string{inlinePrefix, paragraphPrefix} {
		if id, ok := strings.CutPrefix(rest, prefix); ok && id != "" {
			return id, true
		}
	}
	return "", false
}

// Resolve builds footnote entry for reference with display label and
// original href. When href fragment names a known note destination points
// to generated note page, otherwise href is kept as is.
func (t *Table) Resolve(label, href string) layout.FootnoteEntry {
	dest, inline := href, false
	if i := strings.IndexByte(href, '#'); i >= 0 {
		id := href[i+1:]
		if _, ok := t.byInline[id]; ok {
			dest, inline = InlinePageName(id)+"#"+id, true
		} else if _, ok := t.byPara[id]; ok {
			dest, inline = ParagraphPageName(id)+"#"+id, true
		}
		if len(dest) > layout.MaxHrefLen {
			dest, inline = href, false
		}
	}
	entry, cut := layout.NewFootnoteEntry(label, dest, inline)
	if cut {
		t.log.Debug("Footnote reference truncated", zap.String("label", label), zap.String("href", dest))
	}
	return entry
}

// InlineNotes returns inline footnotes in document order.
func (t *Table) InlineNotes() []Note {
	return slices.Clone(t.inline)
}

// ParagraphNotes returns paragraph notes in document order.
func (t *Table) ParagraphNotes() []Note {
	return slices.Clone(t.paragraph)
}

// Names returns names of generated note pages in document order, inline
// notes first.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.inline)+len(t.paragraph))
	for _, n := range t.inline {
		names = append(names, InlinePageName(n.ID))
	}
	for _, n := range t.paragraph {
		names = append(names, ParagraphPageName(n.ID))
	}
	return names
}

// Document builds XHTML page for generated note name. Note body is placed
// into element with note id, so the page could be paginated and the
// fragment located.
func (t *Table) Document(name string) (*etree.Document, bool) {
	var (
		note  Note
		ok    bool
		class string
	)
	base := strings.TrimSuffix(name, pageSuffix)
	switch {
	case strings.HasPrefix(base, inlinePrefix):
		note, ok = t.Inline(strings.TrimPrefix(base, inlinePrefix))
		class = "inline-note"
	case strings.HasPrefix(base, paragraphPrefix):
		note, ok = t.Paragraph(strings.TrimPrefix(base, paragraphPrefix))
		class = "paragraph-note"
	}
	if !ok || !strings.HasSuffix(name, pageSuffix) {
		return nil, false
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	html := doc.CreateElement("html")
	html.CreateAttr("xmlns", "http://www.w3.org/1999/xhtml")
	html.CreateElement("head").CreateElement("title").SetText(note.ID)
	div := html.CreateElement("body").CreateElement("div")
	div.CreateAttr("id", note.ID)
	div.CreateAttr("class", class)
	div.CreateElement("p").SetText(note.Text)
	doc.Indent(2)
	return doc, true
}

// String dumps table content for debug reports.
func (t *Table) String() string {
	tw := debug.NewTreeWriter()
	tw.MaxText = 80
	dump := func(kind string, notes []Note) {
		tw.Line(0, "%s notes: %d", kind, len(notes))
		sorted := slices.Clone(notes)
		slices.SortFunc(sorted, func(a, b Note) int {
			switch {
			case natural.Less(a.ID, b.ID):
				return -1
			case natural.Less(b.ID, a.ID):
				return 1
			}
			return 0
		})
		for _, n := range sorted {
			tw.TextBlock(1, n.ID, n.Text)
		}
	}
	dump("inline", t.inline)
	dump("paragraph", t.paragraph)
	return tw.String()
}

// Summary is a short description for logging.
func (t *Table) Summary() string {
	return fmt.Sprintf("%d inline, %d paragraph", len(t.inline), len(t.paragraph))
}
