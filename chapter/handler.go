package chapter

import (
	"math"
	"slices"
	"strings"

	"go.uber.org/zap"

	"pager/common"
	"pager/css"
	"pager/layout"
	"pager/notes"
)

const (
	unbounded = math.MaxInt

	maxPendingAnchors = 8
	maxAltBytes       = 128

	bullet           = "•"
	tablePlaceholder = "[Table omitted]"
)

var (
	headerTags = map[string]bool{"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true}
	blockTags  = map[string]bool{"p": true, "li": true, "div": true, "br": true, "blockquote": true}
	boldTags   = map[string]bool{"b": true, "strong": true}
	italicTags = map[string]bool{"i": true, "em": true}
	skipTags   = map[string]bool{"head": true, "script": true, "style": true}

	externalSchemes = []string{"http:", "https:", "ftp://", "mailto:", "tel:", "sms:", "javascript:"}
)

type pass int

const (
	passCollect pass = iota
	passBuild
)

func (p pass) String() string {
	if p == passCollect {
		return "collect notes"
	}
	return "build pages"
}

// hasToken reports whether space separated attribute value contains tok.
func hasToken(value, tok string) bool {
	return slices.Contains(strings.Fields(value), tok)
}

func isFootnoteAside(t *token) (string, bool) {
	if t.name != "aside" {
		return "", false
	}
	typ, _ := t.attr("epub:type")
	id, _ := t.attr("id")
	return id, hasToken(typ, "footnote") && len(id) > 0
}

func isParagraphNote(t *token) bool {
	if t.name != "p" {
		return false
	}
	class, _ := t.attr("class")
	return hasToken(class, "note")
}

func isPagebreak(t *token) bool {
	if role, _ := t.attr("role"); role == "doc-pagebreak" {
		return true
	}
	typ, _ := t.attr("epub:type")
	return hasToken(typ, "pagebreak")
}

func isExternal(href string) bool {
	lower := strings.ToLower(strings.TrimSpace(href))
	for _, scheme := range externalSchemes {
		if strings.HasPrefix(lower, scheme) {
			return true
		}
	}
	return false
}

// noterefLink is an open note reference element.
type noterefLink struct {
	depth int
	href  string
	label labelBuffer
}

// handler is the tag/style-scope state machine. Instead of a stack of open
// elements it keeps nesting depth and, for every style, the shallowest depth
// at which the style was opened. Style is active while its watermark is
// below current depth.
type handler struct {
	pass  pass
	opts  *Options
	table *notes.Table
	css   *css.Parser
	log   *zap.Logger

	depth       int
	boldUntil   int
	italicUntil int
	skipUntil   int

	// collect notes
	lang      string
	noteUntil int
	noteID    string
	noteKind  string
	noteText  *notes.Collector

	// build pages
	words     *wordBuffer
	block     *layout.TextBlock
	anchors   []string
	link      *noterefLink
	breaker   *layout.Breaker
	paginator *layout.Paginator
	noteref   func(layout.FootnoteEntry)
	res       *Result
}

func newHandler(p pass, opts *Options, table *notes.Table, parser *css.Parser, log *zap.Logger) *handler {
	return &handler{
		pass:        p,
		opts:        opts,
		table:       table,
		css:         parser,
		log:         log,
		boldUntil:   unbounded,
		italicUntil: unbounded,
		skipUntil:   unbounded,
		noteUntil:   unbounded,
	}
}

// prepareBuild attaches layout machinery for the second pass.
func (h *handler) prepareBuild(br *layout.Breaker, pg *layout.Paginator, noteref func(layout.FootnoteEntry), res *Result) {
	h.words = newWordBuffer(h.opts.MaxWordBytes)
	h.breaker = br
	h.paginator = pg
	h.noteref = noteref
	h.res = res
	h.block = h.newBlock(h.opts.ParagraphAlignment)
}

func (h *handler) handle(t *token) {
	switch h.pass {
	case passCollect:
		switch t.kind {
		case tokenStart:
			h.startCollect(t)
		case tokenEnd:
			h.endCollect()
		case tokenText:
			if h.noteUntil != unbounded {
				_, _ = h.noteText.Write(t.text)
			}
		}
	case passBuild:
		switch t.kind {
		case tokenStart:
			h.startBuild(t)
		case tokenEnd:
			h.endBuild(t)
		case tokenText:
			h.text(t.text)
		}
	}
}

func (h *handler) startCollect(t *token) {
	if h.depth == 0 && t.name == "html" {
		if lang, ok := t.attr("xml:lang"); ok && lang != "" {
			h.lang = lang
		} else if lang, ok := t.attr("lang"); ok {
			h.lang = lang
		}
	}

	switch {
	case h.noteUntil == unbounded:
		if id, ok := isFootnoteAside(t); ok {
			h.openNote("inline", id, notes.MaxInlineText)
		} else if isParagraphNote(t) {
			id, _ := t.attr("id")
			h.openNote("paragraph", id, notes.MaxParagraphText)
		}
	case h.noteKind == "paragraph" && h.noteID == "" && t.name == "a":
		if id, ok := t.attr("id"); ok && id != "" {
			h.noteID = id
		} else if name, ok := t.attr("name"); ok {
			h.noteID = name
		}
	}
	h.depth++
}

func (h *handler) openNote(kind, id string, limit int) {
	h.noteUntil = h.depth
	h.noteKind = kind
	h.noteID = id
	h.noteText = notes.NewCollector(limit)
}

func (h *handler) endCollect() {
	if h.depth == 0 {
		return
	}
	h.depth--
	if h.depth != h.noteUntil {
		return
	}

	body := h.noteText.String()
	if h.noteText.Truncated() {
		h.log.Debug("Note text truncated", zap.String("kind", h.noteKind), zap.String("id", h.noteID), zap.Int("limit", h.noteText.Len()))
	}
	switch {
	case h.noteID == "":
		h.log.Debug("Discarding note without id", zap.String("kind", h.noteKind), zap.String("text", body))
	case h.noteKind == "inline":
		h.table.AddInline(h.noteID, body)
	default:
		h.table.AddParagraph(h.noteID, body)
	}
	h.noteUntil, h.noteID, h.noteKind = unbounded, "", ""
}

func (h *handler) skipping() bool {
	return h.skipUntil < h.depth
}

func (h *handler) style() common.FontStyle {
	return common.StyleOf(h.boldUntil < h.depth, h.italicUntil < h.depth)
}

func (h *handler) startBuild(t *token) {
	if h.skipping() {
		h.depth++
		return
	}

	var decls css.Declarations
	if style, ok := t.attr("style"); ok {
		decls = h.css.ParseInline([]byte(style))
	}
	if _, ok := isFootnoteAside(t); ok || skipTags[t.name] || isPagebreak(t) || decls.Hidden() {
		h.skipUntil = h.depth
		h.depth++
		return
	}

	name := t.name
	id, _ := t.attr("id")
	switch {
	case name == "a" && h.link == nil:
		if href, ok := h.noterefTarget(t); ok {
			h.flushWord()
			h.link = &noterefLink{depth: h.depth, href: href}
		}

	case name == "table":
		h.placeholder(tablePlaceholder, id)
		id = ""
		h.skipUntil = h.depth

	case name == "img":
		alt, _ := t.attr("alt")
		alt, _ = layout.Truncate(strings.TrimSpace(alt), maxAltBytes)
		text := "[Image]"
		if alt != "" {
			text = "[Image: " + alt + "]"
		}
		h.placeholder(text, id)
		id = ""
		h.skipUntil = h.depth

	case headerTags[name]:
		h.startBlock(alignmentOf(decls, common.AlignmentCenter))
		h.boldUntil = min(h.boldUntil, h.depth)

	case name == "br":
		h.breakLine()

	case blockTags[name]:
		h.startBlock(alignmentOf(decls, h.opts.ParagraphAlignment))
		if name == "li" {
			h.addWord(layout.Word{Text: bullet, Style: common.FontStyleRegular})
		}

	case boldTags[name]:
		h.boldUntil = min(h.boldUntil, h.depth)

	case italicTags[name]:
		h.italicUntil = min(h.italicUntil, h.depth)
	}

	if decls.Bold() {
		h.boldUntil = min(h.boldUntil, h.depth)
	}
	if decls.Italic() {
		h.italicUntil = min(h.italicUntil, h.depth)
	}
	if id != "" {
		h.addAnchor(id)
	}
	h.depth++
}

func alignmentOf(decls css.Declarations, def common.Alignment) common.Alignment {
	if a, ok := decls.Alignment(); ok {
		return a
	}
	return def
}

// noterefTarget decides whether link is a note reference according to
// configured detection mode.
func (h *handler) noterefTarget(t *token) (string, bool) {
	href, _ := t.attr("href")
	href = strings.TrimSpace(href)
	if href == "" {
		return "", false
	}
	if h.opts.Noterefs == common.NoterefModeStrict {
		typ, _ := t.attr("epub:type")
		class, _ := t.attr("class")
		role, _ := t.attr("role")
		return href, hasToken(typ, "noteref") || hasToken(class, "noteref") || role == "doc-noteref"
	}
	return href, !isExternal(href)
}

func (h *handler) endBuild(t *token) {
	if h.depth == 0 {
		// stray end tag
		return
	}

	if h.link != nil && t.name == "a" && h.depth == h.link.depth+1 {
		h.finishNoteref()
	}

	if !h.skipping() {
		switch {
		case blockTags[t.name], headerTags[t.name], boldTags[t.name], italicTags[t.name],
			t.name == "table", t.name == "img", h.depth == 1:
			h.flushWord()
		case h.boldUntil == h.depth-1, h.italicUntil == h.depth-1:
			// style scope opened by inline style ends here
			h.flushWord()
		}
	}

	h.depth--
	if h.skipUntil == h.depth {
		h.skipUntil = unbounded
	}
	if h.boldUntil == h.depth {
		h.boldUntil = unbounded
	}
	if h.italicUntil == h.depth {
		h.italicUntil = unbounded
	}
}

func (h *handler) text(data []byte) {
	if h.link != nil {
		h.link.label.write(data)
		return
	}
	if h.skipping() {
		return
	}

	for i := 0; i < len(data); i++ {
		c := data[i]
		if isSpace(c) {
			h.flushWord()
			continue
		}
		if c == bom[0] && i+2 < len(data) && data[i+1] == bom[1] && data[i+2] == bom[2] {
			i += 2
			continue
		}
		if h.words.full() {
			h.addWord(layout.Word{Text: decodeEntities(h.words.split()), Style: h.style()})
		}
		h.words.add(c)
	}
}

func (h *handler) finishNoteref() {
	link := h.link
	h.link = nil

	label := link.label.String()
	if label == "" {
		return
	}
	entry := h.table.Resolve(label, link.href)
	h.res.Noterefs++
	if h.noteref != nil {
		h.noteref(entry)
	}
	h.addWord(layout.Word{Text: "[" + label + "]", Style: h.style(), Footnote: &entry})
}

// placeholder adds a single word in its own centered block instead of
// element content.
func (h *handler) placeholder(text, id string) {
	h.startBlock(common.AlignmentCenter)
	if id != "" {
		h.addAnchor(id)
	}
	h.addWord(layout.Word{Text: text, Style: common.StyleOf(h.style().IsBold(), true)})
	h.startBlock(h.opts.ParagraphAlignment)
}

func (h *handler) addAnchor(id string) {
	if len(h.anchors) >= maxPendingAnchors {
		h.log.Debug("Too many pending anchors, dropping", zap.String("id", id))
		return
	}
	h.anchors = append(h.anchors, id)
}

func (h *handler) flushWord() {
	if h.words.len() == 0 {
		return
	}
	h.addWord(layout.Word{Text: decodeEntities(h.words.take()), Style: h.style()})
}

func (h *handler) addWord(w layout.Word) {
	if len(w.Text) == 0 {
		return
	}
	if len(h.anchors) > 0 {
		w.Anchors = h.anchors
		h.anchors = nil
	}
	h.block.AddWord(w)

	if h.block.Size() > h.opts.MaxBlockWords {
		h.log.Debug("Text block too long, laying out early", zap.Int("words", h.block.Size()))
		h.block.LayoutAndExtractLines(h.breaker, h.paginator.AddLine, false)
		h.res.ProactiveFlushes++
	}
}

func (h *handler) newBlock(a common.Alignment) *layout.TextBlock {
	return layout.NewTextBlock(a, h.opts.ExtraParagraphSpacing, h.opts.Hyphenation)
}

// startBlock finishes current paragraph. Empty block is reused.
func (h *handler) startBlock(a common.Alignment) {
	h.flushWord()
	if h.block.IsEmpty() {
		h.block.SetAlignment(a)
		h.block.SetContinuation(false)
		return
	}
	h.makePages()
	h.block = h.newBlock(a)
}

// breakLine continues paragraph in a new block starting on the next line.
func (h *handler) breakLine() {
	h.flushWord()
	if h.block.IsEmpty() {
		return
	}
	h.block.SetLineBreak(true)
	a := h.block.Alignment()
	h.makePages()
	h.block = h.newBlock(a)
	h.block.SetContinuation(true)
}

func (h *handler) makePages() {
	if h.block.IsEmpty() {
		return
	}
	h.block.LayoutAndExtractLines(h.breaker, h.paginator.AddLine, true)
	h.paginator.EndBlock(h.block.ExtraSpacing())
}

// finish flushes everything still buffered at the end of document.
func (h *handler) finish() {
	if h.link != nil {
		h.log.Debug("Unterminated note reference", zap.String("href", h.link.href))
		h.link = nil
	}
	h.flushWord()
	h.makePages()
	h.paginator.Finish()
}
