package layout

import "pager/common"

// TextBlock accumulates words of a single paragraph until they are laid out.
type TextBlock struct {
	words        []Word
	alignment    common.Alignment
	extraSpacing bool
	hyphenation  bool
	// continuation blocks are started by line breaks inside a paragraph and
	// get no first line indent
	continuation bool
	// set on blocks ended by a line break, paragraph spacing does not follow
	lineBreak bool
	// set once the first line of the block was extracted
	indented bool
}

func NewTextBlock(alignment common.Alignment, extraSpacing, hyphenation bool) *TextBlock {
	return &TextBlock{
		alignment:    alignment,
		extraSpacing: extraSpacing,
		hyphenation:  hyphenation,
	}
}

// AddWord appends word to the block, words without text are ignored.
func (b *TextBlock) AddWord(w Word) {
	if len(w.Text) == 0 {
		return
	}
	b.words = append(b.words, w)
}

func (b *TextBlock) Size() int {
	return len(b.words)
}

func (b *TextBlock) IsEmpty() bool {
	return len(b.words) == 0
}

func (b *TextBlock) Alignment() common.Alignment {
	return b.alignment
}

func (b *TextBlock) SetAlignment(a common.Alignment) {
	b.alignment = a
}

// ExtraSpacing reports whether paragraph spacing follows this block.
func (b *TextBlock) ExtraSpacing() bool {
	return b.extraSpacing && !b.lineBreak
}

// SetLineBreak marks block as ended by an explicit line break.
func (b *TextBlock) SetLineBreak(br bool) {
	b.lineBreak = br
}

func (b *TextBlock) Continuation() bool {
	return b.continuation
}

func (b *TextBlock) SetContinuation(c bool) {
	b.continuation = c
}

// Words returns words not yet extracted. Returned slice must not be modified.
func (b *TextBlock) Words() []Word {
	return b.words
}

// LayoutAndExtractLines breaks block into lines and hands them to
// processLine in order. When includeLastLine is false the final line is not
// delivered and its words stay in the block, so more words could join it
// later.
func (b *TextBlock) LayoutAndExtractLines(br *Breaker, processLine func(Line), includeLastLine bool) {
	if len(b.words) == 0 {
		return
	}

	firstIndent := 0
	if !b.indented && !b.continuation {
		firstIndent = br.Indent
	}

	spans := br.split(b.words, firstIndent, b.hyphenation)

	n := len(spans)
	if !includeLastLine {
		n--
	}
	for i := range n {
		indent := 0
		if i == 0 {
			indent = firstIndent
		}
		last := includeLastLine && i == len(spans)-1
		processLine(br.makeLine(spans[i], b.alignment, indent, last))
	}
	if n > 0 {
		b.indented = true
	}

	if includeLastLine || len(spans) == 0 {
		b.words = b.words[:0]
		return
	}
	b.words = append(b.words[:0], spans[len(spans)-1]...)
}
