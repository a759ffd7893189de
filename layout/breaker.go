package layout

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"pager/common"
	"pager/metrics"
)

// Hyphenator reports byte offsets inside word where it could be split.
type Hyphenator interface {
	Breakpoints(word string) []int
}

// Line is a set of words which fits width budget.
type Line struct {
	Words []Word
	// XPos has horizontal offset of every word
	XPos      []int
	Width     int
	Alignment common.Alignment
	Footnotes []FootnoteEntry
	Anchors   []string
}

// Text returns line words separated by single spaces.
func (l Line) Text() string {
	var sb strings.Builder
	for i, w := range l.Words {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(w.Text)
	}
	return sb.String()
}

// Breaker packs words into lines greedily.
type Breaker struct {
	Metrics metrics.Provider
	Font    int
	// Width is the line width budget in pixels
	Width int
	// Indent is deducted from the first line of every paragraph
	Indent int
	// Hyphenator is optional
	Hyphenator Hyphenator
	Log        *zap.Logger
}

func (br *Breaker) log() *zap.Logger {
	if br.Log == nil {
		return zap.NewNop()
	}
	return br.Log
}

func (br *Breaker) width(w Word) int {
	return br.Metrics.TextWidth(br.Font, w.Style, w.Text)
}

func (br *Breaker) space() int {
	return br.Metrics.SpaceWidth(br.Font, common.FontStyleRegular)
}

// split distributes words into lines. Words may be split in two by
// hyphenation or, when a word is wider than the whole line, at the character
// level.
func (br *Breaker) split(words []Word, firstIndent int, hyphenate bool) [][]Word {
	var (
		spans   [][]Word
		cur     []Word
		curW    int
		avail   = br.Width - firstIndent
		space   = br.space()
		pending *Word
		i       int
	)

	newLine := func() {
		spans = append(spans, cur)
		cur, curW, avail = nil, 0, br.Width
	}

	for {
		var w Word
		switch {
		case pending != nil:
			w, pending = *pending, nil
		case i < len(words):
			w = words[i]
			i++
		default:
			if len(cur) > 0 {
				spans = append(spans, cur)
			}
			return spans
		}

		need := br.width(w)
		if len(cur) > 0 {
			need += space
		}
		if curW+need <= avail {
			cur = append(cur, w)
			curW += need
			continue
		}

		room := avail - curW
		if len(cur) > 0 {
			room -= space
		}
		if hyphenate && br.Hyphenator != nil && room > 0 {
			if head, tail, ok := br.hyphenate(w, room); ok {
				cur = append(cur, head)
				newLine()
				pending = &tail
				continue
			}
		}

		if len(cur) > 0 {
			// retry on the next line
			newLine()
			pending = &w
			continue
		}

		// word alone is wider than an empty line
		head, tail := br.force(w, avail)
		cur = append(cur, head)
		newLine()
		if len(tail.Text) > 0 {
			pending = &tail
		}
	}
}

// hyphenate splits word at the right-most hyphenation point for which prefix
// with hyphen fits into room.
func (br *Breaker) hyphenate(w Word, room int) (Word, Word, bool) {
	points := br.Hyphenator.Breakpoints(w.Text)
	for k := len(points) - 1; k >= 0; k-- {
		p := points[k]
		if p <= 0 || p >= len(w.Text) {
			continue
		}
		text := w.Text[:p]
		if !strings.HasSuffix(text, "-") {
			text += "-"
		}
		head := Word{Text: text, Style: w.Style, Anchors: w.Anchors}
		if br.width(head) <= room {
			return head, Word{Text: w.Text[p:], Style: w.Style, Footnote: w.Footnote}, true
		}
	}
	return Word{}, Word{}, false
}

// force breaks word at the last character boundary which still fits avail.
// At least one character is always taken, so a single glyph wider than the
// line is the only way to overflow.
func (br *Breaker) force(w Word, avail int) (Word, Word) {
	// rune start offsets, prefix w.Text[:bounds[k]] holds k+1 runes
	bounds := make([]int, 0, utf8.RuneCountInString(w.Text))
	for i := range w.Text {
		if i > 0 {
			bounds = append(bounds, i)
		}
	}
	bounds = append(bounds, len(w.Text))

	fits := func(k int) bool {
		return br.Metrics.TextWidth(br.Font, w.Style, w.Text[:bounds[k]]) <= avail
	}

	// binary search for the longest fitting prefix
	lo, hi := 0, len(bounds)-1
	if !fits(0) {
		br.log().Warn("Glyph is wider than the line", zap.String("word", w.Text), zap.Int("width", avail))
		hi = 0
	}
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if fits(mid) {
			lo = mid
		} else {
			hi = mid - 1
		}
	}

	cut := bounds[lo]
	br.log().Debug("Forced word break", zap.String("word", w.Text), zap.Int("at", cut))
	return Word{Text: w.Text[:cut], Style: w.Style, Anchors: w.Anchors},
		Word{Text: w.Text[cut:], Style: w.Style, Footnote: w.Footnote}
}

// makeLine positions words according to alignment. Justified lines stretch
// gaps, except for the last line of a block which is left aligned.
func (br *Breaker) makeLine(words []Word, alignment common.Alignment, indent int, last bool) Line {
	line := Line{
		Words:     words,
		XPos:      make([]int, len(words)),
		Alignment: alignment,
	}

	space := br.space()
	widths := make([]int, len(words))
	for i, w := range words {
		widths[i] = br.width(w)
		line.Width += widths[i]
		if i > 0 {
			line.Width += space
		}
		if w.Footnote != nil {
			line.Footnotes = append(line.Footnotes, *w.Footnote)
		}
		line.Anchors = append(line.Anchors, w.Anchors...)
	}

	avail := br.Width - indent
	slack := max(avail-line.Width, 0)

	x := indent
	gap, extra := space, 0
	switch alignment {
	case common.AlignmentRight:
		x += slack
	case common.AlignmentCenter:
		x += slack / 2
	case common.AlignmentJustified:
		if !last && len(words) > 1 {
			gaps := len(words) - 1
			gap += slack / gaps
			extra = slack % gaps
		}
	}

	for i := range words {
		line.XPos[i] = x
		x += widths[i] + gap
		if i < extra {
			x++
		}
	}
	return line
}
