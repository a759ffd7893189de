package cache

import (
	"fmt"

	"github.com/amazon-ion/ion-go/ion"

	"pager/common"
	"pager/layout"
)

// Page records are stored as binary Ion values, one per page.

type footnoteRecord struct {
	Number string `ion:"number"`
	Href   string `ion:"href"`
	Inline bool   `ion:"inline"`
}

type wordRecord struct {
	Text     string          `ion:"text"`
	Style    int64           `ion:"style"`
	Footnote *footnoteRecord `ion:"footnote,omitempty"`
	Anchors  []string        `ion:"anchors,omitempty"`
}

type lineRecord struct {
	Y         int64        `ion:"y"`
	Width     int64        `ion:"width"`
	Alignment int64        `ion:"alignment"`
	Words     []wordRecord `ion:"words"`
	XPos      []int64      `ion:"xpos"`
}

type pageRecord struct {
	Lines     []lineRecord     `ion:"lines"`
	Footnotes []footnoteRecord `ion:"footnotes,omitempty"`
}

func toFootnote(fn layout.FootnoteEntry) footnoteRecord {
	return footnoteRecord{Number: fn.Number, Href: fn.Href, Inline: fn.Inline}
}

func (r footnoteRecord) entry() layout.FootnoteEntry {
	return layout.FootnoteEntry{Number: r.Number, Href: r.Href, Inline: r.Inline}
}

func encodePage(p *layout.Page) ([]byte, error) {
	rec := pageRecord{Lines: make([]lineRecord, 0, len(p.Lines))}
	for _, l := range p.Lines {
		lr := lineRecord{
			Y:         int64(l.Y),
			Width:     int64(l.Width),
			Alignment: int64(l.Alignment),
			Words:     make([]wordRecord, 0, len(l.Words)),
			XPos:      make([]int64, 0, len(l.XPos)),
		}
		for _, w := range l.Words {
			wr := wordRecord{Text: w.Text, Style: int64(w.Style), Anchors: w.Anchors}
			if w.Footnote != nil {
				fn := toFootnote(*w.Footnote)
				wr.Footnote = &fn
			}
			lr.Words = append(lr.Words, wr)
		}
		for _, x := range l.XPos {
			lr.XPos = append(lr.XPos, int64(x))
		}
		rec.Lines = append(rec.Lines, lr)
	}
	for _, fn := range p.Footnotes {
		rec.Footnotes = append(rec.Footnotes, toFootnote(fn))
	}

	data, err := ion.MarshalBinary(rec)
	if err != nil {
		return nil, fmt.Errorf("unable to encode page: %w", err)
	}
	return data, nil
}

// decodePage restores page, line footnotes and anchors are derived from
// words the same way line breaker does it.
func decodePage(data []byte) (*layout.Page, error) {
	var rec pageRecord
	if err := ion.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("unable to decode page: %w", err)
	}

	p := &layout.Page{Lines: make([]layout.PlacedLine, 0, len(rec.Lines))}
	for _, lr := range rec.Lines {
		line := layout.Line{
			Width:     int(lr.Width),
			Alignment: common.Alignment(lr.Alignment),
			Words:     make([]layout.Word, 0, len(lr.Words)),
			XPos:      make([]int, 0, len(lr.XPos)),
		}
		for _, wr := range lr.Words {
			w := layout.Word{Text: wr.Text, Style: common.FontStyle(wr.Style)}
			if len(wr.Anchors) > 0 {
				w.Anchors = wr.Anchors
				line.Anchors = append(line.Anchors, wr.Anchors...)
			}
			if wr.Footnote != nil {
				fn := wr.Footnote.entry()
				w.Footnote = &fn
				line.Footnotes = append(line.Footnotes, fn)
			}
			line.Words = append(line.Words, w)
		}
		for _, x := range lr.XPos {
			line.XPos = append(line.XPos, int(x))
		}
		p.Lines = append(p.Lines, layout.PlacedLine{Line: line, Y: int(lr.Y)})
	}
	for _, fr := range rec.Footnotes {
		p.Footnotes = append(p.Footnotes, fr.entry())
	}
	return p, nil
}
