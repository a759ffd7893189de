package layout

import (
	"pager/utils/debug"
)

// String dumps page content for debug reports.
func (p *Page) String() string {
	tw := debug.NewTreeWriter()
	tw.Line(0, "page lines=%d footnotes=%d", len(p.Lines), len(p.Footnotes))
	for _, l := range p.Lines {
		tw.Line(1, "line y=%d width=%d align=%s", l.Y, l.Width, l.Alignment)
		tw.TextBlock(2, "text", l.Text())
		if len(l.Anchors) > 0 {
			tw.List(2, "anchors", l.Anchors)
		}
	}
	for _, fn := range p.Footnotes {
		tw.Line(1, "footnote [%s] -> %s inline=%t", fn.Number, fn.Href, fn.Inline)
	}
	return tw.String()
}
