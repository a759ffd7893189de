package layout

import (
	"slices"

	"go.uber.org/zap"

	"pager/metrics"
)

// MaxFootnotesPerPage bounds number of footnote references kept per page.
const MaxFootnotesPerPage = 16

// PlacedLine is a line with its vertical offset on the page.
type PlacedLine struct {
	Line
	Y int
}

// Page is a single screen of laid out text.
type Page struct {
	Lines     []PlacedLine
	Footnotes []FootnoteEntry
}

// HasAnchor reports whether element with id starts on this page.
func (p *Page) HasAnchor(id string) bool {
	for _, l := range p.Lines {
		if slices.Contains(l.Anchors, id) {
			return true
		}
	}
	return false
}

// Paginator places lines on pages of fixed height and hands complete pages
// to the completion callback.
type Paginator struct {
	height       int
	lineHeight   int
	maxLines     int
	completePage func(*Page)
	log          *zap.Logger

	page  *Page
	nextY int
	count int
}

// NewPaginator creates paginator for viewport height. Line height of the
// font is scaled by compression.
func NewPaginator(m metrics.Provider, font, viewportHeight int, compression float64, maxLines int, completePage func(*Page), log *zap.Logger) *Paginator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Paginator{
		height:       viewportHeight,
		lineHeight:   int(float64(m.LineHeight(font)) * compression),
		maxLines:     maxLines,
		completePage: completePage,
		log:          log,
	}
}

// LineHeight returns scaled line height.
func (p *Paginator) LineHeight() int {
	return p.lineHeight
}

// Pages returns number of pages emitted so far.
func (p *Paginator) Pages() int {
	return p.count
}

func (p *Paginator) emit() {
	p.count++
	if p.completePage != nil {
		p.completePage(p.page)
	}
	p.page = nil
}

// AddLine places line at the cursor, starting a new page when line would
// not fit.
func (p *Paginator) AddLine(line Line) {
	if p.page != nil && p.nextY+p.lineHeight > p.height {
		p.emit()
	}
	if p.page == nil {
		p.page = &Page{}
		p.nextY = 0
	}

	y := p.nextY
	p.nextY += p.lineHeight
	if p.maxLines > 0 && len(p.page.Lines) >= p.maxLines {
		p.log.Warn("Page line capacity reached, dropping line", zap.Int("capacity", p.maxLines), zap.String("text", line.Text()))
		return
	}
	p.page.Lines = append(p.page.Lines, PlacedLine{Line: line, Y: y})

	for _, fn := range line.Footnotes {
		if len(p.page.Footnotes) >= MaxFootnotesPerPage {
			p.log.Debug("Too many footnotes on page, dropping", zap.String("number", fn.Number), zap.String("href", fn.Href))
			continue
		}
		p.page.Footnotes = append(p.page.Footnotes, fn)
	}
}

// EndBlock is called after all lines of a paragraph were placed.
func (p *Paginator) EndBlock(extraSpacing bool) {
	if extraSpacing && p.page != nil {
		p.nextY += p.lineHeight / 2
	}
}

// Finish emits the last page if it has any lines.
func (p *Paginator) Finish() {
	if p.page != nil && len(p.page.Lines) > 0 {
		p.emit()
	}
	p.page = nil
	p.nextY = 0
}

// Discard drops unfinished page without emitting it.
func (p *Paginator) Discard() {
	p.page = nil
	p.nextY = 0
}
