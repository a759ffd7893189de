// Package chapter turns a single chapter document into pages.
//
// Document is read twice. The first pass collects footnote bodies so that
// references could be resolved even when they precede the notes. The second
// pass builds styled words, breaks them into lines and places lines on pages
// which are handed out through a callback as soon as they are complete.
package chapter

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"pager/css"
	"pager/layout"
	"pager/notes"
	"pager/utils/debug"
)

// Result describes parsed chapter.
type Result struct {
	Pages            int
	InlineNotes      int
	ParagraphNotes   int
	Noterefs         int
	ProactiveFlushes int
	// Language is declared by the document, may be empty
	Language string
	// Notes are read only
	Notes *notes.Table
}

// String dumps result for debug reports.
func (r *Result) String() string {
	tw := debug.NewTreeWriter()
	tw.Line(0, "Result")
	tw.Field(1, "pages", r.Pages)
	tw.Field(1, "noterefs", r.Noterefs)
	tw.Field(1, "proactive flushes", r.ProactiveFlushes)
	tw.TextBlock(1, "language", r.Language)
	if r.Notes != nil {
		tw.Line(1, "notes: %s", r.Notes.Summary())
	}
	return tw.String()
}

// Parser loads chapter from file system.
type Parser struct {
	fsys         fs.FS
	name         string
	opts         Options
	completePage func(*layout.Page)
	progress     func(int)
	noteref      func(layout.FootnoteEntry)
	css          *css.Parser
	log          *zap.Logger
}

type Option func(*Parser)

// WithProgress sets callback receiving percentage of processed source for
// large documents.
func WithProgress(fn func(int)) Option {
	return func(p *Parser) {
		p.progress = fn
	}
}

// WithNoterefs sets callback invoked for every resolved note reference.
func WithNoterefs(fn func(layout.FootnoteEntry)) Option {
	return func(p *Parser) {
		p.noteref = fn
	}
}

// New creates parser for document name in fsys. Every complete page is
// handed to completePage in document order.
func New(fsys fs.FS, name string, opts Options, completePage func(*layout.Page), log *zap.Logger, options ...Option) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	opts.sanitize()
	p := &Parser{
		fsys:         fsys,
		name:         name,
		opts:         opts,
		completePage: completePage,
		log:          log.Named("chapter").With(zap.String("name", name)),
	}
	p.css = css.NewParser(p.log)
	for _, o := range options {
		o(p)
	}
	return p
}

// ParseAndBuildPages runs both passes over the document. On error no
// incomplete page is emitted, pages handed out before the error stay valid.
func (p *Parser) ParseAndBuildPages(ctx context.Context) (*Result, error) {
	table := notes.NewTable(p.opts.MaxNotes, p.log)

	collect := newHandler(passCollect, &p.opts, table, p.css, p.log)
	if err := p.run(ctx, collect, nil); err != nil {
		return nil, fmt.Errorf("unable to collect notes: %w", err)
	}
	p.log.Debug("Notes collected", zap.Int("inline", table.InlineCount()), zap.Int("paragraph", table.ParagraphCount()), zap.String("language", collect.lang))

	res := &Result{
		InlineNotes:    table.InlineCount(),
		ParagraphNotes: table.ParagraphCount(),
		Language:       collect.lang,
		Notes:          table,
	}

	br := &layout.Breaker{
		Metrics:    p.opts.Metrics,
		Font:       p.opts.Font,
		Width:      p.opts.Width,
		Indent:     p.opts.FirstLineIndent,
		Hyphenator: p.opts.hyphenator(collect.lang, p.log),
		Log:        p.log.Named("layout"),
	}
	pg := layout.NewPaginator(p.opts.Metrics, p.opts.Font, p.opts.Height, p.opts.LineCompression, p.opts.MaxLinesPerPage, p.completePage, p.log.Named("layout"))

	build := newHandler(passBuild, &p.opts, table, p.css, p.log)
	build.prepareBuild(br, pg, p.noteref, res)
	if err := p.run(ctx, build, p.progress); err != nil {
		pg.Discard()
		return nil, fmt.Errorf("unable to build pages: %w", err)
	}
	build.finish()

	res.Pages = pg.Pages()
	p.log.Debug("Chapter paginated", zap.Int("pages", res.Pages), zap.Int("noterefs", res.Noterefs), zap.Int("flushes", res.ProactiveFlushes))
	return res, nil
}

// run streams document through handler once.
func (p *Parser) run(ctx context.Context, h *handler, report func(int)) (err error) {
	f, err := p.fsys.Open(p.name)
	if err != nil {
		return fmt.Errorf("unable to open chapter: %w", err)
	}
	defer func() {
		err = multierr.Append(err, f.Close())
	}()

	cr := &chunkReader{ctx: ctx, r: f, chunk: p.opts.ChunkSize}
	if report != nil {
		if fi, err := f.Stat(); err == nil && fi.Size() > 0 && fi.Size() >= p.opts.ProgressThreshold {
			cr.onRead = newProgress(fi.Size(), report).update
		}
	}

	src, err := newTokenSource(p.opts.Markup, bufio.NewReaderSize(cr, p.opts.ChunkSize), p.opts.MaxTokenBytes)
	if err != nil {
		return err
	}
	for {
		tok, err := src.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("%s pass: %w", h.pass, err)
		}
		h.handle(&tok)
	}
	return nil
}
