package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"text/template"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"

	"pager/archive"
	"pager/cache"
	"pager/chapter"
	"pager/config"
	"pager/layout"
	"pager/metrics"
	"pager/notes"
	"pager/render"
	"pager/state"
	"pager/text"
)

// Fingerprint identifies layout parameters, pages produced with equal
// fingerprints are interchangeable.
func Fingerprint(cfg *config.Config) (string, error) {
	data, err := yaml.Marshal(struct {
		Layout      config.LayoutConfig      `yaml:"layout"`
		Parser      config.ParserConfig      `yaml:"parser"`
		Hyphenation config.HyphenationConfig `yaml:"hyphenation"`
	}{cfg.Layout, cfg.Parser, cfg.Hyphenation})
	if err != nil {
		return "", fmt.Errorf("unable to marshal layout parameters: %w", err)
	}
	return uuid.NewSHA1(uuid.NameSpaceOID, data).String(), nil
}

// paginator keeps everything needed to process chapters of a single source.
type paginator struct {
	env         *state.LocalEnv
	log         *zap.Logger
	faces       *metrics.Faces
	opts        chapter.Options
	store       *cache.Store
	tmpl        *template.Template
	fingerprint string
}

func newPaginator(env *state.LocalEnv, log *zap.Logger) (*paginator, error) {
	cfg := env.Cfg

	faces, err := metrics.FromConfig(&cfg.Layout.Font, log)
	if err != nil {
		return nil, fmt.Errorf("unable to load fonts: %w", err)
	}

	var dicts *text.Dictionaries
	if cfg.Layout.Hyphenation && cfg.Hyphenation.Dictionaries != "" {
		dicts = text.NewDictionaries(os.DirFS(cfg.Hyphenation.Dictionaries), log)
	}

	p := &paginator{
		env:   env,
		log:   log,
		faces: faces,
		opts:  chapter.OptionsFromConfig(cfg, faces, dicts, log),
	}

	if p.fingerprint, err = Fingerprint(cfg); err != nil {
		return nil, multierr.Append(err, p.close())
	}
	if p.tmpl, err = loadTemplate(cfg.Output.PageTemplate); err != nil {
		return nil, multierr.Append(err, p.close())
	}
	if cfg.Cache.Enable {
		if p.store, err = cache.Open(cfg.Cache.Path, log); err != nil {
			return nil, multierr.Append(err, p.close())
		}
	}
	return p, nil
}

func (p *paginator) close() (err error) {
	if p.store != nil {
		err = multierr.Append(err, p.store.Close())
	}
	return multierr.Append(err, p.faces.Close())
}

// paginate processes every chapter of the source. Failed chapters are
// reported and skipped.
func paginate(ctx context.Context, src, dst string, env *state.LocalEnv, log *zap.Logger) (err error) {
	source, err := archive.Resolve(src)
	if err != nil {
		return fmt.Errorf("unable to open source: %w", err)
	}
	defer func() {
		err = multierr.Append(err, source.Close())
	}()

	if len(source.Chapters) == 0 {
		return fmt.Errorf("no chapters found in %q", src)
	}

	p, err := newPaginator(env, log)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, p.close())
	}()

	failed := 0
	for _, name := range source.Chapters {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.chapter(ctx, source, name, dst); err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			log.Error("Unable to paginate chapter", zap.String("chapter", name), zap.Error(err))
			failed++
		}
	}
	if failed == len(source.Chapters) {
		return fmt.Errorf("unable to paginate any of %d chapter(s)", failed)
	}
	log.Info("Source paginated", zap.Int("chapters", len(source.Chapters)), zap.Int("failed", failed))
	return nil
}

// chapterResult is what is known about paginated chapter regardless of
// where pages came from.
type chapterResult struct {
	pages    []*layout.Page
	language string
	table    *notes.Table
	cached   bool
	summary  string
}

func (p *paginator) chapter(ctx context.Context, source *archive.Source, name, dst string) error {
	log := p.log.With(zap.String("chapter", name))

	outDir := outputDir(source.Path, name, dst, p.env.Out.NoDirs)
	outFile := filepath.Join(outDir, baseName(name)+".txt")
	if _, err := os.Stat(outFile); err == nil {
		if !p.env.Out.Overwrite {
			return fmt.Errorf("output file already exists: %s", outFile)
		}
		log.Warn("Overwriting existing file", zap.String("file", outFile))
	}

	res, err := p.pages(ctx, source, name, log)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	values := &Values{
		Source:   source.Path,
		Chapter:  name,
		Language: res.language,
		Notes:    res.table.Summary(),
		Cached:   res.cached,
		Pages:    buildPages(res.pages),
	}
	if err := writeDump(outFile, p.tmpl, values); err != nil {
		return err
	}

	if p.env.Out.Notes {
		if err := p.notes(ctx, res.table, outDir, baseName(name), log); err != nil {
			return err
		}
	}
	if p.env.Out.Preview {
		if err := p.preview(res.pages, outDir, baseName(name)); err != nil {
			return err
		}
	}
	if p.env.Rpt != nil {
		var buf bytes.Buffer
		buf.WriteString(res.summary)
		buf.WriteString(res.table.String())
		for _, pg := range res.pages {
			buf.WriteString(pg.String())
		}
		prefix := path.Join("chapters", baseName(source.Path))
		p.env.Rpt.StoreData(path.Join(prefix, name+".txt"), buf.Bytes())
		if err := p.env.Rpt.StoreFS(path.Join(prefix, "source", name), source.FS, name); err != nil {
			log.Warn("Unable to store chapter source in report", zap.Error(err))
		}
	}

	log.Info("Chapter paginated", zap.Int("pages", len(res.pages)), zap.Bool("cached", res.cached), zap.String("output", outFile))
	return nil
}

// pages returns chapter pages from cache when possible, otherwise chapter
// is parsed and cache updated.
func (p *paginator) pages(ctx context.Context, source *archive.Source, name string, log *zap.Logger) (*chapterResult, error) {
	var key cache.Key
	if p.store != nil {
		info, err := fs.Stat(source.FS, name)
		if err != nil {
			return nil, fmt.Errorf("unable to stat chapter: %w", err)
		}
		key = cache.Key{
			Source:      source.Path,
			Name:        name,
			Size:        info.Size(),
			ModTime:     info.ModTime(),
			Fingerprint: p.fingerprint,
		}
		e, ok, err := p.store.Get(key)
		if err != nil {
			log.Warn("Unable to read cache, ignoring", zap.Error(err))
		}
		if ok {
			return &chapterResult{
				pages:    e.Pages,
				language: e.Language,
				table:    e.Table(p.opts.MaxNotes, log),
				cached:   true,
				summary:  fmt.Sprintf("cached entry %s\n", e.ID),
			}, nil
		}
	}

	var pages []*layout.Page
	parser := chapter.New(source.FS, name, p.opts, func(pg *layout.Page) {
		pages = append(pages, pg)
	}, log,
		chapter.WithProgress(func(percent int) {
			log.Debug("Progress", zap.Int("percent", percent))
		}),
		chapter.WithNoterefs(func(fn layout.FootnoteEntry) {
			log.Debug("Note reference", zap.String("label", fn.Number), zap.String("href", fn.Href), zap.Bool("inline", fn.Inline))
		}),
	)
	res, err := parser.ParseAndBuildPages(ctx)
	if err != nil {
		return nil, err
	}

	if p.store != nil {
		e := &cache.Entry{
			Pages:          pages,
			Language:       res.Language,
			InlineNotes:    res.Notes.InlineNotes(),
			ParagraphNotes: res.Notes.ParagraphNotes(),
		}
		if err := p.store.Put(key, e); err != nil {
			log.Warn("Unable to update cache, ignoring", zap.Error(err))
		}
	}
	return &chapterResult{
		pages:    pages,
		language: res.Language,
		table:    res.Notes,
		summary:  res.String(),
	}, nil
}

// notes writes generated note documents next to chapter dump and paginates
// them to locate note anchors.
func (p *paginator) notes(ctx context.Context, table *notes.Table, outDir, base string, log *zap.Logger) error {
	names := table.Names()
	if len(names) == 0 {
		return nil
	}
	notesDir := filepath.Join(outDir, base+"-notes")
	if err := os.MkdirAll(notesDir, 0o755); err != nil {
		return fmt.Errorf("unable to create notes directory: %w", err)
	}

	for _, name := range names {
		doc, ok := table.Document(name)
		if !ok {
			continue
		}
		if err := doc.WriteToFile(filepath.Join(notesDir, name)); err != nil {
			return fmt.Errorf("unable to write note %q: %w", name, err)
		}
	}

	// note pages are laid out exactly as chapters are
	fsys := os.DirFS(notesDir)
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		var pages []*layout.Page
		parser := chapter.New(fsys, name, p.opts, func(pg *layout.Page) {
			pages = append(pages, pg)
		}, log)
		if _, err := parser.ParseAndBuildPages(ctx); err != nil {
			return fmt.Errorf("unable to paginate note %q: %w", name, err)
		}
		id, _ := notes.PageNoteID(name)
		for i, pg := range pages {
			if pg.HasAnchor(id) {
				log.Debug("Note located", zap.String("note", name), zap.Int("page", i+1), zap.Int("pages", len(pages)))
				break
			}
		}
	}
	return nil
}

func (p *paginator) preview(pages []*layout.Page, outDir, base string) error {
	cfg := p.env.Cfg
	canvas := render.Canvas{
		Width:  cfg.Layout.Viewport.Width,
		Height: cfg.Layout.Viewport.Height,
		Margin: cfg.Output.PreviewMargin,
		Font:   cfg.Layout.Font.ID,
	}
	for i, pg := range pages {
		img := render.Page(pg, p.faces, canvas)
		if err := render.Save(img, filepath.Join(outDir, fmt.Sprintf("%s-%03d.png", base, i+1))); err != nil {
			return err
		}
	}
	return nil
}

func writeDump(path string, tmpl *template.Template, values *Values) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create output file: %w", err)
	}
	defer func() {
		err = multierr.Append(err, out.Close())
	}()
	return expandTemplate(out, tmpl, values)
}
