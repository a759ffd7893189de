package chapter

import (
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"pager/common"
	"pager/config"
	"pager/layout"
	"pager/metrics"
	"pager/text"
)

// Options controls both parsing and layout of a chapter.
type Options struct {
	Markup   common.MarkupMode
	Noterefs common.NoterefMode

	// ChunkSize is the size of a single read from the source
	ChunkSize int
	// MaxWordBytes is word buffer capacity, longer runs are split
	MaxWordBytes int
	// MaxBlockWords triggers early layout of a paragraph
	MaxBlockWords int
	// MaxTokenBytes is allocation ceiling for a single token in html mode,
	// text is buffered by the tokenizer as a whole. Not used in xhtml mode.
	MaxTokenBytes int
	// ProgressThreshold is minimal source size for progress reporting
	ProgressThreshold int64
	// MaxNotes bounds number of notes of each kind kept per chapter
	MaxNotes int

	Metrics               metrics.Provider
	Font                  int
	Width                 int
	Height                int
	LineCompression       float64
	ExtraParagraphSpacing bool
	ParagraphAlignment    common.Alignment
	FirstLineIndent       int
	MaxLinesPerPage       int

	Hyphenation  bool
	Dictionaries *text.Dictionaries
	// Language selects dictionary when chapter does not declare one
	Language language.Tag
}

// DefaultOptions returns options matching default configuration.
func DefaultOptions(m metrics.Provider) Options {
	return Options{
		Markup:                common.MarkupModeXhtml,
		Noterefs:              common.NoterefModePermissive,
		ChunkSize:             1024,
		MaxWordBytes:          200,
		MaxBlockWords:         750,
		MaxTokenBytes:         8 << 20,
		ProgressThreshold:     50 * 1024,
		Metrics:               m,
		Width:                 464,
		Height:                736,
		LineCompression:       1.0,
		ExtraParagraphSpacing: true,
		ParagraphAlignment:    common.AlignmentJustified,
		MaxLinesPerPage:       64,
		Hyphenation:           true,
		Language:              language.AmericanEnglish,
	}
}

// OptionsFromConfig builds options from validated configuration.
func OptionsFromConfig(cfg *config.Config, m metrics.Provider, dicts *text.Dictionaries, log *zap.Logger) Options {
	opts := Options{
		Markup:                cfg.Parser.Markup,
		Noterefs:              cfg.Parser.Noterefs,
		ChunkSize:             cfg.Parser.ChunkSize,
		MaxWordBytes:          cfg.Parser.MaxWordBytes,
		MaxBlockWords:         cfg.Parser.MaxBlockWords,
		MaxTokenBytes:         cfg.Parser.MaxTokenBytes,
		ProgressThreshold:     cfg.Parser.ProgressThreshold,
		Metrics:               m,
		Font:                  cfg.Layout.Font.ID,
		Width:                 cfg.Layout.Viewport.Width,
		Height:                cfg.Layout.Viewport.Height,
		LineCompression:       cfg.Layout.LineCompression,
		ExtraParagraphSpacing: cfg.Layout.ExtraParagraphSpacing,
		ParagraphAlignment:    cfg.Layout.ParagraphAlignment,
		FirstLineIndent:       cfg.Layout.FirstLineIndent,
		MaxLinesPerPage:       cfg.Layout.MaxLinesPerPage,
		Hyphenation:           cfg.Layout.Hyphenation,
		Dictionaries:          dicts,
		Language:              language.AmericanEnglish,
	}
	if tag, err := language.Parse(cfg.Hyphenation.Language); err == nil {
		opts.Language = tag
	} else if log != nil {
		log.Warn("Unable to parse hyphenation language, using default", zap.String("language", cfg.Hyphenation.Language), zap.Error(err))
	}
	return opts
}

// sanitize replaces unusable values with defaults.
func (o *Options) sanitize() {
	def := DefaultOptions(o.Metrics)
	if o.ChunkSize < 16 {
		o.ChunkSize = def.ChunkSize
	}
	if o.MaxWordBytes < 8 {
		o.MaxWordBytes = def.MaxWordBytes
	}
	if o.MaxBlockWords <= 0 {
		o.MaxBlockWords = def.MaxBlockWords
	}
	if o.MaxTokenBytes <= 0 {
		o.MaxTokenBytes = def.MaxTokenBytes
	}
	if o.LineCompression <= 0 {
		o.LineCompression = def.LineCompression
	}
	if o.Metrics == nil {
		o.Metrics = metrics.NewFaces()
	}
}

// hyphenator selects dictionary for the chapter language.
func (o *Options) hyphenator(lang string, log *zap.Logger) layout.Hyphenator {
	if !o.Hyphenation || o.Dictionaries == nil {
		return nil
	}
	if lang != "" {
		if tag, err := language.Parse(lang); err == nil {
			if h := o.Dictionaries.For(tag); h != nil {
				return h
			}
		} else {
			log.Debug("Unable to parse document language", zap.String("language", lang), zap.Error(err))
		}
	}
	if h := o.Dictionaries.For(o.Language); h != nil {
		return h
	}
	return nil
}
