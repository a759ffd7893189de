package metrics

import (
	"fmt"
	"os"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"

	"pager/common"
	"pager/config"
)

// Faces is a Provider backed by real font faces. Missing styles fall back to
// the regular face of the same font, missing fonts to the built-in bitmap
// face.
type Faces struct {
	sets     map[int]*[4]font.Face
	fallback font.Face
}

func NewFaces() *Faces {
	return &Faces{
		sets:     make(map[int]*[4]font.Face),
		fallback: basicfont.Face7x13,
	}
}

// Set registers face for the font id and style.
func (f *Faces) Set(id int, style common.FontStyle, face font.Face) {
	set, ok := f.sets[id]
	if !ok {
		set = new([4]font.Face)
		f.sets[id] = set
	}
	set[style] = face
}

// Face returns face used to measure and draw text of the font id and style.
func (f *Faces) Face(id int, style common.FontStyle) font.Face {
	if set, ok := f.sets[id]; ok {
		if style.IsValid() && set[style] != nil {
			return set[style]
		}
		if set[common.FontStyleRegular] != nil {
			return set[common.FontStyleRegular]
		}
	}
	return f.fallback
}

func (f *Faces) LineHeight(id int) int {
	return f.Face(id, common.FontStyleRegular).Metrics().Height.Ceil()
}

func (f *Faces) SpaceWidth(id int, style common.FontStyle) int {
	return f.TextWidth(id, style, " ")
}

func (f *Faces) TextWidth(id int, style common.FontStyle, text string) int {
	return font.MeasureString(f.Face(id, style), text).Ceil()
}

// Close releases all registered faces.
func (f *Faces) Close() (err error) {
	for _, set := range f.sets {
		for _, face := range set {
			if face != nil {
				err = multierr.Append(err, face.Close())
			}
		}
	}
	f.sets = make(map[int]*[4]font.Face)
	return err
}

// LoadFace reads OpenType/TrueType font file and prepares face of requested
// size.
func LoadFace(path string, size, dpi float64) (font.Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read font: %w", err)
	}
	fnt, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("unable to parse font '%s': %w", path, err)
	}
	face, err := opentype.NewFace(fnt, &opentype.FaceOptions{
		Size:    size,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to create face for '%s': %w", path, err)
	}
	return face, nil
}

// FromConfig loads configured font files, styles without a file use built-in
// face.
func FromConfig(conf *config.FontConfig, log *zap.Logger) (*Faces, error) {
	if log == nil {
		log = zap.NewNop()
	}

	faces := NewFaces()
	for style, path := range map[common.FontStyle]string{
		common.FontStyleRegular:    conf.Regular,
		common.FontStyleBold:       conf.Bold,
		common.FontStyleItalic:     conf.Italic,
		common.FontStyleBoldItalic: conf.BoldItalic,
	} {
		if len(path) == 0 {
			continue
		}
		face, err := LoadFace(path, conf.Size, conf.DPI)
		if err != nil {
			return nil, multierr.Append(err, faces.Close())
		}
		log.Debug("Font face loaded", zap.Int("id", conf.ID), zap.Stringer("style", style), zap.String("file", path))
		faces.Set(conf.ID, style, face)
	}
	return faces, nil
}
