// Package render draws laid out pages, so layout results could be checked
// visually.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	"github.com/disintegration/imaging"
	"go.uber.org/multierr"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"pager/layout"
	"pager/metrics"
)

// Canvas describes page geometry. Margin surrounds the viewport on every
// side.
type Canvas struct {
	Width  int
	Height int
	Margin int
	Font   int
}

// Page draws page with the same faces used to measure it. Words with note
// references are underlined.
func Page(p *layout.Page, faces *metrics.Faces, c Canvas) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, c.Width+2*c.Margin, c.Height+2*c.Margin))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	for _, l := range p.Lines {
		for i, w := range l.Words {
			if i >= len(l.XPos) {
				break
			}
			face := faces.Face(c.Font, w.Style)
			baseline := c.Margin + l.Y + face.Metrics().Ascent.Ceil()
			x := c.Margin + l.XPos[i]

			d := &font.Drawer{
				Dst:  img,
				Src:  image.Black,
				Face: face,
				Dot:  fixed.P(x, baseline),
			}
			d.DrawString(w.Text)

			if w.Footnote != nil {
				end := d.Dot.X.Ceil()
				y := baseline + 1
				for xx := x; xx < end; xx++ {
					img.SetGray(xx, y, color.Gray{Y: 0})
				}
			}
		}
	}
	return img
}

// Save writes image as PNG.
func Save(img image.Image, path string) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create preview: %w", err)
	}
	defer func() {
		err = multierr.Append(err, out.Close())
	}()

	if err := imaging.Encode(out, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression)); err != nil {
		return fmt.Errorf("unable to encode preview: %w", err)
	}
	return nil
}
