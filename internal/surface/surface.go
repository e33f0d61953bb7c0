// Package surface implements the raster layers the drawing is rendered to.
package surface

import (
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
)

// Pen describes how a path is stroked.
type Pen struct {
	Color color.Color
	Width float64
	// Erase removes destination pixels under the stroke instead of painting.
	Erase bool
}

// Surface is a transparent RGBA raster with a vector drawing context.
// It is not safe for concurrent use.
type Surface struct {
	img *image.RGBA
	dc  *gg.Context
}

// New creates a transparent surface of the given size.
func New(width, height int) *Surface {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	return &Surface{img: img, dc: gg.NewContextForRGBA(img)}
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int { return s.img.Bounds().Dx() }

// Height returns the surface height in pixels.
func (s *Surface) Height() int { return s.img.Bounds().Dy() }

// Bounds returns the pixel bounds.
func (s *Surface) Bounds() image.Rectangle { return s.img.Bounds() }

// Image returns the live backing image.
func (s *Surface) Image() *image.RGBA { return s.img }

// Context returns the drawing context bound to the backing image.
func (s *Surface) Context() *gg.Context { return s.dc }

// At returns the pixel at (x, y).
func (s *Surface) At(x, y int) color.RGBA {
	return s.img.RGBAAt(x, y)
}

// Clear makes every pixel transparent.
func (s *Surface) Clear() {
	draw.Draw(s.img, s.img.Bounds(), image.Transparent, image.Point{}, draw.Src)
}

// Resize changes the surface size. Existing content keeps its pixel
// positions; anything outside the new bounds is cropped.
func (s *Surface) Resize(width, height int) {
	if width == s.Width() && height == s.Height() {
		return
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), s.img, image.Point{}, draw.Src)
	s.img = img
	s.dc = gg.NewContextForRGBA(img)
}

// Snapshot returns a deep copy of the current content.
func (s *Surface) Snapshot() *image.RGBA {
	return Clone(s.img)
}

// Restore replaces the content with img, anchored at the top-left corner.
func (s *Surface) Restore(img *image.RGBA) {
	s.Clear()
	if img != nil {
		draw.Draw(s.img, s.img.Bounds(), img, img.Bounds().Min, draw.Src)
	}
}

// IsEmpty reports whether every pixel is fully transparent.
func (s *Surface) IsEmpty() bool {
	for i := 3; i < len(s.img.Pix); i += 4 {
		if s.img.Pix[i] != 0 {
			return false
		}
	}
	return true
}

// Stroke builds a path with build and strokes it with pen using round caps
// and joins.
func (s *Surface) Stroke(pen Pen, build func(dc *gg.Context)) {
	if !pen.Erase {
		s.dc.SetColor(pen.Color)
		s.dc.SetLineWidth(pen.Width)
		s.dc.SetLineCapRound()
		s.dc.SetLineJoinRound()
		build(s.dc)
		s.dc.Stroke()
		return
	}

	mc := gg.NewContext(s.Width(), s.Height())
	mc.SetColor(color.White)
	mc.SetLineWidth(pen.Width)
	mc.SetLineCapRound()
	mc.SetLineJoinRound()
	build(mc)
	mc.Stroke()

	s.eraseMask(mc.AsMask())
}

// eraseMask scales every destination pixel by (1 - coverage) of mask, so
// pixels outside the mask are left as they are.
func (s *Surface) eraseMask(mask *image.Alpha) {
	b := s.img.Bounds().Intersect(mask.Bounds())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		mi := mask.PixOffset(b.Min.X, y)
		di := s.img.PixOffset(b.Min.X, y)
		for x := b.Min.X; x < b.Max.X; x, mi, di = x+1, mi+1, di+4 {
			a := uint32(mask.Pix[mi])
			if a == 0 {
				continue
			}
			keep := 255 - a
			px := s.img.Pix[di : di+4 : di+4]
			for i := range px {
				px[i] = uint8((uint32(px[i])*keep + 127) / 255)
			}
		}
	}
}

// EncodePNG writes the current content as PNG.
func (s *Surface) EncodePNG(w io.Writer) error {
	return EncodePNG(w, s.img)
}

// Clone returns a deep copy of img with its origin at (0, 0).
func Clone(img *image.RGBA) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	return out
}
