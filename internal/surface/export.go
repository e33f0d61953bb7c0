package surface

import (
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
)

// Composite flattens layers, bottom first, onto an opaque background.
// The result has the size of the first layer.
func Composite(background color.Color, layers ...*image.RGBA) *image.RGBA {
	if len(layers) == 0 {
		return image.NewRGBA(image.Rectangle{})
	}
	bounds := image.Rect(0, 0, layers[0].Bounds().Dx(), layers[0].Bounds().Dy())
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, image.NewUniform(background), image.Point{}, draw.Src)
	for _, layer := range layers {
		if layer == nil {
			continue
		}
		draw.Draw(out, bounds, layer, layer.Bounds().Min, draw.Over)
	}
	return out
}

// Thumbnail scales img by factor in (0,1]. Factors outside that range return
// img unchanged.
func Thumbnail(img *image.RGBA, factor float64) *image.RGBA {
	if factor <= 0 || factor >= 1 {
		return img
	}
	w := max(1, int(float64(img.Bounds().Dx())*factor))
	h := max(1, int(float64(img.Bounds().Dy())*factor))
	out := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(out, out.Bounds(), img, img.Bounds(), draw.Src, nil)
	return out
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img *image.RGBA) error {
	return gg.NewContextForRGBA(img).EncodePNG(w)
}
