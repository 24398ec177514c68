package render

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"

	"github.com/woozymasta/geojson/geo"

	"github.com/chai2010/webp"
	"golang.org/x/image/vector"
)

// WebPMime is the media type of raster previews.
const WebPMime = "image/webp"

// FillColor is the preview fill, shared by both renderers.
const FillColor = "#3388ff"

var fillRGBA = color.NRGBA{R: 0x33, G: 0x88, B: 0xff, A: 0xff}

// WebP rasterizes the exterior ring minus every interior ring and encodes the
// result as lossless WebP on a transparent background.
func WebP(rings geo.PolygonRingArray, size int) ([]byte, error) {
	pts, err := paths(rings, size)
	if err != nil {
		return nil, err
	}

	bounds := image.Rect(0, 0, size, size)
	mask := image.NewAlpha(bounds)
	if len(pts) > 0 {
		exterior := rasterize(bounds, pts[:1])
		holes := rasterize(bounds, pts[1:])

		for i := range mask.Pix {
			mask.Pix[i] = uint8(uint16(exterior.Pix[i]) * uint16(255-holes.Pix[i]) / 255)
		}
	}

	img := image.NewNRGBA(bounds)
	draw.DrawMask(img, bounds, image.NewUniform(fillRGBA), image.Point{}, mask, image.Point{}, draw.Over)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Lossless: true}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// rasterize fills the union of rings into an alpha coverage mask.
func rasterize(bounds image.Rectangle, rings [][]point) *image.Alpha {
	dst := image.NewAlpha(bounds)
	if len(rings) == 0 {
		return dst
	}

	z := vector.NewRasterizer(bounds.Dx(), bounds.Dy())
	for _, ring := range rings {
		z.Reset(bounds.Dx(), bounds.Dy())
		for i, p := range ring {
			if i == 0 {
				z.MoveTo(float32(p.X), float32(p.Y))
			} else {
				z.LineTo(float32(p.X), float32(p.Y))
			}
		}
		z.ClosePath()
		z.Draw(dst, bounds, image.Opaque, image.Point{})
	}

	return dst
}
