// Package render draws polygon ring arrays as small preview images.
package render

import (
	"errors"
	"fmt"
	"math"

	"github.com/woozymasta/geojson/geo"
)

// ErrEmpty is returned for ring arrays without any position to draw.
var ErrEmpty = errors.New("nothing to render")

// Padding is the margin, in pixels, kept around the drawn shape.
const Padding = 4

// point is a projected position in image space.
type point struct {
	X, Y float64
}

// projection maps lon/lat onto a size x size canvas. Latitude grows up,
// image Y grows down.
type projection struct {
	minLon, maxLat float64
	scale          float64
	offX, offY     float64
}

func newProjection(rings geo.PolygonRingArray, size int) (projection, error) {
	if size <= 2*Padding {
		return projection{}, fmt.Errorf("size %d is too small", size)
	}

	minLon, minLat := math.Inf(1), math.Inf(1)
	maxLon, maxLat := math.Inf(-1), math.Inf(-1)
	for _, ring := range rings.Rings() {
		for _, p := range ring.Positions() {
			minLon = math.Min(minLon, p.Longitude())
			maxLon = math.Max(maxLon, p.Longitude())
			minLat = math.Min(minLat, p.Latitude())
			maxLat = math.Max(maxLat, p.Latitude())
		}
	}
	if math.IsInf(minLon, 1) {
		return projection{}, ErrEmpty
	}

	inner := float64(size - 2*Padding)
	width, height := maxLon-minLon, maxLat-minLat
	extent := math.Max(width, height)

	scale := 1.0
	if extent > 0 {
		scale = inner / extent
	}

	// center the shorter side
	return projection{
		minLon: minLon,
		maxLat: maxLat,
		scale:  scale,
		offX:   Padding + (inner-width*scale)/2,
		offY:   Padding + (inner-height*scale)/2,
	}, nil
}

func (pr projection) project(p geo.Position) point {
	return point{
		X: pr.offX + (p.Longitude()-pr.minLon)*pr.scale,
		Y: pr.offY + (pr.maxLat-p.Latitude())*pr.scale,
	}
}

// paths projects every non-empty ring.
func paths(rings geo.PolygonRingArray, size int) ([][]point, error) {
	if rings.Len() == 0 {
		return nil, ErrEmpty
	}

	pr, err := newProjection(rings, size)
	if err != nil {
		return nil, err
	}

	out := make([][]point, 0, rings.Len())
	for _, ring := range rings.Rings() {
		if ring.Len() == 0 {
			continue
		}

		pts := make([]point, ring.Len())
		for i, p := range ring.Positions() {
			pts[i] = pr.project(p)
		}
		out = append(out, pts)
	}

	return out, nil
}
