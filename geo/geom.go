package geo

import (
	"fmt"

	"github.com/twpayne/go-geom"
)

// layoutFor maps a flattened position length onto a go-geom layout.
func layoutFor(n int) (geom.Layout, error) {
	switch n {
	case 2:
		return geom.XY, nil
	case 3:
		return geom.XYZ, nil
	case 4:
		return geom.XYZM, nil
	default:
		return geom.NoLayout, fmt.Errorf("no go-geom layout for a position of %d elements", n)
	}
}

// Coord returns the position as a go-geom coordinate.
func (p Position) Coord() geom.Coord {
	return geom.Coord(p.Elements())
}

// Point converts the position to a go-geom point. Positions with more than
// 4 elements have no go-geom layout.
func (p Position) Point() (*geom.Point, error) {
	elements := p.Elements()

	layout, err := layoutFor(len(elements))
	if err != nil {
		return nil, err
	}

	return geom.NewPointFlat(layout, elements), nil
}

// Geom converts the ring to a go-geom linear ring. Every position must have
// the same number of elements.
func (r LinearRing) Geom() (*geom.LinearRing, error) {
	layout, flat, err := flatten(r.positions, geom.NoLayout)
	if err != nil {
		return nil, err
	}

	return geom.NewLinearRingFlat(layout, flat), nil
}

// Polygon converts the ring array to a go-geom polygon. Every position of
// every ring must have the same number of elements.
func (a PolygonRingArray) Polygon() (*geom.Polygon, error) {
	layout := geom.NoLayout
	var flat []float64
	ends := make([]int, 0, len(a.rings))

	for i, r := range a.rings {
		ringLayout, ringFlat, err := flatten(r.positions, layout)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", index("rings", i), err)
		}
		if len(r.positions) > 0 {
			layout = ringLayout
		}

		flat = append(flat, ringFlat...)
		ends = append(ends, len(flat))
	}

	if layout == geom.NoLayout {
		layout = geom.XY
	}

	return geom.NewPolygonFlat(layout, flat, ends), nil
}

// PositionFromCoord parses a go-geom coordinate.
func PositionFromCoord(c geom.Coord) (Position, error) {
	return ParsePosition(c)
}

// LinearRingFromGeom parses a go-geom linear ring.
func LinearRingFromGeom(g *geom.LinearRing) (LinearRing, error) {
	elements := make([][]float64, g.NumCoords())
	for i := range elements {
		elements[i] = g.Coord(i)
	}

	return ParseLinearRing(elements)
}

// PolygonRingArrayFromGeom parses a go-geom polygon.
func PolygonRingArrayFromGeom(g *geom.Polygon) (PolygonRingArray, error) {
	elements := make([][][]float64, g.NumLinearRings())
	for i := range elements {
		ring := g.LinearRing(i)

		coords := make([][]float64, ring.NumCoords())
		for j := range coords {
			coords[j] = ring.Coord(j)
		}
		elements[i] = coords
	}

	return ParsePolygonRingArray(elements)
}

// flatten concatenates the elements of positions. want fixes the layout
// when it is not geom.NoLayout; otherwise the first position decides it.
// An empty slice yields geom.XY.
func flatten(positions []Position, want geom.Layout) (geom.Layout, []float64, error) {
	if len(positions) == 0 {
		if want == geom.NoLayout {
			want = geom.XY
		}
		return want, nil, nil
	}

	layout := want
	flat := make([]float64, 0, len(positions)*MinPositionElements)

	for i, p := range positions {
		elements := p.Elements()

		l, err := layoutFor(len(elements))
		if err != nil {
			return geom.NoLayout, nil, fmt.Errorf("%s: %w", index("positions", i), err)
		}
		if layout == geom.NoLayout {
			layout = l
		}
		if l != layout {
			return geom.NoLayout, nil, fmt.Errorf("%s: %d elements, expected %d",
				index("positions", i), len(elements), layout.Stride())
		}

		flat = append(flat, elements...)
	}

	return layout, flat, nil
}
