package processor

import (
	"fmt"

	"github.com/woozymasta/geojson/geo"

	geojson "github.com/paulmach/go.geojson"
	"github.com/twpayne/go-geom"
	geomjson "github.com/twpayne/go-geom/encoding/geojson"
)

// Geometry converts a decoded value into its go-geom geometry: a position is
// a Point, a ring a LineString and a ring array a Polygon.
func Geometry(shape Shape) (geom.T, error) {
	switch s := shape.(type) {
	case geo.Position:
		return s.Point()
	case geo.LinearRing:
		ring, err := s.Geom()
		if err != nil {
			return nil, err
		}
		return geom.NewLineStringFlat(ring.Layout(), ring.FlatCoords()), nil
	case geo.PolygonRingArray:
		return s.Polygon()
	default:
		return nil, fmt.Errorf("unsupported value %T", shape)
	}
}

// MarshalGeometry encodes a decoded value as a GeoJSON geometry object.
func MarshalGeometry(shape Shape) ([]byte, error) {
	g, err := Geometry(shape)
	if err != nil {
		return nil, err
	}

	return geomjson.Marshal(g)
}

// Feature wraps a decoded value into a GeoJSON feature with the given
// properties.
func Feature(shape Shape, properties map[string]interface{}) (*geojson.Feature, error) {
	var g *geojson.Geometry
	switch s := shape.(type) {
	case geo.Position:
		g = geojson.NewPointGeometry(s.Elements())
	case geo.LinearRing:
		g = geojson.NewLineStringGeometry(s.Elements())
	case geo.PolygonRingArray:
		g = geojson.NewPolygonGeometry(s.Elements())
	default:
		return nil, fmt.Errorf("unsupported value %T", shape)
	}

	f := geojson.NewFeature(g)
	for k, v := range properties {
		f.SetProperty(k, v)
	}

	return f, nil
}
