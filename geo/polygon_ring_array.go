package geo

import (
	"encoding/json"
	"slices"

	"github.com/woozymasta/geojson/validation"

	"gopkg.in/yaml.v3"
)

const msgRings = "must have at least one ring"

// PolygonRingArray is the coordinate array of a polygon. The first ring is
// the exterior ring bounding the surface; any others are interior rings
// bounding holes within it.
type PolygonRingArray struct {
	rings []LinearRing
}

// NewPolygonRingArray returns a ring array over a copy of rings. An empty
// array constructs; Validate reports it.
func NewPolygonRingArray(rings ...LinearRing) PolygonRingArray {
	return PolygonRingArray{rings: cloneRings(rings)}
}

// ParsePolygonRingArray parses every element as a linear ring. The first
// malformed position aborts the parse.
func ParsePolygonRingArray(elements [][][]float64) (PolygonRingArray, error) {
	if len(elements) == 0 {
		return PolygonRingArray{}, nil
	}

	rings := make([]LinearRing, len(elements))
	for i, e := range elements {
		r, err := ParseLinearRing(e)
		if err != nil {
			return PolygonRingArray{}, locate(err, "rings", i)
		}
		rings[i] = r
	}

	return PolygonRingArray{rings: rings}, nil
}

// Rings returns a copy of all rings, exterior first.
func (a PolygonRingArray) Rings() []LinearRing {
	return cloneRings(a.rings)
}

// Len returns the number of rings.
func (a PolygonRingArray) Len() int {
	return len(a.rings)
}

// ExteriorRing returns the first ring.
//
// The array must not be empty: ExteriorRing panics with an index out of
// range error otherwise. Validate before calling it on decoded input.
func (a PolygonRingArray) ExteriorRing() LinearRing {
	return a.rings[0]
}

// InteriorRings returns the rings after the first, in order. It is empty
// for a single ring and nil for an empty array.
func (a PolygonRingArray) InteriorRings() []LinearRing {
	if len(a.rings) == 0 {
		return nil
	}

	return slices.Clone(a.rings[1:])
}

// Append returns a new array with rings added at the end.
func (a PolygonRingArray) Append(rings ...LinearRing) PolygonRingArray {
	out := make([]LinearRing, 0, len(a.rings)+len(rings))
	out = append(out, a.rings...)

	return PolygonRingArray{rings: append(out, rings...)}
}

// Elements returns the nested array form.
func (a PolygonRingArray) Elements() [][][]float64 {
	out := make([][][]float64, len(a.rings))
	for i, r := range a.rings {
		out[i] = r.Elements()
	}

	return out
}

// Equal reports whether both arrays hold equal rings in the same order.
func (a PolygonRingArray) Equal(o PolygonRingArray) bool {
	return slices.EqualFunc(a.rings, o.rings, LinearRing.Equal)
}

// Validate checks that there is at least one ring. Rings are not checked.
func (a PolygonRingArray) Validate() validation.Violations {
	var vs validation.Violations
	vs.Check(len(a.rings) >= 1, "rings", msgRings)

	return vs
}

// ValidateAll checks the array, every ring and every position.
func (a PolygonRingArray) ValidateAll() validation.Violations {
	vs := a.Validate()
	for i, r := range a.rings {
		vs.Merge(index("rings", i), r.ValidateAll())
	}

	return vs
}

// MarshalJSON encodes the nested array form.
func (a PolygonRingArray) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Elements())
}

// UnmarshalJSON decodes nested numeric arrays and parses them.
func (a *PolygonRingArray) UnmarshalJSON(data []byte) error {
	var elements [][][]float64
	if err := json.Unmarshal(data, &elements); err != nil {
		return err
	}

	parsed, err := ParsePolygonRingArray(elements)
	if err != nil {
		return err
	}

	*a = parsed
	return nil
}

// MarshalYAML encodes the nested array form.
func (a PolygonRingArray) MarshalYAML() (interface{}, error) {
	return flowSequence(a.Elements())
}

// UnmarshalYAML decodes nested numeric sequences and parses them.
func (a *PolygonRingArray) UnmarshalYAML(node *yaml.Node) error {
	var elements [][][]float64
	if err := node.Decode(&elements); err != nil {
		return err
	}

	parsed, err := ParsePolygonRingArray(elements)
	if err != nil {
		return err
	}

	*a = parsed
	return nil
}

func cloneRings(s []LinearRing) []LinearRing {
	if len(s) == 0 {
		return nil
	}

	return slices.Clone(s)
}
