// Package geo implements the coordinate building blocks of GeoJSON
// (RFC 7946): positions, linear rings and polygon ring arrays.
//
// Values are immutable. Each type is built either from its parts or by
// parsing the flattened array form used on the wire, and is checked by an
// explicit validation pass that returns soft violations instead of failing.
// Winding order is not checked.
package geo

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/woozymasta/geojson/validation"

	"gopkg.in/yaml.v3"
)

const (
	// MinPositionElements is the shortest flattened position.
	MinPositionElements = 2

	msgPositionSize = "Position must have at least 2 elements"
	msgLongitude    = "Longitude must be between [-180, 180]"
	msgLatitude     = "Latitude must be between [-90, 90]"
)

// Position is an array of two or more numbers: longitude, latitude and
// optional additional elements such as altitude.
type Position struct {
	additional []float64
	longitude  float64
	latitude   float64
}

// NewPosition returns a position without validating the ranges.
func NewPosition(longitude, latitude float64, additional ...float64) Position {
	return Position{
		longitude:  longitude,
		latitude:   latitude,
		additional: cloneElements(additional),
	}
}

// ParsePosition maps a flattened array onto a position.
// Fewer than 2 elements is a *validation.ShapeError.
func ParsePosition(elements []float64) (Position, error) {
	if len(elements) < MinPositionElements {
		return Position{}, validation.Malformed(msgPositionSize)
	}

	return NewPosition(elements[0], elements[1], elements[2:]...), nil
}

// Longitude returns the first element (easting).
func (p Position) Longitude() float64 { return p.longitude }

// Latitude returns the second element (northing).
func (p Position) Latitude() float64 { return p.latitude }

// AdditionalElements returns a copy of the elements after latitude.
func (p Position) AdditionalElements() []float64 {
	return cloneElements(p.additional)
}

// Altitude returns the third element if present.
func (p Position) Altitude() (float64, bool) {
	if len(p.additional) == 0 {
		return 0, false
	}

	return p.additional[0], true
}

// WithLongitude returns a copy with longitude replaced.
func (p Position) WithLongitude(longitude float64) Position {
	return NewPosition(longitude, p.latitude, p.additional...)
}

// WithLatitude returns a copy with latitude replaced.
func (p Position) WithLatitude(latitude float64) Position {
	return NewPosition(p.longitude, latitude, p.additional...)
}

// WithAdditionalElements returns a copy with the additional elements replaced.
func (p Position) WithAdditionalElements(additional ...float64) Position {
	return NewPosition(p.longitude, p.latitude, additional...)
}

// Elements returns the flattened form [longitude, latitude, additional...].
// The slice is fresh on every call.
func (p Position) Elements() []float64 {
	out := make([]float64, 0, MinPositionElements+len(p.additional))
	out = append(out, p.longitude, p.latitude)

	return append(out, p.additional...)
}

// Equal reports whether both positions hold the same elements. Elements
// compare by value identity: NaN equals NaN, and -0 differs from 0.
func (p Position) Equal(o Position) bool {
	return sameElement(p.longitude, o.longitude) &&
		sameElement(p.latitude, o.latitude) &&
		slices.EqualFunc(p.additional, o.additional, sameElement)
}

func sameElement(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}

	return math.Float64bits(a) == math.Float64bits(b)
}

// Validate checks the longitude and latitude ranges. Both are reported
// when both are out of range.
func (p Position) Validate() validation.Violations {
	var vs validation.Violations
	vs.Check(validation.Between(p.longitude, -180, 180), "longitude", msgLongitude)
	vs.Check(validation.Between(p.latitude, -90, 90), "latitude", msgLatitude)

	return vs
}

// ValidateAll is Validate; a position has no nested values.
func (p Position) ValidateAll() validation.Violations {
	return p.Validate()
}

func (p Position) String() string {
	parts := make([]string, 0, MinPositionElements+len(p.additional))
	for _, e := range p.Elements() {
		parts = append(parts, strconv.FormatFloat(e, 'g', -1, 64))
	}

	return "[" + strings.Join(parts, ", ") + "]"
}

// MarshalJSON encodes the flattened form.
func (p Position) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Elements())
}

// UnmarshalJSON decodes a numeric array and parses it.
func (p *Position) UnmarshalJSON(data []byte) error {
	var elements []float64
	if err := json.Unmarshal(data, &elements); err != nil {
		return err
	}

	parsed, err := ParsePosition(elements)
	if err != nil {
		return err
	}

	*p = parsed
	return nil
}

// MarshalYAML encodes the flattened form as a flow sequence.
func (p Position) MarshalYAML() (interface{}, error) {
	return flowSequence(p.Elements())
}

// UnmarshalYAML decodes a numeric sequence and parses it.
func (p *Position) UnmarshalYAML(node *yaml.Node) error {
	var elements []float64
	if err := node.Decode(&elements); err != nil {
		return err
	}

	parsed, err := ParsePosition(elements)
	if err != nil {
		return err
	}

	*p = parsed
	return nil
}

// cloneElements copies s, normalizing empty input to nil so that
// structurally equal positions compare equal with reflect.DeepEqual too.
func cloneElements(s []float64) []float64 {
	if len(s) == 0 {
		return nil
	}

	return slices.Clone(s)
}

// flowSequence renders v as a single-line YAML sequence, which reads
// like the JSON array form.
func flowSequence(v interface{}) (*yaml.Node, error) {
	var node yaml.Node
	if err := node.Encode(v); err != nil {
		return nil, fmt.Errorf("encode yaml: %w", err)
	}

	setFlow(&node)
	return &node, nil
}

func setFlow(node *yaml.Node) {
	if node.Kind == yaml.SequenceNode {
		node.Style = yaml.FlowStyle
	}
	for _, child := range node.Content {
		setFlow(child)
	}
}
