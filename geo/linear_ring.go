package geo

import (
	"encoding/json"
	"errors"
	"slices"
	"strconv"

	"github.com/woozymasta/geojson/validation"

	"gopkg.in/yaml.v3"
)

const (
	// MinRingPositions is the shortest closed linear ring.
	MinRingPositions = 4

	msgRing = "must have at least 4 positions and be explicitly closed"
)

// LinearRing is a closed sequence of four or more positions whose first and
// last positions are identical. It bounds a surface or a hole in a surface.
// A ring that is too short or open still constructs; Validate reports it.
type LinearRing struct {
	positions []Position
}

// NewLinearRing returns a ring over a copy of positions.
func NewLinearRing(positions ...Position) LinearRing {
	return LinearRing{positions: clonePositions(positions)}
}

// ParseLinearRing parses every element as a position. The first malformed
// position aborts the parse.
func ParseLinearRing(elements [][]float64) (LinearRing, error) {
	if len(elements) == 0 {
		return LinearRing{}, nil
	}

	positions := make([]Position, len(elements))
	for i, e := range elements {
		p, err := ParsePosition(e)
		if err != nil {
			return LinearRing{}, locate(err, "positions", i)
		}
		positions[i] = p
	}

	return LinearRing{positions: positions}, nil
}

// Positions returns a copy of the positions.
func (r LinearRing) Positions() []Position {
	return clonePositions(r.positions)
}

// Position returns the i-th position. It panics if i is out of range.
func (r LinearRing) Position(i int) Position {
	return r.positions[i]
}

// Len returns the number of positions.
func (r LinearRing) Len() int {
	return len(r.positions)
}

// Append returns a new ring with positions added at the end.
func (r LinearRing) Append(positions ...Position) LinearRing {
	out := make([]Position, 0, len(r.positions)+len(positions))
	out = append(out, r.positions...)

	return LinearRing{positions: append(out, positions...)}
}

// IsClosed reports whether the ring has at least 4 positions and its first
// position equals its last.
func (r LinearRing) IsClosed() bool {
	n := len(r.positions)
	return n >= MinRingPositions && r.positions[0].Equal(r.positions[n-1])
}

// Elements returns the nested array form.
func (r LinearRing) Elements() [][]float64 {
	out := make([][]float64, len(r.positions))
	for i, p := range r.positions {
		out[i] = p.Elements()
	}

	return out
}

// Equal reports whether both rings hold equal positions in the same order.
func (r LinearRing) Equal(o LinearRing) bool {
	return slices.EqualFunc(r.positions, o.positions, Position.Equal)
}

// Validate checks the ring constraint only. Too short and not closed are
// one combined violation.
func (r LinearRing) Validate() validation.Violations {
	var vs validation.Violations
	vs.Check(r.IsClosed(), "positions", msgRing)

	return vs
}

// ValidateAll checks the ring constraint and the range of every position.
func (r LinearRing) ValidateAll() validation.Violations {
	vs := r.Validate()
	for i, p := range r.positions {
		vs.Merge(index("positions", i), p.Validate())
	}

	return vs
}

// MarshalJSON encodes the nested array form.
func (r LinearRing) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Elements())
}

// UnmarshalJSON decodes nested numeric arrays and parses them.
func (r *LinearRing) UnmarshalJSON(data []byte) error {
	var elements [][]float64
	if err := json.Unmarshal(data, &elements); err != nil {
		return err
	}

	parsed, err := ParseLinearRing(elements)
	if err != nil {
		return err
	}

	*r = parsed
	return nil
}

// MarshalYAML encodes the nested array form.
func (r LinearRing) MarshalYAML() (interface{}, error) {
	return flowSequence(r.Elements())
}

// UnmarshalYAML decodes nested numeric sequences and parses them.
func (r *LinearRing) UnmarshalYAML(node *yaml.Node) error {
	var elements [][]float64
	if err := node.Decode(&elements); err != nil {
		return err
	}

	parsed, err := ParseLinearRing(elements)
	if err != nil {
		return err
	}

	*r = parsed
	return nil
}

func clonePositions(s []Position) []Position {
	if len(s) == 0 {
		return nil
	}

	return slices.Clone(s)
}

func index(field string, i int) string {
	return field + "[" + strconv.Itoa(i) + "]"
}

// locate places a shape error from a nested element under field[i].
func locate(err error, field string, i int) error {
	var shapeErr *validation.ShapeError
	if errors.As(err, &shapeErr) {
		return shapeErr.At(index(field, i))
	}

	return err
}
