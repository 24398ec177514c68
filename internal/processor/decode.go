// Package processor handles loading, decoding and checking of coordinate datasets.
package processor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/woozymasta/geojson/geo"
	"github.com/woozymasta/geojson/internal/config"
	"github.com/woozymasta/geojson/validation"

	"gopkg.in/yaml.v3"
)

// Shape is a decoded coordinate value.
type Shape interface {
	Validate() validation.Violations
	ValidateAll() validation.Violations
}

// Format is the text encoding of a coordinate array.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// DetectFormat picks YAML for .yaml/.yml paths and JSON otherwise.
// URL query strings are ignored.
func DetectFormat(path string) Format {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Decode parses data as a value of the given kind.
func Decode(kind config.Kind, data []byte, format Format) (Shape, error) {
	if format == FormatYAML {
		if len(bytes.TrimSpace(data)) == 0 {
			return nil, ErrEmptyInput
		}

		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		return DecodeNode(kind, &doc)
	}

	switch kind {
	case config.KindPosition:
		var p geo.Position
		if err := unmarshal(data, &p); err != nil {
			return nil, err
		}
		return p, nil
	case config.KindLinearRing:
		var r geo.LinearRing
		if err := unmarshal(data, &r); err != nil {
			return nil, err
		}
		return r, nil
	case config.KindPolygonRingArray:
		var a geo.PolygonRingArray
		if err := unmarshal(data, &a); err != nil {
			return nil, err
		}
		return a, nil
	default:
		return nil, fmt.Errorf("unknown kind %q", kind)
	}
}

// DecodeNode parses inline YAML coordinates as a value of the given kind.
// yaml.v3 never hands a null node to a custom unmarshaler, so null is
// resolved here: a null position is malformed, a null ring or ring array is
// empty.
func DecodeNode(kind config.Kind, node *yaml.Node) (Shape, error) {
	if node != nil && node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return nil, ErrEmptyInput
		}
		node = node.Content[0]
	}
	if node == nil || node.Kind == 0 {
		return nil, ErrEmptyInput
	}

	null := node.ShortTag() == "!!null"

	switch kind {
	case config.KindPosition:
		if null {
			_, err := geo.ParsePosition(nil)
			return nil, err
		}
		var p geo.Position
		if err := node.Decode(&p); err != nil {
			return nil, err
		}
		return p, nil
	case config.KindLinearRing:
		if null {
			return geo.NewLinearRing(), nil
		}
		var r geo.LinearRing
		if err := node.Decode(&r); err != nil {
			return nil, err
		}
		return r, nil
	case config.KindPolygonRingArray:
		if null {
			return geo.NewPolygonRingArray(), nil
		}
		var a geo.PolygonRingArray
		if err := node.Decode(&a); err != nil {
			return nil, err
		}
		return a, nil
	default:
		return nil, fmt.Errorf("unknown kind %q", kind)
	}
}

// ErrEmptyInput is returned for blank input, which YAML would otherwise
// decode as a zero value.
var ErrEmptyInput = errors.New("empty input")

func unmarshal(data []byte, v interface{}) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return ErrEmptyInput
	}

	return json.Unmarshal(data, v)
}
