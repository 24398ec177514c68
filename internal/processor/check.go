package processor

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/woozymasta/geojson/internal/config"
	"github.com/woozymasta/geojson/validation"
)

// Report is the outcome of checking one dataset.
type Report struct {
	// decoded value, nil when loading or parsing failed
	Shape Shape `json:"-"`

	Name       string                `json:"name"`
	Kind       config.Kind           `json:"kind"`
	Source     string                `json:"source,omitempty"`
	Error      string                `json:"error,omitempty"`
	Violations validation.Violations `json:"violations,omitempty"`
	Malformed  bool                  `json:"malformed,omitempty"`
	Valid      bool                  `json:"valid"`
}

// Check validates a decoded value. cascade selects ValidateAll.
func Check(shape Shape, cascade bool) validation.Violations {
	if cascade {
		return shape.ValidateAll()
	}

	return shape.Validate()
}

// CheckDataset loads, decodes and validates a single dataset. Failures are
// recorded in the report rather than returned.
func CheckDataset(client *http.Client, d config.Dataset, cascade bool) Report {
	report := Report{Name: d.Name, Kind: d.Kind, Source: d.Source}

	shape, err := loadDataset(client, d)
	if err != nil {
		report.Error = err.Error()
		report.Malformed = errors.Is(err, validation.ErrMalformedShape)
		return report
	}

	report.Shape = shape
	report.Violations = Check(shape, cascade)
	report.Valid = len(report.Violations) == 0

	return report
}

func loadDataset(client *http.Client, d config.Dataset) (Shape, error) {
	if d.Inline() {
		shape, err := DecodeNode(d.Kind, &d.Coordinates)
		if err != nil {
			return nil, fmt.Errorf("decode inline coordinates: %w", err)
		}
		return shape, nil
	}

	data, err := LoadSource(client, d.Source)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", d.Source, err)
	}

	shape, err := Decode(d.Kind, data, DetectFormat(d.Source))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", d.Source, err)
	}

	return shape, nil
}
