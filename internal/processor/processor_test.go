package processor

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/woozymasta/geojson/geo"
	"github.com/woozymasta/geojson/internal/config"
	"github.com/woozymasta/geojson/validation"
)

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("data/ring.yaml"))
	assert.Equal(t, FormatYAML, DetectFormat("https://example.com/ring.YML?rev=2"))
	assert.Equal(t, FormatJSON, DetectFormat("data/ring.json"))
	assert.Equal(t, FormatJSON, DetectFormat("https://example.com/ring"))
}

func TestDecode(t *testing.T) {
	shape, err := Decode(config.KindPosition, []byte(`[1, 0, 10]`), FormatJSON)
	require.NoError(t, err)
	require.True(t, geo.NewPosition(1, 0, 10).Equal(shape.(geo.Position)))

	shape, err = Decode(config.KindLinearRing, []byte("- [0, 0]\n- [1, 1]\n"), FormatYAML)
	require.NoError(t, err)
	require.Equal(t, 2, shape.(geo.LinearRing).Len())

	shape, err = Decode(config.KindPolygonRingArray, []byte(`[[[0,0],[1,1],[2,2],[0,0]]]`), FormatJSON)
	require.NoError(t, err)
	require.Equal(t, 1, shape.(geo.PolygonRingArray).Len())

	_, err = Decode(config.KindPosition, []byte(`[1]`), FormatJSON)
	require.ErrorIs(t, err, validation.ErrMalformedShape)

	_, err = Decode(config.KindPosition, []byte("  \n"), FormatYAML)
	require.ErrorIs(t, err, ErrEmptyInput)

	_, err = Decode("feature", []byte(`[]`), FormatJSON)
	require.EqualError(t, err, `unknown kind "feature"`)
}

func TestDecodeYAMLNull(t *testing.T) {
	for _, input := range []string{"null\n", "~\n", "--- null\n"} {
		shape, err := Decode(config.KindPosition, []byte(input), FormatYAML)
		require.ErrorIs(t, err, validation.ErrMalformedShape, "input %q", input)
		require.EqualError(t, err, "Position must have at least 2 elements")
		require.Nil(t, shape)
	}

	shape, err := Decode(config.KindPosition, []byte("# only a comment\n"), FormatYAML)
	require.Error(t, err)
	require.Nil(t, shape)
	assert.True(t, errors.Is(err, ErrEmptyInput) || errors.Is(err, validation.ErrMalformedShape), err.Error())

	shape, err = Decode(config.KindLinearRing, []byte("~\n"), FormatYAML)
	require.NoError(t, err)
	assert.Zero(t, shape.(geo.LinearRing).Len())
	assert.Equal(t, []string{"positions"}, Check(shape, false).Fields())

	shape, err = Decode(config.KindPolygonRingArray, []byte("null\n"), FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, []string{"rings"}, Check(shape, false).Fields())

	_, err = DecodeNode(config.KindPosition, &yaml.Node{})
	require.ErrorIs(t, err, ErrEmptyInput)
	_, err = DecodeNode(config.KindPosition, nil)
	require.ErrorIs(t, err, ErrEmptyInput)
}

func TestCheckDatasetNullCoordinates(t *testing.T) {
	cfg, err := config.Parse([]byte(`
datasets:
  - name: nothing
    kind: position
    coordinates: null
  - name: tilde
    kind: position
    coordinates: ~
`))
	require.NoError(t, err)

	for _, d := range cfg.Datasets {
		r := CheckDataset(http.DefaultClient, d, true)
		assert.False(t, r.Valid, d.Name)
		assert.True(t, r.Malformed, d.Name)
		assert.Contains(t, r.Error, "Position must have at least 2 elements", d.Name)
		assert.Nil(t, r.Shape, d.Name)
	}
}

func TestCheckCascade(t *testing.T) {
	ring := geo.NewLinearRing(
		geo.NewPosition(0, 0),
		geo.NewPosition(1, 100),
		geo.NewPosition(2, 2),
		geo.NewPosition(0, 0),
	)

	assert.Empty(t, Check(ring, false))
	assert.Equal(t, []string{"positions[1].latitude"}, Check(ring, true).Fields())
}

func TestCheckDataset(t *testing.T) {
	dir := t.TempDir()
	valid := filepath.Join(dir, "square.json")
	require.NoError(t, os.WriteFile(valid, []byte(`[[[0,0],[1,0],[1,1],[0,1],[0,0]]]`), 0o644))

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("[[0, 0], [1]]\n"), 0o644))

	var inline yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte("[181, 0]"), &inline))

	r := CheckDataset(http.DefaultClient, config.Dataset{Name: "square", Kind: config.KindPolygonRingArray, Source: valid}, true)
	assert.True(t, r.Valid)
	assert.Empty(t, r.Error)
	assert.NotNil(t, r.Shape)

	r = CheckDataset(http.DefaultClient, config.Dataset{Name: "broken", Kind: config.KindLinearRing, Source: broken}, true)
	assert.False(t, r.Valid)
	assert.True(t, r.Malformed)
	assert.Contains(t, r.Error, "positions[1]: Position must have at least 2 elements")
	assert.Nil(t, r.Shape)

	r = CheckDataset(http.DefaultClient, config.Dataset{Name: "inline", Kind: config.KindPosition, Coordinates: *inline.Content[0]}, false)
	assert.False(t, r.Valid)
	assert.Empty(t, r.Error)
	assert.Equal(t, []string{"longitude"}, r.Violations.Fields())

	r = CheckDataset(http.DefaultClient, config.Dataset{Name: "missing", Kind: config.KindPosition, Source: filepath.Join(dir, "nope.json")}, false)
	assert.False(t, r.Valid)
	assert.False(t, r.Malformed)
	assert.Contains(t, r.Error, "load ")
}

func TestLoadSourceHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/ring.json" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`[[0,0],[1,1],[2,2],[0,0]]`))
	}))
	defer srv.Close()

	data, err := LoadSource(srv.Client(), srv.URL+"/ring.json")
	require.NoError(t, err)
	require.JSONEq(t, `[[0,0],[1,1],[2,2],[0,0]]`, string(data))

	_, err = LoadSource(srv.Client(), srv.URL+"/missing.json")
	require.EqualError(t, err, "download failed: status 404")
}

func TestProcessDatasets(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[[[0,0],[1,1],[2,2],[0,0]],[[0,0],[2,2],[1,1],[0,0]]]`))
	}))
	defer srv.Close()

	var nodes yaml.Node
	require.NoError(t, yaml.Unmarshal([]byte("[[1, 0], [[0, 0], [1, 1], [0, 0]], []]"), &nodes))
	seq := nodes.Content[0].Content

	datasets := []config.Dataset{
		{Name: "remote", Kind: config.KindPolygonRingArray, Source: srv.URL + "/rings.json"},
		{Name: "origin", Kind: config.KindPosition, Coordinates: *seq[0]},
		{Name: "short", Kind: config.KindLinearRing, Coordinates: *seq[1]},
		{Name: "empty", Kind: config.KindPolygonRingArray, Coordinates: *seq[2]},
		{Name: "bad", Kind: config.KindPosition, Source: srv.URL + "/rings.json"},
	}

	reports := ProcessDatasets(srv.Client(), datasets, 2, true)
	require.Len(t, reports, len(datasets))

	for i, r := range reports {
		assert.Equal(t, datasets[i].Name, r.Name, "reports keep dataset order")
	}

	assert.True(t, reports[0].Valid)
	assert.True(t, reports[1].Valid)
	assert.Equal(t, []string{"positions"}, reports[2].Violations.Fields())
	assert.Equal(t, []string{"rings"}, reports[3].Violations.Fields())
	assert.NotEmpty(t, reports[4].Error, "a ring array is not a position")

	assert.Equal(t, Summary{Total: 5, Valid: 2, Invalid: 2, Failed: 1}, Summarize(reports))
	assert.Empty(t, ProcessDatasets(srv.Client(), nil, 0, false))
}

func TestSaveReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.json")
	reports := []Report{
		{Name: "ok", Kind: config.KindPosition, Valid: true, Shape: geo.NewPosition(1, 0)},
		{Name: "bad", Kind: config.KindPosition, Violations: validation.Violations{{Field: "latitude", Message: "Latitude must be between [-90, 90]"}}},
	}
	require.NoError(t, SaveReport(path, reports))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var got struct {
		Reports []map[string]any `json:"reports"`
		Summary Summary          `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, Summary{Total: 2, Valid: 1, Invalid: 1}, got.Summary)
	require.Len(t, got.Reports, 2)
	assert.NotContains(t, got.Reports[0], "Shape")
	assert.Equal(t, "latitude", got.Reports[1]["violations"].([]any)[0].(map[string]any)["field"])
}
