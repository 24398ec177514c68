package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const sample = `
concurrency: 4
cascade: true
datasets:
  - name: square
    kind: polygon
    source: data/square.json
  - name: origin
    kind: position
    coordinates: [1, 0]
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Concurrency)
	assert.True(t, cfg.Cascade)
	require.Len(t, cfg.Datasets, 2)

	square := cfg.Datasets[0]
	assert.Equal(t, KindPolygonRingArray, square.Kind, "alias is normalized")
	assert.False(t, square.Inline())

	origin, ok := cfg.Find("origin")
	require.True(t, ok)
	require.True(t, origin.Inline())
	assert.Equal(t, yaml.SequenceNode, origin.Coordinates.Kind)

	_, ok = cfg.Find("missing")
	assert.False(t, ok)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidateCollectsAllErrors(t *testing.T) {
	_, err := Parse([]byte(`
concurrency: -1
datasets:
  - kind: position
    source: a.json
  - name: dup
    kind: hexagon
    source: b.json
  - name: dup
    kind: ring
  - name: both
    kind: ring
    source: c.json
    coordinates: [[0, 0]]
`))
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "config validation failed")
	assert.Contains(t, msg, "concurrency must not be negative, got -1")
	assert.Contains(t, msg, "datasets[0]: name is required")
	assert.Contains(t, msg, `datasets[1] (dup): unknown kind "hexagon"`)
	assert.Contains(t, msg, "datasets[2] (dup): duplicate name")
	assert.Contains(t, msg, "datasets[2] (dup): one of source or coordinates is required")
	assert.Contains(t, msg, "datasets[3] (both): source and coordinates are mutually exclusive")
}

func TestParseKind(t *testing.T) {
	tests := map[string]Kind{
		"position":           KindPosition,
		"POS":                KindPosition,
		"ring":               KindLinearRing,
		" linear_ring ":      KindLinearRing,
		"polygon_ring_array": KindPolygonRingArray,
		"rings":              KindPolygonRingArray,
	}

	for in, want := range tests {
		got, err := ParseKind(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseKind("feature")
	require.EqualError(t, err, `unknown kind "feature"`)
}
