package geo_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woozymasta/geojson/geo"
	"github.com/woozymasta/geojson/validation"
)

var (
	exteriorRing = geo.NewLinearRing(
		geo.NewPosition(0, 0),
		geo.NewPosition(1, 1),
		geo.NewPosition(2, 2),
		geo.NewPosition(0, 0),
	)
	interiorRing = geo.NewLinearRing(
		geo.NewPosition(0, 0),
		geo.NewPosition(2, 2),
		geo.NewPosition(1, 1),
		geo.NewPosition(0, 0),
	)

	simpleRings  = geo.NewPolygonRingArray(exteriorRing)
	complexRings = geo.NewPolygonRingArray().Append(exteriorRing, interiorRing)
)

func TestPolygonRingArraySerialize(t *testing.T) {
	tests := []struct {
		name string
		in   geo.PolygonRingArray
		want string
	}{
		{"without interior rings", simpleRings, `[[[0,0],[1,1],[2,2],[0,0]]]`},
		{"with interior rings", complexRings, `[[[0,0],[1,1],[2,2],[0,0]],[[0,0],[2,2],[1,1],[0,0]]]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.in)
			require.NoError(t, err)
			require.JSONEq(t, tt.want, string(b))

			var a geo.PolygonRingArray
			require.NoError(t, json.Unmarshal([]byte(tt.want), &a))
			require.True(t, tt.in.Equal(a))
			require.Equal(t, tt.in, a)
		})
	}
}

func TestPolygonRingArrayDeserializeMalformed(t *testing.T) {
	var a geo.PolygonRingArray
	err := json.Unmarshal([]byte(`[[[0,0],[1,1],[2,2],[0,0]],[[0,0],[1]]]`), &a)
	require.ErrorIs(t, err, validation.ErrMalformedShape)
	require.EqualError(t, err, "rings[1].positions[1]: Position must have at least 2 elements")

	var shapeErr *validation.ShapeError
	require.True(t, errors.As(err, &shapeErr))
	require.Equal(t, "Position must have at least 2 elements", shapeErr.Message)
}

func TestPolygonRingArrayValidate(t *testing.T) {
	assert.Empty(t, simpleRings.Validate())
	assert.Empty(t, complexRings.Validate())
	assert.Empty(t, complexRings.ValidateAll())

	var empty geo.PolygonRingArray
	require.NoError(t, json.Unmarshal([]byte(`[]`), &empty))

	vs := empty.Validate()
	require.Len(t, vs, 1)
	assert.Equal(t, "rings", vs[0].Field)
	assert.Equal(t, "must have at least one ring", vs[0].Message)
	assert.Equal(t, vs, empty.Validate())
}

func TestPolygonRingArrayValidateAll(t *testing.T) {
	a := geo.NewPolygonRingArray(
		exteriorRing,
		geo.NewLinearRing(geo.NewPosition(0, 0), geo.NewPosition(0, 100)),
	)

	assert.Empty(t, a.Validate(), "rings are not checked by Validate")
	assert.Equal(t,
		[]string{"rings[1].positions", "rings[1].positions[1].latitude"},
		a.ValidateAll().Fields())
}

func TestPolygonRingArrayExteriorRing(t *testing.T) {
	assert.True(t, exteriorRing.Equal(simpleRings.ExteriorRing()))
	assert.True(t, exteriorRing.Equal(complexRings.ExteriorRing()))

	assert.Panics(t, func() {
		geo.NewPolygonRingArray().ExteriorRing()
	})
}

func TestPolygonRingArrayInteriorRings(t *testing.T) {
	interior := simpleRings.InteriorRings()
	assert.NotNil(t, interior)
	assert.Empty(t, interior)

	interior = complexRings.InteriorRings()
	require.Len(t, interior, 1)
	assert.True(t, interiorRing.Equal(interior[0]))

	third := geo.NewLinearRing(geo.NewPosition(3, 3))
	ordered := complexRings.Append(third).InteriorRings()
	require.Len(t, ordered, 2)
	assert.True(t, interiorRing.Equal(ordered[0]))
	assert.True(t, third.Equal(ordered[1]))

	interior[0] = third
	assert.True(t, interiorRing.Equal(complexRings.InteriorRings()[0]))

	assert.Nil(t, geo.NewPolygonRingArray().InteriorRings())
}

func TestPolygonRingArrayRoundTrip(t *testing.T) {
	parsed, err := geo.ParsePolygonRingArray(complexRings.Elements())
	require.NoError(t, err)
	require.True(t, complexRings.Equal(parsed))
	require.Equal(t, 2, parsed.Len())
	require.Len(t, parsed.Rings(), 2)
}
