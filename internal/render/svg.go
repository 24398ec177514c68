package render

import (
	"bytes"
	"strconv"
	"strings"
	"text/template"

	"github.com/woozymasta/geojson/geo"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/svg"
)

// SVGMime is the media type of SVG previews.
const SVGMime = "image/svg+xml"

const svgTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="{{.Size}}" height="{{.Size}}" viewBox="0 0 {{.Size}} {{.Size}}">
  <path fill="{{.Fill}}" fill-opacity="0.5" fill-rule="evenodd" stroke="{{.Fill}}" stroke-width="1" d="{{.Path}}" />
</svg>
`

var svgTmpl = template.Must(template.New("preview").Parse(svgTemplate))

type svgData struct {
	Fill string
	Path string
	Size int
}

// SVG draws rings as a single even-odd filled path so that interior rings
// appear as holes.
func SVG(rings geo.PolygonRingArray, size int) ([]byte, error) {
	pts, err := paths(rings, size)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := svgTmpl.Execute(&buf, svgData{Fill: FillColor, Path: pathData(pts), Size: size}); err != nil {
		return nil, err
	}

	m := minify.New()
	m.AddFunc(SVGMime, svg.Minify)

	return m.Bytes(SVGMime, buf.Bytes())
}

func pathData(rings [][]point) string {
	var sb strings.Builder
	for _, ring := range rings {
		for i, p := range ring {
			if i == 0 {
				sb.WriteByte('M')
			} else {
				sb.WriteByte('L')
			}
			sb.WriteString(coord(p.X))
			sb.WriteByte(' ')
			sb.WriteString(coord(p.Y))
		}
		sb.WriteByte('Z')
	}

	return sb.String()
}

func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
