// Package server handles HTTP requests and middleware.
package server

import (
	"encoding/json"
	"errors"
	"hash/fnv"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"github.com/woozymasta/geojson/geo"
	"github.com/woozymasta/geojson/internal/config"
	"github.com/woozymasta/geojson/internal/processor"
	"github.com/woozymasta/geojson/internal/render"
	"github.com/woozymasta/geojson/validation"
)

const (
	etagCap = 64

	// maxBodySize caps validation request bodies.
	maxBodySize = 8 << 20
)

// ValidateResponse is returned for a parsed value.
type ValidateResponse struct {
	Coordinates processor.Shape       `json:"coordinates"`
	Kind        config.Kind           `json:"kind"`
	Violations  validation.Violations `json:"violations"`
	Valid       bool                  `json:"valid"`
}

// ErrorResponse is returned when a request cannot be served.
type ErrorResponse struct {
	Error     string `json:"error"`
	Malformed bool   `json:"malformed,omitempty"`
}

// HandleValidate parses the request body as the kind named in the path and
// reports its violations.
// Path: /api/validate/{kind}
func (s *ServerContext) HandleValidate(w http.ResponseWriter, r *http.Request) {
	kind, err := config.ParseKind(mux.Vars(r)["kind"])
	if err != nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
		return
	}

	cascade := true
	if v := r.URL.Query().Get("cascade"); v != "" {
		cascade, err = strconv.ParseBool(v)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid cascade value " + strconv.Quote(v)})
			return
		}
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	shape, err := processor.Decode(kind, body, processor.FormatJSON)
	if err != nil {
		log.Debug().Err(err).Str("kind", string(kind)).Msg("Rejected request body")
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:     err.Error(),
			Malformed: errors.Is(err, validation.ErrMalformedShape),
		})
		return
	}

	violations := processor.Check(shape, cascade)
	if violations == nil {
		violations = validation.Violations{}
	}

	writeJSON(w, http.StatusOK, ValidateResponse{
		Coordinates: shape,
		Kind:        kind,
		Violations:  violations,
		Valid:       len(violations) == 0,
	})
}

// HandleDatasetsList serves the reports of the configured datasets.
func (s *ServerContext) HandleDatasetsList(w http.ResponseWriter, r *http.Request) {
	reports := s.Reports
	if reports == nil {
		reports = []processor.Report{}
	}

	writeJSON(w, http.StatusOK, reports)
}

// HandlePreview serves rendered previews of polygon datasets.
// Path: /api/datasets/{name}/preview.{svg,webp}
func (s *ServerContext) HandlePreview(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	name, format := vars["name"], vars["format"]

	var (
		contentType string
		draw        func(geo.PolygonRingArray, int) ([]byte, error)
	)
	switch format {
	case "svg":
		contentType, draw = render.SVGMime, render.SVG
	case "webp":
		contentType, draw = render.WebPMime, render.WebP
	default:
		http.NotFound(w, r)
		return
	}

	report, ok := s.Report(name)
	if !ok {
		http.NotFound(w, r)
		return
	}

	// only ring arrays have an area to draw
	rings, ok := report.Shape.(geo.PolygonRingArray)
	if !ok {
		http.NotFound(w, r)
		return
	}

	p, err := s.cachedPreview(name+"."+format, func() ([]byte, error) {
		return draw(rings, s.PreviewSize)
	})
	if errors.Is(err, render.ErrEmpty) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		log.Error().Err(err).Str("dataset", name).Str("format", format).Msg("Failed to render preview")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	// check If-None-Match (client sent ETag)
	if match := r.Header.Get("If-None-Match"); match == p.ETag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("ETag", p.ETag)
	w.Header().Set("Cache-Control", "public, no-cache")
	_, _ = w.Write(p.Data)
}

func etagFor(data []byte) string {
	h := fnv.New64a()
	_, _ = h.Write(data)

	buf := make([]byte, 0, etagCap)
	buf = append(buf, '"')
	buf = strconv.AppendInt(buf, int64(len(data)), 16)
	buf = append(buf, '-')
	buf = strconv.AppendUint(buf, h.Sum64(), 16)
	buf = append(buf, '"')

	return string(buf)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(v)
}
