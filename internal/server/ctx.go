package server

import (
	"sync"

	"github.com/rs/zerolog/log"
	"github.com/woozymasta/geojson/geo"
	"github.com/woozymasta/geojson/internal/config"
	"github.com/woozymasta/geojson/internal/processor"
)

// DefaultPreviewSize is the preview edge length in pixels.
const DefaultPreviewSize = 256

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Config      *config.Config
	Reports     []processor.Report
	ReportIndex map[string]int
	PreviewSize int

	mu       sync.Mutex
	previews map[string]preview
}

type preview struct {
	ETag string
	Data []byte
}

// NewServerContext indexes dataset reports by name. Reports for datasets that
// failed to load are kept so the listing shows why.
func NewServerContext(cfg *config.Config, reports []processor.Report, previewSize int) *ServerContext {
	log.Info().Int("config_datasets_count", len(cfg.Datasets)).Msg("Initializing server context")

	if previewSize <= 0 {
		previewSize = DefaultPreviewSize
	}

	index := make(map[string]int, len(reports))
	previewable := 0
	for i, r := range reports {
		index[r.Name] = i

		if _, ok := r.Shape.(geo.PolygonRingArray); ok {
			previewable++
		}

		log.Trace().
			Str("dataset", r.Name).
			Str("kind", string(r.Kind)).
			Bool("valid", r.Valid).
			Msg("Dataset added to context")
	}

	log.Info().
		Int("datasets_count", len(reports)).
		Int("previewable_count", previewable).
		Msg("Server context initialized successfully")

	return &ServerContext{
		Config:      cfg,
		Reports:     reports,
		ReportIndex: index,
		PreviewSize: previewSize,
		previews:    make(map[string]preview),
	}
}

// Report returns the report of the named dataset.
func (s *ServerContext) Report(name string) (processor.Report, bool) {
	i, ok := s.ReportIndex[name]
	if !ok {
		return processor.Report{}, false
	}

	return s.Reports[i], true
}

// cachedPreview renders once per dataset and format.
func (s *ServerContext) cachedPreview(key string, render func() ([]byte, error)) (preview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p, ok := s.previews[key]; ok {
		return p, nil
	}

	data, err := render()
	if err != nil {
		return preview{}, err
	}

	p := preview{ETag: etagFor(data), Data: data}
	s.previews[key] = p

	return p, nil
}
