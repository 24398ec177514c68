package processor

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// Summary counts reports by outcome.
type Summary struct {
	Total     int `json:"total"`
	Valid     int `json:"valid"`
	Invalid   int `json:"invalid"`
	Malformed int `json:"malformed"`
	Failed    int `json:"failed"`
}

// Summarize counts reports by outcome. Malformed reports are also failed.
func Summarize(reports []Report) Summary {
	s := Summary{Total: len(reports)}
	for _, r := range reports {
		switch {
		case r.Error != "":
			s.Failed++
			if r.Malformed {
				s.Malformed++
			}
		case r.Valid:
			s.Valid++
		default:
			s.Invalid++
		}
	}

	return s
}

type reportFile struct {
	Reports []Report `json:"reports"`
	Summary Summary  `json:"summary"`
}

// SaveReport writes reports and their summary as indented JSON.
func SaveReport(path string, reports []Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	// We care about write errors on close
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("path", path).Msg("Failed to close file")
		}
	}()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")

	return enc.Encode(reportFile{Reports: reports, Summary: Summarize(reports)})
}
