package processor

import (
	"net/http"
	"sync"

	"github.com/woozymasta/geojson/internal/config"

	"github.com/rs/zerolog/log"
)

// DefaultConcurrency is used when no positive concurrency is configured.
const DefaultConcurrency = 8

type job struct {
	Dataset config.Dataset
	Index   int
}

type result struct {
	Report Report
	Index  int
}

// ProcessDatasets checks every dataset with a pool of workers. Reports come
// back in dataset order; a failing dataset never stops the batch.
func ProcessDatasets(client *http.Client, datasets []config.Dataset, concurrency int, cascade bool) []Report {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if concurrency > len(datasets) {
		concurrency = len(datasets)
	}

	jobs := make(chan job, len(datasets))
	results := make(chan result, len(datasets))

	go func() {
		for i, d := range datasets {
			jobs <- job{Dataset: d, Index: i}
		}
		close(jobs)
	}()

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				report := CheckDataset(client, j.Dataset, cascade)
				logReport(report)
				results <- result{Report: report, Index: j.Index}
			}
		}()
	}
	wg.Wait()
	close(results)

	reports := make([]Report, len(datasets))
	for res := range results {
		reports[res.Index] = res.Report
	}

	return reports
}

func logReport(r Report) {
	switch {
	case r.Error != "":
		log.Error().
			Str("dataset", r.Name).
			Str("kind", string(r.Kind)).
			Bool("malformed", r.Malformed).
			Str("error", r.Error).
			Msg("Dataset could not be parsed")

	case !r.Valid:
		for _, v := range r.Violations {
			log.Warn().
				Str("dataset", r.Name).
				Str("field", v.Field).
				Msg(v.Message)
		}
		log.Warn().
			Str("dataset", r.Name).
			Int("violations", len(r.Violations)).
			Msg("Dataset is invalid")

	default:
		log.Debug().
			Str("dataset", r.Name).
			Str("kind", string(r.Kind)).
			Msg("Dataset is valid")
	}
}
