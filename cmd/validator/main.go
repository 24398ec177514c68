package main

import (
	"crypto/tls"
	"net/http"
	"os"
	"time"

	"github.com/woozymasta/geojson/internal/config"
	"github.com/woozymasta/geojson/internal/logger"
	"github.com/woozymasta/geojson/internal/processor"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile  string   `short:"c" long:"config"      env:"CONFIG_FILE" description:"Path to configuration file" default:"config.yaml"`
	Limit       []string `short:"l" long:"limit"       env:"LIMIT_NAMES" description:"Limit processing to specific dataset names"`
	Report      string   `short:"r" long:"report"      env:"REPORT_FILE" description:"Write a JSON report to this path"`
	Concurrency int      `short:"p" long:"concurrency" env:"CONCURRENCY" description:"Concurrency, overrides the configuration file"`
	Cascade     bool     `short:"C" long:"cascade"     env:"CASCADE"     description:"Also validate nested rings and positions"`
	Strict      bool     `short:"S" long:"strict"      description:"Exit with status 1 if any dataset is invalid"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	client := &http.Client{
		Transport: &http.Transport{
			TLSNextProto:        make(map[string]func(string, *tls.Conn) http.RoundTripper),
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
		},
		Timeout: 15 * time.Second,
	}

	concurrency := cfg.Concurrency
	if opts.Concurrency > 0 {
		concurrency = opts.Concurrency
	}

	cascade := cfg.Cascade || opts.Cascade

	// Filter datasets if limit is set
	datasets := cfg.Datasets
	if len(opts.Limit) > 0 {
		datasets = make([]config.Dataset, 0, len(opts.Limit))
		seen := make(map[string]bool)

		for _, name := range opts.Limit {
			if seen[name] {
				continue
			}
			seen[name] = true

			if d, ok := cfg.Find(name); ok {
				datasets = append(datasets, d)
			} else {
				log.Error().
					Str("name", name).
					Msg("Dataset specified in --limit not found in configuration")
			}
		}
	}

	log.Info().
		Int("datasets_total", len(cfg.Datasets)).
		Int("datasets_queued", len(datasets)).
		Bool("cascade", cascade).
		Msg("Starting validator")

	reports := processor.ProcessDatasets(client, datasets, concurrency, cascade)
	summary := processor.Summarize(reports)

	if opts.Report != "" {
		if err := processor.SaveReport(opts.Report, reports); err != nil {
			log.Fatal().Err(err).Str("path", opts.Report).Msg("Failed to save report")
		}
		log.Info().Str("path", opts.Report).Msg("Report saved")
	}

	log.Info().
		Int("total", summary.Total).
		Int("valid", summary.Valid).
		Int("invalid", summary.Invalid).
		Int("malformed", summary.Malformed).
		Int("failed", summary.Failed).
		Msg("Validator finished")

	if opts.Strict && summary.Valid != summary.Total {
		os.Exit(1)
	}
}
