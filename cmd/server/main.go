package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/woozymasta/geojson/internal/config"
	"github.com/woozymasta/geojson/internal/logger"
	"github.com/woozymasta/geojson/internal/processor"
	"github.com/woozymasta/geojson/internal/server"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	ConfigFile  string `short:"c" long:"config"       env:"CONFIG_FILE"    description:"Path to configuration file" default:"config.yaml"`
	Addr        string `short:"a" long:"addr"         env:"LISTEN_ADDRESS" description:"Address to listen on"       default:"0.0.0.0"`
	Port        int    `short:"p" long:"port"         env:"LISTEN_PORT"    description:"Port to listen on"          default:"8080"`
	PreviewSize int    `short:"s" long:"preview-size" env:"PREVIEW_SIZE"   description:"Preview edge length in pixels" default:"256"`

	CORSOrigins []string `long:"cors-origin" env:"CORS_ORIGINS" env-delim:"," description:"Allowed CORS origin, may be repeated"`
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

	// Setup Logging
	opts.Logger.Setup()

	// Load Config
	cfg, err := config.Load(opts.ConfigFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	client := &http.Client{Timeout: 15 * time.Second}
	reports := processor.ProcessDatasets(client, cfg.Datasets, cfg.Concurrency, cfg.Cascade)

	srvCtx := server.NewServerContext(cfg, reports, opts.PreviewSize)
	handler := srvCtx.Routes(opts.CORSOrigins...)

	listenAddr := fmt.Sprintf("%s:%d", opts.Addr, opts.Port)
	log.Info().
		Str("addr", listenAddr).
		Int("datasets_loaded", len(reports)).
		Int("preview_size", srvCtx.PreviewSize).
		Strs("cors_origins", opts.CORSOrigins).
		Msg("Web server started")

	if err := http.ListenAndServe(listenAddr, handler); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
