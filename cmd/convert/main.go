package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/woozymasta/geojson/internal/config"
	"github.com/woozymasta/geojson/internal/processor"
	"github.com/woozymasta/geojson/validation"

	"github.com/jessevdk/go-flags"
	"github.com/tdewolff/minify/v2"
	minjson "github.com/tdewolff/minify/v2/json"
	"gopkg.in/yaml.v3"
)

type Options struct {
	Input       string `short:"i" long:"in"          description:"Input file path (.json, .yaml or .yml). Reads JSON from stdin if empty"`
	Output      string `short:"o" long:"out"         description:"Output file path. Writes to stdout if empty"`
	Kind        string `short:"k" long:"kind"        description:"Kind of the input array (position, linear_ring, polygon_ring_array)" required:"true"`
	InputFormat string `short:"I" long:"in-format"   description:"Input format, detected from the file extension if empty" choice:"json" choice:"yaml"`
	Format      string `short:"f" long:"format"      description:"Output format" choice:"json" choice:"yaml" default:"json"`
	Name        string `short:"n" long:"name"        description:"Feature name property, used with --feature"`
	Validate    bool   `short:"v" long:"validate"    description:"Print violations to stderr and exit with status 2 if any"`
	Cascade     bool   `short:"C" long:"cascade"     description:"Validate nested rings and positions too"`
	Geometry    bool   `short:"g" long:"geometry"    description:"Wrap the value in a GeoJSON geometry object"`
	Feature     bool   `short:"F" long:"feature"     description:"Wrap the value in a GeoJSON feature"`
	Minify      bool   `short:"m" long:"minify"      description:"Compact JSON output"`
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

	kind, err := config.ParseKind(opts.Kind)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Read Input
	var inputData []byte
	format := processor.FormatJSON

	if opts.Input != "" {
		inputData, err = os.ReadFile(opts.Input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading input file: %v\n", err)
			os.Exit(1)
		}
		format = processor.DetectFormat(opts.Input)
	} else {
		inputData, err = io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading stdin: %v\n", err)
			os.Exit(1)
		}
	}

	if opts.InputFormat != "" {
		format = processor.Format(opts.InputFormat)
	}

	shape, err := processor.Decode(kind, inputData, format)
	if err != nil {
		if errors.Is(err, validation.ErrMalformedShape) {
			fmt.Fprintf(os.Stderr, "Malformed %s: %v\n", kind, err)
		} else {
			fmt.Fprintf(os.Stderr, "Error decoding %s: %v\n", kind, err)
		}
		os.Exit(1)
	}

	exitCode := 0
	if opts.Validate {
		if err := processor.Check(shape, opts.Cascade).Err(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			exitCode = 2
		}
	}

	// wrap
	var value interface{} = shape
	switch {
	case opts.Feature:
		props := map[string]interface{}{"kind": string(kind)}
		if opts.Name != "" {
			props["name"] = opts.Name
		}
		value, err = processor.Feature(shape, props)
	case opts.Geometry:
		var raw []byte
		raw, err = processor.MarshalGeometry(shape)
		value = json.RawMessage(raw)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error converting to GeoJSON: %v\n", err)
		os.Exit(1)
	}

	// marshal
	var outputData []byte
	if opts.Format == "yaml" {
		outputData, err = marshalYAML(value)
	} else {
		outputData, err = json.MarshalIndent(value, "", "  ")
		if err == nil && opts.Minify {
			m := minify.New()
			m.AddFunc("application/json", minjson.Minify)
			outputData, err = m.Bytes("application/json", outputData)
		}
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling data: %v\n", err)
		os.Exit(1)
	}

	if opts.Output != "" {
		err = os.WriteFile(opts.Output, outputData, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Successfully converted %s to %s (format: %s)\n", kind, opts.Output, opts.Format)
	} else {
		fmt.Println(string(outputData))
	}

	os.Exit(exitCode)
}

// marshalYAML keeps the flow-style arrays of geo values. GeoJSON wrappers
// only know JSON, so they go through a generic round trip first.
func marshalYAML(value interface{}) ([]byte, error) {
	if _, ok := value.(processor.Shape); ok {
		return yaml.Marshal(value)
	}

	data, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	var generic interface{}
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, err
	}

	return yaml.Marshal(generic)
}
