package main

import (
	"io"
	"os"
	"time"

	"github.com/woozymasta/kml2geojson/internal/geo"
	"github.com/woozymasta/kml2geojson/internal/logger"
	"github.com/woozymasta/kml2geojson/internal/processor"

	"github.com/jessevdk/go-flags"
	"github.com/rs/zerolog/log"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	Input      string `short:"i" long:"in"          description:"Input KML or KMZ file path. Reads from stdin if empty"`
	Output     string `short:"o" long:"out"         description:"Output file path. Writes to stdout if empty"`
	Format     string `short:"f" long:"format"      description:"Output format" choice:"json" choice:"yaml" default:"json"`
	Indent     int    `short:"n" long:"indent"      description:"JSON indent width, 0 for compact output" default:"2"`
	Minify     bool   `short:"m" long:"minify"      description:"Minify JSON output"`
	BBoxMember bool   `short:"b" long:"bbox-member" description:"Add a bbox member to the feature collection"`
	Filter     string `long:"filter"                description:"Keep features intersecting minLon,minLat,maxLon,maxLat"`
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

	enc := processor.Options{
		Format: opts.Format,
		Indent: opts.Indent,
		Minify: opts.Minify,
		BBox:   opts.BBoxMember,
	}
	if opts.Filter != "" {
		b, err := geo.ParseBound(opts.Filter)
		if err != nil {
			log.Fatal().Err(err).Msg("Invalid --filter")
		}
		enc.Filter = &b
	}

	// Read Input
	var (
		inputData []byte
		err       error
	)
	if opts.Input != "" {
		inputData, err = os.ReadFile(opts.Input)
	} else {
		inputData, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		log.Fatal().Err(err).Str("source", opts.Input).Msg("Failed to read input")
	}

	start := time.Now()
	fc, err := processor.Convert(inputData)
	if err != nil {
		log.Fatal().Err(err).Str("source", opts.Input).Msg("Failed to convert KML")
	}

	outputData, err := processor.Encode(fc, enc)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to encode output")
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, outputData, 0644); err != nil {
			log.Fatal().Err(err).Str("path", opts.Output).Msg("Failed to write output file")
		}
	} else if _, err := os.Stdout.Write(outputData); err != nil {
		log.Fatal().Err(err).Msg("Failed to write stdout")
	}

	log.Info().
		Str("source", opts.Input).
		Str("format", opts.Format).
		Int("features", len(fc.Features)).
		Dur("duration", time.Since(start)).
		Msg("Conversion finished")
}
