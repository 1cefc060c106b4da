package processor

import (
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/woozymasta/kml2geojson/internal/config"
	"github.com/woozymasta/kml2geojson/internal/geo"

	"github.com/rs/zerolog/log"
)

// LayerPath returns where the converted layer is stored.
func LayerPath(dir, name string, o Options) string {
	return filepath.Join(dir, name+o.Ext())
}

// ProcessLayer converts one configured layer and writes it to dir.
// Existing output is kept unless force is set.
func ProcessLayer(client *http.Client, l config.Layer, o Options, dir string, force bool) error {
	destFile := LayerPath(dir, l.Name, o)

	if _, err := os.Stat(destFile); err == nil && !force {
		log.Debug().Str("layer", l.Name).Msg("Layer file exists, skipping")
		return nil
	}

	if l.Filter != "" {
		b, err := geo.ParseBound(l.Filter)
		if err != nil {
			return err
		}
		o.Filter = &b
	}

	start := time.Now()
	log.Info().
		Str("layer", l.Name).
		Str("source", l.Source).
		Msg("Processing layer")

	fc, err := LoadLayer(client, l)
	if err != nil {
		return err
	}

	data, err := Encode(fc, o)
	if err != nil {
		return err
	}

	if err := Save(dir, destFile, data); err != nil {
		return err
	}

	log.Info().
		Str("layer", l.Name).
		Str("path", destFile).
		Int("features", len(fc.Features)).
		Dur("duration", time.Since(start)).
		Msg("Layer saved")

	return nil
}

// ProcessLayers converts layers with at most concurrency conversions in
// flight and returns the number of failed layers.
func ProcessLayers(client *http.Client, layers []config.Layer, o Options, dir string, concurrency int, force bool) int {
	if concurrency <= 0 {
		concurrency = 1
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed int
	)
	sem := make(chan struct{}, concurrency)

	for _, l := range layers {
		wg.Add(1)
		sem <- struct{}{}

		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			if err := ProcessLayer(client, l, o, dir, force); err != nil {
				log.Error().Err(err).Str("layer", l.Name).Msg("Failed to process layer")
				mu.Lock()
				failed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	return failed
}

// Save writes data to path, creating dir when needed.
func Save(dir, path string, data []byte) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
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

	_, err = f.Write(data)
	return err
}
