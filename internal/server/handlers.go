// Package server handles HTTP requests and middleware.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/woozymasta/kml2geojson/internal/config"
	"github.com/woozymasta/kml2geojson/internal/geo"
	"github.com/woozymasta/kml2geojson/internal/kml"
	"github.com/woozymasta/kml2geojson/internal/processor"

	"github.com/rs/zerolog/log"
)

const etagCap = 64

// HandleLayersList serves the JSON list of available layers.
func (s *ServerContext) HandleLayersList(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	// Ignoring error as we cannot handle client disconnects
	_ = json.NewEncoder(w).Encode(s.Config.Layers)
}

// HandleConvert converts a KML or KMZ request body.
// Query parameters override the configured output: format=json|yaml,
// minify, bbox (booleans) and filter=minLon,minLat,maxLon,maxLat.
func (s *ServerContext) HandleConvert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	opts, err := s.queryOptions(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.MaxBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
			return
		}
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	fc, err := processor.Convert(body)
	if err != nil {
		log.Debug().Err(err).Msg("Conversion rejected")
		if isInputError(err) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, "conversion failed", http.StatusInternalServerError)
		return
	}

	data, err := processor.Encode(fc, opts)
	if err != nil {
		log.Error().Err(err).Msg("Failed to encode feature collection")
		http.Error(w, "encoding failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", opts.MediaType())
	_, _ = w.Write(data)
}

func (s *ServerContext) queryOptions(r *http.Request) (processor.Options, error) {
	opts := s.Options
	q := r.URL.Query()

	if f := q.Get("format"); f != "" {
		if f != config.FormatJSON && f != config.FormatYAML {
			return opts, errors.New("format: want json or yaml")
		}
		opts.Format = f
	}

	for name, dst := range map[string]*bool{"minify": &opts.Minify, "bbox": &opts.BBox} {
		v := q.Get(name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(name + ": want a boolean")
		}
		*dst = b
	}

	if f := q.Get("filter"); f != "" {
		b, err := geo.ParseBound(f)
		if err != nil {
			return opts, err
		}
		opts.Filter = &b
	}

	return opts, nil
}

// isInputError reports errors caused by the uploaded document itself.
func isInputError(err error) bool {
	for _, target := range []error{
		kml.ErrMalformedXML,
		kml.ErrNoRootElement,
		kml.ErrInvalidCoordinate,
		processor.ErrInvalidKMZ,
		processor.ErrNoKML,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// HandleLayer serves converted layer files.
func (s *ServerContext) HandleLayer(w http.ResponseWriter, r *http.Request) {
	// Path: /layers/{name}.geojson
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 2 {
		http.NotFound(w, r)
		return
	}

	requested, ok := strings.CutSuffix(parts[1], s.Options.Ext())
	if !ok {
		http.NotFound(w, r)
		return
	}

	name, ok := s.LayerResolver[requested]
	if !ok {
		http.NotFound(w, r)
		return
	}

	path := processor.LayerPath(s.Config.OutDir, name, s.Options)
	if !s.serveFile(w, r, path, s.Options.MediaType()) {
		http.NotFound(w, r)
	}
}

// serveFile tries to serve a file from disk with ETag generation.
// It returns true if the file was found and served (or 304).
func (s *ServerContext) serveFile(w http.ResponseWriter, r *http.Request, path string, contentType string) bool {
	info, err := os.Stat(filepath.Clean(path))
	if err != nil {
		return false
	}
	if info.IsDir() {
		return false
	}

	buf := make([]byte, 0, etagCap)
	buf = append(buf, '"')
	buf = strconv.AppendInt(buf, info.Size(), 16)
	buf = append(buf, '-')
	buf = strconv.AppendInt(buf, info.ModTime().UnixNano(), 16)
	buf = append(buf, '"')
	etag := string(buf)

	// check If-None-Match (client sent ETag)
	if match := r.Header.Get("If-None-Match"); match == etag {
		w.WriteHeader(http.StatusNotModified)
		return true
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "public, no-cache")

	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}

	http.ServeFile(w, r, path)
	return true
}
