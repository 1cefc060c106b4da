package server

import (
	"os"
	"sort"

	"github.com/woozymasta/kml2geojson/internal/config"
	"github.com/woozymasta/kml2geojson/internal/processor"

	"github.com/rs/zerolog/log"
)

// DefaultMaxBodySize limits uploads to the convert endpoint.
const DefaultMaxBodySize = 32 << 20

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Config        *config.Config
	Options       processor.Options
	LayerResolver map[string]string
	MaxBodySize   int64
}

// NewServerContext initializes the context from the configuration.
// Layers whose converted file is missing are not served.
func NewServerContext(cfg *config.Config) *ServerContext {
	log.Info().Int("config_layers_count", len(cfg.Layers)).Msg("Initializing server context")

	opts := processor.OptionsFrom(cfg.Output)
	resolver := make(map[string]string)
	validLayers := make([]config.Layer, 0, len(cfg.Layers))

	for _, l := range cfg.Layers {
		path := processor.LayerPath(cfg.OutDir, l.Name, opts)
		if _, err := os.Stat(path); err != nil {
			log.Warn().
				Str("layer", l.Name).
				Str("path", path).
				Msg("Skipping layer: converted file not found, run the loader first")
			continue
		}

		resolver[l.Name] = l.Name
		for _, alias := range l.Aliases {
			resolver[alias] = l.Name
		}

		log.Debug().
			Str("layer", l.Name).
			Str("path", path).
			Msg("Layer validated and added to context")

		validLayers = append(validLayers, l)
	}

	cfg.Layers = validLayers

	sort.Slice(cfg.Layers, func(i, j int) bool {
		idxI, idxJ := 999999, 999999
		if cfg.Layers[i].Index != nil {
			idxI = *cfg.Layers[i].Index
		}
		if cfg.Layers[j].Index != nil {
			idxJ = *cfg.Layers[j].Index
		}
		if idxI != idxJ {
			return idxI < idxJ
		}

		return cfg.Layers[i].Name < cfg.Layers[j].Name
	})

	log.Info().
		Int("valid_layers_count", len(cfg.Layers)).
		Msg("Server context initialized successfully")

	return &ServerContext{
		Config:        cfg,
		Options:       opts,
		LayerResolver: resolver,
		MaxBodySize:   DefaultMaxBodySize,
	}
}
