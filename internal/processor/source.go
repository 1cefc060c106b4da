// Package processor loads KML sources and writes converted GeoJSON layers.
package processor

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/woozymasta/kml2geojson/internal/config"
	"github.com/woozymasta/kml2geojson/internal/geo"
	"github.com/woozymasta/kml2geojson/internal/kml"

	"github.com/rs/zerolog/log"
)

// LoadSource reads a layer source from an http(s) URL or a local file.
func LoadSource(client *http.Client, source string) ([]byte, error) {
	if !strings.HasPrefix(source, "http://") && !strings.HasPrefix(source, "https://") {
		return os.ReadFile(source)
	}

	log.Debug().Str("url", source).Msg("Downloading source")
	resp, err := client.Get(source)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download %s failed: status %d", source, resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// LoadLayer fetches the layer's KML (inline, file or URL; KML or KMZ)
// and converts it into a feature collection.
func LoadLayer(client *http.Client, l config.Layer) (geo.FeatureCollection, error) {
	var (
		data []byte
		err  error
	)

	if l.Inline != "" {
		log.Debug().Str("layer", l.Name).Msg("Using inline KML from config")
		data = []byte(l.Inline)
	} else {
		data, err = LoadSource(client, l.Source)
		if err != nil {
			return geo.FeatureCollection{}, err
		}
	}

	return Convert(data)
}

// Convert converts KML or KMZ bytes into a feature collection.
func Convert(data []byte) (geo.FeatureCollection, error) {
	doc, err := ReadKML(data)
	if err != nil {
		return geo.FeatureCollection{}, err
	}
	return kml.Convert(doc)
}
