package processor

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/woozymasta/kml2geojson/internal/config"
	"github.com/woozymasta/kml2geojson/internal/geo"

	"github.com/paulmach/orb"
	"github.com/tdewolff/minify/v2"
	jsonmin "github.com/tdewolff/minify/v2/json"
	"gopkg.in/yaml.v3"
)

// Media types of the encoded output.
const (
	MediaGeoJSON = "application/geo+json"
	MediaYAML    = "application/yaml"
)

// Options controls how a feature collection is written.
type Options struct {
	Filter *orb.Bound
	Format string
	Indent int
	Minify bool
	BBox   bool
}

// OptionsFrom builds encoder options from the config output section.
func OptionsFrom(out config.Output) Options {
	return Options{
		Format: out.Format,
		Indent: out.Indent,
		Minify: out.Minify,
		BBox:   out.BBox,
	}
}

// MediaType returns the content type matching the output format.
func (o Options) MediaType() string {
	if o.Format == config.FormatYAML {
		return MediaYAML
	}
	return MediaGeoJSON
}

// Ext returns the file extension matching the output format.
func (o Options) Ext() string {
	if o.Format == config.FormatYAML {
		return ".yaml"
	}
	return ".geojson"
}

// Encode applies the filter and bbox options and serializes the collection.
func Encode(fc geo.FeatureCollection, o Options) ([]byte, error) {
	if o.Filter != nil {
		fc = fc.Filter(*o.Filter)
	}
	if o.BBox {
		fc = fc.WithBBox()
	}

	if o.Format == config.FormatYAML {
		return yaml.Marshal(fc)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if o.Indent > 0 && !o.Minify {
		enc.SetIndent("", strings.Repeat(" ", o.Indent))
	}
	if err := enc.Encode(fc); err != nil {
		return nil, err
	}

	if !o.Minify {
		return buf.Bytes(), nil
	}

	// KeepNumbers: minified numbers drop leading zeros, which is not valid JSON.
	m := minify.New()
	m.Add("application/json", &jsonmin.Minifier{KeepNumbers: true})

	out, err := m.Bytes("application/json", buf.Bytes())
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}
