// Package geo holds the GeoJSON data model produced by the converter.
package geo

import (
	"encoding/json"
	"fmt"
)

// GeometryType is the GeoJSON discriminant of a Geometry.
type GeometryType string

// Supported geometry types.
const (
	TypePoint              GeometryType = "Point"
	TypeLineString         GeometryType = "LineString"
	TypePolygon            GeometryType = "Polygon"
	TypeGeometryCollection GeometryType = "GeometryCollection"
)

const (
	typeFeature           = "Feature"
	typeFeatureCollection = "FeatureCollection"
)

// Coordinate is a position tuple: [lon, lat] or [lon, lat, alt].
type Coordinate []float64

// Geometry is a tagged union over the four geometry kinds the converter emits.
// Only the member matching Type is meaningful.
type Geometry struct {
	Type       GeometryType
	Point      Coordinate
	Line       []Coordinate
	Rings      [][]Coordinate
	Geometries []Geometry
}

// NewPoint builds a Point geometry.
func NewPoint(c Coordinate) Geometry {
	return Geometry{Type: TypePoint, Point: c}
}

// NewLineString builds a LineString geometry.
func NewLineString(cs []Coordinate) Geometry {
	return Geometry{Type: TypeLineString, Line: cs}
}

// NewPolygon builds a Polygon geometry. Ring order is kept as given.
func NewPolygon(rings [][]Coordinate) Geometry {
	return Geometry{Type: TypePolygon, Rings: rings}
}

// NewGeometryCollection builds a GeometryCollection.
func NewGeometryCollection(gs []Geometry) Geometry {
	return Geometry{Type: TypeGeometryCollection, Geometries: gs}
}

// geometryJSON is the wire form of a coordinate-based geometry.
type geometryJSON struct {
	Type        GeometryType `json:"type" yaml:"type"`
	Coordinates any          `json:"coordinates" yaml:"coordinates"`
}

// collectionJSON is the wire form of a GeometryCollection.
type collectionJSON struct {
	Type       GeometryType `json:"type" yaml:"type"`
	Geometries []Geometry   `json:"geometries" yaml:"geometries"`
}

func (g Geometry) wire() (any, error) {
	switch g.Type {
	case TypePoint:
		return geometryJSON{Type: g.Type, Coordinates: g.Point}, nil
	case TypeLineString:
		return geometryJSON{Type: g.Type, Coordinates: g.Line}, nil
	case TypePolygon:
		return geometryJSON{Type: g.Type, Coordinates: g.Rings}, nil
	case TypeGeometryCollection:
		geoms := g.Geometries
		if geoms == nil {
			geoms = []Geometry{}
		}
		return collectionJSON{Type: g.Type, Geometries: geoms}, nil
	default:
		return nil, fmt.Errorf("unknown geometry type %q", g.Type)
	}
}

// MarshalJSON writes the geometry with its type discriminant.
func (g Geometry) MarshalJSON() ([]byte, error) {
	w, err := g.wire()
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

// MarshalYAML mirrors MarshalJSON for YAML output.
func (g Geometry) MarshalYAML() (any, error) {
	return g.wire()
}

// Feature represents a single geographic feature with geometry and properties.
type Feature struct {
	Type       string      `json:"type" yaml:"type"`
	ID         *string     `json:"id,omitempty" yaml:"id,omitempty"`
	Geometry   *Geometry   `json:"geometry,omitempty" yaml:"geometry,omitempty"`
	Properties *Properties `json:"properties" yaml:"properties"`
}

// NewFeature pairs a geometry with its properties. A nil props becomes an
// empty bag so the feature always carries a properties object.
func NewFeature(id *string, g Geometry, props *Properties) Feature {
	if props == nil {
		props = NewProperties()
	}
	return Feature{
		Type:       typeFeature,
		ID:         id,
		Geometry:   &g,
		Properties: props,
	}
}

// FeatureCollection represents a collection of geographic features.
// It follows the standard GeoJSON structure.
type FeatureCollection struct {
	Type     string    `json:"type" yaml:"type"`
	BBox     []float64 `json:"bbox,omitempty" yaml:"bbox,omitempty"`
	Features []Feature `json:"features" yaml:"features"`
}

// NewFeatureCollection wraps features, keeping their order.
func NewFeatureCollection(features []Feature) FeatureCollection {
	if features == nil {
		features = []Feature{}
	}
	return FeatureCollection{Type: typeFeatureCollection, Features: features}
}
