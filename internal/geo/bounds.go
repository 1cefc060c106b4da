package geo

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
)

// Bound returns the 2D bounding box of the geometry.
// ok is false when the geometry holds no coordinate.
func (g Geometry) Bound() (b orb.Bound, ok bool) {
	var mp orb.MultiPoint
	g.collect(&mp)
	if len(mp) == 0 {
		return orb.Bound{}, false
	}
	return mp.Bound(), true
}

func (g Geometry) collect(mp *orb.MultiPoint) {
	add := func(c Coordinate) {
		if len(c) >= 2 {
			*mp = append(*mp, orb.Point{c[0], c[1]})
		}
	}

	switch g.Type {
	case TypePoint:
		add(g.Point)
	case TypeLineString:
		for _, c := range g.Line {
			add(c)
		}
	case TypePolygon:
		for _, ring := range g.Rings {
			for _, c := range ring {
				add(c)
			}
		}
	case TypeGeometryCollection:
		for _, sub := range g.Geometries {
			sub.collect(mp)
		}
	}
}

// Bound returns the union of all feature bounds.
func (fc FeatureCollection) Bound() (orb.Bound, bool) {
	var (
		total orb.Bound
		found bool
	)
	for _, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}
		b, ok := f.Geometry.Bound()
		if !ok {
			continue
		}
		if !found {
			total, found = b, true
			continue
		}
		total = total.Union(b)
	}
	return total, found
}

// WithBBox returns the collection with its GeoJSON bbox member populated.
// A collection without coordinates is returned unchanged.
func (fc FeatureCollection) WithBBox() FeatureCollection {
	b, ok := fc.Bound()
	if !ok {
		return fc
	}
	fc.BBox = []float64{b.Min.X(), b.Min.Y(), b.Max.X(), b.Max.Y()}
	return fc
}

// Filter keeps the features whose bounds intersect b, in their original order.
func (fc FeatureCollection) Filter(b orb.Bound) FeatureCollection {
	kept := make([]Feature, 0, len(fc.Features))
	for _, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}
		fb, ok := f.Geometry.Bound()
		if ok && fb.Intersects(b) {
			kept = append(kept, f)
		}
	}
	fc.Features = kept
	if fc.BBox != nil {
		fc.BBox = nil
		fc = fc.WithBBox()
	}
	return fc
}

// ParseBound parses "minLon,minLat,maxLon,maxLat".
func ParseBound(s string) (orb.Bound, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return orb.Bound{}, fmt.Errorf("bbox %q: want 4 comma separated numbers", s)
	}

	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return orb.Bound{}, fmt.Errorf("bbox %q: %w", s, err)
		}
		v[i] = f
	}

	if v[0] > v[2] || v[1] > v[3] {
		return orb.Bound{}, fmt.Errorf("bbox %q: min exceeds max", s)
	}

	return orb.Bound{Min: orb.Point{v[0], v[1]}, Max: orb.Point{v[2], v[3]}}, nil
}
