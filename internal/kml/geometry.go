package kml

import (
	"strings"

	"github.com/beevik/etree"
	"github.com/woozymasta/kml2geojson/internal/geo"
)

type geometryKind struct {
	tag string
	ns  namespace
}

// geometryKinds is the order in which direct geometry children are collected.
var geometryKinds = [...]geometryKind{
	{"Polygon", nsDefault},
	{"LineString", nsDefault},
	{"Point", nsDefault},
	{"Track", nsDefault},
	{"Track", nsExt},
}

// extraction is the result of walking one geometry container.
type extraction struct {
	geometries []geo.Geometry
	// one timestamp list per track, in extraction order
	times [][]string
}

// extract collects the geometries held by node (a Placemark, MultiGeometry
// or MultiTrack).
func extract(node *etree.Element) (extraction, error) {
	if multi := Child(node, "MultiGeometry"); multi != nil {
		return extract(multi)
	}
	if multi := childNS(node, nsDefault, "MultiTrack"); multi != nil {
		return extract(multi)
	}
	if multi := childNS(node, nsExt, "MultiTrack"); multi != nil {
		return extract(multi)
	}

	var out extraction
	for _, kind := range geometryKinds {
		for el := range childrenNS(node, kind.ns, kind.tag) {
			if err := out.add(kind.tag, el); err != nil {
				return extraction{}, err
			}
		}
	}
	return out, nil
}

func (x *extraction) add(tag string, el *etree.Element) error {
	switch tag {
	case "Point":
		coords := Child(el, "coordinates")
		if coords == nil {
			return nil
		}
		c, err := ParseCoordinate(Value(coords))
		if err != nil {
			return err
		}
		if c != nil {
			x.geometries = append(x.geometries, geo.NewPoint(c))
		}

	case "LineString":
		coords := Child(el, "coordinates")
		if coords == nil {
			return nil
		}
		cs, err := ParseCoordinates(Value(coords))
		if err != nil {
			return err
		}
		if len(cs) > 0 {
			x.geometries = append(x.geometries, geo.NewLineString(cs))
		}

	case "Polygon":
		rings, err := polygonRings(el)
		if err != nil {
			return err
		}
		if len(rings) > 0 {
			x.geometries = append(x.geometries, geo.NewPolygon(rings))
		}

	case "Track":
		cs, times, err := trackCoords(el)
		if err != nil {
			return err
		}
		if len(cs) > 0 {
			x.geometries = append(x.geometries, geo.NewLineString(cs))
		}
		if len(times) > 0 {
			x.times = append(x.times, times)
		}
	}
	return nil
}

// polygonRings returns the inner rings followed by the outer ring.
func polygonRings(poly *etree.Element) ([][]geo.Coordinate, error) {
	var rings [][]geo.Coordinate
	for _, boundary := range []string{"innerBoundaryIs", "outerBoundaryIs"} {
		for b := range Children(poly, boundary) {
			for ring := range Children(b, "LinearRing") {
				cs, err := ParseCoordinates(childValue(ring, "coordinates"))
				if err != nil {
					return nil, err
				}
				if len(cs) > 0 {
					rings = append(rings, cs)
				}
			}
		}
	}
	return rings, nil
}

// trackCoords reads the coord/when pairs of a Track. coord elements in the
// default namespace win over gx:coord.
func trackCoords(track *etree.Element) ([]geo.Coordinate, []string, error) {
	ns := nsDefault
	if childNS(track, nsDefault, "coord") == nil {
		ns = nsExt
	}

	var coords []geo.Coordinate
	for el := range childrenNS(track, ns, "coord") {
		c, err := ParseCoordinate(Value(el))
		if err != nil {
			return nil, nil, err
		}
		if c != nil {
			coords = append(coords, c)
		}
	}

	var times []string
	for el := range Children(track, "when") {
		times = append(times, strings.TrimSpace(Value(el)))
	}

	return coords, times, nil
}
