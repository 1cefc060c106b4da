package kml

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/woozymasta/kml2geojson/internal/geo"
)

// Whitespace next to a comma belongs to the tuple, not to a tuple boundary.
var commaSpace = regexp.MustCompile(`\s*,\s*`)

func isCoordSeparator(r rune) bool {
	return r == ' ' || r == ',' || r == '\n'
}

// ParseCoordinate parses one "lon,lat[,alt]" tuple. Numbers always use '.'
// as the decimal point. Text without any number, or with a number count
// other than 2 or 3, yields a nil coordinate.
func ParseCoordinate(text string) (geo.Coordinate, error) {
	var c geo.Coordinate
	for _, tok := range strings.FieldsFunc(text, isCoordSeparator) {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, &CoordinateError{Token: tok, Reason: "not a number"}
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &CoordinateError{Token: tok, Reason: "not a finite number"}
		}
		c = append(c, v)
	}

	if len(c) < 2 || len(c) > 3 {
		return nil, nil
	}
	return c, nil
}

// ParseCoordinates parses a whitespace separated list of tuples.
// Tuples that are not positions are dropped; nil means nothing was found.
func ParseCoordinates(text string) ([]geo.Coordinate, error) {
	if isBlank(text) {
		return nil, nil
	}

	var out []geo.Coordinate
	for _, tuple := range strings.Fields(commaSpace.ReplaceAllString(text, ",")) {
		c, err := ParseCoordinate(tuple)
		if err != nil {
			return nil, err
		}
		if c != nil {
			out = append(out, c)
		}
	}
	return out, nil
}
