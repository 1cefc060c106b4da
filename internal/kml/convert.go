// Package kml converts KML documents, including Google's gx extension,
// into GeoJSON feature collections.
//
// Conversion is a pure function of the input: every index is built per call
// and nothing is shared, so independent documents may be converted from
// several goroutines at once.
package kml

import (
	"errors"
	"fmt"
	"io"

	"github.com/beevik/etree"
	"github.com/woozymasta/kml2geojson/internal/geo"
	"golang.org/x/text/encoding/htmlindex"
)

type converter struct {
	styles *styleSet
}

// Convert parses KML text and converts it.
func Convert(data []byte) (geo.FeatureCollection, error) {
	doc, err := Parse(data)
	if err != nil {
		return geo.FeatureCollection{}, err
	}
	return ConvertDocument(doc)
}

// ConvertDocument converts an already parsed KML document. Placemarks
// without geometry are dropped; features keep document order.
func ConvertDocument(doc *etree.Document) (geo.FeatureCollection, error) {
	root := doc.Root()
	if root == nil {
		return geo.FeatureCollection{}, ErrNoRootElement
	}

	scope := root
	if d := Child(root, "Document"); d != nil {
		scope = d
	}

	styles, err := indexStyles(scope)
	if err != nil {
		return geo.FeatureCollection{}, err
	}
	c := &converter{styles: styles}

	features := []geo.Feature{}
	for pm := range Descendants(scope, "Placemark") {
		f, err := c.placemark(pm)
		if err != nil {
			return geo.FeatureCollection{}, fmt.Errorf("placemark %s: %w", placemarkLabel(pm), err)
		}
		if f != nil {
			features = append(features, *f)
		}
	}

	return geo.NewFeatureCollection(features), nil
}

// Parse reads a KML document into an element tree. Input that is not
// well-formed XML, including mismatched or unclosed tags, fails with
// ErrMalformedXML.
func Parse(data []byte) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charsetReader
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedXML, err)
	}
	if err := checkTopLevel(doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedXML, err)
	}
	if doc.Root() == nil {
		return nil, ErrNoRootElement
	}
	return doc, nil
}

// checkTopLevel rejects a second root element and text outside the root,
// both of which the tree reader accepts.
func checkTopLevel(doc *etree.Document) error {
	roots := 0
	for _, tok := range doc.Child {
		switch t := tok.(type) {
		case *etree.Element:
			roots++
			if roots > 1 {
				return fmt.Errorf("extra root element <%s>", t.FullTag())
			}
		case *etree.CharData:
			if !isBlank(t.Data) {
				return errors.New("text outside the root element")
			}
		}
	}
	return nil
}

// charsetReader decodes documents declared in a non UTF-8 encoding
// such as ISO-8859-1 or windows-1252.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", label, err)
	}
	return enc.NewDecoder().Reader(input), nil
}

func placemarkLabel(pm *etree.Element) string {
	if id, ok := attr(pm, "id"); ok {
		return fmt.Sprintf("%q", id)
	}
	if name := childValue(pm, "name"); !isBlank(name) {
		return fmt.Sprintf("%q", name)
	}
	return "(unnamed)"
}
