package kml

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"github.com/woozymasta/kml2geojson/internal/geo"
)

// Property keys written by the style resolver.
const (
	keyStyleURL     = "styleUrl"
	keyStyleHash    = "styleHash"
	keyStyleMapHash = "styleMapHash"
)

// styleSet indexes the shared styles of one document.
type styleSet struct {
	// "#id" -> content hash, for both Style and StyleMap
	index map[string]string
	// content hash -> Style element
	byHash map[string]*etree.Element
	// "#id" -> StyleMap pairs (key -> style url)
	maps map[string]geo.Value
}

// indexStyles walks scope once and indexes every Style and StyleMap with an id.
func indexStyles(scope *etree.Element) (*styleSet, error) {
	s := &styleSet{
		index:  make(map[string]string),
		byHash: make(map[string]*etree.Element),
		maps:   make(map[string]geo.Value),
	}

	for style := range Descendants(scope, "Style") {
		id, ok := attr(style, "id")
		if !ok {
			continue
		}
		hash, err := contentHash(style)
		if err != nil {
			return nil, err
		}
		s.index["#"+id] = hash
		s.byHash[hash] = style
	}

	for styleMap := range Descendants(scope, "StyleMap") {
		id, ok := attr(styleMap, "id")
		if !ok {
			continue
		}
		hash, err := contentHash(styleMap)
		if err != nil {
			return nil, err
		}
		s.index["#"+id] = hash

		var pairs []geo.Pair
		for pair := range Children(styleMap, "Pair") {
			url := strings.TrimSpace(childValue(pair, "styleUrl"))
			if url == "" {
				continue
			}
			pairs = append(pairs, geo.Pair{
				Key:   strings.TrimSpace(childValue(pair, "key")),
				Value: normalizeStyleURL(url),
			})
		}
		s.maps["#"+id] = geo.Pairs(pairs)
	}

	return s, nil
}

// resolve records styleMapHash/styleHash for url and returns the Style
// element the placemark inherits from, or nil.
func (s *styleSet) resolve(url string, props *geo.Properties) *etree.Element {
	if pairs, ok := s.maps[url]; ok {
		props.Set(keyStyleMapHash, pairs)

		normal, ok := pairs.Lookup("normal")
		if !ok {
			return nil
		}
		hash, ok := s.index[normal]
		if !ok {
			return nil
		}
		props.Set(keyStyleHash, geo.String(hash))
		return s.byHash[hash]
	}

	if hash, ok := s.index[url]; ok {
		props.Set(keyStyleHash, geo.String(hash))
		return s.byHash[hash]
	}

	return nil
}

// normalizeStyleURL makes url a local reference token.
func normalizeStyleURL(url string) string {
	if strings.HasPrefix(url, "#") {
		return url
	}
	return "#" + url
}

// contentHash fingerprints the serialized subtree of el. The hash only
// identifies equal styles; it carries no security meaning.
func contentHash(el *etree.Element) (string, error) {
	doc := etree.NewDocument()
	doc.SetRoot(el.Copy())

	text, err := doc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("serialize %s: %w", el.Tag, err)
	}

	sum := md5.Sum([]byte(text))
	return strings.ToUpper(hex.EncodeToString(sum[:])), nil
}
