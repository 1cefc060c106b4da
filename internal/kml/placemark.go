package kml

import (
	"encoding/hex"
	"math"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/woozymasta/kml2geojson/internal/geo"
)

// subStyles holds the four styling blocks a placemark may carry.
type subStyles struct {
	icon, label, line, poly *etree.Element
}

func subStylesOf(style *etree.Element) subStyles {
	return subStyles{
		icon:  Child(style, "IconStyle"),
		label: Child(style, "LabelStyle"),
		line:  Child(style, "LineStyle"),
		poly:  Child(style, "PolyStyle"),
	}
}

// inherit fills the blocks that are still missing from a referenced style.
func (s *subStyles) inherit(from subStyles) {
	if s.icon == nil {
		s.icon = from.icon
	}
	if s.label == nil {
		s.label = from.label
	}
	if s.line == nil {
		s.line = from.line
	}
	if s.poly == nil {
		s.poly = from.poly
	}
}

// placemark turns one Placemark into a Feature. A nil feature means the
// placemark carried no usable geometry.
func (c *converter) placemark(pm *etree.Element) (*geo.Feature, error) {
	ex, err := extract(pm)
	if err != nil {
		return nil, err
	}
	if len(ex.geometries) == 0 {
		return nil, nil
	}

	props := geo.NewProperties()

	for _, key := range []string{"name", "address", "description"} {
		if v := childValue(pm, key); !isBlank(v) {
			props.Set(key, geo.String(v))
		}
	}

	styles := subStylesOf(Child(pm, "Style"))
	if url := strings.TrimSpace(childValue(pm, "styleUrl")); url != "" {
		url = normalizeStyleURL(url)
		props.Set(keyStyleURL, geo.String(url))
		if shared := c.styles.resolve(url, props); shared != nil {
			styles.inherit(subStylesOf(shared))
		}
	}

	setTime(props, pm)

	if s := styles.icon; s != nil {
		setColor(props, s, "icon")
		setNumber(props, s, "scale", "icon-scale")
		setNumber(props, s, "heading", "icon-heading")
		setHotSpot(props, Child(s, "hotSpot"))
		if href := strings.TrimSpace(childValue(Child(s, "Icon"), "href")); href != "" {
			props.Set("icon", geo.String(href))
		}
	}

	if s := styles.label; s != nil {
		setColor(props, s, "label")
		setNumber(props, s, "scale", "label-scale")
	}

	if s := styles.line; s != nil {
		setColor(props, s, "stroke")
		setNumber(props, s, "width", "stroke-width")
	}

	if s := styles.poly; s != nil {
		setColor(props, s, "fill")
		setFlag(props, s, "fill", "fill-opacity")
		setFlag(props, s, "outline", "stroke-opacity")
	}

	setExtendedData(props, Child(pm, "ExtendedData"))

	if vis := Child(pm, "visibility"); vis != nil {
		props.Set("visibility", geo.String(Value(vis)))
	}

	switch len(ex.times) {
	case 0:
	case 1:
		props.Set("coordTimes", geo.Strings(ex.times[0]))
	default:
		props.Set("coordTimes", geo.StringLists(ex.times))
	}

	var id *string
	if v, ok := attr(pm, "id"); ok {
		id = &v
	}

	g := ex.geometries[0]
	if len(ex.geometries) > 1 {
		g = geo.NewGeometryCollection(ex.geometries)
	}

	f := geo.NewFeature(id, g, props)
	return &f, nil
}

func setTime(props *geo.Properties, pm *etree.Element) {
	if span := Child(pm, "TimeSpan"); span != nil {
		var pairs []geo.Pair
		for _, key := range []string{"begin", "end"} {
			if v := strings.TrimSpace(childValue(span, key)); v != "" {
				pairs = append(pairs, geo.Pair{Key: key, Value: v})
			}
		}
		if len(pairs) > 0 {
			props.Set("timespan", geo.Pairs(pairs))
		}
	}

	if stamp := Child(pm, "TimeStamp"); stamp != nil {
		if v := strings.TrimSpace(childValue(stamp, "when")); v != "" {
			props.Set("timestamp", geo.String(v))
		}
	}
}

// setColor decodes a KML color into <prefix>-color (or stroke/fill) and
// <prefix>-opacity. Eight digit values are aabbggrr.
func setColor(props *geo.Properties, style *etree.Element, prefix string) {
	key := prefix + "-color"
	if prefix == "stroke" || prefix == "fill" {
		key = prefix
	}

	v := strings.TrimPrefix(strings.TrimSpace(childValue(style, "color")), "#")
	switch len(v) {
	case 3, 6:
		props.Set(key, geo.String(v))
	case 8:
		raw, err := hex.DecodeString(v)
		if err != nil {
			return
		}
		props.Set(prefix+"-opacity", geo.Number(float64(raw[0])/255))
		props.Set(key, geo.String("#"+v[6:8]+v[4:6]+v[2:4]))
	}
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func setNumber(props *geo.Properties, style *etree.Element, source, target string) {
	if f, ok := parseNumber(childValue(style, source)); ok {
		props.Set(target, geo.Number(f))
	}
}

func setHotSpot(props *geo.Properties, hotSpot *etree.Element) {
	if hotSpot == nil {
		return
	}
	xs, _ := attr(hotSpot, "x")
	ys, _ := attr(hotSpot, "y")
	x, okX := parseNumber(xs)
	y, okY := parseNumber(ys)
	if okX && okY {
		props.Set("icon-offset", geo.Numbers(x, y))
	}
}

// setFlag maps a KML boolean to 1/0 unless target was already set by a color.
func setFlag(props *geo.Properties, style *etree.Element, source, target string) {
	v := strings.TrimSpace(childValue(style, source))
	if v == "" || props.Has(target) {
		return
	}
	if v == "1" {
		props.Set(target, geo.Number(1))
	} else {
		props.Set(target, geo.Number(0))
	}
}

func setExtendedData(props *geo.Properties, ext *etree.Element) {
	if ext == nil {
		return
	}

	for data := range Children(ext, "Data") {
		if name, ok := attr(data, "name"); ok {
			props.Set(name, geo.String(childValue(data, "value")))
		}
	}

	for schema := range Children(ext, "SchemaData") {
		for simple := range Children(schema, "SimpleData") {
			if name, ok := attr(simple, "name"); ok {
				props.Set(name, geo.String(Value(simple)))
			}
		}
	}
}
