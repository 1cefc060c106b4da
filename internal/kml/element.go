package kml

import (
	"iter"
	"strings"

	"github.com/beevik/etree"
)

// Namespace URIs recognised by the converter.
const (
	NamespaceKML = "http://www.opengis.net/kml/2.2"
	NamespaceExt = "http://www.google.com/kml/ext/2.2"

	extPrefix = "gx"
)

// namespace distinguishes the KML default namespace from Google's extension.
type namespace int

const (
	nsDefault namespace = iota
	nsExt
)

// namespaceOf classifies el. Anything outside the extension namespace,
// including elements without a namespace, counts as default.
func namespaceOf(el *etree.Element) namespace {
	uri := el.NamespaceURI()
	if uri == NamespaceExt || (uri == "" && el.Space == extPrefix) {
		return nsExt
	}
	return nsDefault
}

// Children yields the direct children of el whose local name is tag,
// in document order and regardless of namespace.
func Children(el *etree.Element, tag string) iter.Seq[*etree.Element] {
	return func(yield func(*etree.Element) bool) {
		if el == nil {
			return
		}
		for _, c := range el.ChildElements() {
			if c.Tag == tag && !yield(c) {
				return
			}
		}
	}
}

// Child returns the first direct child of el with local name tag, or nil.
func Child(el *etree.Element, tag string) *etree.Element {
	for c := range Children(el, tag) {
		return c
	}
	return nil
}

// childrenNS is Children restricted to one namespace class.
func childrenNS(el *etree.Element, ns namespace, tag string) iter.Seq[*etree.Element] {
	return func(yield func(*etree.Element) bool) {
		for c := range Children(el, tag) {
			if namespaceOf(c) == ns && !yield(c) {
				return
			}
		}
	}
}

func childNS(el *etree.Element, ns namespace, tag string) *etree.Element {
	for c := range childrenNS(el, ns, tag) {
		return c
	}
	return nil
}

// Descendants yields every element below el with local name tag,
// in document order.
func Descendants(el *etree.Element, tag string) iter.Seq[*etree.Element] {
	return func(yield func(*etree.Element) bool) {
		var walk func(*etree.Element) bool
		walk = func(e *etree.Element) bool {
			for _, c := range e.ChildElements() {
				if c.Tag == tag && !yield(c) {
					return false
				}
				if !walk(c) {
					return false
				}
			}
			return true
		}
		if el != nil {
			walk(el)
		}
	}
}

// Value returns the concatenated character data of el and its descendants.
// A nil element has an empty value.
func Value(el *etree.Element) string {
	if el == nil {
		return ""
	}
	var sb strings.Builder
	appendText(&sb, el)
	return sb.String()
}

func appendText(sb *strings.Builder, el *etree.Element) {
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			sb.WriteString(t.Data)
		case *etree.Element:
			appendText(sb, t)
		}
	}
}

// childValue is Value(Child(el, tag)).
func childValue(el *etree.Element, tag string) string {
	return Value(Child(el, tag))
}

// attr returns the unprefixed attribute key of el.
func attr(el *etree.Element, key string) (string, bool) {
	a := el.SelectAttr(key)
	if a == nil {
		return "", false
	}
	return a.Value, true
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
