package kml

import (
	"testing"
)

const nsDoc = `<kml xmlns="http://www.opengis.net/kml/2.2" xmlns:gx="http://www.google.com/kml/ext/2.2">
  <Placemark>
    <name>one</name>
    <Track><when>a</when></Track>
    <gx:Track><when>b</when></gx:Track>
    <description><![CDATA[<b>bold</b>]]> tail</description>
    <ExtendedData><Data name="x"><value>1</value></Data></ExtendedData>
  </Placemark>
</kml>`

func TestChildrenIgnoreNamespace(t *testing.T) {
	doc, err := Parse([]byte(nsDoc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	pm := Child(doc.Root(), "Placemark")
	if pm == nil {
		t.Fatal("Placemark not found")
	}

	count := 0
	for range Children(pm, "Track") {
		count++
	}
	if count != 2 {
		t.Errorf("Expected 2 tracks across namespaces, got %d", count)
	}

	// sequences are recomputed on every range
	again := 0
	for range Children(pm, "Track") {
		again++
	}
	if again != count {
		t.Errorf("Second iteration yielded %d, want %d", again, count)
	}

	if Child(pm, "Missing") != nil {
		t.Error("Expected nil for missing child")
	}
	if Child(nil, "Track") != nil {
		t.Error("Expected nil child of nil element")
	}
}

func TestNamespaceClasses(t *testing.T) {
	doc, err := Parse([]byte(nsDoc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	pm := Child(doc.Root(), "Placemark")

	def := childNS(pm, nsDefault, "Track")
	ext := childNS(pm, nsExt, "Track")
	if def == nil || ext == nil {
		t.Fatal("Expected a track in each namespace")
	}
	if Value(def) != "a" || Value(ext) != "b" {
		t.Errorf("Tracks mixed up: default=%q ext=%q", Value(def), Value(ext))
	}
}

func TestUndeclaredGxPrefix(t *testing.T) {
	doc, err := Parse([]byte(`<kml><Placemark><gx:Track/></Placemark></kml>`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	pm := Child(doc.Root(), "Placemark")
	if childNS(pm, nsExt, "Track") == nil {
		t.Error("gx prefix without declaration should count as extension namespace")
	}
}

func TestValue(t *testing.T) {
	doc, err := Parse([]byte(nsDoc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	pm := Child(doc.Root(), "Placemark")

	if got := childValue(pm, "description"); got != "<b>bold</b> tail" {
		t.Errorf("Unexpected description %q", got)
	}
	if got := Value(Child(pm, "ExtendedData")); got != "1" {
		t.Errorf("Expected nested text, got %q", got)
	}
	if Value(nil) != "" {
		t.Error("Value(nil) should be empty")
	}
}

func TestDescendantsDocumentOrder(t *testing.T) {
	doc, err := Parse([]byte(`<kml><Document>
	  <Placemark id="1"/>
	  <Folder><Placemark id="2"/><Folder><Placemark id="3"/></Folder></Folder>
	  <Placemark id="4"/>
	</Document></kml>`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	var ids []string
	for pm := range Descendants(doc.Root(), "Placemark") {
		id, _ := attr(pm, "id")
		ids = append(ids, id)
	}

	want := []string{"1", "2", "3", "4"}
	if len(ids) != len(want) {
		t.Fatalf("Expected %v, got %v", want, ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids[%d] = %s, want %s", i, ids[i], want[i])
		}
	}
}
