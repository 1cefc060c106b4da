package processor

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrInvalidKMZ is returned for input that starts like a zip archive
	// but cannot be read as one.
	ErrInvalidKMZ = errors.New("invalid KMZ archive")
	// ErrNoKML is returned for KMZ archives without a .kml entry.
	ErrNoKML = errors.New("no KML file found in KMZ archive")
)

var zipMagic = []byte("PK\x03\x04")

// IsKMZ reports whether data looks like a zip archive.
func IsKMZ(data []byte) bool {
	return bytes.HasPrefix(data, zipMagic)
}

// ReadKML returns the KML document held by data, unpacking KMZ archives.
func ReadKML(data []byte) ([]byte, error) {
	if !IsKMZ(data) {
		return data, nil
	}
	return ExtractKMZ(data)
}

// ExtractKMZ returns doc.kml from a KMZ archive, or the first .kml entry
// when there is no doc.kml.
func ExtractKMZ(data []byte) ([]byte, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidKMZ, err)
	}

	var kmlFile *zip.File
	for _, f := range r.File {
		name := strings.ToLower(f.Name)
		if name == "doc.kml" {
			kmlFile = f
			break
		}
		if strings.HasSuffix(name, ".kml") && kmlFile == nil {
			kmlFile = f
		}
	}

	if kmlFile == nil {
		return nil, ErrNoKML
	}

	rc, err := kmlFile.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidKMZ, kmlFile.Name, err)
	}
	defer func() { _ = rc.Close() }()

	doc, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidKMZ, kmlFile.Name, err)
	}
	return doc, nil
}
