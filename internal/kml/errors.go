package kml

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedXML indicates the input is not well-formed XML.
	ErrMalformedXML = errors.New("malformed XML")

	// ErrNoRootElement indicates the input holds no element at all.
	ErrNoRootElement = errors.New("document has no root element")

	// ErrInvalidCoordinate indicates a coordinate value that cannot be parsed.
	ErrInvalidCoordinate = errors.New("invalid coordinate")
)

// CoordinateError describes a coordinate token or tuple that failed to parse.
type CoordinateError struct {
	Token  string
	Reason string
}

func (e *CoordinateError) Error() string {
	return fmt.Sprintf("%v %q: %s", ErrInvalidCoordinate, e.Token, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidCoordinate.
func (e *CoordinateError) Unwrap() error {
	return ErrInvalidCoordinate
}
