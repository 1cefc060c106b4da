package kml

import (
	"errors"
	"reflect"
	"testing"

	"github.com/woozymasta/kml2geojson/internal/geo"
)

func TestParseCoordinate(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    geo.Coordinate
		wantErr bool
	}{
		{"lon lat alt", "1,2,3", geo.Coordinate{1, 2, 3}, false},
		{"lon lat", "-122.4194,37.7749", geo.Coordinate{-122.4194, 37.7749}, false},
		{"padded", "  1.5 , 2.5\n", geo.Coordinate{1.5, 2.5}, false},
		{"space separated", "-122.2 37.3 156.0", geo.Coordinate{-122.2, 37.3, 156}, false},
		{"exponent", "1e2,-2.5E-1", geo.Coordinate{100, -0.25}, false},
		{"empty", "", nil, false},
		{"separators only", " ,, \n", nil, false},
		{"not a number", "1,abc", nil, true},
		{"locale comma", "1;5,2", nil, true},
		{"nan", "NaN,1", nil, true},
		{"infinite", "1,Inf", nil, true},
		{"too few", "1", nil, false},
		{"too many", "1,2,3,4", nil, false},
		{"too few bad token", "x", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCoordinate(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCoordinate(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidCoordinate) {
				t.Errorf("Expected ErrInvalidCoordinate, got %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseCoordinate(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseCoordinates(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    []geo.Coordinate
		wantErr bool
	}{
		{
			name: "single line",
			in:   "1,2 3,4",
			want: []geo.Coordinate{{1, 2}, {3, 4}},
		},
		{
			name: "newline separated",
			in: `
				-122.4194,37.7749,0
				-122.4094,37.7849,0
			`,
			want: []geo.Coordinate{{-122.4194, 37.7749, 0}, {-122.4094, 37.7849, 0}},
		},
		{
			name: "space after comma",
			in:   "1, 2, 3 4, 5, 6",
			want: []geo.Coordinate{{1, 2, 3}, {4, 5, 6}},
		},
		{
			name: "tabs",
			in:   "\t1,2\t3,4\r\n",
			want: []geo.Coordinate{{1, 2}, {3, 4}},
		},
		{
			name: "wrong arity dropped",
			in:   "1,2 3 4,5 6,7,8,9",
			want: []geo.Coordinate{{1, 2}, {4, 5}},
		},
		{
			name: "only wrong arity",
			in:   "1 2",
			want: nil,
		},
		{
			name: "blank",
			in:   "  \n ",
			want: nil,
		},
		{
			name:    "bad token",
			in:      "1,2 x,4",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCoordinates(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCoordinates error = %v, wantErr %v", err, tt.wantErr)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseCoordinates = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseCoordinateIgnoresLocale(t *testing.T) {
	t.Setenv("LC_ALL", "nb_NO.UTF-8")
	t.Setenv("LANG", "nb_NO.UTF-8")

	got, err := ParseCoordinate("10.5,59.9")
	if err != nil {
		t.Fatalf("ParseCoordinate failed: %v", err)
	}
	if !reflect.DeepEqual(got, geo.Coordinate{10.5, 59.9}) {
		t.Errorf("Unexpected coordinate %v", got)
	}
}

func TestCoordinateErrorMessage(t *testing.T) {
	_, err := ParseCoordinate("1,abc")
	var ce *CoordinateError
	if !errors.As(err, &ce) {
		t.Fatalf("Expected *CoordinateError, got %T", err)
	}
	if ce.Token != "abc" {
		t.Errorf("Expected token abc, got %q", ce.Token)
	}
}
