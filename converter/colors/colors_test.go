package colors

import (
	"image/color"
	"testing"
)

func TestNewColorFromHex(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		hex     string
		want    color.RGBA
		wantErr bool
	}{
		{name: "with hash", hex: "#000000", want: color.RGBA{A: 255}},
		{name: "without hash", hex: "1a2b3c", want: color.RGBA{R: 0x1a, G: 0x2b, B: 0x3c, A: 255}},
		{name: "uppercase", hex: "#FFFFFF", want: color.RGBA{R: 255, G: 255, B: 255, A: 255}},
		{name: "too short", hex: "#fff", wantErr: true},
		{name: "not hex", hex: "#zz0000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := NewColorFromHex(tt.hex)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("NewColorFromHex(%q) expected error", tt.hex)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewColorFromHex(%q) unexpected error: %v", tt.hex, err)
			}
			if got.ToRGBA() != tt.want {
				t.Errorf("NewColorFromHex(%q) = %v, want %v", tt.hex, got.ToRGBA(), tt.want)
			}
		})
	}
}

func TestColorHexRoundTrip(t *testing.T) {
	t.Parallel()

	c := NewColorFromRGB8(18, 52, 86)
	back, err := NewColorFromHex(c.Hex())
	if err != nil {
		t.Fatal(err)
	}
	if back != c {
		t.Errorf("round trip = %+v, want %+v", back, c)
	}
}

func TestColorInvert(t *testing.T) {
	t.Parallel()

	if got := Black.Invert().Hex(); got != "#ffffff" {
		t.Errorf("Black.Invert() = %s, want #ffffff", got)
	}
	c := NewColorFromRGB8(10, 200, 77)
	if got := c.Invert().Invert(); got != c {
		t.Errorf("double invert = %+v, want %+v", got, c)
	}
}
