package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"

	"pdfnightmode/internal/pdftest"
)

func randomRGBA(w, h int, seed uint64) *image.RGBA {
	r := rand.New(rand.NewPCG(seed, seed+1))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = uint8(r.IntN(256))
		img.Pix[i+1] = uint8(r.IntN(256))
		img.Pix[i+2] = uint8(r.IntN(256))
		img.Pix[i+3] = 255
	}
	return img
}

func TestInvert(t *testing.T) {
	t.Parallel()

	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 0, G: 128, B: 255, A: 255})
	img.SetRGBA(1, 0, color.RGBA{R: 10, G: 20, B: 30, A: 255})

	got := Invert(img)

	if c := got.RGBAAt(0, 0); c != (color.RGBA{R: 255, G: 127, B: 0, A: 255}) {
		t.Errorf("pixel (0,0) = %v", c)
	}
	if c := got.RGBAAt(1, 0); c != (color.RGBA{R: 245, G: 235, B: 225, A: 255}) {
		t.Errorf("pixel (1,0) = %v", c)
	}
	if c := img.RGBAAt(0, 0); c != (color.RGBA{R: 0, G: 128, B: 255, A: 255}) {
		t.Errorf("input was modified: %v", c)
	}
}

func TestInvert_Idempotence(t *testing.T) {
	t.Parallel()

	for _, seed := range []uint64{1, 2, 3} {
		img := randomRGBA(37, 23, seed)
		twice := Invert(Invert(img))
		if diff := cmp.Diff(img.Pix, twice.Pix); diff != "" {
			t.Errorf("seed %d: Invert(Invert(x)) != x (-want +got):\n%s", seed, diff)
		}
	}
}

func TestInvert_PreservesBounds(t *testing.T) {
	t.Parallel()

	img := randomRGBA(40, 30, 7).SubImage(image.Rect(5, 5, 25, 20)).(*image.RGBA)
	got := Invert(img)
	if got.Bounds() != img.Bounds() {
		t.Errorf("bounds = %v, want %v", got.Bounds(), img.Bounds())
	}
	if c, want := got.RGBAAt(10, 10), img.RGBAAt(10, 10); c.R != 255-want.R || c.G != 255-want.G || c.B != 255-want.B {
		t.Errorf("pixel (10,10) = %v, want inversion of %v", c, want)
	}
}

func TestFlatten(t *testing.T) {
	t.Parallel()

	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	// fully transparent pixel and opaque black pixel
	img.SetRGBA(1, 0, color.RGBA{A: 255})

	got := Flatten(img)
	if !got.Opaque() {
		t.Fatal("Flatten result is not opaque")
	}
	if c := got.RGBAAt(0, 0); c != (color.RGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("transparent pixel = %v, want white", c)
	}
	if c := got.RGBAAt(1, 0); c != (color.RGBA{A: 255}) {
		t.Errorf("black pixel = %v, want black", c)
	}

	opaque := randomRGBA(3, 3, 9)
	if Flatten(opaque) != opaque {
		t.Error("Flatten copied an already opaque image")
	}
}

func TestToRGBA(t *testing.T) {
	t.Parallel()

	gray := image.NewGray(image.Rect(0, 0, 4, 4))
	gray.SetGray(1, 1, color.Gray{Y: 200})

	got := ToRGBA(gray)
	if got.Bounds() != gray.Bounds() {
		t.Errorf("bounds = %v, want %v", got.Bounds(), gray.Bounds())
	}
	if c := got.RGBAAt(1, 1); c != (color.RGBA{R: 200, G: 200, B: 200, A: 255}) {
		t.Errorf("pixel = %v", c)
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "jpeg", want: FormatJPEG},
		{in: "JPG", want: FormatJPEG},
		{in: " png ", want: FormatPNG},
		{in: "gif", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEncode(t *testing.T) {
	t.Parallel()

	img := randomRGBA(16, 8, 11)

	t.Run("jpeg", func(t *testing.T) {
		t.Parallel()

		data, err := Encode(img, FormatJPEG, 70)
		if err != nil {
			t.Fatal(err)
		}
		cfg, err := jpeg.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("output is not JPEG: %v", err)
		}
		if cfg.Width != 16 || cfg.Height != 8 {
			t.Errorf("decoded size = %dx%d, want 16x8", cfg.Width, cfg.Height)
		}
	})

	t.Run("png is lossless", func(t *testing.T) {
		t.Parallel()

		data, err := Encode(img, FormatPNG, 0)
		if err != nil {
			t.Fatal(err)
		}
		decoded, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("output is not PNG: %v", err)
		}
		if diff := cmp.Diff(img.Pix, ToRGBA(decoded).Pix); diff != "" {
			t.Errorf("PNG round trip differs (-want +got):\n%s", diff)
		}
	})

	t.Run("invalid quality", func(t *testing.T) {
		t.Parallel()

		if _, err := Encode(img, FormatJPEG, 0); err == nil {
			t.Error("expected error for quality 0")
		}
	})
}

func TestSource(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := pdftest.Write(t, dir, "in.pdf", pdftest.Letter, pdftest.Page{Width: 300, Height: 400})

	src, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer src.Close()

	if n := src.NumPages(); n != 2 {
		t.Fatalf("NumPages() = %d, want 2", n)
	}

	size, err := src.PageSize(0)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(Size{Width: 612, Height: 792}, size); diff != "" {
		t.Errorf("PageSize(0) mismatch (-want +got):\n%s", diff)
	}

	img, err := src.Render(0, 1.0)
	if err != nil {
		t.Fatal(err)
	}
	if !img.Opaque() {
		t.Error("rendered page is not opaque")
	}
	b := img.Bounds()
	if math.Abs(float64(b.Dx())-612) > 2 || math.Abs(float64(b.Dy())-792) > 2 {
		t.Errorf("rendered size = %dx%d, want about 612x792", b.Dx(), b.Dy())
	}
	// the mark is black, the middle of the page is white
	if c := img.RGBAAt(b.Min.X+10, b.Min.Y+10); c.R > 64 {
		t.Errorf("mark pixel = %v, want dark", c)
	}
	if c := img.RGBAAt(b.Min.X+b.Dx()/2, b.Min.Y+b.Dy()/2); c.R < 192 {
		t.Errorf("center pixel = %v, want light", c)
	}

	big, err := src.Render(1, 2.0)
	if err != nil {
		t.Fatal(err)
	}
	if w := big.Bounds().Dx(); math.Abs(float64(w)-600) > 2 {
		t.Errorf("page 1 at scale 2 width = %d, want about 600", w)
	}

	if _, err := src.Render(5, 1.0); err == nil {
		t.Error("expected error rendering a missing page")
	}
}

func TestOpen_NotAPDF(t *testing.T) {
	t.Parallel()

	path := pdftest.WriteGarbage(t, t.TempDir(), "garbage.pdf")
	if src, err := Open(path); err == nil {
		src.Close()
		t.Error("expected error opening a non-PDF file")
	}
}
