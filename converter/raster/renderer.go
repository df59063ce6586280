package raster

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/gen2brain/go-fitz"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	xdraw "golang.org/x/image/draw"
)

// PointsPerInch is the PDF user space resolution; a scale of 1.0 renders at this DPI
const PointsPerInch = 72.0

// boundTolerance is how far (in points) pdfcpu's precise page size may drift
// from MuPDF's integer bound before MuPDF's value wins
const boundTolerance = 1.5

func init() {
	// pdfcpu would otherwise create a configuration directory in the user's home
	api.DisableConfigDir()
}

// Size is a page geometry in PDF points
type Size struct {
	Width  float64
	Height float64
}

// Pixels returns the pixel count of the page rendered at scale
func (s Size) Pixels(scale float64) float64 {
	return math.Ceil(s.Width*scale) * math.Ceil(s.Height*scale)
}

// Source is an opened, read-only input document.
// A Source is not meant to be shared between goroutines: go-fitz serializes
// every call on one handle, so parallel workers each open their own.
type Source struct {
	path string
	doc  *fitz.Document

	dims       []types.Dim
	dimsLoaded bool
}

// Open opens the document at path for rendering
func Open(path string) (*Source, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF %s: %w", path, err)
	}
	if doc.NumPage() <= 0 {
		doc.Close()
		return nil, fmt.Errorf("failed to open PDF %s: document has no pages", path)
	}
	return &Source{path: path, doc: doc}, nil
}

// Path returns the file the source was opened from
func (s *Source) Path() string {
	return s.path
}

// NumPages returns the number of pages in the document
func (s *Source) NumPages() int {
	return s.doc.NumPage()
}

// PageSize returns the geometry of the page at index (0-based).
// MuPDF only reports integer bounds, so the fractional MediaBox read by
// pdfcpu is preferred whenever both agree.
func (s *Source) PageSize(index int) (Size, error) {
	bound, err := s.doc.Bound(index)
	if err != nil {
		return Size{}, fmt.Errorf("failed to read bounds of page %d: %w", index, err)
	}
	approx := Size{Width: float64(bound.Dx()), Height: float64(bound.Dy())}
	if approx.Width <= 0 || approx.Height <= 0 {
		return Size{}, fmt.Errorf("page %d has empty bounds %v", index, bound)
	}

	if !s.dimsLoaded {
		s.dimsLoaded = true
		// pdfcpu is stricter than MuPDF; on failure the integer bounds are used
		if dims, err := api.PageDimsFile(s.path); err == nil {
			s.dims = dims
		}
	}
	if index < len(s.dims) {
		d := s.dims[index]
		if math.Abs(d.Width-approx.Width) <= boundTolerance && math.Abs(d.Height-approx.Height) <= boundTolerance {
			return Size{Width: d.Width, Height: d.Height}, nil
		}
	}
	return approx, nil
}

// Render rasterizes the page at index with the given scale factor.
// The returned image is fully opaque.
func (s *Source) Render(index int, scale float64) (*image.RGBA, error) {
	if scale <= 0 {
		return nil, fmt.Errorf("invalid render scale %.3f", scale)
	}
	img, err := s.doc.ImageDPI(index, PointsPerInch*scale)
	if err != nil {
		return nil, fmt.Errorf("failed to render page %d: %w", index, err)
	}
	return Flatten(img), nil
}

// Close releases the MuPDF handle
func (s *Source) Close() error {
	return s.doc.Close()
}

// Flatten composites img over opaque white and returns an image without
// transparency. Already opaque images are returned as is.
func Flatten(img *image.RGBA) *image.RGBA {
	if img.Opaque() {
		return img
	}
	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	xdraw.Draw(out, bounds, image.NewUniform(color.White), image.Point{}, xdraw.Src)
	xdraw.Draw(out, bounds, img, bounds.Min, xdraw.Over)
	return out
}

// ToRGBA converts any image to an opaque *image.RGBA with the same bounds
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return Flatten(rgba)
	}
	bounds := img.Bounds()
	out := image.NewRGBA(bounds)
	xdraw.Draw(out, bounds, img, bounds.Min, xdraw.Src)
	return Flatten(out)
}
