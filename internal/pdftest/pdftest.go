// Package pdftest builds small PDF fixtures for tests.
package pdftest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/signintech/gopdf"
)

// Page describes one fixture page: its size in points and an optional dark
// square drawn in the top left corner.
type Page struct {
	Width, Height float64
	Mark          float64 // side of the black square, 0 for a blank white page
}

// Letter is a mostly white US Letter page with a small black mark
var Letter = Page{Width: 612, Height: 792, Mark: 72}

// Write creates a PDF with the given pages at dir/name and returns its path
func Write(t testing.TB, dir, name string, pages ...Page) string {
	t.Helper()

	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: gopdf.Rect{W: 612, H: 792}})
	for _, p := range pages {
		pdf.AddPageWithOption(gopdf.PageOption{PageSize: &gopdf.Rect{W: p.Width, H: p.Height}})
		if p.Mark > 0 {
			pdf.SetFillColor(0, 0, 0)
			pdf.RectFromUpperLeftWithStyle(0, 0, p.Mark, p.Mark, "F")
		}
	}

	path := filepath.Join(dir, name)
	if err := pdf.WritePdf(path); err != nil {
		t.Fatalf("failed to write fixture %s: %v", path, err)
	}
	return path
}

// Uniform returns n copies of p
func Uniform(n int, p Page) []Page {
	pages := make([]Page, n)
	for i := range pages {
		pages[i] = p
	}
	return pages
}

// Distinct returns n pages whose widths differ (300, 310, 320, ...) so page
// order can be checked from page geometry alone
func Distinct(n int) []Page {
	pages := make([]Page, n)
	for i := range pages {
		pages[i] = Page{Width: float64(300 + 10*i), Height: 400, Mark: 36}
	}
	return pages
}

// WriteGarbage writes a file with a .pdf name that is not a PDF
func WriteGarbage(t testing.TB, dir, name string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("this is not a pdf document\n"), 0o600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
