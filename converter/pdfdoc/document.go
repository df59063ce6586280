// Package pdfdoc builds the night mode output document and finalizes it.
//
// A Document is owned by exactly one goroutine. Nothing in this package
// synchronizes access to it, and callers must never hand it to page workers;
// workers produce encoded image bytes and the owner composites them.
package pdfdoc

import (
	"bytes"
	"compress/zlib"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strconv"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/signintech/gopdf"

	"pdfnightmode/converter/colors"
	"pdfnightmode/converter/raster"
)

// Producer is written to the document information dictionary
const Producer = "pdfnightmode"

var (
	// ErrNoPages is returned when saving a document without a single complete page
	ErrNoPages = errors.New("document has no pages")

	// ErrImageAfterCommit marks a page whose image failed after the page was
	// created; such pages are dropped when the document is saved
	ErrImageAfterCommit = errors.New("image placement failed after page creation")
)

// Document accumulates night mode pages
type Document struct {
	pdf        *gopdf.GoPdf
	background colors.Color
	added      int
	broken     []int // 1-based page numbers to drop on save
}

// New creates an empty document whose pages are filled with background
func New(background colors.Color, title string) *Document {
	pdf := &gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: gopdf.Rect{W: 612, H: 792}})
	pdf.SetCompressLevel(zlib.BestCompression)
	pdf.SetInfo(gopdf.PdfInfo{
		Title:        title,
		Producer:     Producer,
		Creator:      Producer,
		CreationDate: time.Now(),
	})

	return &Document{pdf: pdf, background: background}
}

// AddPage appends one page of exactly size, paints the background over the
// whole page and then places the encoded image stretched to the page.
//
// The image is checked before the page is created, so a decode failure
// leaves the document untouched. A failure while placing the image after the
// page exists returns ErrImageAfterCommit; the page is then excluded from
// PageCount and removed by Save.
func (d *Document) AddPage(size raster.Size, encoded []byte) error {
	if size.Width <= 0 || size.Height <= 0 {
		return fmt.Errorf("invalid page size %.2fx%.2f", size.Width, size.Height)
	}
	if _, _, err := image.DecodeConfig(bytes.NewReader(encoded)); err != nil {
		return fmt.Errorf("failed to decode page image: %w", err)
	}
	holder, err := gopdf.ImageHolderByBytes(encoded)
	if err != nil {
		return fmt.Errorf("failed to load page image: %w", err)
	}

	d.pdf.AddPageWithOption(gopdf.PageOption{PageSize: &gopdf.Rect{W: size.Width, H: size.Height}})
	d.added++

	// background first, otherwise it would cover the image
	d.pdf.SetFillColor(d.background.R8, d.background.G8, d.background.B8)
	d.pdf.RectFromUpperLeftWithStyle(0, 0, size.Width, size.Height, "F")

	if err := d.pdf.ImageByHolder(holder, 0, 0, &gopdf.Rect{W: size.Width, H: size.Height}); err != nil {
		d.broken = append(d.broken, d.added)
		return fmt.Errorf("%w: %v", ErrImageAfterCommit, err)
	}

	return nil
}

// PageCount returns the number of complete pages
func (d *Document) PageCount() int {
	return d.added - len(d.broken)
}

// Save writes the document to path, dropping pages whose image placement
// failed. It refuses to write a document without complete pages.
func (d *Document) Save(path string) error {
	if d.PageCount() == 0 {
		return ErrNoPages
	}
	if err := d.pdf.WritePdf(path); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	if len(d.broken) == 0 {
		return nil
	}

	selected := make([]string, len(d.broken))
	for i, n := range d.broken {
		selected[i] = strconv.Itoa(n)
	}
	if err := api.RemovePagesFile(path, "", selected, Configuration()); err != nil {
		return fmt.Errorf("failed to remove incomplete pages: %w", err)
	}
	return nil
}
