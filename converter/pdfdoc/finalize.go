package pdfdoc

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"pdfnightmode/converter/raster"
)

// ErrEmptyFile is returned when a finalized file is missing or has zero length
var ErrEmptyFile = errors.New("output file is missing or empty")

// Configuration returns the pdfcpu configuration used for every pdfcpu call
func Configuration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	conf.WriteObjectStream = true
	conf.WriteXRefStream = true
	return conf
}

// TempFile reserves a hidden temporary file next to path, so that moving
// data into place never crosses file systems. The caller removes it.
func TempFile(path string) (string, error) {
	f, err := os.CreateTemp(filepath.Dir(path), ".nightmode-*.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	name := f.Name()
	if err := f.Close(); err != nil {
		os.Remove(name)
		return "", fmt.Errorf("failed to close temp file: %w", err)
	}
	return name, nil
}

// Finalize optimizes inPath into outPath (unused and duplicate objects are
// dropped, objects are packed into compressed object and xref streams) and
// verifies the result. It returns the size of outPath in bytes.
// On failure outPath is removed so no partial output is left behind.
func Finalize(inPath, outPath string) (size int64, err error) {
	defer func() {
		if err != nil && inPath != outPath {
			os.Remove(outPath)
		}
	}()

	if err := api.OptimizeFile(inPath, outPath, Configuration()); err != nil {
		return 0, fmt.Errorf("failed to optimize PDF: %w", err)
	}
	return Verify(outPath)
}

// Verify checks that path exists and is not empty and returns its size
func Verify(path string) (int64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrEmptyFile, err)
	}
	if info.Size() == 0 {
		return 0, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}
	return info.Size(), nil
}

// Merge concatenates inPaths, in the given order, into outPath
func Merge(inPaths []string, outPath string) error {
	if len(inPaths) == 0 {
		return ErrNoPages
	}
	if err := api.MergeCreateFile(inPaths, outPath, false, Configuration()); err != nil {
		return fmt.Errorf("failed to merge PDFs: %w", err)
	}
	return nil
}

// PageCount returns the number of pages of the PDF at path
func PageCount(path string) (int, error) {
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to count pages of %s: %w", path, err)
	}
	return n, nil
}

// PageSizes returns the page geometry of every page of the PDF at path
func PageSizes(path string) ([]raster.Size, error) {
	dims, err := api.PageDimsFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read page sizes of %s: %w", path, err)
	}
	sizes := make([]raster.Size, len(dims))
	for i, d := range dims {
		sizes[i] = raster.Size{Width: d.Width, Height: d.Height}
	}
	return sizes, nil
}
