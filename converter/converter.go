// Package converter turns PDF documents into night mode PDFs.
//
// Every page is rasterized, its RGB channels are inverted and the result is
// placed on a black page of the original size. Whole documents go through
// Convert; large documents can be split with PlanChunks, converted piecewise
// with ConvertRange and put back together with Combine.
package converter

import (
	"pdfnightmode/converter/raster"
)

// Convert converts the whole document at srcPath into dstPath.
// Local mode runs pages on a worker pool; constrained mode runs them
// sequentially unless opts.Workers says otherwise.
func Convert(srcPath, dstPath string, opts Options) (*Result, error) {
	p := newPipeline("convert", opts)
	return p.run(srcPath, dstPath, 0, -1, func(size int64, pages int) Settings {
		s := p.policy.Choose(size, pages, opts.Mode)
		if opts.Scale > 0 {
			s.Scale = opts.Scale
		}
		if opts.Quality > 0 {
			s.Quality = opts.Quality
		}
		return s
	})
}

// PageCount returns the number of pages of the document at srcPath
func PageCount(srcPath string) (int, error) {
	src, err := raster.Open(srcPath)
	if err != nil {
		return 0, newError("count", srcPath, ErrSourceNotFound, err)
	}
	defer src.Close()
	return src.NumPages(), nil
}
