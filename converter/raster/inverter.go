package raster

import (
	"image"
)

// Invert returns the RGB channel inversion of img: every channel value v
// becomes 255-v. Alpha is left as is (it is always 255 for rendered pages).
// img is not modified; the result has identical bounds.
func Invert(img *image.RGBA) *image.RGBA {
	out := &image.RGBA{
		Pix:    make([]uint8, len(img.Pix)),
		Stride: img.Stride,
		Rect:   img.Rect,
	}

	// Work directly on the pixel slice, four bytes per pixel
	for i := 0; i+3 < len(img.Pix); i += 4 {
		out.Pix[i] = 255 - img.Pix[i]
		out.Pix[i+1] = 255 - img.Pix[i+1]
		out.Pix[i+2] = 255 - img.Pix[i+2]
		out.Pix[i+3] = img.Pix[i+3]
	}

	return out
}
