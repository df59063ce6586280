package converter

import (
	"fmt"
	"math"

	"pdfnightmode/converter/raster"
)

// Mode selects the resource tier of a conversion
type Mode int

const (
	// ModeLocal favors fidelity: higher render scales and JPEG quality.
	ModeLocal Mode = iota
	// ModeConstrained bounds memory and output size for serverless hosts.
	ModeConstrained
)

func (m Mode) String() string {
	switch m {
	case ModeLocal:
		return "local"
	case ModeConstrained:
		return "constrained"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode parses "local" or "constrained"
func ParseMode(s string) (Mode, error) {
	switch s {
	case "local":
		return ModeLocal, nil
	case "constrained", "serverless":
		return ModeConstrained, nil
	default:
		return 0, fmt.Errorf("invalid mode: %s (must be 'local' or 'constrained')", s)
	}
}

// Tier holds the render scales and encoding quality of one mode
type Tier struct {
	Low     float64 // many pages
	Medium  float64 // large file
	High    float64 // small document
	Quality int     // JPEG quality, 1-100
}

// Policy chooses render settings from document size and page count
type Policy struct {
	PageThreshold int   // more pages than this selects Low
	SizeThreshold int64 // more bytes than this selects Medium
	MaxPagePixels int64 // per page pixel budget, 0 disables the cap

	Constrained Tier
	Local       Tier
	Format      raster.Format
}

// Settings are the render and encoding parameters of a conversion
type Settings struct {
	Scale   float64
	Quality int
	Format  raster.Format
}

// DefaultPolicy returns the default thresholds and tiers
func DefaultPolicy() Policy {
	return Policy{
		PageThreshold: 5,
		SizeThreshold: 1 << 20,
		MaxPagePixels: 16_000_000,
		Constrained:   Tier{Low: 1.0, Medium: 1.2, High: 1.5, Quality: 70},
		Local:         Tier{Low: 1.5, Medium: 1.75, High: 2.0, Quality: 90},
		Format:        raster.FormatJPEG,
	}
}

// Choose returns the settings for a source of size bytes with pages pages
func (p Policy) Choose(size int64, pages int, mode Mode) Settings {
	tier := p.Local
	if mode == ModeConstrained {
		tier = p.Constrained
	}

	s := Settings{Scale: tier.High, Quality: tier.Quality, Format: p.Format}
	switch {
	case pages > p.PageThreshold:
		s.Scale = tier.Low
	case size > p.SizeThreshold:
		s.Scale = tier.Medium
	}
	if s.Format == "" {
		s.Format = raster.FormatJPEG
	}
	return s
}

// ClampScale lowers scale until a page of the given size fits MaxPagePixels.
// The result never exceeds scale.
func (p Policy) ClampScale(scale float64, size raster.Size) float64 {
	if p.MaxPagePixels <= 0 || size.Width <= 0 || size.Height <= 0 {
		return scale
	}
	if size.Pixels(scale) <= float64(p.MaxPagePixels) {
		return scale
	}
	clamped := math.Sqrt(float64(p.MaxPagePixels) / (size.Width * size.Height))
	// ceil() in Pixels may still overshoot by a row or column
	for clamped > 0 && size.Pixels(clamped) > float64(p.MaxPagePixels) {
		clamped *= 0.99
	}
	return math.Min(clamped, scale)
}

// Validate reports inconsistent thresholds or tiers
func (p Policy) Validate() error {
	if p.PageThreshold < 0 {
		return fmt.Errorf("page threshold must not be negative: %d", p.PageThreshold)
	}
	if p.SizeThreshold < 0 {
		return fmt.Errorf("size threshold must not be negative: %d", p.SizeThreshold)
	}
	if p.MaxPagePixels < 0 {
		return fmt.Errorf("max page pixels must not be negative: %d", p.MaxPagePixels)
	}
	for name, t := range map[string]Tier{"constrained": p.Constrained, "local": p.Local} {
		if t.Low <= 0 || t.Medium <= 0 || t.High <= 0 {
			return fmt.Errorf("%s tier: scales must be greater than 0", name)
		}
		if t.Quality < 1 || t.Quality > 100 {
			return fmt.Errorf("%s tier: quality must be between 1 and 100, got %d", name, t.Quality)
		}
	}
	switch p.Format {
	case "", raster.FormatJPEG, raster.FormatPNG:
	default:
		return fmt.Errorf("unknown image format: %s", p.Format)
	}
	return nil
}
