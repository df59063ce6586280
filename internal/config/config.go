// Package config loads the optional YAML configuration file.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"pdfnightmode/converter"
	"pdfnightmode/converter/colors"
	"pdfnightmode/converter/raster"
)

// MaxFileSize limits config input to prevent memory exhaustion
const MaxFileSize = 1 << 20

// Sentinel errors for config operations.
var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config")
	ErrInvalidConfig  = errors.New("invalid config")
)

// Config holds every tunable of a conversion
type Config struct {
	Mode          string       `yaml:"mode"`       // "local" or "constrained"
	Workers       int          `yaml:"workers"`    // 0 = resolve from mode
	Format        string       `yaml:"format"`     // "jpeg" or "png"
	Background    string       `yaml:"background"` // hex color, default "#000000"
	ChunkDir      string       `yaml:"chunkDir"`   // empty = next to the output
	CleanupChunks bool         `yaml:"cleanupChunks"`
	Policy        PolicyConfig `yaml:"policy"`
}

// PolicyConfig mirrors converter.Policy
type PolicyConfig struct {
	PageThreshold int        `yaml:"pageThreshold"`
	SizeThreshold int64      `yaml:"sizeThreshold"` // bytes
	MaxPagePixels int64      `yaml:"maxPagePixels"` // 0 disables the cap
	Constrained   TierConfig `yaml:"constrained"`
	Local         TierConfig `yaml:"local"`
}

// TierConfig mirrors converter.Tier
type TierConfig struct {
	Low     float64 `yaml:"low"`
	Medium  float64 `yaml:"medium"`
	High    float64 `yaml:"high"`
	Quality int     `yaml:"quality"`
}

// Default returns the built-in configuration
func Default() *Config {
	p := converter.DefaultPolicy()
	return &Config{
		Mode:       converter.ModeLocal.String(),
		Format:     string(p.Format),
		Background: colors.Black.Hex(),
		Policy: PolicyConfig{
			PageThreshold: p.PageThreshold,
			SizeThreshold: p.SizeThreshold,
			MaxPagePixels: p.MaxPagePixels,
			Constrained:   tierConfig(p.Constrained),
			Local:         tierConfig(p.Local),
		},
	}
}

func tierConfig(t converter.Tier) TierConfig {
	return TierConfig{Low: t.Low, Medium: t.Medium, High: t.High, Quality: t.Quality}
}

func (t TierConfig) tier() converter.Tier {
	return converter.Tier{Low: t.Low, Medium: t.Medium, High: t.High, Quality: t.Quality}
}

// Load reads path on top of the defaults. Unknown fields are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	return Parse(data)
}

// Parse decodes YAML data on top of the defaults and validates the result
func Parse(data []byte) (*Config, error) {
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrConfigParse, len(data), MaxFileSize)
	}

	cfg := Default()
	if len(data) > 0 {
		if err := yaml.UnmarshalWithOptions(data, cfg, yaml.Strict()); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field and reports the first problem
func (c *Config) Validate() error {
	if _, err := converter.ParseMode(c.Mode); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative: %d", ErrInvalidConfig, c.Workers)
	}
	if _, err := raster.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := colors.NewColorFromHex(c.Background); err != nil {
		return fmt.Errorf("%w: background: %v", ErrInvalidConfig, err)
	}
	if err := c.policy().Validate(); err != nil {
		return fmt.Errorf("%w: policy: %v", ErrInvalidConfig, err)
	}
	return nil
}

func (c *Config) policy() converter.Policy {
	format, _ := raster.ParseFormat(c.Format)
	return converter.Policy{
		PageThreshold: c.Policy.PageThreshold,
		SizeThreshold: c.Policy.SizeThreshold,
		MaxPagePixels: c.Policy.MaxPagePixels,
		Constrained:   c.Policy.Constrained.tier(),
		Local:         c.Policy.Local.tier(),
		Format:        format,
	}
}

// Options converts a validated config into converter options
func (c *Config) Options() (converter.Options, error) {
	if err := c.Validate(); err != nil {
		return converter.Options{}, err
	}
	mode, _ := converter.ParseMode(c.Mode)
	bg, _ := colors.NewColorFromHex(c.Background)

	return converter.Options{
		Mode:          mode,
		Workers:       c.Workers,
		Policy:        c.policy(),
		Background:    bg,
		ChunkDir:      c.ChunkDir,
		CleanupChunks: c.CleanupChunks,
	}, nil
}
