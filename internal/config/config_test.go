package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"pdfnightmode/converter"
	"pdfnightmode/converter/colors"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	opts, err := cfg.Options()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(converter.DefaultPolicy(), opts.Policy); diff != "" {
		t.Errorf("default policy mismatch (-want +got):\n%s", diff)
	}
	if opts.Mode != converter.ModeLocal || opts.Background != colors.Black {
		t.Errorf("default options = %+v", opts)
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	data := []byte(`
mode: constrained
workers: 2
format: png
background: "#101010"
chunkDir: /tmp/chunks
cleanupChunks: true
policy:
  pageThreshold: 10
  constrained:
    low: 0.8
    medium: 1.0
    high: 1.2
    quality: 60
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	opts, err := cfg.Options()
	if err != nil {
		t.Fatal(err)
	}

	if opts.Mode != converter.ModeConstrained || opts.Workers != 2 || !opts.CleanupChunks || opts.ChunkDir != "/tmp/chunks" {
		t.Errorf("options = %+v", opts)
	}
	if opts.Background.Hex() != "#101010" {
		t.Errorf("background = %s", opts.Background.Hex())
	}
	if opts.Policy.PageThreshold != 10 || opts.Policy.Format != "png" {
		t.Errorf("policy = %+v", opts.Policy)
	}
	if diff := cmp.Diff(converter.Tier{Low: 0.8, Medium: 1.0, High: 1.2, Quality: 60}, opts.Policy.Constrained); diff != "" {
		t.Errorf("constrained tier mismatch (-want +got):\n%s", diff)
	}
	// untouched fields keep their defaults
	if diff := cmp.Diff(converter.DefaultPolicy().Local, opts.Policy.Local); diff != "" {
		t.Errorf("local tier mismatch (-want +got):\n%s", diff)
	}
	if opts.Policy.SizeThreshold != 1<<20 {
		t.Errorf("size threshold = %d", opts.Policy.SizeThreshold)
	}
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
		want error
	}{
		{name: "unknown field", data: "colour: red\n", want: ErrConfigParse},
		{name: "bad yaml", data: "mode: [local\n", want: ErrConfigParse},
		{name: "bad mode", data: "mode: turbo\n", want: ErrInvalidConfig},
		{name: "bad format", data: "format: gif\n", want: ErrInvalidConfig},
		{name: "bad color", data: "background: black\n", want: ErrInvalidConfig},
		{name: "negative workers", data: "workers: -1\n", want: ErrInvalidConfig},
		{name: "bad quality", data: "policy:\n  local:\n    quality: 0\n", want: ErrInvalidConfig},
		{name: "too large", data: "mode: local\n" + strings.Repeat("#", MaxFileSize), want: ErrConfigParse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := Parse([]byte(tt.data)); !errors.Is(err, tt.want) {
				t.Errorf("Parse() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if _, err := Load(filepath.Join(dir, "missing.yaml")); !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("Load(missing) error = %v, want ErrConfigNotFound", err)
	}

	path := filepath.Join(dir, "nightmode.yaml")
	if err := os.WriteFile(path, []byte("workers: 3\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Workers != 3 || cfg.Mode != "local" {
		t.Errorf("loaded config = %+v", cfg)
	}
}
