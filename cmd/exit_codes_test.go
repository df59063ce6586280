package cmd

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"pdfnightmode/converter"
	"pdfnightmode/internal/config"
)

func TestExitCodeFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want int
	}{
		// Success
		{"nil error", nil, ExitSuccess},

		// Conversion errors (exit 4)
		{"empty output", converter.ErrEmptyOutput, ExitConversion},
		{"empty output from missing chunks", &converter.Error{Op: "combine", Kind: converter.ErrEmptyOutput, Err: converter.ErrChunkMissing}, ExitConversion},

		// I/O errors (exit 3)
		{"source not found", converter.ErrSourceNotFound, ExitIO},
		{"output write", converter.ErrOutputWrite, ExitIO},
		{"chunk missing", converter.ErrChunkMissing, ExitIO},
		{"file not exist", os.ErrNotExist, ExitIO},
		{"permission denied", os.ErrPermission, ExitIO},
		{"wrapped source", fmt.Errorf("conversion failed: %w", &converter.Error{Op: "convert", Kind: converter.ErrSourceNotFound}), ExitIO},

		// Usage/config/validation errors (exit 2)
		{"usage", ErrUsage, ExitUsage},
		{"chunk range", converter.ErrInvalidChunkRange, ExitUsage},
		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"invalid config", config.ErrInvalidConfig, ExitUsage},
		{"wrapped usage", fmt.Errorf("flags: %w", ErrUsage), ExitUsage},

		// General errors (exit 1)
		{"unknown error", errors.New("boom"), ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodeConstants(t *testing.T) {
	t.Parallel()

	codes := []int{ExitSuccess, ExitGeneral, ExitUsage, ExitIO, ExitConversion}
	seen := make(map[int]bool)
	for _, c := range codes {
		if c < 0 || c >= 126 {
			t.Errorf("exit code %d outside 0..125", c)
		}
		if seen[c] {
			t.Errorf("duplicate exit code %d", c)
		}
		seen[c] = true
	}
}
