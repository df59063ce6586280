package cmd

import (
	"errors"
	"os"

	"pdfnightmode/converter"
	"pdfnightmode/internal/config"
)

// Exit codes for the CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess    = 0 // Successful conversion
	ExitGeneral    = 1 // General/unexpected error
	ExitUsage      = 2 // Invalid flags, config or page range
	ExitIO         = 3 // Source unreadable, output not writable
	ExitConversion = 4 // No page could be converted
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Conversion produced nothing (exit 4)
	if errors.Is(err, converter.ErrEmptyOutput) {
		return ExitConversion
	}

	// I/O errors (exit 3)
	if errors.Is(err, converter.ErrSourceNotFound) ||
		errors.Is(err, converter.ErrOutputWrite) ||
		errors.Is(err, converter.ErrChunkMissing) ||
		errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, converter.ErrInvalidChunkRange) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrInvalidConfig) {
		return ExitUsage
	}

	return ExitGeneral
}
