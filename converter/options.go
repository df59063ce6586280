package converter

import (
	"log/slog"
	"runtime"
	"time"

	"pdfnightmode/converter/colors"
)

// Worker pool sizing
const (
	// DefaultWorkers is the pool size for local conversions.
	DefaultWorkers = 4

	// MinWorkers keeps at least one worker.
	MinWorkers = 1
)

// Options configures a conversion
type Options struct {
	Mode Mode // selects the policy tier; ConvertRange always uses ModeConstrained

	// Workers > 1 enables the parallel page scheduler. 0 resolves from Mode:
	// one worker when constrained, DefaultWorkers (capped by GOMAXPROCS) when local.
	Workers int

	Policy Policy // zero value means DefaultPolicy()

	// Scale and Quality override the policy choice for Convert when > 0.
	Scale   float64
	Quality int

	Background colors.Color // page background, zero value is black

	ChunkDir      string // where chunk results live, default: destination directory
	CleanupChunks bool   // remove chunk files after a successful Combine

	Logger   *slog.Logger           // nil means slog.Default()
	Progress func(done, total int) // called on the calling goroutine after each page
}

// Result summarizes a successful conversion
type Result struct {
	Output   string
	Bytes    int64 // final size of Output
	Pages    int   // pages written
	Total    int   // pages attempted
	Failures []*PageError
	Settings Settings
	Elapsed  time.Duration
}

// ResolveWorkers determines the pool size.
// Priority: explicit workers > mode default.
func ResolveWorkers(mode Mode, workers int) int {
	if workers > 0 {
		return workers
	}
	if mode == ModeConstrained {
		return MinWorkers
	}

	// GOMAXPROCS is container aware once automaxprocs has run
	return max(MinWorkers, min(DefaultWorkers, runtime.GOMAXPROCS(0)))
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func (o Options) policy() Policy {
	if o.Policy == (Policy{}) {
		return DefaultPolicy()
	}
	return o.Policy
}
