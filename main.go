package main

import (
	"fmt"
	"os"

	"go.uber.org/automaxprocs/maxprocs"

	"pdfnightmode/cmd"
)

// Version info - set via ldflags at build time
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Match GOMAXPROCS to the container CPU quota before sizing worker pools.
	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply.
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		if os.Getenv("PDFNIGHTMODE_DEBUG") != "" {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}
	}))

	cmd.SetVersionInfo(Version, BuildTime, GitCommit)
	cmd.Execute()
}
