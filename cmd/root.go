package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"pdfnightmode/converter"
	"pdfnightmode/internal/config"
)

// ErrUsage marks invalid flags and arguments
var ErrUsage = errors.New("invalid usage")

var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// globals holds the persistent flags shared by every subcommand
type globals struct {
	configPath string
	verbose    bool
	logFormat  string
	noProgress bool

	logger *slog.Logger
	getenv func(string) string
}

func newRootCmd() *cobra.Command {
	g := &globals{getenv: os.Getenv}

	root := &cobra.Command{
		Use:   "pdfnightmode",
		Short: "Convert PDFs to night mode",
		Long: `A CLI tool to convert PDF documents to night mode.

Every page is rasterized, its colors are inverted and the image is placed
on a black page of the original size. Large documents can be converted in
chunks (see "plan", "chunk" and "combine") and put back together.`,
		Version:       fmt.Sprintf("%s (built %s, commit %s)", version, buildTime, gitCommit),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd.ErrOrStderr(), g.logFormat, g.verbose)
			if err != nil {
				return err
			}
			g.logger = logger
			return nil
		},
	}
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	})

	flags := root.PersistentFlags()
	flags.StringVar(&g.configPath, "config", "", "YAML config file")
	flags.BoolVarP(&g.verbose, "verbose", "v", false, "Log debug details")
	flags.StringVar(&g.logFormat, "log-format", "text", "Log format: 'text' or 'json'")
	flags.BoolVar(&g.noProgress, "no-progress", false, "Disable the progress bar")

	root.AddCommand(
		newConvertCmd(g),
		newChunkCmd(g),
		newCombineCmd(g),
		newPlanCmd(g),
	)
	return root
}

// options builds converter options from the config file, the environment
// and the global flags. Subcommands apply their own flags on top.
func (g *globals) options() (converter.Options, error) {
	cfg := config.Default()
	if g.configPath != "" {
		loaded, err := config.Load(g.configPath)
		if err != nil {
			return converter.Options{}, err
		}
		cfg = loaded
	} else if mode, ok := detectMode(g.getenv); ok {
		g.logger.Debug("environment selects mode", "mode", mode.String())
		cfg.Mode = mode.String()
	}

	opts, err := cfg.Options()
	if err != nil {
		return converter.Options{}, err
	}
	opts.Logger = g.logger
	return opts, nil
}

// progress returns an observer drawing a bar on w, and a func to stop it
func (g *globals) progress(w io.Writer) (func(done, total int), func()) {
	if g.noProgress {
		return nil, func() {}
	}
	bar := &progressBar{w: w}
	return bar.update, bar.finish
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return fmt.Errorf("%w: %v", ErrUsage, err)
		}
		return nil
	}
}

func requireFlags(cmd *cobra.Command, names ...string) error {
	for _, name := range names {
		if !cmd.Flags().Changed(name) {
			return fmt.Errorf("%w: required flag --%s not set", ErrUsage, name)
		}
	}
	return nil
}

// SetVersionInfo sets the version printed by --version
func SetVersionInfo(v, built, commit string) {
	version, buildTime, gitCommit = v, built, commit
}

// Execute runs the CLI and exits with a code matching the error
func Execute() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return exitCodeFor(err)
}
