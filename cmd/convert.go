package cmd

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pdfnightmode/converter"
	"pdfnightmode/converter/raster"
)

type convertFlags struct {
	output  string
	mode    string
	quality int
	scale   float64
	threads int
	format  string
}

func newConvertCmd(g *globals) *cobra.Command {
	f := &convertFlags{}

	cmd := &cobra.Command{
		Use:   "convert <input.pdf>",
		Short: "Convert a whole PDF to night mode",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputFile := args[0]

			opts, err := g.options()
			if err != nil {
				return err
			}
			if err := f.apply(cmd, &opts); err != nil {
				return err
			}

			// Set default output file if not specified
			outputFile := f.output
			if outputFile == "" {
				outputFile = defaultOutput(inputFile)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Converting %s to night mode using %s mode...\n", inputFile, opts.Mode)

			update, finish := g.progress(cmd.ErrOrStderr())
			opts.Progress = update
			res, err := converter.Convert(inputFile, outputFile, opts)
			finish()
			if err != nil {
				return fmt.Errorf("conversion failed: %w", err)
			}

			report(out, res)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.output, "output", "o", "", "Output PDF file (default: <input>_night_mode.pdf)")
	flags.StringVarP(&f.mode, "mode", "m", "", "Resource mode: 'local' or 'constrained' (default: from config or environment)")
	flags.IntVarP(&f.quality, "quality", "q", 0, "JPEG quality 1-100 (default: chosen by policy)")
	flags.Float64VarP(&f.scale, "scale", "s", 0, "Render scale, 1.0 = 72 DPI (default: chosen by policy)")
	flags.IntVarP(&f.threads, "threads", "t", 0, "Worker count (default: from mode)")
	flags.StringVar(&f.format, "format", "", "Page image format: 'jpeg' or 'png'")
	return cmd
}

// apply validates the flags set on the command line and applies them to opts
func (f *convertFlags) apply(cmd *cobra.Command, opts *converter.Options) error {
	flags := cmd.Flags()

	if flags.Changed("mode") {
		mode, err := converter.ParseMode(f.mode)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUsage, err)
		}
		opts.Mode = mode
	}
	if flags.Changed("quality") {
		if f.quality < 1 || f.quality > 100 {
			return fmt.Errorf("%w: quality must be between 1 and 100, got %d", ErrUsage, f.quality)
		}
		opts.Quality = f.quality
	}
	if flags.Changed("scale") {
		if f.scale <= 0 {
			return fmt.Errorf("%w: scale must be positive, got %g", ErrUsage, f.scale)
		}
		opts.Scale = f.scale
	}
	if flags.Changed("threads") {
		if f.threads < 1 {
			return fmt.Errorf("%w: threads must be at least 1, got %d", ErrUsage, f.threads)
		}
		opts.Workers = f.threads
	}
	if flags.Changed("format") {
		format, err := raster.ParseFormat(f.format)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUsage, err)
		}
		opts.Policy.Format = format
	}
	return nil
}

func defaultOutput(inputFile string) string {
	return strings.TrimSuffix(inputFile, filepath.Ext(inputFile)) + "_night_mode.pdf"
}

func report(w io.Writer, res *converter.Result) {
	for _, f := range res.Failures {
		fmt.Fprintf(w, "Warning: %v\n", f)
	}
	fmt.Fprintf(w, "Successfully created: %s (%d/%d pages, %s, %s)\n",
		res.Output, res.Pages, res.Total, formatBytes(res.Bytes), res.Elapsed.Round(time.Millisecond))
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
