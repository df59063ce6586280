package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"pdfnightmode/converter"
)

type combineFlags struct {
	hint     string
	chunks   []string
	chunkDir string
	cleanup  bool
}

func newCombineCmd(g *globals) *cobra.Command {
	f := &combineFlags{}

	cmd := &cobra.Command{
		Use:   "combine <output.pdf>",
		Short: "Merge converted chunks into one PDF",
		Long: `Merge chunk files produced by "chunk" into one document.

Chunks are named by --hint and their page range, and are appended in
ascending page order. Missing chunks are skipped with a warning.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFile := args[0]
			if err := requireFlags(cmd, "hint", "chunk"); err != nil {
				return err
			}

			refs := make([]converter.ChunkSpec, 0, len(f.chunks))
			for _, s := range f.chunks {
				ref, err := converter.ParseChunkSpec(s)
				if err != nil {
					return err
				}
				refs = append(refs, ref)
			}

			opts, err := g.options()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("chunk-dir") {
				opts.ChunkDir = f.chunkDir
			}
			if cmd.Flags().Changed("cleanup") {
				opts.CleanupChunks = f.cleanup
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Combining %d chunks into %s...\n", len(refs), outputFile)

			update, finish := g.progress(cmd.ErrOrStderr())
			opts.Progress = update
			res, err := converter.Combine(outputFile, f.hint, refs, opts)
			finish()
			if err != nil {
				return fmt.Errorf("combine failed: %w", err)
			}

			report(out, res)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.hint, "hint", "", "Name of the source document the chunks came from")
	flags.StringArrayVar(&f.chunks, "chunk", nil, "Chunk range start:end, repeatable")
	flags.StringVar(&f.chunkDir, "chunk-dir", "", "Chunk directory (default: next to the output)")
	flags.BoolVar(&f.cleanup, "cleanup", false, "Remove chunk files after merging")
	return cmd
}
