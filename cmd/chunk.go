package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"pdfnightmode/converter"
)

type chunkFlags struct {
	start    int
	end      int
	output   string
	chunkDir string
}

func newChunkCmd(g *globals) *cobra.Command {
	f := &chunkFlags{}

	cmd := &cobra.Command{
		Use:   "chunk <input.pdf>",
		Short: "Convert the page range [start, end) into a chunk file",
		Long: `Convert pages [start, end) (0-based) of a PDF into a standalone chunk.

Chunks always use the constrained policy tier. Without -o the chunk is
written as <name>_chunk_<start>_<end>.pdf in --chunk-dir, where "combine"
finds it.`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputFile := args[0]
			if err := requireFlags(cmd, "start", "end"); err != nil {
				return err
			}

			opts, err := g.options()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("chunk-dir") {
				opts.ChunkDir = f.chunkDir
			}

			spec := converter.ChunkSpec{Start: f.start, End: f.end}
			outputFile := f.output
			if outputFile == "" {
				dir := opts.ChunkDir
				if dir == "" {
					dir = filepath.Dir(inputFile)
				}
				outputFile = converter.ChunkStore{Dir: dir}.Path(inputFile, spec)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Converting pages %s of %s...\n", spec, inputFile)

			update, finish := g.progress(cmd.ErrOrStderr())
			opts.Progress = update
			res, err := converter.ConvertRange(inputFile, outputFile, f.start, f.end, opts)
			finish()
			if err != nil {
				return fmt.Errorf("chunk conversion failed: %w", err)
			}

			report(out, res)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&f.start, "start", 0, "First page, 0-based")
	flags.IntVar(&f.end, "end", 0, "Page after the last one")
	flags.StringVarP(&f.output, "output", "o", "", "Output chunk file")
	flags.StringVar(&f.chunkDir, "chunk-dir", "", "Chunk directory (default: next to the input)")
	return cmd
}
