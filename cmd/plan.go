package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"pdfnightmode/converter"
)

func newPlanCmd(g *globals) *cobra.Command {
	var size int

	cmd := &cobra.Command{
		Use:   "plan <input.pdf>",
		Short: "Print the chunk ranges and render settings for a PDF",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputFile := args[0]

			opts, err := g.options()
			if err != nil {
				return err
			}
			info, err := os.Stat(inputFile)
			if err != nil {
				return fmt.Errorf("%w: %v", converter.ErrSourceNotFound, err)
			}
			pages, err := converter.PageCount(inputFile)
			if err != nil {
				return err
			}
			chunks, err := converter.PlanChunks(pages, size)
			if err != nil {
				return err
			}

			dir := opts.ChunkDir
			if dir == "" {
				dir = filepath.Dir(inputFile)
			}
			store := converter.ChunkStore{Dir: dir}
			whole := opts.Policy.Choose(info.Size(), pages, opts.Mode)
			chunk := opts.Policy.Choose(info.Size(), pages, converter.ModeConstrained)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d pages, %s\n", inputFile, pages, formatBytes(info.Size()))
			fmt.Fprintf(out, "convert (%s): scale %.2f, quality %d, %s\n", opts.Mode, whole.Scale, whole.Quality, whole.Format)
			fmt.Fprintf(out, "chunk (constrained): scale %.2f, quality %d, %s\n", chunk.Scale, chunk.Quality, chunk.Format)
			for _, c := range chunks {
				fmt.Fprintf(out, "%s\t%s\n", c, store.Path(inputFile, c))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&size, "size", 10, "Pages per chunk")
	return cmd
}
