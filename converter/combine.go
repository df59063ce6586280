package converter

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"time"

	"pdfnightmode/converter/pdfdoc"
)

// Combine concatenates the chunk results named by refs into dstPath.
// Chunk files are looked up with ChunkStore{opts.ChunkDir}.Path(hint, ref);
// an empty ChunkDir means the directory of dstPath. refs may come in any
// order: pages are appended by ascending chunk start. Missing or unreadable
// chunks are skipped with a warning; if none is usable Combine fails with
// ErrEmptyOutput.
func Combine(dstPath, hint string, refs []ChunkSpec, opts Options) (*Result, error) {
	began := time.Now()
	p := newPipeline("combine", opts)

	for _, ref := range refs {
		if err := ref.Validate(-1); err != nil {
			return nil, newError(p.op, dstPath, ErrInvalidChunkRange, err)
		}
	}

	sorted := slices.Clone(refs)
	slices.SortFunc(sorted, func(a, b ChunkSpec) int {
		if a.Start != b.Start {
			return a.Start - b.Start
		}
		return a.End - b.End
	})
	sorted = slices.Compact(sorted)

	dir := opts.ChunkDir
	if dir == "" {
		dir = filepath.Dir(dstPath)
	}
	store := ChunkStore{Dir: dir}

	res := &Result{Output: dstPath, Total: len(sorted)}
	var (
		paths  []string
		causes []error
		pages  int
	)
	for i, ref := range sorted {
		if i > 0 && ref.Start < sorted[i-1].End {
			p.log.Warn("combine: chunks overlap", "chunk", ref.String(), "previous", sorted[i-1].String())
		}

		path := store.Path(hint, ref)
		n, err := pdfdoc.PageCount(path)
		if err == nil && n == 0 {
			err = pdfdoc.ErrNoPages
		}
		if err != nil {
			missing := &Error{Op: p.op, Path: path, Page: -1, Kind: ErrChunkMissing, Err: err}
			causes = append(causes, missing)
			p.log.Warn("combine: chunk skipped", "chunk", ref.String(), "file", path, "error", err)
			continue
		}
		if n != ref.Len() {
			p.log.Warn("combine: chunk is missing pages", "chunk", ref.String(), "pages", n)
		}

		paths = append(paths, path)
		pages += n
		if opts.Progress != nil {
			opts.Progress(i+1, len(sorted))
		}
	}

	if len(paths) == 0 {
		return nil, newError(p.op, dstPath, ErrEmptyOutput, errors.Join(causes...))
	}

	p.log.Info("combine: merging", "file", dstPath, "chunks", len(paths), "pages", pages)

	size, err := p.merge(paths, dstPath)
	if err != nil {
		return nil, err
	}
	res.Pages = pages
	res.Bytes = size
	res.Elapsed = time.Since(began)

	if opts.CleanupChunks {
		for _, path := range paths {
			if path == dstPath {
				continue
			}
			if err := os.Remove(path); err != nil {
				p.log.Warn("combine: could not remove chunk", "file", path, "error", err)
			}
		}
	}

	p.log.Info("combine: done", "file", dstPath, "pages", res.Pages, "bytes", res.Bytes, "elapsed", res.Elapsed)
	return res, nil
}

// merge concatenates paths into a temporary file and finalizes it into dstPath
func (p *pipeline) merge(paths []string, dstPath string) (int64, error) {
	if len(paths) == 1 {
		return p.finalize(paths[0], dstPath)
	}

	tmp, err := pdfdoc.TempFile(dstPath)
	if err != nil {
		return 0, newError(p.op, dstPath, ErrOutputWrite, err)
	}
	defer os.Remove(tmp)

	if err := pdfdoc.Merge(paths, tmp); err != nil {
		return 0, newError(p.op, dstPath, ErrOutputWrite, err)
	}
	return p.finalize(tmp, dstPath)
}
