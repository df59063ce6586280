package converter

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// ChunkSpec is a contiguous page range [Start, End) of a source document,
// 0-based. It also identifies and orders the chunk's result file.
type ChunkSpec struct {
	Start int
	End   int
}

// Len returns the number of pages in the chunk
func (c ChunkSpec) Len() int {
	return c.End - c.Start
}

func (c ChunkSpec) String() string {
	return fmt.Sprintf("%d:%d", c.Start, c.End)
}

// Validate checks 0 <= Start < End <= total. A negative total skips the
// upper bound check, for callers that do not know the page count yet.
func (c ChunkSpec) Validate(total int) error {
	if c.Start < 0 {
		return fmt.Errorf("start page %d is negative", c.Start)
	}
	if c.Start >= c.End {
		return fmt.Errorf("start page %d is not before end page %d", c.Start, c.End)
	}
	if total >= 0 && c.End > total {
		return fmt.Errorf("end page %d exceeds page count %d", c.End, total)
	}
	return nil
}

// ParseChunkSpec parses "start:end" (or "start-end")
func ParseChunkSpec(s string) (ChunkSpec, error) {
	sep := strings.IndexAny(s, ":-")
	if sep <= 0 || sep == len(s)-1 {
		return ChunkSpec{}, fmt.Errorf("%w: %q (expected start:end)", ErrInvalidChunkRange, s)
	}
	start, err := strconv.Atoi(strings.TrimSpace(s[:sep]))
	if err != nil {
		return ChunkSpec{}, fmt.Errorf("%w: %q: %v", ErrInvalidChunkRange, s, err)
	}
	end, err := strconv.Atoi(strings.TrimSpace(s[sep+1:]))
	if err != nil {
		return ChunkSpec{}, fmt.Errorf("%w: %q: %v", ErrInvalidChunkRange, s, err)
	}
	c := ChunkSpec{Start: start, End: end}
	if err := c.Validate(-1); err != nil {
		return ChunkSpec{}, fmt.Errorf("%w: %v", ErrInvalidChunkRange, err)
	}
	return c, nil
}

// PlanChunks splits total pages into consecutive chunks of at most size pages
func PlanChunks(total, size int) ([]ChunkSpec, error) {
	if total <= 0 {
		return nil, fmt.Errorf("%w: document has %d pages", ErrInvalidChunkRange, total)
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", ErrInvalidChunkRange, size)
	}

	chunks := make([]ChunkSpec, 0, (total+size-1)/size)
	for start := 0; start < total; start += size {
		chunks = append(chunks, ChunkSpec{Start: start, End: min(start+size, total)})
	}
	return chunks, nil
}

// ChunkStore names chunk result files inside Dir
type ChunkStore struct {
	Dir string
}

// Path returns the file for chunk c of the document named by hint.
// Only the base name of hint without its extension is used.
func (s ChunkStore) Path(hint string, c ChunkSpec) string {
	base := filepath.Base(hint)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" || stem == "." || stem == string(filepath.Separator) {
		stem = "document"
	}
	return filepath.Join(s.Dir, fmt.Sprintf("%s_chunk_%d_%d.pdf", stem, c.Start, c.End))
}

// ConvertRange converts pages [start, end) of srcPath into a standalone
// document at dstPath. Chunks exist for memory constrained hosts, so the
// constrained policy tier is always used and pages run sequentially unless
// opts.Workers asks for more. Scale and Quality overrides do not apply.
func ConvertRange(srcPath, dstPath string, start, end int, opts Options) (*Result, error) {
	spec := ChunkSpec{Start: start, End: end}
	if err := spec.Validate(-1); err != nil {
		return nil, newError("chunk", srcPath, ErrInvalidChunkRange, err)
	}

	opts.Mode = ModeConstrained
	p := newPipeline("chunk", opts)
	return p.run(srcPath, dstPath, start, end, func(size int64, pages int) Settings {
		return p.policy.Choose(size, pages, ModeConstrained)
	})
}
