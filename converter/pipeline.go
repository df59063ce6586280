package converter

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pdfnightmode/converter/pdfdoc"
	"pdfnightmode/converter/raster"
)

// pageSource is the read side of a source document
type pageSource interface {
	NumPages() int
	PageSize(index int) (raster.Size, error)
	Render(index int, scale float64) (*image.RGBA, error)
	Close() error
}

func openSource(path string) (pageSource, error) {
	return raster.Open(path)
}

// pageJob is one page to render, invert and encode
type pageJob struct {
	index    int
	size     raster.Size
	sizeErr  error
	settings Settings
}

// pageResult is what a page task hands back to the goroutine owning the
// output document: plain bytes, never a document reference
type pageResult struct {
	index int
	size  raster.Size
	data  []byte
	err   *PageError
}

func (j pageJob) fail(step string, err error) pageResult {
	return pageResult{index: j.index, err: &PageError{Page: j.index, Step: step, Err: err}}
}

// pipeline runs the per page steps for one operation
type pipeline struct {
	op     string
	opts   Options
	policy Policy
	log    *slog.Logger
	open   func(path string) (pageSource, error)
}

func newPipeline(op string, opts Options) *pipeline {
	return &pipeline{
		op:     op,
		opts:   opts,
		policy: opts.policy(),
		log:    opts.logger(),
		open:   openSource,
	}
}

// processPage renders, inverts and encodes one page. The raster is not used
// after inversion, so at most two page buffers are alive per task.
func (p *pipeline) processPage(src pageSource, job pageJob) (res pageResult) {
	defer func() {
		if r := recover(); r != nil {
			res = job.fail("render", fmt.Errorf("panic: %v", r))
		}
	}()

	if job.sizeErr != nil {
		return job.fail("size", job.sizeErr)
	}

	scale := p.policy.ClampScale(job.settings.Scale, job.size)
	img, err := src.Render(job.index, scale)
	if err != nil {
		return job.fail("render", err)
	}

	inverted := raster.Invert(img)
	data, err := raster.Encode(inverted, job.settings.Format, job.settings.Quality)
	if err != nil {
		return job.fail("encode", err)
	}

	return pageResult{index: job.index, size: job.size, data: data}
}

// run converts pages [start, end) of srcPath into dstPath.
// end < 0 means up to the last page.
func (p *pipeline) run(srcPath, dstPath string, start, end int, settingsFor func(size int64, pages int) Settings) (*Result, error) {
	began := time.Now()

	info, err := os.Stat(srcPath)
	if err != nil {
		return nil, newError(p.op, srcPath, ErrSourceNotFound, err)
	}
	if info.IsDir() {
		return nil, newError(p.op, srcPath, ErrSourceNotFound, errors.New("is a directory"))
	}

	src, err := p.open(srcPath)
	if err != nil {
		return nil, newError(p.op, srcPath, ErrSourceNotFound, err)
	}
	defer src.Close()

	total := src.NumPages()
	if total == 0 {
		return nil, newError(p.op, srcPath, ErrEmptyOutput, errors.New("document has no pages"))
	}
	if end < 0 {
		end = total
	}
	if err := (ChunkSpec{Start: start, End: end}).Validate(total); err != nil {
		return nil, newError(p.op, srcPath, ErrInvalidChunkRange, err)
	}

	settings := settingsFor(info.Size(), total)
	workers := ResolveWorkers(p.opts.Mode, p.opts.Workers)
	p.log.Info(p.op+": starting",
		"file", srcPath,
		"pages", total,
		"start", start,
		"end", end,
		"scale", settings.Scale,
		"quality", settings.Quality,
		"format", settings.Format,
		"workers", workers)

	jobs := make([]pageJob, 0, end-start)
	for i := start; i < end; i++ {
		size, err := src.PageSize(i)
		jobs = append(jobs, pageJob{index: i, size: size, sizeErr: err, settings: settings})
	}

	res := &Result{Output: dstPath, Total: len(jobs), Settings: settings}
	doc := pdfdoc.New(p.opts.Background, documentTitle(srcPath))
	commit := p.committer(doc, res)

	if workers > 1 && len(jobs) > 1 {
		p.runParallel(srcPath, jobs, workers, commit)
	} else {
		for _, job := range jobs {
			commit(p.processPage(src, job))
		}
	}

	if doc.PageCount() == 0 {
		causes := make([]error, len(res.Failures))
		for i, f := range res.Failures {
			causes[i] = f
		}
		return nil, newError(p.op, srcPath, ErrEmptyOutput, errors.Join(causes...))
	}

	size, err := p.save(doc, dstPath)
	if err != nil {
		return nil, err
	}
	res.Bytes = size
	res.Elapsed = time.Since(began)

	p.log.Info(p.op+": done",
		"file", dstPath,
		"pages", res.Pages,
		"failed", len(res.Failures),
		"bytes", res.Bytes,
		"elapsed", res.Elapsed)
	return res, nil
}

// committer returns the single-writer append step. It must only be called
// from the goroutine that owns doc, in increasing page order.
func (p *pipeline) committer(doc *pdfdoc.Document, res *Result) func(pageResult) {
	done := 0
	return func(r pageResult) {
		if r.err == nil {
			if err := doc.AddPage(r.size, r.data); err != nil {
				r.err = &PageError{Page: r.index, Step: "composite", Err: err}
			}
		}

		if r.err != nil {
			res.Failures = append(res.Failures, r.err)
			p.log.Warn(p.op+": page skipped", "page", r.index+1, "step", r.err.Step, "error", r.err.Err)
		} else {
			res.Pages++
			p.log.Debug(p.op+": page done", "page", r.index+1, "bytes", len(r.data))
		}

		done++
		if p.opts.Progress != nil {
			p.opts.Progress(done, res.Total)
		}
	}
}

// save writes doc next to dstPath, then optimizes it into place.
// The temporary file is removed on every path.
func (p *pipeline) save(doc *pdfdoc.Document, dstPath string) (int64, error) {
	tmp, err := pdfdoc.TempFile(dstPath)
	if err != nil {
		return 0, newError(p.op, dstPath, ErrOutputWrite, err)
	}
	defer os.Remove(tmp)

	if err := doc.Save(tmp); err != nil {
		return 0, newError(p.op, dstPath, ErrOutputWrite, err)
	}
	return p.finalize(tmp, dstPath)
}

func (p *pipeline) finalize(tmp, dstPath string) (int64, error) {
	size, err := pdfdoc.Finalize(tmp, dstPath)
	if err != nil {
		return 0, newError(p.op, dstPath, ErrOutputWrite, err)
	}
	return size, nil
}

func documentTitle(srcPath string) string {
	base := filepath.Base(srcPath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + " (night mode)"
}
