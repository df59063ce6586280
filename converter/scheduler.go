package converter

import (
	"sync"
)

// runParallel fans render+invert+encode out to a fixed pool of workers and
// feeds the results to commit in the order of jobs, on the calling goroutine.
//
// Each worker opens its own source handle. go-fitz serializes all calls on a
// handle behind one mutex, so sharing a handle would render one page at a
// time. A failing page never stops its siblings.
func (p *pipeline) runParallel(path string, jobs []pageJob, workers int, commit func(pageResult)) {
	jobCh := make(chan pageJob)
	results := make(chan pageResult, workers)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go p.pageWorker(&wg, path, jobCh, results)
	}

	go func() {
		for _, job := range jobs {
			jobCh <- job
		}
		close(jobCh)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	// Results arrive in completion order; hold early ones back until every
	// page before them has been committed.
	pending := make(map[int]pageResult)
	next := 0
	for r := range results {
		pending[r.index] = r
		for next < len(jobs) {
			ready, ok := pending[jobs[next].index]
			if !ok {
				break
			}
			delete(pending, jobs[next].index)
			commit(ready)
			next++
		}
	}
}

// pageWorker processes jobs until the channel is closed
func (p *pipeline) pageWorker(wg *sync.WaitGroup, path string, jobs <-chan pageJob, results chan<- pageResult) {
	defer wg.Done()

	src, err := p.open(path)
	if err != nil {
		p.log.Warn(p.op+": worker could not open source", "file", path, "error", err)
		for job := range jobs {
			results <- job.fail("render", err)
		}
		return
	}
	defer src.Close()

	for job := range jobs {
		results <- p.processPage(src, job)
	}
}
