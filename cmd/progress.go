package cmd

import (
	"io"

	"github.com/cheggaaa/pb/v3"
)

const barTemplate = `  {{ bar . " " "▸" "▹" " " " "}} {{counters .}} {{percent .}} {{etime .}}`

// progressBar starts lazily, once the page total is known
type progressBar struct {
	w   io.Writer
	bar *pb.ProgressBar
}

func (p *progressBar) update(done, total int) {
	if p.bar == nil {
		p.bar = pb.New(total).
			SetTemplateString(barTemplate).
			SetWriter(p.w).
			Start()
	}
	p.bar.SetCurrent(int64(done))
}

func (p *progressBar) finish() {
	if p.bar != nil {
		p.bar.Finish()
		p.bar = nil
	}
}
