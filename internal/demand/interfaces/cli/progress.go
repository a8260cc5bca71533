package cli

import (
	"fmt"
	"io"
	"sync"

	"gopkg.in/cheggaaa/pb.v1"
)

// Progress shows a terminal progress bar over the buildings of a run.
type Progress struct {
	mu  sync.Mutex
	out io.Writer
	bar *pb.ProgressBar
}

// NewProgress writes the bar to out.
func NewProgress(out io.Writer) *Progress {
	return &Progress{out: out}
}

// Start begins a bar with total steps.
func (p *Progress) Start(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	bar := pb.New(total)
	bar.Output = p.out
	bar.ShowTimeLeft = false
	bar.Start()
	p.bar = bar
}

// Increment advances the bar by one.
func (p *Progress) Increment() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar != nil {
		p.bar.Increment()
	}
}

// Finish stops the bar and prints message.
func (p *Progress) Finish(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar == nil {
		fmt.Fprintln(p.out, message)
		return
	}
	p.bar.FinishPrint(message)
	p.bar = nil
}
