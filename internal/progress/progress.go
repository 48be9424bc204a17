// Package progress renders a single-line spinner with a counter.
package progress

import (
	"fmt"
	"io"
	"sync"
	"time"
)

type ProgressTracker struct {
	out       io.Writer
	total     int
	current   int
	message   string
	unit      string
	mu        sync.Mutex
	startTime time.Time
	done      chan struct{}
	finished  chan struct{}
	once      sync.Once
}

// NewProgress starts rendering to out. A total of 0 shows a bare counter.
func NewProgress(out io.Writer, total int, message, unit string) *ProgressTracker {
	p := &ProgressTracker{
		out:       out,
		total:     total,
		message:   message,
		unit:      unit,
		startTime: time.Now(),
		done:      make(chan struct{}),
		finished:  make(chan struct{}),
	}
	go p.render()
	return p
}

func (p *ProgressTracker) render() {
	defer close(p.finished)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	spinner := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	frame := 0

	for {
		select {
		case <-p.done:
			p.mu.Lock()
			elapsed := time.Since(p.startTime)
			fmt.Fprintf(p.out, "\r✓ %s (%d %s, %s)          \n",
				p.message, p.current, p.unit, elapsed.Round(time.Millisecond))
			p.mu.Unlock()
			return

		case <-ticker.C:
			p.mu.Lock()
			if p.total > 0 {
				percent := float64(p.current) / float64(p.total) * 100
				fmt.Fprintf(p.out, "\r%s %s [%d/%d] %.0f%%  ",
					spinner[frame%len(spinner)],
					p.message,
					p.current,
					p.total,
					percent)
			} else {
				fmt.Fprintf(p.out, "\r%s %s [%d %s]  ",
					spinner[frame%len(spinner)],
					p.message,
					p.current,
					p.unit)
			}
			p.mu.Unlock()
			frame++
		}
	}
}

func (p *ProgressTracker) Increment() {
	p.mu.Lock()
	p.current++
	p.mu.Unlock()
}

func (p *ProgressTracker) Current() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Finish prints the summary line and waits for the renderer to exit.
// Calling it more than once is harmless.
func (p *ProgressTracker) Finish() {
	p.once.Do(func() { close(p.done) })
	<-p.finished
}
