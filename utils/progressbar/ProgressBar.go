// Package progressbar implements functionality of printing a progress
// bar to a terminal window
package progressbar

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// ProgressBar implements a concurrent progress bar. Once displayed,
// the bar is redrawn in a separate goroutine every updateEvery until
// it is closed. Increment may be called from any goroutine.
type ProgressBar struct {
	out io.Writer

	// width determines the number of characters wide that the progress
	// bar should be
	width int

	// maxProgress determines the number of times Increment() should
	// be called before the progress bar reaches 100%.
	maxProgress int

	updateEvery time.Duration
	startTime   time.Time

	mu              sync.Mutex
	currentProgress int

	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewProgressBar returns a new progress bar that writes to out, is
// width characters wide, and reaches 100% capacity after max
// Increment() calls.
func NewProgressBar(out io.Writer, width, max int,
	updateEvery time.Duration) *ProgressBar {
	if max < 1 {
		max = 1
	}
	return &ProgressBar{
		out:         out,
		width:       width,
		maxProgress: max,
		updateEvery: updateEvery,
		done:        make(chan struct{}),
	}
}

// Increment increments the internal progress counter. Each time an
// iteration is performed, Increment should be called.
func (p *ProgressBar) Increment() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.currentProgress < p.maxProgress {
		p.currentProgress++
	}
}

// Progress returns the number of increments so far
func (p *ProgressBar) Progress() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.currentProgress
}

// Display starts redrawing the progress bar. It should only be called
// once.
func (p *ProgressBar) Display() {
	p.startTime = time.Now()
	tick := time.NewTicker(p.updateEvery)

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer tick.Stop()

		for {
			select {
			case <-tick.C:
				p.draw()

			case <-p.done:
				p.draw()
				return
			}
		}
	}()
}

// Close stops redrawing the progress bar after drawing it a final
// time. Close is safe to call more than once.
func (p *ProgressBar) Close() {
	p.closeOnce.Do(func() {
		close(p.done)
		p.wg.Wait()
		fmt.Fprintln(p.out) // Jump to next line after printed bar
	})
}

func (p *ProgressBar) draw() {
	fmt.Fprintf(p.out, "\n\033[1A\033[K%v",
		render(p.Progress(), p.maxProgress, p.width,
			time.Since(p.startTime)))
}

// render returns the text of a progress bar with the given progress
func render(progress, max, width int, elapsed time.Duration) string {
	var bar strings.Builder
	fraction := float64(progress) / float64(max)
	filled := int(fraction * float64(width))

	bar.WriteString("|")
	bar.WriteString(strings.Repeat("█", filled))
	bar.WriteString(strings.Repeat(" ", width-filled))
	fmt.Fprintf(&bar, "| [%.2f%% | elapsed: %v]", fraction*100,
		elapsed.Truncate(time.Second))

	return bar.String()
}
