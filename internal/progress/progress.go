// Package progress reports scan progress through an injectable interface, so
// the scanner never touches shared global counters and tests can observe or
// silence progress entirely.
package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Reporter receives coarse-grained scan progress. Implementations must be
// safe for concurrent use; the scanner calls FileDone from worker goroutines.
type Reporter interface {
	// Start announces how many files the scan will process.
	Start(total int)
	// FileDone is called once per processed file (hashed or skipped).
	FileDone(path string)
	// Finish is called once when the scan completes.
	Finish()
}

// Nop discards all progress events.
type Nop struct{}

func (Nop) Start(int)       {}
func (Nop) FileDone(string) {}
func (Nop) Finish()         {}

// Bar renders a terminal progress bar, redrawing in place at most every
// 100ms to avoid flickering.
type Bar struct {
	writer     io.Writer
	width      int
	mu         sync.Mutex
	total      int64
	current    int64
	lastUpdate time.Time
}

func NewBar(w io.Writer) *Bar {
	return &Bar{
		writer: w,
		width:  50,
	}
}

func (b *Bar) Start(total int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.total = int64(total)
	b.current = 0
	b.lastUpdate = time.Now()
}

func (b *Bar) FileDone(string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.current++

	now := time.Now()
	if now.Sub(b.lastUpdate) > 100*time.Millisecond || b.current == b.total {
		b.lastUpdate = now
		b.render()
	}
}

// render must be called with mu held.
func (b *Bar) render() {
	if b.total == 0 {
		return
	}

	percent := float64(b.current) / float64(b.total) * 100
	filledWidth := int(float64(b.width) * float64(b.current) / float64(b.total))
	if filledWidth > b.width {
		filledWidth = b.width
	}

	bar := strings.Repeat("█", filledWidth) + strings.Repeat("░", b.width-filledWidth)

	fmt.Fprintf(b.writer, "\r\033[K[%s] %3d%% (%d/%d)", bar, int(percent), b.current, b.total)
}

func (b *Bar) Finish() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.current = b.total
	b.render()
	fmt.Fprintf(b.writer, "\n")
}

// Log prints a line every Interval files, for output that is not a terminal.
type Log struct {
	writer   io.Writer
	interval int64
	mu       sync.Mutex
	total    int64
	current  int64
}

// NewLog reports every interval files; interval <= 0 defaults to 100.
func NewLog(w io.Writer, interval int) *Log {
	if interval <= 0 {
		interval = 100
	}
	return &Log{writer: w, interval: int64(interval)}
}

func (l *Log) Start(total int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.total = int64(total)
	l.current = 0
}

func (l *Log) FileDone(string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.current++
	if l.current%l.interval == 0 {
		fmt.Fprintf(l.writer, "processed %d/%d files...\n", l.current, l.total)
	}
}

func (l *Log) Finish() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.writer, "processed %d files\n", l.current)
}
