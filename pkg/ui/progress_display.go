package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// ProgressDisplay provides a clean, minimal progress display
type ProgressDisplay struct {
	mu         sync.Mutex
	out        io.Writer
	instance   string
	total      int
	done       int
	downloaded int
	skipped    int
	failed     int
	bytes      int64
	startTime  time.Time
	verbose    bool
	quiet      bool
}

// NewProgressDisplay creates a new progress display
func NewProgressDisplay(out io.Writer, instance string, total int, verbose bool) *ProgressDisplay {
	return &ProgressDisplay{
		out:       out,
		instance:  instance,
		total:     total,
		startTime: time.Now(),
		verbose:   verbose,
		quiet:     IsQuiet(),
	}
}

// Record counts one finished item. status is downloaded, skipped or failed.
func (p *ProgressDisplay) Record(category, name, status string, size int64, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.done++
	switch status {
	case "downloaded":
		p.downloaded++
		p.bytes += size
	case "skipped":
		p.skipped++
	default:
		p.failed++
	}

	if p.quiet {
		return
	}
	if p.verbose {
		p.printItem(category, name, status, size, err)
		return
	}
	p.printProgress()
}

func (p *ProgressDisplay) printItem(category, name, status string, size int64, err error) {
	prefix := fmt.Sprintf("[%d/%d]", p.done, p.total)
	item := category + "/" + name

	switch status {
	case "downloaded":
		fmt.Fprintf(p.out, "%s %s %s • %s\n", Dim(prefix), Green("✓"), item, FormatBytes(size))
	case "skipped":
		fmt.Fprintf(p.out, "%s %s %s\n", Dim(prefix), Yellow("-"), item)
	default:
		fmt.Fprintf(p.out, "%s %s %s • %v\n", Dim(prefix), Red("✗"), item, err)
	}
}

// printProgress prints the minimal progress line
func (p *ProgressDisplay) printProgress() {
	progress := 1.0
	if p.total > 0 {
		progress = float64(p.done) / float64(p.total)
	}
	barWidth := 20
	filled := int(progress * float64(barWidth))
	if filled > barWidth {
		filled = barWidth
	}
	bar := strings.Repeat("━", filled) + strings.Repeat("─", barWidth-filled)

	line := fmt.Sprintf("%s [%s] %d/%d • %s",
		Cyan(p.instance),
		bar,
		p.done,
		p.total,
		FormatBytes(p.bytes),
	)
	if p.skipped > 0 {
		line += fmt.Sprintf(" • %d skipped", p.skipped)
	}
	if p.failed > 0 {
		line += fmt.Sprintf(" • %s", Red(fmt.Sprintf("%d failed", p.failed)))
	}

	fmt.Fprintf(p.out, "\r%s\r%s", strings.Repeat(" ", 100), line)
}

// Complete prints the run summary
func (p *ProgressDisplay) Complete() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.quiet {
		return
	}

	elapsed := time.Since(p.startTime)
	if !p.verbose && p.done > 0 {
		fmt.Fprintln(p.out)
	}

	fmt.Fprintf(p.out, "\n%s Downloaded %d of %d emojis from %s\n",
		Green("✓"),
		p.downloaded,
		p.total,
		p.instance,
	)
	fmt.Fprintf(p.out, "  %s %s in %s\n",
		Dim("•"),
		FormatBytes(p.bytes),
		FormatDuration(elapsed),
	)
	if p.skipped > 0 {
		fmt.Fprintf(p.out, "  %s %d skipped\n", Dim("•"), p.skipped)
	}
	if p.failed > 0 {
		fmt.Fprintf(p.out, "  %s %s\n", Dim("•"), Red(fmt.Sprintf("%d failed", p.failed)))
	}
}

// FormatDuration formats a duration in a human-readable way
func FormatDuration(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
	default:
		return fmt.Sprintf("%dh%dm", int(d.Hours()), int(d.Minutes())%60)
	}
}

// FormatBytes formats bytes in a human-readable way
func FormatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}

	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
