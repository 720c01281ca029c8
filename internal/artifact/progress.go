package artifact

import (
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"
)

const progressInterval = 100 * time.Millisecond

// ProgressOutput returns f if it is an interactive terminal and nil
// otherwise, so redirected output never receives carriage-return updates.
func ProgressOutput(f *os.File) io.Writer {
	if f == nil || !term.IsTerminal(int(f.Fd())) {
		return nil
	}
	return f
}

// progressWriter renders a single self-overwriting byte counter line.
type progressWriter struct {
	out     io.Writer
	name    string
	total   int64
	written int64
	last    time.Time
}

func newProgressWriter(out io.Writer, name string, total int64) *progressWriter {
	return &progressWriter{out: out, name: name, total: total}
}

func (p *progressWriter) Write(b []byte) (int, error) {
	p.written += int64(len(b))
	if now := time.Now(); now.Sub(p.last) >= progressInterval {
		p.last = now
		p.render()
	}
	return len(b), nil
}

func (p *progressWriter) finish() {
	p.render()
	fmt.Fprintln(p.out)
}

func (p *progressWriter) render() {
	if p.total > 0 {
		pct := float64(p.written) / float64(p.total) * 100
		fmt.Fprintf(p.out, "\r  %s  %s / %s (%3.0f%%)", p.name, humanBytes(p.written), humanBytes(p.total), pct)
		return
	}
	fmt.Fprintf(p.out, "\r  %s  %s", p.name, humanBytes(p.written))
}

func humanBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
