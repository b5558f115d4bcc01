package output

import (
	"io"
	"os"

	"github.com/fatih/color"
)

// Progress numbers the steps of a multi-transaction operation, one
// "[N/M] message..." line per step. Silent in JSON mode.
type Progress struct {
	out      io.Writer
	total    int
	step     int
	jsonMode bool
}

// NewProgress creates a Progress over the given number of steps.
func NewProgress(total int) *Progress {
	return &Progress{out: os.Stdout, total: total}
}

// SetJSONMode enables JSON output mode (suppresses text output).
func (p *Progress) SetJSONMode(jsonMode bool) {
	p.jsonMode = jsonMode
}

// Stagef advances to the next step and prints it.
func (p *Progress) Stagef(format string, args ...interface{}) {
	p.step++
	if p.jsonMode {
		return
	}
	args = append([]interface{}{p.step, p.total}, args...)
	color.New(color.FgCyan).Fprintf(p.out, "[%d/%d] "+format+"...\n", args...)
}

// Done prints a completion message.
func (p *Progress) Done(message string) {
	if p.jsonMode {
		return
	}
	color.New(color.FgGreen).Fprintf(p.out, "✓ %s\n", message)
}
