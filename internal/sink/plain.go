package sink

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/swarmscope/swarmscope/internal/event"
)

// Plain writes unstyled sequential output, one line per pushed frame. Used
// in non-interactive mode and as the test harness sink.
type Plain struct {
	out io.Writer
}

// NewPlain creates a plain text sink.
func NewPlain(out io.Writer) *Plain {
	return &Plain{out: out}
}

// PushLive prints the formatted newest line.
func (p *Plain) PushLive(f LiveFrame) {
	fmt.Fprintln(p.out, f.Line)
}

// PushReplay prints a one-line position summary for the current event.
func (p *Plain) PushReplay(f ReplayFrame) {
	if f.Event == nil {
		fmt.Fprintf(p.out, "[-/%d] (empty sequence)\n", f.Playback.Length)
		return
	}
	fmt.Fprintf(p.out, "[%d/%d] %s %s %s %s\n",
		f.Playback.Position+1, f.Playback.Length,
		f.Event.Timestamp.Format(time.RFC3339),
		f.Event.EventType,
		f.Event.Status,
		formatTally(f))
}

func formatTally(f ReplayFrame) string {
	if len(f.Participants) == 0 {
		return ""
	}
	parts := make([]string, len(f.Participants))
	for i, ps := range f.Participants {
		parts[i] = ps.Agent + "=" + ps.Decision
	}
	return strings.Join(parts, " ")
}

// FormatLine renders a classified record for sequential output. Records that
// failed structured parsing are tagged distinctly but still shown verbatim.
func FormatLine(rec *event.Record) string {
	var b strings.Builder
	b.WriteString(rec.Timestamp.Format("15:04:05"))
	b.WriteString(" │ ")
	fmt.Fprintf(&b, "%-5s", rec.Level)
	b.WriteString(" │ ")
	if rec.ParseErr {
		b.WriteString("[unparsed] ")
	}
	b.WriteString(rec.Message)
	if len(rec.AgentTags) > 0 {
		fmt.Fprintf(&b, "  [%s]", strings.Join(rec.AgentTags, ", "))
	}
	if rec.EventType != "" {
		fmt.Fprintf(&b, "  (%s)", rec.EventType)
	}
	return b.String()
}
