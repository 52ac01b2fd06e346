package runner

import (
	"fmt"
	"strings"
	"time"
)

// ReportRows caps the trace table of a report; longer runs show the first and last rows.
const ReportRows = 40

// Report renders a run summary as Markdown, suitable for glamour or a README.
func Report[S, Q comparable](name string, res *Result[S, Q]) string {
	var b strings.Builder
	cfg := res.Configuration

	fmt.Fprintf(&b, "# %s\n\n", name)
	fmt.Fprintf(&b, "| outcome | steps | final state | head | duration |\n")
	fmt.Fprintf(&b, "|---|---|---|---|---|\n")
	fmt.Fprintf(&b, "| %s | %d | `%v` | %d | %s |\n\n", res.Outcome, res.Trace.Len(), cfg.State, cfg.Head, res.Duration.Round(time.Microsecond))

	if res.Err != nil && !res.Halted() {
		fmt.Fprintf(&b, "> **%s:** %v\n\n", res.Outcome, res.Err)
	}

	b.WriteString("## Tape\n\n```\n")
	b.WriteString(renderTape(cfg.Tape, cfg.Head))
	b.WriteString("\n```\n\n")

	records := res.Trace.Records()
	if len(records) == 0 {
		return b.String()
	}

	b.WriteString("## Trace\n\n")
	b.WriteString("| step | state | read | write | move | next |\n")
	b.WriteString("|---:|---|---|---|---|---|\n")
	for i, rec := range records {
		if len(records) > ReportRows && i == ReportRows/2 {
			fmt.Fprintf(&b, "| … | | | | | |\n")
		}
		if len(records) > ReportRows && i >= ReportRows/2 && i < len(records)-ReportRows/2 {
			continue
		}
		fmt.Fprintf(&b, "| %d | `%v` | `%v` | `%v` | %s | `%v` |\n", rec.Step, rec.From, rec.Read, rec.Write, rec.Move, rec.To)
	}
	return b.String()
}

func renderTape[S comparable](tape []S, head int) string {
	cells := make([]string, 0, len(tape)+1)
	for i, s := range tape {
		if i == head {
			cells = append(cells, fmt.Sprintf("[%v]", s))
			continue
		}
		cells = append(cells, fmt.Sprint(s))
	}
	if head >= len(tape) {
		cells = append(cells, "[.]")
	}
	return strings.Join(cells, " ")
}
