package validator

import (
	"fmt"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
)

// Severity ranks a finding.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Issue is one finding about a transition table.
type Issue struct {
	Severity Severity `json:"severity"`
	State    string   `json:"state"`
	Message  string   `json:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("[%s] %s: %s", i.Severity, i.State, i.Message)
}

// Inspect crawls the table from the initial state and reports:
//   - reachable non-final states without any rule (error: the machine faults there)
//   - reachable non-final states missing a rule for some symbol (warning)
//   - final states that carry rules, which can never fire (warning)
//   - states not reachable from the initial state (warning)
func Inspect(table *domain.Table[string, string]) []Issue {
	def := table.Definition()

	outgoing := make(map[string][]string)
	for _, entry := range table.Rules() {
		outgoing[entry.State] = append(outgoing[entry.State], entry.Next)
	}

	visited := map[string]bool{def.Initial: true}
	queue := []string{def.Initial}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		// The engine stops on a final state, so its rules lead nowhere.
		if def.IsFinal(current) {
			continue
		}
		for _, next := range outgoing[current] {
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}

	var issues []Issue
	for _, q := range def.States {
		switch {
		case !visited[q]:
			issues = append(issues, Issue{SeverityWarning, q, "unreachable from the initial state"})
		case def.IsFinal(q):
			if n := len(outgoing[q]); n > 0 {
				issues = append(issues, Issue{SeverityWarning, q, fmt.Sprintf("final state has %d rule(s) that never fire", n)})
			}
		case len(outgoing[q]) == 0:
			issues = append(issues, Issue{SeverityError, q, "reachable state has no rules and is not final"})
		default:
			var missing []string
			for _, s := range def.Alphabet {
				if _, ok := table.Lookup(s, q); !ok {
					missing = append(missing, s)
				}
			}
			if len(missing) > 0 {
				issues = append(issues, Issue{SeverityWarning, q, "no rule for symbol(s) " + strings.Join(missing, ", ")})
			}
		}
	}
	return issues
}

// ValidateTable returns an error listing every error-level issue.
// With strict set, warnings count as errors too.
func ValidateTable(table *domain.Table[string, string], strict bool) error {
	var errors []string
	for _, issue := range Inspect(table) {
		if issue.Severity == SeverityError || strict {
			errors = append(errors, issue.String())
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("found %d errors:\n- %s", len(errors), strings.Join(errors, "\n- "))
	}

	return nil
}
