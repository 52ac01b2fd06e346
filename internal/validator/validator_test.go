package validator

import (
	"strings"
	"testing"

	"github.com/aretw0/turing/pkg/schema"
)

func compile(t *testing.T, doc string) *schema.Machine {
	t.Helper()
	m, err := schema.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return m
}

func TestValidateTable(t *testing.T) {
	// Scenario A: every reachable state is total.
	valid := compile(t, `
states: [q, h]
alphabet: [0, 1]
blank: 0
initial: q
final: [h]
transitions:
  - {read: 0, state: q, write: 1, move: R, next: h}
  - {read: 1, state: q, write: 1, move: R, next: q}
`)
	table, err := valid.Compile()
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if issues := Inspect(table); len(issues) != 0 {
		t.Errorf("Scenario A (Valid) reported issues: %v", issues)
	}
	if err := ValidateTable(table, true); err != nil {
		t.Errorf("Scenario A (Valid) failed: %v", err)
	}

	// Scenario B: dead end, partial state, dead rule and an orphan.
	broken := compile(t, `
states: [q, r, s, h, orphan]
alphabet: [0, 1]
blank: 0
initial: q
final: [h]
transitions:
  - {read: 0, state: q, write: 1, move: R, next: r}
  - {read: 1, state: q, write: 1, move: R, next: s}
  - {read: 0, state: s, write: 0, move: L, next: h}
  - {read: 0, state: h, write: 0, move: L, next: orphan}
`)
	table, err = broken.Compile()
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	byState := make(map[string]Issue)
	for _, issue := range Inspect(table) {
		byState[issue.State] = issue
	}
	expect := map[string]Severity{
		"r":      SeverityError,
		"s":      SeverityWarning,
		"h":      SeverityWarning,
		"orphan": SeverityWarning,
	}
	if len(byState) != len(expect) {
		t.Errorf("expected %d issues, got %v", len(expect), byState)
	}
	for state, sev := range expect {
		if byState[state].Severity != sev {
			t.Errorf("state %s: expected %s, got %+v", state, sev, byState[state])
		}
	}
	if !strings.Contains(byState["s"].Message, "symbol(s) 1") {
		t.Errorf("unexpected message: %s", byState["s"].Message)
	}

	err = ValidateTable(table, false)
	if err == nil || !strings.Contains(err.Error(), "found 1 errors") {
		t.Errorf("expected a single error, got: %v", err)
	}
	err = ValidateTable(table, true)
	if err == nil || !strings.Contains(err.Error(), "found 4 errors") {
		t.Errorf("strict mode should count warnings, got: %v", err)
	}
}
