package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/turing/pkg/domain"
)

// GraphOverlay contains run data to highlight on the graph.
type GraphOverlay struct {
	VisitedStates []string
	CurrentState  string
}

// edge groups every rule that links the same pair of states.
type edge struct {
	from, to string
	labels   []string
}

// GenerateMermaid produces a Mermaid flowchart of a transition table.
// It applies semantic styling:
// - Initial state: ((Circle))
// - Final state: (((Double circle)))
// - Default: [Rectangle]
// Rules between the same two states share one arrow, labelled `read/write,move` per rule.
func GenerateMermaid(table *domain.Table[string, string], overlay *GraphOverlay) string {
	def := table.Definition()

	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for _, q := range def.States {
		opener, closer := "[", "]"
		switch {
		case def.IsFinal(q):
			opener, closer = "(((", ")))"
		case q == def.Initial:
			opener, closer = "((", "))"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", nodeID(q), opener, escape(q), closer)
	}

	var edges []*edge
	index := make(map[[2]string]*edge)
	for _, entry := range table.Rules() {
		k := [2]string{entry.State, entry.Next}
		e, ok := index[k]
		if !ok {
			e = &edge{from: entry.State, to: entry.Next}
			index[k] = e
			edges = append(edges, e)
		}
		e.labels = append(e.labels, fmt.Sprintf("%s/%s,%s", escape(entry.Read), escape(entry.Write), entry.Move))
	}
	for _, e := range edges {
		fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n", nodeID(e.from), strings.Join(e.labels, "<br/>"), nodeID(e.to))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, q := range overlay.VisitedStates {
			if q == "" || seen[q] || !def.HasState(q) {
				continue
			}
			seen[q] = true
			fmt.Fprintf(&sb, "    class %s visited;\n", nodeID(q))
		}
		if overlay.CurrentState != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", nodeID(overlay.CurrentState))
		}
	}

	return sb.String()
}

// VisitedStates lists the states a trace passed through, in order of first visit.
func VisitedStates(records []domain.Record[string, string]) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(q string) {
		if !seen[q] {
			seen[q] = true
			out = append(out, q)
		}
	}
	for _, r := range records {
		add(r.From)
		add(r.To)
	}
	return out
}

// nodeID prefixes the sanitized name so numeric state names stay valid identifiers.
func nodeID(q string) string {
	return "s_" + sanitizeMermaidID(q)
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, " ", "_")
	return s
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}
