package tui

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf, "1.2.3")

	out := buf.String()
	if !strings.Contains(out, "|___/") {
		t.Errorf("banner art missing:\n%s", out)
	}
	if !strings.Contains(out, "v1.2.3") {
		t.Errorf("version missing:\n%s", out)
	}
}

func TestNewRenderer(t *testing.T) {
	render, err := NewRenderer(80)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	out, err := render("# Run report\n\n| step | state |\n|---|---|\n| 1 | A |\n")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "Run report") {
		t.Errorf("rendered output lost the heading:\n%s", out)
	}
}
