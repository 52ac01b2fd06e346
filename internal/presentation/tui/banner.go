package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

var bannerLines = []struct {
	text, color string
}{
	{"  _              _             ", "#818cf8"},
	{" | |_ _   _ _ __(_)_ __   __ _ ", "#a78bfa"},
	{" | __| | | | '__| | '_ \\ / _` |", "#c084fc"},
	{" | |_| |_| | |  | | | | | (_| |", "#e879f9"},
	{"  \\__|\\__,_|_|  |_|_| |_|\\__, |", "#f472b6"},
	{"                          |___/ ", "#fb7185"},
}

// PrintBanner writes the ASCII art banner to w, coloured for the terminal behind w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	p := out.ColorProfile()

	fmt.Fprintln(w)
	for _, line := range bannerLines {
		fmt.Fprintln(w, termenv.String(line.text).Foreground(p.Color(line.color)))
	}
	if version != "" {
		fmt.Fprintln(w, termenv.String("  v"+version).Faint())
	}
	fmt.Fprintln(w)
}
