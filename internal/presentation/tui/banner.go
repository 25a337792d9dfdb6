package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the sapgui banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"  ___  __ _ _ __   __ _ _   _ _ ", "#60a5fa"},
		{" / __|/ _` | '_ \\ / _` | | | | |", "#38bdf8"},
		{" \\__ \\ (_| | |_) | (_| | |_| | |", "#22d3ee"},
		{" |___/\\__,_| .__/ \\__, |\\__,_|_|", "#2dd4bf"},
		{"           |_|    |___/         ", "#34d399"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}

// Success writes a green status line.
func Success(w io.Writer, format string, args ...any) {
	status(w, "#22c55e", "✔", format, args...)
}

// Warning writes a yellow status line.
func Warning(w io.Writer, format string, args ...any) {
	status(w, "#eab308", "!", format, args...)
}

// Failure writes a red status line.
func Failure(w io.Writer, format string, args ...any) {
	status(w, "#ef4444", "✘", format, args...)
}

func status(w io.Writer, color, mark, format string, args ...any) {
	p := termenv.ColorProfile()
	prefix := termenv.String(mark).Foreground(p.Color(color)).Bold()
	fmt.Fprintf(w, "%s %s\n", prefix, fmt.Sprintf(format, args...))
}
