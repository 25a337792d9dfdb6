package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/sapgui/internal/presentation/graph"
	"github.com/aretw0/sapgui/internal/presentation/tui"
	"github.com/aretw0/sapgui/pkg/domain"
)

// Output formats for snapshots.
const (
	FormatText    = "text"
	FormatJSON    = "json"
	FormatMD      = "md"
	FormatMermaid = "mermaid"
)

// Renderer turns markdown into terminal output.
type Renderer func(string) (string, error)

// WriteSnapshot prints snap in the requested format. Markdown goes through
// render when it is not nil.
func WriteSnapshot(w io.Writer, snap *domain.Snapshot, format string, render Renderer) error {
	switch format {
	case "", FormatText:
		fmt.Fprintf(w, "%s  current transaction: %s\n\n", snap.Application, snap.CurrentTransaction)
		return tui.WriteSessionsTable(w, snap)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	case FormatMD:
		md := tui.SessionsMarkdown(snap)
		if render != nil {
			out, err := render(md)
			if err != nil {
				return fmt.Errorf("failed to render markdown: %w", err)
			}
			md = out
		}
		_, err := io.WriteString(w, md)
		return err
	case FormatMermaid:
		_, err := io.WriteString(w, graph.GenerateMermaid(snap))
		return err
	default:
		return fmt.Errorf("unknown format %q (want text, json, md or mermaid)", format)
	}
}
