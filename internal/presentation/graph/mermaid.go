package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/sapgui/pkg/domain"
)

// GenerateMermaid draws the object walk of a snapshot as a Mermaid flowchart:
// the application, its scripting engine, the first connection and every
// session under it. The first session is the one FetchCurrentSession
// resolves and is styled as current.
func GenerateMermaid(snap *domain.Snapshot) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	if snap == nil {
		return sb.String()
	}

	app := sanitizeMermaidID(snap.Application)
	if app == "" {
		app = "application"
	}
	fmt.Fprintf(&sb, "    %s((\"%s\"))\n", app, escapeLabel(snap.Application))
	sb.WriteString("    engine[[\"scripting engine\"]]\n")
	sb.WriteString("    con0[/\"con[0]\"/]\n")
	fmt.Fprintf(&sb, "    %s --> engine\n", app)
	sb.WriteString("    engine -- \"Children(0)\" --> con0\n")

	for _, s := range snap.Sessions {
		id := fmt.Sprintf("ses%d", s.Index)
		label := fmt.Sprintf("ses[%d] <br/> %s", s.Index, escapeLabel(s.Transaction))
		if s.SystemName != "" {
			label += fmt.Sprintf(" <br/> %s/%s %s", escapeLabel(s.SystemName), escapeLabel(s.Client), escapeLabel(s.User))
		}
		fmt.Fprintf(&sb, "    %s[\"%s\"]\n", id, label)
		fmt.Fprintf(&sb, "    con0 --> %s\n", id)
	}

	if len(snap.Sessions) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
		fmt.Fprintf(&sb, "    class ses%d current;\n", snap.Sessions[0].Index)
	}

	return sb.String()
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	r := strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", " ", "_", "[", "_", "]", "_", "\"", "")
	return r.Replace(id)
}
