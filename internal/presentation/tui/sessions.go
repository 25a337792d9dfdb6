package tui

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/aretw0/sapgui/pkg/domain"
)

// SessionsMarkdown renders a snapshot as a markdown document with one table row per session.
func SessionsMarkdown(snap *domain.Snapshot) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", snap.Application)
	fmt.Fprintf(&sb, "Current transaction: **%s**\n\n", orDash(snap.CurrentTransaction))
	if len(snap.Sessions) == 0 {
		sb.WriteString("_No open sessions._\n")
		return sb.String()
	}

	sb.WriteString("| # | System | Client | User | Lang | Transaction | Program | Screen | Server |\n")
	sb.WriteString("|---|---|---|---|---|---|---|---|---|\n")
	for _, s := range snap.Sessions {
		fmt.Fprintf(&sb, "| %d | %s | %s | %s | %s | `%s` | %s | %d | %s |\n",
			s.SessionNumber, s.SystemName, s.Client, s.User, s.Language,
			s.Transaction, s.Program, s.ScreenNumber, s.ApplicationServer)
	}
	return sb.String()
}

// WriteSessionsTable writes a plain aligned table for non-terminal output.
func WriteSessionsTable(w io.Writer, snap *domain.Snapshot) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SESSION\tSYSTEM\tCLIENT\tUSER\tTRANSACTION\tPROGRAM\tSCREEN")
	for _, s := range snap.Sessions {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%d\n",
			s.SessionNumber, s.SystemName, s.Client, s.User, s.Transaction, s.Program, s.ScreenNumber)
	}
	return tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
