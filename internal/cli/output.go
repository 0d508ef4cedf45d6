// ABOUTME: Terminal rendering shared by the entry commands
// ABOUTME: Colours severity and formats entries as table rows
package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"

	"github.com/harper/symptomlog/internal/db"
	"github.com/harper/symptomlog/internal/journal"
)

var (
	mildColor     = color.New(color.FgGreen)
	moderateColor = color.New(color.FgYellow)
	severeColor   = color.New(color.FgRed, color.Bold)
	faintColor    = color.New(color.Faint)
)

// severityColor follows the intensity ramp: green up to 3, yellow up to 6, red above.
func severityColor(severity int) *color.Color {
	switch {
	case severity <= 3:
		return mildColor
	case severity <= 6:
		return moderateColor
	default:
		return severeColor
	}
}

func formatSeverity(severity int) string {
	return severityColor(severity).Sprintf("%d/10", severity)
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

func medicationLabel(entry db.Entry) string {
	if entry.Medication == "" {
		return "-"
	}
	if entry.Dosage != nil && *entry.Dosage != "" {
		return entry.Medication + " " + *entry.Dosage
	}
	return entry.Medication
}

// writeEntryTable prints entries as an aligned table.
func writeEntryTable(w io.Writer, entries []db.Entry, loc *time.Location) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tTime\tSeverity\tBody part\tPain\tMedication")
	for _, entry := range entries {
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			entry.ID,
			journal.EventTime(entry, loc).Format(journal.DisplayLayout),
			formatSeverity(entry.Severity),
			orDash(entry.BodyPart),
			journal.PainLabel(entry),
			medicationLabel(entry),
		)
	}
	return tw.Flush()
}

// writeValues prints one known value per line, or a faint placeholder when empty.
func writeValues(w io.Writer, values []string, empty string) {
	if len(values) == 0 {
		_, _ = faintColor.Fprintln(w, empty)
		return
	}
	_, _ = fmt.Fprintln(w, strings.Join(values, "\n"))
}
