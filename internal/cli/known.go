// ABOUTME: Known value commands for body parts, medications and dosages
// ABOUTME: Lists the values in use and removes a value together with its entries
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harper/symptomlog/internal/db"
	"github.com/harper/symptomlog/internal/form"
)

var knownRmYes bool

var knownCmd = &cobra.Command{
	Use:   "known",
	Short: "Show known body parts, medications and dosages",
}

var knownBodyPartsCmd = &cobra.Command{
	Use:   "body-parts",
	Short: "List body parts used by at least one entry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printKnown(cmd, "No body parts yet", func(ctx context.Context, a *app) ([]string, error) {
			return a.store.DistinctBodyParts(ctx)
		})
	},
}

var knownMedicationsCmd = &cobra.Command{
	Use:   "medications",
	Short: "List medications used by at least one entry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printKnown(cmd, "No medications yet", func(ctx context.Context, a *app) ([]string, error) {
			return a.store.DistinctMedications(ctx)
		})
	},
}

var knownDosagesCmd = &cobra.Command{
	Use:   "dosages <medication>",
	Short: "List dosages recorded with a medication",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return printKnown(cmd, "No dosages for "+args[0], func(ctx context.Context, a *app) ([]string, error) {
			return a.store.DosagesForMedication(ctx, args[0])
		})
	},
}

var knownRmCmd = &cobra.Command{
	Use:   "rm",
	Short: "Remove a known value and every entry that uses it",
}

var knownRmBodyPartCmd = &cobra.Command{
	Use:   "body-part <name>",
	Short: "Delete every entry for a body part",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return removeKnown(cmd, db.FieldBodyPart, args[0])
	},
}

var knownRmMedicationCmd = &cobra.Command{
	Use:   "medication <name>",
	Short: "Delete every entry recorded with a medication",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return removeKnown(cmd, db.FieldMedication, args[0])
	},
}

func printKnown(cmd *cobra.Command, empty string, load func(context.Context, *app) ([]string, error)) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	values, err := load(cmd.Context(), a)
	if err != nil {
		return fmt.Errorf("failed to load known values: %w", err)
	}
	writeValues(cmd.OutOrStdout(), form.SortKnown(values), empty)
	return nil
}

func removeKnown(cmd *cobra.Command, field db.Field, value string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	entries, err := a.store.ListEntries(ctx)
	if err != nil {
		return fmt.Errorf("failed to list entries: %w", err)
	}
	affected := countMatching(entries, field, value)
	if affected == 0 {
		_, _ = faintColor.Fprintf(out, "No entries use %q\n", value)
		return nil
	}

	if !knownRmYes {
		ok, err := confirm(cmd.InOrStdin(), out,
			fmt.Sprintf("Delete %d entries with %s %q? [y/N] ", affected, fieldLabel(field), value))
		if err != nil {
			return err
		}
		if !ok {
			_, _ = fmt.Fprintln(out, "Aborted")
			return nil
		}
	}

	var removed int64
	switch field {
	case db.FieldBodyPart:
		removed, err = a.store.DeleteEntriesByBodyPart(ctx, value)
	default:
		removed, err = a.store.DeleteEntriesByMedication(ctx, value)
	}
	if err != nil {
		return fmt.Errorf("failed to delete entries: %w", err)
	}

	_, _ = fmt.Fprintf(out, "Deleted %d entries with %s %q\n", removed, fieldLabel(field), value)
	return nil
}

func countMatching(entries []db.Entry, field db.Field, value string) int {
	count := 0
	for _, entry := range entries {
		switch field {
		case db.FieldBodyPart:
			if entry.BodyPart != nil && *entry.BodyPart == value {
				count++
			}
		case db.FieldMedication:
			if entry.Medication == value {
				count++
			}
		}
	}
	return count
}

func fieldLabel(field db.Field) string {
	if field == db.FieldBodyPart {
		return "body part"
	}
	return "medication"
}

// confirm asks a yes/no question; anything but y or yes is a no.
func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	_, _ = fmt.Fprint(out, question)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read answer: %w", err)
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}

func init() {
	knownRmCmd.PersistentFlags().BoolVarP(&knownRmYes, "yes", "y", false, "Do not ask for confirmation")
	knownRmCmd.AddCommand(knownRmBodyPartCmd, knownRmMedicationCmd)
	knownCmd.AddCommand(knownBodyPartsCmd, knownMedicationsCmd, knownDosagesCmd, knownRmCmd)
	rootCmd.AddCommand(knownCmd)
}
