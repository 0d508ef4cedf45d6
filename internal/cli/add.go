// ABOUTME: Add command for recording a symptom entry
// ABOUTME: Validates input, stores the entry and updates the daily journal
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/harper/symptomlog/internal/form"
	"github.com/harper/symptomlog/internal/journal"
)

var addInput form.Input

var addHeartRate int

var addCmd = &cobra.Command{
	Use:     "add",
	Aliases: []string{"a"},
	Short:   "Record a symptom entry",
	Example: `  symptomlog add -b Kopf -s 7 -p Pochend
  symptomlog add -b Knie -s 4 --pain-other ziehend -m Ibuprofen -d 400mg --at "2024-03-05 18:00"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		in := addInput
		if cmd.Flags().Changed("heart-rate") {
			hr := addHeartRate
			in.HeartRate = &hr
		}

		entry, err := form.Build(in, a.loc, time.Now().In(a.loc))
		if err != nil {
			return err
		}

		id, err := a.store.InsertEntry(cmd.Context(), entry)
		if err != nil {
			return fmt.Errorf("failed to create entry: %w", err)
		}

		out := cmd.OutOrStdout()
		_, _ = fmt.Fprintf(out, "Entry created (ID: %d)\n", id)
		_, _ = fmt.Fprintf(out, "%s  %s  %s  %s\n",
			journal.EventTime(entry, a.loc).Format(journal.DisplayLayout),
			formatSeverity(entry.Severity), orDash(entry.BodyPart), journal.PainLabel(entry))

		if a.cfg.Journal.Enabled {
			stored, found, err := a.store.GetEntry(cmd.Context(), id)
			if err != nil || !found {
				a.logger.Warn("failed to reload entry for journal", "id", id, "err", err)
				return nil
			}
			if err := journal.AppendEntry(a.cfg.Journal.Dir, a.cfg.Journal.Format, stored, a.loc); err != nil {
				a.logger.Warn("failed to write journal", "dir", a.cfg.Journal.Dir, "err", err)
			} else {
				_, _ = fmt.Fprintf(out, "Journal updated: %s\n", a.cfg.Journal.Dir)
			}
		}

		return nil
	},
}

func init() {
	f := addCmd.Flags()
	f.IntVarP(&addInput.Severity, "severity", "s", form.DefaultSeverity, "Severity from 1 to 10")
	f.StringVarP(&addInput.PainType, "pain-type", "p", "", "Pain type: Stechend, Dumpf, Pochend, Brennend (default Stechend)")
	f.StringVar(&addInput.PainTypeOther, "pain-other", "", "Free text pain description (sets the pain type to Sonstige)")
	f.StringVarP(&addInput.BodyPart, "body-part", "b", "", "Affected body part (required)")
	f.StringVarP(&addInput.Medication, "medication", "m", "", "Medication taken")
	f.StringVarP(&addInput.Dosage, "dosage", "d", "", "Dosage of the medication")
	f.StringVar(&addInput.Trigger, "trigger", "", "Suspected trigger")
	f.StringVarP(&addInput.Note, "note", "n", "", "Free text note")
	f.IntVar(&addHeartRate, "heart-rate", 0, "Heart rate in bpm")
	f.StringVar(&addInput.BloodPressure, "bp", "", "Blood pressure, e.g. 120/80")
	f.StringVar(&addInput.At, "at", "", "Event time, e.g. \"2024-03-05 14:30\" (default now)")
	rootCmd.AddCommand(addCmd)
}
