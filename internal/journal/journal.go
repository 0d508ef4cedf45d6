// ABOUTME: Daily journal file writing
// ABOUTME: Formats entries as markdown, JSON lines or YAML documents, one file per event day
package journal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/harper/symptomlog/internal/config"
	"github.com/harper/symptomlog/internal/db"
)

// DisplayLayout is how event times are shown to people.
const DisplayLayout = "02.01.2006 15:04"

// EventTime converts an entry's event time into loc.
func EventTime(entry db.Entry, loc *time.Location) time.Time {
	return time.UnixMilli(entry.DateTimeMillis).In(loc)
}

// FileName returns the journal file an entry belongs to.
func FileName(entry db.Entry, format string, loc *time.Location) string {
	date := EventTime(entry, loc).Format("2006-01-02")
	return date + extension(format)
}

func extension(format string) string {
	switch format {
	case config.FormatJSON:
		return ".jsonl"
	case config.FormatYAML:
		return ".yaml"
	default:
		return ".md"
	}
}

// AppendEntry appends entry to the journal file of its event day.
func AppendEntry(dir, format string, entry db.Entry, loc *time.Location) error {
	// Create journal directory if needed
	if err := os.MkdirAll(dir, 0755); err != nil { //nolint:gosec // Standard directory permissions for user data
		return err
	}

	content, err := Format(format, entry, loc)
	if err != nil {
		return err
	}

	path := filepath.Join(dir, FileName(entry, format, loc))
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644) //nolint:gosec // Journal files are user documents
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	_, err = f.WriteString(content)
	return err
}

// Export rewrites the journal for all entries, one file per event day, oldest entry
// first inside each file. It returns the written file names in date order.
func Export(dir, format string, entries []db.Entry, loc *time.Location) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil { //nolint:gosec // Standard directory permissions for user data
		return nil, err
	}

	byFile := make(map[string][]db.Entry)
	for _, entry := range entries {
		name := FileName(entry, format, loc)
		byFile[name] = append(byFile[name], entry)
	}

	names := make([]string, 0, len(byFile))
	for name := range byFile {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		dayEntries := byFile[name]
		// Entries arrive newest first; a day reads top to bottom
		sort.SliceStable(dayEntries, func(i, j int) bool {
			return dayEntries[i].DateTimeMillis < dayEntries[j].DateTimeMillis
		})

		var sb strings.Builder
		for _, entry := range dayEntries {
			content, err := Format(format, entry, loc)
			if err != nil {
				return nil, err
			}
			sb.WriteString(content)
		}

		if err := os.WriteFile(filepath.Join(dir, name), []byte(sb.String()), 0644); err != nil { //nolint:gosec // Journal files are user documents
			return nil, fmt.Errorf("write %s: %w", name, err)
		}
	}

	return names, nil
}

// Format renders a single entry in the given journal format.
func Format(format string, entry db.Entry, loc *time.Location) (string, error) {
	switch format {
	case config.FormatJSON:
		data, err := json.Marshal(entry)
		if err != nil {
			return "", err
		}
		return string(data) + "\n", nil
	case config.FormatYAML:
		data, err := yaml.Marshal(entry)
		if err != nil {
			return "", err
		}
		return "---\n" + string(data), nil
	case config.FormatMarkdown:
		return formatMarkdown(entry, loc), nil
	default:
		return "", fmt.Errorf("unknown journal format %q", format)
	}
}

// PainLabel returns the pain description, using the free text for the sentinel type.
func PainLabel(entry db.Entry) string {
	if entry.PainType == db.PainTypeOther && entry.PainTypeOther != nil && *entry.PainTypeOther != "" {
		return *entry.PainTypeOther
	}
	return entry.PainType
}

func formatMarkdown(entry db.Entry, loc *time.Location) string {
	var sb strings.Builder

	bodyPart := "?"
	if entry.BodyPart != nil && *entry.BodyPart != "" {
		bodyPart = *entry.BodyPart
	}
	sb.WriteString(fmt.Sprintf("## %s - %s (%d/10)\n", EventTime(entry, loc).Format(DisplayLayout), bodyPart, entry.Severity))
	sb.WriteString(fmt.Sprintf("- **Pain**: %s\n", PainLabel(entry)))

	if entry.Medication != "" {
		med := entry.Medication
		if entry.Dosage != nil && *entry.Dosage != "" {
			med += " " + *entry.Dosage
		}
		sb.WriteString(fmt.Sprintf("- **Medication**: %s\n", med))
	}
	if entry.HeartRate != nil {
		sb.WriteString(fmt.Sprintf("- **Heart rate**: %d bpm\n", *entry.HeartRate))
	}
	if entry.BloodPressure != nil && *entry.BloodPressure != "" {
		sb.WriteString(fmt.Sprintf("- **Blood pressure**: %s\n", *entry.BloodPressure))
	}
	if entry.Trigger != "" {
		sb.WriteString(fmt.Sprintf("- **Trigger**: %s\n", entry.Trigger))
	}
	if entry.Note != "" {
		sb.WriteString(fmt.Sprintf("- **Note**: %s\n", entry.Note))
	}
	sb.WriteString("\n")

	return sb.String()
}
