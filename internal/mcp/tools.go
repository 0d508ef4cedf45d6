// ABOUTME: MCP tool implementations for symptomlog
// ABOUTME: Recording, listing and deleting entries plus known value lookups
package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harper/symptomlog/internal/db"
	"github.com/harper/symptomlog/internal/form"
	"github.com/harper/symptomlog/internal/journal"
)

// AddEntryInput defines the input for add_entry tool.
type AddEntryInput struct {
	Severity      int    `json:"severity" jsonschema:"Severity from 1 (barely noticeable) to 10 (unbearable)"`
	BodyPart      string `json:"body_part" jsonschema:"Affected body part, e.g. Kopf or Knie"`
	PainType      string `json:"pain_type,omitempty" jsonschema:"One of Stechend, Dumpf, Pochend, Brennend; defaults to Stechend"`
	PainTypeOther string `json:"pain_type_other,omitempty" jsonschema:"Free text pain description, used instead of pain_type"`
	Medication    string `json:"medication,omitempty" jsonschema:"Medication taken"`
	Dosage        string `json:"dosage,omitempty" jsonschema:"Dosage of the medication, requires medication"`
	Trigger       string `json:"trigger,omitempty" jsonschema:"Suspected trigger"`
	Note          string `json:"note,omitempty" jsonschema:"Free text note"`
	HeartRate     *int   `json:"heart_rate,omitempty" jsonschema:"Heart rate in beats per minute"`
	BloodPressure string `json:"blood_pressure,omitempty" jsonschema:"Blood pressure such as 120/80"`
	At            string `json:"at,omitempty" jsonschema:"When the symptom occurred; defaults to now"`
}

// AddEntryOutput defines the output for add_entry tool.
type AddEntryOutput struct {
	EntryID   int64  `json:"entry_id" jsonschema:"The ID of the created entry"`
	EventTime string `json:"event_time" jsonschema:"When the symptom occurred"`
}

// DeleteEntryInput defines the input for delete_entry tool.
type DeleteEntryInput struct {
	ID int64 `json:"id" jsonschema:"The ID of the entry to delete"`
}

// DeleteEntryOutput defines the output for delete_entry tool.
type DeleteEntryOutput struct {
	ID      int64 `json:"id"`
	Existed bool  `json:"existed" jsonschema:"Whether an entry with this ID existed"`
}

// ListEntriesInput defines the input for list_entries tool.
type ListEntriesInput struct {
	Limit int    `json:"limit,omitempty" jsonschema:"Maximum number of entries to return; 0 returns all"`
	Since string `json:"since,omitempty" jsonschema:"Only entries at or after this time"`
	Until string `json:"until,omitempty" jsonschema:"Only entries at or before this time"`
}

// ListEntriesOutput defines the output for list_entries tool.
type ListEntriesOutput struct {
	Entries []db.Entry `json:"entries"`
	Count   int        `json:"count"`
}

// DeleteBodyPartInput defines the input for delete_body_part tool.
type DeleteBodyPartInput struct {
	BodyPart string `json:"body_part" jsonschema:"Body part whose entries are all deleted"`
}

// DeleteMedicationInput defines the input for delete_medication tool.
type DeleteMedicationInput struct {
	Medication string `json:"medication" jsonschema:"Medication whose entries are all deleted"`
}

// DeleteManyOutput defines the output of the cascading delete tools.
type DeleteManyOutput struct {
	Removed int64 `json:"removed" jsonschema:"Number of entries deleted"`
}

// Known value kinds accepted by known_values.
const (
	KindBodyParts   = "body_parts"
	KindMedications = "medications"
	KindDosages     = "dosages"
)

// KnownValuesInput defines the input for known_values tool.
type KnownValuesInput struct {
	Kind       string `json:"kind" jsonschema:"One of body_parts, medications or dosages"`
	Medication string `json:"medication,omitempty" jsonschema:"Medication whose dosages to list, for kind dosages"`
}

// KnownValuesOutput defines the output for known_values tool.
type KnownValuesOutput struct {
	Kind   string   `json:"kind"`
	Values []string `json:"values"`
}

// registerTools adds all MCP tools to the server.
func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "add_entry",
		Description: "Record a symptom entry. Use this when the user reports pain or another symptom they want tracked.",
	}, s.handleAddEntry)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_entry",
		Description: "Delete one symptom entry by ID. Deleting an unknown ID is not an error.",
	}, s.handleDeleteEntry)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_entries",
		Description: "List symptom entries, most recent event first, optionally limited to a time range.",
	}, s.handleListEntries)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_body_part",
		Description: "Delete every entry recorded for a body part. Only use after the user confirmed it.",
	}, s.handleDeleteBodyPart)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "delete_medication",
		Description: "Delete every entry recorded with a medication. Only use after the user confirmed it.",
	}, s.handleDeleteMedication)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "known_values",
		Description: "List body parts or medications already in use, or the dosages recorded for one medication.",
	}, s.handleKnownValues)
}

func textResult(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf(format, args...)},
		},
	}
}

// handleAddEntry implements the add_entry tool.
func (s *Server) handleAddEntry(ctx context.Context, req *mcp.CallToolRequest, input AddEntryInput) (*mcp.CallToolResult, AddEntryOutput, error) {
	entry, err := form.Build(form.Input{
		Severity:      input.Severity,
		PainType:      input.PainType,
		PainTypeOther: input.PainTypeOther,
		BodyPart:      input.BodyPart,
		Medication:    input.Medication,
		Dosage:        input.Dosage,
		Trigger:       input.Trigger,
		Note:          input.Note,
		HeartRate:     input.HeartRate,
		BloodPressure: input.BloodPressure,
		At:            input.At,
	}, s.loc, s.now().In(s.loc))
	if err != nil {
		return nil, AddEntryOutput{}, err
	}

	id, err := s.store.InsertEntry(ctx, entry)
	if err != nil {
		return nil, AddEntryOutput{}, fmt.Errorf("failed to create entry: %w", err)
	}

	eventTime := journal.EventTime(entry, s.loc).Format(journal.DisplayLayout)
	s.logger.Debug("entry added", "id", id)

	output := AddEntryOutput{
		EntryID:   id,
		EventTime: eventTime,
	}
	return textResult("Entry created successfully (ID: %d) at %s", id, eventTime), output, nil
}

// handleDeleteEntry implements the delete_entry tool.
func (s *Server) handleDeleteEntry(ctx context.Context, req *mcp.CallToolRequest, input DeleteEntryInput) (*mcp.CallToolResult, DeleteEntryOutput, error) {
	_, existed, err := s.store.GetEntry(ctx, input.ID)
	if err != nil {
		return nil, DeleteEntryOutput{}, fmt.Errorf("failed to load entry: %w", err)
	}
	if err := s.store.DeleteEntry(ctx, input.ID); err != nil {
		return nil, DeleteEntryOutput{}, fmt.Errorf("failed to delete entry: %w", err)
	}

	output := DeleteEntryOutput{ID: input.ID, Existed: existed}
	if !existed {
		return textResult("No entry with ID %d, nothing deleted", input.ID), output, nil
	}
	return textResult("Entry %d deleted", input.ID), output, nil
}

// handleListEntries implements the list_entries tool.
func (s *Server) handleListEntries(ctx context.Context, req *mcp.CallToolRequest, input ListEntriesInput) (*mcp.CallToolResult, ListEntriesOutput, error) {
	entries, err := s.store.ListEntries(ctx)
	if err != nil {
		return nil, ListEntriesOutput{}, fmt.Errorf("failed to list entries: %w", err)
	}

	entries, err = form.FilterEntries(entries, input.Since, input.Until, input.Limit, s.loc)
	if err != nil {
		return nil, ListEntriesOutput{}, err
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d entries\n", len(entries)))
	for _, entry := range entries {
		sb.WriteString(fmt.Sprintf("- #%d %s: %d/10 %s, %s\n",
			entry.ID,
			journal.EventTime(entry, s.loc).Format(journal.DisplayLayout),
			entry.Severity,
			bodyPartLabel(entry),
			journal.PainLabel(entry)))
	}

	output := ListEntriesOutput{Entries: entries, Count: len(entries)}
	return textResult("%s", sb.String()), output, nil
}

// handleDeleteBodyPart implements the delete_body_part tool.
func (s *Server) handleDeleteBodyPart(ctx context.Context, req *mcp.CallToolRequest, input DeleteBodyPartInput) (*mcp.CallToolResult, DeleteManyOutput, error) {
	if strings.TrimSpace(input.BodyPart) == "" {
		return nil, DeleteManyOutput{}, fmt.Errorf("body_part is required")
	}
	removed, err := s.store.DeleteEntriesByBodyPart(ctx, input.BodyPart)
	if err != nil {
		return nil, DeleteManyOutput{}, fmt.Errorf("failed to delete entries: %w", err)
	}
	return textResult("Deleted %d entries for body part %q", removed, input.BodyPart), DeleteManyOutput{Removed: removed}, nil
}

// handleDeleteMedication implements the delete_medication tool.
func (s *Server) handleDeleteMedication(ctx context.Context, req *mcp.CallToolRequest, input DeleteMedicationInput) (*mcp.CallToolResult, DeleteManyOutput, error) {
	if strings.TrimSpace(input.Medication) == "" {
		return nil, DeleteManyOutput{}, fmt.Errorf("medication is required")
	}
	removed, err := s.store.DeleteEntriesByMedication(ctx, input.Medication)
	if err != nil {
		return nil, DeleteManyOutput{}, fmt.Errorf("failed to delete entries: %w", err)
	}
	return textResult("Deleted %d entries with medication %q", removed, input.Medication), DeleteManyOutput{Removed: removed}, nil
}

// handleKnownValues implements the known_values tool.
func (s *Server) handleKnownValues(ctx context.Context, req *mcp.CallToolRequest, input KnownValuesInput) (*mcp.CallToolResult, KnownValuesOutput, error) {
	var (
		values []string
		err    error
	)
	switch input.Kind {
	case KindBodyParts:
		values, err = s.store.DistinctBodyParts(ctx)
	case KindMedications:
		values, err = s.store.DistinctMedications(ctx)
	case KindDosages:
		if input.Medication == "" {
			return nil, KnownValuesOutput{}, fmt.Errorf("medication is required for kind %s", KindDosages)
		}
		values, err = s.store.DosagesForMedication(ctx, input.Medication)
	default:
		return nil, KnownValuesOutput{}, fmt.Errorf("unknown kind %q (want %s, %s or %s)", input.Kind, KindBodyParts, KindMedications, KindDosages)
	}
	if err != nil {
		return nil, KnownValuesOutput{}, fmt.Errorf("failed to load known values: %w", err)
	}

	values = form.SortKnown(values)
	output := KnownValuesOutput{Kind: input.Kind, Values: values}
	if len(values) == 0 {
		return textResult("No %s recorded yet", strings.ReplaceAll(input.Kind, "_", " ")), output, nil
	}
	return textResult("%s", strings.Join(values, "\n")), output, nil
}

func bodyPartLabel(entry db.Entry) string {
	if entry.BodyPart == nil || *entry.BodyPart == "" {
		return "?"
	}
	return *entry.BodyPart
}
