// ABOUTME: MCP resource implementations for symptomlog
// ABOUTME: Exposes recent entries and the known body parts and medications
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/harper/symptomlog/internal/form"
)

// Resource URIs served by the server.
const (
	RecentEntriesURI = "symptomlog://recent-entries"
	BodyPartsURI     = "symptomlog://body-parts"
	MedicationsURI   = "symptomlog://medications"

	recentEntriesLimit = 10
)

// registerResources adds all MCP resources to the server.
func (s *Server) registerResources() {
	s.mcpServer.AddResource(&mcp.Resource{
		URI:         RecentEntriesURI,
		Name:        "Recent Entries",
		Description: "Last 10 symptom entries with every recorded field",
		MIMEType:    "application/json",
	}, s.handleRecentEntries)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         BodyPartsURI,
		Name:        "Body Parts",
		Description: "Body parts used by at least one entry",
		MIMEType:    "application/json",
	}, s.handleBodyParts)

	s.mcpServer.AddResource(&mcp.Resource{
		URI:         MedicationsURI,
		Name:        "Medications",
		Description: "Medications with the dosages recorded for each",
		MIMEType:    "application/json",
	}, s.handleMedications)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: "application/json",
				Text:     string(data),
			},
		},
	}, nil
}

// handleRecentEntries implements the recent-entries resource.
func (s *Server) handleRecentEntries(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	entries, err := s.store.ListEntries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	if len(entries) > recentEntriesLimit {
		entries = entries[:recentEntriesLimit]
	}
	return jsonResource(RecentEntriesURI, entries)
}

// handleBodyParts implements the body-parts resource.
func (s *Server) handleBodyParts(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	parts, err := s.store.DistinctBodyParts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load body parts: %w", err)
	}
	return jsonResource(BodyPartsURI, form.SortKnown(parts))
}

// medicationDosages is one element of the medications resource.
type medicationDosages struct {
	Medication string   `json:"medication"`
	Dosages    []string `json:"dosages"`
}

// handleMedications implements the medications resource.
func (s *Server) handleMedications(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	medications, err := s.store.DistinctMedications(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load medications: %w", err)
	}

	result := make([]medicationDosages, 0, len(medications))
	for _, medication := range form.SortKnown(medications) {
		dosages, err := s.store.DosagesForMedication(ctx, medication)
		if err != nil {
			return nil, fmt.Errorf("failed to load dosages for %s: %w", medication, err)
		}
		result = append(result, medicationDosages{Medication: medication, Dosages: form.SortKnown(dosages)})
	}
	return jsonResource(MedicationsURI, result)
}
