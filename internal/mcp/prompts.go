// ABOUTME: MCP prompt definitions for symptomlog
// ABOUTME: Provides static context to AI assistants about symptomlog capabilities
package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const gettingStarted = `Symptomlog is a personal symptom journal. Each entry records how strong a symptom
was (severity 1 to 10), what the pain felt like, where it was, and optionally the
medication and dosage taken, a suspected trigger, a note, heart rate and blood pressure.

When to use symptomlog:
- The user reports pain or another symptom ("my knee hurts since this morning")
- The user took medication and wants it noted
- The user asks how often or how badly something happened recently

Best practices:
- A body part is required; reuse names from the body-parts resource or known_values so
  the journal stays consistent
- Pain types are Stechend, Dumpf, Pochend and Brennend; anything else goes into
  pain_type_other
- Only give a dosage together with a medication
- Record the time the symptom happened, not the time you were told about it
- delete_body_part and delete_medication remove every matching entry; confirm first`

// registerPrompts adds static prompts to the MCP server.
func (s *Server) registerPrompts() {
	prompt := &mcp.Prompt{
		Name:        "symptomlog-getting-started",
		Description: "Introduction to symptomlog and how AI assistants should use it",
	}

	handler := func(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
		result := &mcp.GetPromptResult{
			Description: "Getting started with symptomlog",
			Messages: []*mcp.PromptMessage{
				{
					Role: "user",
					Content: &mcp.TextContent{
						Text: gettingStarted,
					},
				},
			},
		}

		return result, nil
	}

	s.mcpServer.AddPrompt(prompt, handler)
}
