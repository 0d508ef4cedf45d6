// ABOUTME: Tests for MCP server
// ABOUTME: Validates server construction and the shared test fixture
package mcp

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harper/symptomlog/internal/store"
)

var fixedNow = time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "symptoms.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	server := NewServer(st, time.UTC, nil)
	server.now = func() time.Time { return fixedNow }
	return server
}

func TestNewServer(t *testing.T) {
	// Tool registration panics on schemas it cannot infer
	server := newTestServer(t)
	assert.NotNil(t, server.mcpServer)
	assert.NotNil(t, server.logger)
}

func TestGettingStartedPrompt(t *testing.T) {
	server := newTestServer(t)
	assert.NotNil(t, server)
	assert.Contains(t, gettingStarted, "Stechend")
	assert.Contains(t, gettingStarted, "known_values")
}

func addEntry(t *testing.T, s *Server, in AddEntryInput) int64 {
	t.Helper()
	_, out, err := s.handleAddEntry(context.Background(), nil, in)
	require.NoError(t, err)
	return out.EntryID
}
