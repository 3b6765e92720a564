package cli

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/dailybit/internal/core/domain"
)

func TestDocumentCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0, len(documentCmd.Commands()))
	for _, cmd := range documentCmd.Commands() {
		names = append(names, cmd.Name())
	}

	assert.ElementsMatch(t, []string{"list", "get", "content", "delete", "stats"}, names)
}

func TestDocumentListCmd_RequiresExactlyOneArg(t *testing.T) {
	_, err := execute("document", "list")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestDocumentListCmd_ServiceNotConfigured(t *testing.T) {
	orig := ingestService
	ingestService = nil
	defer func() { ingestService = orig }()

	_, err := execute("document", "list", "topics")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "ingest service not configured")
}

func TestDocumentListCmd_UnknownPartition(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute("document", "list", "quizzes")

	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown partition "quizzes"`)
}

func TestDocumentListCmd_Empty(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("document", "list", "problems")

	require.NoError(t, err)
	assert.Contains(t, out, "No documents found in problems")
}

func TestDocumentListCmd_Lists(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.ingest.records = []domain.DocumentRecord{
		{ID: "heap", Partition: domain.PartitionTopics, Title: "Heap", ChunkIDs: []string{"a", "b"}},
		{ID: "trie", Partition: domain.PartitionTopics, Title: "Trie", ChunkIDs: []string{"c"}},
	}

	out, err := execute("document", "list", "topic")

	require.NoError(t, err)
	assert.Contains(t, out, "Documents in topics:")
	assert.Contains(t, out, "Title: Heap")
	assert.Contains(t, out, "Chunks: 2")
	assert.Contains(t, out, "Total: 2 documents")
}

func TestDocumentListCmd_EmptyJSONIsArray(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("document", "list", "--json", "topics")

	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)
}

func TestDocumentGetCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ts.ingest.record = &domain.DocumentRecord{
		ID: "two-sum", Partition: domain.PartitionProblems, Title: "Two Sum",
		ChunkIDs: []string{"x"}, IngestedAt: at, UpdatedAt: at,
	}

	out, err := execute("document", "get", "problems", "two-sum")

	require.NoError(t, err)
	assert.Contains(t, out, "ID: two-sum")
	assert.Contains(t, out, "Title: Two Sum")
	assert.Contains(t, out, "Ingested: 2026-03-01T12:00:00Z")
}

func TestDocumentGetCmd_JSON(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.ingest.record = &domain.DocumentRecord{ID: "heap", Partition: domain.PartitionTopics, Title: "Heap"}

	out, err := execute("document", "get", "--json", "topics", "heap")

	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "heap", got["id"])
	assert.Equal(t, "topics", got["partition"])
}

func TestDocumentGetCmd_NotFound(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.ingest.err = domain.ErrNotFound

	_, err := execute("document", "get", "topics", "missing")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "document not found: missing")
}

func TestDocumentContentCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.ingest.record = &domain.DocumentRecord{ID: "heap", Payload: []byte(`{"title":"Heap"}`)}

	out, err := execute("document", "content", "topics", "heap")

	require.NoError(t, err)
	assert.Contains(t, out, `{"title":"Heap"}`)
}

func TestDocumentContentCmd_NoPayload(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.ingest.record = &domain.DocumentRecord{ID: "heap"}

	_, err := execute("document", "content", "topics", "heap")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no stored content for heap")
}

func TestDocumentDeleteCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute("document", "delete", "problems", "two-sum")

	require.NoError(t, err)
	assert.Contains(t, out, "Deleted two-sum from problems")
	assert.Equal(t, []string{"two-sum"}, ts.ingest.deleted)
}

func TestDocumentDeleteCmd_NotFound(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.ingest.err = domain.ErrNotFound

	_, err := execute("document", "delete", "problems", "nope")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "document not found: nope")
}

func TestDocumentStatsCmd(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.ingest.stats = map[domain.Partition]int{domain.PartitionTopics: 12, domain.PartitionProblems: 4}

	out, err := execute("document", "stats")

	require.NoError(t, err)
	assert.Regexp(t, `problems\s+4 chunks\ntopics\s+12 chunks`, out)
}
