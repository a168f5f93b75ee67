package journal

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func speakEntry(i int) Entry {
	return Entry{
		Timestamp: time.Unix(int64(i), 0).UTC(),
		Line:      fmt.Sprintf("SPEAK:%d", i),
		Command:   "speak",
	}
}

func lines(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Line)
	}
	return out
}

func TestFile_AppendAndRecent(t *testing.T) {
	p := filepath.Join(t.TempDir(), "logs", "commands.jsonl")
	j, err := Open(p, 0)
	require.NoError(t, err)
	defer j.Close()

	e1 := Entry{Timestamp: time.Unix(1, 0).UTC(), Line: "WELCOME", Command: "welcome", Spoken: "Hello!"}
	e2 := Entry{Timestamp: time.Unix(2, 0).UTC(), Line: "BEEP", Command: "unknown"}
	require.NoError(t, j.Append(e1))
	require.NoError(t, j.Append(e2))

	entries, err := Recent(p, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "WELCOME", entries[0].Line)
	assert.Equal(t, "Hello!", entries[0].Spoken)
	assert.True(t, entries[0].Timestamp.Equal(e1.Timestamp), "timestamp not preserved")
	assert.Equal(t, "unknown", entries[1].Command)
}

func TestFile_ReopenKeepsHistory(t *testing.T) {
	p := filepath.Join(t.TempDir(), "commands.jsonl")
	j, err := Open(p, 0)
	require.NoError(t, err)
	require.NoError(t, j.Append(speakEntry(1)))
	require.NoError(t, j.Close())

	j, err = Open(p, 0)
	require.NoError(t, err)
	defer j.Close()
	require.NoError(t, j.Append(speakEntry(2)))

	entries, err := Recent(p, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"SPEAK:1", "SPEAK:2"}, lines(entries))
}

func TestFile_RotatesAtLimit(t *testing.T) {
	line, err := json.Marshal(speakEntry(1))
	require.NoError(t, err)
	size := int64(len(line) + 1)
	// two entries fit, the third does not
	limit := 2*size + size/2

	p := filepath.Join(t.TempDir(), "commands.jsonl")
	j, err := Open(p, limit)
	require.NoError(t, err)
	defer j.Close()

	for i := 1; i <= 5; i++ {
		require.NoError(t, j.Append(speakEntry(i)))
	}

	info, err := os.Stat(p)
	require.NoError(t, err)
	assert.LessOrEqual(t, info.Size(), limit)

	rotated, err := readEntries(RotatedPath(p))
	require.NoError(t, err)
	assert.Equal(t, []string{"SPEAK:3", "SPEAK:4"}, lines(rotated))

	entries, err := Recent(p, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"SPEAK:3", "SPEAK:4", "SPEAK:5"}, lines(entries), "oldest generation must be gone")

	entries, err = Recent(p, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"SPEAK:4", "SPEAK:5"}, lines(entries))
}

func TestFile_OversizedEntryStartsFreshFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "commands.jsonl")
	j, err := Open(p, 16)
	require.NoError(t, err)
	defer j.Close()

	require.NoError(t, j.Append(speakEntry(1)))
	require.NoError(t, j.Append(speakEntry(2)))

	active, err := readEntries(p)
	require.NoError(t, err)
	assert.Equal(t, []string{"SPEAK:2"}, lines(active))
	rotated, err := readEntries(RotatedPath(p))
	require.NoError(t, err)
	assert.Equal(t, []string{"SPEAK:1"}, lines(rotated))
}

func TestFile_AppendAfterClose(t *testing.T) {
	j, err := Open(filepath.Join(t.TempDir(), "commands.jsonl"), 0)
	require.NoError(t, err)
	require.NoError(t, j.Close())
	require.NoError(t, j.Close())
	assert.ErrorIs(t, j.Append(speakEntry(1)), ErrClosed)
}

func TestRecent_SkipsCorruptLines(t *testing.T) {
	p := filepath.Join(t.TempDir(), "commands.jsonl")
	content := "{\"line\":\"WELCOME\",\"command\":\"welcome\"}\n\nnot json\n{\"line\":\"SANITIZE\",\"command\":\"sanitize\"}\n{\"line\":\"QUO"
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))

	entries, err := Recent(p, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"WELCOME", "SANITIZE"}, lines(entries))
}

func TestRecent_MissingJournalIsEmpty(t *testing.T) {
	entries, err := Recent(filepath.Join(t.TempDir(), "nothing.jsonl"), 5)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
