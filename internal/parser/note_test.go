package parser

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNote(t *testing.T) {
	t.Run("frontmatter and body", func(t *testing.T) {
		note, err := ParseNote([]byte("---\ntitle: Session 1\nsession: 1\n---\nS1 Start\n=> [PC:A|HP-1]\n"))
		require.NoError(t, err)
		assert.Equal(t, "Session 1", note.Title)
		assert.Equal(t, 1, note.Session)
		require.Len(t, note.Entries, 2)
		assert.Equal(t, EntryConsequence, note.Entries[1].Type)
	})

	t.Run("no frontmatter", func(t *testing.T) {
		note, err := ParseNote([]byte("@ act\n"))
		require.NoError(t, err)
		assert.Empty(t, note.Title)
		assert.Zero(t, note.Session)
		require.Len(t, note.Entries, 1)
	})

	t.Run("missing closing marker", func(t *testing.T) {
		_, err := ParseNote([]byte("---\ntitle: Missing\n"))
		assert.True(t, errors.Is(err, ErrInvalidFrontmatter), "got %v", err)
	})

	t.Run("non-integer session", func(t *testing.T) {
		_, err := ParseNote([]byte("---\nsession: three\n---\n"))
		assert.ErrorIs(t, err, ErrInvalidSession)
	})

	t.Run("bom trimmed", func(t *testing.T) {
		note, err := ParseNote([]byte("\ufeff---\ntitle: BOM\n---\n"))
		require.NoError(t, err)
		assert.Equal(t, "BOM", note.Title)
		assert.Empty(t, note.Entries)
	})

	t.Run("other fences ignored", func(t *testing.T) {
		note, err := ParseNote([]byte("```go\nS1 not a scene\n```\n~~~lonelog\n@ act\n~~~\n"))
		require.NoError(t, err)
		require.Len(t, note.Entries, 1)
		assert.Equal(t, EntryAction, note.Entries[0].Type)
	})

	t.Run("unterminated lonelog fence", func(t *testing.T) {
		note, err := ParseNote([]byte("intro\n```lonelog\n@ act\n? ask\n"))
		require.NoError(t, err)
		assert.Len(t, note.Entries, 2)
	})
}

func TestParseFile(t *testing.T) {
	note, err := ParseFile(filepath.Join("testdata", "session_fenced.md"))
	require.NoError(t, err)
	assert.Equal(t, "Session 3 - The Mill", note.Title)
	assert.Equal(t, 3, note.Session)
	assert.Equal(t, "ironsworn", note.Frontmatter["campaign"])
	assert.NotEmpty(t, note.SourceFile)

	require.Len(t, note.Entries, 5)
	assert.Equal(t, EntryScene, note.Entries[0].Type)
	assert.Equal(t, "Arrival at the mill", note.Entries[0].Context)
	assert.Equal(t, []Tag{{Kind: TagClock, Name: "Fire spreads", Current: 2, Max: 6}}, note.Entries[4].Tags)
}

func TestParseFile_PlainLog(t *testing.T) {
	note, err := ParseFile(filepath.Join("testdata", "session_plain.md"))
	require.NoError(t, err)
	require.Len(t, note.Entries, 3)
	assert.Equal(t, "d6=2", note.Entries[2].Roll)
}

func TestParseFile_InvalidFrontmatter(t *testing.T) {
	_, err := ParseFile(filepath.Join("testdata", "bad_frontmatter.md"))
	assert.ErrorIs(t, err, ErrInvalidFrontmatter)
}

func TestParseFile_ReadError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.md")
	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr))
	_, err := ParseFile(path)
	assert.Error(t, err)
}
