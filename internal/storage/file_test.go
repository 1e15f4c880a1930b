package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
}

func TestFileLedger_MissingFileIsEmpty(t *testing.T) {
	ledger := NewFileLedger(filepath.Join(t.TempDir(), "attempts.txt"))

	ids, err := ledger.Load()
	require.NoError(t, err)
	assert.Equal(t, 0, ids.Len())
}

func TestFileLedger_AppendThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attempts.txt")
	ledger := NewFileLedger(path)

	require.NoError(t, ledger.Append(NewIdentifierSet("abc123", "zzz999")))

	ids, err := ledger.Load()
	require.NoError(t, err)
	assert.True(t, ids.Has("abc123"))
	assert.True(t, ids.Has("zzz999"))
	assert.Equal(t, 2, ids.Len())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "abc123\nzzz999\n", string(data))
}

func TestFileLedger_AppendIsMonotonic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attempts.txt")
	ledger := NewFileLedger(path)

	require.NoError(t, ledger.Append(NewIdentifierSet("a1", "a2", "a3")))
	require.NoError(t, ledger.Append(NewIdentifierSet("b1", "b2")))
	require.NoError(t, ledger.Append(IdentifierSet{}))

	assert.Len(t, readLines(t, path), 5)
}

func TestFileLedger_AppendDoesNotClobberConcurrentWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attempts.txt")
	mine := NewFileLedger(path)

	snapshot, err := mine.Load()
	require.NoError(t, err)
	assert.Equal(t, 0, snapshot.Len())

	// another process appends after our load
	require.NoError(t, os.WriteFile(path, []byte("other1\n"), 0644))

	require.NoError(t, mine.Append(NewIdentifierSet("mine01")))
	assert.Equal(t, []string{"other1", "mine01"}, readLines(t, path))
}

func TestFileLedger_LoadToleratesHandEdits(t *testing.T) {
	path := filepath.Join(t.TempDir(), "attempts.txt")
	require.NoError(t, os.WriteFile(path, []byte("abc\r\n\n  def  \nabc\n"), 0644))

	ids, err := NewFileLedger(path).Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"abc", "def"}, ids.Sorted())
}

func TestFileLedger_UnreadableFileFails(t *testing.T) {
	// a directory exists at the path but cannot be read as a ledger
	path := t.TempDir()

	_, err := NewFileLedger(path).Load()
	assert.Error(t, err)
}

func TestFileLedger_AppendFailurePropagates(t *testing.T) {
	ledger := NewFileLedger(filepath.Join(t.TempDir(), "missing-dir", "attempts.txt"))

	err := ledger.Append(NewIdentifierSet("abc"))
	assert.Error(t, err)
}
