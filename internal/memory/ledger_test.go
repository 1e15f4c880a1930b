package memory

import (
	"path/filepath"
	"testing"

	"github.com/alvmarrod/futile-crawler/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedger_SnapshotIsolation(t *testing.T) {
	l := NewLedger()
	require.NoError(t, l.Append(storage.NewIdentifierSet("a", "b")))

	snapshot, err := l.Load()
	require.NoError(t, err)

	require.NoError(t, l.Append(storage.NewIdentifierSet("c")))
	snapshot.Add("mutated")

	assert.Equal(t, []string{"a", "b"}, snapshot.Sorted()[:2])
	assert.False(t, snapshot.Has("c"))

	fresh, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, fresh.Sorted())
	assert.Equal(t, 2, l.Loads())
}

func TestLedger_RecordsKeepAppendOrder(t *testing.T) {
	l := NewLedger()
	require.NoError(t, l.Append(storage.NewIdentifierSet("z")))
	require.NoError(t, l.Append(storage.NewIdentifierSet("b", "a")))

	assert.Equal(t, []string{"z", "a", "b"}, l.Records())
}

func TestLedger_LoadFromFile(t *testing.T) {
	file := storage.NewFileLedger(filepath.Join(t.TempDir(), "attempts.txt"))
	require.NoError(t, file.Append(storage.NewIdentifierSet("x1", "x2")))

	l := NewLedger()
	require.NoError(t, l.LoadFrom(file))

	ids, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"x1", "x2"}, ids.Sorted())
}

func TestLedger_LoadFromFailure(t *testing.T) {
	l := NewLedger()
	err := l.LoadFrom(storage.NewFileLedger(t.TempDir()))
	assert.Error(t, err)
}
