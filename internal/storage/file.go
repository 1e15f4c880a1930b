package storage

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// FileLedger keeps one identifier per line in a plain text file
type FileLedger struct {
	path string
}

// NewFileLedger creates a ledger backed by path. The file is created on first append.
func NewFileLedger(path string) *FileLedger {
	return &FileLedger{path: path}
}

// Load reads every recorded identifier. A missing file yields an empty set.
func (l *FileLedger) Load() (IdentifierSet, error) {
	file, err := os.Open(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return IdentifierSet{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}
	defer file.Close()

	ids := IdentifierSet{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		// Tolerate hand edits: CRLF endings and blank lines
		id := strings.TrimSpace(scanner.Text())
		if id == "" {
			continue
		}
		ids.Add(id)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ledger %s: %w", l.path, err)
	}

	return ids, nil
}

// Append writes ids to the end of the file in a single write call
func (l *FileLedger) Append(ids IdentifierSet) error {
	if ids.Len() == 0 {
		return nil
	}

	var b strings.Builder
	for _, id := range ids.Sorted() {
		b.WriteString(id)
		b.WriteByte('\n')
	}

	file, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open ledger for append: %w", err)
	}

	if _, err := file.WriteString(b.String()); err != nil {
		file.Close()
		return fmt.Errorf("failed to append to ledger: %w", err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close ledger: %w", err)
	}
	return nil
}

// Close is a no-op; the file is only held open during Load and Append
func (l *FileLedger) Close() error {
	return nil
}
