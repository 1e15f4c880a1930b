package memory

import (
	"fmt"
	"sync"

	"github.com/alvmarrod/futile-crawler/internal/storage"
	"github.com/sirupsen/logrus"
)

// Ledger is a process-local attempt ledger. Nothing survives the process;
// it backs dry runs and tests.
type Ledger struct {
	mu      sync.RWMutex
	ids     storage.IdentifierSet
	records []string // append log, one entry per recorded identifier
	loads   int
}

// NewLedger creates an empty in-memory ledger
func NewLedger() *Ledger {
	return &Ledger{
		ids: storage.IdentifierSet{},
	}
}

// Load returns a snapshot copy of the recorded identifiers
func (l *Ledger) Load() (storage.IdentifierSet, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.loads++
	snapshot := make(storage.IdentifierSet, len(l.ids))
	for id := range l.ids {
		snapshot[id] = struct{}{}
	}
	return snapshot, nil
}

// Append records ids at the end of the log
func (l *Ledger) Append(ids storage.IdentifierSet) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, id := range ids.Sorted() {
		l.ids.Add(id)
		l.records = append(l.records, id)
	}
	return nil
}

// LoadFrom copies every identifier from another ledger (for seeding or migrating)
func (l *Ledger) LoadFrom(src storage.Ledger) error {
	ids, err := src.Load()
	if err != nil {
		return fmt.Errorf("failed to load source ledger: %w", err)
	}

	if err := l.Append(ids); err != nil {
		return err
	}

	logrus.Debugf("Loaded %d identifiers into memory ledger", ids.Len())
	return nil
}

// Records returns the append log in write order
func (l *Ledger) Records() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]string, len(l.records))
	copy(out, l.records)
	return out
}

// Loads returns how many snapshots have been taken
func (l *Ledger) Loads() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.loads
}

// Close is a no-op
func (l *Ledger) Close() error {
	return nil
}
