package storage

import (
	"sort"
	"time"
)

// IdentifierSet is an unordered set of identifiers
type IdentifierSet map[string]struct{}

// NewIdentifierSet builds a set from the given identifiers
func NewIdentifierSet(ids ...string) IdentifierSet {
	s := make(IdentifierSet, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add inserts id, reporting whether it was absent
func (s IdentifierSet) Add(id string) bool {
	if _, ok := s[id]; ok {
		return false
	}
	s[id] = struct{}{}
	return true
}

// Has reports membership
func (s IdentifierSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of identifiers
func (s IdentifierSet) Len() int {
	return len(s)
}

// Sorted returns the identifiers in lexical order
func (s IdentifierSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Ledger is the append-only record of every identifier ever probed for a target.
// Load is called once at run start and Append once at run end; Append never reads,
// so other processes may write between the two.
type Ledger interface {
	Load() (IdentifierSet, error)
	Append(ids IdentifierSet) error
	Close() error
}

// Metrics tracks campaign statistics for export on exit
type Metrics struct {
	StartTime         time.Time `json:"start_time"`
	EndTime           time.Time `json:"end_time"`
	RunsCompleted     int       `json:"runs_completed"`
	RunsAborted       int       `json:"runs_aborted"`
	ProbesSent        int       `json:"probes_sent"`
	ValidFound        int       `json:"valid_found"`
	Rejected          int       `json:"rejected"`
	Unverifiable      int       `json:"unverifiable"`
	TotalProbeTimeMs  int64     `json:"total_probe_time_ms"`
	AvgProbeTimeMs    int64     `json:"avg_probe_time_ms"`
	TerminationReason string    `json:"termination_reason"`
}
