package metrics

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/alvmarrod/futile-crawler/internal/storage"
)

// Tracker holds and manages campaign metrics
type Tracker struct {
	mu               sync.Mutex
	data             storage.Metrics
	totalProbeTimeMs int64
	probeCount       int
}

// NewTracker creates a new metrics tracker
func NewTracker() *Tracker {
	return &Tracker{
		data: storage.Metrics{
			StartTime: time.Now(),
		},
	}
}

// IncrementRunsCompleted counts a finished run
func (t *Tracker) IncrementRunsCompleted() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data.RunsCompleted++
}

// IncrementRunsAborted counts a run cut short by identifier exhaustion
func (t *Tracker) IncrementRunsAborted() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data.RunsAborted++
}

// IncrementProbesSent increments the probe counter
func (t *Tracker) IncrementProbesSent() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data.ProbesSent++
}

// IncrementValidFound increments the hit counter
func (t *Tracker) IncrementValidFound() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data.ValidFound++
}

// IncrementRejected counts 200 responses dropped by the content filter
func (t *Tracker) IncrementRejected() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data.Rejected++
}

// IncrementUnverifiable counts probes that got no HTTP answer
func (t *Tracker) IncrementUnverifiable() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data.Unverifiable++
}

// RecordProbeTime records a probe duration
func (t *Tracker) RecordProbeTime(duration time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.totalProbeTimeMs += duration.Milliseconds()
	t.probeCount++
}

// GetSnapshot returns a copy of current metrics
func (t *Tracker) GetSnapshot() storage.Metrics {
	t.mu.Lock()
	defer t.mu.Unlock()

	snapshot := t.data
	snapshot.TotalProbeTimeMs = t.totalProbeTimeMs
	if t.probeCount > 0 {
		snapshot.AvgProbeTimeMs = t.totalProbeTimeMs / int64(t.probeCount)
	}

	return snapshot
}

// WriteToFile exports metrics to a JSON file
func (t *Tracker) WriteToFile(path, reason string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.data.EndTime = time.Now()
	t.data.TerminationReason = reason
	t.data.TotalProbeTimeMs = t.totalProbeTimeMs
	if t.probeCount > 0 {
		t.data.AvgProbeTimeMs = t.totalProbeTimeMs / int64(t.probeCount)
	}

	jsonData, err := json.MarshalIndent(t.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metrics: %w", err)
	}

	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}

	return nil
}

// LogProgress formats current metrics for periodic console output
func (t *Tracker) LogProgress() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	return fmt.Sprintf("Runs: %d completed, %d aborted | Probes: %d sent, %d valid, %d rejected, %d unverifiable",
		t.data.RunsCompleted,
		t.data.RunsAborted,
		t.data.ProbesSent,
		t.data.ValidFound,
		t.data.Rejected,
		t.data.Unverifiable,
	)
}
