package prober

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// CampaignSummary totals a sequence of runs
type CampaignSummary struct {
	RunsCompleted int
	RunsAborted   int
	Attempted     int
	ValidURLs     []string
	OutputFiles   []string
	Interrupted   bool
}

// ExecuteCampaign performs numRuns independent runs in sequence. Runs share nothing
// but the ledger. A failing run stops the campaign; cancellation stops it quietly.
func (r *Runner) ExecuteCampaign(ctx context.Context, numRuns int) (*CampaignSummary, error) {
	summary := &CampaignSummary{}

	for runCount := 1; runCount <= numRuns; runCount++ {
		if ctx.Err() != nil {
			summary.Interrupted = true
			break
		}

		result, err := r.ExecuteRun(ctx, runCount)
		if err != nil {
			return summary, fmt.Errorf("run %d: %w", runCount, err)
		}

		summary.RunsCompleted++
		summary.Attempted += result.Attempted()
		for u := range result.ValidURLs {
			summary.ValidURLs = append(summary.ValidURLs, u)
		}
		if result.OutputFile != "" {
			summary.OutputFiles = append(summary.OutputFiles, result.OutputFile)
		}

		r.tracker.IncrementRunsCompleted()
		if result.Aborted {
			summary.RunsAborted++
			r.tracker.IncrementRunsAborted()
		}

		logrus.Infof("Run %d done: %d attempts, %d valid, %d rejected, %d unverifiable",
			runCount, result.Attempted(), len(result.ValidURLs), result.Rejected, result.Unverifiable)
		logrus.Info(r.tracker.LogProgress())

		if result.Interrupted {
			summary.Interrupted = true
			break
		}
	}

	logrus.Infof("# CAMPAIGN FINISHED: %d of %d runs, %d attempts, %d valid urls",
		summary.RunsCompleted, numRuns, summary.Attempted, len(summary.ValidURLs))
	return summary, nil
}
