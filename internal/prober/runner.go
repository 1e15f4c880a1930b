package prober

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alvmarrod/futile-crawler/internal/checker"
	"github.com/alvmarrod/futile-crawler/internal/config"
	"github.com/alvmarrod/futile-crawler/internal/metrics"
	"github.com/alvmarrod/futile-crawler/internal/storage"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// ErrSpaceExhausted is returned when no fresh identifier turns up within the collision bound
var ErrSpaceExhausted = errors.New("too many attempts to generate a fresh identifier")

// Generator produces candidate identifiers
type Generator interface {
	Generate() string
}

// Checker probes a candidate URL
type Checker interface {
	Probe(url string) checker.Result
}

// RunResult summarizes one run
type RunResult struct {
	RunIndex     int
	Chance       string
	Tried        storage.IdentifierSet
	Unverified   storage.IdentifierSet // subset of Tried that got no HTTP answer
	ValidURLs    map[string]struct{}
	Rejected     int
	Unverifiable int
	Aborted      bool // collision bound hit
	Interrupted  bool // context cancelled between probes
	OutputFile   string
}

// Attempted returns the number of identifiers probed in the run
func (r *RunResult) Attempted() int {
	return r.Tried.Len()
}

// Runner executes probing runs against a single base URL
type Runner struct {
	cfg     config.Config
	gen     Generator
	ledger  storage.Ledger
	checker Checker
	tracker *metrics.Tracker
	limiter *rate.Limiter
	now     func() time.Time
}

// NewRunner wires a runner. A nil tracker gets a fresh one.
func NewRunner(cfg config.Config, gen Generator, ledger storage.Ledger, chk Checker, tracker *metrics.Tracker) *Runner {
	if tracker == nil {
		tracker = metrics.NewTracker()
	}

	limit := rate.Inf
	if delay := cfg.RequestDelay(); delay > 0 {
		limit = rate.Every(delay)
	}

	return &Runner{
		cfg:     cfg,
		gen:     gen,
		ledger:  ledger,
		checker: chk,
		tracker: tracker,
		limiter: rate.NewLimiter(limit, 1),
		now:     time.Now,
	}
}

// ExecuteRun loads the ledger snapshot, probes up to AttemptsPerRun fresh identifiers,
// writes any hits to a timestamped file and appends every tried identifier to the ledger.
func (r *Runner) ExecuteRun(ctx context.Context, runIndex int) (*RunResult, error) {
	previous, err := r.ledger.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load previous attempts: %w", err)
	}

	result := &RunResult{
		RunIndex:   runIndex,
		Tried:      storage.IdentifierSet{},
		Unverified: storage.IdentifierSet{},
		ValidURLs:  make(map[string]struct{}),
	}

	budget := r.cfg.AttemptsPerRun
	result.Chance = FormatChance(ChanceOfHit(r.cfg.SpaceSize(), previous.Len(), budget))
	logrus.Infof("# RUN %d STARTING, CHANCE OF FINDING VALID URL THIS RUN IS %s.", runIndex, result.Chance)

	for result.Attempted() < budget {
		id, err := r.drawFresh(result.Tried, previous)
		if err != nil {
			logrus.Warnf("!!! %v after %d draws, ending run %d early at attempt %d !!!",
				err, r.cfg.MaxCollisions, runIndex, result.Attempted())
			result.Aborted = true
			break
		}

		if err := r.limiter.Wait(ctx); err != nil {
			logrus.Warnf("Run %d interrupted after %d attempts: %v", runIndex, result.Attempted(), err)
			result.Interrupted = true
			break
		}

		result.Tried.Add(id)
		r.probe(result, id, budget)
	}

	outErr := r.report(result)

	// Attempts are persisted even when the report failed
	var ledgerErr error
	if err := r.ledger.Append(r.toRecord(result)); err != nil {
		ledgerErr = fmt.Errorf("failed to record attempts: %w", err)
	}

	if err := errors.Join(outErr, ledgerErr); err != nil {
		return result, err
	}
	return result, nil
}

// drawFresh draws until an identifier unseen in this run and in the snapshot turns up
func (r *Runner) drawFresh(tried, previous storage.IdentifierSet) (string, error) {
	for i := 0; i < r.cfg.MaxCollisions; i++ {
		id := r.gen.Generate()
		if !tried.Has(id) && !previous.Has(id) {
			return id, nil
		}
	}
	return "", ErrSpaceExhausted
}

// probe checks one candidate and folds the outcome into result
func (r *Runner) probe(result *RunResult, id string, budget int) {
	url := r.cfg.BaseURL + id
	logrus.Infof("Testing %s, %d valid urls found so far, attempt %d out of %d, run %d",
		url, len(result.ValidURLs), result.Attempted(), budget, result.RunIndex)

	start := time.Now()
	res := r.checker.Probe(url)
	r.tracker.RecordProbeTime(time.Since(start))
	r.tracker.IncrementProbesSent()

	switch res.Outcome {
	case checker.Valid:
		result.ValidURLs[url] = struct{}{}
		r.tracker.IncrementValidFound()
		logrus.Infof("\tValid URL: %s", url)
	case checker.Unverifiable:
		result.Unverified.Add(id)
		result.Unverifiable++
		r.tracker.IncrementUnverifiable()
	default:
		if res.Matched != "" {
			result.Rejected++
			r.tracker.IncrementRejected()
		}
	}
}

// toRecord selects the identifiers to append to the ledger. With RetryUnverifiable set,
// probes that got no HTTP answer stay out so a later run may draw them again.
func (r *Runner) toRecord(result *RunResult) storage.IdentifierSet {
	if !r.cfg.RetryUnverifiable || result.Unverified.Len() == 0 {
		return result.Tried
	}

	record := make(storage.IdentifierSet, result.Tried.Len())
	for id := range result.Tried {
		if !result.Unverified.Has(id) {
			record.Add(id)
		}
	}
	return record
}

// report writes the run's hits, if any, to a fresh output file
func (r *Runner) report(result *RunResult) error {
	if len(result.ValidURLs) == 0 {
		logrus.Infof("# NO VALID URLS FOUND ON RUN %d.", result.RunIndex)
		return nil
	}

	path, err := r.cfg.OutputPath(r.now())
	if err != nil {
		return fmt.Errorf("failed to derive output path: %w", err)
	}

	urls := storage.IdentifierSet(result.ValidURLs).Sorted()
	logrus.Infof("# FOUND %d VALID URLS ON RUN %d! SAVING TO %s.", len(urls), result.RunIndex, path)

	written, err := writeValidURLs(path, urls)
	if err != nil {
		for _, u := range urls {
			logrus.Errorf("Unsaved valid URL from run %d: %s", result.RunIndex, u)
		}
		return err
	}

	result.OutputFile = written
	return nil
}
