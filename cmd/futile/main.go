package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/alvmarrod/futile-crawler/internal/checker"
	"github.com/alvmarrod/futile-crawler/internal/config"
	"github.com/alvmarrod/futile-crawler/internal/ident"
	"github.com/alvmarrod/futile-crawler/internal/metrics"
	"github.com/alvmarrod/futile-crawler/internal/prober"
	"github.com/alvmarrod/futile-crawler/internal/version"
	"github.com/sirupsen/logrus"
)

func main() {
	// Configure logging
	logrus.SetLevel(logrus.InfoLevel)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	logrus.Infof("Futile Crawler v%s starting...", version.Version)

	configPath := "config.json"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	if level, err := logrus.ParseLevel(cfg.LogLevel); err != nil {
		logrus.Warnf("Unknown log_level %q, keeping info", cfg.LogLevel)
	} else {
		logrus.SetLevel(level)
	}

	domain, err := cfg.Domain()
	if err != nil {
		logrus.Fatalf("Invalid base URL: %v", err)
	}

	logrus.Infof("Configuration loaded: base=%s, domain=%s, space=%s, runs=%d, attempts/run=%d, delay=%v",
		cfg.BaseURL, domain, cfg.SpaceSize(), cfg.NumRuns, cfg.AttemptsPerRun, cfg.RequestDelay())

	// Initialize ledger
	ledger, err := prober.OpenLedger(cfg)
	if err != nil {
		logrus.Fatalf("Failed to open attempt ledger: %v", err)
	}
	defer ledger.Close()

	if path, err := cfg.LedgerPath(); err == nil {
		logrus.Infof("Attempt ledger (%s): %s", cfg.LedgerBackend, path)
	}

	tracker := metrics.NewTracker()
	gen := ident.NewGenerator(cfg.Alphabet, cfg.IdentifierLength, ident.NewSource(cfg.Seed))
	runner := prober.NewRunner(cfg, gen, ledger, checker.NewChecker(cfg), tracker)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// First signal stops after the current probe; second one exits immediately
	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		logrus.Warnf("Received signal %v, finishing current probe and saving attempts...", sig)
		cancel()

		sig = <-sigChan
		logrus.Warnf("Received second signal (%v) - forcing immediate exit, current run's attempts are lost!", sig)
		if err := tracker.WriteToFile(cfg.MetricsPath, "forced_exit"); err != nil {
			logrus.Errorf("Emergency metrics save failed: %v", err)
		}
		os.Exit(1)
	}()

	// Start progress logger
	var wg sync.WaitGroup
	stopProgress := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				logrus.Info(tracker.LogProgress())
			case <-stopProgress:
				return
			}
		}
	}()

	summary, runErr := runner.ExecuteCampaign(ctx, cfg.NumRuns)

	close(stopProgress)
	wg.Wait()

	terminationReason := "completed"
	switch {
	case runErr != nil:
		terminationReason = "error"
	case summary.Interrupted:
		terminationReason = "signal"
	}

	logrus.Info("Final stats: " + tracker.LogProgress())
	for _, u := range summary.ValidURLs {
		logrus.Infof("Valid URL found this session: %s", u)
	}

	if err := tracker.WriteToFile(cfg.MetricsPath, terminationReason); err != nil {
		logrus.Errorf("Failed to write metrics: %v", err)
	} else {
		logrus.Infof("Metrics written to %s", cfg.MetricsPath)
	}

	if runErr != nil {
		ledger.Close()
		logrus.Fatalf("Campaign halted: %v", runErr)
	}

	logrus.Info("Done. Goodbye!")
}

// loadConfig reads path, falling back to built-in defaults when the file does not exist
func loadConfig(path string) (config.Config, error) {
	cfg, err := config.LoadConfig(path)
	if errors.Is(err, fs.ErrNotExist) {
		logrus.Warnf("No config file at %s, using built-in defaults", path)
		return config.Default(), nil
	}
	if err != nil {
		return config.Config{}, err
	}
	return *cfg, nil
}
