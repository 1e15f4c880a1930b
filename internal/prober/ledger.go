package prober

import (
	"fmt"

	"github.com/alvmarrod/futile-crawler/internal/config"
	"github.com/alvmarrod/futile-crawler/internal/memory"
	"github.com/alvmarrod/futile-crawler/internal/storage"
)

// OpenLedger opens the attempt ledger for the configured backend and target domain.
// The memory backend starts from the domain's ledger file, if any, and never writes it.
func OpenLedger(cfg config.Config) (storage.Ledger, error) {
	path, err := cfg.LedgerPath()
	if err != nil {
		return nil, fmt.Errorf("failed to derive ledger path: %w", err)
	}

	switch cfg.LedgerBackend {
	case config.LedgerMemory:
		ledger := memory.NewLedger()
		if err := ledger.LoadFrom(storage.NewFileLedger(path)); err != nil {
			return nil, fmt.Errorf("failed to seed memory ledger: %w", err)
		}
		return ledger, nil
	case config.LedgerSQLite:
		ledger, err := storage.NewSQLiteLedger(path)
		if err != nil {
			return nil, err
		}
		return ledger, nil
	case config.LedgerFile:
		return storage.NewFileLedger(path), nil
	default:
		return nil, fmt.Errorf("unknown ledger backend %q", cfg.LedgerBackend)
	}
}
