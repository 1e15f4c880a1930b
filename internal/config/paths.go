package config

import (
	"fmt"
	"net"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
)

const (
	ledgerPrefix = "futile-crwl-prv-attmpts-"
	outputPrefix = "futile-crwl-valid-urls-"

	// TimestampLayout names the per-run output files
	TimestampLayout = "2006-01-02_15-04-05"
)

// ShortDomain extracts the label used to scope file names to a target.
// Example: https://www.example.co.uk/v/ -> example
func ShortDomain(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return "", fmt.Errorf("no host in %q", rawURL)
	}

	if net.ParseIP(host) != nil {
		return strings.NewReplacer(".", "-", ":", "-").Replace(host), nil
	}

	registrable, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		// localhost, bare suffixes and similar
		return host, nil
	}

	suffix, _ := publicsuffix.PublicSuffix(registrable)
	return strings.TrimSuffix(registrable, "."+suffix), nil
}

// Domain returns the short domain of the configured base URL
func (c Config) Domain() (string, error) {
	return ShortDomain(c.BaseURL)
}

// LedgerPath returns the domain-scoped ledger location for the configured backend
func (c Config) LedgerPath() (string, error) {
	domain, err := c.Domain()
	if err != nil {
		return "", err
	}

	ext := ".txt"
	if c.LedgerBackend == LedgerSQLite {
		ext = ".db"
	}
	return filepath.Join(c.LedgerDir, ledgerPrefix+domain+ext), nil
}

// OutputPath returns the valid-URL file name for a run finishing at ts
func (c Config) OutputPath(ts time.Time) (string, error) {
	domain, err := c.Domain()
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("%s%s_%s.txt", outputPrefix, domain, ts.Format(TimestampLayout))
	return filepath.Join(c.OutputDir, name), nil
}
