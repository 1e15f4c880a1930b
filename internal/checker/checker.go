package checker

import (
	"net/http"

	"github.com/alvmarrod/futile-crawler/internal/config"
	"github.com/gocolly/colly/v2"
	"github.com/sirupsen/logrus"
)

const resultKey = "probe_result"

// Outcome classifies a single probe
type Outcome int

const (
	// Invalid means the server answered and the answer was not a hit
	Invalid Outcome = iota
	// Valid means status 200 with no unacceptable content
	Valid
	// Unverifiable means no HTTP answer was obtained (timeout, DNS, reset)
	Unverifiable
)

func (o Outcome) String() string {
	switch o {
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	case Unverifiable:
		return "unverifiable"
	default:
		return "unknown"
	}
}

// Result is the full classification of a probe
type Result struct {
	Outcome    Outcome
	StatusCode int
	Matched    string // unacceptable substring that rejected a 200, if any
	Err        error
}

// Checker issues one GET per candidate URL and classifies the response
type Checker struct {
	collector *colly.Collector
	filter    *Filter
}

// NewChecker creates a checker from the configured timeout and filter list
func NewChecker(cfg config.Config) *Checker {
	c := &Checker{
		filter: NewFilter(cfg.UnacceptableStrings),
	}
	c.setupColly(cfg)
	return c
}

// setupColly configures a synchronous collector with classification callbacks
func (c *Checker) setupColly(cfg config.Config) {
	c.collector = colly.NewCollector(
		colly.AllowURLRevisit(),
		colly.IgnoreRobotsTxt(),
		// a truncated body could hide an unacceptable marker
		colly.MaxBodySize(0),
	)

	c.collector.SetRequestTimeout(cfg.RequestTimeout())

	// 2xx responses land here; anything but an exact 200 is still not a hit
	c.collector.OnResponse(func(r *colly.Response) {
		res := Result{Outcome: Invalid, StatusCode: r.StatusCode}
		if r.StatusCode == http.StatusOK {
			if matched, ok := c.filter.Match(r.Body); ok {
				res.Matched = matched
				logrus.Infof("\tvalid url, but was unacceptable as response contained %q: %s", matched, r.Request.URL)
			} else {
				res.Outcome = Valid
			}
		}
		r.Ctx.Put(resultKey, res)
	})

	// Non-2xx statuses and transport failures
	c.collector.OnError(func(r *colly.Response, err error) {
		res := Result{Outcome: Invalid, StatusCode: r.StatusCode, Err: err}
		if r.StatusCode == 0 {
			res.Outcome = Unverifiable
			logrus.Debugf("Probe of %s could not be verified: %v", r.Request.URL, err)
		}
		r.Ctx.Put(resultKey, res)
	})
}

// Probe requests url and classifies the response
func (c *Checker) Probe(url string) Result {
	ctx := colly.NewContext()
	err := c.collector.Request(http.MethodGet, url, nil, ctx, nil)

	if res, ok := ctx.GetAny(resultKey).(Result); ok {
		return res
	}

	// Rejected before dispatch (malformed URL and the like)
	logrus.Debugf("Probe of %s was not dispatched: %v", url, err)
	return Result{Outcome: Unverifiable, Err: err}
}

// Check reports whether url is a genuine hit. Fails closed.
func (c *Checker) Check(url string) bool {
	return c.Probe(url).Outcome == Valid
}
