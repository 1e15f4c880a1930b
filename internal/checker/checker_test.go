package checker

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alvmarrod/futile-crawler/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body>a real resource</body></html>")
	})
	mux.HandleFunc("/removed", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body>This video isn't available</body></html>")
	})
	mux.HandleFunc("/created", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, "created")
	})
	mux.HandleFunc("/huge-removed", func(w http.ResponseWriter, r *http.Request) {
		w.Write(bytes.Repeat([]byte("x"), 11<<20))
		fmt.Fprint(w, "This video isn't available")
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestChecker() *Checker {
	cfg := config.Default()
	return NewChecker(cfg)
}

func TestCheck_Clean200IsValid(t *testing.T) {
	server := newTestServer(t)
	c := newTestChecker()

	res := c.Probe(server.URL + "/ok")
	assert.Equal(t, Valid, res.Outcome)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.True(t, c.Check(server.URL+"/ok"))
}

func TestCheck_UnacceptableBodyRejected(t *testing.T) {
	server := newTestServer(t)
	c := newTestChecker()

	res := c.Probe(server.URL + "/removed")
	assert.Equal(t, Invalid, res.Outcome)
	assert.Equal(t, "This video isn't available", res.Matched)
	assert.False(t, c.Check(server.URL+"/removed"))
}

func TestCheck_MarkerPastTenMiBRejected(t *testing.T) {
	server := newTestServer(t)
	c := newTestChecker()

	res := c.Probe(server.URL + "/huge-removed")
	assert.Equal(t, Invalid, res.Outcome)
	assert.Equal(t, "This video isn't available", res.Matched)
}

func TestCheck_NotFoundIsInvalid(t *testing.T) {
	server := newTestServer(t)
	c := newTestChecker()

	res := c.Probe(server.URL + "/abc123")
	assert.Equal(t, Invalid, res.Outcome)
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.False(t, c.Check(server.URL+"/abc123"))
}

func TestCheck_OnlyExact200Counts(t *testing.T) {
	server := newTestServer(t)
	c := newTestChecker()

	res := c.Probe(server.URL + "/created")
	assert.Equal(t, Invalid, res.Outcome)
	assert.Equal(t, http.StatusCreated, res.StatusCode)
}

func TestCheck_TransportFailureIsUnverifiable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL + "/ok"
	server.Close()

	c := newTestChecker()
	res := c.Probe(url)
	assert.Equal(t, Unverifiable, res.Outcome)
	assert.Error(t, res.Err)
	assert.False(t, c.Check(url))
}

func TestCheck_MalformedURLIsUnverifiable(t *testing.T) {
	c := newTestChecker()

	res := c.Probe("http://[::1")
	assert.Equal(t, Unverifiable, res.Outcome)
}

func TestCheck_SameURLCanBeProbedTwice(t *testing.T) {
	server := newTestServer(t)
	c := newTestChecker()

	require.True(t, c.Check(server.URL+"/ok"))
	assert.True(t, c.Check(server.URL+"/ok"))
}

func TestCheck_CustomFilterList(t *testing.T) {
	server := newTestServer(t)
	cfg := config.Default()
	cfg.UnacceptableStrings = []string{"real resource"}
	c := NewChecker(cfg)

	assert.False(t, c.Check(server.URL+"/ok"))
	assert.True(t, c.Check(server.URL+"/removed"))
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "valid", Valid.String())
	assert.Equal(t, "invalid", Invalid.String())
	assert.Equal(t, "unverifiable", Unverifiable.String())
	assert.Equal(t, "unknown", Outcome(42).String())
}
