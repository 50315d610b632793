// Package testutil provides shared test doubles and fixtures for backend tests.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// RedirectTransport sends every request to Target regardless of the host the
// caller asked for. Discord endpoints are absolute URLs, so tests point the
// http.Client at an httptest server through this transport.
type RedirectTransport struct {
	Target *url.URL
	Base   http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *RedirectTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.URL.Scheme = t.Target.Scheme
	clone.URL.Host = t.Target.Host
	clone.Host = t.Target.Host
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(clone)
}

// RedirectedClient starts an httptest server for handler and returns a client
// whose requests all land on it. The server is closed with the test.
func RedirectedClient(t testing.TB, handler http.Handler) *http.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	target, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("parse test server url: %v", err)
	}
	return &http.Client{Transport: &RedirectTransport{Target: target}}
}

// NewRedis returns a go-redis client backed by an in-process miniredis.
func NewRedis(t testing.TB) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb, mr
}
