// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

// RoundTripper is a http.RoundTripper that redirects some domains to
// http.Handler instances.
type RoundTripper struct {
	Handlers map[string]http.Handler
}

// InstallRoundTripper sets up a RoundTripper instance as the default HTTP
// transport until the end of the current test.
func InstallRoundTripper(t testing.TB) *RoundTripper {
	t.Helper()
	rt := &RoundTripper{Handlers: make(map[string]http.Handler)}
	originalDefaultTransport := http.DefaultTransport
	http.DefaultTransport = rt
	t.Cleanup(func() {
		http.DefaultTransport = originalDefaultTransport
	})
	return rt
}

// RoundTrip implements the http.RoundTripper interface.
func (t *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	// unit tests must not reach out to real hosts
	h := t.Handlers[req.URL.Host]
	if h == nil {
		return nil, fmt.Errorf("no test handler registered for host %q", req.URL.Host)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	resp := w.Result()

	// in practice, most HTTP handlers for GET/HEAD requests write into the
	// response body regardless of whether the method was GET or HEAD; strip the
	// response body from HEAD responses to align with net/http's actual behavior
	if req.Method == http.MethodHead {
		resp.Body = nil
	}

	return resp, nil
}
