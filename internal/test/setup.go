// SPDX-FileCopyrightText: 2018 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package test

import (
	"net/http"
	"net/url"
	"os"
	"strconv"
	"testing"

	"github.com/sapcc/go-bits/httpapi"
	"github.com/sapcc/go-bits/logg"
	"github.com/sapcc/go-bits/mock"
	"github.com/sapcc/go-bits/must"

	"github.com/sapcc/watcher-dashboard/internal/dashboard"
	"github.com/sapcc/watcher-dashboard/internal/watcher"
)

// Setup contains all the pieces that a dashboard API test needs.
type Setup struct {
	Handler  http.Handler
	Watcher  *Watcher
	Auditor  *Auditor
	Enforcer *mock.Enforcer
}

// SetupOption is an option that can be given to NewSetup().
type SetupOption func(*setupParams)

type setupParams struct {
	ClientConfig dashboard.ClientConfig
}

// WithClientConfig is a SetupOption that replaces the default client configuration.
func WithClientConfig(cfg dashboard.ClientConfig) SetupOption {
	return func(params *setupParams) {
		params.ClientConfig = cfg
	}
}

// APIBuilder is implemented by api.NewAPI. It is passed in by the caller to
// avoid an import cycle between this package and the API tests.
type APIBuilder func(*watcher.ClientFactory, *Validator, *Auditor) httpapi.API

// NewSetup prepares an empty Watcher mock, a permissive policy enforcer and
// an audit recorder, and composes them into an HTTP handler.
func NewSetup(t *testing.T, buildAPI APIBuilder, opts ...SetupOption) Setup {
	t.Helper()
	logg.ShowDebug, _ = strconv.ParseBool(os.Getenv("WATCHER_DASHBOARD_DEBUG"))

	var params setupParams
	for _, option := range opts {
		option(&params)
	}

	s := Setup{
		Watcher:  NewWatcher(),
		Auditor:  &Auditor{},
		Enforcer: mock.NewEnforcer(),
	}
	rt := InstallRoundTripper(t)
	host := must.ReturnT(url.Parse(WatcherEndpoint))(t).Host
	rt.Handlers[host] = s.Watcher

	factory := must.ReturnT(watcher.NewClientFactory(params.ClientConfig))(t)
	s.Handler = httpapi.Compose(
		buildAPI(factory, NewValidator(s.Enforcer), s.Auditor),
		httpapi.WithoutLogging(),
	)
	return s
}
