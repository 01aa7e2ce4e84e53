// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package dashboard

import (
	"net/http"

	"github.com/sapcc/go-api-declarations/bininfo"
	"github.com/sapcc/go-bits/httpext"
	"github.com/sapcc/go-bits/logg"
)

var wrap *httpext.WrappedTransport

// SetupHTTPClient wraps http.DefaultTransport such that all outgoing requests
// carry our User-Agent.
func SetupHTTPClient() {
	wrap = httpext.WrapTransport(&http.DefaultTransport)
	wrap.SetOverrideUserAgent(bininfo.Component(), bininfo.VersionOr("rolling"))
}

// SetTaskName identifies the running subcommand in logs and User-Agent headers.
func SetTaskName(taskName string) {
	bininfo.SetTaskName(taskName)
	if wrap != nil {
		wrap.SetOverrideUserAgent(bininfo.Component(), bininfo.VersionOr("rolling"))
	}
	logg.Info("starting %s %s", bininfo.Component(), bininfo.VersionOr("rolling"))
}
