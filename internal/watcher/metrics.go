// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package watcher

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

var remoteRequestCounter = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "watcher_dashboard_remote_requests_total",
		Help: "Counter for requests sent to the optimization service, by entity kind, operation, microversion and outcome.",
	},
	[]string{"kind", "operation", "microversion", "outcome"},
)

func init() {
	prometheus.MustRegister(remoteRequestCounter)
}

// outcomeOf classifies an error (after translateError) for the "outcome" label.
func outcomeOf(err error) string {
	var (
		cse ConnectionSetupError
		nfe NotFoundError
		rre RemoteRejectedError
		ve  ValidationError
		dfe DuplicateFieldError
	)
	switch {
	case err == nil:
		return "success"
	case errors.As(err, &cse):
		return "setup_failed"
	case errors.As(err, &nfe):
		return "not_found"
	case errors.As(err, &rre):
		return "rejected"
	case errors.As(err, &ve), errors.As(err, &dfe):
		return "invalid"
	default:
		return "error"
	}
}
