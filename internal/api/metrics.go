// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"github.com/prometheus/client_golang/prometheus"
)

// gateRefusalCounter is a prometheus.CounterVec.
var gateRefusalCounter = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "watcher_dashboard_gate_refusals_total",
		Help: "Counts requests that were refused because the entity was not in a suitable lifecycle state.",
	},
	[]string{"kind", "action"},
)

func init() {
	prometheus.MustRegister(gateRefusalCounter)
}
