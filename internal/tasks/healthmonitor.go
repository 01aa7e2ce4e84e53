// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

// Package tasks contains the background jobs of the dashboard.
package tasks

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sapcc/go-bits/jobloop"

	"github.com/sapcc/watcher-dashboard/internal/watcher"
)

// HealthMonitor checks at regular intervals whether the optimization service
// answers requests, and reports the result as a metric and on GET /healthcheck.
type HealthMonitor struct {
	Session  watcher.Session
	Interval time.Duration

	resultGauge prometheus.Gauge
	mutex       sync.RWMutex
	lastResult  *bool // nil until the first probe has completed
}

// NewHealthMonitor prepares a HealthMonitor that probes through the given session.
func NewHealthMonitor(session watcher.Session) *HealthMonitor {
	return &HealthMonitor{
		Session:  session,
		Interval: 30 * time.Second,
		resultGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "watcher_dashboard_healthmonitor_result",
			Help: "Result of the last probe of the optimization service (1 = healthy, 0 = failed).",
		}),
	}
}

// ProbeJob is a job that lists the goals of the optimization service once per interval.
func (m *HealthMonitor) ProbeJob(registerer prometheus.Registerer) jobloop.Job {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	registerer.MustRegister(m.resultGauge)

	return (&jobloop.CronJob{
		Metadata: jobloop.JobMetadata{
			ReadableName: "probe optimization service",
			CounterOpts: prometheus.CounterOpts{
				Name: "watcher_dashboard_healthmonitor_probes",
				Help: "Counter for probes of the optimization service.",
			},
		},
		Interval:     m.Interval,
		InitialDelay: time.Second,
		Task:         m.probe,
	}).Setup(registerer)
}

func (m *HealthMonitor) probe(ctx context.Context, _ prometheus.Labels) error {
	goals, err := m.Session.ListGoals(ctx, nil)
	if err == nil && len(goals) == 0 {
		// a Watcher without goals has not loaded its plugins
		err = errors.New("optimization service does not report any goals")
	}
	m.recordResult(err == nil)
	return err
}

func (m *HealthMonitor) recordResult(ok bool) {
	if ok {
		m.resultGauge.Set(1)
	} else {
		m.resultGauge.Set(0)
	}
	m.mutex.Lock()
	m.lastResult = &ok
	m.mutex.Unlock()
}

// ServeHTTP provides the GET /healthcheck endpoint.
func (m *HealthMonitor) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	m.mutex.RLock()
	lastResult := m.lastResult
	m.mutex.RUnlock()

	switch {
	case lastResult == nil:
		http.Error(w, "still starting up", http.StatusServiceUnavailable)
	case *lastResult:
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "healthcheck failed", http.StatusInternalServerError)
	}
}
