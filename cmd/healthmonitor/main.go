// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package healthmonitorcmd

import (
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sapcc/go-bits/gophercloudext"
	"github.com/sapcc/go-bits/httpext"
	"github.com/sapcc/go-bits/logg"
	"github.com/sapcc/go-bits/must"
	"github.com/spf13/cobra"

	"github.com/sapcc/watcher-dashboard/internal/dashboard"
	"github.com/sapcc/watcher-dashboard/internal/tasks"
	"github.com/sapcc/watcher-dashboard/internal/watcher"
)

var longDesc = strings.TrimSpace(`
Monitors the health of the optimization service. The goals of the service are
listed at regular intervals, using the service user from the OS_* environment
variables. The result is published as a Prometheus metric and on GET /healthcheck.
`)

var (
	listenAddress string
	interval      time.Duration
)

// AddCommandTo mounts this command into the command hierarchy.
func AddCommandTo(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "healthmonitor",
		Short: "Monitors the health of the optimization service.",
		Long:  longDesc,
		Args:  cobra.NoArgs,
		Run:   run,
	}
	cmd.PersistentFlags().StringVar(&listenAddress, "listen", ":8080", "Listen address for Prometheus metrics endpoint")
	cmd.PersistentFlags().DurationVar(&interval, "interval", 30*time.Second, "Time between two probes")
	parent.AddCommand(cmd)
}

func run(cmd *cobra.Command, args []string) {
	_ = args
	dashboard.SetTaskName("healthmonitor")
	dashboard.SetupHTTPClient()

	ctx := httpext.ContextWithSIGINT(cmd.Context(), 10*time.Second)
	cfg, errs := dashboard.ParseClientConfig()
	errs.LogFatalIfError()
	provider, eo, err := gophercloudext.NewProviderClient(ctx, nil)
	if err != nil {
		logg.Fatal("while authenticating service user: %s", err.Error())
	}
	if cfg.Region == "" {
		cfg.Region = eo.Region
	}

	monitor := tasks.NewHealthMonitor(watcher.Session{
		Factory: must.Return(watcher.NewClientFactory(cfg)),
		Caller:  provider,
	})
	monitor.Interval = interval
	go monitor.ProbeJob(nil).Run(ctx)

	// expose metrics endpoint
	mux := http.NewServeMux()
	mux.Handle("/healthcheck", monitor)
	mux.Handle("/metrics", promhttp.Handler())
	logg.Info("listening on %s...", listenAddress)
	must.Succeed(httpext.ListenAndServeContext(ctx, listenAddress, mux))
}
