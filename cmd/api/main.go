// SPDX-FileCopyrightText: 2018 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package apicmd

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/sapcc/go-bits/httpapi"
	"github.com/sapcc/go-bits/httpapi/pprofapi"
	"github.com/sapcc/go-bits/httpext"
	"github.com/sapcc/go-bits/logg"
	"github.com/sapcc/go-bits/must"
	"github.com/spf13/cobra"

	"github.com/sapcc/watcher-dashboard/internal/api"
	"github.com/sapcc/watcher-dashboard/internal/auth"
	"github.com/sapcc/watcher-dashboard/internal/dashboard"
	"github.com/sapcc/watcher-dashboard/internal/watcher"
)

// AddCommandTo mounts this command into the command hierarchy.
func AddCommandTo(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "api",
		Short: "Run the dashboard API server.",
		Long:  "Run the dashboard API server. Configuration is read from environment variables as described in README.md.",
		Args:  cobra.NoArgs,
		Run:   run,
	}
	parent.AddCommand(cmd)
}

func run(cmd *cobra.Command, args []string) {
	_, _ = cmd, args

	dashboard.SetTaskName("api")
	dashboard.SetupHTTPClient()

	cfg := dashboard.ParseConfiguration()
	ctx := httpext.ContextWithSIGINT(cmd.Context(), 10*time.Second)
	auditor := must.Return(dashboard.InitAuditTrail(ctx))

	rc := must.Return(auth.InitRedis())
	validator := must.Return(auth.NewTokenValidator(ctx, cfg.PolicyFilePath, rc))
	factory := must.Return(watcher.NewClientFactory(cfg.Client))

	// wire up HTTP handlers
	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"HEAD", "GET", "POST", "PATCH", "DELETE"},
		AllowedHeaders: []string{"Content-Type", "User-Agent", "X-Auth-Token"},
	})
	handler := httpapi.Compose(
		api.NewAPI(factory, validator, auditor),
		httpapi.HealthCheckAPI{
			SkipRequestLog: true,
			Check: func() error {
				if rc == nil {
					return nil
				}
				return rc.Ping(ctx).Err()
			},
		},
		httpapi.WithGlobalMiddleware(corsMiddleware.Handler),
		pprofapi.API{IsAuthorized: pprofapi.IsRequestFromLocalhost},
	)
	mux := http.NewServeMux()
	mux.Handle("/", handler)
	mux.Handle("/metrics", promhttp.Handler())

	logg.Info("listening on %s", cfg.APIListenAddress)
	must.Succeed(httpext.ListenAndServeContext(ctx, cfg.APIListenAddress, mux))
}
