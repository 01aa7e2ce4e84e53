// SPDX-FileCopyrightText: 2020 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"

	"github.com/sapcc/go-api-declarations/bininfo"
	"github.com/sapcc/go-bits/logg"
	"github.com/sapcc/go-bits/osext"
	"github.com/spf13/cobra"

	apicmd "github.com/sapcc/watcher-dashboard/cmd/api"
	clientcmd "github.com/sapcc/watcher-dashboard/cmd/client"
	healthmonitorcmd "github.com/sapcc/watcher-dashboard/cmd/healthmonitor"
)

func main() {
	logg.ShowDebug = osext.GetenvBool("WATCHER_DASHBOARD_DEBUG")

	rootCmd := &cobra.Command{
		Use:     "watcher-dashboard",
		Short:   "Dashboard backend for the OpenStack infrastructure optimization service",
		Long:    "This binary contains the API server behind the optimization dashboard and a command-line client for the same operations.",
		Version: bininfo.VersionOr("rolling"),
		Args:    cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	serverCmd := &cobra.Command{
		Use:   "server",
		Short: "Server commands.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}
	apicmd.AddCommandTo(serverCmd)
	healthmonitorcmd.AddCommandTo(serverCmd)
	rootCmd.AddCommand(serverCmd)
	clientcmd.AddCommandTo(rootCmd)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logg.Fatal(err.Error())
	}
}
