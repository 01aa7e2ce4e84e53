// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package clientcmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sapcc/go-bits/gophercloudext"
	"github.com/sapcc/go-bits/logg"
	"github.com/sapcc/go-bits/must"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/sapcc/watcher-dashboard/internal/dashboard"
	"github.com/sapcc/watcher-dashboard/internal/models"
	"github.com/sapcc/watcher-dashboard/internal/watcher"
)

var (
	filterArgs   []string
	microversion string
)

// AddCommandTo mounts this command into the command hierarchy.
func AddCommandTo(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Inspect and operate the optimization service from the command line.",
		Long:  "Inspect and operate the optimization service from the command line. Credentials are read from the usual OS_* environment variables.",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}
	cmd.PersistentFlags().StringVar(&microversion, "os-infra-optim-api-version", "", "Minimum microversion to use for all requests.")

	cmd.AddCommand(listShowCommands(models.GoalKind, "goals",
		func(s watcher.Session, ctx context.Context, f map[string]string) (any, error) { return s.ListGoals(ctx, f) },
		func(s watcher.Session, ctx context.Context, id string) (any, error) { return s.GetGoal(ctx, id) },
	))
	cmd.AddCommand(listShowCommands(models.StrategyKind, "strategies",
		func(s watcher.Session, ctx context.Context, f map[string]string) (any, error) { return s.ListStrategies(ctx, f) },
		func(s watcher.Session, ctx context.Context, id string) (any, error) { return s.GetStrategy(ctx, id) },
	))
	cmd.AddCommand(auditTemplateCommands())
	cmd.AddCommand(auditCommands())
	cmd.AddCommand(actionPlanCommands())
	cmd.AddCommand(listShowCommands(models.ActionKind, "actions",
		func(s watcher.Session, ctx context.Context, f map[string]string) (any, error) { return s.ListActions(ctx, f) },
		func(s watcher.Session, ctx context.Context, id string) (any, error) { return s.GetAction(ctx, id) },
	))
	parent.AddCommand(cmd)
}

type (
	listFunc func(s watcher.Session, ctx context.Context, filters map[string]string) (any, error)
	showFunc func(s watcher.Session, ctx context.Context, id string) (any, error)
)

// listShowCommands builds the "list" and "show" subcommands for one entity kind.
func listShowCommands(kind models.EntityKind, use string, list listFunc, show showFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: fmt.Sprintf("Work with %ss.", kind.DisplayName()),
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %ss.", kind.DisplayName()),
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			filters, err := parseFilters(kind, filterArgs)
			if err != nil {
				logg.Fatal(err.Error())
			}
			printYAML(must.Return(list(newSession(cmd.Context()), cmd.Context(), filters)))
		},
	}
	if fields := watcher.FilterFields(kind); len(fields) > 0 {
		listCmd.Flags().StringArrayVar(&filterArgs, "filter", nil,
			fmt.Sprintf("Filter as field=value. Supported fields: %s.", strings.Join(fields, ", ")))
	}
	cmd.AddCommand(listCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: fmt.Sprintf("Show a single %s.", kind.DisplayName()),
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			printYAML(must.Return(show(newSession(cmd.Context()), cmd.Context(), args[0])))
		},
	})
	return cmd
}

// parseFilters converts "field=value" arguments into query parameters for the
// optimization service. Unknown fields are an error here, since the user
// explicitly asked for them.
func parseFilters(kind models.EntityKind, args []string) (map[string]string, error) {
	result := make(map[string]string, len(args))
	for _, arg := range args {
		field, value, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("malformed filter %q: expected field=value", arg)
		}
		translated, ok := watcher.TranslateFilter(kind, field, value)
		if !ok {
			return nil, fmt.Errorf("cannot filter %ss by %q", kind.DisplayName(), field)
		}
		for k, v := range translated {
			result[k] = v
		}
	}
	return result, nil
}

func newSession(ctx context.Context) watcher.Session {
	cfg, errs := dashboard.ParseClientConfig()
	errs.LogFatalIfError()

	provider, eo, err := gophercloudext.NewProviderClient(ctx, nil)
	if err != nil {
		logg.Fatal("cannot connect to OpenStack: %s", err.Error())
	}
	// fall back to the region that gophercloudext already evaluated
	if cfg.Region == "" {
		cfg.Region = eo.Region
	}

	session := watcher.Session{
		Factory: must.Return(watcher.NewClientFactory(cfg)),
		Caller:  provider,
	}
	if microversion != "" {
		session.PinnedMicroversion, err = watcher.ParseMicroversion(microversion)
		if err != nil {
			logg.Fatal("invalid value for --os-infra-optim-api-version: %s", err.Error())
		}
	}
	return session
}

func printYAML(value any) {
	buf, err := yaml.Marshal(value)
	if err != nil {
		logg.Fatal("cannot render output: %s", err.Error())
	}
	_, err = os.Stdout.Write(buf)
	if err != nil {
		logg.Fatal(err.Error())
	}
}

// requireGate refuses to continue if the given action is not allowed for an entity in the given state.
func requireGate(kind models.EntityKind, action models.UIAction, state string) {
	if !models.IsAllowed(kind, action, state, true) {
		logg.Fatal("cannot %s %s in state %s", action, kind.DisplayName(), state)
	}
}
