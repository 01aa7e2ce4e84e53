// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package clientcmd

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/sapcc/go-bits/logg"
	"github.com/sapcc/go-bits/must"
	"github.com/spf13/cobra"

	"github.com/sapcc/watcher-dashboard/internal/api"
	"github.com/sapcc/watcher-dashboard/internal/models"
	"github.com/sapcc/watcher-dashboard/internal/watcher"
)

func auditTemplateCommands() *cobra.Command {
	cmd := listShowCommands(models.AuditTemplateKind, "audit-templates",
		func(s watcher.Session, ctx context.Context, f map[string]string) (any, error) { return s.ListAuditTemplates(ctx, f) },
		func(s watcher.Session, ctx context.Context, id string) (any, error) { return s.GetAuditTemplate(ctx, id) },
	)

	var opts watcher.AuditTemplateCreateOpts
	var scopeText string
	createCmd := &cobra.Command{
		Use:     "create <name>",
		Example: "  watcher-dashboard client audit-templates create nightly --goal server_consolidation --scope @scope.yaml",
		Short:   "Create an audit template.",
		Args:    cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			opts.Name = args[0]
			opts.Scope = must.Return(api.ParseScope(readArgument(scopeText)))
			printYAML(must.Return(newSession(cmd.Context()).CreateAuditTemplate(cmd.Context(), opts)))
		},
	}
	createCmd.Flags().StringVar(&opts.Description, "description", "", "Description of the audit template.")
	createCmd.Flags().StringVar(&opts.Goal, "goal", "", "UUID or name of the goal (required).")
	createCmd.Flags().StringVar(&opts.Strategy, "strategy", "", "UUID or name of the strategy.")
	createCmd.Flags().StringVar(&scopeText, "scope", "", "Scope as YAML or JSON. Use @path to read it from a file.")
	cmd.AddCommand(createCmd)

	var updateArgs map[string]string
	updateCmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update the name or description of an audit template.",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			var updates []watcher.FieldUpdate
			for _, field := range []string{"name", "description"} {
				if value, exists := updateArgs[field]; exists {
					updates = append(updates, watcher.FieldUpdate{Name: field, Value: value})
				}
			}
			if len(updates) == 0 {
				logg.Fatal("nothing to update")
			}
			printYAML(must.Return(newSession(cmd.Context()).PatchAuditTemplate(cmd.Context(), args[0], updates)))
		},
	}
	updateCmd.Flags().StringToStringVar(&updateArgs, "set", nil, "Field to update as name=value (fields: name, description).")
	cmd.AddCommand(updateCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an audit template.",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			err := newSession(cmd.Context()).DeleteAuditTemplate(cmd.Context(), args[0])
			if err != nil {
				logg.Fatal(err.Error())
			}
			logg.Info("deleted audit template %s", args[0])
		},
	})
	return cmd
}

func auditCommands() *cobra.Command {
	cmd := listShowCommands(models.AuditKind, "audits",
		func(s watcher.Session, ctx context.Context, f map[string]string) (any, error) { return s.ListAudits(ctx, f) },
		func(s watcher.Session, ctx context.Context, id string) (any, error) { return s.GetAudit(ctx, id) },
	)

	var (
		opts                                      watcher.AuditCreateOpts
		auditType, startTime, endTime, paramsText string
	)
	createCmd := &cobra.Command{
		Use:     "create <audit-template>",
		Example: "  watcher-dashboard client audits create nightly --type continuous --interval 3600",
		Short:   "Create an audit from an audit template.",
		Args:    cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			opts.AuditTemplate = args[0]
			opts.AuditType = must.Return(models.ParseAuditType(auditType))
			opts.StartTime = must.Return(api.ParseAuditTime("start_time", startTime))
			opts.EndTime = must.Return(api.ParseAuditTime("end_time", endTime))
			opts.Parameters = must.Return(api.ParseAuditParameters(json.RawMessage(readArgument(paramsText))))
			printYAML(must.Return(newSession(cmd.Context()).CreateAudit(cmd.Context(), opts)))
		},
	}
	createCmd.Flags().StringVar(&opts.Name, "name", "", "Name of the audit.")
	createCmd.Flags().StringVar(&auditType, "type", string(models.OneShotAudit), "Audit type (ONESHOT or CONTINUOUS).")
	createCmd.Flags().BoolVar(&opts.AutoTrigger, "auto-trigger", false, "Start the resulting action plan automatically.")
	createCmd.Flags().StringVar(&opts.Interval, "interval", "", "Seconds or cron expression (continuous audits only).")
	createCmd.Flags().StringVar(&startTime, "start-time", "", "Start of the time window as YYYY-MM-DDTHH:MM in local time (continuous audits only).")
	createCmd.Flags().StringVar(&endTime, "end-time", "", "End of the time window as YYYY-MM-DDTHH:MM in local time (continuous audits only).")
	createCmd.Flags().StringVar(&paramsText, "parameters", "", "Strategy parameters as a JSON object. Use @path to read them from a file.")
	cmd.AddCommand(createCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an audit that is not currently running.",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			session := newSession(ctx)
			audit := must.Return(session.GetAudit(ctx, args[0]))
			requireGate(models.AuditKind, models.DeleteAction, string(audit.State))
			must.Succeed(session.DeleteAudit(ctx, audit.UUID))
			logg.Info("deleted audit %s", audit.UUID)
		},
	})
	return cmd
}

func actionPlanCommands() *cobra.Command {
	cmd := listShowCommands(models.ActionPlanKind, "action-plans",
		func(s watcher.Session, ctx context.Context, f map[string]string) (any, error) { return s.ListActionPlans(ctx, f) },
		func(s watcher.Session, ctx context.Context, id string) (any, error) { return s.GetActionPlan(ctx, id) },
	)

	cmd.AddCommand(&cobra.Command{
		Use:   "actions <id>",
		Short: "List the actions of an action plan in execution order.",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			filters, _ := watcher.TranslateFilter(models.ActionKind, "action_plan", args[0])
			actions := must.Return(newSession(cmd.Context()).ListActions(cmd.Context(), filters))
			printYAML(models.SortActionsByChain(actions))
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "start <id>",
		Short: "Start executing a recommended action plan.",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			session := newSession(ctx)
			plan := must.Return(session.GetActionPlan(ctx, args[0]))
			requireGate(models.ActionPlanKind, models.StartAction, string(plan.State))
			must.Succeed(session.StartActionPlan(ctx, plan.UUID))
			logg.Info("started action plan %s", plan.UUID)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "archive <id>",
		Aliases: []string{"delete"},
		Short:   "Archive an action plan that is not currently running.",
		Args:    cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ctx := cmd.Context()
			session := newSession(ctx)
			plan := must.Return(session.GetActionPlan(ctx, args[0]))
			requireGate(models.ActionPlanKind, models.DeleteAction, string(plan.State))
			must.Succeed(session.DeleteActionPlan(ctx, plan.UUID))
			logg.Info("archived action plan %s", plan.UUID)
		},
	})
	return cmd
}

// readArgument resolves "@path" arguments to the contents of the file at path.
func readArgument(arg string) string {
	path, isFile := strings.CutPrefix(arg, "@")
	if !isFile {
		return arg
	}
	return string(must.Return(os.ReadFile(path)))
}
