// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"encoding/json"
	"testing"

	"github.com/sapcc/go-bits/assert"
	"github.com/sapcc/go-bits/httpapi"

	"github.com/sapcc/watcher-dashboard/internal/models"
	"github.com/sapcc/watcher-dashboard/internal/test"
	"github.com/sapcc/watcher-dashboard/internal/watcher"
)

var authHeader = map[string]string{"X-Auth-Token": "valid-token"}

func buildAPI(factory *watcher.ClientFactory, validator *test.Validator, auditor *test.Auditor) httpapi.API {
	return NewAPI(factory, validator, auditor)
}

func setup(t *testing.T) test.Setup {
	t.Helper()
	s := test.NewSetup(t, buildAPI)
	seedWatcher(s.Watcher)
	return s
}

func seedWatcher(w *test.Watcher) {
	w.Goals = []models.Goal{{
		UUID:        "goal-1",
		Name:        "server_consolidation",
		DisplayName: "Server Consolidation",
	}}
	w.Strategies = []models.Strategy{{
		UUID:           "strategy-1",
		Name:           "vm_workload_consolidation",
		DisplayName:    "VM Workload Consolidation",
		GoalUUID:       "goal-1",
		GoalName:       "server_consolidation",
		ParametersSpec: json.RawMessage(`{"properties":{"period":{"type":"number"}}}`),
	}}
	w.AuditTemplates = []models.AuditTemplate{{
		UUID:         "template-1",
		Name:         "consolidate-az1",
		GoalUUID:     "goal-1",
		GoalName:     "server_consolidation",
		StrategyUUID: "strategy-1",
		StrategyName: "vm_workload_consolidation",
		Scope:        json.RawMessage(`[{"compute":[{"availability_zones":[{"name":"az1"}]}]}]`),
	}}
	w.Audits = []models.Audit{
		{UUID: "audit-1", Name: "nightly", AuditType: models.OneShotAudit, AuditTemplateUUID: "template-1", GoalUUID: "goal-1", State: models.AuditSucceeded},
		{UUID: "audit-2", Name: "running", AuditType: models.OneShotAudit, AuditTemplateUUID: "template-1", GoalUUID: "goal-1", State: models.AuditOngoing},
		{UUID: "audit-3", Name: "adhoc", AuditType: models.OneShotAudit, GoalUUID: "goal-1", State: models.AuditSucceeded},
	}
	w.ActionPlans = []models.ActionPlan{
		{UUID: "plan-1", AuditUUID: "audit-1", StrategyUUID: "strategy-1", State: models.ActionPlanRecommended},
		{UUID: "plan-2", AuditUUID: "audit-2", StrategyUUID: "strategy-1", State: models.ActionPlanOngoing},
	}
	w.Actions = []models.Action{
		{UUID: "action-3", ActionPlanUUID: "plan-1", ActionType: "change_nova_service_state", State: models.ActionPending},
		{UUID: "action-1", ActionPlanUUID: "plan-1", NextUUID: ptr("action-2"), ActionType: "migrate", State: models.ActionPending,
			InputParameters: map[string]any{"migration_type": "live"}},
		{UUID: "action-2", ActionPlanUUID: "plan-1", NextUUID: ptr("action-3"), ActionType: "migrate", State: models.ActionPending},
	}
}

func ptr[T any](value T) *T {
	return &value
}

// expectWatcherCalls checks which requests reached the optimization service
// since the last call.
func expectWatcherCalls(t *testing.T, w *test.Watcher, expected ...string) []test.WatcherRequest {
	t.Helper()
	requests := w.Requests()
	var actual []string
	for _, req := range requests {
		actual = append(actual, req.Method+" "+req.Path)
	}
	assert.DeepEqual(t, "requests to the optimization service", actual, expected)
	return requests
}

func decodeJSON[T any](t *testing.T, buf []byte) T {
	t.Helper()
	var result T
	err := json.Unmarshal(buf, &result)
	if err != nil {
		t.Fatalf("cannot decode response body %q: %s", string(buf), err.Error())
	}
	return result
}
