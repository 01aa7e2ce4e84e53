// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package models

import (
	"testing"

	"github.com/sapcc/go-bits/assert"
)

func TestActionPlanStartGate(t *testing.T) {
	assert.DeepEqual(t, "start RECOMMENDED", ActionPlanRecommended.AllowsStart(), true)
	assert.DeepEqual(t, "start FAILED", ActionPlanFailed.AllowsStart(), true)
	assert.DeepEqual(t, "start ONGOING", ActionPlanOngoing.AllowsStart(), false)
	assert.DeepEqual(t, "start PENDING", ActionPlanPending.AllowsStart(), false)
	assert.DeepEqual(t, "start SUCCEEDED", ActionPlanSucceeded.AllowsStart(), false)

	// not-yet-loaded entities must not be blocked
	assert.DeepEqual(t, "start absent", IsAllowed(ActionPlanKind, StartAction, "", false), true)
}

func TestDeleteGate(t *testing.T) {
	assert.DeepEqual(t, "delete audit PENDING", AuditPending.AllowsDelete(), false)
	assert.DeepEqual(t, "delete audit ONGOING", AuditOngoing.AllowsDelete(), false)
	assert.DeepEqual(t, "delete audit SUCCEEDED", AuditSucceeded.AllowsDelete(), true)
	assert.DeepEqual(t, "delete audit FAILED", AuditFailed.AllowsDelete(), true)
	assert.DeepEqual(t, "delete plan PENDING", ActionPlanPending.AllowsDelete(), false)
	assert.DeepEqual(t, "delete plan RECOMMENDED", ActionPlanRecommended.AllowsDelete(), true)

	// audit templates have no lifecycle
	assert.DeepEqual(t, "delete template", IsAllowed(AuditTemplateKind, DeleteAction, "", true), true)
}

func TestNavigationGate(t *testing.T) {
	for _, state := range KnownStates(AuditKind) {
		expected := state == string(AuditSucceeded)
		assert.DeepEqual(t, "navigation from "+state, AuditState(state).AllowsNavigation(), expected)
		assert.DeepEqual(t, "go to template from "+state, IsAllowed(AuditKind, GoToAuditTemplateAction, state, true), expected)
	}
}

func TestGateIsTotal(t *testing.T) {
	states := []string{"", "UNKNOWN", "recommended", "SUCCEEDED ", "\x00"}
	for _, kind := range AllEntityKinds {
		states = append(states, KnownStates(kind)...)
	}
	kinds := append([]EntityKind{"", "bogus"}, AllEntityKinds...)
	actions := append([]UIAction{"", "launch"}, allUIActions...)

	for _, kind := range kinds {
		for _, action := range actions {
			for _, state := range states {
				// must not panic; unknown inputs fail closed
				allowed := IsAllowed(kind, action, state, true)
				if allowed && gateTable[kind][action] == nil {
					t.Errorf("expected %s on %s to be refused in state %q", action, kind, state)
				}
			}
		}
	}

	assert.DeepEqual(t, "unknown audit state", AuditState("UNKNOWN").AllowsDelete(), false)
	assert.DeepEqual(t, "unknown plan state", ActionPlanState("UNKNOWN").AllowsStart(), false)
	assert.DeepEqual(t, "unknown plan state", ActionPlanState("UNKNOWN").AllowsDelete(), false)
	assert.DeepEqual(t, "unknown kind while absent", IsAllowed("bogus", DeleteAction, "", false), false)
	assert.DeepEqual(t, "action without rule", IsAllowed(GoalKind, DeleteAction, "", true), false)
}

func TestAllowedActions(t *testing.T) {
	assert.DeepEqual(t, "RECOMMENDED plan", AllowedActions(ActionPlanKind, "RECOMMENDED"),
		[]UIAction{StartAction, DeleteAction})
	assert.DeepEqual(t, "ONGOING plan", AllowedActions(ActionPlanKind, "ONGOING"), []UIAction{})
	assert.DeepEqual(t, "SUCCEEDED audit", AllowedActions(AuditKind, "SUCCEEDED"),
		[]UIAction{DeleteAction, GoToActionPlanAction, GoToAuditTemplateAction})
	assert.DeepEqual(t, "audit template", AllowedActions(AuditTemplateKind, ""), []UIAction{DeleteAction})
	assert.DeepEqual(t, "action", AllowedActions(ActionKind, "PENDING"), []UIAction{})
}
