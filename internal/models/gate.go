// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package models

import "slices"

// UIAction is a state-changing or navigating action that the UI offers on a
// single entity.
type UIAction string

const (
	StartAction             UIAction = "start"
	DeleteAction            UIAction = "delete"
	GoToActionPlanAction    UIAction = "go_to_action_plan"
	GoToAuditTemplateAction UIAction = "go_to_audit_template"
)

// allUIActions defines the order in which AllowedActions() reports actions.
var allUIActions = []UIAction{StartAction, DeleteAction, GoToActionPlanAction, GoToAuditTemplateAction}

type gateRule func(state string) bool

func always(string) bool { return true }

func stateIn[S ~string](states ...S) gateRule {
	return func(state string) bool {
		return slices.Contains(states, S(state))
	}
}

// knownStateExcept allows every known state of the kind except the given ones.
// States that are not known for this kind are refused.
func knownStateExcept[S ~string](kind EntityKind, excluded ...S) gateRule {
	return func(state string) bool {
		return slices.Contains(knownStates[kind], state) && !slices.Contains(excluded, S(state))
	}
}

// The gate table. Kinds and actions that do not appear here are never allowed.
var gateTable = map[EntityKind]map[UIAction]gateRule{
	AuditTemplateKind: {
		DeleteAction: always,
	},
	AuditKind: {
		DeleteAction:            knownStateExcept(AuditKind, AuditOngoing, AuditPending),
		GoToActionPlanAction:    stateIn(AuditSucceeded),
		GoToAuditTemplateAction: stateIn(AuditSucceeded),
	},
	ActionPlanKind: {
		StartAction:  stateIn(ActionPlanRecommended, ActionPlanFailed),
		DeleteAction: knownStateExcept(ActionPlanKind, ActionPlanOngoing, ActionPlanPending),
	},
}

// IsAllowed decides whether the given action may be performed on an entity of
// the given kind in the given lifecycle state. When the entity has not been
// loaded yet (present == false), every action defined for the kind is allowed.
// This function is total and never panics.
func IsAllowed(kind EntityKind, action UIAction, state string, present bool) bool {
	rule, exists := gateTable[kind][action]
	if !exists {
		return false
	}
	if !present {
		return true
	}
	return rule(state)
}

// AllowedActions lists all actions that IsAllowed() permits for a loaded
// entity in the given state. The result is never nil.
func AllowedActions(kind EntityKind, state string) []UIAction {
	result := []UIAction{}
	for _, action := range allUIActions {
		if IsAllowed(kind, action, state, true) {
			result = append(result, action)
		}
	}
	return result
}

// AllowsDelete returns whether an audit in this state may be deleted.
func (s AuditState) AllowsDelete() bool {
	return IsAllowed(AuditKind, DeleteAction, string(s), true)
}

// AllowsNavigation returns whether the UI may link from an audit in this
// state to its action plan and its audit template.
func (s AuditState) AllowsNavigation() bool {
	return IsAllowed(AuditKind, GoToActionPlanAction, string(s), true)
}

// AllowsStart returns whether an action plan in this state may be started.
func (s ActionPlanState) AllowsStart() bool {
	return IsAllowed(ActionPlanKind, StartAction, string(s), true)
}

// AllowsDelete returns whether an action plan in this state may be archived.
func (s ActionPlanState) AllowsDelete() bool {
	return IsAllowed(ActionPlanKind, DeleteAction, string(s), true)
}
