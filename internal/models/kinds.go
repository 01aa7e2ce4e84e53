// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package models

// EntityKind identifies one of the resource kinds owned by the optimization service.
type EntityKind string

const (
	GoalKind          EntityKind = "goal"
	StrategyKind      EntityKind = "strategy"
	AuditTemplateKind EntityKind = "audit_template"
	AuditKind         EntityKind = "audit"
	ActionPlanKind    EntityKind = "action_plan"
	ActionKind        EntityKind = "action"
)

// AllEntityKinds lists every EntityKind in the order in which the UI presents them.
var AllEntityKinds = []EntityKind{
	GoalKind, StrategyKind, AuditTemplateKind, AuditKind, ActionPlanKind, ActionKind,
}

// Collection returns the collection name of this kind, as used in REST paths
// and as the key of list responses.
func (k EntityKind) Collection() string {
	switch k {
	case StrategyKind:
		return "strategies"
	case GoalKind, AuditTemplateKind, AuditKind, ActionPlanKind, ActionKind:
		return string(k) + "s"
	default:
		return ""
	}
}

// DisplayName returns a human-readable name for this kind, for use in error messages.
func (k EntityKind) DisplayName() string {
	switch k {
	case GoalKind:
		return "goal"
	case StrategyKind:
		return "strategy"
	case AuditTemplateKind:
		return "audit template"
	case AuditKind:
		return "audit"
	case ActionPlanKind:
		return "action plan"
	case ActionKind:
		return "action"
	default:
		return string(k)
	}
}

// IsValid returns whether this is one of the known kinds.
func (k EntityKind) IsValid() bool {
	return k.Collection() != ""
}
