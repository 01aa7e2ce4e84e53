// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package models

import (
	"fmt"
	"strings"
)

// AuditType is an enum.
type AuditType string

const (
	// OneShotAudit runs exactly once.
	OneShotAudit AuditType = "ONESHOT"
	// ContinuousAudit is re-run on an interval, optionally within a time window.
	ContinuousAudit AuditType = "CONTINUOUS"
)

// ParseAuditType accepts the audit type in any letter case.
func ParseAuditType(input string) (AuditType, error) {
	t := AuditType(strings.ToUpper(strings.TrimSpace(input)))
	switch t {
	case OneShotAudit, ContinuousAudit:
		return t, nil
	default:
		return "", fmt.Errorf("invalid audit type: %q", input)
	}
}

// AuditState is an enum.
type AuditState string

const (
	AuditNoState   AuditState = "NO STATE"
	AuditOngoing   AuditState = "ONGOING"
	AuditSucceeded AuditState = "SUCCEEDED"
	AuditSubmitted AuditState = "SUBMITTED"
	AuditFailed    AuditState = "FAILED"
	AuditDeleted   AuditState = "DELETED"
	AuditPending   AuditState = "PENDING"
)

// ActionPlanState is an enum.
type ActionPlanState string

const (
	ActionPlanNoState     ActionPlanState = "NO STATE"
	ActionPlanOngoing     ActionPlanState = "ONGOING"
	ActionPlanSucceeded   ActionPlanState = "SUCCEEDED"
	ActionPlanSubmitted   ActionPlanState = "SUBMITTED"
	ActionPlanFailed      ActionPlanState = "FAILED"
	ActionPlanDeleted     ActionPlanState = "DELETED"
	ActionPlanRecommended ActionPlanState = "RECOMMENDED"
	// ActionPlanPending is entered right after an action plan has been started.
	ActionPlanPending ActionPlanState = "PENDING"
)

// ActionState is an enum.
type ActionState string

const (
	ActionNoState   ActionState = "NO STATE"
	ActionOngoing   ActionState = "ONGOING"
	ActionSucceeded ActionState = "SUCCEEDED"
	ActionCancelled ActionState = "CANCELLED"
	ActionFailed    ActionState = "FAILED"
	ActionDeleted   ActionState = "DELETED"
	ActionPending   ActionState = "PENDING"
)

var knownStates = map[EntityKind][]string{
	AuditKind: {
		string(AuditNoState), string(AuditOngoing), string(AuditSucceeded), string(AuditSubmitted),
		string(AuditFailed), string(AuditDeleted), string(AuditPending),
	},
	ActionPlanKind: {
		string(ActionPlanNoState), string(ActionPlanOngoing), string(ActionPlanSucceeded), string(ActionPlanSubmitted),
		string(ActionPlanFailed), string(ActionPlanDeleted), string(ActionPlanRecommended), string(ActionPlanPending),
	},
	ActionKind: {
		string(ActionNoState), string(ActionOngoing), string(ActionSucceeded), string(ActionCancelled),
		string(ActionFailed), string(ActionDeleted), string(ActionPending),
	},
}

// KnownStates returns all lifecycle states of the given kind. Kinds without
// a lifecycle (goals, strategies, audit templates) yield nil.
func KnownStates(kind EntityKind) []string {
	return knownStates[kind]
}
