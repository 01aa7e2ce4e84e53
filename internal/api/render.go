// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"sigs.k8s.io/yaml"

	"github.com/sapcc/watcher-dashboard/internal/models"
)

// Goal is how a models.Goal appears in the API.
type Goal struct {
	models.Goal
	AllowedActions []models.UIAction `json:"allowed_actions"`
}

// Strategy is how a models.Strategy appears in the API.
type Strategy struct {
	models.Strategy
	ParametersSpecJSON string            `json:"parameters_spec_json,omitempty"`
	AllowedActions     []models.UIAction `json:"allowed_actions"`
}

// AuditTemplate is how a models.AuditTemplate appears in the API.
type AuditTemplate struct {
	models.AuditTemplate
	ScopeYAML      string            `json:"scope_yaml,omitempty"`
	AllowedActions []models.UIAction `json:"allowed_actions"`
}

// Audit is how a models.Audit appears in the API.
type Audit struct {
	models.Audit
	ParametersJSON string            `json:"parameters_json,omitempty"`
	AllowedActions []models.UIAction `json:"allowed_actions"`
}

// ActionPlan is how a models.ActionPlan appears in the API.
type ActionPlan struct {
	models.ActionPlan
	AllowedActions []models.UIAction `json:"allowed_actions"`
	// only filled on the detail view
	Actions []Action `json:"actions,omitempty"`
}

// Action is how a models.Action appears in the API.
type Action struct {
	models.Action
	InputParametersJSON string            `json:"input_parameters_json,omitempty"`
	AllowedActions      []models.UIAction `json:"allowed_actions"`
}

func renderGoal(g models.Goal) Goal {
	return Goal{g, models.AllowedActions(models.GoalKind, "")}
}

func renderStrategy(s models.Strategy) Strategy {
	result := Strategy{Strategy: s, AllowedActions: models.AllowedActions(models.StrategyKind, "")}
	if len(s.ParametersSpec) > 0 {
		result.ParametersSpecJSON, _ = prettyJSON(s.ParametersSpec)
	}
	return result
}

func renderAuditTemplate(t models.AuditTemplate) AuditTemplate {
	result := AuditTemplate{AuditTemplate: t, AllowedActions: models.AllowedActions(models.AuditTemplateKind, "")}
	if len(t.Scope) > 0 {
		buf, err := yaml.JSONToYAML(t.Scope)
		if err == nil {
			result.ScopeYAML = string(buf)
		}
	}
	return result
}

func renderAudit(a models.Audit) Audit {
	result := Audit{Audit: a, AllowedActions: models.AllowedActions(models.AuditKind, string(a.State))}
	if len(a.Parameters) > 0 {
		result.ParametersJSON, _ = prettyJSON(a.Parameters)
	}
	return result
}

func renderActionPlan(p models.ActionPlan) ActionPlan {
	return ActionPlan{ActionPlan: p, AllowedActions: models.AllowedActions(models.ActionPlanKind, string(p.State))}
}

func renderAction(a models.Action) Action {
	result := Action{Action: a, AllowedActions: models.AllowedActions(models.ActionKind, string(a.State))}
	if len(a.InputParameters) > 0 {
		result.InputParametersJSON, _ = prettyJSON(a.InputParameters)
	}
	return result
}

func renderAll[M, R any](entities []M, render func(M) R) []R {
	result := make([]R, len(entities))
	for idx, e := range entities {
		result[idx] = render(e)
	}
	return result
}
