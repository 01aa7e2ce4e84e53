// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package models

import "encoding/json"

// Timestamps appear on every entity. The optimization service reports them
// as naive UTC timestamps, so they are kept in their wire representation.
type Timestamps struct {
	CreatedAt string  `json:"created_at,omitempty"`
	UpdatedAt *string `json:"updated_at,omitempty"`
	DeletedAt *string `json:"deleted_at,omitempty"`
}

// EfficacySpecification describes one efficacy indicator that a goal reports on.
type EfficacySpecification struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Unit        string          `json:"unit"`
	Schema      json.RawMessage `json:"schema,omitempty"`
}

// Goal is a named optimization objective.
type Goal struct {
	UUID                   string                  `json:"uuid"`
	Name                   string                  `json:"name"`
	DisplayName            string                  `json:"display_name"`
	EfficacySpecifications []EfficacySpecification `json:"efficacy_specification"`
	Timestamps
}

// Strategy is an algorithm that implements a goal.
type Strategy struct {
	UUID           string          `json:"uuid"`
	Name           string          `json:"name"`
	DisplayName    string          `json:"display_name"`
	GoalUUID       string          `json:"goal_uuid"`
	GoalName       string          `json:"goal_name"`
	ParametersSpec json.RawMessage `json:"parameters_spec,omitempty"`
	Timestamps
}

// AuditTemplate is a saved combination of goal, strategy and scope.
type AuditTemplate struct {
	UUID         string          `json:"uuid"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	GoalUUID     string          `json:"goal_uuid"`
	GoalName     string          `json:"goal_name"`
	StrategyUUID string          `json:"strategy_uuid,omitempty"`
	StrategyName string          `json:"strategy_name,omitempty"`
	Scope        json.RawMessage `json:"scope,omitempty"`
	Timestamps
}

// Audit is a request to analyze the infrastructure.
//
// Interval, StartTime and EndTime are only meaningful for continuous audits.
type Audit struct {
	UUID              string          `json:"uuid"`
	Name              string          `json:"name"`
	AuditType         AuditType       `json:"audit_type"`
	AuditTemplateUUID string          `json:"audit_template_uuid,omitempty"`
	GoalUUID          string          `json:"goal_uuid"`
	GoalName          string          `json:"goal_name"`
	StrategyUUID      string          `json:"strategy_uuid,omitempty"`
	StrategyName      string          `json:"strategy_name,omitempty"`
	Interval          *string         `json:"interval"`
	StartTime         *string         `json:"start_time"`
	EndTime           *string         `json:"end_time"`
	AutoTrigger       bool            `json:"auto_trigger"`
	Parameters        map[string]any  `json:"parameters"`
	Scope             json.RawMessage `json:"scope,omitempty"`
	State             AuditState      `json:"state"`
	NextRunTime       *string         `json:"next_run_time"`
	Timestamps
}

// EfficacyIndicator is one measured value in the global efficacy of an action plan.
type EfficacyIndicator struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Value       *float64 `json:"value"`
	Unit        string   `json:"unit"`
}

// ActionPlan is the set of actions recommended by an audit.
type ActionPlan struct {
	UUID           string              `json:"uuid"`
	AuditUUID      string              `json:"audit_uuid"`
	StrategyUUID   string              `json:"strategy_uuid"`
	StrategyName   string              `json:"strategy_name"`
	State          ActionPlanState     `json:"state"`
	GlobalEfficacy []EfficacyIndicator `json:"global_efficacy,omitempty"`
	Timestamps
}

// Action is one step of an action plan. NextUUID, if not nil, refers to
// another action of the same plan.
type Action struct {
	UUID            string         `json:"uuid"`
	ActionPlanUUID  string         `json:"action_plan_uuid"`
	NextUUID        *string        `json:"next_uuid"`
	Parents         []string       `json:"parents,omitempty"`
	ActionType      string         `json:"action_type"`
	Description     string         `json:"description,omitempty"`
	State           ActionState    `json:"state"`
	InputParameters map[string]any `json:"input_parameters"`
	Timestamps
}
