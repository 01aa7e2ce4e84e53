// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package watcher

import (
	"maps"
	"slices"

	"github.com/sapcc/watcher-dashboard/internal/models"
)

// For each kind, maps the filter fields offered by the UI to the query
// parameter understood by the optimization service.
var filterTables = map[models.EntityKind]map[string]string{
	models.GoalKind: {},
	models.StrategyKind: {
		"goal": "goal",
	},
	models.AuditTemplateKind: {
		"name":     "name",
		"goal":     "goal",
		"strategy": "strategy",
	},
	models.AuditKind: {
		"audit_template_filter": "audit_template",
		"goal":                  "goal",
		"strategy":              "strategy",
	},
	models.ActionPlanKind: {
		"audit_filter": "audit",
		"strategy":     "strategy",
	},
	models.ActionKind: {
		"action_plan": "action_plan",
		"audit":       "audit",
	},
}

// TranslateFilter converts a UI filter into query parameters for the list
// request of the given kind. The second return value is false if the filter
// does not apply (unknown field or empty value); the first return value is
// then an empty map.
func TranslateFilter(kind models.EntityKind, field, value string) (map[string]string, bool) {
	param, exists := filterTables[kind][field]
	if !exists || value == "" {
		return map[string]string{}, false
	}
	return map[string]string{param: value}, true
}

// TranslateFilters is like TranslateFilter, but for multiple filters at once.
// Filters that do not apply are dropped.
func TranslateFilters(kind models.EntityKind, filters map[string]string) map[string]string {
	result := make(map[string]string, len(filters))
	for _, field := range slices.Sorted(maps.Keys(filters)) {
		params, ok := TranslateFilter(kind, field, filters[field])
		if ok {
			maps.Copy(result, params)
		}
	}
	return result
}

// FilterFields lists the filter fields that the UI may offer for the given kind.
func FilterFields(kind models.EntityKind) []string {
	return slices.Sorted(maps.Keys(filterTables[kind]))
}
