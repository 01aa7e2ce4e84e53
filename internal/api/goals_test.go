// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"net/http"
	"testing"

	"github.com/sapcc/go-bits/assert"

	"github.com/sapcc/watcher-dashboard/internal/models"
)

func TestAuthentication(t *testing.T) {
	s := setup(t)

	// no token at all
	assert.HTTPRequest{
		Method:       "GET",
		Path:         "/dashboard/v1/goals",
		ExpectStatus: http.StatusUnauthorized,
	}.Check(t, s.Handler)

	// token without the required permission
	s.Enforcer.Forbid("goal:get_all")
	assert.HTTPRequest{
		Method:       "GET",
		Path:         "/dashboard/v1/goals",
		Header:       authHeader,
		ExpectStatus: http.StatusForbidden,
	}.Check(t, s.Handler)

	// neither request may reach the optimization service
	expectWatcherCalls(t, s.Watcher)

	s.Enforcer.Allow("goal:get_all")
	assert.HTTPRequest{
		Method:       "GET",
		Path:         "/dashboard/v1/goals",
		Header:       authHeader,
		ExpectStatus: http.StatusOK,
	}.Check(t, s.Handler)
	reqs := expectWatcherCalls(t, s.Watcher, "GET /v1/goals")
	assert.DeepEqual(t, "microversion", reqs[0].Microversion, "infra-optim 1.0")
}

func TestListGoalsAndStrategies(t *testing.T) {
	s := setup(t)

	_, body := assert.HTTPRequest{
		Method:       "GET",
		Path:         "/dashboard/v1/goals",
		Header:       authHeader,
		ExpectStatus: http.StatusOK,
	}.Check(t, s.Handler)
	goals := decodeJSON[struct {
		Goals []Goal `json:"goals"`
	}](t, body).Goals
	assert.DeepEqual(t, "goal count", len(goals), 1)
	assert.DeepEqual(t, "goal name", goals[0].Name, "server_consolidation")
	assert.DeepEqual(t, "allowed actions", goals[0].AllowedActions, []models.UIAction{})

	// the goal filter is forwarded under its remote name
	_, body = assert.HTTPRequest{
		Method:       "GET",
		Path:         "/dashboard/v1/strategies?goal=goal-1&unknown=foo",
		Header:       authHeader,
		ExpectStatus: http.StatusOK,
	}.Check(t, s.Handler)
	reqs := expectWatcherCalls(t, s.Watcher, "GET /v1/goals", "GET /v1/strategies")
	assert.DeepEqual(t, "query", reqs[1].Query, "detail=true&goal=goal-1")

	strategies := decodeJSON[struct {
		Strategies []Strategy `json:"strategies"`
	}](t, body).Strategies
	assert.DeepEqual(t, "strategy count", len(strategies), 1)
	assert.DeepEqual(t, "parameters spec", strategies[0].ParametersSpecJSON,
		"{\n  \"properties\": {\n    \"period\": {\n      \"type\": \"number\"\n    }\n  }\n}")
}

func TestGetMissingGoal(t *testing.T) {
	s := setup(t)

	assert.HTTPRequest{
		Method:       "GET",
		Path:         "/dashboard/v1/goals/unknown",
		Header:       authHeader,
		ExpectStatus: http.StatusNotFound,
		ExpectBody:   assert.StringData("goal not found: unknown\n"),
	}.Check(t, s.Handler)
}

func TestListActionsWithFilter(t *testing.T) {
	s := setup(t)

	_, body := assert.HTTPRequest{
		Method:       "GET",
		Path:         "/dashboard/v1/actions?action_plan=plan-1&limit=2",
		Header:       authHeader,
		ExpectStatus: http.StatusOK,
	}.Check(t, s.Handler)
	reqs := expectWatcherCalls(t, s.Watcher, "GET /v1/actions")
	assert.DeepEqual(t, "query", reqs[0].Query, "action_plan=plan-1&detail=true&limit=2")

	actions := decodeJSON[struct {
		Actions []Action `json:"actions"`
	}](t, body).Actions
	assert.DeepEqual(t, "action count", len(actions), 3)
	assert.DeepEqual(t, "input parameters", actions[1].InputParametersJSON, "{\n  \"migration_type\": \"live\"\n}")
}
