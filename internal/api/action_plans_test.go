// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"net/http"
	"testing"

	"github.com/sapcc/go-api-declarations/cadf"
	"github.com/sapcc/go-bits/assert"

	"github.com/sapcc/watcher-dashboard/internal/models"
	"github.com/sapcc/watcher-dashboard/internal/test"
)

func TestGetActionPlanSortsActions(t *testing.T) {
	s := setup(t)

	_, body := assert.HTTPRequest{
		Method:       "GET",
		Path:         "/dashboard/v1/action_plans/plan-1",
		Header:       authHeader,
		ExpectStatus: http.StatusOK,
	}.Check(t, s.Handler)
	reqs := expectWatcherCalls(t, s.Watcher, "GET /v1/action_plans/plan-1", "GET /v1/actions")
	assert.DeepEqual(t, "query", reqs[1].Query, "action_plan=plan-1&detail=true")

	plan := decodeJSON[struct {
		ActionPlan ActionPlan `json:"action_plan"`
	}](t, body).ActionPlan
	var actionIDs []string
	for _, action := range plan.Actions {
		actionIDs = append(actionIDs, action.UUID)
	}
	assert.DeepEqual(t, "action order", actionIDs, []string{"action-1", "action-2", "action-3"})
	assert.DeepEqual(t, "allowed actions", plan.AllowedActions, []models.UIAction{models.StartAction, models.DeleteAction})
}

func TestStartActionPlan(t *testing.T) {
	s := setup(t)

	// a running action plan cannot be started again
	assert.HTTPRequest{
		Method:       "POST",
		Path:         "/dashboard/v1/action_plans/plan-2/start",
		Header:       authHeader,
		ExpectStatus: http.StatusConflict,
		ExpectBody:   assert.StringData("cannot start action plan in state ONGOING\n"),
	}.Check(t, s.Handler)
	expectWatcherCalls(t, s.Watcher, "GET /v1/action_plans/plan-2")
	s.Auditor.ExpectEvents(t)

	// a missing action plan cannot be started either
	assert.HTTPRequest{
		Method:       "POST",
		Path:         "/dashboard/v1/action_plans/unknown/start",
		Header:       authHeader,
		ExpectStatus: http.StatusNotFound,
	}.Check(t, s.Handler)
	expectWatcherCalls(t, s.Watcher, "GET /v1/action_plans/unknown")

	// policy is checked before anything else
	s.Enforcer.Forbid("action_plan:start")
	assert.HTTPRequest{
		Method:       "POST",
		Path:         "/dashboard/v1/action_plans/plan-1/start",
		Header:       authHeader,
		ExpectStatus: http.StatusForbidden,
	}.Check(t, s.Handler)
	expectWatcherCalls(t, s.Watcher)
	s.Enforcer.Allow("action_plan:start")

	_, respBody := assert.HTTPRequest{
		Method:       "POST",
		Path:         "/dashboard/v1/action_plans/plan-1/start",
		Header:       authHeader,
		ExpectStatus: http.StatusAccepted,
	}.Check(t, s.Handler)
	expectWatcherCalls(t, s.Watcher, "GET /v1/action_plans/plan-1", "POST /v1/action_plans/plan-1/start", "GET /v1/action_plans/plan-1")
	started := decodeJSON[struct {
		ActionPlan ActionPlan `json:"action_plan"`
	}](t, respBody)
	assert.DeepEqual(t, "uuid in response", started.ActionPlan.UUID, "plan-1")
	assert.DeepEqual(t, "state in response", started.ActionPlan.State, models.ActionPlanPending)
	assert.DeepEqual(t, "allowed actions in response", started.ActionPlan.AllowedActions, []models.UIAction{})
	s.Auditor.ExpectEvents(t, test.ExpectedEvent{
		Action:     startAction,
		ReasonCode: http.StatusAccepted,
		UserID:     "user1",
		Target: cadf.Resource{
			TypeURI:   "service/infra-optim/action_plan",
			ID:        "plan-1",
			ProjectID: "project1",
		},
	})
	assert.DeepEqual(t, "state after start", s.Watcher.ActionPlans[0].State, models.ActionPlanPending)

	// once pending, the action plan cannot be started again
	assert.HTTPRequest{
		Method:       "POST",
		Path:         "/dashboard/v1/action_plans/plan-1/start",
		Header:       authHeader,
		ExpectStatus: http.StatusConflict,
	}.Check(t, s.Handler)
	expectWatcherCalls(t, s.Watcher, "GET /v1/action_plans/plan-1")
}

func TestDeleteActionPlan(t *testing.T) {
	s := setup(t)

	assert.HTTPRequest{
		Method:       "DELETE",
		Path:         "/dashboard/v1/action_plans/plan-2",
		Header:       authHeader,
		ExpectStatus: http.StatusConflict,
	}.Check(t, s.Handler)
	expectWatcherCalls(t, s.Watcher, "GET /v1/action_plans/plan-2")

	assert.HTTPRequest{
		Method:       "DELETE",
		Path:         "/dashboard/v1/action_plans/plan-1",
		Header:       authHeader,
		ExpectStatus: http.StatusNoContent,
	}.Check(t, s.Handler)
	expectWatcherCalls(t, s.Watcher, "GET /v1/action_plans/plan-1", "DELETE /v1/action_plans/plan-1")
	s.Auditor.ExpectEvents(t, test.ExpectedEvent{
		Action:     cadf.DeleteAction,
		ReasonCode: http.StatusNoContent,
		UserID:     "user1",
		Target: cadf.Resource{
			TypeURI:   "service/infra-optim/action_plan",
			ID:        "plan-1",
			ProjectID: "project1",
		},
	})
	assert.DeepEqual(t, "remaining action plans", len(s.Watcher.ActionPlans), 1)
}
