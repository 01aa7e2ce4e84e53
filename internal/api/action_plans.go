// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sapcc/go-api-declarations/cadf"
	"github.com/sapcc/go-bits/httpapi"
	"github.com/sapcc/go-bits/respondwith"

	"github.com/sapcc/watcher-dashboard/internal/models"
	"github.com/sapcc/watcher-dashboard/internal/watcher"
)

func (a *API) handleListActionPlans(w http.ResponseWriter, r *http.Request) {
	httpapi.IdentifyEndpoint(r, "/dashboard/v1/action_plans")
	token := a.authenticateRequest(w, r, "action_plan:get_all")
	if token == nil {
		return
	}

	plans, err := a.sessionFor(token).ListActionPlans(r.Context(), listFiltersFrom(r, models.ActionPlanKind))
	if respondWithError(w, r, err) {
		return
	}
	respondwith.JSON(w, http.StatusOK, map[string]any{"action_plans": renderAll(plans, renderActionPlan)})
}

func (a *API) handleGetActionPlan(w http.ResponseWriter, r *http.Request) {
	httpapi.IdentifyEndpoint(r, "/dashboard/v1/action_plans/:id")
	token := a.authenticateRequest(w, r, "action_plan:get")
	if token == nil {
		return
	}
	session := a.sessionFor(token)

	plan, err := session.GetActionPlan(r.Context(), mux.Vars(r)["id"])
	if respondWithError(w, r, err) {
		return
	}
	filters, _ := watcher.TranslateFilter(models.ActionKind, "action_plan", plan.UUID)
	actions, err := session.ListActions(r.Context(), filters)
	if respondWithError(w, r, err) {
		return
	}

	result := renderActionPlan(plan)
	result.Actions = renderAll(models.SortActionsByChain(actions), renderAction)
	respondwith.JSON(w, http.StatusOK, map[string]any{"action_plan": result})
}

func (a *API) handleStartActionPlan(w http.ResponseWriter, r *http.Request) {
	httpapi.IdentifyEndpoint(r, "/dashboard/v1/action_plans/:id/start")
	token := a.authenticateRequest(w, r, "action_plan:start")
	if token == nil {
		return
	}
	session := a.sessionFor(token)
	id := mux.Vars(r)["id"]

	plan, err := session.GetActionPlan(r.Context(), id)
	if respondWithError(w, r, err) {
		return
	}
	if respondWithGateRefusal(w, models.ActionPlanKind, models.StartAction, string(plan.State)) {
		return
	}

	err = session.StartActionPlan(r.Context(), id)
	if respondWithError(w, r, err) {
		return
	}

	a.recordEvent(r, token, http.StatusAccepted, startAction, auditTarget{
		Kind: models.ActionPlanKind,
		ID:   id,
	})

	plan, err = session.GetActionPlan(r.Context(), id)
	if respondWithError(w, r, err) {
		return
	}
	respondwith.JSON(w, http.StatusAccepted, map[string]any{"action_plan": renderActionPlan(plan)})
}

func (a *API) handleDeleteActionPlan(w http.ResponseWriter, r *http.Request) {
	httpapi.IdentifyEndpoint(r, "/dashboard/v1/action_plans/:id")
	token := a.authenticateRequest(w, r, "action_plan:delete")
	if token == nil {
		return
	}
	session := a.sessionFor(token)
	id := mux.Vars(r)["id"]

	plan, err := session.GetActionPlan(r.Context(), id)
	if respondIfAlreadyDeleted(w, err) || respondWithError(w, r, err) {
		return
	}
	if respondWithGateRefusal(w, models.ActionPlanKind, models.DeleteAction, string(plan.State)) {
		return
	}

	err = session.DeleteActionPlan(r.Context(), id)
	if respondIfAlreadyDeleted(w, err) || respondWithError(w, r, err) {
		return
	}

	a.recordEvent(r, token, http.StatusNoContent, cadf.DeleteAction, auditTarget{
		Kind: models.ActionPlanKind,
		ID:   id,
	})
	w.WriteHeader(http.StatusNoContent)
}
