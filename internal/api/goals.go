// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sapcc/go-bits/httpapi"
	"github.com/sapcc/go-bits/respondwith"

	"github.com/sapcc/watcher-dashboard/internal/models"
)

func (a *API) handleListGoals(w http.ResponseWriter, r *http.Request) {
	httpapi.IdentifyEndpoint(r, "/dashboard/v1/goals")
	token := a.authenticateRequest(w, r, "goal:get_all")
	if token == nil {
		return
	}

	goals, err := a.sessionFor(token).ListGoals(r.Context(), listFiltersFrom(r, models.GoalKind))
	if respondWithError(w, r, err) {
		return
	}
	respondwith.JSON(w, http.StatusOK, map[string]any{"goals": renderAll(goals, renderGoal)})
}

func (a *API) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	httpapi.IdentifyEndpoint(r, "/dashboard/v1/goals/:id")
	token := a.authenticateRequest(w, r, "goal:get")
	if token == nil {
		return
	}

	goal, err := a.sessionFor(token).GetGoal(r.Context(), mux.Vars(r)["id"])
	if respondWithError(w, r, err) {
		return
	}
	respondwith.JSON(w, http.StatusOK, map[string]any{"goal": renderGoal(goal)})
}

func (a *API) handleListStrategies(w http.ResponseWriter, r *http.Request) {
	httpapi.IdentifyEndpoint(r, "/dashboard/v1/strategies")
	token := a.authenticateRequest(w, r, "strategy:get_all")
	if token == nil {
		return
	}

	strategies, err := a.sessionFor(token).ListStrategies(r.Context(), listFiltersFrom(r, models.StrategyKind))
	if respondWithError(w, r, err) {
		return
	}
	respondwith.JSON(w, http.StatusOK, map[string]any{"strategies": renderAll(strategies, renderStrategy)})
}

func (a *API) handleGetStrategy(w http.ResponseWriter, r *http.Request) {
	httpapi.IdentifyEndpoint(r, "/dashboard/v1/strategies/:id")
	token := a.authenticateRequest(w, r, "strategy:get")
	if token == nil {
		return
	}

	strategy, err := a.sessionFor(token).GetStrategy(r.Context(), mux.Vars(r)["id"])
	if respondWithError(w, r, err) {
		return
	}
	respondwith.JSON(w, http.StatusOK, map[string]any{"strategy": renderStrategy(strategy)})
}

func (a *API) handleListActions(w http.ResponseWriter, r *http.Request) {
	httpapi.IdentifyEndpoint(r, "/dashboard/v1/actions")
	token := a.authenticateRequest(w, r, "action:get_all")
	if token == nil {
		return
	}

	actions, err := a.sessionFor(token).ListActions(r.Context(), listFiltersFrom(r, models.ActionKind))
	if respondWithError(w, r, err) {
		return
	}
	respondwith.JSON(w, http.StatusOK, map[string]any{"actions": renderAll(actions, renderAction)})
}

func (a *API) handleGetAction(w http.ResponseWriter, r *http.Request) {
	httpapi.IdentifyEndpoint(r, "/dashboard/v1/actions/:id")
	token := a.authenticateRequest(w, r, "action:get")
	if token == nil {
		return
	}

	action, err := a.sessionFor(token).GetAction(r.Context(), mux.Vars(r)["id"])
	if respondWithError(w, r, err) {
		return
	}
	respondwith.JSON(w, http.StatusOK, map[string]any{"action": renderAction(action)})
}
