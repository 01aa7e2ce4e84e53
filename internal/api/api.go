// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

// Package api implements the JSON API that the dashboard front-end talks to.
package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sapcc/go-bits/gopherpolicy"

	"github.com/sapcc/watcher-dashboard/internal/dashboard"
	"github.com/sapcc/watcher-dashboard/internal/watcher"
)

// API contains state variables used by the dashboard API implementation.
type API struct {
	factory   *watcher.ClientFactory
	validator gopherpolicy.Validator
	auditor   dashboard.Auditor
}

// NewAPI constructs a new API instance.
func NewAPI(factory *watcher.ClientFactory, validator gopherpolicy.Validator, auditor dashboard.Auditor) *API {
	return &API{factory, validator, auditor}
}

// AddTo implements the httpapi.API interface.
func (a *API) AddTo(r *mux.Router) {
	r.Methods("GET").Path("/dashboard/v1/goals").HandlerFunc(a.handleListGoals)
	r.Methods("GET").Path("/dashboard/v1/goals/{id}").HandlerFunc(a.handleGetGoal)

	r.Methods("GET").Path("/dashboard/v1/strategies").HandlerFunc(a.handleListStrategies)
	r.Methods("GET").Path("/dashboard/v1/strategies/{id}").HandlerFunc(a.handleGetStrategy)

	r.Methods("GET").Path("/dashboard/v1/audit_templates").HandlerFunc(a.handleListAuditTemplates)
	r.Methods("POST").Path("/dashboard/v1/audit_templates").HandlerFunc(a.handlePostAuditTemplate)
	r.Methods("GET").Path("/dashboard/v1/audit_templates/{id}").HandlerFunc(a.handleGetAuditTemplate)
	r.Methods("PATCH").Path("/dashboard/v1/audit_templates/{id}").HandlerFunc(a.handlePatchAuditTemplate)
	r.Methods("DELETE").Path("/dashboard/v1/audit_templates/{id}").HandlerFunc(a.handleDeleteAuditTemplate)

	r.Methods("GET").Path("/dashboard/v1/audits").HandlerFunc(a.handleListAudits)
	r.Methods("POST").Path("/dashboard/v1/audits").HandlerFunc(a.handlePostAudit)
	r.Methods("GET").Path("/dashboard/v1/audits/{id}").HandlerFunc(a.handleGetAudit)
	r.Methods("DELETE").Path("/dashboard/v1/audits/{id}").HandlerFunc(a.handleDeleteAudit)
	r.Methods("GET").Path("/dashboard/v1/audits/{id}/action_plan").HandlerFunc(a.handleGetAuditActionPlans)
	r.Methods("GET").Path("/dashboard/v1/audits/{id}/audit_template").HandlerFunc(a.handleGetAuditAuditTemplate)

	r.Methods("GET").Path("/dashboard/v1/action_plans").HandlerFunc(a.handleListActionPlans)
	r.Methods("GET").Path("/dashboard/v1/action_plans/{id}").HandlerFunc(a.handleGetActionPlan)
	r.Methods("POST").Path("/dashboard/v1/action_plans/{id}/start").HandlerFunc(a.handleStartActionPlan)
	r.Methods("DELETE").Path("/dashboard/v1/action_plans/{id}").HandlerFunc(a.handleDeleteActionPlan)

	r.Methods("GET").Path("/dashboard/v1/actions").HandlerFunc(a.handleListActions)
	r.Methods("GET").Path("/dashboard/v1/actions/{id}").HandlerFunc(a.handleGetAction)
}

// authenticateRequest checks the Keystone token of the request against the
// given policy rule. On failure, an error response has already been written
// and nil is returned.
func (a *API) authenticateRequest(w http.ResponseWriter, r *http.Request, rule string) *gopherpolicy.Token {
	token := a.validator.CheckToken(r)
	token.Context.Request = mux.Vars(r)
	if !token.Require(w, rule) {
		return nil
	}
	return token
}

// sessionFor returns a Session that talks to the optimization service on
// behalf of the owner of the given token.
func (a *API) sessionFor(token *gopherpolicy.Token) watcher.Session {
	return watcher.Session{Factory: a.factory, Caller: token.ProviderClient}
}
