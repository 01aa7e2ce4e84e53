// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sapcc/go-api-declarations/cadf"
	"github.com/sapcc/go-bits/httpapi"
	"github.com/sapcc/go-bits/respondwith"
	"sigs.k8s.io/yaml"

	"github.com/sapcc/watcher-dashboard/internal/models"
	"github.com/sapcc/watcher-dashboard/internal/watcher"
)

type auditTemplateCreateRequest struct {
	AuditTemplate struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Goal        string `json:"goal"`
		Strategy    string `json:"strategy"`
		// Scope is YAML or JSON text.
		Scope string `json:"scope"`
	} `json:"audit_template"`
}

// ParseScope converts a scope given as YAML or JSON text into JSON. Empty
// input yields nil. The scope must be a list or an object.
func ParseScope(input string) (json.RawMessage, error) {
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}
	buf, err := yaml.YAMLToJSON([]byte(input))
	if err != nil {
		return nil, watcher.ValidationError{Message: "scope is not valid YAML: " + err.Error()}
	}
	buf = bytes.TrimSpace(buf)
	if len(buf) == 0 || (buf[0] != '[' && buf[0] != '{') {
		return nil, watcher.ValidationError{Message: "scope must be a list or a mapping"}
	}
	return json.RawMessage(buf), nil
}

func (a *API) handleListAuditTemplates(w http.ResponseWriter, r *http.Request) {
	httpapi.IdentifyEndpoint(r, "/dashboard/v1/audit_templates")
	token := a.authenticateRequest(w, r, "audit_template:get_all")
	if token == nil {
		return
	}

	templates, err := a.sessionFor(token).ListAuditTemplates(r.Context(), listFiltersFrom(r, models.AuditTemplateKind))
	if respondWithError(w, r, err) {
		return
	}
	respondwith.JSON(w, http.StatusOK, map[string]any{"audit_templates": renderAll(templates, renderAuditTemplate)})
}

func (a *API) handleGetAuditTemplate(w http.ResponseWriter, r *http.Request) {
	httpapi.IdentifyEndpoint(r, "/dashboard/v1/audit_templates/:id")
	token := a.authenticateRequest(w, r, "audit_template:get")
	if token == nil {
		return
	}

	template, err := a.sessionFor(token).GetAuditTemplate(r.Context(), mux.Vars(r)["id"])
	if respondWithError(w, r, err) {
		return
	}
	respondwith.JSON(w, http.StatusOK, map[string]any{"audit_template": renderAuditTemplate(template)})
}

func (a *API) handlePostAuditTemplate(w http.ResponseWriter, r *http.Request) {
	httpapi.IdentifyEndpoint(r, "/dashboard/v1/audit_templates")
	token := a.authenticateRequest(w, r, "audit_template:create")
	if token == nil {
		return
	}

	var req auditTemplateCreateRequest
	if !decodeJSONRequestBody(w, r.Body, &req) {
		return
	}
	scope, err := ParseScope(req.AuditTemplate.Scope)
	if respondWithError(w, r, err) {
		return
	}

	template, err := a.sessionFor(token).CreateAuditTemplate(r.Context(), watcher.AuditTemplateCreateOpts{
		Name:        req.AuditTemplate.Name,
		Description: req.AuditTemplate.Description,
		Goal:        req.AuditTemplate.Goal,
		Strategy:    req.AuditTemplate.Strategy,
		Scope:       scope,
	})
	if respondWithError(w, r, err) {
		return
	}

	a.recordEvent(r, token, http.StatusCreated, cadf.CreateAction, auditTarget{
		Kind:    models.AuditTemplateKind,
		ID:      template.UUID,
		Name:    template.Name,
		Payload: template,
	})
	respondwith.JSON(w, http.StatusCreated, map[string]any{"audit_template": renderAuditTemplate(template)})
}

func (a *API) handlePatchAuditTemplate(w http.ResponseWriter, r *http.Request) {
	httpapi.IdentifyEndpoint(r, "/dashboard/v1/audit_templates/:id")
	token := a.authenticateRequest(w, r, "audit_template:update")
	if token == nil {
		return
	}

	var updates []watcher.FieldUpdate
	if !decodeJSONRequestBody(w, r.Body, &updates) {
		return
	}
	if len(updates) == 0 {
		http.Error(w, "no fields to update", http.StatusUnprocessableEntity)
		return
	}

	template, err := a.sessionFor(token).PatchAuditTemplate(r.Context(), mux.Vars(r)["id"], updates)
	if respondWithError(w, r, err) {
		return
	}

	a.recordEvent(r, token, http.StatusOK, cadf.UpdateAction, auditTarget{
		Kind:    models.AuditTemplateKind,
		ID:      template.UUID,
		Name:    template.Name,
		Payload: updates,
	})
	respondwith.JSON(w, http.StatusOK, map[string]any{"audit_template": renderAuditTemplate(template)})
}

func (a *API) handleDeleteAuditTemplate(w http.ResponseWriter, r *http.Request) {
	httpapi.IdentifyEndpoint(r, "/dashboard/v1/audit_templates/:id")
	token := a.authenticateRequest(w, r, "audit_template:delete")
	if token == nil {
		return
	}

	id := mux.Vars(r)["id"]
	err := a.sessionFor(token).DeleteAuditTemplate(r.Context(), id)
	if respondIfAlreadyDeleted(w, err) || respondWithError(w, r, err) {
		return
	}

	a.recordEvent(r, token, http.StatusNoContent, cadf.DeleteAction, auditTarget{
		Kind: models.AuditTemplateKind,
		ID:   id,
	})
	w.WriteHeader(http.StatusNoContent)
}
