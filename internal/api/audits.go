// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/sapcc/go-api-declarations/cadf"
	"github.com/sapcc/go-bits/errext"
	"github.com/sapcc/go-bits/httpapi"
	"github.com/sapcc/go-bits/respondwith"

	"github.com/sapcc/watcher-dashboard/internal/models"
	"github.com/sapcc/watcher-dashboard/internal/watcher"
)

type auditCreateRequest struct {
	Audit struct {
		AuditTemplate string `json:"audit_template"`
		Name          string `json:"name"`
		AuditType     string `json:"audit_type"`
		AutoTrigger   bool   `json:"auto_trigger"`
		Interval      string `json:"interval"`
		StartTime     string `json:"start_time"`
		EndTime       string `json:"end_time"`
		// Parameters is either a JSON object or a string containing a JSON object.
		Parameters json.RawMessage `json:"parameters"`
	} `json:"audit"`
}

// Accepted formats for start_time and end_time. These are interpreted in local time.
var auditTimeFormats = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000000",
}

// ParseAuditTime parses a start or end time of a continuous audit.
// Empty input yields nil.
func ParseAuditTime(field, input string) (*time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil
	}
	for _, format := range auditTimeFormats {
		t, err := time.ParseInLocation(format, input, time.Local)
		if err == nil {
			return &t, nil
		}
	}
	return nil, watcher.ValidationError{
		Message: fmt.Sprintf("invalid value for %s: expected YYYY-MM-DDTHH:MM[:SS[.ffffff]], but got %q", field, input),
	}
}

// ParseAuditParameters accepts audit parameters either as a JSON object, or
// as a JSON string containing the text of a JSON object. Empty input yields nil.
func ParseAuditParameters(raw json.RawMessage) (map[string]any, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	if raw[0] == '"' {
		var text string
		err := json.Unmarshal(raw, &text)
		if err != nil {
			return nil, watcher.ValidationError{Message: "parameters must be a JSON object"}
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return nil, nil
		}
		raw = []byte(text)
	}

	var params map[string]any
	err := json.Unmarshal(raw, &params)
	if err != nil || params == nil {
		return nil, watcher.ValidationError{Message: "parameters must be a JSON object"}
	}
	return params, nil
}

func (req auditCreateRequest) toOpts() (opts watcher.AuditCreateOpts, err error) {
	in := req.Audit
	opts = watcher.AuditCreateOpts{
		AuditTemplate: in.AuditTemplate,
		Name:          in.Name,
		AutoTrigger:   in.AutoTrigger,
		Interval:      in.Interval,
	}
	opts.AuditType, err = models.ParseAuditType(in.AuditType)
	if err != nil {
		return opts, watcher.ValidationError{Message: err.Error()}
	}
	opts.StartTime, err = ParseAuditTime("start_time", in.StartTime)
	if err != nil {
		return opts, err
	}
	opts.EndTime, err = ParseAuditTime("end_time", in.EndTime)
	if err != nil {
		return opts, err
	}
	opts.Parameters, err = ParseAuditParameters(in.Parameters)
	return opts, err
}

func (a *API) handleListAudits(w http.ResponseWriter, r *http.Request) {
	httpapi.IdentifyEndpoint(r, "/dashboard/v1/audits")
	token := a.authenticateRequest(w, r, "audit:get_all")
	if token == nil {
		return
	}

	audits, err := a.sessionFor(token).ListAudits(r.Context(), listFiltersFrom(r, models.AuditKind))
	if respondWithError(w, r, err) {
		return
	}
	respondwith.JSON(w, http.StatusOK, map[string]any{"audits": renderAll(audits, renderAudit)})
}

func (a *API) handleGetAudit(w http.ResponseWriter, r *http.Request) {
	httpapi.IdentifyEndpoint(r, "/dashboard/v1/audits/:id")
	token := a.authenticateRequest(w, r, "audit:get")
	if token == nil {
		return
	}

	audit, err := a.sessionFor(token).GetAudit(r.Context(), mux.Vars(r)["id"])
	if respondWithError(w, r, err) {
		return
	}
	respondwith.JSON(w, http.StatusOK, map[string]any{"audit": renderAudit(audit)})
}

func (a *API) handlePostAudit(w http.ResponseWriter, r *http.Request) {
	httpapi.IdentifyEndpoint(r, "/dashboard/v1/audits")
	token := a.authenticateRequest(w, r, "audit:create")
	if token == nil {
		return
	}

	var req auditCreateRequest
	if !decodeJSONRequestBody(w, r.Body, &req) {
		return
	}
	opts, err := req.toOpts()
	if respondWithError(w, r, err) {
		return
	}

	audit, err := a.sessionFor(token).CreateAudit(r.Context(), opts)
	if rre, ok := errext.As[watcher.RemoteRejectedError](err); ok && rre.Status == http.StatusConflict {
		http.Error(w, "audit name already exists", http.StatusConflict)
		return
	}
	if respondWithError(w, r, err) {
		return
	}

	a.recordEvent(r, token, http.StatusCreated, cadf.CreateAction, auditTarget{
		Kind:    models.AuditKind,
		ID:      audit.UUID,
		Name:    audit.Name,
		Payload: audit,
	})
	respondwith.JSON(w, http.StatusCreated, map[string]any{"audit": renderAudit(audit)})
}

func (a *API) handleDeleteAudit(w http.ResponseWriter, r *http.Request) {
	httpapi.IdentifyEndpoint(r, "/dashboard/v1/audits/:id")
	token := a.authenticateRequest(w, r, "audit:delete")
	if token == nil {
		return
	}
	session := a.sessionFor(token)
	id := mux.Vars(r)["id"]

	audit, err := session.GetAudit(r.Context(), id)
	if respondIfAlreadyDeleted(w, err) || respondWithError(w, r, err) {
		return
	}
	if respondWithGateRefusal(w, models.AuditKind, models.DeleteAction, string(audit.State)) {
		return
	}

	err = session.DeleteAudit(r.Context(), id)
	if respondIfAlreadyDeleted(w, err) || respondWithError(w, r, err) {
		return
	}

	a.recordEvent(r, token, http.StatusNoContent, cadf.DeleteAction, auditTarget{
		Kind: models.AuditKind,
		ID:   id,
		Name: audit.Name,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (a *API) handleGetAuditActionPlans(w http.ResponseWriter, r *http.Request) {
	httpapi.IdentifyEndpoint(r, "/dashboard/v1/audits/:id/action_plan")
	token := a.authenticateRequest(w, r, "action_plan:get_all")
	if token == nil {
		return
	}
	session := a.sessionFor(token)

	audit, err := session.GetAudit(r.Context(), mux.Vars(r)["id"])
	if respondWithError(w, r, err) {
		return
	}
	if respondWithGateRefusal(w, models.AuditKind, models.GoToActionPlanAction, string(audit.State)) {
		return
	}

	filters, _ := watcher.TranslateFilter(models.ActionPlanKind, "audit_filter", audit.UUID)
	plans, err := session.ListActionPlans(r.Context(), filters)
	if respondWithError(w, r, err) {
		return
	}
	respondwith.JSON(w, http.StatusOK, map[string]any{"action_plans": renderAll(plans, renderActionPlan)})
}

func (a *API) handleGetAuditAuditTemplate(w http.ResponseWriter, r *http.Request) {
	httpapi.IdentifyEndpoint(r, "/dashboard/v1/audits/:id/audit_template")
	token := a.authenticateRequest(w, r, "audit_template:get")
	if token == nil {
		return
	}
	session := a.sessionFor(token)

	audit, err := session.GetAudit(r.Context(), mux.Vars(r)["id"])
	if respondWithError(w, r, err) {
		return
	}
	if respondWithGateRefusal(w, models.AuditKind, models.GoToAuditTemplateAction, string(audit.State)) {
		return
	}
	if audit.AuditTemplateUUID == "" {
		http.Error(w, "audit was not created from an audit template", http.StatusNotFound)
		return
	}

	template, err := session.GetAuditTemplate(r.Context(), audit.AuditTemplateUUID)
	if respondWithError(w, r, err) {
		return
	}
	respondwith.JSON(w, http.StatusOK, map[string]any{"audit_template": renderAuditTemplate(template)})
}

// respondIfAlreadyDeleted answers 204 if the entity to be deleted does not exist (anymore).
func respondIfAlreadyDeleted(w http.ResponseWriter, err error) bool {
	if errext.IsOfType[watcher.NotFoundError](err) {
		w.WriteHeader(http.StatusNoContent)
		return true
	}
	return false
}
