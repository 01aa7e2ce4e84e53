// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sapcc/go-api-declarations/cadf"
	"github.com/sapcc/go-bits/audittools"
	"github.com/sapcc/go-bits/errext"
	"github.com/sapcc/go-bits/gopherpolicy"
	"github.com/sapcc/go-bits/logg"

	"github.com/sapcc/watcher-dashboard/internal/dashboard"
	"github.com/sapcc/watcher-dashboard/internal/models"
	"github.com/sapcc/watcher-dashboard/internal/watcher"
)

// respondWithError writes an error response if err is not nil.
// The return value indicates whether a response was written.
func respondWithError(w http.ResponseWriter, r *http.Request, err error) bool {
	if err == nil {
		return false
	}

	if cse, ok := errext.As[watcher.ConnectionSetupError](err); ok {
		logg.Error("during %s %s: %s", r.Method, r.URL.Path, cse.Error())
		http.Error(w, "unable to contact the optimization service", http.StatusServiceUnavailable)
		return true
	}
	if nfe, ok := errext.As[watcher.NotFoundError](err); ok {
		http.Error(w, nfe.Error(), http.StatusNotFound)
		return true
	}
	if ve, ok := errext.As[watcher.ValidationError](err); ok {
		http.Error(w, ve.Error(), http.StatusUnprocessableEntity)
		return true
	}
	if dfe, ok := errext.As[watcher.DuplicateFieldError](err); ok {
		http.Error(w, dfe.Error(), http.StatusUnprocessableEntity)
		return true
	}
	if rre, ok := errext.As[watcher.RemoteRejectedError](err); ok {
		http.Error(w, rre.Message, rre.Status)
		return true
	}

	logg.Error("during %s %s: %s", r.Method, r.URL.Path, err.Error())
	http.Error(w, "internal server error", http.StatusInternalServerError)
	return true
}

// respondWithGateRefusal answers 409 if the Action Gate does not allow the
// action. The return value indicates whether a response was written.
func respondWithGateRefusal(w http.ResponseWriter, kind models.EntityKind, action models.UIAction, state string) bool {
	if models.IsAllowed(kind, action, state, true) {
		return false
	}
	gateRefusalCounter.WithLabelValues(string(kind), string(action)).Inc()
	msg := fmt.Sprintf("cannot %s %s in state %s", humanReadableAction(action), kind.DisplayName(), state)
	http.Error(w, msg, http.StatusConflict)
	return true
}

func humanReadableAction(action models.UIAction) string {
	switch action {
	case models.GoToActionPlanAction:
		return "show action plans of"
	case models.GoToAuditTemplateAction:
		return "show audit template of"
	default:
		return string(action)
	}
}

// decodeJSONRequestBody decodes the request body into the given target,
// rejecting unknown fields. On failure, a 400 response has been written.
func decodeJSONRequestBody(w http.ResponseWriter, body io.Reader, target any) bool {
	buf, err := io.ReadAll(body)
	if err == nil {
		err = dashboard.UnmarshalJSONStrict(bytes.TrimSpace(buf), target)
	}
	if err != nil {
		http.Error(w, "request body is not valid JSON: "+err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// Query parameters that are forwarded to the optimization service as-is.
var paginationParams = []string{"limit", "marker", "sort_key", "sort_dir"}

// listFiltersFrom converts the query of a list request into the query
// parameters for the optimization service.
func listFiltersFrom(r *http.Request, kind models.EntityKind) map[string]string {
	query := r.URL.Query()
	uiFilters := make(map[string]string, len(query))
	for key := range query {
		uiFilters[key] = query.Get(key)
	}
	result := watcher.TranslateFilters(kind, uiFilters)
	for _, key := range paginationParams {
		if value := query.Get(key); value != "" {
			result[key] = value
		}
	}
	return result
}

// recordEvent forwards a CADF event about a successful state-changing
// request to the auditor.
func (a *API) recordEvent(r *http.Request, token *gopherpolicy.Token, status int, action cadf.Action, target auditTarget) {
	target.ProjectID = token.ProjectScopeUUID()
	a.auditor.Record(audittools.Event{
		Time:       time.Now(),
		Request:    r,
		User:       token,
		ReasonCode: status,
		Action:     action,
		Target:     target,
	})
}

// prettyJSON renders an opaque JSON value with indentation for display.
func prettyJSON(value any) (string, error) {
	buf, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return "", err
	}
	return string(buf), nil
}
