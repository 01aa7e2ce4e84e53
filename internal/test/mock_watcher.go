// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"sync"

	"github.com/gofrs/uuid/v5"
	"github.com/gorilla/mux"
	"github.com/sapcc/go-bits/respondwith"

	"github.com/sapcc/watcher-dashboard/internal/models"
	"github.com/sapcc/watcher-dashboard/internal/watcher"
)

// WatcherRequest is a request that was received by the Watcher mock.
type WatcherRequest struct {
	Method       string
	Path         string
	Query        string
	Microversion string
	Body         string
}

// Watcher is an in-memory mock of the optimization service's REST API.
type Watcher struct {
	Goals          []models.Goal
	Strategies     []models.Strategy
	AuditTemplates []models.AuditTemplate
	Audits         []models.Audit
	ActionPlans    []models.ActionPlan
	Actions        []models.Action

	mutex    sync.Mutex
	requests []WatcherRequest
	router   *mux.Router
}

// NewWatcher builds an empty Watcher mock.
func NewWatcher() *Watcher {
	w := &Watcher{}
	r := mux.NewRouter()
	r.Methods("GET").Path("/v1/{kind}").HandlerFunc(w.handleList)
	r.Methods("GET").Path("/v1/{kind}/{id}").HandlerFunc(w.handleGet)
	r.Methods("DELETE").Path("/v1/{kind}/{id}").HandlerFunc(w.handleDelete)
	r.Methods("POST").Path("/v1/audit_templates").HandlerFunc(w.handlePostAuditTemplate)
	r.Methods("PATCH").Path("/v1/audit_templates/{id}").HandlerFunc(w.handlePatchAuditTemplate)
	r.Methods("POST").Path("/v1/audits").HandlerFunc(w.handlePostAudit)
	r.Methods("POST").Path("/v1/action_plans/{id}/start").HandlerFunc(w.handleStartActionPlan)
	w.router = r
	return w
}

// ServeHTTP implements the http.Handler interface.
func (w *Watcher) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	r.Body = io.NopCloser(strings.NewReader(string(body)))

	w.mutex.Lock()
	defer w.mutex.Unlock()
	w.requests = append(w.requests, WatcherRequest{
		Method:       r.Method,
		Path:         r.URL.Path,
		Query:        r.URL.RawQuery,
		Microversion: r.Header.Get("OpenStack-API-Version"),
		Body:         string(body),
	})

	if r.Header.Get("X-Auth-Token") == "" {
		respondWithFault(rw, http.StatusUnauthorized, "The request you have made requires authentication.")
		return
	}
	w.router.ServeHTTP(rw, r)
}

// Requests returns all requests received since the last call, and forgets them.
func (w *Watcher) Requests() []WatcherRequest {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	result := w.requests
	w.requests = nil
	return result
}

func respondWithFault(rw http.ResponseWriter, status int, msg string) {
	fault, _ := json.Marshal(map[string]any{"faultcode": "Client", "faultstring": msg, "debuginfo": nil})
	respondwith.JSON(rw, status, map[string]string{"error_message": string(fault)})
}

func newUUID() string {
	return uuid.Must(uuid.NewV4()).String()
}

func findIndex[T any](list []T, id string, uuidOf func(T) string) int {
	return slices.IndexFunc(list, func(entry T) bool { return uuidOf(entry) == id })
}

// kindCollection wraps one of the entity slices for the generic handlers.
type kindCollection struct {
	kind   models.EntityKind
	list   func() []any
	find   func(id string) (any, bool)
	delete func(id string) bool
	// match reports whether the entity at the given index satisfies a query parameter
	match func(idx int, key, value string) bool
}

func collection[T any](kind models.EntityKind, list *[]T, uuidOf func(T) string, match func(T, string, string) bool) kindCollection {
	return kindCollection{
		kind: kind,
		list: func() []any {
			result := make([]any, len(*list))
			for idx, entry := range *list {
				result[idx] = entry
			}
			return result
		},
		find: func(id string) (any, bool) {
			idx := findIndex(*list, id, uuidOf)
			if idx < 0 {
				return nil, false
			}
			return (*list)[idx], true
		},
		delete: func(id string) bool {
			idx := findIndex(*list, id, uuidOf)
			if idx < 0 {
				return false
			}
			*list = slices.Delete(*list, idx, idx+1)
			return true
		},
		match: func(idx int, key, value string) bool {
			return match((*list)[idx], key, value)
		},
	}
}

func (w *Watcher) collectionFor(collectionName string) (kindCollection, bool) {
	switch collectionName {
	case "goals":
		return collection(models.GoalKind, &w.Goals, func(g models.Goal) string { return g.UUID },
			func(g models.Goal, key, value string) bool { return false }), true
	case "strategies":
		return collection(models.StrategyKind, &w.Strategies, func(s models.Strategy) string { return s.UUID },
			func(s models.Strategy, key, value string) bool {
				return key == "goal" && (s.GoalUUID == value || s.GoalName == value)
			}), true
	case "audit_templates":
		return collection(models.AuditTemplateKind, &w.AuditTemplates, func(t models.AuditTemplate) string { return t.UUID },
			func(t models.AuditTemplate, key, value string) bool {
				switch key {
				case "name":
					return t.Name == value
				case "goal":
					return t.GoalUUID == value || t.GoalName == value
				case "strategy":
					return t.StrategyUUID == value || t.StrategyName == value
				}
				return false
			}), true
	case "audits":
		return collection(models.AuditKind, &w.Audits, func(a models.Audit) string { return a.UUID },
			func(a models.Audit, key, value string) bool {
				switch key {
				case "audit_template":
					return a.AuditTemplateUUID == value
				case "goal":
					return a.GoalUUID == value || a.GoalName == value
				case "strategy":
					return a.StrategyUUID == value || a.StrategyName == value
				}
				return false
			}), true
	case "action_plans":
		return collection(models.ActionPlanKind, &w.ActionPlans, func(p models.ActionPlan) string { return p.UUID },
			func(p models.ActionPlan, key, value string) bool {
				switch key {
				case "audit":
					return p.AuditUUID == value
				case "strategy":
					return p.StrategyUUID == value || p.StrategyName == value
				}
				return false
			}), true
	case "actions":
		return collection(models.ActionKind, &w.Actions, func(a models.Action) string { return a.UUID },
			func(a models.Action, key, value string) bool {
				return key == "action_plan" && a.ActionPlanUUID == value
			}), true
	default:
		return kindCollection{}, false
	}
}

// Query parameters that the list endpoints accept without filtering on them.
var nonFilterParams = []string{"detail", "limit", "marker", "sort_key", "sort_dir"}

func (w *Watcher) handleList(rw http.ResponseWriter, r *http.Request) {
	collectionName := mux.Vars(r)["kind"]
	c, ok := w.collectionFor(collectionName)
	if !ok {
		respondWithFault(rw, http.StatusNotFound, "Resource could not be found.")
		return
	}

	query := r.URL.Query()
	entries := []any{}
	for idx, entry := range c.list() {
		matches := true
		for key := range query {
			if !slices.Contains(nonFilterParams, key) && !c.match(idx, key, query.Get(key)) {
				matches = false
			}
		}
		if matches {
			entries = append(entries, entry)
		}
	}
	respondwith.JSON(rw, http.StatusOK, map[string]any{collectionName: entries, "next": ""})
}

func (w *Watcher) handleGet(rw http.ResponseWriter, r *http.Request) {
	c, ok := w.collectionFor(mux.Vars(r)["kind"])
	if !ok {
		respondWithFault(rw, http.StatusNotFound, "Resource could not be found.")
		return
	}
	id := mux.Vars(r)["id"]
	entry, ok := c.find(id)
	if !ok {
		respondWithFault(rw, http.StatusNotFound, fmt.Sprintf("%s %s could not be found.", c.kind.DisplayName(), id))
		return
	}
	respondwith.JSON(rw, http.StatusOK, entry)
}

func (w *Watcher) handleDelete(rw http.ResponseWriter, r *http.Request) {
	c, ok := w.collectionFor(mux.Vars(r)["kind"])
	if !ok {
		respondWithFault(rw, http.StatusNotFound, "Resource could not be found.")
		return
	}
	id := mux.Vars(r)["id"]
	if !c.delete(id) {
		respondWithFault(rw, http.StatusNotFound, fmt.Sprintf("%s %s could not be found.", c.kind.DisplayName(), id))
		return
	}
	rw.WriteHeader(http.StatusNoContent)
}

func (w *Watcher) handlePostAuditTemplate(rw http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string          `json:"name"`
		Description string          `json:"description"`
		Goal        string          `json:"goal"`
		Strategy    string          `json:"strategy"`
		Scope       json.RawMessage `json:"scope"`
	}
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		respondWithFault(rw, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	idx := slices.IndexFunc(w.Goals, func(g models.Goal) bool { return g.UUID == req.Goal || g.Name == req.Goal })
	if idx < 0 {
		respondWithFault(rw, http.StatusBadRequest, fmt.Sprintf("Goal %s could not be found", req.Goal))
		return
	}
	goal := w.Goals[idx]

	template := models.AuditTemplate{
		UUID:        newUUID(),
		Name:        req.Name,
		Description: req.Description,
		GoalUUID:    goal.UUID,
		GoalName:    goal.Name,
		Scope:       req.Scope,
		Timestamps:  models.Timestamps{CreatedAt: "2026-01-01T00:00:00"},
	}
	if len(template.Scope) == 0 {
		template.Scope = json.RawMessage("[]")
	}
	if req.Strategy != "" {
		idx := slices.IndexFunc(w.Strategies, func(s models.Strategy) bool { return s.UUID == req.Strategy || s.Name == req.Strategy })
		if idx < 0 {
			respondWithFault(rw, http.StatusBadRequest, fmt.Sprintf("Strategy %s could not be found", req.Strategy))
			return
		}
		template.StrategyUUID = w.Strategies[idx].UUID
		template.StrategyName = w.Strategies[idx].Name
	}
	w.AuditTemplates = append(w.AuditTemplates, template)
	respondwith.JSON(rw, http.StatusCreated, template)
}

func (w *Watcher) handlePatchAuditTemplate(rw http.ResponseWriter, r *http.Request) {
	idx := findIndex(w.AuditTemplates, mux.Vars(r)["id"], func(t models.AuditTemplate) string { return t.UUID })
	if idx < 0 {
		respondWithFault(rw, http.StatusNotFound, "audit template could not be found.")
		return
	}

	var updates []watcher.FieldUpdate
	err := json.NewDecoder(r.Body).Decode(&updates)
	if err != nil {
		respondWithFault(rw, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	template := w.AuditTemplates[idx]
	for _, u := range updates {
		switch u.Name {
		case "name":
			template.Name = u.Value
		case "description":
			template.Description = u.Value
		default:
			respondWithFault(rw, http.StatusBadRequest, fmt.Sprintf("Field %s cannot be updated", u.Name))
			return
		}
	}
	w.AuditTemplates[idx] = template
	respondwith.JSON(rw, http.StatusOK, template)
}

func (w *Watcher) handlePostAudit(rw http.ResponseWriter, r *http.Request) {
	var req struct {
		AuditTemplateUUID string           `json:"audit_template_uuid"`
		Name              string           `json:"name"`
		AuditType         models.AuditType `json:"audit_type"`
		AutoTrigger       bool             `json:"auto_trigger"`
		Interval          *string          `json:"interval"`
		StartTime         *string          `json:"start_time"`
		EndTime           *string          `json:"end_time"`
		Parameters        map[string]any   `json:"parameters"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	err := dec.Decode(&req)
	if err != nil {
		respondWithFault(rw, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	// the time window needs a newer microversion, like in the real service
	version := watcher.Microversion(strings.TrimPrefix(r.Header.Get("OpenStack-API-Version"), watcher.ServiceType+" "))
	if (req.StartTime != nil || req.EndTime != nil) && version.Less(watcher.TimeWindowMicroversion) {
		respondWithFault(rw, http.StatusNotAcceptable, "start_time and end_time require microversion 1.1")
		return
	}

	idx := findIndex(w.AuditTemplates, req.AuditTemplateUUID, func(t models.AuditTemplate) string { return t.UUID })
	if idx < 0 {
		idx = slices.IndexFunc(w.AuditTemplates, func(t models.AuditTemplate) bool { return t.Name == req.AuditTemplateUUID })
	}
	if idx < 0 {
		respondWithFault(rw, http.StatusBadRequest, fmt.Sprintf("AuditTemplate %s could not be found", req.AuditTemplateUUID))
		return
	}
	template := w.AuditTemplates[idx]

	if req.Name == "" {
		req.Name = fmt.Sprintf("%s-%d", template.Name, len(w.Audits)+1)
	}
	if slices.ContainsFunc(w.Audits, func(a models.Audit) bool { return a.Name == req.Name }) {
		respondWithFault(rw, http.StatusConflict, fmt.Sprintf("An audit with name %s already exists", req.Name))
		return
	}

	audit := models.Audit{
		UUID:              newUUID(),
		Name:              req.Name,
		AuditType:         req.AuditType,
		AuditTemplateUUID: template.UUID,
		GoalUUID:          template.GoalUUID,
		GoalName:          template.GoalName,
		StrategyUUID:      template.StrategyUUID,
		StrategyName:      template.StrategyName,
		Interval:          req.Interval,
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
		AutoTrigger:       req.AutoTrigger,
		Parameters:        req.Parameters,
		Scope:             template.Scope,
		State:             models.AuditPending,
		Timestamps:        models.Timestamps{CreatedAt: "2026-01-01T00:00:00"},
	}
	w.Audits = append(w.Audits, audit)
	respondwith.JSON(rw, http.StatusCreated, audit)
}

func (w *Watcher) handleStartActionPlan(rw http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	idx := findIndex(w.ActionPlans, id, func(p models.ActionPlan) string { return p.UUID })
	if idx < 0 {
		respondWithFault(rw, http.StatusNotFound, fmt.Sprintf("action plan %s could not be found.", id))
		return
	}
	w.ActionPlans[idx].State = models.ActionPlanPending
	respondwith.JSON(rw, http.StatusOK, w.ActionPlans[idx])
}
