// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/sapcc/go-api-declarations/cadf"
	"github.com/sapcc/go-bits/assert"

	"github.com/sapcc/watcher-dashboard/internal/models"
	"github.com/sapcc/watcher-dashboard/internal/test"
)

func TestListAuditsRendersAllowedActions(t *testing.T) {
	s := setup(t)

	_, body := assert.HTTPRequest{
		Method:       "GET",
		Path:         "/dashboard/v1/audits?audit_template_filter=template-1",
		Header:       authHeader,
		ExpectStatus: http.StatusOK,
	}.Check(t, s.Handler)
	reqs := expectWatcherCalls(t, s.Watcher, "GET /v1/audits")
	assert.DeepEqual(t, "query", reqs[0].Query, "audit_template=template-1&detail=true")

	audits := decodeJSON[struct {
		Audits []Audit `json:"audits"`
	}](t, body).Audits
	assert.DeepEqual(t, "audit count", len(audits), 2)
	assert.DeepEqual(t, "allowed actions for SUCCEEDED", audits[0].AllowedActions, []models.UIAction{
		models.DeleteAction, models.GoToActionPlanAction, models.GoToAuditTemplateAction,
	})
	assert.DeepEqual(t, "allowed actions for ONGOING", audits[1].AllowedActions, []models.UIAction{})
}

func TestCreateAudit(t *testing.T) {
	s := setup(t)

	// a continuous audit with a time window needs the newer microversion
	_, body := assert.HTTPRequest{
		Method: "POST",
		Path:   "/dashboard/v1/audits",
		Header: authHeader,
		Body: assert.JSONObject{
			"audit": assert.JSONObject{
				"audit_template": "template-1",
				"name":           "weekly",
				"audit_type":     "continuous",
				"interval":       "3600",
				"start_time":     "2026-03-01T10:00",
				"end_time":       "2026-03-02T10:00",
				"parameters":     `{"period": 7200}`,
			},
		},
		ExpectStatus: http.StatusCreated,
	}.Check(t, s.Handler)
	reqs := expectWatcherCalls(t, s.Watcher, "POST /v1/audits")
	assert.DeepEqual(t, "microversion", reqs[0].Microversion, "infra-optim 1.1")

	sent := decodeJSON[map[string]any](t, []byte(reqs[0].Body))
	assert.DeepEqual(t, "request body", sent, map[string]any{
		"audit_template_uuid": "template-1",
		"name":                "weekly",
		"audit_type":          "CONTINUOUS",
		"auto_trigger":        false,
		"interval":            "3600",
		"start_time":          "2026-03-01T10:00:00",
		"end_time":            "2026-03-02T10:00:00",
		"parameters":          map[string]any{"period": 7200.0},
	})

	created := decodeJSON[struct {
		Audit Audit `json:"audit"`
	}](t, body).Audit
	assert.DeepEqual(t, "state", created.State, models.AuditPending)
	assert.DeepEqual(t, "allowed actions", created.AllowedActions, []models.UIAction{})
	s.Auditor.ExpectEvents(t, test.ExpectedEvent{
		Action:     cadf.CreateAction,
		ReasonCode: http.StatusCreated,
		UserID:     "user1",
		Target: cadf.Resource{
			TypeURI:   "service/infra-optim/audit",
			ID:        created.UUID,
			Name:      "weekly",
			ProjectID: "project1",
		},
	})

	// for a one-shot audit, the time window is not sent, so the base microversion suffices
	assert.HTTPRequest{
		Method: "POST",
		Path:   "/dashboard/v1/audits",
		Header: authHeader,
		Body: assert.JSONObject{
			"audit": assert.JSONObject{
				"audit_template": "template-1",
				"name":           "once",
				"audit_type":     "ONESHOT",
				"start_time":     "2026-03-01T10:00",
				"end_time":       "2026-03-02T10:00",
			},
		},
		ExpectStatus: http.StatusCreated,
	}.Check(t, s.Handler)
	reqs = expectWatcherCalls(t, s.Watcher, "POST /v1/audits")
	assert.DeepEqual(t, "microversion", reqs[0].Microversion, "infra-optim 1.0")
	s.Auditor.IgnoreEventsUntilNow()

	// duplicate names are rejected by the optimization service
	assert.HTTPRequest{
		Method: "POST",
		Path:   "/dashboard/v1/audits",
		Header: authHeader,
		Body: assert.JSONObject{
			"audit": assert.JSONObject{
				"audit_template": "template-1",
				"name":           "nightly",
				"audit_type":     "ONESHOT",
			},
		},
		ExpectStatus: http.StatusConflict,
		ExpectBody:   assert.StringData("audit name already exists\n"),
	}.Check(t, s.Handler)
	expectWatcherCalls(t, s.Watcher, "POST /v1/audits")
	s.Auditor.ExpectEvents(t)
}

func TestCreateAuditValidation(t *testing.T) {
	s := setup(t)

	testCases := []struct {
		Audit        assert.JSONObject
		ExpectedBody string
	}{
		{
			Audit:        assert.JSONObject{"audit_template": "template-1", "audit_type": "sometimes"},
			ExpectedBody: "invalid audit type: \"sometimes\"\n",
		},
		{
			Audit:        assert.JSONObject{"audit_template": "template-1", "audit_type": "CONTINUOUS"},
			ExpectedBody: "interval is required for continuous audits\n",
		},
		{
			Audit:        assert.JSONObject{"audit_template": "template-1", "audit_type": "CONTINUOUS", "interval": "60", "start_time": "tomorrow"},
			ExpectedBody: "invalid value for start_time: expected YYYY-MM-DDTHH:MM[:SS[.ffffff]], but got \"tomorrow\"\n",
		},
		{
			Audit:        assert.JSONObject{"audit_template": "template-1", "audit_type": "ONESHOT", "parameters": "[1,2]"},
			ExpectedBody: "parameters must be a JSON object\n",
		},
	}
	for _, tc := range testCases {
		assert.HTTPRequest{
			Method:       "POST",
			Path:         "/dashboard/v1/audits",
			Header:       authHeader,
			Body:         assert.JSONObject{"audit": tc.Audit},
			ExpectStatus: http.StatusUnprocessableEntity,
			ExpectBody:   assert.StringData(tc.ExpectedBody),
		}.Check(t, s.Handler)
	}

	// unknown fields in the request body are rejected before anything else
	assert.HTTPRequest{
		Method:       "POST",
		Path:         "/dashboard/v1/audits",
		Header:       authHeader,
		Body:         assert.JSONObject{"audit": assert.JSONObject{"audit_template": "template-1", "color": "red"}},
		ExpectStatus: http.StatusBadRequest,
	}.Check(t, s.Handler)

	expectWatcherCalls(t, s.Watcher)
	s.Auditor.ExpectEvents(t)
}

func TestDeleteAudit(t *testing.T) {
	s := setup(t)

	// an ongoing audit cannot be deleted, and the delete is not even attempted
	assert.HTTPRequest{
		Method:       "DELETE",
		Path:         "/dashboard/v1/audits/audit-2",
		Header:       authHeader,
		ExpectStatus: http.StatusConflict,
		ExpectBody:   assert.StringData("cannot delete audit in state ONGOING\n"),
	}.Check(t, s.Handler)
	expectWatcherCalls(t, s.Watcher, "GET /v1/audits/audit-2")
	s.Auditor.ExpectEvents(t)

	assert.HTTPRequest{
		Method:       "DELETE",
		Path:         "/dashboard/v1/audits/audit-1",
		Header:       authHeader,
		ExpectStatus: http.StatusNoContent,
	}.Check(t, s.Handler)
	expectWatcherCalls(t, s.Watcher, "GET /v1/audits/audit-1", "DELETE /v1/audits/audit-1")
	s.Auditor.ExpectEvents(t, test.ExpectedEvent{
		Action:     cadf.DeleteAction,
		ReasonCode: http.StatusNoContent,
		UserID:     "user1",
		Target: cadf.Resource{
			TypeURI:   "service/infra-optim/audit",
			ID:        "audit-1",
			Name:      "nightly",
			ProjectID: "project1",
		},
	})

	// deleting it again is not an error
	assert.HTTPRequest{
		Method:       "DELETE",
		Path:         "/dashboard/v1/audits/audit-1",
		Header:       authHeader,
		ExpectStatus: http.StatusNoContent,
	}.Check(t, s.Handler)
	expectWatcherCalls(t, s.Watcher, "GET /v1/audits/audit-1")
	s.Auditor.ExpectEvents(t)
}

func TestAuditNavigation(t *testing.T) {
	s := setup(t)

	_, body := assert.HTTPRequest{
		Method:       "GET",
		Path:         "/dashboard/v1/audits/audit-1/action_plan",
		Header:       authHeader,
		ExpectStatus: http.StatusOK,
	}.Check(t, s.Handler)
	reqs := expectWatcherCalls(t, s.Watcher, "GET /v1/audits/audit-1", "GET /v1/action_plans")
	assert.DeepEqual(t, "query", reqs[1].Query, "audit=audit-1&detail=true")
	plans := decodeJSON[struct {
		ActionPlans []ActionPlan `json:"action_plans"`
	}](t, body).ActionPlans
	assert.DeepEqual(t, "action plan count", len(plans), 1)
	assert.DeepEqual(t, "action plan", plans[0].UUID, "plan-1")

	_, body = assert.HTTPRequest{
		Method:       "GET",
		Path:         "/dashboard/v1/audits/audit-1/audit_template",
		Header:       authHeader,
		ExpectStatus: http.StatusOK,
	}.Check(t, s.Handler)
	expectWatcherCalls(t, s.Watcher, "GET /v1/audits/audit-1", "GET /v1/audit_templates/template-1")
	template := decodeJSON[struct {
		AuditTemplate AuditTemplate `json:"audit_template"`
	}](t, body).AuditTemplate
	assert.DeepEqual(t, "audit template", template.UUID, "template-1")

	// navigation is only allowed once the audit has succeeded
	for _, path := range []string{"/dashboard/v1/audits/audit-2/action_plan", "/dashboard/v1/audits/audit-2/audit_template"} {
		assert.HTTPRequest{
			Method:       "GET",
			Path:         path,
			Header:       authHeader,
			ExpectStatus: http.StatusConflict,
		}.Check(t, s.Handler)
		expectWatcherCalls(t, s.Watcher, "GET /v1/audits/audit-2")
	}

	// audits without a template have nowhere to navigate to
	assert.HTTPRequest{
		Method:       "GET",
		Path:         "/dashboard/v1/audits/audit-3/audit_template",
		Header:       authHeader,
		ExpectStatus: http.StatusNotFound,
	}.Check(t, s.Handler)
}

func TestParseAuditTime(t *testing.T) {
	result, err := ParseAuditTime("start_time", "")
	assert.DeepEqual(t, "empty input", result, (*time.Time)(nil))
	assert.DeepEqual(t, "error for empty input", err, nil)

	expected := time.Date(2026, time.March, 1, 10, 30, 0, 0, time.Local)
	for _, input := range []string{"2026-03-01T10:30", "2026-03-01T10:30:00", " 2026-03-01T10:30:00.000000 "} {
		result, err := ParseAuditTime("start_time", input)
		if err != nil {
			t.Errorf("unexpected error for %q: %s", input, err.Error())
			continue
		}
		if !result.Equal(expected) {
			t.Errorf("expected %q to parse as %s, but got %s", input, expected, result)
		}
	}

	_, err = ParseAuditTime("end_time", "2026-03-01 10:30")
	if err == nil {
		t.Error("expected error for timestamp without T separator")
	}
}

func TestParseAuditParameters(t *testing.T) {
	testCases := []struct {
		Input    string
		Expected map[string]any
		IsValid  bool
	}{
		{``, nil, true},
		{`null`, nil, true},
		{`""`, nil, true},
		{`{"period": 3600}`, map[string]any{"period": 3600.0}, true},
		{`"{\"period\": 3600}"`, map[string]any{"period": 3600.0}, true},
		{`[1, 2]`, nil, false},
		{`"not json"`, nil, false},
		{`42`, nil, false},
	}
	for _, tc := range testCases {
		result, err := ParseAuditParameters(json.RawMessage(tc.Input))
		if tc.IsValid {
			if err != nil {
				t.Errorf("unexpected error for %q: %s", tc.Input, err.Error())
			}
			assert.DeepEqual(t, "parameters for "+tc.Input, result, tc.Expected)
		} else if err == nil {
			t.Errorf("expected error for %q, but got %#v", tc.Input, result)
		}
	}
}
