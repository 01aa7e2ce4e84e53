// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package watcher

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gophercloud/gophercloud/v2"

	"github.com/sapcc/watcher-dashboard/internal/models"
)

// AuditTemplateCreateOpts contains the arguments to CreateAuditTemplate.
type AuditTemplateCreateOpts struct {
	Name        string
	Description string
	// Goal is the UUID or name of a goal.
	Goal string
	// Strategy is the UUID or name of a strategy (optional).
	Strategy string
	// Scope is a JSON list or object (optional).
	Scope json.RawMessage
}

func (opts AuditTemplateCreateOpts) toRequestBody() (map[string]any, error) {
	if strings.TrimSpace(opts.Name) == "" {
		return nil, validationErrorf("audit template name is required")
	}
	if opts.Goal == "" {
		return nil, validationErrorf("goal is required")
	}

	body := map[string]any{
		"name": opts.Name,
		"goal": opts.Goal,
	}
	if opts.Description != "" {
		body["description"] = opts.Description
	}
	if opts.Strategy != "" {
		body["strategy"] = opts.Strategy
	}
	if len(opts.Scope) > 0 {
		if !json.Valid(opts.Scope) {
			return nil, validationErrorf("scope is not valid JSON")
		}
		body["scope"] = opts.Scope
	}
	return body, nil
}

// FieldUpdate is one entry in the request body of PatchAuditTemplate.
type FieldUpdate struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ListAuditTemplates lists all audit templates matching the given query parameters.
func (s Session) ListAuditTemplates(ctx context.Context, filters map[string]string) ([]models.AuditTemplate, error) {
	return list[models.AuditTemplate](ctx, s, models.AuditTemplateKind, filters)
}

// GetAuditTemplate shows a single audit template.
func (s Session) GetAuditTemplate(ctx context.Context, id string) (models.AuditTemplate, error) {
	return get[models.AuditTemplate](ctx, s, models.AuditTemplateKind, id)
}

// CreateAuditTemplate creates a new audit template.
func (s Session) CreateAuditTemplate(ctx context.Context, opts AuditTemplateCreateOpts) (models.AuditTemplate, error) {
	var result models.AuditTemplate
	body, err := opts.toRequestBody()
	if err != nil {
		return result, err
	}
	err = s.do(call{Kind: models.AuditTemplateKind, Operation: "create"}, func(client *gophercloud.ServiceClient) error {
		_, err := client.Post(ctx, client.ServiceURL(models.AuditTemplateKind.Collection()), body, &result, nil)
		return err
	})
	return result, err
}

// PatchAuditTemplate updates fields of an existing audit template. Each field
// may appear at most once. The updates are sent in the given order.
func (s Session) PatchAuditTemplate(ctx context.Context, id string, updates []FieldUpdate) (models.AuditTemplate, error) {
	var result models.AuditTemplate
	if id == "" {
		return result, validationErrorf("missing audit template ID")
	}

	body := make([]FieldUpdate, 0, len(updates))
	seen := make(map[string]bool, len(updates))
	for _, u := range updates {
		if u.Name == "" {
			return result, validationErrorf("cannot update a field without a name")
		}
		if seen[u.Name] {
			return result, DuplicateFieldError{Field: u.Name}
		}
		seen[u.Name] = true
		body = append(body, u)
	}

	err := s.do(call{Kind: models.AuditTemplateKind, Operation: "patch", ID: id}, func(client *gophercloud.ServiceClient) error {
		_, err := client.Patch(ctx, entityURL(client, models.AuditTemplateKind, id), body, &result, &gophercloud.RequestOpts{
			OkCodes: []int{http.StatusOK},
		})
		return err
	})
	return result, err
}

// DeleteAuditTemplate deletes an audit template.
func (s Session) DeleteAuditTemplate(ctx context.Context, id string) error {
	return deleteEntity(ctx, s, models.AuditTemplateKind, id)
}
