// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package watcher

import (
	"context"
	"strings"
	"time"

	"github.com/gophercloud/gophercloud/v2"

	"github.com/sapcc/watcher-dashboard/internal/models"
)

// WireTimeFormat is how start and end times of continuous audits are sent
// to the optimization service.
const WireTimeFormat = "2006-01-02T15:04:05"

// AuditCreateOpts contains the arguments to CreateAudit.
type AuditCreateOpts struct {
	// AuditTemplate is the UUID or name of an audit template.
	AuditTemplate string
	Name          string
	AuditType     models.AuditType
	AutoTrigger   bool
	// Interval is either a number of seconds or a cron expression. Only used for continuous audits.
	Interval string
	// StartTime and EndTime are only used for continuous audits, and only if both are given.
	StartTime  *time.Time
	EndTime    *time.Time
	Parameters map[string]any
}

// toRequestBody validates the options and renders the request body. The
// second return value lists the populated optional fields that have an
// influence on the required microversion.
func (opts AuditCreateOpts) toRequestBody() (body map[string]any, fields []string, err error) {
	if opts.AuditTemplate == "" {
		return nil, nil, validationErrorf("audit template is required")
	}
	switch opts.AuditType {
	case models.OneShotAudit, models.ContinuousAudit:
	default:
		return nil, nil, validationErrorf("invalid audit type: %q", opts.AuditType)
	}

	body = map[string]any{
		"audit_template_uuid": opts.AuditTemplate,
		"audit_type":          opts.AuditType,
		"auto_trigger":        opts.AutoTrigger,
	}
	if opts.Name != "" {
		body["name"] = opts.Name
	}

	if opts.AuditType == models.ContinuousAudit {
		interval := strings.TrimSpace(opts.Interval)
		if interval == "" {
			return nil, nil, validationErrorf("interval is required for continuous audits")
		}
		body["interval"] = interval

		if opts.StartTime != nil && opts.EndTime != nil {
			if !opts.EndTime.After(*opts.StartTime) {
				return nil, nil, validationErrorf("end time must be after start time")
			}
			body["start_time"] = opts.StartTime.Format(WireTimeFormat)
			body["end_time"] = opts.EndTime.Format(WireTimeFormat)
			fields = append(fields, "start_time", "end_time")
		}
	}

	if len(opts.Parameters) > 0 {
		body["parameters"] = opts.Parameters
	}
	return body, fields, nil
}

// ListAudits lists all audits matching the given query parameters.
func (s Session) ListAudits(ctx context.Context, filters map[string]string) ([]models.Audit, error) {
	return list[models.Audit](ctx, s, models.AuditKind, filters)
}

// GetAudit shows a single audit.
func (s Session) GetAudit(ctx context.Context, id string) (models.Audit, error) {
	return get[models.Audit](ctx, s, models.AuditKind, id)
}

// CreateAudit validates the options and creates a new audit. Invalid options
// are reported as ValidationError without contacting the optimization service.
func (s Session) CreateAudit(ctx context.Context, opts AuditCreateOpts) (models.Audit, error) {
	var result models.Audit
	body, fields, err := opts.toRequestBody()
	if err != nil {
		return result, err
	}
	err = s.do(call{Kind: models.AuditKind, Operation: "create", Fields: fields}, func(client *gophercloud.ServiceClient) error {
		_, err := client.Post(ctx, client.ServiceURL(models.AuditKind.Collection()), body, &result, nil)
		return err
	})
	return result, err
}

// DeleteAudit deletes an audit.
func (s Session) DeleteAudit(ctx context.Context, id string) error {
	return deleteEntity(ctx, s, models.AuditKind, id)
}
