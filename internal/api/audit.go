// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package api

import (
	"github.com/sapcc/go-api-declarations/cadf"

	"github.com/sapcc/watcher-dashboard/internal/models"
)

// startAction is the CADF action for starting an action plan.
const startAction cadf.Action = "start"

// auditTarget is an audittools.TargetRenderer.
type auditTarget struct {
	Kind      models.EntityKind
	ID        string
	Name      string
	ProjectID string
	// Payload, if not nil, is attached to the event as JSON.
	Payload any
}

// Render implements the audittools.TargetRenderer interface.
func (t auditTarget) Render() cadf.Resource {
	res := cadf.Resource{
		TypeURI:   "service/infra-optim/" + string(t.Kind),
		ID:        t.ID,
		Name:      t.Name,
		ProjectID: t.ProjectID,
	}
	if t.Payload != nil {
		attachment, err := cadf.NewJSONAttachment("payload", t.Payload)
		if err == nil {
			res.Attachments = append(res.Attachments, attachment)
		}
	}
	return res
}
