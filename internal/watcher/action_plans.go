// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package watcher

import (
	"context"
	"net/http"

	"github.com/gophercloud/gophercloud/v2"

	"github.com/sapcc/watcher-dashboard/internal/models"
)

// ListActionPlans lists all action plans matching the given query parameters.
func (s Session) ListActionPlans(ctx context.Context, filters map[string]string) ([]models.ActionPlan, error) {
	return list[models.ActionPlan](ctx, s, models.ActionPlanKind, filters)
}

// GetActionPlan shows a single action plan.
func (s Session) GetActionPlan(ctx context.Context, id string) (models.ActionPlan, error) {
	return get[models.ActionPlan](ctx, s, models.ActionPlanKind, id)
}

// StartActionPlan asks the optimization service to execute an action plan.
// Whether the action plan is in a startable state is not checked here.
func (s Session) StartActionPlan(ctx context.Context, id string) error {
	if id == "" {
		return validationErrorf("missing action plan ID")
	}
	return s.do(call{Kind: models.ActionPlanKind, Operation: "start", ID: id}, func(client *gophercloud.ServiceClient) error {
		_, err := client.Post(ctx, entityURL(client, models.ActionPlanKind, id, "start"), nil, nil, &gophercloud.RequestOpts{
			OkCodes: []int{http.StatusOK, http.StatusAccepted},
		})
		return err
	})
}

// DeleteActionPlan archives an action plan.
func (s Session) DeleteActionPlan(ctx context.Context, id string) error {
	return deleteEntity(ctx, s, models.ActionPlanKind, id)
}
