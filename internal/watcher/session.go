// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package watcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/gophercloud/gophercloud/v2"
	"github.com/sapcc/go-bits/logg"

	"github.com/sapcc/watcher-dashboard/internal/models"
)

// Session sends requests to the optimization service on behalf of one caller.
// Each method performs exactly one round trip.
type Session struct {
	Factory *ClientFactory
	Caller  *gophercloud.ProviderClient
	// PinnedMicroversion, if not empty, is used for requests that would
	// otherwise use an older microversion.
	PinnedMicroversion Microversion
}

// describes one round trip, for metrics and error translation
type call struct {
	Kind      models.EntityKind
	Operation string
	// ID is empty for requests that do not refer to a single entity.
	ID string
	// Fields lists the optional request fields that are populated.
	Fields []string
}

func (s Session) do(c call, action func(client *gophercloud.ServiceClient) error) error {
	version := RequiredMicroversion(c.Fields...)
	if s.PinnedMicroversion != "" {
		version = version.Max(s.PinnedMicroversion)
	}

	client, err := s.Factory.Connect(s.Caller, version)
	if err == nil {
		logg.Debug("%s %s %q with microversion %s", c.Operation, c.Kind.DisplayName(), c.ID, version)
		err = translateError(action(client), c.Kind, c.ID)
	}
	remoteRequestCounter.WithLabelValues(string(c.Kind), c.Operation, string(version), outcomeOf(err)).Inc()
	return err
}

func entityURL(client *gophercloud.ServiceClient, kind models.EntityKind, id string, subpath ...string) string {
	parts := append([]string{kind.Collection(), url.PathEscape(id)}, subpath...)
	return client.ServiceURL(parts...)
}

func list[T any](ctx context.Context, s Session, kind models.EntityKind, filters map[string]string) ([]T, error) {
	query := url.Values{}
	for key, value := range filters {
		query.Set(key, value)
	}
	query.Set("detail", "true")

	var body map[string]json.RawMessage
	err := s.do(call{Kind: kind, Operation: "list"}, func(client *gophercloud.ServiceClient) error {
		_, err := client.Get(ctx, client.ServiceURL(kind.Collection())+"?"+query.Encode(), &body, nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	var result []T
	raw := body[kind.Collection()]
	if len(raw) > 0 {
		err = json.Unmarshal(raw, &result)
		if err != nil {
			return nil, fmt.Errorf("cannot decode list of %s: %w", kind.Collection(), err)
		}
	}
	if result == nil {
		result = []T{}
	}
	return result, nil
}

func get[T any](ctx context.Context, s Session, kind models.EntityKind, id string) (T, error) {
	var result T
	if id == "" {
		return result, validationErrorf("missing %s ID", kind.DisplayName())
	}
	err := s.do(call{Kind: kind, Operation: "get", ID: id}, func(client *gophercloud.ServiceClient) error {
		_, err := client.Get(ctx, entityURL(client, kind, id), &result, nil)
		return err
	})
	return result, err
}

func deleteEntity(ctx context.Context, s Session, kind models.EntityKind, id string) error {
	if id == "" {
		return validationErrorf("missing %s ID", kind.DisplayName())
	}
	return s.do(call{Kind: kind, Operation: "delete", ID: id}, func(client *gophercloud.ServiceClient) error {
		_, err := client.Delete(ctx, entityURL(client, kind, id), nil)
		return err
	})
}

// ListGoals lists all goals matching the given query parameters.
func (s Session) ListGoals(ctx context.Context, filters map[string]string) ([]models.Goal, error) {
	return list[models.Goal](ctx, s, models.GoalKind, filters)
}

// GetGoal shows a single goal.
func (s Session) GetGoal(ctx context.Context, id string) (models.Goal, error) {
	return get[models.Goal](ctx, s, models.GoalKind, id)
}

// ListStrategies lists all strategies matching the given query parameters.
func (s Session) ListStrategies(ctx context.Context, filters map[string]string) ([]models.Strategy, error) {
	return list[models.Strategy](ctx, s, models.StrategyKind, filters)
}

// GetStrategy shows a single strategy.
func (s Session) GetStrategy(ctx context.Context, id string) (models.Strategy, error) {
	return get[models.Strategy](ctx, s, models.StrategyKind, id)
}

// ListActions lists all actions matching the given query parameters.
func (s Session) ListActions(ctx context.Context, filters map[string]string) ([]models.Action, error) {
	return list[models.Action](ctx, s, models.ActionKind, filters)
}

// GetAction shows a single action.
func (s Session) GetAction(ctx context.Context, id string) (models.Action, error) {
	return get[models.Action](ctx, s, models.ActionKind, id)
}
