// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

// Package auth validates the Keystone tokens of incoming API requests.
package auth

import (
	"context"
	"fmt"

	"github.com/gophercloud/gophercloud/v2/openstack"
	"github.com/redis/go-redis/v9"
	"github.com/sapcc/go-bits/gophercloudext"
	"github.com/sapcc/go-bits/gopherpolicy"
	"github.com/sapcc/go-bits/logg"
	"github.com/sapcc/go-bits/osext"
	"gopkg.in/yaml.v2"

	"github.com/sapcc/watcher-dashboard/internal/dashboard"
)

// NewTokenValidator authenticates the service user described by the OS_*
// environment variables and returns a validator for Keystone tokens that
// enforces the given oslo.policy file. If a Redis client is given, token
// payloads are cached there; otherwise they are cached in memory.
func NewTokenValidator(ctx context.Context, policyFilePath string, rc *redis.Client) (gopherpolicy.Validator, error) {
	provider, eo, err := gophercloudext.NewProviderClient(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("cannot connect to OpenStack: %w", err)
	}
	identityV3, err := openstack.NewIdentityV3(provider, eo)
	if err != nil {
		return nil, fmt.Errorf("cannot find Keystone V3 API: %w", err)
	}

	tv := &gopherpolicy.TokenValidator{
		IdentityV3: identityV3,
		Cacher:     gopherpolicy.InMemoryCacher(),
	}
	if rc != nil {
		tv.Cacher = redisCacher{rc}
	}
	err = tv.LoadPolicyFile(policyFilePath, yaml.Unmarshal)
	if err != nil {
		return nil, fmt.Errorf("cannot load oslo.policy file: %w", err)
	}
	return tv, nil
}

// InitRedis connects to Redis if WATCHER_DASHBOARD_REDIS_ENABLE is set.
// Since Redis is optional, this may return (nil, nil).
func InitRedis() (*redis.Client, error) {
	if !osext.GetenvBool("WATCHER_DASHBOARD_REDIS_ENABLE") {
		return nil, nil
	}
	logg.Debug("initializing Redis connection...")

	opts, err := dashboard.GetRedisOptions("WATCHER_DASHBOARD_REDIS")
	if err != nil {
		return nil, fmt.Errorf("cannot parse Redis options: %w", err)
	}
	return redis.NewClient(opts), nil
}
