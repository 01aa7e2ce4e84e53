// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package test

import (
	"errors"
	"net/http"

	"github.com/gophercloud/gophercloud/v2"
	"github.com/sapcc/go-bits/gopherpolicy"
	"github.com/sapcc/go-bits/mock"
)

// WatcherEndpoint is where the optimization service appears in the mock service catalog.
const WatcherEndpoint = "https://watcher.example.org/"

// Validator is a gopherpolicy.Validator for tests. Requests without an
// X-Auth-Token header are rejected. For all other requests, the token is
// accepted and carries a ProviderClient whose service catalog points the
// "infra-optim" service type at WatcherEndpoint.
type Validator struct {
	inner *mock.Validator[*mock.Enforcer]
}

// NewValidator builds a Validator that checks policy rules with the given enforcer.
func NewValidator(enforcer *mock.Enforcer) *Validator {
	return &Validator{mock.NewValidator(enforcer, map[string]string{
		"user_id":    "user1",
		"user_name":  "Alice",
		"project_id": "project1",
	})}
}

// CheckToken implements the gopherpolicy.Validator interface.
func (v *Validator) CheckToken(r *http.Request) *gopherpolicy.Token {
	tokenStr := r.Header.Get("X-Auth-Token")
	if tokenStr == "" {
		return &gopherpolicy.Token{Err: errors.New("X-Auth-Token header missing")}
	}

	token := v.inner.CheckToken(r)
	token.ProviderClient = NewProviderClient(tokenStr)
	return token
}

// NewProviderClient returns a ProviderClient holding the given token, whose
// service catalog only contains the optimization service at WatcherEndpoint.
func NewProviderClient(token string) *gophercloud.ProviderClient {
	provider := &gophercloud.ProviderClient{
		HTTPClient: http.Client{},
		EndpointLocator: func(eo gophercloud.EndpointOpts) (string, error) {
			if eo.Type != "infra-optim" {
				return "", &gophercloud.ErrEndpointNotFound{}
			}
			return WatcherEndpoint, nil
		},
	}
	provider.SetToken(token)
	return provider
}
