// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package watcher

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gophercloud/gophercloud/v2"
	"github.com/sapcc/go-api-declarations/bininfo"

	"github.com/sapcc/watcher-dashboard/internal/dashboard"
)

// ServiceType is the type of the optimization service in the Keystone catalog.
// It is also the service name in the OpenStack-API-Version header.
const ServiceType = "infra-optim"

// A copy of the stdlib transport, taken during package initialization.
// dashboard.SetupHTTPClient() later replaces http.DefaultTransport with a
// wrapper, so it cannot be cloned anymore at that point.
var baseTransport = cloneDefaultTransport()

func cloneDefaultTransport() *http.Transport {
	if t, ok := http.DefaultTransport.(*http.Transport); ok {
		return t.Clone()
	}
	// same settings as the stdlib default
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}

// ClientFactory produces gophercloud.ServiceClient instances for the
// optimization service, one per caller and microversion.
type ClientFactory struct {
	cfg        dashboard.ClientConfig
	httpClient http.Client
}

// NewClientFactory prepares a ClientFactory for the given configuration.
// The CA bundle (if any) is read once at this point.
func NewClientFactory(cfg dashboard.ClientConfig) (*ClientFactory, error) {
	f := &ClientFactory{cfg: cfg}
	if !cfg.InsecureSkipVerify && cfg.CACertFile == "" {
		// leave Transport unset so that http.DefaultTransport is used at request time
		return f, nil
	}

	tlsConfig := &tls.Config{
		InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec // only if WATCHER_DASHBOARD_SSL_NO_VERIFY is set
		MinVersion:         tls.VersionTLS12,
	}
	if cfg.CACertFile != "" {
		pemBytes, err := os.ReadFile(cfg.CACertFile)
		if err != nil {
			return nil, fmt.Errorf("cannot read CA bundle: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pemBytes) {
			return nil, fmt.Errorf("no certificates found in CA bundle %s", cfg.CACertFile)
		}
		tlsConfig.RootCAs = pool
	}

	transport := baseTransport.Clone()
	transport.TLSClientConfig = tlsConfig
	f.httpClient.Transport = transport
	return f, nil
}

// Connect builds a ServiceClient that sends requests to the optimization
// service on behalf of the given caller. Every request sent through it
// carries the header "OpenStack-API-Version: infra-optim <version>".
//
// A new ProviderClient is created on every call, so that connections never
// leak between callers or microversions.
func (f *ClientFactory) Connect(caller *gophercloud.ProviderClient, version Microversion) (*gophercloud.ServiceClient, error) {
	if caller == nil || caller.Token() == "" {
		return nil, ConnectionSetupError{Cause: errors.New("no Keystone token available")}
	}

	endpointURL := f.cfg.EndpointOverride
	if endpointURL == "" {
		if caller.EndpointLocator == nil {
			return nil, ConnectionSetupError{Cause: errors.New("no service catalog available")}
		}
		eo := gophercloud.EndpointOpts{
			// note that empty values are acceptable in both fields
			Region:       f.cfg.Region,
			Availability: f.cfg.Availability,
		}
		eo.ApplyDefaults(ServiceType)
		var err error
		endpointURL, err = caller.EndpointLocator(eo)
		if err != nil {
			return nil, ConnectionSetupError{Cause: fmt.Errorf("cannot find %s endpoint: %w", ServiceType, err)}
		}
	}
	endpointURL = gophercloud.NormalizeURL(endpointURL)

	provider := &gophercloud.ProviderClient{
		IdentityBase:     caller.IdentityBase,
		IdentityEndpoint: caller.IdentityEndpoint,
		HTTPClient:       f.httpClient,
		UserAgent:        caller.UserAgent,
		EndpointLocator:  caller.EndpointLocator,
	}
	provider.SetToken(caller.Token())
	if caller.ReauthFunc != nil {
		// service users (healthmonitor, CLI) renew their token through the caller
		provider.ReauthFunc = func(ctx context.Context) error {
			err := caller.Reauthenticate(ctx, provider.Token())
			if err != nil {
				return err
			}
			provider.CopyTokenFrom(caller)
			return nil
		}
	}
	provider.UserAgent.Prepend(fmt.Sprintf("%s/%s", bininfo.Component(), bininfo.VersionOr("rolling")))

	resourceBase := endpointURL
	if !strings.HasSuffix(resourceBase, "/v1/") {
		resourceBase += "v1/"
	}
	return &gophercloud.ServiceClient{
		ProviderClient: provider,
		Endpoint:       endpointURL,
		ResourceBase:   resourceBase,
		Type:           ServiceType,
		Microversion:   string(version),
	}, nil
}
