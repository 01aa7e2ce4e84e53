// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package dashboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"

	"github.com/gophercloud/gophercloud/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sapcc/go-api-declarations/bininfo"
	"github.com/sapcc/go-bits/errext"
	"github.com/sapcc/go-bits/logg"
	"github.com/sapcc/go-bits/osext"
)

// Configuration contains all configuration values of the API server.
type Configuration struct {
	APIListenAddress string
	PolicyFilePath   string
	Client           ClientConfig
}

// ClientConfig contains everything needed to reach the optimization service,
// except for the caller's credentials.
type ClientConfig struct {
	// InsecureSkipVerify disables TLS certificate verification towards the optimization service.
	InsecureSkipVerify bool
	// CACertFile, if not empty, is a PEM bundle of CAs to trust for the optimization service.
	CACertFile string
	// EndpointOverride, if not empty, is used instead of looking up the service catalog.
	EndpointOverride string
	Region           string
	Availability     gophercloud.Availability
}

// ParseConfiguration obtains a dashboard.Configuration instance from the
// corresponding environment variables. Aborts on error.
func ParseConfiguration() Configuration {
	logg.Debug("parsing configuration...")

	cfg := Configuration{
		APIListenAddress: osext.GetenvOrDefault("WATCHER_DASHBOARD_API_LISTEN_ADDRESS", ":8080"),
		PolicyFilePath:   osext.MustGetenv("WATCHER_DASHBOARD_OSLO_POLICY_PATH"),
	}
	var errs errext.ErrorSet
	cfg.Client, errs = ParseClientConfig()
	errs.LogFatalIfError()
	return cfg
}

// ParseClientConfig reads the ClientConfig from environment variables.
// This is used by both the API server and the CLI client.
func ParseClientConfig() (ClientConfig, errext.ErrorSet) {
	var errs errext.ErrorSet
	cfg := ClientConfig{
		InsecureSkipVerify: osext.GetenvBool("WATCHER_DASHBOARD_SSL_NO_VERIFY"),
		CACertFile:         os.Getenv("WATCHER_DASHBOARD_SSL_CACERT"),
		Region:             os.Getenv("OS_REGION_NAME"),
	}

	if cfg.CACertFile != "" {
		_, err := os.Stat(cfg.CACertFile)
		if err != nil {
			errs.Addf("cannot use WATCHER_DASHBOARD_SSL_CACERT: %w", err)
		}
	}

	override := os.Getenv("WATCHER_DASHBOARD_ENDPOINT_OVERRIDE")
	if override != "" {
		u, err := url.Parse(override)
		switch {
		case err != nil:
			errs.Addf("malformed WATCHER_DASHBOARD_ENDPOINT_OVERRIDE: %w", err)
		case u.Scheme != "http" && u.Scheme != "https":
			errs.Addf("malformed WATCHER_DASHBOARD_ENDPOINT_OVERRIDE: expected http:// or https:// URL, but got %q", override)
		default:
			cfg.EndpointOverride = override
		}
	}

	availability, err := ParseAvailability(os.Getenv("OS_INTERFACE"))
	if err != nil {
		errs.Addf("invalid value for OS_INTERFACE: %w", err)
	}
	cfg.Availability = availability

	return cfg, errs
}

// ParseAvailability converts the value of OS_INTERFACE (or the equivalent CLI
// flag) into a gophercloud.Availability. The empty string selects the default.
func ParseAvailability(input string) (gophercloud.Availability, error) {
	switch input {
	case "", "public", "publicURL":
		return gophercloud.AvailabilityPublic, nil
	case "internal", "internalURL":
		return gophercloud.AvailabilityInternal, nil
	case "admin", "adminURL":
		return gophercloud.AvailabilityAdmin, nil
	default:
		return "", fmt.Errorf("expected one of \"public\", \"internal\", \"admin\", but got %q", input)
	}
}

// GetRedisOptions returns a redis.Options by getting the required parameters
// from environment variables:
//
//	REDIS_PASSWORD, REDIS_HOSTNAME, REDIS_PORT, and REDIS_DB_NUM.
//
// The environment variable keys are prefixed with the provided prefix.
func GetRedisOptions(prefix string) (*redis.Options, error) {
	pass := os.Getenv(prefix + "_PASSWORD")
	host := osext.GetenvOrDefault(prefix+"_HOSTNAME", "localhost")
	port := osext.GetenvOrDefault(prefix+"_PORT", "6379")
	dbNum := osext.GetenvOrDefault(prefix+"_DB_NUM", "0")
	db, err := strconv.Atoi(dbNum)
	if err != nil {
		return nil, fmt.Errorf("invalid value for %s: %q", prefix+"_DB_NUM", dbNum)
	}

	return &redis.Options{
		Network:    "tcp",
		Password:   pass,
		Addr:       net.JoinHostPort(host, port),
		ClientName: bininfo.Component(),
		DB:         db,
	}, nil
}

// UnmarshalJSONStrict is like yaml.UnmarshalStrict(), but for JSON.
func UnmarshalJSONStrict(buf []byte, target any) error {
	dec := json.NewDecoder(bytes.NewReader(buf))
	dec.DisallowUnknownFields()
	return dec.Decode(target)
}
