// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package watcher

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gophercloud/gophercloud/v2"
	"github.com/sapcc/go-bits/errext"

	"github.com/sapcc/watcher-dashboard/internal/models"
)

// ConnectionSetupError is returned when no connection to the optimization
// service could be established, e.g. because the caller has no token or the
// service is missing from the service catalog.
type ConnectionSetupError struct {
	Cause error
}

// Error implements the builtin/error interface.
func (e ConnectionSetupError) Error() string {
	return "cannot connect to the optimization service: " + e.Cause.Error()
}

// Unwrap implements the interface implied by errors.Unwrap().
func (e ConnectionSetupError) Unwrap() error {
	return e.Cause
}

// NotFoundError is returned when the optimization service reports that the
// requested entity does not exist.
type NotFoundError struct {
	Kind models.EntityKind
	ID   string
}

// Error implements the builtin/error interface.
func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind.DisplayName(), e.ID)
}

// DuplicateFieldError is returned by PatchAuditTemplate when the same field
// appears more than once in one update.
type DuplicateFieldError struct {
	Field string
}

// Error implements the builtin/error interface.
func (e DuplicateFieldError) Error() string {
	return fmt.Sprintf("field %q may only be updated once per request", e.Field)
}

// RemoteRejectedError is returned when the optimization service refuses a
// request as invalid or conflicting.
type RemoteRejectedError struct {
	Status  int
	Message string
}

// Error implements the builtin/error interface.
func (e RemoteRejectedError) Error() string {
	return fmt.Sprintf("request rejected by the optimization service with status %d: %s", e.Status, e.Message)
}

// ValidationError is returned when a request is rejected locally before
// being sent to the optimization service.
type ValidationError struct {
	Message string
}

// Error implements the builtin/error interface.
func (e ValidationError) Error() string {
	return e.Message
}

func validationErrorf(msg string, args ...any) ValidationError {
	return ValidationError{Message: fmt.Sprintf(msg, args...)}
}

// translateError maps an error from gophercloud into our error taxonomy.
// If `id` is empty, 404 responses are not treated as NotFoundError since the
// request did not refer to a single entity.
func translateError(err error, kind models.EntityKind, id string) error {
	if err == nil {
		return nil
	}
	ue, ok := errext.As[gophercloud.ErrUnexpectedResponseCode](err)
	if !ok {
		return fmt.Errorf("while talking to the optimization service: %w", err)
	}

	switch ue.Actual {
	case http.StatusNotFound:
		if id != "" {
			return NotFoundError{Kind: kind, ID: id}
		}
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		return RemoteRejectedError{Status: ue.Actual, Message: extractFaultString(ue.Body)}
	}
	return fmt.Errorf("unexpected response from the optimization service: %w", err)
}

// extractFaultString pulls the human-readable message out of an error
// response body. The optimization service wraps its fault object as a JSON
// string inside {"error_message": "..."}, but some proxies answer with the
// bare object or with plain text.
func extractFaultString(body []byte) string {
	var envelope struct {
		ErrorMessage json.RawMessage `json:"error_message"`
	}
	err := json.Unmarshal(body, &envelope)
	if err != nil || len(envelope.ErrorMessage) == 0 {
		return strings.TrimSpace(string(body))
	}

	faultJSON := []byte(envelope.ErrorMessage)
	var encoded string
	if json.Unmarshal(envelope.ErrorMessage, &encoded) == nil {
		faultJSON = []byte(encoded)
	}

	var fault struct {
		FaultString string `json:"faultstring"`
	}
	if json.Unmarshal(faultJSON, &fault) == nil && fault.FaultString != "" {
		return fault.FaultString
	}
	if encoded != "" {
		return encoded
	}
	return strings.TrimSpace(string(body))
}
