// SPDX-FileCopyrightText: 2026 SAP SE or an SAP affiliate company
// SPDX-License-Identifier: Apache-2.0

package watcher

import (
	"fmt"
	"strconv"
	"strings"
)

// Microversion is a version token of the infra-optim API, e.g. "1.0" or "latest".
type Microversion string

const (
	// MinimumMicroversion is used for requests that do not need any newer feature.
	MinimumMicroversion Microversion = "1.0"
	// TimeWindowMicroversion introduced start and end times for continuous audits.
	TimeWindowMicroversion Microversion = "1.1"
	// LatestMicroversion sorts above every numbered version.
	LatestMicroversion Microversion = "latest"
)

// Optional request fields that require a newer microversion than the minimum.
var fieldMicroversions = map[string]Microversion{
	"start_time": TimeWindowMicroversion,
	"end_time":   TimeWindowMicroversion,
}

// RequiredMicroversion returns the smallest microversion that supports all
// the given populated request fields. Fields that do not need a specific
// microversion are ignored.
func RequiredMicroversion(fields ...string) Microversion {
	result := MinimumMicroversion
	for _, field := range fields {
		v, exists := fieldMicroversions[field]
		if exists && result.Less(v) {
			result = v
		}
	}
	return result
}

// ParseMicroversion validates a user-supplied version token such as "1.1" or
// "latest".
func ParseMicroversion(input string) (Microversion, error) {
	v := Microversion(strings.TrimSpace(input))
	if v == LatestMicroversion {
		return v, nil
	}
	if _, _, ok := v.parse(); !ok {
		return "", fmt.Errorf(`malformed microversion %q: expected "<major>.<minor>" or "latest"`, input)
	}
	return v, nil
}

// Less implements the total order on microversions: numbered versions compare
// numerically per component, and "latest" is greater than all of them.
// Malformed version tokens sort below all well-formed ones.
func (v Microversion) Less(other Microversion) bool {
	if v == other {
		return false
	}
	if v == LatestMicroversion {
		return false
	}
	if other == LatestMicroversion {
		return true
	}

	lhsMajor, lhsMinor, lhsOK := v.parse()
	rhsMajor, rhsMinor, rhsOK := other.parse()
	switch {
	case !lhsOK || !rhsOK:
		return !lhsOK && rhsOK
	case lhsMajor != rhsMajor:
		return lhsMajor < rhsMajor
	default:
		return lhsMinor < rhsMinor
	}
}

// Max returns the greater of both microversions.
func (v Microversion) Max(other Microversion) Microversion {
	if v.Less(other) {
		return other
	}
	return v
}

func (v Microversion) parse() (major, minor int, ok bool) {
	majorStr, minorStr, found := strings.Cut(string(v), ".")
	if !found {
		return 0, 0, false
	}
	major, err := strconv.Atoi(majorStr)
	if err != nil || major < 0 {
		return 0, 0, false
	}
	minor, err = strconv.Atoi(minorStr)
	if err != nil || minor < 0 {
		return 0, 0, false
	}
	return major, minor, true
}
